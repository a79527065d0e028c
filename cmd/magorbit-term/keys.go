package main

import (
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/gonewx/magorbit/pkg/arena"
)

// action 终端按键映射到的操作
type action int

const (
	actNone action = iota
	actLeft
	actRight
	actForward
	actReverse
	actMagnet
	actSurge
	actDeposit
	actPause
	actChoice1
	actChoice2
	actChoice3
	actConfirm
	actBack
	actQuit
)

// 终端只有按下事件没有松开事件，按住靠自动重复维持：
// 首次按下后要等过键盘重复延迟，之后每次重复只需短暂保持。
const (
	initialHold = 550 * time.Millisecond
	repeatHold  = 120 * time.Millisecond
)

// mapKey 把 tcell 按键映射为操作
// 方向键/WASD 转向与推进，空格磁场，F 或 Tab 冲能，E 交付，P 暂停，1-3 选择升级
func mapKey(ev *tcell.EventKey) action {
	return mapKeyCode(ev.Key(), ev.Rune())
}

func mapKeyCode(key tcell.Key, r rune) action {
	switch key {
	case tcell.KeyLeft:
		return actLeft
	case tcell.KeyRight:
		return actRight
	case tcell.KeyUp:
		return actForward
	case tcell.KeyDown:
		return actReverse
	case tcell.KeyTab:
		return actSurge
	case tcell.KeyEnter:
		return actConfirm
	case tcell.KeyEscape:
		return actBack
	case tcell.KeyCtrlC:
		return actQuit
	case tcell.KeyRune:
		switch unicode.ToLower(r) {
		case 'a':
			return actLeft
		case 'd':
			return actRight
		case 'w':
			return actForward
		case 's':
			return actReverse
		case ' ':
			return actMagnet
		case 'f':
			return actSurge
		case 'e':
			return actDeposit
		case 'p':
			return actPause
		case '1':
			return actChoice1
		case '2':
			return actChoice2
		case '3':
			return actChoice3
		case 'q':
			return actQuit
		}
	}
	return actNone
}

type keyHold struct {
	first   time.Time
	last    time.Time
	repeats int
}

// keyboard 从按下事件推断按住与刚按下状态
type keyboard struct {
	holds   map[action]*keyHold
	pending map[action]bool
}

func newKeyboard() *keyboard {
	return &keyboard{
		holds:   make(map[action]*keyHold),
		pending: make(map[action]bool),
	}
}

// press 记录一次按下事件（包括自动重复）
func (k *keyboard) press(a action, now time.Time) {
	if a == actNone {
		return
	}
	if h, ok := k.holds[a]; ok && k.heldAt(h, now) {
		h.last = now
		h.repeats++
		return
	}
	k.holds[a] = &keyHold{first: now, last: now}
	k.pending[a] = true
}

func (k *keyboard) heldAt(h *keyHold, now time.Time) bool {
	window := repeatHold
	if h.repeats == 0 {
		window = initialHold
	}
	return now.Sub(h.last) <= window
}

// held 操作在 now 时是否仍被按住
func (k *keyboard) held(a action, now time.Time) bool {
	h, ok := k.holds[a]
	return ok && k.heldAt(h, now)
}

// take 取出刚按下的状态，每次按下只报告一次
func (k *keyboard) take(a action) bool {
	if k.pending[a] {
		delete(k.pending, a)
		return true
	}
	return false
}

// input 生成本帧的操作并清空刚按下的状态
func (k *keyboard) input(now time.Time) arena.Input {
	return arena.Input{
		Left:       k.held(actLeft, now),
		Right:      k.held(actRight, now),
		Forward:    k.held(actForward, now),
		Reverse:    k.held(actReverse, now),
		MagnetHeld: k.held(actMagnet, now),

		MagnetToggle: k.take(actMagnet),
		Surge:        k.take(actSurge),
		Deposit:      k.take(actDeposit),
		PauseToggle:  k.take(actPause),
	}
}

// choice 取出升级选择，返回候选下标，没有按键时为 -1
// count 为 0 时只丢弃按键
func (k *keyboard) choice(count int) int {
	for i, a := range []action{actChoice1, actChoice2, actChoice3} {
		if k.take(a) && i < count {
			return i
		}
	}
	return -1
}

// reset 清空全部状态（重新开局时）
func (k *keyboard) reset() {
	clear(k.holds)
	clear(k.pending)
}
