package scenes

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/gonewx/magorbit/pkg/arena"
)

// KeySource 键盘状态来源
type KeySource interface {
	Pressed(key ebiten.Key) bool
	JustPressed(key ebiten.Key) bool
}

// ebitenKeys 读取 Ebitengine 的实时键盘状态
type ebitenKeys struct{}

func (ebitenKeys) Pressed(key ebiten.Key) bool     { return ebiten.IsKeyPressed(key) }
func (ebitenKeys) JustPressed(key ebiten.Key) bool { return inpututil.IsKeyJustPressed(key) }

func anyPressed(ks KeySource, keys ...ebiten.Key) bool {
	for _, k := range keys {
		if ks.Pressed(k) {
			return true
		}
	}
	return false
}

func anyJustPressed(ks KeySource, keys ...ebiten.Key) bool {
	for _, k := range keys {
		if ks.JustPressed(k) {
			return true
		}
	}
	return false
}

// ReadInput 把键盘状态映射为一帧的操作
//
// 方向键/WASD 转向与推进，空格按住维持磁场、按下切换极性，
// Shift 冲能，E 交付，P 或 Esc 暂停。
func ReadInput(ks KeySource) arena.Input {
	return arena.Input{
		Left:       anyPressed(ks, ebiten.KeyArrowLeft, ebiten.KeyA),
		Right:      anyPressed(ks, ebiten.KeyArrowRight, ebiten.KeyD),
		Forward:    anyPressed(ks, ebiten.KeyArrowUp, ebiten.KeyW),
		Reverse:    anyPressed(ks, ebiten.KeyArrowDown, ebiten.KeyS),
		MagnetHeld: ks.Pressed(ebiten.KeySpace),

		MagnetToggle: ks.JustPressed(ebiten.KeySpace),
		Surge:        anyJustPressed(ks, ebiten.KeyShiftLeft, ebiten.KeyShiftRight),
		Deposit:      ks.JustPressed(ebiten.KeyE),
		PauseToggle:  anyJustPressed(ks, ebiten.KeyP, ebiten.KeyEscape),
	}
}

// upgradeKeys 升级选择键
var upgradeKeys = []ebiten.Key{ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3}

// ReadUpgradeChoice 读取升级选择，返回候选下标，没有按键时为 -1
func ReadUpgradeChoice(ks KeySource, count int) int {
	for i, k := range upgradeKeys {
		if i < count && ks.JustPressed(k) {
			return i
		}
	}
	return -1
}
