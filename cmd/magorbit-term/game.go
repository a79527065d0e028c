package main

import (
	"fmt"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/gonewx/magorbit/pkg/arena"
	"github.com/gonewx/magorbit/pkg/config"
	"github.com/gonewx/magorbit/pkg/game"
	"github.com/gonewx/magorbit/pkg/systems"
)

// termGame 终端版的一次游玩
type termGame struct {
	screen  tcell.Screen
	canvas  *canvas
	tuning  *config.TuningConfig
	storage *game.Storage
	session *arena.Session
	keys    *keyboard
	muted   bool

	frame    arena.Frame
	recorded bool
	bestLine string
	last     time.Time
}

func newTermGame(screen tcell.Screen, tuning *config.TuningConfig, storage *game.Storage, cues systems.CuePlayer, opts arena.Options) *termGame {
	w, h := screen.Size()
	opts.Cues = cues
	opts.FirstRun = !storage.Scores.TutorialSeen()
	g := &termGame{
		screen:  screen,
		canvas:  newCanvas(w, h),
		tuning:  tuning,
		storage: storage,
		session: arena.NewSession(tuning, opts),
		keys:    newKeyboard(),
		muted:   cues == nil,
		last:    time.Now(),
	}
	if opts.FirstRun {
		if err := storage.Scores.MarkTutorialSeen(); err != nil {
			log.Printf("[Term] Warning: Failed to mark tutorial seen: %v", err)
		}
	}
	return g
}

// handleEvent 处理一个终端事件，返回 false 表示退出
func (g *termGame) handleEvent(ev tcell.Event, now time.Time) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return g.handleAction(mapKey(ev), now)
	case *tcell.EventResize:
		w, h := g.screen.Size()
		g.canvas = newCanvas(w, h)
		g.screen.Sync()
	}
	return true
}

// handleAction 处理一个操作，返回 false 表示退出
// Esc 在对局中暂停，在结算时退出
func (g *termGame) handleAction(a action, now time.Time) bool {
	switch a {
	case actQuit:
		return false
	case actBack:
		if g.session.Over() {
			return false
		}
		a = actPause
	}
	g.keys.press(a, now)
	return true
}

// tick 推进一帧
func (g *termGame) tick(now time.Time) {
	dt := now.Sub(g.last).Seconds()
	g.last = now

	// 对局中的回车不留到结算
	if g.keys.take(actConfirm) && g.session.Over() {
		g.restart()
		return
	}
	choices := g.frame.UpgradeChoices
	if i := g.keys.choice(len(choices)); i >= 0 {
		g.session.ResolveUpgrade(choices[i].ID)
	}

	g.frame = g.session.Step(dt, g.keys.input(now))
	if g.session.Over() {
		g.record()
	}
}

// record 本局结果只写入一次
func (g *termGame) record() {
	if g.recorded {
		return
	}
	res, ok := g.session.Result()
	if !ok {
		return
	}
	g.recorded = true

	prev := g.storage.Scores.BestScore()
	newBest, err := g.storage.Scores.Record(game.RunRecord{
		Outcome:         res.Outcome,
		Difficulty:      res.Difficulty,
		FinalScore:      res.FinalScore,
		SurvivedSeconds: res.SurvivedSeconds,
		ScrapCollected:  res.ScrapCollected,
		ScrapDelivered:  res.ScrapDelivered,
	})
	if err != nil {
		log.Printf("[Term] Warning: Failed to save run: %v", err)
	}
	if newBest {
		g.bestLine = fmt.Sprintf("NEW BEST! (was %d)", prev)
	} else {
		g.bestLine = fmt.Sprintf("BEST %d", prev)
	}
}

func (g *termGame) restart() {
	g.session.Restart()
	g.keys.reset()
	g.recorded = false
	g.bestLine = ""
	g.frame = arena.Frame{}
}

func (g *termGame) draw() {
	render(g.canvas, view{Frame: g.frame, BestLine: g.bestLine, Muted: g.muted}, g.tuning)
	g.canvas.flush(g.screen)
}

// run 主循环：事件在独立 goroutine 中读取，约 60 帧每秒推进
func (g *termGame) run() {
	ticker := time.NewTicker(16 * time.Millisecond)
	defer ticker.Stop()

	done := make(chan struct{})
	defer close(done)
	eventChan := pollEvents(g.screen, done, 100)

	for {
		select {
		case ev, ok := <-eventChan:
			if !ok || !g.handleEvent(ev, time.Now()) {
				return
			}
		case now := <-ticker.C:
			g.tick(now)
			g.draw()
		}
	}
}

// pollEvents 在 goroutine 中转发终端事件
// done 关闭后不再阻塞在发送上；屏幕 Fini 后 PollEvent 返回 nil，通道随之关闭
func pollEvents(screen tcell.Screen, done <-chan struct{}, size int) <-chan tcell.Event {
	out := make(chan tcell.Event, size)
	go func() {
		defer close(out)
		for {
			select {
			case <-done:
				return
			default:
			}

			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case out <- ev:
			case <-done:
				return
			}
		}
	}()
	return out
}
