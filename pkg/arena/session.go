package arena

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/gonewx/magorbit/pkg/config"
	"github.com/gonewx/magorbit/pkg/game"
	"github.com/gonewx/magorbit/pkg/systems"
	"github.com/gonewx/magorbit/pkg/utils"
)

// Input 一帧的操作
// 持续键（方向、磁场）按住即为 true；触发键（切换、冲能、交付、暂停）只在按下那一帧为 true
type Input struct {
	Left       bool
	Right      bool
	Forward    bool
	Reverse    bool
	MagnetHeld bool

	MagnetToggle bool
	Surge        bool
	Deposit      bool
	PauseToggle  bool
}

// Moving 是否有方向输入
func (in Input) Moving() bool {
	return in.Left || in.Right || in.Forward || in.Reverse
}

// HUD 抬头显示所需的数值
type HUD struct {
	HP            int
	MaxHP         int
	Score         int
	TimeLeft      int
	Wave          string
	Chapter       string
	Magnet        string
	HeatPercent   int
	Locked        bool
	SurgeActive   bool
	SurgeReady    bool
	SurgeCooldown float64
	Combo         string
	ComboActive   bool
	Carry         int
	MaxCarry      int
	Delivered     int
	Quota         int
	InZone        bool
	BossPhase     int
	BossHP        float64 // 最终首领剩余血量比例，未出场为 -1
	Paused        bool
	Difficulty    string
}

// Frame 一帧的完整渲染快照
type Frame struct {
	Shapes []Shape
	HUD    HUD

	Toast          *game.ActiveToast
	OverlayKey     string
	OverlayMessage string
	Objective      string
	Feedback       []string // 本帧的反馈事件键

	UpgradeChoices []config.UpgradeOption
	End            *game.EndPayload

	ShakeX, ShakeY float64
	HitFlash       float64
}

// RunResult 结束后的统计，用于写入存档
type RunResult struct {
	Outcome         string
	Difficulty      string
	FinalScore      int
	SurvivedSeconds int
	ScrapCollected  int
	ScrapDelivered  int
}

// Options 会话参数
type Options struct {
	Difficulty string
	FirstRun   bool  // 首局显示教学遮罩
	Seed       int64 // 0 表示使用当前时间
	Cues       systems.CuePlayer
	Upgrades   UpgradeHandler
}

// Session 一次游玩会话：可多次开局，运行状态机跨局保留（失败提示持续轮换）
type Session struct {
	tuning  *config.TuningConfig
	opts    Options
	runtime *game.GameRuntime
	toasts  *game.ToastQueue
	rng     *rand.Rand
	arena   *Arena

	clockMs   float64
	overlay   game.Event
	objective string
	end       *game.EndPayload
	feedback  []string
	runs      int
}

// NewSession 创建会话并立即开始第一局
func NewSession(tuning *config.TuningConfig, opts Options) *Session {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if opts.Cues == nil {
		opts.Cues = systems.NopCuePlayer{}
	}
	if opts.Upgrades == nil {
		opts.Upgrades = nopUpgradeHandler{}
	}

	s := &Session{
		tuning:  tuning,
		opts:    opts,
		runtime: game.NewGameRuntime(tuning.Runtime),
		toasts:  game.NewToastQueue(tuning.Toasts),
		rng:     rand.New(rand.NewSource(seed)),
	}
	s.Restart()
	return s
}

// Restart 开始新的一局
// 只有会话的第一局会沿用 Options.FirstRun
func (s *Session) Restart() {
	firstRun := s.opts.FirstRun && s.runs == 0
	s.runs++

	s.toasts.Reset()
	s.overlay = game.Event{}
	s.objective = ""
	s.end = nil
	s.feedback = nil

	s.runtime.StartRun(game.RunOptions{FirstRun: firstRun})
	s.arena = New(s.tuning, s.opts.Difficulty, s.runtime, s.opts.Cues, s.opts.Upgrades, s.rng)
	log.Printf("[Session] Run %d started (firstRun=%v)", s.runs, firstRun)
}

// Runtime 运行状态机
func (s *Session) Runtime() *game.GameRuntime {
	return s.runtime
}

// Arena 当前战斗世界
func (s *Session) Arena() *Arena {
	return s.arena
}

// Over 本局是否已结束
func (s *Session) Over() bool {
	return s.end != nil
}

// TogglePause 切换暂停，等待升级或已结束时无效
func (s *Session) TogglePause() {
	if s.Over() || s.arena.WaitingForUpgrade {
		return
	}
	s.arena.SetPaused(!s.arena.Paused)
}

// ResolveUpgrade 选择升级
func (s *Session) ResolveUpgrade(id string) bool {
	return s.arena.ResolveUpgrade(id)
}

// Step 推进一帧并返回渲染快照
//
// 参数：
//   - dt: 帧间隔（秒），非有限值按 0 处理，超过上限时截断
//   - in: 本帧输入
func (s *Session) Step(dt float64, in Input) Frame {
	dt = utils.Clamp(utils.FiniteNonNegative(dt), 0, s.tuning.Arena.MaxFrameSeconds)
	s.feedback = s.feedback[:0]

	if in.PauseToggle {
		s.TogglePause()
	}
	if !s.Over() {
		s.applyInput(in)
		s.arena.Update(dt, in)
		s.runtime.Tick(dt)
		if !s.runtime.IsRunning() {
			s.arena.GameOver = true
		}
	}

	s.clockMs += dt * 1000
	s.routeEvents(s.runtime.DrainEvents())
	active := s.toasts.Tick(s.clockMs).Active

	return s.frame(active)
}

func (s *Session) applyInput(in Input) {
	a := s.arena
	if in.MagnetToggle {
		a.ToggleMagnet()
	}
	if in.Surge {
		a.StartSurge()
	}
	if in.Deposit {
		a.TryDeposit()
	}
	if in.Moving() && !a.Paused {
		s.runtime.RegisterMovement()
	}
}

// routeEvents 分发运行时事件：提示进入队列，其余更新会话状态
func (s *Session) routeEvents(events []game.Event) {
	for _, e := range events {
		switch e.Type {
		case game.EventToast:
			s.toasts.Enqueue(game.ToastItem{Key: e.Key, Message: e.Message, Tone: e.Tone, Values: e.Values}, s.clockMs)
		case game.EventOverlay:
			s.overlay = e
		case game.EventObjective:
			s.objective = e.Message
		case game.EventFeedback:
			s.feedback = append(s.feedback, e.Key)
		case game.EventEnd:
			s.toasts.Reset()
			s.end = e.End
			log.Printf("[Session] Run ended: %s (score=%d)", e.End.Outcome, e.End.Stats.FinalScore)
		}
	}
}

// Result 结束后的统计；未结束时第二个返回值为 false
func (s *Session) Result() (RunResult, bool) {
	if s.end == nil {
		return RunResult{}, false
	}
	st := s.end.Stats
	return RunResult{
		Outcome:         s.end.Outcome,
		Difficulty:      s.arena.Difficulty(),
		FinalScore:      st.FinalScore,
		SurvivedSeconds: st.SurvivedSeconds,
		ScrapCollected:  st.ScrapCollected,
		ScrapDelivered:  st.ScrapDelivered,
	}, true
}

func (s *Session) frame(active *game.ActiveToast) Frame {
	a := s.arena
	snap := s.runtime.GetSnapshot()

	bossHP := -1.0
	if a.Director.Boss != nil && a.Director.Boss.Active {
		bossHP = a.Director.Boss.HPFraction()
	}

	f := Frame{
		Shapes: a.Shapes(),
		HUD: HUD{
			HP:            snap.HP,
			MaxHP:         snap.MaxHP,
			Score:         snap.ScoreRounded,
			TimeLeft:      snap.TimeLeftRounded,
			Wave:          a.WaveLabel,
			Chapter:       a.Story.Chapter().Label,
			Magnet:        a.Magnet.Label(),
			HeatPercent:   a.Magnet.HeatPercent(),
			Locked:        a.Magnet.Locked,
			SurgeActive:   a.Magnet.SurgeActive,
			SurgeReady:    a.Magnet.SurgeReady(),
			SurgeCooldown: a.Magnet.SurgeCooldown,
			Combo:         fmt.Sprintf("x%.1f", snap.Combo),
			ComboActive:   snap.ComboRemaining > 0,
			Carry:         snap.CarryCount,
			MaxCarry:      snap.MaxCarry,
			Delivered:     snap.Delivered,
			Quota:         snap.Quota,
			InZone:        a.InZone(),
			BossPhase:     a.BossPhase,
			BossHP:        bossHP,
			Paused:        a.Paused,
			Difficulty:    a.Difficulty(),
		},
		Objective:      s.objective,
		Feedback:       append([]string(nil), s.feedback...),
		UpgradeChoices: append([]config.UpgradeOption(nil), a.UpgradeChoices...),
		End:            s.end,
		HitFlash:       a.VFX.HitFlash,
	}
	if active != nil {
		t := *active
		f.Toast = &t
	}
	if s.overlay.Visible {
		f.OverlayKey = s.overlay.Key
		f.OverlayMessage = s.overlay.Message
	}
	shake := a.VFX.ShakeOffset()
	f.ShakeX, f.ShakeY = shake.X, shake.Y
	return f
}
