package game

import (
	"math"
	"strings"
	"testing"

	"github.com/gonewx/magorbit/pkg/config"
)

func newTestRuntime() (*GameRuntime, config.RuntimeConfig) {
	cfg := config.MustDefaultTuning().Runtime
	return NewGameRuntime(cfg), cfg
}

func countEvents(events []Event, typ EventType, key string) int {
	n := 0
	for _, e := range events {
		if e.Type == typ && (key == "" || e.Key == key) {
			n++
		}
	}
	return n
}

func findEnd(events []Event) *EndPayload {
	for _, e := range events {
		if e.Type == EventEnd {
			return e.End
		}
	}
	return nil
}

func TestRuntimeStartRun(t *testing.T) {
	r, cfg := newTestRuntime()
	if r.Status() != StatusIdle {
		t.Fatalf("初始状态 = %s, want idle", r.Status())
	}

	r.StartRun(RunOptions{})
	snap := r.GetSnapshot()
	if snap.Status != StatusRunning || snap.HP != cfg.Integrity || snap.TimeLeft != cfg.RunDurationSeconds {
		t.Errorf("snapshot = %+v", snap)
	}
	if snap.OverlayKey != OverlayMissionIntro {
		t.Errorf("OverlayKey = %q, want mission_intro", snap.OverlayKey)
	}

	events := r.DrainEvents()
	if countEvents(events, EventObjective, "") != 1 || countEvents(events, EventOverlay, OverlayMissionIntro) != 1 {
		t.Errorf("开局事件 = %+v", events)
	}
	if again := r.DrainEvents(); len(again) != 0 {
		t.Errorf("第二次 drain 应为空, got %d", len(again))
	}
}

// TestRuntimeIntegrityLoss 两点生命受伤两次后以 ko 结束，仅第二次产生 end
func TestRuntimeIntegrityLoss(t *testing.T) {
	r, cfg := newTestRuntime()
	r.StartRun(RunOptions{Integrity: 2})
	r.DrainEvents()

	r.TakeDamage()
	events := r.DrainEvents()
	if countEvents(events, EventEnd, "") != 0 {
		t.Fatal("第一次受伤不应结束")
	}
	if countEvents(events, EventToast, "damage") != 1 || countEvents(events, EventFeedback, "damage") != 1 {
		t.Errorf("受伤事件 = %+v", events)
	}

	r.TakeDamage()
	events = r.DrainEvents()
	if r.Status() != StatusLost {
		t.Errorf("Status = %s, want lost", r.Status())
	}
	if countEvents(events, EventEnd, "") != 1 {
		t.Fatalf("end 事件数 = %d, want 1", countEvents(events, EventEnd, ""))
	}
	end := findEnd(events)
	if end.Outcome != OutcomeKO || end.Title != cfg.Copy.EndFailTitle || end.Body != cfg.Copy.EndFailBody {
		t.Errorf("end = %+v", end)
	}
	if end.PrimaryAction != "Restart" || end.SecondaryAction != "Quit to Title" {
		t.Errorf("actions = %q / %q", end.PrimaryAction, end.SecondaryAction)
	}
	if !strings.HasPrefix(end.Tip, "Tip:") {
		t.Errorf("Tip = %q", end.Tip)
	}

	// 结束后所有操作都被忽略
	r.TakeDamage()
	r.Tick(1)
	r.TriggerBossDefeat()
	if got := r.DrainEvents(); len(got) != 0 {
		t.Errorf("结束后不应再有事件, got %+v", got)
	}
}

func TestRuntimeTimerComplete(t *testing.T) {
	r, cfg := newTestRuntime()
	r.StartRun(RunOptions{})
	r.DrainEvents()

	r.Tick(cfg.RunDurationSeconds + 0.1)
	events := r.DrainEvents()
	if r.Status() != StatusCompleted {
		t.Errorf("Status = %s, want completed", r.Status())
	}
	if countEvents(events, EventEnd, "") != 1 {
		t.Fatalf("end 事件数 = %d", countEvents(events, EventEnd, ""))
	}
	end := findEnd(events)
	if end.Outcome != OutcomeTimerComplete || end.Title != cfg.Copy.EndTimerTitle {
		t.Errorf("end = %+v", end)
	}
	if end.Stats.SurvivedSeconds != int(cfg.RunDurationSeconds) {
		t.Errorf("SurvivedSeconds = %d", end.Stats.SurvivedSeconds)
	}
	if end.Stats.FinalScore != 360*cfg.SurvivalScorePerSecond {
		t.Errorf("FinalScore = %d", end.Stats.FinalScore)
	}

	r.Tick(1)
	if len(r.DrainEvents()) != 0 {
		t.Error("终局后 Tick 不应产生事件")
	}
}

func TestRuntimeVictory(t *testing.T) {
	r, cfg := newTestRuntime()
	r.StartRun(RunOptions{})
	r.DrainEvents()

	r.TriggerBossDefeat()
	end := findEnd(r.DrainEvents())
	if r.Status() != StatusWon || end == nil {
		t.Fatalf("Status = %s", r.Status())
	}
	if end.Outcome != OutcomeVictory || end.Title != cfg.Copy.EndWinTitle || end.Tip != "" {
		t.Errorf("end = %+v", end)
	}
}

// TestRuntimePauseFreeze 暂停冻结全部状态，恢复后不补偿时间
func TestRuntimePauseFreeze(t *testing.T) {
	r, _ := newTestRuntime()
	r.StartRun(RunOptions{})
	r.Tick(5)
	r.DrainEvents()

	before := r.GetSnapshot()
	r.SetPaused(true)

	r.Tick(10)
	r.TakeDamage()
	r.CollectScrap(60)
	r.DepositCarry()
	r.AddScore(500)
	r.RegisterMovement()
	r.PushNarrativeToast("x", "y", ToneNeutral)
	r.SetObjective("z")
	r.TriggerBossDefeat()

	after := r.GetSnapshot()
	if !after.Paused {
		t.Error("snapshot 应标记暂停")
	}
	if after.Elapsed != before.Elapsed || after.HP != before.HP || after.Score != before.Score || after.CarryCount != 0 {
		t.Errorf("暂停期间状态变化: before=%+v after=%+v", before, after)
	}
	if events := r.DrainEvents(); len(events) != 0 {
		t.Errorf("暂停期间不应有事件, got %+v", events)
	}

	r.SetPaused(false)
	r.Tick(0.5)
	if got := r.GetSnapshot().Elapsed; math.Abs(got-5.5) > 1e-9 {
		t.Errorf("Elapsed = %v, want 5.5", got)
	}
}

func TestRuntimeEndFromGameOverWhilePaused(t *testing.T) {
	r, _ := newTestRuntime()
	r.StartRun(RunOptions{})
	r.DrainEvents()
	r.SetPaused(true)

	r.EndRunFromGameOver()
	if r.Status() != StatusLost || r.IsPaused() {
		t.Errorf("Status = %s paused = %v", r.Status(), r.IsPaused())
	}
	if countEvents(r.DrainEvents(), EventEnd, OutcomeKO) != 1 {
		t.Error("应产生一个 ko end 事件")
	}

	r.EndRunFromGameOver()
	if len(r.DrainEvents()) != 0 {
		t.Error("重复结束不应产生事件")
	}
}

func TestRuntimeOneShotToasts(t *testing.T) {
	r, _ := newTestRuntime()
	r.StartRun(RunOptions{})
	r.DrainEvents()

	r.Tick(58.5)
	events := r.DrainEvents()
	if countEvents(events, EventToast, "phase_two") != 1 {
		t.Error("phase_two 应触发一次")
	}
	r.Tick(10)
	if countEvents(r.DrainEvents(), EventToast, "phase_two") != 0 {
		t.Error("phase_two 只触发一次")
	}

	r.Tick(100)
	events = r.DrainEvents()
	if countEvents(events, EventToast, "phase_three") != 1 {
		t.Error("phase_three 应触发一次")
	}

	r.Tick(170)
	events = r.DrainEvents()
	if countEvents(events, EventToast, "end_critical") != 1 || countEvents(events, EventFeedback, "timer_low") != 1 {
		t.Errorf("低时间提示 = %+v", events)
	}
	r.Tick(1)
	if countEvents(r.DrainEvents(), EventToast, "end_critical") != 0 {
		t.Error("低时间提示只触发一次")
	}
}

func TestRuntimeRunStartCadence(t *testing.T) {
	t.Run("首次移动触发", func(t *testing.T) {
		r, _ := newTestRuntime()
		r.StartRun(RunOptions{})
		if countEvents(r.DrainEvents(), EventToast, "run_start") != 0 {
			t.Fatal("开局不应立即触发")
		}
		r.RegisterMovement()
		events := r.DrainEvents()
		if countEvents(events, EventToast, "run_start") != 1 {
			t.Error("移动后应触发 run_start")
		}
		if r.GetSnapshot().OverlayKey != "" {
			t.Error("移动后应收起开场遮罩")
		}
		r.Tick(3)
		if countEvents(r.DrainEvents(), EventToast, "run_start") != 0 {
			t.Error("run_start 只触发一次")
		}
	})

	t.Run("超时触发", func(t *testing.T) {
		r, _ := newTestRuntime()
		r.StartRun(RunOptions{})
		r.DrainEvents()
		r.Tick(2.1)
		if countEvents(r.DrainEvents(), EventToast, "run_start") != 1 {
			t.Error("2 秒后应触发 run_start")
		}
	})
}

func TestRuntimeTutorialOverlays(t *testing.T) {
	r, _ := newTestRuntime()
	r.StartRun(RunOptions{FirstRun: true})
	r.DrainEvents()

	r.Tick(3.1)
	if r.GetSnapshot().OverlayKey != OverlayMovementPrompt {
		t.Fatalf("3 秒未移动应显示移动提示, got %q", r.GetSnapshot().OverlayKey)
	}

	r.RegisterMovement()
	if r.GetSnapshot().OverlayKey != "" {
		t.Error("移动后应收起移动提示")
	}

	r.Tick(5)
	if r.GetSnapshot().OverlayKey != OverlayDashPrompt {
		t.Fatalf("8 秒未冲能应显示冲能提示, got %q", r.GetSnapshot().OverlayKey)
	}
	r.RegisterDash()
	if r.GetSnapshot().OverlayKey != "" {
		t.Error("冲能后应收起冲能提示")
	}

	// 非首局不显示教学
	r2, _ := newTestRuntime()
	r2.StartRun(RunOptions{})
	r2.RegisterMovement()
	r2.Tick(10)
	if countEvents(r2.DrainEvents(), EventOverlay, OverlayDashPrompt) != 0 {
		t.Error("非首局不应显示教学遮罩")
	}
}

func TestRuntimeCarryAndDeposit(t *testing.T) {
	r, cfg := newTestRuntime()
	r.StartRun(RunOptions{})
	r.DrainEvents()

	if r.DepositCarry() {
		t.Error("空手交付应失败")
	}
	if countEvents(r.DrainEvents(), EventToast, "deposit_empty") != 1 {
		t.Error("空手交付应提示 deposit_empty")
	}

	if !r.CollectScrap(0) {
		t.Fatal("拾取失败")
	}
	events := r.DrainEvents()
	if countEvents(events, EventToast, "first_scrap") != 1 || countEvents(events, EventCarryUpdate, "") != 1 {
		t.Errorf("首次拾取事件 = %+v", events)
	}
	if snap := r.GetSnapshot(); snap.CarryValue != defaultScrapValue {
		t.Errorf("非正价值应按默认值计, got %d", snap.CarryValue)
	}

	for i := 1; i < cfg.MaxCarry; i++ {
		r.CollectScrap(60)
	}
	events = r.DrainEvents()
	if countEvents(events, EventToast, "carry_full") != 1 || countEvents(events, EventToast, "first_scrap") != 0 {
		t.Errorf("满载事件 = %+v", events)
	}
	if r.CollectScrap(60) {
		t.Error("满载后应忽略拾取")
	}

	if !r.DepositCarry() {
		t.Fatal("交付失败")
	}
	snap := r.GetSnapshot()
	if snap.CarryCount != 0 || snap.Delivered != cfg.MaxCarry || snap.ScoreRounded != 60*cfg.MaxCarry {
		t.Errorf("交付后 snapshot = %+v", snap)
	}
	if countEvents(r.DrainEvents(), EventObjectiveUpdate, "delivered") != 1 {
		t.Error("交付应更新目标进度")
	}

	for i := 0; i < cfg.DeliveryQuota-cfg.MaxCarry; i++ {
		r.CollectScrap(60)
	}
	r.DepositCarry()
	events = r.DrainEvents()
	if countEvents(events, EventToast, "quota_met") != 1 || countEvents(events, EventFeedback, "quota_pulse") != 1 {
		t.Errorf("达标事件 = %+v", events)
	}

	r.CollectScrap(60)
	r.DepositCarry()
	if countEvents(r.DrainEvents(), EventToast, "quota_met") != 0 {
		t.Error("quota_met 只触发一次")
	}
}

// TestRuntimeComboChain 窗口内交付提升连击，封顶后只提示一次
func TestRuntimeComboChain(t *testing.T) {
	r, cfg := newTestRuntime()
	r.StartRun(RunOptions{})
	r.DrainEvents()

	deposit := func() []Event {
		r.CollectScrap(100)
		r.DepositCarry()
		r.Tick(1)
		return r.DrainEvents()
	}

	deposit() // 1.0，首次交付不算连击
	if r.GetSnapshot().Combo != cfg.ComboBase {
		t.Fatalf("首次交付后 Combo = %v", r.GetSnapshot().Combo)
	}

	events := deposit()
	if r.GetSnapshot().Combo != 1.5 {
		t.Errorf("Combo = %v, want 1.5", r.GetSnapshot().Combo)
	}
	if countEvents(events, EventToast, "combo_gain") != 1 {
		t.Error("应提示 combo_gain")
	}
	for _, e := range events {
		if e.Key == "combo_gain" && e.Message != "Chain x1.5" {
			t.Errorf("message = %q", e.Message)
		}
	}

	deposit() // 2.0
	deposit() // 2.5
	events = deposit()
	if r.GetSnapshot().Combo != cfg.ComboMax {
		t.Errorf("Combo = %v, want %v", r.GetSnapshot().Combo, cfg.ComboMax)
	}
	if countEvents(events, EventToast, "combo_cap") != 1 || countEvents(events, EventToast, "combo_gain") != 0 {
		t.Errorf("封顶事件 = %+v", events)
	}

	events = deposit()
	if r.GetSnapshot().Combo > cfg.ComboMax {
		t.Error("连击不应超过上限")
	}
	if countEvents(events, EventToast, "combo_cap") != 0 {
		t.Error("combo_cap 只提示一次")
	}

	// 上限时交付 100 得 300 分
	before := r.GetSnapshot().Score
	r.CollectScrap(100)
	r.DepositCarry()
	if got := r.GetSnapshot().Score - before; got != 300 {
		t.Errorf("deposit score = %v, want 300", got)
	}
}

// TestRuntimeComboExpiry 窗口结束时回落并只提示一次 combo_reset
func TestRuntimeComboExpiry(t *testing.T) {
	r, cfg := newTestRuntime()
	r.StartRun(RunOptions{})

	r.CollectScrap(60)
	r.DepositCarry()
	r.Tick(1)
	r.CollectScrap(60)
	r.DepositCarry()
	r.DrainEvents()

	r.Tick(cfg.ComboWindowSeconds - 1)
	events := r.DrainEvents()
	if countEvents(events, EventToast, "combo_timeout") != 1 {
		t.Errorf("窗口末尾应预警, events=%+v", events)
	}
	if r.GetSnapshot().ComboRemaining <= 0 {
		t.Error("预警时仍在窗口内")
	}

	r.Tick(1.5)
	events = r.DrainEvents()
	if countEvents(events, EventToast, "combo_reset") != 1 || r.GetSnapshot().Combo != cfg.ComboBase {
		t.Errorf("窗口结束应回落, combo=%v events=%+v", r.GetSnapshot().Combo, events)
	}

	r.CollectScrap(60)
	r.DepositCarry()
	if countEvents(r.DrainEvents(), EventToast, "combo_reset") != 0 {
		t.Error("combo_reset 不应重复")
	}
}

func TestRuntimeDamageResetsCombo(t *testing.T) {
	r, cfg := newTestRuntime()
	r.StartRun(RunOptions{})
	r.CollectScrap(60)
	r.DepositCarry()
	r.CollectScrap(60)
	r.DepositCarry()
	if r.GetSnapshot().Combo <= cfg.ComboBase {
		t.Fatal("前置条件：连击已提升")
	}

	r.TakeDamage()
	if r.GetSnapshot().Combo != cfg.ComboBase {
		t.Errorf("受伤后 Combo = %v", r.GetSnapshot().Combo)
	}
}

func TestRuntimeCombatSync(t *testing.T) {
	r, cfg := newTestRuntime()
	r.StartRun(RunOptions{})
	r.DrainEvents()

	r.SyncCombatState(CombatSync{Heat: 100, Locked: true, SurgeReady: true})
	r.SyncCombatState(CombatSync{Heat: 90, Locked: true, SurgeReady: true})
	events := r.DrainEvents()
	if countEvents(events, EventToast, "overheat") != 1 || countEvents(events, EventFeedback, "overheat") != 1 {
		t.Errorf("过热只在跃迁时提示, events=%+v", events)
	}

	r.SyncCombatState(CombatSync{SurgeActive: true})
	r.SyncCombatState(CombatSync{SurgeReady: true})
	if countEvents(r.DrainEvents(), EventFeedback, "surge_ready") != 1 {
		t.Error("冲能就绪应反馈一次")
	}

	r.SyncCombatState(CombatSync{SurgeReady: true, BossPhase: 1})
	r.SyncCombatState(CombatSync{SurgeReady: true, BossPhase: 3})
	r.SyncCombatState(CombatSync{SurgeReady: true, BossPhase: 3})
	events = r.DrainEvents()
	if countEvents(events, EventToast, "boss_phase_two") != 1 || countEvents(events, EventToast, "boss_phase_three") != 1 {
		t.Errorf("首领阶段提示 = %+v", events)
	}
	if snap := r.GetSnapshot(); snap.BossPhase != 3 || !snap.SurgeReady {
		t.Errorf("snapshot = %+v", snap)
	}

	r.SyncPlayerState(PlayerSync{HP: 0, MaxHP: cfg.Integrity})
	r.Tick(0.1)
	if r.Status() != StatusLost {
		t.Errorf("同步生命归零后应结束, got %s", r.Status())
	}
}

func TestRuntimeUpgradeFlow(t *testing.T) {
	r, _ := newTestRuntime()
	r.StartRun(RunOptions{})
	r.DrainEvents()

	r.TriggerMinibossDefeat()
	r.TriggerMinibossDefeat()
	events := r.DrainEvents()
	if countEvents(events, EventToast, "warden_down") != 1 {
		t.Errorf("warden_down 只提示一次, events=%+v", events)
	}

	r.SelectUpgrade("dmg_core", "Hull Spikes")
	events = r.DrainEvents()
	if len(events) != 1 || events[0].Message != "Upgrade online: Hull Spikes" {
		t.Errorf("events = %+v", events)
	}
	if snap := r.GetSnapshot(); len(snap.Upgrades) != 1 || snap.Upgrades[0] != "dmg_core" {
		t.Errorf("Upgrades = %v", snap.Upgrades)
	}
}

func TestRuntimeFailTipRotates(t *testing.T) {
	r, cfg := newTestRuntime()
	var tips []string
	for i := 0; i < 3; i++ {
		r.StartRun(RunOptions{})
		r.EndRunFromGameOver()
		tips = append(tips, findEnd(r.DrainEvents()).Tip)
	}
	pool := cfg.FailTips[OutcomeKO]
	for i, tip := range tips {
		if tip != pool[i%len(pool)] {
			t.Errorf("tip[%d] = %q, want %q", i, tip, pool[i%len(pool)])
		}
	}
}

func TestRuntimeTickIgnoresBadDelta(t *testing.T) {
	r, _ := newTestRuntime()
	r.StartRun(RunOptions{})

	for _, dt := range []float64{-1, 0, math.NaN(), math.Inf(1)} {
		r.Tick(dt)
	}
	if got := r.GetSnapshot().Elapsed; got != 0 {
		t.Errorf("非法 dt 不应推进时间, elapsed=%v", got)
	}
}
