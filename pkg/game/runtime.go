package game

import (
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/gonewx/magorbit/pkg/config"
)

// RunStatus 一局的状态
type RunStatus string

const (
	StatusIdle      RunStatus = "idle"
	StatusRunning   RunStatus = "running"
	StatusWon       RunStatus = "won"
	StatusLost      RunStatus = "lost"
	StatusCompleted RunStatus = "completed"
)

// 遮罩键
const (
	OverlayMissionIntro   = "mission_intro"
	OverlayMovementPrompt = "movement_prompt"
	OverlayDashPrompt     = "dash_prompt"
)

const defaultScrapValue = 60

// RunOptions 开局参数
type RunOptions struct {
	FirstRun  bool // 首次游玩，开启教学遮罩
	Integrity int  // 初始生命，≤0 时使用配置值
}

// PlayerSync 战斗层推送的飞船状态
type PlayerSync struct {
	HP    int
	MaxHP int
}

// CombatSync 战斗层推送的磁铁与首领状态
type CombatSync struct {
	Heat        float64
	Locked      bool
	SurgeActive bool
	SurgeReady  bool
	BossPhase   int
}

// Snapshot 当前 HUD 所需的全部状态
type Snapshot struct {
	Status          RunStatus
	FirstRun        bool
	Paused          bool
	Elapsed         float64
	TimeLeft        float64
	TimeLeftRounded int
	HP              int
	MaxHP           int
	Score           float64
	ScoreRounded    int

	Combo          float64
	ComboRemaining float64 // 连击窗口剩余秒数，未连击时为 0

	CarryCount     int
	CarryValue     int
	MaxCarry       int
	Delivered      int
	Quota          int
	ScrapCollected int

	Moved      bool
	Dashed     bool
	OverlayKey string
	Objective  string
	FailReason string

	Heat        float64
	Locked      bool
	SurgeActive bool
	SurgeReady  bool
	BossPhase   int

	MinibossDefeated bool
	Upgrades         []string
}

// runState 每局重置的状态
type runState struct {
	status   RunStatus
	firstRun bool
	paused   bool

	elapsed  float64
	timeLeft float64
	hp       int
	maxHP    int
	score    float64

	combo          float64
	lastDepositAt  float64 // <0 表示本窗口内尚无交付
	comboWarned    bool
	comboCapShown  bool
	survivalAcc    float64
	phaseFired     map[string]bool
	lowTimeFired   bool
	runStartFired  bool
	movementShown  bool
	dashShown      bool
	moved          bool
	dashed         bool
	firstScrapSeen bool
	quotaMet       bool

	carryCount     int
	carryValue     int
	delivered      int
	scrapCollected int

	overlayKey string
	objective  string
	failReason string

	heat        float64
	locked      bool
	surgeActive bool
	surgeReady  bool
	bossPhase   int
	bossPhase2  bool
	bossPhase3  bool

	minibossDefeated bool
	upgrades         []string
}

// GameRuntime 单局的生命周期状态机
//
// 独占分数、生命、连击与计时；战斗层只能通过公开方法推送数值。
// 所有改变局内状态的方法在非运行或暂停时静默忽略，调用方无需预先检查状态。
// 每个对玩家可见的变化恰好追加一个 Event，只能通过 DrainEvents 取走。
type GameRuntime struct {
	cfg       config.RuntimeConfig
	state     runState
	events    []Event
	tipCursor map[string]int // 跨局保留，保证提示轮换
}

// NewGameRuntime 创建运行状态机，初始状态为 idle
func NewGameRuntime(cfg config.RuntimeConfig) *GameRuntime {
	r := &GameRuntime{
		cfg:       cfg,
		tipCursor: make(map[string]int),
	}
	r.state = r.baseState(cfg.Integrity)
	return r
}

func (r *GameRuntime) baseState(integrity int) runState {
	return runState{
		status:        StatusIdle,
		timeLeft:      r.cfg.RunDurationSeconds,
		hp:            integrity,
		maxHP:         integrity,
		combo:         r.cfg.ComboBase,
		lastDepositAt: -1,
		phaseFired:    make(map[string]bool),
		surgeReady:    true,
	}
}

// StartRun 重置全部累计量并进入 running
func (r *GameRuntime) StartRun(opts RunOptions) {
	integrity := opts.Integrity
	if integrity <= 0 {
		integrity = r.cfg.Integrity
	}

	r.state = r.baseState(integrity)
	r.state.status = StatusRunning
	r.state.firstRun = opts.FirstRun
	r.state.objective = r.cfg.Copy.Objective

	log.Printf("[GameRuntime] Run started (integrity=%d, firstRun=%v)", integrity, opts.FirstRun)

	r.emit(Event{Type: EventObjective, Key: "objective", Message: r.cfg.Copy.Objective})
	r.showOverlay(OverlayMissionIntro, r.cfg.Copy.MissionFraming)
}

// IsRunning 是否处于 running（暂停也算运行中）
func (r *GameRuntime) IsRunning() bool {
	return r.state.status == StatusRunning
}

// IsPaused 是否暂停
func (r *GameRuntime) IsPaused() bool {
	return r.state.paused
}

// Status 当前状态
func (r *GameRuntime) Status() RunStatus {
	return r.state.status
}

// SetPaused 暂停或恢复，仅在 running 时有效
// 恢复后不会补偿暂停期间的时间
func (r *GameRuntime) SetPaused(paused bool) {
	if !r.IsRunning() {
		return
	}
	r.state.paused = paused
}

// active 守卫条件：运行中且未暂停
func (r *GameRuntime) active() bool {
	return r.IsRunning() && !r.state.paused
}

// Tick 推进计时并依次检查各类一次性提示与终局条件
func (r *GameRuntime) Tick(dt float64) {
	if !r.active() {
		return
	}
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt <= 0 {
		return
	}

	s := &r.state
	s.elapsed += dt
	s.timeLeft = math.Max(0, r.cfg.RunDurationSeconds-s.elapsed)

	s.survivalAcc += dt
	for s.survivalAcc >= 1 {
		s.score += float64(r.cfg.SurvivalScorePerSecond)
		s.survivalAcc--
	}

	for _, alert := range r.cfg.PhaseAlerts {
		if s.phaseFired[alert.Key] || s.elapsed < alert.At {
			continue
		}
		s.phaseFired[alert.Key] = true
		r.toast(alert.Key, alert.Message, alert.Tone, nil)
	}

	if !s.lowTimeFired && s.timeLeft < r.cfg.LowTimeThresholdSeconds {
		s.lowTimeFired = true
		r.toast("end_critical", r.cfg.Copy.LowTime, ToneWarn, nil)
		r.feedback("timer_low")
	}

	r.decayCombo()

	if !s.runStartFired && s.elapsed >= r.cfg.RunStartToastDelaySeconds {
		r.runStartToastOnce()
	}

	if s.firstRun && !s.moved && !s.movementShown && s.elapsed >= r.cfg.MovementPromptDelaySeconds {
		s.movementShown = true
		r.showOverlay(OverlayMovementPrompt, r.cfg.Copy.MovementHint)
	}

	if s.firstRun && s.moved && !s.dashed && !s.dashShown && s.elapsed >= r.cfg.DashPromptDelaySeconds {
		s.dashShown = true
		r.showOverlay(OverlayDashPrompt, r.cfg.Copy.DashHint)
	}

	switch {
	case s.hp <= 0:
		r.finishRun(StatusLost, OutcomeKO)
	case s.timeLeft <= 0:
		r.finishRun(StatusCompleted, OutcomeTimerComplete)
	}
}

// decayCombo 连击窗口即将结束时预警一次，结束时回落到基础值
func (r *GameRuntime) decayCombo() {
	s := &r.state
	if s.combo <= r.cfg.ComboBase || s.lastDepositAt < 0 {
		return
	}

	remaining := r.cfg.ComboWindowSeconds - (s.elapsed - s.lastDepositAt)
	if remaining <= 0 {
		r.resetCombo()
		r.toast("combo_reset", r.cfg.Copy.ComboReset, ToneNeutral, nil)
		return
	}
	if !s.comboWarned && remaining <= r.cfg.ComboWarnSeconds {
		s.comboWarned = true
		r.toast("combo_timeout", r.cfg.Copy.ComboTimeout, ToneWarn, nil)
	}
}

func (r *GameRuntime) resetCombo() {
	s := &r.state
	s.combo = r.cfg.ComboBase
	s.lastDepositAt = -1
	s.comboWarned = false
	s.comboCapShown = false
}

// TakeDamage 扣除一点生命并清空连击，生命归零时以 ko 结束
func (r *GameRuntime) TakeDamage() {
	if !r.active() {
		return
	}

	s := &r.state
	s.hp = max(0, s.hp-1)
	r.resetCombo()

	r.toast("damage", r.cfg.Copy.Damage, ToneDanger, nil)
	r.feedback("damage")

	if s.hp <= 0 {
		r.finishRun(StatusLost, OutcomeKO)
	}
}

// CollectScrap 拾取一块废料
//
// 参数：
//   - value: 废料价值，≤0 时按默认值 60 计
//
// 返回：
//   - bool: 是否实际拾取（满载、非运行或暂停时为 false）
func (r *GameRuntime) CollectScrap(value int) bool {
	if !r.active() {
		return false
	}
	s := &r.state
	if s.carryCount >= r.cfg.MaxCarry {
		return false
	}
	if value <= 0 {
		value = defaultScrapValue
	}

	s.carryCount++
	s.carryValue += value
	s.scrapCollected++
	r.emit(Event{Type: EventCarryUpdate, Key: "carry", Current: s.carryCount, Total: r.cfg.MaxCarry})

	if !s.firstScrapSeen {
		s.firstScrapSeen = true
		r.toast("first_scrap", r.cfg.Copy.FirstScrap, ToneNeutral, nil)
	}
	if s.carryCount >= r.cfg.MaxCarry {
		r.toast("carry_full", r.cfg.Copy.CarryFull, ToneWarn, nil)
	}
	return true
}

// DepositCarry 在回收区交付全部携带物
//
// 返回：
//   - bool: 是否交付成功；空手交付只发出提示并返回 false
func (r *GameRuntime) DepositCarry() bool {
	if !r.active() {
		return false
	}
	s := &r.state
	if s.carryCount == 0 {
		r.toast("deposit_empty", r.cfg.Copy.DepositEmpty, ToneNeutral, nil)
		return false
	}

	r.advanceCombo()

	s.score += math.Round(float64(s.carryValue) * s.combo)
	s.delivered += s.carryCount
	s.carryCount = 0
	s.carryValue = 0
	s.lastDepositAt = s.elapsed
	s.comboWarned = false

	r.emit(Event{Type: EventCarryUpdate, Key: "carry", Current: 0, Total: r.cfg.MaxCarry})
	r.emit(Event{Type: EventObjectiveUpdate, Key: "delivered", Current: s.delivered, Total: r.cfg.DeliveryQuota})
	r.feedback("deposit")

	if !s.quotaMet && s.delivered >= r.cfg.DeliveryQuota {
		s.quotaMet = true
		r.toast("quota_met", r.cfg.Copy.QuotaMet, ToneGood, nil)
		r.feedback("quota_pulse")
	}
	return true
}

// advanceCombo 交付时更新连击：窗口内提升一级，超时则先回落
func (r *GameRuntime) advanceCombo() {
	s := &r.state
	inWindow := s.lastDepositAt >= 0 && s.elapsed-s.lastDepositAt <= r.cfg.ComboWindowSeconds

	if !inWindow {
		if s.combo > r.cfg.ComboBase {
			r.resetCombo()
			r.toast("combo_reset", r.cfg.Copy.ComboReset, ToneNeutral, nil)
		}
		return
	}
	if s.combo >= r.cfg.ComboMax {
		return
	}

	s.combo = math.Min(r.cfg.ComboMax, s.combo+r.cfg.ComboStep)
	values := map[string]string{"combo": formatCombo(s.combo)}
	if s.combo >= r.cfg.ComboMax {
		if !s.comboCapShown {
			s.comboCapShown = true
			r.toast("combo_cap", fillTemplate(r.cfg.Copy.ComboCap, values), ToneGood, values)
		}
		return
	}
	r.toast("combo_gain", fillTemplate(r.cfg.Copy.ComboGain, values), ToneGood, values)
}

// RegisterMovement 记录玩家已经移动，收起开场与移动教学遮罩
func (r *GameRuntime) RegisterMovement() {
	if !r.active() {
		return
	}
	r.state.moved = true
	if r.state.overlayKey == OverlayMissionIntro || r.state.overlayKey == OverlayMovementPrompt {
		r.hideOverlay()
	}
	r.runStartToastOnce()
}

// RegisterDash 记录玩家已经使用冲能
func (r *GameRuntime) RegisterDash() {
	if !r.active() {
		return
	}
	r.state.dashed = true
	if r.state.overlayKey == OverlayDashPrompt {
		r.hideOverlay()
	}
}

// AddScore 增加击毁得分
func (r *GameRuntime) AddScore(n int) {
	if !r.active() || n <= 0 {
		return
	}
	r.state.score += float64(n)
}

// SyncPlayerState 同步飞船生命（升级可能改变上限）
func (r *GameRuntime) SyncPlayerState(p PlayerSync) {
	if !r.active() {
		return
	}
	r.state.hp = max(0, p.HP)
	if p.MaxHP > 0 {
		r.state.maxHP = p.MaxHP
	}
}

// SyncCombatState 同步磁铁与首领状态，并在状态跃迁时发出提示
func (r *GameRuntime) SyncCombatState(c CombatSync) {
	if !r.active() {
		return
	}
	s := &r.state

	if c.Locked && !s.locked {
		r.toast("overheat", r.cfg.Copy.Overheat, ToneDanger, nil)
		r.feedback("overheat")
	}
	if c.SurgeReady && !s.surgeReady {
		r.feedback("surge_ready")
	}
	if c.BossPhase >= 2 && !s.bossPhase2 {
		s.bossPhase2 = true
		r.toast("boss_phase_two", r.cfg.Copy.BossPhaseTwo, ToneWarn, nil)
	}
	if c.BossPhase >= 3 && !s.bossPhase3 {
		s.bossPhase3 = true
		r.toast("boss_phase_three", r.cfg.Copy.BossPhaseThree, ToneDanger, nil)
	}

	s.heat = c.Heat
	s.locked = c.Locked
	s.surgeActive = c.SurgeActive
	s.surgeReady = c.SurgeReady
	s.bossPhase = c.BossPhase
}

// PushNarrativeToast 剧情提示
func (r *GameRuntime) PushNarrativeToast(key, message, tone string) {
	if !r.active() {
		return
	}
	r.toast(key, message, tone, nil)
}

// SetObjective 更新当前目标
func (r *GameRuntime) SetObjective(message string) {
	if !r.active() {
		return
	}
	r.state.objective = message
	r.emit(Event{Type: EventObjective, Key: "objective", Message: message})
}

// TriggerMinibossDefeat 小首领被击毁
func (r *GameRuntime) TriggerMinibossDefeat() {
	if !r.active() || r.state.minibossDefeated {
		return
	}
	r.state.minibossDefeated = true
	r.toast("warden_down", r.cfg.Copy.WardenDown, ToneGood, nil)
	r.feedback("miniboss_down")
}

// TriggerBossDefeat 首领被击毁，以胜利结束
func (r *GameRuntime) TriggerBossDefeat() {
	if !r.active() {
		return
	}
	r.finishRun(StatusWon, OutcomeVictory)
}

// SelectUpgrade 记录玩家选择的升级
//
// 参数：
//   - id: 升级 ID
//   - label: 展示名称，用于提示文案
func (r *GameRuntime) SelectUpgrade(id, label string) {
	if !r.active() {
		return
	}
	r.state.upgrades = append(r.state.upgrades, id)
	values := map[string]string{"label": label}
	r.toast("upgrade_applied", fillTemplate(r.cfg.Copy.UpgradeApplied, values), ToneGood, values)
}

// EndRunFromGameOver 外部判定的失败（例如战斗层先于运行时发现生命归零）
// 暂停时同样有效，结束后清除暂停
func (r *GameRuntime) EndRunFromGameOver() {
	if !r.IsRunning() {
		return
	}
	r.finishRun(StatusLost, OutcomeKO)
}

// GetSnapshot 返回当前状态的副本
func (r *GameRuntime) GetSnapshot() Snapshot {
	s := &r.state
	var comboRemaining float64
	if s.combo > r.cfg.ComboBase && s.lastDepositAt >= 0 {
		comboRemaining = math.Max(0, r.cfg.ComboWindowSeconds-(s.elapsed-s.lastDepositAt))
	}

	return Snapshot{
		Status:           s.status,
		FirstRun:         s.firstRun,
		Paused:           s.paused,
		Elapsed:          s.elapsed,
		TimeLeft:         s.timeLeft,
		TimeLeftRounded:  int(math.Max(0, math.Ceil(s.timeLeft))),
		HP:               s.hp,
		MaxHP:            s.maxHP,
		Score:            s.score,
		ScoreRounded:     int(math.Round(s.score)),
		Combo:            s.combo,
		ComboRemaining:   comboRemaining,
		CarryCount:       s.carryCount,
		CarryValue:       s.carryValue,
		MaxCarry:         r.cfg.MaxCarry,
		Delivered:        s.delivered,
		Quota:            r.cfg.DeliveryQuota,
		ScrapCollected:   s.scrapCollected,
		Moved:            s.moved,
		Dashed:           s.dashed,
		OverlayKey:       s.overlayKey,
		Objective:        s.objective,
		FailReason:       s.failReason,
		Heat:             s.heat,
		Locked:           s.locked,
		SurgeActive:      s.surgeActive,
		SurgeReady:       s.surgeReady,
		BossPhase:        s.bossPhase,
		MinibossDefeated: s.minibossDefeated,
		Upgrades:         append([]string(nil), s.upgrades...),
	}
}

// DrainEvents 取走并清空事件队列
func (r *GameRuntime) DrainEvents() []Event {
	pending := r.events
	r.events = nil
	return pending
}

func (r *GameRuntime) runStartToastOnce() {
	if r.state.runStartFired {
		return
	}
	r.state.runStartFired = true
	r.toast("run_start", r.cfg.Copy.RunStart, ToneNeutral, nil)
	if r.state.overlayKey == OverlayMissionIntro {
		r.hideOverlay()
	}
}

func (r *GameRuntime) showOverlay(key, message string) {
	r.state.overlayKey = key
	r.emit(Event{Type: EventOverlay, Key: key, Visible: true, Message: message})
}

func (r *GameRuntime) hideOverlay() {
	r.state.overlayKey = ""
	r.emit(Event{Type: EventOverlay})
}

// nextFailTip 按结局原因轮换提示
func (r *GameRuntime) nextFailTip(reason string) string {
	pool := r.cfg.FailTips[reason]
	if len(pool) == 0 {
		return ""
	}
	tip := pool[r.tipCursor[reason]%len(pool)]
	r.tipCursor[reason]++
	return tip
}

// finishRun 进入终局并发出唯一的 end 事件
func (r *GameRuntime) finishRun(status RunStatus, reason string) {
	if !r.IsRunning() {
		return
	}
	s := &r.state
	s.status = status
	s.failReason = reason
	s.paused = false
	r.hideOverlay()

	end := &EndPayload{
		Outcome:         reason,
		PrimaryAction:   "Restart",
		SecondaryAction: "Quit to Title",
		Stats: EndStats{
			FinalScore:      int(math.Round(s.score)),
			SurvivedSeconds: int(math.Floor(s.elapsed)),
			ScrapDelivered:  s.delivered,
			ScrapCollected:  s.scrapCollected,
		},
	}
	switch reason {
	case OutcomeVictory:
		end.Title, end.Body = r.cfg.Copy.EndWinTitle, r.cfg.Copy.EndWinBody
	case OutcomeTimerComplete:
		end.Title, end.Body = r.cfg.Copy.EndTimerTitle, r.cfg.Copy.EndTimerBody
		end.Tip = r.nextFailTip(reason)
	default:
		end.Title, end.Body = r.cfg.Copy.EndFailTitle, r.cfg.Copy.EndFailBody
		end.Tip = r.nextFailTip(reason)
	}

	log.Printf("[GameRuntime] Run finished: status=%s outcome=%s score=%d survived=%ds",
		status, reason, end.Stats.FinalScore, end.Stats.SurvivedSeconds)
	r.emit(Event{Type: EventEnd, Key: reason, End: end})
}

func (r *GameRuntime) toast(key, message, tone string, values map[string]string) {
	r.emit(Event{Type: EventToast, Key: key, Message: message, Tone: tone, Values: values})
}

func (r *GameRuntime) feedback(key string) {
	r.emit(Event{Type: EventFeedback, Key: key})
}

func (r *GameRuntime) emit(e Event) {
	r.events = append(r.events, e)
}

// formatCombo 1 → "1"，1.5 → "1.5"
func formatCombo(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// fillTemplate 替换文案中的 {name} 占位符
func fillTemplate(tmpl string, values map[string]string) string {
	if len(values) == 0 {
		return tmpl
	}
	pairs := make([]string, 0, len(values)*2)
	for k, v := range values {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}
