// Package arena 组织单局战斗世界与逐帧编排。
//
// Arena 持有飞船、敌人、废料、子弹、回收区与各系统，只通过 GameRuntime 的公开方法
// 推送可观察的数值；Session 在其之上处理输入沿、事件分发、提示队列与渲染快照。
package arena

import (
	"log"
	"math/rand"

	"github.com/gonewx/magorbit/pkg/config"
	"github.com/gonewx/magorbit/pkg/entities"
	"github.com/gonewx/magorbit/pkg/game"
	"github.com/gonewx/magorbit/pkg/systems"
	"github.com/gonewx/magorbit/pkg/utils"
)

// surgeSparkChance 冲能期间每帧追加火花的概率
const surgeSparkChance = 0.35

// UpgradeHandler 可选能力：升级选项就绪时通知表现层
type UpgradeHandler interface {
	OnUpgradeReady(choices []config.UpgradeOption)
}

type nopUpgradeHandler struct{}

func (nopUpgradeHandler) OnUpgradeReady([]config.UpgradeOption) {}

// Arena 单局战斗世界
type Arena struct {
	Tuning *config.TuningConfig
	Width  float64
	Height float64

	Player      *entities.Player
	Hazards     []*entities.Hazard
	Projectiles []*entities.Projectile
	Debris      []*entities.Debris
	Zone        *entities.DepositZone

	Engine   *systems.DifficultyEngine
	Magnet   *systems.MagnetSystem
	Combat   *systems.CombatSystem
	VFX      *systems.VFXSystem
	Director *systems.WaveDirector
	Story    *systems.StorySystem
	Scrap    *systems.ScrapSpawner
	Upgrades *systems.UpgradeSystem
	hazards  *systems.HazardSystem

	Elapsed          float64
	WaveLabel        string
	BossPhase        int
	MinibossDefeated bool
	BossDefeated     bool
	GameOver         bool
	Paused           bool

	WaitingForUpgrade bool
	UpgradeChoices    []config.UpgradeOption

	runtime  *game.GameRuntime
	cues     systems.CuePlayer
	upgrades UpgradeHandler
	rng      *rand.Rand
}

// New 创建一局战斗世界
//
// 参数：
//   - tuning: 调参
//   - difficulty: 难度档位名，未知时回退到默认档
//   - runtime: 运行状态机，需已调用 StartRun
//   - cues: 音效回调，可为 nil
//   - upgrades: 升级选项回调，可为 nil
//   - rng: 随机源
func New(tuning *config.TuningConfig, difficulty string, runtime *game.GameRuntime, cues systems.CuePlayer, upgrades UpgradeHandler, rng *rand.Rand) *Arena {
	if cues == nil {
		cues = systems.NopCuePlayer{}
	}
	if upgrades == nil {
		upgrades = nopUpgradeHandler{}
	}

	w, h := tuning.Arena.Width, tuning.Arena.Height
	engine := systems.NewDifficultyEngine(tuning, difficulty)
	vfx := systems.NewVFXSystem(rng)

	a := &Arena{
		Tuning:    tuning,
		Width:     w,
		Height:    h,
		Player:    entities.NewPlayer(w*0.5, h*0.5, tuning.Player, engine.PlayerHP()),
		Zone:      entities.NewDepositZone(w*0.5, h*0.5, tuning.Scrap.ZoneRadius),
		Engine:    engine,
		Magnet:    systems.NewMagnetSystem(tuning.Magnet, engine),
		Combat:    systems.NewCombatSystem(tuning.Combat, vfx, cues),
		VFX:       vfx,
		Director:  systems.NewWaveDirector(tuning, engine, w, h, rng),
		Story:     systems.NewStorySystem(tuning),
		Scrap:     systems.NewScrapSpawner(tuning.Scrap, w, h, rng),
		Upgrades:  systems.NewUpgradeSystem(tuning.Upgrades, tuning.Player.MaxHPCap, rng),
		hazards:   systems.NewHazardSystem(w, h, rng),
		WaveLabel: "A-1",
		runtime:   runtime,
		cues:      cues,
		upgrades:  upgrades,
		rng:       rng,
	}

	log.Printf("[Arena] New arena %.0fx%.0f (difficulty=%s, hp=%d)", w, h, engine.Name(), engine.PlayerHP())
	a.Story.Update(0, runtime)
	a.syncRuntime()
	return a
}

// Difficulty 实际使用的难度档位
func (a *Arena) Difficulty() string {
	return a.Engine.Name()
}

// frozen 暂停、等待升级或已结束时不接受操作
func (a *Arena) frozen() bool {
	return a.Paused || a.GameOver
}

// SetPaused 暂停或恢复；等待升级期间由升级流程控制，外部调用被忽略
func (a *Arena) SetPaused(paused bool) {
	if a.GameOver || a.WaitingForUpgrade {
		return
	}
	a.Paused = paused
	a.runtime.SetPaused(paused)
}

// ToggleMagnet 切换磁场极性
//
// 返回：
//   - bool: 暂停、结束或过热锁定时为 false
func (a *Arena) ToggleMagnet() bool {
	if a.frozen() || !a.Magnet.Toggle() {
		return false
	}
	a.cues.PlayCue(systems.CueShoot)
	return true
}

// StartSurge 发动冲能
func (a *Arena) StartSurge() bool {
	if a.frozen() || a.WaitingForUpgrade {
		return false
	}
	if !a.Magnet.StartSurge(a.Player) {
		return false
	}

	pos := a.Player.Position
	a.VFX.TriggerShake(8, 0.24)
	a.VFX.SpawnShockwave(pos, systems.TintGood, 90)
	a.VFX.SpawnParticles(pos, 18, systems.TintGood, 120)
	a.cues.PlayCue(systems.CueUpgrade)
	a.runtime.RegisterDash()
	return true
}

// InZone 飞船是否位于回收区内
func (a *Arena) InZone() bool {
	return a.Zone.Contains(a.Player.Position)
}

// TryDeposit 在回收区内交付携带的废料
// 区外的交付请求被忽略；区内空手时由运行时发出提示
func (a *Arena) TryDeposit() bool {
	if a.frozen() || !a.InZone() {
		return false
	}
	if !a.runtime.DepositCarry() {
		return false
	}

	a.Player.CarryCount = 0
	a.Player.CarryValue = 0
	a.VFX.SpawnParticles(a.Zone.Position, 16, systems.TintWarm, 110)
	a.VFX.SpawnShockwave(a.Zone.Position, systems.TintWarm, a.Zone.Radius*1.6)
	return true
}

// Update 推进一帧
//
// 顺序：计时与剧情 → 飞船 → 磁场与冲能 → 特效（卡肉时跳过以下模拟）→
// 刷怪与废料 → 敌人行为 → 子弹 → 碰撞 → 拾取 → 清理 → 首领阶段与波次标签 → 同步运行时
func (a *Arena) Update(dt float64, in Input) {
	if a.frozen() {
		return
	}
	dt = utils.Clamp(utils.FiniteNonNegative(dt), 0, a.Tuning.Arena.MaxFrameSeconds)
	if dt <= 0 {
		return
	}

	a.Elapsed += dt
	a.Story.Update(a.Elapsed, a.runtime)

	a.Player.Input = entities.PlayerInput{
		Left:    in.Left,
		Right:   in.Right,
		Boost:   in.Forward,
		Reverse: in.Reverse,
	}
	a.Player.Update(dt, a.Width, a.Height)

	a.updateMagnet(dt, in.MagnetHeld)

	a.Zone.Update(dt)
	for _, d := range a.Debris {
		d.Update(dt)
	}

	if a.VFX.Update(dt) {
		a.simulate(dt)
	}

	a.compact()
	a.BossPhase = systems.BossPhase(a.Director.Boss, a.Tuning.Combat.BossPhaseTwoRatio, a.Tuning.Combat.BossPhaseThreeRatio)
	a.WaveLabel = a.Director.WaveLabel(a.Elapsed, a.Hazards)
	a.syncRuntime()

	if a.Player.HP <= 0 && !a.GameOver {
		a.GameOver = true
		a.runtime.EndRunFromGameOver()
	}
}

func (a *Arena) updateMagnet(dt float64, held bool) {
	a.Magnet.SetHeld(held)
	if a.Magnet.Update(dt) {
		log.Printf("[Arena] Magnet overheated at %.1fs", a.Elapsed)
		a.VFX.TriggerShake(6, 0.2)
		a.VFX.SpawnParticles(a.Player.Position, 12, systems.TintDanger, 90)
		a.cues.PlayCue(systems.CueOverheat)
	}

	a.Magnet.UpdateSurge(dt, a.Player)
	if a.Magnet.SurgeActive && a.rng.Float64() < surgeSparkChance {
		a.VFX.SpawnParticles(a.Player.Position, 2, systems.TintGood, 70)
	}
}

// simulate 非卡肉帧的战斗模拟
func (a *Arena) simulate(dt float64) {
	var specials []systems.SpecialSpawn
	a.Hazards, specials = a.Director.Update(dt, a.Elapsed, a.Player.Position, a.Magnet.SurgeActive, a.Hazards)
	for _, sp := range specials {
		log.Printf("[Arena] %s at %.1fs", sp.Key, a.Elapsed)
		a.runtime.PushNarrativeToast(sp.Key, sp.Message, game.ToneDanger)
		if sp.Hazard.Kind == entities.KindBoss {
			a.cues.PlayCue(systems.CueBossSpawn)
		}
	}
	a.Debris = a.Scrap.Update(dt, a.Debris, a.Zone)

	shooters := a.hazards.Update(dt, a.Elapsed, a.Hazards, a.Player, a.Magnet)
	speed := a.Engine.Profile().ProjectileSpeed
	for _, h := range shooters {
		a.Projectiles = append(a.Projectiles, entities.NewProjectile(h.Position, a.Player.Position, speed, a.Tuning.Combat))
		a.cues.PlayCue(systems.CueShoot)
	}
	for _, p := range a.Projectiles {
		p.Update(dt, a.Width, a.Height, a.Tuning.Combat.ProjectileMargin)
	}

	report := a.Combat.ResolveProjectiles(a.Elapsed, a.Player, a.Projectiles, a.Magnet)
	report.Merge(a.Combat.ResolveHazards(a.Elapsed, a.Player, a.Hazards, a.Magnet))
	a.applyReport(report)

	a.collectDebris()
}

// applyReport 把碰撞结算转发给运行时
func (a *Arena) applyReport(report systems.CombatReport) {
	a.runtime.AddScore(report.Score)
	for i := 0; i < report.PlayerHits; i++ {
		a.runtime.TakeDamage()
	}

	for _, h := range report.Defeated {
		switch h {
		case a.Director.Boss:
			a.BossDefeated = true
			a.GameOver = true
			log.Printf("[Arena] Boss defeated at %.1fs", a.Elapsed)
			a.runtime.TriggerBossDefeat()
		case a.Director.Miniboss:
			a.MinibossDefeated = true
			log.Printf("[Arena] Miniboss defeated at %.1fs", a.Elapsed)
			a.runtime.TriggerMinibossDefeat()
			a.startUpgradeSelection()
		}
	}
}

func (a *Arena) collectDebris() {
	for _, d := range a.Debris {
		if !a.Scrap.InPickupRange(a.Player, d) {
			continue
		}
		if !a.runtime.CollectScrap(d.Value) {
			// 满载：留在原地
			continue
		}
		d.Collected = true
		a.Player.CarryCount++
		a.Player.CarryValue += d.Value
		a.VFX.SpawnParticles(d.Position, 5, systems.TintWarm, 60)
	}
}

// compact 移除失活的敌人、子弹与已拾取的废料
func (a *Arena) compact() {
	a.Hazards = filter(a.Hazards, func(h *entities.Hazard) bool { return h.Active })
	a.Projectiles = filter(a.Projectiles, func(p *entities.Projectile) bool { return p.Active })
	a.Debris = filter(a.Debris, func(d *entities.Debris) bool { return !d.Collected })
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := items[:0]
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	clear(items[len(out):])
	return out
}

// startUpgradeSelection 暂停并抽取 3 个升级；同一帧内对局已结束时不再抽取
func (a *Arena) startUpgradeSelection() {
	if a.WaitingForUpgrade || a.GameOver || a.Player.HP <= 0 || !a.runtime.IsRunning() {
		return
	}
	a.WaitingForUpgrade = true
	a.UpgradeChoices = a.Upgrades.Roll(3)
	a.Paused = true
	a.runtime.SetPaused(true)
	a.upgrades.OnUpgradeReady(append([]config.UpgradeOption(nil), a.UpgradeChoices...))
}

// ResolveUpgrade 应用选中的升级并恢复对局
//
// 参数：
//   - id: 升级 ID，不在候选中时使用第一个候选
//
// 返回：
//   - bool: 没有待选升级时为 false
func (a *Arena) ResolveUpgrade(id string) bool {
	if !a.WaitingForUpgrade {
		return false
	}
	if len(a.UpgradeChoices) == 0 {
		a.WaitingForUpgrade = false
		a.Paused = false
		a.runtime.SetPaused(false)
		return false
	}

	selected := a.UpgradeChoices[0]
	for _, c := range a.UpgradeChoices {
		if c.ID == id {
			selected = c
			break
		}
	}

	a.Upgrades.Apply(selected, systems.UpgradeTargets{Player: a.Player, Magnet: a.Magnet, Combat: a.Combat})
	a.VFX.SpawnParticles(a.Player.Position, 14, systems.TintGood, 90)
	a.VFX.SpawnShockwave(a.Player.Position, systems.TintGood, 70)
	a.cues.PlayCue(systems.CueUpgrade)

	a.WaitingForUpgrade = false
	a.UpgradeChoices = nil
	a.Paused = false
	a.runtime.SetPaused(false)
	a.runtime.SelectUpgrade(selected.ID, selected.Label)
	a.syncRuntime()
	return true
}

// syncRuntime 推送飞船与战斗状态
func (a *Arena) syncRuntime() {
	a.runtime.SyncPlayerState(game.PlayerSync{HP: a.Player.HP, MaxHP: a.Player.MaxHP})
	a.runtime.SyncCombatState(game.CombatSync{
		Heat:        a.Magnet.Heat,
		Locked:      a.Magnet.Locked,
		SurgeActive: a.Magnet.SurgeActive,
		SurgeReady:  a.Magnet.SurgeReady(),
		BossPhase:   a.BossPhase,
	})
}
