package systems

import (
	"math"

	"github.com/gonewx/magorbit/pkg/config"
	"github.com/gonewx/magorbit/pkg/entities"
	"github.com/gonewx/magorbit/pkg/utils"
)

// maxHeat 过热阈值
const maxHeat = 100.0

// MagnetSystem 磁场极性、热量、过热锁定与冲能状态
//
// 热量始终在 [0, 100] 内；锁定期间磁场不生效，切换被拒绝。
// 冲能的激活、计时器与冷却在 StartSurge 中一次性写入。
type MagnetSystem struct {
	Polarity  entities.Polarity
	Heat      float64
	Locked    bool
	LockTimer float64
	Held      bool // 本帧是否按住磁场键

	// 过热后需先松开磁场键（或重新切换极性）才能再次按住生效
	releaseRequired bool

	HeatRate     float64
	CoolRate     float64
	LockDuration float64

	ForceMultiplier float64 // 磁力倍率（升级可提升）

	SurgeActive       bool
	SurgeTimer        float64
	SurgeCooldown     float64
	SurgeDuration     float64
	SurgeCooldownTime float64

	cfg config.MagnetConfig
}

// NewMagnetSystem 按难度缩放创建磁场系统
func NewMagnetSystem(cfg config.MagnetConfig, engine *DifficultyEngine) *MagnetSystem {
	profile := engine.Profile()
	return &MagnetSystem{
		Polarity:          entities.PolarityOff,
		HeatRate:          engine.HeatRate(),
		CoolRate:          engine.CoolRate(),
		LockDuration:      engine.LockDuration(),
		ForceMultiplier:   1,
		SurgeDuration:     profile.SurgeDuration,
		SurgeCooldownTime: profile.SurgeCooldown,
		cfg:               cfg,
	}
}

// Toggle 切换极性（off → attract → repel → attract …）
//
// 返回：
//
//	bool - 锁定中拒绝切换时返回 false
func (m *MagnetSystem) Toggle() bool {
	if m.Locked {
		return false
	}
	m.Polarity = m.Polarity.Next()
	m.addHeat(m.cfg.ToggleHeat)
	m.releaseRequired = false
	return true
}

// SetHeld 写入本帧的按键状态；过热锁定后持续按住的键被忽略，直到松开一次
func (m *MagnetSystem) SetHeld(held bool) {
	if m.releaseRequired {
		if held {
			m.Held = false
			return
		}
		m.releaseRequired = false
	}
	m.Held = held
}

// Engaged 磁场是否生效：按住、极性非 off、未锁定
func (m *MagnetSystem) Engaged() bool {
	return m.Held && m.Polarity != entities.PolarityOff && !m.Locked
}

// Attracting 吸引是否生效
func (m *MagnetSystem) Attracting() bool {
	return m.Engaged() && m.Polarity == entities.PolarityAttract
}

// Repelling 排斥是否生效
func (m *MagnetSystem) Repelling() bool {
	return m.Engaged() && m.Polarity == entities.PolarityRepel
}

// Update 推进热量与锁定
//
// 返回：
//
//	bool - 本帧是否刚刚进入过热锁定
func (m *MagnetSystem) Update(dt float64) bool {
	if m.Locked {
		m.LockTimer -= dt
		m.addHeat(-m.CoolRate * dt)
		if m.LockTimer <= 0 {
			m.Locked = false
			m.LockTimer = 0
			m.Heat = 0
		}
		return false
	}

	if m.Held && m.Polarity != entities.PolarityOff {
		m.addHeat(m.HeatRate * dt)
		if m.Heat >= maxHeat {
			m.Heat = maxHeat
			m.Locked = true
			m.LockTimer = m.LockDuration
			m.Held = false
			m.releaseRequired = true
			return true
		}
		return false
	}

	m.addHeat(-m.CoolRate * dt)
	return false
}

// AddPassiveHeat 光环敌人造成的被动升温，锁定期间忽略
func (m *MagnetSystem) AddPassiveHeat(amount float64) {
	if m.Locked || amount <= 0 {
		return
	}
	m.addHeat(amount)
}

// FieldForce 计算磁场对 hazardPos 处敌人的作用力（每秒速度增量）
// 磁场未生效或超出作用半径时返回零向量
// 吸引指向玩家，排斥背离玩家；力度 base × 倍率 / max(minForceDistance, 距离)
func (m *MagnetSystem) FieldForce(playerPos, hazardPos utils.Vector2) utils.Vector2 {
	if !m.Engaged() {
		return utils.Vector2{}
	}
	dir, dist := utils.DirectionTo(hazardPos, playerPos)
	if dist > m.cfg.FieldRadius {
		return utils.Vector2{}
	}
	base := m.cfg.AttractForce
	if m.Polarity == entities.PolarityRepel {
		base = -m.cfg.RepelForce
	}
	strength := base * m.ForceMultiplier / math.Max(m.cfg.MinForceDistance, dist)
	return dir.Scale(strength)
}

// StartSurge 启动冲能
// 冷却中或已激活时返回 false；成功时消耗热量、给予无敌并沿朝向推进
func (m *MagnetSystem) StartSurge(player *entities.Player) bool {
	if m.SurgeActive || m.SurgeCooldown > 0 {
		return false
	}
	m.SurgeActive = true
	m.SurgeTimer = m.SurgeDuration
	m.SurgeCooldown = m.SurgeCooldownTime
	m.addHeat(-m.cfg.SurgeHeatCost)

	player.Invulnerable = math.Max(player.Invulnerable, m.cfg.SurgeInvulnerable)
	player.Velocity = player.Velocity.Add(player.Heading().Scale(m.cfg.SurgeImpulse))
	return true
}

// UpdateSurge 推进冲能计时与冷却
// 冷却每帧都递减；激活期间维持短暂无敌并加速降温
func (m *MagnetSystem) UpdateSurge(dt float64, player *entities.Player) {
	if m.SurgeCooldown > 0 {
		m.SurgeCooldown = math.Max(0, m.SurgeCooldown-dt)
	}
	if !m.SurgeActive {
		return
	}
	m.SurgeTimer -= dt
	player.Invulnerable = math.Max(player.Invulnerable, m.cfg.SurgeSustainInvulnerable)
	m.addHeat(-m.CoolRate * m.cfg.SurgeCoolMultiplier * dt)
	if m.SurgeTimer <= 0 {
		m.SurgeActive = false
		m.SurgeTimer = 0
	}
}

// SurgeReady 冲能是否可用
func (m *MagnetSystem) SurgeReady() bool {
	return !m.SurgeActive && m.SurgeCooldown <= 0
}

// DamageMultiplier 接触伤害倍率（冲能期间翻倍）
func (m *MagnetSystem) DamageMultiplier() int {
	if m.SurgeActive {
		return m.cfg.SurgeDamageMultiplier
	}
	return 1
}

// HeatPercent 取整后的热量百分比
func (m *MagnetSystem) HeatPercent() int {
	return int(math.Round(m.Heat))
}

// Label HUD 用的磁场状态标签
func (m *MagnetSystem) Label() string {
	switch {
	case m.Locked:
		return "LOCKED"
	case m.Polarity == entities.PolarityAttract:
		return "ATTRACT"
	case m.Polarity == entities.PolarityRepel:
		return "REPEL"
	default:
		return "OFF"
	}
}

func (m *MagnetSystem) addHeat(delta float64) {
	m.Heat = utils.Clamp(m.Heat+delta, 0, maxHeat)
}
