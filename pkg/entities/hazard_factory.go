package entities

import (
	"math"
	"math/rand"

	"github.com/gonewx/magorbit/pkg/config"
	"github.com/gonewx/magorbit/pkg/utils"
)

// NewBasicHazard 在出生点创建一个朝 target 飞行的普通敌人
// 角色属性需要随后通过 ConfigureRole 写入
//
// 参数：
//
//	spawn - 出生点（世界坐标，可以在场外）
//	target - 瞄准点（通常是玩家位置）
//	speed - 初始速率
//	margin - 离场判定余量
//	rng - 随机源
func NewBasicHazard(spawn, target utils.Vector2, speed, margin float64, rng *rand.Rand) *Hazard {
	dir, _ := utils.DirectionTo(spawn, target)
	return &Hazard{
		Position:      spawn,
		Velocity:      dir.Scale(speed),
		Radius:        10,
		HP:            1,
		MaxHP:         1,
		Kind:          KindBasic,
		Role:          RoleChaser,
		Polarity:      randomPolarity(rng),
		Active:        true,
		RotationSpeed: (rng.Float64() - 0.5) * 4,
		Margin:        margin,
	}
}

// ConfigureRole 一次性写入角色属性、行为参数和速度缩放
//
// 参数：
//
//	h - 目标敌人
//	role - 角色
//	stats - 角色配置
//	profile - 当前难度档位（分数、速度、射速、牵引力）
//	elapsed - 当前对局时间，用于计时器起点与后期加强
//	rng - 随机源（首发抖动）
func ConfigureRole(h *Hazard, role Role, stats config.RoleStats, profile config.DifficultyProfile, elapsed float64, rng *rand.Rand) {
	h.Role = role
	h.State = RoleState{SeekForce: stats.SeekForce, MaxSpeed: stats.MaxSpeed}
	h.HP = stats.HP
	h.MaxHP = stats.HP
	h.Radius = stats.Radius
	h.ScoreValue = scaledScore(stats.Score, profile.ScoreScale)

	switch role {
	case RoleShooter:
		h.State.PreferredDistance = stats.PreferredDistance
		h.State.ApproachForce = stats.ApproachForce
		h.State.RetreatForce = stats.RetreatForce
		h.State.NextShotAt = elapsed + stats.FirstShotDelay + rng.Float64()*stats.FirstShotJitter
		h.State.ShotCooldown = profile.ShotCooldown
		h.State.ShotJitter = stats.ShotJitter
	case RoleAnchor:
		h.State.AuraRadius = stats.AuraRadius
		h.State.PullForce = profile.AnchorPullForce
		h.State.PlayerPullScale = stats.PlayerPullScale
		h.State.PassiveHeat = stats.PassiveHeat
	case RoleBerserker:
		h.State.NextDashAt = elapsed + stats.FirstDashDelay + rng.Float64()*stats.FirstDashJitter
		h.State.DashCooldown = stats.DashCooldown
		h.State.DashStrength = stats.DashStrength
	case RoleChaser:
		if stats.LateAfter > 0 && elapsed >= stats.LateAfter {
			h.HP = stats.LateHP
			h.MaxHP = stats.LateHP
			h.ScoreValue = scaledScore(stats.LateScore, profile.ScoreScale)
		}
	}

	speed := h.Velocity.Magnitude()
	if speed == 0 {
		return
	}
	target := speed * stats.SpeedMultiplier * profile.EnemySpeedScale
	h.Velocity = h.Velocity.Scale(target / speed)
}

// NewSpecialHazard 创建首领（warden 为小首领，tyrant 为最终首领）
// 出生在场地中上部，随机方向漂移
func NewSpecialHazard(role Role, stats config.RoleStats, profile config.DifficultyProfile, width, height float64, rng *rand.Rand) *Hazard {
	kind := KindMiniboss
	if role == RoleTyrant {
		kind = KindBoss
	}

	angle := rng.Float64() * math.Pi * 2
	speed := stats.BaseSpeed * profile.EnemySpeedScale
	hp := int(math.Round(float64(stats.HP) * profile.BossHPScale))
	if hp < stats.MinHP {
		hp = stats.MinHP
	}

	return &Hazard{
		Position:      utils.Vec(width*(0.3+rng.Float64()*0.4), height*(0.2+rng.Float64()*0.3)),
		Velocity:      utils.Vec(math.Cos(angle)*speed, math.Sin(angle)*speed),
		Radius:        stats.Radius,
		HP:            hp,
		MaxHP:         hp,
		Kind:          kind,
		Role:          role,
		Polarity:      randomPolarity(rng),
		ScoreValue:    scaledScore(stats.Score, profile.ScoreScale),
		Active:        true,
		RotationSpeed: (rng.Float64() - 0.5) * 2,
		State: RoleState{
			SeekForce:   stats.SeekForce,
			MaxSpeed:    stats.MaxSpeed,
			AuraRadius:  stats.AuraRadius,
			PassiveHeat: stats.PassiveHeat,
		},
	}
}

// NewProjectile 创建从 from 飞向 target 的敌方子弹
func NewProjectile(from, target utils.Vector2, speed float64, cfg config.CombatConfig) *Projectile {
	dir, _ := utils.DirectionTo(from, target)
	return &Projectile{
		Position: from,
		Velocity: dir.Scale(speed),
		Radius:   cfg.ProjectileRadius,
		TTL:      cfg.ProjectileTTL,
		Active:   true,
	}
}

// NewDebris 在指定位置创建废料
func NewDebris(pos utils.Vector2, cfg config.ScrapConfig, rng *rand.Rand) *Debris {
	return &Debris{
		Position:   pos,
		Value:      cfg.Value,
		Radius:     cfg.Radius,
		FloatPhase: rng.Float64() * math.Pi * 2,
	}
}

func scaledScore(base int, scale float64) int {
	return int(math.Round(float64(base) * scale))
}

func randomPolarity(rng *rand.Rand) Polarity {
	if rng.Intn(2) == 0 {
		return PolarityAttract
	}
	return PolarityRepel
}
