package systems

import (
	"math/rand"

	"github.com/gonewx/magorbit/pkg/entities"
	"github.com/gonewx/magorbit/pkg/utils"
)

// bossMaxSpeed 最终首领速度上限，覆盖角色配置
const bossMaxSpeed = 190.0

// BehaviorContext 行为函数可读取的外部状态
type BehaviorContext struct {
	PlayerPos utils.Vector2
	Elapsed   float64
	Rand      *rand.Rand
}

// BehaviorResult 行为函数的输出，由调用方统一应用
type BehaviorResult struct {
	HazardDelta utils.Vector2 // 直接叠加到敌人速度
	PlayerForce utils.Vector2 // 作用于玩家的外力（每秒）
	PassiveHeat float64       // 被动升温（每秒）
	Fire        bool          // 本帧是否开火
}

// BehaviorFunc 角色行为
// 只允许修改 h.State 中的计时器，速度变化通过 HazardDelta 返回
type BehaviorFunc func(h *entities.Hazard, ctx BehaviorContext, dt float64) BehaviorResult

// roleBehaviors 角色行为表，未登记的角色按 chaser 处理
var roleBehaviors = map[entities.Role]BehaviorFunc{
	entities.RoleChaser:    chaserBehavior,
	entities.RoleShooter:   shooterBehavior,
	entities.RoleAnchor:    anchorBehavior,
	entities.RoleBerserker: berserkerBehavior,
	entities.RoleWarden:    bossPulseBehavior,
	entities.RoleTyrant:    bossPulseBehavior,
}

// BehaviorFor 查询角色对应的行为函数
func BehaviorFor(role entities.Role) BehaviorFunc {
	if fn, ok := roleBehaviors[role]; ok {
		return fn
	}
	return chaserBehavior
}

func chaserBehavior(h *entities.Hazard, ctx BehaviorContext, dt float64) BehaviorResult {
	n, _ := utils.DirectionTo(h.Position, ctx.PlayerPos)
	return BehaviorResult{HazardDelta: n.Scale(h.State.SeekForce * dt)}
}

// shooterBehavior 保持在偏好距离附近并定时开火
func shooterBehavior(h *entities.Hazard, ctx BehaviorContext, dt float64) BehaviorResult {
	n, dist := utils.DirectionTo(h.Position, ctx.PlayerPos)
	correction := -h.State.RetreatForce
	if dist > h.State.PreferredDistance {
		correction = h.State.ApproachForce
	}
	result := BehaviorResult{HazardDelta: n.Scale(correction * dt)}

	if ctx.Elapsed >= h.State.NextShotAt {
		result.Fire = true
		h.State.NextShotAt = ctx.Elapsed + h.State.ShotCooldown + ctx.Rand.Float64()*h.State.ShotJitter
	}
	return result
}

// anchorBehavior 光环范围内把玩家拉向自己并加热磁场
func anchorBehavior(h *entities.Hazard, ctx BehaviorContext, dt float64) BehaviorResult {
	n, dist := utils.DirectionTo(h.Position, ctx.PlayerPos)
	result := BehaviorResult{HazardDelta: n.Scale(h.State.SeekForce * dt)}
	if dist <= h.State.AuraRadius {
		result.PlayerForce = n.Scale(-h.State.PullForce * h.State.PlayerPullScale)
		result.PassiveHeat = h.State.PassiveHeat
	}
	return result
}

// berserkerBehavior 冲刺为瞬时速度增量，不乘 dt
func berserkerBehavior(h *entities.Hazard, ctx BehaviorContext, dt float64) BehaviorResult {
	n, _ := utils.DirectionTo(h.Position, ctx.PlayerPos)
	if ctx.Elapsed >= h.State.NextDashAt {
		h.State.NextDashAt = ctx.Elapsed + h.State.DashCooldown
		return BehaviorResult{HazardDelta: n.Scale(h.State.DashStrength)}
	}
	return BehaviorResult{HazardDelta: n.Scale(h.State.SeekForce * dt)}
}

// bossPulseBehavior warden / tyrant：缓慢逼近，光环内加热磁场
func bossPulseBehavior(h *entities.Hazard, ctx BehaviorContext, dt float64) BehaviorResult {
	n, dist := utils.DirectionTo(h.Position, ctx.PlayerPos)
	result := BehaviorResult{HazardDelta: n.Scale(h.State.SeekForce * dt)}
	if dist <= h.State.AuraRadius {
		result.PassiveHeat = h.State.PassiveHeat
	}
	return result
}

// HazardSystem 每帧推进所有敌人：角色行为、磁场作用、限速、积分
type HazardSystem struct {
	Width  float64
	Height float64
	rng    *rand.Rand
}

// NewHazardSystem 创建敌人系统
func NewHazardSystem(width, height float64, rng *rand.Rand) *HazardSystem {
	return &HazardSystem{Width: width, Height: height, rng: rng}
}

// Update 推进所有存活敌人一帧
// 被动升温在全部行为结算后一次性计入；锁定期间由 MagnetSystem 忽略
//
// 返回：
//
//	[]*entities.Hazard - 本帧请求开火的敌人（按遍历顺序）
func (s *HazardSystem) Update(dt, elapsed float64, hazards []*entities.Hazard, player *entities.Player, magnet *MagnetSystem) []*entities.Hazard {
	ctx := BehaviorContext{PlayerPos: player.Position, Elapsed: elapsed, Rand: s.rng}
	var shooters []*entities.Hazard
	passiveHeat := 0.0

	for _, h := range hazards {
		if !h.Active {
			continue
		}

		result := BehaviorFor(h.Role)(h, ctx, dt)
		h.Velocity = h.Velocity.Add(result.HazardDelta)
		if !result.PlayerForce.IsZero() {
			player.Pull(result.PlayerForce, dt)
		}
		passiveHeat += result.PassiveHeat
		if result.Fire {
			shooters = append(shooters, h)
		}

		field := magnet.FieldForce(player.Position, h.Position)
		h.Velocity = h.Velocity.Add(field.Scale(dt))

		h.Velocity = h.Velocity.ClampMagnitude(HazardSpeedLimit(h))
		h.Update(dt, s.Width, s.Height)
	}

	magnet.AddPassiveHeat(passiveHeat * dt)
	return shooters
}

// HazardSpeedLimit 敌人速度上限：最终首领固定 190，其余取角色配置
func HazardSpeedLimit(h *entities.Hazard) float64 {
	if h.Kind == entities.KindBoss {
		return bossMaxSpeed
	}
	return h.State.MaxSpeed
}
