package systems

import (
	"math"

	"github.com/gonewx/magorbit/pkg/config"
	"github.com/gonewx/magorbit/pkg/entities"
	"github.com/gonewx/magorbit/pkg/utils"
)

// CombatReport 一次碰撞结算的结果，由调用方转发给运行状态机
type CombatReport struct {
	Score      int                // 本次获得的分数
	PlayerHits int                // 玩家实际受到伤害的次数
	Defeated   []*entities.Hazard // 本次被击毁的敌人
}

// Merge 合并另一份结算结果
func (r *CombatReport) Merge(other CombatReport) {
	r.Score += other.Score
	r.PlayerHits += other.PlayerHits
	r.Defeated = append(r.Defeated, other.Defeated...)
}

// CombatSystem 玩家与敌人、敌方子弹的碰撞结算
//
// 所有移除都只是把 Active 置为 false，真正的过滤在帧末进行。
type CombatSystem struct {
	PlayerDamage int // 接触伤害（升级可提升）

	cfg          config.CombatConfig
	vfx          *VFXSystem
	cues         CuePlayer
	lastDamageAt float64
}

// NewCombatSystem 创建碰撞结算系统
// cues 为 nil 时不播放音效
func NewCombatSystem(cfg config.CombatConfig, vfx *VFXSystem, cues CuePlayer) *CombatSystem {
	if cues == nil {
		cues = NopCuePlayer{}
	}
	return &CombatSystem{
		PlayerDamage: cfg.PlayerDamage,
		cfg:          cfg,
		vfx:          vfx,
		cues:         cues,
		lastDamageAt: math.Inf(-1),
	}
}

// ResolveProjectiles 结算敌方子弹与玩家的碰撞
// 排斥生效或冲能期间子弹被弹开并计分，否则子弹消失并伤害玩家
func (c *CombatSystem) ResolveProjectiles(now float64, player *entities.Player, projectiles []*entities.Projectile, magnet *MagnetSystem) CombatReport {
	var report CombatReport
	deflect := magnet.SurgeActive || magnet.Repelling()

	for _, p := range projectiles {
		if !p.Active {
			continue
		}
		if p.Position.Distance(player.Position) > player.Radius+p.Radius {
			continue
		}

		p.Active = false
		if deflect {
			reward := c.cfg.ProjectileReward
			if magnet.SurgeActive {
				reward = c.cfg.SurgeProjectileReward
			}
			report.Score += reward
			c.vfx.SpawnParticles(p.Position, 5, TintCool, 90)
			c.cues.PlayCue(CueHit)
			continue
		}

		if c.DamagePlayer(now, player, magnet) {
			report.PlayerHits++
		}
	}
	return report
}

// ResolveHazards 结算敌人与玩家的接触
//
// 吸引或冲能：对敌人造成伤害，未击毁则击退；
// 排斥：只击退；
// 磁场关闭：玩家受伤。
func (c *CombatSystem) ResolveHazards(now float64, player *entities.Player, hazards []*entities.Hazard, magnet *MagnetSystem) CombatReport {
	var report CombatReport
	surge := magnet.SurgeActive
	attract := magnet.Attracting()
	repel := magnet.Repelling()

	for _, h := range hazards {
		if !h.Active {
			continue
		}
		if player.Position.Distance(h.Position) > player.Radius+h.Radius {
			continue
		}

		switch {
		case attract || surge:
			destroyed := h.TakeDamage(c.PlayerDamage * magnet.DamageMultiplier())
			c.impactEffects(h, surge)
			if destroyed {
				c.cues.PlayCue(CueDestroy)
				report.Score += DefeatScore(h, surge, c.cfg.SurgeScoreBonus)
				report.Defeated = append(report.Defeated, h)
				continue
			}
			c.cues.PlayCue(CueHit)
			knockback := c.cfg.HitKnockback
			if surge {
				knockback = c.cfg.SurgeKnockback
			}
			h.Velocity = h.Velocity.Add(knockDirection(player.Position, h.Position).Scale(knockback))

		case repel:
			h.Velocity = h.Velocity.Add(knockDirection(player.Position, h.Position).Scale(c.cfg.RepelKnockback))
			c.vfx.SpawnParticles(h.Position, 6, TintCool, 80)
			c.cues.PlayCue(CueShoot)

		default:
			if c.DamagePlayer(now, player, magnet) {
				report.PlayerHits++
			}
		}
	}
	return report
}

func (c *CombatSystem) impactEffects(h *entities.Hazard, surge bool) {
	boss := h.Kind == entities.KindBoss
	if boss {
		c.vfx.TriggerHitStop(0.1)
		c.vfx.TriggerShake(7, 0.18)
	} else {
		c.vfx.TriggerHitStop(0.06)
		c.vfx.TriggerShake(4, 0.18)
	}

	count := 12
	if boss {
		count = 22
	}
	tint, speed := TintCool, 95.0
	switch {
	case surge:
		tint, speed = TintGood, 120
	case h.Polarity == entities.PolarityAttract:
		tint = TintDanger
	}
	c.vfx.SpawnParticles(h.Position, count, tint, speed)
}

// DamagePlayer 对玩家造成一次伤害
// 无敌、冲能中或距上次受伤不足 MinDamageInterval 时忽略
//
// 返回：
//
//	bool - 是否实际扣血
func (c *CombatSystem) DamagePlayer(now float64, player *entities.Player, magnet *MagnetSystem) bool {
	if player.Invulnerable > 0 || magnet.SurgeActive {
		return false
	}
	if now-c.lastDamageAt < c.cfg.MinDamageInterval {
		return false
	}

	c.lastDamageAt = now
	player.HP = max(0, player.HP-1)
	player.Invulnerable = c.cfg.DamageInvulnerable

	c.vfx.TriggerShake(4, 0.24)
	c.vfx.TriggerHitFlash(0.12)
	c.vfx.SpawnParticles(player.Position, 8, TintDanger, 80)
	c.cues.PlayCue(CueDamage)
	return true
}

// DefeatScore 击毁敌人的得分，冲能期间乘以奖励系数后取整
func DefeatScore(h *entities.Hazard, surge bool, surgeBonus float64) int {
	if !surge {
		return h.ScoreValue
	}
	return int(math.Round(float64(h.ScoreValue) * surgeBonus))
}

// BossPhase 首领阶段：血量比例 ≤ phaseThree 为 3，≤ phaseTwo 为 2，否则 1；无存活首领为 0
func BossPhase(boss *entities.Hazard, phaseTwo, phaseThree float64) int {
	if boss == nil || !boss.Active {
		return 0
	}
	ratio := boss.HPFraction()
	switch {
	case ratio <= phaseThree:
		return 3
	case ratio <= phaseTwo:
		return 2
	default:
		return 1
	}
}

// knockDirection 从玩家指向敌人的单位向量
// 坐标分量重合时按 1 处理，保证击退方向总是确定的
func knockDirection(playerPos, hazardPos utils.Vector2) utils.Vector2 {
	d := hazardPos.Sub(playerPos)
	if d.X == 0 {
		d.X = 1
	}
	if d.Y == 0 {
		d.Y = 1
	}
	return d.Normalize()
}
