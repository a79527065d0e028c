// Package entities 定义竞技场中的实体：飞船、敌人、废料、敌方子弹与回收区。
//
// 实体只负责自身运动学（积分、摩擦、边界处理），不读取任何全局状态；
// 所有外力（磁场、牵引、击退）由系统层在 Update 之前注入。
package entities

import (
	"math"

	"github.com/gonewx/magorbit/pkg/config"
	"github.com/gonewx/magorbit/pkg/utils"
)

// PlayerInput 每帧的操控快照
type PlayerInput struct {
	Left    bool
	Right   bool
	Boost   bool // 前推
	Reverse bool
}

// Player 玩家飞船
type Player struct {
	Position utils.Vector2
	Velocity utils.Vector2
	Angle    float64 // 朝向（弧度）
	Radius   float64

	HP    int
	MaxHP int

	CarryCount int
	CarryValue int

	Friction           float64
	MaxSpeed           float64
	RotationSpeed      float64
	BoostForce         float64
	BoostCooldown      float64
	BoostCooldownMax   float64
	ReverseScale       float64
	MinLoadFactor      float64
	LoadPenaltyPerItem float64

	Invulnerable float64 // 剩余无敌时间（秒）

	Input PlayerInput
}

// NewPlayer 在 (x, y) 创建飞船
// hp 同时作为初始生命与生命上限
func NewPlayer(x, y float64, cfg config.PlayerConfig, hp int) *Player {
	return &Player{
		Position:           utils.Vec(x, y),
		Radius:             cfg.Radius,
		HP:                 hp,
		MaxHP:              hp,
		Friction:           cfg.Friction,
		MaxSpeed:           cfg.MaxSpeed,
		RotationSpeed:      cfg.RotationSpeed,
		BoostForce:         cfg.BoostForce,
		BoostCooldownMax:   cfg.BoostCooldown,
		ReverseScale:       cfg.ReverseScale,
		MinLoadFactor:      cfg.MinLoadFactor,
		LoadPenaltyPerItem: cfg.LoadPenaltyPerItem,
	}
}

// LoadSpeedFactor 载货速度系数：max(MinLoadFactor, 1 - CarryCount×LoadPenaltyPerItem)
// 同时缩放转向速度与最大速度
func (p *Player) LoadSpeedFactor() float64 {
	return math.Max(p.MinLoadFactor, 1-float64(p.CarryCount)*p.LoadPenaltyPerItem)
}

// Heading 当前朝向的单位向量
func (p *Player) Heading() utils.Vector2 {
	return utils.Vec(math.Cos(p.Angle), math.Sin(p.Angle))
}

// Pull 外力（每秒速度增量）立即改变当前速度，限速在下一次 Update 中生效
func (p *Player) Pull(force utils.Vector2, dt float64) {
	p.Velocity = p.Velocity.Add(force.Scale(dt))
}

// Update 推进飞船一帧
//
// 参数：
//
//	dt - 帧间隔（秒），调用方保证已钳制
//	width, height - 场地尺寸，位置被硬性限制在 [Radius, 边界-Radius]
func (p *Player) Update(dt, width, height float64) {
	if p.Invulnerable > 0 {
		p.Invulnerable = math.Max(0, p.Invulnerable-dt)
	}
	if p.BoostCooldown > 0 {
		p.BoostCooldown -= dt
	}

	factor := p.LoadSpeedFactor()
	if p.Input.Left {
		p.Angle -= p.RotationSpeed * dt * factor
	}
	if p.Input.Right {
		p.Angle += p.RotationSpeed * dt * factor
	}

	heading := p.Heading()
	if p.Input.Boost && p.BoostCooldown <= 0 {
		p.Velocity = p.Velocity.Add(heading.Scale(p.BoostForce * dt))
		p.BoostCooldown = p.BoostCooldownMax
	}
	if p.Input.Reverse && p.BoostCooldown <= 0 {
		p.Velocity = p.Velocity.Add(heading.Scale(-p.BoostForce * p.ReverseScale * dt))
		p.BoostCooldown = p.BoostCooldownMax * p.ReverseScale
	}

	p.Velocity = p.Velocity.Scale(p.Friction)
	p.Velocity = p.Velocity.ClampMagnitude(p.MaxSpeed * factor)

	p.Position = p.Position.Add(p.Velocity.Scale(dt))
	p.Position.X = utils.Clamp(p.Position.X, p.Radius, width-p.Radius)
	p.Position.Y = utils.Clamp(p.Position.Y, p.Radius, height-p.Radius)
}

// IsMoving 是否有任何移动输入
func (p *Player) IsMoving() bool {
	return p.Input.Left || p.Input.Right || p.Input.Boost || p.Input.Reverse
}
