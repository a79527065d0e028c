package entities

import (
	"math"

	"github.com/gonewx/magorbit/pkg/config"
	"github.com/gonewx/magorbit/pkg/utils"
)

// HazardKind 敌人层级
type HazardKind int

const (
	KindBasic HazardKind = iota
	KindMiniboss
	KindBoss
)

func (k HazardKind) String() string {
	switch k {
	case KindMiniboss:
		return "miniboss"
	case KindBoss:
		return "boss"
	default:
		return "basic"
	}
}

// Role 敌人行为角色
type Role int

const (
	RoleChaser Role = iota
	RoleShooter
	RoleAnchor
	RoleBerserker
	RoleWarden
	RoleTyrant
)

var roleNames = map[Role]string{
	RoleChaser:    config.RoleChaser,
	RoleShooter:   config.RoleShooter,
	RoleAnchor:    config.RoleAnchor,
	RoleBerserker: config.RoleBerserker,
	RoleWarden:    config.RoleWarden,
	RoleTyrant:    config.RoleTyrant,
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return config.RoleChaser
}

// ParseRole 将配置中的角色名转换为 Role
// 未知名称按 chaser 处理，第二个返回值为 false
func ParseRole(name string) (Role, bool) {
	for role, n := range roleNames {
		if n == name {
			return role, true
		}
	}
	return RoleChaser, false
}

// Polarity 磁极
type Polarity int

const (
	PolarityOff Polarity = iota
	PolarityAttract
	PolarityRepel
)

// Next 极性循环：off → attract → repel → attract …
func (p Polarity) Next() Polarity {
	if p == PolarityAttract {
		return PolarityRepel
	}
	return PolarityAttract
}

// String 运行时使用的小写名称
func (p Polarity) String() string {
	switch p {
	case PolarityAttract:
		return "attract"
	case PolarityRepel:
		return "repel"
	default:
		return "off"
	}
}

// RoleState 角色行为参数与计时器
// 在生成时一次性写入，之后只由行为函数推进计时器
type RoleState struct {
	SeekForce float64
	MaxSpeed  float64

	// shooter
	PreferredDistance float64
	ApproachForce     float64
	RetreatForce      float64
	NextShotAt        float64
	ShotCooldown      float64
	ShotJitter        float64

	// anchor / warden / tyrant
	AuraRadius      float64
	PullForce       float64
	PlayerPullScale float64
	PassiveHeat     float64

	// berserker
	NextDashAt   float64
	DashCooldown float64
	DashStrength float64
}

// Hazard 战斗敌人
type Hazard struct {
	Position      utils.Vector2
	Velocity      utils.Vector2
	Radius        float64
	HP            int
	MaxHP         int
	Kind          HazardKind
	Role          Role
	Polarity      Polarity // 外观标记
	ScoreValue    int
	Active        bool
	Rotation      float64
	RotationSpeed float64
	Margin        float64 // 离场判定余量
	State         RoleState
}

// IsSpecial 是否为首领（小首领或最终首领）
func (h *Hazard) IsSpecial() bool {
	return h.Kind != KindBasic
}

// HPFraction 剩余血量比例
func (h *Hazard) HPFraction() float64 {
	if h.MaxHP <= 0 {
		return 0
	}
	return float64(h.HP) / float64(h.MaxHP)
}

// Update 积分位置并旋转
// 普通敌人越出边界 Margin 后失活；首领在场内反弹，保证始终可被击败
func (h *Hazard) Update(dt, width, height float64) {
	if !h.Active {
		return
	}

	h.Position = h.Position.Add(h.Velocity.Scale(dt))
	h.Rotation += h.RotationSpeed * dt

	if h.IsSpecial() {
		h.bounceInside(width, height)
		return
	}

	if h.Position.X < -h.Margin || h.Position.X > width+h.Margin ||
		h.Position.Y < -h.Margin || h.Position.Y > height+h.Margin {
		h.Active = false
	}
}

func (h *Hazard) bounceInside(width, height float64) {
	if h.Position.X < h.Radius {
		h.Position.X = h.Radius
		h.Velocity.X = math.Abs(h.Velocity.X)
	} else if h.Position.X > width-h.Radius {
		h.Position.X = width - h.Radius
		h.Velocity.X = -math.Abs(h.Velocity.X)
	}
	if h.Position.Y < h.Radius {
		h.Position.Y = h.Radius
		h.Velocity.Y = math.Abs(h.Velocity.Y)
	} else if h.Position.Y > height-h.Radius {
		h.Position.Y = height - h.Radius
		h.Velocity.Y = -math.Abs(h.Velocity.Y)
	}
}

// TakeDamage 扣血，返回是否被击毁
// 击毁时 Active 置为 false，由帧末过滤移除
func (h *Hazard) TakeDamage(amount int) bool {
	if !h.Active || amount <= 0 {
		return false
	}
	h.HP -= amount
	if h.HP <= 0 {
		h.HP = 0
		h.Active = false
		return true
	}
	return false
}
