package entities

import "github.com/gonewx/magorbit/pkg/utils"

// Debris 可回收的废料
type Debris struct {
	Position   utils.Vector2
	Value      int
	Radius     float64
	Collected  bool
	FloatPhase float64 // 漂浮动画相位
}

// Update 推进漂浮相位
func (d *Debris) Update(dt float64) {
	d.FloatPhase += dt * 2
}

// Projectile 敌方子弹
type Projectile struct {
	Position utils.Vector2
	Velocity utils.Vector2
	Radius   float64
	TTL      float64
	Active   bool
}

// Update 积分位置；寿命耗尽或飞出边界 margin 后失活
func (p *Projectile) Update(dt, width, height, margin float64) {
	if !p.Active {
		return
	}
	p.TTL -= dt
	p.Position = p.Position.Add(p.Velocity.Scale(dt))
	if p.TTL <= 0 ||
		p.Position.X < -margin || p.Position.X > width+margin ||
		p.Position.Y < -margin || p.Position.Y > height+margin {
		p.Active = false
	}
}

// DepositZone 回收区，固定在场地中央
type DepositZone struct {
	Position   utils.Vector2
	Radius     float64
	PulsePhase float64
}

// NewDepositZone 创建回收区，半径非正时使用 50
func NewDepositZone(x, y, radius float64) *DepositZone {
	if radius <= 0 {
		radius = 50
	}
	return &DepositZone{Position: utils.Vec(x, y), Radius: radius}
}

// Update 推进脉冲相位
func (z *DepositZone) Update(dt float64) {
	z.PulsePhase += dt * 2
}

// Contains 点是否在回收区内（含边界）
func (z *DepositZone) Contains(point utils.Vector2) bool {
	return z.Position.Distance(point) <= z.Radius
}
