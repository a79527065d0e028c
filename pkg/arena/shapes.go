package arena

import (
	"math"

	"github.com/gonewx/magorbit/pkg/entities"
	"github.com/gonewx/magorbit/pkg/systems"
	"github.com/gonewx/magorbit/pkg/utils"
)

// ShapeKind 绘制图元类型
type ShapeKind int

const (
	ShapeZone ShapeKind = iota
	ShapeDebris
	ShapeField
	ShapeHazard
	ShapeProjectile
	ShapePlayer
	ShapeShockwave
	ShapeParticle
)

// Shape 一个待绘制的图元
// 前端（ebiten 或终端）只根据 Kind 与 Style 选择颜色和形状，不接触实体本身
type Shape struct {
	Kind   ShapeKind
	X, Y   float64
	Radius float64
	Angle  float64
	Alpha  float64
	Style  string // 角色名、极性或特效色调
	HP     float64
}

// Shapes 按绘制顺序导出当前场景
// 回收区在最底层，粒子在最上层
func (a *Arena) Shapes() []Shape {
	out := make([]Shape, 0, 2+len(a.Debris)+len(a.Hazards)+len(a.Projectiles)+len(a.VFX.Particles)+len(a.VFX.Shockwaves))

	z := a.Zone
	out = append(out, Shape{
		Kind:   ShapeZone,
		X:      z.Position.X,
		Y:      z.Position.Y,
		Radius: z.Radius,
		Alpha:  0.35 + 0.25*utils.Pulse(z.PulsePhase),
		Style:  "zone",
	})

	for _, d := range a.Debris {
		out = append(out, Shape{
			Kind:   ShapeDebris,
			X:      d.Position.X,
			Y:      d.Position.Y + math.Sin(d.FloatPhase)*2,
			Radius: d.Radius,
			Alpha:  1,
			Style:  string(systems.TintWarm),
		})
	}

	p := a.Player
	if a.Magnet.Engaged() {
		out = append(out, Shape{
			Kind:   ShapeField,
			X:      p.Position.X,
			Y:      p.Position.Y,
			Radius: a.Tuning.Magnet.FieldRadius,
			Alpha:  0.25,
			Style:  a.Magnet.Polarity.String(),
		})
	}

	for _, h := range a.Hazards {
		if !h.Active {
			continue
		}
		out = append(out, Shape{
			Kind:   ShapeHazard,
			X:      h.Position.X,
			Y:      h.Position.Y,
			Radius: h.Radius,
			Angle:  h.Rotation,
			Alpha:  1,
			Style:  h.Role.String(),
			HP:     h.HPFraction(),
		})
	}

	for _, pr := range a.Projectiles {
		if !pr.Active {
			continue
		}
		out = append(out, Shape{Kind: ShapeProjectile, X: pr.Position.X, Y: pr.Position.Y, Radius: pr.Radius, Alpha: 1, Style: string(systems.TintDanger)})
	}

	out = append(out, Shape{
		Kind:   ShapePlayer,
		X:      p.Position.X,
		Y:      p.Position.Y,
		Radius: p.Radius,
		Angle:  p.Angle,
		Alpha:  playerAlpha(p, a.Elapsed),
		Style:  a.Magnet.Polarity.String(),
		HP:     float64(p.HP) / float64(max(1, p.MaxHP)),
	})

	for _, w := range a.VFX.Shockwaves {
		out = append(out, Shape{
			Kind:   ShapeShockwave,
			X:      w.Position.X,
			Y:      w.Position.Y,
			Radius: w.Radius,
			Alpha:  1 - w.Radius/math.Max(1, w.MaxRadius),
			Style:  string(w.Tint),
		})
	}
	for _, pt := range a.VFX.Particles {
		out = append(out, Shape{
			Kind:   ShapeParticle,
			X:      pt.Position.X,
			Y:      pt.Position.Y,
			Radius: pt.Size,
			Alpha:  systems.ParticleAlpha(pt),
			Style:  string(pt.Tint),
		})
	}
	return out
}

// playerAlpha 无敌期间闪烁
func playerAlpha(p *entities.Player, elapsed float64) float64 {
	if p.Invulnerable <= 0 {
		return 1
	}
	if int(elapsed*20)%2 == 0 {
		return 0.4
	}
	return 1
}
