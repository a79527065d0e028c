package systems

import (
	"math"
	"math/rand"

	"github.com/gonewx/magorbit/pkg/utils"
)

// Tint 特效色调标记，具体颜色由表现层决定
type Tint string

const (
	TintDanger Tint = "danger" // 红：受伤、过热
	TintCool   Tint = "cool"   // 青：排斥、子弹反弹
	TintGood   Tint = "good"   // 绿：冲能、升级
	TintWarm   Tint = "warm"   // 黄：废料、回收
)

const particleLife = 0.5

// Particle 粒子
type Particle struct {
	Position utils.Vector2
	Velocity utils.Vector2
	Life     float64
	Size     float64
	Tint     Tint
}

// Shockwave 冲击波（半径扩散到上限后消失）
type Shockwave struct {
	Position  utils.Vector2
	Radius    float64
	MaxRadius float64
	Tint      Tint
}

// VFXSystem 表现层倒计时：震屏、受击闪红、卡肉、粒子、冲击波
// 全部由帧 tick 推进，不影响模拟状态（卡肉除外：卡肉期间跳过模拟）
type VFXSystem struct {
	ShakeIntensity float64
	ShakeRemaining float64
	HitFlash       float64
	HitStop        float64
	Particles      []Particle
	Shockwaves     []Shockwave

	rng *rand.Rand
}

// NewVFXSystem 创建特效系统
func NewVFXSystem(rng *rand.Rand) *VFXSystem {
	return &VFXSystem{rng: rng}
}

// Reset 清空所有特效
func (v *VFXSystem) Reset() {
	v.ShakeIntensity = 0
	v.ShakeRemaining = 0
	v.HitFlash = 0
	v.HitStop = 0
	v.Particles = v.Particles[:0]
	v.Shockwaves = v.Shockwaves[:0]
}

// TriggerShake 震屏，强度取较大值，时长取较长值
func (v *VFXSystem) TriggerShake(intensity, duration float64) {
	v.ShakeIntensity = math.Max(v.ShakeIntensity, intensity)
	v.ShakeRemaining = math.Max(v.ShakeRemaining, duration)
}

// TriggerHitFlash 受击闪红
func (v *VFXSystem) TriggerHitFlash(duration float64) {
	v.HitFlash = math.Max(v.HitFlash, duration)
}

// TriggerHitStop 卡肉
func (v *VFXSystem) TriggerHitStop(duration float64) {
	v.HitStop = math.Max(v.HitStop, duration)
}

// SpawnParticles 以 pos 为中心均匀向外发射 count 个粒子
func (v *VFXSystem) SpawnParticles(pos utils.Vector2, count int, tint Tint, speed float64) {
	for i := 0; i < count; i++ {
		angle := math.Pi * 2 * float64(i) / float64(count)
		s := speed * (0.5 + v.rng.Float64()*0.5)
		v.Particles = append(v.Particles, Particle{
			Position: pos,
			Velocity: utils.Vec(math.Cos(angle)*s, math.Sin(angle)*s),
			Life:     particleLife,
			Size:     2 + v.rng.Float64()*3,
			Tint:     tint,
		})
	}
}

// SpawnShockwave 冲击波
func (v *VFXSystem) SpawnShockwave(pos utils.Vector2, tint Tint, maxRadius float64) {
	v.Shockwaves = append(v.Shockwaves, Shockwave{Position: pos, MaxRadius: maxRadius, Tint: tint})
}

// Update 推进所有特效倒计时
//
// 返回：
//
//	bool - 本帧是否允许推进模拟（卡肉期间为 false）
func (v *VFXSystem) Update(dt float64) bool {
	if v.ShakeRemaining > 0 {
		v.ShakeRemaining -= dt
		if v.ShakeRemaining <= 0 {
			v.ShakeRemaining = 0
			v.ShakeIntensity = 0
		}
	}
	if v.HitFlash > 0 {
		v.HitFlash = math.Max(0, v.HitFlash-dt)
	}

	alive := v.Particles[:0]
	for _, p := range v.Particles {
		p.Position = p.Position.Add(p.Velocity.Scale(dt))
		p.Life -= dt
		p.Size *= 0.98
		if p.Life > 0 {
			alive = append(alive, p)
		}
	}
	v.Particles = alive

	waves := v.Shockwaves[:0]
	for _, w := range v.Shockwaves {
		w.Radius += w.MaxRadius * 2.5 * dt
		if w.Radius < w.MaxRadius {
			waves = append(waves, w)
		}
	}
	v.Shockwaves = waves

	if v.HitStop > 0 {
		v.HitStop = math.Max(0, v.HitStop-dt)
		return false
	}
	return true
}

// ShakeOffset 当前震屏偏移
func (v *VFXSystem) ShakeOffset() utils.Vector2 {
	if v.ShakeIntensity <= 0 {
		return utils.Vector2{}
	}
	return utils.Vec((v.rng.Float64()-0.5)*v.ShakeIntensity, (v.rng.Float64()-0.5)*v.ShakeIntensity)
}

// ParticleAlpha 粒子透明度（剩余寿命的两倍，最大为 1）
func ParticleAlpha(p Particle) float64 {
	return utils.Clamp(p.Life*2, 0, 1)
}
