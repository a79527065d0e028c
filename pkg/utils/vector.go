// Package utils 提供游戏开发中常用的工具函数
//
// vector.go 提供二维向量运算，所有运算都返回新值，不修改接收者。
package utils

import "math"

// Vector2 二维向量（位置、速度、加速度共用）
type Vector2 struct {
	X float64
	Y float64
}

// Vec 创建向量的简写
func Vec(x, y float64) Vector2 {
	return Vector2{X: x, Y: y}
}

// Add 向量相加
func (v Vector2) Add(o Vector2) Vector2 {
	return Vector2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub 向量相减
func (v Vector2) Sub(o Vector2) Vector2 {
	return Vector2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale 数乘
func (v Vector2) Scale(s float64) Vector2 {
	return Vector2{X: v.X * s, Y: v.Y * s}
}

// Magnitude 向量长度
func (v Vector2) Magnitude() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Normalize 单位化
// 零向量返回零向量（不做除零）
func (v Vector2) Normalize() Vector2 {
	mag := v.Magnitude()
	if mag == 0 {
		return Vector2{}
	}
	return Vector2{X: v.X / mag, Y: v.Y / mag}
}

// Distance 两点间距离
func (v Vector2) Distance(o Vector2) float64 {
	dx := v.X - o.X
	dy := v.Y - o.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// IsZero 是否为零向量
func (v Vector2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// DirectionTo 计算 from 指向 to 的单位方向和距离
//
// 两点重合时距离按 1 处理，方向为零向量，调用方可以直接拿距离做除数
//
// 返回：
//   - Vector2: 单位方向
//   - float64: 距离（最小为 1 的替代值）
func DirectionTo(from, to Vector2) (Vector2, float64) {
	dx := to.X - from.X
	dy := to.Y - from.Y
	dist := math.Hypot(dx, dy)
	if dist == 0 {
		return Vector2{}, 1
	}
	return Vector2{X: dx / dist, Y: dy / dist}, dist
}

// ClampMagnitude 限制向量长度不超过 max
func (v Vector2) ClampMagnitude(max float64) Vector2 {
	mag := v.Magnitude()
	if mag <= max || mag == 0 {
		return v
	}
	return v.Scale(max / mag)
}

// Clamp 将 value 限制在 [min, max] 区间
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// FiniteNonNegative 非有限值或负值一律视为 0
// 用于帧间隔等必须非负的输入
func FiniteNonNegative(value float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return 0
	}
	return value
}
