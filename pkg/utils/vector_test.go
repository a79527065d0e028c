package utils

import (
	"math"
	"testing"
)

// TestVector2Arithmetic 测试基本向量运算
func TestVector2Arithmetic(t *testing.T) {
	a := Vec(3, 4)
	b := Vec(1, -2)

	if got := a.Add(b); got != Vec(4, 2) {
		t.Errorf("Add: got %+v, want {4 2}", got)
	}
	if got := a.Sub(b); got != Vec(2, 6) {
		t.Errorf("Sub: got %+v, want {2 6}", got)
	}
	if got := a.Scale(0.5); got != Vec(1.5, 2) {
		t.Errorf("Scale: got %+v, want {1.5 2}", got)
	}
	if got := a.Magnitude(); got != 5 {
		t.Errorf("Magnitude: got %v, want 5", got)
	}
	if got := a.Distance(Vec(0, 0)); got != 5 {
		t.Errorf("Distance: got %v, want 5", got)
	}

	// 运算不修改原值
	if a != Vec(3, 4) {
		t.Errorf("receiver mutated: %+v", a)
	}
}

// TestVector2Normalize 测试单位化（包括零向量）
func TestVector2Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   Vector2
		want Vector2
	}{
		{"零向量", Vec(0, 0), Vec(0, 0)},
		{"X轴", Vec(10, 0), Vec(1, 0)},
		{"斜向", Vec(3, 4), Vec(0.6, 0.8)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize()
			if math.Abs(got.X-tt.want.X) > 1e-9 || math.Abs(got.Y-tt.want.Y) > 1e-9 {
				t.Errorf("Normalize(%+v) = %+v, want %+v", tt.in, got, tt.want)
			}
			if math.IsNaN(got.X) || math.IsNaN(got.Y) {
				t.Errorf("Normalize produced NaN")
			}
		})
	}
}

// TestDirectionTo 测试方向与距离计算
func TestDirectionTo(t *testing.T) {
	dir, dist := DirectionTo(Vec(0, 0), Vec(0, 20))
	if dist != 20 || dir != Vec(0, 1) {
		t.Errorf("DirectionTo: got dir=%+v dist=%v", dir, dist)
	}

	dir, dist = DirectionTo(Vec(5, 5), Vec(5, 5))
	if dist != 1 || !dir.IsZero() {
		t.Errorf("重合点应返回零方向和距离1, got dir=%+v dist=%v", dir, dist)
	}
}

// TestClampMagnitude 测试长度限制
func TestClampMagnitude(t *testing.T) {
	v := Vec(30, 40).ClampMagnitude(10)
	if math.Abs(v.Magnitude()-10) > 1e-9 {
		t.Errorf("ClampMagnitude: got length %v, want 10", v.Magnitude())
	}
	if Vec(1, 1).ClampMagnitude(10) != Vec(1, 1) {
		t.Error("短向量不应被修改")
	}
}

// TestFiniteNonNegative 测试非法输入被强制为 0
func TestFiniteNonNegative(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"正常值", 0.016, 0.016},
		{"负值", -1, 0},
		{"NaN", math.NaN(), 0},
		{"正无穷", math.Inf(1), 0},
		{"负无穷", math.Inf(-1), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FiniteNonNegative(tt.in); got != tt.want {
				t.Errorf("FiniteNonNegative(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

// TestClamp 测试区间限制
func TestClamp(t *testing.T) {
	if Clamp(150, 0, 100) != 100 || Clamp(-5, 0, 100) != 0 || Clamp(42, 0, 100) != 42 {
		t.Error("Clamp 结果错误")
	}
}
