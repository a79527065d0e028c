package utils

import "math"

// Easing Functions (缓动函数)
//
// 表现层用于控制冲击波扩散、粒子淡出、提示条渐隐等效果的速度曲线。
// 所有缓动函数接受进度值 t ∈ [0, 1]，返回缓动后的值 ∈ [0, 1]。
//
// 参考：https://easings.net/

// EaseOutCubic 三次方缓出
// 特点：开始快，结束慢（用于冲击波半径扩散）
// 公式：f(t) = 1 - (1-t)³
func EaseOutCubic(t float64) float64 {
	t = Clamp(t, 0, 1)
	return 1 - math.Pow(1-t, 3)
}

// EaseInQuad 二次方缓入
// 公式：f(t) = t²
func EaseInQuad(t float64) float64 {
	t = Clamp(t, 0, 1)
	return t * t
}

// Lerp 线性插值
// t=0 返回 a，t=1 返回 b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Pulse 把相位映射为 [0, 1] 的正弦脉动值（回收区、标题闪烁）
func Pulse(phase float64) float64 {
	return 0.5 + 0.5*math.Sin(phase)
}

// FadeOut 根据剩余时间计算透明度
// 剩余时间大于 fade 时完全不透明，之后按缓入曲线淡出
func FadeOut(remaining, fade float64) float64 {
	if fade <= 0 || remaining >= fade {
		return 1
	}
	if remaining <= 0 {
		return 0
	}
	return EaseInQuad(remaining / fade)
}
