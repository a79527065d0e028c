package systems

import (
	"math"

	"github.com/gonewx/magorbit/pkg/config"
)

// DifficultyEngine 难度引擎
// 负责把难度名解析为档位，并计算刷怪间隔、同屏上限、磁场参数等难度相关数值
type DifficultyEngine struct {
	tuning  *config.TuningConfig
	name    string
	profile config.DifficultyProfile
}

// NewDifficultyEngine 创建新的难度引擎实例
// 未知难度名回落到配置中的默认难度
func NewDifficultyEngine(tuning *config.TuningConfig, difficulty string) *DifficultyEngine {
	name, profile := tuning.Profile(difficulty)
	return &DifficultyEngine{
		tuning:  tuning,
		name:    name,
		profile: profile,
	}
}

// Name 实际生效的难度名
func (d *DifficultyEngine) Name() string {
	return d.name
}

// Profile 当前难度档位
func (d *DifficultyEngine) Profile() config.DifficultyProfile {
	return d.profile
}

// SpawnInterval 计算刷怪间隔
// 公式: max(MinInterval, (章节基准间隔 + 冲能加成) × SpawnIntervalScale)
// 参数:
//
//	elapsed - 对局时间（秒），决定所在章节
//	surgeActive - 冲能期间间隔略微放宽
//
// 返回:
//
//	刷怪间隔（秒）
func (d *DifficultyEngine) SpawnInterval(elapsed float64, surgeActive bool) float64 {
	chapter, _ := d.tuning.ChapterAt(elapsed)
	base := chapter.SpawnInterval
	if surgeActive {
		base += d.tuning.Spawn.SurgeIntervalBonus
	}
	return math.Max(d.tuning.Spawn.MinInterval, base*d.profile.SpawnIntervalScale)
}

// BasicCap 普通敌人同屏上限
func (d *DifficultyEngine) BasicCap() int {
	return d.profile.BasicCap
}

// BasicSpeed 普通敌人初始速率
// 公式: (BaseSpeed + jitter×SpeedJitter + min(SpeedRampMax, elapsed×SpeedRampPerSecond)) × EnemySpeedScale
// jitter 为 [0,1) 随机数，由调用方提供
func (d *DifficultyEngine) BasicSpeed(elapsed, jitter float64) float64 {
	s := d.tuning.Spawn
	ramp := math.Min(s.SpeedRampMax, elapsed*s.SpeedRampPerSecond)
	return (s.BaseSpeed + jitter*s.SpeedJitter + ramp) * d.profile.EnemySpeedScale
}

// HeatRate 缩放后的升温速率（每秒）
func (d *DifficultyEngine) HeatRate() float64 {
	return d.tuning.Magnet.HeatRate * d.profile.HeatRateScale
}

// CoolRate 缩放后的降温速率（每秒）
func (d *DifficultyEngine) CoolRate() float64 {
	return d.tuning.Magnet.CoolRate * d.profile.CoolRateScale
}

// LockDuration 缩放后的过热锁定时长（秒）
func (d *DifficultyEngine) LockDuration() float64 {
	return d.tuning.Magnet.LockDuration * d.profile.LockDurationScale
}

// PlayerHP 玩家初始生命
func (d *DifficultyEngine) PlayerHP() int {
	return d.profile.PlayerHP
}
