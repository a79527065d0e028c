package main

import (
	"math"

	"github.com/gonewx/magorbit/pkg/arena"
	"github.com/gonewx/magorbit/pkg/config"
	"github.com/gonewx/magorbit/pkg/entities"
	"github.com/gonewx/magorbit/pkg/utils"
)

// autopilot 简单的贪心驾驶：捡最近的废料，满载或时间紧时回收区交付，
// 敌人靠近时用排斥场推开，贴身时冲能
type autopilot struct {
	repelRange  float64 // 敌人进入此距离时开启排斥
	surgeRange  float64 // 敌人进入此距离时冲能
	maxHeat     int     // 热量超过此百分比时松开磁场
	aimTolerant float64 // 朝向误差小于此值时推进（弧度）
}

func newAutopilot(tuning *config.TuningConfig) *autopilot {
	return &autopilot{
		repelRange:  tuning.Magnet.FieldRadius * 0.8,
		surgeRange:  60,
		maxHeat:     75,
		aimTolerant: 0.9,
	}
}

// OnUpgradeReady 实现 arena.UpgradeHandler，选择在 pick 中完成
func (ap *autopilot) OnUpgradeReady([]config.UpgradeOption) {}

// pick 选择升级：优先修复船体，其次第一个候选
func (ap *autopilot) pick(choices []config.UpgradeOption) string {
	for _, c := range choices {
		if c.Type == "health" {
			return c.ID
		}
	}
	return choices[0].ID
}

// decide 根据当前局面给出一帧的操作
func (ap *autopilot) decide(a *arena.Arena, hud arena.HUD) arena.Input {
	var in arena.Input
	p := a.Player

	threat, threatDist := nearestHazard(a.Hazards, p.Position)

	// 磁场：敌人在范围内时切到排斥并按住
	if threat != nil && threatDist < ap.repelRange && !a.Magnet.Locked {
		if a.Magnet.Polarity != entities.PolarityRepel {
			in.MagnetToggle = true
		} else if a.Magnet.HeatPercent() < ap.maxHeat {
			in.MagnetHeld = true
		}
	}
	if threat != nil && threatDist < ap.surgeRange && a.Magnet.SurgeReady() {
		in.Surge = true
	}

	carry := p.CarryCount
	if a.InZone() && carry > 0 {
		in.Deposit = true
	}

	target, ok := ap.target(a, hud)
	if ok {
		in.Left, in.Right, in.Forward = steer(p.Position, p.Angle, target, ap.aimTolerant)
	}
	return in
}

// target 满载、没有废料或剩余时间不多时回收区，否则最近的废料
func (ap *autopilot) target(a *arena.Arena, hud arena.HUD) (utils.Vector2, bool) {
	p := a.Player
	full := hud.MaxCarry > 0 && p.CarryCount >= hud.MaxCarry
	hurry := p.CarryCount > 0 && hud.TimeLeft > 0 && hud.TimeLeft < 15
	if full || hurry {
		return a.Zone.Position, true
	}

	var best utils.Vector2
	bestDist := math.Inf(1)
	for _, d := range a.Debris {
		if d.Collected {
			continue
		}
		if dist := p.Position.Distance(d.Position); dist < bestDist {
			best, bestDist = d.Position, dist
		}
	}
	if math.IsInf(bestDist, 1) {
		if p.CarryCount > 0 {
			return a.Zone.Position, true
		}
		return utils.Vector2{}, false
	}
	return best, true
}

func nearestHazard(hazards []*entities.Hazard, pos utils.Vector2) (*entities.Hazard, float64) {
	var best *entities.Hazard
	bestDist := math.Inf(1)
	for _, h := range hazards {
		if !h.Active {
			continue
		}
		if d := pos.Distance(h.Position) - h.Radius; d < bestDist {
			best, bestDist = h, d
		}
	}
	return best, bestDist
}

// steer 转向目标：角度增大为右转；误差小于 tolerance 时推进
func steer(pos utils.Vector2, angle float64, target utils.Vector2, tolerance float64) (left, right, forward bool) {
	d := target.Sub(pos)
	if d.IsZero() {
		return false, false, false
	}
	diff := normalizeAngle(math.Atan2(d.Y, d.X) - angle)
	const deadZone = 0.12
	switch {
	case diff > deadZone:
		right = true
	case diff < -deadZone:
		left = true
	}
	forward = math.Abs(diff) < tolerance
	return left, right, forward
}

// normalizeAngle 归一化到 (-π, π]
func normalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	switch {
	case a > math.Pi:
		a -= 2 * math.Pi
	case a <= -math.Pi:
		a += 2 * math.Pi
	}
	return a
}
