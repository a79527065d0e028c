package scenes

import (
	"fmt"
	"strings"

	"github.com/gonewx/magorbit/pkg/arena"
)

// formatHUDTop 第一行：生命、分数、剩余时间、波次、连击
func formatHUDTop(h arena.HUD) string {
	parts := []string{
		fmt.Sprintf("HP %d/%d", h.HP, h.MaxHP),
		fmt.Sprintf("SCORE %d", h.Score),
		fmt.Sprintf("TIME %d", h.TimeLeft),
		"WAVE " + h.Wave,
	}
	if h.ComboActive {
		parts = append(parts, "COMBO "+h.Combo)
	}
	if h.BossPhase > 0 {
		parts = append(parts, fmt.Sprintf("PHASE %d", h.BossPhase))
	}
	if h.Paused {
		parts = append(parts, "PAUSED")
	}
	return strings.Join(parts, "  ")
}

// formatHUDBottom 第二行：磁场、冲能、货舱、交付进度、难度
func formatHUDBottom(h arena.HUD) string {
	parts := []string{
		fmt.Sprintf("MAG %s %d%%", h.Magnet, h.HeatPercent),
		"SURGE " + surgeLabel(h),
		fmt.Sprintf("CARGO %d/%d", h.Carry, h.MaxCarry),
		fmt.Sprintf("DELIVERED %d/%d", h.Delivered, h.Quota),
		strings.ToUpper(h.Difficulty),
	}
	if h.InZone && h.Carry > 0 {
		parts = append(parts, "E: DEPOSIT")
	}
	return strings.Join(parts, "  ")
}

func surgeLabel(h arena.HUD) string {
	switch {
	case h.SurgeActive:
		return "ACTIVE"
	case h.SurgeReady:
		return "READY"
	default:
		return fmt.Sprintf("%.1fs", h.SurgeCooldown)
	}
}
