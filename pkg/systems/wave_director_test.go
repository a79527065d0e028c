package systems

import (
	"math/rand"
	"testing"

	"github.com/gonewx/magorbit/pkg/config"
	"github.com/gonewx/magorbit/pkg/entities"
	"github.com/gonewx/magorbit/pkg/utils"
)

func newTestDirector(difficulty string) (*WaveDirector, *config.TuningConfig) {
	cfg := config.MustDefaultTuning()
	engine := NewDifficultyEngine(cfg, difficulty)
	return NewWaveDirector(cfg, engine, cfg.Arena.Width, cfg.Arena.Height, rand.New(rand.NewSource(9))), cfg
}

// TestWaveDirectorPatternCycle 按章节模式依次刷怪
func TestWaveDirectorPatternCycle(t *testing.T) {
	d, _ := newTestDirector("arcade")
	player := utils.Vec(460, 260)

	var hazards []*entities.Hazard
	hazards, _ = d.Update(1.0, 1.0, player, false, hazards)
	if len(hazards) != 0 {
		t.Fatalf("间隔未到不应刷怪, got %d", len(hazards))
	}

	hazards, _ = d.Update(0.3, 1.3, player, false, hazards)
	if len(hazards) != 2 {
		t.Fatalf("第一章第一个模式刷 2 个, got %d", len(hazards))
	}
	for _, h := range hazards {
		if h.Role != entities.RoleChaser || h.Kind != entities.KindBasic {
			t.Errorf("unexpected hazard role=%v kind=%v", h.Role, h.Kind)
		}
	}
	// 通道 0 在正上方
	if pos := hazards[0].Position; !almostEqual(pos.X, 460) || !almostEqual(pos.Y, -10.4) {
		t.Errorf("lane 0 spawn = %+v", hazards[0].Position)
	}

	hazards, _ = d.Update(1.2, 2.5, player, false, hazards)
	hazards, _ = d.Update(1.2, 3.7, player, false, hazards)
	if len(hazards) != 7 {
		t.Fatalf("三个模式共 2+2+3 个, got %d", len(hazards))
	}
	if hazards[6].Role != entities.RoleShooter {
		t.Errorf("第三个模式最后一个应为 shooter, got %v", hazards[6].Role)
	}
}

// TestWaveDirectorPopulationCap 达到上限时不刷怪并提前重试
func TestWaveDirectorPopulationCap(t *testing.T) {
	d, _ := newTestDirector("casual")
	player := utils.Vec(460, 260)

	hazards := make([]*entities.Hazard, 0, 16)
	for i := 0; i < 16; i++ {
		hazards = append(hazards, &entities.Hazard{Active: true, Kind: entities.KindBasic})
	}
	// 失活的和首领不计入上限
	hazards = append(hazards, &entities.Hazard{Active: false}, &entities.Hazard{Active: true, Kind: entities.KindMiniboss})

	interval := d.engine.SpawnInterval(10, false)
	got, _ := d.Update(interval, 10, player, false, hazards)
	if len(got) != len(hazards) {
		t.Fatalf("达到上限不应刷怪, got %d new", len(got)-len(hazards))
	}
	if !almostEqual(d.spawnTimer, interval*0.5) {
		t.Errorf("spawnTimer = %v, want %v", d.spawnTimer, interval*0.5)
	}
	if d.patternCursor != 0 {
		t.Error("达到上限时不推进模式游标")
	}

	hazards[0].Active = false
	got, _ = d.Update(interval*0.5, 10, player, false, hazards)
	if len(got) <= len(hazards) {
		t.Error("低于上限后应立即刷怪")
	}
}

// TestWaveDirectorAppendOnly 导演只追加，不修改已有敌人
func TestWaveDirectorAppendOnly(t *testing.T) {
	d, _ := newTestDirector("insane")
	existing := &entities.Hazard{Position: utils.Vec(1, 2), Active: true, HP: 3}
	hazards := []*entities.Hazard{existing}

	for i := 1; i <= 200; i++ {
		hazards, _ = d.Update(0.1, float64(i)*0.1, utils.Vec(460, 260), false, hazards)
		if hazards[0] != existing {
			t.Fatal("已有元素被替换")
		}
	}
	if existing.Position != utils.Vec(1, 2) || existing.HP != 3 {
		t.Error("已有敌人被修改")
	}
}

// TestWaveDirectorSpecials 首领按时各出场一次
func TestWaveDirectorSpecials(t *testing.T) {
	d, cfg := newTestDirector("arcade")
	player := utils.Vec(460, 260)
	var hazards []*entities.Hazard

	hazards, specials := d.Update(0.01, 89.9, player, false, hazards)
	if len(specials) != 0 || d.MinibossSpawned {
		t.Fatal("90 秒前不应出现小首领")
	}

	hazards, specials = d.Update(0.01, 90, player, false, hazards)
	if len(specials) != 1 || specials[0].Key != "warden_spawn" {
		t.Fatalf("specials = %+v", specials)
	}
	if specials[0].Message != cfg.Roles["warden"].SpawnToast {
		t.Errorf("message = %q", specials[0].Message)
	}
	if d.Miniboss == nil || d.Miniboss.Kind != entities.KindMiniboss {
		t.Fatal("小首领未记录")
	}
	if d.WaveLabel(90, hazards) != "MINIBOSS" {
		t.Errorf("WaveLabel = %q", d.WaveLabel(90, hazards))
	}

	_, specials = d.Update(0.01, 120, player, false, hazards)
	if len(specials) != 0 {
		t.Error("小首领只出场一次")
	}

	hazards, specials = d.Update(0.01, 165, player, false, hazards)
	if len(specials) != 1 || specials[0].Key != "tyrant_spawn" || d.Boss == nil {
		t.Fatalf("specials = %+v", specials)
	}
	if d.WaveLabel(165, hazards) != "BOSS" {
		t.Errorf("WaveLabel = %q", d.WaveLabel(165, hazards))
	}

	count := 0
	for _, h := range hazards {
		if h.Kind == entities.KindBoss {
			count++
		}
	}
	if count != 1 {
		t.Errorf("boss count = %d", count)
	}
}

func TestWaveLabel(t *testing.T) {
	d, _ := newTestDirector("arcade")
	hazards := []*entities.Hazard{
		{Active: true, Role: entities.RoleShooter},
		{Active: true, Role: entities.RoleShooter},
		{Active: true, Role: entities.RoleAnchor},
		{Active: true, Role: entities.RoleBerserker},
		{Active: false, Role: entities.RoleBerserker},
	}

	tests := []struct {
		name    string
		elapsed float64
		want    string
	}{
		{"开局", 0, "A-1"},
		{"第一章中段", 30, "A-3"},
		{"第一章封顶", 57, "A-4"},
		{"第二章", 60, "B S2/A1"},
		{"第三章", 130, "C B1/S2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.WaveLabel(tt.elapsed, hazards); got != tt.want {
				t.Errorf("WaveLabel(%v) = %q, want %q", tt.elapsed, got, tt.want)
			}
		})
	}
}

func TestLanePointWraps(t *testing.T) {
	d, _ := newTestDirector("arcade")
	if d.LanePoint(8) != d.LanePoint(0) {
		t.Error("通道下标应取模")
	}
	if d.LanePoint(-3) != d.LanePoint(3) {
		t.Error("负数下标取绝对值")
	}
}
