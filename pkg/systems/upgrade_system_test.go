package systems

import (
	"math/rand"
	"testing"

	"github.com/gonewx/magorbit/pkg/config"
	"github.com/gonewx/magorbit/pkg/entities"
)

func TestUpgradeRoll(t *testing.T) {
	cfg := config.MustDefaultTuning()
	u := NewUpgradeSystem(cfg.Upgrades, cfg.Player.MaxHPCap, rand.New(rand.NewSource(8)))

	for i := 0; i < 50; i++ {
		choices := u.Roll(3)
		if len(choices) != 3 {
			t.Fatalf("len = %d, want 3", len(choices))
		}
		seen := map[string]bool{}
		for _, c := range choices {
			if seen[c.ID] {
				t.Fatalf("重复的升级 %s", c.ID)
			}
			seen[c.ID] = true
		}
	}

	if got := u.Roll(0); len(got) != 1 {
		t.Errorf("至少返回 1 个, got %d", len(got))
	}
	if got := u.Roll(99); len(got) != len(cfg.Upgrades) {
		t.Errorf("最多返回整个池, got %d", len(got))
	}
	if cfg.Upgrades[0].ID != "dmg_core" {
		t.Error("Roll 不应打乱原始池")
	}
}

func TestUpgradeApply(t *testing.T) {
	cfg := config.MustDefaultTuning()

	byType := map[string]config.UpgradeOption{}
	for _, up := range cfg.Upgrades {
		byType[up.Type] = up
	}

	tests := []struct {
		name  string
		kind  string
		setup func(tg UpgradeTargets)
		check func(t *testing.T, tg UpgradeTargets)
	}{
		{"接触伤害", config.UpgradeDamage, nil, func(t *testing.T, tg UpgradeTargets) {
			if tg.Combat.PlayerDamage != 2 {
				t.Errorf("PlayerDamage = %d", tg.Combat.PlayerDamage)
			}
		}},
		{"磁力", config.UpgradeMagnet, nil, func(t *testing.T, tg UpgradeTargets) {
			if !almostEqual(tg.Magnet.ForceMultiplier, 1.25) {
				t.Errorf("ForceMultiplier = %v", tg.Magnet.ForceMultiplier)
			}
		}},
		{"散热", config.UpgradeCooldown, nil, func(t *testing.T, tg UpgradeTargets) {
			if !almostEqual(tg.Magnet.CoolRate, 32) {
				t.Errorf("CoolRate = %v", tg.Magnet.CoolRate)
			}
		}},
		{"泄压", config.UpgradeOverheat, func(tg UpgradeTargets) { tg.Magnet.Heat = 50 }, func(t *testing.T, tg UpgradeTargets) {
			if tg.Magnet.Heat != 38 || !almostEqual(tg.Magnet.LockDuration, 1.8) {
				t.Errorf("Heat = %v LockDuration = %v", tg.Magnet.Heat, tg.Magnet.LockDuration)
			}
		}},
		{"节能", config.UpgradeHeatPerShot, nil, func(t *testing.T, tg UpgradeTargets) {
			if tg.Magnet.HeatRate != 32 || !almostEqual(tg.Magnet.SurgeCooldownTime, 5.8) {
				t.Errorf("HeatRate = %v SurgeCooldownTime = %v", tg.Magnet.HeatRate, tg.Magnet.SurgeCooldownTime)
			}
		}},
		{"生命", config.UpgradeHealth, func(tg UpgradeTargets) { tg.Player.HP = 2 }, func(t *testing.T, tg UpgradeTargets) {
			if tg.Player.MaxHP != 4 || tg.Player.HP != 3 {
				t.Errorf("HP = %d/%d", tg.Player.HP, tg.Player.MaxHP)
			}
		}},
		{"生命上限封顶", config.UpgradeHealth, func(tg UpgradeTargets) { tg.Player.MaxHP = 5; tg.Player.HP = 5 }, func(t *testing.T, tg UpgradeTargets) {
			if tg.Player.MaxHP != 5 || tg.Player.HP != 5 {
				t.Errorf("HP = %d/%d", tg.Player.HP, tg.Player.MaxHP)
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vfx := NewVFXSystem(rand.New(rand.NewSource(1)))
			tg := UpgradeTargets{
				Player: entities.NewPlayer(100, 100, cfg.Player, 3),
				Magnet: NewMagnetSystem(cfg.Magnet, NewDifficultyEngine(cfg, "arcade")),
				Combat: NewCombatSystem(cfg.Combat, vfx, nil),
			}
			if tt.setup != nil {
				tt.setup(tg)
			}
			u := NewUpgradeSystem(cfg.Upgrades, cfg.Player.MaxHPCap, rand.New(rand.NewSource(1)))
			u.Apply(byType[tt.kind], tg)
			tt.check(t, tg)
		})
	}
}
