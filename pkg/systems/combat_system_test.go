package systems

import (
	"math/rand"
	"testing"

	"github.com/gonewx/magorbit/pkg/config"
	"github.com/gonewx/magorbit/pkg/entities"
	"github.com/gonewx/magorbit/pkg/utils"
)

type combatFixture struct {
	cfg    *config.TuningConfig
	player *entities.Player
	magnet *MagnetSystem
	combat *CombatSystem
	vfx    *VFXSystem
	cues   *CueRecorder
}

func newCombatFixture() *combatFixture {
	cfg := config.MustDefaultTuning()
	vfx := NewVFXSystem(rand.New(rand.NewSource(1)))
	cues := &CueRecorder{}
	return &combatFixture{
		cfg:    cfg,
		player: entities.NewPlayer(460, 260, cfg.Player, 3),
		magnet: NewMagnetSystem(cfg.Magnet, NewDifficultyEngine(cfg, "arcade")),
		combat: NewCombatSystem(cfg.Combat, vfx, cues),
		vfx:    vfx,
		cues:   cues,
	}
}

func (f *combatFixture) touchingHazard(hp, score int) *entities.Hazard {
	return &entities.Hazard{
		Position:   f.player.Position.Add(utils.Vec(15, 0)),
		Radius:     10,
		HP:         hp,
		MaxHP:      hp,
		ScoreValue: score,
		Active:     true,
		State:      entities.RoleState{MaxSpeed: 165},
	}
}

func (f *combatFixture) touchingProjectile() *entities.Projectile {
	return &entities.Projectile{Position: f.player.Position.Add(utils.Vec(5, 0)), Radius: 4, TTL: 1, Active: true}
}

func TestResolveProjectiles(t *testing.T) {
	tests := []struct {
		name      string
		polarity  entities.Polarity
		held      bool
		surge     bool
		wantScore int
		wantHits  int
		wantHP    int
	}{
		{"磁场关闭时受伤", entities.PolarityOff, false, false, 0, 1, 2},
		{"吸引不能挡子弹", entities.PolarityAttract, true, false, 0, 1, 2},
		{"排斥弹开子弹", entities.PolarityRepel, true, false, 12, 0, 3},
		{"冲能弹开子弹奖励翻倍", entities.PolarityOff, false, true, 24, 0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCombatFixture()
			f.magnet.Polarity = tt.polarity
			f.magnet.Held = tt.held
			f.magnet.SurgeActive = tt.surge

			p := f.touchingProjectile()
			report := f.combat.ResolveProjectiles(1, f.player, []*entities.Projectile{p}, f.magnet)

			if p.Active {
				t.Error("接触后子弹应失活")
			}
			if report.Score != tt.wantScore || report.PlayerHits != tt.wantHits {
				t.Errorf("report = %+v, want score %d hits %d", report, tt.wantScore, tt.wantHits)
			}
			if f.player.HP != tt.wantHP {
				t.Errorf("HP = %d, want %d", f.player.HP, tt.wantHP)
			}
		})
	}
}

func TestResolveProjectilesMiss(t *testing.T) {
	f := newCombatFixture()
	p := &entities.Projectile{Position: f.player.Position.Add(utils.Vec(50, 0)), Radius: 4, TTL: 1, Active: true}
	report := f.combat.ResolveProjectiles(1, f.player, []*entities.Projectile{p}, f.magnet)
	if !p.Active || report.PlayerHits != 0 {
		t.Error("未接触的子弹不应结算")
	}
}

func TestResolveHazardsAttract(t *testing.T) {
	f := newCombatFixture()
	f.magnet.Polarity = entities.PolarityAttract
	f.magnet.Held = true

	tough := f.touchingHazard(3, 150)
	report := f.combat.ResolveHazards(1, f.player, []*entities.Hazard{tough}, f.magnet)

	if tough.HP != 2 || !tough.Active {
		t.Fatalf("HP = %d active=%v, want 2/true", tough.HP, tough.Active)
	}
	if !almostEqual(tough.Velocity.Magnitude(), 110) || tough.Velocity.X <= 0 {
		t.Errorf("击退应背离玩家 110, got %+v", tough.Velocity)
	}
	if report.Score != 0 || len(report.Defeated) != 0 {
		t.Errorf("未击毁不应计分: %+v", report)
	}
	if f.vfx.HitStop != 0.06 {
		t.Errorf("HitStop = %v, want 0.06", f.vfx.HitStop)
	}
	if f.cues.Count(CueHit) != 1 {
		t.Errorf("cues = %v", f.cues.Played)
	}
	if f.player.HP != 3 {
		t.Error("吸引接触不应伤害玩家")
	}

	weak := f.touchingHazard(1, 75)
	report = f.combat.ResolveHazards(2, f.player, []*entities.Hazard{weak}, f.magnet)
	if weak.Active || report.Score != 75 || len(report.Defeated) != 1 {
		t.Errorf("应击毁并得 75 分: active=%v report=%+v", weak.Active, report)
	}
	if f.cues.Count(CueDestroy) != 1 {
		t.Errorf("cues = %v", f.cues.Played)
	}
}

func TestResolveHazardsSurge(t *testing.T) {
	f := newCombatFixture()
	f.magnet.SurgeActive = true

	h := f.touchingHazard(2, 110)
	report := f.combat.ResolveHazards(1, f.player, []*entities.Hazard{h}, f.magnet)

	if h.Active {
		t.Fatal("冲能伤害翻倍，2 血敌人应被击毁")
	}
	if report.Score != 132 {
		t.Errorf("冲能击毁得分 round(110×1.2) = 132, got %d", report.Score)
	}

	boss := f.touchingHazard(10, 3500)
	boss.Kind = entities.KindBoss
	f.combat.ResolveHazards(2, f.player, []*entities.Hazard{boss}, f.magnet)
	if boss.HP != 8 {
		t.Errorf("boss HP = %d, want 8", boss.HP)
	}
	if !almostEqual(boss.Velocity.Magnitude(), 180) {
		t.Errorf("冲能击退 180, got %v", boss.Velocity.Magnitude())
	}
	if f.vfx.HitStop != 0.1 || f.vfx.ShakeIntensity != 7 {
		t.Errorf("boss 命中特效 hitstop=%v shake=%v", f.vfx.HitStop, f.vfx.ShakeIntensity)
	}
}

func TestResolveHazardsRepel(t *testing.T) {
	f := newCombatFixture()
	f.magnet.Polarity = entities.PolarityRepel
	f.magnet.Held = true

	h := f.touchingHazard(1, 75)
	report := f.combat.ResolveHazards(1, f.player, []*entities.Hazard{h}, f.magnet)
	if !h.Active || h.HP != 1 {
		t.Error("排斥只击退不造成伤害")
	}
	if !almostEqual(h.Velocity.Magnitude(), 180) {
		t.Errorf("排斥击退 180, got %v", h.Velocity.Magnitude())
	}
	if report.PlayerHits != 0 || f.player.HP != 3 {
		t.Error("排斥接触不应伤害玩家")
	}
	if f.cues.Count(CueShoot) != 1 {
		t.Errorf("cues = %v", f.cues.Played)
	}
}

func TestResolveHazardsUnarmed(t *testing.T) {
	f := newCombatFixture()
	h := f.touchingHazard(1, 75)

	report := f.combat.ResolveHazards(1, f.player, []*entities.Hazard{h}, f.magnet)
	if report.PlayerHits != 1 || f.player.HP != 2 {
		t.Errorf("磁场关闭时接触应受伤: hits=%d hp=%d", report.PlayerHits, f.player.HP)
	}
	if !h.Active {
		t.Error("敌人不应受伤")
	}
}

func TestDamagePlayerGuards(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(f *combatFixture)
		second float64
		wantHP int
	}{
		{"无敌期间只受一次伤", func(f *combatFixture) {}, 1.5, 2},
		{"无敌结束后再次受伤", func(f *combatFixture) { f.player.Invulnerable = 0 }, 2.1, 1},
		{"最小受伤间隔", func(f *combatFixture) { f.player.Invulnerable = 0 }, 1.2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCombatFixture()
			if !f.combat.DamagePlayer(1, f.player, f.magnet) {
				t.Fatal("首次伤害应生效")
			}
			if f.player.Invulnerable != 1 {
				t.Errorf("受伤后无敌 1 秒, got %v", f.player.Invulnerable)
			}
			tt.setup(f)
			f.combat.DamagePlayer(tt.second, f.player, f.magnet)
			if f.player.HP != tt.wantHP {
				t.Errorf("HP = %d, want %d", f.player.HP, tt.wantHP)
			}
		})
	}

	t.Run("冲能期间免伤", func(t *testing.T) {
		f := newCombatFixture()
		f.magnet.SurgeActive = true
		if f.combat.DamagePlayer(1, f.player, f.magnet) {
			t.Error("冲能期间不应受伤")
		}
	})

	t.Run("生命不会低于零", func(t *testing.T) {
		f := newCombatFixture()
		for i := 0; i < 10; i++ {
			f.player.Invulnerable = 0
			f.combat.DamagePlayer(float64(i), f.player, f.magnet)
		}
		if f.player.HP != 0 {
			t.Errorf("HP = %d, want 0", f.player.HP)
		}
	})
}

func TestBossPhase(t *testing.T) {
	tests := []struct {
		name  string
		hp    int
		maxHP int
		want  int
	}{
		{"满血", 24, 24, 1},
		{"略高于 70%", 18, 24, 1},
		{"恰好 70%", 7, 10, 2},
		{"阶段二", 12, 24, 2},
		{"恰好 30%", 3, 10, 3},
		{"阶段三", 1, 24, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			boss := &entities.Hazard{HP: tt.hp, MaxHP: tt.maxHP, Active: true, Kind: entities.KindBoss}
			if got := BossPhase(boss, 0.7, 0.3); got != tt.want {
				t.Errorf("BossPhase(%d/%d) = %d, want %d", tt.hp, tt.maxHP, got, tt.want)
			}
		})
	}

	if BossPhase(nil, 0.7, 0.3) != 0 {
		t.Error("无首领时阶段应为 0")
	}
	if BossPhase(&entities.Hazard{HP: 0, MaxHP: 24}, 0.7, 0.3) != 0 {
		t.Error("首领失活后阶段应为 0")
	}
}

func TestKnockDirectionDegenerate(t *testing.T) {
	d := knockDirection(utils.Vec(10, 10), utils.Vec(10, 10))
	if !almostEqual(d.X, d.Y) || d.X <= 0 {
		t.Errorf("重合时方向应为 (1,1) 归一化, got %+v", d)
	}
}
