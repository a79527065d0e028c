package systems

import (
	"math/rand"
	"testing"

	"github.com/gonewx/magorbit/pkg/config"
	"github.com/gonewx/magorbit/pkg/entities"
	"github.com/gonewx/magorbit/pkg/utils"
)

func TestScrapSpawnerPlacement(t *testing.T) {
	cfg := config.MustDefaultTuning()
	zone := entities.NewDepositZone(460, 260, cfg.Scrap.ZoneRadius)
	spawner := NewScrapSpawner(cfg.Scrap, 920, 520, rand.New(rand.NewSource(4)))

	var debris []*entities.Debris
	debris = spawner.Update(1.9, debris, zone)
	if len(debris) != 0 {
		t.Fatal("2 秒内不应投放")
	}

	for i := 0; i < 100; i++ {
		debris = spawner.Update(2, debris, zone)
	}
	if len(debris) != cfg.Scrap.Max {
		t.Errorf("未拾取废料数量应封顶在 %d, got %d", cfg.Scrap.Max, len(debris))
	}

	for _, d := range debris {
		if d.Position.X < 30 || d.Position.X > 890 || d.Position.Y < 30 || d.Position.Y > 490 {
			t.Errorf("废料离边缘太近: %+v", d.Position)
		}
		if d.Position.Distance(zone.Position) < zone.Radius+20 {
			t.Errorf("废料离回收区太近: %+v", d.Position)
		}
		if d.Value != 60 {
			t.Errorf("Value = %d, want 60", d.Value)
		}
	}

	debris[0].Collected = true
	before := len(debris)
	debris = spawner.Update(2, debris, zone)
	if len(debris) != before+1 {
		t.Error("已拾取的废料不计入上限")
	}
}

func TestScrapSpawnerGivesUp(t *testing.T) {
	cfg := config.MustDefaultTuning()
	// 回收区覆盖整个场地，所有尝试都失败
	zone := entities.NewDepositZone(460, 260, 2000)
	spawner := NewScrapSpawner(cfg.Scrap, 920, 520, rand.New(rand.NewSource(4)))

	debris := spawner.Update(2, nil, zone)
	if len(debris) != 0 {
		t.Errorf("找不到合法位置时应跳过, got %d", len(debris))
	}
}

func TestScrapPickupRange(t *testing.T) {
	cfg := config.MustDefaultTuning()
	spawner := NewScrapSpawner(cfg.Scrap, 920, 520, rand.New(rand.NewSource(4)))
	player := entities.NewPlayer(100, 100, cfg.Player, 3)

	tests := []struct {
		name      string
		offset    float64
		collected bool
		want      bool
	}{
		{"贴身", 5, false, true},
		{"恰在拾取范围边界", 23, false, true},
		{"范围外", 24, false, false},
		{"已拾取", 5, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &entities.Debris{Position: utils.Vec(100+tt.offset, 100), Radius: 6, Collected: tt.collected}
			if got := spawner.InPickupRange(player, d); got != tt.want {
				t.Errorf("InPickupRange = %v, want %v", got, tt.want)
			}
		})
	}
}
