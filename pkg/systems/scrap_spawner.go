package systems

import (
	"math/rand"

	"github.com/gonewx/magorbit/pkg/config"
	"github.com/gonewx/magorbit/pkg/entities"
	"github.com/gonewx/magorbit/pkg/utils"
)

// ScrapSpawner 定时在场地内投放废料
// 投放点与边缘保持距离，且不会落在回收区附近
type ScrapSpawner struct {
	cfg    config.ScrapConfig
	rng    *rand.Rand
	width  float64
	height float64
	timer  float64
}

// NewScrapSpawner 创建废料投放器
func NewScrapSpawner(cfg config.ScrapConfig, width, height float64, rng *rand.Rand) *ScrapSpawner {
	return &ScrapSpawner{cfg: cfg, rng: rng, width: width, height: height}
}

// Update 推进投放计时，到点时尝试投放一个废料
//
// 返回：
//
//	[]*entities.Debris - 追加后的废料列表
func (s *ScrapSpawner) Update(dt float64, debris []*entities.Debris, zone *entities.DepositZone) []*entities.Debris {
	s.timer += dt
	if s.timer < s.cfg.Interval {
		return debris
	}
	s.timer = 0

	uncollected := 0
	for _, d := range debris {
		if !d.Collected {
			uncollected++
		}
	}
	if uncollected >= s.cfg.Max {
		return debris
	}

	if pos, ok := s.findSpot(zone); ok {
		debris = append(debris, entities.NewDebris(pos, s.cfg, s.rng))
	}
	return debris
}

// findSpot 在场内随机取点，最多尝试 Attempts 次
func (s *ScrapSpawner) findSpot(zone *entities.DepositZone) (utils.Vector2, bool) {
	margin := s.cfg.EdgeMargin
	clearance := zone.Radius + s.cfg.ZoneClearance
	for i := 0; i < s.cfg.Attempts; i++ {
		pos := utils.Vec(
			margin+s.rng.Float64()*(s.width-margin*2),
			margin+s.rng.Float64()*(s.height-margin*2),
		)
		if pos.Distance(zone.Position) >= clearance {
			return pos, true
		}
	}
	return utils.Vector2{}, false
}

// InPickupRange 玩家是否可以拾取该废料
func (s *ScrapSpawner) InPickupRange(player *entities.Player, d *entities.Debris) bool {
	return !d.Collected && player.Position.Distance(d.Position) <= player.Radius+d.Radius+s.cfg.PickupSlack
}
