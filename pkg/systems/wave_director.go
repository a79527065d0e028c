package systems

import (
	"fmt"
	"log"
	"math"
	"math/rand"

	"github.com/gonewx/magorbit/pkg/config"
	"github.com/gonewx/magorbit/pkg/entities"
	"github.com/gonewx/magorbit/pkg/utils"
)

// SpecialSpawn 首领出场事件，由调用方转换为提示与音效
type SpecialSpawn struct {
	Hazard  *entities.Hazard
	Key     string // warden_spawn / tyrant_spawn
	Message string
}

// WaveDirector 波次导演
//
// 按章节的刷怪模式从 8 条通道生成普通敌人，并在固定时间各生成一次小首领与最终首领。
// 导演只向传入的敌人列表追加元素，从不删除或修改已有敌人。
type WaveDirector struct {
	tuning *config.TuningConfig
	engine *DifficultyEngine
	rng    *rand.Rand
	width  float64
	height float64

	spawnTimer    float64
	patternCursor int

	Miniboss        *entities.Hazard
	Boss            *entities.Hazard
	MinibossSpawned bool
	BossSpawned     bool
}

// NewWaveDirector 创建波次导演
func NewWaveDirector(tuning *config.TuningConfig, engine *DifficultyEngine, width, height float64, rng *rand.Rand) *WaveDirector {
	return &WaveDirector{
		tuning: tuning,
		engine: engine,
		rng:    rng,
		width:  width,
		height: height,
	}
}

// Update 推进刷怪计时
//
// 参数：
//
//	dt - 帧间隔
//	elapsed - 对局时间
//	playerPos - 玩家位置，普通敌人朝它发射
//	surgeActive - 冲能期间刷怪间隔放宽
//	hazards - 当前敌人列表
//
// 返回：
//
//	[]*entities.Hazard - 追加新敌人后的列表
//	[]SpecialSpawn - 本帧出场的首领
func (w *WaveDirector) Update(dt, elapsed float64, playerPos utils.Vector2, surgeActive bool, hazards []*entities.Hazard) ([]*entities.Hazard, []SpecialSpawn) {
	var specials []SpecialSpawn

	if !w.MinibossSpawned && elapsed >= w.tuning.Roles[config.RoleWarden].SpawnAt {
		w.MinibossSpawned = true
		w.Miniboss = w.spawnSpecial(entities.RoleWarden)
		hazards = append(hazards, w.Miniboss)
		specials = append(specials, w.specialEvent(w.Miniboss))
	}
	if !w.BossSpawned && elapsed >= w.tuning.Roles[config.RoleTyrant].SpawnAt {
		w.BossSpawned = true
		w.Boss = w.spawnSpecial(entities.RoleTyrant)
		hazards = append(hazards, w.Boss)
		specials = append(specials, w.specialEvent(w.Boss))
	}

	w.spawnTimer += dt
	interval := w.engine.SpawnInterval(elapsed, surgeActive)
	if w.spawnTimer < interval {
		return hazards, specials
	}

	if countActiveBasics(hazards) >= w.engine.BasicCap() {
		w.spawnTimer = interval * 0.5
		return hazards, specials
	}

	w.spawnTimer = 0
	chapter, _ := w.tuning.ChapterAt(elapsed)
	patterns := w.tuning.WavePatterns[chapter.ID]
	if len(patterns) == 0 {
		return hazards, specials
	}
	pattern := patterns[w.patternCursor%len(patterns)]
	w.patternCursor++

	pairs := min(len(pattern.Lanes), len(pattern.Roles))
	for i := 0; i < pairs; i++ {
		hazards = append(hazards, w.spawnBasic(pattern.Roles[i], pattern.Lanes[i], elapsed, playerPos))
	}
	return hazards, specials
}

// LanePoint 通道出生点的世界坐标
// 下标取绝对值后对通道数取模
func (w *WaveDirector) LanePoint(lane int) utils.Vector2 {
	lanes := w.tuning.Lanes
	if lane < 0 {
		lane = -lane
	}
	p := lanes[lane%len(lanes)]
	return utils.Vec(p.X*w.width, p.Y*w.height)
}

func (w *WaveDirector) spawnBasic(roleName string, lane int, elapsed float64, playerPos utils.Vector2) *entities.Hazard {
	spawn := w.LanePoint(lane)
	speed := w.engine.BasicSpeed(elapsed, w.rng.Float64())
	h := entities.NewBasicHazard(spawn, playerPos, speed, w.tuning.Combat.HazardMargin, w.rng)

	role, ok := entities.ParseRole(roleName)
	if !ok {
		log.Printf("[WaveDirector] Warning: unknown role %q, using chaser", roleName)
	}
	entities.ConfigureRole(h, role, w.tuning.Roles[role.String()], w.engine.Profile(), elapsed, w.rng)
	return h
}

func (w *WaveDirector) spawnSpecial(role entities.Role) *entities.Hazard {
	h := entities.NewSpecialHazard(role, w.tuning.Roles[role.String()], w.engine.Profile(), w.width, w.height, w.rng)
	log.Printf("[WaveDirector] %s spawned (hp=%d, score=%d)", role, h.HP, h.ScoreValue)
	return h
}

func (w *WaveDirector) specialEvent(h *entities.Hazard) SpecialSpawn {
	return SpecialSpawn{
		Hazard:  h,
		Key:     h.Role.String() + "_spawn",
		Message: w.tuning.Roles[h.Role.String()].SpawnToast,
	}
}

// WaveLabel HUD 波次标签
// 最终首领存活时为 BOSS，小首领存活时为 MINIBOSS，否则按章节统计场上角色
func (w *WaveDirector) WaveLabel(elapsed float64, hazards []*entities.Hazard) string {
	if w.Boss != nil && w.Boss.Active {
		return "BOSS"
	}
	if w.Miniboss != nil && w.Miniboss.Active {
		return "MINIBOSS"
	}

	counts := make(map[entities.Role]int)
	for _, h := range hazards {
		if h.Active {
			counts[h.Role]++
		}
	}

	_, index := w.tuning.ChapterAt(elapsed)
	switch index {
	case 0:
		n := int(math.Min(4, math.Max(1, math.Floor(elapsed/14)+1)))
		return fmt.Sprintf("A-%d", n)
	case 1:
		return fmt.Sprintf("B S%d/A%d", counts[entities.RoleShooter], counts[entities.RoleAnchor])
	default:
		return fmt.Sprintf("C B%d/S%d", counts[entities.RoleBerserker], counts[entities.RoleShooter])
	}
}

func countActiveBasics(hazards []*entities.Hazard) int {
	n := 0
	for _, h := range hazards {
		if h.Active && h.Kind == entities.KindBasic {
			n++
		}
	}
	return n
}
