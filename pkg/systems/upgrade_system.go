package systems

import (
	"log"
	"math"
	"math/rand"

	"github.com/gonewx/magorbit/pkg/config"
	"github.com/gonewx/magorbit/pkg/entities"
)

// UpgradeSystem 小首领被击败后的升级抽取与应用
type UpgradeSystem struct {
	pool     []config.UpgradeOption
	maxHPCap int
	rng      *rand.Rand
}

// NewUpgradeSystem 创建升级系统
func NewUpgradeSystem(pool []config.UpgradeOption, maxHPCap int, rng *rand.Rand) *UpgradeSystem {
	return &UpgradeSystem{pool: pool, maxHPCap: maxHPCap, rng: rng}
}

// Roll 洗牌后取前 count 个（至少 1 个）
func (u *UpgradeSystem) Roll(count int) []config.UpgradeOption {
	shuffled := make([]config.UpgradeOption, len(u.pool))
	copy(shuffled, u.pool)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := u.rng.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	count = max(1, count)
	if count > len(shuffled) {
		count = len(shuffled)
	}
	return shuffled[:count]
}

// UpgradeTargets 升级可以修改的对象
type UpgradeTargets struct {
	Player *entities.Player
	Magnet *MagnetSystem
	Combat *CombatSystem
}

// Apply 应用一个升级
func (u *UpgradeSystem) Apply(choice config.UpgradeOption, t UpgradeTargets) {
	switch choice.Type {
	case config.UpgradeDamage:
		t.Combat.PlayerDamage += int(choice.Value)
	case config.UpgradeMagnet:
		t.Magnet.ForceMultiplier += choice.Value
	case config.UpgradeCooldown:
		t.Magnet.CoolRate += 6
	case config.UpgradeOverheat:
		t.Magnet.Heat = math.Max(0, t.Magnet.Heat-math.Max(8, choice.Value))
		t.Magnet.LockDuration = math.Max(1, t.Magnet.LockDuration-0.2)
	case config.UpgradeHeatPerShot:
		t.Magnet.HeatRate = math.Max(16, t.Magnet.HeatRate-4)
		t.Magnet.SurgeCooldownTime = math.Max(4, t.Magnet.SurgeCooldownTime-0.2)
	case config.UpgradeHealth:
		delta := max(1, int(choice.Value))
		t.Player.MaxHP = min(u.maxHPCap, t.Player.MaxHP+delta)
		t.Player.HP = min(t.Player.MaxHP, t.Player.HP+delta)
	default:
		log.Printf("[UpgradeSystem] Warning: unknown upgrade type %q", choice.Type)
		return
	}
	log.Printf("[UpgradeSystem] Applied %s (%s)", choice.ID, choice.Type)
}
