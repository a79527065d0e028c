package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed tuning_default.yaml
var defaultTuningYAML []byte

// 角色名称（与 wavePatterns / roles 中的键一致）
const (
	RoleChaser    = "chaser"
	RoleShooter   = "shooter"
	RoleAnchor    = "anchor"
	RoleBerserker = "berserker"
	RoleWarden    = "warden"
	RoleTyrant    = "tyrant"
)

// 难度名称
const (
	DifficultyCasual = "casual"
	DifficultyArcade = "arcade"
	DifficultyInsane = "insane"
)

// 升级类型
const (
	UpgradeDamage      = "damage"
	UpgradeHealth      = "health"
	UpgradeMagnet      = "magnet"
	UpgradeCooldown    = "cooldown"
	UpgradeOverheat    = "overheat"
	UpgradeHeatPerShot = "heat_per_shot"
)

// LaneCount 刷怪通道数量（固定 8 条）
const LaneCount = 8

// DifficultyProfile 单个难度档位的缩放参数
type DifficultyProfile struct {
	PlayerHP           int     `yaml:"playerHp"`           // 玩家初始生命
	SpawnIntervalScale float64 `yaml:"spawnIntervalScale"` // 刷怪间隔缩放
	EnemySpeedScale    float64 `yaml:"enemySpeedScale"`    // 敌人速度缩放
	BossHPScale        float64 `yaml:"bossHpScale"`        // 首领血量缩放
	ScoreScale         float64 `yaml:"scoreScale"`         // 分数缩放
	HeatRateScale      float64 `yaml:"heatRateScale"`      // 升温速率缩放
	CoolRateScale      float64 `yaml:"coolRateScale"`      // 降温速率缩放
	LockDurationScale  float64 `yaml:"lockDurationScale"`  // 过热锁定时长缩放
	SurgeDuration      float64 `yaml:"surgeDuration"`      // 冲能持续时间（秒）
	SurgeCooldown      float64 `yaml:"surgeCooldown"`      // 冲能冷却时间（秒）
	BasicCap           int     `yaml:"basicCap"`           // 普通敌人同屏上限
	ShotCooldown       float64 `yaml:"shotCooldown"`       // 射手开火冷却
	AnchorPullForce    float64 `yaml:"anchorPullForce"`    // 锚点牵引力
	ProjectileSpeed    float64 `yaml:"projectileSpeed"`    // 敌方子弹速度
}

// ArenaConfig 场地尺寸与帧步长上限
type ArenaConfig struct {
	Width           float64 `yaml:"width"`
	Height          float64 `yaml:"height"`
	MaxFrameSeconds float64 `yaml:"maxFrameSeconds"` // 单帧最大步长，超出部分直接丢弃
}

// PlayerConfig 飞船运动参数
type PlayerConfig struct {
	Radius             float64 `yaml:"radius"`
	Friction           float64 `yaml:"friction"` // 每帧速度保留比例
	MaxSpeed           float64 `yaml:"maxSpeed"`
	RotationSpeed      float64 `yaml:"rotationSpeed"` // 弧度/秒
	BoostForce         float64 `yaml:"boostForce"`
	BoostCooldown      float64 `yaml:"boostCooldown"`
	ReverseScale       float64 `yaml:"reverseScale"`       // 倒退冲量相对推进冲量的比例
	MinLoadFactor      float64 `yaml:"minLoadFactor"`      // 满载时的最低速度系数
	LoadPenaltyPerItem float64 `yaml:"loadPenaltyPerItem"` // 每件货物的速度惩罚
	MaxHPCap           int     `yaml:"maxHpCap"`           // 升级可达到的生命上限
}

// MagnetConfig 磁场、过热与冲能参数
type MagnetConfig struct {
	HeatRate                 float64 `yaml:"heatRate"`
	CoolRate                 float64 `yaml:"coolRate"`
	LockDuration             float64 `yaml:"lockDuration"`
	ToggleHeat               float64 `yaml:"toggleHeat"`
	FieldRadius              float64 `yaml:"fieldRadius"`
	AttractForce             float64 `yaml:"attractForce"`
	RepelForce               float64 `yaml:"repelForce"` // 正值，方向在系统内取反
	MinForceDistance         float64 `yaml:"minForceDistance"`
	SurgeHeatCost            float64 `yaml:"surgeHeatCost"`
	SurgeInvulnerable        float64 `yaml:"surgeInvulnerable"`
	SurgeImpulse             float64 `yaml:"surgeImpulse"`
	SurgeSustainInvulnerable float64 `yaml:"surgeSustainInvulnerable"`
	SurgeCoolMultiplier      float64 `yaml:"surgeCoolMultiplier"`
	SurgeDamageMultiplier    int     `yaml:"surgeDamageMultiplier"`
}

// CombatConfig 碰撞结算参数
type CombatConfig struct {
	PlayerDamage          int     `yaml:"playerDamage"`
	HitKnockback          float64 `yaml:"hitKnockback"`
	SurgeKnockback        float64 `yaml:"surgeKnockback"`
	RepelKnockback        float64 `yaml:"repelKnockback"`
	DamageInvulnerable    float64 `yaml:"damageInvulnerable"`
	MinDamageInterval     float64 `yaml:"minDamageInterval"`
	ProjectileReward      int     `yaml:"projectileReward"`
	SurgeProjectileReward int     `yaml:"surgeProjectileReward"`
	SurgeScoreBonus       float64 `yaml:"surgeScoreBonus"`
	ProjectileRadius      float64 `yaml:"projectileRadius"`
	ProjectileTTL         float64 `yaml:"projectileTtl"`
	ProjectileMargin      float64 `yaml:"projectileMargin"`
	HazardMargin          float64 `yaml:"hazardMargin"`
	BossPhaseTwoRatio     float64 `yaml:"bossPhaseTwoRatio"`
	BossPhaseThreeRatio   float64 `yaml:"bossPhaseThreeRatio"`
}

// SpawnConfig 普通敌人刷新参数
type SpawnConfig struct {
	SurgeIntervalBonus float64 `yaml:"surgeIntervalBonus"` // 冲能期间刷怪间隔增加量
	MinInterval        float64 `yaml:"minInterval"`
	BaseSpeed          float64 `yaml:"baseSpeed"`
	SpeedJitter        float64 `yaml:"speedJitter"`
	SpeedRampPerSecond float64 `yaml:"speedRampPerSecond"`
	SpeedRampMax       float64 `yaml:"speedRampMax"`
}

// RoleStats 单个敌人角色的属性
// 不同角色只使用其中一部分字段，未使用的字段保持零值
type RoleStats struct {
	HP              int     `yaml:"hp"`
	MinHP           int     `yaml:"minHp"` // 首领缩放后的最低血量
	Radius          float64 `yaml:"radius"`
	Score           int     `yaml:"score"`
	SpeedMultiplier float64 `yaml:"speedMultiplier"`
	BaseSpeed       float64 `yaml:"baseSpeed"` // 首领出场速度
	MaxSpeed        float64 `yaml:"maxSpeed"`
	SeekForce       float64 `yaml:"seekForce"`

	PreferredDistance float64 `yaml:"preferredDistance"`
	ApproachForce     float64 `yaml:"approachForce"`
	RetreatForce      float64 `yaml:"retreatForce"`
	FirstShotDelay    float64 `yaml:"firstShotDelay"`
	FirstShotJitter   float64 `yaml:"firstShotJitter"`
	ShotJitter        float64 `yaml:"shotJitter"`

	AuraRadius      float64 `yaml:"auraRadius"`
	PlayerPullScale float64 `yaml:"playerPullScale"`
	PassiveHeat     float64 `yaml:"passiveHeat"`

	FirstDashDelay  float64 `yaml:"firstDashDelay"`
	FirstDashJitter float64 `yaml:"firstDashJitter"`
	DashCooldown    float64 `yaml:"dashCooldown"`
	DashStrength    float64 `yaml:"dashStrength"`

	LateAfter float64 `yaml:"lateAfter"` // 超过该时间后使用 LateHP/LateScore
	LateHP    int     `yaml:"lateHp"`
	LateScore int     `yaml:"lateScore"`

	SpawnAt    float64 `yaml:"spawnAt"` // 首领出场时间
	SpawnToast string  `yaml:"spawnToast"`
}

// LanePoint 通道出生点（画布比例坐标）
type LanePoint struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// ChapterConfig 剧情章节
type ChapterConfig struct {
	ID            string  `yaml:"id"`
	Start         float64 `yaml:"start"`
	End           float64 `yaml:"end"`
	SpawnInterval float64 `yaml:"spawnInterval"`
	Label         string  `yaml:"label"`
	Objective     string  `yaml:"objective"`
	IntroToast    string  `yaml:"introToast"`
}

// TimedMessage 按时间触发的一次性提示（剧情节拍、阶段提示）
type TimedMessage struct {
	At      float64 `yaml:"at"`
	Key     string  `yaml:"key"`
	Tone    string  `yaml:"tone"`
	Message string  `yaml:"message"`
}

// WavePattern 一次刷怪：通道与角色一一对应
type WavePattern struct {
	Lanes []int    `yaml:"lanes"`
	Roles []string `yaml:"roles"`
}

// ScrapConfig 废料刷新与回收区参数
type ScrapConfig struct {
	Interval      float64 `yaml:"interval"`
	Max           int     `yaml:"max"`
	Value         int     `yaml:"value"`
	Radius        float64 `yaml:"radius"`
	EdgeMargin    float64 `yaml:"edgeMargin"`
	ZoneClearance float64 `yaml:"zoneClearance"`
	Attempts      int     `yaml:"attempts"`
	PickupSlack   float64 `yaml:"pickupSlack"`
	ZoneRadius    float64 `yaml:"zoneRadius"`
}

// UpgradeOption 升级选项
type UpgradeOption struct {
	ID    string  `yaml:"id"`
	Type  string  `yaml:"type"`
	Label string  `yaml:"label"`
	Value float64 `yaml:"value"`
}

// RuntimeCopy 运行时提示文案
// 含 {combo}、{label} 占位符的文案由调用方替换
type RuntimeCopy struct {
	MissionFraming string `yaml:"missionFraming"`
	RunStart       string `yaml:"runStart"`
	Objective      string `yaml:"objective"`
	Damage         string `yaml:"damage"`
	LowTime        string `yaml:"lowTime"`
	MovementHint   string `yaml:"movementHint"`
	DashHint       string `yaml:"dashHint"`
	DepositEmpty   string `yaml:"depositEmpty"`
	FirstScrap     string `yaml:"firstScrap"`
	CarryFull      string `yaml:"carryFull"`
	QuotaMet       string `yaml:"quotaMet"`
	Overheat       string `yaml:"overheat"`
	ComboGain      string `yaml:"comboGain"`
	ComboCap       string `yaml:"comboCap"`
	ComboReset     string `yaml:"comboReset"`
	ComboTimeout   string `yaml:"comboTimeout"`
	BossPhaseTwo   string `yaml:"bossPhaseTwo"`
	BossPhaseThree string `yaml:"bossPhaseThree"`
	WardenDown     string `yaml:"wardenDown"`
	UpgradeApplied string `yaml:"upgradeApplied"`
	SurgeReady     string `yaml:"surgeReady"`
	EndWinTitle    string `yaml:"endWinTitle"`
	EndWinBody     string `yaml:"endWinBody"`
	EndFailTitle   string `yaml:"endFailTitle"`
	EndFailBody    string `yaml:"endFailBody"`
	EndTimerTitle  string `yaml:"endTimerTitle"`
	EndTimerBody   string `yaml:"endTimerBody"`
}

// RuntimeConfig 运行状态机参数
type RuntimeConfig struct {
	RunDurationSeconds         float64             `yaml:"runDurationSeconds"`
	Integrity                  int                 `yaml:"integrity"`
	LowTimeThresholdSeconds    float64             `yaml:"lowTimeThresholdSeconds"`
	RunStartToastDelaySeconds  float64             `yaml:"runStartToastDelaySeconds"`
	MovementPromptDelaySeconds float64             `yaml:"movementPromptDelaySeconds"`
	DashPromptDelaySeconds     float64             `yaml:"dashPromptDelaySeconds"`
	ComboBase                  float64             `yaml:"comboBase"`
	ComboStep                  float64             `yaml:"comboStep"`
	ComboMax                   float64             `yaml:"comboMax"`
	ComboWindowSeconds         float64             `yaml:"comboWindowSeconds"`
	ComboWarnSeconds           float64             `yaml:"comboWarnSeconds"`
	SurvivalScorePerSecond     int                 `yaml:"survivalScorePerSecond"`
	MaxCarry                   int                 `yaml:"maxCarry"`
	DeliveryQuota              int                 `yaml:"deliveryQuota"`
	PhaseAlerts                []TimedMessage      `yaml:"phaseAlerts"`
	Copy                       RuntimeCopy         `yaml:"copy"`
	FailTips                   map[string][]string `yaml:"failTips"` // 按结局原因轮换的提示
}

// ToastConfig 提示队列参数
type ToastConfig struct {
	MinGapMs        float64            `yaml:"minGapMs"`
	DurationMs      float64            `yaml:"durationMs"`
	DefaultPriority int                `yaml:"defaultPriority"`
	Priorities      map[string]int     `yaml:"priorities"`
	DebounceMs      map[string]float64 `yaml:"debounceMs"`
}

// PriorityFor 查询提示键的优先级，未登记的键返回默认优先级
func (c ToastConfig) PriorityFor(key string) int {
	if p, ok := c.Priorities[key]; ok {
		return p
	}
	return c.DefaultPriority
}

// TuningConfig 全部调参
type TuningConfig struct {
	DefaultDifficulty string                       `yaml:"defaultDifficulty"`
	Difficulties      map[string]DifficultyProfile `yaml:"difficulties"`
	Arena             ArenaConfig                  `yaml:"arena"`
	Player            PlayerConfig                 `yaml:"player"`
	Magnet            MagnetConfig                 `yaml:"magnet"`
	Combat            CombatConfig                 `yaml:"combat"`
	Spawn             SpawnConfig                  `yaml:"spawn"`
	Roles             map[string]RoleStats         `yaml:"roles"`
	Lanes             []LanePoint                  `yaml:"lanes"`
	Chapters          []ChapterConfig              `yaml:"chapters"`
	StoryBeats        []TimedMessage               `yaml:"storyBeats"`
	WavePatterns      map[string][]WavePattern     `yaml:"wavePatterns"`
	Scrap             ScrapConfig                  `yaml:"scrap"`
	Upgrades          []UpgradeOption              `yaml:"upgrades"`
	Runtime           RuntimeConfig                `yaml:"runtime"`
	Toasts            ToastConfig                  `yaml:"toasts"`
}

// DefaultTuning 解析内嵌的默认调参文件
//
// 返回：
//
//	*TuningConfig - 解析并校验后的配置
//	error - 内嵌文件损坏时返回错误
func DefaultTuning() (*TuningConfig, error) {
	var cfg TuningConfig
	if err := yaml.Unmarshal(defaultTuningYAML, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse embedded tuning YAML: %w", err)
	}
	if err := validateTuning(&cfg); err != nil {
		return nil, fmt.Errorf("invalid embedded tuning: %w", err)
	}
	return &cfg, nil
}

// MustDefaultTuning 同 DefaultTuning，失败时 panic
// 仅用于测试和内嵌文件不可能出错的场景
func MustDefaultTuning() *TuningConfig {
	cfg, err := DefaultTuning()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadTuning 从 YAML 文件加载调参，覆盖在默认值之上
// 参数：
//
//	path - 配置文件路径；为空时直接返回默认配置
//
// 返回：
//
//	*TuningConfig - 合并后的配置对象
//	error - 如果文件读取、解析或校验失败，返回错误信息
func LoadTuning(path string) (*TuningConfig, error) {
	cfg, err := DefaultTuning()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tuning file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse tuning YAML from %s: %w", path, err)
	}

	if err := validateTuning(cfg); err != nil {
		return nil, fmt.Errorf("invalid tuning in %s: %w", path, err)
	}

	return cfg, nil
}

// validateTuning 验证调参的完整性和合法性
func validateTuning(cfg *TuningConfig) error {
	for _, name := range []string{DifficultyCasual, DifficultyArcade, DifficultyInsane} {
		profile, ok := cfg.Difficulties[name]
		if !ok {
			return fmt.Errorf("difficulty %s is required", name)
		}
		if profile.PlayerHP < 1 {
			return fmt.Errorf("difficulty %s: playerHp must be at least 1, got %d", name, profile.PlayerHP)
		}
		if profile.SpawnIntervalScale <= 0 || profile.EnemySpeedScale <= 0 {
			return fmt.Errorf("difficulty %s: spawn/speed scales must be positive", name)
		}
		if profile.SurgeDuration <= 0 || profile.SurgeCooldown <= 0 {
			return fmt.Errorf("difficulty %s: surge duration and cooldown must be positive", name)
		}
		if profile.BasicCap < 1 {
			return fmt.Errorf("difficulty %s: basicCap must be at least 1, got %d", name, profile.BasicCap)
		}
	}
	if _, ok := cfg.Difficulties[cfg.DefaultDifficulty]; !ok {
		return fmt.Errorf("defaultDifficulty %q is not a known difficulty", cfg.DefaultDifficulty)
	}

	if cfg.Arena.Width <= 0 || cfg.Arena.Height <= 0 {
		return fmt.Errorf("arena size must be positive, got %vx%v", cfg.Arena.Width, cfg.Arena.Height)
	}
	if cfg.Arena.MaxFrameSeconds <= 0 {
		return fmt.Errorf("arena maxFrameSeconds must be positive, got %v", cfg.Arena.MaxFrameSeconds)
	}

	if cfg.Magnet.HeatRate <= 0 || cfg.Magnet.CoolRate <= 0 || cfg.Magnet.LockDuration <= 0 {
		return fmt.Errorf("magnet heat/cool rates and lock duration must be positive")
	}

	if len(cfg.Lanes) != LaneCount {
		return fmt.Errorf("expected %d lanes, got %d", LaneCount, len(cfg.Lanes))
	}

	if len(cfg.Chapters) == 0 {
		return fmt.Errorf("at least one chapter is required")
	}
	for i, ch := range cfg.Chapters {
		if ch.ID == "" {
			return fmt.Errorf("chapter %d: id is required", i)
		}
		if ch.End <= ch.Start {
			return fmt.Errorf("chapter %s: end (%v) must be after start (%v)", ch.ID, ch.End, ch.Start)
		}
		if i > 0 && ch.Start < cfg.Chapters[i-1].Start {
			return fmt.Errorf("chapter %s: chapters must be ordered by start time", ch.ID)
		}
		if ch.SpawnInterval <= 0 {
			return fmt.Errorf("chapter %s: spawnInterval must be positive, got %v", ch.ID, ch.SpawnInterval)
		}
		if len(cfg.WavePatterns[ch.ID]) == 0 {
			return fmt.Errorf("chapter %s: at least one wave pattern is required", ch.ID)
		}
	}

	for _, role := range []string{RoleChaser, RoleShooter, RoleAnchor, RoleBerserker, RoleWarden, RoleTyrant} {
		stats, ok := cfg.Roles[role]
		if !ok {
			return fmt.Errorf("role %s is required", role)
		}
		if stats.HP < 1 {
			return fmt.Errorf("role %s: hp must be at least 1, got %d", role, stats.HP)
		}
		if stats.Radius <= 0 || stats.MaxSpeed <= 0 {
			return fmt.Errorf("role %s: radius and maxSpeed must be positive", role)
		}
	}

	for chapterID, patterns := range cfg.WavePatterns {
		for i, pattern := range patterns {
			if len(pattern.Roles) == 0 {
				return fmt.Errorf("wave pattern %s[%d]: at least one role is required", chapterID, i)
			}
			for _, lane := range pattern.Lanes {
				if lane < 0 || lane >= len(cfg.Lanes) {
					return fmt.Errorf("wave pattern %s[%d]: lane %d out of range", chapterID, i, lane)
				}
			}
			for _, role := range pattern.Roles {
				if _, ok := cfg.Roles[role]; !ok {
					return fmt.Errorf("wave pattern %s[%d]: unknown role %q", chapterID, i, role)
				}
			}
		}
	}

	if cfg.Scrap.Interval <= 0 || cfg.Scrap.Max < 1 || cfg.Scrap.Attempts < 1 {
		return fmt.Errorf("scrap interval, max and attempts must be positive")
	}

	if len(cfg.Upgrades) == 0 {
		return fmt.Errorf("at least one upgrade is required")
	}
	for _, up := range cfg.Upgrades {
		switch up.Type {
		case UpgradeDamage, UpgradeHealth, UpgradeMagnet, UpgradeCooldown, UpgradeOverheat, UpgradeHeatPerShot:
		default:
			return fmt.Errorf("upgrade %s: unknown type %q", up.ID, up.Type)
		}
	}

	rt := cfg.Runtime
	if rt.RunDurationSeconds <= 0 {
		return fmt.Errorf("runtime runDurationSeconds must be positive, got %v", rt.RunDurationSeconds)
	}
	if rt.Integrity < 1 {
		return fmt.Errorf("runtime integrity must be at least 1, got %d", rt.Integrity)
	}
	if rt.ComboMax < rt.ComboBase || rt.ComboStep <= 0 {
		return fmt.Errorf("runtime combo: max (%v) must be >= base (%v) and step positive", rt.ComboMax, rt.ComboBase)
	}
	if rt.MaxCarry < 1 {
		return fmt.Errorf("runtime maxCarry must be at least 1, got %d", rt.MaxCarry)
	}

	if cfg.Toasts.MinGapMs < 0 || cfg.Toasts.DurationMs <= 0 {
		return fmt.Errorf("toast minGapMs must be non-negative and durationMs positive")
	}

	return nil
}

// Profile 按名称查询难度档位（忽略大小写），未知名称回落到默认难度
//
// 返回：
//
//	string - 实际使用的难度名称
//	DifficultyProfile - 对应档位
func (c *TuningConfig) Profile(name string) (string, DifficultyProfile) {
	name = strings.ToLower(strings.TrimSpace(name))
	if p, ok := c.Difficulties[name]; ok {
		return name, p
	}
	return c.DefaultDifficulty, c.Difficulties[c.DefaultDifficulty]
}

// ResolveDifficulty 校验命令行给出的难度名称（忽略大小写）
// 空名称返回空字符串，表示沿用设置；与 Profile 不同，未知名称返回错误
func (c *TuningConfig) ResolveDifficulty(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "", nil
	}
	if _, ok := c.Difficulties[name]; !ok {
		return "", fmt.Errorf("unknown difficulty %q", name)
	}
	return name, nil
}

// ChapterAt 返回 elapsed 所在的章节及其下标
// 超出所有章节时返回最后一章
func (c *TuningConfig) ChapterAt(elapsed float64) (ChapterConfig, int) {
	for i, ch := range c.Chapters {
		if elapsed >= ch.Start && elapsed < ch.End {
			return ch, i
		}
	}
	last := len(c.Chapters) - 1
	return c.Chapters[last], last
}
