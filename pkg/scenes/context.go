package scenes

import (
	"log"
	"slices"
	"sort"

	"github.com/gonewx/magorbit/pkg/config"
	"github.com/gonewx/magorbit/pkg/game"
	"github.com/gonewx/magorbit/pkg/systems"
)

// HUDHeight 画面顶部 HUD 条的高度，场地绘制在其下方
const HUDHeight = 44

// Context 场景共享的依赖
type Context struct {
	Tuning   *config.TuningConfig
	Settings *game.SettingsManager
	Scores   *game.ScoreStore
	Cues     systems.CuePlayer
	Manager  *SceneManager

	// Seed 0 表示每局使用时间种子
	Seed int64
	// DifficultyOverride 命令行指定的难度，优先于设置
	DifficultyOverride string
}

// ScreenSize 逻辑画面尺寸
func (c *Context) ScreenSize() (int, int) {
	return int(c.Tuning.Arena.Width), int(c.Tuning.Arena.Height) + HUDHeight
}

// Difficulty 本局使用的难度：命令行 > 设置 > 调参默认档
func (c *Context) Difficulty() string {
	if c.DifficultyOverride != "" {
		return c.DifficultyOverride
	}
	if c.Settings != nil && c.Settings.GetSettings().Difficulty != "" {
		return c.Settings.GetSettings().Difficulty
	}
	return c.Tuning.DefaultDifficulty
}

// Difficulties 可选难度，内置三档按强度排序，其余按名称排在后面
func (c *Context) Difficulties() []string {
	builtin := []string{config.DifficultyCasual, config.DifficultyArcade, config.DifficultyInsane}
	var names, extra []string
	for _, name := range builtin {
		if _, ok := c.Tuning.Difficulties[name]; ok {
			names = append(names, name)
		}
	}
	for name := range c.Tuning.Difficulties {
		if !slices.Contains(builtin, name) {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(names, extra...)
}

// CycleDifficulty 在可选难度中前后切换并保存设置
func (c *Context) CycleDifficulty(step int) string {
	names := c.Difficulties()
	if len(names) == 0 {
		return c.Difficulty()
	}
	i := slices.Index(names, c.Difficulty())
	if i < 0 {
		i = 0
	}
	next := names[((i+step)%len(names)+len(names))%len(names)]

	if c.Settings == nil {
		c.DifficultyOverride = next
		return next
	}
	c.DifficultyOverride = ""
	c.Settings.SetDifficulty(next)
	c.saveSettings()
	return next
}

// ToggleSound 切换音效开关并保存设置
func (c *Context) ToggleSound() bool {
	if c.Settings == nil {
		return false
	}
	enabled := !c.Settings.GetSettings().SoundEnabled
	c.Settings.SetSoundEnabled(enabled)
	c.saveSettings()
	return enabled
}

func (c *Context) saveSettings() {
	if err := c.Settings.Save(); err != nil {
		log.Printf("[Scenes] Warning: Failed to save settings: %v", err)
	}
}
