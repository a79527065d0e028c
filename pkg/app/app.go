// Package app 提供游戏应用的核心包装器
//
// 该包将游戏初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/gonewx/magorbit/pkg/config"
	"github.com/gonewx/magorbit/pkg/game"
	"github.com/gonewx/magorbit/pkg/scenes"
	"github.com/gonewx/magorbit/pkg/systems"
	"github.com/gonewx/magorbit/pkg/utils"
)

// sampleRate 音频上下文采样率
const sampleRate = 48000

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// Difficulty 指定难度，为空则使用设置中保存的难度
	Difficulty string
	// TuningPath 调参 YAML 路径，为空则使用内嵌默认值
	TuningPath string
	// Seed 随机种子，0 表示每局使用时间种子
	Seed int64
}

// App 是游戏应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	ctx                      *scenes.Context
	sceneManager             *scenes.SceneManager
	verbose                  bool
	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化游戏应用
//
// 存档目录无法打开时以内存模式运行，设置与记录在退出后丢失。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	tuning, err := config.LoadTuning(cfg.TuningPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load tuning: %w", err)
	}
	difficulty, err := tuning.ResolveDifficulty(cfg.Difficulty)
	if err != nil {
		return nil, err
	}

	storage := game.OpenStorage(game.AppName)
	settings, scores := storage.Settings, storage.Scores

	// 初始化音频上下文
	audioContext := audio.NewContext(sampleRate)
	audioManager := NewAudioManager(audioContext, settings)
	log.Printf("[App] AudioManager initialized")

	a := newApp(tuning, settings, scores, audioManager, cfg)
	a.ctx.DifficultyOverride = difficulty

	if !utils.IsMobile() {
		ebiten.SetFullscreen(settings.GetSettings().Fullscreen)
		ebiten.SetWindowClosingHandled(true)
	}
	return a, nil
}

// newApp 组装场景，不触碰窗口与音频设备
func newApp(tuning *config.TuningConfig, settings *game.SettingsManager, scores *game.ScoreStore, cues systems.CuePlayer, cfg Config) *App {
	sceneManager := scenes.NewSceneManager()
	ctx := &scenes.Context{
		Tuning:   tuning,
		Settings: settings,
		Scores:   scores,
		Cues:     cues,
		Manager:  sceneManager,
		Seed:     cfg.Seed,
	}
	sceneManager.Register(scenes.SceneTitle, func() scenes.Scene { return scenes.NewTitleScene(ctx) })
	sceneManager.Register(scenes.ScenePlay, func() scenes.Scene { return scenes.NewPlayScene(ctx) })
	sceneManager.Show(scenes.SceneTitle)

	return &App{
		ctx:          ctx,
		sceneManager: sceneManager,
		verbose:      cfg.Verbose,
	}
}

// Update 更新游戏逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	if ebiten.IsWindowBeingClosed() {
		a.SaveOnExit()
		return ebiten.Termination
	}

	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			w, h := a.ctx.ScreenSize()
			ebiten.SetWindowSize(w, h)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", w, h)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		a.toggleFullscreen()
	}

	deltaTime := 1.0 / 60.0
	a.sceneManager.Update(deltaTime)
	return nil
}

func (a *App) toggleFullscreen() {
	fullscreen := !ebiten.IsFullscreen()
	ebiten.SetFullscreen(fullscreen)
	if !fullscreen {
		if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
			ebiten.RestoreWindow()
		}
		// 延迟几帧后设置窗口大小，让窗口管理器有时间处理
		a.pendingWindowSizeReset = true
		a.windowSizeResetCountdown = 3
		log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
	}

	a.ctx.Settings.SetFullscreen(fullscreen)
	if err := a.ctx.Settings.Save(); err != nil {
		log.Printf("[App] Warning: Failed to save fullscreen setting: %v", err)
	}
}

// SaveOnExit 窗口关闭前保存当前场景与设置
func (a *App) SaveOnExit() bool {
	ok := a.sceneManager.SaveOnExit()
	if err := a.ctx.Settings.Save(); err != nil {
		log.Printf("[App] Warning: Failed to save settings on exit: %v", err)
		ok = false
	}
	return ok
}

// Draw 绘制游戏画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回游戏的逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.ctx.ScreenSize()
}

// WindowSize 初始窗口尺寸，与逻辑画面一致
func (a *App) WindowSize() (int, int) {
	return a.ctx.ScreenSize()
}

// GetSceneManager 返回场景管理器
func (a *App) GetSceneManager() *scenes.SceneManager {
	return a.sceneManager
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
