// Package scenes 实现 Ebitengine 前端的场景：标题界面与对局界面。
package scenes

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// Scene represents a screen of the game (title, play).
type Scene interface {
	// Update advances the scene by deltaTime seconds.
	Update(deltaTime float64)

	// Draw renders the scene to screen.
	Draw(screen *ebiten.Image)
}

// Saveable 可选接口：窗口关闭时保存场景状态
type Saveable interface {
	// SaveOnExit 返回 false 表示保存失败（程序仍会退出）
	SaveOnExit() bool
}

// SceneID 场景标识
type SceneID string

const (
	SceneTitle SceneID = "title"
	ScenePlay  SceneID = "play"
)

// SceneFactory 按需创建场景，避免场景之间互相引用
type SceneFactory func() Scene

// SceneManager 管理当前场景，同一时间只有一个场景被更新和绘制
type SceneManager struct {
	currentScene Scene
	currentID    SceneID
	factories    map[SceneID]SceneFactory
}

// NewSceneManager 创建场景管理器，初始没有活动场景
func NewSceneManager() *SceneManager {
	return &SceneManager{factories: make(map[SceneID]SceneFactory)}
}

// Register 登记场景工厂
func (sm *SceneManager) Register(id SceneID, factory SceneFactory) {
	sm.factories[id] = factory
}

// SwitchTo 直接切换到已创建的场景
func (sm *SceneManager) SwitchTo(scene Scene) {
	sm.currentScene = scene
	sm.currentID = ""
}

// Show 用登记的工厂创建场景并切换
//
// 返回：
//   - bool: 未登记或工厂返回 nil 时为 false，当前场景保持不变
func (sm *SceneManager) Show(id SceneID) bool {
	factory, ok := sm.factories[id]
	if !ok {
		log.Printf("[SceneManager] Warning: scene %q not registered", id)
		return false
	}
	scene := factory()
	if scene == nil {
		log.Printf("[SceneManager] Warning: factory for %q returned nil", id)
		return false
	}
	sm.currentScene = scene
	sm.currentID = id
	log.Printf("[SceneManager] Switched to %s", id)
	return true
}

// GetCurrentScene 当前场景，没有时为 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// CurrentID 当前场景标识，通过 SwitchTo 切换时为空
func (sm *SceneManager) CurrentID() SceneID {
	return sm.currentID
}

// Update updates the active scene, if any.
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw draws the active scene, if any.
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}

// SaveOnExit 若当前场景实现了 Saveable 则调用它
func (sm *SceneManager) SaveOnExit() bool {
	if s, ok := sm.currentScene.(Saveable); ok {
		return s.SaveOnExit()
	}
	return true
}
