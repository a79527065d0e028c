package app

import (
	"testing"

	"github.com/gonewx/magorbit/pkg/config"
	"github.com/gonewx/magorbit/pkg/game"
	"github.com/gonewx/magorbit/pkg/scenes"
	"github.com/gonewx/magorbit/pkg/systems"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	return newApp(config.MustDefaultTuning(), game.NewSettingsManager(nil), game.NewScoreStore(nil), &systems.CueRecorder{}, Config{Seed: 3})
}

func TestNewAppStartsAtTitle(t *testing.T) {
	a := newTestApp(t)
	if got := a.GetSceneManager().CurrentID(); got != scenes.SceneTitle {
		t.Errorf("CurrentID = %q, want %q", got, scenes.SceneTitle)
	}
	if _, ok := a.GetSceneManager().GetCurrentScene().(*scenes.TitleScene); !ok {
		t.Errorf("current scene = %T, want *scenes.TitleScene", a.GetSceneManager().GetCurrentScene())
	}
}

func TestLayoutIncludesHUD(t *testing.T) {
	a := newTestApp(t)
	tuning := config.MustDefaultTuning()

	w, h := a.Layout(1920, 1080)
	if w != int(tuning.Arena.Width) || h != int(tuning.Arena.Height)+scenes.HUDHeight {
		t.Errorf("Layout = %dx%d", w, h)
	}
	if ww, wh := a.WindowSize(); ww != w || wh != h {
		t.Errorf("WindowSize = %dx%d, want %dx%d", ww, wh, w, h)
	}
}

func TestShowPlayScene(t *testing.T) {
	a := newTestApp(t)
	if !a.GetSceneManager().Show(scenes.ScenePlay) {
		t.Fatal("Show(play) failed")
	}
	if _, ok := a.GetSceneManager().GetCurrentScene().(*scenes.PlayScene); !ok {
		t.Errorf("current scene = %T, want *scenes.PlayScene", a.GetSceneManager().GetCurrentScene())
	}
	if !a.SaveOnExit() {
		t.Error("内存模式下 SaveOnExit 应成功")
	}
}
