package scenes

import (
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gonewx/magorbit/pkg/utils"
)

// TitleScene 标题界面：最高分、上一局结果、难度与音效开关
type TitleScene struct {
	ctx   *Context
	keys  KeySource
	phase float64
}

// NewTitleScene 创建标题界面
func NewTitleScene(ctx *Context) *TitleScene {
	return &TitleScene{ctx: ctx, keys: ebitenKeys{}}
}

// Update 处理菜单按键
// 回车或空格开始，左右切换难度，M 切换音效
func (s *TitleScene) Update(deltaTime float64) {
	s.phase += deltaTime * 3

	switch {
	case anyJustPressed(s.keys, ebiten.KeyEnter, ebiten.KeySpace):
		s.ctx.Manager.Show(ScenePlay)
	case anyJustPressed(s.keys, ebiten.KeyArrowLeft, ebiten.KeyA):
		s.ctx.CycleDifficulty(-1)
	case anyJustPressed(s.keys, ebiten.KeyArrowRight, ebiten.KeyD):
		s.ctx.CycleDifficulty(1)
	case s.keys.JustPressed(ebiten.KeyM):
		s.ctx.ToggleSound()
	}
}

// Lines 标题界面的文字内容（自上而下）
func (s *TitleScene) Lines() []string {
	lines := []string{
		fmt.Sprintf("BEST SCORE  %d", s.ctx.Scores.BestScore()),
	}
	if last := s.ctx.Scores.LastRun(); last != nil {
		lines = append(lines, fmt.Sprintf("LAST RUN  %s  %d pts  %ds  %d delivered",
			strings.ToUpper(last.Outcome), last.FinalScore, last.SurvivedSeconds, last.ScrapDelivered))
	} else {
		lines = append(lines, "LAST RUN  --")
	}

	sound := "ON"
	if s.ctx.Settings != nil && !s.ctx.Settings.GetSettings().SoundEnabled {
		sound = "OFF"
	}
	lines = append(lines,
		"",
		fmt.Sprintf("< DIFFICULTY: %s >", strings.ToUpper(s.ctx.Difficulty())),
		"SOUND: "+sound+"  (M)",
	)
	return lines
}

// Draw 绘制标题界面
func (s *TitleScene) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)
	w, h := s.ctx.ScreenSize()
	cx := float64(w) / 2
	y := float64(h)/2 - 110

	drawTextCentered(screen, "M A G N E T I C   O R B I T", cx, y, palette["attract"])
	y += lineHeight * 2
	for _, line := range s.Lines() {
		drawTextCentered(screen, line, cx, y, colorText)
		y += lineHeight
	}

	y += lineHeight
	drawTextCentered(screen, "PRESS ENTER TO LAUNCH", cx, y, withAlpha(palette["zone"], 0.4+0.6*utils.Pulse(s.phase)))
	y += lineHeight * 2
	drawTextCentered(screen, "WASD/ARROWS steer   SPACE magnet   SHIFT surge   E deposit   P pause", cx, y, colorDim)
}
