package scenes

import (
	"fmt"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gonewx/magorbit/pkg/arena"
	"github.com/gonewx/magorbit/pkg/config"
	"github.com/gonewx/magorbit/pkg/game"
)

// EndSummary 结算面板上的存档相关信息
type EndSummary struct {
	NewBest    bool
	PrevBest   int
	BestDelta  int // 本局分数减去之前的最高分
	RecordedID string
}

// PlayScene 对局界面
//
// 每帧读取键盘 → Session.Step → 绘制快照。结束时把结果写入 ScoreStore 一次，
// 回车重新开局，Esc 返回标题。
type PlayScene struct {
	ctx     *Context
	keys    KeySource
	session *arena.Session
	frame   arena.Frame

	recorded bool
	summary  EndSummary
}

// NewPlayScene 创建对局界面并开始第一局
// 存档中未看过教学时本局为首局，开局后立即标记为已看
func NewPlayScene(ctx *Context) *PlayScene {
	return newPlayScene(ctx, ebitenKeys{})
}

func newPlayScene(ctx *Context, keys KeySource) *PlayScene {
	firstRun := !ctx.Scores.TutorialSeen()
	s := &PlayScene{ctx: ctx, keys: keys}
	s.session = arena.NewSession(ctx.Tuning, arena.Options{
		Difficulty: ctx.Difficulty(),
		FirstRun:   firstRun,
		Seed:       ctx.Seed,
		Cues:       ctx.Cues,
		Upgrades:   s,
	})
	if firstRun {
		if err := ctx.Scores.MarkTutorialSeen(); err != nil {
			log.Printf("[PlayScene] Warning: Failed to mark tutorial seen: %v", err)
		}
	}
	return s
}

// OnUpgradeReady 实现 arena.UpgradeHandler
func (s *PlayScene) OnUpgradeReady(choices []config.UpgradeOption) {
	log.Printf("[PlayScene] Upgrade ready: %d choices", len(choices))
}

// Session 当前会话
func (s *PlayScene) Session() *arena.Session {
	return s.session
}

// Frame 最近一帧的快照
func (s *PlayScene) Frame() arena.Frame {
	return s.frame
}

// Summary 结算信息，未结束时为零值
func (s *PlayScene) Summary() EndSummary {
	return s.summary
}

// Update 推进一帧
func (s *PlayScene) Update(deltaTime float64) {
	if s.session.Over() {
		s.recordResult()
		switch {
		case s.keys.JustPressed(ebiten.KeyEnter):
			s.restart()
			return
		case s.keys.JustPressed(ebiten.KeyEscape):
			s.ctx.Manager.Show(SceneTitle)
			return
		}
	}

	if choices := s.frame.UpgradeChoices; len(choices) > 0 {
		if i := ReadUpgradeChoice(s.keys, len(choices)); i >= 0 {
			s.session.ResolveUpgrade(choices[i].ID)
		}
	}

	s.frame = s.session.Step(deltaTime, ReadInput(s.keys))
	if s.session.Over() {
		s.recordResult()
	}
}

// recordResult 本局结果只写入一次
func (s *PlayScene) recordResult() {
	if s.recorded {
		return
	}
	res, ok := s.session.Result()
	if !ok {
		return
	}
	s.recorded = true

	prevBest := s.ctx.Scores.BestScore()
	newBest, err := s.ctx.Scores.Record(game.RunRecord{
		Outcome:         res.Outcome,
		Difficulty:      res.Difficulty,
		FinalScore:      res.FinalScore,
		SurvivedSeconds: res.SurvivedSeconds,
		ScrapCollected:  res.ScrapCollected,
		ScrapDelivered:  res.ScrapDelivered,
	})
	if err != nil {
		log.Printf("[PlayScene] Warning: Failed to save run: %v", err)
	}

	s.summary = EndSummary{
		NewBest:   newBest,
		PrevBest:  prevBest,
		BestDelta: res.FinalScore - prevBest,
	}
	if last := s.ctx.Scores.LastRun(); last != nil {
		s.summary.RecordedID = last.RunID
	}
}

func (s *PlayScene) restart() {
	s.session.Restart()
	s.recorded = false
	s.summary = EndSummary{}
	s.frame = arena.Frame{}
}

// SaveOnExit 实现 Saveable：窗口关闭时保存设置
// 未结束的对局不计入记录
func (s *PlayScene) SaveOnExit() bool {
	if s.ctx.Settings == nil {
		return true
	}
	if err := s.ctx.Settings.Save(); err != nil {
		log.Printf("[PlayScene] Warning: Failed to save settings on exit: %v", err)
		return false
	}
	return true
}

// Draw 绘制对局
func (s *PlayScene) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)
	w, h := s.ctx.ScreenSize()
	width, height := float64(w), float64(h)
	f := s.frame

	drawShapes(screen, f.Shapes, f.ShakeX, HUDHeight+f.ShakeY)
	drawHitFlash(screen, f.HitFlash, width, height)
	drawHUD(screen, f.HUD, width)
	drawToast(screen, f.Toast, width)

	if f.Objective != "" {
		drawText(screen, f.Objective, 8, height-lineHeight-4, colorDim)
	}

	switch {
	case f.End != nil:
		s.drawEnd(screen, f.End, width, height)
	case len(f.UpgradeChoices) > 0:
		drawUpgrades(screen, f.UpgradeChoices, width, height)
	case f.OverlayMessage != "":
		drawOverlay(screen, f.OverlayMessage, width, height)
	case f.HUD.Paused:
		drawOverlay(screen, "PAUSED - press P to resume", width, height)
	}
}

func drawOverlay(screen *ebiten.Image, message string, width, height float64) {
	pw := math.Min(width-80, 520)
	lines := WrapText(message, uiFace, pw-40)
	ph := float64(len(lines))*lineHeight + 32
	x, y := (width-pw)/2, height/2-ph/2
	drawPanel(screen, x, y, pw, ph)
	drawParagraph(screen, message, width/2, y+16, pw-40, colorText)
}

func drawUpgrades(screen *ebiten.Image, choices []config.UpgradeOption, width, height float64) {
	pw, ph := 460.0, float64(len(choices))*lineHeight*2+64
	x, y := (width-pw)/2, height/2-ph/2
	drawPanel(screen, x, y, pw, ph)
	drawTextCentered(screen, "WARDEN DOWN - CHOOSE AN UPGRADE", width/2, y+14, palette["good"])
	for i, c := range choices {
		drawText(screen, fmt.Sprintf("[%d] %s", i+1, c.Label), x+24, y+44+float64(i)*lineHeight*2, colorText)
	}
}

func (s *PlayScene) drawEnd(screen *ebiten.Image, end *game.EndPayload, width, height float64) {
	pw, ph := 520.0, 240.0
	x, y := (width-pw)/2, height/2-ph/2
	drawPanel(screen, x, y, pw, ph)

	cx := width / 2
	ty := y + 16
	drawTextCentered(screen, end.Title, cx, ty, styleColor(outcomeTone(end.Outcome)))
	ty = drawParagraph(screen, end.Body, cx, ty+lineHeight*1.5, pw-40, colorText)

	st := end.Stats
	ty += lineHeight / 2
	drawTextCentered(screen, fmt.Sprintf("SCORE %d   SURVIVED %ds   SCRAP %d/%d", st.FinalScore, st.SurvivedSeconds, st.ScrapDelivered, st.ScrapCollected), cx, ty, colorText)
	ty += lineHeight
	drawTextCentered(screen, bestLine(s.summary), cx, ty, palette["zone"])
	ty += lineHeight
	ty = drawParagraph(screen, end.Tip, cx, ty+lineHeight/2, pw-40, colorDim)

	drawTextCentered(screen, fmt.Sprintf("[ENTER] %s    [ESC] %s", end.PrimaryAction, end.SecondaryAction), cx, y+ph-lineHeight-8, colorText)
}

// bestLine 结算面板上的最高分对比
func bestLine(sum EndSummary) string {
	switch {
	case sum.NewBest:
		return fmt.Sprintf("NEW BEST! +%d over %d", sum.BestDelta, sum.PrevBest)
	case sum.BestDelta == 0:
		return fmt.Sprintf("Matched best %d", sum.PrevBest)
	default:
		return fmt.Sprintf("%d short of best %d", -sum.BestDelta, sum.PrevBest)
	}
}

func outcomeTone(outcome string) string {
	switch outcome {
	case game.OutcomeVictory:
		return game.ToneGood
	case game.OutcomeTimerComplete:
		return game.ToneWarn
	default:
		return game.ToneDanger
	}
}
