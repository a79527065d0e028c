package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/gonewx/magorbit/pkg/arena"
	"github.com/gonewx/magorbit/pkg/config"
	"github.com/gonewx/magorbit/pkg/game"
)

// hudRows 顶部 HUD 占用的行数，footerRows 底部目标与提示行
const (
	hudRows    = 2
	footerRows = 1
)

type cell struct {
	r     rune
	style tcell.Style
}

// canvas 一帧的字符缓冲，绘制完成后整体写到屏幕
type canvas struct {
	w, h  int
	cells []cell
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: max(w, 1), h: max(h, 1)}
	c.cells = make([]cell, c.w*c.h)
	c.clear()
	return c
}

func (c *canvas) clear() {
	for i := range c.cells {
		c.cells[i] = cell{r: ' ', style: tcell.StyleDefault}
	}
}

func (c *canvas) set(x, y int, r rune, style tcell.Style) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.cells[y*c.w+x] = cell{r: r, style: style}
}

func (c *canvas) at(x, y int) rune {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return 0
	}
	return c.cells[y*c.w+x].r
}

// text 从 (x, y) 写一行，超出右边界截断
func (c *canvas) text(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		c.set(x, y, r, style)
		x++
	}
}

func (c *canvas) textCentered(y int, s string, style tcell.Style) {
	c.text((c.w-len([]rune(s)))/2, y, s, style)
}

// row 返回一行文字（测试用）
func (c *canvas) row(y int) string {
	var b strings.Builder
	for x := 0; x < c.w; x++ {
		b.WriteRune(c.at(x, y))
	}
	return strings.TrimRight(b.String(), " ")
}

// flush 写到 tcell 屏幕
func (c *canvas) flush(screen tcell.Screen) {
	for y := 0; y < c.h; y++ {
		for x := 0; x < c.w; x++ {
			cl := c.cells[y*c.w+x]
			screen.SetContent(x, y, cl.r, nil, cl.style)
		}
	}
	screen.Show()
}

// palette 图元样式到终端颜色
var palette = map[string]tcell.Color{
	"zone":      tcell.NewRGBColor(240, 200, 90),
	"attract":   tcell.NewRGBColor(90, 200, 255),
	"repel":     tcell.NewRGBColor(255, 120, 200),
	"off":       tcell.NewRGBColor(200, 210, 230),
	"chaser":    tcell.NewRGBColor(255, 140, 90),
	"shooter":   tcell.NewRGBColor(255, 220, 110),
	"anchor":    tcell.NewRGBColor(150, 120, 255),
	"berserker": tcell.NewRGBColor(255, 80, 80),
	"warden":    tcell.NewRGBColor(120, 255, 200),
	"tyrant":    tcell.NewRGBColor(255, 60, 140),
	"danger":    tcell.NewRGBColor(255, 95, 109),
	"cool":      tcell.NewRGBColor(120, 220, 255),
	"good":      tcell.NewRGBColor(107, 232, 149),
	"warm":      tcell.NewRGBColor(255, 210, 120),
	"neutral":   tcell.NewRGBColor(200, 210, 230),
	"warn":      tcell.NewRGBColor(255, 200, 90),
}

func styleFor(name string) tcell.Style {
	if c, ok := palette[name]; ok {
		return tcell.StyleDefault.Foreground(c)
	}
	return tcell.StyleDefault
}

var (
	styleHUD = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.NewRGBColor(16, 22, 40))
	styleDim = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// hazardGlyphs 各角色的字符
var hazardGlyphs = map[string]rune{
	"chaser":    'c',
	"shooter":   's',
	"anchor":    'A',
	"berserker": 'B',
	"warden":    'W',
	"tyrant":    'T',
}

// shipGlyph 按朝向选择飞船字符（角度 0 朝右，y 轴向下）
func shipGlyph(angle float64) rune {
	a := math.Mod(angle, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	switch int(math.Round(a/(math.Pi/2))) % 4 {
	case 0:
		return '>'
	case 1:
		return 'v'
	case 2:
		return '<'
	default:
		return '^'
	}
}

// projector 场地坐标到字符格的映射
type projector struct {
	arenaW, arenaH float64
	cols, rows     int
	top            int
}

func (p projector) cell(x, y float64) (int, int) {
	cx := int(x / p.arenaW * float64(p.cols))
	cy := int(y/p.arenaH*float64(p.rows)) + p.top
	return cx, cy
}

// ring 沿圆周取点，字符格的高约为宽的两倍
func (p projector) ring(c *canvas, x, y, radius float64, r rune, style tcell.Style) {
	steps := max(8, int(radius/p.arenaW*float64(p.cols)*6))
	for i := 0; i < steps; i++ {
		a := float64(i) / float64(steps) * 2 * math.Pi
		cx, cy := p.cell(x+radius*math.Cos(a), y+radius*math.Sin(a))
		if c.at(cx, cy) == ' ' {
			c.set(cx, cy, r, style)
		}
	}
}

// drawArena 把图元画进场地区域
func drawArena(c *canvas, shapes []arena.Shape, tuning *config.TuningConfig) {
	p := projector{
		arenaW: tuning.Arena.Width,
		arenaH: tuning.Arena.Height,
		cols:   c.w,
		rows:   c.h - hudRows - footerRows,
		top:    hudRows,
	}
	if p.rows <= 0 {
		return
	}

	for _, s := range shapes {
		st := styleFor(s.Style)
		x, y := p.cell(s.X, s.Y)
		switch s.Kind {
		case arena.ShapeZone:
			p.ring(c, s.X, s.Y, s.Radius, '·', st)
		case arena.ShapeField:
			p.ring(c, s.X, s.Y, s.Radius, '.', st.Dim(true))
		case arena.ShapeShockwave:
			p.ring(c, s.X, s.Y, s.Radius, '°', st)
		case arena.ShapeDebris:
			c.set(x, y, '*', st)
		case arena.ShapeHazard:
			g, ok := hazardGlyphs[s.Style]
			if !ok {
				g = 'x'
			}
			c.set(x, y, g, st.Bold(true))
		case arena.ShapeProjectile:
			c.set(x, y, '•', st)
		case arena.ShapePlayer:
			if s.Alpha < 1 {
				st = st.Dim(true)
			}
			c.set(x, y, shipGlyph(s.Angle), st.Bold(true))
		case arena.ShapeParticle:
			if c.at(x, y) == ' ' {
				c.set(x, y, '.', st)
			}
		}
	}
}

// hudLines HUD 两行文字
func hudLines(h arena.HUD) (string, string) {
	top := fmt.Sprintf("HP %d/%d  SCORE %d  TIME %d  WAVE %s", h.HP, h.MaxHP, h.Score, h.TimeLeft, h.Wave)
	if h.ComboActive {
		top += "  COMBO " + h.Combo
	}
	if h.BossPhase > 0 {
		top += fmt.Sprintf("  PHASE %d", h.BossPhase)
	}
	if h.BossHP >= 0 {
		top += fmt.Sprintf("  BOSS %d%%", int(math.Round(h.BossHP*100)))
	}
	if h.Paused {
		top += "  PAUSED"
	}

	surge := fmt.Sprintf("%.1fs", h.SurgeCooldown)
	switch {
	case h.SurgeActive:
		surge = "ACTIVE"
	case h.SurgeReady:
		surge = "READY"
	}
	heat := fmt.Sprintf("%d%%", h.HeatPercent)
	if h.Locked {
		heat += " LOCKED"
	}
	bottom := fmt.Sprintf("MAG %s %s  SURGE %s  CARGO %d/%d  DELIVERED %d/%d  %s",
		h.Magnet, heat, surge, h.Carry, h.MaxCarry, h.Delivered, h.Quota, strings.ToUpper(h.Difficulty))
	if h.InZone && h.Carry > 0 {
		bottom += "  E: DEPOSIT"
	}
	return top, bottom
}

// wrap 按字符数折行，单词超长时强制截断
func wrap(s string, width int) []string {
	if width <= 0 {
		return nil
	}
	var lines []string
	var cur []rune
	for _, word := range strings.Fields(s) {
		w := []rune(word)
		for len(w) > width {
			if len(cur) > 0 {
				lines = append(lines, string(cur))
				cur = nil
			}
			lines = append(lines, string(w[:width]))
			w = w[width:]
		}
		switch {
		case len(cur) == 0:
			cur = w
		case len(cur)+1+len(w) <= width:
			cur = append(append(cur, ' '), w...)
		default:
			lines = append(lines, string(cur))
			cur = w
		}
	}
	if len(cur) > 0 {
		lines = append(lines, string(cur))
	}
	return lines
}

// panel 居中的文字面板，lines 为空串时留空行
func panel(c *canvas, lines []string, style tcell.Style) {
	width := 0
	for _, l := range lines {
		width = max(width, len([]rune(l)))
	}
	width = min(width+4, c.w)
	height := min(len(lines)+2, c.h)
	x0, y0 := (c.w-width)/2, (c.h-height)/2

	border := styleFor("neutral")
	for y := y0; y < y0+height; y++ {
		for x := x0; x < x0+width; x++ {
			r := ' '
			switch {
			case y == y0 || y == y0+height-1:
				r = '─'
			case x == x0 || x == x0+width-1:
				r = '│'
			}
			c.set(x, y, r, border)
		}
	}
	for i, l := range lines {
		c.text(x0+2, y0+1+i, l, style)
	}
}

// view 终端界面需要的一帧内容
type view struct {
	Frame    arena.Frame
	BestLine string
	Muted    bool
}

// render 绘制完整的一帧
func render(c *canvas, v view, tuning *config.TuningConfig) {
	c.clear()
	f := v.Frame

	top, bottom := hudLines(f.HUD)
	for x := 0; x < c.w; x++ {
		c.set(x, 0, ' ', styleHUD)
		c.set(x, 1, ' ', styleHUD)
	}
	c.text(0, 0, top, styleHUD)
	c.text(0, 1, bottom, styleHUD)

	drawArena(c, f.Shapes, tuning)

	footer := f.Objective
	if v.Muted {
		footer = strings.TrimSpace(footer + "  [muted]")
	}
	c.text(0, c.h-1, footer, styleDim)

	if f.Toast != nil && f.Toast.Message != "" {
		c.textCentered(hudRows, " "+f.Toast.Message+" ", styleFor(f.Toast.Tone).Reverse(true))
	}

	inner := max(10, min(c.w-8, 60))
	switch {
	case f.End != nil:
		panel(c, endLines(f.End, v.BestLine, inner), styleFor(outcomeTone(f.End.Outcome)))
	case len(f.UpgradeChoices) > 0:
		lines := []string{"WARDEN DOWN - CHOOSE AN UPGRADE", ""}
		for i, u := range f.UpgradeChoices {
			lines = append(lines, fmt.Sprintf("[%d] %s", i+1, u.Label))
		}
		panel(c, lines, styleFor("good"))
	case f.OverlayMessage != "":
		panel(c, wrap(f.OverlayMessage, inner), tcell.StyleDefault)
	case f.HUD.Paused:
		panel(c, []string{"PAUSED - press P to resume"}, tcell.StyleDefault)
	}
}

func endLines(end *game.EndPayload, best string, width int) []string {
	lines := []string{end.Title, ""}
	lines = append(lines, wrap(end.Body, width)...)
	st := end.Stats
	lines = append(lines, "",
		fmt.Sprintf("SCORE %d  SURVIVED %ds  SCRAP %d/%d", st.FinalScore, st.SurvivedSeconds, st.ScrapDelivered, st.ScrapCollected))
	if best != "" {
		lines = append(lines, best)
	}
	if end.Tip != "" {
		lines = append(lines, "")
		lines = append(lines, wrap(end.Tip, width)...)
	}
	lines = append(lines, "", fmt.Sprintf("[ENTER] %s   [ESC] Quit", end.PrimaryAction))
	return lines
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
