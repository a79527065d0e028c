package scenes

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/gonewx/magorbit/pkg/arena"
	"github.com/gonewx/magorbit/pkg/game"
)

// uiFace 全部文字使用的位图字体（字符宽 7 像素，行高 13 像素）
var uiFace = text.NewGoXFace(basicfont.Face7x13)

const lineHeight = 16

var (
	colorBackground = color.NRGBA{R: 8, G: 12, B: 24, A: 255}
	colorHUDBar     = color.NRGBA{R: 16, G: 22, B: 40, A: 255}
	colorPanel      = color.NRGBA{R: 12, G: 18, B: 34, A: 230}
	colorBorder     = color.NRGBA{R: 90, G: 130, B: 190, A: 255}
	colorText       = color.NRGBA{R: 220, G: 230, B: 245, A: 255}
	colorDim        = color.NRGBA{R: 140, G: 155, B: 180, A: 255}
)

// palette 图元样式到颜色的映射
var palette = map[string]color.NRGBA{
	"zone":      {R: 240, G: 200, B: 90, A: 255},
	"attract":   {R: 90, G: 200, B: 255, A: 255},
	"repel":     {R: 255, G: 120, B: 200, A: 255},
	"off":       {R: 200, G: 210, B: 230, A: 255},
	"chaser":    {R: 255, G: 140, B: 90, A: 255},
	"shooter":   {R: 255, G: 220, B: 110, A: 255},
	"anchor":    {R: 150, G: 120, B: 255, A: 255},
	"berserker": {R: 255, G: 80, B: 80, A: 255},
	"warden":    {R: 120, G: 255, B: 200, A: 255},
	"tyrant":    {R: 255, G: 60, B: 140, A: 255},
	"danger":    {R: 255, G: 95, B: 109, A: 255},
	"cool":      {R: 120, G: 220, B: 255, A: 255},
	"good":      {R: 107, G: 232, B: 149, A: 255},
	"warm":      {R: 255, G: 210, B: 120, A: 255},
	"neutral":   {R: 200, G: 210, B: 230, A: 255},
	"warn":      {R: 255, G: 200, B: 90, A: 255},
}

// styleColor 查询样式颜色，未知样式使用正文颜色
func styleColor(style string) color.NRGBA {
	if c, ok := palette[style]; ok {
		return c
	}
	return colorText
}

// withAlpha 按 [0, 1] 缩放透明度
func withAlpha(c color.NRGBA, alpha float64) color.NRGBA {
	alpha = math.Max(0, math.Min(1, alpha))
	c.A = uint8(float64(c.A) * alpha)
	return c
}

// drawShapes 绘制场景图元，(ox, oy) 为场地左上角在画面中的位置
func drawShapes(screen *ebiten.Image, shapes []arena.Shape, ox, oy float64) {
	for _, s := range shapes {
		x, y, r := float32(s.X+ox), float32(s.Y+oy), float32(s.Radius)
		c := withAlpha(styleColor(s.Style), s.Alpha)

		switch s.Kind {
		case arena.ShapeZone:
			vector.DrawFilledCircle(screen, x, y, r, withAlpha(c, 0.25), true)
			vector.StrokeCircle(screen, x, y, r, 2, c, true)
		case arena.ShapeField:
			vector.StrokeCircle(screen, x, y, r, 1, c, true)
		case arena.ShapeDebris:
			vector.DrawFilledRect(screen, x-r*0.7, y-r*0.7, r*1.4, r*1.4, c, true)
		case arena.ShapeHazard:
			vector.DrawFilledCircle(screen, x, y, r, withAlpha(c, 0.8), true)
			vector.StrokeLine(screen, x, y, x+r*float32(math.Cos(s.Angle)), y+r*float32(math.Sin(s.Angle)), 2, colorBackground, true)
			if s.Style == "warden" || s.Style == "tyrant" {
				drawBar(screen, float64(x-r), float64(y-r-8), float64(r*2), 4, s.HP, c)
			}
		case arena.ShapeProjectile:
			vector.DrawFilledCircle(screen, x, y, r, c, true)
		case arena.ShapePlayer:
			drawShip(screen, x, y, r, s.Angle, c)
		case arena.ShapeShockwave:
			vector.StrokeCircle(screen, x, y, r, 2, c, true)
		case arena.ShapeParticle:
			vector.DrawFilledCircle(screen, x, y, max(r, 1), c, false)
		}
	}
}

// drawShip 三角形飞船，机头指向 angle
func drawShip(screen *ebiten.Image, x, y, r float32, angle float64, c color.NRGBA) {
	point := func(a float64, dist float32) (float32, float32) {
		return x + dist*float32(math.Cos(a)), y + dist*float32(math.Sin(a))
	}
	nx, ny := point(angle, r*1.4)
	lx, ly := point(angle+2.5, r)
	rx, ry := point(angle-2.5, r)
	vector.StrokeLine(screen, nx, ny, lx, ly, 2, c, true)
	vector.StrokeLine(screen, lx, ly, rx, ry, 2, c, true)
	vector.StrokeLine(screen, rx, ry, nx, ny, 2, c, true)
}

// drawBar 进度条，fraction 在 [0, 1]
func drawBar(screen *ebiten.Image, x, y, w, h, fraction float64, c color.NRGBA) {
	fraction = math.Max(0, math.Min(1, fraction))
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), colorHUDBar, false)
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w*fraction), float32(h), c, false)
}

// drawText 在 (x, y) 处绘制一行文字，y 为行顶
func drawText(screen *ebiten.Image, s string, x, y float64, c color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	text.Draw(screen, s, uiFace, op)
}

// drawTextCentered 以 cx 为中心绘制一行文字
func drawTextCentered(screen *ebiten.Image, s string, cx, y float64, c color.Color) {
	drawText(screen, s, cx-measureTextWidth(s, uiFace)/2, y, c)
}

// drawPanel 半透明面板
func drawPanel(screen *ebiten.Image, x, y, w, h float64) {
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), colorPanel, false)
	vector.StrokeRect(screen, float32(x), float32(y), float32(w), float32(h), 1, colorBorder, false)
}

// drawParagraph 在面板内绘制自动换行的多行文字，返回下一行的 y
func drawParagraph(screen *ebiten.Image, s string, cx, y, maxWidth float64, c color.Color) float64 {
	if s == "" {
		return y
	}
	for _, line := range WrapText(s, uiFace, maxWidth) {
		drawTextCentered(screen, line, cx, y, c)
		y += lineHeight
	}
	return y
}

// drawHUD 顶部 HUD 条
func drawHUD(screen *ebiten.Image, h arena.HUD, width float64) {
	vector.DrawFilledRect(screen, 0, 0, float32(width), HUDHeight, colorHUDBar, false)

	drawText(screen, formatHUDTop(h), 8, 6, colorText)
	drawText(screen, formatHUDBottom(h), 8, 6+lineHeight, colorDim)

	heatColor := palette["good"]
	switch {
	case h.Locked:
		heatColor = palette["danger"]
	case h.HeatPercent >= 70:
		heatColor = palette["warn"]
	}
	drawBar(screen, width-138, 8, 130, 8, float64(h.HeatPercent)/100, heatColor)
	if h.BossHP >= 0 {
		drawBar(screen, width-138, 24, 130, 8, h.BossHP, palette["tyrant"])
	}
}

// drawToast 提示条，位于场地顶部居中
func drawToast(screen *ebiten.Image, toast *game.ActiveToast, width float64) {
	if toast == nil || toast.Message == "" {
		return
	}
	w := math.Min(width-40, measureTextWidth(toast.Message, uiFace)+32)
	x := (width - w) / 2
	y := float64(HUDHeight + 10)
	drawPanel(screen, x, y, w, 26)
	drawTextCentered(screen, toast.Message, width/2, y+7, styleColor(toast.Tone))
}

// drawHitFlash 受击时的红色边框
func drawHitFlash(screen *ebiten.Image, intensity, width, height float64) {
	if intensity <= 0 {
		return
	}
	c := withAlpha(palette["danger"], math.Min(1, intensity*6))
	vector.StrokeRect(screen, 1, HUDHeight+1, float32(width-2), float32(height-HUDHeight-2), 3, c, false)
}
