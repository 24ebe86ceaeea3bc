package host

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/phanxgames/willow3d"
)

var (
	panelBackground = color.RGBA{0x1f, 0x1f, 0x1f, 0xe6}
	panelTitleBar   = color.RGBA{0x11, 0x11, 0x11, 0xff}
	panelGroupBar   = color.RGBA{0x2a, 0x2a, 0x2a, 0xff}
	panelWidget     = color.RGBA{0x42, 0x42, 0x42, 0xff}
	panelAccent     = color.RGBA{0x2c, 0xc9, 0xff, 0xff}
)

// debugGlyphHeight is the line height of ebitenutil's debug font.
const debugGlyphHeight = 16

// drawPanel paints the rows laid out by v. Labels use ebitenutil's debug
// font, so the panel needs no font assets.
func drawPanel(dst *ebiten.Image, v *willow3d.PanelView) {
	rows := v.Rows()
	if len(rows) == 0 {
		return
	}
	b := v.Bounds()
	fillRect(dst, b, panelBackground)

	for _, row := range rows {
		r := row.Bounds
		textY := int(r.Y + (r.Height-debugGlyphHeight)/2)
		switch row.Kind {
		case willow3d.RowTitle:
			fillRect(dst, r, panelTitleBar)
			marker := "v"
			if v.Collapsed() {
				marker = ">"
			}
			ebitenutil.DebugPrintAt(dst, marker+" "+row.Label, int(r.X)+6, textY)
		case willow3d.RowGroup:
			fillRect(dst, r, panelGroupBar)
			marker := "v"
			if !row.Group.Open {
				marker = ">"
			}
			ebitenutil.DebugPrintAt(dst, marker+" "+row.Label, int(r.X)+6+row.Depth*8, textY)
		case willow3d.RowControl:
			drawControl(dst, row, textY)
		}
	}
}

func drawControl(dst *ebiten.Image, row willow3d.PanelRow, textY int) {
	c := row.Control
	r := row.Bounds
	vb := row.ValueBounds()
	labelX := int(r.X) + 6 + row.Depth*8

	switch c.Kind() {
	case willow3d.ControlButton:
		btn := willow3d.Rect{X: r.X + 4, Y: vb.Y, Width: r.Width - 8, Height: vb.Height}
		fillRect(dst, btn, panelWidget)
		ebitenutil.DebugPrintAt(dst, c.Label(), int(btn.X)+6, textY)
		return
	}

	ebitenutil.DebugPrintAt(dst, c.Label(), labelX, textY)
	switch c.Kind() {
	case willow3d.ControlColor:
		col := c.Value().(willow3d.Color)
		fillRect(dst, vb, col.NRGBA())
		ebitenutil.DebugPrintAt(dst, fmt.Sprintf("#%06x", col.Hex()), int(vb.X)+4, textY)
	case willow3d.ControlBool:
		box := willow3d.Rect{X: vb.X, Y: vb.Y, Width: vb.Height, Height: vb.Height}
		fillRect(dst, box, panelWidget)
		if c.Value().(bool) {
			inset := willow3d.Rect{X: box.X + 3, Y: box.Y + 3, Width: box.Width - 6, Height: box.Height - 6}
			fillRect(dst, inset, panelAccent)
		}
	case willow3d.ControlFloat:
		fillRect(dst, vb, panelWidget)
		fill := vb
		fill.Width = vb.Width * willow3d.SliderFraction(c)
		fillRect(dst, fill, panelAccent)
		ebitenutil.DebugPrintAt(dst, fmt.Sprintf("%.2f", c.Value().(float64)), int(vb.X)+4, textY)
	}
}

func fillRect(dst *ebiten.Image, r willow3d.Rect, clr color.Color) {
	vector.DrawFilledRect(dst, float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height), clr, false)
}
