package willow3d

const (
	defaultPanelWidth     = 245
	defaultPanelRowHeight = 24
	panelIndent           = 8
	panelLabelFraction    = 0.4
	panelPadding          = 4
)

// colorPalette is cycled through by clicks on a color control.
var colorPalette = []Color{
	ColorWhite,
	ColorFromHex(0xff0000),
	ColorFromHex(0x00ff00),
	ColorFromHex(0x0000ff),
	ColorFromHex(0xffff00),
	ColorFromHex(0x00ffff),
	ColorFromHex(0xff00ff),
	ColorFromHex(0x808080),
	ColorBlack,
}

// RowKind identifies what a laid-out panel row shows.
type RowKind uint8

const (
	RowTitle   RowKind = iota // panel title; click collapses the panel
	RowGroup                  // group header; click toggles the group
	RowControl                // a control
)

// PanelRow is one laid-out line of the panel.
type PanelRow struct {
	Kind    RowKind
	Bounds  Rect
	Depth   int
	Label   string
	Group   *Group
	Control *Control
}

// ValueBounds returns the widget area of a control row, right of the label.
func (r PanelRow) ValueBounds() Rect {
	lw := r.Bounds.Width * panelLabelFraction
	return Rect{
		X:      r.Bounds.X + lw,
		Y:      r.Bounds.Y + panelPadding/2,
		Width:  r.Bounds.Width - lw - panelPadding,
		Height: r.Bounds.Height - panelPadding,
	}
}

// PanelView lays a Panel out as a column of rows anchored to the top-right
// corner of the viewport and turns pointer input into control changes.
// It never draws.
type PanelView struct {
	Width     float64
	RowHeight float64

	panel     *Panel
	viewport  Size
	collapsed bool
	rows      []PanelRow
	dragging  *Control
	dragRow   PanelRow
}

// NewPanelView creates a view for p.
func NewPanelView(p *Panel) *PanelView {
	return &PanelView{
		Width:     defaultPanelWidth,
		RowHeight: defaultPanelRowHeight,
		panel:     p,
	}
}

// Panel returns the panel being shown.
func (v *PanelView) Panel() *Panel { return v.panel }

// SetViewport records the window size used for anchoring.
func (v *PanelView) SetViewport(s Size) {
	v.viewport = s
}

// Collapsed reports whether the panel is folded to its title row.
func (v *PanelView) Collapsed() bool { return v.collapsed }

// Rows lays out the panel and returns the rows top to bottom. The returned
// slice is reused by the next call. A hidden panel has no rows.
func (v *PanelView) Rows() []PanelRow {
	v.rows = v.rows[:0]
	if !v.panel.Visible {
		return v.rows
	}
	x := float64(v.viewport.Width) - v.Width
	if x < 0 {
		x = 0
	}
	y := 0.0
	v.rows = append(v.rows, PanelRow{
		Kind:   RowTitle,
		Bounds: Rect{X: x, Y: y, Width: v.Width, Height: v.RowHeight},
		Label:  v.panel.Title,
		Group:  v.panel.root,
	})
	y += v.RowHeight
	if !v.collapsed {
		v.layoutGroup(v.panel.root, x, &y, 0)
	}
	return v.rows
}

func (v *PanelView) layoutGroup(g *Group, x float64, y *float64, depth int) {
	indent := float64(depth) * panelIndent
	for _, e := range g.entries {
		switch item := e.(type) {
		case *Control:
			v.rows = append(v.rows, PanelRow{
				Kind:    RowControl,
				Bounds:  Rect{X: x + indent, Y: *y, Width: v.Width - indent, Height: v.RowHeight},
				Depth:   depth,
				Label:   item.label,
				Control: item,
				Group:   g,
			})
			*y += v.RowHeight
		case *Group:
			v.rows = append(v.rows, PanelRow{
				Kind:   RowGroup,
				Bounds: Rect{X: x + indent, Y: *y, Width: v.Width - indent, Height: v.RowHeight},
				Depth:  depth,
				Label:  item.Label,
				Group:  item,
			})
			*y += v.RowHeight
			if item.Open {
				v.layoutGroup(item, x, y, depth+1)
			}
		}
	}
}

// Bounds returns the rectangle covered by the panel.
func (v *PanelView) Bounds() Rect {
	rows := v.Rows()
	if len(rows) == 0 {
		return Rect{}
	}
	first, last := rows[0].Bounds, rows[len(rows)-1].Bounds
	return Rect{X: first.X, Y: first.Y, Width: v.Width, Height: last.Y + last.Height - first.Y}
}

// Contains reports whether (x, y) falls on the panel.
func (v *PanelView) Contains(x, y float64) bool {
	b := v.Bounds()
	return b.Width > 0 && b.Contains(x, y)
}

// rowAt returns the row under (x, y).
func (v *PanelView) rowAt(x, y float64) (PanelRow, bool) {
	for _, r := range v.Rows() {
		if r.Bounds.Contains(x, y) {
			return r, true
		}
	}
	return PanelRow{}, false
}

// PointerDown handles a press. Returns true when the panel consumed it.
func (v *PanelView) PointerDown(x, y float64) bool {
	if !v.Contains(x, y) {
		return false
	}
	row, ok := v.rowAt(x, y)
	if !ok {
		return true
	}
	switch row.Kind {
	case RowTitle:
		v.collapsed = !v.collapsed
	case RowGroup:
		row.Group.Open = !row.Group.Open
	case RowControl:
		v.activate(row, x)
	}
	return true
}

// PointerMove continues a slider drag. Returns true while dragging.
func (v *PanelView) PointerMove(x, y float64) bool {
	if v.dragging == nil {
		return false
	}
	v.setFromPointer(v.dragging, v.dragRow, x)
	return true
}

// PointerUp ends a slider drag. Returns true when a drag was active.
func (v *PanelView) PointerUp(x, y float64) bool {
	if v.dragging == nil {
		return false
	}
	v.setFromPointer(v.dragging, v.dragRow, x)
	v.dragging = nil
	return true
}

// Dragging reports whether a slider is being dragged.
func (v *PanelView) Dragging() bool { return v.dragging != nil }

func (v *PanelView) activate(row PanelRow, x float64) {
	c := row.Control
	switch c.kind {
	case ControlBool:
		_ = c.SetValue(!c.Value().(bool))
	case ControlButton:
		c.Press()
	case ControlColor:
		_ = c.SetValue(nextPaletteColor(c.Value().(Color)))
	case ControlFloat:
		vb := row.ValueBounds()
		if x < vb.X {
			return
		}
		v.dragging = c
		v.dragRow = row
		v.setFromPointer(c, row, x)
	}
}

func (v *PanelView) setFromPointer(c *Control, row PanelRow, x float64) {
	vb := row.ValueBounds()
	if vb.Width <= 0 {
		return
	}
	f := clamp01((x - vb.X) / vb.Width)
	r := c.rng
	_ = c.SetValue(r.Min + f*(r.Max-r.Min))
}

// SliderFraction returns where a float control's value sits in its range.
func SliderFraction(c *Control) float64 {
	if c.kind != ControlFloat || !c.rng.Valid() {
		return 0
	}
	return clamp01((c.Value().(float64) - c.rng.Min) / (c.rng.Max - c.rng.Min))
}

// nextPaletteColor returns the palette entry after cur, or the first entry
// when cur is not in the palette.
func nextPaletteColor(cur Color) Color {
	hex := cur.Hex()
	for i, c := range colorPalette {
		if c.Hex() == hex {
			return colorPalette[(i+1)%len(colorPalette)]
		}
	}
	return colorPalette[0]
}
