package willow3d

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle
)

// pointerState tracks the single mouse pointer between frames.
type pointerState struct {
	down    bool
	button  MouseButton
	lastX   float64
	lastY   float64
	onPanel bool // press landed on the panel; the whole gesture belongs to it
}

// HandlePointer feeds one frame of pointer state into the session. Presses
// that land on the panel are routed to it until release; everything else
// drives the orbit controls (left rotates, right and middle pan).
func (s *Session) HandlePointer(x, y float64, pressed bool, button MouseButton) {
	ps := &s.pointer
	h := s.viewport.Height

	switch {
	case pressed && !ps.down:
		ps.down = true
		ps.button = button
		ps.onPanel = s.panelView.PointerDown(x, y)
	case pressed && ps.down:
		if x == ps.lastX && y == ps.lastY {
			break
		}
		if ps.onPanel {
			s.panelView.PointerMove(x, y)
			break
		}
		dx, dy := x-ps.lastX, y-ps.lastY
		if ps.button == MouseButtonLeft {
			s.controls.HandleDrag(dx, dy, h)
		} else {
			s.controls.Pan(dx, dy, h)
		}
	case !pressed && ps.down:
		if ps.onPanel {
			s.panelView.PointerUp(x, y)
		}
		ps.down = false
		ps.onPanel = false
	}
	ps.lastX = x
	ps.lastY = y
}

// HandleWheel dollies the camera unless the cursor is over the panel.
// Positive deltas (wheel up) zoom in.
func (s *Session) HandleWheel(x, y, delta float64) {
	if delta == 0 || s.panelView.Contains(x, y) {
		return
	}
	s.controls.HandleWheel(delta)
}
