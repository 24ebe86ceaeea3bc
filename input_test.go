package willow3d

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestPointerDragOrbits(t *testing.T) {
	s := newTestSession(t, ProfileKnot)
	s.HandlePointer(20, 100, true, MouseButtonLeft)
	s.HandlePointer(60, 100, true, MouseButtonLeft)
	s.HandlePointer(60, 100, false, MouseButtonLeft)
	s.Loop().Frame()

	pos := s.Camera().Position
	if pos.ApproxEqualThreshold(mgl64.Vec3{0, 0, 2}, 1e-9) {
		t.Error("dragging should orbit the camera")
	}
	// Dragging right swings the camera to the left.
	if pos.X() >= 0 {
		t.Errorf("position = %v, want x < 0", pos)
	}
	assertNear(t, "distance", pos.Len(), 2)
}

func TestPointerRightDragPans(t *testing.T) {
	s := newTestSession(t, ProfileKnot)
	s.Controls().EnableDamping = false
	s.HandlePointer(20, 100, true, MouseButtonRight)
	s.HandlePointer(60, 100, true, MouseButtonRight)
	s.HandlePointer(60, 100, false, MouseButtonRight)
	s.Loop().Frame()

	if s.Controls().Target.X() >= 0 {
		t.Errorf("target = %v, want moved left", s.Controls().Target)
	}
	assertNear(t, "distance kept", s.Camera().Position.Sub(s.Controls().Target).Len(), 2)
}

func TestPointerOnPanelDoesNotOrbit(t *testing.T) {
	s := newTestSession(t, ProfileKnot)
	// Press on the title row, then drag across the scene.
	s.HandlePointer(sessionW-10, 10, true, MouseButtonLeft)
	s.HandlePointer(20, 150, true, MouseButtonLeft)
	s.HandlePointer(20, 150, false, MouseButtonLeft)
	s.Loop().Frame()

	assertVec3(t, "camera", s.Camera().Position, mgl64.Vec3{0, 0, 2}, 1e-9)
	if !s.PanelView().Collapsed() {
		t.Error("title press should collapse the panel")
	}
}

func TestPointerSliderDrag(t *testing.T) {
	s := newTestSession(t, ProfileKnot)
	var row PanelRow
	for _, r := range s.PanelView().Rows() {
		if r.Control != nil && r.Control.Label() == "roughness" {
			row = r
		}
	}
	if row.Control == nil {
		t.Fatal("no roughness row")
	}
	vb := row.ValueBounds()
	y := vb.Y + 2
	s.HandlePointer(vb.X+1, y, true, MouseButtonLeft)
	s.HandlePointer(vb.X+vb.Width/2, y, true, MouseButtonLeft)
	s.HandlePointer(vb.X+vb.Width/2, y, false, MouseButtonLeft)

	if r := s.Material().Roughness; !approxEqual(r, 0.5, 0.011) {
		t.Errorf("roughness = %v, want about 0.5", r)
	}
	assertVec3(t, "camera", s.Camera().Position, mgl64.Vec3{0, 0, 2}, 1e-9)
}

func TestWheel(t *testing.T) {
	s := newTestSession(t, ProfileKnot)
	s.Controls().EnableDamping = false

	s.HandleWheel(sessionW-10, 10, 1)
	s.Loop().Frame()
	assertNear(t, "over panel", s.Camera().Position.Len(), 2)

	s.HandleWheel(20, 200, 1)
	s.Loop().Frame()
	if d := s.Camera().Position.Len(); d >= 2 {
		t.Errorf("distance = %v, want closer after wheel up", d)
	}
}
