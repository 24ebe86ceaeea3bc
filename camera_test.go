package willow3d

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestProjectTargetIsCentered(t *testing.T) {
	cam := NewPerspectiveCamera(75, 800.0/600, 0.1, 100)
	cam.Position = mgl64.Vec3{0, 0, 2}
	cam.LookAt(mgl64.Vec3{})

	sx, sy, depth, ok := cam.Project(mgl64.Vec3{}, 800, 600)
	if !ok {
		t.Fatal("origin should be in front of the camera")
	}
	if !approxEqual(sx, 400, 1e-9) || !approxEqual(sy, 300, 1e-9) {
		t.Errorf("Project = (%v, %v), want (400, 300)", sx, sy)
	}
	if depth <= -1 || depth >= 1 {
		t.Errorf("depth = %v, want inside (-1, 1)", depth)
	}
}

func TestProjectYIsDown(t *testing.T) {
	cam := NewPerspectiveCamera(75, 1, 0.1, 100)
	cam.Position = mgl64.Vec3{0, 0, 2}
	cam.LookAt(mgl64.Vec3{})

	_, sy, _, _ := cam.Project(mgl64.Vec3{0, 0.5, 0}, 100, 100)
	if sy >= 50 {
		t.Errorf("point above center projects to sy = %v, want < 50", sy)
	}
}

func TestProjectBehindCamera(t *testing.T) {
	cam := NewPerspectiveCamera(75, 1, 0.1, 100)
	cam.Position = mgl64.Vec3{0, 0, 2}
	cam.LookAt(mgl64.Vec3{})
	if _, _, _, ok := cam.Project(mgl64.Vec3{0, 0, 5}, 100, 100); ok {
		t.Error("point behind the camera should not project")
	}
}

func TestUpdateProjectionMatrixAspect(t *testing.T) {
	cam := NewPerspectiveCamera(75, 1, 0.1, 100)
	before := cam.ProjectionMatrix()
	cam.Aspect = 2
	if cam.ProjectionMatrix() != before {
		t.Error("projection must not change until UpdateProjectionMatrix")
	}
	cam.UpdateProjectionMatrix()
	after := cam.ProjectionMatrix()
	assertNear(t, "x scale halves", after.At(0, 0), before.At(0, 0)/2)
	assertNear(t, "y scale kept", after.At(1, 1), before.At(1, 1))
}

func TestViewMatrixDegenerate(t *testing.T) {
	cam := NewPerspectiveCamera(75, 1, 0.1, 100)
	cam.Position = mgl64.Vec3{1, 2, 3}
	cam.Target = cam.Position
	got := cam.ViewMatrix().Mul4x1(mgl64.Vec4{1, 2, 3, 1}).Vec3()
	assertVec3(t, "eye", got, mgl64.Vec3{}, epsilon)
}
