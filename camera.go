package willow3d

import (
	"github.com/go-gl/mathgl/mgl64"
)

// PerspectiveCamera projects the scene through a symmetric frustum.
type PerspectiveCamera struct {
	// FOV is the vertical field of view in degrees.
	FOV    float64
	Aspect float64
	Near   float64
	Far    float64

	Position mgl64.Vec3
	// Target is the world-space point the camera looks at.
	Target mgl64.Vec3
	Up     mgl64.Vec3

	projection mgl64.Mat4
}

// NewPerspectiveCamera creates a camera at the origin looking down -Z.
func NewPerspectiveCamera(fov, aspect, near, far float64) *PerspectiveCamera {
	c := &PerspectiveCamera{
		FOV:    fov,
		Aspect: aspect,
		Near:   near,
		Far:    far,
		Target: mgl64.Vec3{0, 0, -1},
		Up:     mgl64.Vec3{0, 1, 0},
	}
	c.UpdateProjectionMatrix()
	return c
}

// UpdateProjectionMatrix recomputes the cached projection matrix. Call it
// after changing FOV, Aspect, Near or Far.
func (c *PerspectiveCamera) UpdateProjectionMatrix() {
	aspect := c.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	c.projection = mgl64.Perspective(mgl64.DegToRad(c.FOV), aspect, c.Near, c.Far)
}

// ProjectionMatrix returns the cached projection matrix.
func (c *PerspectiveCamera) ProjectionMatrix() mgl64.Mat4 {
	return c.projection
}

// ViewMatrix returns the world-to-camera matrix.
func (c *PerspectiveCamera) ViewMatrix() mgl64.Mat4 {
	if c.Position.ApproxEqual(c.Target) {
		return mgl64.Translate3D(-c.Position[0], -c.Position[1], -c.Position[2])
	}
	return mgl64.LookAtV(c.Position, c.Target, c.Up)
}

// LookAt points the camera at target.
func (c *PerspectiveCamera) LookAt(target mgl64.Vec3) {
	c.Target = target
}

// Project converts a world position to screen pixels for a w x h viewport.
// ok is false when the point is behind the camera.
func (c *PerspectiveCamera) Project(world mgl64.Vec3, w, h int) (sx, sy, depth float64, ok bool) {
	clip := c.projection.Mul4(c.ViewMatrix()).Mul4x1(world.Vec4(1))
	if clip[3] <= 0 {
		return 0, 0, 0, false
	}
	ndc := clip.Vec3().Mul(1 / clip[3])
	sx = (ndc[0] + 1) / 2 * float64(w)
	sy = (1 - ndc[1]) / 2 * float64(h)
	return sx, sy, ndc[2], true
}
