package willow3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween/ease"
)

const (
	controlsEPS        = 1e-6
	defaultDamping     = 0.05
	defaultFrameDT     = 1.0 / 60
	defaultZoomPerStep = 0.95
)

// resetAnim holds the tweens that carry the camera back to its saved view.
type resetAnim struct {
	position *TweenVec3
	target   *TweenVec3
}

// OrbitControls rotates a camera around a target point. Input methods only
// accumulate deltas; Update applies them, with exponential damping when
// EnableDamping is set.
type OrbitControls struct {
	Camera *PerspectiveCamera
	Target mgl64.Vec3

	EnableDamping bool
	DampingFactor float64
	RotateSpeed   float64
	ZoomSpeed     float64
	PanSpeed      float64

	MinDistance   float64
	MaxDistance   float64
	MinPolarAngle float64
	MaxPolarAngle float64

	thetaDelta float64
	phiDelta   float64
	scale      float64
	panOffset  mgl64.Vec3

	savedPosition mgl64.Vec3
	savedTarget   mgl64.Vec3
	reset         *resetAnim
}

// NewOrbitControls attaches controls to cam, orbiting the origin. The
// camera's current position is saved for ResetView.
func NewOrbitControls(cam *PerspectiveCamera) *OrbitControls {
	c := &OrbitControls{
		Camera:        cam,
		DampingFactor: defaultDamping,
		RotateSpeed:   1,
		ZoomSpeed:     1,
		PanSpeed:      1,
		MinDistance:   0,
		MaxDistance:   math.Inf(1),
		MinPolarAngle: 0,
		MaxPolarAngle: math.Pi,
		scale:         1,
	}
	c.SaveState()
	cam.LookAt(c.Target)
	return c
}

// SaveState records the current camera position and target for ResetView.
func (c *OrbitControls) SaveState() {
	c.savedPosition = c.Camera.Position
	c.savedTarget = c.Target
}

// RotateLeft orbits around the vertical axis by angle radians.
func (c *OrbitControls) RotateLeft(angle float64) {
	c.thetaDelta -= angle
}

// RotateUp orbits toward the poles by angle radians.
func (c *OrbitControls) RotateUp(angle float64) {
	c.phiDelta -= angle
}

// DollyIn moves the camera toward the target by the given factor (> 1).
func (c *OrbitControls) DollyIn(factor float64) {
	if factor > 0 {
		c.scale /= factor
	}
}

// DollyOut moves the camera away from the target by the given factor (> 1).
func (c *OrbitControls) DollyOut(factor float64) {
	if factor > 0 {
		c.scale *= factor
	}
}

// Pan shifts the target in the camera plane by screen-space pixels for a
// viewport of the given height.
func (c *OrbitControls) Pan(dx, dy float64, viewportHeight int) {
	if viewportHeight <= 0 {
		return
	}
	offset := c.Camera.Position.Sub(c.Target)
	dist := offset.Len() * math.Tan(mgl64.DegToRad(c.Camera.FOV/2))

	forward := offset.Normalize()
	right := c.Camera.Up.Cross(forward).Normalize()
	up := forward.Cross(right)

	scale := 2 * dist / float64(viewportHeight) * c.PanSpeed
	c.panOffset = c.panOffset.Add(right.Mul(-dx * scale)).Add(up.Mul(dy * scale))
}

// HandleDrag converts a pointer drag in pixels to an orbit rotation.
func (c *OrbitControls) HandleDrag(dx, dy float64, viewportHeight int) {
	if viewportHeight <= 0 {
		return
	}
	h := float64(viewportHeight)
	c.RotateLeft(2 * math.Pi * dx / h * c.RotateSpeed)
	c.RotateUp(2 * math.Pi * dy / h * c.RotateSpeed)
}

// HandleWheel dollies for a wheel delta. Positive deltas zoom in.
func (c *OrbitControls) HandleWheel(delta float64) {
	zoom := math.Pow(defaultZoomPerStep, c.ZoomSpeed)
	switch {
	case delta > 0:
		c.DollyOut(zoom)
	case delta < 0:
		c.DollyIn(zoom)
	}
}

// ResetView animates the camera back to the saved state over duration
// seconds. Pending rotation and zoom input is discarded.
func (c *OrbitControls) ResetView(duration float32, fn ease.TweenFunc) {
	if fn == nil {
		fn = ease.OutCubic
	}
	c.thetaDelta, c.phiDelta = 0, 0
	c.scale = 1
	c.panOffset = mgl64.Vec3{}
	c.reset = &resetAnim{
		position: NewTweenVec3(&c.Camera.Position, c.savedPosition, duration, fn),
		target:   NewTweenVec3(&c.Target, c.savedTarget, duration, fn),
	}
}

// Resetting reports whether a ResetView animation is running.
func (c *OrbitControls) Resetting() bool {
	return c.reset != nil
}

// Update applies accumulated input to the camera. Returns true when the
// camera moved. Safe to call any number of times, with or without input.
func (c *OrbitControls) Update() bool {
	cam := c.Camera
	prev := cam.Position

	if c.reset != nil {
		c.reset.position.Update(defaultFrameDT)
		c.reset.target.Update(defaultFrameDT)
		if c.reset.position.Done && c.reset.target.Done {
			c.reset = nil
		}
		cam.LookAt(c.Target)
		return !prev.ApproxEqualThreshold(cam.Position, controlsEPS)
	}

	offset := cam.Position.Sub(c.Target)
	radius := offset.Len()
	theta := math.Atan2(offset[0], offset[2])
	phi := 0.0
	if radius > 0 {
		phi = math.Acos(mgl64.Clamp(offset[1]/radius, -1, 1))
	}

	if c.EnableDamping {
		theta += c.thetaDelta * c.DampingFactor
		phi += c.phiDelta * c.DampingFactor
	} else {
		theta += c.thetaDelta
		phi += c.phiDelta
	}

	phi = mgl64.Clamp(phi, c.MinPolarAngle, c.MaxPolarAngle)
	phi = mgl64.Clamp(phi, controlsEPS, math.Pi-controlsEPS)

	radius *= c.scale
	radius = mgl64.Clamp(radius, c.MinDistance, c.MaxDistance)

	if c.EnableDamping {
		c.Target = c.Target.Add(c.panOffset.Mul(c.DampingFactor))
	} else {
		c.Target = c.Target.Add(c.panOffset)
	}

	sinPhiRadius := math.Sin(phi) * radius
	offset = mgl64.Vec3{
		sinPhiRadius * math.Sin(theta),
		math.Cos(phi) * radius,
		sinPhiRadius * math.Cos(theta),
	}
	cam.Position = c.Target.Add(offset)
	cam.LookAt(c.Target)

	if c.EnableDamping {
		c.thetaDelta *= 1 - c.DampingFactor
		c.phiDelta *= 1 - c.DampingFactor
		c.panOffset = c.panOffset.Mul(1 - c.DampingFactor)
	} else {
		c.thetaDelta = 0
		c.phiDelta = 0
		c.panOffset = mgl64.Vec3{}
	}
	c.scale = 1

	return !prev.ApproxEqualThreshold(cam.Position, controlsEPS)
}
