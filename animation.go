package willow3d

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenVec3 animates the three components of a vector field simultaneously.
// Call Update(dt) each frame; the group writes values through the pointer.
//
// There is no global animation manager. Owners call Update themselves.
type TweenVec3 struct {
	tweens [3]*gween.Tween
	field  *mgl64.Vec3
	Done   bool
}

// NewTweenVec3 creates a tween that moves *field to the target value over the
// specified duration using the easing function.
func NewTweenVec3(field *mgl64.Vec3, to mgl64.Vec3, duration float32, fn ease.TweenFunc) *TweenVec3 {
	g := &TweenVec3{field: field}
	for i := 0; i < 3; i++ {
		g.tweens[i] = gween.New(float32(field[i]), float32(to[i]), duration, fn)
	}
	return g
}

// Update advances all tweens by dt seconds and writes the values.
func (g *TweenVec3) Update(dt float32) {
	if g.Done {
		return
	}
	allDone := true
	for i := 0; i < 3; i++ {
		val, finished := g.tweens[i].Update(dt)
		g.field[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
}
