package willow3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// polygonOffsetUnit is the constant depth bias applied per unit of
// PolygonOffsetFactor, in NDC depth.
const polygonOffsetUnit = 1e-5

// frameBuffer holds linear HDR color and NDC depth as flat slices.
type frameBuffer struct {
	width  int
	height int
	color  []float32 // RGB interleaved, len = w*h*3
	depth  []float64 // NDC z per pixel, +Inf when empty
}

func newFrameBuffer(w, h int) *frameBuffer {
	fb := &frameBuffer{}
	fb.resize(w, h)
	return fb
}

func (fb *frameBuffer) resize(w, h int) {
	if fb.width == w && fb.height == h && fb.color != nil {
		return
	}
	fb.width, fb.height = w, h
	fb.color = make([]float32, w*h*3)
	fb.depth = make([]float64, w*h)
}

func (fb *frameBuffer) clearDepth() {
	inf := math.Inf(1)
	for i := range fb.depth {
		fb.depth[i] = inf
	}
}

// vertex is a clip-space vertex carrying the attributes the shader needs.
type vertex struct {
	clip   mgl64.Vec4
	world  mgl64.Vec3
	normal mgl64.Vec3
	uv     mgl64.Vec2
}

func lerpVertex(a, b vertex, t float64) vertex {
	return vertex{
		clip:   a.clip.Add(b.clip.Sub(a.clip).Mul(t)),
		world:  a.world.Add(b.world.Sub(a.world).Mul(t)),
		normal: a.normal.Add(b.normal.Sub(a.normal).Mul(t)),
		uv:     a.uv.Add(b.uv.Sub(a.uv).Mul(t)),
	}
}

// clipNear clips a triangle against the near plane (z >= -w). The result has
// zero, three or four vertices and is written into buf.
func clipNear(tri [3]vertex, buf []vertex) []vertex {
	buf = buf[:0]
	for i := 0; i < 3; i++ {
		a := tri[i]
		b := tri[(i+1)%3]
		da := a.clip[2] + a.clip[3]
		db := b.clip[2] + b.clip[3]
		if da >= 0 {
			buf = append(buf, a)
		}
		if (da >= 0) != (db >= 0) {
			buf = append(buf, lerpVertex(a, b, da/(da-db)))
		}
	}
	return buf
}

// screenVertex is a vertex after the perspective divide.
type screenVertex struct {
	x, y, z float64
	invW    float64
	attr    vertex
}

func toScreen(v vertex, w, h int) screenVertex {
	iw := 1 / v.clip[3]
	return screenVertex{
		x:    (v.clip[0]*iw + 1) * 0.5 * float64(w),
		y:    (1 - v.clip[1]*iw) * 0.5 * float64(h),
		z:    v.clip[2] * iw,
		invW: iw,
		attr: v,
	}
}

// fragment is the perspective-correct interpolation at one pixel.
type fragment struct {
	world  mgl64.Vec3
	normal mgl64.Vec3
	uv     mgl64.Vec2
	// edge is the distance in pixels to the nearest triangle edge.
	edge float64
}

// shadeFunc returns linear color and coverage for a fragment.
type shadeFunc func(f *fragment) (r, g, b, a float64)

// rasterState carries the per-mesh depth and blend settings.
type rasterState struct {
	depthTest   bool
	depthWrite  bool
	blend       bool
	cullBack    bool
	depthBias   float64
	slopeFactor float64
	wireframe   bool
}

// rasterizeTriangle fills one screen-space triangle. Returns the number of
// fragments written, or -1 when the triangle was back-face culled.
func rasterizeTriangle(fb *frameBuffer, v0, v1, v2 screenVertex, st *rasterState, shade shadeFunc) int {
	// Signed area; positive is counter-clockwise in NDC (y up), which is
	// clockwise here since screen y points down.
	area := (v1.x-v0.x)*(v2.y-v0.y) - (v2.x-v0.x)*(v1.y-v0.y)
	if math.Abs(area) < 1e-12 {
		return 0
	}
	if st.cullBack && area > 0 {
		return -1
	}

	minX := max(int(math.Floor(math.Min(v0.x, math.Min(v1.x, v2.x)))), 0)
	maxX := min(int(math.Ceil(math.Max(v0.x, math.Max(v1.x, v2.x)))), fb.width-1)
	minY := max(int(math.Floor(math.Min(v0.y, math.Min(v1.y, v2.y)))), 0)
	maxY := min(int(math.Ceil(math.Max(v0.y, math.Max(v1.y, v2.y)))), fb.height-1)
	if minX > maxX || minY > maxY {
		return 0
	}

	invArea := 1 / area

	// Depth bias: constant term plus slope term, like glPolygonOffset.
	bias := 0.0
	if st.slopeFactor != 0 {
		dzdx := ((v1.z-v0.z)*(v2.y-v0.y) - (v2.z-v0.z)*(v1.y-v0.y)) * invArea
		dzdy := ((v2.z-v0.z)*(v1.x-v0.x) - (v1.z-v0.z)*(v2.x-v0.x)) * invArea
		bias = st.slopeFactor * math.Max(math.Abs(dzdx), math.Abs(dzdy))
	}
	bias += st.depthBias

	// Edge lengths for wireframe distance.
	var len0, len1, len2 float64
	if st.wireframe {
		len0 = math.Hypot(v2.x-v1.x, v2.y-v1.y)
		len1 = math.Hypot(v0.x-v2.x, v0.y-v2.y)
		len2 = math.Hypot(v1.x-v0.x, v1.y-v0.y)
	}

	var frag fragment
	written := 0
	for py := minY; py <= maxY; py++ {
		sy := float64(py) + 0.5
		row := py * fb.width
		for px := minX; px <= maxX; px++ {
			sx := float64(px) + 0.5
			w0 := ((v1.x-sx)*(v2.y-sy) - (v2.x-sx)*(v1.y-sy)) * invArea
			w1 := ((v2.x-sx)*(v0.y-sy) - (v0.x-sx)*(v2.y-sy)) * invArea
			w2 := 1 - w0 - w1
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}

			if st.wireframe {
				a2 := math.Abs(area)
				d := math.Min(w0*a2/len0, math.Min(w1*a2/len1, w2*a2/len2))
				if d > 1 {
					continue
				}
				frag.edge = d
			}

			z := w0*v0.z + w1*v1.z + w2*v2.z + bias
			if z < -1 || z > 1 {
				continue
			}
			idx := row + px
			if st.depthTest && z > fb.depth[idx] {
				continue
			}

			// Perspective-correct weights.
			p0 := w0 * v0.invW
			p1 := w1 * v1.invW
			p2 := w2 * v2.invW
			norm := 1 / (p0 + p1 + p2)
			p0 *= norm
			p1 *= norm
			p2 *= norm

			frag.world = v0.attr.world.Mul(p0).Add(v1.attr.world.Mul(p1)).Add(v2.attr.world.Mul(p2))
			frag.normal = v0.attr.normal.Mul(p0).Add(v1.attr.normal.Mul(p1)).Add(v2.attr.normal.Mul(p2))
			frag.uv = v0.attr.uv.Mul(p0).Add(v1.attr.uv.Mul(p1)).Add(v2.attr.uv.Mul(p2))

			r, g, b, a := shade(&frag)
			if a <= 1.0/255 {
				continue
			}
			ci := idx * 3
			if st.blend && a < 1 {
				fb.color[ci] = float32(r*a + float64(fb.color[ci])*(1-a))
				fb.color[ci+1] = float32(g*a + float64(fb.color[ci+1])*(1-a))
				fb.color[ci+2] = float32(b*a + float64(fb.color[ci+2])*(1-a))
			} else {
				fb.color[ci] = float32(r)
				fb.color[ci+1] = float32(g)
				fb.color[ci+2] = float32(b)
			}
			if st.depthWrite {
				fb.depth[idx] = z
			}
			written++
		}
	}
	return written
}

// acesTonemap applies the ACES filmic curve to a linear value.
func acesTonemap(x float64) float64 {
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}

// srgbLUT decodes 8-bit sRGB to linear.
var srgbLUT [256]float64

func init() {
	for i := range srgbLUT {
		srgbLUT[i] = srgbToLinear(float64(i) / 255)
	}
}
