package willow3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Geometry holds vertex attributes and optional triangle indices. When
// Indices is nil every three consecutive vertices form a triangle.
// Geometry is treated as immutable once built; replace it rather than edit it.
type Geometry struct {
	Positions []mgl64.Vec3
	Normals   []mgl64.Vec3
	UVs       []mgl64.Vec2
	Indices   []uint32

	disposed bool
}

// VertexCount returns the number of vertices.
func (g *Geometry) VertexCount() int {
	return len(g.Positions)
}

// TriangleCount returns the number of triangles.
func (g *Geometry) TriangleCount() int {
	if g.Indices != nil {
		return len(g.Indices) / 3
	}
	return len(g.Positions) / 3
}

// Triangle returns the vertex indices of triangle i.
func (g *Geometry) Triangle(i int) (a, b, c int) {
	if g.Indices != nil {
		return int(g.Indices[i*3]), int(g.Indices[i*3+1]), int(g.Indices[i*3+2])
	}
	return i * 3, i*3 + 1, i*3 + 2
}

// IsEmpty reports whether the geometry has no triangles.
func (g *Geometry) IsEmpty() bool {
	return g.TriangleCount() == 0
}

// BoundingBox returns the axis-aligned bounds of all positions. An empty
// geometry returns two zero vectors.
func (g *Geometry) BoundingBox() (lo, hi mgl64.Vec3) {
	if len(g.Positions) == 0 {
		return mgl64.Vec3{}, mgl64.Vec3{}
	}
	lo = g.Positions[0]
	hi = g.Positions[0]
	for _, p := range g.Positions[1:] {
		for k := 0; k < 3; k++ {
			lo[k] = math.Min(lo[k], p[k])
			hi[k] = math.Max(hi[k], p[k])
		}
	}
	return lo, hi
}

// Dispose releases the vertex buffers. Disposed geometry renders nothing.
func (g *Geometry) Dispose() {
	if g.disposed {
		return
	}
	g.disposed = true
	g.Positions = nil
	g.Normals = nil
	g.UVs = nil
	g.Indices = nil
}

// IsDisposed reports whether Dispose has been called.
func (g *Geometry) IsDisposed() bool {
	return g.disposed
}

// NewBoxGeometry builds an axis-aligned box centered on the origin with one
// quad per face, so each face has its own normals and a full 0..1 uv square.
func NewBoxGeometry(width, height, depth float64) *Geometry {
	g := &Geometry{
		Positions: make([]mgl64.Vec3, 0, 24),
		Normals:   make([]mgl64.Vec3, 0, 24),
		UVs:       make([]mgl64.Vec2, 0, 24),
		Indices:   make([]uint32, 0, 36),
	}
	half := mgl64.Vec3{width / 2, height / 2, depth / 2}

	// normal, u axis, v axis; u x v == normal so quads wind counter-clockwise
	// when seen from outside.
	faces := [6][3]mgl64.Vec3{
		{{1, 0, 0}, {0, 0, -1}, {0, 1, 0}},
		{{-1, 0, 0}, {0, 0, 1}, {0, 1, 0}},
		{{0, 1, 0}, {1, 0, 0}, {0, 0, -1}},
		{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}},
		{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}},
		{{0, 0, -1}, {-1, 0, 0}, {0, 1, 0}},
	}
	for _, f := range faces {
		normal, u, v := f[0], f[1], f[2]
		center := mulElem(normal, half)
		du := u.Mul(absDot(u, half))
		dv := v.Mul(absDot(v, half))

		base := uint32(len(g.Positions))
		corners := [4]struct {
			su, sv float64
		}{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
		for _, c := range corners {
			g.Positions = append(g.Positions, center.Add(du.Mul(c.su)).Add(dv.Mul(c.sv)))
			g.Normals = append(g.Normals, normal)
			g.UVs = append(g.UVs, mgl64.Vec2{(c.su + 1) / 2, (c.sv + 1) / 2})
		}
		g.Indices = append(g.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return g
}

// NewTorusKnotGeometry builds a (p, q) torus knot tube. radius is the knot's
// overall radius and tube the tube thickness. Segment counts are clamped to
// sensible minimums.
func NewTorusKnotGeometry(radius, tube float64, tubularSegments, radialSegments, p, q int) *Geometry {
	if tubularSegments < 3 {
		tubularSegments = 3
	}
	if radialSegments < 3 {
		radialSegments = 3
	}
	if p == 0 {
		p = 2
	}
	n := (tubularSegments + 1) * (radialSegments + 1)
	g := &Geometry{
		Positions: make([]mgl64.Vec3, 0, n),
		Normals:   make([]mgl64.Vec3, 0, n),
		UVs:       make([]mgl64.Vec2, 0, n),
		Indices:   make([]uint32, 0, tubularSegments*radialSegments*6),
	}

	for i := 0; i <= tubularSegments; i++ {
		u := float64(i) / float64(tubularSegments) * float64(p) * math.Pi * 2

		p1 := knotPoint(u, p, q, radius)
		p2 := knotPoint(u+0.01, p, q, radius)

		// Frenet-like frame along the curve.
		t := p2.Sub(p1)
		nrm := p2.Add(p1)
		b := t.Cross(nrm)
		nrm = b.Cross(t)
		b = b.Normalize()
		nrm = nrm.Normalize()

		for j := 0; j <= radialSegments; j++ {
			v := float64(j) / float64(radialSegments) * math.Pi * 2
			cx := -tube * math.Cos(v)
			cy := tube * math.Sin(v)

			pos := p1.Add(nrm.Mul(cx)).Add(b.Mul(cy))
			g.Positions = append(g.Positions, pos)
			g.Normals = append(g.Normals, pos.Sub(p1).Normalize())
			g.UVs = append(g.UVs, mgl64.Vec2{
				float64(i) / float64(tubularSegments),
				float64(j) / float64(radialSegments),
			})
		}
	}

	stride := uint32(radialSegments + 1)
	for j := uint32(1); j <= uint32(tubularSegments); j++ {
		for i := uint32(1); i <= uint32(radialSegments); i++ {
			a := stride*(j-1) + (i - 1)
			b := stride*j + (i - 1)
			c := stride*j + i
			d := stride*(j-1) + i
			g.Indices = append(g.Indices, a, b, d, b, c, d)
		}
	}
	return g
}

// knotPoint returns the point on the knot curve at parameter u.
func knotPoint(u float64, p, q int, radius float64) mgl64.Vec3 {
	cu, su := math.Cos(u), math.Sin(u)
	quOverP := float64(q) / float64(p) * u
	cs := math.Cos(quOverP)
	return mgl64.Vec3{
		radius * (2 + cs) * 0.5 * cu,
		radius * (2 + cs) * su * 0.5,
		radius * math.Sin(quOverP) * 0.5,
	}
}

func mulElem(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

func absDot(a, b mgl64.Vec3) float64 {
	return math.Abs(a[0]*b[0]) + math.Abs(a[1]*b[1]) + math.Abs(a[2]*b[2])
}
