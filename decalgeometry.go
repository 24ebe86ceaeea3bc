package willow3d

import (
	"github.com/go-gl/mathgl/mgl64"
)

// decalVertex is a vertex in projector space with its world-space normal.
type decalVertex struct {
	pos    mgl64.Vec3
	normal mgl64.Vec3
}

// clipPlanes are the six faces of the projector box as (axis, sign) pairs.
var clipPlanes = [6]struct {
	axis int
	sign float64
}{
	{0, 1}, {0, -1},
	{1, 1}, {1, -1},
	{2, 1}, {2, -1},
}

// NewDecalGeometry projects a box of the given size, placed at position with
// Euler XYZ orientation, onto target's world-space triangles. The result is
// non-indexed, lives in world space, and carries uvs that map the box's XY
// extent onto 0..1. A box that misses the mesh yields an empty geometry.
func NewDecalGeometry(target *Node, position, orientation, size mgl64.Vec3) *Geometry {
	out := &Geometry{}
	if target == nil || target.Geometry == nil || target.Geometry.IsEmpty() {
		return out
	}
	if size[0] <= 0 || size[1] <= 0 || size[2] <= 0 {
		return out
	}

	projector := composeMatrix(position, orientation, mgl64.Vec3{1, 1, 1})
	inverse := projector.Inv()
	world := target.WorldMatrix()
	nm := normalMatrix(world)
	toProjector := inverse.Mul4(world)

	src := target.Geometry
	local := make([]decalVertex, len(src.Positions))
	for i, p := range src.Positions {
		local[i].pos = toProjector.Mul4x1(p.Vec4(1)).Vec3()
		if i < len(src.Normals) {
			local[i].normal = normalizeOrZero(nm.Mul3x1(src.Normals[i]))
		}
	}

	half := size.Mul(0.5)
	var poly, scratch []decalVertex
	for t := 0; t < src.TriangleCount(); t++ {
		a, b, c := src.Triangle(t)
		if a >= len(local) || b >= len(local) || c >= len(local) {
			continue
		}
		poly = append(poly[:0], local[a], local[b], local[c])
		for _, pl := range clipPlanes {
			poly, scratch = clipPolygon(poly, scratch[:0], pl.axis, pl.sign, half[pl.axis]), poly
			if len(poly) < 3 {
				break
			}
		}
		if len(poly) < 3 {
			continue
		}
		for k := 1; k+1 < len(poly); k++ {
			for _, v := range [3]decalVertex{poly[0], poly[k], poly[k+1]} {
				out.Positions = append(out.Positions, projector.Mul4x1(v.pos.Vec4(1)).Vec3())
				out.Normals = append(out.Normals, v.normal)
				out.UVs = append(out.UVs, mgl64.Vec2{
					0.5 + v.pos[0]/size[0],
					0.5 + v.pos[1]/size[1],
				})
			}
		}
	}
	return out
}

// clipPolygon keeps the part of poly where sign*p[axis] <= limit, appending
// the result to dst (Sutherland-Hodgman, one plane).
func clipPolygon(poly, dst []decalVertex, axis int, sign, limit float64) []decalVertex {
	n := len(poly)
	for i := 0; i < n; i++ {
		cur := poly[i]
		next := poly[(i+1)%n]
		dc := sign*cur.pos[axis] - limit
		dn := sign*next.pos[axis] - limit
		if dc <= 0 {
			dst = append(dst, cur)
		}
		if (dc <= 0) != (dn <= 0) {
			t := dc / (dc - dn)
			dst = append(dst, decalVertex{
				pos:    cur.pos.Add(next.pos.Sub(cur.pos).Mul(t)),
				normal: normalizeOrZero(cur.normal.Add(next.normal.Sub(cur.normal).Mul(t))),
			})
		}
	}
	return dst
}

func normalizeOrZero(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return v.Mul(1 / l)
}
