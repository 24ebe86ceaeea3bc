package willow3d

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func triangleArea(a, b, c mgl64.Vec3) float64 {
	return b.Sub(a).Cross(c.Sub(a)).Len() / 2
}

func geometryArea(g *Geometry) float64 {
	area := 0.0
	for i := 0; i < g.TriangleCount(); i++ {
		a, b, c := g.Triangle(i)
		area += triangleArea(g.Positions[a], g.Positions[b], g.Positions[c])
	}
	return area
}

func TestDecalGeometryCubeFront(t *testing.T) {
	cube := NewMesh("cube", NewBoxGeometry(1, 1, 1), NewStandardMaterial())
	g := NewDecalGeometry(cube, mgl64.Vec3{0, 0, 0.5}, mgl64.Vec3{}, mgl64.Vec3{0.5, 0.5, 0.5})
	if g.IsEmpty() {
		t.Fatal("decal should hit the front face")
	}
	if len(g.Normals) != g.VertexCount() || len(g.UVs) != g.VertexCount() {
		t.Fatal("attribute lengths differ")
	}
	for i, p := range g.Positions {
		if !approxEqual(p.Z(), 0.5, 1e-9) {
			t.Fatalf("vertex %d z = %v, want 0.5", i, p.Z())
		}
		if math.Abs(p.X()) > 0.25+1e-9 || math.Abs(p.Y()) > 0.25+1e-9 {
			t.Fatalf("vertex %d = %v outside the projector box", i, p)
		}
		assertVec3(t, "normal", g.Normals[i], mgl64.Vec3{0, 0, 1}, 1e-9)
		uv := g.UVs[i]
		if !approxEqual(uv.X(), 0.5+p.X()/0.5, 1e-9) || !approxEqual(uv.Y(), 0.5+p.Y()/0.5, 1e-9) {
			t.Fatalf("vertex %d uv = %v for position %v", i, uv, p)
		}
	}
	assertNear(t, "area", geometryArea(g), 0.25)

	lo, hi := g.BoundingBox()
	assertVec3(t, "lo", lo, mgl64.Vec3{-0.25, -0.25, 0.5}, 1e-9)
	assertVec3(t, "hi", hi, mgl64.Vec3{0.25, 0.25, 0.5}, 1e-9)
}

func TestDecalGeometryMiss(t *testing.T) {
	cube := NewMesh("cube", NewBoxGeometry(1, 1, 1), NewStandardMaterial())
	g := NewDecalGeometry(cube, mgl64.Vec3{5, 5, 5}, mgl64.Vec3{}, mgl64.Vec3{0.5, 0.5, 0.5})
	if !g.IsEmpty() {
		t.Errorf("miss produced %d triangles", g.TriangleCount())
	}
}

func TestDecalGeometryFollowsTargetTransform(t *testing.T) {
	cube := NewMesh("cube", NewBoxGeometry(1, 1, 1), NewStandardMaterial())
	cube.Position = mgl64.Vec3{2, 0, 0}
	cube.MarkDirty()

	g := NewDecalGeometry(cube, mgl64.Vec3{2, 0, 0.5}, mgl64.Vec3{}, mgl64.Vec3{0.5, 0.5, 0.5})
	lo, hi := g.BoundingBox()
	assertVec3(t, "lo", lo, mgl64.Vec3{1.75, -0.25, 0.5}, 1e-9)
	assertVec3(t, "hi", hi, mgl64.Vec3{2.25, 0.25, 0.5}, 1e-9)
}

func TestDecalGeometryOrientation(t *testing.T) {
	cube := NewMesh("cube", NewBoxGeometry(1, 1, 1), NewStandardMaterial())
	// Turned to face +X; the box's local Z becomes world X.
	g := NewDecalGeometry(cube, mgl64.Vec3{0.5, 0, 0}, mgl64.Vec3{0, math.Pi / 2, 0}, mgl64.Vec3{0.5, 0.5, 0.5})
	if g.IsEmpty() {
		t.Fatal("decal should hit the right face")
	}
	for _, p := range g.Positions {
		if !approxEqual(p.X(), 0.5, 1e-9) {
			t.Fatalf("vertex %v not on the right face", p)
		}
	}
	assertNear(t, "area", geometryArea(g), 0.25)
}

func TestDecalGeometryDegenerateInputs(t *testing.T) {
	cube := NewMesh("cube", NewBoxGeometry(1, 1, 1), NewStandardMaterial())
	if !NewDecalGeometry(nil, mgl64.Vec3{}, mgl64.Vec3{}, mgl64.Vec3{1, 1, 1}).IsEmpty() {
		t.Error("nil target should yield empty geometry")
	}
	if !NewDecalGeometry(cube, mgl64.Vec3{}, mgl64.Vec3{}, mgl64.Vec3{0, 1, 1}).IsEmpty() {
		t.Error("zero size should yield empty geometry")
	}
}

func TestClipPolygonSplitsEdge(t *testing.T) {
	poly := []decalVertex{
		{pos: mgl64.Vec3{-1, 0, 0}},
		{pos: mgl64.Vec3{1, 0, 0}},
		{pos: mgl64.Vec3{1, 1, 0}},
	}
	out := clipPolygon(poly, nil, 0, 1, 0)
	for _, v := range out {
		if v.pos.X() > 1e-12 {
			t.Errorf("vertex %v survived clipping at x <= 0", v.pos)
		}
	}
	if len(out) != 3 {
		t.Errorf("len = %d, want 3", len(out))
	}
}
