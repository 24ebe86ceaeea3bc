package willow3d

import (
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	testViewW = 100
	testViewH = 100
)

// newTestRender returns a 100x100 renderer and a camera at (0, 0, 2)
// looking at the origin.
func newTestRender() (*Renderer, *Canvas, *PerspectiveCamera) {
	canvas := NewCanvas("test", testViewW, testViewH)
	r := NewRenderer(canvas)
	cam := NewPerspectiveCamera(75, 1, 0.1, 100)
	cam.Position = mgl64.Vec3{0, 0, 2}
	cam.LookAt(mgl64.Vec3{})
	return r, canvas, cam
}

func near8(a, b uint8, tol int) bool {
	d := int(a) - int(b)
	return d >= -tol && d <= tol
}

func assertPixel(t *testing.T, name string, c *Canvas, x, y int, want color.NRGBA, tol int) {
	t.Helper()
	got := c.Image().RGBAAt(x, y)
	if !near8(got.R, want.R, tol) || !near8(got.G, want.G, tol) || !near8(got.B, want.B, tol) || got.A != 255 {
		t.Errorf("%s at (%d,%d) = %v, want %v", name, x, y, got, want)
	}
}

func pixelAtWorld(t *testing.T, cam *PerspectiveCamera, p mgl64.Vec3) (int, int) {
	t.Helper()
	sx, sy, _, ok := cam.Project(p, testViewW, testViewH)
	if !ok {
		t.Fatalf("%v is behind the camera", p)
	}
	return int(sx), int(sy)
}

func TestRenderBackgroundColor(t *testing.T) {
	r, canvas, cam := newTestRender()
	scene := NewScene()
	scene.Background = ColorFromHex(0x336699)
	r.Render(scene, cam)

	want := color.NRGBA{0x33, 0x66, 0x99, 0xff}
	assertPixel(t, "corner", canvas, 0, 0, want, 1)
	assertPixel(t, "center", canvas, 50, 50, want, 1)
	if r.Info().Frames != 1 || r.Info().Meshes != 0 {
		t.Errorf("info = %+v", r.Info())
	}
}

func TestRenderUnlitMeshIsBlack(t *testing.T) {
	r, canvas, cam := newTestRender()
	scene := NewScene()
	scene.Background = ColorWhite
	scene.Add(NewMesh("cube", NewBoxGeometry(1, 1, 1), NewStandardMaterial()))
	r.Render(scene, cam)

	assertPixel(t, "cube", canvas, 50, 50, color.NRGBA{0, 0, 0, 255}, 0)
	assertPixel(t, "background", canvas, 1, 1, color.NRGBA{255, 255, 255, 255}, 0)
}

func TestRenderBackFaceCulling(t *testing.T) {
	r, _, cam := newTestRender()
	scene := NewScene()
	scene.Add(NewMesh("cube", NewBoxGeometry(1, 1, 1), NewStandardMaterial()))
	r.Render(scene, cam)

	info := r.Info()
	if info.Meshes != 1 || info.Triangles != 12 {
		t.Errorf("info = %+v", info)
	}
	// Only the two front triangles face the camera.
	if info.Culled != 10 {
		t.Errorf("Culled = %d, want 10", info.Culled)
	}
	if info.Fragments == 0 {
		t.Error("front face should produce fragments")
	}
}

func TestRenderWireframe(t *testing.T) {
	r, canvas, cam := newTestRender()
	scene := NewScene()
	scene.Background = ColorWhite
	mat := NewStandardMaterial()
	scene.Add(NewMesh("cube", NewBoxGeometry(1, 1, 1), mat))

	// A point on the front face well away from every edge, front or back.
	x, y := pixelAtWorld(t, cam, mgl64.Vec3{0.2, -0.1, 0.5})

	r.Render(scene, cam)
	assertPixel(t, "solid", canvas, x, y, color.NRGBA{0, 0, 0, 255}, 0)

	mat.Wireframe = true
	r.Render(scene, cam)
	assertPixel(t, "wireframe interior", canvas, x, y, color.NRGBA{255, 255, 255, 255}, 0)
	if r.Info().Culled != 0 {
		t.Errorf("wireframe should not cull, Culled = %d", r.Info().Culled)
	}

	dark := 0
	img := canvas.Image()
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i] == 0 {
			dark++
		}
	}
	if dark == 0 {
		t.Error("wireframe should draw edges")
	}
}

func TestRenderEnvironmentLighting(t *testing.T) {
	r, canvas, cam := newTestRender()
	scene := NewScene()
	scene.Environment = NewEnvironmentMap(solidImage(16, 8, color.NRGBA{255, 255, 255, 255}))
	scene.Add(NewMesh("cube", NewBoxGeometry(1, 1, 1), NewStandardMaterial()))
	r.Render(scene, cam)

	got := canvas.Image().RGBAAt(50, 50)
	if got.R < 200 || got.R != got.G || got.G != got.B {
		t.Errorf("lit white cube = %v, want bright grey", got)
	}
}

func TestRenderBackgroundFromEnvironment(t *testing.T) {
	r, canvas, cam := newTestRender()
	scene := NewScene()
	scene.Background = ColorBlack
	scene.Environment = NewEnvironmentMap(solidImage(16, 8, color.NRGBA{0, 255, 0, 255}))
	scene.BackgroundEnvironment = true
	r.Render(scene, cam)
	assertPixel(t, "env background", canvas, 10, 10, color.NRGBA{0, 255, 0, 255}, 1)

	scene.BackgroundEnvironment = false
	r.Render(scene, cam)
	assertPixel(t, "solid background", canvas, 10, 10, color.NRGBA{0, 0, 0, 255}, 0)
}

func TestRenderTransparentOverlay(t *testing.T) {
	r, canvas, cam := newTestRender()
	scene := NewScene()
	scene.Ambient = ColorWhite
	scene.Add(NewMesh("cube", NewBoxGeometry(1, 1, 1), NewStandardMaterial()))

	// A half-transparent red quad lying on the front face.
	overlay := NewStandardMaterial()
	overlay.Color = Color{R: 1, G: 0, B: 0, A: 0.5}
	overlay.Transparent = true
	overlay.DepthWrite = false
	overlay.PolygonOffset = true
	overlay.PolygonOffsetFactor = decalPolygonOffset
	cube := scene.Root().FindChild("cube")
	quad := NewDecalGeometry(cube, mgl64.Vec3{0, 0, 0.5}, mgl64.Vec3{}, mgl64.Vec3{0.5, 0.5, 0.5})
	scene.Add(NewMesh("overlay", quad, overlay))

	r.Render(scene, cam)
	got := canvas.Image().RGBAAt(50, 50)
	if got.R <= got.G || got.G == 0 {
		t.Errorf("blended pixel = %v, want reddish grey", got)
	}
	edge := canvas.Image().RGBAAt(pixelAtWorld(t, cam, mgl64.Vec3{0.4, 0.4, 0.5}))
	if edge.R != edge.G {
		t.Errorf("outside the overlay = %v, want plain grey", edge)
	}
}

func TestRenderCollectOrder(t *testing.T) {
	r, _, _ := newTestRender()
	scene := NewScene()
	overlayMat := NewStandardMaterial()
	overlayMat.Transparent = true
	overlay := NewMesh("overlay", NewBoxGeometry(1, 1, 1), overlayMat)
	opaque := NewMesh("opaque", NewBoxGeometry(1, 1, 1), NewStandardMaterial())
	late := NewMesh("late", NewBoxGeometry(1, 1, 1), NewStandardMaterial())
	late.RenderOrder = 5
	early := NewMesh("early", NewBoxGeometry(1, 1, 1), NewStandardMaterial())
	early.RenderOrder = -1
	scene.Add(overlay)
	scene.Add(late)
	scene.Add(opaque)
	scene.Add(early)

	got := r.collect(scene, nil)
	want := []*Node{early, opaque, late, overlay}
	if len(got) != len(want) {
		t.Fatalf("len = %d", len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("draw %d = %s, want %s", i, got[i].Name, want[i].Name)
		}
	}
}

func TestRenderSupersample(t *testing.T) {
	r, canvas, cam := newTestRender()
	r.SetSupersample(2)
	scene := NewScene()
	scene.Background = ColorFromHex(0x808080)
	r.Render(scene, cam)
	if canvas.Size() != (Size{Width: testViewW, Height: testViewH}) {
		t.Errorf("canvas size = %v", canvas.Size())
	}
	assertPixel(t, "filtered", canvas, 50, 50, color.NRGBA{0x80, 0x80, 0x80, 0xff}, 1)
}

func TestRendererPixelRatio(t *testing.T) {
	r, canvas, _ := newTestRender()
	r.SetSize(200, 100)
	r.SetPixelRatio(0.5)
	if canvas.Size() != (Size{Width: 100, Height: 50}) {
		t.Errorf("canvas = %v, want 100x50", canvas.Size())
	}
	if r.Size() != (Size{Width: 200, Height: 100}) {
		t.Errorf("logical size = %v", r.Size())
	}
	r.SetPixelRatio(-1)
	if r.PixelRatio() != 1 {
		t.Errorf("PixelRatio = %v, want 1", r.PixelRatio())
	}
}

func TestACESTonemap(t *testing.T) {
	if acesTonemap(0) != 0 {
		t.Error("black should stay black")
	}
	prev := 0.0
	for _, x := range []float64{0.1, 0.5, 1, 4, 100} {
		y := acesTonemap(x)
		// The fitted curve levels off just above 1; resolve clamps it.
		if y <= prev || y > 1.04 {
			t.Errorf("acesTonemap(%v) = %v", x, y)
		}
		prev = y
	}
}
