package willow3d

import (
	"cmp"
	"image"
	"math"
	"slices"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/image/draw"
)

// ToneMapping selects how linear HDR values are mapped to the display range.
type ToneMapping uint8

const (
	ToneMappingNone ToneMapping = iota // clamp
	ToneMappingACES                    // ACES filmic curve
)

// RenderInfo reports counters from the most recent Render call.
type RenderInfo struct {
	Frames    int
	Meshes    int
	Triangles int
	Culled    int
	Fragments int
}

// Renderer rasterizes a scene into a Canvas. The drawing buffer is the
// logical size times the pixel ratio; Supersample renders larger and filters
// down with Catmull-Rom.
type Renderer struct {
	canvas      *Canvas
	size        Size
	pixelRatio  float64
	supersample int

	ToneMapping ToneMapping
	Exposure    float64

	fb       *frameBuffer
	resolved *image.RGBA
	verts    []vertex
	clipBuf  []vertex
	drawList []*Node
	info     RenderInfo
}

// NewRenderer creates a renderer that draws into canvas at the canvas's
// current size.
func NewRenderer(canvas *Canvas) *Renderer {
	r := &Renderer{
		canvas:      canvas,
		pixelRatio:  1,
		supersample: 1,
		Exposure:    1,
		fb:          &frameBuffer{},
	}
	r.size = canvas.Size()
	return r
}

// SetSize sets the logical output size and resizes the canvas to match.
func (r *Renderer) SetSize(w, h int) {
	r.size = Size{Width: max(w, 1), Height: max(h, 1)}
	r.resizeCanvas()
}

// SetPixelRatio sets the drawing buffer scale relative to the logical size.
func (r *Renderer) SetPixelRatio(ratio float64) {
	if ratio <= 0 || math.IsNaN(ratio) {
		ratio = 1
	}
	r.pixelRatio = ratio
	r.resizeCanvas()
}

// PixelRatio returns the current pixel ratio.
func (r *Renderer) PixelRatio() float64 {
	return r.pixelRatio
}

// SetSupersample sets the number of rendered pixels per output pixel along
// each axis. Values below 1 are treated as 1.
func (r *Renderer) SetSupersample(n int) {
	r.supersample = max(n, 1)
}

// Size returns the logical output size.
func (r *Renderer) Size() Size {
	return r.size
}

// Info returns counters from the most recent frame.
func (r *Renderer) Info() RenderInfo {
	return r.info
}

func (r *Renderer) resizeCanvas() {
	w := max(int(math.Round(float64(r.size.Width)*r.pixelRatio)), 1)
	h := max(int(math.Round(float64(r.size.Height)*r.pixelRatio)), 1)
	r.canvas.Resize(w, h)
}

// Render draws one frame of scene as seen by cam into the canvas.
func (r *Renderer) Render(scene *Scene, cam *PerspectiveCamera) {
	var stats renderStats
	var t0 time.Time
	if scene.debug {
		t0 = time.Now()
	}

	out := r.canvas.Image()
	w := out.Rect.Dx() * r.supersample
	h := out.Rect.Dy() * r.supersample
	r.fb.resize(w, h)
	r.fb.clearDepth()
	r.drawBackground(scene, cam)

	scene.updateWorldMatrices()
	r.drawList = r.collect(scene, r.drawList[:0])

	if scene.debug {
		stats.traverseTime = time.Since(t0)
		t0 = time.Now()
	}

	view := cam.ViewMatrix()
	viewProj := cam.ProjectionMatrix().Mul4(view)
	info := RenderInfo{Frames: r.info.Frames + 1}
	for _, n := range r.drawList {
		r.drawMesh(scene, n, cam.Position, viewProj, &info)
	}
	r.info = info

	if scene.debug {
		stats.rasterTime = time.Since(t0)
		t0 = time.Now()
	}

	r.resolve(out)

	if scene.debug {
		stats.resolveTime = time.Since(t0)
		stats.meshCount = info.Meshes
		stats.triangleCount = info.Triangles
		stats.culledCount = info.Culled
		stats.fragmentCount = info.Fragments
		scene.debugLog(stats)
	}
}

// collect gathers drawable meshes: opaque first in tree order, then overlays
// (transparent or no depth write) ordered by RenderOrder.
func (r *Renderer) collect(scene *Scene, buf []*Node) []*Node {
	meshes := scene.Meshes()
	for _, n := range meshes {
		if !n.Material.isOverlay() && !n.Geometry.IsDisposed() {
			buf = append(buf, n)
		}
	}
	opaque := len(buf)
	for _, n := range meshes {
		if n.Material.isOverlay() && !n.Geometry.IsDisposed() {
			buf = append(buf, n)
		}
	}
	slices.SortStableFunc(buf[:opaque], func(a, b *Node) int { return cmp.Compare(a.RenderOrder, b.RenderOrder) })
	slices.SortStableFunc(buf[opaque:], func(a, b *Node) int { return cmp.Compare(a.RenderOrder, b.RenderOrder) })
	return buf
}

// drawBackground fills the color buffer with the background color or, when
// enabled, the environment seen through each pixel.
func (r *Renderer) drawBackground(scene *Scene, cam *PerspectiveCamera) {
	fb := r.fb
	if !scene.BackgroundEnvironment || scene.Environment == nil {
		br, bg, bb := scene.Background.linear()
		for i := 0; i < len(fb.color); i += 3 {
			fb.color[i], fb.color[i+1], fb.color[i+2] = float32(br), float32(bg), float32(bb)
		}
		return
	}

	forward := cam.Target.Sub(cam.Position)
	if forward.Len() == 0 {
		forward = mgl64.Vec3{0, 0, -1}
	}
	forward = forward.Normalize()
	right := forward.Cross(cam.Up).Normalize()
	up := right.Cross(forward)
	tanH := math.Tan(mgl64.DegToRad(cam.FOV) / 2)
	aspect := float64(fb.width) / float64(fb.height)

	for y := 0; y < fb.height; y++ {
		ny := (1 - (float64(y)+0.5)/float64(fb.height)*2) * tanH
		for x := 0; x < fb.width; x++ {
			nx := ((float64(x)+0.5)/float64(fb.width)*2 - 1) * tanH * aspect
			dir := forward.Add(right.Mul(nx)).Add(up.Mul(ny))
			c := scene.Environment.Sample(dir)
			i := (y*fb.width + x) * 3
			fb.color[i], fb.color[i+1], fb.color[i+2] = float32(c[0]), float32(c[1]), float32(c[2])
		}
	}
}

// drawMesh transforms, clips and rasterizes every triangle of n.
func (r *Renderer) drawMesh(scene *Scene, n *Node, eye mgl64.Vec3, viewProj mgl64.Mat4, info *RenderInfo) {
	geom := n.Geometry
	mat := n.Material
	if geom.IsEmpty() {
		return
	}
	info.Meshes++

	world := n.worldMatrix
	nm := normalMatrix(world)
	mvp := viewProj.Mul4(world)

	r.verts = r.verts[:0]
	for i, p := range geom.Positions {
		v := vertex{
			clip:  mvp.Mul4x1(p.Vec4(1)),
			world: world.Mul4x1(p.Vec4(1)).Vec3(),
		}
		if i < len(geom.Normals) {
			v.normal = nm.Mul3x1(geom.Normals[i])
		}
		if i < len(geom.UVs) {
			v.uv = geom.UVs[i]
		}
		r.verts = append(r.verts, v)
	}

	st := rasterState{
		depthTest:  mat.DepthTest,
		depthWrite: mat.DepthWrite,
		blend:      mat.Transparent,
		cullBack:   !mat.Wireframe,
		wireframe:  mat.Wireframe,
	}
	if mat.PolygonOffset {
		st.slopeFactor = mat.PolygonOffsetFactor
		st.depthBias = mat.PolygonOffsetFactor * polygonOffsetUnit
	}
	shade := newShader(scene, mat, eye)

	w, h := r.fb.width, r.fb.height
	for t := 0; t < geom.TriangleCount(); t++ {
		a, b, c := geom.Triangle(t)
		if a >= len(r.verts) || b >= len(r.verts) || c >= len(r.verts) {
			continue
		}
		info.Triangles++
		poly := clipNear([3]vertex{r.verts[a], r.verts[b], r.verts[c]}, r.clipBuf)
		r.clipBuf = poly
		if len(poly) < 3 {
			info.Culled++
			continue
		}
		s0 := toScreen(poly[0], w, h)
		for k := 1; k+1 < len(poly); k++ {
			written := rasterizeTriangle(r.fb, s0, toScreen(poly[k], w, h), toScreen(poly[k+1], w, h), &st, shade)
			if written < 0 {
				info.Culled++
				break
			}
			info.Fragments += written
		}
	}
}

// newShader builds the fragment shader for a standard material: diffuse
// irradiance from the blurred environment plus a roughness-blended
// reflection weighted by Schlick's Fresnel.
func newShader(scene *Scene, mat *StandardMaterial, eye mgl64.Vec3) shadeFunc {
	br, bg, bb := mat.Color.linear()
	alpha := clamp01(mat.Color.A)
	rough := clamp01(mat.Roughness)
	metal := clamp01(mat.Metalness)
	ar, ag, ab := scene.Ambient.linear()
	env := scene.Environment
	tex := mat.Map
	transparent := mat.Transparent

	return func(f *fragment) (float64, float64, float64, float64) {
		base := mgl64.Vec3{br, bg, bb}
		a := alpha
		if tex != nil {
			tr, tg, tb, ta := tex.Sample(f.uv[0], f.uv[1])
			base = mgl64.Vec3{base[0] * srgbLUT[tr], base[1] * srgbLUT[tg], base[2] * srgbLUT[tb]}
			a *= float64(ta) / 255
		}
		if !transparent {
			a = 1
		}

		nrm := f.normal
		if l := nrm.Len(); l > 0 {
			nrm = nrm.Mul(1 / l)
		}
		v := eye.Sub(f.world)
		if l := v.Len(); l > 0 {
			v = v.Mul(1 / l)
		}
		ndv := nrm.Dot(v)
		if ndv < 0 {
			nrm = nrm.Mul(-1)
			ndv = -ndv
		}

		irr := mgl64.Vec3{ar, ag, ab}
		var spec mgl64.Vec3
		if env != nil {
			irr = irr.Add(env.SampleBlurred(nrm))
			refl := nrm.Mul(2 * ndv).Sub(v)
			spec = env.SampleRough(refl, rough)
		}

		fres := math.Pow(1-ndv, 5) * (1 - rough)
		var out mgl64.Vec3
		for k := 0; k < 3; k++ {
			f0 := 0.04*(1-metal) + base[k]*metal
			fk := f0 + (1-f0)*fres
			diffuse := base[k] * (1 - metal) * irr[k] * (1 - fk)
			out[k] = diffuse + fk*spec[k]
		}
		return out[0], out[1], out[2], a
	}
}

// resolve tone maps the color buffer, encodes sRGB and writes the canvas,
// filtering down when supersampling.
func (r *Renderer) resolve(out *image.RGBA) {
	fb := r.fb
	dst := out
	if r.supersample > 1 {
		if r.resolved == nil || r.resolved.Rect.Dx() != fb.width || r.resolved.Rect.Dy() != fb.height {
			r.resolved = image.NewRGBA(image.Rect(0, 0, fb.width, fb.height))
		}
		dst = r.resolved
	}

	exposure := r.Exposure
	aces := r.ToneMapping == ToneMappingACES
	for y := 0; y < fb.height; y++ {
		row := dst.Pix[y*dst.Stride:]
		for x := 0; x < fb.width; x++ {
			i := (y*fb.width + x) * 3
			o := x * 4
			for k := 0; k < 3; k++ {
				c := float64(fb.color[i+k]) * exposure
				if aces {
					c = acesTonemap(c)
				}
				row[o+k] = uint8(linearToSRGB(c)*255 + 0.5)
			}
			row[o+3] = 255
		}
	}

	if r.supersample > 1 {
		draw.CatmullRom.Scale(out, out.Rect, r.resolved, r.resolved.Rect, draw.Src, nil)
	}
}
