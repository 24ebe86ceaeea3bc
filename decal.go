package willow3d

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// DecalState tracks the decal lifecycle. The only transition is
// DecalUninitialized to DecalAdded.
type DecalState uint8

const (
	DecalUninitialized DecalState = iota
	DecalAdded
)

func (s DecalState) String() string {
	switch s {
	case DecalUninitialized:
		return "uninitialized"
	case DecalAdded:
		return "added"
	}
	return fmt.Sprintf("DecalState(%d)", uint8(s))
}

// DecalMode selects how the logo reaches the mesh.
type DecalMode uint8

const (
	// DecalProjected builds a separate overlay mesh clipped out of the
	// target's surface.
	DecalProjected DecalMode = iota
	// DecalStamped assigns the logo as the target material's map and
	// scales it through texture repeat and offset.
	DecalStamped
)

func (m DecalMode) String() string {
	switch m {
	case DecalProjected:
		return "projected"
	case DecalStamped:
		return "stamped"
	}
	return fmt.Sprintf("DecalMode(%d)", uint8(m))
}

// ParseDecalMode maps "projected" or "stamped" to a DecalMode.
func ParseDecalMode(s string) (DecalMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "projected":
		return DecalProjected, nil
	case "stamped":
		return DecalStamped, nil
	}
	return 0, fmt.Errorf("unknown decal mode %q", s)
}

// decalPolygonOffset pulls the overlay in front of the surface it hugs.
const decalPolygonOffset = -4

// DecalMeshName names the overlay mesh a projected decal adds to the scene
// root.
const DecalMeshName = "decal"

// DecalOptions configures a Decal.
type DecalOptions struct {
	Mode        DecalMode
	Position    mgl64.Vec3
	Orientation mgl64.Vec3 // Euler XYZ, radians
	Size        float64    // initial edge length (projected) or repeat (stamped)
	Range       Range      // slider bounds
	Logo        LogoConfig

	GroupLabel   string // panel group added on first add
	ControlLabel string
}

// DefaultDecalOptions returns the projected decal used by the knot profile.
func DefaultDecalOptions() DecalOptions {
	return DecalOptions{
		Mode:         DecalProjected,
		Position:     mgl64.Vec3{0.75, 0, 0},
		Size:         0.5,
		Range:        Range{Min: 0.3, Max: 1.0, Step: 0.01},
		Logo:         DefaultLogoConfig(),
		GroupLabel:   "Decal",
		ControlLabel: "size",
	}
}

// decalParams is the struct the size slider binds to.
type decalParams struct {
	Size float64
}

// Decal paints a procedurally drawn logo onto a target mesh at most once,
// then lets its size be adjusted.
type Decal struct {
	scene  *Scene
	target *Node
	panel  *Panel
	opts   DecalOptions

	state    DecalState
	params   decalParams
	texture  *Texture
	mesh     *Node
	material *StandardMaterial
	control  *Control
}

// NewDecal prepares a decal for target. Nothing is drawn or added to the
// scene until AddOnce. panel may be nil.
func NewDecal(scene *Scene, target *Node, panel *Panel, opts DecalOptions) *Decal {
	if opts.GroupLabel == "" {
		opts.GroupLabel = "Decal"
	}
	if opts.ControlLabel == "" {
		opts.ControlLabel = "size"
	}
	return &Decal{
		scene:  scene,
		target: target,
		panel:  panel,
		opts:   opts,
		params: decalParams{Size: opts.Size},
	}
}

// State returns the lifecycle state.
func (d *Decal) State() DecalState { return d.state }

// Mode returns how the decal is applied.
func (d *Decal) Mode() DecalMode { return d.opts.Mode }

// Size returns the current decal size.
func (d *Decal) Size() float64 { return d.params.Size }

// Extent returns the projector box dimensions.
func (d *Decal) Extent() mgl64.Vec3 {
	s := d.params.Size
	return mgl64.Vec3{s, s, s}
}

// Mesh returns the overlay mesh in projected mode once added, else nil.
func (d *Decal) Mesh() *Node { return d.mesh }

// Texture returns the logo texture once added, else nil.
func (d *Decal) Texture() *Texture { return d.texture }

// Control returns the size slider once added, else nil.
func (d *Decal) Control() *Control { return d.control }

// AddOnce draws the logo and attaches it to the target. It reports whether
// this call did the work; later calls are no-ops that return false.
func (d *Decal) AddOnce() (bool, error) {
	if d.state == DecalAdded {
		return false, nil
	}
	if !d.opts.Range.Valid() {
		return false, &InvalidRangeError{Label: d.opts.ControlLabel, Min: d.opts.Range.Min, Max: d.opts.Range.Max}
	}
	if d.target == nil {
		return false, fmt.Errorf("add decal: no target mesh")
	}

	logo, err := RenderLogo(d.opts.Logo)
	if err != nil {
		return false, fmt.Errorf("add decal: %w", err)
	}
	d.texture = NewTexture(logo)
	size := d.opts.Range.Clamp(d.params.Size)
	d.params.Size = size

	switch d.opts.Mode {
	case DecalStamped:
		d.texture.WrapS = WrapRepeat
		d.texture.WrapT = WrapRepeat
		d.texture.Repeat = mgl64.Vec2{size, size}
		d.material = d.target.Material
		d.material.Map = d.texture
		d.material.Transparent = true
		d.material.NeedsUpdate()
	default:
		mat := NewStandardMaterial()
		mat.Map = d.texture
		mat.Transparent = true
		mat.DepthTest = true
		mat.DepthWrite = false
		mat.PolygonOffset = true
		mat.PolygonOffsetFactor = decalPolygonOffset
		d.material = mat

		geom := NewDecalGeometry(d.target, d.opts.Position, d.opts.Orientation, d.Extent())
		d.mesh = NewMesh(DecalMeshName, geom, mat)
		d.scene.Add(d.mesh)
		debugf("decal added: %d triangles", geom.TriangleCount())
	}

	if d.panel != nil {
		group := d.panel.AddGroup(d.opts.GroupLabel)
		ctrl, err := group.Bind(&d.params, "Size", ControlFloat, d.opts.Range)
		if err != nil {
			return false, fmt.Errorf("add decal: %w", err)
		}
		ctrl.Name(d.opts.ControlLabel).OnChange(func(v any) {
			if err := d.Resize(v.(float64)); err != nil {
				debugf("decal resize: %v", err)
			}
		})
		d.control = ctrl
	}

	d.state = DecalAdded
	return true, nil
}

// Resize changes the decal size. Projected decals get freshly projected
// geometry swapped into the same mesh, and the old geometry is disposed.
// Stamped decals rescale the texture around its center. Sizes are clamped
// to the slider range so the bound control never leaves it.
func (d *Decal) Resize(size float64) error {
	if d.state != DecalAdded {
		return ErrDecalNotAdded
	}
	if !(size > 0) {
		return fmt.Errorf("resize decal: size %g must be positive", size)
	}
	if d.opts.Range.Valid() {
		size = d.opts.Range.Clamp(size)
	}
	d.params.Size = size

	if d.opts.Mode == DecalStamped {
		d.texture.Repeat = mgl64.Vec2{size, size}
		d.texture.Offset = mgl64.Vec2{(1 - size) / 2, (1 - size) / 2}
		d.texture.NeedsUpdate()
		return nil
	}

	geom := NewDecalGeometry(d.target, d.opts.Position, d.opts.Orientation, d.Extent())
	if old := d.mesh.SetGeometry(geom); old != nil {
		old.Dispose()
	}
	return nil
}
