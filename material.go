package willow3d

// StandardMaterial is a metallic-roughness surface description. Fields are
// read every frame, so panel controls may bind to them directly.
type StandardMaterial struct {
	Color     Color
	Roughness float64
	Metalness float64
	Wireframe bool

	// Map modulates Color when set. Its alpha drives blending when
	// Transparent is true.
	Map         *Texture
	Transparent bool

	DepthTest  bool
	DepthWrite bool

	// PolygonOffset pulls coplanar overlays toward the camera. Negative
	// factors move closer.
	PolygonOffset       bool
	PolygonOffsetFactor float64

	version int
}

// NewStandardMaterial returns a white, fully rough, non-metallic material
// with depth test and depth write enabled.
func NewStandardMaterial() *StandardMaterial {
	return &StandardMaterial{
		Color:      ColorWhite,
		Roughness:  1,
		Metalness:  0,
		DepthTest:  true,
		DepthWrite: true,
	}
}

// NeedsUpdate bumps the material version after a structural change such as
// assigning a new Map.
func (m *StandardMaterial) NeedsUpdate() {
	m.version++
}

// Version returns the number of NeedsUpdate calls.
func (m *StandardMaterial) Version() int {
	return m.version
}

// isOverlay reports whether the material draws after opaque geometry.
func (m *StandardMaterial) isOverlay() bool {
	return m.Transparent || !m.DepthWrite
}
