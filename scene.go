package willow3d

import "github.com/go-gl/mathgl/mgl64"

const defaultScreenshotDir = "screenshots"

// Scene is the top-level object that owns the node tree and the lighting
// environment. It holds no cameras; the caller passes one to Renderer.Render.
type Scene struct {
	root  *Node
	debug bool

	// Background fills pixels no mesh covers. Ignored when
	// BackgroundEnvironment is set and an Environment is present.
	Background            Color
	Environment           *EnvironmentMap
	BackgroundEnvironment bool

	// Ambient is added to the diffuse term of every surface. With no
	// environment and a black ambient, lit materials render black.
	Ambient Color

	// ScreenshotDir is where queued screenshots are written.
	ScreenshotDir   string
	screenshotQueue []string
}

// NewScene creates a new scene with a pre-created root group.
func NewScene() *Scene {
	return &Scene{
		root:          NewGroup("root"),
		Background:    ColorBlack,
		Ambient:       Color{0, 0, 0, 1},
		ScreenshotDir: defaultScreenshotDir,
	}
}

// Root returns the scene's root group node.
func (s *Scene) Root() *Node {
	return s.root
}

// Add attaches node to the scene root.
func (s *Scene) Add(node *Node) {
	s.root.AddChild(node)
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access panics, child count warnings are printed, and per-frame render stats
// are logged to stderr.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}

// globalDebug mirrors the most recently set Scene debug flag so that node
// operations (which lack a Scene pointer) can check it cheaply. Only valid
// with a single Scene.
var globalDebug bool

// updateWorldMatrices refreshes every dirty world matrix in the tree.
func (s *Scene) updateWorldMatrices() {
	updateWorldMatrix(s.root, mgl64.Ident4(), false)
}

// Meshes returns every visible, undisposed mesh node in tree order.
func (s *Scene) Meshes() []*Node {
	return s.appendMeshes(s.root, nil)
}

func (s *Scene) appendMeshes(n *Node, buf []*Node) []*Node {
	if !n.Visible || n.disposed {
		return buf
	}
	if n.Type == NodeTypeMesh && n.Geometry != nil && n.Material != nil {
		buf = append(buf, n)
	}
	for _, c := range n.children {
		buf = s.appendMeshes(c, buf)
	}
	return buf
}
