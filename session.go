package willow3d

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween/ease"
)

const (
	cameraFOV  = 75
	cameraNear = 0.1
	cameraFar  = 100

	resetViewDuration = 0.6
)

// Session owns everything one running demo needs: scene, camera, controls,
// renderer, panel and decal. All methods must be called from the loop
// goroutine.
type Session struct {
	cfg      Config
	viewport Size

	scene    *Scene
	camera   *PerspectiveCamera
	controls *OrbitControls
	canvas   *Canvas
	renderer *Renderer
	loop     *Loop
	env      *EnvironmentLoader

	mesh     *Node
	material *StandardMaterial

	panel     *Panel
	panelView *PanelView
	decal     *Decal

	pointer     pointerState
	injectQueue []syntheticPointerEvent
	testRunner  *TestRunner
}

// Bootstrap builds a session that renders into target. A nil target, or one
// whose Name is not cfg.Target, fails with *MissingTargetError. An empty
// cfg.Target accepts any canvas. A non-positive viewport falls back to the
// configured window size. The environment image, if any, starts loading in
// the background; load failures only leave the scene unlit.
func Bootstrap(cfg Config, target *Canvas, viewport Size) (*Session, error) {
	if target == nil || (cfg.Target != "" && target.Name != cfg.Target) {
		return nil, &MissingTargetError{Selector: cfg.Target}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if viewport.Width <= 0 || viewport.Height <= 0 {
		viewport = Size{Width: cfg.Width, Height: cfg.Height}
	}

	s := &Session{cfg: cfg, canvas: target, env: NewEnvironmentLoader()}

	s.scene = NewScene()
	s.scene.SetDebugMode(cfg.Debug)
	s.scene.ScreenshotDir = cfg.ScreenshotDir
	bg, err := ParseHexColor(cfg.Background)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}
	s.scene.Background = bg

	s.camera = NewPerspectiveCamera(cameraFOV, viewport.Aspect(), cameraNear, cameraFar)
	s.camera.Position = mgl64.Vec3(cfg.CameraPosition)
	s.controls = NewOrbitControls(s.camera)
	s.controls.EnableDamping = true

	s.renderer = NewRenderer(target)
	tm, err := cfg.toneMapping()
	if err != nil {
		return nil, err
	}
	s.renderer.ToneMapping = tm
	s.renderer.SetSupersample(cfg.Supersample)

	geom, err := cfg.Geometry.Build()
	if err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}
	s.material = NewStandardMaterial()
	s.mesh = NewMesh("primary", geom, s.material)
	s.scene.Add(s.mesh)

	s.panel = NewPanel(cfg.Title)
	s.panelView = NewPanelView(s.panel)
	if err := s.bindMaterial(); err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	opts, err := cfg.Decal.Options()
	if err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}
	s.decal = NewDecal(s.scene, s.mesh, s.panel, opts)
	s.panel.Root().AddButton(cfg.Decal.ButtonLabel, func() {
		if _, err := s.decal.AddOnce(); err != nil {
			debugf("add decal: %v", err)
		}
	})

	s.loop = NewLoop(s.controls, s.renderer, s.scene, s.camera)
	s.Resize(viewport.Width, viewport.Height)

	if cfg.Environment != "" {
		s.env.Load(cfg.Environment, s.installEnvironment, func(err error) {
			debugf("environment: %v", err)
		})
	}
	return s, nil
}

// bindMaterial exposes the four material parameters on the panel.
func (s *Session) bindMaterial() error {
	g := s.panel.AddGroup(s.cfg.MaterialGroup)
	g.Open = true

	c, err := g.AddColor(s.material, "Color")
	if err != nil {
		return err
	}
	c.Name("color")
	if c, err = g.AddBool(s.material, "Wireframe"); err != nil {
		return err
	}
	c.Name("wireframe")
	if c, err = g.AddFloat(s.material, "Roughness", 0, 1, 0.01); err != nil {
		return err
	}
	c.Name("roughness")
	if c, err = g.AddFloat(s.material, "Metalness", 0, 1, 0.01); err != nil {
		return err
	}
	c.Name("metalness")
	return nil
}

func (s *Session) installEnvironment(env *EnvironmentMap) {
	s.scene.Environment = env
	s.scene.BackgroundEnvironment = s.cfg.BackgroundFromEnvironment
	if s.cfg.LoadedBackground != "" {
		if c, err := ParseHexColor(s.cfg.LoadedBackground); err == nil {
			s.scene.Background = c
		}
	}
	debugf("environment installed (%dx%d)", env.width, env.height)
}

// Resize is the window-resize handler: it updates the camera aspect and
// projection and resizes the renderer and canvas.
func (s *Session) Resize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	s.viewport = Size{Width: w, Height: h}
	s.camera.Aspect = s.viewport.Aspect()
	s.camera.UpdateProjectionMatrix()
	s.renderer.SetSize(w, h)
	s.renderer.SetPixelRatio(min(s.cfg.PixelRatio, 1))
	s.panelView.SetViewport(s.viewport)
}

// Update runs the per-tick work that is not rendering: delivering a finished
// environment load, advancing the test script and consuming one injected
// pointer event. It reports whether injected input was consumed, in which
// case the host should skip real pointer input this tick.
func (s *Session) Update() bool {
	s.env.Poll()
	if s.testRunner != nil {
		s.testRunner.step(s)
	}
	return s.processInjectedInput()
}

// RenderFrame runs one loop frame and writes any queued screenshots of it.
// Returns the screenshot paths written.
func (s *Session) RenderFrame() []string {
	s.loop.Frame()
	return s.scene.flushScreenshots(s.canvas.Image())
}

// WaitEnvironment blocks until a pending environment load is delivered.
// Headless runs use it to render lit frames deterministically.
func (s *Session) WaitEnvironment() {
	s.env.Wait()
}

// ResetView animates the camera back to where it started.
func (s *Session) ResetView() {
	s.controls.ResetView(resetViewDuration, ease.OutCubic)
}

// TogglePanel shows or hides the parameter panel.
func (s *Session) TogglePanel() {
	s.panel.Visible = !s.panel.Visible
}

// Config returns the configuration the session was built with.
func (s *Session) Config() Config { return s.cfg }

// Viewport returns the logical window size.
func (s *Session) Viewport() Size { return s.viewport }

// Scene returns the scene.
func (s *Session) Scene() *Scene { return s.scene }

// Camera returns the camera.
func (s *Session) Camera() *PerspectiveCamera { return s.camera }

// Controls returns the orbit controls.
func (s *Session) Controls() *OrbitControls { return s.controls }

// Canvas returns the render target.
func (s *Session) Canvas() *Canvas { return s.canvas }

// Renderer returns the renderer.
func (s *Session) Renderer() *Renderer { return s.renderer }

// Loop returns the render loop.
func (s *Session) Loop() *Loop { return s.loop }

// Mesh returns the primary mesh.
func (s *Session) Mesh() *Node { return s.mesh }

// Material returns the primary mesh's material.
func (s *Session) Material() *StandardMaterial { return s.material }

// Panel returns the parameter panel.
func (s *Session) Panel() *Panel { return s.panel }

// PanelView returns the panel layout.
func (s *Session) PanelView() *PanelView { return s.panelView }

// Decal returns the decal feature.
func (s *Session) Decal() *Decal { return s.decal }
