package willow3d

// Loop drives one frame at a time: controls first, then a render. The host
// calls Frame once per display refresh; nothing here schedules itself.
type Loop struct {
	controls *OrbitControls
	renderer *Renderer
	scene    *Scene
	camera   *PerspectiveCamera
	frames   int
}

// NewLoop ties the per-frame collaborators together.
func NewLoop(controls *OrbitControls, renderer *Renderer, scene *Scene, camera *PerspectiveCamera) *Loop {
	return &Loop{
		controls: controls,
		renderer: renderer,
		scene:    scene,
		camera:   camera,
	}
}

// Frame advances the controls and renders exactly once.
func (l *Loop) Frame() {
	if l.controls != nil {
		l.controls.Update()
	}
	l.renderer.Render(l.scene, l.camera)
	l.frames++
}

// Frames returns the number of completed Frame calls.
func (l *Loop) Frames() int {
	return l.frames
}
