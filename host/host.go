// Package host runs a willow3d session in an Ebitengine window.
//
// The root willow3d package never imports Ebitengine, so everything that
// talks to the window, the mouse and the GPU-side image upload lives here.
package host

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/willow3d"
)

// RunConfig holds window settings for Run.
type RunConfig struct {
	Title   string
	Width   int
	Height  int
	ShowFPS bool
	// ExitWhenScriptDone closes the window once an attached test script
	// has run all of its steps and its screenshots are written.
	ExitWhenScriptDone bool
	Script             *willow3d.TestRunner
}

// Run opens a window and drives sess until the window closes.
func Run(sess *willow3d.Session, cfg RunConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		vp := sess.Viewport()
		cfg.Width, cfg.Height = vp.Width, vp.Height
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if cfg.Script != nil {
		sess.SetTestRunner(cfg.Script)
	}

	g := &game{sess: sess, cfg: cfg}
	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// game implements ebiten.Game on top of a session.
type game struct {
	sess  *willow3d.Session
	cfg   RunConfig
	frame *ebiten.Image
	fps   fpsCounter

	lastW, lastH int
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.sess.ResetView()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.sess.TogglePanel()
	}

	if !g.sess.Update() {
		mx, my := ebiten.CursorPosition()
		x, y := float64(mx), float64(my)
		pressed, button := pointerButton()
		g.sess.HandlePointer(x, y, pressed, button)
		if _, wy := ebiten.Wheel(); wy != 0 {
			g.sess.HandleWheel(x, y, wy)
		}
	}

	g.fps.update()

	if g.cfg.ExitWhenScriptDone && g.cfg.Script != nil && g.cfg.Script.Done() &&
		g.sess.Scene().PendingScreenshots() == 0 {
		return ebiten.Termination
	}
	return nil
}

// pointerButton reports the first held mouse button, left taking priority.
func pointerButton() (bool, willow3d.MouseButton) {
	switch {
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		return true, willow3d.MouseButtonLeft
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight):
		return true, willow3d.MouseButtonRight
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle):
		return true, willow3d.MouseButtonMiddle
	}
	return false, willow3d.MouseButtonLeft
}

func (g *game) Draw(screen *ebiten.Image) {
	g.sess.RenderFrame()

	img := g.sess.Canvas().Image()
	b := img.Bounds()
	if g.frame == nil || g.frame.Bounds().Dx() != b.Dx() || g.frame.Bounds().Dy() != b.Dy() {
		if g.frame != nil {
			g.frame.Deallocate()
		}
		g.frame = ebiten.NewImage(b.Dx(), b.Dy())
	}
	g.frame.WritePixels(img.Pix)

	// The canvas is smaller than the window when the pixel ratio is below 1.
	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(sw)/float64(b.Dx()), float64(sh)/float64(b.Dy()))
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(g.frame, op)

	drawPanel(screen, g.sess.PanelView())

	if g.cfg.ShowFPS {
		g.fps.draw(screen)
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.lastW || outsideHeight != g.lastH {
		g.lastW, g.lastH = outsideWidth, outsideHeight
		g.sess.Resize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}
