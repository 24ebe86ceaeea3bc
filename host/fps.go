package host

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// fpsCounter shows the current FPS and TPS in the top-left corner.
// The text is refreshed every ~0.5 seconds.
type fpsCounter struct {
	img        *ebiten.Image
	lastUpdate float64
	dirty      bool
}

func (f *fpsCounter) update() {
	f.lastUpdate += 1 / float64(ebiten.TPS())
	if f.lastUpdate < 0.5 && f.img != nil {
		return
	}
	f.lastUpdate = 0
	f.dirty = true
}

func (f *fpsCounter) draw(screen *ebiten.Image) {
	if f.img == nil {
		// 100x32 is enough for "FPS: 60.0\nTPS: 60.0"
		f.img = ebiten.NewImage(100, 32)
		f.dirty = true
	}
	if f.dirty {
		f.dirty = false
		f.img.Clear()
		// Semi-transparent background for readability
		f.img.Fill(color.RGBA{0, 0, 0, 128})
		ebitenutil.DebugPrint(f.img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
	screen.DrawImage(f.img, nil)
}
