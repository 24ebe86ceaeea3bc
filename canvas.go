package willow3d

import "image"

// Canvas is the surface a session renders into. The host uploads its image
// to the window once per frame; headless callers read it directly.
type Canvas struct {
	// Name identifies the canvas, matched against Config.Target.
	Name string
	img  *image.RGBA
}

// NewCanvas allocates a w x h canvas. Non-positive sizes become 1.
func NewCanvas(name string, w, h int) *Canvas {
	c := &Canvas{Name: name}
	c.Resize(w, h)
	return c
}

// Resize reallocates the backing image when the size changes.
func (c *Canvas) Resize(w, h int) {
	w, h = max(w, 1), max(h, 1)
	if c.img != nil && c.img.Rect.Dx() == w && c.img.Rect.Dy() == h {
		return
	}
	c.img = image.NewRGBA(image.Rect(0, 0, w, h))
}

// Image returns the current frame. The pointer changes after Resize.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// Size returns the canvas size in pixels.
func (c *Canvas) Size() Size {
	return Size{Width: c.img.Rect.Dx(), Height: c.img.Rect.Dy()}
}
