package willow3d

import (
	"image"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// WrapMode selects how uvs outside [0, 1] are resolved.
type WrapMode uint8

const (
	WrapClamp  WrapMode = iota // clamp to the edge texel
	WrapRepeat                 // tile the image
)

// Texture wraps a decoded image for sampling. uv (0, 0) is the bottom-left
// of the image, matching the geometry generators.
type Texture struct {
	Image  *image.NRGBA
	WrapS  WrapMode
	WrapT  WrapMode
	Repeat mgl64.Vec2
	Offset mgl64.Vec2

	version  int
	disposed bool
}

// NewTexture wraps img with clamp wrapping and unit repeat.
func NewTexture(img *image.NRGBA) *Texture {
	return &Texture{
		Image:  img,
		Repeat: mgl64.Vec2{1, 1},
	}
}

// NeedsUpdate bumps the texture version after Repeat, Offset or pixels change.
func (t *Texture) NeedsUpdate() {
	t.version++
}

// Version returns the number of NeedsUpdate calls.
func (t *Texture) Version() int {
	return t.version
}

// Dispose drops the pixel data. A disposed texture samples as opaque white.
func (t *Texture) Dispose() {
	t.disposed = true
	t.Image = nil
}

// IsDisposed reports whether Dispose has been called.
func (t *Texture) IsDisposed() bool {
	return t.disposed
}

// Sample performs bilinear filtering at (u, v) after applying Repeat, Offset
// and the wrap modes. Returns straight-alpha RGBA as uint8.
func (t *Texture) Sample(u, v float64) (r, g, b, a uint8) {
	if t.Image == nil {
		return 255, 255, 255, 255
	}
	tex := t.Image
	w := tex.Rect.Dx()
	h := tex.Rect.Dy()
	if w == 0 || h == 0 {
		return 255, 255, 255, 255
	}

	u = wrapCoord(u*t.Repeat[0]+t.Offset[0], t.WrapS)
	v = wrapCoord(v*t.Repeat[1]+t.Offset[1], t.WrapT)
	// Image rows run top to bottom.
	v = 1 - v

	fx := u * float64(w-1)
	fy := v * float64(h-1)
	x0 := int(fx)
	y0 := int(fy)
	x1 := x0 + 1
	y1 := y0 + 1
	if t.WrapS == WrapRepeat {
		x1 %= w
	} else if x1 >= w {
		x1 = w - 1
	}
	if t.WrapT == WrapRepeat {
		y1 %= h
	} else if y1 >= h {
		y1 = h - 1
	}
	dx := fx - float64(x0)
	dy := fy - float64(y0)

	stride := tex.Stride
	pix := tex.Pix

	// Four texels
	i00 := y0*stride + x0*4
	i10 := y0*stride + x1*4
	i01 := y1*stride + x0*4
	i11 := y1*stride + x1*4

	w00 := (1 - dx) * (1 - dy)
	w10 := dx * (1 - dy)
	w01 := (1 - dx) * dy
	w11 := dx * dy

	fr := float64(pix[i00])*w00 + float64(pix[i10])*w10 + float64(pix[i01])*w01 + float64(pix[i11])*w11
	fg := float64(pix[i00+1])*w00 + float64(pix[i10+1])*w10 + float64(pix[i01+1])*w01 + float64(pix[i11+1])*w11
	fb := float64(pix[i00+2])*w00 + float64(pix[i10+2])*w10 + float64(pix[i01+2])*w01 + float64(pix[i11+2])*w11
	fa := float64(pix[i00+3])*w00 + float64(pix[i10+3])*w10 + float64(pix[i01+3])*w01 + float64(pix[i11+3])*w11

	return uint8(fr + 0.5), uint8(fg + 0.5), uint8(fb + 0.5), uint8(fa + 0.5)
}

func wrapCoord(c float64, mode WrapMode) float64 {
	if mode == WrapRepeat {
		c -= math.Floor(c)
		return c
	}
	return clamp01(c)
}
