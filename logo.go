package willow3d

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// circleKappa places cubic Bézier control points so four segments
// approximate a circle.
const circleKappa = 0.5522847498

// LogoConfig describes the procedural logo painted onto the decal.
type LogoConfig struct {
	Size int `toml:"size"`

	Text      string  `toml:"text"`
	TextColor Color   `toml:"-"`
	TextX     float64 `toml:"text_x"`
	TextY     float64 `toml:"text_y"` // baseline
	FontSize  float64 `toml:"font_size"`

	DotColor  Color   `toml:"-"`
	DotX      float64 `toml:"dot_x"`
	DotY      float64 `toml:"dot_y"`
	DotRadius float64 `toml:"dot_radius"`

	// FontData is a TrueType/OpenType font. Go Regular when empty.
	FontData []byte `toml:"-"`
}

// DefaultLogoConfig returns the stock 256x256 "Logo Here" badge with a red
// dot underneath.
func DefaultLogoConfig() LogoConfig {
	return LogoConfig{
		Size:      256,
		Text:      "Logo Here",
		TextColor: ColorBlack,
		TextX:     50,
		TextY:     50,
		FontSize:  30,
		DotColor:  Color{1, 0, 0, 1},
		DotX:      128,
		DotY:      150,
		DotRadius: 10,
	}
}

// RenderLogo draws the logo onto a fully transparent square raster.
func RenderLogo(cfg LogoConfig) (*image.NRGBA, error) {
	if cfg.Size <= 0 {
		return nil, fmt.Errorf("render logo: invalid size %d", cfg.Size)
	}
	img := image.NewNRGBA(image.Rect(0, 0, cfg.Size, cfg.Size))

	if cfg.Text != "" {
		data := cfg.FontData
		if len(data) == 0 {
			data = goregular.TTF
		}
		f, err := opentype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("render logo: parse font: %w", err)
		}
		face, err := opentype.NewFace(f, &opentype.FaceOptions{
			Size: cfg.FontSize,
			DPI:  72,
		})
		if err != nil {
			return nil, fmt.Errorf("render logo: font face: %w", err)
		}
		d := font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(cfg.TextColor.NRGBA()),
			Face: face,
			Dot:  fixed.P(int(cfg.TextX), int(cfg.TextY)),
		}
		d.DrawString(cfg.Text)
		_ = face.Close()
	}

	if cfg.DotRadius > 0 {
		fillCircle(img, cfg.DotX, cfg.DotY, cfg.DotRadius, cfg.DotColor.NRGBA())
	}
	return img, nil
}

// fillCircle composites an anti-aliased disc over dst.
func fillCircle(dst *image.NRGBA, cx, cy, r float64, c color.NRGBA) {
	b := dst.Bounds()
	ras := vector.NewRasterizer(b.Dx(), b.Dy())
	ras.DrawOp = draw.Over

	x, y, k := float32(cx), float32(cy), float32(r*circleKappa)
	rf := float32(r)
	ras.MoveTo(x+rf, y)
	ras.CubeTo(x+rf, y+k, x+k, y+rf, x, y+rf)
	ras.CubeTo(x-k, y+rf, x-rf, y+k, x-rf, y)
	ras.CubeTo(x-rf, y-k, x-k, y-rf, x, y-rf)
	ras.CubeTo(x+k, y-rf, x+rf, y-k, x+rf, y)
	ras.ClosePath()
	ras.Draw(dst, b, image.NewUniform(c), image.Point{})
}
