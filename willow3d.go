package willow3d

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Components are sRGB encoded, the same way a color picker reports them.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default material color.
var ColorWhite = Color{1, 1, 1, 1}

// ColorBlack is the default scene background.
var ColorBlack = Color{0, 0, 0, 1}

// ColorFromHex builds an opaque Color from a 0xRRGGBB value.
func ColorFromHex(hex uint32) Color {
	return Color{
		R: float64((hex>>16)&0xff) / 255,
		G: float64((hex>>8)&0xff) / 255,
		B: float64(hex&0xff) / 255,
		A: 1,
	}
}

// ParseHexColor parses "#rrggbb", "rrggbb" or "0xrrggbb" into an opaque
// Color. A few CSS names used by the profiles are accepted too.
func ParseHexColor(s string) (Color, error) {
	t := strings.ToLower(strings.TrimSpace(s))
	switch t {
	case "white":
		return ColorWhite, nil
	case "black":
		return ColorBlack, nil
	case "red":
		return ColorFromHex(0xff0000), nil
	}
	t = strings.TrimPrefix(t, "#")
	t = strings.TrimPrefix(t, "0x")
	if len(t) != 6 {
		return Color{}, fmt.Errorf("parse color %q: want 6 hex digits", s)
	}
	v, err := strconv.ParseUint(t, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return ColorFromHex(uint32(v)), nil
}

// Hex returns the color as a 0xRRGGBB value. Alpha is dropped.
func (c Color) Hex() uint32 {
	r := uint32(clamp01(c.R)*255 + 0.5)
	g := uint32(clamp01(c.G)*255 + 0.5)
	b := uint32(clamp01(c.B)*255 + 0.5)
	return r<<16 | g<<8 | b
}

// NRGBA converts the color to an 8-bit straight-alpha color.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R)*255 + 0.5),
		G: uint8(clamp01(c.G)*255 + 0.5),
		B: uint8(clamp01(c.B)*255 + 0.5),
		A: uint8(clamp01(c.A)*255 + 0.5),
	}
}

// linear returns the color's RGB components decoded to linear light.
func (c Color) linear() (r, g, b float64) {
	return srgbToLinear(c.R), srgbToLinear(c.G), srgbToLinear(c.B)
}

// Size is a width/height pair in pixels.
type Size struct {
	Width, Height int
}

// Aspect returns Width/Height, or 1 for a degenerate size.
func (s Size) Aspect() float64 {
	if s.Width <= 0 || s.Height <= 0 {
		return 1
	}
	return float64(s.Width) / float64(s.Height)
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Range bounds a float control. Step snaps values when positive.
type Range struct {
	Min, Max, Step float64
}

// Clamp limits v to [Min, Max] and snaps it to Step. NaN maps to Min.
func (r Range) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return r.Min
	}
	v = math.Max(r.Min, math.Min(v, r.Max))
	if r.Step > 0 {
		v = r.Min + math.Round((v-r.Min)/r.Step)*r.Step
		v = math.Max(r.Min, math.Min(v, r.Max))
	}
	return v
}

// Valid reports whether Min and Max are finite and Min < Max.
func (r Range) Valid() bool {
	return !math.IsInf(r.Min, 0) && !math.IsInf(r.Max, 0) && r.Min < r.Max
}

// NodeType distinguishes rendering behavior for a Node.
type NodeType uint8

const (
	NodeTypeGroup NodeType = iota // group node with no visual output
	NodeTypeMesh                  // renders a Geometry with a StandardMaterial
)

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func srgbToLinear(v float64) float64 {
	v = clamp01(v)
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

func linearToSRGB(v float64) float64 {
	v = clamp01(v)
	if v <= 0.0031308 {
		return v * 12.92
	}
	return 1.055*math.Pow(v, 1/2.4) - 0.055
}
