package willow3d

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const epsilon = 1e-9

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if !approxEqual(got, want, epsilon) {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertVec3(t *testing.T, name string, got, want mgl64.Vec3, eps float64) {
	t.Helper()
	for i := range got {
		if !approxEqual(got[i], want[i], eps) {
			t.Errorf("%s = %v, want %v", name, got, want)
			return
		}
	}
}

// --- Color ---

func TestColorFromHex(t *testing.T) {
	c := ColorFromHex(0xff8000)
	assertNear(t, "R", c.R, 1)
	assertNear(t, "G", c.G, 128.0/255)
	assertNear(t, "B", c.B, 0)
	assertNear(t, "A", c.A, 1)
	if c.Hex() != 0xff8000 {
		t.Errorf("Hex = %06x, want ff8000", c.Hex())
	}
}

func TestColorHexClamps(t *testing.T) {
	c := Color{R: 2, G: -1, B: 0.5, A: 1}
	if got := c.Hex(); got != 0xff0080 {
		t.Errorf("Hex = %06x, want ff0080", got)
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want uint32
	}{
		{"#ffffff", 0xffffff},
		{"ff0000", 0xff0000},
		{"0x00ff00", 0x00ff00},
		{" #0000FF ", 0x0000ff},
		{"white", 0xffffff},
		{"Black", 0x000000},
		{"red", 0xff0000},
	}
	for _, tt := range tests {
		c, err := ParseHexColor(tt.in)
		if err != nil {
			t.Errorf("ParseHexColor(%q): %v", tt.in, err)
			continue
		}
		if c.Hex() != tt.want {
			t.Errorf("ParseHexColor(%q) = %06x, want %06x", tt.in, c.Hex(), tt.want)
		}
	}
}

func TestParseHexColorInvalid(t *testing.T) {
	for _, in := range []string{"", "#fff", "#gggggg", "purple", "#1234567"} {
		if _, err := ParseHexColor(in); err == nil {
			t.Errorf("ParseHexColor(%q) should fail", in)
		}
	}
}

func TestColorNRGBA(t *testing.T) {
	c := Color{R: 1, G: 0, B: 0.5, A: 0.5}.NRGBA()
	if c.R != 255 || c.G != 0 || c.B != 128 || c.A != 128 {
		t.Errorf("NRGBA = %v", c)
	}
}

func TestSRGBRoundTrip(t *testing.T) {
	for _, v := range []float64{0, 0.01, 0.2, 0.5, 0.9, 1} {
		got := linearToSRGB(srgbToLinear(v))
		if !approxEqual(got, v, 1e-9) {
			t.Errorf("round trip %v = %v", v, got)
		}
	}
}

// --- Size / Rect / Range ---

func TestSizeAspect(t *testing.T) {
	assertNear(t, "16:9", Size{Width: 1280, Height: 720}.Aspect(), 1280.0/720)
	assertNear(t, "degenerate", Size{Width: 100}.Aspect(), 1)
}

func TestRectContainsEdges(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 30, Height: 40}
	if !r.Contains(10, 20) || !r.Contains(40, 60) {
		t.Error("edges should be inside")
	}
	if r.Contains(9.9, 30) || r.Contains(20, 60.1) {
		t.Error("outside points reported inside")
	}
}

func TestRangeClamp(t *testing.T) {
	r := Range{Min: 0.3, Max: 1}
	assertNear(t, "below", r.Clamp(0.1), 0.3)
	assertNear(t, "above", r.Clamp(5), 1)
	assertNear(t, "inside", r.Clamp(0.42), 0.42)
	assertNear(t, "NaN", r.Clamp(math.NaN()), 0.3)
}

func TestRangeClampStep(t *testing.T) {
	r := Range{Min: 0, Max: 1, Step: 0.25}
	assertNear(t, "snap down", r.Clamp(0.3), 0.25)
	assertNear(t, "snap up", r.Clamp(0.4), 0.5)
	assertNear(t, "max", r.Clamp(0.99), 1)
}

func TestRangeValid(t *testing.T) {
	if !(Range{Min: 0, Max: 1}).Valid() {
		t.Error("0..1 should be valid")
	}
	if (Range{Min: 1, Max: 1}).Valid() {
		t.Error("min == max should be invalid")
	}
	if (Range{Min: 2, Max: 1}).Valid() {
		t.Error("min > max should be invalid")
	}
	if (Range{Min: math.Inf(-1), Max: math.Inf(1), Step: 0.1}).Valid() {
		t.Error("infinite bounds should be invalid")
	}
	if (Range{Min: 0, Max: math.Inf(1)}).Valid() {
		t.Error("an infinite max should be invalid")
	}
}
