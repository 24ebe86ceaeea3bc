package willow3d

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestProfileKnot(t *testing.T) {
	cfg, err := Profile(ProfileKnot)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Geometry.Kind != GeometryTorusKnot || cfg.Geometry.TubularSegments != 128 || cfg.Geometry.RadialSegments != 16 {
		t.Errorf("geometry = %+v", cfg.Geometry)
	}
	if cfg.Decal.Mode != "projected" || cfg.Decal.Min != 0.3 || cfg.Decal.Max != 1 || cfg.Decal.Size != 0.5 {
		t.Errorf("decal = %+v", cfg.Decal)
	}
	if !cfg.BackgroundFromEnvironment || cfg.LoadedBackground != "" {
		t.Error("knot background should come from the environment")
	}
	if cfg.CameraPosition != [3]float64{0, 0, 2} {
		t.Errorf("camera = %v", cfg.CameraPosition)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}

	def := DefaultConfig()
	if def.Profile != ProfileKnot {
		t.Errorf("default profile = %q", def.Profile)
	}
	if def.Environment != "environment/studi_1k.hdr" {
		t.Errorf("environment = %q", def.Environment)
	}
}

func TestProfileCube(t *testing.T) {
	cfg, err := Profile(ProfileCube)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Geometry.Kind != GeometryBox || cfg.Geometry.Width != 1 {
		t.Errorf("geometry = %+v", cfg.Geometry)
	}
	if cfg.Decal.Mode != "stamped" || cfg.Decal.ButtonLabel != "Add Logo" || cfg.Decal.Size != 0.25 {
		t.Errorf("decal = %+v", cfg.Decal)
	}
	if cfg.LoadedBackground != "white" || cfg.BackgroundFromEnvironment {
		t.Error("cube should turn the background white after loading")
	}
	if cfg.MaterialGroup != "Cube Material" {
		t.Errorf("MaterialGroup = %q", cfg.MaterialGroup)
	}
}

func TestProfileUnknown(t *testing.T) {
	if _, err := Profile("sphere"); err == nil {
		t.Error("unknown profile should fail")
	}
}

func TestParseConfigOverlaysProfile(t *testing.T) {
	data := []byte(`
profile = "cube"
width = 640
tone_mapping = "aces"

[decal]
max = 0.5

[decal.logo]
text = "Hi"
`)
	cfg, err := ParseConfig(data)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 640 || cfg.Height != 720 {
		t.Errorf("size = %dx%d", cfg.Width, cfg.Height)
	}
	// Untouched keys keep the cube defaults.
	if cfg.Decal.Mode != "stamped" || cfg.Decal.Min != 0.01 || cfg.Decal.Max != 0.5 {
		t.Errorf("decal = %+v", cfg.Decal)
	}
	if cfg.Decal.Logo.Text != "Hi" || cfg.Decal.Logo.Size != 256 {
		t.Errorf("logo = %+v", cfg.Decal.Logo)
	}
	if tm, err := cfg.toneMapping(); err != nil || tm != ToneMappingACES {
		t.Errorf("tone mapping = %v, %v", tm, err)
	}
}

func TestParseConfigErrors(t *testing.T) {
	if _, err := ParseConfig([]byte("width = ")); err == nil {
		t.Error("bad TOML should fail")
	}
	if _, err := ParseConfig([]byte(`profile = "nope"`)); err == nil {
		t.Error("unknown profile should fail")
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewer.toml")
	if err := os.WriteFile(path, []byte("title = \"Demo\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Title != "Demo" || cfg.Profile != ProfileKnot {
		t.Errorf("cfg = %q %q", cfg.Title, cfg.Profile)
	}

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want not-exist", err)
	}
}

func TestResolveFlagsAndDefaults(t *testing.T) {
	var cfg Config
	cfg.Resolve(Flags{Environment: "sky.hdr", Width: 320, Height: 200, Debug: true, Supersample: 2})
	if cfg.Environment != "sky.hdr" || cfg.Width != 320 || cfg.Height != 200 || !cfg.Debug || cfg.Supersample != 2 {
		t.Errorf("flags not applied: %+v", cfg)
	}
	if cfg.Title != "willow3d" || cfg.Target != "webgl" || cfg.PixelRatio != 1 ||
		cfg.ScreenshotDir != "screenshots" || cfg.Background != "#000000" ||
		cfg.MaterialGroup != "Material" || cfg.Decal.ButtonLabel != "Add Decal" {
		t.Errorf("defaults not filled: %+v", cfg)
	}

	// Zero flags leave existing values alone.
	cfg.Resolve(Flags{})
	if cfg.Width != 320 || cfg.Environment != "sky.hdr" {
		t.Error("zero flags should not override")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"size", func(c *Config) { c.Width = 0 }, "window size"},
		{"geometry", func(c *Config) { c.Geometry.Kind = "sphere" }, "geometry"},
		{"decal mode", func(c *Config) { c.Decal.Mode = "sticker" }, "decal mode"},
		{"tone mapping", func(c *Config) { c.ToneMapping = "filmic" }, "tone mapping"},
		{"background", func(c *Config) { c.Background = "teal" }, "background"},
		{"loaded background", func(c *Config) { c.LoadedBackground = "#12" }, "loaded_background"},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mutate(&cfg)
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%s: err = %v, want mention of %q", tt.name, err, tt.want)
		}
	}
}

func TestValidateInvalidRange(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Decal.Min, cfg.Decal.Max = 1, 0.3
	var rangeErr *InvalidRangeError
	if err := cfg.Validate(); !errors.As(err, &rangeErr) {
		t.Fatalf("err = %v, want *InvalidRangeError", err)
	}
	if rangeErr.Min != 1 || rangeErr.Max != 0.3 {
		t.Errorf("range error = %+v", rangeErr)
	}

	cfg.Decal.Min, cfg.Decal.Max = 0, math.Inf(1)
	if err := cfg.Validate(); !errors.As(err, &rangeErr) {
		t.Errorf("infinite max: err = %v, want *InvalidRangeError", err)
	}
}

func TestDecalConfigOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Decal.OrientationDeg = [3]float64{0, 90, 0}
	opts, err := cfg.Decal.Options()
	if err != nil {
		t.Fatal(err)
	}
	if opts.Mode != DecalProjected || opts.Range.Min != 0.3 || opts.ControlLabel != "size" {
		t.Errorf("opts = %+v", opts)
	}
	assertNear(t, "yaw", opts.Orientation.Y(), 1.5707963267948966)

	cfg.Decal.Mode = "sticker"
	if _, err := cfg.Decal.Options(); err == nil {
		t.Error("bad mode should fail")
	}
}

func TestGeometryConfigBuild(t *testing.T) {
	g, err := GeometryConfig{Kind: GeometryBox, Width: 1, Height: 1, Depth: 1}.Build()
	if err != nil || g.TriangleCount() != 12 {
		t.Errorf("box = %v, %v", g, err)
	}
	if _, err := (GeometryConfig{Kind: "cone"}).Build(); err == nil {
		t.Error("unknown kind should fail")
	}
}
