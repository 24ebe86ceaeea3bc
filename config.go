package willow3d

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pelletier/go-toml/v2"
)

// Profile names.
const (
	ProfileKnot = "knot"
	ProfileCube = "cube"
)

// Geometry kinds.
const (
	GeometryBox       = "box"
	GeometryTorusKnot = "torus-knot"
)

// Config holds everything a session needs at startup. Files are TOML; flags
// override through Resolve.
type Config struct {
	Title   string `toml:"title"`
	Width   int    `toml:"width"`
	Height  int    `toml:"height"`
	Target  string `toml:"target"`
	Profile string `toml:"profile"`

	// Environment is the equirectangular image loaded in the background.
	Environment               string `toml:"environment"`
	BackgroundFromEnvironment bool   `toml:"background_from_environment"`
	Background                string `toml:"background"`
	// LoadedBackground replaces Background once the environment arrives.
	// Empty leaves it alone.
	LoadedBackground string `toml:"loaded_background"`

	PixelRatio  float64 `toml:"pixel_ratio"`
	Supersample int     `toml:"supersample"`
	ToneMapping string  `toml:"tone_mapping"`

	Debug         bool   `toml:"debug"`
	ShowFPS       bool   `toml:"show_fps"`
	ScreenshotDir string `toml:"screenshot_dir"`

	CameraPosition [3]float64 `toml:"camera_position"`
	MaterialGroup  string     `toml:"material_group"`

	Geometry GeometryConfig `toml:"geometry"`
	Decal    DecalConfig    `toml:"decal"`
}

// GeometryConfig selects and sizes the primary mesh.
type GeometryConfig struct {
	Kind string `toml:"kind"`

	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
	Depth  float64 `toml:"depth"`

	Radius          float64 `toml:"radius"`
	Tube            float64 `toml:"tube"`
	TubularSegments int     `toml:"tubular_segments"`
	RadialSegments  int     `toml:"radial_segments"`
	P               int     `toml:"p"`
	Q               int     `toml:"q"`
}

// Build creates the geometry described by g.
func (g GeometryConfig) Build() (*Geometry, error) {
	switch g.Kind {
	case GeometryBox:
		return NewBoxGeometry(g.Width, g.Height, g.Depth), nil
	case GeometryTorusKnot:
		return NewTorusKnotGeometry(g.Radius, g.Tube, g.TubularSegments, g.RadialSegments, g.P, g.Q), nil
	}
	return nil, fmt.Errorf("geometry: unknown kind %q", g.Kind)
}

// DecalConfig configures the logo button and decal.
type DecalConfig struct {
	Mode        string `toml:"mode"`
	ButtonLabel string `toml:"button_label"`
	GroupLabel  string `toml:"group_label"`

	Position [3]float64 `toml:"position"`
	// OrientationDeg is Euler XYZ in degrees.
	OrientationDeg [3]float64 `toml:"orientation_deg"`

	Size float64 `toml:"size"`
	Min  float64 `toml:"min"`
	Max  float64 `toml:"max"`
	Step float64 `toml:"step"`

	Logo LogoConfig `toml:"logo"`
}

// Options converts the file form into DecalOptions.
func (d DecalConfig) Options() (DecalOptions, error) {
	mode, err := ParseDecalMode(d.Mode)
	if err != nil {
		return DecalOptions{}, fmt.Errorf("decal: %w", err)
	}
	return DecalOptions{
		Mode:     mode,
		Position: mgl64.Vec3(d.Position),
		Orientation: mgl64.Vec3{
			mgl64.DegToRad(d.OrientationDeg[0]),
			mgl64.DegToRad(d.OrientationDeg[1]),
			mgl64.DegToRad(d.OrientationDeg[2]),
		},
		Size:         d.Size,
		Range:        Range{Min: d.Min, Max: d.Max, Step: d.Step},
		Logo:         d.Logo,
		GroupLabel:   d.GroupLabel,
		ControlLabel: "size",
	}, nil
}

// DefaultConfig returns the canonical knot profile.
func DefaultConfig() Config {
	cfg, _ := Profile(ProfileKnot)
	return cfg
}

// Profile returns the named built-in configuration.
//
// "knot" shows a torus knot with a projected decal. "cube" shows a unit cube
// with the logo stamped into its material and turns the background white once
// the environment loads.
func Profile(name string) (Config, error) {
	base := Config{
		Title:                     "willow3d",
		Width:                     1280,
		Height:                    720,
		Target:                    "webgl",
		Environment:               "environment/studi_1k.hdr",
		BackgroundFromEnvironment: true,
		Background:                "#000000",
		PixelRatio:                1,
		Supersample:               1,
		ToneMapping:               "none",
		ScreenshotDir:             defaultScreenshotDir,
		CameraPosition:            [3]float64{0, 0, 2},
	}
	logo := DefaultLogoConfig()

	switch name {
	case "", ProfileKnot:
		base.Profile = ProfileKnot
		base.MaterialGroup = "Material"
		base.Geometry = GeometryConfig{
			Kind:            GeometryTorusKnot,
			Radius:          0.5,
			Tube:            0.15,
			TubularSegments: 128,
			RadialSegments:  16,
			P:               2,
			Q:               3,
		}
		base.Decal = DecalConfig{
			Mode:        "projected",
			ButtonLabel: "Add Decal",
			GroupLabel:  "Decal",
			Position:    [3]float64{0.75, 0, 0},
			Size:        0.5,
			Min:         0.3,
			Max:         1.0,
			Step:        0.01,
			Logo:        logo,
		}
	case ProfileCube:
		base.Profile = ProfileCube
		base.MaterialGroup = "Cube Material"
		base.BackgroundFromEnvironment = false
		base.LoadedBackground = "white"
		base.Geometry = GeometryConfig{Kind: GeometryBox, Width: 1, Height: 1, Depth: 1}
		base.Decal = DecalConfig{
			Mode:        "stamped",
			ButtonLabel: "Add Logo",
			GroupLabel:  "Logo",
			Size:        0.25,
			Min:         0.01,
			Max:         1,
			Step:        0.01,
			Logo:        logo,
		}
	default:
		return Config{}, fmt.Errorf("config: unknown profile %q", name)
	}
	return base, nil
}

// LoadConfig reads a TOML file. The file's profile key picks the defaults
// that the rest of the file then overrides.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes TOML data on top of its profile's defaults.
func ParseConfig(data []byte) (Config, error) {
	var head struct {
		Profile string `toml:"profile"`
	}
	if err := toml.Unmarshal(data, &head); err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}
	cfg, err := Profile(head.Profile)
	if err != nil {
		return Config{}, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}
	return cfg, nil
}

// Flags holds command-line values that override the config file.
type Flags struct {
	Environment   string
	Width         int
	Height        int
	Debug         bool
	ScreenshotDir string
	Supersample   int
}

// Resolve applies non-zero flags and fills empty fields with defaults.
func (c *Config) Resolve(flags Flags) {
	if flags.Environment != "" {
		c.Environment = flags.Environment
	}
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.Debug {
		c.Debug = true
	}
	if flags.ScreenshotDir != "" {
		c.ScreenshotDir = flags.ScreenshotDir
	}
	if flags.Supersample > 0 {
		c.Supersample = flags.Supersample
	}

	if c.Title == "" {
		c.Title = "willow3d"
	}
	if c.Target == "" {
		c.Target = "webgl"
	}
	if c.PixelRatio <= 0 {
		c.PixelRatio = 1
	}
	if c.Supersample <= 0 {
		c.Supersample = 1
	}
	if c.ScreenshotDir == "" {
		c.ScreenshotDir = defaultScreenshotDir
	}
	if c.Background == "" {
		c.Background = "#000000"
	}
	if c.MaterialGroup == "" {
		c.MaterialGroup = "Material"
	}
	if c.Decal.ButtonLabel == "" {
		c.Decal.ButtonLabel = "Add Decal"
	}
}

// Validate reports the first setting a session cannot start with.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("config: invalid window size %dx%d", c.Width, c.Height)
	}
	switch c.Geometry.Kind {
	case GeometryBox, GeometryTorusKnot:
	default:
		return fmt.Errorf("config: unknown geometry kind %q", c.Geometry.Kind)
	}
	if _, err := ParseDecalMode(c.Decal.Mode); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if !(Range{Min: c.Decal.Min, Max: c.Decal.Max}).Valid() {
		return &InvalidRangeError{Label: "size", Min: c.Decal.Min, Max: c.Decal.Max}
	}
	if _, err := c.toneMapping(); err != nil {
		return err
	}
	if _, err := ParseHexColor(c.Background); err != nil {
		return fmt.Errorf("config: background: %w", err)
	}
	if c.LoadedBackground != "" {
		if _, err := ParseHexColor(c.LoadedBackground); err != nil {
			return fmt.Errorf("config: loaded_background: %w", err)
		}
	}
	return nil
}

func (c *Config) toneMapping() (ToneMapping, error) {
	switch strings.ToLower(c.ToneMapping) {
	case "", "none":
		return ToneMappingNone, nil
	case "aces":
		return ToneMappingACES, nil
	}
	return 0, fmt.Errorf("config: unknown tone mapping %q", c.ToneMapping)
}
