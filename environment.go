package willow3d

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/image/bmp"
	"golang.org/x/image/webp"
)

const (
	blurredEnvWidth  = 32
	blurredEnvHeight = 16
)

// EnvironmentMap is an equirectangular radiance map in linear RGB. It keeps a
// heavily blurred copy for diffuse and rough lookups.
type EnvironmentMap struct {
	width, height int
	pix           []float32

	blurred *EnvironmentMap
	ambient [3]float64
}

// NewEnvironmentMap converts img to linear floats. LDR images are treated as
// sRGB; *HDRImage data is used as-is.
func NewEnvironmentMap(img image.Image) *EnvironmentMap {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	env := &EnvironmentMap{width: w, height: h, pix: make([]float32, w*h*3)}

	hdr, isHDR := img.(*HDRImage)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 3
			if isHDR {
				r, g, bl := hdr.RGBAt(b.Min.X+x, b.Min.Y+y)
				env.pix[i], env.pix[i+1], env.pix[i+2] = float32(r), float32(g), float32(bl)
				continue
			}
			c := color.NRGBA64Model.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA64)
			env.pix[i] = float32(srgbToLinear(float64(c.R) / 0xffff))
			env.pix[i+1] = float32(srgbToLinear(float64(c.G) / 0xffff))
			env.pix[i+2] = float32(srgbToLinear(float64(c.B) / 0xffff))
		}
	}

	env.blurred = env.downsample(blurredEnvWidth, blurredEnvHeight)
	env.blurred.boxBlur()
	env.blurred.blurred = env.blurred
	var sum [3]float64
	for i := 0; i < len(env.blurred.pix); i += 3 {
		sum[0] += float64(env.blurred.pix[i])
		sum[1] += float64(env.blurred.pix[i+1])
		sum[2] += float64(env.blurred.pix[i+2])
	}
	n := float64(len(env.blurred.pix) / 3)
	if n > 0 {
		env.ambient = [3]float64{sum[0] / n, sum[1] / n, sum[2] / n}
	}
	env.blurred.ambient = env.ambient
	return env
}

// Size returns the map resolution.
func (e *EnvironmentMap) Size() Size {
	return Size{Width: e.width, Height: e.height}
}

// Sample returns the radiance seen along dir.
func (e *EnvironmentMap) Sample(dir mgl64.Vec3) mgl64.Vec3 {
	if e.width == 0 || e.height == 0 {
		return mgl64.Vec3{}
	}
	l := dir.Len()
	if l == 0 {
		return mgl64.Vec3{}
	}
	dir = dir.Mul(1 / l)
	u := math.Atan2(dir[2], dir[0])/(2*math.Pi) + 0.5
	v := math.Asin(mgl64.Clamp(dir[1], -1, 1))/math.Pi + 0.5
	return e.bilinear(u, v)
}

// SampleBlurred returns the low-frequency radiance along dir, used as
// diffuse irradiance and for fully rough reflections.
func (e *EnvironmentMap) SampleBlurred(dir mgl64.Vec3) mgl64.Vec3 {
	return e.blurred.Sample(dir)
}

// SampleRough blends the sharp and blurred lookups by roughness in [0, 1].
func (e *EnvironmentMap) SampleRough(dir mgl64.Vec3, roughness float64) mgl64.Vec3 {
	roughness = clamp01(roughness)
	if roughness >= 1 {
		return e.SampleBlurred(dir)
	}
	sharp := e.Sample(dir)
	if roughness <= 0 {
		return sharp
	}
	soft := e.SampleBlurred(dir)
	t := math.Sqrt(roughness)
	return sharp.Mul(1 - t).Add(soft.Mul(t))
}

// Ambient returns the mean radiance of the whole map.
func (e *EnvironmentMap) Ambient() mgl64.Vec3 {
	return mgl64.Vec3{e.ambient[0], e.ambient[1], e.ambient[2]}
}

// bilinear samples at (u, v) where v = 1 is the top row. u wraps.
func (e *EnvironmentMap) bilinear(u, v float64) mgl64.Vec3 {
	u -= math.Floor(u)
	fx := u*float64(e.width) - 0.5
	fy := (1 - clamp01(v)) * float64(e.height-1)
	x0 := int(math.Floor(fx))
	y0 := int(fy)
	dx := fx - float64(x0)
	dy := fy - float64(y0)
	y1 := min(y0+1, e.height-1)
	x0 = (x0%e.width + e.width) % e.width
	x1 := (x0 + 1) % e.width

	var out mgl64.Vec3
	for k := 0; k < 3; k++ {
		a := float64(e.pix[(y0*e.width+x0)*3+k])
		b := float64(e.pix[(y0*e.width+x1)*3+k])
		c := float64(e.pix[(y1*e.width+x0)*3+k])
		d := float64(e.pix[(y1*e.width+x1)*3+k])
		out[k] = (a*(1-dx)+b*dx)*(1-dy) + (c*(1-dx)+d*dx)*dy
	}
	return out
}

// downsample box-averages the map into a w x h copy.
func (e *EnvironmentMap) downsample(w, h int) *EnvironmentMap {
	out := &EnvironmentMap{width: w, height: h, pix: make([]float32, w*h*3)}
	if e.width == 0 || e.height == 0 {
		return out
	}
	for y := 0; y < h; y++ {
		sy0 := y * e.height / h
		sy1 := max((y+1)*e.height/h, sy0+1)
		for x := 0; x < w; x++ {
			sx0 := x * e.width / w
			sx1 := max((x+1)*e.width/w, sx0+1)
			var sum [3]float64
			n := 0
			for sy := sy0; sy < sy1 && sy < e.height; sy++ {
				for sx := sx0; sx < sx1 && sx < e.width; sx++ {
					i := (sy*e.width + sx) * 3
					sum[0] += float64(e.pix[i])
					sum[1] += float64(e.pix[i+1])
					sum[2] += float64(e.pix[i+2])
					n++
				}
			}
			o := (y*w + x) * 3
			for k := 0; k < 3; k++ {
				out.pix[o+k] = float32(sum[k] / float64(n))
			}
		}
	}
	return out
}

// boxBlur runs two 3x3 blur passes. Rows wrap horizontally and clamp
// vertically.
func (e *EnvironmentMap) boxBlur() {
	tmp := make([]float32, len(e.pix))
	for pass := 0; pass < 2; pass++ {
		for y := 0; y < e.height; y++ {
			for x := 0; x < e.width; x++ {
				var sum [3]float32
				for oy := -1; oy <= 1; oy++ {
					sy := min(max(y+oy, 0), e.height-1)
					for ox := -1; ox <= 1; ox++ {
						sx := ((x+ox)%e.width + e.width) % e.width
						i := (sy*e.width + sx) * 3
						sum[0] += e.pix[i]
						sum[1] += e.pix[i+1]
						sum[2] += e.pix[i+2]
					}
				}
				o := (y*e.width + x) * 3
				tmp[o], tmp[o+1], tmp[o+2] = sum[0]/9, sum[1]/9, sum[2]/9
			}
		}
		e.pix, tmp = tmp, e.pix
	}
}

// envFormat is an environment image format recognized by its leading bytes.
// A '?' in magic matches any byte.
type envFormat struct {
	name   string
	magic  string
	decode func(io.Reader) (image.Image, error)
}

// envFormats are matched in order against the start of the file. The image
// package registry is not used: the tga package registers an empty magic
// that claims every file it is asked about first.
var envFormats = []envFormat{
	{"hdr", "#?RADIANCE", decodeRGBE},
	{"hdr", "#?RGBE", decodeRGBE},
	{"png", "\x89PNG\r\n\x1a\n", png.Decode},
	{"jpeg", "\xff\xd8", jpeg.Decode},
	{"bmp", "BM????\x00\x00\x00\x00", bmp.Decode},
	{"webp", "RIFF????WEBPVP8", webp.Decode},
}

func matchMagic(magic string, b []byte) bool {
	if len(b) != len(magic) {
		return false
	}
	for i, c := range b {
		if magic[i] != c && magic[i] != '?' {
			return false
		}
	}
	return true
}

// decodeEnvironmentImage decodes r and names the format it found. TGA has
// no signature, so it is only tried when ext is ".tga".
func decodeEnvironmentImage(r io.Reader, ext string) (image.Image, string, error) {
	if strings.EqualFold(ext, ".tga") {
		img, err := tga.Decode(r)
		return img, "tga", err
	}
	br := bufio.NewReader(r)
	for _, f := range envFormats {
		head, err := br.Peek(len(f.magic))
		if err == nil && matchMagic(f.magic, head) {
			img, err := f.decode(br)
			return img, f.name, err
		}
	}
	return nil, "", image.ErrFormat
}

// LoadEnvironment decodes an environment image from disk. Radiance .hdr,
// PNG, JPEG, BMP and WebP are recognized by content; .tga by extension.
func LoadEnvironment(path string) (*EnvironmentMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}
	defer f.Close()

	img, format, err := decodeEnvironmentImage(f, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("decode environment %s: %w", path, err)
	}
	debugf("environment %s decoded as %s (%dx%d)", path, format, img.Bounds().Dx(), img.Bounds().Dy())
	return NewEnvironmentMap(img), nil
}

// envResult carries a finished load back to the loop goroutine together
// with the callbacks registered for it.
type envResult struct {
	env     *EnvironmentMap
	err     error
	onLoad  func(*EnvironmentMap)
	onError func(error)
}

// EnvironmentLoader decodes environment images off the loop goroutine.
// Results are handed back through Poll so callbacks run where the scene is
// owned.
type EnvironmentLoader struct {
	results chan envResult
	pending int

	// decode is swapped in tests.
	decode func(path string) (*EnvironmentMap, error)
}

// NewEnvironmentLoader creates a loader that reads files with LoadEnvironment.
func NewEnvironmentLoader() *EnvironmentLoader {
	return &EnvironmentLoader{
		results: make(chan envResult, 4),
		decode:  LoadEnvironment,
	}
}

// Load starts decoding path on a new goroutine. Exactly one of onLoad or
// onError runs, from a later Poll or Wait call. Either callback may be nil.
func (l *EnvironmentLoader) Load(path string, onLoad func(*EnvironmentMap), onError func(error)) {
	l.pending++
	decode := l.decode
	go func() {
		env, err := decode(path)
		l.results <- envResult{env: env, err: err, onLoad: onLoad, onError: onError}
	}()
}

// Pending returns the number of loads not yet delivered.
func (l *EnvironmentLoader) Pending() int {
	return l.pending
}

// Poll delivers every finished load without blocking and returns how many
// callbacks ran.
func (l *EnvironmentLoader) Poll() int {
	n := 0
	for l.pending > 0 {
		select {
		case r := <-l.results:
			l.deliver(r)
			n++
		default:
			return n
		}
	}
	return n
}

// Wait blocks until every started load has been delivered.
func (l *EnvironmentLoader) Wait() {
	for l.pending > 0 {
		l.deliver(<-l.results)
	}
}

func (l *EnvironmentLoader) deliver(r envResult) {
	l.pending--
	if r.err != nil {
		if r.onError != nil {
			r.onError(r.err)
		}
		return
	}
	if r.onLoad != nil {
		r.onLoad(r.env)
	}
}
