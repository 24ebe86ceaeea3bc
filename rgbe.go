package willow3d

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"strconv"
	"strings"
)

var errRGBEFormat = errors.New("rgbe: invalid format")

// HDRImage holds linear RGB floats, three per pixel, rows top to bottom.
type HDRImage struct {
	Rect image.Rectangle
	Pix  []float32
}

// NewHDRImage allocates a black w x h image.
func NewHDRImage(w, h int) *HDRImage {
	return &HDRImage{
		Rect: image.Rect(0, 0, w, h),
		Pix:  make([]float32, w*h*3),
	}
}

// ColorModel implements image.Image.
func (m *HDRImage) ColorModel() color.Model { return color.RGBA64Model }

// Bounds implements image.Image.
func (m *HDRImage) Bounds() image.Rectangle { return m.Rect }

// At implements image.Image. Values above 1 are clipped and the result is
// sRGB encoded; use RGBAt for the linear data.
func (m *HDRImage) At(x, y int) color.Color {
	r, g, b := m.RGBAt(x, y)
	return color.RGBA64{
		R: uint16(linearToSRGB(r)*0xffff + 0.5),
		G: uint16(linearToSRGB(g)*0xffff + 0.5),
		B: uint16(linearToSRGB(b)*0xffff + 0.5),
		A: 0xffff,
	}
}

// RGBAt returns the linear radiance at (x, y). Out-of-bounds reads return 0.
func (m *HDRImage) RGBAt(x, y int) (r, g, b float64) {
	if !(image.Point{x, y}.In(m.Rect)) {
		return 0, 0, 0
	}
	i := ((y-m.Rect.Min.Y)*m.Rect.Dx() + (x - m.Rect.Min.X)) * 3
	return float64(m.Pix[i]), float64(m.Pix[i+1]), float64(m.Pix[i+2])
}

// rgbeHeader reads the text header and resolution line.
func rgbeHeader(r *bufio.Reader) (w, h int, err error) {
	first := true
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return 0, 0, fmt.Errorf("rgbe header: %w", err)
		}
		line = strings.TrimRight(line, "\r\n")
		if first {
			if !strings.HasPrefix(line, "#?") {
				return 0, 0, errRGBEFormat
			}
			first = false
			continue
		}
		if line == "" {
			break
		}
		if v, ok := strings.CutPrefix(line, "FORMAT="); ok && v != "32-bit_rle_rgbe" {
			return 0, 0, fmt.Errorf("rgbe: unsupported format %q", v)
		}
	}

	line, err := r.ReadString('\n')
	if err != nil {
		return 0, 0, fmt.Errorf("rgbe resolution: %w", err)
	}
	fields := strings.Fields(line)
	if len(fields) != 4 || fields[0] != "-Y" || fields[2] != "+X" {
		return 0, 0, fmt.Errorf("rgbe: unsupported orientation %q", strings.TrimSpace(line))
	}
	h, errH := strconv.Atoi(fields[1])
	w, errW := strconv.Atoi(fields[3])
	if errH != nil || errW != nil || w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("rgbe: bad resolution %q", strings.TrimSpace(line))
	}
	return w, h, nil
}

func decodeRGBE(rd io.Reader) (image.Image, error) {
	r := bufio.NewReader(rd)
	w, h, err := rgbeHeader(r)
	if err != nil {
		return nil, err
	}
	img := NewHDRImage(w, h)
	line := make([]byte, w*4)
	for y := 0; y < h; y++ {
		if err := readRGBEScanline(r, line, w); err != nil {
			return nil, fmt.Errorf("rgbe scanline %d: %w", y, err)
		}
		row := img.Pix[y*w*3 : (y+1)*w*3]
		for x := 0; x < w; x++ {
			rgbeToFloat(line[x*4:x*4+4], row[x*3:x*3+3])
		}
	}
	return img, nil
}

// readRGBEScanline fills dst (4 bytes per pixel) from either a flat or a
// new-style run-length encoded scanline.
func readRGBEScanline(r *bufio.Reader, dst []byte, w int) error {
	if w < 8 || w > 0x7fff {
		_, err := io.ReadFull(r, dst)
		return err
	}
	var head [4]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return err
	}
	if head[0] != 2 || head[1] != 2 || head[2]&0x80 != 0 {
		copy(dst, head[:])
		_, err := io.ReadFull(r, dst[4:])
		return err
	}
	if int(head[2])<<8|int(head[3]) != w {
		return errRGBEFormat
	}

	// Channels are stored one after another, each run-length encoded.
	for c := 0; c < 4; c++ {
		for x := 0; x < w; {
			count, err := r.ReadByte()
			if err != nil {
				return err
			}
			if count > 128 {
				n := int(count) - 128
				if x+n > w {
					return errRGBEFormat
				}
				val, err := r.ReadByte()
				if err != nil {
					return err
				}
				for ; n > 0; n-- {
					dst[x*4+c] = val
					x++
				}
				continue
			}
			n := int(count)
			if n == 0 || x+n > w {
				return errRGBEFormat
			}
			for ; n > 0; n-- {
				val, err := r.ReadByte()
				if err != nil {
					return err
				}
				dst[x*4+c] = val
				x++
			}
		}
	}
	return nil
}

// rgbeToFloat expands one shared-exponent pixel into three linear floats.
func rgbeToFloat(src []byte, dst []float32) {
	if src[3] == 0 {
		dst[0], dst[1], dst[2] = 0, 0, 0
		return
	}
	f := math.Ldexp(1, int(src[3])-136)
	dst[0] = float32(float64(src[0]) * f)
	dst[1] = float32(float64(src[1]) * f)
	dst[2] = float32(float64(src[2]) * f)
}
