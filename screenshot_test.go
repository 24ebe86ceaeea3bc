package willow3d

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/webp"
)

func TestFlushScreenshotsWritesWebP(t *testing.T) {
	s := NewScene()
	s.ScreenshotDir = filepath.Join(t.TempDir(), "shots")
	s.Screenshot("front view")
	s.Screenshot("front view")
	if s.PendingScreenshots() != 2 {
		t.Fatalf("pending = %d", s.PendingScreenshots())
	}

	frame := solidImage(8, 4, color.NRGBA{10, 200, 30, 255})
	paths := s.flushScreenshots(frame)
	if len(paths) != 2 {
		t.Fatalf("paths = %v", paths)
	}
	if !strings.HasSuffix(paths[0], "_front_view.webp") {
		t.Errorf("first = %s", paths[0])
	}
	if !strings.HasSuffix(paths[1], "_front_view_1.webp") {
		t.Errorf("duplicate = %s", paths[1])
	}
	if s.PendingScreenshots() != 0 {
		t.Error("queue should be cleared")
	}

	f, err := os.Open(paths[0])
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := webp.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != image.Rect(0, 0, 8, 4) {
		t.Errorf("bounds = %v", img.Bounds())
	}
	r, g, b, _ := img.At(3, 2).RGBA()
	if r>>8 != 10 || g>>8 != 200 || b>>8 != 30 {
		t.Errorf("pixel = %d,%d,%d, want lossless 10,200,30", r>>8, g>>8, b>>8)
	}
}

func TestFlushScreenshotsNothingQueued(t *testing.T) {
	s := NewScene()
	s.ScreenshotDir = t.TempDir()
	if paths := s.flushScreenshots(solidImage(2, 2, color.NRGBA{A: 255})); paths != nil {
		t.Errorf("paths = %v", paths)
	}
}

func TestFlushScreenshotsUnwritableDir(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	s := NewScene()
	s.ScreenshotDir = filepath.Join(blocker, "shots")
	s.Screenshot("x")
	if paths := s.flushScreenshots(solidImage(2, 2, color.NRGBA{A: 255})); paths != nil {
		t.Errorf("paths = %v", paths)
	}
	if s.PendingScreenshots() != 0 {
		t.Error("queue should be cleared after a failed flush")
	}
}

func TestSanitizeLabel(t *testing.T) {
	tests := map[string]string{
		"":              "unlabeled",
		"   ":           "unlabeled",
		"decal-0.5":     "decal-0.5",
		"a/b c":         "a_b_c",
		" knot plain ":  "knot_plain",
		"\u00fcn\u00ef": "_n_",
	}
	for in, want := range tests {
		if got := sanitizeLabel(in); got != want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", in, got, want)
		}
	}
}
