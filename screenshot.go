package willow3d

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/HugoSmits86/nativewebp"
)

// Screenshot queues a labeled screenshot of the next rendered frame. The
// image is written to ScreenshotDir as lossless WebP with a timestamped
// filename.
func (s *Scene) Screenshot(label string) {
	s.screenshotQueue = append(s.screenshotQueue, label)
}

// PendingScreenshots returns the number of queued screenshots.
func (s *Scene) PendingScreenshots() int {
	return len(s.screenshotQueue)
}

// flushScreenshots writes frame once per queued label and returns the paths
// written. Failures are logged and skipped.
func (s *Scene) flushScreenshots(frame image.Image) []string {
	if len(s.screenshotQueue) == 0 {
		return nil
	}
	defer func() { s.screenshotQueue = s.screenshotQueue[:0] }()

	if err := os.MkdirAll(s.ScreenshotDir, 0o755); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "[willow3d] screenshot: mkdir %s: %v\n", s.ScreenshotDir, err)
		return nil
	}

	stamp := time.Now().Format("20060102_150405")
	var written []string
	for i, label := range s.screenshotQueue {
		name := fmt.Sprintf("%s_%s.webp", stamp, sanitizeLabel(label))
		if i > 0 {
			name = fmt.Sprintf("%s_%s_%d.webp", stamp, sanitizeLabel(label), i)
		}
		path := filepath.Join(s.ScreenshotDir, name)
		if err := writeWebP(path, frame); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "[willow3d] screenshot: %v\n", err)
			continue
		}
		written = append(written, path)
	}
	return written
}

// writeWebP encodes an image to a lossless WebP file at the given path.
func writeWebP(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := nativewebp.Encode(f, img, nil); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
