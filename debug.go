package willow3d

import (
	"fmt"
	"os"
	"time"
)

// renderStats holds per-frame timing and rasterizer metrics.
// Only populated when Scene.debug is true.
type renderStats struct {
	traverseTime time.Duration
	rasterTime   time.Duration
	resolveTime  time.Duration

	meshCount     int
	triangleCount int
	culledCount   int
	fragmentCount int
}

// debugLog prints timing and rasterizer stats to stderr.
func (s *Scene) debugLog(stats renderStats) {
	if !s.debug {
		return
	}
	total := stats.traverseTime + stats.rasterTime + stats.resolveTime
	_, _ = fmt.Fprintf(os.Stderr,
		"[willow3d] traverse: %v | raster: %v | resolve: %v | total: %v\n",
		stats.traverseTime, stats.rasterTime, stats.resolveTime, total)
	_, _ = fmt.Fprintf(os.Stderr,
		"[willow3d] meshes: %d | triangles: %d | culled: %d | fragments: %d\n",
		stats.meshCount, stats.triangleCount, stats.culledCount, stats.fragmentCount)
}

// debugf prints a tagged line to stderr when debug mode is on.
func debugf(format string, args ...any) {
	if !globalDebug {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "[willow3d] "+format+"\n", args...)
}

// debugCheckDisposed panics with a descriptive message when a disposed node is
// used in a tree operation. Callers skip this entirely outside debug mode.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("willow3d debug: %s on disposed node %q", op, n.Name))
	}
}

// debugCheckChildCount warns on stderr if a node has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		_, _ = fmt.Fprintf(os.Stderr, "[willow3d] warning: node %q has %d children (threshold %d)\n",
			n.Name, len(n.children), debugMaxChildCount)
	}
}
