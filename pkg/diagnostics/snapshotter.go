// Package diagnostics saves the solver iterate as an image after each outer
// iteration, so the convergence of a reconstruction can be watched frame by
// frame. It is pure observability: the snapshotter hooks into the solver's
// outer-step callback and never feeds anything back into the solve.
package diagnostics

import (
	"fmt"
	"os"
	"path/filepath"

	"ctvm/pkg/imageio"
	"ctvm/pkg/raster"
)

// Snapshotter writes per-iteration images of the reconstruction iterate.
type Snapshotter struct {
	dir  string
	side int
}

// NewSnapshotter creates the snapshot directory and returns a snapshotter
// for iterates of the given side length.
func NewSnapshotter(dir string, side int) (*Snapshotter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	return &Snapshotter{dir: dir, side: side}, nil
}

// OnOuterStep writes the iterate of outer iteration iter as a numbered PNG.
// The signature matches the solver's outer-step callback; a failed write is
// reported as a warning rather than interrupting the solve.
func (s *Snapshotter) OnOuterStep(iter int, u []float64) {
	img, err := raster.FromVector(u, s.side, s.side)
	if err != nil {
		fmt.Printf("Warning: failed to snapshot iteration %d: %v\n", iter, err)
		return
	}
	path := filepath.Join(s.dir, fmt.Sprintf("%03d.png", iter))
	if err := imageio.Save(path, img); err != nil {
		fmt.Printf("Warning: failed to snapshot iteration %d: %v\n", iter, err)
	}
}
