package sinogram

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"ctvm/internal/models"
)

// BuildProjectionMatrix produces the M×N forward operator mapping the
// rasterized L×L specimen to the measurement vector, with M one detector row
// per tilt angle (M = count·L, N = L²).
//
// The current operator is a placeholder: an i.i.d. standard-normal matrix
// seeded deterministically, a compressive-sensing stand-in rather than a
// discrete Radon transform of the tilt geometry. The solver only requires a
// finite matrix of the declared shape, so the stub can be swapped for real
// projection physics without touching anything downstream.
func BuildProjectionMatrix(tilts *models.TiltSeries, sideLength int, seed uint64) (*mat.Dense, error) {
	if sideLength <= 0 {
		return nil, fmt.Errorf("side length %d: %w", sideLength, ErrGeometryMismatch)
	}
	if tilts.Count() == 0 {
		return nil, ErrNoAngles
	}

	m := tilts.Count() * sideLength
	n := sideLength * sideLength

	normal := distuv.Normal{
		Mu:    0,
		Sigma: 1,
		Src:   rand.NewSource(seed),
	}
	data := make([]float64, m*n)
	for i := range data {
		data[i] = normal.Rand()
	}
	return mat.NewDense(m, n, data), nil
}
