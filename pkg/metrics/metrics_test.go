package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ctvm/pkg/raster"
)

func mustImage(t *testing.T, v []float64, rows, cols int) *raster.Image {
	t.Helper()
	im, err := raster.FromVector(v, rows, cols)
	require.NoError(t, err)
	return im
}

// TestCompareIdentical pins the metrics of a perfect reconstruction.
func TestCompareIdentical(t *testing.T) {
	im := mustImage(t, []float64{0, 0.25, 0.5, 0.75, 1, 0.5, 0.25, 0, 1}, 3, 3)

	report, err := Compare(im, im.Clone())
	require.NoError(t, err)

	assert.Equal(t, 0.0, report.RMSE)
	assert.Equal(t, 0.0, report.MaxAbsDiff)
	assert.InDelta(t, 1.0, report.SSIM, 1e-9)
	assert.InDelta(t, 1.0, report.Correlation, 1e-9)
}

// TestCompareKnownError pins RMSE and the max difference on a hand-computed
// pair.
func TestCompareKnownError(t *testing.T) {
	a := mustImage(t, []float64{0, 0, 0, 0}, 2, 2)
	b := mustImage(t, []float64{0.1, -0.1, 0.1, -0.3}, 2, 2)

	report, err := Compare(a, b)
	require.NoError(t, err)

	// MSE = (0.01+0.01+0.01+0.09)/4 = 0.03.
	assert.InDelta(t, 0.17320508, report.RMSE, 1e-6)
	assert.InDelta(t, 0.3, report.MaxAbsDiff, 1e-12)
}

// TestCompareAnticorrelated checks the correlation sign on an inverted
// image.
func TestCompareAnticorrelated(t *testing.T) {
	a := mustImage(t, []float64{0, 0.2, 0.4, 0.6, 0.8, 1}, 3, 2)
	inv := mustImage(t, []float64{1, 0.8, 0.6, 0.4, 0.2, 0}, 3, 2)

	report, err := Compare(a, inv)
	require.NoError(t, err)
	assert.InDelta(t, -1.0, report.Correlation, 1e-9)
	assert.Less(t, report.SSIM, 1.0)
}

func TestCompareShapeMismatch(t *testing.T) {
	a := mustImage(t, make([]float64, 4), 2, 2)
	b := mustImage(t, make([]float64, 6), 3, 2)

	_, err := Compare(a, b)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}
