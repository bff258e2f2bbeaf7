// Package metrics quantifies the agreement between two images of equal
// shape. The reconstruction pipeline uses it to report how faithfully the
// recovered specimen reprojects onto the observed sinogram.
package metrics

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"ctvm/pkg/raster"
)

// ErrDimensionMismatch is returned when the compared images differ in shape.
var ErrDimensionMismatch = errors.New("metrics: images differ in shape")

// Report holds the quality metrics of one image comparison.
type Report struct {
	// RMSE is the root mean square error between pixel intensities. Lower
	// values indicate better fidelity.
	RMSE float64

	// SSIM is the structural similarity index computed over the whole
	// image, considering luminance, contrast and structure. Values range
	// from -1 to 1, with 1 indicating perfect similarity.
	SSIM float64

	// Correlation is the Pearson correlation of pixel intensities.
	Correlation float64

	// MaxAbsDiff is the largest absolute per-pixel difference.
	MaxAbsDiff float64
}

// Compare computes the quality metrics between a reference image and a
// candidate of the same shape.
func Compare(ref, cand *raster.Image) (Report, error) {
	if ref.Rows() != cand.Rows() || ref.Cols() != cand.Cols() {
		return Report{}, fmt.Errorf("%dx%d vs %dx%d: %w",
			ref.Rows(), ref.Cols(), cand.Rows(), cand.Cols(), ErrDimensionMismatch)
	}

	x := ref.ToVector()
	y := cand.ToVector()

	return Report{
		RMSE:        rmse(x, y),
		SSIM:        ssim(x, y),
		Correlation: stat.Correlation(x, y, nil),
		MaxAbsDiff:  maxAbsDiff(x, y),
	}, nil
}

// rmse computes the root mean square error between two equal-length vectors.
func rmse(x, y []float64) float64 {
	mse := 0.0
	for i := range x {
		diff := x[i] - y[i]
		mse += diff * diff
	}
	mse /= float64(len(x))
	return math.Sqrt(mse)
}

// ssim computes the Structural Similarity Index over the full image extent.
func ssim(x, y []float64) float64 {
	// Constants for SSIM calculation with a unit dynamic range.
	const l = 1.0
	const k1 = 0.01
	const k2 = 0.03

	c1 := (k1 * l) * (k1 * l)
	c2 := (k2 * l) * (k2 * l)

	muX := stat.Mean(x, nil)
	muY := stat.Mean(y, nil)

	sigmaX := stat.Variance(x, nil)
	sigmaY := stat.Variance(y, nil)
	sigmaXY := stat.Covariance(x, y, nil)

	num := (2*muX*muY + c1) * (2*sigmaXY + c2)
	den := (muX*muX + muY*muY + c1) * (sigmaX + sigmaY + c2)

	if den > 0 {
		return num / den
	}
	return 0
}

// maxAbsDiff returns the largest absolute difference between two vectors.
func maxAbsDiff(x, y []float64) float64 {
	max := 0.0
	for i := range x {
		d := math.Abs(x[i] - y[i])
		if d > max {
			max = d
		}
	}
	return max
}
