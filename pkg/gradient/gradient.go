// Package gradient implements the discrete 2-D gradient operator D used by
// the total-variation term of the reconstruction, together with its
// transpose. The image is a column-major raster of a square L×L specimen, so
// pixel i sits at row i mod L, column i / L; its right neighbor is i+L and
// its down neighbor is i+1. Both differences are forward differences
// truncated at the last row and column (zero Neumann boundary).
//
// The transpose is applied by direct index arithmetic rather than by
// materializing per-pixel difference matrices, which keeps one application of
// D or Dᵀ at Θ(N).
package gradient

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Sentinel errors for the gradient package. Callers match them with errors.Is.
var (
	// ErrInvalidShape is returned when a raster length is not a perfect
	// square, or a gradient field does not have exactly two columns.
	ErrInvalidShape = errors.New("gradient: raster is not a square image")

	// ErrInvalidIndex is returned when a pixel index lies outside [0, N).
	ErrInvalidIndex = errors.New("gradient: pixel index out of range")
)

// Side returns the side length L of the square image rasterized into n
// pixels, or ErrInvalidShape when n is not a positive perfect square.
func Side(n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("%d pixels: %w", n, ErrInvalidShape)
	}
	l := int(math.Round(math.Sqrt(float64(n))))
	if l*l != n {
		return 0, fmt.Errorf("%d pixels: %w", n, ErrInvalidShape)
	}
	return l, nil
}

// At evaluates the gradient pair (horizontal, vertical) at pixel i of the
// column-major raster u. Pixels in the last column have a zero horizontal
// component; pixels in the last row have a zero vertical component.
func At(u []float64, i int) (gh, gv float64, err error) {
	l, err := Side(len(u))
	if err != nil {
		return 0, 0, err
	}
	if i < 0 || i >= len(u) {
		return 0, 0, fmt.Errorf("pixel %d of %d: %w", i, len(u), ErrInvalidIndex)
	}
	r := i % l
	c := i / l
	if c < l-1 {
		gh = u[i] - u[i+l]
	}
	if r < l-1 {
		gv = u[i] - u[i+1]
	}
	return gh, gv, nil
}

// All evaluates the gradient at every pixel of u and returns the N×2 field
// with the horizontal component in column 0 and the vertical component in
// column 1. When dst is non-nil it is filled and returned instead of a fresh
// allocation; its shape must be N×2.
func All(u []float64, dst *mat.Dense) (*mat.Dense, error) {
	l, err := Side(len(u))
	if err != nil {
		return nil, err
	}
	n := len(u)
	if dst == nil {
		dst = mat.NewDense(n, 2, nil)
	} else if r, c := dst.Dims(); r != n || c != 2 {
		return nil, fmt.Errorf("destination is %dx%d, want %dx2: %w", r, c, n, ErrInvalidShape)
	}
	for c := 0; c < l; c++ {
		for r := 0; r < l; r++ {
			i := r + c*l
			var gh, gv float64
			if c < l-1 {
				gh = u[i] - u[i+l]
			}
			if r < l-1 {
				gv = u[i] - u[i+1]
			}
			dst.Set(i, 0, gh)
			dst.Set(i, 1, gv)
		}
	}
	return dst, nil
}

// Transpose applies Dᵀ to an N×2 gradient field g and returns the resulting
// length-N vector. Under the Euclidean inner product on the raster and the
// Frobenius inner product on the field, each interior horizontal component
// contributes +g to its own pixel and -g to the right neighbor, and each
// interior vertical component contributes +g to its own pixel and -g to the
// down neighbor. When dst is non-nil it is zeroed, filled and returned; its
// length must be N.
func Transpose(g *mat.Dense, dst []float64) ([]float64, error) {
	n, cols := g.Dims()
	if cols != 2 {
		return nil, fmt.Errorf("gradient field is %dx%d, want %dx2: %w", n, cols, n, ErrInvalidShape)
	}
	l, err := Side(n)
	if err != nil {
		return nil, err
	}
	if dst == nil {
		dst = make([]float64, n)
	} else {
		if len(dst) != n {
			return nil, fmt.Errorf("destination length %d, want %d: %w", len(dst), n, ErrInvalidShape)
		}
		for i := range dst {
			dst[i] = 0
		}
	}
	for i := 0; i < n; i++ {
		r := i % l
		c := i / l
		if c < l-1 {
			gh := g.At(i, 0)
			dst[i] += gh
			dst[i+l] -= gh
		}
		if r < l-1 {
			gv := g.At(i, 1)
			dst[i] += gv
			dst[i+1] -= gv
		}
	}
	return dst, nil
}
