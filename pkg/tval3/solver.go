// Package tval3 reconstructs a square image from linear projection
// measurements by total-variation minimization, following the TVAL3 method of
// Li's thesis "An efficient algorithm for total variation regularization with
// applications to the single pixel camera and compressive sensing": an outer
// augmented-Lagrangian loop around an alternating minimization that splits
// the TV term through the auxiliary variable w ≈ Du.
//
// The solver is pure computation on owned buffers: single-threaded,
// deterministic for fixed inputs, and silent. All failures are reported
// through the returned Result and error.
package tval3

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"ctvm/pkg/gradient"
	"ctvm/pkg/numeric"
	"ctvm/pkg/raster"
)

// solver owns every iterate and scratch buffer of one reconstruction. The
// inner alternating minimization borrows u and w; the multipliers and
// penalties are advanced only by the outer loop.
type solver struct {
	a    *mat.Dense
	b    []float64
	side int
	m, n int

	params SolverParams

	u      []float64
	lambda []float64
	w      *mat.Dense
	nu     *mat.Dense
	beta   float64
	mu     float64

	outerIters int

	// Scratch buffers reused across iterations.
	du    *mat.Dense
	diff  *mat.Dense
	uOld  []float64
	uPrev []float64
	gPrev []float64
	grad  []float64
	trial []float64
	resid []float64
	workM []float64
	workN []float64
}

func newSolver(a *mat.Dense, b []float64, side int, params SolverParams) *solver {
	m, n := a.Dims()
	return &solver{
		a:      a,
		b:      b,
		side:   side,
		m:      m,
		n:      n,
		params: params,
		u:      make([]float64, n),
		lambda: make([]float64, m),
		w:      mat.NewDense(n, 2, nil),
		nu:     mat.NewDense(n, 2, nil),
		beta:   params.Beta0,
		mu:     params.Mu0,
		du:     mat.NewDense(n, 2, nil),
		diff:   mat.NewDense(n, 2, nil),
		uOld:   make([]float64, n),
		uPrev:  make([]float64, n),
		gPrev:  make([]float64, n),
		grad:   make([]float64, n),
		trial:  make([]float64, n),
		resid:  make([]float64, m),
		workM:  make([]float64, m),
		workN:  make([]float64, n),
	}
}

// Reconstruct recovers the L×L image whose projections under A best match
// the measurement vector b, favoring piecewise-constant images through
// isotropic total variation. A must be M×N with N = L², and b must have
// length M.
//
// The zero value of params selects the defaults of DefaultParams. A Result
// is returned alongside any error except a shape mismatch, so a caller can
// inspect the final iterate even when the solve did not converge; a
// NumericalFailure status is additionally surfaced as an error wrapping
// ErrNumericalFailure.
func Reconstruct(a *mat.Dense, b []float64, sideLength int, params SolverParams) (*Result, error) {
	m, n := a.Dims()
	if sideLength <= 0 || n != sideLength*sideLength {
		return nil, fmt.Errorf("projection matrix has %d columns, want %d for side length %d: %w",
			n, sideLength*sideLength, sideLength, ErrInvalidShape)
	}
	if len(b) != m {
		return nil, fmt.Errorf("measurement vector has length %d, want %d rows: %w",
			len(b), m, ErrInvalidShape)
	}

	s := newSolver(a, b, sideLength, params.withDefaults())
	status := s.run()

	img, err := raster.FromVector(s.u, sideLength, sideLength)
	if err != nil {
		return nil, err
	}
	res := &Result{
		Image:      img,
		Status:     status,
		OuterIters: s.outerIters,
		Residual:   numeric.Norm2(s.residual(s.u)),
	}
	if status == NumericalFailure {
		return res, fmt.Errorf("solve diverged after %d outer iterations: %w",
			s.outerIters, ErrNumericalFailure)
	}
	return res, nil
}

// run drives the outer augmented-Lagrangian loop: alternating minimization,
// then the method-of-multipliers updates of ν and λ, then geometric penalty
// growth with μ coupled to the grown β. The order of the four updates is
// fixed; swapping any pair changes the fixed point.
func (s *solver) run() Status {
	for k := 0; k < s.params.MaxOuterIters; k++ {
		s.outerIters = k + 1
		copy(s.uOld, s.u)

		if !s.alternatingMinimize() {
			return NumericalFailure
		}

		// ν ← ν − β(Du − w), λ ← λ − μ(Au − b), with the penalties of this
		// iteration.
		_, _ = gradient.All(s.u, s.du)
		for i := 0; i < s.n; i++ {
			s.nu.Set(i, 0, s.nu.At(i, 0)-s.beta*(s.du.At(i, 0)-s.w.At(i, 0)))
			s.nu.Set(i, 1, s.nu.At(i, 1)-s.beta*(s.du.At(i, 1)-s.w.At(i, 1)))
		}
		numeric.AddScaled(s.lambda, -s.mu, s.residual(s.u))

		s.beta *= s.params.PenaltyGrowth
		s.mu = s.params.PenaltyGrowth * s.beta

		if !numeric.AllFinite(s.u) || !numeric.AllFinite(s.lambda) ||
			!numeric.MatAllFinite(s.w) || !numeric.MatAllFinite(s.nu) {
			return NumericalFailure
		}

		if s.params.OnOuterStep != nil {
			s.params.OnOuterStep(k, s.u)
		}

		if numeric.Distance(s.u, s.uOld) <= s.params.OuterTol {
			return Converged
		}
	}
	return DidNotConverge
}
