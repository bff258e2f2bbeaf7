package tval3

import (
	"math"

	"ctvm/pkg/raster"
)

// Status reports how a reconstruction terminated.
type Status int

const (
	// Converged means the outer iteration change dropped below OuterTol.
	Converged Status = iota

	// DidNotConverge means the outer iteration cap was reached; the returned
	// image is the best iterate so far, not a failure.
	DidNotConverge

	// NumericalFailure means a non-finite value appeared during the solve.
	NumericalFailure
)

// String returns a human-readable form of the status.
func (s Status) String() string {
	switch s {
	case Converged:
		return "converged"
	case DidNotConverge:
		return "did not converge"
	case NumericalFailure:
		return "numerical failure"
	default:
		return "unknown"
	}
}

// SolverParams holds every tunable of the TVAL3 solver. The zero value of a
// field means "use the default"; DefaultParams lists the defaults.
type SolverParams struct {
	// Mu0 is the initial penalty on the data constraint A·u = b.
	Mu0 float64

	// Beta0 is the initial penalty on the splitting constraint Dᵢu = wᵢ.
	Beta0 float64

	// PenaltyGrowth is the geometric growth factor applied to both penalties
	// after every outer iteration.
	PenaltyGrowth float64

	// InnerTol stops the alternating minimization once the change of u in
	// one inner step falls below it.
	InnerTol float64

	// OuterTol stops the outer augmented-Lagrangian loop once the change of
	// u across one outer iteration falls below it.
	OuterTol float64

	// MaxOuterIters bounds the outer loop; exceeding it yields
	// DidNotConverge rather than looping forever.
	MaxOuterIters int

	// MaxInnerIters bounds one alternating minimization.
	MaxInnerIters int

	// Rho is the backtracking shrink factor of the Armijo line search.
	Rho float64

	// Delta is the sufficient-decrease coefficient of the Armijo criterion.
	Delta float64

	// Eta is the forgetting factor of the non-monotone reference value.
	Eta float64

	// OnOuterStep, when non-nil, is invoked after every outer iteration with
	// the zero-based iteration index and the current iterate in column-major
	// raster order. The callback must not retain or mutate u.
	OnOuterStep func(iter int, u []float64)
}

// DefaultParams returns the solver defaults from Li's TVAL3 formulation.
func DefaultParams() SolverParams {
	return SolverParams{
		Mu0:           3,
		Beta0:         math.Sqrt2,
		PenaltyGrowth: 1.05,
		InnerTol:      1e-2,
		OuterTol:      1e-2,
		MaxOuterIters: 100,
		MaxInnerIters: 100,
		Rho:           0.5,
		Delta:         0.5,
		Eta:           0.5,
	}
}

// withDefaults replaces unset fields with their defaults.
func (p SolverParams) withDefaults() SolverParams {
	def := DefaultParams()
	if p.Mu0 == 0 {
		p.Mu0 = def.Mu0
	}
	if p.Beta0 == 0 {
		p.Beta0 = def.Beta0
	}
	if p.PenaltyGrowth == 0 {
		p.PenaltyGrowth = def.PenaltyGrowth
	}
	if p.InnerTol == 0 {
		p.InnerTol = def.InnerTol
	}
	if p.OuterTol == 0 {
		p.OuterTol = def.OuterTol
	}
	if p.MaxOuterIters == 0 {
		p.MaxOuterIters = def.MaxOuterIters
	}
	if p.MaxInnerIters == 0 {
		p.MaxInnerIters = def.MaxInnerIters
	}
	if p.Rho == 0 {
		p.Rho = def.Rho
	}
	if p.Delta == 0 {
		p.Delta = def.Delta
	}
	if p.Eta == 0 {
		p.Eta = def.Eta
	}
	return p
}

// Result carries the reconstructed image and solve diagnostics.
type Result struct {
	// Image is the reconstructed L×L specimen.
	Image *raster.Image

	// Status reports how the solve terminated.
	Status Status

	// OuterIters is the number of outer iterations performed.
	OuterIters int

	// Residual is the data misfit ‖A·u − b‖₂ at the final iterate.
	Residual float64
}
