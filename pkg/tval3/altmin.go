package tval3

import (
	"math"

	"ctvm/pkg/gradient"
	"ctvm/pkg/numeric"
)

// maxBacktracks bounds one Armijo line search. By then the trial step has
// shrunk by a factor of 2⁻⁴⁸ and is accepted as-is; the inner stopping
// criterion sees the negligible change of u and terminates.
const maxBacktracks = 48

// shrink solves the w-subproblem in closed form: per-pixel isotropic
// shrinkage of gᵢ = Dᵢu − νᵢ/β by the threshold 1/β,
//
//	wᵢ = max(‖gᵢ‖₂ − 1/β, 0) · gᵢ/‖gᵢ‖₂,
//
// with wᵢ = 0 when gᵢ vanishes so no division by zero can occur. One pass
// over the pixels; overwrites the s.du scratch buffer.
func (s *solver) shrink() {
	_, _ = gradient.All(s.u, s.du)
	invBeta := 1 / s.beta
	for i := 0; i < s.n; i++ {
		gh := s.du.At(i, 0) - s.nu.At(i, 0)*invBeta
		gv := s.du.At(i, 1) - s.nu.At(i, 1)*invBeta
		norm := math.Hypot(gh, gv)
		if norm == 0 {
			s.w.Set(i, 0, 0)
			s.w.Set(i, 1, 0)
			continue
		}
		scale := norm - invBeta
		if scale < 0 {
			scale = 0
		}
		scale /= norm
		s.w.Set(i, 0, scale*gh)
		s.w.Set(i, 1, scale*gv)
	}
}

// nonmonotoneUpdate advances the reference value C and its running weight P
// after a step with model value q:
//
//	Pₖ₊₁ = η·Pₖ + 1
//	Cₖ₊₁ = (η·Pₖ·Cₖ + q) / Pₖ₊₁
//
// C stays a convex combination of its history, so it is always bracketed by
// the extreme model values seen so far.
func nonmonotoneUpdate(eta, p, c, q float64) (pNext, cNext float64) {
	pNext = eta*p + 1
	cNext = (eta*p*c + q) / pNext
	return pNext, cNext
}

// alternatingMinimize runs the inner loop of one outer iteration: alternate
// the closed-form w-update with a single Barzilai-Borwein steepest-descent
// step on u, line-searched against the non-monotone reference value. The
// multipliers and penalties are read-only here; only u and w are advanced.
// Returns false when a non-finite value appears.
func (s *solver) alternatingMinimize() bool {
	eta := s.params.Eta
	p := 1.0
	c := s.lagrangian(s.u)
	if math.IsNaN(c) || math.IsInf(c, 0) {
		return false
	}

	firstStep := true
	for it := 0; it < s.params.MaxInnerIters; it++ {
		s.shrink()

		s.qGradient(s.grad)
		gg := numeric.Dot(s.grad, s.grad)
		if gg == 0 {
			// Stationary point of the model; nothing left to move.
			return true
		}

		// Barzilai-Borwein step length from the previous iterate and
		// gradient, with a unit fallback on the first step, a degenerate
		// denominator, or a non-descent ratio (w moved between the two
		// gradient evaluations, so ⟨s,y⟩ > 0 is not guaranteed).
		alpha := 1.0
		if !firstStep {
			var sy, yy float64
			for i := range s.u {
				si := s.u[i] - s.uPrev[i]
				yi := s.grad[i] - s.gPrev[i]
				sy += si * yi
				yy += yi * yi
			}
			if yy != 0 && sy > 0 {
				alpha = sy / yy
			}
		}

		// Armijo backtracking against the non-monotone reference value.
		var q float64
		for bt := 0; bt < maxBacktracks; bt++ {
			alpha *= s.params.Rho
			for i := range s.u {
				s.trial[i] = s.u[i] - alpha*s.grad[i]
			}
			q = s.qValue(s.trial)
			if q <= c-s.params.Delta*alpha*gg {
				break
			}
		}
		if math.IsNaN(alpha) || math.IsInf(alpha, 0) || math.IsNaN(q) {
			return false
		}

		copy(s.uPrev, s.u)
		copy(s.gPrev, s.grad)
		change := numeric.Distance(s.trial, s.u)
		copy(s.u, s.trial)
		if !numeric.AllFinite(s.u) {
			return false
		}

		p, c = nonmonotoneUpdate(eta, p, c, q)
		firstStep = false

		if change <= s.params.InnerTol {
			break
		}
	}
	return true
}
