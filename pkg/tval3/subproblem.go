package tval3

import (
	"math"

	"ctvm/pkg/gradient"
	"ctvm/pkg/numeric"
)

// This file evaluates the augmented-Lagrangian function of Li's TVAL3 method
// ("An efficient algorithm for total variation regularization with
// applications to the single pixel camera and compressive sensing") and the
// quadratic model of its u-dependent part:
//
//	ℒ(u,w) = Σᵢ ‖wᵢ‖₂ + Q(u)
//	Q(u)   = −Σᵢ ⟨νᵢ, Dᵢu − wᵢ⟩ + (β/2) Σᵢ ‖Dᵢu − wᵢ‖₂²
//	         − ⟨λ, Au − b⟩ + (μ/2) ‖Au − b‖₂²
//
// and the closed-form gradient used as the steepest-descent direction
//
//	g(u) = Dᵀ(β(Du − w) − ν) + Aᵀ(μ(Au − b) − λ).

// residual fills s.resid with A·u − b and returns it.
func (s *solver) residual(u []float64) []float64 {
	numeric.MulVec(s.a, u, s.resid)
	numeric.SubTo(s.resid, s.resid, s.b)
	return s.resid
}

// qValue evaluates the quadratic model Q at u, holding w, ν, λ and the
// penalties fixed. Overwrites the s.du and s.resid scratch buffers.
func (s *solver) qValue(u []float64) float64 {
	_, _ = gradient.All(u, s.du)
	q := 0.0
	for i := 0; i < s.n; i++ {
		dh := s.du.At(i, 0) - s.w.At(i, 0)
		dv := s.du.At(i, 1) - s.w.At(i, 1)
		q += -(s.nu.At(i, 0)*dh + s.nu.At(i, 1)*dv) + 0.5*s.beta*(dh*dh+dv*dv)
	}
	r := s.residual(u)
	q += -numeric.Dot(s.lambda, r) + 0.5*s.mu*numeric.Dot(r, r)
	return q
}

// lagrangian evaluates the full augmented Lagrangian at u with the current
// splitting variable. It is only used to seed the non-monotone reference
// value; the alternating minimization never descends on it directly.
func (s *solver) lagrangian(u []float64) float64 {
	l := s.qValue(u)
	for i := 0; i < s.n; i++ {
		l += math.Hypot(s.w.At(i, 0), s.w.At(i, 1))
	}
	return l
}

// qGradient stores the gradient of Q at the current iterate s.u into dst.
// Overwrites the s.du, s.diff, s.resid and s.workM scratch buffers.
func (s *solver) qGradient(dst []float64) {
	_, _ = gradient.All(s.u, s.du)
	for i := 0; i < s.n; i++ {
		s.diff.Set(i, 0, s.beta*(s.du.At(i, 0)-s.w.At(i, 0))-s.nu.At(i, 0))
		s.diff.Set(i, 1, s.beta*(s.du.At(i, 1)-s.w.At(i, 1))-s.nu.At(i, 1))
	}
	_, _ = gradient.Transpose(s.diff, dst)

	r := s.residual(s.u)
	for i := range r {
		s.workM[i] = s.mu*r[i] - s.lambda[i]
	}
	numeric.MulVecTrans(s.a, s.workM, s.workN)
	numeric.AddScaled(dst, 1, s.workN)
}
