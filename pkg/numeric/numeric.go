// Package numeric wraps the gonum dense linear algebra primitives used by the
// reconstruction core: inner products, norms, scaled accumulation,
// matrix-vector products against A and Aᵀ, and finiteness checks.
package numeric

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Dot returns the Euclidean inner product of a and b.
func Dot(a, b []float64) float64 {
	return floats.Dot(a, b)
}

// Norm2 returns the Euclidean norm of a.
func Norm2(a []float64) float64 {
	return floats.Norm(a, 2)
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b []float64) float64 {
	return floats.Distance(a, b, 2)
}

// AddScaled performs dst += alpha * x.
func AddScaled(dst []float64, alpha float64, x []float64) {
	floats.AddScaled(dst, alpha, x)
}

// SubTo stores a - b into dst and returns dst.
func SubTo(dst, a, b []float64) []float64 {
	return floats.SubTo(dst, a, b)
}

// MulVec computes dst = A·x. dst must have length equal to the row count of A.
func MulVec(a *mat.Dense, x, dst []float64) {
	_, n := a.Dims()
	xv := mat.NewVecDense(n, x)
	dv := mat.NewVecDense(len(dst), dst)
	dv.MulVec(a, xv)
}

// MulVecTrans computes dst = Aᵀ·x. dst must have length equal to the column
// count of A.
func MulVecTrans(a *mat.Dense, x, dst []float64) {
	m, _ := a.Dims()
	xv := mat.NewVecDense(m, x)
	dv := mat.NewVecDense(len(dst), dst)
	dv.MulVec(a.T(), xv)
}

// AllFinite reports whether every entry of v is finite.
func AllFinite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// MatAllFinite reports whether every entry of m is finite.
func MatAllFinite(m mat.Matrix) bool {
	rows, cols := m.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := m.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}
