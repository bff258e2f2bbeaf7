package numeric

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestDotNormDistance(t *testing.T) {
	a := []float64{3, 4}
	b := []float64{0, 0}
	if got := Dot(a, a); got != 25 {
		t.Errorf("Dot = %v, want 25", got)
	}
	if got := Norm2(a); got != 5 {
		t.Errorf("Norm2 = %v, want 5", got)
	}
	if got := Distance(a, b); got != 5 {
		t.Errorf("Distance = %v, want 5", got)
	}
}

func TestAddScaledSubTo(t *testing.T) {
	dst := []float64{1, 2, 3}
	AddScaled(dst, 2, []float64{1, 1, 1})
	want := []float64{3, 4, 5}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("AddScaled[%d] = %v, want %v", i, dst[i], want[i])
		}
	}

	out := make([]float64, 3)
	SubTo(out, []float64{5, 5, 5}, []float64{1, 2, 3})
	want = []float64{4, 3, 2}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("SubTo[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}

func TestMulVec(t *testing.T) {
	a := mat.NewDense(2, 3, []float64{
		1, 2, 3,
		4, 5, 6,
	})
	x := []float64{1, 1, 1}
	dst := make([]float64, 2)
	MulVec(a, x, dst)
	if dst[0] != 6 || dst[1] != 15 {
		t.Errorf("MulVec = %v, want [6 15]", dst)
	}

	y := []float64{1, 1}
	dstT := make([]float64, 3)
	MulVecTrans(a, y, dstT)
	if dstT[0] != 5 || dstT[1] != 7 || dstT[2] != 9 {
		t.Errorf("MulVecTrans = %v, want [5 7 9]", dstT)
	}
}

func TestAllFinite(t *testing.T) {
	if !AllFinite([]float64{1, -2, 0}) {
		t.Error("AllFinite rejected a finite vector")
	}
	if AllFinite([]float64{1, math.NaN()}) {
		t.Error("AllFinite accepted NaN")
	}
	if AllFinite([]float64{1, math.Inf(1)}) {
		t.Error("AllFinite accepted +Inf")
	}

	m := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	if !MatAllFinite(m) {
		t.Error("MatAllFinite rejected a finite matrix")
	}
	m.Set(1, 1, math.Inf(-1))
	if MatAllFinite(m) {
		t.Error("MatAllFinite accepted -Inf")
	}
}
