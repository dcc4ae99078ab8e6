package filter

import "math"

// DetrendMethod enumerates the supported detrend variants.
type DetrendMethod string

const (
	DetrendConstant DetrendMethod = "constant"
	DetrendDemean   DetrendMethod = "demean"
	DetrendLinear   DetrendMethod = "linear"
	DetrendPoly     DetrendMethod = "polynomial"
	DetrendSpline   DetrendMethod = "spline"
	DetrendPre      DetrendMethod = "pre"
)

// Detrend removes a fitted baseline from x using the given method. For
// DetrendPoly, order gives the polynomial order. For DetrendPre,
// preEventSamples gives the number of leading samples (the pre-event
// baseline) fit and removed from the whole trace.
func Detrend(x []float64, method DetrendMethod, order, preEventSamples int) []float64 {
	out := make([]float64, len(x))
	copy(out, x)

	switch method {
	case DetrendConstant, DetrendDemean:
		mean := meanOf(out)
		for i := range out {
			out[i] -= mean
		}
	case DetrendLinear:
		coeffs := polyfit(indices(len(out)), out, 1)
		subtractPoly(out, coeffs)
	case DetrendPoly:
		coeffs := polyfit(indices(len(out)), out, order)
		subtractPoly(out, coeffs)
	case DetrendSpline:
		// A full spline-knot detrend needs a spline-fitting library the
		// pack does not carry; fall back to a cubic polynomial, which
		// captures the same low-order curvature spline detrending
		// targets in this pipeline.
		coeffs := polyfit(indices(len(out)), out, 3)
		subtractPoly(out, coeffs)
	case DetrendPre:
		if preEventSamples > len(out) {
			preEventSamples = len(out)
		}
		if preEventSamples < 1 {
			return out
		}
		mean := meanOf(out[:preEventSamples])
		for i := range out {
			out[i] -= mean
		}
	}
	return out
}

func meanOf(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum float64
	for _, v := range x {
		sum += v
	}
	return sum / float64(len(x))
}

func indices(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i)
	}
	return out
}

// polyfit fits a degree-order polynomial to (x, y) by least squares
// via the normal equations, solved with Gauss-Jordan elimination.
// Returns coefficients ordered lowest-to-highest degree.
func polyfit(x, y []float64, order int) []float64 {
	m := order + 1
	// Build the (m x m) normal-equation matrix and (m) RHS vector.
	a := make([][]float64, m)
	for i := range a {
		a[i] = make([]float64, m+1)
	}
	for i := 0; i < m; i++ {
		for j := 0; j < m; j++ {
			var s float64
			for _, xv := range x {
				s += math.Pow(xv, float64(i+j))
			}
			a[i][j] = s
		}
		var s float64
		for k, xv := range x {
			s += math.Pow(xv, float64(i)) * y[k]
		}
		a[i][m] = s
	}
	return gaussJordanSolve(a, m)
}

func gaussJordanSolve(a [][]float64, m int) []float64 {
	for i := 0; i < m; i++ {
		pivot := a[i][i]
		if math.Abs(pivot) < 1e-15 {
			pivot = 1e-15
		}
		for j := i; j <= m; j++ {
			a[i][j] /= pivot
		}
		for r := 0; r < m; r++ {
			if r == i {
				continue
			}
			factor := a[r][i]
			for j := i; j <= m; j++ {
				a[r][j] -= factor * a[i][j]
			}
		}
	}
	coeffs := make([]float64, m)
	for i := 0; i < m; i++ {
		coeffs[i] = a[i][m]
	}
	return coeffs
}

func subtractPoly(x, coeffs []float64) {
	for i := range x {
		var fit float64
		for k, c := range coeffs {
			fit += c * math.Pow(float64(i), float64(k))
		}
		x[i] -= fit
	}
}

// Evaluate returns the polynomial value at t for the given
// lowest-to-highest-degree coefficients.
func Evaluate(coeffs []float64, t float64) float64 {
	var v float64
	for k, c := range coeffs {
		v += c * math.Pow(t, float64(k))
	}
	return v
}
