package filter

import "math"

// BaselineSixthOrder implements "baseline_sixth_order"
// method: fit a 6th-order polynomial to the *displacement* trace
// (obtained by double-integrating acceleration) with its zeroth- and
// first-order terms constrained to zero, then subtract the second
// derivative of that polynomial from the acceleration trace.
//
// accel is in the same units the caller expects back; dt is the
// sample interval in seconds.
func BaselineSixthOrder(accel []float64, dt float64) ([]float64, [7]float64) {
	velocity := Integrate(accel, dt)
	displacement := Integrate(velocity, dt)

	t := make([]float64, len(displacement))
	for i := range t {
		t[i] = float64(i) * dt
	}

	coeffs := constrainedPolyfit(t, displacement, 6)

	corrected := make([]float64, len(accel))
	for i, ti := range t {
		corrected[i] = accel[i] - secondDerivative(coeffs, ti)
	}
	return corrected, coeffs
}

// Integrate performs cumulative trapezoidal integration, the same
// accel->velocity and velocity->displacement step BaselineSixthOrder
// uses internally, exported so the metrics engine can derive velocity
// and displacement series from a processed acceleration trace.
func Integrate(x []float64, dt float64) []float64 {
	out := make([]float64, len(x))
	var acc float64
	for i := 1; i < len(x); i++ {
		acc += dt * (x[i] + x[i-1]) / 2
		out[i] = acc
	}
	return out
}

// constrainedPolyfit fits a sixth-order polynomial to (x, y) with
// coefficients c0 and c1 fixed to zero, solving the reduced normal
// equations for c2..c6 only; any other order argument is replaced by 6.
func constrainedPolyfit(x, y []float64, order int) [7]float64 {
	var coeffs [7]float64
	if order != 6 {
		order = 6
	}
	// Free coefficients are c2..c6: 5 unknowns.
	free := order - 1
	a := make([][]float64, free)
	for i := range a {
		a[i] = make([]float64, free+1)
	}
	for i := 0; i < free; i++ {
		pi := i + 2
		for j := 0; j < free; j++ {
			pj := j + 2
			var s float64
			for _, xv := range x {
				s += math.Pow(xv, float64(pi+pj))
			}
			a[i][j] = s
		}
		var s float64
		for k, xv := range x {
			s += math.Pow(xv, float64(pi)) * y[k]
		}
		a[i][free] = s
	}
	sol := gaussJordanSolve(a, free)
	for i, v := range sol {
		coeffs[i+2] = v
	}
	return coeffs
}

// secondDerivative evaluates d^2/dt^2 of the coefficient-0..6
// polynomial at t.
func secondDerivative(coeffs [7]float64, t float64) float64 {
	var v float64
	for k := 2; k < len(coeffs); k++ {
		v += coeffs[k] * float64(k) * float64(k-1) * math.Pow(t, float64(k-2))
	}
	return v
}
