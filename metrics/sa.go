package metrics

import "github.com/smcore/go-strongmotion/rotate"

// SA returns the spectral acceleration in %g at period T and damping
// fraction d, given acceleration samples in cm/s^2, via the SDOF
// oscillator in the rotate package.
func SA(accelCmS2 []float64, dt, period, damping float64) float64 {
	result := rotate.SDOF(accelCmS2, dt, period, damping)
	return result.SA() / gravityCmS2 * 100
}

// saMetricFn adapts SA into the func([]float64) float64 peak
// function RotD/GMRotD expect: max |SA| computed on the rotated
// series itself rather than re-deriving SA's %g conversion inline.
func saMetricFn(dt, period, damping float64) func([]float64) float64 {
	return func(rotated []float64) float64 {
		return SA(rotated, dt, period, damping)
	}
}
