// Package metrics implements the IMT x IMC matrix:
// peak values, response spectra, Fourier amplitude spectra, Arias
// intensity, and duration, each evaluated per channel or across a
// configured component-combination rule. Built on the spectrum,
// filter, and rotate packages, layering derived fields on top of
// their primitives rather than recomputing them inline.
package metrics

import (
	"math"
	"sort"

	"github.com/smcore/go-strongmotion/spectrum"
)

const gravityCmS2 = 980.665 // cm/s^2, used for the Arias integral and the %g unit contract

// PGA returns the peak ground acceleration in %g given acceleration
// samples in cm/s^2.
func PGA(accelCmS2 []float64) float64 {
	return peakAbs(accelCmS2) / gravityCmS2 * 100
}

// PGV returns the peak ground velocity in cm/s.
func PGV(velCmS []float64) float64 {
	return peakAbs(velCmS)
}

// PGD returns the peak ground displacement in cm.
func PGD(dispCm []float64) float64 {
	return peakAbs(dispCm)
}

func peakAbs(x []float64) float64 {
	m := 0.0
	for _, v := range x {
		if a := math.Abs(v); a > m {
			m = a
		}
	}
	return m
}

// AriasIntensity computes Ia = (pi / (2*g)) * integral(a(t)^2 dt) in
// m/s, from acceleration in cm/s^2.
func AriasIntensity(accelCmS2 []float64, dt float64) float64 {
	gCmS2 := gravityCmS2
	var sum float64
	for i := 1; i < len(accelCmS2); i++ {
		sum += dt * (accelCmS2[i]*accelCmS2[i] + accelCmS2[i-1]*accelCmS2[i-1]) / 2
	}
	iaCm := (math.Pi / (2 * gCmS2)) * sum // cm^2/s^3 * s / (cm/s^2) = cm/s... convert to m/s below
	return iaCm / 100
}

// AriasHistory returns the cumulative Arias intensity time series in
// m/s, used by Duration and SortedDuration to locate percentile crossings.
func AriasHistory(accelCmS2 []float64, dt float64) []float64 {
	out := make([]float64, len(accelCmS2))
	var sum float64
	for i := 1; i < len(accelCmS2); i++ {
		sum += dt * (accelCmS2[i]*accelCmS2[i] + accelCmS2[i-1]*accelCmS2[i-1]) / 2
		out[i] = (math.Pi / (2 * gravityCmS2)) * sum / 100
	}
	return out
}

// Duration returns the time in seconds between the first samples at
// which the cumulative Arias history reaches loPct and hiPct of its
// final value.
func Duration(accelCmS2 []float64, dt, loPct, hiPct float64) float64 {
	hist := AriasHistory(accelCmS2, dt)
	return crossingInterval(hist, dt, loPct, hiPct)
}

// SortedDuration is Duration computed on the Arias-sorted accumulation:
// the squared-acceleration samples are sorted ascending before the
// cumulative integral is built.
func SortedDuration(accelCmS2 []float64, dt, loPct, hiPct float64) float64 {
	sq := make([]float64, len(accelCmS2))
	for i, a := range accelCmS2 {
		sq[i] = a * a
	}
	sort.Float64s(sq)

	hist := make([]float64, len(sq))
	var sum float64
	for i := 1; i < len(sq); i++ {
		sum += dt * (sq[i] + sq[i-1]) / 2
		hist[i] = (math.Pi / (2 * gravityCmS2)) * sum / 100
	}
	return crossingInterval(hist, dt, loPct, hiPct)
}

func crossingInterval(hist []float64, dt, loPct, hiPct float64) float64 {
	n := len(hist)
	if n == 0 {
		return math.NaN()
	}
	total := hist[n-1]
	if total <= 0 {
		return math.NaN()
	}
	loTarget := total * loPct / 100
	hiTarget := total * hiPct / 100

	loIdx, hiIdx := -1, -1
	for i, v := range hist {
		if loIdx < 0 && v >= loTarget {
			loIdx = i
		}
		if hiIdx < 0 && v >= hiTarget {
			hiIdx = i
			break
		}
	}
	if loIdx < 0 || hiIdx < 0 {
		return math.NaN()
	}
	return float64(hiIdx-loIdx) * dt
}

// FAS returns the Konno-Ohmachi smoothed Fourier amplitude spectrum of
// acceleration (cm/s^2), evaluated at targetFreq, in cm/s, per the
// units contract and FAS definition.
func FAS(accelCmS2 []float64, dt float64, targetFreq []float64, bandwidth float64) []float64 {
	freq, amp := spectrum.FFT(accelCmS2, dt)
	mag := spectrum.Magnitude(amp)
	return spectrum.Smooth(freq, mag, targetFreq, bandwidth)
}
