// Package rotate implements horizontal-component
// rotation and RotD/GMRotD percentile aggregation, plus the SDOF
// oscillator used to derive spectral acceleration at each angle.
// Elementwise-loop style follows geo.go's trig loops
// (BeamsLonLat); no linear-algebra library fits this well enough to
// justify the dependency.
package rotate

import (
	"math"
	"sort"
)

// Rotate returns r_theta(t) = h1(t)*cos(theta) + h2(t)*sin(theta),
// theta in radians.
func Rotate(h1, h2 []float64, theta float64) []float64 {
	n := len(h1)
	if len(h2) < n {
		n = len(h2)
	}
	out := make([]float64, n)
	c, s := math.Cos(theta), math.Sin(theta)
	for i := 0; i < n; i++ {
		out[i] = h1[i]*c + h2[i]*s
	}
	return out
}

// AngleDegrees enumerates the 180 integer-degree rotation angles used
// by RotD/GMRotD.
func AngleDegrees() []int {
	angles := make([]int, 180)
	for i := range angles {
		angles[i] = i
	}
	return angles
}

// RotD computes the p-th percentile over theta in {0..179} of
// metricFn applied to the rotated horizontal at each angle.
func RotD(h1, h2 []float64, p float64, metricFn func(rotated []float64) float64) float64 {
	values := make([]float64, 0, 180)
	for _, deg := range AngleDegrees() {
		theta := float64(deg) * math.Pi / 180
		rotated := Rotate(h1, h2, theta)
		values = append(values, metricFn(rotated))
	}
	return percentile(values, p)
}

// GMRotD computes the p-th percentile over theta of the geometric mean
// of metricFn applied to each of the two rotated orthogonal
// components at that angle (theta and theta+90).
func GMRotD(h1, h2 []float64, p float64, metricFn func(rotated []float64) float64) float64 {
	values := make([]float64, 0, 180)
	for _, deg := range AngleDegrees() {
		theta := float64(deg) * math.Pi / 180
		r1 := Rotate(h1, h2, theta)
		r2 := Rotate(h1, h2, theta+math.Pi/2)
		v1 := metricFn(r1)
		v2 := metricFn(r2)
		values = append(values, math.Sqrt(math.Abs(v1*v2))*sign(v1*v2))
	}
	return percentile(values, p)
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

// percentile returns the p-th percentile (0-100) over values using the
// "ordered value at rank ceil(p/100*n)" convention — 
// states RotD50 is the median and RotD100 the maximum, both of which
// this convention satisfies.
func percentile(values []float64, p float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if p >= 100 {
		return sorted[n-1]
	}
	rank := int(math.Ceil(p / 100 * float64(n)))
	if rank < 1 {
		rank = 1
	}
	if rank > n {
		rank = n
	}
	return sorted[rank-1]
}
