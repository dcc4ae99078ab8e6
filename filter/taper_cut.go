package filter

import "math"

// TaperSide selects which end(s) of the trace a Hann taper is applied
// to.
type TaperSide string

const (
	TaperBoth  TaperSide = "both"
	TaperLeft  TaperSide = "left"
	TaperRight TaperSide = "right"
)

// Taper applies a Hann window over fraction w of the trace length to
// the given side(s), in place semantics (returns a new slice; callers
// replace the trace's data buffer).
func Taper(x []float64, w float64, side TaperSide) []float64 {
	n := len(x)
	out := make([]float64, n)
	copy(out, x)
	taperLen := int(w * float64(n))
	if taperLen < 1 {
		return out
	}

	hann := func(i, length int) float64 {
		return 0.5 * (1 - math.Cos(math.Pi*float64(i)/float64(length-1)))
	}

	if side == TaperLeft || side == TaperBoth {
		for i := 0; i < taperLen && i < n; i++ {
			out[i] *= hann(i, taperLen)
		}
	}
	if side == TaperRight || side == TaperBoth {
		for i := 0; i < taperLen && i < n; i++ {
			out[n-1-i] *= hann(i, taperLen)
		}
	}
	return out
}

// Cut drops every sample before splitTime-secBeforeSplit, expressed in
// seconds from the trace start at the given sampling rate.
func Cut(x []float64, samplingRate, splitTimeS, secBeforeSplit float64) []float64 {
	cutTimeS := splitTimeS - secBeforeSplit
	if cutTimeS <= 0 {
		return x
	}
	idx := int(cutTimeS * samplingRate)
	if idx >= len(x) {
		return nil
	}
	return x[idx:]
}
