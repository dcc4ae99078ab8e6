// Package filter implements Butterworth highpass
// and lowpass filtering, Hann tapering, cut, and detrend methods
// including the sixth-order baseline correction. No DSP library
// appears anywhere in the retrieved example pack, so filter design
// and application are hand-rolled in an explicit-loop
// style (see DESIGN.md).
package filter

import "math"

// Pass selects causal (one-pass) vs zero-phase (forward+reverse,
// "two-pass") Butterworth application.
type Pass int

const (
	Causal    Pass = 1
	ZeroPhase Pass = 2
)

// biquad is one second-order IIR section in direct form II transposed.
type biquad struct {
	b0, b1, b2 float64
	a1, a2     float64
	z1, z2     float64
}

func (f *biquad) reset() { f.z1, f.z2 = 0, 0 }

func (f *biquad) step(x float64) float64 {
	y := f.b0*x + f.z1
	f.z1 = f.b1*x - f.a1*y + f.z2
	f.z2 = f.b2*x - f.a2*y
	return y
}

// designButterworthSection builds one second-order Butterworth section
// for pole index k of n (bilinear-transform design) at cutoff fc Hz,
// sample rate fs Hz. highpass selects HP vs LP response.
func designButterworthSection(k, n int, fc, fs float64, highpass bool) biquad {
	// Pre-warp the cutoff for the bilinear transform.
	wc := 2 * fs * math.Tan(math.Pi*fc/fs)
	theta := math.Pi * (2*float64(k) + 1) / (2 * float64(n))

	// Analog prototype pole for a Butterworth filter of order n.
	poleRe := -wc * math.Sin(theta)
	poleIm := wc * math.Cos(theta)

	t := 1.0 / fs
	// Bilinear transform of the single real-coefficient analog pole
	// pair collapsed into a second-order discrete section.
	normRe := (2/t - poleRe)
	normIm := -poleIm
	denomMagSq := normRe*normRe + normIm*normIm

	a0 := denomMagSq
	a1raw := 2 * (poleRe*poleRe + poleIm*poleIm - (2/t)*(2/t))
	a2raw := (2/t+poleRe)*(2/t+poleRe) + poleIm*poleIm

	var b0, b1, b2 float64
	if highpass {
		b0, b1, b2 = 1, -2, 1
	} else {
		b0, b1, b2 = 1, 2, 1
	}

	sec := biquad{
		b0: b0 / a0,
		b1: b1 / a0,
		b2: b2 / a0,
		a1: a1raw / a0,
		a2: a2raw / a0,
	}
	return sec
}

// Butterworth applies an n-th order Butterworth filter at cutoff fc
// Hz to x sampled at fs Hz, run as n/2 cascaded biquad sections
// (n assumed even, the common case for this pipeline's HP/LP steps).
// pass selects causal vs zero-phase application.
func Butterworth(x []float64, fc, fs float64, n int, highpass bool, pass Pass) []float64 {
	sections := n / 2
	if sections < 1 {
		sections = 1
	}

	apply := func(in []float64) []float64 {
		out := make([]float64, len(in))
		copy(out, in)
		for k := 0; k < sections; k++ {
			sec := designButterworthSection(k, sections*2, fc, fs, highpass)
			for i, v := range out {
				out[i] = sec.step(v)
			}
		}
		return out
	}

	out := apply(x)
	if pass == ZeroPhase {
		reverse(out)
		out = apply(out)
		reverse(out)
	}
	return out
}

func reverse(x []float64) {
	for i, j := 0, len(x)-1; i < j; i, j = i+1, j-1 {
		x[i], x[j] = x[j], x[i]
	}
}
