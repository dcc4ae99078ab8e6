// Package snr implements per-channel SNR curves,
// the SNR threshold QA check, and corner-frequency (passband)
// selection. The same_horiz min/max-across-channels logic uses
// samber/lo's Min/Max the way qa.go uses it over a set of per-ping
// values.
package snr

import (
	"math"

	"github.com/samber/lo"
	"github.com/smcore/go-strongmotion/spectrum"
)

// Curve is a per-frequency signal-to-noise ratio.
type Curve struct {
	Freq []float64
	SNR  []float64
}

// Compute builds smoothed signal and noise spectra with Konno-Ohmachi
// smoothing (bandwidth b) and returns their elementwise ratio.
func Compute(signal, noise []float64, dt float64, targetFreq []float64, b float64) Curve {
	sf, sa := spectrum.FFT(signal, dt)
	nf, na := spectrum.FFT(noise, dt)

	sMag := spectrum.Magnitude(sa)
	nMag := spectrum.Magnitude(na)

	sSmooth := spectrum.Smooth(sf, sMag, targetFreq, b)
	nSmooth := spectrum.Smooth(nf, nMag, targetFreq, b)

	curve := Curve{Freq: targetFreq, SNR: make([]float64, len(targetFreq))}
	for i := range targetFreq {
		if nSmooth[i] == 0 || math.IsNaN(nSmooth[i]) {
			curve.SNR[i] = math.NaN()
			continue
		}
		curve.SNR[i] = sSmooth[i] / nSmooth[i]
	}
	return curve
}

// Check requires SNR(f) >= threshold across [minFreq, maxFreq]. Returns
// false with a fixed reason string matching concrete
// scenario 2 when the check fails.
func Check(c Curve, threshold, minFreq, maxFreq float64) (ok bool, reason string) {
	any := false
	for i, f := range c.Freq {
		if f < minFreq || f > maxFreq {
			continue
		}
		any = true
		if math.IsNaN(c.SNR[i]) || c.SNR[i] < threshold {
			return false, "Failed SNR check; SNR less than threshold."
		}
	}
	if !any {
		return false, "Failed SNR check; SNR less than threshold."
	}
	return true, ""
}

// CornerFrequencies is the chosen highpass/lowpass passband.
type CornerFrequencies struct {
	Highpass float64
	Lowpass  float64
}

// SelectConstant returns the configured constant passband unchanged
//.
func SelectConstant(highpass, lowpass float64) CornerFrequencies {
	return CornerFrequencies{Highpass: highpass, Lowpass: lowpass}
}

// SelectSNR searches c for the widest passband [fH, fL] where
// SNR(f) >= threshold throughout.
func SelectSNR(c Curve, threshold float64) CornerFrequencies {
	var best CornerFrequencies
	bestWidth := -1.0

	n := len(c.Freq)
	for i := 0; i < n; i++ {
		if c.SNR[i] < threshold || math.IsNaN(c.SNR[i]) {
			continue
		}
		j := i
		for j+1 < n && c.SNR[j+1] >= threshold && !math.IsNaN(c.SNR[j+1]) {
			j++
		}
		width := c.Freq[j] - c.Freq[i]
		if width > bestWidth {
			bestWidth = width
			best = CornerFrequencies{Highpass: c.Freq[i], Lowpass: c.Freq[j]}
		}
		i = j
	}
	return best
}

// CombineSameHoriz applies same_horiz rule: take
// max(fH_1, fH_2) and min(fL_1, fL_2) across the two horizontal
// channels, using samber/lo the same way qa.go combines
// per-ping scalar extrema.
func CombineSameHoriz(a, b CornerFrequencies) CornerFrequencies {
	return CornerFrequencies{
		Highpass: lo.Max([]float64{a.Highpass, b.Highpass}),
		Lowpass:  lo.Min([]float64{a.Lowpass, b.Lowpass}),
	}
}

// LowpassMaxFrequency caps fL at fnFac * Nyquist.
func LowpassMaxFrequency(fL, samplingRate, fnFac float64) float64 {
	nyquist := samplingRate / 2
	maxAllowed := fnFac * nyquist
	if fL > maxAllowed {
		return maxAllowed
	}
	return fL
}
