package spectrum

import (
	"math"
	"testing"
)

func TestFFTBinCountAndNyquist(t *testing.T) {
	x := make([]float64, 100)
	dt := 0.01
	freq, amp := FFT(x, dt)
	if len(freq) != len(amp) {
		t.Fatalf("freq/amp length mismatch: %d vs %d", len(freq), len(amp))
	}
	n := nextPow2(len(x))
	wantBins := n/2 + 1
	if len(freq) != wantBins {
		t.Errorf("FFT bin count = %d, want %d", len(freq), wantBins)
	}
	if freq[0] != 0 {
		t.Errorf("FFT freq[0] = %v, want 0", freq[0])
	}
	nyquist := 1.0 / (2 * dt)
	if math.Abs(freq[len(freq)-1]-nyquist) > 1e-6 {
		t.Errorf("FFT nyquist bin = %v, want %v", freq[len(freq)-1], nyquist)
	}
}

func TestFFTRecoversSineFrequency(t *testing.T) {
	fs := 100.0
	dt := 1.0 / fs
	n := 256
	freqHz := 10.0
	x := make([]float64, n)
	for i := range x {
		x[i] = math.Sin(2 * math.Pi * freqHz * float64(i) * dt)
	}
	freq, amp := FFT(x, dt)
	mag := Magnitude(amp)

	peakIdx := 0
	for i, m := range mag {
		if m > mag[peakIdx] {
			peakIdx = i
		}
	}
	if math.Abs(freq[peakIdx]-freqHz) > freq[1] {
		t.Errorf("FFT peak at %v Hz, want close to %v Hz", freq[peakIdx], freqHz)
	}
}

func TestSmoothLengthMatchesTarget(t *testing.T) {
	srcFreq := []float64{0.1, 0.5, 1, 2, 5, 10}
	srcAmp := []float64{1, 2, 3, 2, 1, 0.5}
	target := []float64{0.2, 1, 3, 8}
	out := Smooth(srcFreq, srcAmp, target, 20)
	if len(out) != len(target) {
		t.Fatalf("Smooth() len = %d, want %d", len(out), len(target))
	}
}

func TestSmoothAtSourcePointApproximatesValue(t *testing.T) {
	srcFreq := make([]float64, 200)
	srcAmp := make([]float64, 200)
	for i := range srcFreq {
		srcFreq[i] = 0.05 * float64(i+1)
		srcAmp[i] = 5.0
	}
	out := Smooth(srcFreq, srcAmp, []float64{2.5}, 40)
	if math.IsNaN(out[0]) {
		t.Fatal("Smooth() returned NaN for a frequency well inside the source range")
	}
	if math.Abs(out[0]-5.0) > 0.5 {
		t.Errorf("Smooth() on a flat spectrum = %v, want ~5.0", out[0])
	}
}

func TestSmoothOutsideRangeIsNaN(t *testing.T) {
	srcFreq := []float64{1, 2, 3}
	srcAmp := []float64{1, 1, 1}
	out := Smooth(srcFreq, srcAmp, []float64{1000}, 20)
	if !math.IsNaN(out[0]) {
		t.Errorf("Smooth() far outside source range = %v, want NaN", out[0])
	}
}

func TestFitBruneRecoversKnownCorner(t *testing.T) {
	trueOmega0 := 10.0
	trueFc := 2.0
	freq := make([]float64, 40)
	disp := make([]float64, 40)
	for i := range freq {
		f := 0.1 * float64(i+1)
		freq[i] = f
		disp[i] = trueOmega0 / (1 + (f/trueFc)*(f/trueFc))
	}
	result := FitBrune(freq, disp, 0, 0)
	if math.Abs(result.CornerHz-trueFc) > 0.5 {
		t.Errorf("FitBrune corner = %v, want close to %v", result.CornerHz, trueFc)
	}
	if math.Abs(result.Omega0-trueOmega0) > 2.0 {
		t.Errorf("FitBrune omega0 = %v, want close to %v", result.Omega0, trueOmega0)
	}
	if result.Misfit > 0.1 {
		t.Errorf("FitBrune misfit = %v, want a near-perfect fit on noiseless data", result.Misfit)
	}
}
