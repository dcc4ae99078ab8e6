package rotate

import (
	"math"
	"testing"
)

func TestRotateZeroAngleIsH1(t *testing.T) {
	h1 := []float64{1, 2, 3}
	h2 := []float64{4, 5, 6}
	out := Rotate(h1, h2, 0)
	for i := range h1 {
		if math.Abs(out[i]-h1[i]) > 1e-9 {
			t.Errorf("Rotate(0) index %d = %v, want %v", i, out[i], h1[i])
		}
	}
}

func TestRotateRightAngleIsH2(t *testing.T) {
	h1 := []float64{1, 2, 3}
	h2 := []float64{4, 5, 6}
	out := Rotate(h1, h2, math.Pi/2)
	for i := range h2 {
		if math.Abs(out[i]-h2[i]) > 1e-6 {
			t.Errorf("Rotate(pi/2) index %d = %v, want %v", i, out[i], h2[i])
		}
	}
}

func TestAngleDegreesCovers180Angles(t *testing.T) {
	angles := AngleDegrees()
	if len(angles) != 180 {
		t.Fatalf("AngleDegrees() len = %d, want 180", len(angles))
	}
	if angles[0] != 0 || angles[179] != 179 {
		t.Errorf("AngleDegrees() bounds = [%d, %d], want [0, 179]", angles[0], angles[179])
	}
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

func TestRotD50IsBetweenMinAndMax(t *testing.T) {
	h1 := []float64{1, 2, -3, 4, -5, 6, -2, 1}
	h2 := []float64{2, -1, 3, -4, 5, -6, 1, -1}

	var minVal, maxVal float64 = math.Inf(1), math.Inf(-1)
	for _, deg := range AngleDegrees() {
		theta := float64(deg) * math.Pi / 180
		v := peakAbs(Rotate(h1, h2, theta))
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}

	rotd50 := RotD(h1, h2, 50, peakAbs)
	rotd100 := RotD(h1, h2, 100, peakAbs)

	if rotd50 < minVal-1e-9 || rotd50 > maxVal+1e-9 {
		t.Errorf("RotD50 = %v, want within [%v, %v]", rotd50, minVal, maxVal)
	}
	if math.Abs(rotd100-maxVal) > 1e-9 {
		t.Errorf("RotD100 = %v, want max %v", rotd100, maxVal)
	}
}

func TestSDOFZeroInputProducesZeroResponse(t *testing.T) {
	a := make([]float64, 100)
	result := SDOF(a, 0.01, 1.0, 0.05)
	if result.SA() != 0 {
		t.Errorf("SDOF(zero input).SA() = %v, want 0", result.SA())
	}
}

func TestSDOFRespondsToImpulse(t *testing.T) {
	a := make([]float64, 500)
	a[10] = 100
	result := SDOF(a, 0.01, 0.5, 0.05)
	if result.SA() <= 0 {
		t.Error("SDOF should respond with nonzero SA to an impulse input")
	}
	if len(result.RelativeDisplacement) != len(a) && result.Dt == 0.01 {
		t.Errorf("SDOF output length = %d, want %d when no resampling occurs", len(result.RelativeDisplacement), len(a))
	}
}

func TestSDOFResamplesForCoarseTimestep(t *testing.T) {
	a := make([]float64, 50)
	a[5] = 1
	// dt=0.1s against a very short period forces the resample branch.
	result := SDOF(a, 0.1, 0.05, 0.05)
	if result.Dt >= 0.1 {
		t.Errorf("SDOF resampled Dt = %v, want finer than input 0.1", result.Dt)
	}
}
