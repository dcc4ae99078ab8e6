package metrics

import (
	"math"
	"testing"
)

func TestPGAConvertsToPercentG(t *testing.T) {
	accel := []float64{0, gravityCmS2, -gravityCmS2 / 2}
	got := PGA(accel)
	want := 100.0
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("PGA() = %v, want %v", got, want)
	}
}

func TestPGVAndPGDArePeakAbsolute(t *testing.T) {
	if got := PGV([]float64{1, -5, 3}); got != 5 {
		t.Errorf("PGV() = %v, want 5", got)
	}
	if got := PGD([]float64{-2, 1, -9, 4}); got != 9 {
		t.Errorf("PGD() = %v, want 9", got)
	}
}

func TestAriasIntensityNonNegative(t *testing.T) {
	accel := make([]float64, 200)
	for i := range accel {
		accel[i] = math.Sin(float64(i) * 0.1)
	}
	got := AriasIntensity(accel, 0.01)
	if got < 0 {
		t.Errorf("AriasIntensity() = %v, want >= 0", got)
	}
}

func TestAriasHistoryIsNonDecreasing(t *testing.T) {
	accel := make([]float64, 100)
	for i := range accel {
		accel[i] = 50 * math.Sin(float64(i)*0.2)
	}
	hist := AriasHistory(accel, 0.01)
	for i := 1; i < len(hist); i++ {
		if hist[i] < hist[i-1]-1e-12 {
			t.Fatalf("AriasHistory not monotonic at index %d: %v then %v", i, hist[i-1], hist[i])
		}
	}
}

func TestDurationWithinTraceLength(t *testing.T) {
	n := 500
	dt := 0.01
	accel := make([]float64, n)
	for i := range accel {
		accel[i] = 30 * math.Sin(float64(i)*0.3)
	}
	d := Duration(accel, dt, 5, 95)
	if math.IsNaN(d) {
		t.Fatal("Duration() = NaN, want a finite value for an oscillating signal")
	}
	if d < 0 || d > float64(n)*dt {
		t.Errorf("Duration() = %v, want within [0, %v]", d, float64(n)*dt)
	}
}

func TestPeriodsLinearSpacing(t *testing.T) {
	got := Periods(PeriodConfig{Start: 0, Stop: 1, Num: 3, Spacing: SpacingLinear})
	want := []float64{0, 0.5, 1}
	if len(got) != len(want) {
		t.Fatalf("Periods() len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("Periods()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestPeriodsUnionsDefinedArray(t *testing.T) {
	got := Periods(PeriodConfig{UseArray: true, DefinedPeriods: []float64{1.0, 0.3, 0.3}})
	want := []float64{0.3, 1.0}
	if len(got) != len(want) {
		t.Fatalf("Periods() len = %d, want %d (duplicates deduped)", len(got), len(want))
	}
}

func TestCombineGreaterOfTwoHorizontals(t *testing.T) {
	got, err := Combine(IMCGreaterOfTwoHorizontals, nil, nil, 3, -7, 0, nil, nil)
	if err != nil {
		t.Fatalf("Combine: %v", err)
	}
	if got != 7 {
		t.Errorf("Combine(greater_of_two_horizontals) = %v, want 7", got)
	}
}

func TestCombineGeometricMean(t *testing.T) {
	got, err := Combine(IMCGeometricMean, nil, nil, 4, 9, 0, nil, nil)
	if err != nil {
		t.Fatalf("Combine: %v", err)
	}
	if math.Abs(got-6) > 1e-9 {
		t.Errorf("Combine(geometric_mean) = %v, want 6", got)
	}
}

func TestCombineRotDRequiresMetricFn(t *testing.T) {
	if _, err := Combine(IMCRotD, []float64{1, 2}, []float64{1, 2}, 0, 0, 50, nil, nil); err == nil {
		t.Fatal("expected error when rotd is requested without a metric function")
	}
}

func TestCombineRadialTransverseRejectsNonOrthogonal(t *testing.T) {
	orientation := &OrientationCheck{H1AzimuthDeg: 0, H2AzimuthDeg: 45, BackAzimuthDeg: 10}
	if _, err := Combine(IMCRadialTransverse, []float64{1, 2}, []float64{1, 2}, 0, 0, 0, nil, orientation); err == nil {
		t.Fatal("expected error for non-orthogonal horizontals")
	}
}

func TestCombineRadialTransverseAcceptsOrthogonal(t *testing.T) {
	orientation := &OrientationCheck{H1AzimuthDeg: 0, H2AzimuthDeg: 90, BackAzimuthDeg: 0}
	h1 := []float64{1, 2, 3, 4}
	h2 := []float64{4, 3, 2, 1}
	if _, err := Combine(IMCRadialTransverse, h1, h2, 0, 0, 0, nil, orientation); err != nil {
		t.Errorf("Combine(radial_transverse): %v", err)
	}
}

func TestSAIsNonNegative(t *testing.T) {
	accel := make([]float64, 300)
	accel[5] = 100
	got := SA(accel, 0.01, 0.5, 0.05)
	if got < 0 {
		t.Errorf("SA() = %v, want >= 0", got)
	}
}
