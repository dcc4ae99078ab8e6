package metrics

import "testing"

func sampleChannels() []ChannelSeries {
	n := 200
	accel := make([]float64, n)
	vel := make([]float64, n)
	disp := make([]float64, n)
	accel2 := make([]float64, n)
	for i := 0; i < n; i++ {
		accel[i] = float64(i%10) - 5
		accel2[i] = float64((i+3)%10) - 5
		vel[i] = float64(i) * 0.01
		disp[i] = float64(i) * 0.001
	}
	return []ChannelSeries{
		{Code: "H1", AzimuthDeg: 0, AccelCmS2: accel, VelCmS: vel, DispCm: disp, Dt: 0.01},
		{Code: "H2", AzimuthDeg: 90, AccelCmS2: accel2, VelCmS: vel, DispCm: disp, Dt: 0.01},
	}
}

func TestSupportsMatchesFixedMatrix(t *testing.T) {
	if !Supports(IMCChannels, IMTPGA) {
		t.Error("IMCChannels should support PGA")
	}
	if Supports(IMCGreaterOfTwoHorizontals, IMTFAS) {
		t.Error("IMCGreaterOfTwoHorizontals should not support FAS")
	}
}

func TestEvaluateSingleChannelIMC(t *testing.T) {
	cfg := MatrixConfig{IMCs: []IMC{IMCChannels}, SAPeriods: []float64{0.3}}
	table := Evaluate(sampleChannels(), cfg)
	if len(table.PGA) != 2 {
		t.Errorf("PGA entries = %d, want 2 (one per channel)", len(table.PGA))
	}
	if len(table.SA) != 2 {
		t.Errorf("SA entries = %d, want 2", len(table.SA))
	}
}

func TestEvaluateGeometricMeanIMC(t *testing.T) {
	cfg := MatrixConfig{IMCs: []IMC{IMCGeometricMean}, SAPeriods: []float64{0.3}}
	table := Evaluate(sampleChannels(), cfg)
	if len(table.PGA) != 1 {
		t.Fatalf("PGA entries = %d, want 1", len(table.PGA))
	}
	if table.PGA[0].IMC != IMCGeometricMean {
		t.Errorf("PGA[0].IMC = %v, want %v", table.PGA[0].IMC, IMCGeometricMean)
	}
}

func TestEvaluateSkipsHorizontalCombosWithoutBothChannels(t *testing.T) {
	channels := sampleChannels()[:1] // only H1
	cfg := MatrixConfig{IMCs: []IMC{IMCGeometricMean}}
	table := Evaluate(channels, cfg)
	if len(table.PGA) != 0 {
		t.Errorf("expected no horizontal-combination output without both horizontals, got %d", len(table.PGA))
	}
}

func TestEvaluateDurationIntervals(t *testing.T) {
	cfg := MatrixConfig{
		IMCs:              []IMC{IMCArithmeticMean},
		DurationIntervals: []DurationInterval{{LoPct: 5, HiPct: 75}, {LoPct: 5, HiPct: 95}},
	}
	table := Evaluate(sampleChannels(), cfg)
	if len(table.Duration) != 2 {
		t.Errorf("Duration entries = %d, want 2", len(table.Duration))
	}
	if table.Duration[0].Label != "5-75" {
		t.Errorf("Duration[0].Label = %q, want 5-75", table.Duration[0].Label)
	}
}
