package metrics

import (
	"math"
	"strconv"

	"github.com/smcore/go-strongmotion/rotate"
)

// IMT identifies one of intensity measure types.
type IMT string

const (
	IMTPGA            IMT = "PGA"
	IMTPGV            IMT = "PGV"
	IMTPGD            IMT = "PGD"
	IMTSA             IMT = "SA"
	IMTFAS            IMT = "FAS"
	IMTArias          IMT = "Arias"
	IMTDuration       IMT = "Duration"
	IMTSortedDuration IMT = "SortedDuration"
)

// imtSupport is the IMT x IMC support matrix, literally.
var imtSupport = map[IMC]map[IMT]bool{
	IMCChannels: {
		IMTPGA: true, IMTPGV: true, IMTPGD: true, IMTSA: true, IMTFAS: true,
		IMTArias: true, IMTDuration: true, IMTSortedDuration: true,
	},
	IMCGreaterOfTwoHorizontals: {
		IMTPGA: true, IMTPGV: true, IMTPGD: true, IMTSA: true,
		IMTDuration: true, IMTSortedDuration: true,
	},
	IMCGeometricMean: {
		IMTPGA: true, IMTPGV: true, IMTPGD: true, IMTSA: true, IMTFAS: true,
		IMTDuration: true, IMTSortedDuration: true,
	},
	IMCArithmeticMean: {
		IMTPGA: true, IMTPGV: true, IMTPGD: true, IMTSA: true, IMTFAS: true,
		IMTArias: true, IMTDuration: true, IMTSortedDuration: true,
	},
	IMCQuadraticMean: {
		IMTPGA: true, IMTPGV: true, IMTPGD: true, IMTSA: true, IMTFAS: true,
		IMTDuration: true, IMTSortedDuration: true,
	},
	IMCRotD: {
		IMTPGA: true, IMTPGV: true, IMTPGD: true, IMTSA: true,
		IMTDuration: true, IMTSortedDuration: true,
	},
	IMCGMRotD: {
		IMTPGA: true, IMTPGV: true, IMTPGD: true, IMTSA: true,
		IMTDuration: true, IMTSortedDuration: true,
	},
	IMCRadialTransverse: {
		IMTPGA: true, IMTPGV: true, IMTPGD: true, IMTSA: true,
		IMTDuration: true, IMTSortedDuration: true,
	},
}

// Supports reports whether imc produces imt, per the fixed matrix.
func Supports(imc IMC, imt IMT) bool {
	return imtSupport[imc][imt]
}

// ChannelSeries holds the acceleration/velocity/displacement series
// for one recorded channel, already in the units the IMT functions
// expect (cm/s^2, cm/s, cm respectively).
type ChannelSeries struct {
	Code       string // "H1", "H2", or "Z"
	AzimuthDeg float64
	AccelCmS2  []float64
	VelCmS     []float64
	DispCm     []float64
	Dt         float64
}

// DurationInterval is one configured (lo, hi) percentile pair, e.g.
// {5, 75} or {5, 95}.
type DurationInterval struct {
	LoPct, HiPct float64
}

// MatrixConfig is the evaluated subset of the metrics config block
// needed to run the matrix for one stream.
type MatrixConfig struct {
	IMCs              []IMC
	SAPeriods         []float64
	SADamping         float64
	FASFreqs          []float64
	FASBandwidth      float64
	DurationIntervals []DurationInterval
	RotDPercentile    float64
	GMRotDPercentile  float64
	Orientation       *OrientationCheck
}

// ScalarValue is one IMC's result for a scalar IMT (PGA, PGV, PGD,
// Arias), or one (IMC, interval) result for Duration/SortedDuration.
type ScalarValue struct {
	IMC       IMC
	Component string // channel code ("H1", "H2", "Z") when IMC == IMCChannels, empty otherwise
	Label     string // duration interval label, e.g. "5-75"; empty otherwise
	Value     float64
}

// PeriodValue is one IMC's result at one period/frequency, for SA/FAS.
type PeriodValue struct {
	IMC       IMC
	Component string // channel code when IMC == IMCChannels, empty otherwise
	Period    float64
	Value     float64
}

// Table is the complete evaluated matrix for one stream/label.
type Table struct {
	PGA   []ScalarValue
	PGV   []ScalarValue
	PGD   []ScalarValue
	Arias []ScalarValue
	SA    []PeriodValue
	FAS   []PeriodValue

	Duration       []ScalarValue
	SortedDuration []ScalarValue
}

// Evaluate runs the configured IMCs across all IMTs they support, over
// channels (typically H1, H2, and optionally Z), returning the full
// per-stream Table.
func Evaluate(channels []ChannelSeries, cfg MatrixConfig) Table {
	var h1, h2, z *ChannelSeries
	for i := range channels {
		switch channels[i].Code {
		case "H1":
			h1 = &channels[i]
		case "H2":
			h2 = &channels[i]
		case "Z":
			z = &channels[i]
		}
	}

	var table Table
	for _, imc := range cfg.IMCs {
		if imc == IMCChannels {
			for _, c := range channels {
				evaluateSingleChannel(&table, c, imc, cfg)
			}
			continue
		}
		if h1 == nil || h2 == nil {
			continue // horizontal-combination IMCs require both horizontals
		}
		evaluateHorizontalCombo(&table, *h1, *h2, imc, cfg)
	}
	return table
}

func evaluateSingleChannel(table *Table, c ChannelSeries, imc IMC, cfg MatrixConfig) {
	if Supports(imc, IMTPGA) {
		table.PGA = append(table.PGA, ScalarValue{IMC: imc, Component: c.Code, Value: PGA(c.AccelCmS2)})
	}
	if Supports(imc, IMTPGV) {
		table.PGV = append(table.PGV, ScalarValue{IMC: imc, Component: c.Code, Value: PGV(c.VelCmS)})
	}
	if Supports(imc, IMTPGD) {
		table.PGD = append(table.PGD, ScalarValue{IMC: imc, Component: c.Code, Value: PGD(c.DispCm)})
	}
	if Supports(imc, IMTArias) {
		table.Arias = append(table.Arias, ScalarValue{IMC: imc, Component: c.Code, Value: AriasIntensity(c.AccelCmS2, c.Dt)})
	}
	if Supports(imc, IMTSA) {
		for _, t := range cfg.SAPeriods {
			table.SA = append(table.SA, PeriodValue{IMC: imc, Component: c.Code, Period: t, Value: SA(c.AccelCmS2, c.Dt, t, cfg.SADamping)})
		}
	}
	if Supports(imc, IMTFAS) {
		fas := FAS(c.AccelCmS2, c.Dt, cfg.FASFreqs, cfg.FASBandwidth)
		for i, f := range cfg.FASFreqs {
			table.FAS = append(table.FAS, PeriodValue{IMC: imc, Component: c.Code, Period: f, Value: fas[i]})
		}
	}
	appendDurations(table, c.AccelCmS2, c.Dt, imc, c.Code, cfg)
}

func evaluateHorizontalCombo(table *Table, h1, h2 ChannelSeries, imc IMC, cfg MatrixConfig) {
	dt := h1.Dt

	if Supports(imc, IMTPGA) {
		v, err := Combine(imc, h1.AccelCmS2, h2.AccelCmS2, PGA(h1.AccelCmS2), PGA(h2.AccelCmS2), cfg.percentileFor(imc), PGA, cfg.Orientation)
		if err == nil {
			table.PGA = append(table.PGA, ScalarValue{IMC: imc, Value: v})
		}
	}
	if Supports(imc, IMTPGV) {
		v, err := Combine(imc, h1.VelCmS, h2.VelCmS, PGV(h1.VelCmS), PGV(h2.VelCmS), cfg.percentileFor(imc), PGV, cfg.Orientation)
		if err == nil {
			table.PGV = append(table.PGV, ScalarValue{IMC: imc, Value: v})
		}
	}
	if Supports(imc, IMTPGD) {
		v, err := Combine(imc, h1.DispCm, h2.DispCm, PGD(h1.DispCm), PGD(h2.DispCm), cfg.percentileFor(imc), PGD, cfg.Orientation)
		if err == nil {
			table.PGD = append(table.PGD, ScalarValue{IMC: imc, Value: v})
		}
	}
	if Supports(imc, IMTArias) {
		v, err := Combine(imc, h1.AccelCmS2, h2.AccelCmS2, AriasIntensity(h1.AccelCmS2, dt), AriasIntensity(h2.AccelCmS2, dt), cfg.percentileFor(imc), nil, cfg.Orientation)
		if err == nil {
			table.Arias = append(table.Arias, ScalarValue{IMC: imc, Value: v})
		}
	}
	if Supports(imc, IMTSA) {
		for _, t := range cfg.SAPeriods {
			v1 := SA(h1.AccelCmS2, dt, t, cfg.SADamping)
			v2 := SA(h2.AccelCmS2, dt, t, cfg.SADamping)
			v, err := Combine(imc, h1.AccelCmS2, h2.AccelCmS2, v1, v2, cfg.percentileFor(imc), saMetricFn(dt, t, cfg.SADamping), cfg.Orientation)
			if err == nil {
				table.SA = append(table.SA, PeriodValue{IMC: imc, Period: t, Value: v})
			}
		}
	}
	if Supports(imc, IMTFAS) {
		fas1 := FAS(h1.AccelCmS2, dt, cfg.FASFreqs, cfg.FASBandwidth)
		fas2 := FAS(h2.AccelCmS2, dt, cfg.FASFreqs, cfg.FASBandwidth)
		for i, f := range cfg.FASFreqs {
			v, err := Combine(imc, nil, nil, fas1[i], fas2[i], cfg.percentileFor(imc), nil, cfg.Orientation)
			if err == nil {
				table.FAS = append(table.FAS, PeriodValue{IMC: imc, Period: f, Value: v})
			}
		}
	}

	comboAccel := combinedAccelSeries(imc, h1, h2, cfg)
	if comboAccel != nil {
		appendDurations(table, comboAccel, dt, imc, "", cfg)
	}
}

// combinedAccelSeries builds a single acceleration time series for
// duration/sorted-duration, which operate on a whole Arias history
// rather than a single scalar peak (so Combine's scalar path does not
// apply directly).
func combinedAccelSeries(imc IMC, h1, h2 ChannelSeries, cfg MatrixConfig) []float64 {
	switch imc {
	case IMCArithmeticMean:
		return elementwiseCombine(h1.AccelCmS2, h2.AccelCmS2, func(a, b float64) float64 { return (a + b) / 2 })
	case IMCQuadraticMean:
		return elementwiseCombine(h1.AccelCmS2, h2.AccelCmS2, func(a, b float64) float64 {
			return signedSqrt((a*a + b*b) / 2)
		})
	case IMCGeometricMean:
		return elementwiseCombine(h1.AccelCmS2, h2.AccelCmS2, func(a, b float64) float64 {
			return signedSqrt(a * b)
		})
	case IMCGreaterOfTwoHorizontals:
		return elementwiseCombine(h1.AccelCmS2, h2.AccelCmS2, func(a, b float64) float64 {
			if absF(a) >= absF(b) {
				return a
			}
			return b
		})
	case IMCRadialTransverse:
		if cfg.Orientation == nil || !cfg.Orientation.withinTolerance() {
			return nil
		}
		return rotate.Rotate(h1.AccelCmS2, h2.AccelCmS2, cfg.Orientation.RadialAngleRad())
	case IMCRotD, IMCGMRotD:
		// Duration under RotD/GMRotD uses the rotation angle that
		// maximizes the scalar metric at the shortest configured SA
		// period as the representative component, per common practice;
		// with no SA period configured this IMC contributes no duration.
		if len(cfg.SAPeriods) == 0 {
			return nil
		}
		return bestRotationForDuration(imc, h1, h2, cfg)
	default:
		return nil
	}
}

func bestRotationForDuration(imc IMC, h1, h2 ChannelSeries, cfg MatrixConfig) []float64 {
	period := cfg.SAPeriods[0]
	metricFn := saMetricFn(h1.Dt, period, cfg.SADamping)
	best := 0
	bestVal := -1.0
	for deg := 0; deg < 180; deg++ {
		theta := float64(deg) * 3.141592653589793 / 180
		rotated := rotate.Rotate(h1.AccelCmS2, h2.AccelCmS2, theta)
		v := metricFn(rotated)
		if v > bestVal {
			bestVal = v
			best = deg
		}
	}
	theta := float64(best) * 3.141592653589793 / 180
	return rotate.Rotate(h1.AccelCmS2, h2.AccelCmS2, theta)
}

func appendDurations(table *Table, accel []float64, dt float64, imc IMC, component string, cfg MatrixConfig) {
	if !Supports(imc, IMTDuration) {
		return
	}
	for _, interval := range cfg.DurationIntervals {
		label := intervalLabel(interval)
		table.Duration = append(table.Duration, ScalarValue{IMC: imc, Component: component, Label: label, Value: Duration(accel, dt, interval.LoPct, interval.HiPct)})
		table.SortedDuration = append(table.SortedDuration, ScalarValue{IMC: imc, Component: component, Label: label, Value: SortedDuration(accel, dt, interval.LoPct, interval.HiPct)})
	}
}

func intervalLabel(i DurationInterval) string {
	return formatPct(i.LoPct) + "-" + formatPct(i.HiPct)
}

func formatPct(p float64) string {
	return strconv.FormatFloat(p, 'g', -1, 64)
}

func (c MatrixConfig) percentileFor(imc IMC) float64 {
	switch imc {
	case IMCGMRotD:
		return c.GMRotDPercentile
	default:
		return c.RotDPercentile
	}
}

func elementwiseCombine(a, b []float64, fn func(a, b float64) float64) []float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = fn(a[i], b[i])
	}
	return out
}

func signedSqrt(v float64) float64 {
	if v < 0 {
		return -math.Sqrt(-v)
	}
	return math.Sqrt(v)
}

func absF(v float64) float64 {
	return math.Abs(v)
}
