package metrics

import (
	"math"
	"sort"
)

// PeriodSpacing selects how Periods expands a (start, stop, num) range.
type PeriodSpacing string

const (
	SpacingLinear      PeriodSpacing = "lin"
	SpacingLogarithmic PeriodSpacing = "log"
)

// PeriodConfig mirrors the metrics.sa.periods / metrics.fas.periods
// config block: a generated range plus an optional
// explicit set, unioned together.
type PeriodConfig struct {
	Start         float64
	Stop          float64
	Num           int
	Spacing       PeriodSpacing
	UseArray      bool
	DefinedPeriods []float64
}

// Periods expands a PeriodConfig into the concrete sorted period list
// evaluated by SA/FAS.
func Periods(cfg PeriodConfig) []float64 {
	var out []float64
	if cfg.Num > 0 {
		out = make([]float64, cfg.Num)
		if cfg.Spacing == SpacingLogarithmic {
			logStart, logStop := math.Log10(cfg.Start), math.Log10(cfg.Stop)
			step := (logStop - logStart) / float64(maxInt1(cfg.Num-1, 1))
			for i := 0; i < cfg.Num; i++ {
				out[i] = math.Pow(10, logStart+step*float64(i))
			}
		} else {
			step := (cfg.Stop - cfg.Start) / float64(maxInt1(cfg.Num-1, 1))
			for i := 0; i < cfg.Num; i++ {
				out[i] = cfg.Start + step*float64(i)
			}
		}
	}
	if cfg.UseArray {
		out = append(out, cfg.DefinedPeriods...)
	}
	return dedupeSorted(out)
}

func maxInt1(v, floor int) int {
	if v < floor {
		return floor
	}
	return v
}

func dedupeSorted(x []float64) []float64 {
	sort.Float64s(x)
	out := x[:0:0]
	for i, v := range x {
		if i == 0 || v != x[i-1] {
			out = append(out, v)
		}
	}
	return out
}
