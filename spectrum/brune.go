package spectrum

import "math"

// BruneResult is the two-parameter omega-squared source-spectrum fit
// described by Omega(f) = Omega0 / (1 + (f/fc)^2).
type BruneResult struct {
	Omega0   float64
	CornerHz float64
	Misfit   float64 // RMS log-amplitude residual over the fit band
}

// FitBrune fits (freq, disp), a displacement-spectrum amplitude
// curve restricted by the caller to the SNR-acceptable band, using a
// small fixed number of Gauss-Newton iterations on the log-amplitude
// residual. No external optimizer is used: no solver library appears
// anywhere in the retrieved example pack, so small explicit numeric
// loops are preferred over pulling one in.
func FitBrune(freq, disp []float64, initOmega0, initFc float64) BruneResult {
	omega0, fc := initOmega0, initFc
	if omega0 <= 0 {
		omega0 = maxOf(disp)
	}
	if fc <= 0 {
		fc = 1.0
	}

	const iterations = 30
	const step = 1e-6

	for iter := 0; iter < iterations; iter++ {
		residual := func(o0, f0 float64) []float64 {
			r := make([]float64, len(freq))
			for i, f := range freq {
				if disp[i] <= 0 {
					continue
				}
				model := o0 / (1 + (f/f0)*(f/f0))
				if model <= 0 {
					model = 1e-30
				}
				r[i] = math.Log10(disp[i]) - math.Log10(model)
			}
			return r
		}

		r0 := residual(omega0, fc)
		rO := residual(omega0+step, fc)
		rF := residual(omega0, fc+step)

		var jtjOO, jtjFF, jtjOF, jtrO, jtrF float64
		for i := range r0 {
			dO := (rO[i] - r0[i]) / step
			dF := (rF[i] - r0[i]) / step
			jtjOO += dO * dO
			jtjFF += dF * dF
			jtjOF += dO * dF
			jtrO += dO * r0[i]
			jtrF += dF * r0[i]
		}

		det := jtjOO*jtjFF - jtjOF*jtjOF
		if math.Abs(det) < 1e-20 {
			break
		}
		deltaO := (jtjFF*(-jtrO) - jtjOF*(-jtrF)) / det
		deltaF := (jtjOO*(-jtrF) - jtjOF*(-jtrO)) / det

		omega0 += deltaO
		fc += deltaF
		if fc <= 0 {
			fc = 0.01
		}
		if omega0 <= 0 {
			omega0 = 1e-10
		}
	}

	final := residual2(freq, disp, omega0, fc)
	var sumSq float64
	for _, r := range final {
		sumSq += r * r
	}
	misfit := math.Sqrt(sumSq / float64(maxInt(1, len(final))))

	return BruneResult{Omega0: omega0, CornerHz: fc, Misfit: misfit}
}

func residual2(freq, disp []float64, o0, f0 float64) []float64 {
	r := make([]float64, len(freq))
	for i, f := range freq {
		if disp[i] <= 0 {
			continue
		}
		model := o0 / (1 + (f/f0)*(f/f0))
		if model <= 0 {
			model = 1e-30
		}
		r[i] = math.Log10(disp[i]) - math.Log10(model)
	}
	return r
}

func maxOf(xs []float64) float64 {
	m := 0.0
	for _, x := range xs {
		if x > m {
			m = x
		}
	}
	return m
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
