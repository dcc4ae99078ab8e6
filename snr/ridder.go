package snr

import "math"

// RidderParams configures the optional highpass adjustment
// (adjust_highpass_ridder).
type RidderParams struct {
	StepFactor            float64
	MaximumFreq           float64
	MaxFinalDisplacement  float64
	MaxDisplacementRatio  float64
	MaxIterations         int
}

// ProcessFunc filters+baseline-corrects acceleration at a trial
// highpass corner and returns the resulting displacement trace, so
// AdjustHighpassRidder can stay independent of the filter/baseline
// packages' concrete types.
type ProcessFunc func(highpass float64) (displacement []float64)

// AdjustHighpassRidder iteratively raises fH by StepFactor (capped at
// MaximumFreq) while the processed displacement trace's peak absolute
// value exceeds MaxFinalDisplacement, or the ratio of the final
// sample's absolute value to the peak exceeds MaxDisplacementRatio
//.
func AdjustHighpassRidder(initialFH float64, process ProcessFunc, p RidderParams) float64 {
	fH := initialFH
	iterations := p.MaxIterations
	if iterations <= 0 {
		iterations = 20
	}

	for i := 0; i < iterations; i++ {
		disp := process(fH)
		if len(disp) == 0 {
			break
		}
		maxAbs := 0.0
		for _, v := range disp {
			if a := math.Abs(v); a > maxAbs {
				maxAbs = a
			}
		}
		finalAbs := math.Abs(disp[len(disp)-1])

		exceedsAbsolute := maxAbs > p.MaxFinalDisplacement
		exceedsRatio := maxAbs > 0 && finalAbs/maxAbs > p.MaxDisplacementRatio

		if !exceedsAbsolute && !exceedsRatio {
			break
		}
		nextFH := fH * p.StepFactor
		if nextFH > p.MaximumFreq {
			nextFH = p.MaximumFreq
		}
		if nextFH == fH {
			break
		}
		fH = nextFH
	}
	return fH
}
