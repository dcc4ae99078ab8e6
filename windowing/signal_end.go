package windowing

import "math"

// SignalEndMethod selects which model computes the signal-end time
//.
type SignalEndMethod string

const (
	SignalEndModel      SignalEndMethod = "model"
	SignalEndVelocity   SignalEndMethod = "velocity"
	SignalEndMagnitude  SignalEndMethod = "magnitude"
	SignalEndNone       SignalEndMethod = "none"
)

// DurationModel predicts mean and standard deviation of significant
// duration Ds given magnitude, distance, and Vs30 — the single
// pluggable model referenced by SignalEndModel mode.
type DurationModel interface {
	MeanDs(magnitude, distanceKM, vs30 float64) float64
	SigmaDs(magnitude, distanceKM, vs30 float64) float64
}

// SignalEndParams configures signal-end selection.
type SignalEndParams struct {
	Method     SignalEndMethod
	Vmin       float64 // km/s, used by SignalEndVelocity
	Floor      float64 // seconds, hard floor applied to every mode
	Epsilon    float64 // multiplies sigma in SignalEndModel
	Magnitude  float64
	DistanceKM float64
	Vs30       float64
	Model      DurationModel
}

// SignalEnd computes end, the end of the signal window in seconds on
// the same time axis as splitTime (the chosen signal/noise boundary):
// splitTime plus the mode's duration, except in velocity mode with a
// positive Vmin, where end is DistanceKM/Vmin without splitTime added.
// The floor keeps end at least Floor seconds after splitTime.
func SignalEnd(splitTime float64, p SignalEndParams) float64 {
	var end float64
	switch p.Method {
	case SignalEndModel:
		meanDs := p.Model.MeanDs(p.Magnitude, p.DistanceKM, p.Vs30)
		sigmaDs := p.Model.SigmaDs(p.Magnitude, p.DistanceKM, p.Vs30)
		end = splitTime + meanDs + p.Epsilon*sigmaDs
	case SignalEndVelocity:
		if p.Vmin <= 0 {
			end = splitTime + p.Floor
		} else {
			end = p.DistanceKM / p.Vmin
		}
	case SignalEndMagnitude:
		// coarse empirical scaling: longer duration for larger events
		end = splitTime + 10*math.Pow(10, 0.25*p.Magnitude)
	case SignalEndNone:
		end = splitTime
	default:
		end = splitTime
	}
	if end-splitTime < p.Floor {
		end = splitTime + p.Floor
	}
	return end
}

// WindowChecksParams configures the minimum-duration QA gate.
type WindowChecksParams struct {
	Enabled            bool
	MinNoiseDurationS  float64
	MinSignalDurationS float64
}

// CheckWindows reports whether the noise and signal windows both meet
// their configured minimum durations.
func CheckWindows(noiseDurationS, signalDurationS float64, p WindowChecksParams) (ok bool, reason string) {
	if !p.Enabled {
		return true, ""
	}
	if noiseDurationS < p.MinNoiseDurationS {
		return false, "noise window shorter than min_noise_duration"
	}
	if signalDurationS < p.MinSignalDurationS {
		return false, "signal window shorter than min_signal_duration"
	}
	return true, ""
}
