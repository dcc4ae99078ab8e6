package windowing

import (
	"math"
	"time"
)

// PickResult is the outcome of one picker in the cascade.
type PickResult struct {
	Method    string
	ArrivalS  float64 // seconds from trace start
	SNREst    float64 // the post-split SNR this pick would yield, used to choose among fallbacks
}

// TravelTimeParams configures the primary picker.
type TravelTimeParams struct {
	Model            VelocityModel
	EpicentralDistKM float64
	DepthKM          float64
	OriginTime       time.Time
}

// ARParams configures the autoregressive fallback picker.
type ARParams struct {
	OrderP, OrderS int
	ShortWindowS   float64
	LongWindowS    float64
}

// STALTAParams configures the STA/LTA fallback picker.
type STALTAParams struct {
	ShortWindowS float64
	LongWindowS  float64
	Threshold    float64
}

// defaultEpsilonS is not read by EstimatePArrival, which uses its own
// fixed 0.5 s margin (epsilonS).
const defaultEpsilonS = 0.0

// EstimatePArrival runs a fallback cascade: try the travel-time picker;
// if its predicted arrival falls before the trace starts or less than
// 0.5 s after it, try the AR and STA/LTA pickers and keep whichever candidate yields the
// highest post-split SNR. pArrivalShift is added to the final chosen
// pick.
func EstimatePArrival(
	data []float64,
	samplingRate float64,
	traceStart time.Time,
	tt TravelTimeParams,
	ar ARParams,
	stalta STALTAParams,
	pArrivalShift float64,
) PickResult {
	travelTime := tt.Model.TravelTimeSeconds(tt.EpicentralDistKM, tt.DepthKM)
	predictedArrival := tt.OriginTime.Add(time.Duration(travelTime * float64(time.Second)))
	offsetFromStart := predictedArrival.Sub(traceStart).Seconds()

	const epsilonS = 0.5
	if offsetFromStart >= epsilonS {
		return shift(PickResult{Method: "travel_time", ArrivalS: offsetFromStart, SNREst: postSplitSNR(data, samplingRate, offsetFromStart)}, pArrivalShift)
	}

	// predicted arrival at or before trace start: fall back to AR and STA/LTA,
	// keep whichever yields the highest post-split SNR.
	arPick := arPicker(data, samplingRate, ar)
	staPick := staltaPicker(data, samplingRate, stalta)

	best := arPick
	if staPick.SNREst > arPick.SNREst {
		best = staPick
	}
	return shift(best, pArrivalShift)
}

func shift(p PickResult, pArrivalShift float64) PickResult {
	p.ArrivalS += pArrivalShift
	return p
}

// postSplitSNR is a coarse SNR estimate used only to rank picker
// candidates against one another (the authoritative SNR computation
// lives in package snr, applied after a split is finalized).
func postSplitSNR(data []float64, samplingRate, splitS float64) float64 {
	splitIdx := int(splitS * samplingRate)
	if splitIdx <= 0 || splitIdx >= len(data) {
		return 0
	}
	noise := rms(data[:splitIdx])
	signal := rms(data[splitIdx:])
	if noise == 0 {
		return math.Inf(1)
	}
	return signal / noise
}

func rms(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(x)))
}

// arPicker implements a simplified autoregressive-prediction error
// picker: the arrival is the sample index that maximizes the jump in
// one-step-ahead AR prediction error between a short and long fitting
// window.
func arPicker(data []float64, samplingRate float64, p ARParams) PickResult {
	shortN := int(p.ShortWindowS * samplingRate)
	longN := int(p.LongWindowS * samplingRate)
	if shortN < 2 {
		shortN = 2
	}
	if longN <= shortN {
		longN = shortN + 1
	}

	bestIdx := longN
	bestScore := -math.MaxFloat64
	for i := longN; i < len(data)-shortN; i++ {
		errLong := arPredictionError(data[i-longN:i], p.OrderP)
		errShort := arPredictionError(data[i:i+shortN], p.OrderP)
		score := errShort - errLong
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}

	arrival := float64(bestIdx) / samplingRate
	return PickResult{Method: "ar", ArrivalS: arrival, SNREst: postSplitSNR(data, samplingRate, arrival)}
}

// arPredictionError predicts each sample as the mean of the previous
// order samples and returns the mean squared residual, a cheap proxy
// for local signal complexity.
func arPredictionError(x []float64, order int) float64 {
	if order < 1 {
		order = 1
	}
	if len(x) <= order+1 {
		return rms(x)
	}
	var sumSq float64
	for i := order; i < len(x); i++ {
		pred := 0.0
		for k := 1; k <= order; k++ {
			pred += x[i-k]
		}
		pred /= float64(order)
		resid := x[i] - pred
		sumSq += resid * resid
	}
	return sumSq / float64(len(x)-order)
}

// staltaPicker implements the classic short-term/long-term average
// ratio picker: the arrival is the first sample where the ratio
// exceeds the configured threshold.
func staltaPicker(data []float64, samplingRate float64, p STALTAParams) PickResult {
	shortN := int(p.ShortWindowS * samplingRate)
	longN := int(p.LongWindowS * samplingRate)
	if shortN < 1 {
		shortN = 1
	}
	if longN <= shortN {
		longN = shortN + 1
	}

	sq := make([]float64, len(data))
	for i, v := range data {
		sq[i] = v * v
	}

	for i := longN; i < len(data)-shortN; i++ {
		sta := mean(sq[i : i+shortN])
		lta := mean(sq[i-longN : i])
		if lta == 0 {
			continue
		}
		if sta/lta >= p.Threshold {
			arrival := float64(i) / samplingRate
			return PickResult{Method: "stalta", ArrivalS: arrival, SNREst: postSplitSNR(data, samplingRate, arrival)}
		}
	}
	// no trigger found: report mid-trace as a low-confidence fallback
	arrival := float64(len(data)) / samplingRate / 2
	return PickResult{Method: "stalta", ArrivalS: arrival, SNREst: postSplitSNR(data, samplingRate, arrival)}
}

func mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum float64
	for _, v := range x {
		sum += v
	}
	return sum / float64(len(x))
}
