package process

import (
	"github.com/smcore/go-strongmotion/config"
	"github.com/smcore/go-strongmotion/filter"
	"github.com/smcore/go-strongmotion/snr"
	"github.com/smcore/go-strongmotion/stationmetrics"
	"github.com/smcore/go-strongmotion/windowing"

	strongmotion "github.com/smcore/go-strongmotion"
)

// registerBuiltinSteps wires the per-trace/per-stream processing
// primitives built in filter/, snr/, windowing/, and stationmetrics/ into the
// named steps ordered pipeline configures by name.
func registerBuiltinSteps(r *Registry) {
	r.Register(StepSpec{Name: "signal_split", Activity: strongmotion.ActivitySignalSplit, RequiredArgs: nil, Func: stepSignalSplit})
	r.Register(StepSpec{Name: "cut", Activity: strongmotion.ActivityCut, RequiredArgs: nil, Func: stepCut})
	r.Register(StepSpec{Name: "taper", Activity: strongmotion.ActivityTaper, RequiredArgs: []string{"width"}, Func: stepTaper})
	r.Register(StepSpec{Name: "detrend", Activity: strongmotion.ActivityDetrend, RequiredArgs: []string{"method"}, Func: stepDetrend})
	r.Register(StepSpec{Name: "highpass_filter", Activity: strongmotion.ActivityHighpassFilter, RequiredArgs: []string{"corner_frequency"}, Func: stepHighpass})
	r.Register(StepSpec{Name: "lowpass_filter", Activity: strongmotion.ActivityLowpassFilter, RequiredArgs: []string{"corner_frequency"}, Func: stepLowpass})
	r.Register(StepSpec{Name: "baseline_correct", Activity: strongmotion.ActivityBaselineCorrect, RequiredArgs: nil, Func: stepBaselineCorrect})
	r.Register(StepSpec{Name: "compute_snr", Activity: strongmotion.ActivityComputeSNR, RequiredArgs: []string{"bandwidth"}, Func: stepComputeSNR})
	r.Register(StepSpec{Name: "snr_check", Activity: strongmotion.ActivitySNRCheck, RequiredArgs: []string{"threshold"}, Func: stepSNRCheck})
	r.Register(StepSpec{Name: "get_corner_frequencies", Activity: strongmotion.ActivityCornerFrequencies, RequiredArgs: []string{"method"}, Func: stepCornerFrequencies})
	r.Register(StepSpec{Name: "remove_response", Activity: strongmotion.ActivityRemoveResponse, RequiredArgs: nil, Func: stepRemoveResponse})
	r.Register(StepSpec{Name: "max_traces", Activity: strongmotion.ActivityMaxTraces, RequiredArgs: []string{"n"}, Func: stepMaxTraces})
	r.Register(StepSpec{Name: "adjust_highpass_ridder", Activity: strongmotion.ActivityAdjustHighpassRidder, RequiredArgs: nil, Func: stepAdjustHighpassRidder})
}

// forEachActiveTrace applies fn to every trace in the stream that
// hasn't already failed, recording a skipped provenance entry for
// every trace that has.
func forEachActiveTrace(stream *strongmotion.Stream, activity string, fn func(tr *strongmotion.Trace) error) error {
	if !stream.Passed() {
		for _, tr := range stream.Traces() {
			strongmotion.RecordSkipped(tr, activity)
		}
		return nil
	}
	for _, tr := range stream.Traces() {
		if !tr.Passed() {
			strongmotion.RecordSkipped(tr, activity)
			continue
		}
		if err := fn(tr); err != nil {
			return err
		}
	}
	return nil
}

type arPickerArgs struct {
	OrderP      int     `yaml:"order_p"`
	ShortWindow float64 `yaml:"short_window"`
	LongWindow  float64 `yaml:"long_window"`
}

type staltaPickerArgs struct {
	ShortWindow float64 `yaml:"short_window"`
	LongWindow  float64 `yaml:"long_window"`
	Threshold   float64 `yaml:"threshold"`
}

type signalSplitArgs struct {
	VelocityDepthKM []float64            `yaml:"velocity_depth_km"`
	VelocityKmS     []float64            `yaml:"velocity_km_s"`
	Pickers         config.PickersConfig `yaml:"pickers"`
	Windows         config.WindowsConfig `yaml:"windows"`
}

// stepSignalSplit picks the noise/signal boundary (windowing.EstimatePArrival),
// derives the signal-end time (windowing.SignalEnd), applies the
// configured minimum-duration gate (windowing.CheckWindows), and
// records both as trace parameters so compute_snr and downstream steps
// have a signal split to read.
func stepSignalSplit(stream *strongmotion.Stream, event strongmotion.Event, args map[string]any) error {
	var a signalSplitArgs
	if err := decodeArgs(args, &a); err != nil {
		return err
	}

	var ar arPickerArgs
	if err := decodeArgs(a.Pickers.AR, &ar); err != nil {
		return err
	}
	var stalta staltaPickerArgs
	if err := decodeArgs(a.Pickers.StaLta, &stalta); err != nil {
		return err
	}

	model := windowing.VelocityModel{Depth: a.VelocityDepthKM, Velocity: a.VelocityKmS}
	arParams := windowing.ARParams{OrderP: ar.OrderP, ShortWindowS: ar.ShortWindow, LongWindowS: ar.LongWindow}
	staltaParams := windowing.STALTAParams{ShortWindowS: stalta.ShortWindow, LongWindowS: stalta.LongWindow, Threshold: stalta.Threshold}

	endMethod := windowing.SignalEndMethod(a.Windows.SignalEnd.Method)
	if endMethod == windowing.SignalEndMethod("model") {
		// SignalEndModel needs a fitted regional duration model; none of
		// the retrieved example sources provide one, so "model" falls
		// back to the magnitude-scaling estimate (DESIGN.md Open Question).
		endMethod = windowing.SignalEndMagnitude
	}

	return forEachActiveTrace(stream, strongmotion.ActivitySignalSplit, func(tr *strongmotion.Trace) error {
		dist := stationmetrics.EpicentralDistanceKm(
			stationmetrics.StationCoordinates{Latitude: tr.Coordinates.Latitude, Longitude: tr.Coordinates.Longitude},
			stationmetrics.HypocenterCoordinates{Latitude: event.Latitude, Longitude: event.Longitude, DepthKm: event.DepthKM},
		)
		tt := windowing.TravelTimeParams{Model: model, EpicentralDistKM: dist, DepthKM: event.DepthKM, OriginTime: event.OriginTime}
		pick := windowing.EstimatePArrival(tr.Data(), tr.SamplingRate, tr.StartTime, tt, arParams, staltaParams, a.Pickers.PArrivalShift)

		end := windowing.SignalEnd(pick.ArrivalS, windowing.SignalEndParams{
			Method:     endMethod,
			Vmin:       a.Windows.SignalEnd.Vmin,
			Floor:      a.Windows.SignalEnd.Floor,
			Epsilon:    a.Windows.SignalEnd.Epsilon,
			Magnitude:  event.Magnitude,
			DistanceKM: dist,
		})

		noiseDuration := pick.ArrivalS
		signalDuration := end - pick.ArrivalS
		ok, reason := windowing.CheckWindows(noiseDuration, signalDuration, windowing.WindowChecksParams{
			Enabled:            a.Windows.WindowChecks.Enabled,
			MinNoiseDurationS:  a.Windows.WindowChecks.MinNoiseDuration,
			MinSignalDurationS: a.Windows.WindowChecks.MinSignalDuration,
		})
		tr.SetParameter(strongmotion.ParamWindowChecks, strongmotion.WindowChecks{
			NoiseDuration: noiseDuration, SignalDuration: signalDuration, Passed: ok,
		})
		if !ok {
			tr.Fail(strongmotion.ActivitySignalSplit, reason)
			return nil
		}

		tr.SetParameter(strongmotion.ParamSignalSplit, strongmotion.SignalSplit{
			SplitTime: pick.ArrivalS, PickerUsed: pick.Method, End: end,
		})
		tr.SetProvenance(strongmotion.ActivitySignalSplit, map[string]any{
			"picker": pick.Method, "split_time_s": pick.ArrivalS, "end_s": end,
		})
		return nil
	})
}

type cutArgs struct {
	SplitTimeS     float64 `yaml:"split_time_s"`
	SecBeforeSplit float64 `yaml:"sec_before_split"`
}

func stepCut(stream *strongmotion.Stream, event strongmotion.Event, args map[string]any) error {
	var a cutArgs
	if err := decodeArgs(args, &a); err != nil {
		return err
	}
	return forEachActiveTrace(stream, strongmotion.ActivityCut, func(tr *strongmotion.Trace) error {
		cut := filter.Cut(tr.Data(), tr.SamplingRate, a.SplitTimeS, a.SecBeforeSplit)
		if err := tr.SetData(cut, tr.SamplingRate); err != nil {
			return strongmotion.NewClassifiedError(strongmotion.ClassStepInternal, "process.stepCut", err)
		}
		tr.SetProvenance(strongmotion.ActivityCut, map[string]any{"split_time_s": a.SplitTimeS})
		return nil
	})
}

type taperArgs struct {
	Width float64 `yaml:"width"`
	Side  string  `yaml:"side"`
}

func stepTaper(stream *strongmotion.Stream, event strongmotion.Event, args map[string]any) error {
	var a taperArgs
	if err := decodeArgs(args, &a); err != nil {
		return err
	}
	side := filter.TaperSide(a.Side)
	if side == "" {
		side = filter.TaperBoth
	}
	return forEachActiveTrace(stream, strongmotion.ActivityTaper, func(tr *strongmotion.Trace) error {
		tapered := filter.Taper(tr.Data(), a.Width, side)
		if err := tr.SetData(tapered, tr.SamplingRate); err != nil {
			return strongmotion.NewClassifiedError(strongmotion.ClassStepInternal, "process.stepTaper", err)
		}
		tr.SetProvenance(strongmotion.ActivityTaper, map[string]any{"width": a.Width, "side": string(side)})
		return nil
	})
}

type detrendArgs struct {
	Method          string `yaml:"method"`
	Order           int    `yaml:"order"`
	PreEventSamples int    `yaml:"pre_event_samples"`
}

func stepDetrend(stream *strongmotion.Stream, event strongmotion.Event, args map[string]any) error {
	var a detrendArgs
	if err := decodeArgs(args, &a); err != nil {
		return err
	}
	return forEachActiveTrace(stream, strongmotion.ActivityDetrend, func(tr *strongmotion.Trace) error {
		detrended := filter.Detrend(tr.Data(), filter.DetrendMethod(a.Method), a.Order, a.PreEventSamples)
		if err := tr.SetData(detrended, tr.SamplingRate); err != nil {
			return strongmotion.NewClassifiedError(strongmotion.ClassStepInternal, "process.stepDetrend", err)
		}
		tr.SetProvenance(strongmotion.ActivityDetrend, map[string]any{"method": a.Method})
		return nil
	})
}

type filterArgs struct {
	CornerFrequency float64 `yaml:"corner_frequency"`
	Order           int     `yaml:"number_of_poles"`
}

func stepHighpass(stream *strongmotion.Stream, event strongmotion.Event, args map[string]any) error {
	var a filterArgs
	if err := decodeArgs(args, &a); err != nil {
		return err
	}
	order := a.Order
	if order <= 0 {
		order = 5
	}
	return forEachActiveTrace(stream, strongmotion.ActivityHighpassFilter, func(tr *strongmotion.Trace) error {
		filtered := filter.Butterworth(tr.Data(), a.CornerFrequency, tr.SamplingRate, order, true, filter.ZeroPhase)
		if err := tr.SetData(filtered, tr.SamplingRate); err != nil {
			return strongmotion.NewClassifiedError(strongmotion.ClassStepInternal, "process.stepHighpass", err)
		}
		tr.SetProvenance(strongmotion.ActivityHighpassFilter, map[string]any{"corner_frequency": a.CornerFrequency, "number_of_poles": order})
		return nil
	})
}

func stepLowpass(stream *strongmotion.Stream, event strongmotion.Event, args map[string]any) error {
	var a filterArgs
	if err := decodeArgs(args, &a); err != nil {
		return err
	}
	order := a.Order
	if order <= 0 {
		order = 5
	}
	return forEachActiveTrace(stream, strongmotion.ActivityLowpassFilter, func(tr *strongmotion.Trace) error {
		filtered := filter.Butterworth(tr.Data(), a.CornerFrequency, tr.SamplingRate, order, false, filter.ZeroPhase)
		if err := tr.SetData(filtered, tr.SamplingRate); err != nil {
			return strongmotion.NewClassifiedError(strongmotion.ClassStepInternal, "process.stepLowpass", err)
		}
		tr.SetProvenance(strongmotion.ActivityLowpassFilter, map[string]any{"corner_frequency": a.CornerFrequency, "number_of_poles": order})
		return nil
	})
}

func stepBaselineCorrect(stream *strongmotion.Stream, event strongmotion.Event, args map[string]any) error {
	return forEachActiveTrace(stream, strongmotion.ActivityBaselineCorrect, func(tr *strongmotion.Trace) error {
		corrected, coeffs := filter.BaselineSixthOrder(tr.Data(), 1/tr.SamplingRate)
		if err := tr.SetData(corrected, tr.SamplingRate); err != nil {
			return strongmotion.NewClassifiedError(strongmotion.ClassStepInternal, "process.stepBaselineCorrect", err)
		}
		tr.SetParameter(strongmotion.ParamBaselineCoefficients, strongmotion.BaselineCoefficients{Coefficients: coeffs})
		tr.SetProvenance(strongmotion.ActivityBaselineCorrect, map[string]any{})
		return nil
	})
}

type snrArgs struct {
	Bandwidth   float64 `yaml:"bandwidth"`
	FreqStart   float64 `yaml:"freq_start"`
	FreqStop    float64 `yaml:"freq_stop"`
	FreqNum     int     `yaml:"freq_num"`
	Threshold   float64 `yaml:"threshold"`
	MinFreq     float64 `yaml:"min_freq"`
	MaxFreq     float64 `yaml:"max_freq"`
}

func (a snrArgs) targetFreq() []float64 {
	n := a.FreqNum
	if n <= 0 {
		n = 100
	}
	start, stop := a.FreqStart, a.FreqStop
	if stop <= start {
		start, stop = 0.1, 50
	}
	out := make([]float64, n)
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}

func stepComputeSNR(stream *strongmotion.Stream, event strongmotion.Event, args map[string]any) error {
	var a snrArgs
	if err := decodeArgs(args, &a); err != nil {
		return err
	}
	freq := a.targetFreq()
	return forEachActiveTrace(stream, strongmotion.ActivityComputeSNR, func(tr *strongmotion.Trace) error {
		split, ok := tr.GetParameter(strongmotion.ParamSignalSplit)
		if !ok {
			return strongmotion.NewClassifiedError(strongmotion.ClassStepFailure, "process.stepComputeSNR", strongmotion.ErrMissingArg)
		}
		boundary := split.(strongmotion.SignalSplit)
		dt := 1 / tr.SamplingRate
		splitIdx := int(boundary.SplitTime * tr.SamplingRate)
		if splitIdx <= 0 || splitIdx >= tr.Npts() {
			tr.Fail(strongmotion.ActivitySNRCheck, "Insufficient noise or signal window to compute SNR.")
			return nil
		}
		noise := tr.Data()[:splitIdx]
		signal := tr.Data()[splitIdx:]
		curve := snr.Compute(signal, noise, dt, freq, a.Bandwidth)
		tr.SetParameter(strongmotion.ParamSNRCurve, strongmotion.SNRCurve{Freq: curve.Freq, SNR: curve.SNR})
		tr.SetProvenance(strongmotion.ActivityComputeSNR, map[string]any{"bandwidth": a.Bandwidth})
		return nil
	})
}

func stepSNRCheck(stream *strongmotion.Stream, event strongmotion.Event, args map[string]any) error {
	var a snrArgs
	if err := decodeArgs(args, &a); err != nil {
		return err
	}
	return forEachActiveTrace(stream, strongmotion.ActivitySNRCheck, func(tr *strongmotion.Trace) error {
		p, ok := tr.GetParameter(strongmotion.ParamSNRCurve)
		if !ok {
			return strongmotion.NewClassifiedError(strongmotion.ClassStepFailure, "process.stepSNRCheck", strongmotion.ErrMissingArg)
		}
		curve := p.(strongmotion.SNRCurve)
		ok2, reason := snr.Check(snr.Curve{Freq: curve.Freq, SNR: curve.SNR}, a.Threshold, a.MinFreq, a.MaxFreq)
		if !ok2 {
			tr.Fail(strongmotion.ActivitySNRCheck, reason)
			return nil
		}
		tr.SetProvenance(strongmotion.ActivitySNRCheck, map[string]any{"threshold": a.Threshold})
		return nil
	})
}

type cornerFreqArgs struct {
	Method    string  `yaml:"method"`
	Highpass  float64 `yaml:"highpass"`
	Lowpass   float64 `yaml:"lowpass"`
	Threshold float64 `yaml:"threshold"`
	SameHoriz bool    `yaml:"same_horiz"`
}

func stepCornerFrequencies(stream *strongmotion.Stream, event strongmotion.Event, args map[string]any) error {
	var a cornerFreqArgs
	if err := decodeArgs(args, &a); err != nil {
		return err
	}

	selectFor := func(tr *strongmotion.Trace) (snr.CornerFrequencies, error) {
		if a.Method == "snr" {
			p, ok := tr.GetParameter(strongmotion.ParamSNRCurve)
			if !ok {
				return snr.CornerFrequencies{}, strongmotion.NewClassifiedError(strongmotion.ClassStepFailure, "process.stepCornerFrequencies", strongmotion.ErrMissingArg)
			}
			curve := p.(strongmotion.SNRCurve)
			return snr.SelectSNR(snr.Curve{Freq: curve.Freq, SNR: curve.SNR}, a.Threshold), nil
		}
		return snr.SelectConstant(a.Highpass, a.Lowpass), nil
	}

	return forEachActiveTrace(stream, strongmotion.ActivityCornerFrequencies, func(tr *strongmotion.Trace) error {
		cf, err := selectFor(tr)
		if err != nil {
			return err
		}
		if a.SameHoriz {
			h1, h2, _ := stream.Horizontal()
			if h1 != nil && h2 != nil && (tr == h1 || tr == h2) {
				other := h2
				if tr == h2 {
					other = h1
				}
				cfOther, err := selectFor(other)
				if err == nil {
					cf = snr.CombineSameHoriz(cf, cfOther)
				}
			}
		}
		tr.SetParameter(strongmotion.ParamCornerFrequencies, strongmotion.CornerFrequencies{
			Highpass: cf.Highpass, Lowpass: cf.Lowpass, Method: a.Method,
		})
		tr.SetProvenance(strongmotion.ActivityCornerFrequencies, map[string]any{"method": a.Method})
		return nil
	})
}

// stepRemoveResponse records a no-op provenance entry: full instrument
// response deconvolution (poles/zeros or RESP parsing) needs a parser
// that nothing in the retrieved example pack provides, so by the time
// a trace reaches this step it is assumed already in physical units.
func stepRemoveResponse(stream *strongmotion.Stream, event strongmotion.Event, args map[string]any) error {
	return forEachActiveTrace(stream, strongmotion.ActivityRemoveResponse, func(tr *strongmotion.Trace) error {
		tr.SetProvenance(strongmotion.ActivityRemoveResponse, map[string]any{"method": "already_physical_units"})
		return nil
	})
}

type maxTracesArgs struct {
	N int `yaml:"n"`
}

func stepMaxTraces(stream *strongmotion.Stream, event strongmotion.Event, args map[string]any) error {
	var a maxTracesArgs
	if err := decodeArgs(args, &a); err != nil {
		return err
	}
	if !stream.Passed() {
		for _, tr := range stream.Traces() {
			strongmotion.RecordSkipped(tr, strongmotion.ActivityMaxTraces)
		}
		return nil
	}
	if len(stream.Traces()) > a.N {
		stream.Fail(strongmotion.ActivityMaxTraces, "stream exceeds configured maximum trace count")
	}
	return nil
}

type ridderArgs struct {
	StepFactor           float64 `yaml:"step_factor"`
	MaximumFreq          float64 `yaml:"maximum_freq"`
	MaxFinalDisplacement float64 `yaml:"max_final_displacement"`
	MaxDisplacementRatio float64 `yaml:"max_displacement_ratio"`
	MaxIterations        int     `yaml:"max_iterations"`
}

// stepAdjustHighpassRidder raises a trace's already-selected highpass
// corner (snr.AdjustHighpassRidder) until the resulting displacement
// trace's final-sample behavior stays within the configured bounds,
// re-running the highpass filter and baseline correction at each trial
// corner the way the optional adjust_highpass_ridder step does.
func stepAdjustHighpassRidder(stream *strongmotion.Stream, event strongmotion.Event, args map[string]any) error {
	var a ridderArgs
	if err := decodeArgs(args, &a); err != nil {
		return err
	}
	p := snr.RidderParams{
		StepFactor:           a.StepFactor,
		MaximumFreq:          a.MaximumFreq,
		MaxFinalDisplacement: a.MaxFinalDisplacement,
		MaxDisplacementRatio: a.MaxDisplacementRatio,
		MaxIterations:        a.MaxIterations,
	}
	return forEachActiveTrace(stream, strongmotion.ActivityAdjustHighpassRidder, func(tr *strongmotion.Trace) error {
		cfParam, ok := tr.GetParameter(strongmotion.ParamCornerFrequencies)
		if !ok {
			return strongmotion.NewClassifiedError(strongmotion.ClassStepFailure, "process.stepAdjustHighpassRidder", strongmotion.ErrMissingArg)
		}
		cf := cfParam.(strongmotion.CornerFrequencies)
		dt := 1 / tr.SamplingRate

		process := func(highpass float64) []float64 {
			filtered := filter.Butterworth(tr.Data(), highpass, tr.SamplingRate, 5, true, filter.ZeroPhase)
			corrected, _ := filter.BaselineSixthOrder(filtered, dt)
			return filter.Integrate(filter.Integrate(corrected, dt), dt)
		}

		adjusted := snr.AdjustHighpassRidder(cf.Highpass, process, p)
		tr.SetParameter(strongmotion.ParamCornerFrequencies, strongmotion.CornerFrequencies{
			Highpass: adjusted, Lowpass: cf.Lowpass, Method: cf.Method,
		})
		tr.SetProvenance(strongmotion.ActivityAdjustHighpassRidder, map[string]any{"highpass": adjusted})
		return nil
	})
}
