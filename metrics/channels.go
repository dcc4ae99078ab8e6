package metrics

import (
	"github.com/smcore/go-strongmotion/filter"

	strongmotion "github.com/smcore/go-strongmotion"
)

// BuildChannelSeries integrates a processed acceleration trace to
// velocity and displacement with filter.Integrate (the same cumulative
// trapezoidal integration BaselineSixthOrder applies internally) and
// packages the three series as one Evaluate input. tr is assumed
// already filtered and baseline-corrected, in cm/s^2.
func BuildChannelSeries(tr *strongmotion.Trace, code string) ChannelSeries {
	dt := 1 / tr.SamplingRate
	accel := tr.Data()
	vel := filter.Integrate(accel, dt)
	disp := filter.Integrate(vel, dt)
	return ChannelSeries{
		Code:       code,
		AzimuthDeg: tr.Standard.HorizontalAzimuth,
		AccelCmS2:  accel,
		VelCmS:     vel,
		DispCm:     disp,
		Dt:         dt,
	}
}

// BuildChannels maps a processed stream's horizontal/vertical traces
// onto the H1/H2/Z codes Evaluate expects, skipping any component the
// stream does not carry.
func BuildChannels(stream *strongmotion.Stream) []ChannelSeries {
	h1, h2, z := stream.Horizontal()
	var out []ChannelSeries
	if h1 != nil {
		out = append(out, BuildChannelSeries(h1, "H1"))
	}
	if h2 != nil {
		out = append(out, BuildChannelSeries(h2, "H2"))
	}
	if z != nil {
		out = append(out, BuildChannelSeries(z, "Z"))
	}
	return out
}
