package strongmotion

// Stream is an ordered set of 1..N Traces sharing network, station,
// location, the first two characters of their channel code, and
// timing. It carries its own pass/fail flag and
// parameter bag, generalized from qa.go's per-ping QualityInfo
// bundle into a first-class container type.
type Stream struct {
	traces []*Trace

	passed   bool
	failures []FailureEntry

	parameters       map[string]any
	streamParameters map[string]any
}

// NewStream groups traces into a Stream and immediately validates the
// shared-timing invariant: any mismatch marks the Stream (not the traces) failed
// with reason "__check_channels".
func NewStream(traces []*Trace) *Stream {
	s := &Stream{
		traces:           traces,
		passed:           true,
		parameters:       make(map[string]any),
		streamParameters: make(map[string]any),
	}
	s.validateChannelConsistency()
	return s
}

// validateChannelConsistency enforces that every trace in the stream
// shares starttime, npts, and sampling_rate once |traces| >= 2. This
// generalizes qa.go's consistency check (originally over
// per-ping beam counts) to per-stream channel timing.
func (s *Stream) validateChannelConsistency() {
	if len(s.traces) < 2 {
		return
	}
	first := s.traces[0]
	for _, t := range s.traces[1:] {
		if !t.StartTime.Equal(first.StartTime) ||
			t.Npts() != first.Npts() ||
			t.SamplingRate != first.SamplingRate {
			s.Fail(ActivityCheckChannels, "Nonunique channel timing in StationStream")
			return
		}
	}
}

// Traces returns the stream's constituent traces in order.
func (s *Stream) Traces() []*Trace { return s.traces }

// Passed reports whether the stream as a whole is still usable.
func (s *Stream) Passed() bool { return s.passed }

// Failures returns the stream-level (check, reason) entries.
func (s *Stream) Failures() []FailureEntry { return s.failures }

// Fail marks the whole stream failed; every
// constituent trace also stops being mutated by later steps even
// though each trace keeps its own failure list separate.
func (s *Stream) Fail(check, reason string) {
	s.passed = false
	s.failures = append(s.failures, FailureEntry{Check: check, Reason: reason})
}

// SetParameter/GetParameter operate on the stream-wide (not
// per-trace) scratch bag, e.g. rotated-component matrices cached
// across all three channels at once (stream_parameters).
func (s *Stream) SetParameter(key string, value any) { s.parameters[key] = value }

func (s *Stream) GetParameter(key string) (any, bool) {
	v, ok := s.parameters[key]
	return v, ok
}

func (s *Stream) SetStreamParameter(key string, value any) { s.streamParameters[key] = value }

func (s *Stream) GetStreamParameter(key string) (any, bool) {
	v, ok := s.streamParameters[key]
	return v, ok
}

// ChannelCode returns the channel-id the whole stream groups under:
// network.station.location.first-two-chars-of-channel.
func (s *Stream) ChannelCode() string {
	if len(s.traces) == 0 {
		return ""
	}
	t := s.traces[0]
	cha := t.Channel
	if len(cha) >= 2 {
		cha = cha[:2]
	}
	return t.Network + "." + t.Station + "." + t.Location + "." + cha
}

// Horizontal returns the two horizontal-component traces (the first
// two traces whose channel code does not end in Z) and the vertical
// component (a trace whose channel code ends in Z), if present. Used by the rotation and metrics
// engines.
func (s *Stream) Horizontal() (h1, h2, z *Trace) {
	var horiz []*Trace
	for _, t := range s.traces {
		if len(t.Channel) > 0 && (t.Channel[len(t.Channel)-1] == 'Z' || t.Channel[len(t.Channel)-1] == 'z') {
			z = t
			continue
		}
		horiz = append(horiz, t)
	}
	if len(horiz) > 0 {
		h1 = horiz[0]
	}
	if len(horiz) > 1 {
		h2 = horiz[1]
	}
	return h1, h2, z
}
