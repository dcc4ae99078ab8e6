package strongmotion

import (
	"time"
)

// Units recognized on a Trace's data array.
type Units string

const (
	UnitsCounts  Units = "counts"
	UnitsCmPerS2 Units = "cm/s/s"
	UnitsCmPerS  Units = "cm/s"
	UnitsCm      Units = "cm"
	UnitsPercetG Units = "%g"
	UnitsMPerS2  Units = "m/s/s"
)

var recognizedUnits = map[Units]bool{
	UnitsCounts: true, UnitsCmPerS2: true, UnitsCmPerS: true,
	UnitsCm: true, UnitsPercetG: true, UnitsMPerS2: true,
}

// ProcessLevel tracks how far along the processing a trace's data is.
type ProcessLevel string

const (
	ProcessLevelV0 ProcessLevel = "V0"
	ProcessLevelV1 ProcessLevel = "V1"
	ProcessLevelV2 ProcessLevel = "V2"
)

// Coordinates is the station location for a Trace.
type Coordinates struct {
	Latitude  float64
	Longitude float64
	Elevation float64 // metres
}

// Standard is the enumerated metadata block carried on every Trace.
type Standard struct {
	Source            string
	InstrumentModel    string
	HorizontalAzimuth  float64 // degrees, NaN if unknown
	Dip                float64 // degrees
	Damping            float64 // fraction of critical
	CornerFrequency    float64 // Hz, instrument response corner
	ProcessLevel       ProcessLevel
	SourceFormat       string
	Units              Units
	Comments           []string
	SensorSerialNumber string
}

// FailureEntry records a single (check_name, reason) pair appended
// when a processing step rejects a Trace or Stream.
type FailureEntry struct {
	Check  string
	Reason string
}

// Header carries the fields required to construct a Trace: the
// channel identity, timing, and the enumerated Standard/Coordinates
// blocks. Kept distinct from Trace itself so that New can validate
// before any mutable state (provenance, parameters) exists.
type Header struct {
	Network      string
	Station      string
	Location     string
	Channel      string
	StartTime    time.Time
	SamplingRate float64
	Coordinates  Coordinates
	Standard     Standard
}

// Trace is one channel, one station, one contiguous time series, with
// its processing provenance and parameter scratch space attached. It
// composes a plain Header+data buffer rather than subclassing a
// seismological Trace/Stream type: containment over
// inheritance, with accessor methods standing in for what would
// otherwise be inherited behavior.
type Trace struct {
	Header
	data []float64

	passed   bool
	failures []FailureEntry

	provenance []ProvenanceEntry
	parameters map[ParameterKey]Parameter
	cached     map[string][]float64
}

// New validates a Header and data buffer and constructs a Trace with
// an empty provenance ledger and passed=true.
func New(data []float64, hdr Header) (*Trace, error) {
	if hdr.Network == "" || hdr.Station == "" || hdr.Channel == "" {
		return nil, NewClassifiedError(ClassValidation, "strongmotion.New", ErrCodeEmpty)
	}
	if hdr.SamplingRate <= 0 {
		return nil, NewClassifiedError(ClassValidation, "strongmotion.New", ErrSamplingRate)
	}
	if hdr.Standard.Units != "" && !recognizedUnits[hdr.Standard.Units] {
		return nil, NewClassifiedError(ClassUnits, "strongmotion.New", ErrUnitsUnknown)
	}

	t := &Trace{
		Header:     hdr,
		data:       data,
		passed:     true,
		parameters: make(map[ParameterKey]Parameter),
		cached:     make(map[string][]float64),
	}
	return t, nil
}

// Npts returns len(data), the current invariant-enforced trace length.
func (t *Trace) Npts() int { return len(t.data) }

// Data returns the trace's sample buffer. Callers that mutate it in
// place must also call SetData so npts bookkeeping stays consistent.
func (t *Trace) Data() []float64 { return t.data }

// SetData replaces the sample buffer, re-validating the npts/rate
// invariants.
func (t *Trace) SetData(data []float64, samplingRate float64) error {
	if samplingRate <= 0 {
		return NewClassifiedError(ClassValidation, "Trace.SetData", ErrSamplingRate)
	}
	t.data = data
	t.SamplingRate = samplingRate
	return nil
}

// Passed reports whether the trace has survived every QA step applied
// to it so far.
func (t *Trace) Passed() bool { return t.passed }

// Failures returns the ordered list of (check, reason) entries
// recorded against this trace.
func (t *Trace) Failures() []FailureEntry { return t.failures }

// Fail marks the trace failed and appends a failure reason. Once
// failed, processing steps must treat the trace as read-only aside
// from appending a "skipped" provenance entry.
func (t *Trace) Fail(check, reason string) {
	t.passed = false
	t.failures = append(t.failures, FailureEntry{Check: check, Reason: reason})
}

// SetProvenance appends one activity entry to the trace's provenance
// ledger. Provenance is monotonic: entries are never removed or
// reordered.
func (t *Trace) SetProvenance(activity string, attrs map[string]any) {
	t.provenance = append(t.provenance, ProvenanceEntry{
		Activity:  activity,
		Attrs:     attrs,
		Timestamp: time.Now().UTC(),
		Status:    StatusCompleted,
	})
}

// GetProvenance returns the ordered provenance ledger.
func (t *Trace) GetProvenance() []ProvenanceEntry { return t.provenance }

// SetParameter stores a typed processing-scratch value under key.
func (t *Trace) SetParameter(key ParameterKey, value Parameter) {
	t.parameters[key] = value
}

// GetParameter retrieves a typed processing-scratch value.
func (t *Trace) GetParameter(key ParameterKey) (Parameter, bool) {
	v, ok := t.parameters[key]
	return v, ok
}

// SetCached stores a named auxiliary array (upsampled copy, spectrum,
// etc.) alongside the trace without touching its primary data buffer.
func (t *Trace) SetCached(name string, array []float64) { t.cached[name] = array }

// GetCached retrieves a named auxiliary array.
func (t *Trace) GetCached(name string) ([]float64, bool) {
	v, ok := t.cached[name]
	return v, ok
}

// StationInventory is the minimal per-station metadata derivable from
// a Trace's Standard+Coordinates fields, used by the workspace writer
// to populate the StationXML sidecar.
type StationInventory struct {
	Network     string
	Station     string
	Coordinates Coordinates
	Instrument  string
	Azimuth     float64
	Dip         float64
}

// GetInventory derives a StationInventory from the trace's own fields.
func (t *Trace) GetInventory() StationInventory {
	return StationInventory{
		Network:     t.Network,
		Station:     t.Station,
		Coordinates: t.Coordinates,
		Instrument:  t.Standard.InstrumentModel,
		Azimuth:     t.Standard.HorizontalAzimuth,
		Dip:         t.Standard.Dip,
	}
}

// ChannelID returns the dotted NET.STA.LOC.CHA identity used as the
// workspace dataset naming key.
func (t *Trace) ChannelID() string {
	return t.Network + "." + t.Station + "." + t.Location + "." + t.Channel
}
