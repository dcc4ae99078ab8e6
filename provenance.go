package strongmotion

import "time"

// ProvenanceEntry is one activity in a Trace or Stream's processing
// ledger, named after the SEIS-PROV activity vocabulary. It generalizes
// ordered, timestamped record types like Comment and History
// into a single reusable shape rather than one bespoke struct per
// processing step.
type ProvenanceEntry struct {
	Activity  string
	Attrs     map[string]any
	Timestamp time.Time
	Status    ProvenanceStatus
}

// ProvenanceStatus distinguishes a normal completed activation from
// one that was skipped because the trace/stream had already failed.
type ProvenanceStatus string

const (
	StatusCompleted ProvenanceStatus = "completed"
	StatusSkipped   ProvenanceStatus = "skipped"
)

// Standard activity names recorded by the built-in processing steps
//.
const (
	ActivityCut                  = "cut"
	ActivityTaper                = "taper"
	ActivityDetrend              = "detrend"
	ActivityHighpassFilter       = "highpass_filter"
	ActivityLowpassFilter        = "lowpass_filter"
	ActivityBaselineCorrect      = "baseline_correct"
	ActivitySNRCheck             = "snr_check"
	ActivityCornerFrequencies    = "get_corner_frequencies"
	ActivityRemoveResponse       = "remove_response"
	ActivityMaxTraces            = "max_traces"
	ActivityCheckChannels        = "__check_channels"
	ActivityComputeSNR           = "compute_snr"
	ActivityAdjustHighpassRidder = "adjust_highpass_ridder"
	ActivitySignalSplit          = "signal_split"
)

// RecordSkipped appends a skipped-status provenance entry, used when a
// step declines to touch a trace or stream that failed earlier in the
// pipeline.
func RecordSkipped(t *Trace, activity string) {
	t.provenance = append(t.provenance, ProvenanceEntry{
		Activity:  activity,
		Timestamp: time.Now().UTC(),
		Status:    StatusSkipped,
	})
}
