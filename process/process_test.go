package process

import (
	"context"
	"testing"
	"time"

	"github.com/smcore/go-strongmotion/config"

	strongmotion "github.com/smcore/go-strongmotion"
)

func oneTraceStream(t *testing.T) *strongmotion.Stream {
	t.Helper()
	hdr := strongmotion.Header{
		Network:      "NZ",
		Station:      "WEL",
		Location:     "10",
		Channel:      "HNZ",
		StartTime:    time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		SamplingRate: 100,
		Standard:     strongmotion.Standard{ProcessLevel: strongmotion.ProcessLevelV0, Units: strongmotion.UnitsCounts},
	}
	data := make([]float64, 1000)
	for i := range data {
		data[i] = float64(i%7) - 3
	}
	tr, err := strongmotion.New(data, hdr)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return strongmotion.NewStream([]*strongmotion.Trace{tr})
}

func TestNewDefaultRegistryRegistersBuiltins(t *testing.T) {
	reg := NewDefaultRegistry()
	for _, name := range []string{"cut", "taper", "detrend", "highpass_filter", "lowpass_filter",
		"baseline_correct", "compute_snr", "snr_check", "get_corner_frequencies", "remove_response", "max_traces"} {
		if _, ok := reg.Lookup(name); !ok {
			t.Errorf("expected builtin step %q to be registered", name)
		}
	}
}

func TestValidateStepsRejectsUnknownStep(t *testing.T) {
	reg := NewDefaultRegistry()
	steps := []config.ProcessingStep{{Name: "not_a_real_step"}}
	if err := reg.ValidateSteps(steps); err == nil {
		t.Fatal("expected an error for an unregistered step name")
	}
}

func TestValidateStepsRejectsMissingRequiredArg(t *testing.T) {
	reg := NewDefaultRegistry()
	steps := []config.ProcessingStep{{Name: "taper", Args: map[string]any{}}}
	if err := reg.ValidateSteps(steps); err == nil {
		t.Fatal("expected an error for a missing required argument")
	}
}

func TestValidateStepsAcceptsWellFormedPipeline(t *testing.T) {
	reg := NewDefaultRegistry()
	steps := []config.ProcessingStep{
		{Name: "detrend", Args: map[string]any{"method": "linear"}},
		{Name: "taper", Args: map[string]any{"width": 0.05}},
	}
	if err := reg.ValidateSteps(steps); err != nil {
		t.Errorf("ValidateSteps: %v", err)
	}
}

func TestRunPipelineAppliesStepsInOrder(t *testing.T) {
	reg := NewDefaultRegistry()
	stream := oneTraceStream(t)
	steps := []config.ProcessingStep{
		{Name: "detrend", Args: map[string]any{"method": "demean"}},
		{Name: "taper", Args: map[string]any{"width": 0.05}},
	}
	event := strongmotion.Event{ID: "evt1"}
	if err := RunPipeline(reg, steps, stream, event); err != nil {
		t.Fatalf("RunPipeline: %v", err)
	}
	if !stream.Passed() {
		t.Errorf("expected stream to still pass, failures: %+v", stream.Failures())
	}
	prov := stream.Traces()[0].GetProvenance()
	if len(prov) != 2 {
		t.Fatalf("provenance entries = %d, want 2", len(prov))
	}
	if prov[0].Activity != strongmotion.ActivityDetrend || prov[1].Activity != strongmotion.ActivityTaper {
		t.Errorf("unexpected provenance order: %+v", prov)
	}
}

func TestRunPipelineStopsOnUnknownStep(t *testing.T) {
	reg := NewDefaultRegistry()
	stream := oneTraceStream(t)
	steps := []config.ProcessingStep{{Name: "not_registered"}}
	event := strongmotion.Event{ID: "evt1"}
	if err := RunPipeline(reg, steps, stream, event); err == nil {
		t.Fatal("expected RunPipeline to fail for an unregistered step")
	}
}

func TestMaxTracesFailsOversizedStream(t *testing.T) {
	reg := NewDefaultRegistry()
	stream := oneTraceStream(t)
	steps := []config.ProcessingStep{{Name: "max_traces", Args: map[string]any{"n": 0}}}
	event := strongmotion.Event{ID: "evt1"}
	if err := RunPipeline(reg, steps, stream, event); err != nil {
		t.Fatalf("RunPipeline: %v", err)
	}
	if stream.Passed() {
		t.Error("expected stream with a single trace to fail max_traces n=0")
	}
}

func TestRunCollectionProcessesEveryStream(t *testing.T) {
	reg := NewDefaultRegistry()
	streams := []*strongmotion.Stream{oneTraceStream(t), oneTraceStream(t), oneTraceStream(t)}
	collection := strongmotion.NewStreamCollection(streams, strongmotion.DuplicatePreferenceOrder{})
	steps := []config.ProcessingStep{{Name: "detrend", Args: map[string]any{"method": "demean"}}}
	event := strongmotion.Event{ID: "evt1"}

	results := RunCollection(context.Background(), reg, steps, collection, event)
	if len(results) != len(streams) {
		t.Fatalf("RunCollection() len = %d, want %d", len(results), len(streams))
	}
	for i, r := range results {
		if r.Err != nil {
			t.Errorf("result %d error: %v", i, r.Err)
		}
	}
}

func TestRunCollectionRespectsCancellation(t *testing.T) {
	reg := NewDefaultRegistry()
	streams := []*strongmotion.Stream{oneTraceStream(t)}
	collection := strongmotion.NewStreamCollection(streams, strongmotion.DuplicatePreferenceOrder{})
	steps := []config.ProcessingStep{{Name: "detrend", Args: map[string]any{"method": "demean"}}}
	event := strongmotion.Event{ID: "evt1"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := RunCollection(ctx, reg, steps, collection, event)
	if len(results) != 1 {
		t.Fatalf("RunCollection() len = %d, want 1", len(results))
	}
}
