package workspace

import (
	"path/filepath"
	"testing"
	"time"

	strongmotion "github.com/smcore/go-strongmotion"
)

func newTraceStream(t *testing.T, network, station, channel string) *strongmotion.Stream {
	t.Helper()
	hdr := strongmotion.Header{
		Network:      network,
		Station:      station,
		Location:     "10",
		Channel:      channel,
		StartTime:    time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
		SamplingRate: 100,
		Standard:     strongmotion.Standard{ProcessLevel: strongmotion.ProcessLevelV0, Units: strongmotion.UnitsCounts},
	}
	data := make([]float64, 500)
	for i := range data {
		data[i] = float64(i)
	}
	tr, err := strongmotion.New(data, hdr)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return strongmotion.NewStream([]*strongmotion.Trace{tr})
}

func TestCreateOpenRoundTrip(t *testing.T) {
	root := filepath.Join(t.TempDir(), "event1.gsm")
	ws, err := Create(root)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := ws.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := Open(root)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer reopened.Close()
}

func TestAddStreamsAndGetStreamsRoundTrip(t *testing.T) {
	root := filepath.Join(t.TempDir(), "event1.gsm")
	ws, err := Create(root)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer ws.Close()

	stream := newTraceStream(t, "NZ", "WEL", "HNZ")
	collection := strongmotion.NewStreamCollection([]*strongmotion.Stream{stream}, strongmotion.DuplicatePreferenceOrder{})

	if err := ws.AddStreams(collection, "evt1", "raw", true); err != nil {
		t.Fatalf("AddStreams: %v", err)
	}

	got, err := ws.GetStreams("evt1", nil, []string{"raw"})
	if err != nil {
		t.Fatalf("GetStreams: %v", err)
	}
	if len(got.Streams()) != 1 {
		t.Fatalf("GetStreams() streams = %d, want 1", len(got.Streams()))
	}
	if len(got.Streams()[0].Traces()) != 1 {
		t.Fatalf("GetStreams() traces = %d, want 1", len(got.Streams()[0].Traces()))
	}
}

func TestWaveformMetricsRoundTrip(t *testing.T) {
	root := filepath.Join(t.TempDir(), "event1.gsm")
	ws, err := Create(root)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer ws.Close()

	xmlDoc := "<waveform_metrics/>"
	if err := ws.SetWaveformMetrics("NZ", "WEL", "10", "HN", "evt1", "default", xmlDoc, true); err != nil {
		t.Fatalf("SetWaveformMetrics: %v", err)
	}
	got, err := ws.GetWaveformMetrics("NZ", "WEL", "10", "HN", "evt1", "default")
	if err != nil {
		t.Fatalf("GetWaveformMetrics: %v", err)
	}
	if got != xmlDoc {
		t.Errorf("GetWaveformMetrics() = %q, want %q", got, xmlDoc)
	}
}

func TestWaveformMetricsMissingReturnsEmpty(t *testing.T) {
	root := filepath.Join(t.TempDir(), "event1.gsm")
	ws, err := Create(root)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer ws.Close()

	got, err := ws.GetWaveformMetrics("NZ", "WEL", "10", "HN", "evt1", "default")
	if err != nil {
		t.Fatalf("GetWaveformMetrics: %v", err)
	}
	if got != "" {
		t.Errorf("GetWaveformMetrics() = %q, want empty string for unrecorded key", got)
	}
}

func TestCacheSeriesRoundTrip(t *testing.T) {
	root := filepath.Join(t.TempDir(), "event1.gsm")
	ws, err := Create(root)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer ws.Close()

	freq := []float64{0.1, 0.2, 0.3}
	amp := []float64{1.0, 2.0, 3.0}
	if err := ws.SetCacheSeries(CacheSignalSpectrum, "NZ", "WEL", "10", "HNZ", "evt1", "default", freq, amp); err != nil {
		t.Fatalf("SetCacheSeries: %v", err)
	}
	gotFreq, gotAmp, err := ws.GetCacheSeries(CacheSignalSpectrum, "NZ", "WEL", "10", "HNZ", "evt1", "default")
	if err != nil {
		t.Fatalf("GetCacheSeries: %v", err)
	}
	if len(gotFreq) != len(freq) || len(gotAmp) != len(amp) {
		t.Fatalf("GetCacheSeries() lengths = %d/%d, want %d/%d", len(gotFreq), len(gotAmp), len(freq), len(amp))
	}
	for i := range freq {
		if gotFreq[i] != freq[i] || gotAmp[i] != amp[i] {
			t.Errorf("GetCacheSeries()[%d] = (%v, %v), want (%v, %v)", i, gotFreq[i], gotAmp[i], freq[i], amp[i])
		}
	}
}

func TestCacheSeriesRejectsMismatchedLengths(t *testing.T) {
	root := filepath.Join(t.TempDir(), "event1.gsm")
	ws, err := Create(root)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer ws.Close()

	err = ws.SetCacheSeries(CacheSnr, "NZ", "WEL", "10", "HNZ", "evt1", "default", []float64{1, 2}, []float64{1})
	if err == nil {
		t.Fatal("expected an error for mismatched freq/amplitude lengths")
	}
}

func TestTraceProcessingParametersRoundTrip(t *testing.T) {
	root := filepath.Join(t.TempDir(), "event1.gsm")
	ws, err := Create(root)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer ws.Close()

	type params struct {
		HighpassHz float64 `json:"highpass_hz"`
	}
	want := params{HighpassHz: 0.1}
	if err := ws.SetTraceProcessingParameters("NZ", "WEL", "10", "HNZ", "evt1", "default", want, true); err != nil {
		t.Fatalf("SetTraceProcessingParameters: %v", err)
	}

	var got params
	if err := ws.GetTraceProcessingParameters("NZ", "WEL", "10", "HNZ", "evt1", "default", &got); err != nil {
		t.Fatalf("GetTraceProcessingParameters: %v", err)
	}
	if got != want {
		t.Errorf("GetTraceProcessingParameters() = %+v, want %+v", got, want)
	}
}

func TestProvenanceFiltersByLabel(t *testing.T) {
	root := filepath.Join(t.TempDir(), "event1.gsm")
	ws, err := Create(root)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer ws.Close()

	stream := newTraceStream(t, "NZ", "WEL", "HNZ")
	collection := strongmotion.NewStreamCollection([]*strongmotion.Stream{stream}, strongmotion.DuplicatePreferenceOrder{})
	if err := ws.AddStreams(collection, "evt1", "raw", true); err != nil {
		t.Fatalf("AddStreams: %v", err)
	}

	if err := ws.SetProvenance("NZ", "WEL", "10", "HNZ", "evt1", "raw", "<prov/>", true); err != nil {
		t.Fatalf("SetProvenance: %v", err)
	}

	records, err := ws.GetProvenance("evt1", []string{"raw"})
	if err != nil {
		t.Fatalf("GetProvenance: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("GetProvenance() len = %d, want 1", len(records))
	}

	none, err := ws.GetProvenance("evt1", []string{"processed"})
	if err != nil {
		t.Fatalf("GetProvenance: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("GetProvenance(label mismatch) len = %d, want 0", len(none))
	}
}
