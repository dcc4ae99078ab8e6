package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/smcore/go-strongmotion/config"
	"github.com/smcore/go-strongmotion/workspace"

	strongmotion "github.com/smcore/go-strongmotion"
)

func TestToProcessLevels(t *testing.T) {
	got := toProcessLevels([]string{"V1", "V0"})
	want := []strongmotion.ProcessLevel{strongmotion.ProcessLevel("V1"), strongmotion.ProcessLevel("V0")}
	if len(got) != len(want) {
		t.Fatalf("toProcessLevels() len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("toProcessLevels()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestAssembleWithNoMatchingReaderCreatesEmptyWorkspace(t *testing.T) {
	rawDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(rawDir, "station1.unknown"), []byte("not a real waveform file"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	workspaceURI := filepath.Join(t.TempDir(), "evt.gsm")
	cfg := &config.Config{}
	facade := strongmotion.NewReaderFacade()

	if err := assemble(rawDir, workspaceURI, "evt1", cfg, facade); err != nil {
		t.Fatalf("assemble: %v", err)
	}

	ws, err := workspace.Open(workspaceURI)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer ws.Close()

	collection, err := ws.GetStreams("evt1", nil, []string{"raw"})
	if err != nil {
		t.Fatalf("GetStreams: %v", err)
	}
	if len(collection.Streams()) != 0 {
		t.Errorf("GetStreams() = %d streams, want 0 (no reader claimed the file)", len(collection.Streams()))
	}
}

func TestProcessWaveformsRunsConfiguredPipeline(t *testing.T) {
	workspaceURI := filepath.Join(t.TempDir(), "evt.gsm")
	ws, err := workspace.Create(workspaceURI)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	hdr := strongmotion.Header{
		Network:      "NZ",
		Station:      "WEL",
		Location:     "10",
		Channel:      "HNZ",
		StartTime:    time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		SamplingRate: 100,
		Standard:     strongmotion.Standard{ProcessLevel: strongmotion.ProcessLevelV0, Units: strongmotion.UnitsCounts},
	}
	data := make([]float64, 500)
	for i := range data {
		data[i] = float64(i%5) - 2
	}
	tr, err := strongmotion.New(data, hdr)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	stream := strongmotion.NewStream([]*strongmotion.Trace{tr})
	collection := strongmotion.NewStreamCollection([]*strongmotion.Stream{stream}, strongmotion.DuplicatePreferenceOrder{})
	if err := ws.AddStreams(collection, "evt1", "raw", true); err != nil {
		t.Fatalf("AddStreams: %v", err)
	}
	if err := ws.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	cfg := &config.Config{
		Processing: []config.ProcessingStep{
			{Name: "detrend", Args: map[string]any{"method": "demean"}},
		},
	}
	if err := processWaveforms(workspaceURI, "evt1", "processed", cfg); err != nil {
		t.Fatalf("processWaveforms: %v", err)
	}

	reopened, err := workspace.Open(workspaceURI)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer reopened.Close()

	out, err := reopened.GetStreams("evt1", nil, []string{"processed"})
	if err != nil {
		t.Fatalf("GetStreams: %v", err)
	}
	if len(out.Streams()) != 1 {
		t.Fatalf("GetStreams() = %d streams, want 1", len(out.Streams()))
	}
}
