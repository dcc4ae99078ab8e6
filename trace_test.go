package strongmotion

import (
	"testing"
	"time"
)

func validHeader() Header {
	return Header{
		Network:      "NZ",
		Station:      "WEL",
		Location:     "10",
		Channel:      "HNZ",
		StartTime:    time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		SamplingRate: 100,
		Standard: Standard{
			ProcessLevel: ProcessLevelV0,
			Units:        UnitsCounts,
		},
	}
}

func TestNewRejectsEmptyCodes(t *testing.T) {
	hdr := validHeader()
	hdr.Station = ""
	if _, err := New([]float64{1, 2, 3}, hdr); err == nil {
		t.Fatal("expected error for empty station code")
	}
}

func TestNewAndAccessors(t *testing.T) {
	data := []float64{1, 2, 3, 4}
	tr, err := New(data, validHeader())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if tr.Npts() != len(data) {
		t.Errorf("Npts() = %d, want %d", tr.Npts(), len(data))
	}
	if !tr.Passed() {
		t.Error("new trace should start passed")
	}
	if len(tr.Failures()) != 0 {
		t.Error("new trace should start with no failures")
	}
}

func TestTraceFail(t *testing.T) {
	tr, err := New([]float64{1, 2, 3}, validHeader())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	tr.Fail("snr_check", "insufficient pre-event noise")
	if tr.Passed() {
		t.Error("trace should be marked failed")
	}
	failures := tr.Failures()
	if len(failures) != 1 || failures[0].Check != "snr_check" {
		t.Errorf("unexpected failures: %+v", failures)
	}
}

func TestTraceSetDataUpdatesSamplingRate(t *testing.T) {
	tr, err := New([]float64{1, 2, 3, 4}, validHeader())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := tr.SetData([]float64{1, 2}, 50); err != nil {
		t.Fatalf("SetData: %v", err)
	}
	if tr.Npts() != 2 {
		t.Errorf("Npts() after SetData = %d, want 2", tr.Npts())
	}
	if tr.SamplingRate != 50 {
		t.Errorf("SamplingRate after SetData = %v, want 50", tr.SamplingRate)
	}
}

func TestTraceParameterRoundTrip(t *testing.T) {
	tr, err := New([]float64{1, 2, 3}, validHeader())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	want := SignalSplit{SplitTime: 5, PickerUsed: "stalta", End: 30}
	tr.SetParameter(ParamSignalSplit, want)

	got, ok := tr.GetParameter(ParamSignalSplit)
	if !ok {
		t.Fatal("expected parameter to be present")
	}
	split, ok := got.(SignalSplit)
	if !ok || split != want {
		t.Errorf("GetParameter = %+v, want %+v", got, want)
	}

	if _, ok := tr.GetParameter(ParamBruneFit); ok {
		t.Error("unset parameter should not be present")
	}
}

func TestRecordSkippedAppendsSkippedStatus(t *testing.T) {
	tr, err := New([]float64{1, 2, 3}, validHeader())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	RecordSkipped(tr, ActivityHighpassFilter)
	entries := tr.GetProvenance()
	if len(entries) != 1 || entries[0].Status != StatusSkipped || entries[0].Activity != ActivityHighpassFilter {
		t.Errorf("unexpected provenance: %+v", entries)
	}
}

func TestParseReferenceTime(t *testing.T) {
	got, err := ParseReferenceTime("2023/045 12:30:15")
	if err != nil {
		t.Fatalf("ParseReferenceTime: %v", err)
	}
	want := time.Date(2023, 2, 14, 12, 30, 15, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ParseReferenceTime = %v, want %v", got, want)
	}
}

func TestParseReferenceTimeRejectsMalformed(t *testing.T) {
	if _, err := ParseReferenceTime("not-a-reftime"); err == nil {
		t.Fatal("expected error for malformed reference time")
	}
}
