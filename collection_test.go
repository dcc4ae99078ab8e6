package strongmotion

import "testing"

func singleTraceStream(t *testing.T, station, channel, location, processLevel, format string) *Stream {
	t.Helper()
	hdr := validHeader()
	hdr.Station = station
	hdr.Channel = channel
	hdr.Location = location
	hdr.Standard.ProcessLevel = ProcessLevel(processLevel)
	hdr.Standard.SourceFormat = format
	tr, err := New([]float64{1, 2, 3}, hdr)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return NewStream([]*Trace{tr})
}

func TestNewStreamCollectionKeepsDistinctChannels(t *testing.T) {
	a := singleTraceStream(t, "WEL", "HNZ", "10", "V1", "cosmos")
	b := singleTraceStream(t, "WEL", "HNN", "10", "V1", "cosmos")
	c := NewStreamCollection([]*Stream{a, b}, DuplicatePreferenceOrder{})
	if len(c.Streams()) != 2 {
		t.Errorf("Streams() len = %d, want 2", len(c.Streams()))
	}
	if len(c.Rejected()) != 0 {
		t.Errorf("Rejected() len = %d, want 0", len(c.Rejected()))
	}
}

func TestNewStreamCollectionResolvesDuplicatesByProcessLevel(t *testing.T) {
	raw := singleTraceStream(t, "WEL", "HNZ", "10", "V0", "cosmos")
	processed := singleTraceStream(t, "WEL", "HNZ", "10", "V1", "cosmos")

	pref := DuplicatePreferenceOrder{
		ProcessLevelOrder: []ProcessLevel{ProcessLevelV1, ProcessLevelV0},
	}
	c := NewStreamCollection([]*Stream{raw, processed}, pref)

	if len(c.Streams()) != 1 {
		t.Fatalf("Streams() len = %d, want 1", len(c.Streams()))
	}
	if c.Streams()[0] != processed {
		t.Error("expected V1 stream to win over V0 duplicate")
	}
	if len(c.Rejected()) != 1 || c.Rejected()[0] != raw {
		t.Errorf("expected raw stream rejected, got %+v", c.Rejected())
	}
}

func TestNewStreamCollectionGroupsWithinDistanceTolerance(t *testing.T) {
	a := singleTraceStream(t, "WEL", "HNZ", "10", "V1", "cosmos")
	a.Traces()[0].Network = "NZ"
	a.Traces()[0].Location = "10"
	a.Traces()[0].Coordinates = Coordinates{Latitude: -41.0, Longitude: 174.0}

	b := singleTraceStream(t, "WEL", "HNZ", "20", "V1", "cosmos")
	b.Traces()[0].Network = "XX"
	b.Traces()[0].Coordinates = Coordinates{Latitude: -41.0, Longitude: 174.0}

	c := NewStreamCollection([]*Stream{a, b}, DuplicatePreferenceOrder{MaxDistTolerance: 100})
	if len(c.Streams()) != 1 {
		t.Errorf("expected colocated streams to merge into one group, got %d", len(c.Streams()))
	}
}

func TestStreamCollectionStationCodes(t *testing.T) {
	a := singleTraceStream(t, "WEL", "HNZ", "10", "V1", "cosmos")
	a.Traces()[0].Network = "NZ"
	b := singleTraceStream(t, "TAU", "HNZ", "10", "V1", "cosmos")
	b.Traces()[0].Network = "NZ"

	c := NewStreamCollection([]*Stream{a, b}, DuplicatePreferenceOrder{})
	codes := c.StationCodes()
	if len(codes) != 2 {
		t.Errorf("StationCodes() len = %d, want 2", len(codes))
	}
}
