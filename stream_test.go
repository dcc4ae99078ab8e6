package strongmotion

import "testing"

func threeComponentTraces(t *testing.T) (*Trace, *Trace, *Trace) {
	t.Helper()
	hdr := validHeader()

	hdrN := hdr
	hdrN.Channel = "HNN"
	n, err := New([]float64{1, 2, 3}, hdrN)
	if err != nil {
		t.Fatalf("New HNN: %v", err)
	}

	hdrE := hdr
	hdrE.Channel = "HNE"
	e, err := New([]float64{1, 2, 3}, hdrE)
	if err != nil {
		t.Fatalf("New HNE: %v", err)
	}

	hdrZ := hdr
	hdrZ.Channel = "HNZ"
	z, err := New([]float64{1, 2, 3}, hdrZ)
	if err != nil {
		t.Fatalf("New HNZ: %v", err)
	}

	return n, e, z
}

func TestNewStreamConsistentTiming(t *testing.T) {
	n, e, z := threeComponentTraces(t)
	s := NewStream([]*Trace{n, e, z})
	if !s.Passed() {
		t.Errorf("expected stream to pass, failures: %+v", s.Failures())
	}
	if len(s.Traces()) != 3 {
		t.Errorf("Traces() len = %d, want 3", len(s.Traces()))
	}
}

func TestNewStreamMismatchedTimingFails(t *testing.T) {
	n, e, z := threeComponentTraces(t)
	if err := e.SetData([]float64{1, 2}, e.SamplingRate); err != nil {
		t.Fatalf("SetData: %v", err)
	}
	s := NewStream([]*Trace{n, e, z})
	if s.Passed() {
		t.Fatal("expected stream with mismatched npts to fail")
	}
	if len(s.Failures()) != 1 || s.Failures()[0].Check != ActivityCheckChannels {
		t.Errorf("unexpected failures: %+v", s.Failures())
	}
}

func TestStreamHorizontalSplitsOutVertical(t *testing.T) {
	n, e, z := threeComponentTraces(t)
	s := NewStream([]*Trace{n, e, z})
	h1, h2, vert := s.Horizontal()
	if vert != z {
		t.Errorf("Horizontal() vertical = %v, want %v", vert, z)
	}
	if h1 == nil || h2 == nil {
		t.Fatal("expected two horizontal traces")
	}
	if h1 == vert || h2 == vert {
		t.Error("horizontal components must not include the vertical trace")
	}
}

func TestStreamChannelCode(t *testing.T) {
	n, e, z := threeComponentTraces(t)
	s := NewStream([]*Trace{n, e, z})
	want := "NZ.WEL.10.HN"
	if got := s.ChannelCode(); got != want {
		t.Errorf("ChannelCode() = %q, want %q", got, want)
	}
}

func TestStreamParameterBags(t *testing.T) {
	n, e, z := threeComponentTraces(t)
	s := NewStream([]*Trace{n, e, z})

	s.SetParameter("rotd50", 12.5)
	if v, ok := s.GetParameter("rotd50"); !ok || v.(float64) != 12.5 {
		t.Errorf("GetParameter(rotd50) = %v, %v", v, ok)
	}

	s.SetStreamParameter("rotation_matrix", []float64{1, 0, 0, 1})
	if _, ok := s.GetStreamParameter("rotation_matrix"); !ok {
		t.Error("expected stream parameter to be present")
	}
	if _, ok := s.GetStreamParameter("missing"); ok {
		t.Error("unset stream parameter should not be present")
	}
}
