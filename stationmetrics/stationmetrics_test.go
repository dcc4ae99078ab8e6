package stationmetrics

import (
	"math"
	"strings"
	"testing"
)

func TestEpicentralDistanceZeroAtSamePoint(t *testing.T) {
	station := StationCoordinates{Latitude: -41.0, Longitude: 174.0}
	hypo := HypocenterCoordinates{Latitude: -41.0, Longitude: 174.0, DepthKm: 10}
	if got := EpicentralDistanceKm(station, hypo); math.Abs(got) > 1e-9 {
		t.Errorf("EpicentralDistanceKm() = %v, want ~0", got)
	}
}

func TestHypocentralDistanceIncludesDepth(t *testing.T) {
	station := StationCoordinates{Latitude: -41.0, Longitude: 174.0}
	hypo := HypocenterCoordinates{Latitude: -41.0, Longitude: 174.0, DepthKm: 10}
	got := HypocentralDistanceKm(station, hypo)
	if math.Abs(got-10) > 1e-9 {
		t.Errorf("HypocentralDistanceKm() = %v, want 10 (pure depth)", got)
	}
}

func TestHypocentralDistanceExceedsEpicentral(t *testing.T) {
	station := StationCoordinates{Latitude: -41.0, Longitude: 174.0}
	hypo := HypocenterCoordinates{Latitude: -41.5, Longitude: 174.5, DepthKm: 20}
	epi := EpicentralDistanceKm(station, hypo)
	hyp := HypocentralDistanceKm(station, hypo)
	if hyp <= epi {
		t.Errorf("HypocentralDistanceKm() = %v should exceed EpicentralDistanceKm() = %v", hyp, epi)
	}
}

func TestBackAzimuthDueNorth(t *testing.T) {
	station := StationCoordinates{Latitude: -42.0, Longitude: 174.0}
	hypo := HypocenterCoordinates{Latitude: -41.0, Longitude: 174.0}
	got := BackAzimuthDegrees(station, hypo)
	if math.Abs(got) > 1e-6 && math.Abs(got-360) > 1e-6 {
		t.Errorf("BackAzimuthDegrees() = %v, want ~0 for a due-north hypocenter", got)
	}
}

func TestLoadVs30GridAndLookupNearest(t *testing.T) {
	csvData := "latitude,longitude,vs30\n-41.0,174.0,300\n-42.0,175.0,600\n"
	src, err := LoadVs30Grid(strings.NewReader(csvData), "global", "vs30", "global Vs30 grid", "m/s")
	if err != nil {
		t.Fatalf("LoadVs30Grid: %v", err)
	}
	result, ok := src.Lookup(StationCoordinates{Latitude: -41.01, Longitude: 174.01})
	if !ok {
		t.Fatal("expected a lookup result")
	}
	if result.Value != 300 {
		t.Errorf("Lookup() value = %v, want 300 (nearest point)", result.Value)
	}
}

func TestLoadVs30GridMissingColumnErrors(t *testing.T) {
	csvData := "latitude,longitude,other\n-41.0,174.0,300\n"
	if _, err := LoadVs30Grid(strings.NewReader(csvData), "global", "vs30", "", "m/s"); err == nil {
		t.Fatal("expected an error when the configured column header is absent")
	}
}

func TestLookupAllSkipsEmptyGrids(t *testing.T) {
	empty, err := LoadVs30Grid(strings.NewReader(""), "empty", "vs30", "", "m/s")
	if err != nil {
		t.Fatalf("LoadVs30Grid: %v", err)
	}
	csvData := "latitude,longitude,vs30\n-41.0,174.0,400\n"
	loaded, err := LoadVs30Grid(strings.NewReader(csvData), "loaded", "vs30", "", "m/s")
	if err != nil {
		t.Fatalf("LoadVs30Grid: %v", err)
	}
	results := LookupAll([]*Vs30Source{empty, loaded}, StationCoordinates{Latitude: -41.0, Longitude: 174.0})
	if len(results) != 1 || results[0].Key != "loaded" {
		t.Errorf("LookupAll() = %+v, want only the loaded source", results)
	}
}
