package stationmetrics

import (
	"encoding/csv"
	"io"
	"strconv"

	strongmotion "github.com/smcore/go-strongmotion"
)

// Vs30Source is one configured entry under metrics.vs30.<key>: a
// labeled grid file plus the metadata recorded
// alongside every lookup it produces.
type Vs30Source struct {
	Key          string
	ColumnHeader string
	ReadmeEntry  string
	Units        string
	grid         []vs30Point
}

type vs30Point struct {
	lat, lon, value float64
}

// Vs30Result is one station's looked-up value plus the provenance
// needed to cite it in station-metrics XML.
type Vs30Result struct {
	Key          string
	ColumnHeader string
	ReadmeEntry  string
	Units        string
	Value        float64
}

// LoadVs30Grid parses a CSV grid with "latitude,longitude,<column_header>"
// columns (header row required) into a Vs30Source ready for lookups.
// No GIS/raster library appears anywhere in the retrieved pack, so this
// package treats Vs30 grids as plain CSV point grids rather than
// decoding a binary raster format; see DESIGN.md.
func LoadVs30Grid(r io.Reader, key, columnHeader, readmeEntry, units string) (*Vs30Source, error) {
	reader := csv.NewReader(r)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, strongmotion.NewClassifiedError(strongmotion.ClassConfig, "stationmetrics.LoadVs30Grid", err)
	}
	if len(rows) < 2 {
		return &Vs30Source{Key: key, ColumnHeader: columnHeader, ReadmeEntry: readmeEntry, Units: units}, nil
	}

	header := rows[0]
	latIdx, lonIdx, valIdx := -1, -1, -1
	for i, h := range header {
		switch h {
		case "latitude":
			latIdx = i
		case "longitude":
			lonIdx = i
		case columnHeader:
			valIdx = i
		}
	}
	if latIdx < 0 || lonIdx < 0 || valIdx < 0 {
		return nil, strongmotion.NewClassifiedError(strongmotion.ClassConfig, "stationmetrics.LoadVs30Grid", strongmotion.ErrMissingArg)
	}

	grid := make([]vs30Point, 0, len(rows)-1)
	for _, row := range rows[1:] {
		lat, errLat := strconv.ParseFloat(row[latIdx], 64)
		lon, errLon := strconv.ParseFloat(row[lonIdx], 64)
		val, errVal := strconv.ParseFloat(row[valIdx], 64)
		if errLat != nil || errLon != nil || errVal != nil {
			continue
		}
		grid = append(grid, vs30Point{lat: lat, lon: lon, value: val})
	}

	return &Vs30Source{Key: key, ColumnHeader: columnHeader, ReadmeEntry: readmeEntry, Units: units, grid: grid}, nil
}

// Lookup returns the nearest grid point's value for a station
// coordinate, and false if the grid has no points loaded.
func (s *Vs30Source) Lookup(station StationCoordinates) (Vs30Result, bool) {
	if len(s.grid) == 0 {
		return Vs30Result{}, false
	}
	best := s.grid[0]
	bestDist := haversineKm(station.Latitude, station.Longitude, best.lat, best.lon)
	for _, p := range s.grid[1:] {
		d := haversineKm(station.Latitude, station.Longitude, p.lat, p.lon)
		if d < bestDist {
			bestDist = d
			best = p
		}
	}
	return Vs30Result{
		Key:          s.Key,
		ColumnHeader: s.ColumnHeader,
		ReadmeEntry:  s.ReadmeEntry,
		Units:        s.Units,
		Value:        best.value,
	}, true
}

// LookupAll runs every configured source against a station, skipping
// sources with no data for that location.
func LookupAll(sources []*Vs30Source, station StationCoordinates) []Vs30Result {
	out := make([]Vs30Result, 0, len(sources))
	for _, s := range sources {
		if r, ok := s.Lookup(station); ok {
			out = append(out, r)
		}
	}
	return out
}
