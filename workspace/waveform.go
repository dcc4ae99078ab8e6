package workspace

import (
	"encoding/json"
	"math"
	"time"

	tiledb "github.com/TileDB-Inc/TileDB-Go"

	strongmotion "github.com/smcore/go-strongmotion"
)

type waveformMetadata struct {
	StartTimeNs    int64   `json:"starttime_ns"`
	SamplingRateHz float64 `json:"sampling_rate"`
}

// AddStreams writes every trace in collection's streams into the
// Waveforms group under label, one array per record
// (attitude_tiledb_array pattern) but with a single float64
// attribute per trace rather than a multi-field struct, since a trace
// is already homogeneous samples.
//
// Writing the same (station, event, label) dataset
// twice returns ErrWorkspaceExists unless overwrite is true.
func (w *Workspace) AddStreams(collection *strongmotion.StreamCollection, eventID, label string, overwrite bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.checkOpen("workspace.AddStreams"); err != nil {
		return err
	}

	for _, stream := range collection.Streams() {
		for _, tr := range stream.Traces() {
			if err := w.addTrace(tr, eventID, label, overwrite); err != nil {
				return err
			}
		}
	}
	w.addEventID(eventID)
	w.addLabel(label)
	return w.persistCatalog()
}

func (w *Workspace) addTrace(tr *strongmotion.Trace, eventID, label string, overwrite bool) error {
	net, sta, loc, cha := tr.Network, tr.Station, tr.Location, tr.Channel
	start := tr.StartTime
	end := start.Add(time.Duration(float64(tr.Npts()-1) / tr.SamplingRate * float64(time.Second)))

	name := WaveformDatasetName(net, sta, loc, cha, start, end, eventID, label)
	uri := w.path(groupWaveforms, StationID(net, sta), name)

	exists := w.arrayExists(uri)
	if exists && !overwrite {
		return strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.AddStreams", strongmotion.ErrWorkspaceExists)
	}
	if !exists {
		if err := w.createTraceArray(uri, tr.Npts()); err != nil {
			return err
		}
	}

	if err := w.writeTraceData(uri, tr.Data()); err != nil {
		return err
	}

	md := waveformMetadata{StartTimeNs: start.UnixNano(), SamplingRateHz: tr.SamplingRate}
	if err := w.putMetadataJSON(uri, "trace_info", md); err != nil {
		return err
	}

	w.catalog.Waveforms = append(w.catalog.Waveforms, waveformCatalogEntry{
		Network: net, Station: sta, Location: loc, Channel: cha,
		EventID: eventID, Label: label, Dataset: uri, Npts: tr.Npts(),
	})
	return nil
}

func (w *Workspace) arrayExists(uri string) bool {
	array, err := tiledb.NewArray(w.ctx, uri)
	if err != nil {
		return false
	}
	defer array.Free()
	if err := array.Open(tiledb.TILEDB_READ); err != nil {
		return false
	}
	array.Close()
	return true
}

func (w *Workspace) createTraceArray(uri string, npts int) error {
	domain, err := tiledb.NewDomain(w.ctx)
	if err != nil {
		return strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.createTraceArray", err)
	}
	defer domain.Free()

	tileSz := uint64(math.Min(float64(npts), 50000))
	dim, err := tiledb.NewDimension(w.ctx, "__tiledb_rows", tiledb.TILEDB_UINT64, []uint64{0, uint64(npts - 1)}, tileSz)
	if err != nil {
		return strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.createTraceArray", err)
	}
	defer dim.Free()

	if err := domain.AddDimensions(dim); err != nil {
		return strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.createTraceArray", err)
	}

	schema, err := tiledb.NewArraySchema(w.ctx, tiledb.TILEDB_DENSE)
	if err != nil {
		return strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.createTraceArray", err)
	}
	defer schema.Free()

	if err := schema.SetDomain(domain); err != nil {
		return strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.createTraceArray", err)
	}
	if err := schema.SetCellOrder(tiledb.TILEDB_ROW_MAJOR); err != nil {
		return strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.createTraceArray", err)
	}
	if err := schema.SetTileOrder(tiledb.TILEDB_ROW_MAJOR); err != nil {
		return strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.createTraceArray", err)
	}

	attr, err := tiledb.NewAttribute(w.ctx, "data", tiledb.TILEDB_FLOAT64)
	if err != nil {
		return strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.createTraceArray", err)
	}
	defer attr.Free()

	zstd, err := ZstdFilter(w.ctx, 9)
	if err != nil {
		return strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.createTraceArray", err)
	}
	defer zstd.Free()
	filters, err := tiledb.NewFilterList(w.ctx)
	if err != nil {
		return strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.createTraceArray", err)
	}
	defer filters.Free()
	if err := AddFilters(filters, zstd); err != nil {
		return strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.createTraceArray", err)
	}
	if err := attr.SetFilterList(filters); err != nil {
		return strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.createTraceArray", err)
	}

	if err := schema.AddAttributes(attr); err != nil {
		return strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.createTraceArray", err)
	}

	array, err := tiledb.NewArray(w.ctx, uri)
	if err != nil {
		return strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.createTraceArray", err)
	}
	defer array.Free()

	if err := array.Create(schema); err != nil {
		return strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.createTraceArray", err)
	}
	return nil
}

func (w *Workspace) writeTraceData(uri string, data []float64) error {
	array, err := tiledb.NewArray(w.ctx, uri)
	if err != nil {
		return strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.writeTraceData", err)
	}
	defer array.Free()

	if err := array.Open(tiledb.TILEDB_WRITE); err != nil {
		return strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.writeTraceData", err)
	}
	defer array.Close()

	query, err := tiledb.NewQuery(w.ctx, array)
	if err != nil {
		return strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.writeTraceData", err)
	}
	defer query.Free()

	if err := query.SetLayout(tiledb.TILEDB_ROW_MAJOR); err != nil {
		return strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.writeTraceData", err)
	}
	if _, err := query.SetDataBuffer("data", data); err != nil {
		return strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.writeTraceData", err)
	}
	if err := query.Submit(); err != nil {
		return strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.writeTraceData", err)
	}
	return nil
}

// readTraceData reads back all npts samples from a trace array.
func (w *Workspace) readTraceData(uri string, npts int) ([]float64, error) {
	array, err := tiledb.NewArray(w.ctx, uri)
	if err != nil {
		return nil, strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.readTraceData", err)
	}
	defer array.Free()

	if err := array.Open(tiledb.TILEDB_READ); err != nil {
		return nil, strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.readTraceData", err)
	}
	defer array.Close()

	query, err := tiledb.NewQuery(w.ctx, array)
	if err != nil {
		return nil, strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.readTraceData", err)
	}
	defer query.Free()

	if err := query.SetLayout(tiledb.TILEDB_ROW_MAJOR); err != nil {
		return nil, strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.readTraceData", err)
	}

	data := make([]float64, npts)
	if _, err := query.SetDataBuffer("data", data); err != nil {
		return nil, strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.readTraceData", err)
	}
	if err := query.Submit(); err != nil {
		return nil, strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.readTraceData", err)
	}
	return data, nil
}

func (w *Workspace) putMetadataJSON(uri, key string, value any) error {
	array, err := tiledb.NewArray(w.ctx, uri)
	if err != nil {
		return strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.putMetadataJSON", err)
	}
	defer array.Free()

	if err := array.Open(tiledb.TILEDB_WRITE); err != nil {
		return strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.putMetadataJSON", err)
	}
	defer array.Close()

	data, err := json.Marshal(value)
	if err != nil {
		return strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.putMetadataJSON", err)
	}

	if err := array.PutMetadata(key, data); err != nil {
		return strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.putMetadataJSON", err)
	}
	return nil
}

// GetStreams retrieves the streams recorded for eventID, optionally
// filtered to stations and labels.
// Empty stations/labels mean "all".
func (w *Workspace) GetStreams(eventID string, stations, labels []string) (*strongmotion.StreamCollection, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.checkOpen("workspace.GetStreams"); err != nil {
		return nil, err
	}

	var collection *strongmotion.StreamCollection
	byStream := map[string][]*strongmotion.Trace{}
	var order []string

	for _, entry := range w.catalog.Waveforms {
		if entry.EventID != eventID {
			continue
		}
		if len(stations) > 0 && !containsString(stations, entry.Station) {
			continue
		}
		if len(labels) > 0 && !containsString(labels, entry.Label) {
			continue
		}

		samplingRate, startNs, err := w.readTraceInfo(entry.Dataset)
		if err != nil {
			return nil, err
		}
		data, err := w.readTraceData(entry.Dataset, entry.Npts)
		if err != nil {
			return nil, err
		}

		header := strongmotion.Header{
			Network: entry.Network, Station: entry.Station,
			Location: entry.Location, Channel: entry.Channel,
			StartTime:    time.Unix(0, startNs).UTC(),
			SamplingRate: samplingRate,
		}
		tr, err := strongmotion.New(data, header)
		if err != nil {
			return nil, strongmotion.NewClassifiedError(strongmotion.ClassMalformedInput, "workspace.GetStreams", err)
		}

		key := StationID(entry.Network, entry.Station) + "." + entry.Location
		if _, ok := byStream[key]; !ok {
			order = append(order, key)
		}
		byStream[key] = append(byStream[key], tr)
	}

	streams := make([]*strongmotion.Stream, 0, len(order))
	for _, key := range order {
		streams = append(streams, strongmotion.NewStream(byStream[key]))
	}
	// Streams read back from a workspace are already deduplicated by
	// construction (one dataset per station/location/event/label), so
	// grouping needs no geographic tolerance.
	collection = strongmotion.NewStreamCollection(streams, strongmotion.DuplicatePreferenceOrder{})
	return collection, nil
}

func (w *Workspace) readTraceInfo(uri string) (samplingRate float64, startNs int64, err error) {
	array, openErr := tiledb.NewArray(w.ctx, uri)
	if openErr != nil {
		return 0, 0, strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.readTraceInfo", openErr)
	}
	defer array.Free()

	if openErr := array.Open(tiledb.TILEDB_READ); openErr != nil {
		return 0, 0, strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.readTraceInfo", openErr)
	}
	defer array.Close()

	_, raw, openErr := array.GetMetadata("trace_info")
	if openErr != nil {
		return 0, 0, strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.readTraceInfo", openErr)
	}
	bytes, ok := raw.([]byte)
	if !ok {
		return 0, 0, strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.readTraceInfo", strongmotion.ErrUnitsUnknown)
	}
	var md waveformMetadata
	if jsonErr := json.Unmarshal(bytes, &md); jsonErr != nil {
		return 0, 0, strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.readTraceInfo", jsonErr)
	}

	return md.SamplingRateHz, md.StartTimeNs, nil
}

func containsString(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
