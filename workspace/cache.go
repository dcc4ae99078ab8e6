package workspace

import (
	"encoding/json"

	strongmotion "github.com/smcore/go-strongmotion"
)

// Cache array family names, matching Cache group
// (frequency/amplitude pairs retained across a re-run so spectra and
// SNR curves don't need recomputing from raw samples).
const (
	CacheSignalSpectrum       = "SignalSpectrum"
	CacheNoiseSpectrum        = "NoiseSpectrum"
	CacheSmoothSignalSpectrum = "SmoothSignalSpectrum"
	CacheSmoothNoiseSpectrum  = "SmoothNoiseSpectrum"
	CacheSnr                  = "Snr"
)

type cacheSeries struct {
	Freq      []float64 `json:"freq"`
	Amplitude []float64 `json:"amplitude"`
}

// SetCacheSeries writes one (freq, amplitude) curve into the named
// cache family, overwriting any prior curve at the same key — cache
// entries are always safe to replace since they are derived data, not
// an append-only record. The pair is stored as a single JSON blob
// rather than a fixed-shape numeric array, since a re-run's curve
// length (e.g. after a window-length change) need not match the
// previous one, and blob arrays already support in-place overwrite.
func (w *Workspace) SetCacheSeries(cacheName, network, station, location, channel, eventID, label string, freq, amplitude []float64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.checkOpen("workspace.SetCacheSeries"); err != nil {
		return err
	}
	if len(freq) != len(amplitude) {
		return strongmotion.NewClassifiedError(strongmotion.ClassMalformedInput, "workspace.SetCacheSeries", strongmotion.ErrNptsMismatch)
	}
	name := CacheDatasetName(cacheName, network, station, location, channel, eventID, label)
	uri := w.path(groupCache, name)

	data, err := json.Marshal(cacheSeries{Freq: freq, Amplitude: amplitude})
	if err != nil {
		return strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.SetCacheSeries", err)
	}
	return w.writeBlob(uri, data, true)
}

// GetCacheSeries reads back a curve written by SetCacheSeries, or
// (nil, nil, nil) if no curve has been cached at that key.
func (w *Workspace) GetCacheSeries(cacheName, network, station, location, channel, eventID, label string) (freq, amplitude []float64, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.checkOpen("workspace.GetCacheSeries"); err != nil {
		return nil, nil, err
	}
	name := CacheDatasetName(cacheName, network, station, location, channel, eventID, label)
	uri := w.path(groupCache, name)
	if !w.blobExists(uri) {
		return nil, nil, nil
	}
	data, err := w.readBlob(uri)
	if err != nil {
		return nil, nil, err
	}
	var series cacheSeries
	if err := json.Unmarshal(data, &series); err != nil {
		return nil, nil, strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.GetCacheSeries", err)
	}
	return series.Freq, series.Amplitude, nil
}
