package workspace

// SetWaveformMetrics writes the per-channel-group metrics XML for one
// station/event/label triple into the WaveformMetrics group, keyed by
// WaveformMetricsDatasetName.
func (w *Workspace) SetWaveformMetrics(network, station, location, channel, eventID, label, xmlDoc string, overwrite bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.checkOpen("workspace.SetWaveformMetrics"); err != nil {
		return err
	}
	name := WaveformMetricsDatasetName(network, station, location, channel, eventID, label)
	uri := w.path(groupWaveformMetrics, StationID(network, station), name)
	if err := w.writeBlob(uri, []byte(xmlDoc), overwrite); err != nil {
		return err
	}
	w.addEventID(eventID)
	w.addLabel(label)
	return w.persistCatalog()
}

// GetWaveformMetrics reads back the XML written by SetWaveformMetrics,
// or "" if nothing has been recorded for that key.
func (w *Workspace) GetWaveformMetrics(network, station, location, channel, eventID, label string) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.checkOpen("workspace.GetWaveformMetrics"); err != nil {
		return "", err
	}
	name := WaveformMetricsDatasetName(network, station, location, channel, eventID, label)
	uri := w.path(groupWaveformMetrics, StationID(network, station), name)
	if !w.blobExists(uri) {
		return "", nil
	}
	data, err := w.readBlob(uri)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// SetStationMetrics writes the station-level distance/Vs30 metrics XML
// keyed by
// StationMetricsDatasetName.
func (w *Workspace) SetStationMetrics(network, station, location, channel, eventID, xmlDoc string, overwrite bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.checkOpen("workspace.SetStationMetrics"); err != nil {
		return err
	}
	name := StationMetricsDatasetName(network, station, location, channel, eventID)
	uri := w.path(groupStationMetrics, StationID(network, station), name)
	if err := w.writeBlob(uri, []byte(xmlDoc), overwrite); err != nil {
		return err
	}
	w.addEventID(eventID)
	return w.persistCatalog()
}

// GetStationMetrics reads back the XML written by SetStationMetrics.
func (w *Workspace) GetStationMetrics(network, station, location, channel, eventID string) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.checkOpen("workspace.GetStationMetrics"); err != nil {
		return "", err
	}
	name := StationMetricsDatasetName(network, station, location, channel, eventID)
	uri := w.path(groupStationMetrics, StationID(network, station), name)
	if !w.blobExists(uri) {
		return "", nil
	}
	data, err := w.readBlob(uri)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
