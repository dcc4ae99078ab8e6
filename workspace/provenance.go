package workspace

// ProvenanceRecord pairs one trace's channel identity with the
// SEIS-PROV XML document embedded alongside it.
type ProvenanceRecord struct {
	Network  string
	Station  string
	Location string
	Channel  string
	Label    string
	XML      string
}

const groupProvenance = "Provenance"

// SetProvenance writes the SEIS-PROV document produced for one trace's
// processing run.
func (w *Workspace) SetProvenance(network, station, location, channel, eventID, label, xmlDoc string, overwrite bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.checkOpen("workspace.SetProvenance"); err != nil {
		return err
	}
	name := TraceProcessingParametersName(network, station, location, channel, eventID, label)
	uri := w.path(groupProvenance, StationID(network, station), name)
	if err := w.writeBlob(uri, []byte(xmlDoc), overwrite); err != nil {
		return err
	}
	w.addEventID(eventID)
	w.addLabel(label)
	return w.persistCatalog()
}

// GetProvenance returns every provenance document recorded for eventID,
// optionally filtered to labels (empty means "all").
func (w *Workspace) GetProvenance(eventID string, labels []string) ([]ProvenanceRecord, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.checkOpen("workspace.GetProvenance"); err != nil {
		return nil, err
	}

	var out []ProvenanceRecord
	for _, entry := range w.catalog.Waveforms {
		if entry.EventID != eventID {
			continue
		}
		if len(labels) > 0 && !containsString(labels, entry.Label) {
			continue
		}
		name := TraceProcessingParametersName(entry.Network, entry.Station, entry.Location, entry.Channel, entry.EventID, entry.Label)
		uri := w.path(groupProvenance, StationID(entry.Network, entry.Station), name)
		if !w.blobExists(uri) {
			continue
		}
		data, err := w.readBlob(uri)
		if err != nil {
			return nil, err
		}
		out = append(out, ProvenanceRecord{
			Network: entry.Network, Station: entry.Station,
			Location: entry.Location, Channel: entry.Channel,
			Label: entry.Label, XML: string(data),
		})
	}
	return out, nil
}
