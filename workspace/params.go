package workspace

import (
	"encoding/json"

	strongmotion "github.com/smcore/go-strongmotion"
)

// SetTraceProcessingParameters stores the ordered record of processing
// steps applied to one trace, serialized as JSON since, unlike waveform/station
// metrics, no fixed XML schema governs this record.
func (w *Workspace) SetTraceProcessingParameters(network, station, location, channel, eventID, label string, params any, overwrite bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.checkOpen("workspace.SetTraceProcessingParameters"); err != nil {
		return err
	}
	data, err := json.Marshal(params)
	if err != nil {
		return strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.SetTraceProcessingParameters", err)
	}
	name := TraceProcessingParametersName(network, station, location, channel, eventID, label)
	uri := w.path(groupTraceProcessingParameters, StationID(network, station), name)
	if err := w.writeBlob(uri, data, overwrite); err != nil {
		return err
	}
	return w.persistCatalog()
}

// GetTraceProcessingParameters decodes the JSON written by
// SetTraceProcessingParameters into out.
func (w *Workspace) GetTraceProcessingParameters(network, station, location, channel, eventID, label string, out any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.checkOpen("workspace.GetTraceProcessingParameters"); err != nil {
		return err
	}
	name := TraceProcessingParametersName(network, station, location, channel, eventID, label)
	uri := w.path(groupTraceProcessingParameters, StationID(network, station), name)
	data, err := w.readBlob(uri)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.GetTraceProcessingParameters", err)
	}
	return nil
}

// SetStreamProcessingParameters stores the stream-level record (e.g.
// rotation angles, orientation checks) that applies across a station's
// channel group rather than to one trace alone.
func (w *Workspace) SetStreamProcessingParameters(network, station, location, channel, eventID, label string, params any, overwrite bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.checkOpen("workspace.SetStreamProcessingParameters"); err != nil {
		return err
	}
	data, err := json.Marshal(params)
	if err != nil {
		return strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.SetStreamProcessingParameters", err)
	}
	name := StreamProcessingParametersName(network, station, location, channel, eventID, label)
	uri := w.path(groupStreamProcessingParameters, StationID(network, station), name)
	if err := w.writeBlob(uri, data, overwrite); err != nil {
		return err
	}
	return w.persistCatalog()
}

// GetStreamProcessingParameters decodes the JSON written by
// SetStreamProcessingParameters into out.
func (w *Workspace) GetStreamProcessingParameters(network, station, location, channel, eventID, label string, out any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.checkOpen("workspace.GetStreamProcessingParameters"); err != nil {
		return err
	}
	name := StreamProcessingParametersName(network, station, location, channel, eventID, label)
	uri := w.path(groupStreamProcessingParameters, StationID(network, station), name)
	data, err := w.readBlob(uri)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.GetStreamProcessingParameters", err)
	}
	return nil
}
