// Package workspace implements a per-event
// container holding QuakeML, waveform data, and the derived metrics
// and provenance artifacts, built on TileDB arrays the same way one
// array per sensor record type is built elsewhere. Group/dataset
// naming follows ASDF-derived layout; see
// DESIGN.md for how this package maps ASDF's HDF5 groups onto a
// TileDB-backed directory tree.
package workspace

import (
	"strings"
	"time"
)

const timeLayout = "2006-01-02T15:04:05.000000Z"

// FormatTime renders a time.Time using the fixed microsecond-precision
// layout used throughout dataset names.
func FormatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// instrumentCode strips the orientation/component character (the last
// character) from a SEED channel code, e.g. "HNZ" -> "HN".
func instrumentCode(channel string) string {
	if len(channel) == 0 {
		return channel
	}
	return channel[:len(channel)-1]
}

// StationID is the "<NET>.<STA>" key used for the Waveforms and
// AuxiliaryData station-level groups.
func StationID(network, station string) string {
	return network + "." + station
}

// ChannelID is the full "<NET>.<STA>.<LOC>.<CHA>" code block.
func ChannelID(network, station, location, channel string) string {
	return network + "." + station + "." + location + "." + channel
}

// WaveformDatasetName builds the
// "<NET>.<STA>.<LOC>.<CHA>__<START>__<END>__<EVENTID>_<LABEL>" name
// assigned to one trace's dataset.
func WaveformDatasetName(network, station, location, channel string, start, end time.Time, eventID, label string) string {
	code := ChannelID(network, station, location, channel)
	return code + "__" + FormatTime(start) + "__" + FormatTime(end) + "__" + eventID + "_" + label
}

// WaveformMetricsDatasetName builds
// "<NET>.<STA>.<LOC>.<INST>_<EVENTID>_<LABEL>".
func WaveformMetricsDatasetName(network, station, location, channel, eventID, label string) string {
	inst := network + "." + station + "." + location + "." + instrumentCode(channel)
	return inst + "_" + eventID + "_" + label
}

// StationMetricsDatasetName builds "<NET>.<STA>.<LOC>.<INST>_<EVENTID>".
func StationMetricsDatasetName(network, station, location, channel, eventID string) string {
	inst := network + "." + station + "." + location + "." + instrumentCode(channel)
	return inst + "_" + eventID
}

// TraceProcessingParametersName builds
// "<NET>.<STA>.<LOC>.<CHA>_<EVENTID>_<LABEL>".
func TraceProcessingParametersName(network, station, location, channel, eventID, label string) string {
	return ChannelID(network, station, location, channel) + "_" + eventID + "_" + label
}

// StreamProcessingParametersName builds
// "<NET>.<STA>.<LOC>.<INST>_<EVENTID>_<LABEL>".
func StreamProcessingParametersName(network, station, location, channel, eventID, label string) string {
	inst := network + "." + station + "." + location + "." + instrumentCode(channel)
	return inst + "_" + eventID + "_" + label
}

// CacheDatasetName builds "<Name>/<NET>.<STA>/<NET>.<STA>.<LOC>.<CHA>_<EVENTID>_<LABEL>"
// for one of the known Cache array families (SignalSpectrum, etc).
func CacheDatasetName(cacheName, network, station, location, channel, eventID, label string) string {
	return cacheName + "/" + StationID(network, station) + "/" +
		ChannelID(network, station, location, channel) + "_" + eventID + "_" + label
}

// groupPath joins path segments with "/" the way ASDF/HDF5 group paths
// are written, regardless of host OS path separator conventions — the
// URI is handed to TileDB, not the local filesystem directly.
func groupPath(segments ...string) string {
	return strings.Join(segments, "/")
}

const (
	groupQuakeML                    = "QuakeML"
	groupWaveforms                  = "Waveforms"
	groupAuxiliaryData              = "AuxiliaryData"
	groupWaveformMetrics            = "WaveformMetrics"
	groupStationMetrics             = "StationMetrics"
	groupTraceProcessingParameters  = "TraceProcessingParameters"
	groupStreamProcessingParameters = "StreamProcessingParameters"
	groupCache                      = "Cache"
)
