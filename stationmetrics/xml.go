package stationmetrics

import (
	"bytes"
	"encoding/xml"
)

// StationMetricsDoc is the decoded/encoded shape of a station's
// distance and Vs30 metrics, matching what GetStationMetrics returns
// and SetStationMetrics persists.
type StationMetricsDoc struct {
	XMLName         xml.Name     `xml:"station_metrics"`
	EpicentralKM    float64      `xml:"distance>epicentral_km"`
	HypocentralKM   float64      `xml:"distance>hypocentral_km"`
	BackAzimuthDeg  float64      `xml:"distance>back_azimuth_deg"`
	Vs30            []vs30XML    `xml:"vs30"`
}

type vs30XML struct {
	Key          string  `xml:"key,attr"`
	ColumnHeader string  `xml:"column_header,attr"`
	Units        string  `xml:"units,attr"`
	ReadmeEntry  string  `xml:"readme_entry,attr,omitempty"`
	Value        float64 `xml:",chardata"`
}

// BuildStationMetricsDoc assembles a StationMetricsDoc from the
// geometry and Vs30 lookups computed for one station/event pair.
func BuildStationMetricsDoc(station StationCoordinates, hypo HypocenterCoordinates, vs30 []Vs30Result) StationMetricsDoc {
	doc := StationMetricsDoc{
		EpicentralKM:   EpicentralDistanceKm(station, hypo),
		HypocentralKM:  HypocentralDistanceKm(station, hypo),
		BackAzimuthDeg: BackAzimuthDegrees(station, hypo),
	}
	for _, v := range vs30 {
		doc.Vs30 = append(doc.Vs30, vs30XML{
			Key:          v.Key,
			ColumnHeader: v.ColumnHeader,
			Units:        v.Units,
			ReadmeEntry:  v.ReadmeEntry,
			Value:        v.Value,
		})
	}
	return doc
}

// StationMetricsXML renders a StationMetricsDoc with the same
// indented-document convention WaveformMetricsXML uses.
func StationMetricsXML(doc StationMetricsDoc) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), enc.Flush()
}
