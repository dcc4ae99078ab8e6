package metrics

import (
	"bytes"
	"encoding/xml"
	"strconv"
)

// WaveformMetricsXML serializes an evaluated Table into the
// <waveform_metrics> document persisted in a workspace's
// WaveformMetrics group, using encoding/xml the way GeoNet's
// quakeml12/seiscompml07 readers build seismological XML from Go
// struct tags; here the element names vary per IMC so the document is
// built token-by-token instead of from a single static struct.
func WaveformMetricsXML(t Table, saDamping, rotdPct, gmrotdPct float64) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")

	root := xml.StartElement{Name: xml.Name{Local: "waveform_metrics"}}
	if err := enc.EncodeToken(root); err != nil {
		return nil, err
	}

	if err := encodeScalarGroup(enc, "pga", "%g", t.PGA, rotdPct, gmrotdPct); err != nil {
		return nil, err
	}
	if err := encodeScalarGroup(enc, "pgv", "cm/s", t.PGV, rotdPct, gmrotdPct); err != nil {
		return nil, err
	}
	if err := encodeScalarGroup(enc, "pgd", "cm", t.PGD, rotdPct, gmrotdPct); err != nil {
		return nil, err
	}
	if err := encodeScalarGroup(enc, "arias", "m/s", t.Arias, rotdPct, gmrotdPct); err != nil {
		return nil, err
	}
	if err := encodePeriodGroup(enc, "sa", "%g", "period", t.SA, saDamping, rotdPct, gmrotdPct); err != nil {
		return nil, err
	}
	if err := encodePeriodGroup(enc, "fas", "cm/s", "period", t.FAS, -1, rotdPct, gmrotdPct); err != nil {
		return nil, err
	}
	if err := encodeDurationGroup(enc, "duration", "s", t.Duration, rotdPct, gmrotdPct); err != nil {
		return nil, err
	}
	if err := encodeDurationGroup(enc, "sorted_duration", "s", t.SortedDuration, rotdPct, gmrotdPct); err != nil {
		return nil, err
	}

	if err := enc.EncodeToken(root.End()); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// imcElementName names the container element for one IMC's values:
// "rot_dNN"/"gmrot_dNN" for the percentile IMCs (matching the §6.3
// <rot_d50> sample), "component" for per-channel values (named via a
// "name" attribute holding the channel code), and the IMC string
// itself otherwise.
func imcElementName(imc IMC, rotdPct, gmrotdPct float64) string {
	switch imc {
	case IMCRotD:
		return "rot_d" + formatAttr(rotdPct)
	case IMCGMRotD:
		return "gmrot_d" + formatAttr(gmrotdPct)
	case IMCChannels:
		return "component"
	default:
		return string(imc)
	}
}

func formatAttr(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func attrsFor(name, units, component string) []xml.Attr {
	attrs := []xml.Attr{{Name: xml.Name{Local: "units"}, Value: units}}
	if name == "component" {
		attrs = append(attrs, xml.Attr{Name: xml.Name{Local: "name"}, Value: component})
	}
	return attrs
}

func encodeScalarGroup(enc *xml.Encoder, tag, units string, values []ScalarValue, rotdPct, gmrotdPct float64) error {
	if len(values) == 0 {
		return nil
	}
	start := xml.StartElement{Name: xml.Name{Local: tag}}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	for _, v := range values {
		name := imcElementName(v.IMC, rotdPct, gmrotdPct)
		elem := xml.StartElement{Name: xml.Name{Local: name}, Attr: attrsFor(name, units, v.Component)}
		if err := enc.EncodeToken(elem); err != nil {
			return err
		}
		if err := enc.EncodeToken(xml.CharData(formatValue(v.Value))); err != nil {
			return err
		}
		if err := enc.EncodeToken(elem.End()); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

type groupKey struct {
	imc       IMC
	component string
}

func encodePeriodGroup(enc *xml.Encoder, tag, units, valueAttr string, values []PeriodValue, damping, rotdPct, gmrotdPct float64) error {
	if len(values) == 0 {
		return nil
	}
	var attrs []xml.Attr
	if damping >= 0 {
		attrs = append(attrs, xml.Attr{Name: xml.Name{Local: "percent_damping"}, Value: formatAttr(damping)})
	}
	start := xml.StartElement{Name: xml.Name{Local: tag}, Attr: attrs}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}

	groups := map[groupKey][]PeriodValue{}
	var order []groupKey
	for _, v := range values {
		key := groupKey{imc: v.IMC, component: v.Component}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], v)
	}

	for _, key := range order {
		name := imcElementName(key.imc, rotdPct, gmrotdPct)
		gElem := xml.StartElement{Name: xml.Name{Local: name}, Attr: attrsFor(name, units, key.component)}
		if err := enc.EncodeToken(gElem); err != nil {
			return err
		}
		for _, pv := range groups[key] {
			vElem := xml.StartElement{Name: xml.Name{Local: "value"}, Attr: []xml.Attr{{Name: xml.Name{Local: valueAttr}, Value: formatAttr(pv.Period)}}}
			if err := enc.EncodeToken(vElem); err != nil {
				return err
			}
			if err := enc.EncodeToken(xml.CharData(formatValue(pv.Value))); err != nil {
				return err
			}
			if err := enc.EncodeToken(vElem.End()); err != nil {
				return err
			}
		}
		if err := enc.EncodeToken(gElem.End()); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

func encodeDurationGroup(enc *xml.Encoder, tag, units string, values []ScalarValue, rotdPct, gmrotdPct float64) error {
	if len(values) == 0 {
		return nil
	}
	start := xml.StartElement{Name: xml.Name{Local: tag}}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}

	groups := map[groupKey][]ScalarValue{}
	var order []groupKey
	for _, v := range values {
		key := groupKey{imc: v.IMC, component: v.Component}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], v)
	}

	for _, key := range order {
		name := imcElementName(key.imc, rotdPct, gmrotdPct)
		gElem := xml.StartElement{Name: xml.Name{Local: name}, Attr: attrsFor(name, units, key.component)}
		if err := enc.EncodeToken(gElem); err != nil {
			return err
		}
		for _, sv := range groups[key] {
			vElem := xml.StartElement{Name: xml.Name{Local: "value"}, Attr: []xml.Attr{{Name: xml.Name{Local: "interval"}, Value: sv.Label}}}
			if err := enc.EncodeToken(vElem); err != nil {
				return err
			}
			if err := enc.EncodeToken(xml.CharData(formatValue(sv.Value))); err != nil {
				return err
			}
			if err := enc.EncodeToken(vElem.End()); err != nil {
				return err
			}
		}
		if err := enc.EncodeToken(gElem.End()); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}
