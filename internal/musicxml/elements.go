package musicxml

import "encoding/xml"

// MarshalXML writes the measure's heterogeneous content in source
// order: each item already knows its own element name via its own
// XMLName field, so this just opens <measure number="…">, re-encodes
// each item in turn, then closes.
func (m MeasureXML) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "measure"}
	start.Attr = []xml.Attr{{Name: xml.Name{Local: "number"}, Value: m.Number}}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, item := range m.Content {
		if err := e.Encode(item); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

func articulation(name string) ArticulationItem {
	return ArticulationItem{XMLName: xml.Name{Local: name}}
}
