package musicxml

import (
	"encoding/xml"
	"strconv"

	"go-ly-musicxml/internal/score"
)

// PartList wraps a score's partlist tree so it can be marshaled as
// an ordered, possibly-nested sequence of <part-group>/<score-part>
// elements — a shape plain struct tags cannot express, since a group
// interleaves a start tag, its children, and a stop tag in document
// order.
type PartList struct {
	entries []score.PartListEntry
	sc      *score.Score
}

// NewPartList builds the marshalable wrapper for sc's partlist.
func NewPartList(sc *score.Score) PartList {
	return PartList{entries: sc.PartList, sc: sc}
}

func bracketName(b score.BracketSymbol) string {
	switch b {
	case score.BracketBracket:
		return "bracket"
	case score.BracketBrace:
		return "brace"
	case score.BracketSquare:
		return "square"
	default:
		return "none"
	}
}

func (p PartList) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "part-list"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, entry := range p.entries {
		if err := p.marshalEntry(e, entry); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

func (p PartList) marshalEntry(e *xml.Encoder, entry score.PartListEntry) error {
	switch v := entry.(type) {
	case *score.Part:
		return e.Encode(scorePartOf(v))
	case *score.PartGroup:
		number := strconv.Itoa(v.ID + 1)
		startTag := xml.StartElement{Name: xml.Name{Local: "part-group"}, Attr: []xml.Attr{
			{Name: xml.Name{Local: "type"}, Value: "start"},
			{Name: xml.Name{Local: "number"}, Value: number},
		}}
		if err := e.EncodeToken(startTag); err != nil {
			return err
		}
		if v.Bracket != score.BracketNone {
			if err := e.EncodeElement(bracketName(v.Bracket), xml.StartElement{Name: xml.Name{Local: "group-symbol"}}); err != nil {
				return err
			}
		}
		if v.Name != "" {
			if err := e.EncodeElement(v.Name, xml.StartElement{Name: xml.Name{Local: "group-name"}}); err != nil {
				return err
			}
		}
		if v.Abbr != "" {
			if err := e.EncodeElement(v.Abbr, xml.StartElement{Name: xml.Name{Local: "group-abbreviation"}}); err != nil {
				return err
			}
		}
		if err := e.EncodeToken(startTag.End()); err != nil {
			return err
		}
		for _, child := range v.Children {
			if err := p.marshalEntry(e, child); err != nil {
				return err
			}
		}
		stopTag := xml.StartElement{Name: xml.Name{Local: "part-group"}, Attr: []xml.Attr{
			{Name: xml.Name{Local: "type"}, Value: "stop"},
			{Name: xml.Name{Local: "number"}, Value: number},
		}}
		if err := e.EncodeToken(stopTag); err != nil {
			return err
		}
		return e.EncodeToken(stopTag.End())
	}
	return nil
}

func scorePartOf(part *score.Part) ScorePartXML {
	sp := ScorePartXML{ID: part.ID, PartName: part.Name, PartAbbrev: part.Abbr}
	if part.Midi != "" {
		sp.MidiInstr = part.Midi
	}
	return sp
}
