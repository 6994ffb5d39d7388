package musicxml

import (
	"encoding/xml"
	"fmt"
	"strconv"

	"go-ly-musicxml/internal/duration"
	"go-ly-musicxml/internal/pitch"
	"go-ly-musicxml/internal/score"
)

// Options configures header fields the score model doesn't itself
// carry (the encoding software name and date), mirroring the
// teacher's ToMusicXML taking its caller-supplied filename rather
// than hardcoding one.
type Options struct {
	Software     string
	EncodingDate string
}

// musicXMLDoctype is the MusicXML 3.0 partwise DOCTYPE declaration,
// required verbatim ahead of the root element by every partwise
// consumer.
const musicXMLDoctype = `<!DOCTYPE score-partwise PUBLIC
  "-//Recordare//DTD MusicXML 2.0 Partwise//EN"
  "http://www.musicxml.org/dtds/partwise.dtd">
`

// Generate converts sc into a MusicXML partwise document string,
// including the XML declaration and DOCTYPE, the same way the
// teacher's ToMusicXML prefixes xml.Header onto its MarshalIndent
// output.
func Generate(sc *score.Score, opts Options) (string, error) {
	doc := ScorePartwise{
		Version:        "3.0",
		MovementTitle:  sc.Title,
		MovementNumber: sc.Subtitle,
		Identification: Identification{Encoding: Encoding{
			Software:     opts.Software,
			EncodingDate: opts.EncodingDate,
		}},
		PartList: NewPartList(sc),
	}
	for _, part := range flattenParts(sc.PartList) {
		doc.Parts = append(doc.Parts, buildPart(part))
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshalling MusicXML: %w", err)
	}
	return xml.Header + musicXMLDoctype + string(out), nil
}

func flattenParts(entries []score.PartListEntry) []*score.Part {
	var parts []*score.Part
	for _, entry := range entries {
		switch v := entry.(type) {
		case *score.Part:
			parts = append(parts, v)
		case *score.PartGroup:
			parts = append(parts, flattenParts(v.Children)...)
		}
	}
	return parts
}

func buildPart(part *score.Part) PartXML {
	px := PartXML{ID: part.ID}
	divisions := 1
	for i, bar := range part.Barlist {
		px.Measures = append(px.Measures, buildMeasure(bar, i+1, &divisions))
	}
	return px
}

func buildMeasure(bar *score.Bar, number int, divisions *int) MeasureXML {
	m := MeasureXML{Number: strconv.Itoa(number)}
	for _, obj := range bar.ObjList {
		switch v := obj.(type) {
		case *score.BarAttr:
			if v.Divisions != 0 {
				*divisions = v.Divisions
			}
			if !v.IsEmpty() {
				m.Content = append(m.Content, buildAttributes(v))
			}
			for _, ending := range v.Endings {
				m.Content = append(m.Content, buildEndingBarline(ending))
			}
		case *score.BarNote:
			if v.Dynamics != nil {
				m.Content = append(m.Content, buildDirectionForDynamics(v.Dynamics))
			}
			m.Content = append(m.Content, buildNote(v, *divisions))
		case *score.BarRest:
			m.Content = append(m.Content, buildRest(v, *divisions))
		case *score.Unpitched:
			m.Content = append(m.Content, buildUnpitched(v, *divisions))
		case *score.Backup:
			m.Content = append(m.Content, BackupXML{Duration: durationToDivisions(v.Duration, *divisions)})
		case *score.Forward:
			m.Content = append(m.Content, ForwardXML{Duration: durationToDivisions(v.Duration, *divisions)})
		case *score.Direction:
			m.Content = append(m.Content, DirectionXML{
				Placement:     v.Placement,
				DirectionType: DirectionTypeXML{Words: v.Text},
			})
		case *score.HarmonyObj:
			m.Content = append(m.Content, buildHarmony(v.Harmony))
		case *score.Barline:
			m.Content = append(m.Content, buildBarline(v))
		}
	}
	return m
}

func buildAttributes(attr *score.BarAttr) AttributesXML {
	a := AttributesXML{Divisions: attr.Divisions, Staves: attr.Staves}
	if attr.Key != nil {
		a.Key = &KeyXML{Fifths: attr.Key.Fifths, Mode: attr.Key.Mode}
	}
	if attr.Time != nil {
		a.Time = &TimeXML{Symbol: attr.Time.Symbol, Beats: attr.Time.Beats, BeatType: attr.Time.BeatType}
	}
	for _, c := range attr.Clefs {
		a.Clefs = append(a.Clefs, ClefXML{Number: c.Number, Sign: c.Sign, Line: c.Line, OctaveChange: c.OctaveChange})
	}
	return a
}

// durationToDivisions converts a musical duration to MusicXML's
// integer <duration> unit, which counts divisions-per-quarter; a
// whole note is 4*divisions units. CheckDivs (internal/engine) is
// responsible for ensuring this division is always exact.
func durationToDivisions(dur duration.Duration, divisions int) int {
	whole := dur.Length()
	return int(whole.Num * int64(divisions) * 4 / whole.Den)
}

func buildNote(n *score.BarNote, divisions int) NoteXML {
	nx := NoteXML{
		Duration: durationToDivisions(n.Duration, divisions),
		Voice:    n.Voice,
		Type:     n.Type.String(),
		Staff:    n.Staff,
	}
	if n.Grace {
		nx.Grace = &struct{}{}
	}
	if n.Chord {
		nx.Chord = &struct{}{}
	}
	nx.Pitch = &PitchXML{Step: n.Pitch.Step.String(), Octave: n.Pitch.Octave}
	if n.Pitch.Alter != 0 {
		alter := n.Pitch.Alter
		nx.Pitch.Alter = &alter
	}
	if n.Dots > 0 {
		nx.Dots = make([]struct{}, n.Dots)
	}
	if n.Accidental != score.AccidentalNone {
		nx.Accidental = buildAccidental(n)
	}
	if n.TimeMod != nil {
		nx.TimeMod = &TimeModificationXML{ActualNotes: n.TimeMod.ActualNotes, NormalNotes: n.TimeMod.NormalNotes}
	}
	for _, t := range n.Ties {
		nx.Tie = append(nx.Tie, TieXML{Type: t.Type})
	}
	for _, b := range n.Beams {
		nx.Beams = append(nx.Beams, BeamXML{Number: b.Number, Value: b.Value})
	}
	nx.Notations = buildNotations(n)
	return nx
}

func buildAccidental(n *score.BarNote) *AccidentalXML {
	ax := &AccidentalXML{Value: pitch.AccidentalName(n.Pitch.Alter)}
	if n.Accidental == score.AccidentalCautionary {
		ax.Cautionary = "yes"
	}
	if n.Accidental == score.AccidentalParenthesized {
		ax.Parentheses = "yes"
	}
	return ax
}

func buildNotations(n *score.BarNote) *NotationsXML {
	nt := &NotationsXML{}
	for _, t := range n.Ties {
		nt.Tied = append(nt.Tied, TiedXML{Type: t.Type})
	}
	for i, s := range n.Slurs {
		nt.Slurs = append(nt.Slurs, SlurXML{Number: i + 1, Type: s})
	}
	for _, t := range n.Tuplets {
		nt.Tuplets = append(nt.Tuplets, TupletXML{Number: t.Number, Type: t.Type})
	}
	if n.Glissando != "" {
		nt.Glissando = &GlissandoXML{Type: n.Glissando}
	}
	if len(n.Articulations) > 0 {
		items := make([]ArticulationItem, len(n.Articulations))
		for i, a := range n.Articulations {
			items[i] = articulation(a)
		}
		nt.Articulations = &ArticulationsXML{Items: items}
	}
	if len(n.Ornaments) > 0 {
		items := make([]ArticulationItem, len(n.Ornaments))
		for i, o := range n.Ornaments {
			items[i] = articulation(o)
		}
		nt.Ornaments = &OrnamentsXML{Items: items}
	}
	if len(n.Technical) > 0 {
		items := make([]ArticulationItem, len(n.Technical))
		for i, tc := range n.Technical {
			items[i] = articulation(tc)
		}
		nt.Technical = &TechnicalXML{Items: items}
	}
	if nt.isEmpty() {
		return nil
	}
	return nt
}

func buildRest(r *score.BarRest, divisions int) any {
	if r.Skip {
		return ForwardXML{Duration: durationToDivisions(r.Duration, divisions)}
	}
	nx := NoteXML{
		Rest:     &struct{}{},
		Duration: durationToDivisions(r.Duration, divisions),
		Voice:    r.Voice,
		Staff:    r.Staff,
	}
	if r.ShowType {
		nx.Type = r.Duration.Type.String()
		if r.Duration.Dots > 0 {
			nx.Dots = make([]struct{}, r.Duration.Dots)
		}
	}
	return nx
}

func buildUnpitched(u *score.Unpitched, divisions int) NoteXML {
	nx := NoteXML{
		Unpitched: &UnpitchedXML{DisplayStep: u.DisplayStep.String(), DisplayOctave: u.DisplayOct},
		Duration:  durationToDivisions(u.Duration, divisions),
		Voice:     u.Voice,
		Type:      u.Type.String(),
		Staff:     u.Staff,
	}
	if u.Dots > 0 {
		nx.Dots = make([]struct{}, u.Dots)
	}
	return nx
}

func buildDirectionForDynamics(d *score.Dynamics) DirectionXML {
	dt := DirectionTypeXML{}
	switch {
	case d.Wedge == "crescendo" || d.Wedge == "diminuendo":
		dt.Wedge = &WedgeXML{Type: d.Wedge}
	case d.Wedge == "stop":
		dt.Wedge = &WedgeXML{Type: "stop"}
	case d.Mark != "":
		dt.Dynamics = &DynamicsMarkXML{Mark: articulation(d.Mark)}
	case d.Text != "":
		dt.Words = d.Text
	}
	return DirectionXML{Placement: "below", DirectionType: dt}
}

func buildHarmony(h score.Harmony) HarmonyXML {
	hx := HarmonyXML{Kind: h.Kind}
	hx.Root.Step = h.Root
	return hx
}

// buildEndingBarline synthesizes the <barline> a volta ending
// annotation lives on: a starting ending opens at the left of the
// measure, a stop or discontinue closes at the right, matching how
// LilyPond places the bracket relative to the bar it begins or ends.
func buildEndingBarline(ending score.Ending) BarlineXML {
	bx := BarlineXML{Ending: &EndingXML{Number: ending.Number, Type: ending.Type}}
	if ending.Type == "start" {
		bx.Location = "left"
	} else {
		bx.Location = "right"
	}
	return bx
}

func buildBarline(b *score.Barline) BarlineXML {
	bx := BarlineXML{Location: b.Location, BarStyle: b.Style}
	if b.Repeat != "" {
		bx.Repeat = &RepeatXML{Direction: b.Repeat}
	}
	return bx
}
