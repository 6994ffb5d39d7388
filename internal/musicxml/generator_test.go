package musicxml

import (
	"strings"
	"testing"

	"go-ly-musicxml/internal/duration"
	"go-ly-musicxml/internal/pitch"
	"go-ly-musicxml/internal/score"
)

func quarterC4() *score.BarNote {
	return &score.BarNote{
		Pitch:    pitch.Pitch{Step: pitch.StepC, Octave: 4},
		Duration: duration.NewDuration(duration.TypeQuarter, 0),
		Voice:    1,
		Type:     duration.TypeQuarter,
	}
}

func TestGenerateSingleNoteMeasure(t *testing.T) {
	sc := score.NewScore()
	part := sc.NewPart("P1", -1)
	bar := score.NewBar()
	bar.Attr().Divisions = 1
	bar.Attr().Key = &score.Key{Fifths: 0, Mode: "major"}
	bar.Attr().Time = &score.Time{Beats: 4, BeatType: 4}
	bar.Attr().Clefs = []score.Clef{{Sign: "G", Line: 2}}
	bar.ObjList = append(bar.ObjList, quarterC4())
	part.Barlist = append(part.Barlist, bar)

	out, err := Generate(sc, Options{Software: "go-ly-musicxml"})
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	for _, want := range []string{
		`<score-partwise version="3.0">`,
		`<score-part id="P1">`,
		`<divisions>1</divisions>`,
		`<fifths>0</fifths>`,
		`<beats>4</beats>`,
		`<beat-type>4</beat-type>`,
		`<sign>G</sign>`,
		`<step>C</step>`,
		`<octave>4</octave>`,
		`<duration>1</duration>`,
		`<voice>1</voice>`,
		`<type>quarter</type>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\nfull output:\n%s", want, out)
		}
	}
}

func TestGenerateSharpNoteEmitsAlterAndAccidental(t *testing.T) {
	sc := score.NewScore()
	part := sc.NewPart("P1", -1)
	bar := score.NewBar()
	bar.Attr().Divisions = 1
	note := &score.BarNote{
		Pitch:      pitch.Pitch{Step: pitch.StepF, Alter: 1, Octave: 4},
		Duration:   duration.NewDuration(duration.TypeQuarter, 0),
		Voice:      1,
		Type:       duration.TypeQuarter,
		Accidental: score.AccidentalNormal,
	}
	bar.ObjList = append(bar.ObjList, note)
	part.Barlist = append(part.Barlist, bar)

	out, err := Generate(sc, Options{Software: "go-ly-musicxml"})
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	for _, want := range []string{
		`<step>F</step>`,
		`<alter>1</alter>`,
		`<accidental>sharp</accidental>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\nfull output:\n%s", want, out)
		}
	}
}

func TestGenerateTieStartEmitsTieAndTied(t *testing.T) {
	sc := score.NewScore()
	part := sc.NewPart("P1", -1)
	bar := score.NewBar()
	bar.Attr().Divisions = 1
	note := quarterC4()
	note.Ties = []score.Tie{{Type: "start"}}
	bar.ObjList = append(bar.ObjList, note)
	part.Barlist = append(part.Barlist, bar)

	out, err := Generate(sc, Options{Software: "go-ly-musicxml"})
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if !strings.Contains(out, `<tie type="start">`) && !strings.Contains(out, `<tie type="start"></tie>`) {
		t.Errorf("output missing sounding tie marker\nfull output:\n%s", out)
	}
	if !strings.Contains(out, `<tied type="start">`) && !strings.Contains(out, `<tied type="start"></tied>`) {
		t.Errorf("output missing notational tied marker\nfull output:\n%s", out)
	}
}

func TestGenerateRestWithShowType(t *testing.T) {
	sc := score.NewScore()
	part := sc.NewPart("P1", -1)
	bar := score.NewBar()
	bar.Attr().Divisions = 1
	bar.ObjList = append(bar.ObjList, &score.BarRest{
		Duration: duration.NewDuration(duration.TypeHalf, 0),
		Voice:    1,
		ShowType: true,
	})
	part.Barlist = append(part.Barlist, bar)

	out, err := Generate(sc, Options{Software: "go-ly-musicxml"})
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if !strings.Contains(out, "<rest>") && !strings.Contains(out, "<rest></rest>") {
		t.Errorf("output missing rest element\nfull output:\n%s", out)
	}
	if !strings.Contains(out, "<type>half</type>") {
		t.Errorf("output missing rest type\nfull output:\n%s", out)
	}
}

func TestGenerateVoltaEndingEmitsBarlineEnding(t *testing.T) {
	sc := score.NewScore()
	part := sc.NewPart("P1", -1)
	bar := score.NewBar()
	bar.Attr().Divisions = 1
	bar.Attr().Endings = []score.Ending{{Number: "1", Type: "start"}}
	bar.ObjList = append(bar.ObjList, quarterC4())
	part.Barlist = append(part.Barlist, bar)

	out, err := Generate(sc, Options{Software: "go-ly-musicxml"})
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if !strings.Contains(out, `location="left"`) {
		t.Errorf("ending start should open a left barline\nfull output:\n%s", out)
	}
	if !strings.Contains(out, `number="1"`) {
		t.Errorf("output missing ending number\nfull output:\n%s", out)
	}
}

func TestGenerateNestedPartGroupBracketsParts(t *testing.T) {
	sc := score.NewScore()
	group := sc.NewGroup(-1)
	group.Name = "Strings"
	sc.NewPart("Violin", group.ID)
	sc.NewPart("Cello", group.ID)
	for _, p := range flattenParts(sc.PartList) {
		bar := score.NewBar()
		bar.Attr().Divisions = 1
		p.Barlist = append(p.Barlist, bar)
	}

	out, err := Generate(sc, Options{Software: "go-ly-musicxml"})
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	startIdx := strings.Index(out, `<part-group type="start"`)
	stopIdx := strings.Index(out, `<part-group type="stop"`)
	violinIdx := strings.Index(out, `id="Violin"`)
	celloIdx := strings.Index(out, `id="Cello"`)
	if startIdx < 0 || stopIdx < 0 || violinIdx < 0 || celloIdx < 0 {
		t.Fatalf("missing expected elements in output:\n%s", out)
	}
	if !(startIdx < violinIdx && violinIdx < celloIdx && celloIdx < stopIdx) {
		t.Errorf("expected part-group start, Violin, Cello, part-group stop in order, got offsets %d %d %d %d", startIdx, violinIdx, celloIdx, stopIdx)
	}
	if !strings.Contains(out, "<group-name>Strings</group-name>") {
		t.Errorf("missing group name\nfull output:\n%s", out)
	}
}

func TestDurationToDivisionsScalesWholeNoteToFourQuarters(t *testing.T) {
	d := duration.NewDuration(duration.TypeWhole, 0)
	got := durationToDivisions(d, 2)
	if got != 8 {
		t.Errorf("whole note at 2 divisions/quarter = %d, want 8", got)
	}
}

func TestGenerateEmitsDoctypeBeforeRoot(t *testing.T) {
	sc := score.NewScore()
	part := sc.NewPart("P1", -1)
	bar := score.NewBar()
	bar.Attr().Divisions = 1
	bar.ObjList = append(bar.ObjList, quarterC4())
	part.Barlist = append(part.Barlist, bar)

	out, err := Generate(sc, Options{Software: "go-ly-musicxml"})
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	const doctype = `<!DOCTYPE score-partwise PUBLIC
  "-//Recordare//DTD MusicXML 2.0 Partwise//EN"
  "http://www.musicxml.org/dtds/partwise.dtd">`
	declIdx := strings.Index(out, `<?xml version="1.0" encoding="UTF-8"?>`)
	doctypeIdx := strings.Index(out, doctype)
	rootIdx := strings.Index(out, `<score-partwise version="3.0">`)

	if declIdx != 0 {
		t.Fatalf("output does not start with the XML declaration")
	}
	if doctypeIdx < 0 {
		t.Fatalf("output missing MusicXML DOCTYPE:\n%s", out)
	}
	if !(declIdx < doctypeIdx && doctypeIdx < rootIdx) {
		t.Errorf("expected declaration, then DOCTYPE, then root element, got order decl=%d doctype=%d root=%d", declIdx, doctypeIdx, rootIdx)
	}
}
