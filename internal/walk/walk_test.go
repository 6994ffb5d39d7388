package walk_test

import (
	"testing"

	"go-ly-musicxml/internal/diag"
	"go-ly-musicxml/internal/engine"
	"go-ly-musicxml/internal/lyparse"
	"go-ly-musicxml/internal/score"
	"go-ly-musicxml/internal/walk"
)

func runWalk(t *testing.T, src string) (*engine.Engine, *diag.Sink) {
	t.Helper()
	sink := diag.NewSink()
	p := lyparse.New(src, sink)
	doc := p.Parse()
	eng := engine.New(sink)
	walk.Walk(doc, eng, sink)
	return eng, sink
}

func notesOf(bar *score.Bar) []*score.BarNote {
	var notes []*score.BarNote
	for _, obj := range bar.ObjList {
		if n, ok := obj.(*score.BarNote); ok {
			notes = append(notes, n)
		}
	}
	return notes
}

func TestWalkSimpleMelodyFillsOneMeasure(t *testing.T) {
	eng, sink := runWalk(t, "{ c4 d4 e4 f4 }")
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.All())
	}
	part := eng.CurrentPart()
	if part == nil || len(part.Barlist) == 0 {
		t.Fatal("expected at least one bar")
	}
	notes := notesOf(part.Barlist[0])
	if len(notes) != 4 {
		t.Fatalf("got %d notes in first bar, want 4", len(notes))
	}
}

func TestWalkAutomaticBeamingGroupsFourEighths(t *testing.T) {
	eng, _ := runWalk(t, "{ c8 d8 e8 f8 }")
	part := eng.CurrentPart()
	notes := notesOf(part.Barlist[0])
	if len(notes) != 4 {
		t.Fatalf("got %d notes, want 4", len(notes))
	}
	for i, n := range notes {
		if len(n.Beams) == 0 {
			t.Errorf("note %d has no beam assignment", i)
		}
	}
	if notes[0].Beams[0].Value != "begin" {
		t.Errorf("first note beam = %q, want begin", notes[0].Beams[0].Value)
	}
	if notes[3].Beams[0].Value != "end" {
		t.Errorf("last note beam = %q, want end", notes[3].Beams[0].Value)
	}
}

func TestWalkRelativePitchResolvesOctaveJump(t *testing.T) {
	eng, _ := runWalk(t, "\\relative c' { c4 e4 g4 c4 }")
	part := eng.CurrentPart()
	notes := notesOf(part.Barlist[0])
	if len(notes) != 4 {
		t.Fatalf("got %d notes, want 4", len(notes))
	}
	if notes[3].Pitch.Octave != 5 {
		t.Errorf("final note octave = %d, want 5 (c'' after g to c is a fourth up)", notes[3].Pitch.Octave)
	}
}

func TestWalkClefMapping(t *testing.T) {
	tests := []struct {
		name     string
		lyName   string
		wantSign string
		wantLine int
		wantOct  int
	}{
		{"treble", "treble", "G", 2, 0},
		{"bass", "bass", "F", 4, 0},
		{"alto", "alto", "C", 3, 0},
		{"tenor", "tenor", "C", 4, 0},
		{"treble_8", "treble_8", "G", 2, -1},
		{"treble_15", "treble_15", "G", 2, -2},
		{"bass_8", "bass_8", "F", 4, -1},
		{"bass_15", "bass_15", "F", 4, -2},
		{"percussion", "percussion", "percussion", 0, 0},
		{"tab", "tab", "TAB", 5, 0},
		{"soprano", "soprano", "C", 1, 0},
		{"mezzosoprano", "mezzosoprano", "C", 2, 0},
		{"baritone", "baritone", "C", 5, 0},
		{"varbaritone", "varbaritone", "F", 3, 0},
		{"french", "french", "G", 1, 0},
		{"subbass", "subbass", "F", 5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng, sink := runWalk(t, "{ \\clef \""+tt.lyName+"\" c4 }")
			if sink.HasErrors() {
				t.Fatalf("unexpected errors: %v", sink.All())
			}
			attr := eng.CurrentPart().Barlist[0].Attr()
			if len(attr.Clefs) != 1 {
				t.Fatalf("got %d clefs, want 1", len(attr.Clefs))
			}
			c := attr.Clefs[0]
			if c.Sign != tt.wantSign || c.Line != tt.wantLine || c.OctaveChange != tt.wantOct {
				t.Errorf("clef %q = %+v, want sign=%s line=%d octave=%d", tt.lyName, c, tt.wantSign, tt.wantLine, tt.wantOct)
			}
		})
	}
}

func TestWalkUnknownClefEmitsNoClefAndWarns(t *testing.T) {
	eng, sink := runWalk(t, "{ \\clef \"nonsense\" c4 }")
	attr := eng.CurrentPart().Barlist[0].Attr()
	if len(attr.Clefs) != 0 {
		t.Errorf("got %d clefs for unknown name, want 0", len(attr.Clefs))
	}
	if sink.Count(diag.Warning) == 0 {
		t.Error("expected a warning for an unknown clef name")
	}
}

func TestWalkKeySignatureDorianAdjustsFifths(t *testing.T) {
	eng, _ := runWalk(t, "{ \\key d \\dorian c4 }")
	attr := eng.CurrentPart().Barlist[0].Attr()
	if attr.Key == nil {
		t.Fatal("expected a key signature")
	}
	// D major is 2 sharps; dorian subtracts 2 more.
	if attr.Key.Fifths != 0 {
		t.Errorf("D dorian fifths = %d, want 0", attr.Key.Fifths)
	}
}

func TestWalkKeySignatureSuppressesDiatonicAccidental(t *testing.T) {
	eng, _ := runWalk(t, "{ \\key d \\major fis4 }")
	part := eng.CurrentPart()
	notes := notesOf(part.Barlist[0])
	if len(notes) != 1 {
		t.Fatalf("got %d notes, want 1", len(notes))
	}
	if notes[0].Accidental != score.AccidentalNone {
		t.Errorf("fis in D major: accidental = %v, want AccidentalNone", notes[0].Accidental)
	}
}

func TestWalkTieAcrossBarline(t *testing.T) {
	eng, _ := runWalk(t, "{ c4 d4 e4 f4~ f4 d4 e4 c4 }")
	part := eng.CurrentPart()
	if len(part.Barlist) < 2 {
		t.Fatalf("got %d bars, want at least 2", len(part.Barlist))
	}
	firstBarNotes := notesOf(part.Barlist[0])
	secondBarNotes := notesOf(part.Barlist[1])
	last := firstBarNotes[len(firstBarNotes)-1]
	if len(last.Ties) != 1 || last.Ties[0].Type != "start" {
		t.Fatalf("tied note at bar end: Ties = %v, want one start", last.Ties)
	}
	first := secondBarNotes[0]
	var sawStop bool
	for _, tie := range first.Ties {
		if tie.Type == "stop" {
			sawStop = true
		}
	}
	if !sawStop {
		t.Errorf("tie continuation note: Ties = %v, want a stop", first.Ties)
	}
}

func TestWalkVoltaAlternativeAssignsEndingRanges(t *testing.T) {
	eng, sink := runWalk(t, "{ \\repeat volta 2 { c4 d4 e4 f4 } \\alternative { { g4 a4 b4 c4 } { d4 e4 f4 g4 } } }")
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.All())
	}
	part := eng.CurrentPart()
	var sawEnding bool
	for _, bar := range part.Barlist {
		if attr := bar.Attr(); attr != nil && len(attr.Endings) > 0 {
			sawEnding = true
		}
	}
	if !sawEnding {
		t.Error("expected at least one bar attribute carrying an ending annotation")
	}
}

func TestWalkRepeatUnfoldFlattensInline(t *testing.T) {
	eng, _ := runWalk(t, "{ \\repeat unfold 2 { c4 d4 e4 f4 } }")
	part := eng.CurrentPart()
	total := 0
	for _, bar := range part.Barlist {
		total += len(notesOf(bar))
	}
	if total != 8 {
		t.Errorf("got %d notes across bars, want 8 (body unfolded twice)", total)
	}
}

func TestWalkLyricsToAttachesSyllablesSkippingTies(t *testing.T) {
	eng, sink := runWalk(t, "{ c4 d4~ d4 e4 } \\lyricsto \"\" { Ky -- ri -- e }")
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.All())
	}
	part := eng.CurrentPart()
	notes := notesOf(part.Barlist[0])
	if len(notes) != 4 {
		t.Fatalf("got %d notes, want 4", len(notes))
	}
	if len(notes[0].Lyrics) != 1 || notes[0].Lyrics[0].Text != "Ky" {
		t.Fatalf("first note lyrics = %+v, want \"Ky\"", notes[0].Lyrics)
	}
	if len(notes[1].Lyrics) != 1 || notes[1].Lyrics[0].Text != "ri" {
		t.Fatalf("second note (tie start) lyrics = %+v, want \"ri\"", notes[1].Lyrics)
	}
	if len(notes[2].Lyrics) != 0 {
		t.Errorf("tied continuation note got lyrics %+v, want none", notes[2].Lyrics)
	}
	if len(notes[3].Lyrics) != 1 || notes[3].Lyrics[0].Text != "e" {
		t.Fatalf("fourth note lyrics = %+v, want \"e\"", notes[3].Lyrics)
	}
}

func TestWalkDynamicsHairpinThenMark(t *testing.T) {
	eng, _ := runWalk(t, "{ c4\\< d4 e4\\f f4 }")
	part := eng.CurrentPart()
	notes := notesOf(part.Barlist[0])
	if notes[0].Dynamics == nil || notes[0].Dynamics.Wedge != "crescendo" {
		t.Fatalf("first note dynamics = %+v, want open crescendo", notes[0].Dynamics)
	}
	if notes[2].Dynamics == nil || notes[2].Dynamics.Mark != "f" {
		t.Fatalf("third note dynamics = %+v, want mark f", notes[2].Dynamics)
	}
}
