package engine

import (
	"testing"

	"go-ly-musicxml/internal/diag"
	"go-ly-musicxml/internal/duration"
	"go-ly-musicxml/internal/pitch"
	"go-ly-musicxml/internal/score"
)

func quarter() duration.Duration { return duration.NewDuration(duration.TypeQuarter, 0) }
func eighth() duration.Duration  { return duration.NewDuration(duration.TypeEighth, 0) }

func newTestEngine() *Engine {
	e := New(diag.NewSink())
	e.NewPart("P1", "", false)
	e.NewBar(true)
	return e
}

func TestNewNoteKeySignatureSuppressesAccidental(t *testing.T) {
	e := newTestEngine()
	e.NewKey(2, "major") // D major: F and C sharp

	note := e.NewNote(pitch.Pitch{Step: pitch.StepF, Alter: 1, Octave: 4}, quarter(), false, false)
	if note.Accidental != score.AccidentalNone {
		t.Errorf("fis in D major: accidental = %v, want AccidentalNone", note.Accidental)
	}
}

func TestNewNoteRepeatedAlterInBarSuppressesAccidental(t *testing.T) {
	e := newTestEngine()

	first := e.NewNote(pitch.Pitch{Step: pitch.StepC, Alter: 1, Octave: 4}, quarter(), false, false)
	if first.Accidental != score.AccidentalNormal {
		t.Fatalf("first cis: accidental = %v, want AccidentalNormal", first.Accidental)
	}
	second := e.NewNote(pitch.Pitch{Step: pitch.StepC, Alter: 1, Octave: 4}, quarter(), false, false)
	if second.Accidental != score.AccidentalNone {
		t.Errorf("second cis in same bar: accidental = %v, want AccidentalNone", second.Accidental)
	}
}

func TestNewNoteChangedAlterForcesAccidental(t *testing.T) {
	e := newTestEngine()

	e.NewNote(pitch.Pitch{Step: pitch.StepC, Alter: 1, Octave: 4}, quarter(), false, false)
	changed := e.NewNote(pitch.Pitch{Step: pitch.StepC, Alter: 0, Octave: 4}, quarter(), false, false)
	if changed.Accidental != score.AccidentalNormal {
		t.Errorf("c natural after cis: accidental = %v, want AccidentalNormal", changed.Accidental)
	}
}

func TestCautionaryAlwaysEmits(t *testing.T) {
	e := newTestEngine()
	e.NewKey(0, "major")

	note := e.NewNote(pitch.Pitch{Step: pitch.StepC, Alter: 0, Octave: 4}, quarter(), true, false)
	if note.Accidental != score.AccidentalCautionary {
		t.Errorf("cautionary natural: accidental = %v, want AccidentalCautionary", note.Accidental)
	}
}

func TestTieToNextClosesOnMatchingPitch(t *testing.T) {
	e := newTestEngine()

	e.NewNote(pitch.Pitch{Step: pitch.StepC, Octave: 4}, quarter(), false, false)
	e.TieToNext()
	next := e.NewNote(pitch.Pitch{Step: pitch.StepC, Octave: 4}, quarter(), false, false)

	if len(next.Ties) != 1 || next.Ties[0].Type != "stop" {
		t.Fatalf("tied note Ties = %v, want one stop", next.Ties)
	}
	if next.Accidental != score.AccidentalNone {
		t.Errorf("tied continuation: accidental = %v, want AccidentalNone", next.Accidental)
	}
}

func TestCautionaryWinsOverTiedContinuation(t *testing.T) {
	e := newTestEngine()

	e.NewNote(pitch.Pitch{Step: pitch.StepC, Octave: 4}, quarter(), false, false)
	e.TieToNext()
	next := e.NewNote(pitch.Pitch{Step: pitch.StepC, Octave: 4}, quarter(), true, false)

	if next.Accidental != score.AccidentalCautionary {
		t.Errorf("cautionary tied continuation: accidental = %v, want AccidentalCautionary", next.Accidental)
	}
	if len(next.Ties) != 1 || next.Ties[0].Type != "stop" {
		t.Fatalf("tied note Ties = %v, want one stop", next.Ties)
	}
}

func TestTieToNextDoesNotCloseOnDifferentPitch(t *testing.T) {
	e := newTestEngine()

	e.NewNote(pitch.Pitch{Step: pitch.StepC, Octave: 4}, quarter(), false, false)
	e.TieToNext()
	other := e.NewNote(pitch.Pitch{Step: pitch.StepD, Octave: 4}, quarter(), false, false)

	if len(other.Ties) != 0 {
		t.Errorf("unrelated pitch got Ties = %v, want none", other.Ties)
	}
}

func TestChangeToTupletMarksStartAndStop(t *testing.T) {
	e := newTestEngine()

	e.NewNote(pitch.Pitch{Step: pitch.StepC, Octave: 4}, eighth(), false, false)
	tm := e.ChangeToTuplet(3, 2, "start")
	if tm.ActualNotes != 3 || tm.NormalNotes != 2 {
		t.Fatalf("tuplet ratio = %+v, want 3:2", tm)
	}
	if len(e.lastNote.Tuplets) != 1 || e.lastNote.Tuplets[0].Type != "start" {
		t.Fatalf("first tuplet note markers = %v", e.lastNote.Tuplets)
	}

	e.NewNote(pitch.Pitch{Step: pitch.StepD, Octave: 4}, eighth(), false, false)
	e.NewNote(pitch.Pitch{Step: pitch.StepE, Octave: 4}, eighth(), false, false)
	e.ChangeToTuplet(3, 2, "stop")
	if len(e.lastNote.Tuplets) != 1 || e.lastNote.Tuplets[0].Type != "stop" {
		t.Fatalf("last tuplet note markers = %v", e.lastNote.Tuplets)
	}
}

func TestScaleDurationsDoesNotOpenTuplet(t *testing.T) {
	e := newTestEngine()
	note := e.NewNote(pitch.Pitch{Step: pitch.StepC, Octave: 4}, quarter().Scale(duration.NewFrac(2, 3)), false, false)
	if note.TimeMod != nil {
		t.Errorf("plain scaling applied before any tuplet push should leave TimeMod nil, got %+v", note.TimeMod)
	}
}

func TestDynamicsHairpinThenMarkCloses(t *testing.T) {
	e := newTestEngine()
	e.NewNote(pitch.Pitch{Step: pitch.StepC, Octave: 4}, quarter(), false, false)
	e.ApplyHairpin("<")
	if e.lastNote.Dynamics.Wedge != "crescendo" {
		t.Fatalf("after hairpin: Dynamics = %+v", e.lastNote.Dynamics)
	}

	e.NewNote(pitch.Pitch{Step: pitch.StepD, Octave: 4}, quarter(), false, false)
	e.ApplyDynamicMark("f")
	if e.lastNote.Dynamics.Mark != "f" || e.lastNote.Dynamics.Wedge != "stop" {
		t.Errorf("mark closing wedge: Dynamics = %+v", e.lastNote.Dynamics)
	}
}

func TestBeamFlushAssignsBeginContinueEnd(t *testing.T) {
	e := newTestEngine()
	e.NewNote(pitch.Pitch{Step: pitch.StepC, Octave: 4}, eighth(), false, false)
	e.NewNote(pitch.Pitch{Step: pitch.StepD, Octave: 4}, eighth(), false, false)
	e.NewNote(pitch.Pitch{Step: pitch.StepE, Octave: 4}, eighth(), false, false)
	// A quarter note closes the beam group.
	e.NewNote(pitch.Pitch{Step: pitch.StepF, Octave: 4}, quarter(), false, false)

	bar := e.curBar
	var beamed int
	for _, obj := range bar.ObjList {
		if n, ok := obj.(*score.BarNote); ok && len(n.Beams) > 0 {
			beamed++
		}
	}
	if beamed != 3 {
		t.Errorf("beamed notes = %d, want 3 (the three eighths)", beamed)
	}
}

func TestCheckDivsScalesForTripletEighths(t *testing.T) {
	e := newTestEngine()
	d := eighth().Scale(duration.NewFrac(2, 3))
	e.CheckDivs(d)
	if e.Divisions()%3 != 0 {
		t.Errorf("divisions = %d, want a multiple of 3 to fit triplet eighths", e.Divisions())
	}
}

func TestNewBarResetsAccidentalsButKeepsKeySignature(t *testing.T) {
	e := newTestEngine()
	e.NewKey(1, "major") // G major: F sharp

	e.NewNote(pitch.Pitch{Step: pitch.StepF, Alter: 1, Octave: 4}, quarter(), false, false)
	e.NewBar(true)
	note := e.NewNote(pitch.Pitch{Step: pitch.StepF, Alter: 1, Octave: 4}, quarter(), false, false)
	if note.Accidental != score.AccidentalNone {
		t.Errorf("fis in new bar under G major: accidental = %v, want AccidentalNone (from key)", note.Accidental)
	}
}

func TestNewChordSharesDurationAcrossMembers(t *testing.T) {
	e := newTestEngine()
	notes := e.NewChord([]pitch.Pitch{
		{Step: pitch.StepC, Octave: 4},
		{Step: pitch.StepE, Octave: 4},
		{Step: pitch.StepG, Octave: 4},
	}, quarter())
	if len(notes) != 3 {
		t.Fatalf("got %d chord notes, want 3", len(notes))
	}
	if notes[0].Chord {
		t.Error("first chord note should not carry Chord=true")
	}
	for _, n := range notes[1:] {
		if !n.Chord {
			t.Error("later chord notes should carry Chord=true")
		}
		if n.Duration != notes[0].Duration {
			t.Errorf("chord member duration = %+v, want %+v", n.Duration, notes[0].Duration)
		}
	}
}

func TestUniqueNameSuffixesOnCollision(t *testing.T) {
	e := New(diag.NewSink())
	a := e.NewSection("Verse")
	b := e.NewSection("Verse")
	if a == b {
		t.Errorf("NewSection returned colliding names: %q, %q", a, b)
	}
}
