// Package pitch provides the note-name, alteration and octave
// arithmetic that the rest of the translation core builds on:
// absolute and relative pitch, transposition, and the string forms
// LilyPond and MusicXML each use for a note name.
package pitch

import "fmt"

// Step is a diatonic letter, C=0 .. B=6.
type Step int

const (
	StepC Step = iota
	StepD
	StepE
	StepF
	StepG
	StepA
	StepB
)

var stepNames = [...]string{"C", "D", "E", "F", "G", "A", "B"}

// String returns the MusicXML step letter.
func (s Step) String() string {
	if s < StepC || s > StepB {
		return "?"
	}
	return stepNames[s]
}

// semitones above C for each step, used for octave-boundary arithmetic.
var stepSemitones = [...]int{0, 2, 4, 5, 7, 9, 11}

// Pitch is a pitched note: letter, alteration in half-step units
// (quarter-tones are representable as .5 multiples), and octave in
// MusicXML numbering (middle C = octave 4).
type Pitch struct {
	Step   Step
	Alter  float64
	Octave int
}

// Semitones returns the pitch's absolute semitone value with C0 = 0,
// used to compare or order pitches regardless of spelling.
func (p Pitch) Semitones() int {
	return p.Octave*12 + stepSemitones[p.Step] + int(p.Alter)
}

// Equal reports whether two pitches have the same step, alter and
// octave — the identity MusicXML cares about for tie matching and
// accidental tracking (not just same sounding pitch).
func (p Pitch) Equal(o Pitch) bool {
	return p.Step == o.Step && p.Alter == o.Alter && p.Octave == o.Octave
}

// Key identifies a pitch for accidental/tie bookkeeping, which is
// keyed by (step, octave) or (step, octave, alter) depending on use.
type Key struct {
	Step   Step
	Octave int
}

// Key returns the (step, octave) bookkeeping key for this pitch.
func (p Pitch) Key() Key { return Key{p.Step, p.Octave} }

// TieKey identifies a pitch for tie-pool matching: (step, octave, alter).
type TieKey struct {
	Step   Step
	Octave int
	Alter  float64
}

// TieKey returns the tie-pool key for this pitch.
func (p Pitch) TieKey() TieKey { return TieKey{p.Step, p.Octave, p.Alter} }

// Relative resolves a pitch written in LilyPond relative-octave
// notation against the previous pitch: the new octave is chosen so
// that the interval between last and the candidate (with octaveMarks
// applied on top) is no more than a fourth in either direction, per
// LilyPond's \relative rule.
func Relative(last Pitch, step Step, alter float64, octaveMarks int) Pitch {
	candidate := Pitch{Step: step, Alter: alter, Octave: last.Octave}

	stepDiff := int(step) - int(last.Step)
	if stepDiff > 3 {
		candidate.Octave--
	} else if stepDiff < -3 {
		candidate.Octave++
	}
	candidate.Octave += octaveMarks
	return candidate
}

// Transpose shifts a pitch by the interval between from and to,
// applied diatonically to the step and chromatically to the alter so
// the resulting pitch is `to` sounding as far from `pitch` as `to` is
// from `from`.
func Transpose(p, from, to Pitch) Pitch {
	stepDelta := int(to.Step) - int(from.Step)
	semiDelta := to.Semitones() - from.Semitones()

	newStepNum := int(p.Step) + stepDelta
	newStep := Step(mod7(newStepNum))
	octaveShift := floorDiv(newStepNum, 7)

	natural := stepSemitones[p.Step] + octaveShift*12
	newNatural := stepSemitones[newStep]
	wantSemitones := p.Semitones() + semiDelta
	newAlter := float64(wantSemitones - (p.Octave+octaveShift)*12 - newNatural)
	_ = natural

	return Pitch{Step: newStep, Alter: newAlter, Octave: p.Octave + octaveShift}
}

func mod7(n int) int {
	m := n % 7
	if m < 0 {
		m += 7
	}
	return m
}

func floorDiv(n, d int) int {
	q := n / d
	if (n%d != 0) && ((n < 0) != (d < 0)) {
		q--
	}
	return q
}

// String renders the pitch LilyPond-note-name style, e.g. "cis'" —
// useful for diagnostics, not for XML emission (musicxml package owns
// that serialization).
func (p Pitch) String() string {
	alter := ""
	switch p.Alter {
	case 1:
		alter = "is"
	case -1:
		alter = "es"
	case 2:
		alter = "isis"
	case -2:
		alter = "eses"
	case 0.5:
		alter = "ih"
	case -0.5:
		alter = "eh"
	}
	return fmt.Sprintf("%s%s(oct=%d)", stepNames[p.Step], alter, p.Octave)
}

// AccidentalName maps an alteration value to the MusicXML
// <accidental> content, per the fixed table the engine and emitter
// both consult.
func AccidentalName(alter float64) string {
	switch alter {
	case 0:
		return "natural"
	case 1:
		return "sharp"
	case -1:
		return "flat"
	case 2:
		return "sharp-sharp"
	case -2:
		return "flat-flat"
	case 0.5:
		return "natural-up"
	case -0.5:
		return "natural-down"
	case 1.5:
		return "sharp-up"
	case -1.5:
		return "flat-down"
	default:
		return "natural"
	}
}

// KeyAlters returns the key-alter table (Step -> alter) for a key
// signature given in fifths (positive = sharps, negative = flats),
// the order sharps/flats are added in conventional key-signature
// order (F C G D A E B for sharps, B E A D G C F for flats).
func KeyAlters(fifths int) map[Step]float64 {
	order := []Step{StepF, StepC, StepG, StepD, StepA, StepE, StepB}
	alters := map[Step]float64{}
	for _, s := range order {
		alters[s] = 0
	}
	if fifths > 0 {
		for i := 0; i < fifths && i < len(order); i++ {
			alters[order[i]] = 1
		}
	} else if fifths < 0 {
		for i := 0; i < -fifths && i < len(order); i++ {
			alters[order[len(order)-1-i]] = -1
		}
	}
	return alters
}
