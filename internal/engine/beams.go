package engine

import (
	"go-ly-musicxml/internal/duration"
	"go-ly-musicxml/internal/score"
)

// BeamTracker accumulates the notes of the current automatic-beaming
// group. The walker decides group boundaries (time-signature beat
// groupings and their exceptions); this sub-record only tracks what's
// needed to emit correct <beam> levels once a group closes: the
// shortest duration seen (how many beam levels the group needs) and
// the members themselves.
type BeamTracker struct {
	members      []*score.BarNote
	shortestType duration.Type
	manualOpen   bool
}

func newBeamTracker() *BeamTracker { return &BeamTracker{shortestType: duration.TypeWhole} }

// Add appends note to the current group unconditionally; the caller
// only passes beamable notes (shorter than a quarter note) and treats
// rests and quarter-or-longer notes as implicit group boundaries.
func (b *BeamTracker) Add(note *score.BarNote) {
	b.members = append(b.members, note)
	if note.Type > b.shortestType {
		b.shortestType = note.Type
	}
}

// Len reports how many notes are in the current open group.
func (b *BeamTracker) Len() int { return len(b.members) }

// levelsFor returns how many beam levels a type needs (eighth=1,
// 16th=2, ...).
func levelsFor(t duration.Type) int {
	n := int(t) - int(duration.TypeEighth)
	if n < 1 {
		return 1
	}
	return n + 1
}

// Flush assigns begin/continue/end beam values across the group at
// every level up to the shortest member's level, then clears the
// group. A group of fewer than two members produces no beams at all
// (a single note cannot be beamed to anything).
func (b *BeamTracker) Flush() {
	defer func() {
		b.members = nil
		b.shortestType = duration.TypeWhole
	}()
	if len(b.members) < 2 {
		return
	}
	levels := levelsFor(b.shortestType)
	for level := 1; level <= levels; level++ {
		for i, note := range b.members {
			needed := levelsFor(note.Type)
			if needed < level {
				continue
			}
			var value string
			switch {
			case i == 0:
				value = "begin"
			case i == len(b.members)-1:
				value = "end"
			default:
				value = "continue"
			}
			note.Beams = append(note.Beams, score.Beam{Number: level, Value: value})
		}
	}
}

// StartManual and EndManual track an explicit "[" / "]" bracket,
// which overrides automatic grouping for its span — the walker calls
// Flush itself only at the manual bracket's boundaries while one is
// open.
func (b *BeamTracker) StartManual() { b.manualOpen = true }
func (b *BeamTracker) EndManual()   { b.manualOpen = false }
func (b *BeamTracker) ManualOpen() bool { return b.manualOpen }
