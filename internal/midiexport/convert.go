package midiexport

import (
	"go-ly-musicxml/internal/duration"
	"go-ly-musicxml/internal/score"
)

// ticksFor converts a musical duration (already carrying any tuplet
// or scaler factor in its Scaling fraction) to SMF ticks at
// TicksPerQuarter ticks per quarter note.
func ticksFor(dur duration.Duration) uint32 {
	whole := dur.Length()
	return uint32(whole.Num * int64(TicksPerQuarter) * 4 / whole.Den)
}

// midiNote converts a BarNote's pitch to a MIDI note number. Pitch's
// octave numbering already matches MIDI/scientific pitch convention
// (middle C = octave 4 = MIDI 60), so only the fixed 12-semitone
// offset between Semitones()'s C0-is-zero scale and MIDI's C-1-is-
// zero scale needs adding.
func midiNote(n *score.BarNote) uint8 {
	return uint8(n.Pitch.Semitones() + 12)
}
