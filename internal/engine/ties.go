package engine

import (
	"go-ly-musicxml/internal/pitch"
	"go-ly-musicxml/internal/score"
)

// TiePool holds notes awaiting a tie stop, keyed by the pitch they
// were tied from. TieToNext pushes into it; the next matching note
// pops and receives the stop half of the tie.
type TiePool struct {
	pending map[pitch.TieKey]*score.BarNote
}

func newTiePool() *TiePool {
	return &TiePool{pending: map[pitch.TieKey]*score.BarNote{}}
}

// Start records that note begins a tie, to be closed by the next note
// at the same (step, octave, alter).
func (p *TiePool) Start(note *score.BarNote) {
	key := note.Pitch.TieKey()
	note.Ties = append(note.Ties, score.Tie{Type: "start"})
	p.pending[key] = note
}

// Close checks whether note's pitch matches a pending tie start; if
// so it attaches the stop half to note and clears the pool entry,
// reporting whether the note was a tie continuation.
func (p *TiePool) Close(note *score.BarNote) bool {
	key := note.Pitch.TieKey()
	if _, ok := p.pending[key]; !ok {
		return false
	}
	note.Ties = append(note.Ties, score.Tie{Type: "stop"})
	delete(p.pending, key)
	return true
}

// Pending reports whether key currently has a tie awaiting closure.
func (p *TiePool) Pending(key pitch.TieKey) bool {
	_, ok := p.pending[key]
	return ok
}
