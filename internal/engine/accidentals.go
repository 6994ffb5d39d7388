package engine

import (
	"sort"

	"go-ly-musicxml/internal/duration"
	"go-ly-musicxml/internal/pitch"
	"go-ly-musicxml/internal/score"
)

// accidentalLogEntry is one note's accidental decision, recorded so
// CorrectAccidentals can re-examine it once the whole measure is in.
type accidentalLogEntry struct {
	key   pitch.Key
	time  duration.Frac
	alter float64
	kind  score.AccidentalKind
	note  *score.BarNote
}

// AccidentalTracker implements the four-step accidental decision
// procedure and the end-of-bar correction pass.
type AccidentalTracker struct {
	keyAlter map[pitch.Step]float64
	barAlter map[pitch.Key]float64
	log      []accidentalLogEntry
}

func newAccidentalTracker() *AccidentalTracker {
	return &AccidentalTracker{keyAlter: map[pitch.Step]float64{}, barAlter: map[pitch.Key]float64{}}
}

// SetKey installs fifths' diatonic alters as the current key map.
func (t *AccidentalTracker) SetKey(fifths int) {
	t.keyAlter = pitch.KeyAlters(fifths)
}

// ResetBar clears the per-measure alter map and correction log,
// keeping the key signature map intact across the bar boundary.
func (t *AccidentalTracker) ResetBar() {
	t.barAlter = map[pitch.Key]float64{}
	t.log = nil
}

// Decide runs the four-step procedure for one note and records the
// chosen alter in barAlter. An explicit cautionary or parenthesized
// accidental always wins, even on a tied-continuation note; only once
// neither is present does tiedFromPrevBar suppress the accidental.
func (t *AccidentalTracker) Decide(key pitch.Key, alter float64, tiedFromPrevBar, cautionary, parenthesized bool) score.AccidentalKind {
	if cautionary {
		t.barAlter[key] = alter
		return score.AccidentalCautionary
	}
	if parenthesized {
		t.barAlter[key] = alter
		return score.AccidentalParenthesized
	}
	if tiedFromPrevBar {
		return score.AccidentalNone
	}

	if existing, ok := t.barAlter[key]; ok && existing == alter {
		return score.AccidentalNone
	}
	if _, seen := t.barAlter[key]; !seen && t.keyAlter[key.Step] == alter {
		t.barAlter[key] = alter
		return score.AccidentalNone
	}
	t.barAlter[key] = alter
	return score.AccidentalNormal
}

// Record appends one note's decision to the correction log.
func (t *AccidentalTracker) Record(key pitch.Key, at duration.Frac, alter float64, kind score.AccidentalKind, note *score.BarNote) {
	t.log = append(t.log, accidentalLogEntry{key: key, time: at, alter: alter, kind: kind, note: note})
}

// Correct re-scans the log grouped by (step, octave) in time order. A
// note with no accidental whose alter differs from the running value,
// in a group that has already shown at least one accidental, gets one
// inserted; a redundant "normal" accidental that merely repeats the
// running value is removed. This fixes voices recorded out of
// temporal order (e.g. interleaved during a voice-separator pass).
func (t *AccidentalTracker) Correct() {
	byKey := map[pitch.Key][]*accidentalLogEntry{}
	var order []pitch.Key
	seen := map[pitch.Key]bool{}
	for i := range t.log {
		e := &t.log[i]
		if !seen[e.key] {
			seen[e.key] = true
			order = append(order, e.key)
		}
		byKey[e.key] = append(byKey[e.key], e)
	}

	for _, key := range order {
		entries := byKey[key]
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].time.Less(entries[j].time) })

		var running float64
		haveRunning := false
		seenAccidental := false
		for _, e := range entries {
			if !haveRunning {
				running = e.alter
				haveRunning = true
				if e.kind != score.AccidentalNone {
					seenAccidental = true
				}
				continue
			}
			switch {
			case e.kind == score.AccidentalNone && e.alter != running && seenAccidental:
				e.note.Accidental = score.AccidentalNormal
				e.kind = score.AccidentalNormal
			case e.kind == score.AccidentalNormal && e.alter == running:
				e.note.Accidental = score.AccidentalNone
				e.kind = score.AccidentalNone
			default:
				if e.kind != score.AccidentalNone {
					seenAccidental = true
				}
			}
			running = e.alter
		}
	}
}
