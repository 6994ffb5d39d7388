// Package midiexport renders a built score.Score to a Standard MIDI
// File for audio preview, one track per part, following the same
// absolute-tick-then-delta event assembly as the pack's own MIDI
// generators.
package midiexport

import (
	"os"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"go-ly-musicxml/internal/score"
)

// TicksPerQuarter is the SMF time division used for every export.
const TicksPerQuarter = 480

const defaultVelocity = 80

// timedEvent pairs a MIDI message with its absolute tick, mirroring
// the pack's own midiEvent{tick, message} accumulate-then-sort shape.
type timedEvent struct {
	tick    uint32
	message midi.Message
}

// Export writes sc as a Standard MIDI File to path, one track per
// part plus a leading tempo/meta track. bpm is the playback tempo.
func Export(sc *score.Score, path string, bpm float64) error {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(TicksPerQuarter)

	var tempoTrack smf.Track
	tempoTrack.Add(0, smf.MetaTempo(bpm))
	tempoTrack.Close(0)
	s.Add(tempoTrack)

	for channel, part := range flattenParts(sc.PartList) {
		ch := uint8(channel % 16)
		s.Add(buildPartTrack(part, ch))
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = s.WriteTo(f)
	return err
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

// buildPartTrack walks part's bars in order, advancing a single
// cumulative tick cursor per sounding object. Interleaved voices
// within a bar are not re-synchronized per voice — every non-chord
// BarNote, BarRest and Unpitched in obj_list order advances the same cursor,
// which is a preview-quality simplification, not a full mixdown.
func buildPartTrack(part *score.Part, channel uint8) smf.Track {
	var track smf.Track
	track.Add(0, midi.ProgramChange(channel, 0))

	var events []timedEvent
	var tick uint32
	var chordStart uint32
	for _, bar := range part.Barlist {
		for _, obj := range bar.ObjList {
			switch v := obj.(type) {
			case *score.BarNote:
				start := tick
				dur := ticksFor(v.Duration)
				if v.Chord {
					// chord members share the preceding note's start
					// tick and duration instead of advancing the cursor.
					start = chordStart
				} else {
					chordStart = tick
					tick += dur
				}
				events = append(events,
					timedEvent{start, midi.NoteOn(channel, midiNote(v), defaultVelocity)},
					timedEvent{start + dur, midi.NoteOff(channel, midiNote(v))},
				)
			case *score.BarRest:
				tick += ticksFor(v.Duration)
			case *score.Unpitched:
				tick += ticksFor(v.Duration)
			}
		}
	}

	sort.SliceStable(events, func(i, j int) bool { return events[i].tick < events[j].tick })
	var prevTick uint32
	for _, evt := range events {
		delta := evt.tick - prevTick
		track.Add(delta, evt.message)
		prevTick = evt.tick
	}
	track.Close(0)
	return track
}
