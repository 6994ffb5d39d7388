// Package walk drives the engine Mediator in source order: a single
// type-switch dispatch over lyast.Node, tracking the contextual state
// (relative/transpose pitch resolution, time signature, voice
// separators, volta/repeat-unfold, automatic beaming, lyrics) that is
// only implicit in the parsed tree.
package walk

import (
	"fmt"
	"strconv"

	"go-ly-musicxml/internal/diag"
	"go-ly-musicxml/internal/duration"
	"go-ly-musicxml/internal/engine"
	"go-ly-musicxml/internal/lyast"
	"go-ly-musicxml/internal/pitch"
	"go-ly-musicxml/internal/score"
)

// relOctaveBase is the octave number an un-marked absolute pitch
// resolves to ("c" with no marks is the octave below middle C).
const relOctaveBase = 3

// Walker holds every piece of contextual state the traversal needs
// beyond what the engine itself tracks (accidentals, ties, tuplets,
// beams, dynamics, voice-separator time cursor all live in engine
// sub-records already).
type Walker struct {
	eng   *engine.Engine
	sink  *diag.Sink
	table *lyast.Table

	relActive bool
	relBase   pitch.Pitch

	transposing bool
	transFrom   pitch.Pitch
	transTo     pitch.Pitch

	lastDuration duration.Duration
	durScale     []duration.Frac

	autoBeamOn     bool
	shortestInBeam duration.Frac

	timeSigNum, timeSigDen int
	partial                duration.Frac
	havePartial            bool

	voltaCounts []int

	curVoiceNum  int
	curVoiceName string

	lyricStanza int
}

// Walk drives eng over doc's body and top-level music, reporting
// recoverable problems to sink.
func Walk(doc *lyast.Document, eng *engine.Engine, sink *diag.Sink) {
	w := &Walker{
		eng:            eng,
		sink:           sink,
		table:          lyast.NewTable(doc),
		autoBeamOn:     true,
		timeSigNum:     4,
		timeSigDen:     4,
		shortestInBeam: duration.NewFrac(1, 1),
		curVoiceNum:    1,
		lyricStanza:    1,
	}
	if eng.CurrentPart() == nil {
		eng.NewPart("P1", "", false)
	}
	eng.NewBar(true)
	w.walkNode(doc.Body)
	eng.Finish()
}

func (w *Walker) warnf(format string, args ...any) {
	if w.sink != nil {
		w.sink.Warnf(diag.StageWalk, format, args...)
	}
}

// walkNode dispatches n by concrete type. Unknown types and the
// excluded set {Version, Midi, Layout} are skipped, matching the
// closed type switch all of lyast.Node's variants are required to
// satisfy.
func (w *Walker) walkNode(n lyast.Node) {
	if n == nil {
		return
	}
	switch v := n.(type) {
	case *lyast.Version, *lyast.Midi, *lyast.Layout:
		// excluded from walking.
	case *lyast.Unsupported:
		w.warnf("unsupported construct at line %d: %s", v.Line(), v.Reason)
	case *lyast.End:
		// synthetic close events are emitted by the container handlers
		// themselves; a bare End reaching here means nothing to do.
	case *lyast.MusicList:
		w.walkMusicList(v)
	case *lyast.Document:
		// reached only if a document is nested inside music, which
		// the parser never produces; assignments resolve lazily
		// through the substitution table when a UserCommand uses them.
		w.walkNode(v.Body)
	case *lyast.Assignment:
		// top-level assignments are not music themselves; they are
		// consulted through the table when a UserCommand references them.
	case *lyast.Chord:
		w.walkChord(v)
	case *lyast.Q:
		w.walkChordRepeat(v)
	case *lyast.NoteNode:
		w.walkNote(v)
	case *lyast.Rest:
		w.walkRest(v)
	case *lyast.Skip:
		w.walkSkip(v)
	case *lyast.Scaler:
		w.walkScaler(v)
	case *lyast.Clef:
		if c, ok := clefFromName(v.Name); ok {
			w.eng.NewClef(c)
		} else {
			w.warnf("unknown clef name %q", v.Name)
		}
	case *lyast.KeySignature:
		fifths, mode := keyFifths(v.Tonic, v.Mode)
		w.eng.NewKey(fifths, mode)
	case *lyast.TimeSignature:
		w.timeSigNum, w.timeSigDen = v.Num, v.Den
		w.eng.NewTime(v.Num, v.Den, true)
	case *lyast.Relative:
		w.walkRelative(v)
	case *lyast.Transpose:
		w.walkTranspose(v)
	case *lyast.VoiceSeparator:
		// consumed structurally by walkMusicList's branch split.
	case *lyast.Context:
		w.walkContext(v)
	case *lyast.Change:
		// staff redirection mid-voice: not modeled further than the
		// Context it appears inside.
	case *lyast.Repeat:
		w.walkRepeat(v)
	case *lyast.Alternative:
		// reached only if malformed (an Alternative with no enclosing
		// Repeat); walk each ending as plain sequential music.
		for _, e := range v.Endings {
			w.walkNode(e)
		}
	case *lyast.Tie:
		w.eng.TieToNext()
	case *lyast.Slur, *lyast.PhrasingSlur, *lyast.Beam, *lyast.Dynamic, *lyast.Tremolo:
		// post-events reaching the top level (outside a note/chord's
		// PostEvents) have nothing to attach to.
	case *lyast.Partial:
		w.partial = w.resolveDuration(v.Duration).Length()
		w.havePartial = true
	case *lyast.Command:
		w.walkCommand(v)
	case *lyast.UserCommand:
		if music, ok := w.table.Resolve(v.Name); ok {
			w.walkNode(music)
		} else {
			w.warnf("reference to unknown variable %q at line %d", v.Name, v.Line())
		}
	case *lyast.String:
		// a bare string reaching the walker (not consumed as a command
		// argument) carries no music.
	case *lyast.LyricsTo:
		w.walkLyricsTo(v)
	case *lyast.LyricText, *lyast.LyricItem:
		// consumed by walkLyricsTo's token collector.
	case *lyast.With, *lyast.Set, *lyast.Unset, *lyast.Override:
		// engraving-only settings; no notational effect modeled.
	case *lyast.Scheme:
		// opaque embedded expression, recorded but not evaluated.
	case *lyast.PipeSymbol:
		// explicit bar check: a mismatch against the running time
		// signature would be a diagnostic opportunity, not currently
		// cross-checked.
	default:
		w.warnf("unhandled node type %T at line %d", n, n.Line())
	}
}

func (w *Walker) walkMusicList(n *lyast.MusicList) {
	if !n.Simultaneous {
		for _, item := range n.Items {
			w.walkNode(item)
		}
		return
	}
	w.walkSimultaneous(n)
}

// walkSimultaneous handles both "<< \\ ... \\ ... >>" voice-separated
// groups and a plain simultaneous layering of independent contexts
// (e.g. "<< \new Staff {...} \new Staff {...} >>", which needs no
// time-cursor rewinding since each branch opens its own part).
func (w *Walker) walkSimultaneous(n *lyast.MusicList) {
	branches := splitOnSeparator(n.Items)
	if len(branches) <= 1 {
		for _, item := range n.Items {
			w.walkNode(item)
		}
		return
	}

	snap := w.eng.VoiceSep.Snapshot()
	startVoice := w.curVoiceNum
	furthest := snap
	furthestTotal := w.eng.VoiceSep.TotalTime()

	for i, branch := range branches {
		w.eng.VoiceSep.Restore(snap)
		w.curVoiceNum = startVoice + i
		w.curVoiceName = ""
		w.eng.SetVoice(w.curVoiceNum, w.curVoiceName)
		for _, item := range branch {
			w.walkNode(item)
		}
		cur := w.eng.VoiceSep.TotalTime()
		if i == 0 || furthestTotal.Less(cur) {
			furthest = w.eng.VoiceSep.Snapshot()
			furthestTotal = cur
		}
	}

	w.eng.VoiceSep.Restore(furthest)
	w.curVoiceNum = startVoice
	w.curVoiceName = ""
	w.eng.SetVoice(w.curVoiceNum, w.curVoiceName)
}

func splitOnSeparator(items []lyast.Node) [][]lyast.Node {
	var branches [][]lyast.Node
	var cur []lyast.Node
	sawSeparator := false
	for _, it := range items {
		if _, ok := it.(*lyast.VoiceSeparator); ok {
			sawSeparator = true
			branches = append(branches, cur)
			cur = nil
			continue
		}
		cur = append(cur, it)
	}
	if sawSeparator {
		branches = append(branches, cur)
		return branches
	}
	return [][]lyast.Node{items}
}

func (w *Walker) walkContext(n *lyast.Context) {
	switch n.Kind {
	case "Voice":
		name := n.Name
		if name == "" {
			name = w.eng.NewSection("voice")
		}
		prevName := w.curVoiceName
		w.curVoiceName = name
		w.eng.SetVoice(w.curVoiceNum, name)
		w.walkNode(n.Music)
		w.curVoiceName = prevName
		w.eng.SetVoice(w.curVoiceNum, prevName)
	case "Staff", "PianoStaff", "GrandStaff", "ChoirStaff":
		w.eng.NewPart(w.eng.NewSection(orDefault(n.Name, "Staff")), "", n.Kind == "PianoStaff" || n.Kind == "GrandStaff")
		w.eng.NewBar(true)
		w.walkNode(n.Music)
	case "Lyrics", "Devnull":
		// a bare "\new Lyrics" with inline music (rather than
		// \lyricsto) is not modeled further; \lyricsto is the
		// supported lyric-attachment path.
		w.walkNode(n.Music)
	default:
		w.walkNode(n.Music)
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// -- Pitch resolution -------------------------------------------------

func (w *Walker) walkRelative(n *lyast.Relative) {
	saveActive, saveBase := w.relActive, w.relBase
	w.relActive = true
	if n.HasStartPitch {
		w.relBase = pitch.Pitch{Step: pitch.Step(n.StartStep), Alter: n.StartAlter, Octave: relOctaveBase + n.StartOctave}
	} else if !saveActive {
		w.relBase = pitch.Pitch{Step: pitch.StepC, Octave: relOctaveBase}
	}
	w.walkNode(n.Music)
	w.relActive, w.relBase = saveActive, saveBase
}

func (w *Walker) walkTranspose(n *lyast.Transpose) {
	saveOn, saveFrom, saveTo := w.transposing, w.transFrom, w.transTo
	w.transposing = true
	w.transFrom = pitch.Pitch{Step: pitch.Step(n.FromStep), Alter: n.FromAlter, Octave: relOctaveBase + n.FromOctave}
	w.transTo = pitch.Pitch{Step: pitch.Step(n.ToStep), Alter: n.ToAlter, Octave: relOctaveBase + n.ToOctave}
	w.walkNode(n.Music)
	w.transposing, w.transFrom, w.transTo = saveOn, saveFrom, saveTo
}

func (w *Walker) resolvePitch(step pitch.Step, alter float64, octaveMarks int) pitch.Pitch {
	var p pitch.Pitch
	if w.relActive {
		p = pitch.Relative(w.relBase, step, alter, octaveMarks)
		w.relBase = p
	} else {
		p = pitch.Pitch{Step: step, Alter: alter, Octave: relOctaveBase + octaveMarks}
	}
	if w.transposing {
		p = pitch.Transpose(p, w.transFrom, w.transTo)
	}
	return p
}

// -- Durations and tuplet scaling --------------------------------------

func (w *Walker) scaleFactor() duration.Frac {
	f := duration.NewFrac(1, 1)
	for _, s := range w.durScale {
		f = f.Mul(s)
	}
	return f
}

func (w *Walker) resolveDuration(dn *lyast.DurationNode) duration.Duration {
	base := w.lastDuration
	if dn != nil {
		t, ok := duration.TypeFromLog(dn.Log)
		if !ok {
			w.warnf("unknown duration log %d at line %d", dn.Log, dn.Line())
			t = duration.TypeQuarter
		}
		base = duration.NewDuration(t, dn.Dots)
		if dn.MultNum != 0 {
			den := dn.MultDen
			if den == 0 {
				den = 1
			}
			base = base.Scale(duration.NewFrac(int64(dn.MultNum), int64(den)))
		}
		w.lastDuration = base
	}
	scaled := base
	scaled.Scaling = base.Scaling.Mul(w.scaleFactor())
	return scaled
}

func (w *Walker) walkScaler(n *lyast.Scaler) {
	if n.Num == 0 {
		n.Num = 1
	}
	if n.Den == 0 {
		n.Den = 1
	}
	factor := duration.NewFrac(int64(n.Den), int64(n.Num))
	w.durScale = append(w.durScale, factor)
	if n.IsTuplet {
		w.eng.ChangeToTuplet(n.Num, n.Den, "start")
	}
	w.walkNode(n.Music)
	if n.IsTuplet {
		w.eng.ChangeToTuplet(n.Num, n.Den, "stop")
	}
	w.durScale = w.durScale[:len(w.durScale)-1]
}

func (w *Walker) inTuplet() bool { return len(w.durScale) > 0 }

// -- Notes, chords, rests -----------------------------------------------

func (w *Walker) walkNote(n *lyast.NoteNode) {
	p := w.resolvePitch(pitch.Step(n.Step), n.Alter, n.OctaveMarks)
	dur := w.resolveDuration(n.Duration)
	w.eng.CheckDivs(dur)
	note := w.eng.NewNote(p, dur, n.Cautionary, n.Parenthesized)
	w.applyPostEvents(n.PostEvents, note)
	w.afterEvent(dur)
}

func (w *Walker) walkRest(n *lyast.Rest) {
	dur := w.resolveDuration(n.Duration)
	w.eng.CheckDivs(dur)
	w.eng.NewRest(dur)
	w.afterEvent(dur)
}

func (w *Walker) walkSkip(n *lyast.Skip) {
	dur := w.resolveDuration(n.Duration)
	w.eng.CheckDivs(dur)
	w.eng.NewSkip(dur)
	w.afterEvent(dur)
}

func (w *Walker) walkChord(n *lyast.Chord) {
	var pitches []pitch.Pitch
	for _, item := range n.Items {
		note, ok := item.(*lyast.NoteNode)
		if !ok {
			w.warnf("non-pitch item inside chord at line %d", item.Line())
			continue
		}
		pitches = append(pitches, w.resolvePitch(pitch.Step(note.Step), note.Alter, note.OctaveMarks))
	}
	if len(pitches) == 0 {
		return
	}
	dur := w.resolveDuration(n.Duration)
	w.eng.CheckDivs(dur)
	notes := w.eng.NewChord(pitches, dur)
	if len(notes) > 0 {
		w.applyPostEvents(n.PostEvents, notes[0])
	}
	w.afterEvent(dur)
}

func (w *Walker) walkChordRepeat(n *lyast.Q) {
	last := w.eng.LastNote()
	if last == nil {
		w.warnf("\"q\" with no previous chord at line %d", n.Line())
		return
	}
	w.eng.NewIsoDuration(last.Duration)
	w.afterEvent(last.Duration)
}

// afterEvent advances the walker's own bar-boundary and automatic
// beaming bookkeeping; the engine has already advanced its own time
// cursor and beam-group membership as part of NewNote/NewRest/NewSkip.
func (w *Walker) afterEvent(dur duration.Duration) {
	w.checkAutoBeam(dur)
	w.checkForBarline()
}

func (w *Walker) checkAutoBeam(dur duration.Duration) {
	if dur.Type < duration.TypeEighth || w.inTuplet() || !w.autoBeamOn || w.eng.Beams.ManualOpen() {
		if !w.eng.Beams.ManualOpen() {
			w.shortestInBeam = duration.NewFrac(1, 1)
		}
		return
	}
	L := dur.Length()
	if w.shortestInBeam.Equal(duration.NewFrac(1, 1)) || L.Less(w.shortestInBeam) {
		w.shortestInBeam = L
	}
	ends := beamEndOffsets(w.timeSigNum, w.timeSigDen, w.shortestInBeam)
	t := w.eng.VoiceSep.TimeSinceBar()
	if isBeamEnd(t, ends) {
		w.eng.Beams.Flush()
		w.shortestInBeam = duration.NewFrac(1, 1)
	}
}

func (w *Walker) checkForBarline() {
	tsb := w.eng.VoiceSep.TimeSinceBar()
	full := duration.NewFrac(int64(w.timeSigNum), int64(w.timeSigDen))
	if w.havePartial && w.eng.VoiceSep.FirstMeasure() && tsb.Equal(w.partial) {
		w.eng.NewBar(true)
		w.havePartial = false
		return
	}
	if tsb.Equal(full) {
		w.eng.NewBar(true)
	}
}

// -- Post-events --------------------------------------------------------

func (w *Walker) applyPostEvents(events []lyast.Node, note *score.BarNote) {
	for _, ev := range events {
		switch e := ev.(type) {
		case *lyast.Tie:
			w.eng.TieToNext()
		case *lyast.Slur:
			if note != nil {
				note.Slurs = append(note.Slurs, slurValue(e.Start))
			}
		case *lyast.PhrasingSlur:
			if note != nil {
				note.Slurs = append(note.Slurs, slurValue(e.Start))
			}
		case *lyast.Beam:
			if e.Start {
				w.eng.Beams.StartManual()
			} else {
				w.eng.Beams.EndManual()
				w.eng.Beams.Flush()
			}
		case *lyast.Dynamic:
			w.applyDynamic(e)
		case *lyast.Tremolo:
			if note != nil {
				note.Tremolo = &score.Tremolo{Type: "single", Lines: tremoloLines(e.Subdivision)}
			}
		case *lyast.Command:
			w.applyNoteCommand(e, note)
		default:
			w.warnf("unsupported post-event %T at line %d", ev, ev.Line())
		}
	}
}

func slurValue(start bool) string {
	if start {
		return "start"
	}
	return "stop"
}

func tremoloLines(subdivision int) int {
	switch {
	case subdivision >= 32:
		return 3
	case subdivision >= 16:
		return 2
	default:
		return 1
	}
}

func (w *Walker) applyDynamic(d *lyast.Dynamic) {
	switch d.Kind {
	case "<", ">":
		w.eng.ApplyHairpin(d.Kind)
	case "!":
		w.eng.ApplyDynamicClose()
	case "cresc", "cresc.", "decresc", "decresc.", "dim", "dim.":
		w.eng.ApplyDynamicText(d.Kind)
	default:
		w.eng.ApplyDynamicMark(d.Kind)
	}
}

func (w *Walker) applyNoteCommand(c *lyast.Command, note *score.BarNote) {
	if note == nil {
		return
	}
	switch c.Name {
	case "staccato", "tenuto", "accent", "staccatissimo", "marcato", "portato":
		note.Articulations = append(note.Articulations, c.Name)
	case "trill", "prall", "mordent", "turn", "fermata":
		note.Ornaments = append(note.Ornaments, c.Name)
	case "startTrillSpan":
		note.Ornaments = append(note.Ornaments, "trill-start")
	case "stopTrillSpan":
		note.Ornaments = append(note.Ornaments, "trill-stop")
	case "glissando":
		note.Glissando = "start"
	}
}

// -- Repeats and volta --------------------------------------------------

func (w *Walker) walkRepeat(n *lyast.Repeat) {
	switch n.Specifier {
	case "unfold":
		w.walkRepeatUnfold(n)
	case "volta":
		w.voltaCounts = append(w.voltaCounts, n.Count)
		w.walkNode(n.Music)
		if n.Alternative != nil {
			w.walkAlternative(n.Alternative)
		} else {
			w.voltaCounts = w.voltaCounts[:len(w.voltaCounts)-1]
		}
	default: // "percent", "tremolo": flattened inline like unfold
		count := n.Count
		if count < 1 {
			count = 1
		}
		for i := 0; i < count; i++ {
			w.walkNode(n.Music)
		}
	}
}

func (w *Walker) walkRepeatUnfold(n *lyast.Repeat) {
	reps := n.Count
	if reps < 1 {
		reps = 1
	}
	k := 0
	if n.Alternative != nil {
		k = len(n.Alternative.Endings)
	}
	for i := 0; i < reps; i++ {
		w.walkNode(n.Music)
		if k > 0 && i >= reps-k {
			w.walkNode(n.Alternative.Endings[i-(reps-k)])
		}
	}
}

func (w *Walker) walkAlternative(alt *lyast.Alternative) {
	if len(w.voltaCounts) == 0 {
		w.warnf("\\alternative with no enclosing \\repeat volta at line %d", alt.Line())
		for _, e := range alt.Endings {
			w.walkNode(e)
		}
		return
	}
	total := w.voltaCounts[len(w.voltaCounts)-1]
	w.voltaCounts = w.voltaCounts[:len(w.voltaCounts)-1]
	k := len(alt.Endings)

	for i, ending := range alt.Endings {
		final := i == k-1
		var label string
		if i == 0 {
			first := total - k + 1
			if first > 1 {
				label = fmt.Sprintf("1-%d", first)
			} else {
				label = "1"
			}
		} else {
			label = strconv.Itoa(total - k + 1 + i)
		}
		w.eng.NewEnding(label, "start", 0)
		w.walkNode(ending)
		if final {
			w.eng.NewEnding(label, "discontinue", 0)
		} else {
			w.eng.NewEnding(label, "stop", 0)
		}
	}
}

// -- Bare commands --------------------------------------------------------

var voiceNumbers = map[string]int{"voiceOne": 1, "voiceTwo": 2, "voiceThree": 3, "voiceFour": 4}

func (w *Walker) walkCommand(c *lyast.Command) {
	switch c.Name {
	case "bar":
		w.eng.CreateBarline(c.Arg)
	case "rest":
		w.eng.NoteToRest()
	case "autoBeamOn":
		w.autoBeamOn = true
	case "autoBeamOff":
		w.autoBeamOn = false
	case "noBeam":
		w.eng.Beams.Flush()
	case "oneVoice":
		w.curVoiceNum = 1
		w.eng.SetVoice(1, w.curVoiceName)
	case "voiceOne", "voiceTwo", "voiceThree", "voiceFour":
		w.curVoiceNum = voiceNumbers[c.Name]
		w.eng.SetVoice(w.curVoiceNum, w.curVoiceName)
	case "numericTimeSignature", "defaultTimeSignature":
		// display-only; no notational state to track.
	default:
		// dynamics/ornaments/articulations reaching here (outside a
		// note's PostEvents) attach to the most recently emitted note,
		// matching LilyPond's own postfix-or-standalone flexibility.
		if last := w.eng.LastNote(); last != nil {
			w.applyNoteCommand(c, last)
		}
	}
}

// clefFromName maps a LilyPond clef name to (sign, line, octave-change).
// An unrecognized name returns ok=false: "unknown clef names emit no
// clef," not a guessed default.
func clefFromName(name string) (score.Clef, bool) {
	switch name {
	case "treble", "violin", "G":
		return score.Clef{Sign: "G", Line: 2}, true
	case "bass", "F":
		return score.Clef{Sign: "F", Line: 4}, true
	case "alto", "C":
		return score.Clef{Sign: "C", Line: 3}, true
	case "tenor":
		return score.Clef{Sign: "C", Line: 4}, true
	case "treble_8":
		return score.Clef{Sign: "G", Line: 2, OctaveChange: -1}, true
	case "treble_15":
		return score.Clef{Sign: "G", Line: 2, OctaveChange: -2}, true
	case "bass_8":
		return score.Clef{Sign: "F", Line: 4, OctaveChange: -1}, true
	case "bass_15":
		return score.Clef{Sign: "F", Line: 4, OctaveChange: -2}, true
	case "treble^8":
		return score.Clef{Sign: "G", Line: 2, OctaveChange: 1}, true
	case "treble^15":
		return score.Clef{Sign: "G", Line: 2, OctaveChange: 2}, true
	case "bass^8":
		return score.Clef{Sign: "F", Line: 4, OctaveChange: 1}, true
	case "bass^15":
		return score.Clef{Sign: "F", Line: 4, OctaveChange: 2}, true
	case "percussion":
		return score.Clef{Sign: "percussion", Line: 0}, true
	case "tab":
		return score.Clef{Sign: "TAB", Line: 5}, true
	case "soprano":
		return score.Clef{Sign: "C", Line: 1}, true
	case "mezzosoprano":
		return score.Clef{Sign: "C", Line: 2}, true
	case "baritone":
		return score.Clef{Sign: "C", Line: 5}, true
	case "varbaritone":
		return score.Clef{Sign: "F", Line: 3}, true
	case "french":
		return score.Clef{Sign: "G", Line: 1}, true
	case "subbass":
		return score.Clef{Sign: "F", Line: 5}, true
	default:
		return score.Clef{}, false
	}
}

var majorTonicFifths = map[string]int{
	"ases": -11, "eses": -10, "beses": -9, "fes": -8,
	"ces": -7, "ges": -6, "des": -5, "aes": -4, "ees": -3, "bes": -2, "f": -1,
	"as": -4, "es": -3,
	"c": 0, "g": 1, "d": 2, "a": 3, "e": 4, "b": 5, "fis": 6, "cis": 7,
	"gis": 8, "dis": 9, "ais": 10, "eis": 11, "bis": 12, "fisis": 13, "cisis": 14,
}

// keyFifths converts a LilyPond tonic name and mode to a signed fifths
// count for the circle of fifths. Minor keys are relative to their
// major-key fifths count (three steps counter-clockwise).
func keyFifths(tonic, mode string) (int, string) {
	base, ok := majorTonicFifths[tonic]
	if !ok {
		return 0, mode
	}
	switch mode {
	case "minor":
		return base - 3, mode
	case "dorian":
		return base - 2, mode
	default:
		return base, mode
	}
}
