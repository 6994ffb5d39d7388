// Package engine implements the Mediator: the event sink that holds
// all translation state (accidentals, ties, tuplets, beams, dynamics,
// voice-separator position) while package walk feeds it LilyPond
// constructs in source order, and that builds up a *score.Score as it
// goes. No operation here returns musical content directly; callers
// read the Score once the walk finishes.
package engine

import (
	"go-ly-musicxml/internal/diag"
	"go-ly-musicxml/internal/duration"
	"go-ly-musicxml/internal/pitch"
	"go-ly-musicxml/internal/score"
)

// Engine is the Mediator. It holds the score under construction plus
// the sub-records each named operation consults or updates.
type Engine struct {
	Score *score.Score
	sink  *diag.Sink

	groupStack []int
	curPart    *score.Part
	curBar     *score.Bar
	barHasMusic bool

	divisions    int
	curVoice     int
	curVoiceName string
	curStaff     int

	lastNote      *score.BarNote
	lastChord     []*score.BarNote
	lastNoteSeen  bool

	names map[string]int

	Accidentals *AccidentalTracker
	Ties        *TiePool
	Tuplets     *TupletStack
	Beams       *BeamTracker
	Dynamics    *DynamicsLatch
	VoiceSep    *VoiceSeparator
}

// New returns an Engine ready to build a fresh Score, reporting
// recoverable problems to sink.
func New(sink *diag.Sink) *Engine {
	return &Engine{
		Score:       score.NewScore(),
		sink:        sink,
		divisions:   1,
		names:       map[string]int{},
		Accidentals: newAccidentalTracker(),
		Ties:        newTiePool(),
		Tuplets:     newTupletStack(),
		Beams:       newBeamTracker(),
		Dynamics:    newDynamicsLatch(),
		VoiceSep:    newVoiceSeparator(),
	}
}

func (e *Engine) warnf(format string, args ...any) {
	if e.sink != nil {
		e.sink.Warnf(diag.StageEngine, format, args...)
	}
}

func (e *Engine) errorf(format string, args ...any) {
	if e.sink != nil {
		e.sink.Errorf(diag.StageEngine, format, args...)
	}
}

// uniqueName suffixes the smallest integer ≥1 that avoids collision
// with any name already handed out.
func (e *Engine) uniqueName(base string) string {
	if base == "" {
		base = "section"
	}
	if e.names[base] == 0 {
		e.names[base] = 1
		return base
	}
	n := 1
	for {
		candidate := base + itoa(n)
		if e.names[candidate] == 0 {
			e.names[candidate] = 1
			e.names[base]++
			return candidate
		}
		n++
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// -- Score setup --------------------------------------------------

// curGroup returns the index of the currently open group, or -1.
func (e *Engine) curGroup() int {
	if len(e.groupStack) == 0 {
		return -1
	}
	return e.groupStack[len(e.groupStack)-1]
}

// NewPart appends a part to the score (nested in the open group, if
// any) and makes it current. toPart redirects this part's staff to
// merge into an earlier part (piano-style grand staff); piano marks
// the part as carrying two staves.
func (e *Engine) NewPart(id string, toPart string, piano bool) *score.Part {
	e.finishBar()
	p := e.Score.NewPart(id, e.curGroup())
	p.ToPart = toPart
	if piano {
		p.Staves = 2
	}
	e.curPart = p
	e.curBar = nil
	e.barHasMusic = false
	e.curVoice = 1
	e.curStaff = 1
	e.VoiceSep = newVoiceSeparator()
	return p
}

// NewGroup opens a PartGroup nested inside whatever group is
// currently open (or at the top level).
func (e *Engine) NewGroup() *score.PartGroup {
	g := e.Score.NewGroup(e.curGroup())
	e.groupStack = append(e.groupStack, g.ID)
	return g
}

// CloseGroup closes the innermost open group.
func (e *Engine) CloseGroup() {
	if len(e.groupStack) == 0 {
		e.warnf("CloseGroup with no open group")
		return
	}
	e.groupStack = e.groupStack[:len(e.groupStack)-1]
}

// ChangeGroupBracket sets the currently open group's bracket style.
func (e *Engine) ChangeGroupBracket(symbol score.BracketSymbol) {
	idx := e.curGroup()
	if g := e.Score.Group(idx); g != nil {
		g.Bracket = symbol
	} else {
		e.warnf("ChangeGroupBracket with no open group")
	}
}

// NewSection returns a unique name for a named sub-stream (a
// "\new Staff = name" context or similar), suffixing an integer on
// collision.
func (e *Engine) NewSection(name string) string { return e.uniqueName(name) }

// NewSnippet returns a unique name for an anonymous reusable block.
func (e *Engine) NewSnippet(name string) string { return e.uniqueName(name) }

// -- Measures and attributes ---------------------------------------

// finishBar closes the part's in-progress bar (if any), running the
// end-of-bar accidental correction.
func (e *Engine) finishBar() {
	if e.curBar == nil {
		return
	}
	e.Beams.Flush()
	e.Accidentals.Correct()
	e.curBar.ListFull = true
}

// NewBar closes the previous bar (unless fillPrev is false) and opens
// a fresh one, resetting the per-measure accidental map to the
// current key signature.
func (e *Engine) NewBar(fillPrev bool) *score.Bar {
	if fillPrev {
		e.finishBar()
	}
	if e.curPart == nil {
		e.errorf("NewBar with no current part")
		return nil
	}
	bar := score.NewBar()
	e.curPart.Barlist = append(e.curPart.Barlist, bar)
	e.curBar = bar
	e.barHasMusic = false
	e.Accidentals.ResetBar()
	e.VoiceSep.ResetBar()
	e.lastNoteSeen = false
	e.lastChord = nil
	return bar
}

// attrTarget returns the BarAttr to record an attribute change into:
// the bar's existing first BarAttr if no music has been written yet,
// or a freshly appended one for an in-measure change.
func (e *Engine) attrTarget() *score.BarAttr {
	if e.curBar == nil {
		e.errorf("attribute change with no current bar")
		return &score.BarAttr{}
	}
	if !e.barHasMusic {
		return e.curBar.Attr()
	}
	attr := &score.BarAttr{}
	e.curBar.ObjList = append(e.curBar.ObjList, attr)
	return attr
}

// NewTime records a time signature change.
func (e *Engine) NewTime(num, den int, numeric bool) {
	t := &score.Time{Beats: num, BeatType: den}
	if !numeric {
		switch {
		case num == 4 && den == 4:
			t.Symbol = "common"
		case num == 2 && den == 2:
			t.Symbol = "cut"
		}
	}
	e.attrTarget().Time = t
}

// NewKey records a key signature change given as a signed fifths
// count and mode name, and installs it as the accidental tracker's
// key map.
func (e *Engine) NewKey(fifths int, mode string) {
	e.attrTarget().Key = &score.Key{Fifths: fifths, Mode: mode}
	e.Accidentals.SetKey(fifths)
}

// NewClef records a clef change for staff number (0 for a
// single-staff part).
func (e *Engine) NewClef(c score.Clef) {
	attr := e.attrTarget()
	attr.Clefs = append(attr.Clefs, c)
}

// SetSysBreak marks the current bar attributes as forcing a system break.
func (e *Engine) SetSysBreak() {
	e.attrTarget().SysBreak = true
}

// CreateBarline appends an explicit barline style annotation (e.g.
// from "\bar \"|.\"").
func (e *Engine) CreateBarline(style string) {
	if e.curBar == nil {
		e.errorf("CreateBarline with no current bar")
		return
	}
	e.curBar.ObjList = append(e.curBar.ObjList, &score.Barline{Location: "right", Style: style})
	e.barHasMusic = true
}

// NewRepeat records a repeat-bar annotation on the current BarAttr.
func (e *Engine) NewRepeat(direction string, prev bool) {
	attr := e.attrTarget()
	attr.RepeatDir = direction
	_ = prev
}

// NewEnding records a volta bracket annotation on the current BarAttr.
func (e *Engine) NewEnding(numbers string, etype string, staff int) {
	attr := e.attrTarget()
	attr.Endings = append(attr.Endings, score.Ending{Number: numbers, Type: etype})
	_ = staff
}

// -- Notes, chords, rests --------------------------------------------

// NewNote builds a BarNote for p with duration dur, computing its
// accidental and resolving any pending tie. cautionary and
// parenthesized mark an accidental the source forces to be shown.
func (e *Engine) NewNote(p pitch.Pitch, dur duration.Duration, cautionary, parenthesized bool) *score.BarNote {
	e.lastChord = nil
	key := p.Key()

	tiedFromPrev := e.Ties.Pending(p.TieKey())
	kind := e.Accidentals.Decide(key, p.Alter, tiedFromPrev, cautionary, parenthesized)

	note := &score.BarNote{
		Pitch:      p,
		Accidental: kind,
		Duration:   dur,
		Voice:      e.curVoice,
		VoiceName:  e.curVoiceName,
		Staff:      e.curStaff,
		Type:       dur.Type,
		Dots:       dur.Dots,
	}
	if e.Tuplets.Depth() > 0 {
		tm := e.Tuplets.current()
		note.TimeMod = &tm
	}
	if tiedFromPrev {
		e.Ties.Close(note)
	}

	e.attachNote(note)
	e.Accidentals.Record(key, e.VoiceSep.TimeSinceBar(), p.Alter, kind, note)
	e.lastNote = note
	e.lastNoteSeen = true
	e.advance(dur, note)
	return note
}

// NewChord starts a chord: the first pitch behaves like NewNote; the
// remaining pitches are added via AddChordNote with the same
// duration, each appended with Chord=true.
func (e *Engine) NewChord(pitches []pitch.Pitch, dur duration.Duration) []*score.BarNote {
	if len(pitches) == 0 {
		return nil
	}
	first := e.NewNote(pitches[0], dur, false, false)
	notes := []*score.BarNote{first}
	for _, p := range pitches[1:] {
		notes = append(notes, e.AddChordNote(p, dur))
	}
	e.lastChord = notes
	return notes
}

// AddChordNote appends a non-first chord member, sharing the base
// note's duration and voice/staff placement.
func (e *Engine) AddChordNote(p pitch.Pitch, dur duration.Duration) *score.BarNote {
	key := p.Key()
	tiedFromPrev := e.Ties.Pending(p.TieKey())
	kind := e.Accidentals.Decide(key, p.Alter, tiedFromPrev, false, false)

	note := &score.BarNote{
		Pitch:      p,
		Accidental: kind,
		Duration:   dur,
		Voice:      e.curVoice,
		VoiceName:  e.curVoiceName,
		Staff:      e.curStaff,
		Chord:      true,
		Type:       dur.Type,
		Dots:       dur.Dots,
	}
	if e.Tuplets.Depth() > 0 {
		tm := e.Tuplets.current()
		note.TimeMod = &tm
	}
	if tiedFromPrev {
		e.Ties.Close(note)
	}
	if e.curBar != nil {
		e.curBar.ObjList = append(e.curBar.ObjList, note)
		e.barHasMusic = true
	}
	e.Accidentals.Record(key, e.VoiceSep.TimeSinceBar(), p.Alter, kind, note)
	return note
}

// NewRest appends a rest of the given duration.
func (e *Engine) NewRest(dur duration.Duration) *score.BarRest {
	rest := &score.BarRest{
		Duration:  dur,
		Voice:     e.curVoice,
		VoiceName: e.curVoiceName,
		Staff:     e.curStaff,
		ShowType:  true,
	}
	if e.curBar != nil {
		e.curBar.ObjList = append(e.curBar.ObjList, rest)
		e.barHasMusic = true
	}
	e.lastNoteSeen = false
	e.advance(dur, nil)
	return rest
}

// NewSkip appends an invisible spacer ("s", "\skip").
func (e *Engine) NewSkip(dur duration.Duration) *score.BarRest {
	rest := e.NewRest(dur)
	rest.Skip = true
	rest.ShowType = false
	return rest
}

// NoteToRest converts the most recently added note/chord into a rest,
// used when walking "\rest" after a pitch token.
func (e *Engine) NoteToRest() {
	if e.curBar == nil || len(e.curBar.ObjList) == 0 {
		return
	}
	last := e.curBar.ObjList[len(e.curBar.ObjList)-1]
	note, ok := last.(*score.BarNote)
	if !ok {
		return
	}
	e.curBar.ObjList[len(e.curBar.ObjList)-1] = &score.BarRest{
		Duration:  note.Duration,
		Voice:     note.Voice,
		VoiceName: note.VoiceName,
		Staff:     note.Staff,
		ShowType:  true,
	}
}

// ScaleRest multiplies a multi-measure rest's displayed duration by
// multiple, used for "R1*4"-style whole-bar rest replication.
func (e *Engine) ScaleRest(rest *score.BarRest, multiple int) {
	rest.Duration = rest.Duration.Scale(duration.NewFrac(int64(multiple), 1))
}

// NewIsoDuration appends a note/rest carrying forward the pitch of
// the previous melodic note (or, for a chord, every member of the
// previous chord) with a newly given duration.
func (e *Engine) NewIsoDuration(dur duration.Duration) []*score.BarNote {
	if len(e.lastChord) > 0 {
		var notes []*score.BarNote
		for _, prev := range e.lastChord {
			notes = append(notes, e.NewChordNoteLike(prev, dur))
		}
		e.lastChord = notes
		return notes
	}
	if e.lastNote != nil {
		return []*score.BarNote{e.NewNote(e.lastNote.Pitch, dur, false, false)}
	}
	e.warnf("isolated duration with no previous note to repeat")
	return nil
}

// NewChordNoteLike repeats prev's pitch as a fresh chord member with
// a new duration, preserving voice/staff placement.
func (e *Engine) NewChordNoteLike(prev *score.BarNote, dur duration.Duration) *score.BarNote {
	return e.AddChordNote(prev.Pitch, dur)
}

func (e *Engine) attachNote(note *score.BarNote) {
	if e.curBar != nil {
		e.curBar.ObjList = append(e.curBar.ObjList, note)
		e.barHasMusic = true
	}
}

// advance moves the time cursor forward and updates the beam group:
// note is nil for rests/skips, which always break automatic beaming;
// a sounding note shorter than a quarter joins the group, one
// quarter or longer closes it.
func (e *Engine) advance(dur duration.Duration, note *score.BarNote) {
	e.VoiceSep.Advance(dur.Length())
	switch {
	case note == nil:
		if !e.Beams.ManualOpen() {
			e.Beams.Flush()
		}
	case dur.Type >= duration.TypeEighth:
		e.Beams.Add(note)
	case !e.Beams.ManualOpen():
		e.Beams.Flush()
	}
}

// -- Ties, tuplets, dynamics -----------------------------------------

// TieToNext starts a tie from the most recently emitted note, or from
// every member of the just-closed chord.
func (e *Engine) TieToNext() {
	if len(e.lastChord) > 0 {
		for _, n := range e.lastChord {
			e.Ties.Start(n)
		}
		return
	}
	if e.lastNote != nil {
		e.Ties.Start(e.lastNote)
	}
}

// ChangeToTuplet opens (ttype == "start") or closes (ttype == "stop")
// a tuplet level with ratio num:den, stamping <tuplet> notation
// markers onto the boundary notes.
func (e *Engine) ChangeToTuplet(num, den int, ttype string) score.TimeModification {
	switch ttype {
	case "start":
		tm := e.Tuplets.Push(num, den)
		if e.lastNote != nil {
			e.lastNote.Tuplets = append(e.lastNote.Tuplets, score.Tuplet{Type: "start", Number: e.Tuplets.Number()})
		}
		return tm
	case "stop":
		n := e.Tuplets.Number()
		e.Tuplets.Pop()
		if e.lastNote != nil {
			e.lastNote.Tuplets = append(e.lastNote.Tuplets, score.Tuplet{Type: "stop", Number: n})
		}
		return e.Tuplets.current()
	default:
		return e.Tuplets.current()
	}
}

// ApplyHairpin opens a crescendo/diminuendo wedge on the most recent note.
func (e *Engine) ApplyHairpin(kind string) {
	if e.lastNote != nil {
		e.lastNote.Dynamics = e.Dynamics.OpenWedge(kind)
	}
}

// ApplyDynamicText opens a dashed text-dynamic span ("cresc.", "dim.").
func (e *Engine) ApplyDynamicText(text string) {
	if e.lastNote != nil {
		e.lastNote.Dynamics = e.Dynamics.OpenDashes(text)
	}
}

// ApplyDynamicClose closes the active wedge/dashes span ("!").
func (e *Engine) ApplyDynamicClose() {
	if e.lastNote != nil {
		if d := e.Dynamics.Close(); d != nil {
			e.lastNote.Dynamics = d
		}
	}
}

// ApplyDynamicMark attaches a plain dynamic mark, closing any open span.
func (e *Engine) ApplyDynamicMark(name string) {
	if e.lastNote != nil {
		e.lastNote.Dynamics = e.Dynamics.Mark(name)
	}
}

// -- Divisions --------------------------------------------------------

// CheckDivs ensures the current divisions-per-quarter value can
// represent dur as a whole number of divisions, scaling it up (and
// recording the new value into the bar's attributes) if not.
func (e *Engine) CheckDivs(dur duration.Duration) {
	mult := duration.CheckDivs(dur, int64(e.divisions))
	if mult != 1 {
		e.divisions *= int(mult)
	}
	e.attrTarget().Divisions = e.divisions
}

// Divisions returns the current divisions-per-quarter value.
func (e *Engine) Divisions() int { return e.divisions }

// SetVoice switches the current voice number/name for subsequent notes.
func (e *Engine) SetVoice(num int, name string) {
	e.curVoice = num
	e.curVoiceName = name
}

// SetStaff switches the current staff number for subsequent notes.
func (e *Engine) SetStaff(staff int) { e.curStaff = staff }

// Finish closes out the part currently being built (final bar
// correction); call once after the whole tree has been walked.
func (e *Engine) Finish() {
	e.finishBar()
}

// CurrentPart returns the part currently being built, or nil before
// the first NewPart call.
func (e *Engine) CurrentPart() *score.Part { return e.curPart }

// LastNote returns the most recently emitted note or chord-first note,
// or nil if none has been emitted yet in the current part.
func (e *Engine) LastNote() *score.BarNote { return e.lastNote }
