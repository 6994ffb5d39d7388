// Package lyparse implements the LilyPond lexer and recursive-descent
// parser that builds the lyast.Node tree the walker consumes. This is
// the concrete implementation of what the distilled specification
// named only as an external collaborator's interface (§6): a tree
// with class tags, parent/child/sibling navigation, pitch/duration
// accessors, tokens, scaler/repeat accessors and document-wide
// variable substitution.
package lyparse

import (
	"strconv"
	"strings"

	"go-ly-musicxml/internal/diag"
	"go-ly-musicxml/internal/lyast"
)

// Parser turns LilyPond source text into a *lyast.Document, reporting
// recoverable problems to a diag.Sink instead of failing outright.
type Parser struct {
	lex    *lexer
	tok    token
	ahead  *token
	sink   *diag.Sink
}

// New returns a parser for src, reporting diagnostics to sink.
func New(src string, sink *diag.Sink) *Parser {
	p := &Parser{lex: newLexer(src), sink: sink}
	p.advance()
	return p
}

func (p *Parser) advance() {
	if p.ahead != nil {
		p.tok = *p.ahead
		p.ahead = nil
		return
	}
	p.tok = p.lex.next()
}

func (p *Parser) peekAhead() token {
	if p.ahead == nil {
		t := p.lex.next()
		p.ahead = &t
	}
	return *p.ahead
}

func (p *Parser) warnf(format string, args ...any) {
	if p.sink != nil {
		p.sink.Warnf(diag.StageParse, format, args...)
	}
}

// Parse consumes the full token stream and returns the document.
func (p *Parser) Parse() *lyast.Document {
	doc := &lyast.Document{}
	var body []lyast.Node

	for p.tok.kind != tokEOF {
		if p.tok.kind == tokWord && isPlainIdentifier(p.tok.text) && p.peekAhead().kind == tokEquals {
			name := p.tok.text
			p.advance() // name
			p.advance() // =
			music := p.parseMusicAtom()
			doc.Assignments = append(doc.Assignments, &lyast.Assignment{Name: name, Music: music})
			continue
		}
		atom := p.parseMusicAtom()
		if atom != nil {
			body = append(body, atom)
		}
	}

	if len(body) == 1 {
		doc.Body = body[0]
	} else if len(body) > 1 {
		doc.Body = &lyast.MusicList{Items: body}
	}

	lyast.SetParentRecursive(doc)
	return doc
}

func isPlainIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')) {
			return false
		}
	}
	return true
}

// parseMusicAtom parses exactly one music expression: a braced or
// angle-bracketed block, a single note/rest/skip (with trailing
// post-events), or a command that introduces a sub-expression.
func (p *Parser) parseMusicAtom() lyast.Node {
	line := p.tok.line
	switch p.tok.kind {
	case tokLBrace:
		return p.parseSequential()
	case tokLDouble:
		return p.parseSimultaneous()
	case tokLAngle:
		return p.parseChord()
	case tokBackslashBackslash:
		p.advance()
		return &lyast.VoiceSeparator{Base: lyast.NewBase(line)}
	case tokPipe:
		p.advance()
		return &lyast.PipeSymbol{Base: lyast.NewBase(line)}
	case tokHash:
		raw := p.tok.text
		p.advance()
		return &lyast.Scheme{Base: lyast.NewBase(line), Raw: raw}
	case tokCommand:
		return p.parseCommand()
	case tokWord:
		return p.parseWordAtom()
	case tokNumber:
		// A bare number outside of a command context (e.g. stray
		// duration) is not structurally meaningful on its own.
		p.warnf("unexpected bare number %q at line %d", p.tok.text, line)
		p.advance()
		return nil
	default:
		p.warnf("unexpected token %q at line %d", p.tok.text, line)
		p.advance()
		return nil
	}
}

func (p *Parser) parseSequential() lyast.Node {
	line := p.tok.line
	p.advance() // {
	var items []lyast.Node
	for p.tok.kind != tokRBrace && p.tok.kind != tokEOF {
		a := p.parseMusicAtom()
		if a != nil {
			items = append(items, a)
		}
	}
	if p.tok.kind == tokRBrace {
		p.advance()
	} else {
		p.warnf("unterminated { at line %d", line)
	}
	return &lyast.MusicList{Base: lyast.NewBase(line), Items: items}
}

func (p *Parser) parseSimultaneous() lyast.Node {
	line := p.tok.line
	p.advance() // <<
	var items []lyast.Node
	for p.tok.kind != tokRDouble && p.tok.kind != tokEOF {
		a := p.parseMusicAtom()
		if a != nil {
			items = append(items, a)
		}
	}
	if p.tok.kind == tokRDouble {
		p.advance()
	} else {
		p.warnf("unterminated << at line %d", line)
	}
	return &lyast.MusicList{Base: lyast.NewBase(line), Simultaneous: true, Items: items}
}

func (p *Parser) parseChord() lyast.Node {
	line := p.tok.line
	p.advance() // <
	var items []lyast.Node
	for p.tok.kind != tokRAngle && p.tok.kind != tokEOF {
		if p.tok.kind == tokWord {
			if n := p.tryParsePitchWord(p.tok.text, line); n != nil {
				p.advance()
				items = append(items, n)
				continue
			}
		}
		p.advance()
	}
	if p.tok.kind == tokRAngle {
		p.advance()
	} else {
		p.warnf("unterminated < at line %d", line)
	}

	chord := &lyast.Chord{Base: lyast.NewBase(line), Items: items}
	if dur := p.tryParseDuration(); dur != nil {
		chord.Duration = dur
	}
	chord.PostEvents = p.parsePostEvents()
	return chord
}

// parseWordAtom handles a bare word token: either a pitch (possibly
// "q" repeating the previous chord) or, if it does not look like a
// pitch, an unknown bareword that is skipped with a warning.
func (p *Parser) parseWordAtom() lyast.Node {
	line := p.tok.line
	text := p.tok.text

	if text == "q" {
		p.advance()
		return &lyast.Q{Base: lyast.NewBase(line)}
	}
	if text == "r" {
		p.advance()
		rest := &lyast.Rest{Base: lyast.NewBase(line)}
		rest.Duration = p.tryParseDuration()
		return rest
	}
	if text == "s" {
		p.advance()
		skip := &lyast.Skip{Base: lyast.NewBase(line)}
		skip.Duration = p.tryParseDuration()
		return skip
	}

	if n := p.tryParsePitchWord(text, line); n != nil {
		p.advance()
		note := n.(*lyast.NoteNode)
		note.Duration = p.tryParseDuration()
		note.PostEvents = p.parsePostEvents()
		return note
	}

	p.warnf("unrecognized word %q at line %d", text, line)
	p.advance()
	return &lyast.Unsupported{Base: lyast.NewBase(line), Reason: "word: " + text}
}

// tryParsePitchWord recognizes LilyPond's "c", "cis", "ees", "c'",
// "c,,", etc. Returns nil (without consuming) if text does not start
// with a note letter.
func (p *Parser) tryParsePitchWord(text string, line int) lyast.Node {
	if len(text) == 0 {
		return nil
	}
	step, ok := stepFromLetter(rune(text[0]))
	if !ok {
		return nil
	}
	rest := text[1:]
	alter := 0.0
	for {
		switch {
		case strings.HasPrefix(rest, "isis"):
			alter += 2
			rest = rest[4:]
		case strings.HasPrefix(rest, "eses"):
			alter -= 2
			rest = rest[4:]
		case strings.HasPrefix(rest, "is"):
			alter += 1
			rest = rest[2:]
		case strings.HasPrefix(rest, "es"):
			alter -= 1
			rest = rest[2:]
		default:
			goto marks
		}
	}
marks:
	marks := 0
	cautionary := false
	parenthesized := false
	for len(rest) > 0 {
		switch rest[0] {
		case '\'':
			marks++
			rest = rest[1:]
		case ',':
			marks--
			rest = rest[1:]
		case '!':
			cautionary = true
			rest = rest[1:]
		case '?':
			parenthesized = true
			rest = rest[1:]
		default:
			// Trailing garbage means this wasn't really a pitch word
			// (e.g. a context name like "Staff"); bail out.
			return nil
		}
	}
	return &lyast.NoteNode{
		Base:          lyast.NewBase(line),
		Step:          int(step),
		Alter:         alter,
		OctaveMarks:   marks,
		Cautionary:    cautionary,
		Parenthesized: parenthesized,
	}
}

func stepFromLetter(r rune) (int, bool) {
	switch r {
	case 'c', 'C':
		return 0, true
	case 'd', 'D':
		return 1, true
	case 'e', 'E':
		return 2, true
	case 'f', 'F':
		return 3, true
	case 'g', 'G':
		return 4, true
	case 'a', 'A':
		return 5, true
	case 'b', 'B':
		return 6, true
	default:
		return 0, false
	}
}

// tryParseDuration consumes a trailing duration token ("4", "8.",
// "4*2/3") if present, returning nil without consuming otherwise.
func (p *Parser) tryParseDuration() *lyast.DurationNode {
	if p.tok.kind != tokNumber {
		return nil
	}
	text := p.tok.text
	line := p.tok.line
	dots := strings.Count(text, ".")
	numPart := strings.TrimRight(text, ".")

	multNum, multDen := 1, 1
	log, err := strconv.Atoi(numPart)
	if err != nil {
		p.warnf("unparsable duration %q at line %d", text, line)
		p.advance()
		return nil
	}
	p.advance()

	// An explicit multiplier "*3/2" or "*3" lexes as a standalone "*"
	// word token followed by a number token.
	if p.tok.kind == tokWord && p.tok.text == "*" {
		p.advance()
		if p.tok.kind == tokNumber {
			if n, d, ok := splitFraction(p.tok.text); ok {
				multNum, multDen = n, d
			} else if n, err := strconv.Atoi(p.tok.text); err == nil {
				multNum = n
			}
			p.advance()
		}
	}

	return &lyast.DurationNode{
		Base:    lyast.NewBase(line),
		Log:     log,
		Dots:    dots,
		MultNum: multNum,
		MultDen: multDen,
	}
}

// parsePostEvents consumes the run of post-fix markers that can
// follow a note/chord: ties, slurs, manual beams, dynamics,
// articulations, tremolo.
func (p *Parser) parsePostEvents() []lyast.Node {
	var events []lyast.Node
	for {
		line := p.tok.line
		switch p.tok.kind {
		case tokTilde:
			p.advance()
			events = append(events, &lyast.Tie{Base: lyast.NewBase(line)})
		case tokLParen:
			p.advance()
			events = append(events, &lyast.Slur{Base: lyast.NewBase(line), Start: true})
		case tokRParen:
			p.advance()
			events = append(events, &lyast.Slur{Base: lyast.NewBase(line), Start: false})
		case tokBackslashParen:
			p.advance()
			events = append(events, &lyast.PhrasingSlur{Base: lyast.NewBase(line), Start: true})
		case tokBackslashRParen:
			p.advance()
			events = append(events, &lyast.PhrasingSlur{Base: lyast.NewBase(line), Start: false})
		case tokLBracket:
			p.advance()
			events = append(events, &lyast.Beam{Base: lyast.NewBase(line), Start: true})
		case tokRBracket:
			p.advance()
			events = append(events, &lyast.Beam{Base: lyast.NewBase(line), Start: false})
		case tokCommand:
			if ev, ok := p.parseEventCommand(); ok {
				events = append(events, ev)
				continue
			}
			return events
		default:
			return events
		}
	}
}

// parseEventCommand handles the subset of "\command" tokens that can
// appear as note post-events: dynamics, articulations, ornaments,
// fermata, glissando, trill spans.
func (p *Parser) parseEventCommand() (lyast.Node, bool) {
	name := p.tok.text
	line := p.tok.line
	switch name {
	case "p", "pp", "ppp", "pppp", "f", "ff", "fff", "ffff", "mf", "mp", "sf", "sfz", "fp":
		p.advance()
		return &lyast.Dynamic{Base: lyast.NewBase(line), Kind: name}, true
	case "<", ">":
		p.advance()
		return &lyast.Dynamic{Base: lyast.NewBase(line), Kind: name}, true
	case "!":
		p.advance()
		return &lyast.Dynamic{Base: lyast.NewBase(line), Kind: "!"}, true
	case "cresc", "dim", "decresc":
		p.advance()
		return &lyast.Dynamic{Base: lyast.NewBase(line), Kind: name + "."}, true
	case "staccato", "tenuto", "accent", "staccatissimo", "marcato", "portato":
		p.advance()
		return &lyast.Command{Base: lyast.NewBase(line), Name: name}, true
	case "trill", "prall", "mordent", "turn", "fermata":
		p.advance()
		return &lyast.Command{Base: lyast.NewBase(line), Name: name}, true
	case "glissando":
		p.advance()
		return &lyast.Command{Base: lyast.NewBase(line), Name: "glissando"}, true
	case "startTrillSpan", "stopTrillSpan":
		p.advance()
		return &lyast.Command{Base: lyast.NewBase(line), Name: name}, true
	default:
		return nil, false
	}
}

// parseCommand dispatches a "\command" token that introduces a
// structural construct (as opposed to a note post-event, which
// parsePostEvents already handles inline).
func (p *Parser) parseCommand() lyast.Node {
	name := p.tok.text
	line := p.tok.line

	switch name {
	case "relative":
		return p.parseRelative()
	case "transpose":
		return p.parseTranspose()
	case "key":
		return p.parseKey()
	case "time":
		return p.parseTime()
	case "clef":
		return p.parseClef()
	case "repeat":
		return p.parseRepeat()
	case "alternative":
		return p.parseAlternative()
	case "new", "context":
		return p.parseContext()
	case "change":
		return p.parseChange()
	case "lyricsto":
		return p.parseLyricsTo()
	case "addlyrics":
		return p.parseAddLyrics()
	case "set":
		return p.parseSet()
	case "unset":
		return p.parseUnset()
	case "override":
		return p.parseOverride()
	case "with":
		return p.parseWith()
	case "partial":
		p.advance()
		dur := p.tryParseDuration()
		return &lyast.Partial{Base: lyast.NewBase(line), Duration: dur}
	case "scaleDurations":
		return p.parseScaler(false)
	case "times", "tuplet":
		return p.parseScaler(true)
	case "version":
		p.advance()
		p.skipOneAtom()
		return &lyast.Version{Base: lyast.NewBase(line)}
	case "midi":
		p.advance()
		p.skipOneAtom()
		return &lyast.Midi{Base: lyast.NewBase(line)}
	case "layout":
		p.advance()
		p.skipOneAtom()
		return &lyast.Layout{Base: lyast.NewBase(line)}
	case "bar":
		p.advance()
		arg := p.expectStringArg()
		return &lyast.Command{Base: lyast.NewBase(line), Name: "bar", Arg: arg}
	case "rest":
		p.advance()
		return &lyast.Command{Base: lyast.NewBase(line), Name: "rest"}
	case "skip":
		p.advance()
		return &lyast.Skip{Base: lyast.NewBase(line), Duration: p.tryParseDuration()}
	case "tempo":
		p.advance()
		// "\tempo 4 = 120" or "\tempo \"Andante\"": consume loosely.
		for p.tok.kind == tokNumber || p.tok.kind == tokEquals || p.tok.kind == tokString {
			p.advance()
		}
		return &lyast.Command{Base: lyast.NewBase(line), Name: "tempo"}
	default:
		p.advance()
		if knownMarkerCommands[name] {
			return &lyast.Command{Base: lyast.NewBase(line), Name: name}
		}
		// Anything not in the fixed keyword set is a reference to a
		// user-defined variable, resolved later via lyast.Table.
		return &lyast.UserCommand{Base: lyast.NewBase(line), Name: name}
	}
}

// knownMarkerCommands lists bare "\name" commands with no further
// structure that are part of LilyPond itself rather than a reference
// to a user-defined variable.
var knownMarkerCommands = map[string]bool{
	"voiceOne": true, "voiceTwo": true, "voiceThree": true, "voiceFour": true,
	"oneVoice":  true,
	"glissando": true, "ottava": true, "noBeam": true,
	"autoBeamOn": true, "autoBeamOff": true,
	"numericTimeSignature": true, "defaultTimeSignature": true,
	"startTrillSpan": true, "stopTrillSpan": true,
	"trill": true, "prall": true, "mordent": true, "turn": true, "fermata": true,
	"staccato": true, "tenuto": true, "accent": true, "staccatissimo": true,
	"marcato": true, "portato": true,
	"segno": true, "coda": true, "fine": true, "mark": true,
	"break": true, "noPageBreak": true, "pageBreak": true,
	"p": true, "pp": true, "ppp": true, "pppp": true,
	"f": true, "ff": true, "fff": true, "ffff": true,
	"mf": true, "mp": true, "sf": true, "sfz": true, "fp": true,
	"cresc": true, "dim": true, "decresc": true,
}

func (p *Parser) skipOneAtom() {
	if p.tok.kind == tokLBrace {
		depth := 0
		for {
			if p.tok.kind == tokLBrace {
				depth++
			} else if p.tok.kind == tokRBrace {
				depth--
			} else if p.tok.kind == tokEOF {
				return
			}
			p.advance()
			if depth == 0 {
				return
			}
		}
	}
}

func (p *Parser) expectStringArg() string {
	if p.tok.kind == tokString {
		s := p.tok.text
		p.advance()
		return s
	}
	return ""
}

func (p *Parser) parseRelative() lyast.Node {
	line := p.tok.line
	p.advance() // relative
	rel := &lyast.Relative{Base: lyast.NewBase(line)}
	if p.tok.kind == tokWord {
		if n := p.tryParsePitchWord(p.tok.text, line); n != nil {
			note := n.(*lyast.NoteNode)
			rel.HasStartPitch = true
			rel.StartStep = note.Step
			rel.StartAlter = note.Alter
			rel.StartOctave = note.OctaveMarks
			p.advance()
		}
	}
	rel.Music = p.parseMusicAtom()
	return rel
}

func (p *Parser) parseTranspose() lyast.Node {
	line := p.tok.line
	p.advance()
	t := &lyast.Transpose{Base: lyast.NewBase(line)}
	if n := p.parsePitchArg(); n != nil {
		t.FromStep, t.FromAlter, t.FromOctave = n.Step, n.Alter, n.OctaveMarks
	}
	if n := p.parsePitchArg(); n != nil {
		t.ToStep, t.ToAlter, t.ToOctave = n.Step, n.Alter, n.OctaveMarks
	}
	t.Music = p.parseMusicAtom()
	return t
}

func (p *Parser) parsePitchArg() *lyast.NoteNode {
	if p.tok.kind == tokWord {
		if n := p.tryParsePitchWord(p.tok.text, p.tok.line); n != nil {
			p.advance()
			return n.(*lyast.NoteNode)
		}
	}
	return nil
}

func (p *Parser) parseKey() lyast.Node {
	line := p.tok.line
	p.advance()
	tonic := ""
	if p.tok.kind == tokWord {
		tonic = p.tok.text
		p.advance()
	}
	mode := ""
	if p.tok.kind == tokCommand {
		mode = p.tok.text
		p.advance()
	}
	return &lyast.KeySignature{Base: lyast.NewBase(line), Tonic: tonic, Mode: mode}
}

func (p *Parser) parseTime() lyast.Node {
	line := p.tok.line
	p.advance()
	num, den := 4, 4
	if p.tok.kind == tokNumber {
		if n, d, ok := splitFraction(p.tok.text); ok {
			num, den = n, d
		}
		p.advance()
	}
	return &lyast.TimeSignature{Base: lyast.NewBase(line), Num: num, Den: den}
}

func splitFraction(s string) (int, int, bool) {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	n, err1 := strconv.Atoi(parts[0])
	d, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return n, d, true
}

func (p *Parser) parseClef() lyast.Node {
	line := p.tok.line
	p.advance()
	name := ""
	if p.tok.kind == tokWord {
		name = p.tok.text
		p.advance()
	} else if p.tok.kind == tokString {
		name = p.tok.text
		p.advance()
	}
	return &lyast.Clef{Base: lyast.NewBase(line), Name: name}
}

func (p *Parser) parseScaler(isTuplet bool) lyast.Node {
	line := p.tok.line
	p.advance()
	num, den := 1, 1
	if p.tok.kind == tokNumber {
		if n, d, ok := splitFraction(p.tok.text); ok {
			num, den = n, d
		}
		p.advance()
	}
	music := p.parseMusicAtom()
	return &lyast.Scaler{Base: lyast.NewBase(line), Num: num, Den: den, IsTuplet: isTuplet, Music: music}
}

func (p *Parser) parseRepeat() lyast.Node {
	line := p.tok.line
	p.advance()
	specifier := ""
	if p.tok.kind == tokWord {
		specifier = p.tok.text
		p.advance()
	}
	count := 2
	if p.tok.kind == tokNumber {
		if n, err := strconv.Atoi(p.tok.text); err == nil {
			count = n
		}
		p.advance()
	}
	music := p.parseMusicAtom()
	rep := &lyast.Repeat{Base: lyast.NewBase(line), Specifier: specifier, Count: count, Music: music}
	if p.tok.kind == tokCommand && p.tok.text == "alternative" {
		if alt, ok := p.parseAlternative().(*lyast.Alternative); ok {
			rep.Alternative = alt
		}
	}
	return rep
}

func (p *Parser) parseAlternative() lyast.Node {
	line := p.tok.line
	p.advance() // alternative
	alt := &lyast.Alternative{Base: lyast.NewBase(line)}
	if p.tok.kind == tokLBrace {
		p.advance()
		for p.tok.kind != tokRBrace && p.tok.kind != tokEOF {
			ending := p.parseMusicAtom()
			if ending != nil {
				alt.Endings = append(alt.Endings, ending)
			}
		}
		if p.tok.kind == tokRBrace {
			p.advance()
		}
	}
	return alt
}

func (p *Parser) parseContext() lyast.Node {
	line := p.tok.line
	p.advance() // new/context
	kind := ""
	if p.tok.kind == tokWord {
		kind = p.tok.text
		p.advance()
	}
	name := ""
	if p.tok.kind == tokEquals {
		p.advance()
		if p.tok.kind == tokString || p.tok.kind == tokWord {
			name = p.tok.text
			p.advance()
		}
	}
	ctx := &lyast.Context{Base: lyast.NewBase(line), Kind: kind, Name: name}
	if p.tok.kind == tokCommand && p.tok.text == "with" {
		_ = p.parseWith() // \with settings are not separately retained on Context; recognized and discarded.
	}
	ctx.Music = p.parseMusicAtom()
	return ctx
}

func (p *Parser) parseChange() lyast.Node {
	line := p.tok.line
	p.advance()
	kind := ""
	if p.tok.kind == tokWord {
		kind = p.tok.text
		p.advance()
	}
	name := ""
	if p.tok.kind == tokEquals {
		p.advance()
		if p.tok.kind == tokWord || p.tok.kind == tokString {
			name = p.tok.text
			p.advance()
		}
	}
	return &lyast.Change{Base: lyast.NewBase(line), Kind: kind, Name: name}
}

func (p *Parser) parseLyricsTo() lyast.Node {
	line := p.tok.line
	p.advance()
	voice := ""
	if p.tok.kind == tokString || p.tok.kind == tokWord {
		voice = p.tok.text
		p.advance()
	}
	music := p.parseLyricMusic()
	return &lyast.LyricsTo{Base: lyast.NewBase(line), VoiceName: voice, Music: music}
}

func (p *Parser) parseAddLyrics() lyast.Node {
	line := p.tok.line
	p.advance()
	music := p.parseLyricMusic()
	return &lyast.LyricsTo{Base: lyast.NewBase(line), VoiceName: "", Music: music}
}

// parseLyricMusic parses a "{ ... }" block in lyric mode, where bare
// words are syllables rather than pitches.
func (p *Parser) parseLyricMusic() lyast.Node {
	line := p.tok.line
	if p.tok.kind != tokLBrace {
		return p.parseMusicAtom()
	}
	p.advance()
	var items []lyast.Node
	for p.tok.kind != tokRBrace && p.tok.kind != tokEOF {
		switch p.tok.kind {
		case tokHyphen:
			p.advance()
			if len(items) > 0 {
				if lt, ok := items[len(items)-1].(*lyast.LyricText); ok {
					lt.Hyphenated = true
				}
			}
		case tokUnderscoreUnderscore:
			p.advance()
			if len(items) > 0 {
				if lt, ok := items[len(items)-1].(*lyast.LyricText); ok {
					lt.Extend = true
				}
			}
		case tokWord:
			text := p.tok.text
			itemLine := p.tok.line
			p.advance()
			if text == "_" {
				items = append(items, &lyast.LyricItem{Base: lyast.NewBase(itemLine), Skip: true})
			} else {
				items = append(items, &lyast.LyricText{Base: lyast.NewBase(itemLine), Text: text})
			}
		case tokCommand:
			if p.tok.text == "skip" {
				itemLine := p.tok.line
				p.advance()
				items = append(items, &lyast.LyricItem{Base: lyast.NewBase(itemLine), Skip: true})
				p.tryParseDuration()
			} else if p.tok.text == "set" {
				items = append(items, p.parseSet())
			} else {
				p.advance()
			}
		default:
			p.advance()
		}
	}
	if p.tok.kind == tokRBrace {
		p.advance()
	}
	return &lyast.MusicList{Base: lyast.NewBase(line), Items: items}
}

func (p *Parser) parseSet() lyast.Node {
	line := p.tok.line
	p.advance()
	prop := ""
	if p.tok.kind == tokWord {
		prop = p.tok.text
		p.advance()
	}
	value := ""
	if p.tok.kind == tokEquals {
		p.advance()
		if p.tok.kind == tokWord || p.tok.kind == tokString || p.tok.kind == tokNumber {
			value = p.tok.text
			p.advance()
		}
	}
	return &lyast.Set{Base: lyast.NewBase(line), Property: prop, Value: value}
}

func (p *Parser) parseUnset() lyast.Node {
	line := p.tok.line
	p.advance()
	prop := ""
	if p.tok.kind == tokWord {
		prop = p.tok.text
		p.advance()
	}
	return &lyast.Unset{Base: lyast.NewBase(line), Property: prop}
}

func (p *Parser) parseOverride() lyast.Node {
	line := p.tok.line
	p.advance()
	path := ""
	if p.tok.kind == tokWord {
		path = p.tok.text
		p.advance()
	}
	value := ""
	if p.tok.kind == tokEquals {
		p.advance()
		if p.tok.kind == tokWord || p.tok.kind == tokString || p.tok.kind == tokNumber {
			value = p.tok.text
			p.advance()
		}
	}
	return &lyast.Override{Base: lyast.NewBase(line), Path: path, Value: value}
}

func (p *Parser) parseWith() lyast.Node {
	line := p.tok.line
	p.advance()
	w := &lyast.With{Base: lyast.NewBase(line)}
	if p.tok.kind == tokLBrace {
		p.advance()
		for p.tok.kind != tokRBrace && p.tok.kind != tokEOF {
			if p.tok.kind == tokCommand && p.tok.text == "set" {
				w.Settings = append(w.Settings, p.parseSet())
			} else if p.tok.kind == tokCommand && p.tok.text == "override" {
				w.Settings = append(w.Settings, p.parseOverride())
			} else {
				p.advance()
			}
		}
		if p.tok.kind == tokRBrace {
			p.advance()
		}
	}
	return w
}
