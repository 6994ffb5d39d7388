package walk

import (
	"go-ly-musicxml/internal/lyast"
	"go-ly-musicxml/internal/score"
)

// lyricToken is one syllable (or skip placeholder) collected from a
// lyric block, with its hyphenation-derived syllabic value already
// resolved.
type lyricToken struct {
	text     string
	syllabic string
	extend   bool
	skip     bool
}

func (w *Walker) walkLyricsTo(n *lyast.LyricsTo) {
	part := w.eng.CurrentPart()
	if part == nil {
		w.warnf("\\lyricsto/\\addlyrics with no current part at line %d", n.Line())
		return
	}
	tokens := collectLyricTokens(n.Music)
	mergeLyrics(part, n.VoiceName, w.lyricStanza, tokens)
	w.lyricStanza++
}

// collectLyricTokens flattens a lyric MusicList into an ordered token
// stream, resolving each token's syllabic transition from whether it
// and its predecessor carried a trailing hyphen.
func collectLyricTokens(n lyast.Node) []lyricToken {
	var raw []lyast.Node
	flattenLyricNodes(n, &raw)

	tokens := make([]lyricToken, 0, len(raw))
	prevHyphenated := false
	for _, item := range raw {
		switch v := item.(type) {
		case *lyast.LyricText:
			var syl string
			switch {
			case !prevHyphenated && v.Hyphenated:
				syl = "begin"
			case prevHyphenated && v.Hyphenated:
				syl = "middle"
			case prevHyphenated && !v.Hyphenated:
				syl = "end"
			default:
				syl = "single"
			}
			tokens = append(tokens, lyricToken{text: v.Text, syllabic: syl, extend: v.Extend})
			prevHyphenated = v.Hyphenated
		case *lyast.LyricItem:
			tokens = append(tokens, lyricToken{skip: true})
			prevHyphenated = false
		}
	}
	return tokens
}

func flattenLyricNodes(n lyast.Node, out *[]lyast.Node) {
	if n == nil {
		return
	}
	if list, ok := n.(*lyast.MusicList); ok {
		for _, item := range list.Items {
			flattenLyricNodes(item, out)
		}
		return
	}
	*out = append(*out, n)
}

// mergeLyrics assigns tokens, in order, to the non-chord, non-tie-
// continuation notes of voiceName within part, skipping (but still
// consuming a slot for) skip placeholders.
func mergeLyrics(part *score.Part, voiceName string, stanza int, tokens []lyricToken) {
	ti := 0
	for _, bar := range part.Barlist {
		for _, obj := range bar.ObjList {
			if ti >= len(tokens) {
				return
			}
			note, ok := obj.(*score.BarNote)
			if !ok || note.Chord {
				continue
			}
			if voiceName != "" && note.VoiceName != voiceName {
				continue
			}
			if isTiedContinuation(note) {
				continue
			}
			tok := tokens[ti]
			ti++
			if tok.skip {
				continue
			}
			note.Lyrics = append(note.Lyrics, score.LyricRef{
				Stanza:   stanza,
				Text:     tok.text,
				Syllabic: tok.syllabic,
				Extend:   tok.extend,
			})
		}
	}
}

func isTiedContinuation(note *score.BarNote) bool {
	for _, t := range note.Ties {
		if t.Type == "stop" {
			return true
		}
	}
	return false
}
