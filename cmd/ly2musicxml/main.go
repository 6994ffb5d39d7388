// Command ly2musicxml converts a LilyPond source file into a
// MusicXML (score-partwise, v3.0) document, optionally rendering a
// MIDI preview alongside it and a live terminal progress view while
// it runs. Its parameter set scales the teacher's interactive
// stdin-prompt driver (cmd/main.go's getIntegerInput/getModeInput) up
// to non-interactive flags, since this tool runs over files rather
// than a single guided session.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go-ly-musicxml/internal/diag"
	"go-ly-musicxml/internal/engine"
	"go-ly-musicxml/internal/lyparse"
	"go-ly-musicxml/internal/midiexport"
	"go-ly-musicxml/internal/musicxml"
	"go-ly-musicxml/internal/tui"
	"go-ly-musicxml/internal/walk"
)

const encodingSoftware = "ly2musicxml"

func main() {
	var (
		outPath  = flag.String("o", "", "output MusicXML path (default: input name with .xml extension)")
		midiPath = flag.String("midi", "", "also render a MIDI preview to this path")
		bpm      = flag.Float64("bpm", 120, "tempo in quarter notes per minute for --midi")
		useTUI   = flag.Bool("tui", false, "show a live terminal progress view while converting")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] input.ly\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	inPath := flag.Arg(0)

	if *outPath == "" {
		*outPath = strings.TrimSuffix(inPath, filepath.Ext(inPath)) + ".xml"
	}

	src, err := os.ReadFile(inPath)
	if err != nil {
		log.Fatalf("reading %s: %v", inPath, err)
	}

	sink := diag.NewSink()
	convert := func() error {
		return convertAndWrite(string(src), *outPath, *midiPath, *bpm, sink)
	}

	if *useTUI {
		if err := tui.Run(sink, convert); err != nil {
			log.Fatalf("conversion failed: %v", err)
		}
	} else {
		if err := convert(); err != nil {
			log.Fatalf("conversion failed: %v", err)
		}
	}

	reportDiagnostics(sink)
	fmt.Printf("wrote %s\n", *outPath)
	if *midiPath != "" {
		fmt.Printf("wrote %s\n", *midiPath)
	}
}

// convertAndWrite runs the full parse -> walk -> emit pipeline and
// writes the MusicXML (and optional MIDI) output files.
func convertAndWrite(src, outPath, midiPath string, bpm float64, sink *diag.Sink) error {
	p := lyparse.New(src, sink)
	doc := p.Parse()

	eng := engine.New(sink)
	walk.Walk(doc, eng, sink)

	xmlDoc, err := musicxml.Generate(eng.Score, musicxml.Options{
		Software:     encodingSoftware,
		EncodingDate: time.Now().Format("2006-01-02"),
	})
	if err != nil {
		return fmt.Errorf("generating musicxml: %w", err)
	}
	if err := os.WriteFile(outPath, []byte(xmlDoc), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}

	if midiPath != "" {
		if err := midiexport.Export(eng.Score, midiPath, bpm); err != nil {
			return fmt.Errorf("rendering midi preview: %w", err)
		}
	}
	return nil
}

// reportDiagnostics prints every recorded diagnostic to stderr,
// matching the distilled spec's "warn and continue" taxonomy (§9):
// no diagnostic aborts the run, but every one is surfaced to the user.
func reportDiagnostics(sink *diag.Sink) {
	for _, d := range sink.All() {
		fmt.Fprintln(os.Stderr, d.String())
	}
	if n := sink.Count(diag.Warning); n > 0 {
		fmt.Fprintf(os.Stderr, "%d warning(s)\n", n)
	}
	if n := sink.Count(diag.Error); n > 0 {
		fmt.Fprintf(os.Stderr, "%d structural inconsistency(ies)\n", n)
	}
}
