package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go-ly-musicxml/internal/diag"
)

func TestConvertAndWriteProducesMusicXML(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		want    []string
		midi    bool
		wantErr bool
	}{
		{
			name: "simple melody",
			src:  "\\relative c' { c4 d4 e4 f4 }",
			want: []string{"<score-partwise", "<pitch>", "</score-partwise>"},
		},
		{
			name: "with midi preview",
			src:  "{ c4 d4 e4 f4 }",
			want: []string{"<score-partwise"},
			midi: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			outPath := filepath.Join(dir, "out.xml")
			midiPath := ""
			if tt.midi {
				midiPath = filepath.Join(dir, "out.mid")
			}

			sink := diag.NewSink()
			err := convertAndWrite(tt.src, outPath, midiPath, 120, sink)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected an error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("convertAndWrite error: %v", err)
			}

			got, err := os.ReadFile(outPath)
			if err != nil {
				t.Fatalf("reading output: %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(string(got), want) {
					t.Errorf("output missing %q", want)
				}
			}

			if tt.midi {
				if _, err := os.Stat(midiPath); err != nil {
					t.Errorf("expected midi file at %s: %v", midiPath, err)
				}
			}
		})
	}
}
