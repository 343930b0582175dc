package report

import (
	"bytes"
	"strings"
	"testing"

	"spinet/internal/diag"
	"spinet/internal/source"
)

// Offsets into testDeck: line 2 ("M1 d g") spans bytes 12..18,
// line 3 ("R1 1 2 1k") spans bytes 19..28.
const testDeck = "V1 in 0 1.8\nM1 d g\nR1 1 2 1k\n"

func deckBag(t *testing.T, path string, span source.Span, sev diag.Severity, code diag.Code, msg string) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual(path, []byte(testDeck))
	span.File = id

	bag := diag.NewBag(10)
	bag.Add(diag.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Primary:  span,
	})
	return bag, fs
}

func TestPretty_HeaderAndCaret(t *testing.T) {
	bag, fs := deckBag(t, "deck.sp",
		source.Span{Start: 12, End: 18},
		diag.SevError, diag.SynMalformedDevice,
		"line 2: malformed mosfet statement: M1 d g")

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})
	output := buf.String()

	if !strings.Contains(output, "deck.sp:2:1: ERROR [SYN2001]: line 2: malformed mosfet statement: M1 d g") {
		t.Errorf("Expected header line, got:\n%s", output)
	}
	if !strings.Contains(output, "2 | M1 d g") {
		t.Errorf("Expected the flagged source line, got:\n%s", output)
	}
	if !strings.Contains(output, "| ^~~~~~") {
		t.Errorf("Expected the underline to cover the statement, got:\n%s", output)
	}
}

func TestPretty_ContextLines(t *testing.T) {
	bag, fs := deckBag(t, "deck.sp",
		source.Span{Start: 19, End: 28},
		diag.SevWarning, diag.LexUnterminatedQuote,
		"line 3: unterminated quoted expression")

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 2, PathMode: PathModeBasename})
	output := buf.String()

	for _, want := range []string{"1 | V1 in 0 1.8", "2 | M1 d g", "3 | R1 1 2 1k"} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected context line %q, got:\n%s", want, output)
		}
	}
	if !strings.Contains(output, "^~~~~~~~~") {
		t.Errorf("Expected a 9-wide underline, got:\n%s", output)
	}
}

func TestPretty_PathModes(t *testing.T) {
	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"Absolute path", PathModeAbsolute, "/home/eda/chip/cells/ring.sp"},
		{"Basename only", PathModeBasename, "ring.sp:2:1"},
		{"Relative path", PathModeRelative, "ring.sp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bag, fs := deckBag(t, "/home/eda/chip/cells/ring.sp",
				source.Span{Start: 12, End: 18},
				diag.SevError, diag.SynMalformedDevice, "malformed")

			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode})

			if !strings.Contains(buf.String(), tt.contains) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.contains, buf.String())
			}
		})
	}
}

func TestPretty_Notes(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("deck.sp", []byte(testDeck))

	bag := diag.NewBag(10)
	bag.Add(diag.Diagnostic{
		Severity: diag.SevInfo,
		Code:     diag.SynDuplicateSubckt,
		Message:  "subckt inv redefined",
		Primary:  source.Span{File: id, Start: 12, End: 18},
		Notes: []diag.Note{
			{Span: source.Span{File: id, Start: 0, End: 11}, Msg: "first defined here"},
			{Msg: "later definition wins"},
		},
	})

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, ShowNotes: true})
	output := buf.String()

	if !strings.Contains(output, "note: deck.sp:1:1: first defined here") {
		t.Errorf("Expected the located note, got:\n%s", output)
	}
	if !strings.Contains(output, "note: later definition wins") {
		t.Errorf("Expected the bare note, got:\n%s", output)
	}
}

func TestPretty_NoLocation(t *testing.T) {
	fs := source.NewFileSet()
	fs.AddVirtual("deck.sp", []byte(testDeck))

	bag := diag.NewBag(10)
	bag.Add(diag.Diagnostic{
		Severity: diag.SevWarning,
		Code:     diag.IOIncludeNotFound,
		Message:  `include "absent.lib": file not found`,
	})

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})
	output := buf.String()

	if !strings.Contains(output, `WARNING [IO4002]: include "absent.lib": file not found`) {
		t.Errorf("Expected the header without a location, got:\n%s", output)
	}
	if strings.Contains(output, " | ") {
		t.Errorf("Expected no snippet for a synthetic diagnostic, got:\n%s", output)
	}
}

func TestPretty_BlocksSeparated(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("deck.sp", []byte(testDeck))

	bag := diag.NewBag(10)
	bag.Add(diag.Diagnostic{
		Severity: diag.SevError, Code: diag.SynMalformedDevice,
		Message: "first", Primary: source.Span{File: id, Start: 12, End: 18},
	})
	bag.Add(diag.Diagnostic{
		Severity: diag.SevWarning, Code: diag.SynUnknownCard,
		Message: "second", Primary: source.Span{File: id, Start: 19, End: 28},
	})

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})

	if !strings.Contains(buf.String(), "\n\ndeck.sp:3:1:") {
		t.Errorf("Expected a blank line between blocks, got:\n%s", buf.String())
	}
}
