package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"spinet/internal/diag"
	"spinet/internal/source"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
)

// Pretty renders diagnostics in a human-readable form, one block per
// diagnostic. Walks bag.Items() in order (call bag.Sort() beforehand for
// stable output). Each block prints
//
//	<path>:<line>:<col>: <SEVERITY> [<CODE>]: <message>
//
// followed by the flagged source line with a ^~~~ underline and, with
// ShowNotes, the attached notes. Diagnostics without a location (driver
// warnings about include files) print the header line only.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, &d, fs, opts)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	sev := paint(severityPainter(d.Severity), opts.Color, d.Severity.String())
	code := paint(severityPainter(d.Severity), opts.Color, "["+d.Code.ID()+"]")

	if d.Primary == (source.Span{}) {
		fmt.Fprintf(w, "%s %s: %s\n", sev, code, d.Message)
		printNotes(w, d, fs, opts)
		return
	}

	file := fs.Get(d.Primary.File)
	start, end := fs.Resolve(d.Primary)
	path := formatPath(file, opts.PathMode)

	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n", path, start.Line, start.Col, sev, code, d.Message)
	printSnippet(w, file, start, end, d.Severity, opts)
	printNotes(w, d, fs, opts)
}

// printSnippet shows up to Context lines above the flagged line, the line
// itself, and an underline covering the span. Spans that continue onto
// later lines are underlined to the end of the first line.
func printSnippet(w io.Writer, file *source.File, start, end source.LineCol, sev diag.Severity, opts PrettyOpts) {
	lineText := file.GetLine(start.Line)

	gutter := len(strconv.Itoa(int(start.Line)))
	first := start.Line
	if ctx := uint32(max(opts.Context, 0)); ctx < first {
		first = start.Line - ctx
	} else {
		first = 1
	}
	for ln := first; ln < start.Line; ln++ {
		fmt.Fprintf(w, "%*d | %s\n", gutter, ln, file.GetLine(ln))
	}
	fmt.Fprintf(w, "%*d | %s\n", gutter, start.Line, lineText)

	width := 1
	switch {
	case end.Line == start.Line && end.Col > start.Col:
		width = int(end.Col - start.Col)
	case end.Line > start.Line:
		width = len(lineText) - int(start.Col) + 1
	}
	if width < 1 {
		width = 1
	}
	underline := paint(severityPainter(sev), opts.Color, "^"+strings.Repeat("~", width-1))
	fmt.Fprintf(w, "%s | %s%s\n", strings.Repeat(" ", gutter), caretPad(lineText, start.Col), underline)
}

// caretPad builds the whitespace that positions the underline. Tabs in the
// source line are kept so the caret stays aligned with tabbed content.
func caretPad(lineText string, col uint32) string {
	var b strings.Builder
	for i, r := range lineText {
		if uint32(i) >= col-1 {
			break
		}
		if r == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

func printNotes(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	if !opts.ShowNotes {
		return
	}
	for _, note := range d.Notes {
		if note.Span == (source.Span{}) {
			fmt.Fprintf(w, "  note: %s\n", note.Msg)
			continue
		}
		nfile := fs.Get(note.Span.File)
		nstart, _ := fs.Resolve(note.Span)
		fmt.Fprintf(w, "  note: %s:%d:%d: %s\n",
			formatPath(nfile, opts.PathMode), nstart.Line, nstart.Col, note.Msg)
	}
}

func severityPainter(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return errorColor
	case diag.SevWarning:
		return warningColor
	default:
		return infoColor
	}
}

func paint(c *color.Color, enabled bool, s string) string {
	if !enabled {
		return s
	}
	return c.Sprint(s)
}

func formatPath(f *source.File, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		return f.FormatPath("relative", "")
	case PathModeBasename:
		return f.FormatPath("basename", "")
	default:
		return f.FormatPath("auto", "")
	}
}
