package spice

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"

	"fortio.org/safecast"

	"spinet/internal/source"
)

// LogicalLine is one statement after continuation merging: the text of the
// joined card, the 1-based physical line it started on, and a span covering
// every physical line that contributed to it.
type LogicalLine struct {
	Line uint32
	Text string
	Span source.Span
}

// LineScanner streams logical lines from a netlist file. The sequence is
// finite and not restartable; create a new scanner to read again.
type LineScanner struct {
	file  *source.File
	off   uint32
	limit uint32
	line  uint32 // 1-based number of the next physical line

	buf     string
	bufLine uint32
	bufSpan source.Span
}

func NewLineScanner(file *source.File) *LineScanner {
	limit, err := safecast.Conv[uint32](len(file.Content))
	if err != nil {
		panic(fmt.Errorf("file content overflow: %w", err))
	}
	return &LineScanner{
		file:  file,
		off:   0,
		limit: limit,
		line:  1,
	}
}

// Next returns the next logical line. The second result is false once the
// input is exhausted.
func (s *LineScanner) Next() (LogicalLine, bool) {
	for s.off < s.limit {
		startOff := s.off
		lineNo := s.line
		raw := s.readPhysical()

		text, lead, ok := cleanLine(raw)
		if !ok {
			// Comment and blank lines are transparent: they do not
			// flush the buffer, so a continuation may follow them.
			continue
		}
		sp := source.Span{
			File:  s.file.ID,
			Start: startOff + uint32(lead),
			End:   startOff + uint32(lead+len(text)),
		}

		if text[0] == '+' {
			cont := strings.TrimSpace(text[1:])
			if s.buf != "" {
				s.buf += " " + cont
				s.bufSpan = s.bufSpan.Cover(sp)
			} else {
				// Leading + with nothing buffered starts a fresh
				// logical line rather than erroring.
				s.buf, s.bufLine, s.bufSpan = cont, lineNo, sp
			}
			continue
		}

		if s.buf != "" {
			out := LogicalLine{Line: s.bufLine, Text: s.buf, Span: s.bufSpan}
			s.buf, s.bufLine, s.bufSpan = text, lineNo, sp
			return out, true
		}
		s.buf, s.bufLine, s.bufSpan = text, lineNo, sp
	}

	if s.buf != "" {
		out := LogicalLine{Line: s.bufLine, Text: s.buf, Span: s.bufSpan}
		s.buf = ""
		return out, true
	}
	return LogicalLine{}, false
}

// readPhysical returns the next physical line without its newline and
// advances the cursor.
func (s *LineScanner) readPhysical() string {
	content := s.file.Content
	idx := bytes.IndexByte(content[s.off:s.limit], '\n')
	var raw []byte
	if idx < 0 {
		raw = content[s.off:s.limit]
		s.off = s.limit
	} else {
		end := s.off + uint32(idx)
		raw = content[s.off:end]
		s.off = end + 1
	}
	s.line++
	return string(raw)
}

// cleanLine strips surrounding whitespace and comments. It returns the
// cleaned text, the byte offset of that text within raw, and false when
// nothing remains. The cleaned text is always a contiguous slice of raw,
// which keeps span arithmetic exact.
func cleanLine(raw string) (text string, lead int, ok bool) {
	lt := strings.TrimLeftFunc(raw, unicode.IsSpace)
	lead = len(raw) - len(lt)
	t := strings.TrimRightFunc(lt, unicode.IsSpace)
	if t == "" {
		return "", 0, false
	}
	if t[0] == '*' {
		return "", 0, false
	}
	// The $ cut happens before tokenization, so a $ inside a quoted
	// expression is cut too. Comment-coded parameters after $ are
	// discarded; connectivity does not depend on them.
	if k := strings.IndexByte(t, '$'); k >= 0 {
		t = strings.TrimRightFunc(t[:k], unicode.IsSpace)
		if t == "" {
			return "", 0, false
		}
	}
	return t, lead, true
}
