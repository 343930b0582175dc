package diag

import (
	"fmt"
)

type Code uint16

const (
	// UnknownCode is the fallback for diagnostics without a classification.
	UnknownCode Code = 0

	// Logical-line and token level (1000-1999)
	LexInfo              Code = 1000
	LexUnterminatedQuote Code = 1001 // quoted expression still open at end of line

	// Statement (card) level (2000-2999)
	SynInfo               Code = 2000
	SynMalformedDevice    Code = 2001 // too few tokens for the device type
	SynUnknownCard        Code = 2002 // first letter outside the recognized set
	SynSubcktMissingName  Code = 2003 // .SUBCKT header without a name
	SynMalformedDirective Code = 2004 // directive missing its operands
	SynUnclosedSubckt     Code = 2005 // EOF with a .SUBCKT still open
	SynDuplicateSubckt    Code = 2006 // redefinition; the later one wins

	// Hierarchy resolution (3000-3999)
	ResInfo             Code = 3000
	ResUnresolvedSubckt Code = 3001 // X instance references an undefined subckt
	ResDepthExceeded    Code = 3002 // expansion deeper than the configured limit

	// File handling (4000-4999)
	IOLoadFileError   Code = 4001
	IOIncludeNotFound Code = 4002 // .INCLUDE/.LIB target unreadable
	IOIncludeCycle    Code = 4003 // include chain revisits a file
)

var codeDescription = map[Code]string{
	UnknownCode: "Unknown diagnostic",

	LexInfo:              "Lexical information",
	LexUnterminatedQuote: "Unterminated quoted expression",

	SynInfo:               "Statement information",
	SynMalformedDevice:    "Malformed device line",
	SynUnknownCard:        "Unrecognized card",
	SynSubcktMissingName:  ".SUBCKT requires a name",
	SynMalformedDirective: "Malformed directive",
	SynUnclosedSubckt:     ".SUBCKT not closed by .ENDS",
	SynDuplicateSubckt:    "Subcircuit redefined",

	ResInfo:             "Resolution information",
	ResUnresolvedSubckt: "Reference to undefined subcircuit",
	ResDepthExceeded:    "Hierarchy expansion depth exceeded",

	IOLoadFileError:   "I/O load file error",
	IOIncludeNotFound: "Included file not found",
	IOIncludeCycle:    "Include cycle detected",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("RES%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
