package report

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto chooses between the stored path and its basename
	// depending on length.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color bool
	// Context is how many source lines to show above the flagged line.
	Context   int8
	PathMode  PathMode
	ShowNotes bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // add line/col to every location
	PathMode         PathMode
	Max              int // truncates the output, not the Bag
	IncludeNotes     bool
}
