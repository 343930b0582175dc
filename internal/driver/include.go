package driver

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"spinet/internal/diag"
	"spinet/internal/netlist"
	"spinet/internal/source"
	"spinet/internal/spice"
)

// includeResolver walks .INCLUDE/.LIB references depth-first, merging the
// definition tables of every readable target into the root circuit. One
// resolver serves one ParseFile call; the visited set spans the whole walk
// so mutual inclusion terminates.
type includeResolver struct {
	fs      *source.FileSet
	bag     *diag.Bag
	opts    Options
	visited map[string]struct{}
	stamps  []IncludeStamp
}

func newIncludeResolver(fs *source.FileSet, bag *diag.Bag, opts Options) *includeResolver {
	return &includeResolver{
		fs:      fs,
		bag:     bag,
		opts:    opts,
		visited: make(map[string]struct{}),
	}
}

// expand resolves the recorded include strings of one file. baseDir anchors
// relative targets; fromPath only labels diagnostics.
func (ir *includeResolver) expand(root *netlist.Circuit, includes []string, baseDir, fromPath string) {
	ir.visited[absPath(fromPath)] = struct{}{}

	for _, raw := range includes {
		target := includeTarget(raw)
		if target == "" {
			continue
		}

		resolved, found := ir.locate(target, baseDir)
		if !found {
			ir.warn(diag.IOIncludeNotFound,
				fmt.Sprintf("include %q referenced from %s: file not found", target, fromPath))
			continue
		}
		abs := absPath(resolved)
		if _, seen := ir.visited[abs]; seen {
			ir.warn(diag.IOIncludeCycle,
				fmt.Sprintf("include %q referenced from %s: already processed, skipping to break the cycle", target, fromPath))
			continue
		}
		ir.visited[abs] = struct{}{}

		id, err := ir.fs.Load(resolved)
		if err != nil {
			ir.warn(diag.IOIncludeNotFound,
				fmt.Sprintf("include %q referenced from %s: %v", target, fromPath, err))
			continue
		}
		file := ir.fs.Get(id)
		ir.stamps = append(ir.stamps, IncludeStamp{Path: abs, Hash: file.Hash})

		sub := spice.Parse(file, circuitName(resolved), spice.Options{
			Reporter: &diag.BagReporter{Bag: ir.bag},
		})
		ir.opts.logger().Debug("include resolved",
			"path", abs,
			"from", fromPath,
			"subckts", len(sub.Subckts),
			"models", len(sub.Models))

		// Later definitions win, so a library can override deck-local
		// defaults. Top-level components of an included file are not
		// merged: libraries define templates, not instances.
		maps.Copy(root.Subckts, sub.Subckts)
		maps.Copy(root.Models, sub.Models)
		maps.Copy(root.Params, sub.Params)

		ir.expand(root, sub.Includes, filepath.Dir(resolved), resolved)
	}
}

// locate searches for target relative to the including file, then through
// each configured include directory. Absolute targets are taken as-is.
func (ir *includeResolver) locate(target, baseDir string) (string, bool) {
	if filepath.IsAbs(target) {
		return target, fileExists(target)
	}
	candidates := make([]string, 0, 1+len(ir.opts.IncludeDirs))
	candidates = append(candidates, filepath.Join(baseDir, target))
	for _, dir := range ir.opts.IncludeDirs {
		candidates = append(candidates, filepath.Join(dir, target))
	}
	for _, candidate := range candidates {
		if fileExists(candidate) {
			return candidate, true
		}
	}
	return "", false
}

func (ir *includeResolver) warn(code diag.Code, msg string) {
	ir.bag.Add(diag.Diagnostic{
		Severity: diag.SevWarning,
		Code:     code,
		Message:  msg,
	})
}

// includeTarget extracts the path from a recorded include string: the first
// token, unquoted. A .LIB card's trailing section name is dropped.
func includeTarget(raw string) string {
	fields := spice.Fields(raw)
	if len(fields) == 0 {
		return ""
	}
	return strings.Trim(fields[0], "'\"")
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
