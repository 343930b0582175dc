package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"spinet/internal/driver"
	"spinet/internal/hier"
	"spinet/internal/observ"
	"spinet/internal/project"
	"spinet/internal/report"
)

// deckExtensions are the suffixes treated as netlists in directory mode.
var deckExtensions = map[string]bool{
	".sp":  true,
	".cir": true,
	".cdl": true,
	".net": true,
}

// registerDeckFlags adds the flags every deck-reading command shares.
func registerDeckFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("skip-includes", false, "record .include/.lib directives without reading them")
	cmd.Flags().StringArrayP("include-dir", "I", nil, "extra directory to search for include files (repeatable)")
	cmd.Flags().Bool("no-cache", false, "bypass the parsed-circuit disk cache")
}

// registerHierFlags adds the flags hierarchy-walking commands share.
func registerHierFlags(cmd *cobra.Command) {
	cmd.Flags().String("top-cell", "", "subcircuit to use as the hierarchy root")
	cmd.Flags().Int("max-depth", 0, "instance nesting bound (0=default)")
}

// loadManifest finds the project manifest for a deck anchored at anchorDir,
// honoring an explicit --config path. No manifest is not an error.
func loadManifest(cmd *cobra.Command, anchorDir string) (*project.Manifest, error) {
	configPath, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	if configPath != "" {
		return project.LoadFile(configPath)
	}
	manifest, _, err := project.Load(anchorDir)
	return manifest, err
}

// parseOptions assembles driver options from the command's flags and the
// project manifest nearest to anchorDir. Flag values win over the manifest;
// flag include dirs are searched before manifest ones.
func parseOptions(cmd *cobra.Command, anchorDir string) (driver.Options, *project.Manifest, error) {
	var opts driver.Options

	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return opts, nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	opts.MaxDiagnostics = maxDiagnostics

	verbose, err := cmd.Root().PersistentFlags().GetBool("verbose")
	if err != nil {
		return opts, nil, fmt.Errorf("failed to get verbose flag: %w", err)
	}
	if verbose {
		opts.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}

	skipIncludes, err := cmd.Flags().GetBool("skip-includes")
	if err != nil {
		return opts, nil, fmt.Errorf("failed to get skip-includes flag: %w", err)
	}
	opts.SkipIncludes = skipIncludes

	includeDirs, err := cmd.Flags().GetStringArray("include-dir")
	if err != nil {
		return opts, nil, fmt.Errorf("failed to get include-dir flag: %w", err)
	}

	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return opts, nil, fmt.Errorf("failed to get no-cache flag: %w", err)
	}

	manifest, err := loadManifest(cmd, anchorDir)
	if err != nil {
		return opts, nil, err
	}
	opts.IncludeDirs = append(includeDirs, manifest.IncludePaths()...)

	if !noCache && (manifest == nil || manifest.Config.Cache.Enabled) {
		// An unusable cache directory downgrades to plain parsing.
		if cache, cacheErr := openDeckCache(manifest); cacheErr == nil {
			opts.Cache = cache
		} else if verbose {
			opts.Logger.Debug("cache unavailable", "error", cacheErr)
		}
	}
	return opts, manifest, nil
}

// openDeckCache opens the manifest's cache directory, or the user-level
// location when the manifest does not name one.
func openDeckCache(manifest *project.Manifest) (*driver.Cache, error) {
	if dir := manifest.CacheDir(); dir != "" {
		return driver.OpenCacheAt(dir)
	}
	return driver.OpenCache("spinet")
}

// hierOptions assembles resolver options, flags overriding the manifest.
func hierOptions(cmd *cobra.Command, manifest *project.Manifest) (hier.Options, error) {
	var opts hier.Options

	topCell, err := cmd.Flags().GetString("top-cell")
	if err != nil {
		return opts, fmt.Errorf("failed to get top-cell flag: %w", err)
	}
	maxDepth, err := cmd.Flags().GetInt("max-depth")
	if err != nil {
		return opts, fmt.Errorf("failed to get max-depth flag: %w", err)
	}

	opts.TopCell = topCell
	opts.MaxDepth = maxDepth
	if manifest != nil {
		if opts.TopCell == "" {
			opts.TopCell = manifest.Config.Netlist.TopCell
		}
		if opts.MaxDepth <= 0 {
			opts.MaxDepth = manifest.Config.Netlist.MaxDepth
		}
	}
	return opts, nil
}

// newDeckResolver builds a hierarchy resolver over a parsed result, flags
// and manifest supplying the root override and depth bound.
func newDeckResolver(cmd *cobra.Command, res *driver.Result, manifest *project.Manifest) (*hier.Resolver, error) {
	opts, err := hierOptions(cmd, manifest)
	if err != nil {
		return nil, err
	}
	return hier.New(res.Circuit, opts)
}

// stderrColor resolves the --color flag against the stderr terminal.
func stderrColor(cmd *cobra.Command) (bool, error) {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	return colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stderr)), nil
}

// reportDiagnostics pretty-prints a result's bag to stderr, sorted.
func reportDiagnostics(cmd *cobra.Command, res *driver.Result) error {
	if res.Bag == nil || res.Bag.Len() == 0 {
		return nil
	}
	useColor, err := stderrColor(cmd)
	if err != nil {
		return err
	}
	res.Bag.Sort()
	report.Pretty(os.Stderr, res.Bag, res.FileSet, report.PrettyOpts{
		Color:     useColor,
		Context:   2,
		ShowNotes: true,
	})
	return nil
}

// loadDeck parses one netlist with the shared deck flags applied and
// reports its diagnostics to stderr. Parse problems inside the deck do not
// abort the command; only an unreadable root file does.
func loadDeck(cmd *cobra.Command, path string, timer *observ.Timer) (*driver.Result, *project.Manifest, error) {
	opts, manifest, err := parseOptions(cmd, filepath.Dir(path))
	if err != nil {
		return nil, nil, err
	}

	done := timer.Track("parse")
	result, err := driver.ParseFile(path, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing failed: %w", err)
	}
	done(path)

	if err := reportDiagnostics(cmd, result); err != nil {
		return nil, nil, err
	}
	return result, manifest, nil
}

// printTimings writes the phase summary to stderr when --timings is set.
func printTimings(cmd *cobra.Command, timer *observ.Timer) error {
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	if showTimings {
		fmt.Fprint(os.Stderr, timer.Summary())
	}
	return nil
}

// collectDecks lists the netlist files directly under dir, sorted.
func collectDecks(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if deckExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// silentExit suppresses cobra's usage and error output; the diagnostics
// already carried the details.
func silentExit(cmd *cobra.Command) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return fmt.Errorf("")
}
