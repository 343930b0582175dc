package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"spinet/internal/diag"
	"spinet/internal/driver"
	"spinet/internal/observ"
	"spinet/internal/report"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] <deck.sp|directory>",
	Short: "Parse a netlist file or directory and report what it contains",
	Long:  `Parse reads a SPICE/CDL netlist, or every netlist in a directory, checks it for problems, and prints a summary of what it found`,
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("format", "pretty", "output format (pretty|json|short)")
	parseCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	registerDeckFlags(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	deckPath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "json", "short":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}

	st, err := os.Stat(deckPath)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}

	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()

	timer := observ.NewTimer()
	var results []*driver.Result

	if !st.IsDir() {
		opts, _, optErr := parseOptions(cmd, filepath.Dir(deckPath))
		if optErr != nil {
			return optErr
		}
		done := timer.Track("parse")
		result, parseErr := driver.ParseFile(deckPath, opts)
		if parseErr != nil {
			return fmt.Errorf("parsing failed: %w", parseErr)
		}
		done(deckPath)
		results = []*driver.Result{result}
	} else {
		jobs, jobsErr := cmd.Flags().GetInt("jobs")
		if jobsErr != nil {
			return fmt.Errorf("failed to get jobs flag: %w", jobsErr)
		}
		opts, _, optErr := parseOptions(cmd, deckPath)
		if optErr != nil {
			return optErr
		}
		opts.Jobs = jobs

		paths, listErr := collectDecks(deckPath)
		if listErr != nil {
			return listErr
		}
		if len(paths) == 0 {
			return fmt.Errorf("no netlist files found in %s", deckPath)
		}

		done := timer.Track("parse")
		results, err = driver.ParseAll(cmd.Context(), paths, opts)
		if err != nil {
			return fmt.Errorf("parsing failed: %w", err)
		}
		done(fmt.Sprintf("%d files", len(paths)))
	}

	if err := writeParseOutput(cmd, results, format, quiet); err != nil {
		return err
	}
	if err := printTimings(cmd, timer); err != nil {
		return err
	}

	for _, r := range results {
		if r.Bag.HasErrors() {
			return silentExit(cmd)
		}
	}
	return nil
}

// writeParseOutput renders the batch in the selected format: pretty sends
// diagnostics to stderr and summaries to stdout, short and json are
// machine-oriented and go entirely to stdout.
func writeParseOutput(cmd *cobra.Command, results []*driver.Result, format string, quiet bool) error {
	switch format {
	case "pretty":
		for idx, r := range results {
			if err := reportDiagnostics(cmd, r); err != nil {
				return err
			}
			if quiet {
				continue
			}
			if len(results) > 1 {
				if idx > 0 {
					fmt.Fprintln(os.Stdout)
				}
				fmt.Fprintf(os.Stdout, "== %s ==\n", r.Path)
			}
			printParseSummary(os.Stdout, r)
		}
	case "short":
		for _, r := range results {
			r.Bag.Sort()
			if r.FileSet == nil {
				// Load failures carry no source to resolve against.
				for _, d := range r.Bag.Items() {
					fmt.Fprintf(os.Stdout, "error %s %s %s\n", d.Code.ID(), r.Path, d.Message)
				}
				continue
			}
			if output := diag.FormatShort(r.Bag.Items(), r.FileSet, false); output != "" {
				fmt.Fprintln(os.Stdout, output)
			}
		}
	case "json":
		output := make(map[string]parsePayload, len(results))
		for _, r := range results {
			r.Bag.Sort()
			payload := parsePayload{
				Diagnostics: report.BuildDiagnosticsOutput(r.Bag, r.FileSet, report.JSONOpts{
					IncludePositions: true,
					IncludeNotes:     true,
				}),
				FromCache: r.FromCache,
			}
			if r.Circuit != nil {
				circuit := report.BuildCircuitJSON(r.Circuit)
				payload.Circuit = &circuit
			}
			key := r.Path
			if key == "" {
				key = circuitKey(r)
			}
			output[key] = payload
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(output); err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
	}
	return nil
}

type parsePayload struct {
	Circuit     *report.CircuitJSON      `json:"circuit,omitempty"`
	Diagnostics report.DiagnosticsOutput `json:"diagnostics"`
	FromCache   bool                     `json:"from_cache,omitempty"`
}

func circuitKey(r *driver.Result) string {
	if r.Circuit != nil {
		return r.Circuit.Name
	}
	return "<unknown>"
}

func printParseSummary(w io.Writer, r *driver.Result) {
	if r.Circuit == nil {
		fmt.Fprintln(w, "not parsed")
		return
	}
	c := r.Circuit
	fmt.Fprintf(w, "circuit %s: %d components, %d subckts, %d models\n",
		c.Name, len(c.Components), len(c.Subckts), len(c.Models))
	if len(r.IncludePaths) > 0 {
		fmt.Fprintf(w, "includes resolved: %d\n", len(r.IncludePaths))
	}
	if r.FromCache {
		fmt.Fprintln(w, "restored from cache")
	}
}
