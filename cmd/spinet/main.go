package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"spinet/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "spinet",
	Short: "SPICE/CDL netlist parser and hierarchy analyzer",
	Long:  `Spinet parses SPICE and CDL netlists and reports on their components and subcircuit hierarchy`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(flattenCmd)
	rootCmd.AddCommand(transistorsCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(topcellsCmd)
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Bool("verbose", false, "log pipeline details to stderr")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().String("config", "", "explicit spinet.toml path (default: walk up from the deck)")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to this file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to this file on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a runtime trace to this file")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
