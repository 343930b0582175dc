package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"spinet/internal/observ"
	"spinet/internal/report"
)

var statsCmd = &cobra.Command{
	Use:   "stats [flags] <deck.sp>",
	Short: "Report component counts at the top level and across the hierarchy",
	Long:  `Stats classifies every component and prints two tables: the deck's own top level as written, and the totals after flattening the subcircuit hierarchy`,
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	registerDeckFlags(statsCmd)
	registerHierFlags(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	timer := observ.NewTimer()
	result, manifest, err := loadDeck(cmd, args[0], timer)
	if err != nil {
		return err
	}
	resolver, err := newDeckResolver(cmd, result, manifest)
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, "Component statistics (top level):")
	report.WriteStats(os.Stdout, resolver.Stats())

	done := timer.Track("flatten")
	hierStats, err := resolver.HierarchicalStats()
	done("")
	if err != nil {
		return fmt.Errorf("flattening failed: %w", err)
	}

	fmt.Fprintln(os.Stdout)
	fmt.Fprintln(os.Stdout, "Component statistics (hierarchical):")
	report.WriteStats(os.Stdout, hierStats)

	return printTimings(cmd, timer)
}
