package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"spinet/internal/observ"
	"spinet/internal/report"
)

var flattenCmd = &cobra.Command{
	Use:   "flatten [flags] <deck.sp>",
	Short: "Expand the hierarchy and list every resulting component",
	Long:  `Flatten expands every subcircuit instance down to primitives and opaque leaves, then lists the resulting components with instance-path names and rewritten nets`,
	Args:  cobra.ExactArgs(1),
	RunE:  runFlatten,
}

func init() {
	registerDeckFlags(flattenCmd)
	registerHierFlags(flattenCmd)
}

func runFlatten(cmd *cobra.Command, args []string) error {
	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()

	timer := observ.NewTimer()
	result, manifest, err := loadDeck(cmd, args[0], timer)
	if err != nil {
		return err
	}
	resolver, err := newDeckResolver(cmd, result, manifest)
	if err != nil {
		return err
	}

	done := timer.Track("flatten")
	flat, err := resolver.Flatten()
	if err != nil {
		return fmt.Errorf("flattening failed: %w", err)
	}
	done(fmt.Sprintf("%d components", len(flat.Components)))

	report.WriteComponents(os.Stdout, flat.Components)
	return printTimings(cmd, timer)
}
