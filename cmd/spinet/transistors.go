package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"spinet/internal/observ"
)

var transistorsCmd = &cobra.Command{
	Use:   "transistors [flags] <deck.sp>",
	Short: "Count transistors across the flattened hierarchy",
	Long:  `Transistors flattens the hierarchy and totals the Mosfet and Bjt devices, including black-box instances classified as such by name`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTransistors,
}

func init() {
	registerDeckFlags(transistorsCmd)
	registerHierFlags(transistorsCmd)
}

func runTransistors(cmd *cobra.Command, args []string) error {
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
	count, err := resolver.TransistorCount()
	done("")
	if err != nil {
		return fmt.Errorf("flattening failed: %w", err)
	}

	fmt.Fprintf(os.Stdout, "total transistors (flattened): %d\n", count)
	return printTimings(cmd, timer)
}
