package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"spinet/internal/hier"
	"spinet/internal/observ"
)

var topcellsCmd = &cobra.Command{
	Use:   "topcells [flags] <deck.sp>",
	Short: "List subcircuits that nothing else instantiates",
	Long:  `Topcells lists the defined subcircuits no other subcircuit body instantiates, the candidate roots of the design`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTopCells,
}

func init() {
	registerDeckFlags(topcellsCmd)
}

func runTopCells(cmd *cobra.Command, args []string) error {
	timer := observ.NewTimer()
	result, _, err := loadDeck(cmd, args[0], timer)
	if err != nil {
		return err
	}

	roots := hier.TopCells(result.Circuit)
	if len(roots) == 0 {
		fmt.Fprintln(os.Stdout, "no subcircuits found (flat design)")
		return printTimings(cmd, timer)
	}
	for _, name := range roots {
		fmt.Fprintln(os.Stdout, name)
	}
	return printTimings(cmd, timer)
}
