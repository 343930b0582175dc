package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"spinet/internal/observ"
	"spinet/internal/report"
)

var modelsCmd = &cobra.Command{
	Use:   "models [flags] <deck.sp>",
	Short: "Report device model usage across the flattened hierarchy",
	Long: `Models flattens the hierarchy and counts how often each device model is
referenced; black-box instances count under their subcircuit name. With
--find it instead lists the subcircuits whose direct body uses the named
model`,
	Args: cobra.ExactArgs(1),
	RunE: runModels,
}

func init() {
	modelsCmd.Flags().String("find", "", "list subcircuits using this model instead of the usage table")
	registerDeckFlags(modelsCmd)
	registerHierFlags(modelsCmd)
}

func runModels(cmd *cobra.Command, args []string) error {
	find, err := cmd.Flags().GetString("find")
	if err != nil {
		return fmt.Errorf("failed to get find flag: %w", err)
	}

	timer := observ.NewTimer()
	result, manifest, err := loadDeck(cmd, args[0], timer)
	if err != nil {
		return err
	}
	resolver, err := newDeckResolver(cmd, result, manifest)
	if err != nil {
		return err
	}

	if find != "" {
		names := resolver.SubcktsUsingModel(find)
		if len(names) == 0 {
			fmt.Fprintf(os.Stdout, "no subcircuits use model %s\n", find)
			return printTimings(cmd, timer)
		}
		for _, name := range names {
			fmt.Fprintln(os.Stdout, name)
		}
		return printTimings(cmd, timer)
	}

	done := timer.Track("flatten")
	usage, err := resolver.ModelUsage()
	done("")
	if err != nil {
		return fmt.Errorf("flattening failed: %w", err)
	}

	fmt.Fprintln(os.Stdout, "Model usage (flattened):")
	report.WriteModelUsage(os.Stdout, usage)

	if unresolved := resolver.Unresolved(); len(unresolved) > 0 {
		fmt.Fprintln(os.Stderr, "warning: instantiated but never defined, treated as black boxes:")
		for _, name := range unresolved {
			fmt.Fprintf(os.Stderr, "  - %s\n", name)
		}
	}
	return printTimings(cmd, timer)
}
