package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"spinet/internal/hier"
	"spinet/internal/observ"
	"spinet/internal/report"
	"spinet/internal/ui"
)

var treeCmd = &cobra.Command{
	Use:   "tree [flags] <deck.sp>",
	Short: "Print the subcircuit instance hierarchy",
	Long:  `Tree prints the design's instance hierarchy as an ASCII tree, subcircuit instances only. With --interactive it opens a browsable view instead`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTree,
}

func init() {
	treeCmd.Flags().BoolP("interactive", "i", false, "browse the hierarchy in the terminal")
	registerDeckFlags(treeCmd)
	registerHierFlags(treeCmd)
}

func runTree(cmd *cobra.Command, args []string) error {
	interactive, err := cmd.Flags().GetBool("interactive")
	if err != nil {
		return fmt.Errorf("failed to get interactive flag: %w", err)
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

	if interactive {
		return ui.Browse(result.Circuit.Name, func() (*hier.TreeNode, error) {
			return resolver.Tree()
		})
	}

	done := timer.Track("tree")
	root, err := resolver.Tree()
	done("")
	if err != nil {
		return fmt.Errorf("hierarchy walk failed: %w", err)
	}

	report.WriteTree(os.Stdout, root)
	return printTimings(cmd, timer)
}
