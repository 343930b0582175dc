package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [path]",
	Short: "Remove the parsed-circuit disk cache",
	Long:  `Clean removes every cached parse result. The cache is found through the project manifest nearest to path (default: the current directory), falling back to the user-level cache directory`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runClean,
}

func runClean(cmd *cobra.Command, args []string) error {
	baseDir := "."
	if len(args) > 0 && args[0] != "" {
		baseDir = args[0]
	}
	baseDir, err := resolveCleanBase(baseDir)
	if err != nil {
		return err
	}

	manifest, err := loadManifest(cmd, baseDir)
	if err != nil {
		return err
	}
	cache, err := openDeckCache(manifest)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	if err := cache.DropAll(); err != nil {
		return fmt.Errorf("failed to remove cache: %w", err)
	}
	fmt.Fprintf(os.Stdout, "removed %s\n", cache.Dir())
	return nil
}

// resolveCleanBase turns a deck or directory argument into the directory
// the manifest walk starts from.
func resolveCleanBase(base string) (string, error) {
	info, err := os.Stat(base)
	if err != nil {
		return "", fmt.Errorf("failed to stat %q: %w", base, err)
	}
	if !info.IsDir() {
		return filepath.Dir(base), nil
	}
	return base, nil
}
