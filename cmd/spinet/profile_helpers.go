package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"spinet/internal/prof"
)

// setupProfiling reads the persistent profiling flags and starts the
// corresponding profilers. The returned cleanup is safe to call multiple
// times and with nothing started.
func setupProfiling(cmd *cobra.Command) (func(), error) {
	root := cmd.Root()

	cpuProfile, err := root.PersistentFlags().GetString("cpu-profile")
	if err != nil {
		return nil, fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	memProfile, err := root.PersistentFlags().GetString("mem-profile")
	if err != nil {
		return nil, fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	tracePath, err := root.PersistentFlags().GetString("runtime-trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}

	session, err := prof.Start(prof.Config{
		CPUPath:   cpuProfile,
		HeapPath:  memProfile,
		TracePath: tracePath,
	})
	if err != nil {
		return nil, err
	}
	return session.Stop, nil
}
