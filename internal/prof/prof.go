// Package prof turns the runtime's profilers on and off for one CLI run.
package prof

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
)

// Config names the output files. Empty paths leave the corresponding
// profiler off.
type Config struct {
	CPUPath   string
	HeapPath  string
	TracePath string
}

// Session holds the profilers started by Start until Stop collects them.
type Session struct {
	cpuFile   *os.File
	traceFile *os.File
	heapPath  string
}

// Start enables the profilers cfg asks for. On any failure it stops what
// it already started and returns the error. A nil session is returned for
// an all-empty config; Stop on it is a no-op.
func Start(cfg Config) (*Session, error) {
	if cfg.CPUPath == "" && cfg.HeapPath == "" && cfg.TracePath == "" {
		return nil, nil
	}
	s := &Session{}

	if cfg.CPUPath != "" {
		f, err := os.Create(cfg.CPUPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create cpu profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to start cpu profile: %w", err)
		}
		s.cpuFile = f
	}

	if cfg.TracePath != "" {
		f, err := os.Create(cfg.TracePath)
		if err != nil {
			s.Stop()
			return nil, fmt.Errorf("failed to create runtime trace: %w", err)
		}
		if err := trace.Start(f); err != nil {
			_ = f.Close()
			s.Stop()
			return nil, fmt.Errorf("failed to start runtime trace: %w", err)
		}
		s.traceFile = f
	}

	// Set only once every requested profiler is running; Stop during a
	// failed Start must not dump the heap.
	s.heapPath = cfg.HeapPath
	return s, nil
}

// Stop flushes and closes every active profiler. Safe on a nil session and
// safe to call more than once.
func (s *Session) Stop() {
	if s == nil {
		return
	}
	if s.traceFile != nil {
		trace.Stop()
		_ = s.traceFile.Close()
		s.traceFile = nil
	}
	if s.cpuFile != nil {
		pprof.StopCPUProfile()
		_ = s.cpuFile.Close()
		s.cpuFile = nil
	}
	if s.heapPath != "" {
		if err := writeHeap(s.heapPath); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write heap profile: %v\n", err)
		}
		s.heapPath = ""
	}
}

// writeHeap captures a heap profile after a forced collection, so the
// snapshot reflects live data rather than garbage.
func writeHeap(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	runtime.GC()
	return pprof.WriteHeapProfile(f)
}
