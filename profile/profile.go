package profile

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"runtime/pprof"
)

// ErrProfile indicates a profile could not be started or written.
var ErrProfile = errors.New("profile")

// Profiler controls one profiling session.
//
// The [Config] is read by [Profiler.Start], so flags parsed after
// [Config.NewProfiler] still apply.
type Profiler struct {
	cfg     *Config
	cpuFile *os.File
	started bool
}

// Start sets the memory profile rate and starts CPU profiling if enabled.
func (p *Profiler) Start() error {
	p.started = true

	if p.cfg.HeapProfile != "" {
		runtime.MemProfileRate = p.cfg.MemProfileRate
	}

	if p.cfg.CPUProfile == "" {
		return nil
	}

	f, err := os.Create(p.cfg.CPUProfile) //nolint:gosec // Profile path from CLI flag is expected.
	if err != nil {
		return fmt.Errorf("%w: create cpu profile: %w", ErrProfile, err)
	}

	err = pprof.StartCPUProfile(f)
	if err != nil {
		return errors.Join(
			fmt.Errorf("%w: start cpu profile: %w", ErrProfile, err),
			f.Close(),
		)
	}

	p.cpuFile = f

	slog.Debug("started cpu profile", slog.String("path", p.cfg.CPUProfile))

	return nil
}

// Stop stops CPU profiling and writes the heap profile if enabled. It does
// nothing when [Profiler.Start] was never called, such as when a command
// fails before running.
func (p *Profiler) Stop() error {
	if !p.started {
		return nil
	}

	p.started = false

	if p.cpuFile != nil {
		pprof.StopCPUProfile()

		err := p.cpuFile.Close()
		p.cpuFile = nil

		if err != nil {
			return fmt.Errorf("%w: close cpu profile: %w", ErrProfile, err)
		}
	}

	if p.cfg.HeapProfile == "" {
		return nil
	}

	return writeHeap(p.cfg.HeapProfile)
}

func writeHeap(path string) error {
	f, err := os.Create(path) //nolint:gosec // Profile path from CLI flag is expected.
	if err != nil {
		return fmt.Errorf("%w: create heap profile: %w", ErrProfile, err)
	}

	runtime.GC()

	err = pprof.Lookup("heap").WriteTo(f, 0)
	if err != nil {
		return errors.Join(
			fmt.Errorf("%w: write heap profile: %w", ErrProfile, err),
			f.Close(),
		)
	}

	err = f.Close()
	if err != nil {
		return fmt.Errorf("%w: close heap profile: %w", ErrProfile, err)
	}

	slog.Debug("wrote heap profile", slog.String("path", path))

	return nil
}
