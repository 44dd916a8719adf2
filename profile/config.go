package profile

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// DefaultMemProfileRate matches the runtime default.
const DefaultMemProfileRate = 512 * 1024

// Flags holds CLI flag names for profiling configuration.
type Flags struct {
	CPUProfile     string
	HeapProfile    string
	MemProfileRate string
}

// NewConfig creates a new [Config] embedding these flag names.
func (f Flags) NewConfig() *Config {
	return &Config{
		Flags:          f,
		MemProfileRate: DefaultMemProfileRate,
	}
}

// Config holds profile output paths. An empty path disables that profile.
type Config struct {
	Flags Flags

	CPUProfile     string
	HeapProfile    string
	MemProfileRate int
}

// NewConfig creates a new [Config] with default flag names and profiling
// disabled.
func NewConfig() *Config {
	f := Flags{
		CPUProfile:     "cpu-profile",
		HeapProfile:    "heap-profile",
		MemProfileRate: "mem-profile-rate",
	}

	return f.NewConfig()
}

// RegisterFlags adds profiling flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.CPUProfile, c.Flags.CPUProfile, "", "write CPU profile to file")
	flags.StringVar(&c.HeapProfile, c.Flags.HeapProfile, "", "write heap profile to file")
	flags.IntVar(&c.MemProfileRate, c.Flags.MemProfileRate, DefaultMemProfileRate,
		"memory profile rate (bytes per sample)")
}

// RegisterCompletions registers shell completions for profile flags on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc(c.Flags.MemProfileRate, cobra.NoFileCompletions)
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.MemProfileRate, err)
	}

	return nil
}

// NewProfiler creates a [Profiler] reading this [Config] when started.
func (c *Config) NewProfiler() *Profiler {
	return &Profiler{cfg: c}
}
