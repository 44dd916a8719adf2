package coding

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Flags holds CLI flag names for table building, allowing callers to
// customize flag names while keeping sensible defaults via [NewConfig].
type Flags struct {
	Normalize string
	LineBreak string
}

// Config holds CLI flag values for table building.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags]. Use [Config.NewBuilder] to create a [Builder].
type Config struct {
	Flags     Flags
	Normalize string
	LineBreak string
}

// NewConfig returns a new [Config] with default flag names.
func NewConfig() *Config {
	f := Flags{
		Normalize: "normalize",
		LineBreak: "line-break",
	}

	return &Config{Flags: f, LineBreak: DefaultLineBreak}
}

// RegisterFlags adds table building flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&c.Normalize, c.Flags.Normalize, "n", "",
		"YAML or JSON file mapping phrases to their normalized replacement")
	flags.StringVar(&c.LineBreak, c.Flags.LineBreak, DefaultLineBreak,
		"marker separating annotations within one comment (empty disables splitting)")
}

// RegisterCompletions registers shell completions for table building flags
// on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc(c.Flags.Normalize,
		func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return []string{"yaml", "yml", "json"}, cobra.ShellCompDirectiveFilterFileExt
		})
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Normalize, err)
	}

	err = cmd.RegisterFlagCompletionFunc(c.Flags.LineBreak,
		cobra.FixedCompletions([]string{DefaultLineBreak}, cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.LineBreak, err)
	}

	return nil
}

// NewNormalizer loads the configured normalization file. It returns nil
// when no file is configured.
func (c *Config) NewNormalizer() (*Normalizer, error) {
	if c.Normalize == "" {
		return nil, nil //nolint:nilnil // nil Normalizer is a valid no-op.
	}

	data, err := os.ReadFile(c.Normalize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadInput, err)
	}

	return ReadNormalizer(data)
}

// NewBuilder creates a [Builder] using this [Config].
func (c *Config) NewBuilder() (*Builder, error) {
	n, err := c.NewNormalizer()
	if err != nil {
		return nil, err
	}

	return NewBuilder(WithNormalizer(n), WithLineBreak(c.LineBreak)), nil
}
