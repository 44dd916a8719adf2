package drive

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"google.golang.org/api/option"
)

// Flags holds CLI flag names for Drive access, allowing callers to
// customize flag names while keeping sensible defaults via [NewConfig].
type Flags struct {
	Credentials string
	Search      string
	MaxFiles    string
	PageSize    string
}

// Config holds CLI flag values for Drive access.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags]. Use [Config.NewClient] to create a [Client].
type Config struct {
	Flags       Flags
	Credentials string
	Search      string
	MaxFiles    int
	PageSize    int
}

// NewConfig returns a new [Config] with default flag names.
func NewConfig() *Config {
	f := Flags{
		Credentials: "credentials",
		Search:      "search",
		MaxFiles:    "max-files",
		PageSize:    "page-size",
	}

	return &Config{
		Flags:    f,
		MaxFiles: DefaultMaxFiles,
		PageSize: DefaultPageSize,
	}
}

// RegisterFlags adds Drive flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.Credentials, c.Flags.Credentials, "",
		"Google credentials JSON file (default: application default credentials)")
	flags.StringVarP(&c.Search, c.Flags.Search, "s", "",
		"only read files whose name contains this string")
	flags.IntVar(&c.MaxFiles, c.Flags.MaxFiles, DefaultMaxFiles,
		"number of most recent files to list")
	flags.IntVar(&c.PageSize, c.Flags.PageSize, DefaultPageSize,
		"comments requested per page")
}

// RegisterCompletions registers shell completions for Drive flags on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc(c.Flags.Credentials,
		func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return []string{"json"}, cobra.ShellCompDirectiveFilterFileExt
		})
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Credentials, err)
	}

	noFileComp := func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	for _, flag := range []string{c.Flags.Search, c.Flags.MaxFiles, c.Flags.PageSize} {
		regErr := cmd.RegisterFlagCompletionFunc(flag, noFileComp)
		if regErr != nil {
			return fmt.Errorf("registering %s completion: %w", flag, regErr)
		}
	}

	return nil
}

// NewClient creates a [Client] using this [Config]. Extra client options are
// applied after the configured credentials.
func (c *Config) NewClient(ctx context.Context, extra ...option.ClientOption) (*Client, error) {
	var clientOpts []option.ClientOption

	if c.Credentials != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(c.Credentials))
	}

	clientOpts = append(clientOpts, extra...)

	return NewClient(ctx,
		WithSearch(c.Search),
		WithMaxFiles(c.MaxFiles),
		WithPageSize(c.PageSize),
		WithClientOptions(clientOpts...),
	)
}
