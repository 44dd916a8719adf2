package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"

	"github.com/spf13/cobra"
	"google.golang.org/api/option"

	"github.com/qualdocs/qualdocs/coding"
	"github.com/qualdocs/qualdocs/drive"
	"github.com/qualdocs/qualdocs/log"
	"github.com/qualdocs/qualdocs/profile"
	"github.com/qualdocs/qualdocs/report"
	"github.com/qualdocs/qualdocs/version"
)

// app holds the configuration shared by all subcommands.
type app struct {
	logCfg    *log.Config
	codingCfg *coding.Config
	driveCfg  *drive.Config
	profCfg   *profile.Config
	profiler  *profile.Profiler
	output    string
	inputs    []string
	quote     string
	depth     int

	// driveOpts are appended to the Drive client options; tests point
	// them at a local server.
	driveOpts []option.ClientOption
}

func newApp(driveOpts ...option.ClientOption) *app {
	a := &app{
		logCfg:    log.NewConfig(),
		codingCfg: coding.NewConfig(),
		driveCfg:  drive.NewConfig(),
		profCfg:   profile.NewConfig(),
		depth:     coding.MaxDepth,
		driveOpts: driveOpts,
	}
	a.profiler = a.profCfg.NewProfiler()

	return a
}

// newRootCmd returns the root command of a fresh [app].
func newRootCmd(driveOpts ...option.ClientOption) *cobra.Command {
	return newApp(driveOpts...).rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "qualdocs",
		Short: "Build qualitative coding tables from document comments",
		Long: `qualdocs reads comments attached to quoted passages of shared documents and
parses the hierarchical codes written in them ("code: subcode: a, b") into a
coding table sorted by code, subcode, sub-subcode and document.

Comments are fetched from Google Drive, or read from --input files holding
document name to comments.list responses in JSON or YAML.`,
		Version:       version.String(),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := a.logCfg.NewLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			slog.SetDefault(logger)

			return a.profiler.Start()
		},
	}

	a.logCfg.RegisterFlags(rootCmd.PersistentFlags())
	a.profCfg.RegisterFlags(rootCmd.PersistentFlags())
	rootCmd.PersistentFlags().StringVarP(&a.output, "output", "o", "",
		fmt.Sprintf("output format, one of: %s (default: text on a terminal, json otherwise)",
			report.GetAllFormatStrings()))

	mustRegister(a.logCfg.RegisterCompletions(rootCmd))
	mustRegister(a.profCfg.RegisterCompletions(rootCmd))
	mustRegister(rootCmd.RegisterFlagCompletionFunc("output",
		cobra.FixedCompletions(report.GetAllFormatStrings(), cobra.ShellCompDirectiveNoFileComp)))

	rootCmd.AddCommand(
		a.newParseCmd(),
		a.newTableCmd(),
		a.newCodesCmd(),
		a.newCountsCmd(),
		a.newFilesCmd(),
		a.newSchemaCmd(),
	)

	return rootCmd
}

func (a *app) newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <annotation> [annotation ...]",
		Short: "Parse annotations and print the codes they apply",
		Example: `  qualdocs parse "Barriers: time, cost" --quote "I never have time"
  qualdocs parse "Motivation: Peers<br>Barriers: cost"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := a.codingCfg.NewNormalizer()
			if err != nil {
				return err
			}

			var codings []coding.Coding

			for _, arg := range args {
				for _, ann := range coding.SplitAnnotations(arg, a.codingCfg.LineBreak) {
					cs, err := coding.ParseAnnotation(ann, a.quote, n)
					if err != nil {
						return err
					}

					codings = append(codings, cs...)
				}
			}

			w, err := a.writer(cmd.OutOrStdout())
			if err != nil {
				return err
			}

			return w.Codings(codings)
		},
	}

	cmd.Flags().StringVarP(&a.quote, "quote", "q", "", "quoted passage the annotations apply to")
	a.registerCodingFlags(cmd)

	return cmd
}

func (a *app) newTableCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Print the coding table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table, err := a.buildTable(cmd)
			if err != nil {
				return err
			}

			w, err := a.writer(cmd.OutOrStdout())
			if err != nil {
				return err
			}

			return w.Table(table)
		},
	}

	a.registerSourceFlags(cmd)

	return cmd
}

func (a *app) newCodesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "codes",
		Short: "Print the flattened code of every table record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table, err := a.buildTable(cmd)
			if err != nil {
				return err
			}

			w, err := a.writer(cmd.OutOrStdout())
			if err != nil {
				return err
			}

			return w.Codes(coding.CodeList(table))
		},
	}

	a.registerSourceFlags(cmd)

	return cmd
}

func (a *app) newCountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "counts",
		Short: "Count how often each code is applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.depth < 1 || a.depth > coding.MaxDepth {
				return fmt.Errorf("%w: --depth must be between 1 and %d", coding.ErrInvalidOption, coding.MaxDepth)
			}

			table, err := a.buildTable(cmd)
			if err != nil {
				return err
			}

			w, err := a.writer(cmd.OutOrStdout())
			if err != nil {
				return err
			}

			return w.Counts(coding.RankCounts(coding.CodeCountsAtDepth(table, a.depth)))
		},
	}

	cmd.Flags().IntVarP(&a.depth, "depth", "d", coding.MaxDepth,
		"count codes truncated to this many levels")
	mustRegister(cmd.RegisterFlagCompletionFunc("depth",
		cobra.FixedCompletions([]string{"1", "2", "3"}, cobra.ShellCompDirectiveNoFileComp)))
	a.registerSourceFlags(cmd)

	return cmd
}

func (a *app) newFilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "files",
		Short: "List the Drive files comments would be read from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.driveCfg.NewClient(cmd.Context(), a.driveOpts...)
			if err != nil {
				return err
			}

			files, err := client.ListFiles(cmd.Context())
			if err != nil {
				return err
			}

			w, err := a.writer(cmd.OutOrStdout())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(files))
			for _, f := range files {
				rows = append(rows, []string{f.ID, f.Name})
			}

			return w.Write(files, []string{"id", "name"}, rows)
		},
	}

	a.driveCfg.RegisterFlags(cmd.Flags())
	mustRegister(a.driveCfg.RegisterCompletions(cmd))

	return cmd
}

func (a *app) newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of --input files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			schema, err := coding.DocumentsSchema()
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(schema, "", "  ")
			if err != nil {
				return fmt.Errorf("%w: %w", report.ErrWriteOutput, err)
			}

			out = append(out, '\n')

			_, err = cmd.OutOrStdout().Write(out)
			if err != nil {
				return fmt.Errorf("%w: %w", report.ErrWriteOutput, err)
			}

			return nil
		},
	}
}

func (a *app) registerCodingFlags(cmd *cobra.Command) {
	a.codingCfg.RegisterFlags(cmd.Flags())
	mustRegister(a.codingCfg.RegisterCompletions(cmd))
}

func (a *app) registerSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&a.inputs, "input", "i", nil,
		"JSON or YAML file of document comments (- for stdin); may be repeated; skips Drive")
	mustRegister(cmd.RegisterFlagCompletionFunc("input",
		func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return []string{"json", "yaml", "yml"}, cobra.ShellCompDirectiveFilterFileExt
		}))

	a.registerCodingFlags(cmd)
	a.driveCfg.RegisterFlags(cmd.Flags())
	mustRegister(a.driveCfg.RegisterCompletions(cmd))
}

func (a *app) buildTable(cmd *cobra.Command) (*coding.Table, error) {
	b, err := a.codingCfg.NewBuilder()
	if err != nil {
		return nil, err
	}

	docs, err := a.documents(cmd.Context(), cmd.InOrStdin())
	if err != nil {
		return nil, err
	}

	table, err := b.Build(docs)
	if err != nil {
		return nil, err
	}

	slog.Info("built coding table",
		slog.Int("documents", len(docs)),
		slog.Int("records", table.Len()),
	)

	return table, nil
}

// documents reads --input files when given, and Drive otherwise. Later
// input files replace documents of the same name.
func (a *app) documents(ctx context.Context, stdin io.Reader) (coding.Documents, error) {
	if len(a.inputs) == 0 {
		client, err := a.driveCfg.NewClient(ctx, a.driveOpts...)
		if err != nil {
			return nil, err
		}

		return client.Documents(ctx)
	}

	docs := coding.Documents{}

	for _, path := range a.inputs {
		var (
			data []byte
			err  error
		)

		if path == "-" {
			data, err = io.ReadAll(stdin)
		} else {
			data, err = os.ReadFile(path)
		}

		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", coding.ErrReadInput, path, err)
		}

		d, err := coding.ReadDocuments(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

		maps.Copy(docs, d)
	}

	return docs, nil
}

func (a *app) writer(w io.Writer) (*report.Writer, error) {
	if a.output == "" {
		format := report.FormatJSON
		if f, ok := w.(*os.File); ok {
			format = report.DefaultFormat(f)
		}

		return report.NewWriter(w, format), nil
	}

	format, err := report.ParseFormat(a.output)
	if err != nil {
		return nil, err
	}

	return report.NewWriter(w, format), nil
}

func mustRegister(err error) {
	if err != nil {
		panic(err)
	}
}
