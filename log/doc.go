// Package log provides structured logging handler construction for use with
// [log/slog].
//
// It supports three output formats ([FormatJSON], [FormatLogfmt], and
// [FormatText]) and four severity levels ([LevelError], [LevelWarn],
// [LevelInfo], and [LevelDebug]). [FormatText] is rendered by
// [charm.land/log/v2] for reading on a terminal; the other formats are the
// standard slog handlers.
//
// Use [NewHandler] to create a handler directly, or use [Config] with CLI
// flag integration via [github.com/spf13/pflag] and shell completion
// support via [github.com/spf13/cobra]:
//
//	cfg := log.NewConfig()
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//	cfg.RegisterCompletions(rootCmd)
//
//	logger, err := cfg.NewLogger(os.Stderr)
//	slog.SetDefault(logger)
package log
