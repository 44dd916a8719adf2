// Package main provides the CLI entry point for qualdocs, a tool that builds
// a qualitative coding table from comments on shared documents.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	a := newApp()
	err := a.rootCmd().ExecuteContext(ctx)

	stop()

	err = errors.Join(err, a.profiler.Stop())
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
