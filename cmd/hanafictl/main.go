package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"hanafiyah/internal/app/bootstrap"

	"github.com/spf13/cobra"
)

// rootCmd is the operator CLI for the Al-Hanafiyah backend.
var rootCmd = &cobra.Command{
	Use:   "hanafictl",
	Short: "Operate the Al-Hanafiyah backend",
	Long: `Operator tooling for the Al-Hanafiyah backend.

Configuration is read the same way as the api and worker processes:
an optional YAML file named by HANAFI_CONFIG, overridden by environment
variables such as POSTGRES_DSN and ELASTICSEARCH_URL.`,
	SilenceUsage: true,
}

// buildTools is swapped out in tests.
var buildTools = bootstrap.BuildTools

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// withTools opens the database and search connections for one command.
func withTools(cmd *cobra.Command, run func(context.Context, *bootstrap.Tools) error) error {
	tools, err := buildTools()
	if err != nil {
		return err
	}
	defer func() {
		if err := tools.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "close: %v\n", err)
		}
	}()
	return run(cmd.Context(), tools)
}
