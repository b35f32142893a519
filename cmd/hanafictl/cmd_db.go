package main

import (
	"context"
	"fmt"

	"hanafiyah/internal/app/bootstrap"

	"github.com/spf13/cobra"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database maintenance",
}

var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update every table, the outbox included",
	RunE:  runDBMigrate,
}

func init() {
	dbCmd.AddCommand(dbMigrateCmd)
	rootCmd.AddCommand(dbCmd)
}

func runDBMigrate(cmd *cobra.Command, _ []string) error {
	return withTools(cmd, func(ctx context.Context, tools *bootstrap.Tools) error {
		models := bootstrap.Models()
		if err := tools.Postgres.Migrate(ctx, models...); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "migrated %d tables\n", len(models))
		return nil
	})
}
