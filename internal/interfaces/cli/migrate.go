package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/database/postgres"
)

// newMigrateCmd runs schema migrations against the configured database. It
// is the only command that bypasses the API.
func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply, roll back or inspect database migrations",
	}

	var dir string
	cmd.PersistentFlags().StringVar(&dir, "dir", "", "migrations directory (default: database.migration_path)")

	target := func(cmd *cobra.Command) (string, string, error) {
		cliCtx, err := GetCLIContext(cmd)
		if err != nil {
			return "", "", err
		}
		path := dir
		if path == "" {
			path = cliCtx.Config.Database.MigrationPath
		}
		return postgres.DSN(cliCtx.Config.Database), path, nil
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dsn, path, err := target(cmd)
			if err != nil {
				return err
			}
			if err := postgres.MigrateUp(dsn, path); err != nil {
				return err
			}
			PrintSuccess(cmd, "migrations applied")
			return nil
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dsn, path, err := target(cmd)
			if err != nil {
				return err
			}
			if err := postgres.MigrateDown(dsn, path, steps); err != nil {
				return err
			}
			PrintSuccess(cmd, fmt.Sprintf("rolled back %d migration(s)", steps))
			return nil
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	status := &cobra.Command{
		Use:   "status",
		Short: "Show the applied schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dsn, path, err := target(cmd)
			if err != nil {
				return err
			}
			state, err := postgres.MigrateStatus(dsn, path)
			if err != nil {
				return err
			}
			cliCtx, _ := GetCLIContext(cmd)
			if cliCtx.OutputFormat == "json" {
				return printJSON(cmd.OutOrStdout(), state)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version %d, dirty %t\n", state.Version, state.Dirty)
			return nil
		},
	}

	cmd.AddCommand(up, down, status)
	return cmd
}

//Personal.AI order the ending
