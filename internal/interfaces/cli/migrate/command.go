package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/servis-automat/servis/internal/infrastructure/migration"
	"github.com/servis-automat/servis/internal/interfaces/cli/bootstrap"
)

var (
	name  string
	dir   string
	steps int
)

func NewCommand(opts *bootstrap.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Apply, roll back and inspect the versioned schema migrations embedded in the binary.`,
	}

	cmd.AddCommand(
		newUpCommand(opts),
		newDownCommand(opts),
		newStatusCommand(opts),
		newCreateCommand(),
	)

	return cmd
}

func newUpCommand(opts *bootstrap.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := opts.Start()
			if err != nil {
				return err
			}
			defer rt.Close()

			rt.Log.Infow("running up migrations", "environment", rt.Env, "driver", rt.Config.Database.Driver)
			if err := migration.NewGooseStrategy(rt.Config.Database.Driver).Migrate(rt.DB); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			rt.Log.Infow("migrations completed successfully")
			return nil
		},
	}
}

func newDownCommand(opts *bootstrap.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := opts.Start()
			if err != nil {
				return err
			}
			defer rt.Close()

			rt.Log.Infow("running down migrations", "environment", rt.Env, "steps", steps)
			if err := migration.NewGooseStrategy(rt.Config.Database.Driver).MigrateDown(rt.DB, steps); err != nil {
				return fmt.Errorf("down migration failed: %w", err)
			}
			rt.Log.Infow("down migration completed successfully")
			return nil
		},
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")

	return cmd
}

func newStatusCommand(opts *bootstrap.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := opts.Start()
			if err != nil {
				return err
			}
			defer rt.Close()

			strategy := migration.NewGooseStrategy(rt.Config.Database.Driver)
			current, err := strategy.GetVersion(rt.DB)
			if err != nil {
				return fmt.Errorf("failed to get migration version: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\nMigration Status:\n")
			fmt.Fprintf(out, "  Environment:     %s\n", rt.Env)
			fmt.Fprintf(out, "  Driver:          %s\n", rt.Config.Database.Driver)
			fmt.Fprintf(out, "  Current Version: %d\n", current)

			return strategy.Status(rt.DB)
		},
	}
}

// newCreateCommand only touches the filesystem, so it needs no database.
func newCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new migration",
		Long:  `Create an empty SQL migration. Add the same version for every driver directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := migration.NewGooseStrategy("").Create(dir, name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Migration '%s' created in %s\n", name, dir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Name of the migration (required)")
	cmd.Flags().StringVarP(&dir, "dir", "d", "./internal/infrastructure/migration/scripts/mysql", "Directory to write the migration to")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}
