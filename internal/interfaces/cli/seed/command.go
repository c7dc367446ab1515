package seed

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/servis-automat/servis/internal/infrastructure/auth"
	"github.com/servis-automat/servis/internal/infrastructure/persistence/seeds"
	"github.com/servis-automat/servis/internal/interfaces/cli/bootstrap"
)

var file string

func NewCommand(opts *bootstrap.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load clubs, machines and users from a YAML file",
		Long:  `Insert clubs, their machines and user accounts from a YAML file. Rows that already exist are kept as they are.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			fixtures, err := seeds.LoadFile(file)
			if err != nil {
				return err
			}

			rt, err := opts.Start()
			if err != nil {
				return err
			}
			defer rt.Close()

			hasher := auth.NewBcryptPasswordHasher(rt.Config.Auth.BcryptCost)
			res, err := seeds.Apply(rt.DB, fixtures, hasher)
			if err != nil {
				rt.Log.Errorw("seeding failed", "file", file, "error", err)
				return fmt.Errorf("seeding failed: %w", err)
			}

			rt.Log.Infow("seed applied",
				"file", file,
				"clubs", res.Clubs,
				"machines", res.Machines,
				"users", res.Users)
			fmt.Fprintf(cmd.OutOrStdout(), "Inserted %d clubs, %d machines, %d users\n", res.Clubs, res.Machines, res.Users)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "./configs/seed.example.yaml", "Seed file")

	return cmd
}
