package user

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/servis-automat/servis/internal/application/user/usecases"
	"github.com/servis-automat/servis/internal/interfaces/cli/bootstrap"
	httpRouter "github.com/servis-automat/servis/internal/interfaces/http"
	"github.com/servis-automat/servis/internal/shared/authorization"
)

var (
	name     string
	email    string
	password string
)

func NewCommand(opts *bootstrap.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "User account tools",
	}
	cmd.AddCommand(newCreateAdminCommand(opts))
	return cmd
}

func newCreateAdminCommand(opts *bootstrap.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account",
		Long:  `Create the first admin account. The password is read from the terminal when --password is not given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := readPassword(cmd)
			if err != nil {
				return err
			}

			rt, err := opts.Start()
			if err != nil {
				return err
			}
			defer rt.Close()

			container, err := httpRouter.NewContainer(rt.DB, rt.Config, rt.Log)
			if err != nil {
				return fmt.Errorf("failed to build application: %w", err)
			}
			defer container.Shutdown()

			created, err := container.CreateUser().Execute(context.Background(), usecases.CreateUserCommand{
				Identity: authorization.SystemIdentity(),
				Name:     name,
				Email:    email,
				Password: pw,
				Role:     authorization.RoleAdmin.String(),
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created admin %s (id %d)\n", created.Email, created.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "Administrator", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Login email (required)")
	cmd.Flags().StringVar(&password, "password", "", "Password, prompted for when empty")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func readPassword(cmd *cobra.Command) (string, error) {
	if password != "" {
		return password, nil
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("--password is required when stdin is not a terminal")
	}

	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(raw), nil
}
