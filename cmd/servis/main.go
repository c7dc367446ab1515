package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/servis-automat/servis/internal/interfaces/cli/bootstrap"
	"github.com/servis-automat/servis/internal/interfaces/cli/migrate"
	"github.com/servis-automat/servis/internal/interfaces/cli/report"
	"github.com/servis-automat/servis/internal/interfaces/cli/seed"
	"github.com/servis-automat/servis/internal/interfaces/cli/server"
	"github.com/servis-automat/servis/internal/interfaces/cli/user"
	"github.com/servis-automat/servis/internal/interfaces/cli/version"
)

func main() {
	opts := &bootstrap.Options{}

	rootCmd := &cobra.Command{
		Use:          "servis",
		Short:        "Servis - maintenance tickets for gaming machines",
		Long:         `Servis tracks repair tickets for gaming machines across clubs, from the first report to closure.`,
		SilenceUsage: true,
	}
	opts.AddFlags(rootCmd)

	rootCmd.AddCommand(
		server.NewCommand(opts),
		migrate.NewCommand(opts),
		seed.NewCommand(opts),
		report.NewCommand(opts),
		user.NewCommand(opts),
		version.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
