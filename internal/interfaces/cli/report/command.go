package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/servis-automat/servis/internal/interfaces/cli/bootstrap"
	httpRouter "github.com/servis-automat/servis/internal/interfaces/http"
	"github.com/servis-automat/servis/internal/shared/authorization"
)

const reportTimeout = 2 * time.Minute

var (
	send   bool
	format string
)

func NewCommand(opts *bootstrap.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Ticket reports",
	}
	cmd.AddCommand(newWeeklyCommand(opts))
	return cmd
}

func newWeeklyCommand(opts *bootstrap.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weekly",
		Short: "Print the report for the last seven days",
		Long:  `Print the weekly ticket report. With --send it is also emailed to every admin, which is how a scheduler should run it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "json" && format != "yaml" {
				return fmt.Errorf("unsupported format %q", format)
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

			ctx, cancel := context.WithTimeout(cmd.Context(), reportTimeout)
			defer cancel()

			if send {
				result, err := container.SendWeeklyReport().Execute(ctx, authorization.SystemIdentity())
				if err != nil {
					return err
				}
				rt.Log.Infow("weekly report sent",
					"recipients", result.Recipients,
					"sent", result.Sent,
					"failed", len(result.Failed))
				return write(cmd.OutOrStdout(), result)
			}

			result, err := container.WeeklyReport().Execute(ctx, authorization.SystemIdentity())
			if err != nil {
				return err
			}
			return write(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().BoolVar(&send, "send", false, "Email the report to every admin")
	cmd.Flags().StringVarP(&format, "format", "o", "yaml", "Output format (yaml, json)")

	return cmd
}

// write prints v as indented JSON, or as YAML keyed by the same JSON names.
func write(w io.Writer, v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if format == "json" {
		_, err = fmt.Fprintln(w, string(raw))
		return err
	}

	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}
