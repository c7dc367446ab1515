package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/servis-automat/servis/internal/infrastructure/migration"
	"github.com/servis-automat/servis/internal/interfaces/cli/bootstrap"
	httpRouter "github.com/servis-automat/servis/internal/interfaces/http"
	"github.com/servis-automat/servis/internal/shared/constants"
	"github.com/servis-automat/servis/internal/shared/version"
)

const shutdownTimeout = 30 * time.Second

var (
	autoMigrate        bool
	skipMigrationCheck bool
)

func NewCommand(opts *bootstrap.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the Servis HTTP API with the configured database, storage and notifications.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts)
		},
	}

	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Apply pending migrations on startup")
	cmd.Flags().BoolVar(&skipMigrationCheck, "skip-migration-check", false, "Skip migration status check on startup")

	return cmd
}

func run(opts *bootstrap.Options) error {
	rt, err := opts.Start()
	if err != nil {
		return err
	}
	defer rt.Close()

	log := rt.Log
	cfg := rt.Config

	log.Infow("starting server",
		"environment", rt.Env,
		"version", version.Version,
		"auto_migrate", autoMigrate)

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {}

	if err := handleMigrations(rt); err != nil {
		return fmt.Errorf("migration handling failed: %w", err)
	}

	container, err := httpRouter.NewContainer(rt.DB, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}
	defer container.Shutdown()
	container.SetupRoutes()

	bgCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()
	if err := container.StartBackground(bgCtx); err != nil {
		return fmt.Errorf("failed to start background jobs: %w", err)
	}

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      container.Engine(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("server listening",
			"address", cfg.Server.GetAddr(),
			"mode", cfg.Server.Mode)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case sig := <-quit:
		log.Infow("shutting down server", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
		return err
	}

	log.Infow("server exited gracefully")
	return nil
}

func handleMigrations(rt *bootstrap.Runtime) error {
	if skipMigrationCheck {
		rt.Log.Infow("skipping migration check")
		return nil
	}

	if autoMigrate {
		if rt.Env == constants.EnvProduction {
			rt.Log.Warnw("auto-migration is enabled in production")
		}
		manager := migration.NewManagerWithStrategy(migration.NewGooseStrategy(rt.Config.Database.Driver))
		return manager.Migrate(rt.DB)
	}

	current, err := migration.NewGooseStrategy(rt.Config.Database.Driver).GetVersion(rt.DB)
	if err != nil {
		rt.Log.Warnw("failed to check migration status", "error", err)
		return nil
	}
	rt.Log.Infow("current migration version", "version", current)
	return nil
}
