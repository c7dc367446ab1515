// Package bootstrap loads configuration, logging and the database for the
// CLI commands.
package bootstrap

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/servis-automat/servis/internal/infrastructure/config"
	"github.com/servis-automat/servis/internal/infrastructure/database"
	"github.com/servis-automat/servis/internal/shared/biztime"
	"github.com/servis-automat/servis/internal/shared/constants"
	"github.com/servis-automat/servis/internal/shared/logger"
)

// Options are the flags shared by every command.
type Options struct {
	Env        string
	ConfigPath string
}

// AddFlags registers --env and --config as persistent flags on cmd.
func (o *Options) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&o.Env, "env", "e", constants.EnvDevelopment, "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&o.ConfigPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
}

// Environment returns the ENV variable when set, otherwise the flag value.
func (o *Options) Environment() string {
	if envVar := os.Getenv("ENV"); envVar != "" {
		return envVar
	}
	return o.Env
}

// Runtime is what a command needs after startup.
type Runtime struct {
	Env    string
	Config *config.Config
	Log    logger.Interface
	DB     *gorm.DB
}

// Config loads configuration and initializes the process logger.
func (o *Options) Config() (*config.Config, logger.Interface, error) {
	env := o.Environment()
	cfg, err := config.Load(GinMode(env), o.ConfigPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(cfg.Logger, cfg.Server.Mode); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := biztime.Init(cfg.Server.Timezone); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	return cfg, logger.NewLogger(), nil
}

// Start loads configuration and opens the database. Close releases it.
func (o *Options) Start() (*Runtime, error) {
	cfg, log, err := o.Config()
	if err != nil {
		return nil, err
	}

	if err := database.Init(&cfg.Database, cfg.Server.Mode == "debug"); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &Runtime{
		Env:    o.Environment(),
		Config: cfg,
		Log:    log,
		DB:     database.Get(),
	}, nil
}

// Close closes the database opened by Start.
func (r *Runtime) Close() {
	if err := database.Close(); err != nil {
		r.Log.Warnw("failed to close database", "error", err)
	}
}

// GinMode maps a deployment environment to a gin mode.
func GinMode(environment string) string {
	switch strings.ToLower(environment) {
	case constants.EnvProduction, "prod", "release":
		return "release"
	case constants.EnvTest, "testing":
		return "test"
	default:
		return "debug"
	}
}
