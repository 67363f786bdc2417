// Package commands implements the oxc subcommands.
package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/huxxhu/oxc/internal/cli/config"
	"github.com/huxxhu/oxc/internal/cli/output"
	"github.com/huxxhu/oxc/internal/state"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the command's
// configuration and streams.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	mode := output.OutputMode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to
// environment variables with defaults.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	return &config.Config{
		LogLevel:     getEnvOrDefault("OXC_LOG_LEVEL", config.DefaultLogLevel),
		LogFormat:    getEnvOrDefault("OXC_LOG_FORMAT", config.DefaultLogFormat),
		OutputFormat: getEnvOrDefault("OXC_OUTPUT", config.DefaultOutput),
		Plugins: config.PluginsConfig{
			Dir: getEnvOrDefault("OXC_PLUGINS__DIR", config.DefaultPluginsDir),
		},
		Report: config.ReportConfig{
			Path: getEnvOrDefault("OXC_REPORT__PATH", config.DefaultReportPath),
		},
		State: config.StateConfig{
			Path: getEnvOrDefault("OXC_STATE__PATH", config.DefaultStateFile),
		},
		Server: config.ServerConfig{
			Host: config.DefaultServerHost,
			Port: config.DefaultServerPort,
		},
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// openStore opens the run-history store. Returns a nil store without error
// when no state path is configured; callers must handle the nil.
func (c *CommandContext) openStore() (state.Store, func(), error) {
	if c.Cfg.State.Path == "" {
		return nil, func() {}, nil
	}

	store := state.NewSQLiteStore(c.Logger)
	if err := store.Open(c.Cfg.State.Path); err != nil {
		return nil, nil, err
	}
	return store, func() { _ = store.Close() }, nil
}
