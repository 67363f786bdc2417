// Package engine drives lint sessions. A Session is the host side of the
// plugin bridge: it loads the configured plugins through the bridge hooks,
// asks the bridge to lint each target file, and reports whether the whole
// session completed cleanly.
package engine

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/huxxhu/oxc/internal/bridge"
	"github.com/huxxhu/oxc/internal/plugin"
	"github.com/huxxhu/oxc/internal/state"
)

// Config holds session configuration.
type Config struct {
	// Specifiers are the plugin specifiers to load at session start.
	Specifiers []string
	// Paths are the files to lint.
	Paths []string
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// Session is a single lint session. It implements bridge.Host.
type Session struct {
	id     string
	cfg    Config
	store  state.Store
	logger *slog.Logger
}

// NewSession creates a lint session. The store is optional: when nil,
// plugin load attempts are not recorded.
func NewSession(cfg Config, store state.Store) *Session {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Session{
		id:     uuid.New().String(),
		cfg:    cfg,
		store:  store,
		logger: logger,
	}
}

// ID returns the session identifier used for recorded history.
func (s *Session) ID() string {
	return s.id
}

// Run loads every configured plugin and lints every configured path.
// The returned signal is true only when all plugins loaded successfully
// and every lint pass completed. Lint errors abort the session.
func (s *Session) Run(ctx context.Context, hooks bridge.Hooks) (bool, error) {
	s.logger.Info("starting lint session",
		"session_id", s.id,
		"plugins", len(s.cfg.Specifiers),
		"paths", len(s.cfg.Paths))

	ok := true
	for _, specifier := range s.cfg.Specifiers {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		result := hooks.LoadPlugin(ctx, specifier)
		s.recordLoad(specifier, result)

		if !result.OK() {
			s.logger.Warn("plugin failed to load", "specifier", specifier, "message", result.Message())
			ok = false
		}
	}

	for _, path := range s.cfg.Paths {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		if err := hooks.Lint(ctx, path); err != nil {
			s.logger.Error("lint pass failed", "path", path, "error", err.Error())
			return false, err
		}
	}

	s.logger.Info("lint session finished", "session_id", s.id, "ok", ok)
	return ok, nil
}

// recordLoad persists one load attempt when a store is attached.
func (s *Session) recordLoad(specifier string, result plugin.Result) {
	if s.store == nil {
		return
	}

	load := &state.PluginLoad{
		SessionID: s.id,
		Specifier: specifier,
		OK:        result.OK(),
		Message:   result.Message(),
	}
	if err := s.store.RecordPluginLoad(load); err != nil {
		s.logger.Warn("failed to record plugin load", "error", err.Error())
	}
}
