// Package server exposes grammar reconciliation over HTTP. It serves the
// latest report, re-runs reconciliation on demand or when a grammar
// document changes on disk, and reads recorded runs from the state store.
package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/huxxhu/oxc/internal/state"
	"github.com/huxxhu/oxc/pkg/estree"
)

// Config holds configuration for the reconciliation server.
type Config struct {
	Host string
	Port int

	// Watch re-runs reconciliation when a grammar document changes.
	Watch bool

	// Reference and Community are the grammar document paths.
	Reference string
	Community string

	// Overrides is an optional extra override file; BuiltinOverrides
	// applies the built-in set.
	Overrides        string
	BuiltinOverrides bool

	// ReportPath is where the rendered report artifact is written after
	// every reconciliation.
	ReportPath string

	// Store records runs; nil disables history endpoints.
	Store state.Store

	Logger *slog.Logger
}

// Server runs reconciliation and serves the results.
type Server struct {
	cfg    Config
	store  state.Store
	logger *slog.Logger

	mu         sync.RWMutex
	report     *estree.Report
	reconciled time.Time
	lastErr    error
}

// New creates a server. Call Serve to start it.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{
		cfg:    cfg,
		store:  cfg.Store,
		logger: logger,
	}
}

// Serve runs an initial reconciliation and blocks serving HTTP until the
// context is cancelled. A failed initial reconciliation is reported by
// the API rather than aborting startup, so a broken grammar document can
// be fixed while the server keeps running.
func (s *Server) Serve(ctx context.Context) error {
	if err := s.reconcile(); err != nil {
		s.logger.Error("initial reconciliation failed", "error", err)
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	s.logger.Info("starting server", "addr", addr, "watch", s.cfg.Watch)

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.cfg.Watch {
		eg.Go(func() error {
			return s.watchGrammars(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// Handler returns the HTTP handler, exposed separately for tests.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	r.Get("/healthz", s.handleHealth)
	r.Get("/report", s.handleReportText)
	r.Route("/api", func(api chi.Router) {
		api.Get("/report", s.handleReport)
		api.Get("/mismatches", s.handleMismatches)
		api.Post("/reconcile", s.handleReconcile)
		api.Get("/runs", s.handleRuns)
		api.Get("/runs/{id}", s.handleRun)
	})

	return r
}

// reconcile loads the grammar documents, runs the comparison, writes the
// report artifact, and records the run. The in-memory report is only
// replaced on success.
func (s *Server) reconcile() error {
	runID := ""
	if s.store != nil {
		run, err := s.store.CreateReconcileRun(s.cfg.Reference, s.cfg.Community)
		if err != nil {
			s.logger.Warn("failed to record reconcile run", "error", err)
		} else {
			runID = run.ID
		}
	}

	report, err := s.runReconciliation()

	s.mu.Lock()
	s.lastErr = err
	if err == nil {
		s.report = report
		s.reconciled = time.Now().UTC()
	}
	s.mu.Unlock()

	if err != nil {
		return err
	}

	if s.cfg.ReportPath != "" {
		if werr := report.WriteFile(s.cfg.ReportPath); werr != nil {
			s.logger.Warn("failed to write report artifact", "path", s.cfg.ReportPath, "error", werr)
		}
	}
	if s.store != nil && runID != "" {
		if cerr := s.store.CompleteReconcileRun(runID, report.Len(), report.Render()); cerr != nil {
			s.logger.Warn("failed to complete reconcile run", "run_id", runID, "error", cerr)
		}
	}

	s.logger.Info("reconciliation finished",
		"shared_types", report.Shared,
		"mismatches", report.Len())
	return nil
}

// runReconciliation performs one load-and-compare pass.
func (s *Server) runReconciliation() (*estree.Report, error) {
	reference, err := estree.LoadTable(s.cfg.Reference, "reference")
	if err != nil {
		return nil, err
	}
	community, err := estree.LoadTable(s.cfg.Community, "community")
	if err != nil {
		return nil, err
	}

	overrides := estree.NewOverrideSet()
	if s.cfg.BuiltinOverrides {
		overrides = estree.DefaultOverrides()
	}
	if s.cfg.Overrides != "" {
		fromFile, err := estree.LoadOverrides(s.cfg.Overrides)
		if err != nil {
			return nil, err
		}
		overrides = overrides.Merge(fromFile)
	}

	return estree.NewReconciler(reference, community, overrides).Reconcile()
}

// snapshot returns the current report state.
func (s *Server) snapshot() (*estree.Report, time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report, s.reconciled, s.lastErr
}
