package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/huxxhu/oxc/internal/server"
	"github.com/huxxhu/oxc/internal/state"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	NoRecord bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the grammar reconciliation report over HTTP",
		Long: `Start a local HTTP server that reconciles the configured grammars and
serves the result.

The server reconciles once on startup and again on every POST to
/api/reconcile. With --watch it also re-reconciles whenever a grammar
document changes on disk.

Endpoints:
- GET  /healthz         liveness probe
- GET  /report          report in the text artifact form
- GET  /api/report      report with mismatch details
- GET  /api/mismatches  current mismatches
- POST /api/reconcile   reconcile now
- GET  /api/runs        recorded reconcile runs`,
		Example: `  # Serve on the configured host and port
  oxc serve

  # Serve on a custom port, re-reconciling on grammar edits
  oxc serve --port 9000 --watch`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().String("host", "", "Host to bind (default: 127.0.0.1)")
	cmd.Flags().Int("port", 0, "Port to serve on (default: 8708)")
	cmd.Flags().Bool("watch", false, "Re-reconcile when grammar documents change")
	cmd.Flags().BoolVar(&opts.NoRecord, "no-record", false, "Do not record reconcile runs in the run history")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	c := NewCommandContext(cmd)

	if err := c.Cfg.ValidateGrammarPaths(); err != nil {
		return err
	}

	var store state.Store
	cleanup := func() {}
	if !opts.NoRecord {
		var err error
		store, cleanup, err = c.openStore()
		if err != nil {
			return fmt.Errorf("failed to open run history: %w", err)
		}
	}
	defer cleanup()

	srv := server.New(server.Config{
		Host:             c.Cfg.Server.Host,
		Port:             c.Cfg.Server.Port,
		Watch:            c.Cfg.Server.Watch,
		Reference:        c.Cfg.Grammar.Reference,
		Community:        c.Cfg.Grammar.Community,
		Overrides:        c.Cfg.Grammar.Overrides,
		BuiltinOverrides: c.Cfg.Grammar.BuiltinOverrides,
		ReportPath:       c.Cfg.Report.Path,
		Store:            store,
		Logger:           c.Logger,
	})

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		c.Renderer.Println("\nShutting down...")
		cancel()
	}()

	c.Renderer.Printf("Serving grammar report on http://%s:%d\n", c.Cfg.Server.Host, c.Cfg.Server.Port)
	if c.Cfg.Server.Watch {
		c.Renderer.Println("Watching grammar documents for changes")
	}
	c.Renderer.Println("Press Ctrl+C to stop")

	return srv.Serve(ctx)
}
