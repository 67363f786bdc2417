// Package bridge is the boundary through which a host engine delegates
// plugin loading and rule execution. The bridge owns the capability
// implementations; the host owns the call cadence.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/huxxhu/oxc/internal/plugin"
)

// ErrLintNotImplemented is returned by the Lint hook: rule execution is
// reserved but not wired yet. It signals a build gap, not a plugin
// failure, so it is an error that must abort the run rather than a
// plugin.Result value.
var ErrLintNotImplemented = errors.New("lint execution is not implemented")

// Hooks are the two capabilities handed to the host engine.
//
// LoadPlugin never fails as an error: whatever goes wrong during the
// load comes back as a Failure result with a string message. Lint
// currently always fails with ErrLintNotImplemented.
type Hooks struct {
	LoadPlugin func(ctx context.Context, specifier string) plugin.Result
	Lint       func(ctx context.Context, path string) error
}

// Host drives one lint session. Run blocks until the session completes
// and reports its boolean completion signal; a false signal or an error
// maps to a non-zero process exit.
type Host interface {
	Run(ctx context.Context, hooks Hooks) (bool, error)
}

// Bridge wires one registry and one host together for a single process
// invocation.
type Bridge struct {
	host     Host
	registry *plugin.Registry
	log      *slog.Logger
}

// New creates a bridge. The registry is the single owned instance for
// this process; both hooks close over it.
func New(host Host, registry *plugin.Registry, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Bridge{
		host:     host,
		registry: registry,
		log:      logger,
	}
}

// Run hands the capabilities to the host engine and blocks until its
// pass completes, passing the completion signal through. A Lint
// invocation aborts the session: the hook's error carries
// ErrLintNotImplemented and is never converted into a result value.
func (b *Bridge) Run(ctx context.Context) (bool, error) {
	hooks := Hooks{
		LoadPlugin: func(ctx context.Context, specifier string) plugin.Result {
			return b.registry.GetOrLoad(ctx, specifier)
		},
		Lint: func(_ context.Context, path string) error {
			b.log.Error("lint hook invoked", "path", path)
			return fmt.Errorf("lint %s: %w", path, ErrLintNotImplemented)
		},
	}

	b.log.Debug("handing capabilities to host engine")
	ok, err := b.host.Run(ctx, hooks)
	if err != nil {
		return false, fmt.Errorf("host engine: %w", err)
	}
	b.log.Debug("host engine completed", "ok", ok)
	return ok, nil
}
