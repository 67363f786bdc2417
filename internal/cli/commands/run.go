package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/huxxhu/oxc/internal/bridge"
	"github.com/huxxhu/oxc/internal/cli/output"
	"github.com/huxxhu/oxc/internal/engine"
	"github.com/huxxhu/oxc/internal/plugin"
	"github.com/huxxhu/oxc/internal/state"
)

// RunOptions holds options for the run command.
type RunOptions struct {
	NoRecord bool
}

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	opts := &RunOptions{}

	cmd := &cobra.Command{
		Use:   "run [paths...]",
		Short: "Run a lint session with the configured plugins",
		Long: `Start a lint session: load every configured plugin, then lint the
given paths.

Plugins come from the plugins.specifiers list in .oxc.yaml or from
repeated --plugin flags. A plugin that fails to load is reported and the
session completes with a failure signal, but the remaining plugins still
load. Rule execution is not wired yet, so passing paths aborts the
session.`,
		Example: `  # Load the configured plugins and report their status
  oxc run

  # Load specific plugins for this session only
  oxc run --plugin ./rules/no-debugger.star --plugin style

  # Skip recording the session in the run history
  oxc run --no-record`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd, args, opts)
		},
	}

	cmd.Flags().StringSlice("plugin", nil, "Plugin specifier to load (repeatable)")
	cmd.Flags().BoolVar(&opts.NoRecord, "no-record", false, "Do not record plugin loads in the run history")

	return cmd
}

func runSession(cmd *cobra.Command, paths []string, opts *RunOptions) error {
	c := NewCommandContext(cmd)

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

	loader := plugin.NewLoader(c.Cfg.Plugins.Dir, c.Logger)
	registry := plugin.NewRegistry(loader, c.Logger)

	session := engine.NewSession(engine.Config{
		Specifiers: c.Cfg.Plugins.Specifiers,
		Paths:      paths,
		Logger:     c.Logger,
	}, store)

	b := bridge.New(session, registry, c.Logger)
	ok, err := b.Run(cmd.Context())
	if err != nil {
		return err
	}

	renderRunOutcome(c.Renderer, session.ID(), ok, paths, registry)

	if !ok {
		return fmt.Errorf("lint session failed")
	}
	return nil
}

// renderRunOutcome reports the per-plugin load outcomes and the session
// signal.
func renderRunOutcome(r *output.Renderer, sessionID string, ok bool, paths []string, registry *plugin.Registry) {
	outcomes := collectOutcomes(registry)

	if r.EffectiveMode() == output.ModeJSON {
		_ = r.JSON(output.RunOutput{
			SessionID: sessionID,
			OK:        ok,
			Plugins:   outcomes,
			Paths:     paths,
		})
		return
	}

	styles := r.Styles()
	for _, o := range outcomes {
		if o.OK {
			rules := "no rules"
			if len(o.Rules) > 0 {
				rules = fmt.Sprintf("%d rules", len(o.Rules))
			}
			r.Printf("  %s  %s (%s)\n", styles.Success.Render("ok"), o.Specifier, rules)
		} else {
			r.Printf("  %s  %s: %s\n", styles.Error.Render("failed"), o.Specifier, o.Message)
		}
	}
	if len(outcomes) == 0 {
		r.Println("No plugins configured")
	}

	if ok {
		r.Success(fmt.Sprintf("Session %s completed", sessionID))
	} else {
		r.Warning(fmt.Sprintf("Session %s completed with failures", sessionID))
	}
}

// collectOutcomes flattens the registry records for rendering, in
// specifier order.
func collectOutcomes(registry *plugin.Registry) []output.PluginOutcome {
	specs := registry.Specifiers()
	outcomes := make([]output.PluginOutcome, 0, len(specs))
	for _, spec := range specs {
		rec, found := registry.Get(spec)
		if !found {
			continue
		}
		o := output.PluginOutcome{
			Specifier: spec,
			OK:        rec.Result.OK(),
		}
		if rec.Plugin != nil {
			o.Rules = rec.Plugin.RuleNames()
		}
		if !rec.Result.OK() {
			o.Message = rec.Result.Message()
		}
		outcomes = append(outcomes, o)
	}
	return outcomes
}
