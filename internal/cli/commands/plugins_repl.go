package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
	"go.starlark.net/starlark"

	"github.com/huxxhu/oxc/internal/plugin"
	starctx "github.com/huxxhu/oxc/internal/starlark"
)

// replState carries the live objects the REPL dot-commands operate on.
type replState struct {
	registry *plugin.Registry
	session  *starctx.Session
}

func newPluginsReplCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactive Starlark session with loaded plugins",
		Long: `Start an interactive Starlark session.

Plugins loaded with .load (or preloaded from plugins.specifiers) have
their exports bound under the plugin name, with hyphens mapped to
underscores. Input is evaluated as a single Starlark expression.`,
		Example: `  # Start a session with the configured plugins preloaded
  oxc plugins repl

  # Start an empty session
  oxc plugins repl --no-preload`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			noPreload, _ := cmd.Flags().GetBool("no-preload")
			return runPluginsRepl(cmd, noPreload)
		},
	}

	cmd.Flags().Bool("no-preload", false, "Do not load the configured plugins at startup")

	return cmd
}

func runPluginsRepl(cmd *cobra.Command, noPreload bool) error {
	ctx := cmd.Context()
	c := NewCommandContext(cmd)

	loader := plugin.NewLoader(c.Cfg.Plugins.Dir, c.Logger)
	st := &replState{
		registry: plugin.NewRegistry(loader, c.Logger),
		session:  starctx.NewSession(nil),
	}

	// Keep the history next to the run-history database.
	historyFile := ""
	if c.Cfg.State.Path != "" {
		historyFile = filepath.Join(filepath.Dir(c.Cfg.State.Path), "repl_history")
		_ = os.MkdirAll(filepath.Dir(historyFile), 0o755)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "oxc> ",
		HistoryFile:     historyFile,
		AutoComplete:    newReplCompleter(st.session),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Oxc plugin REPL (plugins: %s)\n", c.Cfg.Plugins.Dir)
	_, _ = fmt.Fprintln(out, "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(out)

	if !noPreload {
		for _, spec := range c.Cfg.Plugins.Specifiers {
			loadIntoRepl(ctx, cmd, st, spec)
		}
	}

	lineNo := 0
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ".") {
			if quit := handleReplCommand(ctx, cmd, st, line); quit {
				break
			}
			continue
		}

		lineNo++
		value, err := st.session.Eval(line, "<repl>", lineNo)
		if err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			continue
		}
		if value != starlark.None {
			_, _ = fmt.Fprintln(out, value.String())
		}
	}

	return nil
}

// handleReplCommand dispatches a dot-command. It reports whether the
// REPL should exit.
func handleReplCommand(ctx context.Context, cmd *cobra.Command, st *replState, line string) bool {
	out := cmd.OutOrStdout()
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printReplHelp(out)

	case ".load":
		if len(parts) < 2 {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Usage: .load <specifier>")
			return false
		}
		loadIntoRepl(ctx, cmd, st, parts[1])

	case ".plugins":
		plugins := st.registry.Plugins()
		if len(plugins) == 0 {
			_, _ = fmt.Fprintln(out, "No plugins loaded")
			return false
		}
		for _, p := range plugins {
			_, _ = fmt.Fprintf(out, "%s  (%d rules)  %s\n", p.Name, len(p.Rules), p.Path)
		}

	case ".rules":
		plugins := st.registry.Plugins()
		count := 0
		for _, p := range plugins {
			for _, rule := range p.Rules {
				_, _ = fmt.Fprintf(out, "%s/%s  %s\n", p.Name, rule.Name, rule.Severity)
				count++
			}
		}
		if count == 0 {
			_, _ = fmt.Fprintln(out, "No rules declared")
		}

	case ".globals":
		names := st.session.Names()
		if len(names) == 0 {
			_, _ = fmt.Fprintln(out, "No globals bound")
			return false
		}
		_, _ = fmt.Fprintln(out, strings.Join(names, "  "))

	case ".clear":
		fmt.Print("\033[H\033[2J")

	default:
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Unknown command: %s (type .help for commands)\n", command)
	}
	return false
}

// loadIntoRepl loads one specifier through the registry and binds the
// plugin exports as a session namespace.
func loadIntoRepl(ctx context.Context, cmd *cobra.Command, st *replState, spec string) {
	result := st.registry.GetOrLoad(ctx, spec)
	if !result.OK() {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s: %s\n", spec, result.Message())
		return
	}

	rec, found := st.registry.Get(spec)
	if !found || rec.Plugin == nil {
		return
	}
	p := rec.Plugin

	binding := replIdent(p.Name)
	if err := st.session.AddNamespace(binding, p.Exports); err != nil {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Loaded %s (%d rules) as %s\n", p.Name, len(p.Rules), binding)
}

// replIdent maps a plugin name to a valid Starlark identifier.
func replIdent(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

func printReplHelp(w io.Writer) {
	help := `
Commands:
  .help              Show this help message
  .load <specifier>  Load a plugin and bind its exports
  .plugins           List loaded plugins
  .rules             List rules declared by loaded plugins
  .globals           List bound global names
  .clear             Clear the screen
  .quit / .exit      Exit the REPL

Tips:
  - Input is evaluated as a single Starlark expression
  - A failed load is recorded; fix the file and restart to retry
  - Tab completion works for globals and commands
`
	_, _ = fmt.Fprintln(w, help)
}

// newReplCompleter completes dot-commands and the session's bound
// globals. The dynamic item re-reads the session on every completion so
// names from .load show up immediately.
func newReplCompleter(session *starctx.Session) *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItemDynamic(func(string) []string { return session.Names() }),
		readline.PcItem(".help"),
		readline.PcItem(".load"),
		readline.PcItem(".plugins"),
		readline.PcItem(".rules"),
		readline.PcItem(".globals"),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}
