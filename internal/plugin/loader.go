package plugin

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"go.starlark.net/starlark"

	starctx "github.com/huxxhu/oxc/internal/starlark"
)

// Severities a rule declaration may use.
var allowedSeverities = map[string]struct{}{
	"error": {},
	"warn":  {},
	"info":  {},
}

// Loader performs the dynamic load of one plugin module per call.
// Specifiers without a path separator name files in the plugin
// directory; explicit relative paths resolve against it too.
type Loader struct {
	dir  string
	pool *starctx.ThreadPool
	log  *slog.Logger
}

// NewLoader creates a loader rooted at the plugin directory.
func NewLoader(dir string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Loader{
		dir:  dir,
		pool: starctx.NewThreadPool(4),
		log:  logger,
	}
}

// Resolve maps a specifier to the .star file it names.
func (l *Loader) Resolve(specifier string) string {
	path := specifier
	if !strings.HasSuffix(path, ".star") {
		path += ".star"
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(l.dir, path)
	}
	return path
}

// Load reads, executes and validates the plugin named by specifier.
// Loading may suspend for as long as the module's top level runs; a
// cancelled context interrupts it. All failures come back as
// *LoadError carrying the verbatim cause message - Load never panics,
// whatever the plugin does.
func (l *Loader) Load(ctx context.Context, specifier string) (p *Plugin, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			p = nil
			err = &LoadError{Specifier: specifier, Message: classify(rec)}
		}
	}()

	path := l.Resolve(specifier)
	content, err := os.ReadFile(path) //nolint:gosec // G304: path comes from the configured plugin directory
	if err != nil {
		return nil, &LoadError{
			Specifier: specifier,
			Message:   fmt.Sprintf("cannot read plugin: %v", err),
		}
	}

	p = &Plugin{
		Specifier: specifier,
		Name:      strings.TrimSuffix(filepath.Base(path), ".star"),
		Path:      path,
	}

	thread := l.pool.Get(fmt.Sprintf("load:%s", specifier))
	defer l.pool.Put(thread)
	stop := starctx.BindContext(ctx, thread)
	defer stop()

	globals, err := starlark.ExecFile(thread, path, content, l.predeclared(p)) //nolint:staticcheck // SA1019: will migrate to ExecFileOptions later
	if err != nil {
		return nil, &LoadError{Specifier: specifier, Message: err.Error()}
	}

	if len(p.Rules) == 0 {
		return nil, &LoadError{Specifier: specifier, Message: "plugin declares no rules"}
	}
	if err := validatePluginName(p.Name); err != nil {
		return nil, &LoadError{Specifier: specifier, Message: err.Error()}
	}

	// Filter exports (exclude names starting with _)
	exports := make(starlark.StringDict)
	for name, value := range globals {
		if !strings.HasPrefix(name, "_") {
			exports[name] = value
		}
	}
	p.Exports = exports

	l.log.Debug("loaded plugin",
		"specifier", specifier,
		"name", p.Name,
		"rules", len(p.Rules))
	return p, nil
}

// predeclared builds the declaration DSL for one load. The builtins
// close over the plugin under construction.
func (l *Loader) predeclared(p *Plugin) starlark.StringDict {
	return starlark.StringDict{
		"plugin": starlark.NewBuiltin("plugin", func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var name string
			if err := starlark.UnpackArgs(b.Name(), args, kwargs, "name", &name); err != nil {
				return nil, err
			}
			if name == "" {
				return nil, fmt.Errorf("plugin: name cannot be empty")
			}
			p.Name = name
			return starlark.None, nil
		}),
		"rule": starlark.NewBuiltin("rule", func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var (
				name     string
				check    starlark.Callable
				severity = "warn"
				meta     *starlark.Dict
			)
			if err := starlark.UnpackArgs(b.Name(), args, kwargs,
				"name", &name,
				"check", &check,
				"severity?", &severity,
				"meta?", &meta,
			); err != nil {
				return nil, err
			}
			if name == "" {
				return nil, fmt.Errorf("rule: name cannot be empty")
			}
			if _, ok := allowedSeverities[severity]; !ok {
				return nil, fmt.Errorf("rule %s: invalid severity %q", name, severity)
			}
			if _, exists := p.Rule(name); exists {
				return nil, fmt.Errorf("rule %s: declared twice", name)
			}

			rule := &Rule{Name: name, Severity: severity, Check: check}
			if meta != nil {
				converted, err := starctx.ToGo(meta)
				if err != nil {
					return nil, fmt.Errorf("rule %s: meta: %w", name, err)
				}
				rule.Meta, _ = converted.(map[string]any)
			}
			p.Rules = append(p.Rules, rule)
			return starlark.None, nil
		}),
	}
}

// validatePluginName checks if a plugin name is valid.
func validatePluginName(name string) error {
	if name == "" {
		return fmt.Errorf("plugin name cannot be empty")
	}
	for i, r := range name {
		if i == 0 {
			if !isLetter(r) && r != '_' {
				return fmt.Errorf("plugin name must start with letter or underscore: %s", name)
			}
		} else {
			if !isLetter(r) && !isDigit(r) && r != '_' && r != '-' {
				return fmt.Errorf("plugin name contains invalid character: %s", name)
			}
		}
	}
	return nil
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
