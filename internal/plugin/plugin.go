// Package plugin loads Starlark analysis plugins and tracks their load
// outcomes. A plugin is a .star file that declares lint rules through
// the rule() builtin; the registry guarantees each specifier is loaded
// at most once and hands the host a typed success/failure result.
package plugin

import (
	"fmt"
	"sort"

	"go.starlark.net/starlark"
)

// Rule is one lint rule declared by a plugin via the rule() builtin.
type Rule struct {
	// Name identifies the rule within its plugin, e.g. "no-default-export".
	Name string

	// Severity is the default severity: "error", "warn" or "info".
	Severity string

	// Meta carries optional rule metadata from the declaration.
	Meta map[string]any

	// Check is the Starlark callable invoked per matched node.
	Check starlark.Callable
}

// Plugin is a successfully loaded plugin module.
type Plugin struct {
	// Specifier is the identifier the plugin was requested under.
	Specifier string

	// Name is the declared plugin name, defaulting to the file stem.
	Name string

	// Path is the resolved .star file path.
	Path string

	// Rules holds the declared rules in declaration order.
	Rules []*Rule

	// Exports contains the file's public globals (names not starting
	// with _), exposed to the REPL as a namespace.
	Exports starlark.StringDict
}

// Rule returns the named rule.
func (p *Plugin) Rule(name string) (*Rule, bool) {
	for _, r := range p.Rules {
		if r.Name == name {
			return r, true
		}
	}
	return nil, false
}

// RuleNames returns the declared rule names in sorted order.
func (p *Plugin) RuleNames() []string {
	names := make([]string, 0, len(p.Rules))
	for _, r := range p.Rules {
		names = append(names, r.Name)
	}
	sort.Strings(names)
	return names
}

// LoadError describes a failed plugin load. Message is the verbatim
// human-readable cause carried across the bridge.
type LoadError struct {
	Specifier string
	Message   string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("plugin %s: %s", e.Specifier, e.Message)
}
