// Package config loads CLI configuration from .oxc.yaml, environment
// variables, and command-line flags, in ascending precedence.
package config

// PluginsConfig holds plugin discovery configuration.
type PluginsConfig struct {
	// Dir is the directory relative specifiers resolve against.
	Dir string `koanf:"dir"`
	// Specifiers are the plugins loaded at the start of a lint session.
	Specifiers []string `koanf:"specifiers"`
}

// GrammarConfig holds the grammar documents used by reconciliation.
type GrammarConfig struct {
	// Reference is the path to the reference grammar document.
	Reference string `koanf:"reference"`
	// Community is the path to the community grammar document.
	Community string `koanf:"community"`
	// Overrides is an optional path to extra field-order overrides.
	Overrides string `koanf:"overrides"`
	// BuiltinOverrides applies the built-in override set when true.
	BuiltinOverrides bool `koanf:"builtin_overrides"`
}

// ReportConfig holds mismatch report output configuration.
type ReportConfig struct {
	Path string `koanf:"path"`
}

// StateConfig holds run-history database configuration.
type StateConfig struct {
	Path string `koanf:"path"`
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Host  string `koanf:"host"`
	Port  int    `koanf:"port"`
	Watch bool   `koanf:"watch"`
}

// Config holds all CLI configuration options.
type Config struct {
	LogLevel     string        `koanf:"log_level"`
	LogFormat    string        `koanf:"log_format"`
	OutputFormat string        `koanf:"output"`
	Verbose      bool          `koanf:"verbose"`
	Plugins      PluginsConfig `koanf:"plugins"`
	Grammar      GrammarConfig `koanf:"grammar"`
	Report       ReportConfig  `koanf:"report"`
	State        StateConfig   `koanf:"state"`
	Server       ServerConfig  `koanf:"server"`

	// ProjectRoot is the directory relative paths resolve against.
	// Inferred at load time, never read from the config file.
	ProjectRoot string `koanf:"-"`
}

// Default configuration values.
const (
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"
	DefaultOutput     = "auto"
	DefaultPluginsDir = "plugins"
	DefaultReportPath = "grammar-report.txt"
	DefaultStateFile  = ".oxc/state.db"
	DefaultServerHost = "127.0.0.1"
	DefaultServerPort = 8708
)
