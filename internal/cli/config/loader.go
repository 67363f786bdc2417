package config

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// loggerKey is used to store the logger in context.
type loggerKey struct{}

// maxUpwardSearchLevels limits how far up the directory tree to search for config files.
const maxUpwardSearchLevels = 10

// configFileNames are the config file candidates, in priority order.
var configFileNames = []string{".oxc.yaml", ".oxc.yml"}

// Package-level koanf instance and config file tracking
var (
	k              = koanf.New(".")
	configFileUsed string
	currentConfig  *Config
)

// configExistsIn checks if an oxc config file exists in the directory.
func configExistsIn(dir string) bool {
	for _, name := range configFileNames {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// findProjectRootUpward searches upward from startDir for a config file.
// Returns empty string if not found within maxUpwardSearchLevels.
func findProjectRootUpward(startDir string) string {
	dir := startDir
	for i := 0; i < maxUpwardSearchLevels; i++ {
		if configExistsIn(dir) {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}
	return ""
}

// inferProjectRoot determines the project root.
// Priority:
//  1. Directory of an explicit --config file
//  2. Search upward from CWD for .oxc.yaml
//  3. Current working directory
func inferProjectRoot(cfgFile string) string {
	if cfgFile != "" {
		if abs, err := filepath.Abs(cfgFile); err == nil {
			return filepath.Dir(abs)
		}
	}

	if cwd, err := os.Getwd(); err == nil {
		if root := findProjectRootUpward(cwd); root != "" {
			return root
		}
	}

	cwd, _ := os.Getwd()
	if cwd == "" {
		cwd = "."
	}
	return cwd
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
// Returns the path unchanged if it's empty or already absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// ResetConfig resets the koanf instance. Used for testing.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
	currentConfig = nil
}

// flagKeyOverrides maps flag names to config keys where the mechanical
// kebab-to-snake transform does not produce the nested key.
var flagKeyOverrides = map[string]string{
	"plugins-dir":       "plugins.dir",
	"plugin":            "plugins.specifiers",
	"reference":         "grammar.reference",
	"community":         "grammar.community",
	"overrides":         "grammar.overrides",
	"builtin-overrides": "grammar.builtin_overrides",
	"report":            "report.path",
	"state":             "state.path",
	"host":              "server.host",
	"port":              "server.port",
	"watch":             "server.watch",
}

// LoadConfig loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	// Reset koanf for fresh load
	k = koanf.New(".")

	projectRoot := inferProjectRoot(cfgFile)

	// Paths provided as flags are relative to CWD, not the project root.
	// Convert them to absolute before the normal resolution step.
	flagPaths := map[string]string{}
	if flags != nil {
		for _, name := range []string{"plugins-dir", "reference", "community", "overrides", "report", "state"} {
			if !flags.Changed(name) {
				continue
			}
			if v, _ := flags.GetString(name); v != "" {
				if abs, err := filepath.Abs(v); err == nil {
					flagPaths[name] = abs
				}
			}
		}
	}

	// 1. Load defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"log_level":                 DefaultLogLevel,
		"log_format":                DefaultLogFormat,
		"output":                    DefaultOutput,
		"verbose":                   false,
		"plugins.dir":               DefaultPluginsDir,
		"grammar.builtin_overrides": true,
		"report.path":               DefaultReportPath,
		"state.path":                DefaultStateFile,
		"server.host":               DefaultServerHost,
		"server.port":               DefaultServerPort,
		"server.watch":              false,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Find and load config file
	if cfgFile == "" {
		for _, name := range configFileNames {
			candidate := filepath.Join(projectRoot, name)
			if _, err := os.Stat(candidate); err == nil {
				cfgFile = candidate
				break
			}
		}
	}
	configFileUsed = cfgFile
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Load environment variables (OXC_ prefix)
	// Transform: OXC_LOG_LEVEL -> log_level, OXC_SERVER__PORT -> server.port
	// (double underscore separates nesting levels)
	if err := k.Load(env.Provider("OXC_", ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, "OXC_"))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Load flags (highest priority - overrides env vars and config file)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			// Only load flags that were explicitly set
			if !f.Changed {
				return "", nil
			}

			key := strings.ReplaceAll(f.Name, "-", "_")
			if mapped, ok := flagKeyOverrides[f.Name]; ok {
				key = mapped
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// 6. Set project root and resolve relative paths
	cfg.ProjectRoot = projectRoot

	resolve := func(flagName, value string) string {
		if abs, ok := flagPaths[flagName]; ok {
			return abs
		}
		return resolvePathRelativeTo(expandEnvVars(value), projectRoot)
	}
	cfg.Plugins.Dir = resolve("plugins-dir", cfg.Plugins.Dir)
	cfg.Grammar.Reference = resolve("reference", cfg.Grammar.Reference)
	cfg.Grammar.Community = resolve("community", cfg.Grammar.Community)
	cfg.Grammar.Overrides = resolve("overrides", cfg.Grammar.Overrides)
	cfg.Report.Path = resolve("report", cfg.Report.Path)
	cfg.State.Path = resolve("state", cfg.State.Path)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Store config for access by commands
	currentConfig = &cfg

	return &cfg, nil
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCurrentConfig returns the currently loaded configuration.
// This is available after LoadConfig is called.
func GetCurrentConfig() *Config {
	return currentConfig
}

// LoggerKey returns the context key used for storing the logger.
// This allows the commands package to retrieve the logger from context
// without creating an import cycle with the cli package.
func LoggerKey() interface{} {
	return loggerKey{}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	// Return discard logger as safe fallback
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// expandEnvVars expands ${VAR} patterns in a string with environment variable values.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match // Return original if not found
	})
}
