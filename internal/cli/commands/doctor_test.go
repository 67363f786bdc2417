package commands

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huxxhu/oxc/internal/cli/config"
)

func findCheck(t *testing.T, out *DoctorOutput, name string) DoctorCheck {
	t.Helper()
	for _, c := range out.Checks {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("check %q not found in %+v", name, out.Checks)
	return DoctorCheck{}
}

// scaffoldProject writes the init template into a temp dir and returns a
// config pointing at it.
func scaffoldProject(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, copyTemplate("project", dir, false))

	return &config.Config{
		ProjectRoot: dir,
		Plugins: config.PluginsConfig{
			Dir:        filepath.Join(dir, "plugins"),
			Specifiers: []string{"example"},
		},
		Grammar: config.GrammarConfig{
			Reference:        filepath.Join(dir, "grammars", "reference.yaml"),
			Community:        filepath.Join(dir, "grammars", "community.yaml"),
			BuiltinOverrides: true,
		},
		Report: config.ReportConfig{Path: filepath.Join(dir, "grammar-report.txt")},
		State:  config.StateConfig{Path: ":memory:"},
	}
}

func TestBuildDoctorOutput_ScaffoldedProject(t *testing.T) {
	cfg := scaffoldProject(t)

	out := buildDoctorOutput(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.Equal(t, "pass", findCheck(t, out, "project root").Status)

	plugins := findCheck(t, out, "plugin directory")
	assert.Equal(t, "pass", plugins.Status)
	assert.Equal(t, "1 files", plugins.Detail)

	assert.Equal(t, "pass", findCheck(t, out, "specifier example").Status)

	reference := findCheck(t, out, "reference grammar")
	assert.Equal(t, "pass", reference.Status)
	assert.Equal(t, "9 node types", reference.Detail)
	assert.Equal(t, "pass", findCheck(t, out, "community grammar").Status)

	overrides := findCheck(t, out, "overrides")
	assert.Equal(t, "pass", overrides.Status)
	assert.Equal(t, "1 entries", overrides.Detail)

	assert.Equal(t, "pass", findCheck(t, out, "report path").Status)

	stateDB := findCheck(t, out, "state database")
	assert.Equal(t, "pass", stateDB.Status)
	assert.Contains(t, stateDB.Detail, "schema version")

	// No config file is loaded in tests, so that one check warns.
	assert.Equal(t, "warn", findCheck(t, out, "config file").Status)
	assert.Equal(t, 1, out.IssueCount)
	assert.False(t, out.Healthy)
}

func TestBuildDoctorOutput_MissingPieces(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		ProjectRoot: dir,
		Plugins: config.PluginsConfig{
			Dir:        filepath.Join(dir, "no-such-plugins"),
			Specifiers: []string{"ghost"},
		},
		Grammar: config.GrammarConfig{
			Overrides: filepath.Join(dir, "no-such-overrides.yaml"),
		},
		Report: config.ReportConfig{Path: filepath.Join(dir, "missing", "report.txt")},
	}

	out := buildDoctorOutput(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.Equal(t, "warn", findCheck(t, out, "plugin directory").Status)
	assert.Equal(t, "error", findCheck(t, out, "specifier ghost").Status)
	assert.Equal(t, "warn", findCheck(t, out, "reference grammar").Status)
	assert.Equal(t, "warn", findCheck(t, out, "community grammar").Status)
	assert.Equal(t, "error", findCheck(t, out, "overrides").Status)
	assert.Equal(t, "warn", findCheck(t, out, "report path").Status)
	assert.Equal(t, "warn", findCheck(t, out, "state database").Status)

	assert.False(t, out.Healthy)
	assert.Greater(t, out.IssueCount, 5)
}
