package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huxxhu/oxc/internal/plugin"
)

const styleTestPlugin = `
plugin(name = "style")

def _check(node):
    return None

rule(name = "no-var", check = _check, severity = "warn")
rule(name = "no-debugger", check = _check)
`

func TestCollectOutcomes(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "style.star"), []byte(styleTestPlugin), 0o644))

	registry := plugin.NewRegistry(plugin.NewLoader(dir, nil), nil)

	res := registry.GetOrLoad(context.Background(), "style")
	require.True(t, res.OK(), "style plugin should load: %s", res.Message())
	registry.GetOrLoad(context.Background(), "missing")

	outcomes := collectOutcomes(registry)
	require.Len(t, outcomes, 2)

	// Specifier order is sorted, so the failed load comes first.
	assert.Equal(t, "missing", outcomes[0].Specifier)
	assert.False(t, outcomes[0].OK)
	assert.NotEmpty(t, outcomes[0].Message)
	assert.Empty(t, outcomes[0].Rules)

	assert.Equal(t, "style", outcomes[1].Specifier)
	assert.True(t, outcomes[1].OK)
	assert.Empty(t, outcomes[1].Message)
	assert.Equal(t, []string{"no-debugger", "no-var"}, outcomes[1].Rules)
}

func TestRunCommand_NoPluginsConfigured(t *testing.T) {
	cmd := NewRunCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--no-record"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "No plugins configured")
	assert.Contains(t, buf.String(), "completed")
}
