package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huxxhu/oxc/pkg/estree"
)

func TestNewInitCommand(t *testing.T) {
	tests := []struct {
		name      string
		setupDir  func(t *testing.T, dir string) // setup before running
		force     bool
		wantErr   bool
		wantFiles []string
	}{
		{
			name:    "init empty directory",
			wantErr: false,
			wantFiles: []string{
				".oxc.yaml",
				".gitignore",
				"plugins/example.star",
				"grammars/reference.yaml",
				"grammars/community.yaml",
			},
		},
		{
			name: "init existing config without force",
			setupDir: func(_ *testing.T, dir string) {
				_ = os.WriteFile(filepath.Join(dir, ".oxc.yaml"), []byte("existing"), 0600)
			},
			wantErr: true,
		},
		{
			name: "init existing config with force",
			setupDir: func(_ *testing.T, dir string) {
				_ = os.WriteFile(filepath.Join(dir, ".oxc.yaml"), []byte("existing"), 0600)
			},
			force:   true,
			wantErr: false,
			wantFiles: []string{
				".oxc.yaml",
				"plugins/example.star",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			if tt.setupDir != nil {
				tt.setupDir(t, tmpDir)
			}

			args := []string{tmpDir}
			if tt.force {
				args = append(args, "--force")
			}

			cmd := NewInitCommand()
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)
			cmd.SetArgs(args)

			err := cmd.Execute()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			for _, f := range tt.wantFiles {
				path := filepath.Join(tmpDir, f)
				_, err := os.Stat(path)
				assert.False(t, os.IsNotExist(err), "expected file %q to exist", f)
			}
		})
	}
}

func TestInitCommandMetadata(t *testing.T) {
	cmd := NewInitCommand()

	assert.Equal(t, "init [directory]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotNil(t, cmd.Flags().Lookup("force"), "--force flag should exist")
}

func TestInitCreatesValidConfig(t *testing.T) {
	tmpDir := t.TempDir()

	cmd := NewInitCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{tmpDir})

	require.NoError(t, cmd.Execute())

	content, err := os.ReadFile(filepath.Join(tmpDir, ".oxc.yaml"))
	require.NoError(t, err, "failed to read .oxc.yaml")

	expectedContents := []string{
		"dir: plugins",
		"reference: grammars/reference.yaml",
		"community: grammars/community.yaml",
		"path: grammar-report.txt",
		"path: .oxc/state.db",
	}
	for _, expected := range expectedContents {
		assert.Contains(t, string(content), expected, "config should contain %q", expected)
	}
}

func TestInitScaffoldReconciles(t *testing.T) {
	tmpDir := t.TempDir()

	cmd := NewInitCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{tmpDir})
	require.NoError(t, cmd.Execute())

	// The scaffolded grammars disagree only where the builtin override
	// corrects the community order.
	reference, community, err := loadGrammarTables(
		filepath.Join(tmpDir, "grammars", "reference.yaml"),
		filepath.Join(tmpDir, "grammars", "community.yaml"),
	)
	require.NoError(t, err)

	withOverrides, err := loadOverrideSet(true, "")
	require.NoError(t, err)
	report, err := estree.NewReconciler(reference, community, withOverrides).Reconcile()
	require.NoError(t, err)
	assert.True(t, report.Empty(), "scaffolded grammars should be compatible with builtin overrides:\n%s", report.Render())

	bare, err := estree.NewReconciler(reference, community, nil).Reconcile()
	require.NoError(t, err)
	assert.Equal(t, 1, bare.Len(), "without overrides the ExportSpecifier order should mismatch")
}
