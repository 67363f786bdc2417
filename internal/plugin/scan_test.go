package plugin

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanDir(t *testing.T) {
	dir := t.TempDir()
	writePlugin(t, dir, "imports.star", `
plugin(name = "import-order")

def helper():
    return 1

def _private():
    return 2

rule(name = "no-default-export", check = _private)
rule("sorted-imports", _private)
`)
	writePlugin(t, dir, "style.star", `
def _check(node):
    return None

rule(name = "semi", check = _check)
`)

	infos, err := ScanDir(dir)
	require.NoError(t, err)
	require.Len(t, infos, 2)

	byName := map[string]*FileInfo{}
	for _, info := range infos {
		byName[info.Name] = info
	}

	imports, ok := byName["import-order"]
	require.True(t, ok, "plugin() call sets the name")
	assert.Equal(t, filepath.Join(dir, "imports.star"), imports.Path)
	assert.Equal(t, []string{"no-default-export", "sorted-imports"}, imports.Rules)
	assert.Equal(t, []string{"helper"}, imports.Functions, "private defs are skipped")
	assert.Empty(t, imports.Err)

	style, ok := byName["style"]
	require.True(t, ok, "name falls back to the file stem")
	assert.Equal(t, []string{"semi"}, style.Rules)
}

func TestScanDir_Missing(t *testing.T) {
	infos, err := ScanDir(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Nil(t, infos)
}

func TestScanDir_NotADirectory(t *testing.T) {
	dir := t.TempDir()
	path := writePlugin(t, dir, "file.star", "x = 1\n")

	_, err := ScanDir(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestScanFile_ParseError(t *testing.T) {
	info := ScanFile("broken.star", []byte("def broken(:\n"))
	assert.Equal(t, "broken", info.Name)
	assert.NotEmpty(t, info.Err)
	assert.Empty(t, info.Rules)
}

func TestScanFile_DynamicNamesInvisible(t *testing.T) {
	src := `
_name = "computed"
rule(name = _name, check = None)
rule(name = "literal", check = None)
`
	info := ScanFile("dyn.star", []byte(src))
	assert.Equal(t, []string{"literal"}, info.Rules, "only literal names are statically visible")
}
