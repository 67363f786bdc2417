package estree

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableAdd(t *testing.T) {
	table := NewTable("reference")

	require.NoError(t, table.Add("ExportSpecifier", "local", "exported"))
	require.NoError(t, table.Add("Program", "body"))

	assert.Equal(t, "reference", table.Name())
	assert.Equal(t, 2, table.Len())

	order, ok := table.Fields("ExportSpecifier")
	require.True(t, ok)
	assert.Equal(t, FieldOrder{"local", "exported"}, order)

	_, ok = table.Fields("DoesNotExist")
	assert.False(t, ok)
}

func TestTableAdd_DuplicateType(t *testing.T) {
	table := NewTable("reference")
	require.NoError(t, table.Add("Program", "body"))

	err := table.Add("Program", "body")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate node type")
	assert.Contains(t, err.Error(), "Program")
}

func TestTableAdd_DuplicateField(t *testing.T) {
	table := NewTable("community")

	err := table.Add("BinaryExpression", "left", "right", "left")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate field")
	assert.Contains(t, err.Error(), "left")
}

func TestTableAdd_EmptyTypeName(t *testing.T) {
	table := NewTable("reference")
	err := table.Add("")
	require.Error(t, err)
}

func TestTableTypes_Sorted(t *testing.T) {
	table := NewTable("reference")
	require.NoError(t, table.Add("Program", "body"))
	require.NoError(t, table.Add("ArrayExpression", "elements"))
	require.NoError(t, table.Add("ExportSpecifier", "local", "exported"))

	assert.Equal(t, []string{"ArrayExpression", "ExportSpecifier", "Program"}, table.Types())
}

func TestTableFields_ReturnsCopy(t *testing.T) {
	table := NewTable("reference")
	require.NoError(t, table.Add("ExportSpecifier", "local", "exported"))

	order, ok := table.Fields("ExportSpecifier")
	require.True(t, ok)
	order[0] = "mutated"

	fresh, _ := table.Fields("ExportSpecifier")
	assert.Equal(t, FieldOrder{"local", "exported"}, fresh)
}

func TestParseTable(t *testing.T) {
	src := `
ExportSpecifier: [local, exported]
ImportDeclaration:
  - specifiers
  - source
Program: [body]
`
	table, err := ParseTable(strings.NewReader(src), "community")
	require.NoError(t, err)

	assert.Equal(t, 3, table.Len())
	order, ok := table.Fields("ImportDeclaration")
	require.True(t, ok)
	assert.Equal(t, FieldOrder{"specifiers", "source"}, order)
}

func TestParseTable_InvalidYAML(t *testing.T) {
	_, err := ParseTable(strings.NewReader("not: [valid"), "community")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid YAML")
}

func TestParseTable_DuplicateFieldInFile(t *testing.T) {
	_, err := ParseTable(strings.NewReader("X: [a, a]"), "community")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate field")
}

func TestLoadTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reference.yaml")
	content := "ExportSpecifier: [local, exported]\nProgram: [body]\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	table, err := LoadTable(path, "reference")
	require.NoError(t, err)
	assert.Equal(t, "reference", table.Name())
	assert.Equal(t, 2, table.Len())
}

func TestLoadTable_MissingFile(t *testing.T) {
	_, err := LoadTable(filepath.Join(t.TempDir(), "nope.yaml"), "reference")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reference")
}
