package estree

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportRender(t *testing.T) {
	report := &Report{
		Mismatches: []Mismatch{
			{
				Type:      "ExportSpecifier",
				Kind:      KindOrderViolation,
				Field:     "local",
				Reference: FieldOrder{"local", "exported"},
				Community: FieldOrder{"exported", "local"},
			},
			{
				Type:    "X",
				Kind:    KindMissingFields,
				Missing: []string{"d"},
			},
		},
	}

	want := "ExportSpecifier: field `local` out of order\n" +
		"  reference: local, exported\n" +
		"  community: exported, local\n" +
		"\n" +
		"X: fields not in reference grammar: d"
	assert.Equal(t, want, report.Render())
}

func TestReportRender_NoTrailingBlankLine(t *testing.T) {
	report := &Report{
		Mismatches: []Mismatch{
			{Type: "A", Kind: KindMissingFields, Missing: []string{"x"}},
			{Type: "B", Kind: KindMissingFields, Missing: []string{"y", "z"}},
		},
	}

	out := report.Render()
	assert.False(t, strings.HasSuffix(out, "\n"), "render must not end with a newline")
	assert.Contains(t, out, "A: fields not in reference grammar: x\n\nB:")
}

func TestReportRender_Empty(t *testing.T) {
	report := &Report{}
	assert.True(t, report.Empty())
	assert.Equal(t, "", report.Render())
}

func TestReportWriteFile(t *testing.T) {
	report := &Report{
		Mismatches: []Mismatch{
			{Type: "X", Kind: KindMissingFields, Missing: []string{"d"}},
		},
	}

	path := filepath.Join(t.TempDir(), "out", "grammar-report.txt")
	require.NoError(t, report.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "X: fields not in reference grammar: d\n", string(data))
}

func TestReportWriteFile_EmptyReport(t *testing.T) {
	report := &Report{}
	path := filepath.Join(t.TempDir(), "grammar-report.txt")
	require.NoError(t, report.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data, "an empty report writes an empty artifact")
}

func TestReportJSON(t *testing.T) {
	report := &Report{
		Reference: "reference",
		Community: "community",
		Shared:    2,
		Mismatches: []Mismatch{
			{
				Type:      "ExportSpecifier",
				Kind:      KindOrderViolation,
				Field:     "local",
				Reference: FieldOrder{"local", "exported"},
				Community: FieldOrder{"exported", "local"},
			},
		},
	}

	data, err := json.Marshal(report)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "reference", decoded["reference"])
	assert.Equal(t, float64(2), decoded["shared_types"])

	mismatches, ok := decoded["mismatches"].([]any)
	require.True(t, ok)
	require.Len(t, mismatches, 1)
	first, ok := mismatches[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "order_violation", first["kind"])
	assert.Equal(t, "local", first["field"])
}
