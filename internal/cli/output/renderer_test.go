package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputMode(t *testing.T) {
	tests := []struct {
		input string
		want  Mode
	}{
		{"text", ModeText},
		{"json", ModeJSON},
		{"markdown", ModeMarkdown},
		{"auto", ModeAuto},
		{"JSON", ModeJSON},
		{" text ", ModeText},
		{"", ModeAuto},
		{"yaml", ModeAuto},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, OutputMode(tt.input))
		})
	}
}

func TestRenderer_EffectiveMode(t *testing.T) {
	var buf bytes.Buffer

	r := NewRenderer(&buf, &buf, ModeAuto)
	assert.Equal(t, ModeText, r.EffectiveMode())
	assert.Equal(t, ModeAuto, r.Mode())

	r = NewRenderer(&buf, &buf, ModeJSON)
	assert.Equal(t, ModeJSON, r.EffectiveMode())
}

func TestRenderer_PlainStylesWhenPiped(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, &buf, ModeText)

	// A buffer is not a terminal, so styled output must be plain text.
	r.Println(r.Styles().Error.Render("failed"))
	assert.Equal(t, "failed\n", buf.String())
}

func TestRenderer_Printf(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, &buf, ModeText)

	r.Printf("%d mismatches\n", 3)
	assert.Equal(t, "3 mismatches\n", buf.String())
}

func TestRenderer_JSON(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, &buf, ModeJSON)

	require.NoError(t, r.JSON(map[string]int{"mismatches": 2}))
	assert.JSONEq(t, `{"mismatches": 2}`, buf.String())
}

func TestRenderer_StatusLines(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, &buf, ModeText)

	r.Success("all plugins loaded")
	r.Warning("no grammar configured")

	assert.Contains(t, buf.String(), "✓ all plugins loaded")
	assert.Contains(t, buf.String(), "! no grammar configured")
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "# Title", FormatHeader(1, "Title"))
	assert.Equal(t, "## Section", FormatHeader(2, "Section"))
	assert.Equal(t, "# Clamped", FormatHeader(0, "Clamped"))
	assert.Equal(t, "**Key:** value", FormatKeyValue("Key", "value"))
}
