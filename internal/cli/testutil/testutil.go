// Package testutil provides helpers for testing command output.
package testutil

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/huxxhu/oxc/internal/cli/output"
)

// TestRenderer is a Renderer whose stdout and stderr are captured in
// buffers for inspection. The TTY flag is forced off so styled escape
// sequences never leak into assertions.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

func newTestRenderer(mode output.Mode) *TestRenderer {
	tr := &TestRenderer{
		Out:    &bytes.Buffer{},
		ErrOut: &bytes.Buffer{},
	}
	tr.Renderer = output.NewRendererWithTTY(tr.Out, tr.ErrOut, false, mode)
	return tr
}

// NewTestRendererText returns a capturing renderer in text mode.
func NewTestRendererText() *TestRenderer {
	return newTestRenderer(output.ModeText)
}

// NewTestRendererMarkdown returns a capturing renderer in markdown mode.
func NewTestRendererMarkdown() *TestRenderer {
	return newTestRenderer(output.ModeMarkdown)
}

// NewTestRendererJSON returns a capturing renderer in JSON mode.
func NewTestRendererJSON() *TestRenderer {
	return newTestRenderer(output.ModeJSON)
}

// Output returns everything written to stdout so far.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// Reset clears both capture buffers.
func (tr *TestRenderer) Reset() {
	tr.Out.Reset()
	tr.ErrOut.Reset()
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI fails the test when s contains ANSI escape sequences.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertContains fails the test when s lacks the expected substring.
func AssertContains(t *testing.T, s, expected string) {
	t.Helper()
	if !strings.Contains(s, expected) {
		t.Errorf("string %q does not contain expected %q", s, expected)
	}
}

// AssertValidMarkdown checks the structural basics of rendered
// markdown: balanced code fences and no empty headers.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	if fences := strings.Count(md, "```"); fences%2 != 0 {
		t.Errorf("unbalanced code fences in markdown: found %d occurrences", fences)
	}
	for i, line := range strings.Split(md, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
	}
}
