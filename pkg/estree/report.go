package estree

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Report is the aggregated outcome of one reconciliation run. Mismatches
// are sorted by node-type name, at most one per type. An empty report
// means the grammars are traversal-compatible.
type Report struct {
	Reference  string     `json:"reference"`
	Community  string     `json:"community"`
	Shared     int        `json:"shared_types"`
	Mismatches []Mismatch `json:"mismatches"`
}

// Empty reports whether the run found no mismatches.
func (r *Report) Empty() bool {
	return len(r.Mismatches) == 0
}

// Len returns the number of mismatched node types.
func (r *Report) Len() int {
	return len(r.Mismatches)
}

// Render serializes the mismatches to the stable text form consumed by
// humans and CI diffs: one block per type, blocks separated by a single
// blank line, no trailing blank line. An empty report renders as the
// empty string.
func (r *Report) Render() string {
	var b strings.Builder
	for i, m := range r.Mismatches {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(renderBlock(m))
	}
	return b.String()
}

// renderBlock formats a single mismatch without a trailing newline.
func renderBlock(m Mismatch) string {
	switch m.Kind {
	case KindMissingFields:
		return fmt.Sprintf("%s: fields not in reference grammar: %s",
			m.Type, strings.Join(m.Missing, ", "))
	case KindOrderViolation:
		return fmt.Sprintf("%s: field `%s` out of order\n  reference: %s\n  community: %s",
			m.Type, m.Field, joinFields(m.Reference), joinFields(m.Community))
	default:
		return fmt.Sprintf("%s: unknown mismatch", m.Type)
	}
}

// WriteFile writes the rendered report to path, creating parent
// directories as needed. Non-empty reports get a final newline so the
// artifact ends like a regular text file; an empty report produces an
// empty file, which is how CI detects success.
func (r *Report) WriteFile(path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("report: %w", err)
		}
	}
	content := r.Render()
	if content != "" {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	return nil
}
