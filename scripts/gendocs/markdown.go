package main

import (
	"bytes"
	"fmt"
	"strings"
)

// MarkdownWriter accumulates a markdown document.
type MarkdownWriter struct {
	buf bytes.Buffer
}

// NewMarkdownWriter creates an empty markdown document.
func NewMarkdownWriter() *MarkdownWriter {
	return &MarkdownWriter{}
}

// Line writes a raw line.
func (w *MarkdownWriter) Line(s string) {
	w.buf.WriteString(s)
	w.buf.WriteByte('\n')
}

// Newline writes a blank line.
func (w *MarkdownWriter) Newline() {
	w.buf.WriteByte('\n')
}

// Frontmatter writes the YAML frontmatter block.
func (w *MarkdownWriter) Frontmatter(title, description string) {
	w.Line("---")
	w.Line(fmt.Sprintf("title: %s", title))
	w.Line(fmt.Sprintf("description: %s", description))
	w.Line("---")
	w.Newline()
}

// GeneratedMarker writes a comment marking the file as generated.
func (w *MarkdownWriter) GeneratedMarker() {
	w.Line("<!-- Generated by scripts/gendocs. DO NOT EDIT. -->")
	w.Newline()
}

// Header writes a header at the given level followed by a blank line.
func (w *MarkdownWriter) Header(level int, text string) {
	w.Line(strings.Repeat("#", level) + " " + text)
	w.Newline()
}

// Paragraph writes a paragraph followed by a blank line.
func (w *MarkdownWriter) Paragraph(text string) {
	w.Line(text)
	w.Newline()
}

// CodeBlock writes a fenced code block.
func (w *MarkdownWriter) CodeBlock(lang, code string) {
	w.Line("```" + lang)
	w.Line(code)
	w.Line("```")
	w.Newline()
}

// BulletList writes a bullet list followed by a blank line.
func (w *MarkdownWriter) BulletList(items []string) {
	for _, item := range items {
		w.Line("- " + item)
	}
	w.Newline()
}

// Table writes a markdown table followed by a blank line.
func (w *MarkdownWriter) Table(headers []string, rows [][]string) {
	w.Line("| " + strings.Join(headers, " | ") + " |")

	separators := make([]string, len(headers))
	for i := range separators {
		separators[i] = "---"
	}
	w.Line("| " + strings.Join(separators, " | ") + " |")

	for _, row := range rows {
		w.Line("| " + strings.Join(row, " | ") + " |")
	}
	w.Newline()
}

// Bytes returns the accumulated document.
func (w *MarkdownWriter) Bytes() []byte {
	return w.buf.Bytes()
}

// InlineCode wraps a string in backticks.
func InlineCode(s string) string {
	return "`" + s + "`"
}

// cleanDescription flattens a multi-line description to a single line.
func cleanDescription(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
