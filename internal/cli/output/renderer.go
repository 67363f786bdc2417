// Package output renders command results in text, JSON, or markdown form.
// Commands write through a Renderer so that the same data can serve both
// interactive terminals (styled text) and scripts (JSON, plain text).
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Mode selects how command output is rendered.
type Mode string

const (
	// ModeAuto resolves to text, styled only when stdout is a terminal.
	ModeAuto Mode = "auto"
	// ModeText renders human-readable text.
	ModeText Mode = "text"
	// ModeJSON renders machine-readable JSON.
	ModeJSON Mode = "json"
	// ModeMarkdown renders markdown suitable for docs and PR comments.
	ModeMarkdown Mode = "markdown"
)

// OutputMode normalizes a user-supplied mode string. Unknown values fall
// back to ModeAuto.
func OutputMode(s string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeText:
		return ModeText
	case ModeJSON:
		return ModeJSON
	case ModeMarkdown:
		return ModeMarkdown
	default:
		return ModeAuto
	}
}

// Renderer writes command output in the selected mode.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
	styles Styles
}

// NewRenderer creates a renderer writing to the given streams. Styling is
// enabled only for text output to a terminal.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	return NewRendererWithTTY(out, errOut, isTerminal(out), mode)
}

// NewRendererWithTTY creates a renderer with explicit terminal detection,
// for tests that simulate a TTY.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode Mode) *Renderer {
	r := &Renderer{
		out:    out,
		errOut: errOut,
		mode:   mode,
	}
	r.styles = newStyles(r.EffectiveMode() == ModeText && isTTY)
	return r
}

// Mode returns the requested output mode.
func (r *Renderer) Mode() Mode {
	return r.mode
}

// EffectiveMode resolves ModeAuto to a concrete mode.
func (r *Renderer) EffectiveMode() Mode {
	if r.mode == ModeAuto || r.mode == "" {
		return ModeText
	}
	return r.mode
}

// Styles returns the style set for the renderer's output stream.
func (r *Renderer) Styles() Styles {
	return r.styles
}

// Writer returns the output stream, for encoders that write directly.
func (r *Renderer) Writer() io.Writer {
	return r.out
}

// ErrWriter returns the error stream.
func (r *Renderer) ErrWriter() io.Writer {
	return r.errOut
}

// Printf writes formatted output.
func (r *Renderer) Printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}

// Println writes a line of output.
func (r *Renderer) Println(args ...any) {
	fmt.Fprintln(r.out, args...)
}

// JSON writes v as indented JSON to the output stream.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Success writes a styled success line.
func (r *Renderer) Success(msg string) {
	r.Println(r.styles.Success.Render("✓ " + msg))
}

// Warning writes a styled warning line.
func (r *Renderer) Warning(msg string) {
	r.Println(r.styles.Warning.Render("! " + msg))
}

// Header writes a section heading. Level 1 is the page title; deeper
// levels are section titles. Markdown mode emits # headings.
func (r *Renderer) Header(level int, text string) {
	if r.EffectiveMode() == ModeMarkdown {
		r.Println(FormatHeader(level, text))
		r.Println("")
		return
	}
	style := r.styles.Header1
	if level > 1 {
		style = r.styles.Header2
	}
	r.Println(style.Render(text))
	r.Println("")
}

// StatusLine writes one indented item with a status marker. Status is
// one of "success", "error", "warning"; anything else renders neutrally.
// A non-empty detail is appended muted.
func (r *Renderer) StatusLine(name, status, detail string) {
	var marker string
	switch status {
	case "success":
		marker = r.styles.Success.Render("✓")
	case "error":
		marker = r.styles.Error.Render("✗")
	case "warning":
		marker = r.styles.Warning.Render("!")
	default:
		marker = r.styles.Muted.Render("-")
	}
	if detail != "" {
		r.Printf("  %s %s  %s\n", marker, name, r.styles.Muted.Render(detail))
		return
	}
	r.Printf("  %s %s\n", marker, name)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
