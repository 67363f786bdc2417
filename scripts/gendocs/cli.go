package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/huxxhu/oxc/internal/cli"
)

// skipCommand filters cobra's synthetic and hidden commands out of the
// generated reference.
func skipCommand(cmd *cobra.Command) bool {
	return cmd.Hidden || cmd.Name() == "help" || cmd.Name() == "__complete"
}

// generateCLIDocs walks the cobra command tree and writes one markdown
// page per top-level command plus an index.
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	rootCmd := cli.NewRootCmd()

	if err := writePage(outDir, "index", indexPage(rootCmd)); err != nil {
		return fmt.Errorf("failed to generate index: %w", err)
	}
	log.Printf("  Generated index.md")

	for _, cmd := range rootCmd.Commands() {
		if skipCommand(cmd) {
			continue
		}
		if err := writePage(outDir, cmd.Name(), commandPage(cmd)); err != nil {
			return fmt.Errorf("failed to generate page for %s: %w", cmd.Name(), err)
		}
		log.Printf("  Generated %s.md", cmd.Name())
	}
	return nil
}

// writePage writes one rendered document under outDir.
func writePage(outDir, name string, w *MarkdownWriter) error {
	return os.WriteFile(filepath.Join(outDir, name+".md"), w.Bytes(), 0600)
}

// indexPage renders the CLI overview: command table, global flags,
// environment variables, exit codes.
func indexPage(rootCmd *cobra.Command) *MarkdownWriter {
	w := NewMarkdownWriter()

	w.Frontmatter("CLI Reference", "Command-line interface reference for oxc")
	w.GeneratedMarker()

	w.Header(1, "CLI Reference")
	w.Paragraph("Oxc provides a command-line interface for running lint sessions with Starlark plugins and reconciling the community ESTree grammar against the reference grammar.")

	w.Header(2, "Installation")
	w.CodeBlock("bash", "go install github.com/huxxhu/oxc/cmd/oxc@latest")

	w.Header(2, "Basic Usage")
	w.CodeBlock("bash", "oxc <command> [options]")

	w.Header(2, "Commands")
	var rows [][]string
	for _, cmd := range rootCmd.Commands() {
		if skipCommand(cmd) {
			continue
		}
		link := fmt.Sprintf("[%s](/cli/%s)", InlineCode(cmd.Name()), cmd.Name())
		rows = append(rows, []string{link, cleanDescription(cmd.Short)})
	}
	w.Table([]string{"Command", "Description"}, rows)

	w.Header(2, "Global Options")
	w.Paragraph("These flags are available for all commands:")
	writeFlagsTable(w, rootCmd.PersistentFlags())

	w.Header(2, "Environment Variables")
	w.Paragraph("Oxc respects these environment variables. Double underscores separate nesting levels:")
	w.Table([]string{"Variable", "Description"}, [][]string{
		{InlineCode("OXC_LOG_LEVEL"), "Log level (debug, info, warn, error)"},
		{InlineCode("OXC_LOG_FORMAT"), "Log format (text, json)"},
		{InlineCode("OXC_OUTPUT"), "Output format (auto, text, markdown, json)"},
		{InlineCode("OXC_PLUGINS__DIR"), "Default plugin directory"},
		{InlineCode("OXC_REPORT__PATH"), "Default mismatch report path"},
		{InlineCode("OXC_STATE__PATH"), "Default run-history database path"},
		{InlineCode("OXC_SERVER__HOST"), "Default report server host"},
		{InlineCode("OXC_SERVER__PORT"), "Default report server port"},
	})
	w.Paragraph("Command-line flags take precedence over environment variables.")

	w.Header(2, "Exit Codes")
	w.Table([]string{"Code", "Meaning"}, [][]string{
		{InlineCode("0"), "Success"},
		{InlineCode("1"), "Error (check stderr for details)"},
	})

	w.Header(2, "Getting Help")
	w.CodeBlock("bash", `# General help
oxc help
oxc --help

# Command-specific help
oxc grammar check --help`)

	return w
}

// commandPage renders the reference page for a single command.
func commandPage(cmd *cobra.Command) *MarkdownWriter {
	w := NewMarkdownWriter()

	w.Frontmatter(cmd.Name(), cmd.Short)
	w.GeneratedMarker()

	w.Header(1, cmd.Name())
	if cmd.Long != "" {
		w.Paragraph(cmd.Long)
	} else {
		w.Paragraph(cmd.Short)
	}

	w.Header(2, "Usage")
	w.CodeBlock("bash", usageLine(cmd))

	if len(cmd.Aliases) > 0 {
		w.Header(2, "Aliases")
		aliases := make([]string, 0, len(cmd.Aliases))
		for _, alias := range cmd.Aliases {
			aliases = append(aliases, InlineCode(alias))
		}
		w.BulletList(aliases)
	}

	if cmd.HasSubCommands() {
		w.Header(2, "Subcommands")
		var rows [][]string
		for _, sub := range cmd.Commands() {
			if sub.Hidden {
				continue
			}
			rows = append(rows, []string{InlineCode(sub.Name()), cleanDescription(sub.Short)})
		}
		w.Table([]string{"Subcommand", "Description"}, rows)
	}

	if cmd.HasLocalFlags() {
		w.Header(2, "Options")
		writeFlagsTable(w, cmd.LocalFlags())
	}
	if cmd.HasInheritedFlags() {
		w.Header(2, "Global Options")
		writeFlagsTable(w, cmd.InheritedFlags())
	}

	if cmd.Example != "" {
		w.Header(2, "Examples")
		w.CodeBlock("bash", dedent(cmd.Example))
	}

	return w
}

// usageLine normalizes cobra's use line so every page starts with the
// binary name.
func usageLine(cmd *cobra.Command) string {
	if cmd.HasSubCommands() {
		return fmt.Sprintf("oxc %s <subcommand> [options]", cmd.Name())
	}
	if line := cmd.UseLine(); strings.HasPrefix(line, "oxc") {
		return line
	}
	return "oxc " + cmd.UseLine()
}

// writeFlagsTable renders a flag set as an option table. String defaults
// are shown as inline code so empty and whitespace values stay visible.
func writeFlagsTable(w *MarkdownWriter, flags *pflag.FlagSet) {
	var rows [][]string
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		short := ""
		if f.Shorthand != "" {
			short = "-" + f.Shorthand
		}
		defVal := f.DefValue
		if f.Value.Type() == "string" && defVal != "" {
			defVal = InlineCode(defVal)
		}
		rows = append(rows, []string{
			InlineCode("--" + f.Name),
			short,
			defVal,
			cleanDescription(f.Usage),
		})
	})
	w.Table([]string{"Option", "Short", "Default", "Description"}, rows)
}

// dedent strips the common leading whitespace cobra examples carry from
// their Go source indentation.
func dedent(text string) string {
	lines := strings.Split(text, "\n")

	minIndent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		if minIndent == -1 || indent < minIndent {
			minIndent = indent
		}
	}
	if minIndent <= 0 {
		return strings.TrimSpace(text)
	}

	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if len(line) >= minIndent {
			out = append(out, line[minIndent:])
		} else {
			out = append(out, strings.TrimLeft(line, " \t"))
		}
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
