package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/huxxhu/oxc/pkg/estree"
)

// generateOverrideDocs generates the builtin grammar override reference page.
func generateOverrideDocs(outDir string) error {
	log.Printf("Generating override docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	overrides := estree.DefaultOverrides()

	w := NewMarkdownWriter()

	w.Frontmatter("Grammar Overrides", "Builtin field-order corrections for the community grammar")
	w.GeneratedMarker()

	w.Header(1, "Grammar Overrides")
	w.Paragraph("The community grammar declares some node types in documentation order rather than traversal order. Before comparing the grammars, oxc replaces those orders with the corrections below.")

	w.Header(2, "Builtin Corrections")
	w.Paragraph(fmt.Sprintf("Oxc ships %d builtin correction entries. They are applied first, so entries from an override file win per node type.", overrides.Len()))

	headers := []string{"Node Type", "Corrected Order"}
	var rows [][]string
	for _, entry := range overrides.Entries() {
		rows = append(rows, []string{
			InlineCode(entry.Type),
			strings.Join(entry.Order, ", "),
		})
	}
	w.Table(headers, rows)

	w.Header(2, "Override Files")
	w.Paragraph("Additional corrections come from the file named by " + InlineCode("grammar.overrides") + " in " + InlineCode(".oxc.yaml") + " or by the " + InlineCode("--overrides") + " flag. The file maps node types to their corrected field orders:")
	w.CodeBlock("yaml", `ExportSpecifier:
  - local
  - exported`)

	w.Header(2, "Permutation Constraint")
	w.Paragraph("An override must be a permutation of the order it replaces: the same fields, rearranged. An entry that adds, drops, or misspells a field fails the reconciliation before any comparison runs.")

	return os.WriteFile(filepath.Join(outDir, "overrides.md"), w.Bytes(), 0600)
}
