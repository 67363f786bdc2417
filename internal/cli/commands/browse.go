package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/huxxhu/oxc/internal/ui"
	"github.com/huxxhu/oxc/pkg/estree"
)

func newGrammarBrowseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse grammar mismatches interactively",
		Long: `Reconcile the grammars and open a terminal browser over the result.

The browser lists every mismatched node type with both field orders.
Type / to filter, q or ctrl+c to quit.`,
		Example: `  # Browse the mismatches between the configured grammars
  oxc grammar browse

  # Browse without the builtin order corrections
  oxc grammar browse --builtin-overrides=false`,
		RunE: runGrammarBrowse,
	}

	cmd.Flags().String("reference", "", "Path to the reference grammar document")
	cmd.Flags().String("community", "", "Path to the community grammar document")
	cmd.Flags().String("overrides", "", "Path to a YAML file of order corrections")
	cmd.Flags().Bool("builtin-overrides", true, "Apply the builtin order corrections")

	return cmd
}

func runGrammarBrowse(cmd *cobra.Command, _ []string) error {
	c := NewCommandContext(cmd)

	if err := c.Cfg.ValidateGrammarPaths(); err != nil {
		return err
	}
	reference, community, err := loadGrammarTables(c.Cfg.Grammar.Reference, c.Cfg.Grammar.Community)
	if err != nil {
		return err
	}
	overrides, err := loadOverrideSet(c.Cfg.Grammar.BuiltinOverrides, c.Cfg.Grammar.Overrides)
	if err != nil {
		return err
	}

	report, err := estree.NewReconciler(reference, community, overrides).Reconcile()
	if err != nil {
		return err
	}

	return ui.Browse(report, time.Now())
}
