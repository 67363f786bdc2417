package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/huxxhu/oxc/internal/cli/output"
	"github.com/huxxhu/oxc/internal/state"
	"github.com/huxxhu/oxc/pkg/estree"
)

// NewGrammarCommand creates the grammar command group.
func NewGrammarCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grammar",
		Short: "Reconcile ESTree grammar field orders",
		Long: `Compare the community ESTree grammar against the reference grammar.

Both grammars declare, per node type, the order in which AST fields are
visited. The check subcommand verifies that the community order is
traversal-compatible with the reference order for every shared node
type and writes a report of the types that disagree.`,
	}

	cmd.AddCommand(newGrammarCheckCommand())
	cmd.AddCommand(newGrammarShowCommand())
	cmd.AddCommand(newGrammarHistoryCommand())
	cmd.AddCommand(newGrammarBrowseCommand())

	return cmd
}

// GrammarCheckOptions holds options for the grammar check command.
type GrammarCheckOptions struct {
	NoRecord bool
	NoFail   bool
}

func newGrammarCheckCommand() *cobra.Command {
	opts := &GrammarCheckOptions{}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check community field orders against the reference grammar",
		Long: `Reconcile the community grammar with the reference grammar.

Overrides are applied to the community table before comparison: the
builtin corrections first, then entries from the grammar.overrides file,
later entries winning per type. Each override must be a permutation of
the order it replaces.

The rendered mismatch report is written to the report path. An empty
report file means the grammars are traversal-compatible.`,
		Example: `  # Check the grammars configured in .oxc.yaml
  oxc grammar check

  # Check explicit grammar documents
  oxc grammar check --reference docs/reference.yaml --community docs/community.yaml

  # Report mismatches without failing the process
  oxc grammar check --no-fail

  # Machine-readable report
  oxc grammar check -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGrammarCheck(cmd, opts)
		},
	}

	cmd.Flags().String("reference", "", "Path to the reference grammar document")
	cmd.Flags().String("community", "", "Path to the community grammar document")
	cmd.Flags().String("overrides", "", "Path to a YAML file of order corrections")
	cmd.Flags().Bool("builtin-overrides", true, "Apply the builtin order corrections")
	cmd.Flags().String("report", "", "Path the mismatch report is written to")
	cmd.Flags().BoolVar(&opts.NoRecord, "no-record", false, "Do not record the run in the run history")
	cmd.Flags().BoolVar(&opts.NoFail, "no-fail", false, "Exit zero even when mismatches are found")

	return cmd
}

// reconcileOutput is the JSON payload for grammar check.
type reconcileOutput struct {
	RunID      string `json:"run_id,omitempty"`
	ReportPath string `json:"report_path"`
	*estree.Report
}

func runGrammarCheck(cmd *cobra.Command, opts *GrammarCheckOptions) error {
	c := NewCommandContext(cmd)
	r := c.Renderer

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

	var store state.Store
	cleanup := func() {}
	if !opts.NoRecord {
		store, cleanup, err = c.openStore()
		if err != nil {
			return fmt.Errorf("failed to open run history: %w", err)
		}
	}
	defer cleanup()

	runID := ""
	if store != nil {
		run, err := store.CreateReconcileRun(c.Cfg.Grammar.Reference, c.Cfg.Grammar.Community)
		if err != nil {
			c.Logger.Warn("failed to record reconcile run", "error", err)
		} else {
			runID = run.ID
		}
	}

	report, err := estree.NewReconciler(reference, community, overrides).Reconcile()
	if err != nil {
		return err
	}

	if err := report.WriteFile(c.Cfg.Report.Path); err != nil {
		return err
	}

	if store != nil && runID != "" {
		if err := store.CompleteReconcileRun(runID, report.Len(), report.Render()); err != nil {
			c.Logger.Warn("failed to complete reconcile run", "run_id", runID, "error", err)
		}
	}

	renderReconcileReport(r, c.Cfg.Report.Path, runID, report)

	if !report.Empty() && !opts.NoFail {
		return fmt.Errorf("%d field-order mismatches found", report.Len())
	}
	return nil
}

// loadGrammarTables loads the two grammar documents.
func loadGrammarTables(referencePath, communityPath string) (*estree.Table, *estree.Table, error) {
	reference, err := estree.LoadTable(referencePath, "reference")
	if err != nil {
		return nil, nil, err
	}
	community, err := estree.LoadTable(communityPath, "community")
	if err != nil {
		return nil, nil, err
	}
	return reference, community, nil
}

// loadOverrideSet assembles the effective override set: builtin entries
// first, file entries after so they win per type.
func loadOverrideSet(builtin bool, path string) (*estree.OverrideSet, error) {
	set := estree.NewOverrideSet()
	if builtin {
		set = estree.DefaultOverrides()
	}
	if path != "" {
		fromFile, err := estree.LoadOverrides(path)
		if err != nil {
			return nil, err
		}
		set = set.Merge(fromFile)
	}
	return set, nil
}

func renderReconcileReport(r *output.Renderer, reportPath, runID string, report *estree.Report) {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		_ = r.JSON(reconcileOutput{
			RunID:      runID,
			ReportPath: reportPath,
			Report:     report,
		})

	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Grammar Reconciliation"))
		r.Println("")
		r.Println(output.FormatKeyValue("Shared types", fmt.Sprintf("%d", report.Shared)))
		r.Println(output.FormatKeyValue("Mismatches", fmt.Sprintf("%d", report.Len())))
		r.Println(output.FormatKeyValue("Report", reportPath))
		if !report.Empty() {
			r.Println("")
			r.Println("```")
			r.Println(report.Render())
			r.Println("```")
		}

	default:
		if !report.Empty() {
			r.Println(report.Render())
			r.Println("")
		}
		if report.Empty() {
			r.Success(fmt.Sprintf("Grammars are traversal-compatible (%d shared types)", report.Shared))
		} else {
			r.Warning(fmt.Sprintf("%d of %d shared types mismatch", report.Len(), report.Shared))
		}
		r.Printf("Report written to %s\n", reportPath)
	}
}

func newGrammarShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [type]",
		Short: "Show field orders for node types",
		Long: `Show the declared field orders of both grammars.

With a node type argument, shows the reference order, the community
order as declared, and the community order after overrides. Without an
argument, lists every node type with its reconciliation status.`,
		Example: `  # List all node types and their status
  oxc grammar show

  # Inspect one node type
  oxc grammar show BinaryExpression`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return runGrammarShowType(cmd, args[0])
			}
			return runGrammarShowAll(cmd)
		},
	}

	cmd.Flags().String("reference", "", "Path to the reference grammar document")
	cmd.Flags().String("community", "", "Path to the community grammar document")
	cmd.Flags().String("overrides", "", "Path to a YAML file of order corrections")
	cmd.Flags().Bool("builtin-overrides", true, "Apply the builtin order corrections")

	return cmd
}

// typeOrders is the JSON payload for grammar show with a type argument.
type typeOrders struct {
	Type      string            `json:"type"`
	Reference estree.FieldOrder `json:"reference,omitempty"`
	Declared  estree.FieldOrder `json:"community_declared,omitempty"`
	Effective estree.FieldOrder `json:"community_effective,omitempty"`
	Mismatch  *estree.Mismatch  `json:"mismatch,omitempty"`
}

func runGrammarShowType(cmd *cobra.Command, nodeType string) error {
	c := NewCommandContext(cmd)
	r := c.Renderer

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
	effective, err := overrides.Apply(community)
	if err != nil {
		return err
	}

	refOrder, inRef := reference.Fields(nodeType)
	declOrder, inComm := community.Fields(nodeType)
	if !inRef && !inComm {
		return fmt.Errorf("node type %q not found in either grammar", nodeType)
	}

	orders := typeOrders{Type: nodeType, Reference: refOrder, Declared: declOrder}
	if effOrder, ok := effective.Fields(nodeType); ok {
		orders.Effective = effOrder
	}
	if inRef && inComm {
		orders.Mismatch = estree.CompareOrders(nodeType, refOrder, orders.Effective)
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(orders)
	}

	styles := r.Styles()
	r.Println(styles.Header2.Render(nodeType))
	r.Println(formatOrderLine("reference", orders.Reference, inRef))
	r.Println(formatOrderLine("declared", orders.Declared, inComm))
	if inComm {
		r.Println(formatOrderLine("effective", orders.Effective, true))
	}
	switch {
	case !inRef:
		r.Warning("Only the community grammar declares this type")
	case !inComm:
		r.Warning("Only the reference grammar declares this type")
	case orders.Mismatch != nil:
		r.Warning("Field orders mismatch")
	default:
		r.Success("Field orders are compatible")
	}
	return nil
}

func formatOrderLine(label string, order estree.FieldOrder, present bool) string {
	if !present {
		return fmt.Sprintf("  %-10s (not declared)", label)
	}
	if len(order) == 0 {
		return fmt.Sprintf("  %-10s (no fields)", label)
	}
	return fmt.Sprintf("  %-10s %s", label, strings.Join(order, ", "))
}

// typeStatus is one row of the grammar show listing.
type typeStatus struct {
	Type   string `json:"type"`
	Status string `json:"status"`
}

func runGrammarShowAll(cmd *cobra.Command) error {
	c := NewCommandContext(cmd)
	r := c.Renderer

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
	effective, err := overrides.Apply(community)
	if err != nil {
		return err
	}

	statuses := collectTypeStatuses(reference, effective)

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(statuses)
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Type", "Status"})
	for _, s := range statuses {
		t.AppendRow(table.Row{s.Type, s.Status})
	}
	t.Render()
	return nil
}

// collectTypeStatuses classifies every node type from either grammar, in
// name order.
func collectTypeStatuses(reference, community *estree.Table) []typeStatus {
	seen := make(map[string]bool)
	var types []string
	for _, nodeType := range reference.Types() {
		seen[nodeType] = true
		types = append(types, nodeType)
	}
	for _, nodeType := range community.Types() {
		if !seen[nodeType] {
			types = append(types, nodeType)
		}
	}
	sort.Strings(types)

	statuses := make([]typeStatus, 0, len(types))
	for _, nodeType := range types {
		refOrder, inRef := reference.Fields(nodeType)
		commOrder, inComm := community.Fields(nodeType)
		status := "ok"
		switch {
		case !inComm:
			status = "reference only"
		case !inRef:
			status = "community only"
		case estree.CompareOrders(nodeType, refOrder, commOrder) != nil:
			status = "mismatch"
		}
		statuses = append(statuses, typeStatus{Type: nodeType, Status: status})
	}
	return statuses
}

// GrammarHistoryOptions holds options for the grammar history command.
type GrammarHistoryOptions struct {
	Limit int
}

func newGrammarHistoryCommand() *cobra.Command {
	opts := &GrammarHistoryOptions{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded reconciliation runs",
		Long: `Show the reconciliation runs recorded in the state database,
newest first.`,
		Example: `  # Show the last 20 runs
  oxc grammar history

  # Show the last 5 runs as JSON
  oxc grammar history --limit 5 -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGrammarHistory(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "Maximum number of runs to show")

	return cmd
}

func runGrammarHistory(cmd *cobra.Command, opts *GrammarHistoryOptions) error {
	c := NewCommandContext(cmd)
	r := c.Renderer

	store, cleanup, err := c.openStore()
	if err != nil {
		return fmt.Errorf("failed to open run history: %w", err)
	}
	defer cleanup()
	if store == nil {
		return fmt.Errorf("run history is disabled: set state.path in .oxc.yaml")
	}

	runs, err := store.ListReconcileRuns(opts.Limit)
	if err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(runs)
	}

	if len(runs) == 0 {
		r.Println("No reconciliation runs recorded")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Run", "Started", "Completed", "Mismatches"})
	for _, run := range runs {
		completed := "-"
		mismatches := "-"
		if run.CompletedAt != nil {
			completed = run.CompletedAt.Local().Format("2006-01-02 15:04:05")
			mismatches = fmt.Sprintf("%d", run.MismatchCount)
		}
		t.AppendRow(table.Row{
			shortID(run.ID),
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			completed,
			mismatches,
		})
	}
	t.Render()
	return nil
}

// shortID truncates a UUID for table display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
