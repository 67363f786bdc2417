package estree

// Reconciler drives CompareOrders across every node type both grammars
// know about. Overrides are applied to the community table first; types
// known to only one grammar are skipped, since no comparison is
// meaningful for them.
type Reconciler struct {
	reference *Table
	community *Table
	overrides *OverrideSet
}

// NewReconciler wires a reconciliation run. overrides may be nil.
func NewReconciler(reference, community *Table, overrides *OverrideSet) *Reconciler {
	return &Reconciler{
		reference: reference,
		community: community,
		overrides: overrides,
	}
}

// Reconcile applies the overrides and compares field orders for every
// shared node type, collecting mismatches sorted by type name. The only
// error path is an invalid override; mismatches themselves are report
// data, and an empty report is the success condition.
func (r *Reconciler) Reconcile() (*Report, error) {
	community, err := r.overrides.Apply(r.community)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Reference: r.reference.Name(),
		Community: r.community.Name(),
		Shared:    0,
	}
	for _, nodeType := range r.reference.Types() {
		communityOrder, ok := community.Fields(nodeType)
		if !ok {
			continue
		}
		report.Shared++
		referenceOrder, _ := r.reference.Fields(nodeType)
		if m := CompareOrders(nodeType, referenceOrder, communityOrder); m != nil {
			report.Mismatches = append(report.Mismatches, *m)
		}
	}
	return report, nil
}
