// Package estree reconciles two independently maintained syntax-tree
// grammars: the reference grammar emitted by the engine's own parser and
// the community grammar that third-party tooling is written against.
//
// # Model
//
// A grammar is a Table mapping each node type to its canonical field
// order. Field order is semantically meaningful: it is the traversal
// order visitors observe, so two grammars are only interchangeable when
// every shared node type's fields appear in compatible orders.
//
// Compatibility is deliberately weaker than equality. CompareOrders
// accepts any community order that is an order-consistent subsequence of
// the reference order; the reference grammar may carry extra fields the
// community grammar does not know about. Two failure shapes exist:
//
//   - MissingFields: the community order names fields the reference
//     grammar lacks. Order checking is skipped for such types.
//   - OrderViolation: two community fields appear in reversed relative
//     order compared to the reference grammar.
//
// # Overrides
//
// Where the community grammar's declared order is known-incorrect, an
// OverrideSet replaces individual type orders before comparison. An
// override must be a pure permutation of the order it replaces; anything
// that adds or removes a field name is a configuration bug and fails
// loudly with an OverrideError rather than silently changing semantics.
//
// # Reconciliation
//
// The Reconciler walks the node types present in both tables, compares
// each pair of orders, and aggregates mismatches into a Report sorted by
// type name. Mismatches are data, not errors: the only error a
// reconciliation run can produce is an invalid override. An empty Report
// means the grammars are traversal-compatible.
//
//	ref, _ := estree.LoadTable("grammars/reference.yaml", "reference")
//	com, _ := estree.LoadTable("grammars/community.yaml", "community")
//	report, err := estree.NewReconciler(ref, com, estree.DefaultOverrides()).Reconcile()
//	if err != nil {
//		// broken override configuration, abort
//	}
//	if !report.Empty() {
//		fmt.Println(report.Render())
//	}
package estree
