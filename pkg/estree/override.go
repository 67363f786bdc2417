package estree

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Override replaces the community grammar's declared field order for one
// node type. The replacement must be a permutation of the order it
// replaces: overrides correct ordering mistakes, they never add or drop
// fields.
type Override struct {
	Type  string
	Order FieldOrder
}

// OverrideSet is a fixed list of manually authored order corrections
// applied to the community table before comparison.
type OverrideSet struct {
	entries []Override
}

// NewOverrideSet builds an override set from the given entries. An empty
// set is valid and applies as the identity transform.
func NewOverrideSet(entries ...Override) *OverrideSet {
	s := &OverrideSet{entries: make([]Override, len(entries))}
	copy(s.entries, entries)
	return s
}

// DefaultOverrides returns the curated corrections shipped with the
// tool. Each entry documents a place where the community grammar's
// declared order disagrees with the traversal order the reference
// grammar actually produces.
func DefaultOverrides() *OverrideSet {
	return NewOverrideSet(
		// The community grammar declares exported before local, but both
		// parsers visit the local binding first.
		Override{Type: "ExportSpecifier", Order: FieldOrder{"local", "exported"}},
	)
}

// LoadOverrides reads override entries from a YAML file in the same
// node-type to field-list format used by grammar tables.
func LoadOverrides(path string) (*OverrideSet, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from project configuration
	if err != nil {
		return nil, fmt.Errorf("overrides: %w", err)
	}

	raw := make(map[string][]string)
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("overrides: invalid YAML: %w", err)
	}

	types := make([]string, 0, len(raw))
	for nodeType := range raw {
		types = append(types, nodeType)
	}
	sort.Strings(types)

	entries := make([]Override, 0, len(types))
	for _, nodeType := range types {
		entries = append(entries, Override{Type: nodeType, Order: FieldOrder(raw[nodeType]).clone()})
	}
	return NewOverrideSet(entries...), nil
}

// Merge returns a set containing the receiver's entries followed by the
// other set's. Later entries win when both name the same type.
func (s *OverrideSet) Merge(other *OverrideSet) *OverrideSet {
	if other == nil || len(other.entries) == 0 {
		return s
	}
	if s == nil {
		return other
	}
	merged := make(map[string]FieldOrder, len(s.entries)+len(other.entries))
	order := make([]string, 0, len(s.entries)+len(other.entries))
	for _, e := range s.entries {
		if _, seen := merged[e.Type]; !seen {
			order = append(order, e.Type)
		}
		merged[e.Type] = e.Order
	}
	for _, e := range other.entries {
		if _, seen := merged[e.Type]; !seen {
			order = append(order, e.Type)
		}
		merged[e.Type] = e.Order
	}
	entries := make([]Override, 0, len(order))
	for _, typ := range order {
		entries = append(entries, Override{Type: typ, Order: merged[typ]})
	}
	return NewOverrideSet(entries...)
}

// Entries returns a copy of the override entries in application order.
func (s *OverrideSet) Entries() []Override {
	if s == nil {
		return nil
	}
	out := make([]Override, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of overrides in the set.
func (s *OverrideSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Apply produces a corrected copy of the community table. For each
// entry the replacement order must cover exactly the field names the
// table currently records for that type; any difference in membership or
// cardinality, or a type the table does not know, is a configuration
// bug reported as an *OverrideError. The input table is never mutated.
// A nil or empty set returns the input table unchanged.
func (s *OverrideSet) Apply(community *Table) (*Table, error) {
	if s == nil || len(s.entries) == 0 {
		return community, nil
	}

	corrected := community.clone()
	for _, e := range s.entries {
		current, ok := corrected.types[e.Type]
		if !ok {
			return nil, &OverrideError{
				Type:   e.Type,
				Detail: fmt.Sprintf("node type not present in %s grammar", community.name),
			}
		}
		if err := checkPermutation(current, e.Order); err != nil {
			return nil, &OverrideError{Type: e.Type, Detail: err.Error()}
		}
		corrected.types[e.Type] = e.Order.clone()
	}
	return corrected, nil
}

// checkPermutation verifies that replacement reorders exactly the names
// in current.
func checkPermutation(current, replacement FieldOrder) error {
	if len(current) != len(replacement) {
		return fmt.Errorf("replacement has %d fields, grammar has %d (replacement: %s; grammar: %s)",
			len(replacement), len(current), joinFields(replacement), joinFields(current))
	}
	have := make(map[string]struct{}, len(current))
	for _, f := range current {
		have[f] = struct{}{}
	}
	for _, f := range replacement {
		if _, ok := have[f]; !ok {
			return fmt.Errorf("replacement field %q not in grammar order %s", f, joinFields(current))
		}
		delete(have, f)
	}
	return nil
}

func joinFields(order FieldOrder) string {
	if len(order) == 0 {
		return "(none)"
	}
	return strings.Join(order, ", ")
}

// OverrideError reports an override whose replacement order is not a
// permutation of the grammar's current order for the named type. It is
// a configuration-authoring bug: callers abort rather than recover.
type OverrideError struct {
	Type   string
	Detail string
}

func (e *OverrideError) Error() string {
	return fmt.Sprintf("override for %s: %s", e.Type, e.Detail)
}
