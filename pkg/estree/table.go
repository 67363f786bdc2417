package estree

import (
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// FieldOrder is the ordered list of field names for one node type.
// Order is the traversal order visitors observe; names never repeat.
type FieldOrder []string

// clone returns an independent copy of the order.
func (o FieldOrder) clone() FieldOrder {
	if o == nil {
		return nil
	}
	out := make(FieldOrder, len(o))
	copy(out, o)
	return out
}

// Table maps node-type names to their canonical field orders.
// Tables are built once via Add or LoadTable and read-only afterwards.
type Table struct {
	name  string
	types map[string]FieldOrder
}

// NewTable creates an empty grammar table. The name identifies the
// grammar in error messages and reports (typically "reference" or
// "community").
func NewTable(name string) *Table {
	return &Table{
		name:  name,
		types: make(map[string]FieldOrder),
	}
}

// Name returns the grammar's display name.
func (t *Table) Name() string {
	return t.name
}

// Add registers the field order for a node type. It rejects node types
// already present and field orders containing duplicate names.
func (t *Table) Add(nodeType string, fields ...string) error {
	if nodeType == "" {
		return fmt.Errorf("grammar %s: empty node type name", t.name)
	}
	if _, exists := t.types[nodeType]; exists {
		return fmt.Errorf("grammar %s: duplicate node type %q", t.name, nodeType)
	}
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, dup := seen[f]; dup {
			return fmt.Errorf("grammar %s: node type %q: duplicate field %q", t.name, nodeType, f)
		}
		seen[f] = struct{}{}
	}
	t.types[nodeType] = FieldOrder(fields).clone()
	return nil
}

// Fields returns the field order recorded for a node type.
func (t *Table) Fields(nodeType string) (FieldOrder, bool) {
	order, ok := t.types[nodeType]
	if !ok {
		return nil, false
	}
	return order.clone(), true
}

// Has reports whether the table knows the node type.
func (t *Table) Has(nodeType string) bool {
	_, ok := t.types[nodeType]
	return ok
}

// Types returns all node-type names in lexicographic order.
func (t *Table) Types() []string {
	names := make([]string, 0, len(t.types))
	for name := range t.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of node types in the table.
func (t *Table) Len() int {
	return len(t.types)
}

// clone returns a deep copy sharing nothing with the receiver.
func (t *Table) clone() *Table {
	out := NewTable(t.name)
	for name, order := range t.types {
		out.types[name] = order.clone()
	}
	return out
}

// LoadTable reads a grammar table from a YAML file mapping node-type
// names to field-name lists:
//
//	ExportSpecifier: [local, exported]
//	ImportDeclaration:
//	  - specifiers
//	  - source
//
// How such files are generated is outside this package's concern.
func LoadTable(path, name string) (*Table, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path comes from project configuration
	if err != nil {
		return nil, fmt.Errorf("grammar %s: %w", name, err)
	}
	defer f.Close()
	return ParseTable(f, name)
}

// ParseTable reads a grammar table in the LoadTable YAML format.
func ParseTable(r io.Reader, name string) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("grammar %s: %w", name, err)
	}

	raw := make(map[string][]string)
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("grammar %s: invalid YAML: %w", name, err)
	}

	table := NewTable(name)
	types := make([]string, 0, len(raw))
	for nodeType := range raw {
		types = append(types, nodeType)
	}
	sort.Strings(types)
	for _, nodeType := range types {
		if err := table.Add(nodeType, raw[nodeType]...); err != nil {
			return nil, err
		}
	}
	return table, nil
}
