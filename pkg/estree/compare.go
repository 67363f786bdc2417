package estree

import "encoding/json"

// Kind classifies a mismatch between two field orders.
type Kind int

const (
	// KindMissingFields means the community order names fields the
	// reference grammar does not have for that type.
	KindMissingFields Kind = iota
	// KindOrderViolation means two community fields appear in reversed
	// relative order compared to the reference grammar.
	KindOrderViolation
)

// String returns the machine-readable name of the kind.
func (k Kind) String() string {
	switch k {
	case KindMissingFields:
		return "missing_fields"
	case KindOrderViolation:
		return "order_violation"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the kind as its string name.
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// Mismatch describes one node type whose field orders are incompatible.
// Field is set for order violations; Missing for missing fields. Both
// full orders are carried for diagnostic context.
type Mismatch struct {
	Type      string     `json:"type"`
	Kind      Kind       `json:"kind"`
	Field     string     `json:"field,omitempty"`
	Missing   []string   `json:"missing,omitempty"`
	Reference FieldOrder `json:"reference,omitempty"`
	Community FieldOrder `json:"community,omitempty"`
}

// CompareOrders checks whether the community field order for nodeType is
// traversal-compatible with the reference order. It returns nil when
// compatible, otherwise exactly one Mismatch.
//
// Fields present in community but absent from reference make order
// checking meaningless, so they short-circuit into a MissingFields
// mismatch. Otherwise every community field is mapped to its reference
// index and the walk must never step backwards; reference-only fields
// may interleave freely. The first field observed out of order names the
// violation.
func CompareOrders(nodeType string, reference, community FieldOrder) *Mismatch {
	refIndex := make(map[string]int, len(reference))
	for i, f := range reference {
		refIndex[f] = i
	}

	var missing []string
	for _, f := range community {
		if _, ok := refIndex[f]; !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return &Mismatch{
			Type:      nodeType,
			Kind:      KindMissingFields,
			Missing:   missing,
			Reference: reference.clone(),
			Community: community.clone(),
		}
	}

	last := -1
	for _, f := range community {
		idx := refIndex[f]
		if idx < last {
			return &Mismatch{
				Type:      nodeType,
				Kind:      KindOrderViolation,
				Field:     f,
				Reference: reference.clone(),
				Community: community.clone(),
			}
		}
		last = idx
	}
	return nil
}
