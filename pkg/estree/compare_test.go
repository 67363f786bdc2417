package estree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareOrders(t *testing.T) {
	tests := []struct {
		name      string
		reference FieldOrder
		community FieldOrder
		wantKind  Kind
		wantField string
		wantMiss  []string
		ok        bool
	}{
		{
			name:      "identical orders",
			reference: FieldOrder{"local", "exported"},
			community: FieldOrder{"local", "exported"},
			ok:        true,
		},
		{
			name:      "order-preserving subsequence",
			reference: FieldOrder{"a", "b", "c", "d"},
			community: FieldOrder{"a", "c"},
			ok:        true,
		},
		{
			name:      "reference-only fields interleave",
			reference: FieldOrder{"a", "b", "c", "d", "e"},
			community: FieldOrder{"b", "d"},
			ok:        true,
		},
		{
			name:      "empty community",
			reference: FieldOrder{"a", "b"},
			community: FieldOrder{},
			ok:        true,
		},
		{
			name:      "reversed pair",
			reference: FieldOrder{"local", "exported"},
			community: FieldOrder{"exported", "local"},
			wantKind:  KindOrderViolation,
			wantField: "local",
		},
		{
			name:      "violation names the later-processed field",
			reference: FieldOrder{"a", "b", "c"},
			community: FieldOrder{"a", "c", "b"},
			wantKind:  KindOrderViolation,
			wantField: "b",
		},
		{
			name:      "missing field",
			reference: FieldOrder{"a", "b", "c"},
			community: FieldOrder{"a", "d"},
			wantKind:  KindMissingFields,
			wantMiss:  []string{"d"},
		},
		{
			name:      "missing wins over order checking",
			reference: FieldOrder{"a", "b", "c"},
			community: FieldOrder{"c", "a", "d"},
			wantKind:  KindMissingFields,
			wantMiss:  []string{"d"},
		},
		{
			name:      "multiple missing fields listed in community order",
			reference: FieldOrder{"a"},
			community: FieldOrder{"x", "a", "y"},
			wantKind:  KindMissingFields,
			wantMiss:  []string{"x", "y"},
		},
		{
			name:      "empty reference reports all community fields missing",
			reference: FieldOrder{},
			community: FieldOrder{"a", "b"},
			wantKind:  KindMissingFields,
			wantMiss:  []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := CompareOrders("T", tt.reference, tt.community)
			if tt.ok {
				assert.Nil(t, m, "expected compatible orders")
				return
			}

			require.NotNil(t, m, "expected a mismatch")
			assert.Equal(t, "T", m.Type)
			assert.Equal(t, tt.wantKind, m.Kind)
			switch tt.wantKind {
			case KindOrderViolation:
				assert.Equal(t, tt.wantField, m.Field)
				assert.Equal(t, tt.reference, m.Reference)
				assert.Equal(t, tt.community, m.Community)
			case KindMissingFields:
				assert.Equal(t, tt.wantMiss, m.Missing)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "missing_fields", KindMissingFields.String())
	assert.Equal(t, "order_violation", KindOrderViolation.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
