package starlark

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.starlark.net/starlark"
)

func TestGoToStarlark(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "None"},
		{"string", "hello", `"hello"`},
		{"int", 42, "42"},
		{"int64", int64(1 << 40), "1099511627776"},
		{"float", 1.5, "1.5"},
		{"bool", true, "True"},
		{"string slice", []string{"a", "b"}, `["a", "b"]`},
		{"any slice", []any{"a", 1}, `["a", 1]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := GoToStarlark(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.String())
		})
	}
}

func TestGoToStarlark_Map(t *testing.T) {
	v, err := GoToStarlark(map[string]any{"severity": "warn", "docs": true})
	require.NoError(t, err)

	dict, ok := v.(*starlark.Dict)
	require.True(t, ok)
	assert.Equal(t, 2, dict.Len())
}

func TestGoToStarlark_Unsupported(t *testing.T) {
	_, err := GoToStarlark(struct{}{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported type")
}

func TestToGoRoundTrip(t *testing.T) {
	in := map[string]any{
		"name":     "no-default-export",
		"enabled":  true,
		"priority": int64(3),
		"tags":     []any{"style", "imports"},
	}

	sv, err := GoToStarlark(in)
	require.NoError(t, err)

	out, err := ToGo(sv)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestToGo_None(t *testing.T) {
	v, err := ToGo(starlark.None)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestToGo_Tuple(t *testing.T) {
	tuple := starlark.Tuple{starlark.String("a"), starlark.MakeInt(2)}

	out, err := ToGo(tuple)
	require.NoError(t, err)
	assert.Equal(t, []any{"a", int64(2)}, out)
}

func TestToGo_Struct(t *testing.T) {
	ns := Namespace("demo", starlark.StringDict{
		"version": starlark.String("1.0"),
	})

	out, err := ToGo(ns)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"version": "1.0"}, out)
}

func TestNamespace(t *testing.T) {
	ns := Namespace("example", starlark.StringDict{
		"greet": starlark.String("hi"),
	})

	// Attribute access works the struct way.
	attr, err := ns.(starlark.HasAttrs).Attr("greet")
	require.NoError(t, err)
	assert.Equal(t, starlark.String("hi"), attr)
}
