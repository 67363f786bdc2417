package starlark

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.starlark.net/starlark"
)

func TestSessionEval(t *testing.T) {
	session := NewSession(starlark.StringDict{
		"answer": starlark.MakeInt(42),
	})

	v, err := session.Eval("answer + 1", "repl", 1)
	require.NoError(t, err)
	assert.Equal(t, "43", v.String())
}

func TestSessionEval_Error(t *testing.T) {
	session := NewSession(nil)

	_, err := session.Eval("undefined_name", "repl", 3)
	require.Error(t, err)

	evalErr, ok := err.(*EvalError)
	require.True(t, ok, "expected *EvalError, got %T", err)
	assert.Equal(t, "repl", evalErr.File)
	assert.Equal(t, 3, evalErr.Line)
	assert.Contains(t, evalErr.Error(), "repl:3:")
}

func TestSessionNamespace(t *testing.T) {
	session := NewSession(nil)
	require.NoError(t, session.AddNamespace("plug", starlark.StringDict{
		"version": starlark.String("1.0"),
	}))

	v, err := session.Eval("plug.version", "repl", 1)
	require.NoError(t, err)
	assert.Equal(t, starlark.String("1.0"), v)
}

func TestSessionNamespace_EmptyName(t *testing.T) {
	session := NewSession(nil)
	require.Error(t, session.AddNamespace("", nil))
}

func TestSessionNames(t *testing.T) {
	session := NewSession(starlark.StringDict{
		"zeta":  starlark.None,
		"alpha": starlark.None,
	})
	session.SetGlobal("mid", starlark.None)

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, session.Names())
}
