package starlark

import (
	"fmt"
	"sort"

	"go.starlark.net/starlark"
)

// Session is a long-lived evaluation environment. The REPL keeps one per
// run: plugin exports are attached as namespaces and expressions are
// evaluated against the accumulated globals.
type Session struct {
	pool    *ThreadPool
	globals starlark.StringDict
}

// NewSession creates a session seeded with the given predeclared values.
func NewSession(predeclared starlark.StringDict) *Session {
	globals := make(starlark.StringDict, len(predeclared))
	for name, value := range predeclared {
		globals[name] = value
	}
	return &Session{
		pool:    NewThreadPool(2),
		globals: globals,
	}
}

// SetGlobal binds a single name in the session.
func (s *Session) SetGlobal(name string, value starlark.Value) {
	s.globals[name] = value
}

// AddNamespace exposes members as an immutable struct bound to name,
// replacing any previous binding. Returns an error for an empty name.
func (s *Session) AddNamespace(name string, members starlark.StringDict) error {
	if name == "" {
		return fmt.Errorf("namespace name cannot be empty")
	}
	s.globals[name] = Namespace(name, members)
	return nil
}

// Names returns the bound global names in sorted order, for completion.
func (s *Session) Names() []string {
	names := make([]string, 0, len(s.globals))
	for name := range s.globals {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Eval evaluates a single expression against the session globals.
// filename and line identify the input for error reporting.
func (s *Session) Eval(expr, filename string, line int) (starlark.Value, error) {
	thread := s.pool.Get(fmt.Sprintf("eval:%s:%d", filename, line))
	defer s.pool.Put(thread)

	value, err := starlark.Eval(thread, filename, expr, s.globals) //nolint:staticcheck // SA1019: will migrate to EvalOptions later
	if err != nil {
		return nil, &EvalError{
			File:    filename,
			Line:    line,
			Expr:    expr,
			Message: errMessage(err),
		}
	}
	return value, nil
}

// errMessage unwraps Starlark's error types to their display message.
func errMessage(err error) string {
	if evalErr, ok := err.(*starlark.EvalError); ok {
		return evalErr.Msg
	}
	return err.Error()
}

// EvalError represents an error during Starlark expression evaluation.
type EvalError struct {
	File    string
	Line    int
	Expr    string
	Message string
}

func (e *EvalError) Error() string {
	if e.File == "" {
		return e.Message
	}
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
}
