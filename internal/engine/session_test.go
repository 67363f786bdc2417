package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huxxhu/oxc/internal/bridge"
	"github.com/huxxhu/oxc/internal/plugin"
	"github.com/huxxhu/oxc/internal/state"
	"github.com/huxxhu/oxc/internal/testutil"
)

func okHooks() bridge.Hooks {
	return bridge.Hooks{
		LoadPlugin: func(ctx context.Context, specifier string) plugin.Result {
			return plugin.Success()
		},
		Lint: func(ctx context.Context, path string) error {
			return nil
		},
	}
}

func TestSession_Run_CleanSession(t *testing.T) {
	session := NewSession(Config{
		Specifiers: []string{"a.star", "b.star"},
		Paths:      []string{"src/app.js"},
	}, nil)

	ok, err := session.Run(context.Background(), okHooks())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSession_Run_FailedLoadClearsSignal(t *testing.T) {
	var loaded []string
	hooks := bridge.Hooks{
		LoadPlugin: func(ctx context.Context, specifier string) plugin.Result {
			loaded = append(loaded, specifier)
			if specifier == "broken.star" {
				return plugin.Failure("Unexpected token")
			}
			return plugin.Success()
		},
	}

	session := NewSession(Config{
		Specifiers: []string{"a.star", "broken.star", "b.star"},
	}, nil)

	ok, err := session.Run(context.Background(), hooks)
	require.NoError(t, err)
	assert.False(t, ok)

	// A failed load does not stop the remaining plugins from loading.
	assert.Equal(t, []string{"a.star", "broken.star", "b.star"}, loaded)
}

func TestSession_Run_RecordsLoads(t *testing.T) {
	store := state.NewSQLiteStore(testutil.NewTestLogger(t))
	require.NoError(t, store.Open(":memory:"))
	defer store.Close()

	hooks := bridge.Hooks{
		LoadPlugin: func(ctx context.Context, specifier string) plugin.Result {
			if specifier == "broken.star" {
				return plugin.Failure("Unexpected token")
			}
			return plugin.Success()
		},
	}

	session := NewSession(Config{
		Specifiers: []string{"good.star", "broken.star"},
	}, store)

	ok, err := session.Run(context.Background(), hooks)
	require.NoError(t, err)
	assert.False(t, ok)

	loads, err := store.ListPluginLoads(session.ID())
	require.NoError(t, err)
	require.Len(t, loads, 2)

	assert.Equal(t, "good.star", loads[0].Specifier)
	assert.True(t, loads[0].OK)
	assert.Empty(t, loads[0].Message)

	assert.Equal(t, "broken.star", loads[1].Specifier)
	assert.False(t, loads[1].OK)
	assert.Equal(t, "Unexpected token", loads[1].Message)
}

func TestSession_Run_LintErrorAborts(t *testing.T) {
	lintErr := errors.New("lint execution is not implemented")
	var linted []string
	hooks := bridge.Hooks{
		Lint: func(ctx context.Context, path string) error {
			linted = append(linted, path)
			return lintErr
		},
	}

	session := NewSession(Config{
		Paths: []string{"src/app.js", "src/other.js"},
	}, nil)

	ok, err := session.Run(context.Background(), hooks)
	require.ErrorIs(t, err, lintErr)
	assert.False(t, ok)
	assert.Equal(t, []string{"src/app.js"}, linted)
}

func TestSession_Run_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	session := NewSession(Config{
		Specifiers: []string{"a.star"},
	}, nil)

	ok, err := session.Run(ctx, okHooks())
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, ok)
}

func TestSession_ID_Unique(t *testing.T) {
	a := NewSession(Config{}, nil)
	b := NewSession(Config{}, nil)

	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
}
