package plugin

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huxxhu/oxc/internal/testutil"
)

// countingLoader stands in for the real loader so tests can observe how
// many underlying loads a registry performs.
type countingLoader struct {
	loads int64
	delay time.Duration
	fail  map[string]error
}

func (c *countingLoader) Load(_ context.Context, specifier string) (*Plugin, error) {
	atomic.AddInt64(&c.loads, 1)
	if c.delay > 0 {
		time.Sleep(c.delay)
	}
	if err, ok := c.fail[specifier]; ok {
		return nil, err
	}
	return &Plugin{
		Specifier: specifier,
		Name:      specifier,
		Rules:     []*Rule{{Name: "r", Severity: "warn"}},
	}, nil
}

func (c *countingLoader) count() int64 {
	return atomic.LoadInt64(&c.loads)
}

func TestRegistryGetOrLoad_Idempotent(t *testing.T) {
	loader := &countingLoader{}
	reg := NewRegistry(loader, nil)

	first := reg.GetOrLoad(context.Background(), "imports")
	second := reg.GetOrLoad(context.Background(), "imports")

	assert.True(t, first.OK())
	assert.Equal(t, first, second, "same specifier must yield the same result")
	assert.Equal(t, int64(1), loader.count(), "at most one underlying load")
}

func TestRegistryGetOrLoad_FailureIsRecorded(t *testing.T) {
	loader := &countingLoader{
		fail: map[string]error{
			"broken": &LoadError{Specifier: "broken", Message: "bad token"},
		},
	}
	reg := NewRegistry(loader, nil)

	first := reg.GetOrLoad(context.Background(), "broken")
	second := reg.GetOrLoad(context.Background(), "broken")

	assert.False(t, first.OK())
	assert.Equal(t, "bad token", first.Message())
	assert.Equal(t, first, second, "failures are recorded, not retried")
	assert.Equal(t, int64(1), loader.count())

	rec, ok := reg.Get("broken")
	require.True(t, ok)
	assert.Nil(t, rec.Plugin)
}

func TestRegistryGetOrLoad_CoalescesConcurrentLoads(t *testing.T) {
	loader := &countingLoader{delay: 50 * time.Millisecond}
	reg := NewRegistry(loader, nil)

	const callers = 16
	results := make([]Result, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = reg.GetOrLoad(context.Background(), "imports")
		}(i)
	}
	wg.Wait()

	for i, r := range results {
		assert.True(t, r.OK(), "caller %d", i)
		assert.Equal(t, results[0], r, "caller %d", i)
	}
	assert.Equal(t, int64(1), loader.count(), "concurrent first requests must share one load")
}

func TestRegistryGetOrLoad_DistinctSpecifiers(t *testing.T) {
	loader := &countingLoader{
		fail: map[string]error{
			"broken": &LoadError{Specifier: "broken", Message: "nope"},
		},
	}
	reg := NewRegistry(loader, nil)

	ok := reg.GetOrLoad(context.Background(), "imports")
	bad := reg.GetOrLoad(context.Background(), "broken")

	assert.True(t, ok.OK())
	assert.False(t, bad.OK())
	assert.Equal(t, int64(2), loader.count())
	assert.Equal(t, 2, reg.Len())
}

func TestRegistryInspection(t *testing.T) {
	loader := &countingLoader{
		fail: map[string]error{
			"zz-broken": &LoadError{Specifier: "zz-broken", Message: "nope"},
		},
	}
	reg := NewRegistry(loader, nil)

	assert.False(t, reg.Has("beta"))

	reg.GetOrLoad(context.Background(), "beta")
	reg.GetOrLoad(context.Background(), "alpha")
	reg.GetOrLoad(context.Background(), "zz-broken")

	assert.True(t, reg.Has("beta"))
	assert.Equal(t, []string{"alpha", "beta", "zz-broken"}, reg.Specifiers())

	plugins := reg.Plugins()
	require.Len(t, plugins, 2, "failed loads carry no plugin")
	assert.Equal(t, "alpha", plugins[0].Name)
	assert.Equal(t, "beta", plugins[1].Name)
}

func TestRegistryGetOrLoad_UsesRealLoader(t *testing.T) {
	dir := t.TempDir()
	writePlugin(t, dir, "imports.star", `
def _check(node):
    return None

rule(name = "no-default-export", check = _check)
`)

	logger := testutil.NewTestLogger(t)
	reg := NewRegistry(NewLoader(dir, logger), logger)

	res := reg.GetOrLoad(context.Background(), "imports")
	require.True(t, res.OK(), "load failed: %s", res.Message())

	rec, ok := reg.Get("imports")
	require.True(t, ok)
	require.NotNil(t, rec.Plugin)
	assert.Equal(t, []string{"no-default-export"}, rec.Plugin.RuleNames())
}
