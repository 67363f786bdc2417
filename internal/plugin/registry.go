package plugin

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/singleflight"
)

// ModuleLoader performs the dynamic load for one specifier.
// Implemented by *Loader.
type ModuleLoader interface {
	Load(ctx context.Context, specifier string) (*Plugin, error)
}

// Record is the immutable outcome of the single load attempt for one
// specifier. Plugin is nil when the load failed.
type Record struct {
	Specifier string
	Plugin    *Plugin
	Result    Result
}

// Registry tracks which plugin specifiers have been loaded and their
// outcomes. Records are append-only: once a specifier has a record it is
// only ever looked up, never reloaded, so repeated requests return the
// recorded result whether it was success or failure.
//
// There is no ambient registry; callers construct one instance and pass
// it to whatever builds the bridge.
type Registry struct {
	mu      sync.Mutex
	records map[string]*Record
	group   singleflight.Group
	loader  ModuleLoader
	log     *slog.Logger
}

// NewRegistry creates an empty registry backed by loader.
func NewRegistry(loader ModuleLoader, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Registry{
		records: make(map[string]*Record),
		loader:  loader,
		log:     logger,
	}
}

// GetOrLoad returns the load outcome for specifier, performing the load
// on first request. Concurrent first requests for the same specifier
// coalesce onto a single in-flight load and all observe its result; at
// most one underlying load ever happens per specifier.
func (r *Registry) GetOrLoad(ctx context.Context, specifier string) Result {
	if rec, ok := r.lookup(specifier); ok {
		return rec.Result
	}

	v, _, _ := r.group.Do(specifier, func() (any, error) {
		// A previous flight may have recorded while this call queued.
		if rec, ok := r.lookup(specifier); ok {
			return rec.Result, nil
		}

		rec := &Record{Specifier: specifier}
		p, err := r.loader.Load(ctx, specifier)
		if err != nil {
			rec.Result = Failure(classify(err))
			r.log.Warn("plugin load failed",
				"specifier", specifier,
				"error", rec.Result.Message())
		} else {
			rec.Plugin = p
			rec.Result = Success()
			r.log.Info("plugin loaded",
				"specifier", specifier,
				"name", p.Name,
				"rules", len(p.Rules))
		}

		r.mu.Lock()
		r.records[specifier] = rec
		r.mu.Unlock()
		return rec.Result, nil
	})
	return v.(Result)
}

// lookup returns the record for specifier if one exists.
func (r *Registry) lookup(specifier string) (*Record, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[specifier]
	return rec, ok
}

// Get returns the recorded outcome for specifier without loading.
func (r *Registry) Get(specifier string) (*Record, bool) {
	return r.lookup(specifier)
}

// Has reports whether specifier has a recorded outcome.
func (r *Registry) Has(specifier string) bool {
	_, ok := r.lookup(specifier)
	return ok
}

// Len returns the number of recorded specifiers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// Specifiers returns all recorded specifiers in sorted order.
func (r *Registry) Specifiers() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	specs := make([]string, 0, len(r.records))
	for spec := range r.records {
		specs = append(specs, spec)
	}
	sort.Strings(specs)
	return specs
}

// Plugins returns the successfully loaded plugins sorted by name.
func (r *Registry) Plugins() []*Plugin {
	r.mu.Lock()
	defer r.mu.Unlock()
	plugins := make([]*Plugin, 0, len(r.records))
	for _, rec := range r.records {
		if rec.Plugin != nil {
			plugins = append(plugins, rec.Plugin)
		}
	}
	sort.Slice(plugins, func(i, j int) bool { return plugins[i].Name < plugins[j].Name })
	return plugins
}
