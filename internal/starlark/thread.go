package starlark

import (
	"context"
	"sync"

	"go.starlark.net/starlark"
)

// ThreadPool manages a pool of Starlark threads so plugin loads and REPL
// evaluations reuse allocations instead of building a thread per call.
type ThreadPool struct {
	mu      sync.Mutex
	threads []*starlark.Thread
	maxSize int
}

// NewThreadPool creates a new thread pool with the specified maximum size.
func NewThreadPool(maxSize int) *ThreadPool {
	if maxSize <= 0 {
		maxSize = 10 // default pool size
	}
	return &ThreadPool{
		threads: make([]*starlark.Thread, 0, maxSize),
		maxSize: maxSize,
	}
}

// Get retrieves a thread from the pool or creates a new one.
// The thread name is used for error reporting.
func (p *ThreadPool) Get(name string) *starlark.Thread {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.threads) > 0 {
		thread := p.threads[len(p.threads)-1]
		p.threads = p.threads[:len(p.threads)-1]
		thread.Name = name
		return thread
	}

	return &starlark.Thread{
		Name: name,
		Print: func(_ *starlark.Thread, _ string) {
			// Plugin output is not wired to the terminal.
		},
	}
}

// Put returns a thread to the pool for reuse.
// If the pool is full, the thread is discarded.
func (p *ThreadPool) Put(thread *starlark.Thread) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.threads) < p.maxSize {
		// Clear any state that might leak between uses. Uncancel re-arms
		// threads whose previous use was interrupted through BindContext.
		thread.Name = ""
		thread.Uncancel()
		p.threads = append(p.threads, thread)
	}
}

// Size returns the current number of threads in the pool.
func (p *ThreadPool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.threads)
}

// BindContext cancels the thread when ctx is done, so a hung or
// long-running plugin load can be abandoned by the caller. The returned
// stop function releases the watcher and must be called once execution
// finishes.
func BindContext(ctx context.Context, thread *starlark.Thread) (stop func()) {
	if ctx == nil || ctx.Done() == nil {
		return func() {}
	}

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			thread.Cancel(ctx.Err().Error())
		case <-done:
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}
