// Package factory compiles definitions from a Source into finalized graphs
// and caches them by name. A finalized Graph is immutable, so one compiled
// copy serves every instance a caller creates from it.
package factory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/hexislab/patchbay/internal/logging"
	"github.com/hexislab/patchbay/pkg/graph"
	"github.com/hexislab/patchbay/pkg/graphdef"
	"github.com/hexislab/patchbay/pkg/ports"
	"github.com/hexislab/patchbay/pkg/registry"
)

// ErrNotWatchable is returned by WatchInvalidate when the source cannot
// report changes.
var ErrNotWatchable = errors.New("factory: source does not support watching")

// lockEntry holds the per-name compile mutex and its reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Factory loads, compiles and caches graph definitions.
type Factory struct {
	source ports.Source
	reg    *registry.Registry
	log    *slog.Logger

	buildOpts []graph.Option

	mu     sync.Mutex
	graphs map[string]*graph.Graph
	locks  map[string]*lockEntry
}

// Option configures a Factory.
type Option func(*Factory)

// WithLogger routes compile diagnostics to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Factory) {
		if logger != nil {
			f.log = logger
		}
	}
}

// WithGraphOptions passes opts to every compiled graph.
func WithGraphOptions(opts ...graph.Option) Option {
	return func(f *Factory) {
		f.buildOpts = opts
	}
}

// New creates a factory compiling definitions from source against the
// kinds registered in reg.
func New(source ports.Source, reg *registry.Registry, opts ...Option) *Factory {
	f := &Factory{
		source: source,
		reg:    reg,
		log:    logging.NewNop(),
		graphs: make(map[string]*graph.Graph),
		locks:  make(map[string]*lockEntry),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Source returns the underlying definition source.
func (f *Factory) Source() ports.Source {
	return f.source
}

// Graph returns the compiled graph for name, loading and compiling it on
// first use. Concurrent calls for the same name compile once; calls for
// different names never block each other.
func (f *Factory) Graph(ctx context.Context, name string) (*graph.Graph, error) {
	if g := f.cached(name); g != nil {
		return g, nil
	}

	entry := f.acquire(name)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		f.release(name)
	}()

	// Another caller may have compiled while we waited for the entry.
	if g := f.cached(name); g != nil {
		return g, nil
	}

	def, err := f.source.Load(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("factory: load %q: %w", name, err)
	}
	g, err := graphdef.Compile(def, f.reg, f.buildOpts...)
	if err != nil {
		return nil, fmt.Errorf("factory: compile %q: %w", name, err)
	}

	f.mu.Lock()
	f.graphs[name] = g
	f.mu.Unlock()

	f.log.Debug("compiled graph definition", "graph", name, "nodes", g.NodeCount())
	return g, nil
}

// Invalidate drops the cached graph for name. It reports whether a graph
// was cached. The next Graph call recompiles from the source.
func (f *Factory) Invalidate(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, ok := f.graphs[name]
	delete(f.graphs, name)
	return ok
}

// Cached returns the names currently held in the cache, sorted.
func (f *Factory) Cached() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	names := make([]string, 0, len(f.graphs))
	for name := range f.graphs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WatchInvalidate flushes the cache whenever the source reports a change.
// The source must implement ports.Watcher. The watch loop runs until ctx
// is done.
func (f *Factory) WatchInvalidate(ctx context.Context) error {
	watcher, ok := f.source.(ports.Watcher)
	if !ok {
		return ErrNotWatchable
	}

	ch, err := watcher.Watch(ctx)
	if err != nil {
		return fmt.Errorf("factory: watch: %w", err)
	}

	go func() {
		for range ch {
			f.flush()
			f.log.Debug("definition change detected, graph cache flushed")
		}
	}()
	return nil
}

func (f *Factory) cached(name string) *graph.Graph {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.graphs[name]
}

func (f *Factory) flush() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.graphs = make(map[string]*graph.Graph)
}

func (f *Factory) acquire(name string) *lockEntry {
	f.mu.Lock()
	defer f.mu.Unlock()

	entry, ok := f.locks[name]
	if !ok {
		entry = &lockEntry{}
		f.locks[name] = entry
	}
	entry.refs++
	return entry
}

func (f *Factory) release(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entry, ok := f.locks[name]
	if !ok {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(f.locks, name)
	}
}
