package patchbay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hexislab/patchbay/internal/logging"
	"github.com/hexislab/patchbay/pkg/edge"
	"github.com/hexislab/patchbay/pkg/factory"
	"github.com/hexislab/patchbay/pkg/graph"
	"github.com/hexislab/patchbay/pkg/graphdef"
	"github.com/hexislab/patchbay/pkg/ports"
	"github.com/hexislab/patchbay/pkg/registry"
	"github.com/hexislab/patchbay/pkg/stdnodes"
)

// ErrNoSource is returned by definition-backed operations when the engine
// was built without a Source.
var ErrNoSource = errors.New("patchbay: no definition source configured")

// Engine is the high-level entry point for the patchbay library. It
// bundles a type registry, a node registry, a logger, and optionally a
// definition source with its graph factory behind one handle. The facade
// is convenience only; everything it does remains reachable through the
// individual packages.
type Engine struct {
	types    *edge.Registry
	reg      *registry.Registry
	log      *slog.Logger
	source   ports.Source
	factory  *factory.Factory
	stdnodes bool
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets the structured logger. Defaults to a no-op logger.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

// WithSource attaches a definition source; Graph, Instance, and Validate
// operate against it through an internal factory cache.
func WithSource(source ports.Source) Option {
	return func(e *Engine) {
		e.source = source
	}
}

// WithTypes supplies an existing type registry instead of a fresh one.
func WithTypes(types *edge.Registry) Option {
	return func(e *Engine) {
		e.types = types
	}
}

// WithRegistry supplies an existing node registry instead of a fresh one.
// Its bound type registry becomes the engine's unless WithTypes names a
// conflicting one, which New rejects.
func WithRegistry(reg *registry.Registry) Option {
	return func(e *Engine) {
		e.reg = reg
	}
}

// WithStdNodes installs the built-in kind library during New.
func WithStdNodes() Option {
	return func(e *Engine) {
		e.stdnodes = true
	}
}

// New assembles an Engine. With no options it is an empty registry pair
// ready for Register; add WithStdNodes for the built-in kinds and
// WithSource to load stored definitions.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}

	if e.log == nil {
		e.log = logging.NewNop()
	}

	switch {
	case e.reg != nil && e.types != nil && e.reg.Types() != e.types:
		return nil, errors.New("patchbay: registry is bound to a different type registry")
	case e.reg != nil:
		e.types = e.reg.Types()
	case e.types == nil:
		e.types = edge.NewRegistry()
	}
	if e.reg == nil {
		e.reg = registry.New(e.types, registry.WithLogger(e.log))
	}

	if e.stdnodes {
		if err := stdnodes.Install(e.types, e.reg, stdnodes.WithLogger(e.log)); err != nil {
			return nil, fmt.Errorf("patchbay: %w", err)
		}
	}

	if e.source != nil {
		e.factory = factory.New(e.source, e.reg, factory.WithLogger(e.log))
	}

	return e, nil
}

// Types returns the engine's edge type registry.
func (e *Engine) Types() *edge.Registry {
	return e.types
}

// Registry returns the engine's node registry.
func (e *Engine) Registry() *registry.Registry {
	return e.reg
}

// Modules returns every registered module in registration order.
func (e *Engine) Modules() []*registry.Module {
	return e.reg.Modules()
}

// Register adds a module to the node registry.
func (e *Engine) Register(name string) (*registry.Module, error) {
	return e.reg.AddModule(name)
}

// Source returns the configured definition source, or nil.
func (e *Engine) Source() ports.Source {
	return e.source
}

// Factory returns the graph cache in front of the source, or nil when
// the engine has no source.
func (e *Engine) Factory() *factory.Factory {
	return e.factory
}

// Graph loads and compiles the named definition, caching the result.
func (e *Engine) Graph(ctx context.Context, name string) (*graph.Graph, error) {
	if e.factory == nil {
		return nil, ErrNoSource
	}
	return e.factory.Graph(ctx, name)
}

// Instance compiles the named definition and creates a fresh instance
// of it. Instances from repeated calls share the compiled graph.
func (e *Engine) Instance(ctx context.Context, name string, opts ...graph.InstanceOption) (*graph.Instance, error) {
	g, err := e.Graph(ctx, name)
	if err != nil {
		return nil, err
	}
	return graph.NewInstance(g, opts...)
}

// Validate checks the named definition structurally and against the
// registered kinds without touching the graph cache.
func (e *Engine) Validate(ctx context.Context, name string) error {
	if e.source == nil {
		return ErrNoSource
	}
	def, err := e.source.Load(ctx, name)
	if err != nil {
		return fmt.Errorf("patchbay: load %q: %w", name, err)
	}
	if _, err := graphdef.Compile(def, e.reg); err != nil {
		return err
	}
	return nil
}
