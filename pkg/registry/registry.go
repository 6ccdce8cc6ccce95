// Package registry collects node signatures into named modules so graph
// definitions can refer to them as "module.node". Registration conflicts
// are recoverable: the first registration wins and the duplicate is
// reported, letting an application keep running with the nodes it has.
package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/hexislab/patchbay/internal/logging"
	"github.com/hexislab/patchbay/pkg/edge"
	"github.com/hexislab/patchbay/pkg/graph"
)

var (
	// ErrDuplicateModule is returned when a module name is registered twice.
	ErrDuplicateModule = errors.New("module already registered")

	// ErrDuplicateNode is returned when a node name is registered twice
	// within one module.
	ErrDuplicateNode = errors.New("node already registered")

	// ErrUnknownModule is returned when a lookup names a module that was
	// never registered.
	ErrUnknownModule = errors.New("unknown module")

	// ErrUnknownNode is returned when a lookup names a node its module
	// does not have.
	ErrUnknownNode = errors.New("unknown node")

	// ErrInvalidName is returned when a qualified name is not of the form
	// "module.node".
	ErrInvalidName = errors.New("invalid qualified name")
)

// Registry holds the modules available to graph definitions. All methods
// are safe for concurrent use.
type Registry struct {
	types *edge.Registry
	log   *slog.Logger

	mu      sync.RWMutex
	modules map[string]*Module
	order   []string
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger routes duplicate-registration warnings to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.log = logger
		}
	}
}

// New creates a registry whose signatures draw their port types from types.
func New(types *edge.Registry, opts ...Option) *Registry {
	r := &Registry{
		types:   types,
		log:     logging.NewNop(),
		modules: make(map[string]*Module),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Types returns the value-type registry signatures are declared against.
func (r *Registry) Types() *edge.Registry { return r.types }

// AddModule creates and returns a new module. If the name is taken the
// existing module is left untouched and ErrDuplicateModule is returned.
func (r *Registry) AddModule(name string) (*Module, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.modules[name]; ok {
		r.log.Warn("module already registered", "module", name)
		return nil, fmt.Errorf("registry: %w: %q", ErrDuplicateModule, name)
	}

	m := &Module{
		name: name,
		reg:  r,
		sigs: make(map[string]*graph.Signature),
	}
	r.modules[name] = m
	r.order = append(r.order, name)
	return m, nil
}

// Module returns the module registered under name.
func (r *Registry) Module(name string) (*Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.modules[name]
	return m, ok
}

// Modules returns every registered module in registration order.
func (r *Registry) Modules() []*Module {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Module, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.modules[name])
	}
	return out
}

// Resolve looks up a signature by its qualified "module.node" name.
func (r *Registry) Resolve(qualified string) (*graph.Signature, error) {
	moduleName, nodeName, ok := strings.Cut(qualified, ".")
	if !ok || moduleName == "" || nodeName == "" {
		return nil, fmt.Errorf("registry: %w: %q, want \"module.node\"", ErrInvalidName, qualified)
	}

	r.mu.RLock()
	m, ok := r.modules[moduleName]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("registry: %w: %q", ErrUnknownModule, moduleName)
	}

	sig, ok := m.Signature(nodeName)
	if !ok {
		return nil, fmt.Errorf("registry: %w: %q in module %q", ErrUnknownNode, nodeName, moduleName)
	}
	return sig, nil
}

// Signature looks up one node kind by module and node name.
func (r *Registry) Signature(module, node string) (*graph.Signature, bool) {
	m, ok := r.Module(module)
	if !ok {
		return nil, false
	}
	return m.Signature(node)
}

// Signatures returns every registered signature, grouped by module in
// registration order.
func (r *Registry) Signatures() []*graph.Signature {
	var out []*graph.Signature
	for _, m := range r.Modules() {
		out = append(out, m.Signatures()...)
	}
	return out
}

// Module is a named group of node signatures.
type Module struct {
	name string
	reg  *Registry
	sigs map[string]*graph.Signature

	order []string
}

// Name returns the module's name.
func (m *Module) Name() string { return m.name }

// Register declares a node signature under this module. The declare
// callback populates the signature's ports; it may be nil for a node with
// no ports. If the name is taken the existing signature is left untouched
// and ErrDuplicateNode is returned.
func (m *Module) Register(name string, declare func(*graph.Signature), opts ...graph.SignatureOption) (*graph.Signature, error) {
	m.reg.mu.Lock()
	defer m.reg.mu.Unlock()

	if _, ok := m.sigs[name]; ok {
		m.reg.log.Warn("node already registered", "module", m.name, "node", name)
		return nil, fmt.Errorf("registry: %w: %q in module %q", ErrDuplicateNode, name, m.name)
	}

	sig := graph.NewSignature(m.reg.types, m.name, name, declare, opts...)
	m.sigs[name] = sig
	m.order = append(m.order, name)
	return sig, nil
}

// Signature returns the node signature registered under name.
func (m *Module) Signature(name string) (*graph.Signature, bool) {
	m.reg.mu.RLock()
	defer m.reg.mu.RUnlock()
	sig, ok := m.sigs[name]
	return sig, ok
}

// Signatures returns the module's signatures in registration order.
func (m *Module) Signatures() []*graph.Signature {
	m.reg.mu.RLock()
	defer m.reg.mu.RUnlock()
	out := make([]*graph.Signature, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, m.sigs[name])
	}
	return out
}
