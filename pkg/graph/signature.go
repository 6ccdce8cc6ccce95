package graph

import (
	"fmt"

	"github.com/hexislab/patchbay/pkg/edge"
)

// Behavior is the contract a node kind implements. Execute runs whenever
// the node is dirty during an instance pass. Behaviors that also implement
// Initializer get a one-time call when the instance is created, and
// behaviors that implement io.Closer are closed when the instance closes.
//
// Behavior methods carry no error returns: the core has no runtime data
// failures. Structural problems fail at Finalize and contract misuse
// (wrong index or type on Args) panics.
type Behavior interface {
	Execute(*Args)
}

// Initializer is implemented by behaviors that need a setup call, for
// example to emit an initial output value or bind a listener to a
// broadcaster. It runs once per instance, in topological order.
type Initializer interface {
	Initialize(*Args)
}

// BehaviorFunc adapts a plain function to the Behavior interface.
type BehaviorFunc func(*Args)

// Execute calls the wrapped function.
func (f BehaviorFunc) Execute(a *Args) { f(a) }

type inertBehavior struct{}

func (inertBehavior) Execute(*Args) {}

// Port describes one declared input or output: its edge type and an
// optional display name for diagnostics and definition files.
type Port struct {
	Type *edge.Type
	Name string
}

// ListenerPort describes one declared event listener.
type ListenerPort struct {
	Event *Event
	Name  string
}

// Signature declares one node kind: ordered typed inputs and outputs,
// listener declarations, and the behavior factory. It is mutable only
// inside the declaration callback passed to NewSignature and frozen
// afterwards. Identity is the (module, name) pair.
type Signature struct {
	module string
	name   string
	types  *edge.Registry

	inputs    []Port
	outputs   []Port
	listeners []ListenerPort

	newBehavior func() Behavior
	frozen      bool
}

// SignatureOption configures a Signature at construction.
type SignatureOption func(*Signature)

// WithBehavior supplies the factory used to construct one behavior value
// per node per instance. Without it the node is inert.
func WithBehavior(factory func() Behavior) SignatureOption {
	return func(s *Signature) {
		s.newBehavior = factory
	}
}

// NewSignature builds a signature for the node kind module.name. The
// declare callback receives the signature with its port lists open; after
// it returns the signature is frozen and any further AddInput, AddOutput or
// AddListener panics. A nil declare produces a port-less node kind.
func NewSignature(types *edge.Registry, module, name string, declare func(*Signature), opts ...SignatureOption) *Signature {
	s := &Signature{
		module:      module,
		name:        name,
		types:       types,
		newBehavior: func() Behavior { return inertBehavior{} },
	}
	for _, opt := range opts {
		opt(s)
	}
	if declare != nil {
		declare(s)
	}
	s.frozen = true
	return s
}

// AddInput appends an input port of type T. Only legal inside the declare
// callback; T must already be registered with the signature's type
// registry.
func AddInput[T any](s *Signature, name string) {
	s.checkOpen("AddInput")
	s.inputs = append(s.inputs, Port{Type: edge.TypeOf[T](s.types), Name: name})
}

// AddOutput appends an output port of type T. Only legal inside the
// declare callback.
func AddOutput[T any](s *Signature, name string) {
	s.checkOpen("AddOutput")
	s.outputs = append(s.outputs, Port{Type: edge.TypeOf[T](s.types), Name: name})
}

// AddListener appends a listener declaration for the given event. Only
// legal inside the declare callback.
func (s *Signature) AddListener(ev *Event, name string) {
	s.checkOpen("AddListener")
	s.listeners = append(s.listeners, ListenerPort{Event: ev, Name: name})
}

func (s *Signature) checkOpen(op string) {
	if s.frozen {
		panic(fmt.Sprintf("graph: %s on frozen signature %s", op, s.QualifiedName()))
	}
}

// Module returns the module name the signature was registered under.
func (s *Signature) Module() string { return s.module }

// Name returns the node kind name within its module.
func (s *Signature) Name() string { return s.name }

// QualifiedName returns "module.name", the identity used in diagnostics
// and definition files.
func (s *Signature) QualifiedName() string { return s.module + "." + s.name }

// Inputs returns the declared input ports in order.
func (s *Signature) Inputs() []Port {
	out := make([]Port, len(s.inputs))
	copy(out, s.inputs)
	return out
}

// Outputs returns the declared output ports in order.
func (s *Signature) Outputs() []Port {
	out := make([]Port, len(s.outputs))
	copy(out, s.outputs)
	return out
}

// Listeners returns the declared listener ports in order.
func (s *Signature) Listeners() []ListenerPort {
	out := make([]ListenerPort, len(s.listeners))
	copy(out, s.listeners)
	return out
}
