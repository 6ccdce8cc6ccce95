package graph

import (
	"fmt"
	"log/slog"
	"reflect"

	"github.com/hexislab/patchbay/internal/logging"
	"github.com/hexislab/patchbay/pkg/edge"
)

// NodeID identifies one node within its graph, in insertion order.
type NodeID int

type inputEdge struct {
	connected   bool
	srcNode     NodeID
	srcOutput   int
	defaultSlot edge.Slot
	defaultSet  bool
}

type outputEdge struct {
	connected bool
	stampCell int
	slot      edge.Slot
}

type node struct {
	sig           *Signature
	inputs        []inputEdge
	outputs       []outputEdge
	ownStampCell  int
	listenerCells []int
}

// Graph holds the definition of a node network: the nodes, their wiring,
// and after Finalize the shared default values, the evaluation order and
// the per-instance storage plan. A Graph starts mutable, becomes immutable
// at Finalize, and is then shared read-only by all of its instances.
type Graph struct {
	name  string
	types *edge.Registry
	log   *slog.Logger

	nodes  []*node
	sorted []NodeID

	defaults      *edge.Buffer
	instLayout    *edge.Layout
	stampCells    int
	listenerCells int

	finalized bool
}

// Option configures a Graph at construction.
type Option func(*Graph)

// WithLogger attaches a logger used for finalize and contract diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Graph) {
		g.log = logger
	}
}

// New creates an empty graph with the given name, building against the
// given type registry. The name only appears in diagnostics.
func New(types *edge.Registry, name string, opts ...Option) *Graph {
	g := &Graph{
		name:  name,
		types: types,
		log:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Name returns the graph's diagnostic name.
func (g *Graph) Name() string { return g.name }

// Finalized reports whether Finalize has completed successfully.
func (g *Graph) Finalized() bool { return g.finalized }

// Types returns the type registry the graph was built against.
func (g *Graph) Types() *edge.Registry { return g.types }

// NodeCount returns the number of nodes added so far.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// Signature returns the signature of the given node, or nil when the id is
// out of range.
func (g *Graph) Signature(id NodeID) *Signature {
	if id < 0 || int(id) >= len(g.nodes) {
		return nil
	}
	return g.nodes[id].sig
}

// InputSource reports the wiring of one input edge: the source node and
// output index when connected, or connected=false for default-valued
// inputs. Edges not yet wired report as unconnected.
func (g *Graph) InputSource(id NodeID, input int) (src NodeID, output int, connected bool) {
	if id < 0 || int(id) >= len(g.nodes) {
		return 0, 0, false
	}
	n := g.nodes[id]
	if input < 0 || input >= len(n.inputs) {
		return 0, 0, false
	}
	e := n.inputs[input]
	return e.srcNode, e.srcOutput, e.connected
}

// DefaultAssigned reports whether SetDefault has been called for the given
// unconnected input.
func (g *Graph) DefaultAssigned(id NodeID, input int) bool {
	if id < 0 || int(id) >= len(g.nodes) {
		return false
	}
	n := g.nodes[id]
	if input < 0 || input >= len(n.inputs) {
		return false
	}
	return n.inputs[input].defaultSet
}

// Order returns the topological evaluation order. Empty before Finalize.
func (g *Graph) Order() []NodeID {
	out := make([]NodeID, len(g.sorted))
	copy(out, g.sorted)
	return out
}

// AddNode appends a node of the given kind and returns its id. The node
// starts with no input edges wired; append one edge per declared input with
// ConnectInput or SkipInput before Finalize.
func (g *Graph) AddNode(sig *Signature) (NodeID, error) {
	if g.finalized {
		return 0, ErrFinalized
	}
	if sig == nil {
		return 0, fmt.Errorf("graph %q: AddNode with nil signature", g.name)
	}
	g.nodes = append(g.nodes, &node{sig: sig})
	return NodeID(len(g.nodes) - 1), nil
}

// ConnectInput appends the next input edge of dst, wired to the given
// output of src. Forward references are allowed: src may be a node id that
// has not been added yet; targets are validated at Finalize.
func (g *Graph) ConnectInput(dst, src NodeID, output int) error {
	n, err := g.buildNode(dst)
	if err != nil {
		return err
	}
	n.inputs = append(n.inputs, inputEdge{connected: true, srcNode: src, srcOutput: output})
	return nil
}

// SkipInput appends the next input edge of dst unconnected; it will read
// the shared default value for its declared type.
func (g *Graph) SkipInput(dst NodeID) error {
	n, err := g.buildNode(dst)
	if err != nil {
		return err
	}
	n.inputs = append(n.inputs, inputEdge{})
	return nil
}

func (g *Graph) buildNode(id NodeID) (*node, error) {
	if g.finalized {
		return nil, ErrFinalized
	}
	if id < 0 || int(id) >= len(g.nodes) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownNode, id)
	}
	return g.nodes[id], nil
}

// Finalize validates the wiring and, on success, computes the evaluation
// order and the storage plans, transitioning the graph to its immutable
// state. It is single-shot: a second call fails with ErrFinalized.
//
// Validation runs before any state is written, so a failed Finalize leaves
// the graph exactly as it was. A failure is terminal for the wiring that
// caused it; fix the build calls and construct a new graph.
func (g *Graph) Finalize() error {
	if g.finalized {
		return ErrFinalized
	}
	sorted, err := g.validate()
	if err != nil {
		g.log.Error("graph finalize failed", "graph", g.name, "err", err)
		return err
	}

	// Mark every output edge some input reads.
	for _, n := range g.nodes {
		n.outputs = make([]outputEdge, len(n.sig.outputs))
	}
	for _, n := range g.nodes {
		for i := range n.inputs {
			e := &n.inputs[i]
			if e.connected {
				g.nodes[e.srcNode].outputs[e.srcOutput].connected = true
			}
		}
	}

	// Plan the shared default buffer: one cell per unconnected input.
	defaultLayout := edge.NewLayout()
	for _, n := range g.nodes {
		for i := range n.inputs {
			e := &n.inputs[i]
			if !e.connected {
				e.defaultSlot = defaultLayout.Reserve(n.sig.inputs[i].Type)
			}
		}
	}
	g.defaults = defaultLayout.NewBuffer()

	// Plan per-instance storage: per node its own dirty stamp, per
	// connected output a stamp and a value cell, per listener declaration
	// one listener cell.
	g.instLayout = edge.NewLayout()
	for _, n := range g.nodes {
		n.ownStampCell = g.stampCells
		g.stampCells++
		for i := range n.outputs {
			o := &n.outputs[i]
			if o.connected {
				o.stampCell = g.stampCells
				g.stampCells++
				o.slot = g.instLayout.Reserve(n.sig.outputs[i].Type)
			}
		}
		for range n.sig.listeners {
			n.listenerCells = append(n.listenerCells, g.listenerCells)
			g.listenerCells++
		}
	}

	g.sorted = sorted
	g.finalized = true
	return nil
}

// validate checks edge counts, connection targets, type agreement and
// acyclicity, returning the topological order. It mutates nothing.
func (g *Graph) validate() ([]NodeID, error) {
	for id, n := range g.nodes {
		if len(n.inputs) != len(n.sig.inputs) {
			return nil, fmt.Errorf("graph %q: %w: node %d (%s) wired %d input edges, signature declares %d",
				g.name, ErrInputCount, id, n.sig.QualifiedName(), len(n.inputs), len(n.sig.inputs))
		}
		for i := range n.inputs {
			e := &n.inputs[i]
			if !e.connected {
				continue
			}
			if e.srcNode < 0 || int(e.srcNode) >= len(g.nodes) {
				return nil, fmt.Errorf("graph %q: %w: node %d (%s) input %d targets node %d of %d nodes",
					g.name, ErrInvalidTarget, id, n.sig.QualifiedName(), i, e.srcNode, len(g.nodes))
			}
			src := g.nodes[e.srcNode]
			if e.srcOutput < 0 || e.srcOutput >= len(src.sig.outputs) {
				return nil, fmt.Errorf("graph %q: %w: node %d (%s) input %d targets output %d of node %d (%s), which has %d outputs",
					g.name, ErrInvalidTarget, id, n.sig.QualifiedName(), i, e.srcOutput, e.srcNode, src.sig.QualifiedName(), len(src.sig.outputs))
			}
			inType := n.sig.inputs[i].Type
			outType := src.sig.outputs[e.srcOutput].Type
			if inType != outType {
				return nil, fmt.Errorf("graph %q: %w: node %d (%s) input %d is type %q but is connected to node %d (%s) output %d of type %q",
					g.name, ErrTypeMismatch, id, n.sig.QualifiedName(), i, inType.Name(),
					e.srcNode, src.sig.QualifiedName(), e.srcOutput, outType.Name())
			}
		}
	}

	// Depth-first topological sort with a two-color scheme: a node being
	// visited that is seen again closes a cycle.
	const (
		unvisited = iota
		visiting
		done
	)
	color := make([]int, len(g.nodes))
	sorted := make([]NodeID, 0, len(g.nodes))

	var visit func(id NodeID) error
	visit = func(id NodeID) error {
		switch color[id] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("graph %q: %w: through node %d (%s)",
				g.name, ErrCycle, id, g.nodes[id].sig.QualifiedName())
		}
		color[id] = visiting
		n := g.nodes[id]
		for i := range n.inputs {
			e := &n.inputs[i]
			if !e.connected {
				continue
			}
			if err := visit(e.srcNode); err != nil {
				return err
			}
		}
		color[id] = done
		sorted = append(sorted, id)
		return nil
	}
	for id := range g.nodes {
		if err := visit(NodeID(id)); err != nil {
			return nil, err
		}
	}
	return sorted, nil
}

// SetDefault assigns the default value of an unconnected input. Legal only
// after Finalize; the assigned value is shared read-only by every instance,
// so defaults are meant to be settled before instancing begins.
func SetDefault[T any](g *Graph, id NodeID, input int, value T) error {
	e, declared, err := g.defaultEdge(id, input)
	if err != nil {
		return err
	}
	if got := edge.TypeOf[T](g.types); got != declared {
		return fmt.Errorf("graph %q: %w: node %d input %d default given as %q, declared %q",
			g.name, ErrTypeMismatch, id, input, got.Name(), declared.Name())
	}
	*edge.ValueAt[T](g.defaults, e.defaultSlot) = value
	e.defaultSet = true
	return nil
}

// SetDefaultAny is the untyped sibling of SetDefault used by definition
// loaders: value's dynamic type must exactly match the declared edge type.
func (g *Graph) SetDefaultAny(id NodeID, input int, value any) error {
	e, declared, err := g.defaultEdge(id, input)
	if err != nil {
		return err
	}
	if got := reflect.TypeOf(value); got != declared.GoType() {
		return fmt.Errorf("graph %q: %w: node %d input %d default given as %v, declared %q",
			g.name, ErrTypeMismatch, id, input, got, declared.Name())
	}
	ptr := declared.NewValue()
	reflect.ValueOf(ptr).Elem().Set(reflect.ValueOf(value))
	g.defaults.Store(declared, e.defaultSlot, ptr)
	e.defaultSet = true
	return nil
}

func (g *Graph) defaultEdge(id NodeID, input int) (*inputEdge, *edge.Type, error) {
	if !g.finalized {
		return nil, nil, ErrNotFinalized
	}
	if id < 0 || int(id) >= len(g.nodes) {
		return nil, nil, fmt.Errorf("%w: %d", ErrUnknownNode, id)
	}
	n := g.nodes[id]
	if input < 0 || input >= len(n.inputs) {
		return nil, nil, fmt.Errorf("%w: node %d input %d", ErrNoSuchInput, id, input)
	}
	e := &n.inputs[input]
	if e.connected {
		return nil, nil, fmt.Errorf("%w: node %d input %d", ErrInputConnected, id, input)
	}
	return e, n.sig.inputs[input].Type, nil
}
