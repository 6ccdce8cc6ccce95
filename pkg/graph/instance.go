package graph

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/hexislab/patchbay/pkg/edge"
)

// Instance is one live execution of a finalized Graph. It owns the current
// output values, the dirty timestamps and the listener state; the Graph it
// references stays shared and read-only. Instances are single-threaded:
// Execute, MarkDirty and broadcasts that reach this instance must all
// happen on one goroutine.
type Instance struct {
	graph *Graph
	log   *slog.Logger
	hooks Hooks

	buf       *edge.Buffer
	stamps    []edge.Timestamp
	listeners []listener
	behaviors []Behavior

	now    edge.Timestamp
	closed bool
}

// InstanceOption configures an Instance at construction.
type InstanceOption func(*Instance)

// WithHooks attaches lifecycle hooks to the instance.
func WithHooks(h Hooks) InstanceOption {
	return func(in *Instance) {
		in.hooks = h
	}
}

// WithInstanceLogger overrides the logger inherited from the graph.
func WithInstanceLogger(logger *slog.Logger) InstanceOption {
	return func(in *Instance) {
		in.log = logger
	}
}

// NewInstance creates and initializes an instance of g. Storage is
// allocated from the graph's plan, behaviors are constructed (one per node
// per instance, so behavior state is never shared between instances), and
// every behavior implementing Initializer runs once in topological order.
// The instance Timestamp then advances, expiring anything stamped during
// initialization.
func NewInstance(g *Graph, opts ...InstanceOption) (*Instance, error) {
	if !g.finalized {
		return nil, fmt.Errorf("graph %q: %w", g.name, ErrNotFinalized)
	}
	in := &Instance{
		graph:     g,
		log:       g.log,
		buf:       g.instLayout.NewBuffer(),
		stamps:    make([]edge.Timestamp, g.stampCells),
		listeners: make([]listener, g.listenerCells),
		behaviors: make([]Behavior, len(g.nodes)),
	}
	for _, opt := range opts {
		opt(in)
	}
	for id, n := range g.nodes {
		for li, decl := range n.sig.listeners {
			in.listeners[n.listenerCells[li]] = listener{
				inst:  in,
				node:  NodeID(id),
				index: li,
				event: decl.Event,
			}
		}
		in.behaviors[id] = n.sig.newBehavior()
	}
	for _, id := range g.sorted {
		if init, ok := in.behaviors[id].(Initializer); ok {
			a := Args{inst: in, node: g.nodes[id], id: id}
			init.Initialize(&a)
		}
	}
	in.now++
	return in, nil
}

// Graph returns the definition this instance runs.
func (in *Instance) Graph() *Graph { return in.graph }

// Timestamp returns the instance's current timestamp.
func (in *Instance) Timestamp() edge.Timestamp { return in.now }

// MarkDirty stamps the node's own dirty mark so its next Execute pass runs
// it regardless of edge activity. This is the external door into the dirty
// system for changes that do not travel along edges.
func (in *Instance) MarkDirty(id NodeID) error {
	if id < 0 || int(id) >= len(in.graph.nodes) {
		return fmt.Errorf("%w: %d", ErrUnknownNode, id)
	}
	in.stamps[in.graph.nodes[id].ownStampCell] = in.now
	return nil
}

// Execute runs one evaluation pass: every dirty node, in topological
// order. A node that writes an output during the pass makes downstream
// nodes dirty within the same pass, so propagation never needs a second
// sweep. Afterwards the timestamp advances and all marks set during the
// pass expire.
func (in *Instance) Execute() {
	var passStart time.Time
	if in.hooks.OnPassEnd != nil {
		passStart = time.Now()
	}
	if in.hooks.OnPassBegin != nil {
		in.hooks.OnPassBegin(in.now)
	}
	executed := 0
	for _, id := range in.graph.sorted {
		n := in.graph.nodes[id]
		if !in.dirty(n) {
			continue
		}
		a := Args{inst: in, node: n, id: id}
		if in.hooks.OnNodeExecute != nil {
			nodeStart := time.Now()
			in.behaviors[id].Execute(&a)
			in.hooks.OnNodeExecute(id, n.sig, time.Since(nodeStart))
		} else {
			in.behaviors[id].Execute(&a)
		}
		executed++
	}
	pass := in.now
	in.now++
	if in.hooks.OnPassEnd != nil {
		in.hooks.OnPassEnd(pass, executed, time.Since(passStart))
	}
}

func (in *Instance) dirty(n *node) bool {
	if in.stamps[n.ownStampCell] == in.now {
		return true
	}
	for _, cell := range n.listenerCells {
		if in.listeners[cell].stamp == in.now {
			return true
		}
	}
	for i := range n.inputs {
		e := &n.inputs[i]
		if !e.connected {
			continue
		}
		src := in.graph.nodes[e.srcNode]
		if in.stamps[src.outputs[e.srcOutput].stampCell] == in.now {
			return true
		}
	}
	return false
}

// OutputValue reads the current value of a connected output, for
// observation from outside the behavior contract (tests, inspectors).
func OutputValue[T any](in *Instance, id NodeID, output int) (T, error) {
	var zero T
	if id < 0 || int(id) >= len(in.graph.nodes) {
		return zero, fmt.Errorf("%w: %d", ErrUnknownNode, id)
	}
	n := in.graph.nodes[id]
	if output < 0 || output >= len(n.outputs) {
		return zero, fmt.Errorf("%w: node %d output %d", ErrNoSuchOutput, id, output)
	}
	o := &n.outputs[output]
	if !o.connected {
		return zero, fmt.Errorf("%w: node %d output %d", ErrUnconnectedOutput, id, output)
	}
	declared := n.sig.outputs[output].Type
	if got := edge.TypeOf[T](in.graph.types); got != declared {
		return zero, fmt.Errorf("%w: node %d output %d read as %q, declared %q",
			ErrTypeMismatch, id, output, got.Name(), declared.Name())
	}
	return *edge.ValueAt[T](in.buf, o.slot), nil
}

// Close tears the instance down: listeners leave their broadcaster lists
// and behaviors implementing io.Closer are closed in reverse topological
// order. Close is idempotent.
func (in *Instance) Close() error {
	if in.closed {
		return nil
	}
	in.closed = true
	for i := range in.listeners {
		l := &in.listeners[i]
		if l.owner != nil {
			l.owner.remove(l)
		}
	}
	var errs []error
	for i := len(in.graph.sorted) - 1; i >= 0; i-- {
		id := in.graph.sorted[i]
		if c, ok := in.behaviors[id].(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("node %d (%s): %w", id, in.graph.nodes[id].sig.QualifiedName(), err))
			}
		}
	}
	return errors.Join(errs...)
}
