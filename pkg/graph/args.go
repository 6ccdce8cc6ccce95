package graph

import (
	"fmt"
	"reflect"

	"github.com/hexislab/patchbay/pkg/edge"
)

// Args is the surface a Behavior sees during Initialize and Execute: typed
// access to the node's inputs and outputs, dirty queries, and listener
// binding. An Args value is only valid for the duration of the call it was
// passed to.
//
// Index or type misuse on any Args operation is a programming error in the
// node implementation and panics with a diagnostic naming the node kind,
// the index and both types.
type Args struct {
	inst *Instance
	node *node
	id   NodeID
}

// Input returns the value of input i: the source node's current output
// when connected, the graph's shared default otherwise. Inputs are
// read-only; values are returned by copy so behaviors cannot bypass change
// detection.
func Input[T any](a *Args, i int) T {
	e := a.verifyInput(i, edge.TypeOf[T](a.inst.graph.types))
	if e.connected {
		src := a.inst.graph.nodes[e.srcNode]
		return *edge.ValueAt[T](a.inst.buf, src.outputs[e.srcOutput].slot)
	}
	return *edge.ValueAt[T](a.inst.graph.defaults, e.defaultSlot)
}

// SetOutput writes output i and stamps it with the current timestamp,
// making every connected downstream node dirty for this pass. Writing an
// output no input observes is a no-op.
func SetOutput[T any](a *Args, i int, value T) {
	o := a.verifyOutput(i, edge.TypeOf[T](a.inst.graph.types))
	if !o.connected {
		return
	}
	a.inst.stamps[o.stampCell] = a.inst.now
	*edge.ValueAt[T](a.inst.buf, o.slot) = value
}

// Signal stamps a payload-less output. The output must be declared with
// the edge.Signal type; like SetOutput, unobserved outputs are a no-op.
func (a *Args) Signal(i int) {
	o := a.verifyOutputIndex(i)
	declared := a.node.sig.outputs[i].Type
	if declared.GoType() != reflect.TypeOf(edge.Signal{}) {
		a.fail(fmt.Sprintf("%s: output %d is type %q, not a signal",
			a.node.sig.QualifiedName(), i, declared.Name()))
	}
	if !o.connected {
		return
	}
	a.inst.stamps[o.stampCell] = a.inst.now
}

// IsInputDirty reports whether input i's source output was written during
// the current pass. Unconnected inputs read defaults, which never change,
// and are never dirty.
func (a *Args) IsInputDirty(i int) bool {
	e := a.verifyInputIndex(i)
	if !e.connected {
		return false
	}
	src := a.inst.graph.nodes[e.srcNode]
	return a.inst.stamps[src.outputs[e.srcOutput].stampCell] == a.inst.now
}

// IsListenerDirty reports whether listener i was stamped by a broadcast
// that triggered the current pass.
func (a *Args) IsListenerDirty(i int) bool {
	a.verifyListenerIndex(i)
	return a.inst.listeners[a.node.listenerCells[i]].stamp == a.inst.now
}

// fail reports a behavior contract violation: the diagnostic goes through
// the instance logger first so it survives recover-based crash handlers.
func (a *Args) fail(msg string) {
	a.inst.log.Error(msg)
	panic(msg)
}

// BindBroadcaster registers this node's listener i with the broadcaster.
// A listener belongs to at most one broadcaster's list at a time; binding
// again moves it. Typically called from Initialize.
func (a *Args) BindBroadcaster(i int, b *Broadcaster) {
	a.verifyListenerIndex(i)
	b.register(&a.inst.listeners[a.node.listenerCells[i]])
}

func (a *Args) verifyInput(i int, requested *edge.Type) *inputEdge {
	e := a.verifyInputIndex(i)
	declared := a.node.sig.inputs[i].Type
	if requested != declared {
		a.fail(fmt.Sprintf("%s: input %d requested as %q, declared %q",
			a.node.sig.QualifiedName(), i, requested.Name(), declared.Name()))
	}
	return e
}

func (a *Args) verifyInputIndex(i int) *inputEdge {
	if i < 0 || i >= len(a.node.inputs) {
		a.fail(fmt.Sprintf("%s: input %d out of range, node has %d inputs",
			a.node.sig.QualifiedName(), i, len(a.node.inputs)))
	}
	return &a.node.inputs[i]
}

func (a *Args) verifyOutput(i int, requested *edge.Type) *outputEdge {
	o := a.verifyOutputIndex(i)
	declared := a.node.sig.outputs[i].Type
	if requested != declared {
		a.fail(fmt.Sprintf("%s: output %d set as %q, declared %q",
			a.node.sig.QualifiedName(), i, requested.Name(), declared.Name()))
	}
	return o
}

func (a *Args) verifyOutputIndex(i int) *outputEdge {
	if i < 0 || i >= len(a.node.outputs) {
		a.fail(fmt.Sprintf("%s: output %d out of range, node has %d outputs",
			a.node.sig.QualifiedName(), i, len(a.node.outputs)))
	}
	return &a.node.outputs[i]
}

func (a *Args) verifyListenerIndex(i int) {
	if i < 0 || i >= len(a.node.listenerCells) {
		a.fail(fmt.Sprintf("%s: listener %d out of range, node has %d listeners",
			a.node.sig.QualifiedName(), i, len(a.node.listenerCells)))
	}
}
