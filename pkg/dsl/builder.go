package dsl

import (
	"fmt"

	"github.com/hexislab/patchbay/pkg/graph"
	"github.com/hexislab/patchbay/pkg/registry"
)

type inputSpec struct {
	connected bool
	src       string
	output    int
	value     any
	hasValue  bool
}

type nodeSpec struct {
	sig    *graph.Signature
	inputs map[int]*inputSpec
}

// Builder accumulates named nodes and their wiring. Methods record the
// first defect they encounter and become no-ops afterwards; Build reports
// that defect. Nodes must be declared before they are wired.
type Builder struct {
	reg   *registry.Registry
	name  string
	nodes map[string]*nodeSpec
	order []string
	err   error
}

// New creates a builder for a graph called name, drawing node kinds from reg.
func New(reg *registry.Registry, name string) *Builder {
	return &Builder{
		reg:   reg,
		name:  name,
		nodes: make(map[string]*nodeSpec),
	}
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Node declares a node under name using the signature registered as kind
// ("module.node").
func (b *Builder) Node(name, kind string) *Builder {
	if b.err != nil {
		return b
	}
	if _, ok := b.nodes[name]; ok {
		b.fail(fmt.Errorf("dsl: node %q declared twice", name))
		return b
	}
	sig, err := b.reg.Resolve(kind)
	if err != nil {
		b.fail(fmt.Errorf("dsl: node %q: %w", name, err))
		return b
	}
	b.nodes[name] = &nodeSpec{sig: sig, inputs: make(map[int]*inputSpec)}
	b.order = append(b.order, name)
	return b
}

// Wire connects dst's input to src's output. Inputs left unwired stay
// unconnected.
func (b *Builder) Wire(dst string, input int, src string, output int) *Builder {
	spec := b.input("Wire", dst, input)
	if spec == nil {
		return b
	}
	srcSpec, ok := b.nodes[src]
	if !ok {
		b.fail(fmt.Errorf("dsl: Wire refers to undeclared node %q", src))
		return b
	}
	if output < 0 || output >= len(srcSpec.sig.Outputs()) {
		b.fail(fmt.Errorf("dsl: node %q (%s) has no output %d", src, srcSpec.sig.QualifiedName(), output))
		return b
	}
	*spec = inputSpec{connected: true, src: src, output: output}
	return b
}

// Default leaves dst's input unconnected and assigns value as its default.
// The value's type must match the input's edge type exactly; use
// pkg/graphdef for loosely typed sources.
func (b *Builder) Default(dst string, input int, value any) *Builder {
	spec := b.input("Default", dst, input)
	if spec == nil {
		return b
	}
	*spec = inputSpec{value: value, hasValue: true}
	return b
}

// Open marks dst's input as intentionally unconnected. Unwired inputs are
// open either way; the call just makes the intent visible in wiring code.
func (b *Builder) Open(dst string, input int) *Builder {
	spec := b.input("Open", dst, input)
	if spec == nil {
		return b
	}
	*spec = inputSpec{}
	return b
}

// input resolves one (node, input index) address, recording a defect and
// returning nil when the address is invalid or already specified.
func (b *Builder) input(op, name string, input int) *inputSpec {
	if b.err != nil {
		return nil
	}
	node, ok := b.nodes[name]
	if !ok {
		b.fail(fmt.Errorf("dsl: %s refers to undeclared node %q", op, name))
		return nil
	}
	if input < 0 || input >= len(node.sig.Inputs()) {
		b.fail(fmt.Errorf("dsl: node %q (%s) has no input %d", name, node.sig.QualifiedName(), input))
		return nil
	}
	if _, ok := node.inputs[input]; ok {
		b.fail(fmt.Errorf("dsl: node %q input %d specified twice", name, input))
		return nil
	}
	spec := &inputSpec{}
	node.inputs[input] = spec
	return spec
}

// ID returns the id a declared node receives when the graph is built. Ids
// follow declaration order.
func (b *Builder) ID(name string) (graph.NodeID, bool) {
	for i, n := range b.order {
		if n == name {
			return graph.NodeID(i), true
		}
	}
	return 0, false
}

// Build assembles the graph, finalizes it, and applies recorded defaults.
// Any defect recorded while chaining is returned instead.
func (b *Builder) Build(opts ...graph.Option) (*graph.Graph, error) {
	if b.err != nil {
		return nil, b.err
	}

	g := graph.New(b.reg.Types(), b.name, opts...)
	ids := make(map[string]graph.NodeID, len(b.order))
	for _, name := range b.order {
		id, err := g.AddNode(b.nodes[name].sig)
		if err != nil {
			return nil, fmt.Errorf("dsl: node %q: %w", name, err)
		}
		ids[name] = id
	}

	for _, name := range b.order {
		node := b.nodes[name]
		for i := range node.sig.Inputs() {
			spec, ok := node.inputs[i]
			if ok && spec.connected {
				if err := g.ConnectInput(ids[name], ids[spec.src], spec.output); err != nil {
					return nil, fmt.Errorf("dsl: node %q input %d: %w", name, i, err)
				}
				continue
			}
			if err := g.SkipInput(ids[name]); err != nil {
				return nil, fmt.Errorf("dsl: node %q input %d: %w", name, i, err)
			}
		}
	}

	if err := g.Finalize(); err != nil {
		return nil, err
	}

	for _, name := range b.order {
		for i, spec := range b.nodes[name].inputs {
			if !spec.hasValue {
				continue
			}
			if err := g.SetDefaultAny(ids[name], i, spec.value); err != nil {
				return nil, fmt.Errorf("dsl: node %q input %d: %w", name, i, err)
			}
		}
	}
	return g, nil
}
