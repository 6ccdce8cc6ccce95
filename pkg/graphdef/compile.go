package graphdef

import (
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"

	"github.com/hexislab/patchbay/pkg/dsl"
	"github.com/hexislab/patchbay/pkg/graph"
	"github.com/hexislab/patchbay/pkg/registry"
)

// Compile validates a definition and assembles it into a finalized graph
// using the node kinds registered in reg. Default values are coerced into
// the input's edge type with weak decoding, so a YAML integer can feed a
// float input and a bare scalar can feed a struct-typed edge's field.
func Compile(def *Definition, reg *registry.Registry, opts ...graph.Option) (*graph.Graph, error) {
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("graphdef: definition %q: %w", def.Name, err)
	}

	b := dsl.New(reg, def.Name)
	for _, n := range def.Nodes {
		b.Node(n.Name, n.Kind)
	}

	for _, n := range def.Nodes {
		sig, err := reg.Resolve(n.Kind)
		if err != nil {
			// The builder records the same defect; let Build report it.
			break
		}
		if len(n.Inputs) > len(sig.Inputs()) {
			return nil, fmt.Errorf("graphdef: node %q lists %d inputs, kind %s declares %d",
				n.Name, len(n.Inputs), n.Kind, len(sig.Inputs()))
		}

		for i, in := range n.Inputs {
			switch {
			case in.Node != "":
				output, err := resolveOutput(def, reg, &in)
				if err != nil {
					return nil, fmt.Errorf("graphdef: node %q input %d: %w", n.Name, i, err)
				}
				b.Wire(n.Name, i, in.Node, output)
			case in.Value != nil:
				decoded, err := decodeValue(sig, i, *in.Value)
				if err != nil {
					return nil, fmt.Errorf("graphdef: node %q input %d: %w", n.Name, i, err)
				}
				b.Default(n.Name, i, decoded)
			default:
				b.Open(n.Name, i)
			}
		}
	}

	g, err := b.Build(opts...)
	if err != nil {
		return nil, fmt.Errorf("graphdef: definition %q: %w", def.Name, err)
	}
	return g, nil
}

// NodeIDs maps a definition's node names to the ids Compile assigns them.
// Ids follow the definition's node order.
func NodeIDs(def *Definition) map[string]graph.NodeID {
	ids := make(map[string]graph.NodeID, len(def.Nodes))
	for i, n := range def.Nodes {
		ids[n.Name] = graph.NodeID(i)
	}
	return ids
}

// resolveOutput maps a connected input entry to the source's output index.
// An omitted output name is allowed when the source declares exactly one.
func resolveOutput(def *Definition, reg *registry.Registry, in *InputDef) (int, error) {
	src, ok := def.Node(in.Node)
	if !ok {
		return 0, fmt.Errorf("undefined source node %q", in.Node)
	}
	sig, err := reg.Resolve(src.Kind)
	if err != nil {
		return 0, err
	}

	outputs := sig.Outputs()
	if in.Output == "" {
		if len(outputs) != 1 {
			return 0, fmt.Errorf("source %q (%s) has %d outputs, name one", in.Node, src.Kind, len(outputs))
		}
		return 0, nil
	}
	for idx, p := range outputs {
		if p.Name == in.Output {
			return idx, nil
		}
	}
	return 0, fmt.Errorf("source %q (%s) has no output named %q", in.Node, src.Kind, in.Output)
}

// decodeValue coerces a raw definition value into input i's edge type.
func decodeValue(sig *graph.Signature, i int, raw any) (any, error) {
	port := sig.Inputs()[i]
	target := port.Type.NewValue()

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
		TagName:          "yaml",
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("value %v does not fit type %q: %w", raw, port.Type.Name(), err)
	}
	return reflect.ValueOf(target).Elem().Interface(), nil
}
