// Package dto holds the wire shapes shared by the HTTP inspector and
// the CLI's JSON output. They are projections of pkg/graphdef and
// pkg/graph types, kept separate so the engine packages stay free of
// presentation concerns.
package dto

import (
	"github.com/hexislab/patchbay/pkg/graph"
	"github.com/hexislab/patchbay/pkg/graphdef"
)

// GraphList is the graph listing body.
type GraphList struct {
	Graphs []string `json:"graphs"`
}

// Graph is the topology of one stored definition.
type Graph struct {
	Name  string `json:"name"`
	Nodes []Node `json:"nodes"`
}

// Node is one node with its kind and input wiring.
type Node struct {
	ID     int     `json:"id"`
	Name   string  `json:"name,omitempty"`
	Kind   string  `json:"kind"`
	Inputs []Input `json:"inputs,omitempty"`
}

// Input is one input edge. Connected inputs carry the source node and
// output name, pinned inputs carry their default value, open inputs
// carry neither. Pinned distinguishes a stored zero value from an open
// input.
type Input struct {
	Index  int    `json:"index"`
	Node   string `json:"node,omitempty"`
	Output string `json:"output,omitempty"`
	Value  any    `json:"value,omitempty"`
	Pinned bool   `json:"pinned,omitempty"`
}

// Kind describes one registered node kind for the catalog listing.
type Kind struct {
	Name      string   `json:"name"`
	Module    string   `json:"module"`
	Inputs    []Port   `json:"inputs,omitempty"`
	Outputs   []Port   `json:"outputs,omitempty"`
	Listeners []string `json:"listeners,omitempty"`
}

// Port pairs a declared port name with its edge type.
type Port struct {
	Name string `json:"name,omitempty"`
	Type string `json:"type"`
}

// Error is the uniform error body.
type Error struct {
	Error string `json:"error"`
}

// FromDefinition projects a stored definition onto the wire shape.
func FromDefinition(def *graphdef.Definition) Graph {
	g := Graph{Name: def.Name, Nodes: make([]Node, 0, len(def.Nodes))}
	for i, n := range def.Nodes {
		node := Node{ID: i, Name: n.Name, Kind: n.Kind}
		for j, in := range n.Inputs {
			input := Input{Index: j, Node: in.Node, Output: in.Output}
			if in.Value != nil {
				input.Value = *in.Value
				input.Pinned = true
			}
			node.Inputs = append(node.Inputs, input)
		}
		g.Nodes = append(g.Nodes, node)
	}
	return g
}

// FromSignature projects a registered signature onto the catalog shape.
func FromSignature(sig *graph.Signature) Kind {
	k := Kind{Name: sig.Name(), Module: sig.Module()}
	for _, p := range sig.Inputs() {
		k.Inputs = append(k.Inputs, Port{Name: p.Name, Type: p.Type.Name()})
	}
	for _, p := range sig.Outputs() {
		k.Outputs = append(k.Outputs, Port{Name: p.Name, Type: p.Type.Name()})
	}
	for _, l := range sig.Listeners() {
		k.Listeners = append(k.Listeners, l.Event.Name())
	}
	return k
}
