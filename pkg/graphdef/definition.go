package graphdef

// Definition describes one graph as plain data.
type Definition struct {
	Name  string    `yaml:"name" json:"name"`
	Nodes []NodeDef `yaml:"nodes" json:"nodes"`
}

// NodeDef names one node and the registered signature it instantiates.
// Inputs are positional: entry i configures the signature's input i.
// Trailing inputs may be omitted; they are left open.
type NodeDef struct {
	Name   string     `yaml:"name" json:"name"`
	Kind   string     `yaml:"kind" json:"kind"`
	Inputs []InputDef `yaml:"inputs,omitempty" json:"inputs,omitempty"`
}

// InputDef configures one input edge. Exactly one form applies:
//
//   - connected: Node (and optionally Output) name another node's output
//   - defaulted: Value carries the default for an unconnected input
//   - open: the empty entry
//
// Output may be omitted when the source node's kind declares a single
// output. Value is a pointer so a stored zero survives round-trips
// through encoders that drop empty fields.
type InputDef struct {
	Node   string `yaml:"node,omitempty" json:"node,omitempty"`
	Output string `yaml:"output,omitempty" json:"output,omitempty"`
	Value  *any   `yaml:"value,omitempty" json:"value,omitempty"`
}

// Value boxes a default value for an InputDef literal.
func Value(v any) *any { return &v }

// Node returns the node definition under name.
func (d *Definition) Node(name string) (*NodeDef, bool) {
	for i := range d.Nodes {
		if d.Nodes[i].Name == name {
			return &d.Nodes[i], true
		}
	}
	return nil, false
}
