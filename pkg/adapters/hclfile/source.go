/*
Package hclfile loads graph definitions from a directory of HCL files.

A file may declare any number of graphs. Input blocks are positional and
line up with the kind's declared inputs; an empty block leaves the input
open.

	graph "counter" {
	  node "emit" {
	    kind = "sample.pulse"
	  }
	  node "total" {
	    kind = "sample.add"
	    input {
	      node   = "emit"
	      output = "value"
	    }
	    input {
	      value = 0
	    }
	  }
	}
*/
package hclfile

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"path/filepath"
	"sort"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/hexislab/patchbay/internal/logging"
	"github.com/hexislab/patchbay/pkg/graphdef"
	"github.com/hexislab/patchbay/pkg/ports"
)

type graphFile struct {
	Graphs []graphBlock `hcl:"graph,block"`
}

type graphBlock struct {
	Name  string      `hcl:"name,label"`
	Nodes []nodeBlock `hcl:"node,block"`
}

type nodeBlock struct {
	Name   string       `hcl:"name,label"`
	Kind   string       `hcl:"kind"`
	Inputs []inputBlock `hcl:"input,block"`
}

type inputBlock struct {
	Node   string     `hcl:"node,optional"`
	Output string     `hcl:"output,optional"`
	Value  *cty.Value `hcl:"value,optional"`
}

// Source implements ports.Source over a directory of *.hcl files.
// Graphs are addressed by block label, not by file name.
type Source struct {
	dir string
	log *slog.Logger
}

// Option configures a Source.
type Option func(*Source)

// WithLogger routes load diagnostics to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Source) {
		if logger != nil {
			s.log = logger
		}
	}
}

// New creates a source over dir.
func New(dir string, opts ...Option) *Source {
	s := &Source{dir: dir, log: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the graph block labelled name. Files are scanned in
// lexical order and the first match wins.
func (s *Source) Load(ctx context.Context, name string) (*graphdef.Definition, error) {
	files, err := s.files()
	if err != nil {
		return nil, err
	}

	for _, path := range files {
		cfg, err := decodeFile(path)
		if err != nil {
			return nil, err
		}
		for _, g := range cfg.Graphs {
			if g.Name != name {
				continue
			}
			s.log.Debug("decoded graph definition", "graph", name, "file", path)
			return definitionFromBlock(g)
		}
	}
	return nil, fmt.Errorf("hclfile: %q: %w", name, ports.ErrDefinitionNotFound)
}

// List returns every graph label declared in the directory, sorted.
func (s *Source) List(ctx context.Context) ([]string, error) {
	files, err := s.files()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var names []string
	for _, path := range files {
		cfg, err := decodeFile(path)
		if err != nil {
			return nil, err
		}
		for _, g := range cfg.Graphs {
			if seen[g.Name] {
				continue
			}
			seen[g.Name] = true
			names = append(names, g.Name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *Source) files() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("hclfile: list %q: %w", s.dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".hcl" {
			continue
		}
		files = append(files, filepath.Join(s.dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func decodeFile(path string) (*graphFile, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("hclfile: parse %s: %s", path, diags.Error())
	}

	var cfg graphFile
	if diags := gohcl.DecodeBody(file.Body, nil, &cfg); diags.HasErrors() {
		return nil, fmt.Errorf("hclfile: decode %s: %s", path, diags.Error())
	}
	return &cfg, nil
}

func definitionFromBlock(g graphBlock) (*graphdef.Definition, error) {
	def := &graphdef.Definition{
		Name:  g.Name,
		Nodes: make([]graphdef.NodeDef, 0, len(g.Nodes)),
	}
	for _, n := range g.Nodes {
		nd := graphdef.NodeDef{Name: n.Name, Kind: n.Kind}
		for i, in := range n.Inputs {
			id := graphdef.InputDef{Node: in.Node, Output: in.Output}
			if in.Value != nil {
				v, err := goValue(*in.Value)
				if err != nil {
					return nil, fmt.Errorf("hclfile: graph %q node %q input %d: %w", g.Name, n.Name, i, err)
				}
				id.Value = graphdef.Value(v)
			}
			nd.Inputs = append(nd.Inputs, id)
		}
		def.Nodes = append(def.Nodes, nd)
	}
	return def, nil
}

// goValue lowers an HCL scalar into the plain Go value graphdef carries.
// Whole numbers come back as int so they fit integer ports without loss;
// Compile's weak decoding widens them to float64 where needed.
func goValue(v cty.Value) (any, error) {
	if v.IsNull() {
		return nil, fmt.Errorf("null value")
	}
	switch v.Type() {
	case cty.String:
		return v.AsString(), nil
	case cty.Bool:
		return v.True(), nil
	case cty.Number:
		bf := v.AsBigFloat()
		if i, acc := bf.Int64(); acc == big.Exact {
			return int(i), nil
		}
		f, _ := bf.Float64()
		return f, nil
	default:
		return nil, fmt.Errorf("unsupported value type %s", v.Type().FriendlyName())
	}
}
