package main

import (
	"context"
	"fmt"
	"os"

	"github.com/hexislab/patchbay/pkg/adapters/yamlfile"
	"github.com/hexislab/patchbay/pkg/graphdef"
)

func main() {
	targetDir := "graphs"
	if len(os.Args) > 1 {
		targetDir = os.Args[1]
	}

	if err := os.MkdirAll(targetDir, 0755); err != nil {
		panic(err)
	}

	fmt.Printf("Generating sample patches in: %s\n", targetDir)

	store := yamlfile.New(targetDir)
	ctx := context.TODO()

	for _, def := range samplePatches() {
		if err := store.Publish(ctx, def); err != nil {
			fmt.Printf("Publish %s failed: %v\n", def.Name, err)
			os.Exit(1)
		}
		fmt.Printf("  %s.yaml\n", def.Name)
	}

	fmt.Printf("Done. Try: patchbay run counter --dir %s --mark total\n", targetDir)
}

// samplePatches builds the starter definitions shipped by this tool.
func samplePatches() []*graphdef.Definition {
	counter := &graphdef.Definition{
		Name: "counter",
		Nodes: []graphdef.NodeDef{
			{Name: "total", Kind: "integer_math.add", Inputs: []graphdef.InputDef{
				{Value: graphdef.Value(7)},
				{Value: graphdef.Value(5)},
			}},
			{Name: "text", Kind: "string.int_to_string", Inputs: []graphdef.InputDef{
				{Node: "total"},
			}},
			{Name: "print", Kind: "debug.console_print", Inputs: []graphdef.InputDef{
				{},
				{Node: "text"},
			}},
		},
	}

	// thermostat routes a comparison through an if node, so only the
	// matching branch pulses its console output.
	thermostat := &graphdef.Definition{
		Name: "thermostat",
		Nodes: []graphdef.NodeDef{
			{Name: "too_hot", Kind: "float_math.greater_than", Inputs: []graphdef.InputDef{
				{Value: graphdef.Value(23.5)},
				{Value: graphdef.Value(21.0)},
			}},
			{Name: "decide", Kind: "logic.if", Inputs: []graphdef.InputDef{
				{Node: "too_hot"},
			}},
			{Name: "alert", Kind: "debug.console_print", Inputs: []graphdef.InputDef{
				{Node: "decide", Output: "true"},
				{Value: graphdef.Value("temperature above limit")},
			}},
		},
	}

	return []*graphdef.Definition{counter, thermostat}
}
