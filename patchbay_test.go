package patchbay_test

import (
	"context"
	"errors"
	"testing"

	"github.com/hexislab/patchbay"
	"github.com/hexislab/patchbay/pkg/adapters/memory"
	"github.com/hexislab/patchbay/pkg/edge"
	"github.com/hexislab/patchbay/pkg/graph"
	"github.com/hexislab/patchbay/pkg/graphdef"
	"github.com/hexislab/patchbay/pkg/ports"
	"github.com/hexislab/patchbay/pkg/registry"
)

func counterDefinition() *graphdef.Definition {
	return &graphdef.Definition{
		Name: "counter",
		Nodes: []graphdef.NodeDef{
			{Name: "total", Kind: "integer_math.add", Inputs: []graphdef.InputDef{
				{Value: graphdef.Value(7)},
				{Value: graphdef.Value(5)},
			}},
			{Name: "echo", Kind: "string.int_to_string", Inputs: []graphdef.InputDef{
				{Node: "total"},
			}},
			{Name: "print", Kind: "debug.console_print", Inputs: []graphdef.InputDef{
				{},
				{Node: "echo"},
			}},
		},
	}
}

func newTestEngine(t *testing.T) *patchbay.Engine {
	t.Helper()
	source, err := memory.NewFromDefinitions(counterDefinition())
	if err != nil {
		t.Fatalf("NewFromDefinitions failed: %v", err)
	}
	eng, err := patchbay.New(
		patchbay.WithStdNodes(),
		patchbay.WithSource(source),
	)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return eng
}

func TestEngineInstance(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	inst, err := eng.Instance(ctx, "counter")
	if err != nil {
		t.Fatalf("Instance failed: %v", err)
	}

	ids := graphdef.NodeIDs(counterDefinition())
	if err := inst.MarkDirty(ids["total"]); err != nil {
		t.Fatalf("MarkDirty failed: %v", err)
	}
	inst.Execute()

	got, err := graph.OutputValue[string](inst, ids["echo"], 0)
	if err != nil {
		t.Fatalf("OutputValue failed: %v", err)
	}
	if got != "12" {
		t.Errorf("Expected the echoed sum %q, got %q", "12", got)
	}
}

func TestEngineInstancesShareTheGraph(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	a, err := eng.Instance(ctx, "counter")
	if err != nil {
		t.Fatalf("Instance failed: %v", err)
	}
	b, err := eng.Instance(ctx, "counter")
	if err != nil {
		t.Fatalf("Instance failed: %v", err)
	}
	if a == b {
		t.Fatal("Expected distinct instances")
	}
	if a.Graph() != b.Graph() {
		t.Error("Expected both instances to share one compiled graph")
	}
}

func TestEngineValidate(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	if err := eng.Validate(ctx, "counter"); err != nil {
		t.Errorf("Expected the stored definition to validate, got %v", err)
	}

	broken := &graphdef.Definition{
		Name: "broken",
		Nodes: []graphdef.NodeDef{
			{Name: "x", Kind: "integer_math.no_such_kind"},
		},
	}
	if err := eng.Source().(ports.Publisher).Publish(ctx, broken); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if err := eng.Validate(ctx, "broken"); !errors.Is(err, registry.ErrUnknownNode) {
		t.Errorf("Expected ErrUnknownNode, got %v", err)
	}

	if err := eng.Validate(ctx, "missing"); err == nil {
		t.Error("Expected a missing definition to fail validation")
	}
}

func TestEngineWithoutSource(t *testing.T) {
	eng, err := patchbay.New(patchbay.WithStdNodes())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := eng.Graph(context.Background(), "counter"); !errors.Is(err, patchbay.ErrNoSource) {
		t.Errorf("Expected ErrNoSource, got %v", err)
	}
	if err := eng.Validate(context.Background(), "counter"); !errors.Is(err, patchbay.ErrNoSource) {
		t.Errorf("Expected ErrNoSource, got %v", err)
	}
}

func TestEngineRegister(t *testing.T) {
	eng, err := patchbay.New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	mod, err := eng.Register("custom")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if mod.Name() != "custom" {
		t.Errorf("Expected module %q, got %q", "custom", mod.Name())
	}
	if len(eng.Modules()) != 1 {
		t.Errorf("Expected one module, got %d", len(eng.Modules()))
	}
}

func TestEngineRegistryOptions(t *testing.T) {
	types := edge.NewRegistry()
	reg := registry.New(types)

	eng, err := patchbay.New(patchbay.WithRegistry(reg))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if eng.Types() != types {
		t.Error("Expected the engine to adopt the registry's type registry")
	}
	if eng.Registry() != reg {
		t.Error("Expected the engine to keep the supplied registry")
	}

	other := edge.NewRegistry()
	if _, err := patchbay.New(patchbay.WithRegistry(reg), patchbay.WithTypes(other)); err == nil {
		t.Error("Expected a conflicting type registry to be rejected")
	}
}
