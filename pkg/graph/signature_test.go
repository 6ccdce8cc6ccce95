package graph_test

import (
	"testing"

	"github.com/hexislab/patchbay/pkg/graph"
)

func TestSignatureDeclare(t *testing.T) {
	types := newTestTypes(t)
	ev := graph.NewEvent("reset")

	sig := graph.NewSignature(types, "math", "sum", func(s *graph.Signature) {
		graph.AddInput[int](s, "a")
		graph.AddInput[int](s, "b")
		graph.AddOutput[int](s, "sum")
		s.AddListener(ev, "reset")
	})

	if sig.QualifiedName() != "math.sum" {
		t.Errorf("Expected qualified name 'math.sum', got %q", sig.QualifiedName())
	}

	inputs := sig.Inputs()
	if len(inputs) != 2 {
		t.Fatalf("Expected 2 inputs, got %d", len(inputs))
	}
	if inputs[0].Name != "a" || inputs[1].Name != "b" {
		t.Errorf("Expected inputs [a b], got [%s %s]", inputs[0].Name, inputs[1].Name)
	}
	if inputs[0].Type.Name() != "int" {
		t.Errorf("Expected input type 'int', got %q", inputs[0].Type.Name())
	}

	outputs := sig.Outputs()
	if len(outputs) != 1 || outputs[0].Name != "sum" {
		t.Fatalf("Expected one output 'sum', got %v", outputs)
	}

	listeners := sig.Listeners()
	if len(listeners) != 1 || listeners[0].Event != ev {
		t.Fatalf("Expected one listener on the reset event, got %v", listeners)
	}

	// Accessors hand out copies.
	inputs[0].Name = "mangled"
	if sig.Inputs()[0].Name != "a" {
		t.Error("Expected Inputs to return a copy")
	}
}

func TestSignatureFrozenAfterDeclare(t *testing.T) {
	types := newTestTypes(t)
	sig := graph.NewSignature(types, "test", "late", nil)

	defer func() {
		if recover() == nil {
			t.Error("Expected AddInput on a frozen signature to panic")
		}
	}()
	graph.AddInput[int](sig, "too-late")
}

func TestSignatureDefaultBehaviorIsInert(t *testing.T) {
	types := newTestTypes(t)
	g := graph.New(types, "inert")
	id := mustAdd(t, g, graph.NewSignature(types, "test", "noop", nil))
	mustFinalize(t, g)

	in := mustInstance(t, g)
	mustMarkDirty(t, in, id)
	in.Execute()
}

func TestBehaviorFunc(t *testing.T) {
	ran := false
	var b graph.Behavior = graph.BehaviorFunc(func(*graph.Args) { ran = true })
	b.Execute(nil)
	if !ran {
		t.Error("Expected BehaviorFunc to invoke the wrapped function")
	}
}
