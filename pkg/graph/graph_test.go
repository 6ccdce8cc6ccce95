package graph_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/hexislab/patchbay/pkg/edge"
	"github.com/hexislab/patchbay/pkg/graph"
)

// The fixtures below are shared by every test in this package: a handful
// of tiny signatures (pulse, relay, accumulate, capture) wired into small
// graphs by hand, the same way embedding code would.

func newTestTypes(t *testing.T) *edge.Registry {
	t.Helper()
	types := edge.NewRegistry()
	edge.RegisterType[int](types, "int")
	edge.RegisterType[float64](types, "float64")
	edge.RegisterType[edge.Signal](types, "signal")
	return types
}

// pulseSignature emits the constant 1 whenever its node runs.
func pulseSignature(types *edge.Registry) *graph.Signature {
	return graph.NewSignature(types, "test", "pulse", func(s *graph.Signature) {
		graph.AddOutput[int](s, "value")
	}, graph.WithBehavior(func() graph.Behavior {
		return graph.BehaviorFunc(func(a *graph.Args) {
			graph.SetOutput[int](a, 0, 1)
		})
	}))
}

// floatPulseSignature is pulse with a float64 output, for mismatch tests.
func floatPulseSignature(types *edge.Registry) *graph.Signature {
	return graph.NewSignature(types, "test", "float_pulse", func(s *graph.Signature) {
		graph.AddOutput[float64](s, "value")
	}, graph.WithBehavior(func() graph.Behavior {
		return graph.BehaviorFunc(func(a *graph.Args) {
			graph.SetOutput[float64](a, 0, 1)
		})
	}))
}

// relaySignature copies its input to its output whenever its node runs.
func relaySignature(types *edge.Registry) *graph.Signature {
	return graph.NewSignature(types, "test", "relay", func(s *graph.Signature) {
		graph.AddInput[int](s, "in")
		graph.AddOutput[int](s, "out")
	}, graph.WithBehavior(func() graph.Behavior {
		return graph.BehaviorFunc(func(a *graph.Args) {
			graph.SetOutput[int](a, 0, graph.Input[int](a, 0))
		})
	}))
}

// pairSignature adds its two inputs.
func pairSignature(types *edge.Registry) *graph.Signature {
	return graph.NewSignature(types, "test", "pair", func(s *graph.Signature) {
		graph.AddInput[int](s, "a")
		graph.AddInput[int](s, "b")
		graph.AddOutput[int](s, "sum")
	}, graph.WithBehavior(func() graph.Behavior {
		return graph.BehaviorFunc(func(a *graph.Args) {
			graph.SetOutput[int](a, 0, graph.Input[int](a, 0)+graph.Input[int](a, 1))
		})
	}))
}

type accumulateBehavior struct {
	sum int
}

func (b *accumulateBehavior) Execute(a *graph.Args) {
	if a.IsInputDirty(0) {
		b.sum += graph.Input[int](a, 0)
		graph.SetOutput[int](a, 0, b.sum)
	}
}

// accumulateSignature keeps a running total of every dirty input value.
func accumulateSignature(types *edge.Registry) *graph.Signature {
	return graph.NewSignature(types, "test", "accumulate", func(s *graph.Signature) {
		graph.AddInput[int](s, "delta")
		graph.AddOutput[int](s, "total")
	}, graph.WithBehavior(func() graph.Behavior { return &accumulateBehavior{} }))
}

type captureBehavior struct {
	seen *[]int
}

func (b *captureBehavior) Execute(a *graph.Args) {
	if a.IsInputDirty(0) {
		*b.seen = append(*b.seen, graph.Input[int](a, 0))
	}
}

// captureSignature appends every dirty input value to seen.
func captureSignature(types *edge.Registry, seen *[]int) *graph.Signature {
	return graph.NewSignature(types, "test", "capture", func(s *graph.Signature) {
		graph.AddInput[int](s, "value")
	}, graph.WithBehavior(func() graph.Behavior { return &captureBehavior{seen: seen} }))
}

func mustAdd(t *testing.T, g *graph.Graph, sig *graph.Signature) graph.NodeID {
	t.Helper()
	id, err := g.AddNode(sig)
	if err != nil {
		t.Fatalf("AddNode(%s) failed: %v", sig.QualifiedName(), err)
	}
	return id
}

func mustConnect(t *testing.T, g *graph.Graph, dst, src graph.NodeID, output int) {
	t.Helper()
	if err := g.ConnectInput(dst, src, output); err != nil {
		t.Fatalf("ConnectInput(%d <- %d:%d) failed: %v", dst, src, output, err)
	}
}

func mustFinalize(t *testing.T, g *graph.Graph) {
	t.Helper()
	if err := g.Finalize(); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}
}

func TestGraphFinalize(t *testing.T) {
	t.Run("Deterministic Topological Order", func(t *testing.T) {
		// Diamond inserted sink-first: d <- {b, c} <- a. Sources must
		// still come out ahead of their consumers, and the order must be
		// reproducible across builds.
		types := newTestTypes(t)
		g := graph.New(types, "diamond")
		d := mustAdd(t, g, pairSignature(types))
		c := mustAdd(t, g, relaySignature(types))
		b := mustAdd(t, g, relaySignature(types))
		a := mustAdd(t, g, pulseSignature(types))
		mustConnect(t, g, d, b, 0)
		mustConnect(t, g, d, c, 0)
		mustConnect(t, g, b, a, 0)
		mustConnect(t, g, c, a, 0)
		mustFinalize(t, g)

		want := []graph.NodeID{a, b, c, d}
		got := g.Order()
		if len(got) != len(want) {
			t.Fatalf("Expected %d nodes in order, got %d", len(want), len(got))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("Expected order %v, got %v", want, got)
				break
			}
		}
	})

	t.Run("Cycle Rejected", func(t *testing.T) {
		types := newTestTypes(t)
		g := graph.New(types, "loop")
		r1 := mustAdd(t, g, relaySignature(types))
		r2 := mustAdd(t, g, relaySignature(types))
		mustConnect(t, g, r1, r2, 0)
		mustConnect(t, g, r2, r1, 0)

		err := g.Finalize()
		if !errors.Is(err, graph.ErrCycle) {
			t.Fatalf("Expected ErrCycle, got %v", err)
		}
		if !strings.Contains(err.Error(), "test.relay") {
			t.Errorf("Expected error to name the offending node, got %q", err)
		}
		if g.Finalized() {
			t.Error("Expected graph to stay unfinalized after a failed finalize")
		}
	})

	t.Run("Type Mismatch Names Both Types", func(t *testing.T) {
		types := newTestTypes(t)
		g := graph.New(types, "mismatch")
		src := mustAdd(t, g, floatPulseSignature(types))
		dst := mustAdd(t, g, relaySignature(types))
		mustConnect(t, g, dst, src, 0)

		err := g.Finalize()
		if !errors.Is(err, graph.ErrTypeMismatch) {
			t.Fatalf("Expected ErrTypeMismatch, got %v", err)
		}
		for _, name := range []string{`"int"`, `"float64"`} {
			if !strings.Contains(err.Error(), name) {
				t.Errorf("Expected error to mention %s, got %q", name, err)
			}
		}
	})

	t.Run("Input Count Mismatch", func(t *testing.T) {
		types := newTestTypes(t)
		g := graph.New(types, "short")
		src := mustAdd(t, g, pulseSignature(types))
		p := mustAdd(t, g, pairSignature(types))
		mustConnect(t, g, p, src, 0)

		err := g.Finalize()
		if !errors.Is(err, graph.ErrInputCount) {
			t.Fatalf("Expected ErrInputCount, got %v", err)
		}
	})

	t.Run("Failed Finalize Leaves Graph Buildable", func(t *testing.T) {
		types := newTestTypes(t)
		g := graph.New(types, "repairable")
		src := mustAdd(t, g, pulseSignature(types))
		p := mustAdd(t, g, pairSignature(types))
		mustConnect(t, g, p, src, 0)

		if err := g.Finalize(); !errors.Is(err, graph.ErrInputCount) {
			t.Fatalf("Expected ErrInputCount, got %v", err)
		}

		// Wiring the missing edge after the failure must repair the graph.
		mustConnect(t, g, p, src, 0)
		mustFinalize(t, g)
	})

	t.Run("Target Out Of Range", func(t *testing.T) {
		types := newTestTypes(t)
		g := graph.New(types, "dangling")
		r := mustAdd(t, g, relaySignature(types))
		mustConnect(t, g, r, 99, 0)

		if err := g.Finalize(); !errors.Is(err, graph.ErrInvalidTarget) {
			t.Fatalf("Expected ErrInvalidTarget for unknown source node, got %v", err)
		}
	})

	t.Run("Output Index Out Of Range", func(t *testing.T) {
		types := newTestTypes(t)
		g := graph.New(types, "dangling")
		src := mustAdd(t, g, pulseSignature(types))
		r := mustAdd(t, g, relaySignature(types))
		mustConnect(t, g, r, src, 3)

		if err := g.Finalize(); !errors.Is(err, graph.ErrInvalidTarget) {
			t.Fatalf("Expected ErrInvalidTarget for unknown output, got %v", err)
		}
	})

	t.Run("Build After Finalize Rejected", func(t *testing.T) {
		types := newTestTypes(t)
		g := graph.New(types, "sealed")
		src := mustAdd(t, g, pulseSignature(types))
		mustFinalize(t, g)

		if _, err := g.AddNode(pulseSignature(types)); !errors.Is(err, graph.ErrFinalized) {
			t.Errorf("Expected ErrFinalized from AddNode, got %v", err)
		}
		if err := g.ConnectInput(src, src, 0); !errors.Is(err, graph.ErrFinalized) {
			t.Errorf("Expected ErrFinalized from ConnectInput, got %v", err)
		}
		if err := g.SkipInput(src); !errors.Is(err, graph.ErrFinalized) {
			t.Errorf("Expected ErrFinalized from SkipInput, got %v", err)
		}
		if err := g.Finalize(); !errors.Is(err, graph.ErrFinalized) {
			t.Errorf("Expected ErrFinalized from second Finalize, got %v", err)
		}
	})
}

func TestGraphDefaults(t *testing.T) {
	build := func(t *testing.T) (*graph.Graph, graph.NodeID) {
		t.Helper()
		types := newTestTypes(t)
		g := graph.New(types, "defaults")
		r := mustAdd(t, g, relaySignature(types))
		if err := g.SkipInput(r); err != nil {
			t.Fatalf("SkipInput failed: %v", err)
		}
		return g, r
	}

	t.Run("Rejected Before Finalize", func(t *testing.T) {
		g, r := build(t)
		if err := graph.SetDefault(g, r, 0, 5); !errors.Is(err, graph.ErrNotFinalized) {
			t.Fatalf("Expected ErrNotFinalized, got %v", err)
		}
	})

	t.Run("Rejected On Connected Input", func(t *testing.T) {
		types := newTestTypes(t)
		g := graph.New(types, "defaults")
		src := mustAdd(t, g, pulseSignature(types))
		r := mustAdd(t, g, relaySignature(types))
		mustConnect(t, g, r, src, 0)
		mustFinalize(t, g)

		if err := graph.SetDefault(g, r, 0, 5); !errors.Is(err, graph.ErrInputConnected) {
			t.Fatalf("Expected ErrInputConnected, got %v", err)
		}
	})

	t.Run("Rejected On Type Mismatch", func(t *testing.T) {
		g, r := build(t)
		mustFinalize(t, g)
		err := graph.SetDefault(g, r, 0, 2.5)
		if !errors.Is(err, graph.ErrTypeMismatch) {
			t.Fatalf("Expected ErrTypeMismatch, got %v", err)
		}
		for _, name := range []string{`"int"`, `"float64"`} {
			if !strings.Contains(err.Error(), name) {
				t.Errorf("Expected error to mention %s, got %q", name, err)
			}
		}
	})

	t.Run("Rejected On Bad Indices", func(t *testing.T) {
		g, r := build(t)
		mustFinalize(t, g)
		if err := graph.SetDefault(g, 42, 0, 5); !errors.Is(err, graph.ErrUnknownNode) {
			t.Errorf("Expected ErrUnknownNode, got %v", err)
		}
		if err := graph.SetDefault(g, r, 7, 5); !errors.Is(err, graph.ErrNoSuchInput) {
			t.Errorf("Expected ErrNoSuchInput, got %v", err)
		}
	})

	t.Run("Dynamic Values", func(t *testing.T) {
		g, r := build(t)
		mustFinalize(t, g)
		if err := g.SetDefaultAny(r, 0, 3); err != nil {
			t.Fatalf("SetDefaultAny failed: %v", err)
		}
		if !g.DefaultAssigned(r, 0) {
			t.Error("Expected DefaultAssigned to report true")
		}
		if err := g.SetDefaultAny(r, 0, "nope"); !errors.Is(err, graph.ErrTypeMismatch) {
			t.Errorf("Expected ErrTypeMismatch for a string value, got %v", err)
		}
	})

	t.Run("Shared Across Instances", func(t *testing.T) {
		types := newTestTypes(t)
		g := graph.New(types, "defaults")
		r := mustAdd(t, g, relaySignature(types))
		if err := g.SkipInput(r); err != nil {
			t.Fatalf("SkipInput failed: %v", err)
		}
		var seen []int
		sink := mustAdd(t, g, captureSignature(types, &seen))
		mustConnect(t, g, sink, r, 0)
		mustFinalize(t, g)
		if err := graph.SetDefault(g, r, 0, 41); err != nil {
			t.Fatalf("SetDefault failed: %v", err)
		}

		for i := 0; i < 2; i++ {
			in, err := graph.NewInstance(g)
			if err != nil {
				t.Fatalf("NewInstance failed: %v", err)
			}
			if err := in.MarkDirty(r); err != nil {
				t.Fatalf("MarkDirty failed: %v", err)
			}
			in.Execute()
		}
		if len(seen) != 2 || seen[0] != 41 || seen[1] != 41 {
			t.Errorf("Expected both instances to relay the default 41, got %v", seen)
		}
	})
}

func TestGraphIntrospection(t *testing.T) {
	types := newTestTypes(t)
	g := graph.New(types, "wired")
	src := mustAdd(t, g, pulseSignature(types))
	r := mustAdd(t, g, relaySignature(types))
	mustConnect(t, g, r, src, 0)
	free := mustAdd(t, g, relaySignature(types))
	if err := g.SkipInput(free); err != nil {
		t.Fatalf("SkipInput failed: %v", err)
	}
	mustFinalize(t, g)

	if g.Name() != "wired" {
		t.Errorf("Expected name 'wired', got %q", g.Name())
	}
	if g.NodeCount() != 3 {
		t.Errorf("Expected 3 nodes, got %d", g.NodeCount())
	}
	if sig := g.Signature(src); sig == nil || sig.QualifiedName() != "test.pulse" {
		t.Errorf("Expected signature test.pulse, got %v", sig)
	}
	if sig := g.Signature(99); sig != nil {
		t.Errorf("Expected nil signature for unknown node, got %v", sig)
	}

	if s, out, ok := g.InputSource(r, 0); !ok || s != src || out != 0 {
		t.Errorf("Expected input source (%d, 0, true), got (%d, %d, %t)", src, s, out, ok)
	}
	if _, _, ok := g.InputSource(free, 0); ok {
		t.Error("Expected unconnected input to report no source")
	}

	order := g.Order()
	order[0] = 99
	if g.Order()[0] == 99 {
		t.Error("Expected Order to return a copy")
	}
}
