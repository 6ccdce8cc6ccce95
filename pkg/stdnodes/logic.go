package stdnodes

import (
	"github.com/hexislab/patchbay/pkg/edge"
	"github.com/hexislab/patchbay/pkg/graph"
	"github.com/hexislab/patchbay/pkg/registry"
)

// stayLatch holds a boolean that trigger pulses set and reset. When both
// triggers fire in one pass, set wins.
type stayLatch struct{}

func (stayLatch) Initialize(a *graph.Args) {
	graph.SetOutput(a, 0, false)
}

func (stayLatch) Execute(a *graph.Args) {
	if a.IsInputDirty(0) {
		graph.SetOutput(a, 0, true)
	} else if a.IsInputDirty(1) {
		graph.SetOutput(a, 0, false)
	}
}

func installLogic(r *registry.Registry) error {
	ins, err := newInstaller(r, "logic")
	if err != nil {
		return err
	}

	registerBool := func(name string, op func(a, b bool) bool) {
		ins.register(name, func(s *graph.Signature) {
			graph.AddInput[bool](s, "a")
			graph.AddInput[bool](s, "b")
			graph.AddOutput[bool](s, "result")
		}, initAndRun(func(a *graph.Args) {
			graph.SetOutput(a, 0, op(graph.Input[bool](a, 0), graph.Input[bool](a, 1)))
		}))
	}
	registerBool("and", func(a, b bool) bool { return a && b })
	registerBool("or", func(a, b bool) bool { return a || b })
	registerBool("xor", func(a, b bool) bool { return a != b })

	ins.register("not", func(s *graph.Signature) {
		graph.AddInput[bool](s, "in")
		graph.AddOutput[bool](s, "out")
	}, initAndRun(func(a *graph.Args) {
		graph.SetOutput(a, 0, !graph.Input[bool](a, 0))
	}))

	// if turns a boolean into a pulse on one of two trigger outputs.
	ins.register("if", func(s *graph.Signature) {
		graph.AddInput[bool](s, "condition")
		graph.AddOutput[edge.Signal](s, "true")
		graph.AddOutput[edge.Signal](s, "false")
	}, graph.BehaviorFunc(func(a *graph.Args) {
		if graph.Input[bool](a, 0) {
			a.Signal(0)
		} else {
			a.Signal(1)
		}
	}))

	// if_gate does the same but only when its trigger input fired.
	ins.register("if_gate", func(s *graph.Signature) {
		graph.AddInput[edge.Signal](s, "trigger")
		graph.AddInput[bool](s, "condition")
		graph.AddOutput[edge.Signal](s, "true")
		graph.AddOutput[edge.Signal](s, "false")
	}, graph.BehaviorFunc(func(a *graph.Args) {
		if !a.IsInputDirty(0) {
			return
		}
		if graph.Input[bool](a, 1) {
			a.Signal(0)
		} else {
			a.Signal(1)
		}
	}))

	ins.register("stay_latch", func(s *graph.Signature) {
		graph.AddInput[edge.Signal](s, "set")
		graph.AddInput[edge.Signal](s, "reset")
		graph.AddOutput[bool](s, "value")
	}, stayLatch{})

	return ins.err
}
