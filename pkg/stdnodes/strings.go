package stdnodes

import (
	"strconv"

	"github.com/hexislab/patchbay/pkg/graph"
	"github.com/hexislab/patchbay/pkg/registry"
)

func installString(r *registry.Registry) error {
	ins, err := newInstaller(r, "string")
	if err != nil {
		return err
	}

	ins.register("equals", func(s *graph.Signature) {
		graph.AddInput[string](s, "a")
		graph.AddInput[string](s, "b")
		graph.AddOutput[bool](s, "result")
	}, initAndRun(func(a *graph.Args) {
		graph.SetOutput(a, 0, graph.Input[string](a, 0) == graph.Input[string](a, 1))
	}))

	ins.register("concat", func(s *graph.Signature) {
		graph.AddInput[string](s, "a")
		graph.AddInput[string](s, "b")
		graph.AddOutput[string](s, "result")
	}, graph.BehaviorFunc(func(a *graph.Args) {
		graph.SetOutput(a, 0, graph.Input[string](a, 0)+graph.Input[string](a, 1))
	}))

	ins.register("int_to_string", func(s *graph.Signature) {
		graph.AddInput[int](s, "value")
		graph.AddOutput[string](s, "result")
	}, graph.BehaviorFunc(func(a *graph.Args) {
		graph.SetOutput(a, 0, strconv.Itoa(graph.Input[int](a, 0)))
	}))

	ins.register("float_to_string", func(s *graph.Signature) {
		graph.AddInput[float64](s, "value")
		graph.AddOutput[string](s, "result")
	}, graph.BehaviorFunc(func(a *graph.Args) {
		graph.SetOutput(a, 0, strconv.FormatFloat(graph.Input[float64](a, 0), 'g', -1, 64))
	}))

	return ins.err
}
