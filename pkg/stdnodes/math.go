package stdnodes

import (
	"github.com/hexislab/patchbay/pkg/graph"
	"github.com/hexislab/patchbay/pkg/registry"
)

type number interface {
	~int | ~float64
}

func installIntegerMath(r *registry.Registry) error {
	ins, err := newInstaller(r, "integer_math")
	if err != nil {
		return err
	}
	installMath[int](ins)

	ins.register("int_to_float", func(s *graph.Signature) {
		graph.AddInput[int](s, "value")
		graph.AddOutput[float64](s, "value")
	}, graph.BehaviorFunc(func(a *graph.Args) {
		graph.SetOutput(a, 0, float64(graph.Input[int](a, 0)))
	}))

	return ins.err
}

func installFloatMath(r *registry.Registry) error {
	ins, err := newInstaller(r, "float_math")
	if err != nil {
		return err
	}
	installMath[float64](ins)
	return ins.err
}

func installMath[T number](ins *installer) {
	registerCompare(ins, "equals", func(a, b T) bool { return a == b })
	registerCompare(ins, "not_equals", func(a, b T) bool { return a != b })
	registerCompare(ins, "greater_than", func(a, b T) bool { return a > b })
	registerCompare(ins, "greater_than_or_equals", func(a, b T) bool { return a >= b })
	registerCompare(ins, "less_than", func(a, b T) bool { return a < b })
	registerCompare(ins, "less_than_or_equals", func(a, b T) bool { return a <= b })

	registerArithmetic(ins, "add", func(a, b T) T { return a + b })
	registerArithmetic(ins, "subtract", func(a, b T) T { return a - b })
	registerArithmetic(ins, "multiply", func(a, b T) T { return a * b })
	registerArithmetic(ins, "divide", func(a, b T) T { return a / b })

	registerPick(ins, "max", func(a, b T) T {
		if a > b {
			return a
		}
		return b
	})
	registerPick(ins, "min", func(a, b T) T {
		if a < b {
			return a
		}
		return b
	})

	ins.register("clamp", func(s *graph.Signature) {
		graph.AddInput[T](s, "value")
		graph.AddInput[T](s, "min")
		graph.AddInput[T](s, "max")
		graph.AddOutput[T](s, "value")
	}, graph.BehaviorFunc(func(a *graph.Args) {
		v := graph.Input[T](a, 0)
		lo := graph.Input[T](a, 1)
		hi := graph.Input[T](a, 2)
		if v < lo {
			v = lo
		}
		if v > hi {
			v = hi
		}
		graph.SetOutput(a, 0, v)
	}))

	ins.register("lerp", func(s *graph.Signature) {
		graph.AddInput[T](s, "start")
		graph.AddInput[T](s, "finish")
		graph.AddInput[float64](s, "ratio")
		graph.AddOutput[T](s, "value")
	}, graph.BehaviorFunc(func(a *graph.Args) {
		start := graph.Input[T](a, 0)
		finish := graph.Input[T](a, 1)
		ratio := graph.Input[float64](a, 2)
		graph.SetOutput(a, 0, start+T(float64(finish-start)*ratio))
	}))
}

// registerCompare and registerArithmetic compute at initialization too,
// so comparison chains settle before the first pass.
func registerCompare[T number](ins *installer, name string, op func(a, b T) bool) {
	ins.register(name, func(s *graph.Signature) {
		graph.AddInput[T](s, "a")
		graph.AddInput[T](s, "b")
		graph.AddOutput[bool](s, "result")
	}, initAndRun(func(a *graph.Args) {
		graph.SetOutput(a, 0, op(graph.Input[T](a, 0), graph.Input[T](a, 1)))
	}))
}

func registerArithmetic[T number](ins *installer, name string, op func(a, b T) T) {
	ins.register(name, func(s *graph.Signature) {
		graph.AddInput[T](s, "a")
		graph.AddInput[T](s, "b")
		graph.AddOutput[T](s, "result")
	}, initAndRun(func(a *graph.Args) {
		graph.SetOutput(a, 0, op(graph.Input[T](a, 0), graph.Input[T](a, 1)))
	}))
}

func registerPick[T number](ins *installer, name string, op func(a, b T) T) {
	ins.register(name, func(s *graph.Signature) {
		graph.AddInput[T](s, "a")
		graph.AddInput[T](s, "b")
		graph.AddOutput[T](s, "result")
	}, graph.BehaviorFunc(func(a *graph.Args) {
		graph.SetOutput(a, 0, op(graph.Input[T](a, 0), graph.Input[T](a, 1)))
	}))
}
