package stdnodes

import (
	"log/slog"

	"github.com/hexislab/patchbay/pkg/edge"
	"github.com/hexislab/patchbay/pkg/graph"
	"github.com/hexislab/patchbay/pkg/registry"
)

func installDebug(r *registry.Registry, log *slog.Logger) error {
	ins, err := newInstaller(r, "debug")
	if err != nil {
		return err
	}

	// console_print logs its string input whenever the node runs and
	// echoes it, so prints can be chained into a pipeline.
	ins.register("console_print", func(s *graph.Signature) {
		graph.AddInput[edge.Signal](s, "trigger")
		graph.AddInput[string](s, "in")
		graph.AddOutput[string](s, "out")
	}, graph.BehaviorFunc(func(a *graph.Args) {
		msg := graph.Input[string](a, 1)
		log.Info(msg)
		graph.SetOutput(a, 0, msg)
	}))

	return ins.err
}
