/*
Package stdnodes ships the built-in node library: the base edge types and
the integer_math, float_math, logic, string and debug modules.

	types := edge.NewRegistry()
	reg := registry.New(types)
	if err := stdnodes.Install(types, reg); err != nil {
		...
	}

Kinds are addressed as "module.node" in definitions, for example
"integer_math.add" or "logic.stay_latch".
*/
package stdnodes

import (
	"fmt"
	"log/slog"

	"github.com/hexislab/patchbay/internal/logging"
	"github.com/hexislab/patchbay/pkg/edge"
	"github.com/hexislab/patchbay/pkg/graph"
	"github.com/hexislab/patchbay/pkg/registry"
)

// Option configures Install.
type Option func(*config)

type config struct {
	log *slog.Logger
}

// WithLogger sets the logger the debug module prints through.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.log = logger
		}
	}
}

// Install registers the base types (int, float64, bool, string and the
// payload-less "trigger") on types and the built-in modules on r. The
// base types must not already be present; install once per registry pair.
func Install(types *edge.Registry, r *registry.Registry, opts ...Option) error {
	cfg := &config{log: logging.NewNop()}
	for _, opt := range opts {
		opt(cfg)
	}

	if r.Types() != types {
		return fmt.Errorf("stdnodes: registry is bound to a different type registry")
	}

	edge.RegisterType[int](types, "int")
	edge.RegisterType[float64](types, "float64")
	edge.RegisterType[bool](types, "bool")
	edge.RegisterType[string](types, "string")
	edge.RegisterType[edge.Signal](types, "trigger")

	if err := installIntegerMath(r); err != nil {
		return err
	}
	if err := installFloatMath(r); err != nil {
		return err
	}
	if err := installLogic(r); err != nil {
		return err
	}
	if err := installString(r); err != nil {
		return err
	}
	return installDebug(r, cfg.log)
}

// installer registers kinds on one module, keeping the first error.
type installer struct {
	mod *registry.Module
	err error
}

func newInstaller(r *registry.Registry, module string) (*installer, error) {
	mod, err := r.AddModule(module)
	if err != nil {
		return nil, err
	}
	return &installer{mod: mod}, nil
}

// register adds a kind whose every instance shares the one behavior
// value. All built-in behaviors are stateless; instance state lives in
// the output cells.
func (ins *installer) register(name string, declare func(*graph.Signature), b graph.Behavior) {
	if ins.err != nil {
		return
	}
	_, err := ins.mod.Register(name, declare, graph.WithBehavior(func() graph.Behavior {
		return b
	}))
	ins.err = err
}

// initAndRun computes at instance initialization and again on every
// execution, so downstream nodes observe a value before the first pass.
type initAndRun func(*graph.Args)

func (f initAndRun) Initialize(a *graph.Args) { f(a) }
func (f initAndRun) Execute(a *graph.Args)    { f(a) }
