package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/hexislab/patchbay/internal/presentation/tui"
	"github.com/hexislab/patchbay/pkg/graph"
	"github.com/hexislab/patchbay/pkg/graphdef"
	"github.com/hexislab/patchbay/pkg/observability"
)

// RunOptions configures the run command.
type RunOptions struct {
	Options
	Name   string
	Passes int
	Mark   string
	Event  string
}

// Run instantiates the named definition and drives it for a number of
// passes. --mark dirties one node before each pass; --event broadcasts a
// named event that wakes the instance. A summary of what executed is
// printed at the end.
func Run(ctx context.Context, opts RunOptions) error {
	log, err := CreateLogger(opts.LogLevel, false)
	if err != nil {
		return err
	}
	eng, err := NewEngine(opts.Options, log)
	if err != nil {
		return err
	}
	defer closeAny(eng.Source(), log)

	agg := observability.NewAggregator()
	inst, err := eng.Instance(ctx, opts.Name, graph.WithHooks(agg.Hooks()))
	if err != nil {
		return err
	}
	defer inst.Close()

	var markID graph.NodeID
	haveMark := false
	if opts.Mark != "" {
		def, err := eng.Source().Load(ctx, opts.Name)
		if err != nil {
			return err
		}
		id, ok := graphdef.NodeIDs(def)[opts.Mark]
		if !ok {
			return fmt.Errorf("graph %q has no node %q", opts.Name, opts.Mark)
		}
		markID, haveMark = id, true
	}

	bus := graph.NewBroadcaster()
	var ev *graph.Event
	if opts.Event != "" {
		ev = graph.NewEvent(opts.Event)
		stop := bus.Listen(ev, inst)
		defer stop()
	}

	passes := opts.Passes
	if passes <= 0 {
		passes = 1
	}

	sc := NewSignalContext(ctx)
	defer sc.Cancel()

	for i := 0; i < passes; i++ {
		if sc.Err() != nil {
			break
		}
		if haveMark {
			if err := inst.MarkDirty(markID); err != nil {
				return err
			}
		}
		if ev != nil {
			bus.Broadcast(ev)
			continue
		}
		inst.Execute()
	}

	printRunSummary(opts.Name, agg.Snapshot())
	return handleExecutionError(sc.Err())
}

func printRunSummary(name string, snap observability.Snapshot) {
	styles := tui.NewStyles()
	printSystemMessage("Ran %d passes of %q.", snap.Passes, name)

	if len(snap.NodeExecutions) > 0 {
		fmt.Println(styles.Heading("node executions"))
		for _, kind := range sortedKeys(snap.NodeExecutions) {
			fmt.Printf("  %6d  %s\n", snap.NodeExecutions[kind], kind)
		}
	}
	if len(snap.Events) > 0 {
		fmt.Println(styles.Heading("events"))
		for _, event := range sortedKeys(snap.Events) {
			fmt.Printf("  %6d  %s\n", snap.Events[event], event)
		}
	}
	fmt.Println(styles.Dim(fmt.Sprintf("last pass took %s", snap.LastPass)))
}

func sortedKeys(m map[string]uint64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
