// Package driver runs one graph instance on one goroutine. The core is
// single-threaded on purpose; the driver is the concurrency boundary that
// lets tickers, OS signals and other goroutines feed it safely.
package driver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hexislab/patchbay/internal/logging"
	"github.com/hexislab/patchbay/pkg/graph"
)

var (
	// ErrAlreadyRunning is returned by Run when the loop is active.
	ErrAlreadyRunning = errors.New("driver: already running")
	// ErrNotRunning is returned when a command is posted with no loop to
	// take it.
	ErrNotRunning = errors.New("driver: not running")
)

// command is a unit of work executed on the loop goroutine.
type command func()

// Driver owns an Instance and the Broadcaster feeding it. All graph work
// happens on the Run goroutine; Post and MarkDirty hand work over from
// anywhere else.
type Driver struct {
	inst     *graph.Instance
	bus      *graph.Broadcaster
	log      *slog.Logger
	interval time.Duration

	mu   sync.Mutex
	cmds chan command
}

// Option configures a Driver.
type Option func(*Driver)

// WithInterval makes the loop run an execute pass every d. Zero disables
// ticking; the loop then only reacts to posted work.
func WithInterval(d time.Duration) Option {
	return func(drv *Driver) {
		drv.interval = d
	}
}

// WithBroadcaster uses bus instead of a fresh broadcaster. Pass the bus
// your behaviors bind to.
func WithBroadcaster(bus *graph.Broadcaster) Option {
	return func(drv *Driver) {
		if bus != nil {
			drv.bus = bus
		}
	}
}

// WithLogger routes loop diagnostics to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(drv *Driver) {
		if logger != nil {
			drv.log = logger
		}
	}
}

// New creates a driver for inst.
func New(inst *graph.Instance, opts ...Option) *Driver {
	drv := &Driver{
		inst: inst,
		bus:  graph.NewBroadcaster(),
		log:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(drv)
	}
	return drv
}

// Instance returns the driven instance. Touch it only from behaviors,
// hooks, or after Run has returned; the loop goroutine owns it while
// running.
func (drv *Driver) Instance() *graph.Instance {
	return drv.inst
}

// Broadcaster returns the bus the loop broadcasts posted events on.
func (drv *Driver) Broadcaster() *graph.Broadcaster {
	return drv.bus
}

// Run drives the loop until ctx is done and returns ctx's error. Posted
// commands run in arrival order between ticks. Commands still queued when
// the loop stops are dropped.
func (drv *Driver) Run(ctx context.Context) error {
	drv.mu.Lock()
	if drv.cmds != nil {
		drv.mu.Unlock()
		return ErrAlreadyRunning
	}
	cmds := make(chan command, 64)
	drv.cmds = cmds
	drv.mu.Unlock()

	defer func() {
		drv.mu.Lock()
		drv.cmds = nil
		drv.mu.Unlock()
	}()

	var tick <-chan time.Time
	if drv.interval > 0 {
		ticker := time.NewTicker(drv.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	drv.log.Debug("driver loop started", "interval", drv.interval)
	for {
		select {
		case <-ctx.Done():
			drv.log.Debug("driver loop stopped", "reason", ctx.Err())
			return ctx.Err()
		case <-tick:
			drv.inst.Execute()
		case cmd := <-cmds:
			cmd()
		}
	}
}

// Post hands ev to the loop, which broadcasts it on the driver's bus.
// Enqueueing succeeds while the loop runs; the broadcast itself happens
// on the loop goroutine shortly after.
func (drv *Driver) Post(ctx context.Context, ev *graph.Event) error {
	return drv.submit(ctx, func() {
		drv.bus.Broadcast(ev)
	})
}

// MarkDirty re-arms node id and runs a pass, all on the loop goroutine.
func (drv *Driver) MarkDirty(ctx context.Context, id graph.NodeID) error {
	if id < 0 || int(id) >= drv.inst.Graph().NodeCount() {
		return fmt.Errorf("driver: no node %d", id)
	}
	return drv.submit(ctx, func() {
		if err := drv.inst.MarkDirty(id); err != nil {
			drv.log.Warn("mark dirty failed", "node", id, "err", err)
			return
		}
		drv.inst.Execute()
	})
}

func (drv *Driver) submit(ctx context.Context, cmd command) error {
	drv.mu.Lock()
	cmds := drv.cmds
	drv.mu.Unlock()
	if cmds == nil {
		return ErrNotRunning
	}

	select {
	case cmds <- cmd:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
