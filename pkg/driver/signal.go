package driver

import (
	"context"
	"os"
	"os/signal"
	"sync"

	"github.com/hexislab/patchbay/pkg/graph"
)

// BindSignals posts an event whenever one of the mapped OS signals
// arrives, turning signals into ordinary graph input. The returned stop
// function releases the signal registration; it is also released when ctx
// is done.
func BindSignals(ctx context.Context, drv *Driver, events map[os.Signal]*graph.Event) func() {
	sigs := make([]os.Signal, 0, len(events))
	for s := range events {
		sigs = append(sigs, s)
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)
	done := make(chan struct{})

	go func() {
		defer signal.Stop(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case s := <-ch:
				ev, ok := events[s]
				if !ok {
					continue
				}
				if err := drv.Post(ctx, ev); err != nil {
					drv.log.Warn("signal event dropped", "signal", s.String(), "event", ev.Name(), "err", err)
				}
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}
