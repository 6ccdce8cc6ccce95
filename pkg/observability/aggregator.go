package observability

import (
	"sync"
	"time"

	"github.com/hexislab/patchbay/pkg/edge"
	"github.com/hexislab/patchbay/pkg/graph"
)

// Snapshot is a point-in-time copy of the aggregated statistics.
type Snapshot struct {
	Passes         uint64            `json:"passes"`
	LastPass       time.Duration     `json:"last_pass_ns"`
	NodeExecutions map[string]uint64 `json:"node_executions"`
	Events         map[string]uint64 `json:"events"`
}

// Aggregator accumulates execution statistics from instance hooks.
// Execution counts are keyed by qualified kind name, events by event name.
type Aggregator struct {
	mu         sync.RWMutex
	passes     uint64
	lastPass   time.Duration
	executions map[string]uint64
	events     map[string]uint64
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		executions: make(map[string]uint64),
		events:     make(map[string]uint64),
	}
}

// Hooks returns the hook set feeding this aggregator. One aggregator may
// observe several instances; their counts merge.
func (a *Aggregator) Hooks() graph.Hooks {
	return graph.Hooks{
		OnPassEnd: func(pass edge.Timestamp, executed int, elapsed time.Duration) {
			a.mu.Lock()
			a.passes++
			a.lastPass = elapsed
			a.mu.Unlock()
		},
		OnNodeExecute: func(id graph.NodeID, sig *graph.Signature, elapsed time.Duration) {
			a.mu.Lock()
			a.executions[sig.QualifiedName()]++
			a.mu.Unlock()
		},
		OnBroadcast: func(ev *graph.Event) {
			a.mu.Lock()
			a.events[ev.Name()]++
			a.mu.Unlock()
		},
	}
}

// Snapshot copies the current statistics.
func (a *Aggregator) Snapshot() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()

	s := Snapshot{
		Passes:         a.passes,
		LastPass:       a.lastPass,
		NodeExecutions: make(map[string]uint64, len(a.executions)),
		Events:         make(map[string]uint64, len(a.events)),
	}
	for k, v := range a.executions {
		s.NodeExecutions[k] = v
	}
	for k, v := range a.events {
		s.Events[k] = v
	}
	return s
}

// Reset clears all statistics.
func (a *Aggregator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.passes = 0
	a.lastPass = 0
	a.executions = make(map[string]uint64)
	a.events = make(map[string]uint64)
}
