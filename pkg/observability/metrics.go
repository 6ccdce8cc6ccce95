package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hexislab/patchbay/pkg/edge"
	"github.com/hexislab/patchbay/pkg/graph"
)

// Metrics exposes execution statistics as Prometheus collectors. One
// Metrics value serves any number of instances; Hooks binds the graph
// label per instance.
type Metrics struct {
	executions   *prometheus.CounterVec
	passes       prometheus.Counter
	passDuration prometheus.Histogram
	events       *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg. It panics
// if a collector with the same name is already registered, like
// prometheus.MustRegister.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		executions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "patchbay_node_executions_total",
				Help: "Total number of node behavior executions",
			},
			[]string{"graph", "module", "node"},
		),
		passes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "patchbay_passes_total",
				Help: "Total number of execute passes",
			},
		),
		passDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name: "patchbay_pass_duration_seconds",
				Help: "Duration of execute passes",
			},
		),
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "patchbay_events_total",
				Help: "Total number of broadcast event deliveries",
			},
			[]string{"event"},
		),
	}
	reg.MustRegister(m.executions, m.passes, m.passDuration, m.events)
	return m
}

// Hooks returns the hook set recording into these collectors, labelling
// node executions with graphName.
func (m *Metrics) Hooks(graphName string) graph.Hooks {
	return graph.Hooks{
		OnPassEnd: func(pass edge.Timestamp, executed int, elapsed time.Duration) {
			m.passes.Inc()
			m.passDuration.Observe(elapsed.Seconds())
		},
		OnNodeExecute: func(id graph.NodeID, sig *graph.Signature, elapsed time.Duration) {
			m.executions.WithLabelValues(graphName, sig.Module(), sig.Name()).Inc()
		},
		OnBroadcast: func(ev *graph.Event) {
			m.events.WithLabelValues(ev.Name()).Inc()
		},
	}
}
