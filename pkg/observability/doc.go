/*
Package observability turns instance hooks into execution statistics.

Aggregator keeps an in-memory view suitable for the inspector API and the
CLI; Metrics feeds Prometheus collectors. Both hand out a graph.Hooks
value, so they attach like any other hook set and compose through
graph.Combine:

	agg := observability.NewAggregator()
	met := observability.NewMetrics(prometheus.DefaultRegisterer)
	inst, err := graph.NewInstance(g,
		graph.WithHooks(graph.Combine(agg.Hooks(), met.Hooks("mixer"))))
*/
package observability
