/*
Package graph implements the node-graph execution core: typed computation
nodes wired into a directed acyclic graph, incrementally re-evaluated only
where data changed.

A Signature declares one node kind: its ordered typed inputs and outputs,
the events it listens for, and how to construct its Behavior. A Graph is
built by adding nodes and wiring their inputs, then finalized exactly once;
finalization type-checks every connection, rejects cycles, computes the
topological evaluation order, and plans the storage for default values and
per-instance state. A finalized Graph is immutable and shared: any number of
Instances can run against it, each owning its own values and timestamps.

Change detection is timestamp based. Writing an output stamps it with the
instance's current Timestamp; a node executes when its own mark, one of its
listeners, or any connected input's source carries the current stamp.
Because evaluation follows the topological order, a change propagates
through the whole downstream chain in a single Execute pass, after which the
Timestamp advances and every mark expires.

Broadcasters inject changes from outside the edge system: broadcasting an
event stamps the registered listeners and synchronously drives their
instances.

Nothing in this package is safe for concurrent use. Callers that need a
loop or cross-goroutine delivery should use pkg/driver, which serializes
access to one Instance.
*/
package graph
