/*
Package patchbay is a typed node-graph execution engine for building dataflow
pipelines, reactive controllers, and automation graphs.

It separates the static description of a computation (a graph of typed nodes
wired output-to-input) from its running state (instances with value buffers
and dirty timestamps), so one compiled graph can back many independent
executions.

# Concept

A graph is assembled from node kinds declared as signatures: ordered, typed
inputs and outputs plus an optional behavior. Once finalized, the graph is
immutable and instances of it can be created cheaply. An instance executes in
passes: marking a node dirty or broadcasting an event wakes exactly the nodes
whose inputs or listeners changed, in a stable topological order. Everything
else is skipped.

# Key Features

  - Typed wiring: edge types are checked when the graph is connected, not
    when it runs.
  - Incremental execution: a pass visits only nodes downstream of a change.
  - External events: broadcasters stamp listening nodes and trigger passes
    without touching the wiring.
  - Stored definitions: graphs round-trip through plain YAML, HCL, or Redis
    documents and compile against the registered kinds.

# Usage

The Engine facade bundles the registries and an optional definition source.

	package main

	import (
		"context"
		"log"

		"github.com/hexislab/patchbay"
		"github.com/hexislab/patchbay/pkg/adapters/yamlfile"
	)

	func main() {
		eng, err := patchbay.New(
			patchbay.WithStdNodes(),
			patchbay.WithSource(yamlfile.New("./graphs")),
		)
		if err != nil {
			log.Fatal(err)
		}

		inst, err := eng.Instance(context.Background(), "counter")
		if err != nil {
			log.Fatal(err)
		}

		inst.Execute()
	}

Lower-level construction, custom kinds, events, and observation hooks live in
the pkg subpackages; the facade is a thin convenience over them.
*/
package patchbay
