package graph

import "errors"

// ErrFinalized is returned when a build-phase operation is attempted on an
// already finalized graph.
var ErrFinalized = errors.New("graph already finalized")

// ErrNotFinalized is returned when an operation requires a finalized graph,
// such as creating an instance or assigning a default value.
var ErrNotFinalized = errors.New("graph not finalized")

// ErrUnknownNode is returned when a node id does not belong to the graph.
var ErrUnknownNode = errors.New("unknown node")

// ErrInputCount is returned by Finalize when a node's wired input edges do
// not match the count declared by its signature.
var ErrInputCount = errors.New("input edge count mismatch")

// ErrInvalidTarget is returned by Finalize when a connection references a
// node or output index that does not exist.
var ErrInvalidTarget = errors.New("connection target out of range")

// ErrTypeMismatch is returned when a connection or default value does not
// match the declared edge type.
var ErrTypeMismatch = errors.New("edge type mismatch")

// ErrCycle is returned by Finalize when the wiring contains a dependency
// cycle.
var ErrCycle = errors.New("graph contains a cycle")

// ErrNoSuchInput is returned when an input index is out of range for the
// node's signature.
var ErrNoSuchInput = errors.New("no such input")

// ErrNoSuchOutput is returned when an output index is out of range for the
// node's signature.
var ErrNoSuchOutput = errors.New("no such output")

// ErrInputConnected is returned when assigning a default value to an input
// that is wired to another node's output.
var ErrInputConnected = errors.New("input is connected")

// ErrUnconnectedOutput is returned when reading an output that no input
// observes; unconnected outputs carry no storage.
var ErrUnconnectedOutput = errors.New("output is not connected")
