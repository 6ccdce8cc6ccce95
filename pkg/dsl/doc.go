/*
Package dsl provides a fluent, name-addressed builder for assembling graphs
programmatically.

The core API in pkg/graph wires nodes by integer id and positional edge
appends, which is exact but tedious to write by hand. This package lets
callers name their nodes, address inputs by index, and defer all error
handling to a single Build call. It is also the compilation target for
pkg/graphdef, so definitions loaded from files travel through the same
code path as hand-written wiring.

Example usage:

	g, err := dsl.New(reg, "counter").
		Node("emit", "sample.pulse").
		Node("count", "sample.accumulate").
		Node("text", "string.int_to_string").
		Node("print", "debug.console_print").
		Wire("count", 0, "emit", 0).
		Wire("text", 0, "count", 0).
		Wire("print", 1, "text", 0).
		Build()

The first error recorded while chaining (unknown kind, undeclared node,
duplicate wiring) is reported once, by Build.
*/
package dsl
