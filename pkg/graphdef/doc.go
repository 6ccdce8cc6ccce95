/*
Package graphdef defines the serializable form of a graph: named nodes,
their registered kinds, and one entry per declared input that is either
wired to another node's output, assigned a default value, or left open.

Definitions are what the storage adapters load and publish, what the CLI
validates and renders, and what pkg/factory compiles. Compilation goes
through pkg/dsl, so a definition file and hand-written wiring build the
exact same graph.

A YAML definition looks like:

	name: counter
	nodes:
	  - name: emit
	    kind: sample.pulse
	  - name: count
	    kind: sample.accumulate
	    inputs:
	      - node: emit
	        output: value
	  - name: text
	    kind: string.int_to_string
	    inputs:
	      - node: count
	  - name: print
	    kind: debug.console_print
	    inputs:
	      - {}
	      - node: text

Input entries are positional: the first entry describes the node's first
declared input. An entry with a value field becomes an unconnected input
with a default; an empty entry leaves the input open.
*/
package graphdef
