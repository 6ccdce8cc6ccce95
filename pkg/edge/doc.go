/*
Package edge defines the typed value model shared by graph definitions and
their running instances.

Every value that travels along a graph edge has a registered Type. Types are
looked up by Go type identity (pointer equality on *Type), never by name;
names exist only for diagnostics and definition files. A Registry is an
explicit object so independent type universes can coexist, for example one
per test.

Storage is arranged as one slice ("lane") per registered type inside a
Buffer. A Layout hands out Slot positions during graph finalization; a
Buffer materializes the lanes. ValueAt is the only way the rest of the
system reads or writes a cell, so raw storage never leaks past this package.
*/
package edge
