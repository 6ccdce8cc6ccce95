/*
Package ports defines the driven ports (interfaces) for graph definition
storage.

These interfaces decouple definition handling from any particular backend,
so the factory, CLI, and HTTP inspector work the same against an in-memory
map, a directory of YAML or HCL files, or Redis.

# Key Interfaces

  - Source: loads and lists stored definitions.
  - Publisher: writes and removes definitions, for backends that accept writes.
  - Watcher: signals that the backing store changed, for hot reload.
*/
package ports
