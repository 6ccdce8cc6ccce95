package ports

import (
	"context"
	"errors"

	"github.com/hexislab/patchbay/pkg/graphdef"
)

// ErrDefinitionNotFound is returned when a Source or Publisher is asked
// about a definition name it does not hold.
var ErrDefinitionNotFound = errors.New("graph definition not found")

// Source retrieves stored graph definitions.
type Source interface {
	// Load returns the definition stored under name.
	// Returns ErrDefinitionNotFound if the name is unknown.
	Load(ctx context.Context, name string) (*graphdef.Definition, error)

	// List returns the names of every stored definition, sorted.
	List(ctx context.Context) ([]string, error)
}

// Publisher writes graph definitions, for backends that accept writes.
type Publisher interface {
	// Publish stores def under its own name, replacing any previous
	// definition with that name.
	Publish(ctx context.Context, def *graphdef.Definition) error

	// Remove deletes the definition stored under name.
	// Returns ErrDefinitionNotFound if the name is unknown.
	Remove(ctx context.Context, name string) error
}

// Watcher is implemented by sources that can notify about backend changes.
// This is typically used for hot-reload or dev-mode functionality.
type Watcher interface {
	// Watch returns a channel that is signaled when the stored definitions
	// change. It abstracts away the specific event details, signaling only
	// that cached graphs should be considered stale. The channel is closed
	// when ctx is done.
	Watch(ctx context.Context) (<-chan struct{}, error)
}
