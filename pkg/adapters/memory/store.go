// Package memory provides an in-memory definition store, for tests and
// for applications that assemble their definitions in code.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/hexislab/patchbay/pkg/graphdef"
	"github.com/hexislab/patchbay/pkg/ports"
)

// Store implements ports.Source, ports.Publisher and ports.Watcher over a
// map. Safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	defs     map[string]*graphdef.Definition
	watchers []chan struct{}
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{defs: make(map[string]*graphdef.Definition)}
}

// NewFromDefinitions creates a store pre-seeded with defs.
func NewFromDefinitions(defs ...*graphdef.Definition) (*Store, error) {
	s := NewStore()
	for _, def := range defs {
		if def.Name == "" {
			return nil, fmt.Errorf("memory: definition missing name")
		}
		s.defs[def.Name] = clone(def)
	}
	return s, nil
}

// Load retrieves a definition by name.
func (s *Store) Load(ctx context.Context, name string) (*graphdef.Definition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	def, ok := s.defs[name]
	if !ok {
		return nil, fmt.Errorf("memory: %q: %w", name, ports.ErrDefinitionNotFound)
	}
	// Copy on read so the caller can't mutate stored state by pointer.
	return clone(def), nil
}

// List returns all stored definition names, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.defs))
	for name := range s.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Publish stores def under its name, replacing any previous definition.
func (s *Store) Publish(ctx context.Context, def *graphdef.Definition) error {
	if def.Name == "" {
		return fmt.Errorf("memory: definition missing name")
	}

	s.mu.Lock()
	s.defs[def.Name] = clone(def)
	s.mu.Unlock()

	s.notify()
	return nil
}

// Remove deletes the definition stored under name.
func (s *Store) Remove(ctx context.Context, name string) error {
	s.mu.Lock()
	_, ok := s.defs[name]
	delete(s.defs, name)
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("memory: %q: %w", name, ports.ErrDefinitionNotFound)
	}
	s.notify()
	return nil
}

// Watch returns a channel signaled after every Publish or Remove.
func (s *Store) Watch(ctx context.Context) (<-chan struct{}, error) {
	ch := make(chan struct{}, 1)

	s.mu.Lock()
	s.watchers = append(s.watchers, ch)
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		for i, w := range s.watchers {
			if w == ch {
				s.watchers = append(s.watchers[:i], s.watchers[i+1:]...)
				break
			}
		}
		s.mu.Unlock()
		close(ch)
	}()

	return ch, nil
}

func (s *Store) notify() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.watchers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// clone copies a definition one level deep: node and input slices are
// fresh, and boxed default values are re-boxed.
func clone(def *graphdef.Definition) *graphdef.Definition {
	out := &graphdef.Definition{
		Name:  def.Name,
		Nodes: make([]graphdef.NodeDef, len(def.Nodes)),
	}
	copy(out.Nodes, def.Nodes)
	for i := range out.Nodes {
		src := def.Nodes[i].Inputs
		if len(src) == 0 {
			continue
		}
		inputs := make([]graphdef.InputDef, len(src))
		copy(inputs, src)
		for j := range inputs {
			if v := src[j].Value; v != nil {
				boxed := *v
				inputs[j].Value = &boxed
			}
		}
		out.Nodes[i].Inputs = inputs
	}
	return out
}
