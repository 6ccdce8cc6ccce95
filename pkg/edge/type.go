package edge

import (
	"fmt"
	"reflect"
)

// Timestamp is the per-instance monotonic counter used to mark values as
// changed. A cell is "dirty" exactly when its stamp equals the owning
// instance's current Timestamp.
type Timestamp uint64

// Signal is the payload-less edge type. Outputs declared with it carry no
// value; writing one only touches its timestamp, which is enough to trigger
// downstream re-evaluation.
type Signal struct{}

// Type describes one Go value type usable on graph edges. Instances are
// created by RegisterType and compared by pointer identity.
type Type struct {
	name   string
	goType reflect.Type

	newLane  func(n int) any
	newValue func() any
	store    func(lane any, i int, ptr any)
}

// Name returns the registered display name.
func (t *Type) Name() string { return t.name }

// GoType returns the reflected Go type backing this edge type.
func (t *Type) GoType() reflect.Type { return t.goType }

func (t *Type) String() string { return t.name }

// NewValue allocates a fresh zero value and returns a pointer to it,
// suitable as a decode target for definition loaders.
func (t *Type) NewValue() any { return t.newValue() }

// Registry maps Go types to their edge Type descriptors. The zero value is
// not usable; construct with NewRegistry. A Registry is written to only
// during setup and is not safe for concurrent registration.
type Registry struct {
	byGoType map[reflect.Type]*Type
	byName   map[string]*Type
	order    []*Type
}

// NewRegistry creates an empty type registry.
func NewRegistry() *Registry {
	return &Registry{
		byGoType: make(map[reflect.Type]*Type),
		byName:   make(map[string]*Type),
	}
}

// RegisterType registers T under the given display name and returns its
// descriptor. Registering the same Go type twice, or reusing a name for a
// different type, is a programming error and panics.
func RegisterType[T any](r *Registry, name string) *Type {
	goType := reflect.TypeOf((*T)(nil)).Elem()
	if prev, ok := r.byGoType[goType]; ok {
		panic(fmt.Sprintf("edge: type %v already registered as %q", goType, prev.name))
	}
	if prev, ok := r.byName[name]; ok {
		panic(fmt.Sprintf("edge: name %q already registered for type %v", name, prev.goType))
	}
	t := &Type{
		name:   name,
		goType: goType,
		newLane: func(n int) any {
			return make([]T, n)
		},
		newValue: func() any {
			return new(T)
		},
		store: func(lane any, i int, ptr any) {
			lane.([]T)[i] = *ptr.(*T)
		},
	}
	r.byGoType[goType] = t
	r.byName[name] = t
	r.order = append(r.order, t)
	return t
}

// TypeOf returns the descriptor registered for T. Using a type before
// registering it is a programming error and panics.
func TypeOf[T any](r *Registry) *Type {
	goType := reflect.TypeOf((*T)(nil)).Elem()
	t, ok := r.byGoType[goType]
	if !ok {
		panic(fmt.Sprintf("edge: type %v is not registered", goType))
	}
	return t
}

// ByName looks a type up by its display name. Intended for definition
// loaders; runtime code resolves types by identity instead.
func (r *Registry) ByName(name string) (*Type, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// Types returns the registered types in registration order.
func (r *Registry) Types() []*Type {
	out := make([]*Type, len(r.order))
	copy(out, r.order)
	return out
}
