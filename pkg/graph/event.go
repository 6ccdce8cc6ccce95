package graph

import "github.com/hexislab/patchbay/pkg/edge"

// Event identifies one kind of external occurrence. Identity is the
// pointer: two events with the same name are still distinct. Declare
// events as package-level variables and share the pointer between the
// signatures that listen and the code that broadcasts.
type Event struct {
	name string
}

// NewEvent creates a new event identity. The name is for diagnostics only.
func NewEvent(name string) *Event {
	return &Event{name: name}
}

// Name returns the event's diagnostic name.
func (e *Event) Name() string { return e.name }

func (e *Event) String() string { return e.name }

// listener is one registration slot: either a node's declared listener
// living in its instance's listener table, or an external subscription
// created by Listen (node == -1). Broadcasting stamps it and drives its
// instance.
type listener struct {
	inst  *Instance
	node  NodeID
	index int
	event *Event

	stamp edge.Timestamp
	owner *Broadcaster
}

// Broadcaster fans events out to registered listeners. It keeps one
// explicit list per event, in registration order. Broadcasters are owned
// by external systems (game objects, drivers); the graph core only ever
// sees them through listener registration.
type Broadcaster struct {
	lists map[*Event][]*listener
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{lists: make(map[*Event][]*listener)}
}

// register places l in the list for its declared event. A listener
// belongs to at most one list at a time: if it currently sits in another
// list, of this broadcaster or another, it is removed first. Registering
// an already correctly placed listener is a no-op.
func (b *Broadcaster) register(l *listener) {
	if l.owner == b {
		for _, existing := range b.lists[l.event] {
			if existing == l {
				return
			}
		}
	}
	if l.owner != nil {
		l.owner.remove(l)
	}
	b.lists[l.event] = append(b.lists[l.event], l)
	l.owner = b
}

func (b *Broadcaster) remove(l *listener) {
	ls := b.lists[l.event]
	for i, existing := range ls {
		if existing == l {
			b.lists[l.event] = append(ls[:i], ls[i+1:]...)
			break
		}
	}
	l.owner = nil
}

// Listen subscribes an instance to an event without going through a node
// listener declaration: broadcasting the event simply drives the
// instance's Execute. The returned function cancels the subscription.
func (b *Broadcaster) Listen(ev *Event, in *Instance) func() {
	l := &listener{inst: in, node: -1, event: ev}
	b.register(l)
	return func() {
		if l.owner != nil {
			l.owner.remove(l)
		}
	}
}

// Broadcast delivers ev to every listener registered for it, in
// registration order: each listener is stamped with its instance's current
// timestamp and the instance is executed synchronously, so the listening
// nodes observe the event as dirty during that pass and clean afterwards.
// Delivery iterates a snapshot, so listeners that re-register during the
// pass do not disturb it. Broadcasting is re-entrant: a node may itself
// broadcast while executing.
func (b *Broadcaster) Broadcast(ev *Event) {
	ls := b.lists[ev]
	if len(ls) == 0 {
		return
	}
	snapshot := make([]*listener, len(ls))
	copy(snapshot, ls)
	for _, l := range snapshot {
		l.stamp = l.inst.now
		if l.inst.hooks.OnBroadcast != nil {
			l.inst.hooks.OnBroadcast(ev)
		}
		l.inst.Execute()
	}
}
