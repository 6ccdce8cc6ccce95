package edge

import "fmt"

// Slot addresses one cell inside a Buffer: a lane (one per type) and an
// index within it. Slots are handed out by a Layout during finalization and
// are only meaningful together with buffers built from that same Layout.
type Slot struct {
	Lane  int
	Index int
}

// Layout plans the storage for a family of buffers. Reserve is the bump
// allocator of the value model: each call claims the next cell of the
// type's lane, creating the lane on first use. A finished Layout can
// materialize any number of independent Buffers.
type Layout struct {
	types  []*Type
	laneOf map[*Type]int
	counts []int
}

// NewLayout creates an empty layout.
func NewLayout() *Layout {
	return &Layout{laneOf: make(map[*Type]int)}
}

// Reserve claims the next cell for t and returns its Slot.
func (l *Layout) Reserve(t *Type) Slot {
	lane, ok := l.laneOf[t]
	if !ok {
		lane = len(l.types)
		l.laneOf[t] = lane
		l.types = append(l.types, t)
		l.counts = append(l.counts, 0)
	}
	s := Slot{Lane: lane, Index: l.counts[lane]}
	l.counts[lane]++
	return s
}

// Cells returns the total number of reserved cells across all lanes.
func (l *Layout) Cells() int {
	n := 0
	for _, c := range l.counts {
		n += c
	}
	return n
}

// NewBuffer materializes storage for every reserved cell, zero-valued.
func (l *Layout) NewBuffer() *Buffer {
	lanes := make([]any, len(l.types))
	for i, t := range l.types {
		lanes[i] = t.newLane(l.counts[i])
	}
	return &Buffer{lanes: lanes}
}

// Buffer holds the live cells of one buffer family member: the shared
// default buffer of a graph, or the private buffer of one instance. Cells
// are accessed exclusively through ValueAt and Store.
type Buffer struct {
	lanes []any
}

// ValueAt resolves a slot to a typed cell pointer. The type parameter must
// be the Go type the slot was reserved for; anything else is a programming
// error and panics. No bounds checking beyond the slice's own: every Slot
// in circulation was produced by the Layout that shaped this Buffer.
func ValueAt[T any](b *Buffer, s Slot) *T {
	lane, ok := b.lanes[s.Lane].([]T)
	if !ok {
		panic(fmt.Sprintf("edge: slot holds %T, not %T", b.lanes[s.Lane], lane))
	}
	return &lane[s.Index]
}

// Store writes the value behind ptr (a *T produced by t.NewValue or
// equivalent) into the slot. It is the untyped sibling of ValueAt used by
// definition loaders after decoding.
func (b *Buffer) Store(t *Type, s Slot, ptr any) {
	t.store(b.lanes[s.Lane], s.Index, ptr)
}
