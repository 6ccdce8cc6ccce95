package edge_test

import (
	"testing"

	"github.com/hexislab/patchbay/pkg/edge"
)

func TestLayoutReserve(t *testing.T) {
	r := edge.NewRegistry()
	intType := edge.RegisterType[int](r, "int")
	strType := edge.RegisterType[string](r, "string")

	l := edge.NewLayout()
	a := l.Reserve(intType)
	b := l.Reserve(strType)
	c := l.Reserve(intType)

	if a.Lane != c.Lane {
		t.Errorf("same type should share a lane: %v vs %v", a, c)
	}
	if a.Lane == b.Lane {
		t.Errorf("different types should get different lanes: %v vs %v", a, b)
	}
	if a.Index != 0 || c.Index != 1 {
		t.Errorf("indices within a lane should advance: got %d then %d", a.Index, c.Index)
	}
	if l.Cells() != 3 {
		t.Errorf("Cells() = %d, want 3", l.Cells())
	}
}

func TestBufferValueAt(t *testing.T) {
	r := edge.NewRegistry()
	intType := edge.RegisterType[int](r, "int")
	strType := edge.RegisterType[string](r, "string")

	l := edge.NewLayout()
	first := l.Reserve(intType)
	second := l.Reserve(strType)
	third := l.Reserve(intType)

	buf := l.NewBuffer()
	*edge.ValueAt[int](buf, first) = 42
	*edge.ValueAt[string](buf, second) = "hello"

	if got := *edge.ValueAt[int](buf, first); got != 42 {
		t.Errorf("ValueAt(first) = %d, want 42", got)
	}
	if got := *edge.ValueAt[string](buf, second); got != "hello" {
		t.Errorf("ValueAt(second) = %q, want hello", got)
	}
	if got := *edge.ValueAt[int](buf, third); got != 0 {
		t.Errorf("untouched cell should be zero, got %d", got)
	}
}

func TestValueAtWrongType(t *testing.T) {
	r := edge.NewRegistry()
	intType := edge.RegisterType[int](r, "int")

	l := edge.NewLayout()
	s := l.Reserve(intType)
	buf := l.NewBuffer()

	defer func() {
		if recover() == nil {
			t.Error("resolving a slot with the wrong type should panic")
		}
	}()
	_ = edge.ValueAt[string](buf, s)
}

func TestBufferStore(t *testing.T) {
	r := edge.NewRegistry()
	floatType := edge.RegisterType[float64](r, "float")

	l := edge.NewLayout()
	s := l.Reserve(floatType)
	buf := l.NewBuffer()

	ptr := floatType.NewValue()
	*ptr.(*float64) = 2.5
	buf.Store(floatType, s, ptr)

	if got := *edge.ValueAt[float64](buf, s); got != 2.5 {
		t.Errorf("Store then ValueAt = %v, want 2.5", got)
	}
}

func TestBuffersAreIndependent(t *testing.T) {
	r := edge.NewRegistry()
	intType := edge.RegisterType[int](r, "int")

	l := edge.NewLayout()
	s := l.Reserve(intType)

	one := l.NewBuffer()
	two := l.NewBuffer()
	*edge.ValueAt[int](one, s) = 7

	if got := *edge.ValueAt[int](two, s); got != 0 {
		t.Errorf("buffers from the same layout must not share cells, got %d", got)
	}
}
