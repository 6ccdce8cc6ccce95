package edge_test

import (
	"testing"

	"github.com/hexislab/patchbay/pkg/edge"
)

func TestRegisterType(t *testing.T) {
	r := edge.NewRegistry()
	intType := edge.RegisterType[int](r, "int")
	strType := edge.RegisterType[string](r, "string")

	t.Run("Lookup By Identity", func(t *testing.T) {
		if got := edge.TypeOf[int](r); got != intType {
			t.Errorf("TypeOf[int] = %v, want the registered descriptor", got)
		}
		if got := edge.TypeOf[string](r); got != strType {
			t.Errorf("TypeOf[string] = %v, want the registered descriptor", got)
		}
	})

	t.Run("Lookup By Name", func(t *testing.T) {
		got, ok := r.ByName("string")
		if !ok || got != strType {
			t.Errorf("ByName(string) = %v, %v; want registered descriptor, true", got, ok)
		}
		if _, ok := r.ByName("vec3"); ok {
			t.Error("ByName should miss for unregistered names")
		}
	})

	t.Run("Registration Order", func(t *testing.T) {
		types := r.Types()
		if len(types) != 2 || types[0] != intType || types[1] != strType {
			t.Errorf("Types() = %v, want [int string] in registration order", types)
		}
	})
}

func TestRegisterTypeDuplicate(t *testing.T) {
	r := edge.NewRegistry()
	edge.RegisterType[int](r, "int")

	defer func() {
		if recover() == nil {
			t.Error("registering the same Go type twice should panic")
		}
	}()
	edge.RegisterType[int](r, "integer")
}

func TestRegisterTypeNameCollision(t *testing.T) {
	r := edge.NewRegistry()
	edge.RegisterType[int](r, "number")

	defer func() {
		if recover() == nil {
			t.Error("reusing a name for a different type should panic")
		}
	}()
	edge.RegisterType[float64](r, "number")
}

func TestTypeOfUnregistered(t *testing.T) {
	r := edge.NewRegistry()

	defer func() {
		if recover() == nil {
			t.Error("TypeOf on an unregistered type should panic")
		}
	}()
	edge.TypeOf[bool](r)
}

func TestSignalType(t *testing.T) {
	r := edge.NewRegistry()
	sig := edge.RegisterType[edge.Signal](r, "trigger")

	if sig.Name() != "trigger" {
		t.Errorf("Name() = %q, want trigger", sig.Name())
	}
	if sig.GoType().Size() != 0 {
		t.Errorf("Signal should have zero size, got %d", sig.GoType().Size())
	}
}
