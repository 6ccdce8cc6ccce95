package stdnodes_test

import "testing"

func TestStringEquals(t *testing.T) {
	rig := buildOp(t, "string.equals", "sink_bool", []any{"left", "left"})
	if got := output[bool](t, rig); !got {
		t.Error("Expected equal strings to compare true right after startup")
	}

	rig = buildOp(t, "string.equals", "sink_bool", []any{"left", "right"})
	rig.run(t)
	if got := output[bool](t, rig); got {
		t.Error("Expected different strings to compare false")
	}
}

func TestStringConcat(t *testing.T) {
	rig := buildOp(t, "string.concat", "sink_string", []any{"patch", "bay"})
	rig.run(t)
	if got := output[string](t, rig); got != "patchbay" {
		t.Errorf("Expected concatenation to produce %q, got %q", "patchbay", got)
	}
}

func TestStringConversions(t *testing.T) {
	intRig := buildOp(t, "string.int_to_string", "sink_string", []any{42})
	intRig.run(t)
	if got := output[string](t, intRig); got != "42" {
		t.Errorf("Expected int_to_string(42) = %q, got %q", "42", got)
	}

	floatRig := buildOp(t, "string.float_to_string", "sink_string", []any{2.5})
	floatRig.run(t)
	if got := output[string](t, floatRig); got != "2.5" {
		t.Errorf("Expected float_to_string(2.5) = %q, got %q", "2.5", got)
	}
}
