package lang

import (
	"errors"
	"slices"
	"testing"
)

func TestNewRegistry_Builtins(t *testing.T) {
	reg := NewRegistry(4)

	want := []string{
		FuncHostname,
		FuncRandomStr,
		FuncRandomBool,
		FuncRandomNum,
		FuncCurrentTime,
	}

	got := slices.Collect(reg.Functions())
	if !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	if n := len(slices.Collect(reg.Variables())); n != 0 {
		t.Errorf("expected no variables, got %d", n)
	}
}

func TestNewRegistry_Capacity(t *testing.T) {
	for _, capacity := range []int{-1, 0, 1, 64} {
		reg := NewRegistry(capacity)

		for i := range 100 {
			reg.AddVariable("v", Int(int32(i)))
		}

		if n := len(slices.Collect(reg.Variables())); n != 100 {
			t.Errorf("capacity %d: expected 100 variables, got %d", capacity, n)
		}
	}
}

func TestRegistry_GetVariable(t *testing.T) {
	reg := NewRegistry(0)
	reg.AddVariable("a", Int(1))
	reg.AddVariable("a", Int(2))
	reg.AddVariable("b", Text("x"))

	v, ok := reg.GetVariable("a")
	if !ok {
		t.Fatal("expected variable a")
	}

	if !v.Value.Equal(Int(1)) {
		t.Errorf("expected first match 1, got %v", v.Value)
	}

	if _, ok := reg.GetVariable("missing"); ok {
		t.Error("expected missing variable to be absent")
	}
}

func TestRegistry_SetVariable(t *testing.T) {
	reg := NewRegistry(0)
	reg.AddVariable("a", Int(1))
	reg.AddVariable("b", Int(2))
	reg.AddVariable("a", Int(3))

	reg.SetVariable("a", Text("new"))

	var names []string
	for v := range reg.Variables() {
		names = append(names, v.Name)
	}

	if want := []string{"b", "a"}; !slices.Equal(names, want) {
		t.Errorf("expected order %v, got %v", want, names)
	}

	v, _ := reg.GetVariable("a")
	if !v.Value.Equal(Text("new")) {
		t.Errorf("expected new, got %v", v.Value)
	}

	// Setting twice moves the variable to the end again.
	reg.AddVariable("c", Int(4))
	reg.SetVariable("a", Text("newer"))

	names = names[:0]
	for v := range reg.Variables() {
		names = append(names, v.Name)
	}

	if want := []string{"b", "c", "a"}; !slices.Equal(names, want) {
		t.Errorf("expected order %v, got %v", want, names)
	}
}

func TestRegistry_SetVariable_Absent(t *testing.T) {
	reg := NewRegistry(0)
	reg.SetVariable("a", Int(1))

	if _, ok := reg.GetVariable("a"); ok {
		t.Error("expected SetVariable not to create a variable")
	}
}

func TestRegistry_RemoveVariable(t *testing.T) {
	reg := NewRegistry(0)
	reg.AddVariable("a", Int(1))
	reg.AddVariable("b", Int(2))
	reg.AddVariable("a", Int(3))

	reg.RemoveVariable("a")

	if _, ok := reg.GetVariable("a"); ok {
		t.Error("expected every a to be removed")
	}

	if _, ok := reg.GetVariable("b"); !ok {
		t.Error("expected b to remain")
	}

	// Removing an absent name is harmless.
	reg.RemoveVariable("a")
}

func TestRegistry_AddFunction_Shadowed(t *testing.T) {
	reg := NewRegistry(0)

	called := false

	reg.AddFunction(FuncRandomBool, CallableFunc(func([]Value) (Value, error) {
		called = true

		return Text("shadow"), nil
	}))

	v, err := reg.CallFunction(FuncRandomBool, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if v.Kind() != KindBool {
		t.Errorf("expected built-in Boolean, got %v", v.Kind())
	}

	if called {
		t.Error("expected later registration to be shadowed")
	}
}

func TestRegistry_CallFunction_NotFound(t *testing.T) {
	reg := NewRegistry(0)

	_, err := reg.CallFunction("nope", []Value{Int(1)})
	if !errors.Is(err, ErrFunctionNotFound) {
		t.Fatalf("expected ErrFunctionNotFound, got %v", err)
	}

	if Kind(err) != KindFunctionNotFound {
		t.Errorf("expected kind %v, got %v", KindFunctionNotFound, Kind(err))
	}
}

func TestRegistry_CallFunction_PassThrough(t *testing.T) {
	reg := NewRegistry(0)
	boom := errors.New("boom")

	reg.AddFunction("fail", CallableFunc(func([]Value) (Value, error) {
		return Value{}, boom
	}))

	if _, err := reg.CallFunction("fail", nil); !errors.Is(err, boom) {
		t.Errorf("expected callable error, got %v", err)
	}
}

func TestRegistry_SharedCallableState(t *testing.T) {
	reg := NewRegistry(0)

	var count int32

	reg.AddFunction("counter", CallableFunc(func([]Value) (Value, error) {
		count++

		return Int(count), nil
	}))

	for range 2 {
		if _, err := reg.CallFunction("counter", nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	v, _ := reg.CallFunction("counter", nil)
	if !v.Equal(Int(3)) {
		t.Errorf("expected 3, got %v", v)
	}
}

func TestRegistry_LookupFunction(t *testing.T) {
	reg := NewRegistry(0)

	if _, ok := reg.LookupFunction(FuncHostname); !ok {
		t.Error("expected hostname to be registered")
	}

	if _, ok := reg.LookupFunction("nope"); ok {
		t.Error("expected nope to be absent")
	}
}

func TestRegistry_Clone(t *testing.T) {
	reg := NewRegistry(0)
	reg.AddVariable("a", Int(1))

	clone := reg.Clone()
	clone.SetVariable("a", Int(2))
	clone.AddVariable("b", Int(3))
	clone.AddFunction("extra", CallableFunc(Multiply))

	v, _ := reg.GetVariable("a")
	if !v.Value.Equal(Int(1)) {
		t.Errorf("expected original a to be 1, got %v", v.Value)
	}

	if _, ok := reg.GetVariable("b"); ok {
		t.Error("expected b to exist only in the clone")
	}

	if _, ok := reg.LookupFunction("extra"); ok {
		t.Error("expected extra to exist only in the clone")
	}

	if _, err := clone.CallFunction(FuncRandomStr, []Value{Int(3)}); err != nil {
		t.Errorf("expected clone to keep built-ins, got %v", err)
	}
}
