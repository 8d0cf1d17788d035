package lang

import (
	"iter"
	"log/slog"
	"slices"
	"time"
)

// Callable is a named function stored in a [Registry].
type Callable interface {
	Call(args []Value) (Value, error)
}

// CallableFunc adapts an ordinary function to the [Callable] interface.
type CallableFunc func(args []Value) (Value, error)

// Call calls f(args).
func (f CallableFunc) Call(args []Value) (Value, error) { return f(args) }

// Variable is a named value stored in a [Registry].
type Variable struct {
	Name  string
	Value Value
}

type function struct {
	name string
	fn   Callable
}

// Registry holds the variables and functions visible to templates.
//
// Names are not unique. Lookups return the first entry in insertion order,
// so a later registration under an existing name is shadowed.
//
// A Registry is not safe for concurrent mutation; use [Registry.Clone] to
// give each goroutine its own copy.
type Registry struct {
	variables []Variable
	functions []function
	opts      options
}

// NewRegistry returns a registry pre-loaded with the built-in functions and
// room for capacity variables.
func NewRegistry(capacity int, opts ...Option) *Registry {
	r := &Registry{
		variables: make([]Variable, 0, max(capacity, 0)),
		opts:      makeOptions(opts...),
	}

	if r.opts.clock == nil {
		r.opts.clock = time.Now
	}

	if r.opts.rand == nil {
		r.opts.rand = randomSource()
	}

	r.registerBuiltins()

	return r
}

// AddVariable appends a variable without checking for duplicates.
func (r *Registry) AddVariable(name string, value Value) {
	r.variables = append(r.variables, Variable{Name: name, Value: value})
}

// GetVariable returns the first variable named name.
func (r *Registry) GetVariable(name string) (Variable, bool) {
	for _, v := range r.variables {
		if v.Name == name {
			return v, true
		}
	}

	return Variable{}, false
}

// SetVariable replaces every variable named name with a single entry holding
// value, appended at the end. It does nothing if no such variable exists.
func (r *Registry) SetVariable(name string, value Value) {
	if _, ok := r.GetVariable(name); !ok {
		r.opts.logger.Trace("set ignored",
			slog.String("variable", name))

		return
	}

	r.RemoveVariable(name)
	r.AddVariable(name, value)
}

// RemoveVariable removes every variable named name.
func (r *Registry) RemoveVariable(name string) {
	r.variables = slices.DeleteFunc(r.variables, func(v Variable) bool {
		return v.Name == name
	})
}

// Variables returns the variables in iteration order.
func (r *Registry) Variables() iter.Seq[Variable] {
	return func(yield func(Variable) bool) {
		for _, v := range r.variables {
			if !yield(v) {
				return
			}
		}
	}
}

// AddFunction appends a function. An existing function with the same name is
// not replaced and continues to shadow fn.
func (r *Registry) AddFunction(name string, fn Callable) {
	r.functions = append(r.functions, function{name: name, fn: fn})
}

// LookupFunction returns the first function named name.
func (r *Registry) LookupFunction(name string) (Callable, bool) {
	for _, f := range r.functions {
		if f.name == name {
			return f.fn, true
		}
	}

	return nil, false
}

// CallFunction invokes the first function named name with args and returns
// its result unchanged.
func (r *Registry) CallFunction(name string, args []Value) (Value, error) {
	fn, ok := r.LookupFunction(name)
	if !ok {
		return Value{}, ErrFunctionNotFound.With(slog.String("name", name))
	}

	r.opts.logger.Trace("call",
		slog.String("function", name),
		slog.Int("args", len(args)))

	return fn.Call(args)
}

// Functions returns the function names in registration order, including
// shadowed duplicates.
func (r *Registry) Functions() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, f := range r.functions {
			if !yield(f.name) {
				return
			}
		}
	}
}

// Clone returns a registry with independent variable and function lists.
// Callables themselves are shared.
func (r *Registry) Clone() *Registry {
	return &Registry{
		variables: slices.Clone(r.variables),
		functions: slices.Clone(r.functions),
		opts:      r.opts,
	}
}
