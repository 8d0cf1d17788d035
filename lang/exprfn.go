package lang

import (
	"log/slog"
	"math"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// ArgsName is the identifier that holds the call arguments inside an
// expression compiled by [CompileFunction].
const ArgsName = "args"

// exprFunc is a Callable backed by a compiled expr-lang program.
type exprFunc struct {
	source  string
	program *vm.Program
}

// CompileFunction compiles an expr-lang program into a [Callable].
//
// The program sees its arguments as the array args, holding the native
// payload of each Value (int32, float32, string, or bool). Its result is
// converted back to a Value: integers within int32 range become Integer,
// floats become Float, strings Text and booleans Boolean.
//
//	fn, _ := CompileFunction(`reduce(args, #acc * #, 1.0)`)
func CompileFunction(source string) (Callable, error) {
	env := map[string]any{ArgsName: []any{}}

	program, err := expr.Compile(source, expr.Env(env))
	if err != nil {
		return nil, ErrExprCompile.Wrap(err).
			With(slog.String("source", source))
	}

	return &exprFunc{source: source, program: program}, nil
}

// Call runs the program with args.
func (f *exprFunc) Call(args []Value) (Value, error) {
	native := make([]any, len(args))
	for i, a := range args {
		native[i] = a.Native()
	}

	out, err := vm.Run(f.program, map[string]any{ArgsName: native})
	if err != nil {
		return Value{}, ErrExprEvaluate.Wrap(err).
			With(slog.String("source", f.source))
	}

	v, ok := FromNative(out)
	if !ok {
		return Value{}, ErrTypeMismatch.With(
			slog.String("source", f.source),
			slog.String("result", resultTypeName(out)),
		)
	}

	return v, nil
}

// String returns the expression source.
func (f *exprFunc) String() string { return f.source }

// FromNative converts a Go value to a Value. Integers outside the int32
// range and unsupported types are rejected.
func FromNative(x any) (Value, bool) {
	switch n := x.(type) {
	case Value:
		return n, true
	case int:
		return intValue(int64(n))
	case int8:
		return Int(int32(n)), true
	case int16:
		return Int(int32(n)), true
	case int32:
		return Int(n), true
	case int64:
		return intValue(n)
	case uint:
		return uintValue(uint64(n))
	case uint8:
		return Int(int32(n)), true
	case uint16:
		return Int(int32(n)), true
	case uint32:
		return uintValue(uint64(n))
	case uint64:
		return uintValue(n)
	case float32:
		return Float(n), true
	case float64:
		return Float(float32(n)), true
	case string:
		return Text(n), true
	case bool:
		return Bool(n), true
	default:
		return Value{}, false
	}
}

func intValue(n int64) (Value, bool) {
	if n < math.MinInt32 || n > math.MaxInt32 {
		return Value{}, false
	}

	return Int(int32(n)), true
}

func uintValue(n uint64) (Value, bool) {
	if n > math.MaxInt32 {
		return Value{}, false
	}

	return Int(int32(n)), true //nolint:gosec // bounds checked
}

// Multiply multiplies every Integer and Float argument into a Float
// accumulator starting at 1. Arguments of other kinds are ignored.
func Multiply(args []Value) (Value, error) {
	acc := float32(1.0)

	for _, a := range args {
		if i, ok := a.AsInt(); ok {
			acc *= float32(i)
		} else if f, ok := a.AsFloat(); ok {
			acc *= f
		}
	}

	return Float(acc), nil
}
