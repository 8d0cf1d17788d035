package lang

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileFunction(t *testing.T) {
	tests := []struct {
		name   string
		source string
		args   []Value
		want   Value
	}{
		{
			name:   "product",
			source: "reduce(args, #acc * #, 1.0)",
			args:   []Value{Int(2), Float(2.5)},
			want:   Float(5),
		},
		{
			name:   "argument count",
			source: "len(args)",
			args:   []Value{Text("a"), Text("b"), Bool(true)},
			want:   Int(3),
		},
		{
			name:   "string concatenation",
			source: `args[0] + "!"`,
			args:   []Value{Text("hi")},
			want:   Text("hi!"),
		},
		{
			name:   "comparison",
			source: "args[0] > 1",
			args:   []Value{Int(2)},
			want:   Bool(true),
		},
		{
			name:   "constant",
			source: "42",
			want:   Int(42),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, err := CompileFunction(tt.source)
			require.NoError(t, err)

			got, err := fn.Call(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompileFunction_CompileError(t *testing.T) {
	for _, source := range []string{"args +", "unknown_name", "("} {
		t.Run(source, func(t *testing.T) {
			fn, err := CompileFunction(source)
			require.ErrorIs(t, err, ErrExprCompile)
			assert.Nil(t, fn)
		})
	}
}

func TestCompileFunction_CallErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		args   []Value
		want   *Error
	}{
		{"index out of range", "args[5]", nil, ErrExprEvaluate},
		{"unsupported result", "[1, 2]", nil, ErrTypeMismatch},
		{"nil result", "nil", nil, ErrTypeMismatch},
		{"integer overflow", "3000000000", nil, ErrTypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, err := CompileFunction(tt.source)
			require.NoError(t, err)

			_, err = fn.Call(tt.args)
			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, KindTypeMismatch, Kind(err))
		})
	}
}

func TestCompileFunction_InTemplate(t *testing.T) {
	reg := sampleRegistry(t)

	fn, err := CompileFunction("reduce(args, #acc * #, 1.0)")
	require.NoError(t, err)

	reg.AddFunction("multiply", fn)

	got := Render(context.Background(), "${multiply(${len}, 0.5, 3)}", reg)
	assert.Equal(t, "15", got)
}

func TestFromNative(t *testing.T) {
	tests := []struct {
		in   any
		want Value
		ok   bool
	}{
		{int(7), Int(7), true},
		{int64(math.MaxInt32), Int(math.MaxInt32), true},
		{int64(math.MaxInt32) + 1, Value{}, false},
		{int64(math.MinInt32) - 1, Value{}, false},
		{uint8(255), Int(255), true},
		{uint64(math.MaxUint32), Value{}, false},
		{float64(0.25), Float(0.25), true},
		{"s", Text("s"), true},
		{false, Bool(false), true},
		{Text("v"), Text("v"), true},
		{[]int{1}, Value{}, false},
		{nil, Value{}, false},
	}

	for _, tt := range tests {
		got, ok := FromNative(tt.in)
		assert.Equal(t, tt.ok, ok, "%#v", tt.in)

		if tt.ok {
			assert.Equal(t, tt.want, got, "%#v", tt.in)
		}
	}
}

func TestMultiply(t *testing.T) {
	got, err := Multiply([]Value{Int(4), Float(0.25), Text("x"), Bool(false)})
	require.NoError(t, err)
	assert.Equal(t, Float(1), got)
}
