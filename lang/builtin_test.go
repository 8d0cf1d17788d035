package lang

import (
	"math"
	"math/rand/v2"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry(opts ...Option) *Registry {
	return NewRegistry(8, append([]Option{
		WithRand(rand.New(rand.NewPCG(1, 2))),
	}, opts...)...)
}

func TestHostname(t *testing.T) {
	want, err := os.Hostname()
	if err != nil {
		t.Skipf("hostname unavailable: %v", err)
	}

	reg := testRegistry()

	v, err := reg.CallFunction(FuncHostname, nil)
	require.NoError(t, err)
	assert.Equal(t, Text(want), v)

	_, err = reg.CallFunction(FuncHostname, []Value{Int(1)})
	assert.ErrorIs(t, err, ErrArityMismatch)
}

func TestRandomStr(t *testing.T) {
	reg := testRegistry()

	for _, n := range []int32{0, 1, 10, 100} {
		v, err := reg.CallFunction(FuncRandomStr, []Value{Int(n)})
		require.NoError(t, err)

		s, ok := v.AsText()
		require.True(t, ok, "expected Text, got %v", v.Kind())
		assert.Len(t, s, int(n))

		for _, r := range s {
			assert.True(t, strings.ContainsRune(alphanumeric, r),
				"unexpected character %q", r)
		}
	}
}

func TestRandomStr_Errors(t *testing.T) {
	reg := testRegistry()

	tests := []struct {
		name string
		args []Value
		want *Error
	}{
		{"no args", nil, ErrArityMismatch},
		{"two args", []Value{Int(1), Int(2)}, ErrArityMismatch},
		{"text length", []Value{Text("10")}, ErrTypeMismatch},
		{"float length", []Value{Float(1)}, ErrTypeMismatch},
		{"negative length", []Value{Int(-1)}, ErrTypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reg.CallFunction(FuncRandomStr, tt.args)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRandomBool(t *testing.T) {
	reg := testRegistry()

	seen := map[bool]int{}

	for range 200 {
		v, err := reg.CallFunction(FuncRandomBool, nil)
		require.NoError(t, err)

		b, ok := v.AsBool()
		require.True(t, ok)

		seen[b]++
	}

	assert.Positive(t, seen[true])
	assert.Positive(t, seen[false])

	v, err := reg.CallFunction(FuncRandomBool, []Value{Text("ignored")})
	require.NoError(t, err)
	assert.Equal(t, KindBool, v.Kind())
}

func TestRandomNum(t *testing.T) {
	reg := testRegistry()

	tests := []struct {
		name   string
		args   []Value
		kind   ValueKind
		lo, hi float64
	}{
		{"full range", nil, KindInt, math.MinInt32, math.MaxInt32 + 1},
		{"int upper", []Value{Int(10)}, KindInt, 0, 10},
		{"float upper", []Value{Float(2.5)}, KindFloat, 0, 2.5},
		{"int range", []Value{Int(-5), Int(5)}, KindInt, -5, 5},
		{"float range", []Value{Float(1), Float(2)}, KindFloat, 1, 2},
		{"unit int range", []Value{Int(7), Int(8)}, KindInt, 7, 8},
		{
			"widest int range",
			[]Value{Int(math.MinInt32), Int(math.MaxInt32)},
			KindInt, math.MinInt32, math.MaxInt32,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for range 100 {
				v, err := reg.CallFunction(FuncRandomNum, tt.args)
				require.NoError(t, err)
				require.Equal(t, tt.kind, v.Kind())

				var x float64

				switch v.Kind() {
				case KindInt:
					i, _ := v.AsInt()
					x = float64(i)
				case KindFloat:
					f, _ := v.AsFloat()
					x = float64(f)
				}

				assert.GreaterOrEqual(t, x, tt.lo)
				assert.Less(t, x, tt.hi)
			}
		})
	}
}

func TestRandomNum_Errors(t *testing.T) {
	reg := testRegistry()

	tests := []struct {
		name  string
		args  []Value
		want  *Error
		empty bool
	}{
		{"mixed kinds", []Value{Int(1), Float(2)}, ErrTypeMismatch, false},
		{"mixed kinds reversed", []Value{Float(1), Int(2)}, ErrTypeMismatch, false},
		{"text", []Value{Text("5")}, ErrTypeMismatch, false},
		{"bool pair", []Value{Bool(true), Bool(false)}, ErrTypeMismatch, false},
		{"three args", []Value{Int(1), Int(2), Int(3)}, ErrArityMismatch, false},
		{"zero upper", []Value{Int(0)}, ErrTypeMismatch, true},
		{"negative upper", []Value{Float(-1)}, ErrTypeMismatch, true},
		{"equal bounds", []Value{Int(5), Int(5)}, ErrTypeMismatch, true},
		{"inverted bounds", []Value{Float(2), Float(1)}, ErrTypeMismatch, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reg.CallFunction(FuncRandomNum, tt.args)
			require.ErrorIs(t, err, tt.want)

			if tt.empty {
				var e *Error
				require.ErrorAs(t, err, &e)

				_, ok := e.Attr("range")
				assert.True(t, ok, "expected range attribute")
			}
		})
	}
}

func TestCurrentTime(t *testing.T) {
	now := time.Date(2024, time.March, 1, 13, 4, 5, 0, time.Local)
	reg := testRegistry(WithClock(func() time.Time { return now }))

	tests := []struct {
		pattern string
		want    string
	}{
		{"%Y-%m-%d", "2024-03-01"},
		{"%H:%M:%S", "13:04:05"},
		{"at %Y", "at 2024"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			v, err := reg.CallFunction(FuncCurrentTime, []Value{Text(tt.pattern)})
			require.NoError(t, err)
			assert.Equal(t, Text(tt.want), v)
		})
	}
}

func TestCurrentTime_Errors(t *testing.T) {
	reg := testRegistry()

	_, err := reg.CallFunction(FuncCurrentTime, nil)
	assert.ErrorIs(t, err, ErrArityMismatch)

	_, err = reg.CallFunction(FuncCurrentTime, []Value{Int(1)})
	assert.ErrorIs(t, err, ErrTypeMismatch)

	_, err = reg.CallFunction(FuncCurrentTime, []Value{Text("%Q")})
	assert.ErrorIs(t, err, ErrTypeMismatch)
	assert.Equal(t, KindTypeMismatch, Kind(err))
}
