package lang

import (
	"log/slog"
	"math"
	"math/rand/v2"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/lestrrat-go/strftime"
)

// Names of the built-in functions, in registration order.
const (
	FuncHostname    = "hostname"
	FuncRandomStr   = "random_str"
	FuncRandomBool  = "random_bool"
	FuncRandomNum   = "random_num"
	FuncCurrentTime = "current_time"
)

const alphanumeric = "0123456789" +
	"abcdefghijklmnopqrstuvwxyz" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// builtins holds the sources shared by the built-in callables of a registry
// and all of its clones.
type builtins struct {
	mu    sync.Mutex
	rand  *rand.Rand
	clock func() time.Time
}

func (r *Registry) registerBuiltins() {
	b := &builtins{rand: r.opts.rand, clock: r.opts.clock}

	r.AddFunction(FuncHostname, CallableFunc(b.hostname))
	r.AddFunction(FuncRandomStr, CallableFunc(b.randomStr))
	r.AddFunction(FuncRandomBool, CallableFunc(b.randomBool))
	r.AddFunction(FuncRandomNum, CallableFunc(b.randomNum))
	r.AddFunction(FuncCurrentTime, CallableFunc(b.currentTime))
}

func (b *builtins) hostname(args []Value) (Value, error) {
	if len(args) != 0 {
		return Value{}, arity(FuncHostname, 0, len(args))
	}

	name, err := os.Hostname()
	if err != nil {
		return Value{}, ErrSystemQuery.Wrap(err).
			With(slog.String("function", FuncHostname))
	}

	return Text(name), nil
}

func (b *builtins) randomStr(args []Value) (Value, error) {
	if len(args) != 1 {
		return Value{}, arity(FuncRandomStr, 1, len(args))
	}

	n, ok := args[0].AsInt()
	if !ok {
		return Value{}, mismatch(FuncRandomStr, 0, KindInt, args[0])
	}

	if n < 0 {
		return Value{}, ErrTypeMismatch.With(
			slog.String("function", FuncRandomStr),
			slog.String("reason", "negative length"),
			slog.Int("length", int(n)),
		)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	var sb strings.Builder

	sb.Grow(int(n))

	for range n {
		sb.WriteByte(alphanumeric[b.rand.IntN(len(alphanumeric))])
	}

	return Text(sb.String()), nil
}

func (b *builtins) randomBool([]Value) (Value, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return Bool(b.rand.IntN(2) == 1), nil
}

func (b *builtins) randomNum(args []Value) (Value, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch len(args) {
	case 0:
		return Int(int32(b.rand.Uint32())), nil //nolint:gosec // full range

	case 1:
		switch args[0].Kind() {
		case KindInt:
			n, _ := args[0].AsInt()

			return b.intIn(0, n)

		case KindFloat:
			f, _ := args[0].AsFloat()

			return b.floatIn(0, f)

		default:
			return Value{}, mismatch(FuncRandomNum, 0, KindInt, args[0])
		}

	case 2:
		lo, hi := args[0], args[1]

		switch {
		case lo.Kind() == KindInt && hi.Kind() == KindInt:
			a, _ := lo.AsInt()
			z, _ := hi.AsInt()

			return b.intIn(a, z)

		case lo.Kind() == KindFloat && hi.Kind() == KindFloat:
			a, _ := lo.AsFloat()
			z, _ := hi.AsFloat()

			return b.floatIn(a, z)

		case lo.Kind() == KindInt || lo.Kind() == KindFloat:
			return Value{}, mismatch(FuncRandomNum, 1, lo.Kind(), hi)

		default:
			return Value{}, mismatch(FuncRandomNum, 0, KindInt, lo)
		}

	default:
		return Value{}, ErrArityMismatch.With(
			slog.String("function", FuncRandomNum),
			slog.String("expected", "0..2"),
			slog.Int("got", len(args)),
		)
	}
}

// intIn returns an Integer in [lo, hi).
func (b *builtins) intIn(lo, hi int32) (Value, error) {
	if hi <= lo {
		return Value{}, emptyRange(lo, hi)
	}

	span := int64(hi) - int64(lo)

	return Int(int32(int64(lo) + b.rand.Int64N(span))), nil //nolint:gosec // within [lo, hi)
}

// floatIn returns a Float in [lo, hi).
func (b *builtins) floatIn(lo, hi float32) (Value, error) {
	if !(hi > lo) || math.IsInf(float64(hi-lo), 0) {
		return Value{}, emptyRange(lo, hi)
	}

	x := float32(float64(lo) + b.rand.Float64()*(float64(hi)-float64(lo)))
	if x >= hi {
		x = math.Nextafter32(hi, lo)
	}

	if x < lo {
		x = lo
	}

	return Float(x), nil
}

func (b *builtins) currentTime(args []Value) (Value, error) {
	if len(args) != 1 {
		return Value{}, arity(FuncCurrentTime, 1, len(args))
	}

	pattern, ok := args[0].AsText()
	if !ok {
		return Value{}, mismatch(FuncCurrentTime, 0, KindText, args[0])
	}

	s, err := strftime.Format(pattern, b.clock().Local())
	if err != nil {
		return Value{}, ErrTypeMismatch.Wrap(err).With(
			slog.String("function", FuncCurrentTime),
			slog.String("pattern", pattern),
		)
	}

	return Text(s), nil
}

func arity(name string, want, got int) *Error {
	return ErrArityMismatch.With(
		slog.String("function", name),
		slog.Int("expected", want),
		slog.Int("got", got),
	)
}

func mismatch(name string, index int, want ValueKind, got Value) *Error {
	return ErrTypeMismatch.With(
		slog.String("function", name),
		slog.Int("index", index),
		slog.String("expected", want.String()),
		slog.String("got", got.Kind().String()),
	)
}

func emptyRange[T int32 | float32](lo, hi T) *Error {
	return ErrTypeMismatch.With(
		slog.String("function", FuncRandomNum),
		slog.Group("range",
			slog.Any("lo", lo),
			slog.Any("hi", hi),
		),
	)
}
