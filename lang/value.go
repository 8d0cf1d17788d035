package lang

import (
	"encoding/json"
	"log/slog"
	"strconv"

	"github.com/goccy/go-yaml"
)

// ValueKind identifies the variant held by a [Value].
type ValueKind int

const (
	// KindInt holds a signed 32-bit integer.
	KindInt ValueKind = iota
	// KindFloat holds a 32-bit float.
	KindFloat
	// KindText holds a string.
	KindText
	// KindBool holds a boolean.
	KindBool
)

// String returns a string representation of the value kind.
func (k ValueKind) String() string {
	switch k {
	case KindInt:
		return "Integer"
	case KindFloat:
		return "Float"
	case KindText:
		return "Text"
	case KindBool:
		return "Boolean"
	default:
		return "Unknown"
	}
}

// Value is the result of evaluating an item or calling a function.
// The zero value is the Integer 0.
type Value struct {
	kind ValueKind
	i    int32
	f    float32
	s    string
	b    bool
}

var (
	_ json.Marshaler          = Value{}
	_ yaml.InterfaceMarshaler = Value{}
	_ slog.LogValuer          = Value{}
)

// Int returns an Integer value.
func Int(i int32) Value { return Value{kind: KindInt, i: i} }

// Float returns a Float value.
func Float(f float32) Value { return Value{kind: KindFloat, f: f} }

// Text returns a Text value.
func Text(s string) Value { return Value{kind: KindText, s: s} }

// Bool returns a Boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Kind returns the variant held by v.
func (v Value) Kind() ValueKind { return v.kind }

// AsInt returns the Integer payload of v.
func (v Value) AsInt() (int32, bool) { return v.i, v.kind == KindInt }

// AsFloat returns the Float payload of v.
func (v Value) AsFloat() (float32, bool) { return v.f, v.kind == KindFloat }

// AsText returns the Text payload of v.
func (v Value) AsText() (string, bool) { return v.s, v.kind == KindText }

// AsBool returns the Boolean payload of v.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// String renders v the way it appears in rendered output.
// Floats use the shortest decimal form that round-trips, without exponent.
func (v Value) String() string {
	switch v.kind {
	case KindFloat:
		return strconv.FormatFloat(float64(v.f), 'f', -1, 32)
	case KindText:
		return v.s
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return strconv.FormatInt(int64(v.i), 10)
	}
}

// Native returns the payload of v as int32, float32, string, or bool.
func (v Value) Native() any {
	switch v.kind {
	case KindFloat:
		return v.f
	case KindText:
		return v.s
	case KindBool:
		return v.b
	default:
		return v.i
	}
}

// MarshalJSON encodes the native payload of v.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Native())
}

// MarshalYAML encodes the native payload of v.
func (v Value) MarshalYAML() (any, error) {
	return v.Native(), nil
}

// LogValue implements slog.LogValuer.
func (v Value) LogValue() slog.Value {
	switch v.kind {
	case KindFloat:
		return slog.Float64Value(float64(v.f))
	case KindText:
		return slog.StringValue(v.s)
	case KindBool:
		return slog.BoolValue(v.b)
	default:
		return slog.Int64Value(int64(v.i))
	}
}

// Equal reports whether v and w hold the same kind and payload.
func (v Value) Equal(w Value) bool {
	return v == w
}
