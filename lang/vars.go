package lang

import (
	"bytes"
	"fmt"
	"iter"
	"log/slog"

	"github.com/goccy/go-yaml"
)

// ErrDecodeVariables is returned when a variables document is malformed or
// holds a value with no scalar Value form.
var ErrDecodeVariables = NewError("failed to decode variables")

// UnmarshalVariables decodes a YAML (or JSON) mapping of names to scalar
// values, keeping the document order. An empty document yields no variables.
func UnmarshalVariables(data []byte) ([]Variable, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []Variable{}, nil
	}

	var m yaml.MapSlice
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, ErrDecodeVariables.Wrap(err)
	}

	vars := make([]Variable, 0, len(m))

	for _, item := range m {
		name := fmt.Sprint(item.Key)

		v, ok := FromNative(item.Value)
		if !ok {
			return nil, ErrDecodeVariables.With(
				slog.String("name", name),
				slog.String("type", resultTypeName(item.Value)),
			)
		}

		vars = append(vars, Variable{Name: name, Value: v})
	}

	return vars, nil
}

// MarshalVariables encodes vars as a YAML mapping in iteration order.
func MarshalVariables(vars iter.Seq[Variable]) ([]byte, error) {
	var m yaml.MapSlice

	for v := range vars {
		m = append(m, yaml.MapItem{Key: v.Name, Value: v.Value.Native()})
	}

	if len(m) == 0 {
		return []byte{}, nil
	}

	return yaml.Marshal(m)
}
