package lang

import (
	"encoding/json"
	"reflect"

	"github.com/goccy/go-yaml"
)

// Results is a list of item results with JSON and YAML encodings.
//
// Each result is encoded as {"kind": ..., "value": ...} on success and as
// {"error": ..., "kind": ...} on failure, where kind is the error kind.
type Results []Result

var (
	_ json.Marshaler          = Results(nil)
	_ yaml.InterfaceMarshaler = Results(nil)
)

type encodedResult struct {
	Kind  string `json:"kind"            yaml:"kind"`
	Value *Value `json:"value,omitempty" yaml:"value,omitempty"`
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

func (rs Results) encoded() []encodedResult {
	out := make([]encodedResult, len(rs))

	for i, r := range rs {
		if r.Err != nil {
			out[i] = encodedResult{
				Kind:  Kind(r.Err).String(),
				Error: r.Err.Error(),
			}

			continue
		}

		v := r.Value
		out[i] = encodedResult{Kind: v.Kind().String(), Value: &v}
	}

	return out
}

// MarshalJSON implements json.Marshaler.
func (rs Results) MarshalJSON() ([]byte, error) {
	return json.Marshal(rs.encoded())
}

// MarshalYAML implements yaml.InterfaceMarshaler.
func (rs Results) MarshalYAML() (any, error) {
	return rs.encoded(), nil
}

// String concatenates the successful results.
func (rs Results) String() string { return Join(rs) }

func resultTypeName(value any) string {
	if value == nil {
		return "nil"
	}

	return reflect.TypeOf(value).String()
}
