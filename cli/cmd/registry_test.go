package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/hermes/lang"
	"github.com/ardnew/hermes/log"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want lang.Value
	}{
		{"42", lang.Int(42)},
		{"-7", lang.Int(-7)},
		{"1.5", lang.Float(1.5)},
		{"true", lang.Bool(true)},
		{"false", lang.Bool(false)},
		{`"42"`, lang.Text("42")},
		{`""`, lang.Text("")},
		{"hello", lang.Text("hello")},
		{"", lang.Text("")},
		{"1.2.3", lang.Text("1.2.3")},
		{"99999999999", lang.Text("99999999999")},
		{"TRUE", lang.Text("TRUE")},
		{`"`, lang.Text(`"`)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseValue(tt.in))
		})
	}
}

func TestIsDecimal(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"0", true},
		{"-12", true},
		{"3.25", true},
		{"-0.5", true},
		{"", false},
		{"-", false},
		{".5", false},
		{"5.", false},
		{"1e3", false},
		{"1.2.3", false},
		{"+1", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, isDecimal(tt.in))
		})
	}
}

func TestSplitAssignment(t *testing.T) {
	name, value, err := splitAssignment(" key =a=b")
	require.NoError(t, err)
	assert.Equal(t, "key", name)
	assert.Equal(t, "a=b", value)

	name, value, err = splitAssignment("empty=")
	require.NoError(t, err)
	assert.Equal(t, "empty", name)
	assert.Empty(t, value)

	for _, bad := range []string{"novalue", "=x", " =x"} {
		_, _, err := splitAssignment(bad)
		assert.ErrorIs(t, err, ErrAssignment, bad)
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestRegistry_Build(t *testing.T) {
	first := writeFile(t, "a.yaml", "host: alpha\nport: 80\n")
	second := writeFile(t, "b.json", `{"port": 8080, "secure": true}`)

	r := Registry{
		VarsFile: []string{first, second},
		Var:      []string{"host=beta", `label="7"`},
		Func:     []string{"double=args[0] * 2"},
		Capacity: 4,
		MaxDepth: lang.DefaultMaxDepth,
	}

	reg, opts, err := r.Build(context.Background(), log.Logger{})
	require.NoError(t, err)
	require.NotEmpty(t, opts)

	want := map[string]lang.Value{
		"host":   lang.Text("beta"),
		"port":   lang.Int(8080),
		"secure": lang.Bool(true),
		"label":  lang.Text("7"),
	}

	for name, v := range want {
		got, ok := reg.GetVariable(name)
		require.True(t, ok, name)
		assert.Equal(t, v, got.Value, name)
	}

	assert.Equal(t, "160", lang.Render(context.Background(), "${double(80)}", reg, opts...))

	_, ok := reg.LookupFunction(FuncEnv)
	assert.True(t, ok)
}

func TestRegistry_BuildErrors(t *testing.T) {
	bad := writeFile(t, "bad.yaml", "nested:\n  a: 1\n")

	tests := []struct {
		name string
		reg  Registry
		want error
	}{
		{"assignment", Registry{Var: []string{"oops"}}, ErrAssignment},
		{"vars file", Registry{VarsFile: []string{bad}}, ErrVarsFile},
		{"missing file", Registry{VarsFile: []string{bad + ".missing"}}, ErrVarsFile},
		{"function", Registry{Func: []string{"f=args["}}, ErrFunction},
		{"function assignment", Registry{Func: []string{"=1"}}, ErrAssignment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := tt.reg.Build(context.Background(), log.Logger{})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRegistry_FuncCannotShadow(t *testing.T) {
	r := Registry{Func: []string{`hostname="fake"`}, MaxDepth: lang.DefaultMaxDepth}

	reg, opts, err := r.Build(context.Background(), log.Logger{})
	require.NoError(t, err)

	host := lang.Render(context.Background(), "${hostname()}", reg, opts...)
	assert.NotEqual(t, "fake", host)
}
