package cmd

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/hermes/lang"
	"github.com/ardnew/hermes/log"
)

// Registry is the flag group that populates the template registry.
//
// Variables files are loaded first, in order, then --var assignments; a later
// definition of a name replaces the earlier one. Functions from --func are
// added after the built-ins and extras, so they cannot shadow them.
type Registry struct {
	Var      []string `help:"Define a variable (repeatable)."                    placeholder:"NAME=VALUE" sep:"none"`
	VarsFile []string `help:"Load variables from a YAML or JSON map (repeatable)." placeholder:"PATH"       sep:"none" type:"existingfile"`
	Func     []string `help:"Define an expr-lang function (repeatable)."          placeholder:"NAME=EXPR"  sep:"none"`
	Capacity int      `default:"16"          help:"Initial variable capacity."`
	MaxDepth int      `default:"${maxDepth}" help:"Maximum nesting depth of markers and calls."`
}

// Vars returns the kong variables referenced by the Registry flags.
func (Registry) Vars() kong.Vars {
	return kong.Vars{
		"maxDepth": strconv.Itoa(lang.DefaultMaxDepth),
	}
}

// Group returns the help group of the Registry flags.
func (Registry) Group() kong.Group {
	return kong.Group{Key: "registry", Title: "Registry options"}
}

// Build constructs the registry described by the flags, along with the
// evaluation options every command should pass to the lang package.
func (r Registry) Build(
	ctx context.Context,
	logger log.Logger,
) (*lang.Registry, []lang.Option, error) {
	opts := []lang.Option{
		lang.WithLogger(logger),
		lang.WithMaxDepth(r.MaxDepth),
	}

	reg := lang.NewRegistry(r.Capacity, opts...)
	registerExtras(reg, os.LookupEnv)

	for _, path := range r.VarsFile {
		vars, err := LoadVarsFile(path)
		if err != nil {
			return nil, nil, err
		}

		for _, v := range vars {
			define(reg, v.Name, v.Value)
		}
	}

	for _, s := range r.Var {
		name, text, err := splitAssignment(s)
		if err != nil {
			return nil, nil, err
		}

		define(reg, name, ParseValue(text))
	}

	for _, s := range r.Func {
		name, source, err := splitAssignment(s)
		if err != nil {
			return nil, nil, err
		}

		fn, err := lang.CompileFunction(source)
		if err != nil {
			return nil, nil, ErrFunction.Wrap(err).With(slog.String("name", name))
		}

		if _, ok := reg.LookupFunction(name); ok {
			logger.WarnContext(ctx, "function shadowed by existing definition",
				slog.String("name", name))
		}

		reg.AddFunction(name, fn)
	}

	logger.DebugContext(ctx, "registry built",
		slog.Int("vars_files", len(r.VarsFile)),
		slog.Int("vars", len(r.Var)),
		slog.Int("funcs", len(r.Func)))

	return reg, opts, nil
}

// define sets name to v, replacing any earlier definition.
func define(reg *lang.Registry, name string, v lang.Value) {
	if _, ok := reg.GetVariable(name); ok {
		reg.SetVariable(name, v)

		return
	}

	reg.AddVariable(name, v)
}

func splitAssignment(s string) (name, value string, err error) {
	name, value, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)

	if !ok || name == "" {
		return "", "", ErrAssignment.With(slog.String("arg", s))
	}

	return name, value, nil
}

// ParseValue types a command-line value the way the template grammar types
// literals: a double-quoted string is Text without its quotes, true and false
// are Boolean, a decimal number is Integer or Float, and anything else
// (including numbers out of range) is Text as given.
func ParseValue(s string) lang.Value {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return lang.Text(s[1 : len(s)-1])
	}

	if v, err := lang.ParseLiteral(lang.NodeBoolean, s); err == nil {
		return v
	}

	if isDecimal(s) {
		if v, err := lang.ParseLiteral(lang.NodeNumber, s); err == nil {
			return v
		}
	}

	return lang.Text(s)
}

// isDecimal reports whether s is an optionally signed run of digits with at
// most one interior '.'.
func isDecimal(s string) bool {
	s = strings.TrimPrefix(s, "-")

	whole, frac, dot := strings.Cut(s, ".")
	if whole == "" || (dot && frac == "") {
		return false
	}

	return strings.Trim(whole+frac, "0123456789") == ""
}

// LoadVarsFile reads a YAML (or JSON) mapping of variable names to scalar
// values. Keys keep their file order.
func LoadVarsFile(path string) ([]lang.Variable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrVarsFile.Wrap(err).With(slog.String("path", path))
	}

	vars, err := lang.UnmarshalVariables(data)
	if err != nil {
		return nil, ErrVarsFile.Wrap(err).With(slog.String("path", path))
	}

	return vars, nil
}
