package cmd

import (
	"log/slog"
	"os"

	"github.com/ardnew/mung"

	"github.com/ardnew/hermes/lang"
)

// Names of the host functions the CLI adds to every registry.
const (
	FuncEnv            = "env"
	FuncPathlistPrefix = "pathlist_prefix"
)

func registerExtras(reg *lang.Registry, lookup func(string) (string, bool)) {
	reg.AddFunction(FuncEnv, lang.CallableFunc(envFunc(lookup)))
	reg.AddFunction(FuncPathlistPrefix, lang.CallableFunc(pathlistPrefix))
}

// envFunc returns env(name), the value of a process environment variable.
// An unset variable is a VariableNotFound error; a set but empty one is "".
func envFunc(lookup func(string) (string, bool)) lang.CallableFunc {
	return func(args []lang.Value) (lang.Value, error) {
		if len(args) != 1 {
			return lang.Value{}, lang.ErrArityMismatch.With(
				slog.String("function", FuncEnv),
				slog.Int("expected", 1),
				slog.Int("got", len(args)),
			)
		}

		name, ok := args[0].AsText()
		if !ok {
			return lang.Value{}, lang.ErrTypeMismatch.With(
				slog.String("function", FuncEnv),
				slog.String("expected", lang.KindText.String()),
				slog.String("got", args[0].Kind().String()),
			)
		}

		value, ok := lookup(name)
		if !ok {
			return lang.Value{}, lang.ErrVariableNotFound.With(
				slog.String("function", FuncEnv),
				slog.String("name", name),
			)
		}

		return lang.Text(value), nil
	}
}

// pathlistPrefix returns pathlist_prefix(list, items...): list with items
// moved or added to its front, joined by the OS path list separator.
// Items may be of any kind and are used in their string form.
func pathlistPrefix(args []lang.Value) (lang.Value, error) {
	if len(args) == 0 {
		return lang.Value{}, lang.ErrArityMismatch.With(
			slog.String("function", FuncPathlistPrefix),
			slog.String("expected", "1.."),
			slog.Int("got", 0),
		)
	}

	list, ok := args[0].AsText()
	if !ok {
		return lang.Value{}, lang.ErrTypeMismatch.With(
			slog.String("function", FuncPathlistPrefix),
			slog.String("expected", lang.KindText.String()),
			slog.String("got", args[0].Kind().String()),
		)
	}

	items := make([]string, len(args)-1)
	for i, a := range args[1:] {
		items[i] = a.String()
	}

	return lang.Text(mung.Make(
		mung.WithSubjectItems(list),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(items...),
	).String()), nil
}
