package cmd

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/hermes/lang"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type (
	registryKey struct{}
	inputKey    struct{}
	session     struct {
		reg  *lang.Registry
		opts []lang.Option
	}
)

// WithRegistry returns a new context.Context carrying the registry and
// evaluation options shared by every command.
func WithRegistry(
	ctx context.Context,
	reg *lang.Registry,
	opts ...lang.Option,
) context.Context {
	return context.WithValue(ctx, registryKey{}, session{reg: reg, opts: opts})
}

// registryFrom returns the registry stored by WithRegistry, or a registry
// holding only the built-ins.
func registryFrom(ctx context.Context) (*lang.Registry, []lang.Option) {
	s, ok := ctx.Value(registryKey{}).(session)
	if !ok || s.reg == nil {
		return lang.NewRegistry(0, s.opts...), s.opts
	}

	return s.reg, s.opts
}

// WithInput returns a new context.Context whose commands read templates from
// r when none are given as arguments. The default is os.Stdin.
func WithInput(ctx context.Context, r io.Reader) context.Context {
	return context.WithValue(ctx, inputKey{}, r)
}

func inputFrom(ctx context.Context) io.Reader {
	if r, ok := ctx.Value(inputKey{}).(io.Reader); ok && r != nil {
		return r
	}

	return os.Stdin
}

func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

func stderr(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stderr != nil {
		return ktx.Stderr
	}

	return os.Stderr
}

// templates returns args, or the whole of the context input as a single
// template with one trailing newline removed.
func templates(ctx context.Context, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}

	data, err := io.ReadAll(inputFrom(ctx))
	if err != nil {
		return nil, ErrReadInput.Wrap(err)
	}

	s := strings.TrimSuffix(string(data), "\n")

	return []string{strings.TrimSuffix(s, "\r")}, nil
}
