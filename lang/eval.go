package lang

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ardnew/hermes/log"
)

// Result is the outcome of evaluating one top-level item.
// Exactly one of Value or Err is meaningful: Value is valid only when Err is
// nil.
type Result struct {
	Value Value
	Err   error
}

// OK reports whether the item evaluated successfully.
func (r Result) OK() bool { return r.Err == nil }

// Evaluate parses input and evaluates each item against reg.
//
// A syntax error is returned as the error and no item is evaluated.
// Otherwise each item yields a [Result]; a failing item does not prevent its
// siblings from being evaluated.
func Evaluate(
	ctx context.Context,
	input string,
	reg *Registry,
	opts ...Option,
) ([]Result, error) {
	nodes, err := Parse(ctx, input, opts...)
	if err != nil {
		return nil, err
	}

	return EvaluateNodes(ctx, nodes, reg, opts...), nil
}

// EvaluateNodes evaluates previously parsed nodes against reg.
// A nil reg is replaced with a fresh registry holding only the built-ins.
func EvaluateNodes(
	ctx context.Context,
	nodes []Node,
	reg *Registry,
	opts ...Option,
) []Result {
	o := makeOptions(opts...)

	if reg == nil {
		reg = NewRegistry(0, opts...)
	}

	e := evaluator{reg: reg, logger: o.logger}

	results := make([]Result, len(nodes))

	for i, n := range nodes {
		v, err := e.eval(ctx, n)
		results[i] = Result{Value: v, Err: err}

		if err != nil {
			e.logger.DebugContext(ctx, "item failed",
				slog.Int("index", i),
				slog.Any("error", err))
		}
	}

	return results
}

// Render evaluates input and concatenates the string form of every
// successful item. Failed items, and the whole input on a syntax error,
// contribute nothing.
func Render(
	ctx context.Context,
	input string,
	reg *Registry,
	opts ...Option,
) string {
	results, err := Evaluate(ctx, input, reg, opts...)
	if err != nil {
		return ""
	}

	return Join(results)
}

// Join concatenates the string form of every successful result.
func Join(results []Result) string {
	var sb strings.Builder

	for _, r := range results {
		if r.Err == nil {
			sb.WriteString(r.Value.String())
		}
	}

	return sb.String()
}

type evaluator struct {
	reg    *Registry
	logger log.Logger
}

// eval evaluates a node depth-first, arguments before the enclosing call.
func (e *evaluator) eval(ctx context.Context, n Node) (Value, error) {
	e.logger.TraceContext(ctx, "eval",
		slog.String("type", n.Type.String()),
		slog.String("node", n.String()))

	switch n.Type {
	case NodeVariable:
		v, ok := e.reg.GetVariable(n.Name)
		if !ok {
			return Value{}, ErrVariableNotFound.
				WithPosition(n.Pos).
				With(slog.String("name", n.Name))
		}

		return v.Value, nil

	case NodeCall:
		args := make([]Value, 0, len(n.Args))

		for _, a := range n.Args {
			v, err := e.eval(ctx, a)
			if err != nil {
				return Value{}, err
			}

			args = append(args, v)
		}

		return e.reg.CallFunction(n.Name, args)

	case NodeNumber, NodeBoolean:
		v, err := ParseLiteral(n.Type, n.Text)
		if err != nil {
			e.logger.WarnContext(ctx, "literal conversion failed",
				slog.String("text", n.Text),
				slog.Any("error", err))

			return Value{}, err
		}

		return v, nil

	case NodeString, NodeText:
		return Text(n.Text), nil

	default:
		return Value{}, ErrSyntax.WithPosition(n.Pos).
			With(slog.String("type", n.Type.String()))
	}
}

// ParseLiteral converts the text of a Number or Boolean literal to a Value.
// Numbers containing '.' become Float, all others Integer.
func ParseLiteral(t NodeType, text string) (Value, error) {
	switch t {
	case NodeNumber:
		if strings.Contains(text, ".") {
			f, err := strconv.ParseFloat(text, 32)
			if err != nil {
				return Value{}, ErrLiteralParse.Wrap(err).
					With(slog.String("kind", KindFloat.String()))
			}

			return Float(float32(f)), nil
		}

		i, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return Value{}, ErrLiteralParse.Wrap(err).
				With(slog.String("kind", KindInt.String()))
		}

		return Int(int32(i)), nil

	case NodeBoolean:
		switch text {
		case "true":
			return Bool(true), nil
		case "false":
			return Bool(false), nil
		}

		return Value{}, ErrLiteralParse.
			With(slog.String("kind", KindBool.String()), slog.String("text", text))

	case NodeString, NodeText:
		return Text(text), nil

	default:
		return Value{}, ErrLiteralParse.
			With(slog.String("type", t.String()))
	}
}
