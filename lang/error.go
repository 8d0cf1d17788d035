package lang

import (
	"errors"
	"log/slog"
	"slices"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
//
// Errors returned by this package are derived from one of these with
// [Error.With], [Error.Wrap] or [Error.WithPosition], and still match the
// sentinel with [errors.Is].
var (
	ErrSyntax           = NewError("syntax error")
	ErrVariableNotFound = NewError("variable not found")
	ErrFunctionNotFound = NewError("function not found")
	ErrArityMismatch    = NewError("argument count mismatch")
	ErrTypeMismatch     = NewError("argument type mismatch")
	ErrSystemQuery      = NewError("system query failed")
	ErrLiteralParse     = NewError("invalid literal")
	ErrExprCompile      = NewError("expression compilation failed")
	ErrExprEvaluate     = NewError("expression evaluation failed")
	ErrReadInput        = NewError("failed to read input")
)

// ErrorKind classifies an error returned from parsing or evaluation.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindSyntax
	KindVariableNotFound
	KindFunctionNotFound
	KindArityMismatch
	KindTypeMismatch
	KindSystemQuery
	KindLiteralParse
)

// String returns the name of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case KindSyntax:
		return "SyntaxError"

	case KindVariableNotFound:
		return "VariableNotFound"

	case KindFunctionNotFound:
		return "FunctionNotFound"

	case KindArityMismatch:
		return "ArityMismatch"

	case KindTypeMismatch:
		return "TypeMismatch"

	case KindSystemQuery:
		return "SystemQueryFailed"

	case KindLiteralParse:
		return "LiteralParseError"

	default:
		return "Unknown"
	}
}

// Kind returns the kind of err, or KindUnknown if err did not originate from
// one of the sentinels with a kind. Expression callables report their
// failures as TypeMismatch.
func Kind(err error) ErrorKind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrSyntax):
		return KindSyntax
	case errors.Is(err, ErrVariableNotFound):
		return KindVariableNotFound
	case errors.Is(err, ErrFunctionNotFound):
		return KindFunctionNotFound
	case errors.Is(err, ErrArityMismatch):
		return KindArityMismatch
	case errors.Is(err, ErrTypeMismatch),
		errors.Is(err, ErrExprEvaluate):
		return KindTypeMismatch
	case errors.Is(err, ErrSystemQuery):
		return KindSystemQuery
	case errors.Is(err, ErrLiteralParse):
		return KindLiteralParse
	default:
		return KindUnknown
	}
}

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
	pos   *Position   // Source position, if any
	base  *Error      // Sentinel this error was derived from
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg> at <pos>: <err>"
	//   2. "<msg>: <err>"
	//   3. "<msg>"
	//   4. "<err>"
	part := make([]string, 0, 2)

	if e.msg != "" {
		msg := e.msg
		if e.pos != nil {
			msg += " at " + e.pos.String()
		}

		part = append(part, msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether e was derived from the same sentinel as target.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t == nil {
		return false
	}

	return e.root() == t.root()
}

func (e *Error) root() *Error {
	if e.base != nil {
		return e.base
	}

	return e
}

// Position returns the source position attached to the error.
func (e *Error) Position() (Position, bool) {
	if e.pos == nil {
		return Position{}, false
	}

	return *e.pos, true
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+3)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.pos != nil {
		attrs = append(attrs,
			slog.Int("line", e.pos.Line),
			slog.Int("column", e.pos.Column),
		)
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	c := e.derive()
	c.err = err

	return c
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := e.derive()
	c.attrs = make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(c.attrs, e.attrs)
	copy(c.attrs[len(e.attrs):], attrs)

	return c
}

// WithPosition attaches a source position to the error.
func (e *Error) WithPosition(pos Position) *Error {
	c := e.derive()
	c.pos = &pos

	return c
}

// Attr returns the value of the first attribute with the given key.
func (e *Error) Attr(key string) (slog.Value, bool) {
	for _, a := range e.attrs {
		if a.Key == key {
			return a.Value, true
		}
	}

	return slog.Value{}, false
}

func (e *Error) derive() *Error {
	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: e.attrs, // Share attrs
		pos:   e.pos,
		base:  e.root(),
	}
}

// Position identifies a location in template source.
type Position struct {
	Offset int // byte offset, 0-based
	Line   int // 1-based
	Column int // 1-based, in runes
}

// String returns "line L, column C".
func (p Position) String() string {
	return "line " + strconv.Itoa(p.Line) + ", column " + strconv.Itoa(p.Column)
}

// FormatSyntaxError renders err with the offending source line and a caret
// pointing at the error column. Errors without a position are returned as
// plain messages.
func FormatSyntaxError(err error, source string) string {
	var e *Error
	if !errors.As(err, &e) || e.pos == nil {
		if err == nil {
			return ""
		}

		return err.Error()
	}

	pos := *e.pos
	lines := strings.Split(source, "\n")

	var buf strings.Builder

	buf.WriteString(e.Error())
	buf.WriteRune('\n')

	// Show the offending line if within bounds
	if pos.Line > 0 && pos.Line <= len(lines) {
		line := lines[pos.Line-1]

		buf.WriteString("  ")
		buf.WriteString(strconv.Itoa(pos.Line))
		buf.WriteString(" | ")
		buf.WriteString(line)
		buf.WriteRune('\n')

		// +5 accounts for: 2 leading spaces + " | " (3 chars)
		padding := strings.Repeat(" ", len(strconv.Itoa(pos.Line))+5)
		if pos.Column > 0 {
			padding += strings.Repeat(" ", pos.Column-1)
		}

		buf.WriteString(padding + "^\n")
	}

	if v, ok := e.Attr("expected"); ok {
		exp := strings.Split(v.String(), "|")
		for i := range exp {
			exp[i] = strconv.Quote(exp[i])
		}

		slices.Sort(exp)
		buf.WriteString("\texpected: " + strings.Join(exp, ", "))
	}

	return strings.TrimRight(buf.String(), "\n")
}
