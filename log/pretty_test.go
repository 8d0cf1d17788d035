package log

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestPrettyHandler_Text(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf,
		WithPretty(true),
		WithTimeLayout("none"),
		WithLevel(LevelTrace))

	logger.
		With(slog.String("component", "lang")).
		Trace("parse complete",
			slog.Int("items", 3),
			slog.Bool("ok", true),
			slog.Group("pos", slog.Int("line", 1), slog.Int("column", 2)),
			slog.Any("error", errors.New("boom")))

	// The buffer is not a terminal, so no escape sequences are emitted.
	want := "level=TRACE msg=parse complete component=lang items=3 ok=true " +
		"pos.line=1 pos.column=2 error=boom\n"

	if buf.String() != want {
		t.Errorf("expected:\n%q\ngot:\n%q", want, buf.String())
	}
}

func TestPrettyHandler_JSON(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf,
		WithPretty(true),
		WithFormat(FormatJSON),
		WithTimeLayout("none"))

	logger.Warn("careful", slog.Float64("ratio", 0.5))

	want := "{\n  level: WARN,\n  msg: careful,\n  ratio: 0.5\n}\n"

	if buf.String() != want {
		t.Errorf("expected:\n%q\ngot:\n%q", want, buf.String())
	}
}

func TestPrettyHandler_WithGroup(t *testing.T) {
	var buf bytes.Buffer

	h := newPrettyHandler(&buf, FormatText, nil, makeConfig(&buf).handlerOptions())
	logger := slog.New(h.WithGroup("req").WithAttrs([]slog.Attr{slog.String("id", "7")}))

	logger.Info("done", slog.Int("status", 200))

	if !strings.Contains(buf.String(), "req.id=7 req.status=200") {
		t.Errorf("expected grouped keys, got: %s", buf.String())
	}
}

func TestPrettyHandler_Caller(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, WithPretty(true), WithCaller(true)).Info("where")

	if !strings.Contains(buf.String(), "source=") ||
		!strings.Contains(buf.String(), "pretty_test.go:") {
		t.Errorf("expected source field, got: %s", buf.String())
	}
}
