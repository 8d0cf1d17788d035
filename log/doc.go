// Package log provides a simplified leveled logging interface based on
// [log/slog].
//
// Every logging method takes [slog.Attr] values rather than loose key/value
// pairs, and the package adds a Trace level below Debug for the detailed
// parse and evaluation tracing emitted by the template engine.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("rendered", slog.Int("items", 3))
//	logger.Error("render failed", slog.Any("error", err))
//
// # Configuration
//
// Configure the logger using functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
// The package-level functions write through a default logger that is
// reconfigured with [Config].
//
// # Zero Value
//
// A zero [Logger] discards everything. Library packages keep a Logger field
// and only produce output when the caller injects a configured one.
//
// # Output Formats
//
// Two output formats are supported: [FormatText] (default) and [FormatJSON].
// With [WithPretty], either format is styled with lipgloss for terminals;
// color is dropped automatically when the output is not a terminal.
package log
