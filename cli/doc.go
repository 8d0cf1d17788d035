// Package cli contains the command line interface for hermes.
//
// # Usage
//
// Templates given as arguments are rendered one per line. With no arguments,
// the whole of stdin is read as a single template:
//
//	hermes --var name=liudao 'user- + ${name} + - + ${random_num(1, 99)}'
//	echo '${hostname()}' | hermes render
//
// # Commands
//
//   - render: print the rendered text of each template (default)
//   - eval: print the kind and value of every item (--output text, json, yaml)
//   - tree: print the syntax tree of each template
//   - funcs: list the registered function names
//   - repl: start an interactive session with completion and history
//   - init: write the current flag values to the configuration file
//
// # Registry Options
//
//   - --var NAME=VALUE: define a variable, typed like a template literal
//   - --vars-file FILE: load variables from a YAML or JSON mapping
//   - --func NAME=EXPR: define a function as an expr-lang program over args
//   - --capacity: initial registry capacity
//   - --max-depth: nesting limit for markers and calls
//
// # Configuration
//
// Flags are read from config.yaml and config.json under the user config
// directory. Nested YAML mappings are flattened with "-", so log.level and
// log-level both set --log-level. Command-line flags override file values.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time: Set timestamp layout (RFC3339, Kitchen, none, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory
package cli
