// Package cmd implements the hermes subcommands: render, eval, tree, funcs,
// init and repl.
//
// Every command evaluates templates against a [lang.Registry] built once per
// invocation from the [Registry] flag group and stored in the command
// context with [WithRegistry].
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the YAML configuration file.
	ConfigIdentifier = "config"
)
