package cmd

import (
	"context"

	"github.com/ardnew/hermes/cli/cmd/repl"
	"github.com/ardnew/hermes/log"
)

// HistoryIdentifier is the kong variable identifier containing the default
// path of the REPL history file.
const HistoryIdentifier = "history"

// Repl starts an interactive prompt.
type Repl struct {
	History string `default:"${history}" help:"History file (empty disables history)."`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) error {
	reg, opts := registryFrom(ctx)

	return repl.Run(ctx, reg, r.History, log.Default(), opts...)
}
