package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/hermes/lang"
	"github.com/ardnew/hermes/log"
)

// Render prints the rendered output of each template, one per line.
//
// Items that fail to evaluate contribute nothing, and a template with a
// syntax error renders as an empty line.
type Render struct {
	Template []string `arg:"" help:"Templates to render (default: read one template from stdin)" name:"template" optional:""`
}

// Run executes the render command.
func (r *Render) Run(ctx context.Context) error {
	reg, opts := registryFrom(ctx)

	tmpls, err := templates(ctx, r.Template)
	if err != nil {
		return err
	}

	w := stdout(ctx)

	for _, t := range tmpls {
		out := lang.Render(ctx, t, reg, opts...)

		log.TraceContext(ctx, "rendered",
			slog.String("template", t),
			slog.Int("length", len(out)))

		if _, err := fmt.Fprintln(w, out); err != nil {
			return ErrWriteOutput.Wrap(err)
		}
	}

	return nil
}
