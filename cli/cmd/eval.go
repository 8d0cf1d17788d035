package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/hermes/lang"
)

// Output formats accepted by --output.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Eval prints the result of every item of each template.
//
// A template with a syntax error is reported on stderr with the offending
// line and a caret, and makes the command fail after all templates have
// been processed.
type Eval struct {
	Output string `default:"text" enum:"text,json,yaml" help:"Output format (${enum})." short:"o"`

	Template []string `arg:"" help:"Templates to evaluate (default: read one template from stdin)" name:"template" optional:""`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) error {
	reg, opts := registryFrom(ctx)

	tmpls, err := templates(ctx, e.Template)
	if err != nil {
		return err
	}

	var failed []int

	for i, t := range tmpls {
		results, err := lang.Evaluate(ctx, t, reg, opts...)
		if err != nil {
			fmt.Fprintln(stderr(ctx), lang.FormatSyntaxError(err, t))

			failed = append(failed, i)

			continue
		}

		if err := writeResults(stdout(ctx), e.Output, results); err != nil {
			return ErrWriteOutput.Wrap(err).With(slog.String("output", e.Output))
		}
	}

	if len(failed) > 0 {
		return ErrTemplate.With(slog.Any("index", failed))
	}

	return nil
}

func writeResults(w io.Writer, format string, results []lang.Result) error {
	switch format {
	case OutputJSON:
		data, err := json.Marshal(lang.Results(results))
		if err != nil {
			return err
		}

		_, err = fmt.Fprintf(w, "%s\n", data)

		return err

	case OutputYAML:
		data, err := yaml.Marshal(lang.Results(results))
		if err != nil {
			return err
		}

		_, err = fmt.Fprintf(w, "---\n%s", data)

		return err

	default:
		for i, r := range results {
			var err error

			if r.Err != nil {
				_, err = fmt.Fprintf(w, "%d: %s: %v\n", i, lang.Kind(r.Err), r.Err)
			} else {
				_, err = fmt.Fprintf(w, "%d: %s: %s\n", i, r.Value.Kind(), r.Value)
			}

			if err != nil {
				return err
			}
		}

		return nil
	}
}
