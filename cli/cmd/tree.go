package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/hermes/lang"
)

// Tree prints the parse tree of each template.
type Tree struct {
	Output string `default:"text" enum:"text,json,yaml" help:"Output format (${enum})." short:"o"`

	Template []string `arg:"" help:"Templates to parse (default: read one template from stdin)" name:"template" optional:""`
}

// Run executes the tree command.
func (t *Tree) Run(ctx context.Context) error {
	_, opts := registryFrom(ctx)

	tmpls, err := templates(ctx, t.Template)
	if err != nil {
		return err
	}

	for _, tmpl := range tmpls {
		nodes, err := lang.Parse(ctx, tmpl, opts...)
		if err != nil {
			fmt.Fprintln(stderr(ctx), lang.FormatSyntaxError(err, tmpl))

			return ErrTemplate.Wrap(err)
		}

		if err := writeNodes(stdout(ctx), t.Output, nodes); err != nil {
			return ErrWriteOutput.Wrap(err)
		}
	}

	return nil
}

func writeNodes(w io.Writer, format string, nodes []lang.Node) error {
	switch format {
	case OutputJSON:
		data, err := json.MarshalIndent(nodes, "", "  ")
		if err != nil {
			return err
		}

		_, err = fmt.Fprintf(w, "%s\n", data)

		return err

	case OutputYAML:
		data, err := yaml.Marshal(nodes)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintf(w, "---\n%s", data)

		return err

	default:
		return lang.Print(w, nodes)
	}
}
