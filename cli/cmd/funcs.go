package cmd

import (
	"context"
	"fmt"
	"slices"
)

// Funcs lists the names of the registered functions.
type Funcs struct {
	All bool `help:"Include shadowed duplicates, in registration order." short:"a"`
}

// Run executes the funcs command.
func (f *Funcs) Run(ctx context.Context) error {
	reg, _ := registryFrom(ctx)

	names := slices.Collect(reg.Functions())
	if !f.All {
		slices.Sort(names)
		names = slices.Compact(names)
	}

	w := stdout(ctx)

	for _, name := range names {
		if _, err := fmt.Fprintln(w, name); err != nil {
			return ErrWriteOutput.Wrap(err)
		}
	}

	return nil
}
