package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

type renderOptions struct {
	definition string
	values     string
	validate   bool
}

var renderFlags renderOptions

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Print the HTML of a form definition",
	Long: `Mount the form and print its markup.

With --validate the form is submitted first, so aria-invalid, aria-describedby
and the group feedback reflect the values.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		return runRender(cmd.Context(), a, renderFlags, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVarP(&renderFlags.definition, "definition", "d", "", "form definition file (YAML or JSON)")
	renderCmd.Flags().StringVar(&renderFlags.values, "values", "", "JSON object of values keyed by control name, - for stdin")
	renderCmd.Flags().BoolVar(&renderFlags.validate, "validate", false, "submit before rendering")
}

func runRender(ctx context.Context, a *app, opts renderOptions, stdin io.Reader, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	bound, err := a.build(opts.definition)
	if err != nil {
		return err
	}
	defer bound.Dispose()

	if err := fill(bound, opts.values, stdin); err != nil {
		return err
	}
	if opts.validate {
		bound.Submit(ctx)
	}
	if err := bound.Form.Element().Render(ctx, out); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	_, err = fmt.Fprintln(out)
	return err
}
