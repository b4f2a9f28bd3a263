package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formguard/pkg/form"
	"github.com/goliatone/go-formguard/pkg/report"
)

type validateOptions struct {
	definition string
	values     string
	format     string
}

var validateFlags validateOptions

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate values against a form definition",
	Long: `Build the form, push the values into its controls and submit it.

The report lists every named control with its status, value and messages.
The command exits non-zero when the form does not pass.

Examples:
  # Text report
  formguard validate --definition signup.yaml --values values.json

  # Machine readable report from stdin values
  cat values.json | formguard validate --definition signup.yaml --values - --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		rep, err := runValidate(cmd.Context(), a, validateFlags, cmd.InOrStdin(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
		if !rep.Passed {
			return errFormFailed
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateFlags.definition, "definition", "d", "", "form definition file (YAML or JSON)")
	validateCmd.Flags().StringVar(&validateFlags.values, "values", "", "JSON object of values keyed by control name, - for stdin")
	validateCmd.Flags().StringVarP(&validateFlags.format, "format", "f", "text", "report format: text, json, yaml, msgpack")
}

func runValidate(ctx context.Context, a *app, opts validateOptions, stdin io.Reader, out io.Writer, extra ...form.ScopeOption) (*report.Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	format, err := report.ParseFormat(opts.format)
	if err != nil {
		return nil, err
	}
	bound, err := a.build(opts.definition, extra...)
	if err != nil {
		return nil, err
	}
	defer bound.Dispose()

	if err := fill(bound, opts.values, stdin); err != nil {
		return nil, err
	}
	rep := report.FromSubmit(bound, bound.Submit(ctx))
	a.logger.Debug("formguard: validated", "definition", opts.definition, "passed", rep.Passed, "failed", len(rep.Failed()))
	if err := rep.Encode(out, format); err != nil {
		return nil, err
	}
	return rep, nil
}
