package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formguard/pkg/openapi"
)

type importOptions struct {
	source   string
	schema   string
	validate bool
	output   string
}

var importFlags importOptions

var importCmd = &cobra.Command{
	Use:   "import-openapi",
	Short: "Generate a form definition from an OpenAPI schema",
	Long: `Read an OpenAPI 3 document from a file or URL and print a form definition for
one of its component schemas.

Examples:
  formguard import-openapi --source petstore.yaml --schema Pet
  formguard import-openapi --source https://example.com/openapi.json --schema User --output user.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if importFlags.output != "" {
			f, err := os.Create(importFlags.output)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			defer f.Close()
			out = f
		}
		return runImport(cmd.Context(), a, importFlags, out)
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVarP(&importFlags.source, "source", "s", "", "OpenAPI document path or URL")
	importCmd.Flags().StringVar(&importFlags.schema, "schema", "", "component schema name, optional when there is only one")
	importCmd.Flags().BoolVar(&importFlags.validate, "validate", false, "validate the OpenAPI document first")
	importCmd.Flags().StringVarP(&importFlags.output, "output", "o", "", "write the definition to this file")
}

func runImport(ctx context.Context, a *app, opts importOptions, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	src, err := openapi.ParseSource(opts.source)
	if err != nil {
		return err
	}
	raw, err := src.Read(ctx, nil, a.cfg.Validation.RevalidateTimeout)
	if err != nil {
		return err
	}
	importOpts := []openapi.Option{openapi.WithLogger(a.logger)}
	if opts.validate {
		importOpts = append(importOpts, openapi.WithValidation())
	}
	doc, err := openapi.Import(ctx, raw, opts.schema, importOpts...)
	if err != nil {
		return err
	}
	data, err := doc.YAML()
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}
