package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formguard/pkg/prompt"
	"github.com/goliatone/go-formguard/pkg/report"
)

var fillFlags struct {
	definition string
	rounds     int
	format     string
}

var fillCmd = &cobra.Command{
	Use:   "fill",
	Short: "Fill a form interactively",
	Long: `Prompt for every control of the form, submit it, and prompt again for the
controls that failed until the form passes.

Press Ctrl+C to abort.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		format, err := report.ParseFormat(fillFlags.format)
		if err != nil {
			return err
		}
		bound, err := a.build(fillFlags.definition)
		if err != nil {
			return err
		}
		defer bound.Dispose()

		out := cmd.OutOrStdout()
		filler := prompt.NewFiller(prompt.NewSurveyDriver(out), prompt.WithMaxRounds(fillFlags.rounds))
		result, err := filler.Fill(cmd.Context(), bound)
		switch {
		case errors.Is(err, prompt.ErrAborted):
			return fmt.Errorf("fill aborted")
		case errors.Is(err, prompt.ErrGaveUp):
			a.logger.Warn("formguard: giving up", "rounds", fillFlags.rounds)
		case err != nil:
			return err
		}

		rep := report.FromSubmit(bound, result)
		if err := rep.Encode(out, format); err != nil {
			return err
		}
		if !rep.Passed {
			return errFormFailed
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fillCmd)

	fillCmd.Flags().StringVarP(&fillFlags.definition, "definition", "d", "", "form definition file (YAML or JSON)")
	fillCmd.Flags().IntVar(&fillFlags.rounds, "rounds", 0, "stop after this many submits, 0 for no limit")
	fillCmd.Flags().StringVarP(&fillFlags.format, "format", "f", "text", "report format: text, json, yaml, msgpack")
}
