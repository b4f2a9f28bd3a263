package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

// errFormFailed makes the process exit non-zero after the report was
// printed.
var errFormFailed = errors.New("form did not pass validation")

var rootCmd = &cobra.Command{
	Use:   "formguard",
	Short: "Form validation components driven by form definitions",
	Long: `formguard mounts the validation components described by a form definition
and runs them headless.

A definition is a YAML or JSON tree of form-groups, labels, captions and
controls. formguard can validate values against it, render its markup with
ARIA state, fill it interactively, watch it for changes, and generate it
from an OpenAPI schema.`,
	SilenceUsage: true,
}

// Execute runs the root command. Interrupts cancel the command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (defaults apply when empty)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}
