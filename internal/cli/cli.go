// Package cli holds what the cobra binaries share: exit codes, config
// loading and logger setup.
package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"example.com/dmztools/internal/apperr"
	"example.com/dmztools/internal/config"
	"example.com/dmztools/internal/logging"
)

const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// ExitError carries the process exit code for Err.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }
func (e *ExitError) Unwrap() error { return e.Err }

// Usage reports a command line mistake.
func Usage(format string, args ...any) error {
	return &ExitError{Code: ExitUsage, Err: fmt.Errorf(format, args...)}
}

// Code maps err to an exit code. Validation failures count as usage errors
// since they always stem from a flag or argument.
func Code(err error) int {
	if err == nil {
		return ExitOK
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	if apperr.IsValidation(err) {
		return ExitUsage
	}
	return ExitFailure
}

// Prepare silences cobra's own reporting and turns flag parse errors into
// usage errors. It returns cmd for chaining.
func Prepare(cmd *cobra.Command) *cobra.Command {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: ExitUsage, Err: err}
	})
	cmd.PersistentFlags().String("config", "", "read settings from this file instead of dmztools.yml")
	cmd.PersistentFlags().String("log-level", "", "debug, info, warn or error (overrides the config)")
	return cmd
}

// Args wraps a positional validator so mismatches exit with ExitUsage.
func Args(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return &ExitError{Code: ExitUsage, Err: err}
		}
		return nil
	}
}

// Execute runs cmd, prints any error to its error stream and returns the
// exit code.
func Execute(cmd *cobra.Command) int {
	err := cmd.Execute()
	code := Code(err)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", cmd.Name(), err)
		if code == ExitUsage {
			fmt.Fprintf(cmd.ErrOrStderr(), "Run '%s --help' for usage.\n", cmd.Name())
		}
	}
	return code
}

// Setup loads the config named by --config, or the first dmztools.yml on the
// search path, and builds a logger writing to the command's error stream.
func Setup(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Find(path)
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}
	level := cfg.LogLevel
	if l, _ := cmd.Flags().GetString("log-level"); l != "" {
		level = l
	}
	log := logging.New(level, cmd.ErrOrStderr()).With("cmd", cmd.Name())
	return cfg, log, nil
}
