package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/afd/internal/batch"
	"github.com/roach88/afd/internal/pipeline"
	"github.com/roach88/afd/internal/result"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Command or pipeline reported failure
	ExitCommandError = 2 // CLI error (invalid paths, database not found, etc.)
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter renders results in the configured format. JSON mode
// emits the full machine envelope; text mode emits a short human
// summary. Diagnostics go to ErrWriter so JSON output stays parseable.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// newFormatter builds the formatter for one subcommand invocation.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// JSON writes v as indented JSON.
func (f *OutputFormatter) JSON(v any) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// CommandResult renders one command's result envelope.
func (f *OutputFormatter) CommandResult(name string, res result.Result) error {
	if f.Format == "json" {
		return f.JSON(res)
	}

	if res.IsFailure() {
		code, message := result.CodeUnknownError, "no error details"
		if res.Err != nil {
			code, message = res.Err.Code, res.Err.Message
		}
		fmt.Fprintf(f.Writer, "%s: failed [%s] %s\n", name, code, message)
		if res.Err != nil && res.Err.Suggestion != "" {
			fmt.Fprintf(f.Writer, "suggestion: %s\n", res.Err.Suggestion)
		}
		return nil
	}

	fmt.Fprintf(f.Writer, "%s: ok\n", name)
	if res.Data != nil {
		payload, err := json.Marshal(res.Data)
		if err != nil {
			return err
		}
		fmt.Fprintf(f.Writer, "data: %s\n", payload)
	}
	if res.Confidence != nil {
		fmt.Fprintf(f.Writer, "confidence: %.2f\n", *res.Confidence)
	}
	return nil
}

// BatchResult renders a batch outcome as a per-item table plus a
// summary line.
func (f *OutputFormatter) BatchResult(res batch.Result) error {
	if f.Format == "json" {
		return f.JSON(res)
	}

	w := tabwriter.NewWriter(f.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCOMMAND\tSTATUS\tMS")
	for _, item := range res.Results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", item.ID, item.Command, itemStatus(item), item.DurationMs)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(f.Writer, "%d total, %d succeeded, %d failed, %d skipped (%dms)\n",
		res.Summary.Total, res.Summary.Succeeded, res.Summary.Failed,
		res.Summary.Skipped, res.Timing.TotalMs)
	return nil
}

func itemStatus(item batch.ItemResult) string {
	if item.Result.IsSuccess() {
		return "ok"
	}
	if item.Result.Err != nil && item.Result.Err.Code == result.CodeCommandSkipped {
		return "skipped"
	}
	return "failed"
}

// PipelineResult renders a pipeline trace as per-step lines plus the
// final data and aggregate metadata.
func (f *OutputFormatter) PipelineResult(res pipeline.Result) error {
	if f.Format == "json" {
		return f.JSON(res)
	}

	w := tabwriter.NewWriter(f.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tCOMMAND\tSTATUS\tMS")
	for _, s := range res.Steps {
		name := s.Command
		if s.Alias != "" {
			name = fmt.Sprintf("%s (%s)", s.Command, s.Alias)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", s.Index, name, s.Status, s.ExecutionTimeMs)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if res.Data != nil {
		payload, err := json.Marshal(res.Data)
		if err != nil {
			return err
		}
		fmt.Fprintf(f.Writer, "data: %s\n", payload)
	}
	fmt.Fprintf(f.Writer, "%d/%d steps completed, confidence %.2f (%dms)\n",
		res.Metadata.CompletedSteps, res.Metadata.TotalSteps,
		res.Metadata.Confidence, res.Metadata.ExecutionTimeMs)
	return nil
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer, so JSON
// output on Writer is never corrupted.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}
