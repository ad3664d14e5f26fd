package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/roach88/afd/internal/registry"
	"github.com/roach88/afd/internal/result"
	"github.com/roach88/afd/internal/store"
)

// InvokeOptions holds flags for the invoke command.
type InvokeOptions struct {
	*RootOptions
	Input    string
	Database string
}

// NewInvokeCommand creates the invoke command.
func NewInvokeCommand(rootOpts *RootOptions, reg *registry.Registry) *cobra.Command {
	opts := &InvokeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "invoke <command>",
		Short: "Execute one registered command",
		Long: `Execute one registered command and print its result envelope.

Text output is a short summary. JSON output is the full result
envelope including trust metadata. A failed command exits with
status 1 and its result still prints, so callers can always parse
the output.

Examples:
  afd invoke user.get --input '{"id":123}' --format json
  afd invoke todo.create --input '{"title":"ship it"}' --db ./afd.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return invokeCommand(opts, reg, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Input, "input", "{}", "command input as JSON")
	cmd.Flags().StringVar(&opts.Database, "db", "", "journal the run to this SQLite database")

	return cmd
}

func invokeCommand(opts *InvokeOptions, reg *registry.Registry, name string, cmd *cobra.Command) error {
	var input any
	if err := json.Unmarshal([]byte(opts.Input), &input); err != nil {
		return WrapExitError(ExitCommandError, "invalid --input JSON", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	out := newFormatter(opts.RootOptions, cmd)

	traceID := uuid.Must(uuid.NewV7()).String()
	started := time.Now()
	res := reg.Execute(ctx, name, input, &registry.Context{TraceID: traceID})
	elapsed := time.Since(started).Milliseconds()
	out.VerboseLog("trace %s: %s finished in %dms", traceID, name, elapsed)

	if opts.Database != "" {
		record := store.RunRecord{
			ID:         traceID,
			Kind:       store.KindCommand,
			StartedAt:  started,
			EndedAt:    started.Add(time.Duration(elapsed) * time.Millisecond),
			TotalMs:    elapsed,
			Success:    res.Success,
			Confidence: res.Confidence,
			Data:       res.Data,
			Steps: []store.StepRecord{
				commandStepRecord(name, res, elapsed),
			},
		}
		if err := journalRun(ctx, opts.Database, record); err != nil {
			return err
		}
	}

	if err := out.CommandResult(name, res); err != nil {
		return WrapExitError(ExitCommandError, "encoding result", err)
	}

	if res.IsFailure() {
		return NewExitError(ExitFailure, fmt.Sprintf("command %s failed", name))
	}
	return nil
}

// commandStepRecord journals a single-command run as one step.
func commandStepRecord(name string, res result.Result, elapsed int64) store.StepRecord {
	step := store.StepRecord{
		Index:           0,
		Command:         name,
		ExecutionTimeMs: elapsed,
	}
	if res.Success {
		step.Status = "success"
		step.Data = res.Data
	} else {
		step.Status = "failure"
		if res.Err != nil {
			step.ErrorCode = res.Err.Code
			step.ErrorMessage = res.Err.Message
		}
	}
	return step
}
