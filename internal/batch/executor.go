package batch

import (
	"context"
	"log/slog"
	"time"

	"github.com/roach88/afd/internal/registry"
	"github.com/roach88/afd/internal/result"
)

// Clock supplies wall time for batch timings.
// Implemented by the system clock (production) and testutil.StepClock (tests).
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Executor runs batches against a registry.
type Executor struct {
	reg   *registry.Registry
	clock Clock
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithClock replaces the wall clock. Used by tests for deterministic
// timings.
func WithClock(c Clock) ExecutorOption {
	return func(e *Executor) {
		e.clock = c
	}
}

// NewExecutor creates an Executor over reg.
func NewExecutor(reg *registry.Registry, opts ...ExecutorOption) *Executor {
	e := &Executor{reg: reg, clock: systemClock{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs the batch sequentially in request order.
// See the package documentation for the failure policy.
func (e *Executor) Execute(ctx context.Context, req Request) Result {
	start := e.clock.Now()

	if len(req.Commands) == 0 {
		end := e.clock.Now()
		return Result{
			Success: false,
			Results: []ItemResult{},
			Summary: Summary{},
			Timing: Timing{
				StartedAt: start.UTC().Format(time.RFC3339),
				EndedAt:   end.UTC().Format(time.RFC3339),
				TotalMs:   0,
			},
			Err: &result.Error{
				Code:       result.CodeInvalidBatchRequest,
				Message:    "Batch request must contain at least one command",
				Suggestion: "Provide an array of commands to execute",
				Retryable:  boolPtr(false),
			},
		}
	}

	slog.Debug("batch starting", "items", len(req.Commands), "continue_on_error", req.Options.ContinueOnError)

	rows := make([]ItemResult, 0, len(req.Commands))
	stopped := false

	for _, item := range req.Commands {
		if stopped {
			rows = append(rows, ItemResult{
				ID:      item.ID,
				Command: item.Command,
				Result: result.Fail(&result.Error{
					Code:    result.CodeCommandSkipped,
					Message: "Command skipped due to previous error",
				}),
				DurationMs: 0,
			})
			continue
		}

		itemStart := e.clock.Now()
		res := e.reg.Execute(ctx, item.Command, item.Input, nil)
		elapsed := e.clock.Now().Sub(itemStart).Milliseconds()

		rows = append(rows, ItemResult{
			ID:         item.ID,
			Command:    item.Command,
			Result:     res,
			DurationMs: elapsed,
		})

		if res.IsFailure() && !req.Options.ContinueOnError {
			slog.Warn("batch stopping on failure", "id", item.ID, "command", item.Command)
			stopped = true
		}
	}

	end := e.clock.Now()
	totalMs := end.Sub(start).Milliseconds()
	averageMs := totalMs / int64(len(rows))

	summary := summarize(rows)

	slog.Debug("batch finished",
		"total", summary.Total,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"total_ms", totalMs)

	return Result{
		Success: summary.Failed == 0,
		Results: rows,
		Summary: summary,
		Timing: Timing{
			StartedAt: start.UTC().Format(time.RFC3339),
			EndedAt:   end.UTC().Format(time.RFC3339),
			TotalMs:   totalMs,
			AverageMs: &averageMs,
		},
	}
}

func boolPtr(b bool) *bool { return &b }
