package harness

import (
	"context"
	"fmt"
	"time"

	"github.com/roach88/afd/internal/pipeline"
	"github.com/roach88/afd/internal/registry"
	"github.com/roach88/afd/internal/testutil"
)

// defaultRunID keeps golden traces stable when a scenario does not
// pin its own run ID.
const defaultRunID = "test-run-default"

// clockEpoch is the fixed start instant for scenario clocks.
var clockEpoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// clockStep is how far the scenario clock advances per reading.
const clockStep = 10 * time.Millisecond

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall scenario success.
	// True if setup succeeded and all assertions hold.
	Pass bool `json:"pass"`

	// Pipeline is the raw pipeline result, kept for golden comparison
	// and further inspection.
	Pipeline pipeline.Result `json:"pipeline"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.Pass = false
}

// Run executes a scenario against the registry.
//
// Setup commands run first and must succeed. The pipeline then runs
// with a deterministic clock and a fixed run ID, and the assertions
// are evaluated against its result.
func Run(scenario *Scenario, reg *registry.Registry) *Result {
	result := &Result{Pass: true}
	ctx := context.Background()

	// Setup commands establish state and are assumed to succeed.
	for i, step := range scenario.Setup {
		input := any(step.Input)
		if step.Input == nil {
			input = map[string]any{}
		}
		res := reg.Execute(ctx, step.Command, input, nil)
		if res.IsFailure() {
			msg := fmt.Sprintf("setup[%d] %s failed", i, step.Command)
			if res.Err != nil {
				msg = fmt.Sprintf("%s: %s", msg, res.Err.Error())
			}
			result.AddError(msg)
			return result
		}
	}

	runID := scenario.RunID
	if runID == "" {
		runID = defaultRunID
	}

	eng := pipeline.NewEngine(reg,
		pipeline.WithClock(testutil.NewStepClock(clockEpoch, clockStep)),
		pipeline.WithRunIDs(testutil.NewFixedRunIDs(runID)),
	)

	var input any
	if scenario.Input != nil {
		input = scenario.Input
	}

	result.Pipeline = eng.Execute(ctx, pipeline.Request{
		ID:      runID,
		Input:   input,
		Steps:   scenario.Steps,
		Options: scenario.Options,
	})

	for _, msg := range EvaluateAssertions(&result.Pipeline, scenario.Assertions) {
		result.AddError(msg)
	}

	return result
}
