package harness

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/afd/internal/pipeline"
	"github.com/roach88/afd/internal/registry"
	"github.com/roach88/afd/internal/result"
)

func harnessRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New()

	reg.MustRegister(registry.NewFunc("user.get", "Fetch a user",
		func(ctx context.Context, input any, cc registry.Context) result.Result {
			return result.OK(map[string]any{"id": float64(123), "name": "Ada"}).
				WithConfidence(0.9)
		}))

	reg.MustRegister(registry.NewFunc("score", "Score a user",
		func(ctx context.Context, input any, cc registry.Context) result.Result {
			return result.OK(map[string]any{"score": float64(7)}).WithConfidence(0.7)
		}))

	reg.MustRegister(registry.NewFunc("seed", "Seed initial state",
		func(ctx context.Context, input any, cc registry.Context) result.Result {
			return result.OK(map[string]any{"seeded": true})
		}))

	reg.MustRegister(registry.NewFunc("boom", "Always fails",
		func(ctx context.Context, input any, cc registry.Context) result.Result {
			return result.Fail(result.ExecutionError("it broke"))
		}))

	return reg
}

func TestRunPassingScenario(t *testing.T) {
	reg := harnessRegistry(t)

	res := Run(&Scenario{
		Name:        "enrich",
		Description: "Fetch a user and score them",
		Input:       map[string]any{"userId": float64(123)},
		Steps: []pipeline.Step{
			{Command: "user.get", Alias: "user", Input: map[string]any{"id": "$input.userId"}},
			{Command: "score", Input: map[string]any{"user": "$prev.id"}},
		},
		Assertions: []Assertion{
			{Type: AssertStepStatus, Step: 0, Status: "success"},
			{Type: AssertStepData, Step: 0, Expect: map[string]any{"name": "Ada"}},
			{Type: AssertFinalData, Expect: map[string]any{"score": 7}},
			{Type: AssertMinConfidence, Value: 0.7},
			{Type: AssertCompletedSteps, Count: 2},
		},
	}, reg)

	assert.True(t, res.Pass)
	assert.Empty(t, res.Errors)
	assert.Equal(t, defaultRunID, res.Pipeline.ID)
	assert.Equal(t, int64(50), res.Pipeline.Metadata.ExecutionTimeMs)
}

func TestRunScenarioRunID(t *testing.T) {
	reg := harnessRegistry(t)

	res := Run(&Scenario{
		Name:        "pinned",
		Description: "Uses a pinned run ID",
		RunID:       "run-pinned",
		Steps: []pipeline.Step{
			{Command: "user.get"},
		},
		Assertions: []Assertion{
			{Type: AssertCompletedSteps, Count: 1},
		},
	}, reg)

	assert.True(t, res.Pass)
	assert.Equal(t, "run-pinned", res.Pipeline.ID)
}

func TestRunFailingAssertion(t *testing.T) {
	reg := harnessRegistry(t)

	res := Run(&Scenario{
		Name:        "mismatch",
		Description: "Expects the wrong score",
		Steps: []pipeline.Step{
			{Command: "score"},
		},
		Assertions: []Assertion{
			{Type: AssertFinalData, Expect: map[string]any{"score": 99}},
			{Type: AssertMinConfidence, Value: 0.9},
		},
	}, reg)

	assert.False(t, res.Pass)
	require.Len(t, res.Errors, 2)
	assert.Contains(t, res.Errors[0], `field "score" = 7, expected 99`)
	assert.Contains(t, res.Errors[1], "below floor")
}

func TestRunSetupFailure(t *testing.T) {
	reg := harnessRegistry(t)

	res := Run(&Scenario{
		Name:        "brokensetup",
		Description: "Setup command fails",
		Setup: []SetupStep{
			{Command: "seed"},
			{Command: "boom"},
		},
		Steps: []pipeline.Step{
			{Command: "user.get"},
		},
		Assertions: []Assertion{
			{Type: AssertCompletedSteps, Count: 1},
		},
	}, reg)

	assert.False(t, res.Pass)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "setup[1] boom failed")
	// The pipeline never ran.
	assert.Empty(t, res.Pipeline.Steps)
}

func TestRunStepFailureCaughtByAssertions(t *testing.T) {
	reg := harnessRegistry(t)

	res := Run(&Scenario{
		Name:        "truncated",
		Description: "A failure truncates the trace",
		Steps: []pipeline.Step{
			{Command: "boom"},
			{Command: "score"},
		},
		Assertions: []Assertion{
			{Type: AssertStepStatus, Step: 0, Status: "failure"},
			{Type: AssertStepStatus, Step: 1, Status: "success"},
		},
	}, reg)

	assert.False(t, res.Pass)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "step 1 not in trace")
}

func TestEvaluateAssertionsUnknownType(t *testing.T) {
	failures := EvaluateAssertions(&pipeline.Result{}, []Assertion{
		{Type: "nope"},
	})
	require.Len(t, failures, 1)
	assert.Contains(t, failures[0], `unknown assertion type "nope"`)
}
