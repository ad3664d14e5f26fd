package batch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/afd/internal/registry"
	"github.com/roach88/afd/internal/result"
	"github.com/roach88/afd/internal/testutil"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func makeRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	r := registry.New()

	require.NoError(t, r.Register(registry.NewFunc("echo", "echoes input",
		func(_ context.Context, input any, _ registry.Context) result.Result {
			return result.OK(input)
		})))

	require.NoError(t, r.Register(registry.NewFunc("confident", "returns confidence",
		func(_ context.Context, input any, _ registry.Context) result.Result {
			c, _ := input.(map[string]any)["confidence"].(float64)
			return result.OK(input).WithConfidence(c)
		})))

	require.NoError(t, r.Register(registry.NewFunc("fail", "always fails",
		func(_ context.Context, _ any, _ registry.Context) result.Result {
			return result.Fail(result.NewError(result.CodeInternalError, "boom"))
		})))

	return r
}

func newTestExecutor(t *testing.T) *Executor {
	t.Helper()
	return NewExecutor(makeRegistry(t), WithClock(testutil.NewStepClock(epoch, 10*time.Millisecond)))
}

func TestExecuteEmptyRequest(t *testing.T) {
	e := newTestExecutor(t)

	res := e.Execute(context.Background(), Request{})

	assert.False(t, res.Success)
	assert.Empty(t, res.Results)
	require.NotNil(t, res.Err)
	assert.Equal(t, result.CodeInvalidBatchRequest, res.Err.Code)
	assert.Zero(t, res.Summary.Total)
	assert.Nil(t, res.Timing.AverageMs)
}

func TestExecuteAllSucceed(t *testing.T) {
	e := newTestExecutor(t)

	res := e.Execute(context.Background(), Request{
		Commands: []Item{
			{ID: "1", Command: "echo", Input: map[string]any{"a": 1}},
			{ID: "2", Command: "echo", Input: map[string]any{"b": 2}},
		},
	})

	assert.True(t, res.Success)
	require.Len(t, res.Results, 2)
	assert.Equal(t, "1", res.Results[0].ID)
	assert.Equal(t, "2", res.Results[1].ID)
	assert.Equal(t, 2, res.Summary.Total)
	assert.Equal(t, 2, res.Summary.Succeeded)
	assert.Equal(t, 0, res.Summary.Failed)
	assert.Nil(t, res.Err)
}

func TestExecuteStopOnFirstError(t *testing.T) {
	e := newTestExecutor(t)

	res := e.Execute(context.Background(), Request{
		Commands: []Item{
			{ID: "1", Command: "echo"},
			{ID: "2", Command: "fail"},
			{ID: "3", Command: "echo"},
			{ID: "4", Command: "echo"},
		},
	})

	assert.False(t, res.Success)
	// Output length always equals input length.
	require.Len(t, res.Results, 4)

	assert.True(t, res.Results[0].Result.Success)
	assert.Equal(t, result.CodeInternalError, res.Results[1].Result.Err.Code)

	// Remaining items are recorded as skipped, id/command preserved,
	// zero duration.
	for _, row := range res.Results[2:] {
		require.NotNil(t, row.Result.Err)
		assert.Equal(t, result.CodeCommandSkipped, row.Result.Err.Code)
		assert.Equal(t, "echo", row.Command)
		assert.Zero(t, row.DurationMs)
	}

	assert.Equal(t, 4, res.Summary.Total)
	assert.Equal(t, 1, res.Summary.Succeeded)
	assert.Equal(t, 3, res.Summary.Failed)
	assert.Equal(t, 2, res.Summary.Skipped)
}

func TestExecuteContinueOnError(t *testing.T) {
	e := newTestExecutor(t)

	res := e.Execute(context.Background(), Request{
		Commands: []Item{
			{ID: "1", Command: "fail"},
			{ID: "2", Command: "echo"},
			{ID: "3", Command: "fail"},
		},
		Options: Options{ContinueOnError: true},
	})

	assert.False(t, res.Success)
	require.Len(t, res.Results, 3)
	// Every item attempted: no skips.
	assert.Equal(t, 0, res.Summary.Skipped)
	assert.Equal(t, 1, res.Summary.Succeeded)
	assert.Equal(t, 2, res.Summary.Failed)
	assert.True(t, res.Results[1].Result.Success)
}

func TestExecuteUnknownCommandIsItemFailure(t *testing.T) {
	e := newTestExecutor(t)

	res := e.Execute(context.Background(), Request{
		Commands: []Item{{ID: "1", Command: "missing"}},
	})

	assert.False(t, res.Success)
	require.Len(t, res.Results, 1)
	assert.Equal(t, result.CodeCommandNotFound, res.Results[0].Result.Err.Code)
}

func TestAverageConfidence(t *testing.T) {
	e := newTestExecutor(t)

	res := e.Execute(context.Background(), Request{
		Commands: []Item{
			{ID: "1", Command: "confident", Input: map[string]any{"confidence": 0.8}},
			{ID: "2", Command: "confident", Input: map[string]any{"confidence": 0.6}},
			{ID: "3", Command: "fail"},
		},
		Options: Options{ContinueOnError: true},
	})

	require.NotNil(t, res.Summary.AverageConfidence)
	assert.InDelta(t, 0.7, *res.Summary.AverageConfidence, 1e-9)
}

func TestAverageConfidenceAbsentWhenNoneSucceeded(t *testing.T) {
	e := newTestExecutor(t)

	res := e.Execute(context.Background(), Request{
		Commands: []Item{{ID: "1", Command: "fail"}},
	})

	assert.Nil(t, res.Summary.AverageConfidence)
}

func TestTimingDerivation(t *testing.T) {
	e := newTestExecutor(t)

	res := e.Execute(context.Background(), Request{
		Commands: []Item{
			{ID: "1", Command: "echo"},
			{ID: "2", Command: "echo"},
		},
	})

	// StepClock advances 10ms per reading: start, 2x(item start + item
	// end), end = 6 readings, so the batch spans 50ms.
	assert.Equal(t, int64(50), res.Timing.TotalMs)
	require.NotNil(t, res.Timing.AverageMs)
	assert.Equal(t, int64(25), *res.Timing.AverageMs)
	assert.Equal(t, "2025-01-01T00:00:00Z", res.Timing.StartedAt)

	for _, row := range res.Results {
		assert.Equal(t, int64(10), row.DurationMs)
	}
}

func TestSuccessDerivedFromRows(t *testing.T) {
	rows := []ItemResult{
		{ID: "1", Result: result.OK(nil)},
		{ID: "2", Result: result.OK(nil)},
	}
	s := summarize(rows)
	assert.Equal(t, 2, s.Succeeded)
	assert.Equal(t, 0, s.Failed)
}
