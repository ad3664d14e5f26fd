package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/afd/internal/registry"
	"github.com/roach88/afd/internal/result"
)

// TraceSnapshot captures the complete trace of a scenario execution.
// All fields use canonical JSON serialization for deterministic comparison.
type TraceSnapshot struct {
	ScenarioName string
	RunID        string
	Result       *Result
}

// toCanonicalMap converts a TraceSnapshot to a map[string]any for
// canonical JSON serialization.
func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	steps := make([]any, len(s.Result.Pipeline.Steps))
	for i, step := range s.Result.Pipeline.Steps {
		stepMap := map[string]any{
			"index":           float64(step.Index),
			"command":         step.Command,
			"status":          string(step.Status),
			"executionTimeMs": float64(step.ExecutionTimeMs),
		}
		if step.Alias != "" {
			stepMap["alias"] = step.Alias
		}
		if step.Data != nil {
			stepMap["data"] = step.Data
		}
		if step.Err != nil {
			stepMap["errorCode"] = step.Err.Code
			stepMap["errorMessage"] = step.Err.Message
		}
		steps[i] = stepMap
	}

	md := s.Result.Pipeline.Metadata
	snapshot := map[string]any{
		"scenarioName": s.ScenarioName,
		"runId":        s.RunID,
		"pass":         s.Result.Pass,
		"steps":        steps,
		"metadata": map[string]any{
			"confidence":      md.Confidence,
			"completedSteps":  float64(md.CompletedSteps),
			"totalSteps":      float64(md.TotalSteps),
			"executionTimeMs": float64(md.ExecutionTimeMs),
		},
	}
	if s.Result.Pipeline.Data != nil {
		snapshot["data"] = s.Result.Pipeline.Data
	}
	return snapshot
}

// RunWithGolden executes a scenario and compares the trace against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario, reg *registry.Registry) *Result {
	t.Helper()

	res := Run(scenario, reg)
	AssertGolden(t, scenario.Name, res)
	return res
}

// AssertGolden compares an already-computed result's trace against a
// golden file.
func AssertGolden(t *testing.T, scenarioName string, res *Result) {
	t.Helper()

	snapshot := TraceSnapshot{
		ScenarioName: scenarioName,
		RunID:        res.Pipeline.ID,
		Result:       res,
	}

	traceJSON, err := result.MarshalCanonical(snapshot.toCanonicalMap())
	if err != nil {
		t.Fatalf("marshaling trace snapshot: %v", err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, traceJSON)
}
