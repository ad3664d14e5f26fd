package harness

import (
	"fmt"
	"reflect"

	"github.com/roach88/afd/internal/pipeline"
)

// EvaluateAssertions checks every assertion against the pipeline
// result and returns the failure messages. An empty slice means all
// assertions hold.
func EvaluateAssertions(res *pipeline.Result, assertions []Assertion) []string {
	var failures []string
	for i, a := range assertions {
		if err := evaluateAssertion(res, a); err != nil {
			failures = append(failures, fmt.Sprintf("assertions[%d] (%s): %v", i, a.Type, err))
		}
	}
	return failures
}

func evaluateAssertion(res *pipeline.Result, a Assertion) error {
	switch a.Type {
	case AssertStepStatus:
		return assertStepStatus(res, a)
	case AssertStepData:
		return assertStepData(res, a)
	case AssertFinalData:
		return assertFinalData(res, a)
	case AssertMinConfidence:
		if res.Metadata.Confidence < a.Value {
			return fmt.Errorf("confidence %.3f below floor %.3f", res.Metadata.Confidence, a.Value)
		}
		return nil
	case AssertCompletedSteps:
		if res.Metadata.CompletedSteps != a.Count {
			return fmt.Errorf("completed %d steps, expected %d", res.Metadata.CompletedSteps, a.Count)
		}
		return nil
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func assertStepStatus(res *pipeline.Result, a Assertion) error {
	if a.Step >= len(res.Steps) {
		return fmt.Errorf("step %d not in trace (%d steps recorded)", a.Step, len(res.Steps))
	}
	got := string(res.Steps[a.Step].Status)
	if got != a.Status {
		return fmt.Errorf("step %d status %q, expected %q", a.Step, got, a.Status)
	}
	return nil
}

func assertStepData(res *pipeline.Result, a Assertion) error {
	if a.Step >= len(res.Steps) {
		return fmt.Errorf("step %d not in trace (%d steps recorded)", a.Step, len(res.Steps))
	}
	return matchSubset(res.Steps[a.Step].Data, a.Expect)
}

func assertFinalData(res *pipeline.Result, a Assertion) error {
	return matchSubset(res.Data, a.Expect)
}

// matchSubset verifies every expected field is present with an equal
// value. Fields not named in expected are ignored.
func matchSubset(actual any, expected map[string]any) error {
	obj, ok := actual.(map[string]any)
	if !ok {
		return fmt.Errorf("data is %T, expected an object", actual)
	}
	for key, want := range expected {
		got, ok := obj[key]
		if !ok {
			return fmt.Errorf("field %q missing", key)
		}
		if !valuesEqual(got, want) {
			return fmt.Errorf("field %q = %v, expected %v", key, got, want)
		}
	}
	return nil
}

// valuesEqual compares decoded values, treating all numeric types as
// interchangeable since YAML and JSON decode numbers differently.
func valuesEqual(actual, expected any) bool {
	if af, aok := toFloat(actual); aok {
		ef, eok := toFloat(expected)
		return eok && af == ef
	}
	return reflect.DeepEqual(actual, expected)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
