package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/afd/internal/pipeline"
)

// Scenario defines a conformance test scenario.
// Scenarios execute a pipeline against a registry and assert on the
// resulting step trace and trust metadata.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// RunID is an optional fixed run ID for deterministic tests.
	// If empty, defaults to "test-run-default" for deterministic
	// golden file comparison.
	RunID string `yaml:"run_id,omitempty"`

	// Input is the pipeline's top-level input.
	Input map[string]any `yaml:"input,omitempty"`

	// Setup contains commands to invoke before the main pipeline.
	// These establish initial state. Setup commands must succeed.
	Setup []SetupStep `yaml:"setup,omitempty"`

	// Steps is the pipeline under test.
	Steps []pipeline.Step `yaml:"steps"`

	// Options controls pipeline execution.
	Options pipeline.Options `yaml:"options,omitempty"`

	// Assertions validate the final trace and metadata.
	// Supported types: step_status, step_data, final_data,
	// min_confidence, completed_steps.
	Assertions []Assertion `yaml:"assertions"`
}

// SetupStep represents a single command invocation.
// Used in Setup sections to establish initial state.
type SetupStep struct {
	// Command is the registered command name.
	Command string `yaml:"command"`

	// Input contains the command input as a map.
	Input map[string]any `yaml:"input"`
}

// Assertion validates the trace or metadata of a scenario run.
type Assertion struct {
	// Type specifies the assertion type:
	// - "step_status": Check a step's status by index
	// - "step_data": Check a step's data (subset match)
	// - "final_data": Check the pipeline's final data (subset match)
	// - "min_confidence": Check aggregated confidence meets a floor
	// - "completed_steps": Check the successful step count
	Type string `yaml:"type"`

	// Step is the step index (used by step_status, step_data).
	Step int `yaml:"step,omitempty"`

	// Status is the expected status (used by step_status).
	Status string `yaml:"status,omitempty"`

	// Expect contains expected field values (used by step_data,
	// final_data). Subset match - only specified fields are validated.
	Expect map[string]any `yaml:"expect,omitempty"`

	// Value is the confidence floor (used by min_confidence).
	Value float64 `yaml:"value,omitempty"`

	// Count is the expected successful step count (used by
	// completed_steps).
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertStepStatus     = "step_status"
	AssertStepData       = "step_data"
	AssertFinalData      = "final_data"
	AssertMinConfidence  = "min_confidence"
	AssertCompletedSteps = "completed_steps"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "assertion:" vs "assertions:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	// Validate setup steps (if present)
	for i, step := range s.Setup {
		if step.Command == "" {
			return fmt.Errorf("setup[%d]: command is required", i)
		}
	}

	// Validate pipeline steps
	for i, step := range s.Steps {
		if step.Command == "" {
			return fmt.Errorf("steps[%d]: command is required", i)
		}
	}

	// Validate assertions
	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertStepStatus:
		if a.Status == "" {
			return fmt.Errorf("assertions[%d]: status is required for step_status", index)
		}
		if a.Step < 0 {
			return fmt.Errorf("assertions[%d]: step must be non-negative", index)
		}
	case AssertStepData:
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for step_data", index)
		}
	case AssertFinalData:
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for final_data", index)
		}
	case AssertMinConfidence:
		if a.Value < 0 || a.Value > 1 {
			return fmt.Errorf("assertions[%d]: value must be in [0,1] for min_confidence", index)
		}
	case AssertCompletedSteps:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for completed_steps", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
