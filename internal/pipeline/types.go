package pipeline

import "github.com/roach88/afd/internal/result"

// Step is one command invocation in a pipeline.
type Step struct {
	// Command is the registered command name to execute.
	Command string `json:"command" yaml:"command"`

	// Input is the step input. String leaves beginning with '$' are
	// variable references resolved against the pipeline context.
	Input any `json:"input,omitempty" yaml:"input,omitempty"`

	// Alias labels the step so later steps can reference its output
	// as $steps.<alias>. Serialized as "as".
	Alias string `json:"as,omitempty" yaml:"as,omitempty"`

	// When gates the step: if it evaluates false the step is skipped.
	When *Condition `json:"when,omitempty" yaml:"when,omitempty"`

	// Stream opts the step into the chunk protocol.
	Stream bool `json:"stream,omitempty" yaml:"stream,omitempty"`
}

// Options controls pipeline execution.
type Options struct {
	// ContinueOnFailure keeps executing after a step fails instead of
	// stopping the pipeline.
	ContinueOnFailure bool `json:"continueOnFailure,omitempty" yaml:"continueOnFailure,omitempty"`

	// TimeoutMs is carried but not enforced at this layer.
	TimeoutMs int64 `json:"timeoutMs,omitempty" yaml:"timeoutMs,omitempty"`

	// Parallel is accepted but advisory; steps always run sequentially.
	Parallel bool `json:"parallel,omitempty" yaml:"parallel,omitempty"`
}

// Request is an ordered list of steps plus options.
type Request struct {
	// ID identifies the execution. Auto-generated when empty.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	// Input is the pipeline's top-level input, addressable from any
	// step as $input.
	Input any `json:"input,omitempty" yaml:"input,omitempty"`

	Steps []Step `json:"steps" yaml:"steps"`

	Options Options `json:"options,omitempty" yaml:"options,omitempty"`
}

// StepStatus is the recorded outcome class of a step.
type StepStatus string

const (
	StatusSuccess StepStatus = "success"
	StatusFailure StepStatus = "failure"
	StatusSkipped StepStatus = "skipped"
)

// StepMetadata is the trust metadata one step contributed.
type StepMetadata struct {
	Confidence   *float64             `json:"confidence,omitempty"`
	Reasoning    string               `json:"reasoning,omitempty"`
	Sources      []result.Source      `json:"sources,omitempty"`
	Warnings     []result.Warning     `json:"warnings,omitempty"`
	Alternatives []result.Alternative `json:"alternatives,omitempty"`
}

// StepResult is the recorded outcome of one step.
type StepResult struct {
	// Index is the step's zero-based position in the request.
	Index int `json:"index"`

	Alias string `json:"alias,omitempty"`

	Command string `json:"command"`

	Status StepStatus `json:"status"`

	// Data is the step output when Status is success.
	Data any `json:"data,omitempty"`

	// Err is the step failure when Status is failure.
	Err *result.Error `json:"error,omitempty"`

	ExecutionTimeMs int64 `json:"executionTimeMs"`

	// Metadata is present only when the step reported at least one
	// trust field.
	Metadata *StepMetadata `json:"metadata,omitempty"`
}

// StepConfidence is one row of the per-step confidence breakdown.
type StepConfidence struct {
	Step       int     `json:"step"`
	Alias      string  `json:"alias,omitempty"`
	Command    string  `json:"command"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning,omitempty"`
}

// StepReasoning attributes one step's reasoning.
type StepReasoning struct {
	StepIndex int    `json:"stepIndex"`
	Command   string `json:"command"`
	Reasoning string `json:"reasoning"`
}

// StepWarning attributes one step's warning.
type StepWarning struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	StepIndex int    `json:"stepIndex"`
	StepAlias string `json:"stepAlias,omitempty"`
}

// StepSource attributes one step's source.
type StepSource struct {
	Name      string `json:"name"`
	StepIndex int    `json:"stepIndex"`
	URL       string `json:"url,omitempty"`
}

// StepAlternative attributes one step's alternative.
type StepAlternative struct {
	Data       any      `json:"data"`
	Reason     string   `json:"reason"`
	StepIndex  int      `json:"stepIndex"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// Metadata is the aggregated trust metadata of a pipeline run.
type Metadata struct {
	// Confidence is the minimum over successful steps (weakest link).
	// A pipeline with zero successful steps has confidence 0.
	Confidence float64 `json:"confidence"`

	ConfidenceBreakdown []StepConfidence `json:"confidenceBreakdown"`

	Reasoning []StepReasoning `json:"reasoning"`

	Warnings []StepWarning `json:"warnings"`

	Sources []StepSource `json:"sources"`

	Alternatives []StepAlternative `json:"alternatives"`

	// ExecutionTimeMs is the total wall time of the run.
	ExecutionTimeMs int64 `json:"executionTimeMs"`

	// CompletedSteps counts successful steps only.
	CompletedSteps int `json:"completedSteps"`

	// TotalSteps is the full declared step count, including skipped
	// and never-attempted steps.
	TotalSteps int `json:"totalSteps"`
}

// Result is the outcome of a pipeline run.
type Result struct {
	// ID is the execution ID the run was stamped with.
	ID string `json:"id,omitempty"`

	// Data is the last successful step's output, not necessarily the
	// last declared step's.
	Data any `json:"data"`

	Metadata Metadata `json:"metadata"`

	// Steps records per-step outcomes. On an early failure stop the
	// list is truncated at the failing step.
	Steps []StepResult `json:"steps"`
}

// Context is the resolution context accumulated during execution.
type Context struct {
	// Input is the pipeline's top-level input.
	Input any

	// Previous is the most recently executed (not skipped) step.
	Previous *StepResult

	// Steps holds all recorded steps so far, including skipped and
	// failed ones, so alias lookups can still see them.
	Steps []StepResult
}
