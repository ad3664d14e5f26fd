package result

// Metadata carries execution metadata attached to a Result.
//
// All fields are optional; Extra holds arbitrary additional keys that
// are flattened into the metadata object on the wire.
type Metadata struct {
	// ExecutionTimeMs is the handler's execution time in milliseconds.
	ExecutionTimeMs *int64 `json:"executionTimeMs,omitempty"`

	// CommandVersion is the version of the command that produced this result.
	CommandVersion string `json:"commandVersion,omitempty"`

	// TraceID correlates this result with logs and downstream calls.
	TraceID string `json:"traceId,omitempty"`

	// Timestamp is an ISO timestamp of when the command executed.
	Timestamp string `json:"timestamp,omitempty"`

	// Extra holds additional arbitrary metadata.
	Extra map[string]any `json:"extra,omitempty"`
}

// Result is the standard outcome envelope for all commands.
//
// Core fields:
//   - Success: whether the command completed without error
//   - Data: the primary payload when Success is true
//   - Err: structured failure information when Success is false
//
// Trust-signal fields are optional and recommended:
//   - Confidence: 0..1 score; >= 0.9 auto-apply safe, < 0.5 show
//     alternatives prominently
//   - Reasoning: why this result was produced
//   - Sources: where the data came from
//   - Plan: steps of a multi-step operation
//   - Alternatives: other options considered but not selected
//   - Warnings: non-fatal issues to surface
type Result struct {
	Success bool `json:"success"`

	Data any `json:"data,omitempty"`

	Err *Error `json:"error,omitempty"`

	Confidence *float64 `json:"confidence,omitempty"`

	Reasoning string `json:"reasoning,omitempty"`

	Sources []Source `json:"sources,omitempty"`

	Plan []PlanStep `json:"plan,omitempty"`

	Alternatives []Alternative `json:"alternatives,omitempty"`

	Warnings []Warning `json:"warnings,omitempty"`

	Metadata *Metadata `json:"metadata,omitempty"`
}

// OK returns a successful Result carrying data.
func OK(data any) Result {
	return Result{Success: true, Data: data}
}

// Fail returns a failed Result carrying err.
func Fail(err *Error) Result {
	return Result{Success: false, Err: err}
}

// IsSuccess reports whether the result succeeded.
func (r Result) IsSuccess() bool { return r.Success }

// IsFailure reports whether the result failed.
func (r Result) IsFailure() bool { return !r.Success }

// WithConfidence returns a copy of r with a confidence score.
// Values outside [0, 1] are clamped.
func (r Result) WithConfidence(c float64) Result {
	c = clamp01(c)
	r.Confidence = &c
	return r
}

// WithReasoning returns a copy of r with reasoning attached.
func (r Result) WithReasoning(reasoning string) Result {
	r.Reasoning = reasoning
	return r
}

// WithSources returns a copy of r with sources attached.
func (r Result) WithSources(sources ...Source) Result {
	r.Sources = sources
	return r
}

// WithPlan returns a copy of r with plan steps attached.
func (r Result) WithPlan(steps ...PlanStep) Result {
	r.Plan = steps
	return r
}

// WithAlternatives returns a copy of r with alternatives attached.
func (r Result) WithAlternatives(alts ...Alternative) Result {
	r.Alternatives = alts
	return r
}

// WithWarnings returns a copy of r with warnings attached.
func (r Result) WithWarnings(warnings ...Warning) Result {
	r.Warnings = warnings
	return r
}

// WithMetadata returns a copy of r with execution metadata attached.
func (r Result) WithMetadata(m *Metadata) Result {
	r.Metadata = m
	return r
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
