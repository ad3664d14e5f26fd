package result

// SourceType classifies where a piece of data came from.
type SourceType string

const (
	SourceURL       SourceType = "url"
	SourceFile      SourceType = "file"
	SourceDatabase  SourceType = "database"
	SourceAPI       SourceType = "api"
	SourceKnowledge SourceType = "knowledge"
	SourceUser      SourceType = "user"
	SourceOther     SourceType = "other"
)

// Source attributes a result to the information it was derived from.
// Sources help callers verify information and build trust.
type Source struct {
	// Name is a human-readable label for the source.
	Name string `json:"name"`

	// Type classifies the source.
	Type SourceType `json:"sourceType"`

	// URL points at the source, when addressable.
	URL string `json:"url,omitempty"`

	// AccessedAt is an ISO timestamp of when the source was read.
	AccessedAt string `json:"accessedAt,omitempty"`

	// Relevance scores the source 0..1.
	Relevance *float64 `json:"relevance,omitempty"`

	// Snippet is a brief excerpt for context.
	Snippet string `json:"snippet,omitempty"`
}

// NewSource creates a Source with a name and type.
func NewSource(name string, typ SourceType) Source {
	return Source{Name: name, Type: typ}
}

// WithURL returns a copy of s with a URL.
func (s Source) WithURL(url string) Source {
	s.URL = url
	return s
}

// WithAccessedAt returns a copy of s with an access timestamp.
func (s Source) WithAccessedAt(ts string) Source {
	s.AccessedAt = ts
	return s
}

// WithRelevance returns a copy of s with a relevance score, clamped to [0, 1].
func (s Source) WithRelevance(r float64) Source {
	r = clamp01(r)
	s.Relevance = &r
	return s
}

// WithSnippet returns a copy of s with an excerpt.
func (s Source) WithSnippet(snippet string) Source {
	s.Snippet = snippet
	return s
}

// PlanStepStatus is the lifecycle state of a plan step.
type PlanStepStatus string

const (
	PlanPending   PlanStepStatus = "pending"
	PlanRunning   PlanStepStatus = "running"
	PlanCompleted PlanStepStatus = "completed"
	PlanFailed    PlanStepStatus = "failed"
	PlanSkipped   PlanStepStatus = "skipped"
)

// PlanStep describes one step of a multi-step operation, giving callers
// visibility into what the command is doing.
type PlanStep struct {
	// Step is the step number, usually 1-based.
	Step int `json:"step"`

	// Description says what the step does.
	Description string `json:"description"`

	// Status is the step's current lifecycle state.
	Status PlanStepStatus `json:"status"`

	// DurationMs is the execution time if the step finished.
	DurationMs *int64 `json:"durationMs,omitempty"`

	// Error is the failure message if the step failed.
	Error string `json:"error,omitempty"`

	// Details holds additional step context.
	Details map[string]any `json:"details,omitempty"`
}

// NewPlanStep creates a pending PlanStep.
func NewPlanStep(step int, description string) PlanStep {
	return PlanStep{Step: step, Description: description, Status: PlanPending}
}

// WithStatus returns a copy of p with the given status.
func (p PlanStep) WithStatus(status PlanStepStatus) PlanStep {
	p.Status = status
	return p
}

// WithDuration returns a copy of p with a duration.
func (p PlanStep) WithDuration(ms int64) PlanStep {
	p.DurationMs = &ms
	return p
}

// WithError returns a copy of p marked failed with an error message.
func (p PlanStep) WithError(msg string) PlanStep {
	p.Error = msg
	p.Status = PlanFailed
	return p
}

// Alternative is an option that was considered but not selected.
// Surfacing alternatives helps callers understand the decision.
type Alternative struct {
	// Data is the alternative payload.
	Data any `json:"data"`

	// Reason says why this alternative was not selected.
	Reason string `json:"reason"`

	// Confidence scores the alternative 0..1.
	Confidence *float64 `json:"confidence,omitempty"`
}

// NewAlternative creates an Alternative.
func NewAlternative(data any, reason string) Alternative {
	return Alternative{Data: data, Reason: reason}
}

// WithConfidence returns a copy of a with a confidence score, clamped to [0, 1].
func (a Alternative) WithConfidence(c float64) Alternative {
	c = clamp01(c)
	a.Confidence = &c
	return a
}

// WarningSeverity ranks how urgently a warning needs attention.
type WarningSeverity string

const (
	SeverityLow    WarningSeverity = "low"
	SeverityMedium WarningSeverity = "medium"
	SeverityHigh   WarningSeverity = "high"
)

// Warning is a non-fatal issue that did not prevent success but should
// be communicated to the caller.
type Warning struct {
	// Code identifies the warning for programmatic handling.
	Code string `json:"code"`

	// Message describes the warning.
	Message string `json:"message"`

	// Severity ranks the warning.
	Severity WarningSeverity `json:"severity,omitempty"`

	// Context holds additional detail about the warning.
	Context map[string]any `json:"context,omitempty"`
}

// NewWarning creates a Warning.
func NewWarning(code, message string) Warning {
	return Warning{Code: code, Message: message}
}

// WithSeverity returns a copy of w with a severity.
func (w Warning) WithSeverity(severity WarningSeverity) Warning {
	w.Severity = severity
	return w
}

// WithContext returns a copy of w with context attached.
func (w Warning) WithContext(ctx map[string]any) Warning {
	w.Context = ctx
	return w
}
