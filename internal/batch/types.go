package batch

import "github.com/roach88/afd/internal/result"

// Item is one command invocation within a batch.
type Item struct {
	// ID is the caller's correlation ID, echoed back on the result row.
	ID string `json:"id"`

	// Command is the registered command name to execute.
	Command string `json:"command"`

	// Input is the command input.
	Input any `json:"input,omitempty"`

	// Tags are free-form labels on the invocation.
	Tags []string `json:"tags,omitempty"`

	// Priority is an advisory ordering hint; execution stays in
	// request order regardless.
	Priority *int `json:"priority,omitempty"`
}

// Options controls batch failure policy.
type Options struct {
	// ContinueOnError keeps executing after an item fails.
	ContinueOnError bool `json:"continueOnError,omitempty"`

	// MaxConcurrency is accepted but advisory; execution is sequential.
	MaxConcurrency int `json:"maxConcurrency,omitempty"`

	// TimeoutMs is carried but not enforced at this layer.
	TimeoutMs int64 `json:"timeoutMs,omitempty"`

	// MaxFailures is carried but not enforced at this layer.
	MaxFailures int `json:"maxFailures,omitempty"`
}

// Request is an ordered list of invocations plus options.
type Request struct {
	Commands []Item  `json:"commands"`
	Options  Options `json:"options,omitempty"`
}

// ItemResult is the outcome of one batch item, tagged with the
// caller's ID and the elapsed time.
type ItemResult struct {
	ID         string        `json:"id"`
	Command    string        `json:"command"`
	Result     result.Result `json:"result"`
	DurationMs int64         `json:"durationMs"`
}

// Summary aggregates the per-item outcomes.
type Summary struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`

	// AverageConfidence is the mean confidence over successful items
	// that reported one. Absent when no successful item did.
	AverageConfidence *float64 `json:"averageConfidence,omitempty"`
}

// Timing records wall-clock boundaries of the batch run.
type Timing struct {
	StartedAt string `json:"startedAt"`
	EndedAt   string `json:"endedAt"`
	TotalMs   int64  `json:"totalMs"`

	// AverageMs is TotalMs divided by the item count. Absent for the
	// empty-request failure.
	AverageMs *int64 `json:"averageMs,omitempty"`
}

// Result is the outcome of a batch run.
//
// Success is true iff every item succeeded. The request-level Err is
// set only for malformed requests (e.g. empty); item-level failures
// live in their rows.
type Result struct {
	Success bool          `json:"success"`
	Results []ItemResult  `json:"results"`
	Summary Summary       `json:"summary"`
	Timing  Timing        `json:"timing"`
	Err     *result.Error `json:"error,omitempty"`
}

// summarize derives counts and average confidence from result rows.
func summarize(rows []ItemResult) Summary {
	s := Summary{Total: len(rows)}

	var confSum float64
	var confCount int
	for _, row := range rows {
		switch {
		case row.Result.Success:
			s.Succeeded++
			if row.Result.Confidence != nil {
				confSum += *row.Result.Confidence
				confCount++
			}
		case row.Result.Err != nil && row.Result.Err.Code == result.CodeCommandSkipped:
			// Skipped items count as failures too: failed is always
			// total minus succeeded.
			s.Skipped++
			s.Failed++
		default:
			s.Failed++
		}
	}

	if confCount > 0 {
		avg := confSum / float64(confCount)
		s.AverageConfidence = &avg
	}
	return s
}
