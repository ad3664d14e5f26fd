package stream

import "github.com/roach88/afd/internal/result"

// Kind discriminates the chunk union on the wire ("type" field).
type Kind string

const (
	KindProgress Kind = "progress"
	KindData     Kind = "data"
	KindComplete Kind = "complete"
	KindError    Kind = "error"
)

// Chunk is one unit of a progressive result stream.
//
// The Type field selects which of the remaining fields are meaningful:
//   - progress: Progress (0-100), Message, optional CurrentStep/TotalSteps
//   - data: Data, IsFinal, optional Sequence
//   - complete: Data, optional DurationMs. Terminal.
//   - error: Err, Recoverable. Terminal.
type Chunk struct {
	Type Kind `json:"type"`

	// Progress is a percentage 0-100 (progress chunks).
	Progress float64 `json:"progress,omitempty"`

	// Message is a human-readable status line (progress chunks).
	Message string `json:"message,omitempty"`

	// CurrentStep and TotalSteps are optional step counters
	// (progress chunks).
	CurrentStep *int `json:"currentStep,omitempty"`
	TotalSteps  *int `json:"totalSteps,omitempty"`

	// Data is the partial or final payload (data and complete chunks).
	Data any `json:"data,omitempty"`

	// IsFinal marks the last data chunk before completion.
	IsFinal bool `json:"isFinal,omitempty"`

	// Sequence orders data chunks when transport may reorder them.
	Sequence *int `json:"sequence,omitempty"`

	// DurationMs is the total execution time (complete chunks).
	DurationMs *int64 `json:"durationMs,omitempty"`

	// Err is the failure payload (error chunks).
	Err *result.Error `json:"error,omitempty"`

	// Recoverable reports whether the stream can continue after the
	// error (error chunks).
	Recoverable bool `json:"recoverable,omitempty"`
}

// IsTerminal reports whether the chunk ends its step's stream.
func (c Chunk) IsTerminal() bool {
	return c.Type == KindComplete || c.Type == KindError
}

// Progress creates a progress chunk. progress is clamped to [0, 100].
func Progress(progress float64, message string) Chunk {
	return Chunk{
		Type:     KindProgress,
		Progress: clampPercent(progress),
		Message:  message,
	}
}

// ProgressWithSteps creates a progress chunk carrying step counters.
func ProgressWithSteps(progress float64, message string, current, total int) Chunk {
	return Chunk{
		Type:        KindProgress,
		Progress:    clampPercent(progress),
		Message:     message,
		CurrentStep: &current,
		TotalSteps:  &total,
	}
}

// Data creates a partial-data chunk.
func Data(data any, isFinal bool) Chunk {
	return Chunk{Type: KindData, Data: data, IsFinal: isFinal}
}

// DataWithSequence creates a partial-data chunk with a sequence number.
func DataWithSequence(data any, isFinal bool, sequence int) Chunk {
	return Chunk{Type: KindData, Data: data, IsFinal: isFinal, Sequence: &sequence}
}

// Complete creates the terminal success chunk. durationMs < 0 omits
// the duration.
func Complete(data any, durationMs int64) Chunk {
	c := Chunk{Type: KindComplete, Data: data}
	if durationMs >= 0 {
		c.DurationMs = &durationMs
	}
	return c
}

// Error creates the terminal failure chunk.
func Error(err *result.Error, recoverable bool) Chunk {
	return Chunk{Type: KindError, Err: err, Recoverable: recoverable}
}

// CollectData merges the payloads of all data chunks, in order, and
// returns them with the completing chunk's data appended when present.
// Useful for callers that buffered a whole stream and want the
// assembled payload.
func CollectData(chunks []Chunk) []any {
	var out []any
	for _, c := range chunks {
		switch c.Type {
		case KindData, KindComplete:
			if c.Data != nil {
				out = append(out, c.Data)
			}
		}
	}
	return out
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
