package pipeline

// stepConfidence returns the confidence a step contributes to
// aggregation: its reported confidence, or 1.0 when absent.
func stepConfidence(s StepResult) float64 {
	if s.Metadata != nil && s.Metadata.Confidence != nil {
		return *s.Metadata.Confidence
	}
	return 1.0
}

// AggregateConfidence computes pipeline confidence by the weakest-link
// rule: the minimum over successful steps. Zero successful steps yield 0.
func AggregateConfidence(steps []StepResult) float64 {
	min := 0.0
	found := false
	for _, s := range steps {
		if s.Status != StatusSuccess {
			continue
		}
		c := stepConfidence(s)
		if !found || c < min {
			min = c
			found = true
		}
	}
	if !found {
		return 0
	}
	return min
}

// AggregateReasoning collects reasoning from successful steps, tagged
// with the originating step index.
func AggregateReasoning(steps []StepResult) []StepReasoning {
	out := []StepReasoning{}
	for _, s := range steps {
		if s.Status != StatusSuccess || s.Metadata == nil || s.Metadata.Reasoning == "" {
			continue
		}
		out = append(out, StepReasoning{
			StepIndex: s.Index,
			Command:   s.Command,
			Reasoning: s.Metadata.Reasoning,
		})
	}
	return out
}

// AggregateWarnings collects warnings from all steps, tagged with the
// originating step index and alias.
func AggregateWarnings(steps []StepResult) []StepWarning {
	out := []StepWarning{}
	for _, s := range steps {
		if s.Metadata == nil {
			continue
		}
		for _, w := range s.Metadata.Warnings {
			out = append(out, StepWarning{
				Code:      w.Code,
				Message:   w.Message,
				StepIndex: s.Index,
				StepAlias: s.Alias,
			})
		}
	}
	return out
}

// AggregateSources collects sources from all steps.
func AggregateSources(steps []StepResult) []StepSource {
	out := []StepSource{}
	for _, s := range steps {
		if s.Metadata == nil {
			continue
		}
		for _, src := range s.Metadata.Sources {
			out = append(out, StepSource{
				Name:      src.Name,
				StepIndex: s.Index,
				URL:       src.URL,
			})
		}
	}
	return out
}

// AggregateAlternatives collects alternatives from all steps.
func AggregateAlternatives(steps []StepResult) []StepAlternative {
	out := []StepAlternative{}
	for _, s := range steps {
		if s.Metadata == nil {
			continue
		}
		for _, a := range s.Metadata.Alternatives {
			out = append(out, StepAlternative{
				Data:       a.Data,
				Reason:     a.Reason,
				StepIndex:  s.Index,
				Confidence: a.Confidence,
			})
		}
	}
	return out
}

// ConfidenceBreakdown lists the confidence of each successful step.
func ConfidenceBreakdown(steps []StepResult) []StepConfidence {
	out := []StepConfidence{}
	for _, s := range steps {
		if s.Status != StatusSuccess {
			continue
		}
		row := StepConfidence{
			Step:       s.Index,
			Alias:      s.Alias,
			Command:    s.Command,
			Confidence: stepConfidence(s),
		}
		if s.Metadata != nil {
			row.Reasoning = s.Metadata.Reasoning
		}
		out = append(out, row)
	}
	return out
}

// buildMetadata assembles the aggregated metadata for a run.
// totalSteps is the declared step count: on an early failure stop it
// exceeds len(steps).
func buildMetadata(steps []StepResult, totalSteps int, executionTimeMs int64) Metadata {
	completed := 0
	for _, s := range steps {
		if s.Status == StatusSuccess {
			completed++
		}
	}
	return Metadata{
		Confidence:          AggregateConfidence(steps),
		ConfidenceBreakdown: ConfidenceBreakdown(steps),
		Reasoning:           AggregateReasoning(steps),
		Warnings:            AggregateWarnings(steps),
		Sources:             AggregateSources(steps),
		Alternatives:        AggregateAlternatives(steps),
		ExecutionTimeMs:     executionTimeMs,
		CompletedSteps:      completed,
		TotalSteps:          totalSteps,
	}
}
