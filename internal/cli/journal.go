package cli

import (
	"context"
	"log/slog"
	"time"

	"github.com/roach88/afd/internal/batch"
	"github.com/roach88/afd/internal/pipeline"
	"github.com/roach88/afd/internal/store"
)

// journalRun opens the journal database, writes one run, and closes it.
func journalRun(ctx context.Context, dbPath string, record store.RunRecord) error {
	st, err := store.Open(dbPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	if err := st.WriteRun(ctx, record); err != nil {
		return WrapExitError(ExitCommandError, "failed to journal run", err)
	}
	return nil
}

// batchRunRecord converts a batch result into a journal record.
func batchRunRecord(id string, res batch.Result) store.RunRecord {
	record := store.RunRecord{
		ID:         id,
		Kind:       store.KindBatch,
		TotalMs:    res.Timing.TotalMs,
		Success:    res.Summary.Failed == 0,
		Confidence: res.Summary.AverageConfidence,
	}
	if t, err := time.Parse(time.RFC3339Nano, res.Timing.StartedAt); err == nil {
		record.StartedAt = t
	}
	if t, err := time.Parse(time.RFC3339Nano, res.Timing.EndedAt); err == nil {
		record.EndedAt = t
	}
	for i, item := range res.Results {
		step := store.StepRecord{
			Index:           i,
			Alias:           item.ID,
			Command:         item.Command,
			ExecutionTimeMs: item.DurationMs,
		}
		if item.Result.Success {
			step.Status = "success"
			step.Data = item.Result.Data
		} else {
			step.Status = "failure"
			if item.Result.Err != nil {
				step.ErrorCode = item.Result.Err.Code
				step.ErrorMessage = item.Result.Err.Message
			}
		}
		record.Steps = append(record.Steps, step)
	}
	return record
}

// pipelineRunRecord converts a pipeline result into a journal record.
func pipelineRunRecord(res pipeline.Result) store.RunRecord {
	conf := res.Metadata.Confidence
	record := store.RunRecord{
		ID:         res.ID,
		Kind:       store.KindPipeline,
		TotalMs:    res.Metadata.ExecutionTimeMs,
		Success:    res.Metadata.CompletedSteps == res.Metadata.TotalSteps,
		Confidence: &conf,
		Data:       res.Data,
	}
	for _, step := range res.Steps {
		rec := store.StepRecord{
			Index:           step.Index,
			Alias:           step.Alias,
			Command:         step.Command,
			Status:          string(step.Status),
			ExecutionTimeMs: step.ExecutionTimeMs,
			Data:            step.Data,
		}
		if step.Err != nil {
			rec.ErrorCode = step.Err.Code
			rec.ErrorMessage = step.Err.Message
		}
		record.Steps = append(record.Steps, rec)
	}
	return record
}
