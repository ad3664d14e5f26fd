package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/roach88/afd/internal/result"
)

// RunKind classifies a journal entry by how it was executed.
type RunKind string

const (
	KindCommand  RunKind = "command"
	KindBatch    RunKind = "batch"
	KindPipeline RunKind = "pipeline"
)

// RunRecord is one journaled execution.
type RunRecord struct {
	ID         string
	Kind       RunKind
	StartedAt  time.Time
	EndedAt    time.Time
	TotalMs    int64
	Success    bool
	Confidence *float64
	Data       any
	Steps      []StepRecord
}

// StepRecord is one journaled step within a run. Single-command runs
// journal exactly one step.
type StepRecord struct {
	Index           int
	Alias           string
	Command         string
	Status          string
	ExecutionTimeMs int64
	Data            any
	ErrorCode       string
	ErrorMessage    string
}

// WriteRun inserts a run and its steps in one transaction.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - journaling the
// same run twice leaves the first record intact, steps included.
//
// Run and step data are serialized to canonical JSON per RFC 8785 so
// stored payloads are byte-stable.
func (s *Store) WriteRun(ctx context.Context, run RunRecord) error {
	dataJSON, err := marshalData(run.Data)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, kind, started_at, ended_at, total_ms, success, confidence, data)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		string(run.Kind),
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.EndedAt.UTC().Format(time.RFC3339Nano),
		run.TotalMs,
		run.Success,
		run.Confidence,
		dataJSON,
	)
	if err != nil {
		return fmt.Errorf("write run: insert: %w", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("write run: rows affected: %w", err)
	}
	if rowsAffected == 0 {
		// Run already journaled - keep the existing record and steps.
		return tx.Commit()
	}

	for _, step := range run.Steps {
		stepJSON, err := marshalData(step.Data)
		if err != nil {
			return fmt.Errorf("write run: step %d: %w", step.Index, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO run_steps
			(run_id, idx, alias, command, status, execution_time_ms, data, error_code, error_message)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			run.ID,
			step.Index,
			step.Alias,
			step.Command,
			step.Status,
			step.ExecutionTimeMs,
			stepJSON,
			step.ErrorCode,
			step.ErrorMessage,
		)
		if err != nil {
			return fmt.Errorf("write run: insert step %d: %w", step.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write run: commit: %w", err)
	}

	return nil
}

// ReadRun returns one run with its steps in index order.
// Returns sql.ErrNoRows wrapped when no run matches.
func (s *Store) ReadRun(ctx context.Context, id string) (RunRecord, error) {
	var run RunRecord
	var kind, startedAt, endedAt, data string
	var confidence sql.NullFloat64

	err := s.db.QueryRowContext(ctx, `
		SELECT id, kind, started_at, ended_at, total_ms, success, confidence, data
		FROM runs
		WHERE id = ?
	`, id).Scan(&run.ID, &kind, &startedAt, &endedAt, &run.TotalMs, &run.Success, &confidence, &data)
	if err != nil {
		return RunRecord{}, fmt.Errorf("read run %s: %w", id, err)
	}

	run.Kind = RunKind(kind)
	if confidence.Valid {
		run.Confidence = &confidence.Float64
	}
	if run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
		return RunRecord{}, fmt.Errorf("read run %s: started_at: %w", id, err)
	}
	if run.EndedAt, err = time.Parse(time.RFC3339Nano, endedAt); err != nil {
		return RunRecord{}, fmt.Errorf("read run %s: ended_at: %w", id, err)
	}
	if run.Data, err = unmarshalData(data); err != nil {
		return RunRecord{}, fmt.Errorf("read run %s: %w", id, err)
	}

	run.Steps, err = s.readRunSteps(ctx, id)
	if err != nil {
		return RunRecord{}, err
	}

	return run, nil
}

// RecentRuns returns the newest runs first, without their steps.
// Ordering is deterministic: started_at DESC, then id DESC.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, started_at, ended_at, total_ms, success, confidence, data
		FROM runs
		ORDER BY started_at DESC, id COLLATE BINARY DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent runs: %w", err)
	}
	defer rows.Close()

	runs := []RunRecord{}
	for rows.Next() {
		var run RunRecord
		var kind, startedAt, endedAt, data string
		var confidence sql.NullFloat64
		if err := rows.Scan(&run.ID, &kind, &startedAt, &endedAt, &run.TotalMs, &run.Success, &confidence, &data); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.Kind = RunKind(kind)
		if confidence.Valid {
			run.Confidence = &confidence.Float64
		}
		if run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, fmt.Errorf("scan run %s: started_at: %w", run.ID, err)
		}
		if run.EndedAt, err = time.Parse(time.RFC3339Nano, endedAt); err != nil {
			return nil, fmt.Errorf("scan run %s: ended_at: %w", run.ID, err)
		}
		if run.Data, err = unmarshalData(data); err != nil {
			return nil, fmt.Errorf("scan run %s: %w", run.ID, err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return runs, nil
}

// readRunSteps returns a run's steps ordered by index.
func (s *Store) readRunSteps(ctx context.Context, runID string) ([]StepRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT idx, alias, command, status, execution_time_ms, data, error_code, error_message
		FROM run_steps
		WHERE run_id = ?
		ORDER BY idx ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query steps for %s: %w", runID, err)
	}
	defer rows.Close()

	steps := []StepRecord{}
	for rows.Next() {
		var step StepRecord
		var data string
		if err := rows.Scan(&step.Index, &step.Alias, &step.Command, &step.Status,
			&step.ExecutionTimeMs, &data, &step.ErrorCode, &step.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scan step: %w", err)
		}
		if step.Data, err = unmarshalData(data); err != nil {
			return nil, fmt.Errorf("scan step %d: %w", step.Index, err)
		}
		steps = append(steps, step)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate steps for %s: %w", runID, err)
	}

	return steps, nil
}

// marshalData converts a payload to canonical JSON TEXT for storage.
// Nil payloads store as the empty string rather than "null" so absent
// data round-trips as nil.
func marshalData(v any) (string, error) {
	if v == nil {
		return "", nil
	}
	data, err := result.MarshalCanonical(v)
	if err != nil {
		return "", fmt.Errorf("marshal data: %w", err)
	}
	return string(data), nil
}

// unmarshalData parses stored canonical JSON TEXT.
func unmarshalData(data string) (any, error) {
	if data == "" {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		return nil, fmt.Errorf("unmarshal data: %w", err)
	}
	return v, nil
}
