package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/afd/internal/registry"
	"github.com/roach88/afd/internal/result"
	"github.com/roach88/afd/internal/stream"
)

// Clock supplies wall time for step timings.
// Implemented by the system clock (production) and testutil.StepClock (tests).
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// RunIDGenerator stamps pipeline executions with unique IDs.
// Implemented by UUIDv7RunIDs (production) and testutil.FixedRunIDs (tests).
type RunIDGenerator interface {
	NewID() string
}

// UUIDv7RunIDs generates time-sortable UUIDv7 run IDs.
// Stateless and safe for concurrent use.
type UUIDv7RunIDs struct{}

// NewID creates a UUIDv7 as a hyphenated string.
// Panics if UUID generation fails, which does not happen in practice.
func (UUIDv7RunIDs) NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// ChunkSink receives stream chunks from streaming steps, attributed
// with the emitting step's index and alias.
type ChunkSink func(stepIndex int, alias string, chunk stream.Chunk)

// Engine executes pipelines against a registry.
//
// The engine is stateless across runs; every Execute call builds a
// fresh Context. Multiple runs may execute concurrently against the
// same registry, which is read-only after its registration phase.
type Engine struct {
	reg    *registry.Registry
	clock  Clock
	runIDs RunIDGenerator
	sink   ChunkSink
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithClock replaces the wall clock. Used by tests for deterministic
// timings.
func WithClock(c Clock) EngineOption {
	return func(e *Engine) { e.clock = c }
}

// WithRunIDs replaces the run ID generator.
func WithRunIDs(g RunIDGenerator) EngineOption {
	return func(e *Engine) { e.runIDs = g }
}

// WithChunkSink installs the caller's stream sink. Steps with
// stream:true emit their chunks here; without a sink, chunks are
// discarded.
func WithChunkSink(sink ChunkSink) EngineOption {
	return func(e *Engine) { e.sink = sink }
}

// NewEngine creates an Engine over reg.
func NewEngine(reg *registry.Registry, opts ...EngineOption) *Engine {
	e := &Engine{
		reg:    reg,
		clock:  systemClock{},
		runIDs: UUIDv7RunIDs{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs the pipeline strictly in declaration order.
//
// Per step: resolve input against the accumulated context, evaluate
// the when condition (skip if false), then dispatch by command name.
// On failure with ContinueOnFailure unset, execution stops and the
// recorded step list is truncated at the failing step.
func (e *Engine) Execute(ctx context.Context, req Request) Result {
	runID := req.ID
	if runID == "" {
		runID = e.runIDs.NewID()
	}

	slog.Info("pipeline starting", "run_id", runID, "steps", len(req.Steps))

	pctx := &Context{Input: req.Input}
	stepResults := []StepResult{}
	start := e.clock.Now()

	for i, step := range req.Steps {
		if step.When != nil && !step.When.Evaluate(pctx) {
			slog.Debug("step skipped by condition", "run_id", runID, "index", i, "command", step.Command)
			sr := StepResult{
				Index:   i,
				Alias:   step.Alias,
				Command: step.Command,
				Status:  StatusSkipped,
			}
			stepResults = append(stepResults, sr)
			pctx.Steps = append(pctx.Steps, sr)
			// A skipped step does not become $prev: the previous
			// executed step stays addressable.
			continue
		}

		resolved := any(map[string]any{})
		if step.Input != nil {
			resolved = ResolveVariables(step.Input, pctx)
		}

		stepStart := e.clock.Now()
		res := e.executeStep(ctx, i, step, resolved)
		elapsed := e.clock.Now().Sub(stepStart).Milliseconds()

		sr := recordStep(i, step, res, elapsed)
		stepResults = append(stepResults, sr)
		pctx.Steps = append(pctx.Steps, sr)
		pctx.Previous = &pctx.Steps[len(pctx.Steps)-1]

		if res.IsFailure() {
			slog.Warn("step failed", "run_id", runID, "index", i, "command", step.Command, "code", sr.Err.Code)
			if !req.Options.ContinueOnFailure {
				// Truncate: steps never attempted are not recorded.
				break
			}
		}
	}

	totalMs := e.clock.Now().Sub(start).Milliseconds()

	var finalData any
	for i := len(stepResults) - 1; i >= 0; i-- {
		if stepResults[i].Status == StatusSuccess {
			finalData = stepResults[i].Data
			break
		}
	}

	md := buildMetadata(stepResults, len(req.Steps), totalMs)

	slog.Info("pipeline finished",
		"run_id", runID,
		"completed", md.CompletedSteps,
		"total", md.TotalSteps,
		"confidence", md.Confidence,
		"total_ms", totalMs)

	return Result{
		ID:       runID,
		Data:     finalData,
		Metadata: md,
		Steps:    stepResults,
	}
}

// executeStep dispatches one step, wiring up the stream emitter for
// steps that opted in.
func (e *Engine) executeStep(ctx context.Context, index int, step Step, input any) result.Result {
	var cc *registry.Context
	if step.Stream {
		sink := stream.Sink(nil)
		if e.sink != nil {
			alias := step.Alias
			sink = func(c stream.Chunk) { e.sink(index, alias, c) }
		}
		cc = &registry.Context{
			Extra: stream.NewEmitter(sink).IntoExtra(nil),
		}
	}
	return e.reg.Execute(ctx, step.Command, input, cc)
}

// recordStep converts a command result into the step record. Step
// metadata is attached only when the result reported at least one
// trust field.
func recordStep(index int, step Step, res result.Result, elapsedMs int64) StepResult {
	sr := StepResult{
		Index:           index,
		Alias:           step.Alias,
		Command:         step.Command,
		ExecutionTimeMs: elapsedMs,
	}

	if !res.Success {
		sr.Status = StatusFailure
		sr.Err = res.Err
		return sr
	}

	sr.Status = StatusSuccess
	sr.Data = res.Data

	if res.Confidence != nil || res.Reasoning != "" ||
		len(res.Sources) > 0 || len(res.Warnings) > 0 || len(res.Alternatives) > 0 {
		sr.Metadata = &StepMetadata{
			Confidence:   res.Confidence,
			Reasoning:    res.Reasoning,
			Sources:      res.Sources,
			Warnings:     res.Warnings,
			Alternatives: res.Alternatives,
		}
	}
	return sr
}
