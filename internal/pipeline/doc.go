// Package pipeline executes ordered chains of commands where each
// step's input may reference prior steps' outputs.
//
// Steps run strictly in declaration order. Before a step runs, its
// input is resolved against the accumulated context (see resolve.go
// for the variable grammar) and its optional when condition is
// evaluated (see condition.go). A step whose condition is false is
// recorded as skipped and consumes a slot in the step list.
//
// Failure policy: with continueOnFailure unset, the first failing step
// stops the pipeline and the step list is truncated there. Steps that
// were never attempted do not appear at all, unlike the batch
// executor, which pads skipped items. Pipeline steps feed each other,
// so an unreached step has no meaningful outcome to record; batch
// callers index results positionally and need the padding.
//
// Trust metadata aggregates across steps by the weakest-link rule:
// the pipeline's confidence is the minimum over its successful steps.
package pipeline
