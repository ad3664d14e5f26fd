// Package batch executes an ordered list of named command invocations
// against a registry.
//
// Execution is strictly sequential and in request order. The
// maxConcurrency option is accepted for wire compatibility but is
// advisory only: it never reorders or parallelizes execution.
//
// Failure policy:
//   - continueOnError=false (default): the first failure stops
//     execution, and every remaining item is recorded with a synthetic
//     COMMAND_SKIPPED error. The results slice always has the same
//     length as the request.
//   - continueOnError=true: every item is attempted regardless of
//     prior failures.
//
// An empty request is a request-level failure (INVALID_BATCH_REQUEST),
// distinct from "all items failed".
//
// Summary counts are derived from the result rows, never tracked
// independently, so detail rows and aggregates cannot drift.
package batch
