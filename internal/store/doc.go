// Package store persists an execution journal in SQLite.
//
// Every command, batch, and pipeline run can be journaled as a run
// row plus per-step rows. Payloads are serialized to canonical JSON
// (RFC 8785) so stored data is byte-stable, and writes are idempotent
// on run ID so re-journaling is harmless.
//
// The journal backs the history command and is optional: executors
// work without a store attached.
package store
