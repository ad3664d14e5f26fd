// Package registry implements the command model and the name-to-command
// dispatch registry.
//
// A Command is a named, schema-described unit of work with exactly one
// Handler. Commands are built with NewCommand plus builder-style mutators, then
// handed to a Registry. The registry owns its commands after
// registration: names are unique (duplicate registration is a checked
// error, never a silent overwrite) and there is no unregister.
//
// Lifecycle model:
//  1. Construct the registry at process start.
//  2. Register commands.
//  3. Share read-only for the remainder of the process.
//
// After the registration phase the registry is safe for concurrent
// lookups and execution from any number of goroutines with no locking.
//
// Execute never panics for an unknown command name: "command not found"
// is a normal, expected outcome for a dynamic caller and is returned as
// a failed Result with code COMMAND_NOT_FOUND.
package registry
