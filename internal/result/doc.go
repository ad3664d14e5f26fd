// Package result defines the outcome envelope returned by every command.
//
// A Result is a tagged outcome: Success=true carries Data plus optional
// trust signals (confidence, reasoning, sources, plan, alternatives,
// warnings, metadata); Success=false carries an *Error and no data.
// Exactly one of Data or Err is populated, controlled by Success.
//
// This package contains data types only. All other internal packages
// import result; result imports nothing internal, keeping it the
// foundational layer with no circular dependencies.
//
// JSON serialization uses camelCase field names and omits absent
// optionals, matching the wire shape consumed by agent callers.
package result
