// Package stream defines the chunk protocol for progressive result
// delivery.
//
// A streaming command emits a sequence of Chunks to an out-of-band
// sink supplied by the caller: progress updates, partial data, then a
// terminal complete or error chunk. Chunks for a given step are
// delivered in emission order, and nothing follows the terminal chunk.
//
// The protocol is a pass-through contract: the pipeline engine
// attributes chunks to their step but never interprets their contents
// beyond recognizing the terminal kinds.
package stream
