package stream

import "sync"

// Sink receives chunks from a streaming step. The pipeline engine
// supplies a sink that attributes chunks to the emitting step before
// forwarding them to the caller.
type Sink func(Chunk)

// Emitter is the handle a streaming handler writes chunks to.
//
// The emitter enforces the terminal contract: after a complete or
// error chunk has been emitted, further emissions are silently
// dropped. Chunks reach the sink in emission order.
//
// Thread-safety: safe for concurrent use via internal mutex.
type Emitter struct {
	mu     sync.Mutex
	sink   Sink
	closed bool
}

// NewEmitter creates an Emitter writing to sink. A nil sink yields an
// emitter that discards everything, so handlers need no nil checks.
func NewEmitter(sink Sink) *Emitter {
	return &Emitter{sink: sink}
}

// Emit forwards c to the sink, enforcing terminal semantics.
func (e *Emitter) Emit(c Chunk) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.sink == nil {
		return
	}
	if c.IsTerminal() {
		e.closed = true
	}
	e.sink(c)
}

// Closed reports whether a terminal chunk has been emitted.
func (e *Emitter) Closed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

// extraKey is the registry context key the pipeline engine stores the
// emitter under.
const extraKey = "stream.emitter"

// IntoExtra stores the emitter in a context Extra map, allocating the
// map when needed, and returns the map.
func (e *Emitter) IntoExtra(extra map[string]any) map[string]any {
	if extra == nil {
		extra = make(map[string]any, 1)
	}
	extra[extraKey] = e
	return extra
}

// FromExtra retrieves the emitter a streaming step was invoked with.
// Handlers of non-streaming invocations get a discarding emitter, so
// the returned value is always usable.
func FromExtra(extra map[string]any) *Emitter {
	if e, ok := extra[extraKey].(*Emitter); ok {
		return e
	}
	return NewEmitter(nil)
}
