package testutil

import "sync"

// FixedRunIDs returns predetermined run IDs for tests.
//
// Pipeline and batch executions are stamped with a run ID (UUIDv7 in
// production). Tests provide a known sequence so journal rows and
// golden outputs are byte-identical across runs.
//
// Thread-safety: safe for concurrent use via internal mutex.
type FixedRunIDs struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedRunIDs creates a generator that returns ids in order.
//
// Example:
//
//	gen := testutil.NewFixedRunIDs("run-1", "run-2")
//	gen.NewID() // "run-1"
//	gen.NewID() // "run-2"
//	gen.NewID() // panic: all IDs exhausted
func NewFixedRunIDs(ids ...string) *FixedRunIDs {
	return &FixedRunIDs{ids: ids}
}

// NewID returns the next predetermined ID.
//
// Panics when the sequence is exhausted. Fail-fast catches tests that
// start more runs than they declared.
func (g *FixedRunIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.idx >= len(g.ids) {
		panic("FixedRunIDs: all IDs exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}
