// Package budget enforces the global cap on external queries for a run.
package budget

import "sync"

// Guard is a process-wide counter bounding total external queries
// issued within one run. It is shared by all target resolutions and is
// the engine's single point of mutual exclusion. Exhaustion is
// permanent for the lifetime of the guard.
type Guard struct {
	mu    sync.Mutex
	used  int
	limit int
}

// NewGuard creates a guard allowing at most limit acquisitions.
func NewGuard(limit int) *Guard {
	return &Guard{limit: limit}
}

// TryAcquire atomically checks whether queries issued so far is below
// the limit; if so, it consumes one unit and returns true. Once it
// returns false it returns false for the rest of the run.
func (g *Guard) TryAcquire() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.used >= g.limit {
		return false
	}
	g.used++
	return true
}

// Exhausted reports whether the budget is fully consumed. Used by the
// orchestrator to short-circuit not-yet-started resolutions without
// issuing further queries.
func (g *Guard) Exhausted() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.used >= g.limit
}

// Used returns the number of successful acquisitions so far.
func (g *Guard) Used() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.used
}

// Limit returns the configured maximum.
func (g *Guard) Limit() int {
	return g.limit
}
