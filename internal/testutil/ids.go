package testutil

import (
	"fmt"
	"sync"
)

// FixedIDs returns predetermined identifiers for tests.
//
// IDs are issued as "<prefix>-1", "<prefix>-2", ... in call order, which
// makes session and player ids stable for golden comparison.
//
// Thread-safety: safe for concurrent use via internal mutex.
type FixedIDs struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewFixedIDs creates a generator issuing "<prefix>-1", "<prefix>-2", ...
func NewFixedIDs(prefix string) *FixedIDs {
	return &FixedIDs{prefix: prefix}
}

// NewID returns the next identifier in the sequence.
func (g *FixedIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}

// Reset rewinds the sequence.
func (g *FixedIDs) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n = 0
}
