package entity

import (
	"fmt"
	"math/rand"
	"sync/atomic"
)

// HandleSequence produces entity handles. Handles must be unique within one
// export session. The sequence is injectable so tests can assert byte-exact
// encoder output with a deterministic source.
type HandleSequence interface {
	// Next returns the next handle. Implementations must be safe for
	// concurrent use or documented as single-goroutine.
	Next() string
}

// CounterSequence is the production default: monotonically increasing
// uppercase hex handles starting at 1 ("1", "2", ..., "A", ...), matching
// CAD handle convention. Safe for concurrent use.
type CounterSequence struct {
	n atomic.Uint64
}

// NewCounterSequence creates a counter-based handle sequence.
func NewCounterSequence() *CounterSequence {
	return &CounterSequence{}
}

// Next returns the next handle in the sequence.
func (s *CounterSequence) Next() string {
	return fmt.Sprintf("%X", s.n.Add(1))
}

// SeededSequence produces pseudo-random 8-digit hex handles from a fixed
// seed. It exists for compatibility with tooling that expects random-looking
// handles while keeping output reproducible. Not safe for concurrent use.
type SeededSequence struct {
	rng  *rand.Rand
	seen map[string]bool
}

// NewSeededSequence creates a handle sequence seeded with seed.
func NewSeededSequence(seed int64) *SeededSequence {
	return &SeededSequence{
		rng:  rand.New(rand.NewSource(seed)),
		seen: make(map[string]bool),
	}
}

// Next returns the next handle, re-rolling on the rare collision so
// uniqueness holds within the session.
func (s *SeededSequence) Next() string {
	for {
		h := fmt.Sprintf("%08X", s.rng.Uint32())
		if !s.seen[h] {
			s.seen[h] = true
			return h
		}
	}
}
