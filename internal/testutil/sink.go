package testutil

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/roach88/leprechaun/internal/rainbow"
)

// MemorySink records appended pairs in memory.
//
// It also detects concurrent Append calls: a correct single-writer run never
// has two Appends in flight, so Concurrent() must stay false.
type MemorySink struct {
	// FailOn, when set, is consulted before every Append; a non-nil result
	// is returned instead of recording the pair.
	FailOn func(rainbow.Pair) error

	mu         sync.Mutex
	pairs      []rainbow.Pair
	closes     int
	inFlight   atomic.Int32
	concurrent atomic.Bool
}

// NewMemorySink creates an empty sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Append records p.
func (s *MemorySink) Append(_ context.Context, p rainbow.Pair) error {
	if s.inFlight.Add(1) > 1 {
		s.concurrent.Store(true)
	}
	defer s.inFlight.Add(-1)

	if s.FailOn != nil {
		if err := s.FailOn(p); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pairs = append(s.pairs, p)
	return nil
}

// Close counts close calls.
func (s *MemorySink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closes++
	return nil
}

// Pairs returns a copy of the recorded pairs in append order.
func (s *MemorySink) Pairs() []rainbow.Pair {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]rainbow.Pair(nil), s.pairs...)
}

// Closes returns how many times Close was called.
func (s *MemorySink) Closes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closes
}

// Concurrent reports whether two Appends ever overlapped.
func (s *MemorySink) Concurrent() bool {
	return s.concurrent.Load()
}
