package store

import (
	"context"
	"path/filepath"
	"testing"
)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// putPairs writes pairs through a single batch and commits it.
func putPairs(t *testing.T, s *Store, pairs ...[2]string) {
	t.Helper()
	ctx := context.Background()
	b, err := s.BeginBatch(ctx, 0)
	if err != nil {
		t.Fatalf("BeginBatch() failed: %v", err)
	}
	for _, p := range pairs {
		if err := b.Put(p[0], p[1]); err != nil {
			t.Fatalf("Put(%q, %q) failed: %v", p[0], p[1], err)
		}
	}
	if err := b.Commit(); err != nil {
		t.Fatalf("Commit() failed: %v", err)
	}
}
