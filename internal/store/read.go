package store

import (
	"context"
	"fmt"
)

// Lookup returns every plaintext stored for digest, in insertion order.
// Returns an empty slice (not nil) when the digest is unknown.
func (s *Store) Lookup(ctx context.Context, digest string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT plaintext FROM rainbow
		WHERE digest = ?
		ORDER BY rowid ASC
	`, digest)
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", digest, err)
	}
	defer rows.Close()

	plaintexts := []string{}
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("lookup %s: scan: %w", digest, err)
		}
		plaintexts = append(plaintexts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("lookup %s: iterate: %w", digest, err)
	}

	return plaintexts, nil
}

// Count returns the number of rows in the rainbow table.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rainbow`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count pairs: %w", err)
	}
	return n, nil
}

// IncompleteRuns returns the runs that were started but never finished,
// ordered by id.
//
// A run stays unfinished when the process died or the sink failed to close;
// its pairs may be partially committed.
func (s *Store) IncompleteRuns(ctx context.Context) ([]Run, error) {
	all, err := s.Runs(ctx)
	if err != nil {
		return nil, err
	}
	incomplete := []Run{}
	for _, r := range all {
		if !r.Finished {
			incomplete = append(incomplete, r)
		}
	}
	return incomplete, nil
}

// Runs returns all run records ordered by id. Run ids are UUIDv7, so this
// is start order.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, algorithm, iterations, prefix, postfix, salt_first_round_only, finished, pairs
		FROM runs
		ORDER BY id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var r Run
		var salt, finished int
		if err := rows.Scan(&r.ID, &r.Algorithm, &r.Iterations, &r.Prefix, &r.Postfix, &salt, &finished, &r.Pairs); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.SaltFirstRoundOnly = salt != 0
		r.Finished = finished != 0
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return runs, nil
}
