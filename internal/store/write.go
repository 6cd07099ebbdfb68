package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// DefaultBatchSize is the number of rows committed per transaction.
const DefaultBatchSize = 10000

// ErrBatchClosed is returned by Batch methods after Commit.
var ErrBatchClosed = errors.New("store: batch already closed")

// Batch inserts rainbow rows inside a rolling transaction.
//
// Rows become durable when a full batch is committed and on Commit.
// A Batch must be used from a single goroutine.
//
// The transaction is not bound to the cancellation of the context passed to
// BeginBatch: rows put before the caller's context is cancelled are still
// committed by Commit.
type Batch struct {
	s       *Store
	ctx     context.Context
	size    int
	tx      *sql.Tx
	stmt    *sql.Stmt
	pending int
	written int64
	closed  bool
}

// BeginBatch starts a batched writer committing every size rows
// (DefaultBatchSize when size <= 0).
//
// No other Store method may be called until the batch is committed or
// rolled back: the store has a single connection and the batch holds it.
func (s *Store) BeginBatch(ctx context.Context, size int) (*Batch, error) {
	if size <= 0 {
		size = DefaultBatchSize
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("begin batch: %w", err)
	}
	b := &Batch{s: s, ctx: context.WithoutCancel(ctx), size: size}
	if err := b.begin(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Batch) begin() error {
	tx, err := b.s.db.BeginTx(b.ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}
	stmt, err := tx.PrepareContext(b.ctx, `INSERT INTO rainbow (digest, plaintext) VALUES (?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("begin batch: prepare insert: %w", err)
	}
	b.tx, b.stmt, b.pending = tx, stmt, 0
	return nil
}

func (b *Batch) commit() error {
	b.stmt.Close()
	if err := b.tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	b.written += int64(b.pending)
	b.tx, b.stmt, b.pending = nil, nil, 0
	return nil
}

// Put inserts one (digest, plaintext) row.
func (b *Batch) Put(digest, plaintext string) error {
	if b.closed {
		return ErrBatchClosed
	}
	if _, err := b.stmt.ExecContext(b.ctx, digest, plaintext); err != nil {
		return fmt.Errorf("insert pair: %w", err)
	}
	b.pending++

	if b.pending >= b.size {
		if err := b.commit(); err != nil {
			b.closed = true
			return err
		}
		if err := b.begin(); err != nil {
			b.closed = true
			return err
		}
	}
	return nil
}

// Written returns the number of committed rows.
func (b *Batch) Written() int64 {
	return b.written
}

// Commit commits pending rows and ends the batch.
func (b *Batch) Commit() error {
	if b.closed {
		return ErrBatchClosed
	}
	b.closed = true
	return b.commit()
}

// Run is the provenance record of one generation run.
type Run struct {
	ID                 string
	Algorithm          string
	Iterations         int
	Prefix             string
	Postfix            string
	SaltFirstRoundOnly bool
	Finished           bool
	Pairs              int64
}

// StartRun records a run before its pairs are written.
// Uses ON CONFLICT(id) DO NOTHING: restarting a run with the same id keeps
// the original record.
func (s *Store) StartRun(ctx context.Context, r Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs
		(id, algorithm, iterations, prefix, postfix, salt_first_round_only)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		r.ID,
		r.Algorithm,
		r.Iterations,
		r.Prefix,
		r.Postfix,
		boolToInt(r.SaltFirstRoundOnly),
	)
	if err != nil {
		return fmt.Errorf("start run: %w", err)
	}
	return nil
}

// FinishRun marks a run finished and stores its pair count.
func (s *Store) FinishRun(ctx context.Context, id string, pairs int64) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE runs SET finished = 1, pairs = ? WHERE id = ?
	`, pairs, id)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("finish run: unknown run %q", id)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
