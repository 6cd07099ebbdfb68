package sink

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/leprechaun/internal/rainbow"
	"github.com/roach88/leprechaun/internal/store"
)

// KeyedOptions configures OpenKeyed.
type KeyedOptions struct {
	// BatchSize is the number of rows per transaction.
	// Default: store.DefaultBatchSize.
	BatchSize int

	// Run is recorded on open and marked finished on close. Optional.
	Run *store.Run

	// DigestLen is the expected hex digest length for AppendLine.
	// Zero accepts any length.
	DigestLen int
}

// Keyed inserts pairs into a SQLite rainbow table.
type Keyed struct {
	st        *store.Store
	batch     *store.Batch
	run       *store.Run
	digestLen int
	closed    bool
}

// OpenKeyed opens (or creates) the database at path and starts a batch.
func OpenKeyed(ctx context.Context, path string, opts KeyedOptions) (*Keyed, error) {
	st, err := store.Open(path)
	if err != nil {
		return nil, rainbow.NewSinkUnavailable(path, err)
	}

	// The run record must be written before the batch takes the connection.
	if opts.Run != nil {
		if err := st.StartRun(ctx, *opts.Run); err != nil {
			st.Close()
			return nil, rainbow.NewSinkUnavailable(path, err)
		}
	}

	batch, err := st.BeginBatch(ctx, opts.BatchSize)
	if err != nil {
		st.Close()
		return nil, rainbow.NewSinkUnavailable(path, err)
	}

	return &Keyed{st: st, batch: batch, run: opts.Run, digestLen: opts.DigestLen}, nil
}

// Path returns the database path.
func (s *Keyed) Path() string { return s.st.Path() }

// Append inserts one (digest, plaintext) row. A cancelled ctx does not
// discard the row: everything appended before Close is committed by Close.
func (s *Keyed) Append(_ context.Context, p rainbow.Pair) error {
	if s.closed {
		return ErrClosed
	}
	if err := s.batch.Put(p.Digest, p.Plaintext); err != nil {
		return rainbow.NewIOError("append pair", s.st.Path(), err)
	}
	return nil
}

// AppendLine parses a combined "<digest>:<plaintext>" line and inserts it.
// The line is split on its first colon, so colons in the plaintext are kept.
func (s *Keyed) AppendLine(ctx context.Context, line string) error {
	p, err := rainbow.ParseLine(line, s.digestLen)
	if err != nil {
		return &rainbow.Error{Code: rainbow.ErrCodeDecode, Op: "parse pair", Path: s.st.Path(), Err: err}
	}
	return s.Append(ctx, p)
}

// Close commits pending rows, finishes the run record and closes the
// database. Every step is attempted; their errors are joined.
func (s *Keyed) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	if err := s.batch.Commit(); err != nil {
		errs = append(errs, err)
	}
	if s.run != nil && len(errs) == 0 {
		if err := s.st.FinishRun(context.Background(), s.run.ID, s.batch.Written()); err != nil {
			errs = append(errs, err)
		}
	}
	if err := s.st.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close database: %w", err))
	}

	if err := errors.Join(errs...); err != nil {
		return rainbow.NewIOError("close", s.st.Path(), err)
	}
	return nil
}
