// Package sink persists digest/plaintext pairs.
//
// Two variants implement [Sink]:
//   - [Flat]: appends "<digest>:<plaintext>\n" lines to <target>.txt
//   - [Keyed]: inserts (digest, plaintext) rows into the SQLite rainbow
//     table at <target>.db
//
// A Sink is owned by exactly one goroutine for the lifetime of a run and is
// not safe for concurrent use; parallel producers funnel pairs to a single
// writer instead.
package sink

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/leprechaun/internal/rainbow"
	"github.com/roach88/leprechaun/internal/store"
)

// ErrClosed is returned by Append after Close.
var ErrClosed = errors.New("sink: closed")

// Sink persists pairs.
type Sink interface {
	// Append persists one pair. Duplicate digests are all kept.
	Append(ctx context.Context, p rainbow.Pair) error

	// Close flushes or commits everything appended and releases the
	// underlying handle. Closing an already closed sink is a no-op.
	Close() error
}

// Kind selects a sink variant.
type Kind int

const (
	// KindFlat writes an append-only text file.
	KindFlat Kind = iota
	// KindKeyed writes a SQLite lookup table.
	KindKeyed
)

// File suffixes appended to sink targets.
const (
	FlatSuffix  = ".txt"
	KeyedSuffix = ".db"
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindFlat:
		return "flat"
	case KindKeyed:
		return "keyed"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Suffix returns the file suffix of the kind.
func (k Kind) Suffix() string {
	if k == KindKeyed {
		return KeyedSuffix
	}
	return FlatSuffix
}

// Target describes where a run's pairs go.
type Target struct {
	Kind Kind

	// Path is the output name; the kind's suffix is appended unless the
	// path already ends with it.
	Path string

	// BatchSize is the number of rows per transaction (keyed only).
	BatchSize int

	// Run, when set, is recorded in the keyed store's runs table on open
	// and marked finished on close.
	Run *store.Run

	// DigestLen is the expected hex digest length of combined lines
	// (keyed only, zero accepts any length).
	DigestLen int
}

// File returns the path of the file the target resolves to.
func (t Target) File() string {
	return WithSuffix(t.Path, t.Kind.Suffix())
}

// WithSuffix appends suffix to path unless it is already there.
func WithSuffix(path, suffix string) string {
	if strings.HasSuffix(path, suffix) {
		return path
	}
	return path + suffix
}

// Open constructs the sink for t. Any failure is a SinkUnavailable error.
func Open(ctx context.Context, t Target) (Sink, error) {
	if t.Path == "" {
		return nil, rainbow.NewSinkUnavailable("", errors.New("no output path"))
	}

	switch t.Kind {
	case KindFlat:
		return OpenFlat(t.File())
	case KindKeyed:
		return OpenKeyed(ctx, t.File(), KeyedOptions{
			BatchSize: t.BatchSize,
			Run:       t.Run,
			DigestLen: t.DigestLen,
		})
	default:
		return nil, rainbow.NewSinkUnavailable(t.Path, fmt.Errorf("unknown sink kind %v", t.Kind))
	}
}
