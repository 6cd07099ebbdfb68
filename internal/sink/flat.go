package sink

import (
	"bufio"
	"context"
	"errors"
	"io"
	"iter"
	"os"

	"github.com/roach88/leprechaun/internal/rainbow"
)

const flatBufferSize = 64 * 1024

// Flat appends wire format lines to a text file.
type Flat struct {
	path   string
	f      *os.File
	w      *bufio.Writer
	closed bool
}

// OpenFlat opens path for appending, creating it if absent.
// The path is used verbatim.
func OpenFlat(path string) (*Flat, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, rainbow.NewSinkUnavailable(path, unwrapPath(err))
	}
	return &Flat{path: path, f: f, w: bufio.NewWriterSize(f, flatBufferSize)}, nil
}

// Path returns the file path.
func (s *Flat) Path() string { return s.path }

// Append buffers one "<digest>:<plaintext>\n" line.
func (s *Flat) Append(_ context.Context, p rainbow.Pair) error {
	if s.closed {
		return ErrClosed
	}
	if _, err := s.w.WriteString(rainbow.FormatLine(p)); err != nil {
		return rainbow.NewIOError("append pair", s.path, err)
	}
	return nil
}

// Flush writes buffered lines to the file.
func (s *Flat) Flush() error {
	if s.closed {
		return ErrClosed
	}
	if err := s.w.Flush(); err != nil {
		return rainbow.NewIOError("flush", s.path, err)
	}
	return nil
}

// Close flushes buffered lines, then closes the file.
// The file is closed even if the flush fails.
func (s *Flat) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	flushErr := s.w.Flush()
	closeErr := s.f.Close()
	if flushErr != nil {
		return rainbow.NewIOError("flush", s.path, flushErr)
	}
	if closeErr != nil {
		return rainbow.NewIOError("close", s.path, unwrapPath(closeErr))
	}
	return nil
}

// ScanFlat reads a flat rainbow file back as pairs. Lines that do not parse
// yield an error and scanning continues; digestLen is passed to
// rainbow.ParseLine.
func ScanFlat(r io.Reader, digestLen int) iter.Seq2[rainbow.Pair, error] {
	return func(yield func(rainbow.Pair, error) bool) {
		br := bufio.NewReaderSize(r, flatBufferSize)
		lineNo := 0
		for {
			line, err := br.ReadString('\n')
			if line != "" {
				lineNo++
				p, perr := rainbow.ParseLine(line, digestLen)
				if perr != nil {
					perr = &rainbow.Error{Code: rainbow.ErrCodeDecode, Op: "parse pair", Line: lineNo, Err: perr}
					if !yield(rainbow.Pair{}, perr) {
						return
					}
				} else if !yield(p, nil) {
					return
				}
			}
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(rainbow.Pair{}, rainbow.NewIOError("read pairs", "", err))
				return
			}
		}
	}
}

// unwrapPath strips the *PathError wrapper; rainbow.Error carries the path.
func unwrapPath(err error) error {
	var pe *os.PathError
	if errors.As(err, &pe) {
		return pe.Err
	}
	return err
}
