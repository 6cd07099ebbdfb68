package wordlist

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"

	"github.com/roach88/leprechaun/internal/chain"
	"github.com/roach88/leprechaun/internal/rainbow"
)

// DefaultMaxLineLength bounds a single wordlist line.
const DefaultMaxLineLength = 1 << 20

// EncodingUTF8 is the default wordlist encoding.
const EncodingUTF8 = "utf-8"

type options struct {
	path          string
	encoding      string
	maxLineLength int
}

// Option configures Hash.
type Option func(*options)

// WithPath names the source of the reader in errors.
func WithPath(path string) Option {
	return func(o *options) {
		o.path = path
	}
}

// WithEncoding selects the wordlist encoding by WHATWG label.
// Default: utf-8 (strict; invalid lines yield a DecodeError).
func WithEncoding(name string) Option {
	return func(o *options) {
		o.encoding = name
	}
}

// WithMaxLineLength sets the longest accepted line in bytes.
// Default: DefaultMaxLineLength.
func WithMaxLineLength(n int) Option {
	return func(o *options) {
		o.maxLineLength = n
	}
}

// Decoder returns the decoder for an encoding label, or nil for UTF-8,
// which is validated line by line instead of transcoded.
// Unknown labels fail with a ConfigError.
func Decoder(name string) (*encoding.Decoder, error) {
	if name == "" {
		return nil, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, rainbow.NewConfigError("select wordlist encoding",
			fmt.Errorf("unknown encoding %q: %w", name, err))
	}
	if canonical, err := htmlindex.Name(enc); err == nil && canonical == EncodingUTF8 {
		return nil, nil
	}
	return enc.NewDecoder(), nil
}

// ValidateEncoding reports whether name is a usable encoding label.
func ValidateEncoding(name string) error {
	_, err := Decoder(name)
	return err
}

// Open opens a wordlist file for reading. The caller must close it.
func Open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		cause := errors.Unwrap(err)
		if cause == nil {
			cause = err
		}
		return nil, rainbow.NewIOError("open wordlist", path, cause)
	}
	return f, nil
}

// Hash returns the pairs of every non-empty line of r.
//
// The sequence reads r lazily and can only be ranged over once. Pair values
// yielded alongside a non-nil error are zero.
func Hash(r io.Reader, c *chain.Chain, opts ...Option) iter.Seq2[rainbow.Pair, error] {
	o := options{encoding: EncodingUTF8, maxLineLength: DefaultMaxLineLength}
	for _, opt := range opts {
		opt(&o)
	}

	return func(yield func(rainbow.Pair, error) bool) {
		dec, err := Decoder(o.encoding)
		if err != nil {
			yield(rainbow.Pair{}, err)
			return
		}
		src := r
		if dec != nil {
			src = transform.NewReader(r, dec)
		}

		scanner := bufio.NewScanner(src)
		scanner.Buffer(make([]byte, 0, min(64*1024, o.maxLineLength)), o.maxLineLength)

		lineNo := 0
		for scanner.Scan() {
			lineNo++
			line := scanner.Text()
			if lineNo == 1 {
				line = strings.TrimPrefix(line, "\ufeff")
			}
			if line == "" {
				continue
			}

			p, err := c.Pair(line)
			if err != nil {
				var re *rainbow.Error
				if errors.As(err, &re) && re.Code == rainbow.ErrCodeDecode {
					re.Path, re.Line = o.path, lineNo
				}
				if !yield(rainbow.Pair{}, err) {
					return
				}
				continue
			}
			if !yield(p, nil) {
				return
			}
		}

		if err := scanner.Err(); err != nil {
			yield(rainbow.Pair{}, rainbow.NewIOError("read wordlist", o.path, err))
		}
	}
}
