// Package chain implements the salted, iterated digest chain applied to
// every plaintext of a wordlist.
//
// One round feeds prefix, the round input and postfix into fresh hash state
// and finalizes to lowercase hex. Round 1 consumes the plaintext; every later
// round consumes the previous round's hex digest. With SaltFirstRoundOnly the
// prefix and postfix apply to round 1 only.
package chain

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/roach88/leprechaun/internal/digest"
	"github.com/roach88/leprechaun/internal/rainbow"
)

// ErrInvalidUTF8 is the cause of the DecodeError returned for plaintexts
// that are not valid UTF-8.
var ErrInvalidUTF8 = errors.New("plaintext is not valid UTF-8")

// Config is the per-run chain configuration. It is a value: once a Chain is
// built from it, nothing mutates it.
type Config struct {
	Iterations         int    `json:"iterations" yaml:"iterations"`
	Prefix             string `json:"prefix" yaml:"prefix"`
	Postfix            string `json:"postfix" yaml:"postfix"`
	SaltFirstRoundOnly bool   `json:"salt_first_round_only" yaml:"salt_first_round_only"`
}

// Validate checks the configuration invariants.
func (c Config) Validate() error {
	if c.Iterations < 1 {
		return rainbow.NewConfigError("validate chain",
			fmt.Errorf("iterations must be >= 1, got %d", c.Iterations))
	}
	return nil
}

// Chain applies a Config with one digest algorithm.
//
// Thread-safety: Chain holds no mutable state; Digest and Pair may be called
// from any number of goroutines.
type Chain struct {
	alg digest.Algorithm
	cfg Config
}

// New validates cfg and returns a Chain. Fails with a ConfigError for
// iterations < 1 or an unset algorithm.
func New(alg digest.Algorithm, cfg Config) (*Chain, error) {
	if !alg.Valid() {
		return nil, rainbow.NewConfigError("validate chain", errors.New("no digest algorithm"))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Chain{alg: alg, cfg: cfg}, nil
}

// Algorithm returns the digest algorithm of the chain.
func (c *Chain) Algorithm() digest.Algorithm { return c.alg }

// Config returns a copy of the chain configuration.
func (c *Chain) Config() Config { return c.cfg }

// Digest runs the chain over one plaintext and returns the final hex digest.
// A trailing newline (and a carriage return before it) is not hashed.
func (c *Chain) Digest(plaintext string) (string, error) {
	input := TrimNewline(plaintext)
	if !utf8.ValidString(input) {
		return "", rainbow.NewDecodeError("", 0, ErrInvalidUTF8)
	}

	h := c.alg.New()
	prefix, postfix := []byte(c.cfg.Prefix), []byte(c.cfg.Postfix)
	sum := make([]byte, 0, c.alg.Size())
	buf := make([]byte, 0, c.alg.HexLen())

	// Round 1 hashes the plaintext; buf holds the hex output of each round.
	round := []byte(input)
	for i := 0; i < c.cfg.Iterations; i++ {
		h.Reset()
		h.Write(prefix)
		h.Write(round)
		h.Write(postfix)
		sum = h.Sum(sum[:0])
		buf = hex.AppendEncode(buf[:0], sum)
		round = buf

		if i == 0 && c.cfg.SaltFirstRoundOnly {
			prefix, postfix = nil, nil
		}
	}

	return string(buf), nil
}

// Pair runs the chain and pairs the digest with the newline-stripped plaintext.
func (c *Chain) Pair(plaintext string) (rainbow.Pair, error) {
	d, err := c.Digest(plaintext)
	if err != nil {
		return rainbow.Pair{}, err
	}
	return rainbow.Pair{Digest: d, Plaintext: TrimNewline(plaintext)}, nil
}

// TrimNewline removes one trailing "\n" or "\r\n".
func TrimNewline(s string) string {
	s, ok := strings.CutSuffix(s, "\n")
	if ok {
		s = strings.TrimSuffix(s, "\r")
	}
	return s
}
