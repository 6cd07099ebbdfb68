package rainbow

import (
	"fmt"
	"strings"
)

// Pair is one precomputed digest and the plaintext that produced it.
type Pair struct {
	Digest    string `json:"digest"`
	Plaintext string `json:"plaintext"`
}

// String returns the pair in wire format without the trailing newline.
func (p Pair) String() string {
	return p.Digest + ":" + p.Plaintext
}

// FormatLine returns the pair as a newline-terminated wire format line.
func FormatLine(p Pair) string {
	return p.Digest + ":" + p.Plaintext + "\n"
}

// ParseLine splits a wire format line into a Pair.
//
// The line is split on the first colon. A trailing newline (and carriage
// return) is removed first. The digest part must be non-empty lowercase
// hexadecimal; when digestLen is positive it must also be exactly digestLen
// characters long. The plaintext is kept verbatim, colons included.
func ParseLine(line string, digestLen int) (Pair, error) {
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")

	digest, plaintext, ok := strings.Cut(line, ":")
	if !ok {
		return Pair{}, fmt.Errorf("parse line: missing ':' separator")
	}
	if digest == "" {
		return Pair{}, fmt.Errorf("parse line: empty digest")
	}
	if !IsHex(digest) {
		return Pair{}, fmt.Errorf("parse line: digest %q is not lowercase hex", digest)
	}
	if digestLen > 0 && len(digest) != digestLen {
		return Pair{}, fmt.Errorf("parse line: digest length %d, expected %d", len(digest), digestLen)
	}

	return Pair{Digest: digest, Plaintext: plaintext}, nil
}

// IsHex reports whether s consists only of lowercase hexadecimal digits.
func IsHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
