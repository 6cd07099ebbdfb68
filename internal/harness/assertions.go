package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/leprechaun/internal/rainbow"
)

// maxListedPairs bounds the table excerpt printed with a failed assertion.
const maxListedPairs = 20

// AssertionContext provides what assertions need beyond the result.
type AssertionContext struct {
	// Paths maps scenario wordlist names to their files.
	Paths map[string]string
}

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string         // Assertion type for categorization
	Expected string         // Human-readable expected outcome
	Actual   string         // Human-readable actual outcome
	Pairs    []rainbow.Pair // Table content for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Pairs) > 0 {
		fmt.Fprintf(&buf, "\nTable (%d rows):\n", len(e.Pairs))
		for i, p := range e.Pairs {
			if i == maxListedPairs {
				fmt.Fprintf(&buf, "  ... %d more\n", len(e.Pairs)-maxListedPairs)
				break
			}
			fmt.Fprintf(&buf, "  [%d] %s\n", i+1, rainbow.FormatLine(p))
		}
	}

	return buf.String()
}

// EvaluateAssertions runs every assertion and returns the failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var failures []string
	for _, a := range assertions {
		if err := evaluate(result, a, actx); err != nil {
			failures = append(failures, err.Error())
		}
	}
	return failures
}

func evaluate(result *Result, a Assertion, actx *AssertionContext) error {
	switch a.Type {
	case AssertPairPresent:
		return assertPairPresent(result.Pairs, a)
	case AssertPairAbsent:
		return assertPairAbsent(result.Pairs, a)
	case AssertPairCount:
		return assertPairCount(result.Pairs, a)
	case AssertLookup:
		return assertLookup(result.Pairs, a)
	case AssertFileFailed:
		return assertFileFailed(result, a, actx)
	case AssertDecodeErrors:
		return assertDecodeErrors(result, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// assertPairPresent checks for the row. An empty plaintext matches any
// plaintext for the digest.
func assertPairPresent(pairs []rainbow.Pair, a Assertion) error {
	for _, p := range pairs {
		if p.Digest == a.Digest && (a.Plaintext == "" || p.Plaintext == a.Plaintext) {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertPairPresent,
		Expected: rainbow.FormatLine(rainbow.Pair{Digest: a.Digest, Plaintext: a.Plaintext}),
		Actual:   "not found in table",
		Pairs:    pairs,
	}
}

func assertPairAbsent(pairs []rainbow.Pair, a Assertion) error {
	for _, p := range pairs {
		if p.Plaintext == a.Plaintext {
			return &AssertionError{
				Type:     AssertPairAbsent,
				Expected: fmt.Sprintf("no row for plaintext %q", a.Plaintext),
				Actual:   "found " + rainbow.FormatLine(p),
				Pairs:    pairs,
			}
		}
	}
	return nil
}

func assertPairCount(pairs []rainbow.Pair, a Assertion) error {
	if len(pairs) == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertPairCount,
		Expected: fmt.Sprintf("%d rows", a.Count),
		Actual:   fmt.Sprintf("%d rows", len(pairs)),
		Pairs:    pairs,
	}
}

func assertLookup(pairs []rainbow.Pair, a Assertion) error {
	got := []string{}
	for _, p := range pairs {
		if p.Digest == a.Digest {
			got = append(got, p.Plaintext)
		}
	}
	want := a.Plaintexts
	if want == nil {
		want = []string{}
	}
	if slices.Equal(got, want) {
		return nil
	}
	return &AssertionError{
		Type:     AssertLookup,
		Expected: fmt.Sprintf("%s -> %q", a.Digest, want),
		Actual:   fmt.Sprintf("%s -> %q", a.Digest, got),
		Pairs:    pairs,
	}
}

func assertFileFailed(result *Result, a Assertion, actx *AssertionContext) error {
	path := actx.Paths[a.Wordlist]
	if result.Report != nil {
		for _, f := range result.Report.Files {
			if f.Path == path && f.Error != "" {
				return nil
			}
		}
	}
	return &AssertionError{
		Type:     AssertFileFailed,
		Expected: fmt.Sprintf("wordlist %s failed", a.Wordlist),
		Actual:   "no error recorded",
	}
}

func assertDecodeErrors(result *Result, a Assertion) error {
	var got int64
	if result.Report != nil {
		got = result.Report.DecodeErrors
	}
	if got == int64(a.Count) {
		return nil
	}
	return &AssertionError{
		Type:     AssertDecodeErrors,
		Expected: fmt.Sprintf("%d skipped line(s)", a.Count),
		Actual:   fmt.Sprintf("%d skipped line(s)", got),
	}
}
