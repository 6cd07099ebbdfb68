package harness

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/leprechaun/internal/engine"
	"github.com/roach88/leprechaun/internal/rainbow"
)

func pairs(lines ...string) []rainbow.Pair {
	out := make([]rainbow.Pair, 0, len(lines))
	for _, l := range lines {
		p, err := rainbow.ParseLine(l, 0)
		if err != nil {
			panic(err)
		}
		out = append(out, p)
	}
	return out
}

func TestAssertPairPresent(t *testing.T) {
	table := pairs("aa:one", "bb:two")

	assert.NoError(t, assertPairPresent(table, Assertion{Digest: "aa", Plaintext: "one"}))
	assert.NoError(t, assertPairPresent(table, Assertion{Digest: "bb"}), "empty plaintext matches any")
	assert.Error(t, assertPairPresent(table, Assertion{Digest: "aa", Plaintext: "two"}))
	assert.Error(t, assertPairPresent(nil, Assertion{Digest: "aa"}))
}

func TestAssertLookup_Order(t *testing.T) {
	table := pairs("aa:one", "bb:x", "aa:two")

	assert.NoError(t, assertLookup(table, Assertion{Digest: "aa", Plaintexts: []string{"one", "two"}}))
	assert.Error(t, assertLookup(table, Assertion{Digest: "aa", Plaintexts: []string{"two", "one"}}))
	assert.NoError(t, assertLookup(table, Assertion{Digest: "cc"}), "no plaintexts means no rows")
}

func TestAssertDecodeErrors(t *testing.T) {
	result := NewResult()
	result.Report = &engine.Summary{DecodeErrors: 2}

	assert.NoError(t, assertDecodeErrors(result, Assertion{Count: 2}))
	assert.Error(t, assertDecodeErrors(result, Assertion{Count: 0}))
	assert.NoError(t, assertDecodeErrors(NewResult(), Assertion{Count: 0}), "no report counts as zero")
}

func TestAssertionError_TruncatesTable(t *testing.T) {
	var lines []string
	for i := 0; i < maxListedPairs+5; i++ {
		lines = append(lines, fmt.Sprintf("%02x:w%d", i, i))
	}
	err := assertPairCount(pairs(lines...), Assertion{Count: 1})
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "Assertion failed: pair_count")
	assert.Contains(t, msg, fmt.Sprintf("Table (%d rows)", maxListedPairs+5))
	assert.Contains(t, msg, "... 5 more")
}
