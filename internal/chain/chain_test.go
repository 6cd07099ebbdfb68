package chain

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/leprechaun/internal/digest"
	"github.com/roach88/leprechaun/internal/rainbow"
)

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

func mustAlg(t *testing.T, name string) digest.Algorithm {
	t.Helper()
	a, err := digest.Lookup(name)
	require.NoError(t, err)
	return a
}

func mustChain(t *testing.T, name string, cfg Config) *Chain {
	t.Helper()
	c, err := New(mustAlg(t, name), cfg)
	require.NoError(t, err)
	return c
}

func TestNew_RejectsZeroIterations(t *testing.T) {
	for _, n := range []int{0, -1} {
		_, err := New(mustAlg(t, digest.MD5), Config{Iterations: n})
		require.Error(t, err)
		assert.True(t, rainbow.IsConfigError(err), "iterations=%d", n)
		assert.Contains(t, err.Error(), "iterations must be >= 1")
	}
}

func TestNew_RejectsMissingAlgorithm(t *testing.T) {
	_, err := New(digest.Algorithm{}, Config{Iterations: 1})
	require.Error(t, err)
	assert.True(t, rainbow.IsConfigError(err))
}

func TestDigest_SingleRound(t *testing.T) {
	c := mustChain(t, digest.MD5, Config{Iterations: 1})

	got, err := c.Digest("password\n")
	require.NoError(t, err)
	assert.Equal(t, "5f4dcc3b5aa765d61d8327deb882cf99", got)

	got, err = c.Digest("admin")
	require.NoError(t, err)
	assert.Equal(t, "21232f297a57a5a743894a0e4a801fc3", got)
}

func TestDigest_SingleRoundEqualsOneSaltedDigest(t *testing.T) {
	c := mustChain(t, digest.MD5, Config{Iterations: 1, Prefix: "a", Postfix: "b"})

	got, err := c.Digest("password")
	require.NoError(t, err)
	assert.Equal(t, md5Hex("apasswordb"), got)
	assert.Equal(t, "81f97e00d50d78a893a54171ae0a3be6", got)
}

func TestDigest_SaltFirstRoundOnly(t *testing.T) {
	firstOnly := mustChain(t, digest.MD5, Config{
		Iterations: 2, Prefix: "a", Postfix: "b", SaltFirstRoundOnly: true,
	})
	always := mustChain(t, digest.MD5, Config{
		Iterations: 2, Prefix: "a", Postfix: "b",
	})

	got, err := firstOnly.Digest("password")
	require.NoError(t, err)
	assert.Equal(t, md5Hex(md5Hex("apasswordb")), got)
	assert.Equal(t, "0cff73e0534bf50d630a5167929dffc8", got)

	salted, err := always.Digest("password")
	require.NoError(t, err)
	assert.Equal(t, md5Hex("a"+md5Hex("apasswordb")+"b"), salted)
	assert.Equal(t, "8930636dd7e0d2a04b2d76a23abcdce4", salted)

	assert.NotEqual(t, got, salted)
}

func TestDigest_SaltFirstRoundOnlyDoesNotLeakBetweenCalls(t *testing.T) {
	c := mustChain(t, digest.MD5, Config{
		Iterations: 2, Prefix: "a", Postfix: "b", SaltFirstRoundOnly: true,
	})

	first, err := c.Digest("password")
	require.NoError(t, err)
	second, err := c.Digest("password")
	require.NoError(t, err)

	// The salt must apply to round 1 of every plaintext, not only the first one.
	assert.Equal(t, first, second)
	assert.Equal(t, "a", c.Config().Prefix)
	assert.Equal(t, "b", c.Config().Postfix)
}

func TestDigest_Iterations(t *testing.T) {
	c := mustChain(t, digest.SHA256, Config{Iterations: 3})

	got, err := c.Digest("password")
	require.NoError(t, err)
	assert.Equal(t, "e454ae1cc3ba6795d4423be232a1112845d954f3392df03818999573b5076c63", got)
}

func TestDigest_Composability(t *testing.T) {
	words := []string{"password", "admin", "", "hunter2", "ünïcødé"}
	configs := []Config{
		{Prefix: "", Postfix: ""},
		{Prefix: "pre", Postfix: "post"},
		{Prefix: "pre", Postfix: "post", SaltFirstRoundOnly: true},
	}

	for _, base := range configs {
		for n := 1; n <= 4; n++ {
			for _, w := range words {
				name := fmt.Sprintf("%+v/n=%d/%q", base, n, w)

				cfgN := base
				cfgN.Iterations = n
				cfgN1 := base
				cfgN1.Iterations = n + 1

				dn, err := mustChain(t, digest.SHA1, cfgN).Digest(w)
				require.NoError(t, err, name)
				dn1, err := mustChain(t, digest.SHA1, cfgN1).Digest(w)
				require.NoError(t, err, name)

				// One more round over the final digest: salted unless the
				// salt is restricted to round 1.
				extra := Config{Iterations: 1}
				if !base.SaltFirstRoundOnly {
					extra.Prefix, extra.Postfix = base.Prefix, base.Postfix
				}
				again, err := mustChain(t, digest.SHA1, extra).Digest(dn)
				require.NoError(t, err, name)

				assert.Equal(t, dn1, again, name)
			}
		}
	}
}

func TestDigest_HexFormat(t *testing.T) {
	for _, name := range digest.Names() {
		t.Run(name, func(t *testing.T) {
			a := mustAlg(t, name)
			c := mustChain(t, name, Config{Iterations: 2})
			got, err := c.Digest("password")
			require.NoError(t, err)
			assert.Len(t, got, a.HexLen())
			assert.True(t, rainbow.IsHex(got))
		})
	}
}

func TestDigest_InvalidUTF8(t *testing.T) {
	c := mustChain(t, digest.MD5, Config{Iterations: 1})

	_, err := c.Digest("caf\xe9\n")
	require.Error(t, err)
	assert.True(t, rainbow.IsDecodeError(err))
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}

func TestPair(t *testing.T) {
	c := mustChain(t, digest.MD5, Config{Iterations: 1})

	p, err := c.Pair("password\r\n")
	require.NoError(t, err)
	assert.Equal(t, rainbow.Pair{Digest: "5f4dcc3b5aa765d61d8327deb882cf99", Plaintext: "password"}, p)
}

func TestTrimNewline(t *testing.T) {
	assert.Equal(t, "word", TrimNewline("word\n"))
	assert.Equal(t, "word", TrimNewline("word\r\n"))
	assert.Equal(t, "word\r", TrimNewline("word\r"))
	assert.Equal(t, "word\n", TrimNewline("word\n\n"))
	assert.Equal(t, "", TrimNewline("\n"))
}

func TestDigest_ConcurrentUse(t *testing.T) {
	c := mustChain(t, digest.MD5, Config{Iterations: 5, Prefix: "x", SaltFirstRoundOnly: true})
	want, err := c.Digest("password")
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]string, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = c.Digest("password")
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}
