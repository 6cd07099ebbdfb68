package harness

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarios(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), ".yaml")
		t.Run(name, func(t *testing.T) {
			scenario, err := LoadScenario(path)
			require.NoError(t, err)
			assert.Equal(t, name, scenario.Name, "scenario name should match its file")

			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "scenario failed:\n%s", strings.Join(result.Errors, "\n"))
		})
	}
}

func TestRun_MinimalScenario(t *testing.T) {
	scenario := &Scenario{
		Name:        "minimal",
		Description: "Minimal test scenario",
		Settings:    Settings{Algorithm: "md5", Iterations: 1},
		Output:      OutputFlat,
		Wordlists:   []Wordlist{{Name: "w.txt", Lines: []string{"password"}}},
		Assertions: []Assertion{
			{Type: AssertPairPresent, Digest: "5f4dcc3b5aa765d61d8327deb882cf99", Plaintext: "password"},
		},
	}

	result, err := Run(t.Context(), scenario, t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.True(t, result.Pass)
	assert.Empty(t, result.Errors)
	require.NotNil(t, result.Report)
	assert.Equal(t, "test-run-default", result.Report.RunID)
	assert.Equal(t, "single", result.Report.Mode)
}

func TestRun_FailingAssertionsReported(t *testing.T) {
	scenario := &Scenario{
		Name:        "failing",
		Description: "Assertions that cannot hold",
		Settings:    Settings{Algorithm: "md5", Iterations: 1},
		Output:      OutputKeyed,
		Wordlists:   []Wordlist{{Name: "w.txt", Lines: []string{"password"}}},
		Assertions: []Assertion{
			{Type: AssertPairCount, Count: 5},
			{Type: AssertPairAbsent, Plaintext: "password"},
			{Type: AssertFileFailed, Wordlist: "w.txt"},
		},
	}

	result, err := Run(t.Context(), scenario, t.TempDir())
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 3)
	assert.Contains(t, result.Errors[0], "Expected: 5 rows")
	assert.Contains(t, result.Errors[0], "Actual: 1 rows")
	assert.Contains(t, result.Errors[1], "pair_absent")
	assert.Contains(t, result.Errors[2], "wordlist w.txt failed")
}

func TestRun_UnexpectedError(t *testing.T) {
	scenario := &Scenario{
		Name:        "unexpected",
		Description: "Unknown algorithm without expect_error",
		Settings:    Settings{Algorithm: "rot13", Iterations: 1},
		Output:      OutputFlat,
		Wordlists:   []Wordlist{{Name: "w.txt", Lines: []string{"x"}}},
	}

	result, err := Run(t.Context(), scenario, t.TempDir())
	require.NoError(t, err)

	assert.False(t, result.Pass)
	assert.Nil(t, result.Report)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], "unexpected run error")
}

func TestRun_ExpectedErrorMissing(t *testing.T) {
	scenario := &Scenario{
		Name:        "expected",
		Description: "Valid run that claims to fail",
		Settings:    Settings{Algorithm: "md5", Iterations: 1},
		Output:      OutputFlat,
		Wordlists:   []Wordlist{{Name: "w.txt", Lines: []string{"x"}}},
		ExpectError: "SINK_UNAVAILABLE",
	}

	result, err := Run(t.Context(), scenario, t.TempDir())
	require.NoError(t, err)

	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], "expected SINK_UNAVAILABLE, run succeeded")
}
