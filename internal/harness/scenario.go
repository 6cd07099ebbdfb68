package harness

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/leprechaun/internal/chain"
	"github.com/roach88/leprechaun/internal/rainbow"
)

// Scenario defines one generation run and the assertions over its table.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	Settings Settings `yaml:"settings"`

	// Output is "flat" or "keyed".
	Output string `yaml:"output"`

	// Workers selects the mode: 1 (or 0) for single, more for parallel.
	Workers int `yaml:"workers,omitempty"`

	// Wordlists are written to the scratch directory in this order and
	// passed to the run in this order.
	Wordlists []Wordlist `yaml:"wordlists"`

	// ExpectError, when set, is the rainbow.ErrorCode Generate must fail
	// with. Assertions still run against whatever table was produced.
	ExpectError string `yaml:"expect_error,omitempty"`

	Assertions []Assertion `yaml:"assertions"`

	// RunID is the fixed run id. Defaults to "test-run-default".
	RunID string `yaml:"run_id,omitempty"`
}

// Settings holds the chain settings of a scenario.
type Settings struct {
	Algorithm          string `yaml:"algorithm"`
	Iterations         int    `yaml:"iterations"`
	Prefix             string `yaml:"prefix,omitempty"`
	Postfix            string `yaml:"postfix,omitempty"`
	SaltFirstRoundOnly bool   `yaml:"salt_first_round_only,omitempty"`
	Encoding           string `yaml:"encoding,omitempty"`
}

// Chain returns the chain configuration.
func (s Settings) Chain() chain.Config {
	return chain.Config{
		Iterations:         s.Iterations,
		Prefix:             s.Prefix,
		Postfix:            s.Postfix,
		SaltFirstRoundOnly: s.SaltFirstRoundOnly,
	}
}

// Wordlist is one input file. Exactly one of Lines, Hex and Missing is used.
type Wordlist struct {
	Name string `yaml:"name"`

	// Lines are written newline-terminated.
	Lines []string `yaml:"lines,omitempty"`

	// Hex is the raw file content, hex encoded.
	Hex string `yaml:"hex,omitempty"`

	// Missing makes the harness pass the path without creating the file.
	Missing bool `yaml:"missing,omitempty"`
}

// Content returns the bytes to write for w.
func (w Wordlist) Content() ([]byte, error) {
	if w.Hex != "" {
		return hex.DecodeString(w.Hex)
	}
	var buf bytes.Buffer
	for _, l := range w.Lines {
		buf.WriteString(l)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// Assertion validates the generated table or the run report.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	Digest     string   `yaml:"digest,omitempty"`
	Plaintext  string   `yaml:"plaintext,omitempty"`
	Plaintexts []string `yaml:"plaintexts,omitempty"`
	Count      int      `yaml:"count,omitempty"`

	// Wordlist names a scenario wordlist (file_failed).
	Wordlist string `yaml:"wordlist,omitempty"`
}

// Assertion type constants.
const (
	AssertPairPresent  = "pair_present"
	AssertPairAbsent   = "pair_absent"
	AssertPairCount    = "pair_count"
	AssertLookup       = "lookup"
	AssertFileFailed   = "file_failed"
	AssertDecodeErrors = "decode_errors"
)

// Output kinds.
const (
	OutputFlat  = "flat"
	OutputKeyed = "keyed"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "assertion:" vs "assertions:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
// Chain settings are not checked here: invalid settings are a legitimate
// scenario input (see ExpectError).
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Output != OutputFlat && s.Output != OutputKeyed {
		return fmt.Errorf("output must be %q or %q, got %q", OutputFlat, OutputKeyed, s.Output)
	}

	if s.Workers < 0 {
		return fmt.Errorf("workers must be >= 0")
	}

	if len(s.Wordlists) == 0 {
		return fmt.Errorf("wordlists list is required and must be non-empty")
	}

	seen := make(map[string]bool, len(s.Wordlists))
	for i, w := range s.Wordlists {
		if w.Name == "" {
			return fmt.Errorf("wordlists[%d]: name is required", i)
		}
		if seen[w.Name] {
			return fmt.Errorf("wordlists[%d]: duplicate name %q", i, w.Name)
		}
		seen[w.Name] = true

		sources := 0
		if len(w.Lines) > 0 {
			sources++
		}
		if w.Hex != "" {
			sources++
			if _, err := hex.DecodeString(w.Hex); err != nil {
				return fmt.Errorf("wordlists[%d]: invalid hex: %w", i, err)
			}
		}
		if w.Missing {
			sources++
		}
		if sources > 1 {
			return fmt.Errorf("wordlists[%d]: lines, hex and missing are mutually exclusive", i)
		}
	}

	if s.ExpectError != "" {
		switch rainbow.ErrorCode(s.ExpectError) {
		case rainbow.ErrCodeConfig, rainbow.ErrCodeSinkUnavailable, rainbow.ErrCodeIO:
		default:
			return fmt.Errorf("expect_error: unknown error code %q", s.ExpectError)
		}
	}

	if s.ExpectError == "" && len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a, seen); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion, wordlists map[string]bool) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertPairPresent:
		if a.Digest == "" {
			return fmt.Errorf("assertions[%d]: digest is required for pair_present", index)
		}
	case AssertPairAbsent:
		if a.Plaintext == "" {
			return fmt.Errorf("assertions[%d]: plaintext is required for pair_absent", index)
		}
	case AssertLookup:
		if a.Digest == "" {
			return fmt.Errorf("assertions[%d]: digest is required for lookup", index)
		}
	case AssertFileFailed:
		if !wordlists[a.Wordlist] {
			return fmt.Errorf("assertions[%d]: wordlist %q is not defined", index, a.Wordlist)
		}
	case AssertPairCount, AssertDecodeErrors:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be >= 0", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
