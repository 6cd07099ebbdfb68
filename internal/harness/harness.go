package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/roach88/leprechaun/internal/engine"
	"github.com/roach88/leprechaun/internal/rainbow"
	"github.com/roach88/leprechaun/internal/sink"
	"github.com/roach88/leprechaun/internal/store"
	"github.com/roach88/leprechaun/internal/testutil"
)

// tableName is the output path (before the kind suffix) inside the scratch
// directory.
const tableName = "table"

// Harness executes one scenario in a scratch directory.
type Harness struct {
	dir    string
	paths  map[string]string
	logger *slog.Logger
}

// Run executes a scenario and returns the result.
//
// The wordlists and the table are created inside dir, which should be empty
// (t.TempDir()). The returned error reports harness failures only; run
// errors and failed assertions are in the result.
//
// Execution flow:
// 1. Write the scenario wordlists
// 2. Run engine.Generate with a fixed run id and unit count
// 3. Read the table back
// 4. Evaluate expect_error and the assertions
func Run(ctx context.Context, scenario *Scenario, dir string) (*Result, error) {
	h := &Harness{
		dir:    dir,
		paths:  make(map[string]string, len(scenario.Wordlists)),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}

	wordlists, err := h.writeWordlists(scenario.Wordlists)
	if err != nil {
		return nil, err
	}

	target := sink.Target{Kind: sink.KindFlat, Path: filepath.Join(dir, tableName)}
	if scenario.Output == OutputKeyed {
		target.Kind = sink.KindKeyed
	}

	units := scenario.Workers
	if units == 0 {
		units = 1
	}

	report, genErr := engine.Generate(ctx, engine.Request{
		Algorithm: scenario.Settings.Algorithm,
		Chain:     scenario.Settings.Chain(),
		Wordlists: wordlists,
		Target:    target,
		Encoding:  scenario.Settings.Encoding,
		Units:     engine.FixedUnits(units),
		RunIDs:    testutil.NewFixedRunIDGenerator(scenario.RunID),
		Logger:    h.logger,
	})

	result := NewResult()
	result.Err = genErr
	if report != nil {
		summary := report.Summary()
		result.Report = &summary
	}

	h.checkError(scenario.ExpectError, genErr, result)

	pairs, err := h.readTable(ctx, target)
	if err != nil {
		return nil, err
	}
	result.Pairs = pairs

	actx := &AssertionContext{Paths: h.paths}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(msg)
	}

	return result, nil
}

func (h *Harness) writeWordlists(lists []Wordlist) ([]string, error) {
	paths := make([]string, 0, len(lists))
	for _, w := range lists {
		path := filepath.Join(h.dir, w.Name)
		h.paths[w.Name] = path
		paths = append(paths, path)
		if w.Missing {
			continue
		}
		content, err := w.Content()
		if err != nil {
			return nil, fmt.Errorf("wordlist %s: %w", w.Name, err)
		}
		if err := os.WriteFile(path, content, 0644); err != nil {
			return nil, fmt.Errorf("failed to write wordlist %s: %w", w.Name, err)
		}
	}
	return paths, nil
}

func (h *Harness) checkError(expected string, err error, result *Result) {
	switch {
	case expected == "" && err != nil:
		result.AddError(fmt.Sprintf("unexpected run error: %v", err))
	case expected != "" && err == nil:
		result.AddError(fmt.Sprintf("expected %s, run succeeded", expected))
	case expected != "" && string(rainbow.CodeOf(err)) != expected:
		result.AddError(fmt.Sprintf("expected %s, got %v", expected, err))
	}
}

// readTable returns the table content in storage order. A table that was
// never created reads as empty.
func (h *Harness) readTable(ctx context.Context, target sink.Target) ([]rainbow.Pair, error) {
	path := target.File()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return []rainbow.Pair{}, nil
	}

	if target.Kind == sink.KindKeyed {
		return readKeyed(ctx, path)
	}
	return readFlat(path)
}

func readFlat(path string) ([]rainbow.Pair, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open table: %w", err)
	}
	defer f.Close()

	pairs := []rainbow.Pair{}
	for p, err := range sink.ScanFlat(f, 0) {
		if err != nil {
			return nil, fmt.Errorf("failed to read table: %w", err)
		}
		pairs = append(pairs, p)
	}
	return pairs, nil
}

func readKeyed(ctx context.Context, path string) ([]rainbow.Pair, error) {
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open table: %w", err)
	}
	defer st.Close()

	rows, err := st.Query(ctx, "SELECT digest, plaintext FROM rainbow ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("failed to query table: %w", err)
	}
	defer rows.Close()

	pairs := []rainbow.Pair{}
	for rows.Next() {
		var p rainbow.Pair
		if err := rows.Scan(&p.Digest, &p.Plaintext); err != nil {
			return nil, fmt.Errorf("failed to scan pair: %w", err)
		}
		pairs = append(pairs, p)
	}
	return pairs, rows.Err()
}
