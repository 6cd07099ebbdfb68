package harness

import (
	"encoding/json"
	"path/filepath"
	"slices"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/leprechaun/internal/rainbow"
)

// TableSnapshot captures the observable outcome of a scenario execution.
type TableSnapshot struct {
	ScenarioName string   `json:"scenario_name"`
	RunID        string   `json:"run_id,omitempty"`
	Mode         string   `json:"mode,omitempty"`
	Table        []string `json:"table"`
	DecodeErrors int64    `json:"decode_errors"`
	Failed       []string `json:"failed,omitempty"`
	Errors       []string `json:"errors,omitempty"`
}

// Snapshot builds the snapshot of result. Table lines are sorted when the
// scenario ran in parallel mode, where only per-file order is defined.
// Failed wordlists are listed by base name so snapshots do not depend on
// the scratch directory.
func Snapshot(scenario *Scenario, result *Result) TableSnapshot {
	s := TableSnapshot{
		ScenarioName: scenario.Name,
		Table:        make([]string, 0, len(result.Pairs)),
		Errors:       result.Errors,
	}
	for _, p := range result.Pairs {
		s.Table = append(s.Table, rainbow.FormatLine(p))
	}
	if scenario.Workers > 1 {
		slices.Sort(s.Table)
	}
	if r := result.Report; r != nil {
		s.RunID = r.RunID
		s.Mode = r.Mode
		s.DecodeErrors = r.DecodeErrors
		for _, f := range r.Files {
			if f.Error != "" {
				s.Failed = append(s.Failed, filepath.Base(f.Path))
			}
		}
	}
	return s
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns the result so callers can also check result.Pass.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(t.Context(), scenario, t.TempDir())
	if err != nil {
		return nil, err
	}

	if err := AssertGolden(t, scenario, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares the snapshot of an existing result against its
// golden file without re-running the scenario.
func AssertGolden(t *testing.T, scenario *Scenario, result *Result) error {
	t.Helper()

	data, err := json.MarshalIndent(Snapshot(scenario, result), "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)

	return nil
}
