package engine

import (
	"fmt"
	"runtime"
)

// ModeKind distinguishes the two execution modes.
type ModeKind int

const (
	// ModeSingle hashes wordlists sequentially on the calling goroutine.
	ModeSingle ModeKind = iota + 1
	// ModeParallel hashes wordlists on a pool of workers.
	ModeParallel
)

// Mode is the execution strategy of a run.
type Mode struct {
	Kind    ModeKind
	Workers int
}

// Single returns the sequential mode.
func Single() Mode {
	return Mode{Kind: ModeSingle, Workers: 1}
}

// Parallel returns the worker pool mode with n workers.
func Parallel(n int) Mode {
	return Mode{Kind: ModeParallel, Workers: n}
}

// String returns "single" or "parallel(n)".
func (m Mode) String() string {
	switch m.Kind {
	case ModeSingle:
		return "single"
	case ModeParallel:
		return fmt.Sprintf("parallel(%d)", m.Workers)
	default:
		return "unknown"
	}
}

// SelectMode picks the mode for a run. A positive override replaces the
// detected unit count. One unit or fewer selects Single.
func SelectMode(units, override int) Mode {
	if override > 0 {
		units = override
	}
	if units <= 1 {
		return Single()
	}
	return Parallel(units)
}

// UnitCounter reports the number of available processing units.
type UnitCounter func() int

// DetectUnits returns the number of CPUs usable by this process.
func DetectUnits() int {
	return runtime.NumCPU()
}

// FixedUnits returns a UnitCounter that always reports n.
func FixedUnits(n int) UnitCounter {
	return func() int { return n }
}
