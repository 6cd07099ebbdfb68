package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/leprechaun/internal/chain"
	"github.com/roach88/leprechaun/internal/digest"
	"github.com/roach88/leprechaun/internal/rainbow"
	"github.com/roach88/leprechaun/internal/sink"
	"github.com/roach88/leprechaun/internal/store"
	"github.com/roach88/leprechaun/internal/wordlist"
)

// Request describes one complete generation run.
type Request struct {
	// Algorithm is a digest registry name or alias.
	Algorithm string

	Chain     chain.Config
	Wordlists []string
	Target    sink.Target

	// Encoding is the wordlist encoding label. Default: utf-8.
	Encoding string

	// Workers overrides the detected unit count when > 0.
	Workers int

	// Units defaults to DetectUnits.
	Units UnitCounter

	// RunIDs defaults to UUIDv7Generator.
	RunIDs RunIDGenerator

	Logger *slog.Logger
}

// Generate runs a complete generation: validate, open the sink, hash every
// wordlist, close the sink.
//
// Configuration errors and SinkUnavailable are returned before any wordlist
// is opened, with a nil report. Once the sink is open it is closed exactly
// once; a close failure is returned because buffered pairs may be lost.
// Per-file failures are only in the report.
func Generate(ctx context.Context, req Request) (*Report, error) {
	logger := req.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c, err := buildChain(req)
	if err != nil {
		return nil, err
	}
	if len(req.Wordlists) == 0 {
		return nil, rainbow.NewConfigError("validate run", errors.New("no wordlists given"))
	}
	if err := wordlist.ValidateEncoding(req.Encoding); err != nil {
		return nil, err
	}

	gen := req.RunIDs
	if gen == nil {
		gen = UUIDv7Generator{}
	}
	runID := gen.Generate()
	logger = logger.With("run_id", runID)

	target := req.Target
	target.DigestLen = c.Algorithm().HexLen()
	if target.Kind == sink.KindKeyed {
		target.Run = &store.Run{
			ID:                 runID,
			Algorithm:          c.Algorithm().Name(),
			Iterations:         req.Chain.Iterations,
			Prefix:             req.Chain.Prefix,
			Postfix:            req.Chain.Postfix,
			SaltFirstRoundOnly: req.Chain.SaltFirstRoundOnly,
		}
	}

	s, err := sink.Open(ctx, target)
	if err != nil {
		return nil, err
	}
	logger.Info("output opened", "kind", target.Kind.String(), "path", target.File())

	opts := []Option{
		WithWorkers(req.Workers),
		WithEncoding(req.Encoding),
		WithLogger(logger),
	}
	if req.Units != nil {
		opts = append(opts, WithUnits(req.Units))
	}
	eng := New(c, opts...)
	logger.Info("hashing wordlists",
		"algorithm", c.Algorithm().Name(),
		"iterations", req.Chain.Iterations,
		"mode", eng.Mode().String(),
		"wordlists", len(req.Wordlists),
	)

	report, runErr := eng.Run(ctx, s, req.Wordlists)
	closeErr := s.Close()
	if closeErr != nil {
		logger.Error("closing output failed", "path", target.File(), "error", closeErr)
	}
	if report != nil {
		report.RunID = runID
		logger.Info("run complete",
			"pairs", report.Pairs(),
			"decode_errors", report.DecodeErrors(),
			"failed_files", len(report.Failed()),
		)
	}

	return report, errors.Join(runErr, closeErr)
}

func buildChain(req Request) (*chain.Chain, error) {
	alg, err := digest.Lookup(req.Algorithm)
	if err != nil {
		return nil, rainbow.NewConfigError("select algorithm", err)
	}
	c, err := chain.New(alg, req.Chain)
	if err != nil {
		return nil, fmt.Errorf("build chain: %w", err)
	}
	return c, nil
}
