package engine

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/roach88/leprechaun/internal/chain"
	"github.com/roach88/leprechaun/internal/rainbow"
	"github.com/roach88/leprechaun/internal/sink"
	"github.com/roach88/leprechaun/internal/wordlist"
)

// DefaultBufferSize is the capacity of the channel between workers and the
// sink writer in parallel mode.
const DefaultBufferSize = 4096

// Engine hashes wordlists with one chain.
//
// Thread-safety model:
//   - the chain is shared read-only by every worker
//   - Run must not be called concurrently with the same sink
type Engine struct {
	chain    *chain.Chain
	units    UnitCounter
	workers  int
	encoding string
	bufSize  int
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithUnits sets the processing unit counter.
//
// Default: DetectUnits.
func WithUnits(u UnitCounter) Option {
	return func(e *Engine) {
		e.units = u
	}
}

// WithWorkers overrides the detected unit count when n > 0.
// WithWorkers(1) forces single mode.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}

// WithEncoding sets the wordlist encoding label.
//
// Default: utf-8.
func WithEncoding(name string) Option {
	return func(e *Engine) {
		e.encoding = name
	}
}

// WithBufferSize sets the worker-to-writer channel capacity.
func WithBufferSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.bufSize = n
		}
	}
}

// WithLogger sets the logger.
//
// Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an Engine for c.
func New(c *chain.Chain, opts ...Option) *Engine {
	e := &Engine{
		chain:    c,
		units:    DetectUnits,
		encoding: wordlist.EncodingUTF8,
		bufSize:  DefaultBufferSize,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Mode returns the mode Run will use.
func (e *Engine) Mode() Mode {
	return SelectMode(e.units(), e.workers)
}

// Run hashes every wordlist and appends the pairs to s.
//
// Per-file errors are recorded in the report and never abort the run. The
// returned error is non-nil only for an invalid encoding (before any file
// is opened) or a cancelled context. Run does not close s.
func (e *Engine) Run(ctx context.Context, s sink.Sink, wordlists []string) (*Report, error) {
	if err := wordlist.ValidateEncoding(e.encoding); err != nil {
		return nil, err
	}

	mode := e.Mode()
	report := &Report{Mode: mode, Files: make([]FileResult, len(wordlists))}

	e.logger.Debug("run starting", "mode", mode.String(), "wordlists", len(wordlists))

	switch mode.Kind {
	case ModeParallel:
		e.runParallel(ctx, s, wordlists, report)
	default:
		e.runSingle(ctx, s, wordlists, report)
	}

	e.logger.Debug("run finished",
		"mode", mode.String(),
		"pairs", report.Pairs(),
		"failed_files", len(report.Failed()),
	)

	return report, ctx.Err()
}

// runSingle processes wordlists in order on the calling goroutine.
func (e *Engine) runSingle(ctx context.Context, s sink.Sink, wordlists []string, report *Report) {
	for i, path := range wordlists {
		if ctx.Err() != nil {
			report.Files[i] = FileResult{Path: path, Err: ctx.Err()}
			continue
		}

		var written int64
		var sinkErr error
		res := e.hashFile(ctx, WorkItem{Index: i, Path: path}, func(p rainbow.Pair) bool {
			if err := s.Append(ctx, p); err != nil {
				sinkErr = err
				return false
			}
			written++
			return true
		})

		res.Pairs = written
		if sinkErr != nil {
			e.logSinkError(path, sinkErr)
			res.Err = sinkErr
		}
		report.Files[i] = res
	}
}

// envelope carries a pair and the index of the file that produced it.
type envelope struct {
	index int
	pair  rainbow.Pair
}

// runParallel fans wordlists out to workers and funnels their pairs into s
// from the calling goroutine.
func (e *Engine) runParallel(ctx context.Context, s sink.Sink, wordlists []string, report *Report) {
	queue := queueWork(wordlists)

	n := min(report.Mode.Workers, len(wordlists))
	pairs := make(chan envelope, e.bufSize)

	// Writer-side state, indexed like wordlists. aborted is read by workers.
	written := make([]int64, len(wordlists))
	sinkErrs := make([]error, len(wordlists))
	aborted := make([]atomic.Bool, len(wordlists))

	var wg sync.WaitGroup
	for w := 0; w < n; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range queue {
				report.Files[item.Index] = e.hashFile(ctx, item, func(p rainbow.Pair) bool {
					if aborted[item.Index].Load() {
						return false
					}
					select {
					case pairs <- envelope{index: item.Index, pair: p}:
						return true
					case <-ctx.Done():
						return false
					}
				})
			}
		}()
	}

	go func() {
		wg.Wait()
		close(pairs)
	}()

	for env := range pairs {
		if aborted[env.index].Load() {
			continue
		}
		if err := s.Append(ctx, env.pair); err != nil {
			aborted[env.index].Store(true)
			sinkErrs[env.index] = err
			e.logSinkError(wordlists[env.index], err)
			continue
		}
		written[env.index]++
	}

	// pairs is closed only after every worker returned, so report.Files is
	// complete here.
	for i := range report.Files {
		report.Files[i].Pairs = written[i]
		if sinkErrs[i] != nil {
			report.Files[i].Err = sinkErrs[i]
		}
	}
}

// hashFile opens one wordlist, runs it through the chain and hands every
// pair to emit until emit returns false. The file is closed on every path.
func (e *Engine) hashFile(ctx context.Context, item WorkItem, emit func(rainbow.Pair) bool) FileResult {
	res := FileResult{Path: item.Path}
	log := e.logger.With("path", item.Path)

	f, err := wordlist.Open(item.Path)
	if err != nil {
		log.Error("cannot open wordlist", "error", err)
		res.Err = err
		return res
	}
	defer f.Close()

	log.Debug("hashing wordlist", "index", item.Index)

	seq := wordlist.Hash(f, e.chain,
		wordlist.WithPath(item.Path),
		wordlist.WithEncoding(e.encoding),
	)
	for p, err := range seq {
		if ctx.Err() != nil {
			break
		}
		if err != nil {
			if rainbow.IsDecodeError(err) {
				res.DecodeErrors++
				log.Warn("skipping undecodable line", "error", err)
				continue
			}
			log.Error("wordlist read failed", "error", err)
			res.Err = err
			break
		}
		if !emit(p) {
			break
		}
	}

	if res.Err == nil && ctx.Err() != nil {
		res.Err = ctx.Err()
	}
	return res
}

func (e *Engine) logSinkError(path string, err error) {
	e.logger.Error("sink write failed, skipping rest of wordlist", "path", path, "error", err)
}
