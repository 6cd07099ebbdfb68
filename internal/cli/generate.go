package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/leprechaun/internal/config"
	"github.com/roach88/leprechaun/internal/engine"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	ConfigFile string

	// Flag values; applied over the config only when set on the command line.
	Algorithm          string
	Iterations         int
	Prefix             string
	Postfix            string
	SaltFirstRoundOnly bool
	Encoding           string
	Output             string
	Database           string
	Workers            int
	BatchSize          int

	// RunIDs allows overriding the run id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunIDs engine.RunIDGenerator

	// Units allows overriding CPU detection (for testing).
	Units engine.UnitCounter
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	return newGenerateCommand(&GenerateOptions{RootOptions: rootOpts})
}

func newGenerateCommand(opts *GenerateOptions) *cobra.Command {
	defaults := config.Default()

	cmd := &cobra.Command{
		Use:   "generate [wordlist...]",
		Short: "Hash wordlists into a rainbow table",
		Long: `Hash every line of the given wordlists and store the digest:plaintext pairs.

Exactly one output is required: --output appends to a flat text file
(".txt" is added unless present), --database inserts into a SQLite lookup
table (".db" is added unless present). Wordlists that cannot be read are
reported and skipped; the run still succeeds.

Settings may also come from a YAML file (--config); flags given on the
command line take precedence, and positional wordlists replace the file's.

Examples:
  leprechaun generate -o rainbow rockyou.txt
  leprechaun generate -a sha256 -i 3 --prefix s4lt --salt-first-only -d rainbow words/*.txt
  leprechaun generate --config run.yaml --workers 8`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(opts, args, cmd)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.ConfigFile, "config", "", "YAML settings file")
	f.StringVarP(&opts.Algorithm, "algorithm", "a", defaults.Algorithm, "hash algorithm (see 'leprechaun algorithms')")
	f.IntVarP(&opts.Iterations, "iterations", "i", defaults.Iterations, "number of hash rounds")
	f.StringVar(&opts.Prefix, "prefix", "", "salt prepended to the round input")
	f.StringVar(&opts.Postfix, "postfix", "", "salt appended to the round input")
	f.BoolVar(&opts.SaltFirstRoundOnly, "salt-first-only", false, "apply prefix/postfix in the first round only")
	f.StringVar(&opts.Encoding, "encoding", defaults.Encoding, "wordlist encoding (utf-8, latin1, windows-1252, utf-16le, ...)")
	f.StringVarP(&opts.Output, "output", "o", "", "flat text output file")
	f.StringVarP(&opts.Database, "database", "d", "", "SQLite output database")
	f.IntVar(&opts.Workers, "workers", 0, "number of workers (0 = one per CPU, 1 = single mode)")
	f.IntVar(&opts.BatchSize, "batch-size", defaults.BatchSize, "rows per database transaction")
	cmd.MarkFlagsMutuallyExclusive("output", "database")

	return cmd
}

// resolveConfig builds the effective settings: defaults, then the config
// file, then explicitly set flags, then positional wordlists.
func resolveConfig(opts *GenerateOptions, args []string, cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if opts.ConfigFile != "" {
		loaded, err := config.Load(opts.ConfigFile)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	f := cmd.Flags()
	if f.Changed("algorithm") {
		cfg.Algorithm = opts.Algorithm
	}
	if f.Changed("iterations") {
		cfg.Iterations = opts.Iterations
	}
	if f.Changed("prefix") {
		cfg.Prefix = opts.Prefix
	}
	if f.Changed("postfix") {
		cfg.Postfix = opts.Postfix
	}
	if f.Changed("salt-first-only") {
		cfg.SaltFirstRoundOnly = opts.SaltFirstRoundOnly
	}
	if f.Changed("encoding") {
		cfg.Encoding = opts.Encoding
	}
	// An output flag replaces whichever output the file selected.
	if f.Changed("output") {
		cfg.Output, cfg.Database = opts.Output, ""
	}
	if f.Changed("database") {
		cfg.Database, cfg.Output = opts.Database, ""
	}
	if f.Changed("workers") {
		cfg.Workers = opts.Workers
	}
	if f.Changed("batch-size") {
		cfg.BatchSize = opts.BatchSize
	}
	if len(args) > 0 {
		cfg.Wordlists = args
	}

	return cfg, cfg.Validate()
}

func runGenerate(opts *GenerateOptions, args []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	logger := slog.Default()

	cfg, err := resolveConfig(opts, args, cmd)
	if err != nil {
		return wrapError("invalid configuration", err)
	}
	formatter.VerboseLog("algorithm=%s iterations=%d wordlists=%d output=%s",
		cfg.Algorithm, cfg.Iterations, len(cfg.Wordlists), cfg.Target().File())

	// Setup signal handling for graceful shutdown
	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received signal, stopping", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	req := cfg.Request()
	req.Logger = logger
	req.RunIDs = opts.RunIDs
	req.Units = opts.Units

	report, err := engine.Generate(ctx, req)
	if report != nil {
		if outErr := printReport(formatter, report, req.Target.File()); outErr != nil {
			return WrapExitError(ExitFailure, "failed to write output", outErr)
		}
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return WrapExitError(ExitFailure, "generation interrupted", err)
		}
		return wrapError("generation failed", err)
	}
	return nil
}

func printReport(f *OutputFormatter, report *engine.Report, output string) error {
	summary := report.Summary()
	f.RunID = summary.RunID
	if f.Format == "json" {
		return f.Success(summary)
	}

	w := f.Writer
	fmt.Fprintf(w, "Wrote %d pair(s) to %s\n", summary.Pairs, output)
	fmt.Fprintf(w, "  run:   %s\n", summary.RunID)
	fmt.Fprintf(w, "  mode:  %s\n", summary.Mode)
	if summary.DecodeErrors > 0 {
		fmt.Fprintf(w, "  skipped %d undecodable line(s)\n", summary.DecodeErrors)
	}
	writeFailures(w, summary)
	return nil
}

func writeFailures(w io.Writer, summary engine.Summary) {
	if summary.FailedFiles == 0 {
		return
	}
	fmt.Fprintf(w, "  %d wordlist(s) failed:\n", summary.FailedFiles)
	for _, file := range summary.Files {
		if file.Error != "" {
			fmt.Fprintf(w, "    %s: %s\n", file.Path, file.Error)
		}
	}
}
