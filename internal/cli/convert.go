package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/leprechaun/internal/digest"
	"github.com/roach88/leprechaun/internal/rainbow"
	"github.com/roach88/leprechaun/internal/sink"
	"github.com/roach88/leprechaun/internal/store"
)

// ConvertOptions holds flags for the convert command.
type ConvertOptions struct {
	*RootOptions
	Database  string
	Algorithm string
	BatchSize int
}

// ConvertResult summarizes a conversion.
type ConvertResult struct {
	Database string `json:"database"`
	Pairs    int64  `json:"pairs"`
	Skipped  int64  `json:"skipped"`
}

// NewConvertCommand creates the convert command.
func NewConvertCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConvertOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "convert <flat-file>...",
		Short: "Import flat rainbow files into a SQLite table",
		Long: `Import digest:plaintext files written by 'generate --output' into a
SQLite rainbow table, so they can be looked up through the digest index.

Each line is split on its first colon. With --algorithm, lines whose digest
does not have that algorithm's length are skipped. Malformed lines are
reported and skipped.

Examples:
  leprechaun convert rainbow.txt --db rainbow
  leprechaun convert a.txt b.txt --db rainbow -a sha256`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Database, "db", "d", "", "SQLite output database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVarP(&opts.Algorithm, "algorithm", "a", "", "reject digests not of this algorithm's length")
	cmd.Flags().IntVar(&opts.BatchSize, "batch-size", store.DefaultBatchSize, "rows per database transaction")

	return cmd
}

func runConvert(opts *ConvertOptions, files []string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	digestLen := 0
	if opts.Algorithm != "" {
		alg, err := digest.Lookup(opts.Algorithm)
		if err != nil {
			return wrapError("invalid configuration", rainbow.NewConfigError("select algorithm", err))
		}
		digestLen = alg.HexLen()
	}

	target := sink.Target{
		Kind:      sink.KindKeyed,
		Path:      opts.Database,
		BatchSize: opts.BatchSize,
	}
	s, err := sink.Open(ctx, target)
	if err != nil {
		return wrapError("failed to open database", err)
	}

	result := ConvertResult{Database: target.File()}
	convErr := convertFiles(ctx, s, files, digestLen, &result)
	if closeErr := s.Close(); closeErr != nil {
		convErr = errors.Join(convErr, closeErr)
	}
	if convErr != nil {
		return wrapError("conversion failed", convErr)
	}

	formatter := opts.formatter(cmd)
	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "Imported %d pair(s) into %s\n", result.Pairs, result.Database)
	if result.Skipped > 0 {
		fmt.Fprintf(formatter.Writer, "  skipped %d malformed line(s)\n", result.Skipped)
	}
	return nil
}

// convertFiles streams every file into s. A sink error aborts the
// conversion; unlike generation there is nothing useful to continue with.
func convertFiles(ctx context.Context, s sink.Sink, files []string, digestLen int, result *ConvertResult) error {
	for _, path := range files {
		f, err := os.Open(path)
		if err != nil {
			return rainbow.NewIOError("open flat file", path, err)
		}

		for p, err := range sink.ScanFlat(f, digestLen) {
			if err != nil {
				if rainbow.IsDecodeError(err) {
					result.Skipped++
					slog.Warn("skipping malformed line", "path", path, "error", err)
					continue
				}
				f.Close()
				return err
			}
			if err := s.Append(ctx, p); err != nil {
				f.Close()
				return err
			}
			result.Pairs++
		}
		f.Close()
	}
	return nil
}
