package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/leprechaun/internal/rainbow"
	"github.com/roach88/leprechaun/internal/sink"
	"github.com/roach88/leprechaun/internal/store"
)

// LookupOptions holds flags for the lookup command.
type LookupOptions struct {
	*RootOptions
	Database string
	File     string
}

// LookupResult holds the plaintexts found for one digest.
type LookupResult struct {
	Digest     string   `json:"digest"`
	Plaintexts []string `json:"plaintexts"`
}

// NewLookupCommand creates the lookup command.
func NewLookupCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LookupOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "lookup <digest>...",
		Short: "Find the plaintexts of digests",
		Long: `Look digests up in a rainbow table.

A SQLite table (--db) is searched through its digest index; a flat file
(--file) is scanned once for all digests. Digests are matched exactly after
lowercasing. Every plaintext stored for a digest is printed.

Examples:
  leprechaun lookup --db rainbow.db 5f4dcc3b5aa765d61d8327deb882cf99
  leprechaun lookup --file rainbow.txt 5f4dcc3b5aa765d61d8327deb882cf99 --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite rainbow table")
	cmd.Flags().StringVar(&opts.File, "file", "", "path to flat rainbow file")
	cmd.MarkFlagsMutuallyExclusive("db", "file")
	cmd.MarkFlagsOneRequired("db", "file")

	return cmd
}

func runLookup(opts *LookupOptions, args []string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	digests := make([]string, len(args))
	for i, d := range args {
		digests[i] = strings.ToLower(strings.TrimSpace(d))
	}

	var results []LookupResult
	var err error
	if opts.Database != "" {
		results, err = lookupKeyed(ctx, opts.Database, digests)
	} else {
		results, err = lookupFlat(opts.File, digests)
	}
	if err != nil {
		return err
	}

	formatter := opts.formatter(cmd)
	if formatter.Format == "json" {
		return formatter.Success(results)
	}

	w := formatter.Writer
	for _, r := range results {
		if len(r.Plaintexts) == 0 {
			fmt.Fprintf(w, "%s: not found\n", r.Digest)
			continue
		}
		for _, p := range r.Plaintexts {
			fmt.Fprintln(w, rainbow.FormatLine(rainbow.Pair{Digest: r.Digest, Plaintext: p}))
		}
	}
	return nil
}

func lookupKeyed(ctx context.Context, path string, digests []string) ([]LookupResult, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, WrapExitError(ExitCommandError, "database not found", err)
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	results := make([]LookupResult, 0, len(digests))
	for _, d := range digests {
		plaintexts, err := st.Lookup(ctx, d)
		if err != nil {
			return nil, WrapExitError(ExitFailure, "lookup failed", err)
		}
		results = append(results, LookupResult{Digest: d, Plaintexts: plaintexts})
	}
	return results, nil
}

func lookupFlat(path string, digests []string) ([]LookupResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open rainbow file", err)
	}
	defer f.Close()

	found := make(map[string][]string, len(digests))
	for _, d := range digests {
		found[d] = []string{}
	}

	for p, err := range sink.ScanFlat(f, 0) {
		if err != nil {
			if rainbow.IsDecodeError(err) {
				slog.Warn("skipping malformed line", "path", path, "error", err)
				continue
			}
			return nil, WrapExitError(ExitFailure, "failed to read rainbow file", err)
		}
		if matches, ok := found[p.Digest]; ok {
			found[p.Digest] = append(matches, p.Plaintext)
		}
	}

	results := make([]LookupResult, 0, len(digests))
	for _, d := range digests {
		results = append(results, LookupResult{Digest: d, Plaintexts: found[d]})
	}
	return results, nil
}
