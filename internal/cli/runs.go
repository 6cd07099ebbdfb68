package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/leprechaun/internal/store"
)

// RunsOptions holds flags for the runs command.
type RunsOptions struct {
	*RootOptions
	Database   string
	Incomplete bool
}

// RunRecord is the output form of a store.Run.
type RunRecord struct {
	ID                 string `json:"id"`
	Algorithm          string `json:"algorithm"`
	Iterations         int    `json:"iterations"`
	Prefix             string `json:"prefix,omitempty"`
	Postfix            string `json:"postfix,omitempty"`
	SaltFirstRoundOnly bool   `json:"salt_first_round_only"`
	Finished           bool   `json:"finished"`
	Pairs              int64  `json:"pairs"`
}

// NewRunsCommand creates the runs command.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List the generation runs recorded in a SQLite table",
		Long: `List the runs that wrote into a SQLite rainbow table, oldest first,
with the chain settings each used.

A run that is not finished was interrupted or failed to commit; some of its
pairs may be missing. Use --incomplete to list only those.

Examples:
  leprechaun runs --db rainbow.db
  leprechaun runs --db rainbow.db --incomplete --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite rainbow table (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().BoolVar(&opts.Incomplete, "incomplete", false, "only list unfinished runs")

	return cmd
}

func runRuns(opts *RunsOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if _, err := os.Stat(opts.Database); err != nil {
		return WrapExitError(ExitCommandError, "database not found", err)
	}
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	var runs []store.Run
	if opts.Incomplete {
		runs, err = st.IncompleteRuns(ctx)
	} else {
		runs, err = st.Runs(ctx)
	}
	if err != nil {
		return WrapExitError(ExitFailure, "failed to list runs", err)
	}

	records := make([]RunRecord, len(runs))
	for i, r := range runs {
		records[i] = RunRecord(r)
	}

	formatter := opts.formatter(cmd)
	if formatter.Format == "json" {
		return formatter.Success(records)
	}

	w := formatter.Writer
	if len(records) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}
	for _, r := range records {
		state := "finished"
		if !r.Finished {
			state = "incomplete"
		}
		fmt.Fprintf(w, "%s  %s x%d  %s  %d pair(s)\n", r.ID, r.Algorithm, r.Iterations, state, r.Pairs)
		if r.Prefix != "" || r.Postfix != "" {
			fmt.Fprintf(w, "  salt: prefix=%q postfix=%q first-round-only=%t\n", r.Prefix, r.Postfix, r.SaltFirstRoundOnly)
		}
	}
	return nil
}
