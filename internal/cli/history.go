package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sameersismail/cmmcheck/internal/store"
)

// DefaultDBPath is the history database used when --db is not given.
const DefaultDBPath = "cmmcheck.db"

// HistoryOptions holds flags for the history commands.
type HistoryOptions struct {
	*RootOptions
	DBPath string
	Limit  int
}

// NewHistoryCommand creates the history command and its show subcommand.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded suite runs",
		Long: `List suite runs recorded with "cmmcheck run --db", newest first.

Examples:
  cmmcheck history
  cmmcheck history --db ci.db --limit 5
  cmmcheck history show 0190a3c2-7f1e-7c4b-9a55-3f2d1e0b8c61`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryList(opts, cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", DefaultDBPath, "history database")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of runs to list (0 for all)")

	cmd.AddCommand(&cobra.Command{
		Use:           "show <run-id>",
		Short:         "Show the case results of one run",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryShow(opts, args[0], cmd)
		},
	})

	return cmd
}

// openHistory opens an existing history database. A missing file is a
// command error rather than a fresh empty database.
func openHistory(path string) (*store.Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("history database not found: %s", path)
	}
	return store.Open(path)
}

func runHistoryList(opts *HistoryOptions, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	st, err := openHistory(opts.DBPath)
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeHistory, "failed to open history", err)
	}
	defer st.Close()

	runs, err := st.ListRuns(cmd.Context(), opts.Limit)
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeHistory, "failed to list runs", err)
	}

	if out.JSON() {
		return out.Success(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(out.Writer, "No runs recorded.")
		return nil
	}
	for _, r := range runs {
		fmt.Fprintf(out.Writer, "%s %s  %-16s %d/%d passed\n", out.Mark(r.Failed == 0), r.ID, r.Suite, r.Passed, r.Total)
	}
	return nil
}

func runHistoryShow(opts *HistoryOptions, runID string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	st, err := openHistory(opts.DBPath)
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeHistory, "failed to open history", err)
	}
	defer st.Close()

	run, err := st.ReadRun(cmd.Context(), runID)
	if errors.Is(err, store.ErrRunNotFound) {
		return out.Fail(ExitFailure, ErrCodeNotFound, fmt.Sprintf("run %s not found", runID), nil)
	}
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeHistory, "failed to read run", err)
	}

	if out.JSON() {
		return out.Success(run)
	}

	w := out.Writer
	fmt.Fprintf(w, "Run %s (suite %s)\n", run.ID, run.Suite)
	fmt.Fprintf(w, "  compiler:  %s\n", run.Compiler)
	fmt.Fprintf(w, "  simulator: %s\n", run.Simulator)
	fmt.Fprintf(w, "  root:      %s\n", run.Root)
	fmt.Fprintln(w)
	for _, c := range run.Cases {
		if c.Pass {
			fmt.Fprintf(w, "%s %s\n", out.Mark(true), c.Name)
			continue
		}
		fmt.Fprintf(w, "%s %s (%s after %s)\n", out.Mark(false), c.Name, c.Kind, c.Stage)
		if out.Verbose {
			writeIndented(w, c.Message, "    ")
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%d passed, %d failed, %d total\n", run.Passed, run.Failed, run.Total)
	return nil
}
