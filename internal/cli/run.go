package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sameersismail/cmmcheck/internal/harness"
	"github.com/sameersismail/cmmcheck/internal/store"
	"github.com/sameersismail/cmmcheck/internal/toolchain"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Toolchain ToolchainFlags
	Filter    string // case filter (glob pattern)
	DBPath    string // record the run in this history database
	Update    bool   // rewrite golden files
}

// RunReport is the JSON payload of the run command.
type RunReport struct {
	RunID  string       `json:"run_id"`
	Suite  string       `json:"suite"`
	Cases  []CaseReport `json:"cases"`
	Passed int          `json:"passed"`
	Failed int          `json:"failed"`
	Total  int          `json:"total"`
}

// CaseReport is one case in a RunReport.
type CaseReport struct {
	Name         string `json:"name"`
	CaseID       string `json:"case_id"`
	Source       string `json:"source"`
	Pass         bool   `json:"pass"`
	Stage        string `json:"stage"`
	Kind         string `json:"kind,omitempty"`
	Message      string `json:"message,omitempty"`
	Expected     string `json:"expected"`
	Actual       string `json:"actual"`
	CompileExit  *int   `json:"compile_exit,omitempty"`
	SimulateExit *int   `json:"simulate_exit,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <suite-file>",
		Short: "Compile, simulate, and check every case in a suite",
		Long: `Run a suite of end-to-end cases.

Each case is compiled with the configured compiler, the artifact is run
on the simulator (with the case's stdin file, if any), the simulator's
first output line is dropped, and the rest must equal the expected bytes
exactly. Cases run one after another; a failing case never stops the
suite.

Exit codes:
  0 - All cases passed
  1 - One or more cases failed
  2 - Command error (bad config, unreadable suite, history database error)

Examples:
  cmmcheck run suites/basic.yaml
  cmmcheck run suites/basic.cue --root ./test/data --compiler ./src/cmm
  cmmcheck run suites/basic.yaml --filter "gcd*" --format json
  cmmcheck run suites/golden.yaml --update
  cmmcheck run suites/basic.yaml --db cmmcheck.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuite(opts, args[0], cmd)
		},
	}

	opts.Toolchain.bind(cmd)
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "run only cases whose name matches this glob pattern")
	cmd.Flags().StringVar(&opts.DBPath, "db", "", "record the run in this history database")
	cmd.Flags().BoolVar(&opts.Update, "update", false, "rewrite golden files from the current output")

	return cmd
}

func runSuite(opts *RunOptions, suitePath string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	cfg, err := resolveConfig(opts.RootOptions, cmd, &opts.Toolchain)
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeConfig, "failed to resolve toolchain config", err)
	}

	suite, err := harness.LoadSuiteFile(suitePath)
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeSuiteLoad, "failed to load suite", err)
	}

	suite, err = suite.Filter(opts.Filter)
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeSuiteLoad, "failed to filter suite", err)
	}
	if len(suite.Cases) == 0 {
		if out.JSON() {
			return out.Encode(CLIResponse{Status: "ok", Data: RunReport{Suite: suite.Name, Cases: []CaseReport{}}})
		}
		fmt.Fprintln(out.Writer, "No cases matched.")
		return nil
	}

	out.VerboseLog("Running %d case(s) from %s with root %s", len(suite.Cases), suitePath, cfg.Root)

	h := harness.New(cfg,
		harness.WithLogger(opts.logger(cmd.ErrOrStderr())),
		harness.WithGoldenUpdate(opts.Update),
	)
	result := h.RunSuite(cmd.Context(), suite)

	if opts.DBPath != "" {
		if err := recordRun(cmd, opts.DBPath, cfg, result); err != nil {
			return out.Fail(ExitCommandError, ErrCodeHistory, "failed to record run", err)
		}
		out.VerboseLog("Recorded run %s in %s", result.RunID, opts.DBPath)
	}

	report := newRunReport(result)
	if out.JSON() {
		resp := CLIResponse{Status: "ok", Data: report}
		if !result.Pass() {
			resp.Status = "error"
			resp.Error = &CLIError{
				Code:    ErrCodeCasesFailed,
				Message: fmt.Sprintf("%d case(s) failed", result.Failed),
			}
		}
		if err := out.Encode(resp); err != nil {
			return err
		}
	} else {
		writeRunText(out, suite, result, opts.Update)
	}

	if !result.Pass() {
		return NewExitError(ExitFailure, fmt.Sprintf("%d case(s) failed", result.Failed))
	}
	return nil
}

func recordRun(cmd *cobra.Command, dbPath string, cfg toolchain.Config, result *harness.SuiteResult) error {
	st, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	meta := store.RunMeta{Compiler: cfg.Compiler, Simulator: cfg.Simulator, Root: cfg.Root}
	return st.WriteRun(cmd.Context(), meta, result)
}

func newRunReport(result *harness.SuiteResult) RunReport {
	report := RunReport{
		RunID:  result.RunID,
		Suite:  result.Suite,
		Cases:  make([]CaseReport, 0, len(result.Cases)),
		Passed: result.Passed,
		Failed: result.Failed,
		Total:  result.Total,
	}
	for _, c := range result.Cases {
		cr := CaseReport{
			Name:         c.Name,
			CaseID:       c.CaseID,
			Source:       c.Source,
			Pass:         c.Pass,
			Stage:        string(c.Stage),
			Expected:     string(c.Expected),
			Actual:       string(c.Actual),
			CompileExit:  exitCodeOf(c.Compile),
			SimulateExit: exitCodeOf(c.Simulate),
		}
		if c.Failure != nil {
			cr.Kind = string(c.Failure.Kind)
			cr.Message = c.Failure.Message
		}
		report.Cases = append(report.Cases, cr)
	}
	return report
}

func exitCodeOf(inv *toolchain.Invocation) *int {
	if inv == nil {
		return nil
	}
	code := inv.ExitCode
	return &code
}

func writeRunText(out *OutputFormatter, suite *harness.Suite, result *harness.SuiteResult, update bool) {
	w := out.Writer

	golden := make(map[string]bool, len(suite.Cases))
	for _, c := range suite.Cases {
		golden[c.Name] = c.Golden
	}

	for _, c := range result.Cases {
		switch {
		case c.Pass && update && golden[c.Name]:
			fmt.Fprintf(w, "%s %s (golden updated)\n", out.Mark(true), c.Name)
		case c.Pass:
			fmt.Fprintf(w, "%s %s\n", out.Mark(true), c.Name)
		default:
			fmt.Fprintf(w, "%s %s (%s after %s)\n", out.Mark(false), c.Name, c.Failure.Kind, c.Failure.Stage)
			writeIndented(w, c.Failure.Message, "    ")
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Run %s: %d passed, %d failed, %d total\n", result.RunID, result.Passed, result.Failed, result.Total)
	if result.Pass() {
		fmt.Fprintf(w, "%s All cases passed\n", out.Mark(true))
	}
}

func writeIndented(w io.Writer, text, indent string) {
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		fmt.Fprintf(w, "%s%s\n", indent, line)
	}
}
