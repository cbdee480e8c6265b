package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sameersismail/cmmcheck/internal/harness"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid bool   `json:"valid"`
	Suite string `json:"suite"`
	Cases int    `json:"cases"`
}

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Toolchain ToolchainFlags
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <suite-file>",
		Short: "Validate a suite file without running it",
		Long: `Load a YAML or CUE suite file, check required fields and uniqueness
of case names and sources, and check that every referenced source and
input file exists under the test-data root.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	opts.Toolchain.bind(cmd)
	return cmd
}

func runValidate(opts *ValidateOptions, suitePath string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	cfg, err := resolveConfig(opts.RootOptions, cmd, &opts.Toolchain)
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeConfig, "failed to resolve toolchain config", err)
	}

	if _, err := os.Stat(suitePath); err != nil {
		return out.Fail(ExitCommandError, ErrCodeSuiteLoad, "suite file not found", err)
	}

	suite, err := harness.LoadSuiteFile(suitePath)
	if err != nil {
		return out.Fail(ExitFailure, ErrCodeInvalid, "invalid suite", err)
	}
	out.VerboseLog("Loaded %d case(s) from %s", len(suite.Cases), suitePath)

	if err := harness.ValidateFiles(suite, cfg); err != nil {
		return out.Fail(ExitFailure, ErrCodeInvalid, "invalid suite", err)
	}

	result := ValidationResult{Valid: true, Suite: suite.Name, Cases: len(suite.Cases)}
	if out.JSON() {
		return out.Success(result)
	}
	fmt.Fprintf(out.Writer, "%s %s: %d case(s) valid\n", out.Mark(true), suite.Name, len(suite.Cases))
	return nil
}
