package cli

import (
	"fmt"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/sameersismail/cmmcheck/internal/harness"
	"github.com/sameersismail/cmmcheck/internal/toolchain"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Toolchain ToolchainFlags
	Expect    string
	expectSet bool
}

// ToolStatus reports whether one external tool resolves.
type ToolStatus struct {
	Role  string `json:"role"`
	Name  string `json:"name"`
	Path  string `json:"path,omitempty"`
	Found bool   `json:"found"`
	Error string `json:"error,omitempty"`
}

// SmokeResult is the outcome of running an assembly file on the simulator.
type SmokeResult struct {
	File     string `json:"file"`
	ExitCode int    `json:"exit_code"`
	Output   string `json:"output"`
	Pass     bool   `json:"pass"`
	Error    string `json:"error,omitempty"`
}

// CheckResult is the JSON payload of the check command.
type CheckResult struct {
	Tools []ToolStatus `json:"tools"`
	Smoke *SmokeResult `json:"smoke,omitempty"`
	OK    bool         `json:"ok"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check [asm-file]",
		Short: "Check that the compiler and simulator are installed",
		Long: `Resolve the compiler and simulator executables. With an assembly file,
also run it on the simulator and print its normalized output; --expect
makes that output an assertion.

Examples:
  cmmcheck check
  cmmcheck check test/data/hello.asm --expect hello`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.expectSet = cmd.Flags().Changed("expect")
			asm := ""
			if len(args) == 1 {
				asm = args[0]
			}
			return runCheck(opts, asm, cmd)
		},
	}

	opts.Toolchain.bind(cmd)
	cmd.Flags().StringVar(&opts.Expect, "expect", "", "expected normalized output of the assembly file")
	return cmd
}

func runCheck(opts *CheckOptions, asm string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	cfg, err := resolveConfig(opts.RootOptions, cmd, &opts.Toolchain)
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeConfig, "failed to resolve toolchain config", err)
	}

	result := CheckResult{
		Tools: []ToolStatus{
			lookupTool("compiler", cfg.Compiler),
			lookupTool("simulator", cfg.Simulator),
		},
		OK: true,
	}
	for _, tool := range result.Tools {
		result.OK = result.OK && tool.Found
	}

	if asm != "" && result.Tools[1].Found {
		smoke := runSmoke(cmd, cfg, asm, opts.Expect, opts.expectSet)
		result.Smoke = &smoke
		result.OK = result.OK && smoke.Pass
	}

	if out.JSON() {
		resp := CLIResponse{Status: "ok", Data: result}
		if !result.OK {
			resp.Status = "error"
			resp.Error = &CLIError{Code: ErrCodeToolMissing, Message: "toolchain check failed"}
		}
		if err := out.Encode(resp); err != nil {
			return err
		}
	} else {
		writeCheckText(out, result)
	}

	if !result.OK {
		return NewExitError(ExitFailure, "toolchain check failed")
	}
	return nil
}

func lookupTool(role, name string) ToolStatus {
	status := ToolStatus{Role: role, Name: name}
	path, err := exec.LookPath(name)
	if err != nil {
		status.Error = err.Error()
		return status
	}
	status.Path = path
	status.Found = true
	return status
}

func runSmoke(cmd *cobra.Command, cfg toolchain.Config, asm, expect string, expectSet bool) SmokeResult {
	smoke := SmokeResult{File: asm}

	inv, err := toolchain.NewSimulator(cfg).Simulate(cmd.Context(), asm, nil)
	if err != nil {
		smoke.Error = err.Error()
		return smoke
	}
	smoke.ExitCode = inv.ExitCode
	actual := harness.Normalize(inv.Stdout)
	smoke.Output = string(actual)
	smoke.Pass = inv.ExitCode == 0

	if expectSet {
		if err := harness.AssertOutput(actual, []byte(expect)); err != nil {
			smoke.Pass = false
			smoke.Error = err.Error()
		}
	}
	return smoke
}

func writeCheckText(out *OutputFormatter, result CheckResult) {
	w := out.Writer
	for _, tool := range result.Tools {
		if tool.Found {
			fmt.Fprintf(w, "%s %s: %s\n", out.Mark(true), tool.Role, tool.Path)
		} else {
			fmt.Fprintf(w, "%s %s: %s not found\n", out.Mark(false), tool.Role, tool.Name)
			out.VerboseLog("%s", tool.Error)
		}
	}

	if result.Smoke == nil {
		return
	}
	smoke := result.Smoke
	fmt.Fprintf(w, "%s simulate %s (exit %d)\n", out.Mark(smoke.Pass), smoke.File, smoke.ExitCode)
	fmt.Fprintf(w, "    output: %q\n", smoke.Output)
	if smoke.Error != "" {
		writeIndented(w, smoke.Error, "    ")
	}
}
