package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sameersismail/cmmcheck/internal/toolchain"
)

// ToolchainFlags are the per-command overrides of the toolchain config.
type ToolchainFlags struct {
	Root          string
	Compiler      string
	Simulator     string
	Suffix        string
	StrictCompile bool
}

// bind registers the toolchain flags on cmd.
func (f *ToolchainFlags) bind(cmd *cobra.Command) {
	defaults := toolchain.DefaultConfig()
	cmd.Flags().StringVar(&f.Root, "root", defaults.Root, "test-data directory holding sources and inputs")
	cmd.Flags().StringVar(&f.Compiler, "compiler", defaults.Compiler, "compiler executable")
	cmd.Flags().StringVar(&f.Simulator, "simulator", defaults.Simulator, "simulator executable")
	cmd.Flags().StringVar(&f.Suffix, "suffix", defaults.ArtifactSuffix, "suffix appended to a source to name its artifact")
	cmd.Flags().BoolVar(&f.StrictCompile, "strict-compile", false, "fail a case when the compiler exits non-zero")
}

// resolveConfig builds the toolchain config: defaults, then the --config
// file, then any flag set explicitly on the command line.
func resolveConfig(opts *RootOptions, cmd *cobra.Command, flags *ToolchainFlags) (toolchain.Config, error) {
	cfg := toolchain.DefaultConfig()
	if opts.ConfigPath != "" {
		loaded, err := toolchain.LoadConfig(opts.ConfigPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	if flags != nil {
		changed := cmd.Flags().Changed
		if changed("root") {
			cfg.Root = flags.Root
		}
		if changed("compiler") {
			cfg.Compiler = flags.Compiler
		}
		if changed("simulator") {
			cfg.Simulator = flags.Simulator
		}
		if changed("suffix") {
			cfg.ArtifactSuffix = flags.Suffix
		}
		if changed("strict-compile") {
			cfg.StrictCompile = flags.StrictCompile
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid toolchain config: %w", err)
	}
	return cfg, nil
}
