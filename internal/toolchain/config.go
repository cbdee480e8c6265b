package toolchain

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config describes where the test data lives and how the external tools
// are invoked.
type Config struct {
	// Root is the test-data directory. Sources, .in files, and generated
	// artifacts all live here.
	Root string `toml:"root"`

	// Compiler is the compiler executable (path or name on PATH).
	Compiler string `toml:"compiler"`

	// Simulator is the simulator executable (path or name on PATH).
	Simulator string `toml:"simulator"`

	// ArtifactSuffix is appended to the source path to name the artifact.
	ArtifactSuffix string `toml:"artifact_suffix"`

	// InputSuffix is appended to the source name when a case asks for
	// its conventional input file.
	InputSuffix string `toml:"input_suffix"`

	// OutputFlag precedes the artifact path on the compiler command line.
	OutputFlag string `toml:"output_flag"`

	// FileFlag precedes the artifact path on the simulator command line.
	FileFlag string `toml:"file_flag"`

	// StrictCompile fails a case at the compile stage when the compiler
	// exits non-zero instead of letting the mismatch surface downstream.
	StrictCompile bool `toml:"strict_compile"`
}

// DefaultConfig returns the layout of the compiler repository: sources in
// ./test/data, the compiler at ./src/cmm, and spim on PATH.
func DefaultConfig() Config {
	return Config{
		Root:           "./test/data",
		Compiler:       "./src/cmm",
		Simulator:      "spim",
		ArtifactSuffix: ".out",
		InputSuffix:    ".in",
		OutputFlag:     "-o",
		FileFlag:       "-file",
	}
}

// LoadConfig reads a TOML file over the defaults. Keys missing from the
// file keep their default value; unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("unknown config key %q in %s", undecoded[0].String(), path)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that every field needed to build a command line is set.
func (c Config) Validate() error {
	if c.Root == "" {
		return fmt.Errorf("root is required")
	}
	if c.Compiler == "" {
		return fmt.Errorf("compiler is required")
	}
	if c.Simulator == "" {
		return fmt.Errorf("simulator is required")
	}
	if c.ArtifactSuffix == "" {
		return fmt.Errorf("artifact_suffix is required")
	}
	if c.InputSuffix == "" {
		return fmt.Errorf("input_suffix is required")
	}
	if c.OutputFlag == "" {
		return fmt.Errorf("output_flag is required")
	}
	if c.FileFlag == "" {
		return fmt.Errorf("file_flag is required")
	}
	return nil
}

// SourcePath returns the path of a source file under the root.
func (c Config) SourcePath(source string) string {
	return filepath.Join(c.Root, source)
}

// ArtifactPath returns the artifact path derived from a source name:
// the source path with the artifact suffix appended.
func (c Config) ArtifactPath(source string) string {
	return c.SourcePath(source) + c.ArtifactSuffix
}

// InputPath returns the path of a stdin file under the root.
func (c Config) InputPath(input string) string {
	return filepath.Join(c.Root, input)
}

// ConventionalInput returns the name of the input file that conventionally
// accompanies a source (factorial.c -> factorial.c.in).
func (c Config) ConventionalInput(source string) string {
	return source + c.InputSuffix
}
