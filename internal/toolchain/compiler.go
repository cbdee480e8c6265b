package toolchain

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Compiler invokes the external compiler.
type Compiler struct {
	cfg Config
}

// NewCompiler creates a compiler invoker for the given configuration.
func NewCompiler(cfg Config) *Compiler {
	return &Compiler{cfg: cfg}
}

// ArtifactPath returns where Compile writes the artifact for source.
func (c *Compiler) ArtifactPath(source string) string {
	return c.cfg.ArtifactPath(source)
}

// Compile translates source (relative to the test-data root) into its
// artifact by running
//
//	<compiler> <source-path> -o <artifact-path>
//
// Any artifact left by a previous run is removed first, so a compiler
// that fails without writing output can never be masked by stale output.
//
// The exit status is returned in the Invocation and is not interpreted
// here. An error is returned only when the compiler could not be run.
func (c *Compiler) Compile(ctx context.Context, source string) (*Invocation, error) {
	sourcePath := c.cfg.SourcePath(source)
	artifactPath := c.cfg.ArtifactPath(source)

	if err := os.Remove(artifactPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &Invocation{Path: c.cfg.Compiler, ExitCode: -1},
			fmt.Errorf("failed to remove stale artifact %s: %w", artifactPath, err)
	}

	args := []string{sourcePath, c.cfg.OutputFlag, artifactPath}
	return RunProcess(ctx, c.cfg.Compiler, args, nil)
}
