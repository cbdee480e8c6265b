package toolchain

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Simulator invokes the external instruction-set simulator.
type Simulator struct {
	cfg Config
}

// NewSimulator creates a simulator invoker for the given configuration.
func NewSimulator(cfg Config) *Simulator {
	return &Simulator{cfg: cfg}
}

// Simulate runs `<simulator> -file <artifact>` and returns the invocation
// with the simulator's raw standard output. When stdin is non-nil it is
// connected as the process's standard input for the duration of the call.
//
// Stderr is captured for diagnostics only.
func (s *Simulator) Simulate(ctx context.Context, artifact string, stdin io.Reader) (*Invocation, error) {
	args := []string{s.cfg.FileFlag, artifact}
	return RunProcess(ctx, s.cfg.Simulator, args, stdin)
}

// SimulateFile is Simulate with standard input read from inputPath. An
// empty inputPath means no input. The file is opened immediately before
// the simulator starts and closed on every return path.
func (s *Simulator) SimulateFile(ctx context.Context, artifact, inputPath string) (*Invocation, error) {
	if inputPath == "" {
		return s.Simulate(ctx, artifact, nil)
	}

	f, err := os.Open(inputPath)
	if err != nil {
		return &Invocation{Path: s.cfg.Simulator, ExitCode: -1},
			fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	return s.Simulate(ctx, artifact, f)
}
