package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/sameersismail/cmmcheck/internal/ident"
	"github.com/sameersismail/cmmcheck/internal/toolchain"
)

// Compiler is the compile step of a case.
type Compiler interface {
	Compile(ctx context.Context, source string) (*toolchain.Invocation, error)
	ArtifactPath(source string) string
}

// Simulator is the simulate step of a case. An empty inputPath means no
// standard input.
type Simulator interface {
	SimulateFile(ctx context.Context, artifact, inputPath string) (*toolchain.Invocation, error)
}

// Harness runs cases against one toolchain configuration.
//
// A Harness holds no per-case state; cases share nothing but the
// filesystem, and the distinct-source rule keeps their artifacts apart.
type Harness struct {
	cfg       toolchain.Config
	compiler  Compiler
	simulator Simulator
	logger    *slog.Logger
	update    bool
	newRunID  func() string
}

// Option configures a Harness.
type Option func(*Harness)

// WithLogger sets the logger. The default discards all records.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harness) { h.logger = logger }
}

// WithCompiler replaces the compiler invoker built from the config.
func WithCompiler(c Compiler) Option {
	return func(h *Harness) { h.compiler = c }
}

// WithSimulator replaces the simulator invoker built from the config.
func WithSimulator(s Simulator) Option {
	return func(h *Harness) { h.simulator = s }
}

// WithGoldenUpdate makes golden cases record their normalized output as
// the new golden file instead of asserting against it.
func WithGoldenUpdate(update bool) Option {
	return func(h *Harness) { h.update = update }
}

// WithRunIDGenerator overrides how suite run IDs are generated.
func WithRunIDGenerator(gen func() string) Option {
	return func(h *Harness) { h.newRunID = gen }
}

// New creates a harness for cfg.
func New(cfg toolchain.Config, opts ...Option) *Harness {
	h := &Harness{
		cfg:       cfg,
		compiler:  toolchain.NewCompiler(cfg),
		simulator: toolchain.NewSimulator(cfg),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		newRunID: func() string {
			return uuid.Must(uuid.NewV7()).String()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Config returns the toolchain configuration the harness runs with.
func (h *Harness) Config() toolchain.Config {
	return h.cfg
}

// RunSuite runs every case in order and aggregates the results. A failing
// case never stops the suite.
func (h *Harness) RunSuite(ctx context.Context, s *Suite) *SuiteResult {
	result := &SuiteResult{
		RunID: h.newRunID(),
		Suite: s.Name,
		Cases: make([]*CaseResult, 0, len(s.Cases)),
	}

	for _, c := range s.Cases {
		result.add(h.RunCase(ctx, c))
	}

	h.logger.Info("suite finished",
		"suite", s.Name,
		"run_id", result.RunID,
		"passed", result.Passed,
		"failed", result.Failed,
		"total", result.Total,
	)
	return result
}

// RunCase compiles, simulates, normalizes, and asserts one case.
//
// The stages run strictly in order with no retries. The compile step
// always runs, so an artifact from an earlier run is never reused. Any
// failure stops the case and is returned in CaseResult.Failure.
func (h *Harness) RunCase(ctx context.Context, c Case) *CaseResult {
	result := &CaseResult{
		Name:   c.Name,
		Source: c.Source,
		Stage:  StagePending,
	}

	id, err := ident.CaseID(ident.CaseSpec{
		Name:   c.Name,
		Source: c.Source,
		Input:  c.Input,
		Expect: c.Expect,
	})
	if err != nil {
		h.logger.Warn("failed to compute case id", "case", c.Name, "error", err)
	}
	result.CaseID = id

	if c.Golden {
		if err := checkCaseName(c.Name); err != nil {
			result.fail(FailureMissingGolden, fmt.Sprintf("invalid golden case: %v", err), err)
			h.logFailure(result)
			return result
		}
	}

	recordGolden := c.Golden && h.update
	expected := c.Expect
	if c.Golden && !recordGolden {
		expected, err = os.ReadFile(h.goldenPath(c.Name))
		if err != nil {
			result.fail(FailureMissingGolden, fmt.Sprintf("failed to read golden file (run with --update to create it): %v", err), err)
			h.logFailure(result)
			return result
		}
	}
	result.Expected = expected

	// PENDING → COMPILED
	compileInv, err := h.compiler.Compile(ctx, c.Source)
	result.Compile = compileInv
	if err != nil {
		result.fail(FailureToolError, fmt.Sprintf("compiler could not be run: %v", err), err)
		h.logFailure(result)
		return result
	}
	if compileInv.ExitCode != 0 {
		h.logger.Warn("compiler exited non-zero",
			"case", c.Name,
			"exit_code", compileInv.ExitCode,
			"stderr", string(compileInv.Stderr),
		)
		if h.cfg.StrictCompile {
			result.fail(FailureCompileFailed, fmt.Sprintf("compiler exited with status %d: %s", compileInv.ExitCode, compileInv.CommandLine()), nil)
			h.logFailure(result)
			return result
		}
	}
	result.Stage = StageCompiled
	h.logger.Debug("case compiled", "case", c.Name, "stage", result.Stage, "exit_code", compileInv.ExitCode)

	// COMPILED → SIMULATED
	inputPath := ""
	if input := resolveInput(c, h.cfg); input != "" {
		inputPath = h.cfg.InputPath(input)
	}
	simInv, err := h.simulator.SimulateFile(ctx, h.compiler.ArtifactPath(c.Source), inputPath)
	result.Simulate = simInv
	if err != nil {
		result.fail(FailureToolError, fmt.Sprintf("simulator could not be run: %v", err), err)
		h.logFailure(result)
		return result
	}
	result.Stage = StageSimulated
	h.logger.Debug("case simulated", "case", c.Name, "stage", result.Stage, "exit_code", simInv.ExitCode, "input", inputPath)

	// SIMULATED → NORMALIZED
	result.Actual = Normalize(simInv.Stdout)
	result.Stage = StageNormalized

	// NORMALIZED → ASSERTED
	if recordGolden {
		if err := h.writeGolden(c.Name, result.Actual); err != nil {
			result.fail(FailureMissingGolden, fmt.Sprintf("failed to write golden file: %v", err), err)
			h.logFailure(result)
			return result
		}
		result.Expected = result.Actual
		h.logger.Info("golden file updated", "case", c.Name, "path", h.goldenPath(c.Name))
	} else if err := AssertOutput(result.Actual, expected); err != nil {
		var mismatch *MismatchError
		if errors.As(err, &mismatch) {
			mismatch.Compile = compileInv
		}
		result.fail(FailureOutputMismatch, err.Error(), err)
		h.logFailure(result)
		return result
	}

	result.Stage = StageAsserted
	result.Pass = true
	h.logger.Info("case passed", "case", c.Name, "case_id", result.CaseID)
	return result
}

func (h *Harness) logFailure(r *CaseResult) {
	h.logger.Info("case failed",
		"case", r.Name,
		"stage", r.Failure.Stage,
		"kind", r.Failure.Kind,
	)
}

// goldenPath is <root>/golden/<name>.golden.
func (h *Harness) goldenPath(name string) string {
	return filepath.Join(h.cfg.Root, "golden", name+".golden")
}

func (h *Harness) writeGolden(name string, data []byte) error {
	path := h.goldenPath(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
