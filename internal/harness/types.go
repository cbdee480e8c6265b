package harness

import (
	"fmt"

	"github.com/sameersismail/cmmcheck/internal/toolchain"
)

// Stage is a step in the per-case state machine.
type Stage string

// Stages in execution order.
const (
	StagePending    Stage = "pending"
	StageCompiled   Stage = "compiled"
	StageSimulated  Stage = "simulated"
	StageNormalized Stage = "normalized"
	StageAsserted   Stage = "asserted"
)

// FailureKind classifies why a case failed.
type FailureKind string

const (
	// FailureToolError: an external tool could not be run (missing
	// executable, start failure, unreadable input, cancelled context).
	FailureToolError FailureKind = "tool_error"

	// FailureCompileFailed: the compiler exited non-zero in strict mode.
	FailureCompileFailed FailureKind = "compile_failed"

	// FailureOutputMismatch: normalized output differs from the expectation.
	FailureOutputMismatch FailureKind = "output_mismatch"

	// FailureMissingGolden: a golden case has no readable golden file.
	FailureMissingGolden FailureKind = "missing_golden"
)

// Failure describes where and why a case failed.
type Failure struct {
	// Stage is the last stage the case reached before failing.
	Stage   Stage       `json:"stage"`
	Kind    FailureKind `json:"kind"`
	Message string      `json:"message"`
	Err     error       `json:"-"`
}

// Error implements the error interface.
func (f *Failure) Error() string {
	return fmt.Sprintf("%s after %s: %s", f.Kind, f.Stage, f.Message)
}

// Unwrap returns the underlying error, if any.
func (f *Failure) Unwrap() error {
	return f.Err
}

// CaseResult is the outcome of running one case.
type CaseResult struct {
	Name   string `json:"name"`
	CaseID string `json:"case_id"`
	Source string `json:"source"`
	Pass   bool   `json:"pass"`

	// Stage is the last stage reached. A passing case ends at StageAsserted.
	Stage Stage `json:"stage"`

	Expected []byte `json:"-"`

	// Actual is the normalized simulator output. Nil if the case never
	// reached StageNormalized.
	Actual []byte `json:"-"`

	Compile  *toolchain.Invocation `json:"compile,omitempty"`
	Simulate *toolchain.Invocation `json:"simulate,omitempty"`

	Failure *Failure `json:"failure,omitempty"`
}

// fail records a failure at the current stage.
func (r *CaseResult) fail(kind FailureKind, message string, err error) {
	r.Pass = false
	r.Failure = &Failure{
		Stage:   r.Stage,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// SuiteResult aggregates the results of one suite run.
type SuiteResult struct {
	RunID  string        `json:"run_id"`
	Suite  string        `json:"suite"`
	Cases  []*CaseResult `json:"cases"`
	Passed int           `json:"passed"`
	Failed int           `json:"failed"`
	Total  int           `json:"total"`
}

// Pass reports whether every case passed.
func (r *SuiteResult) Pass() bool {
	return r.Failed == 0
}

func (r *SuiteResult) add(c *CaseResult) {
	r.Cases = append(r.Cases, c)
	r.Total++
	if c.Pass {
		r.Passed++
	} else {
		r.Failed++
	}
}
