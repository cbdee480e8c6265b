package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Invocation records one run of an external process.
type Invocation struct {
	Path     string   `json:"path"`
	Args     []string `json:"args"`
	Stdout   []byte   `json:"-"`
	Stderr   []byte   `json:"-"`
	ExitCode int      `json:"exit_code"`
}

// CommandLine renders the invocation as a shell-like string for diagnostics.
func (inv *Invocation) CommandLine() string {
	if inv == nil {
		return ""
	}
	parts := append([]string{inv.Path}, inv.Args...)
	return strings.Join(parts, " ")
}

// ToolError is returned when an external process could not be run to
// completion: the executable is missing, it failed to start, or the
// context ended while it was running. A non-zero exit status is not a
// ToolError; it is reported through Invocation.ExitCode.
type ToolError struct {
	Path string
	Err  error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("run %s: %v", e.Path, e.Err)
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// RunProcess runs an executable with args, binding stdin when it is
// non-nil, and waits for it to exit. Standard output and standard error
// are captured separately.
//
// The returned Invocation is always non-nil so callers can report what
// was attempted even when err is a *ToolError.
func RunProcess(ctx context.Context, path string, args []string, stdin io.Reader) (*Invocation, error) {
	inv := &Invocation{
		Path: path,
		Args: append([]string(nil), args...),
	}

	// #nosec G204 -- executable and arguments come from harness configuration
	cmd := exec.CommandContext(ctx, path, args...)
	if stdin != nil {
		cmd.Stdin = stdin
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	inv.Stdout = stdout.Bytes()
	inv.Stderr = stderr.Bytes()

	if err == nil {
		return inv, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		inv.ExitCode = -1
		return inv, &ToolError{Path: path, Err: ctxErr}
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		inv.ExitCode = exitErr.ExitCode()
		return inv, nil
	}
	inv.ExitCode = -1
	return inv, &ToolError{Path: path, Err: err}
}
