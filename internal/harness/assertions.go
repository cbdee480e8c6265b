package harness

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/google/go-cmp/cmp"

	"github.com/sameersismail/cmmcheck/internal/toolchain"
)

// MismatchError is returned when normalized output differs from the
// expected bytes.
type MismatchError struct {
	Expected []byte
	Actual   []byte

	// Diff is a go-cmp diff from expected to actual (-want +got).
	Diff string

	// Compile holds the compiler invocation, when known, since a failed
	// compile usually explains a mismatch.
	Compile *toolchain.Invocation
}

// Error implements the error interface.
func (e *MismatchError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "output mismatch\n")
	fmt.Fprintf(&buf, "  Expected: %q\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual:   %q\n", e.Actual)
	if e.Diff != "" {
		fmt.Fprintf(&buf, "\nDiff (-want +got):\n%s", e.Diff)
	}
	if e.Compile != nil && e.Compile.ExitCode != 0 {
		fmt.Fprintf(&buf, "\nCompiler exited with status %d: %s\n", e.Compile.ExitCode, e.Compile.CommandLine())
		if stderr := strings.TrimSpace(string(e.Compile.Stderr)); stderr != "" {
			fmt.Fprintf(&buf, "  %s\n", stderr)
		}
	}

	return buf.String()
}

// AssertOutput compares normalized output with the expected bytes.
// Equality is exact: no trimming, no encoding conversion, no numeric
// parsing. Returns *MismatchError on any difference.
func AssertOutput(actual, expected []byte) error {
	if bytes.Equal(actual, expected) {
		return nil
	}
	return &MismatchError{
		Expected: expected,
		Actual:   actual,
		Diff:     cmp.Diff(string(expected), string(actual)),
	}
}
