package harness

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RequireCase runs c through h inside a Go test and fails t with the
// stage, kind, and diagnostic of any failure. It returns the result so
// callers can make further assertions.
func RequireCase(t *testing.T, h *Harness, c Case) *CaseResult {
	t.Helper()

	result := h.RunCase(context.Background(), c)
	if !result.Pass {
		t.Fatalf("case %s failed (%s after %s):\n%s",
			c.Name, result.Failure.Kind, result.Failure.Stage, result.Failure.Message)
	}
	return result
}

// AssertGolden runs c and compares its normalized output against
// testdata/golden/<c.Name>.golden. The case's own Expect is ignored.
//
// To regenerate golden files, run:
//
//	go test ./... -update
func AssertGolden(t *testing.T, h *Harness, c Case) *CaseResult {
	t.Helper()

	c.Golden = false
	result := h.RunCase(context.Background(), c)
	if result.Actual == nil {
		t.Fatalf("case %s did not produce output (%s after %s):\n%s",
			c.Name, result.Failure.Kind, result.Failure.Stage, result.Failure.Message)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, c.Name, result.Actual)
	return result
}
