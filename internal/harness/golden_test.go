package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sameersismail/cmmcheck/internal/testutil"
)

func TestRequireCase(t *testing.T) {
	h, _ := newFakeHarness(t)

	result := RequireCase(t, h, Case{Name: "double-input", Source: "double-input.c", Input: InputAuto, Expect: []byte("50")})
	assert.Equal(t, StageAsserted, result.Stage)
}

func TestAssertGolden(t *testing.T) {
	h, _ := newFakeHarness(t)
	testutil.WriteFile(t, h.Config().Root, "countdown.c", "1\n2\n3\n")

	AssertGolden(t, h, Case{Name: "countdown", Source: "countdown.c"})
	AssertGolden(t, h, Case{Name: "gcd", Source: "gcd.c"})
}
