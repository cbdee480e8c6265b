package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sameersismail/cmmcheck/internal/testutil"
)

func TestCheckCommand_ToolsFound(t *testing.T) {
	f := newFixture(t)

	out, _, err := executeCLI(t, append([]string{"check"}, f.toolFlags()...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ compiler: "+f.tc.Compiler)
	assert.Contains(t, out, "✓ simulator: "+f.tc.Simulator)
}

func TestCheckCommand_ToolMissing(t *testing.T) {
	f := newFixture(t)

	out, _, err := executeCLI(t, "check", "--compiler", "/nonexistent/cmm", "--simulator", f.tc.Simulator)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ compiler: /nonexistent/cmm not found")
	assert.Contains(t, out, "✓ simulator")
}

func TestCheckCommand_SmokeRun(t *testing.T) {
	f := newFixture(t)
	asm := testutil.WriteFile(t, t.TempDir(), "hello.asm", "hello")

	out, _, err := executeCLI(t, append([]string{"check", asm, "--expect", "hello"}, f.toolFlags()...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ simulate "+asm+" (exit 0)")
	assert.Contains(t, out, `output: "hello"`)
}

func TestCheckCommand_SmokeMismatch(t *testing.T) {
	f := newFixture(t)
	asm := testutil.WriteFile(t, t.TempDir(), "hello.asm", "hello")

	out, _, err := executeCLI(t, append([]string{"--format", "json", "check", asm, "--expect", "goodbye"}, f.toolFlags()...)...)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string      `json:"status"`
		Data   CheckResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.False(t, resp.Data.OK)
	require.NotNil(t, resp.Data.Smoke)
	assert.Equal(t, "hello", resp.Data.Smoke.Output)
	assert.Contains(t, resp.Data.Smoke.Error, "output mismatch")
}
