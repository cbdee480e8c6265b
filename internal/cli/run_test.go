package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sameersismail/cmmcheck/internal/testutil"
)

func TestRunCommand_MissingArgs(t *testing.T) {
	_, _, err := executeCLI(t, "run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestRunCommand_AllPass(t *testing.T) {
	f := newFixture(t)

	out, _, err := executeCLI(t, append([]string{"run", f.suite}, f.toolFlags()...)...)
	require.NoError(t, err)

	assert.Contains(t, out, "✓ factorial")
	assert.Contains(t, out, "✓ gcd")
	assert.Contains(t, out, "✓ io")
	assert.Contains(t, out, "3 passed, 0 failed, 3 total")
	assert.Contains(t, out, "✓ All cases passed")
}

func TestRunCommand_FailureExitsOne(t *testing.T) {
	f := newFixture(t)
	suite := f.writeSuite(t, "wrong.yaml", `name: wrong
cases:
  - name: factorial
    source: factorial.c
    expect: "120"
  - name: gcd
    source: gcd.c
    expect: "17"
`)

	out, _, err := executeCLI(t, append([]string{"run", suite}, f.toolFlags()...)...)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	assert.Contains(t, out, "✓ factorial")
	assert.Contains(t, out, "✗ gcd (output_mismatch after normalized)")
	assert.Contains(t, out, `Expected: "17"`)
	assert.Contains(t, out, `Actual:   "16"`)
	assert.Contains(t, out, "1 passed, 1 failed, 2 total")
	assert.NotContains(t, out, "All cases passed")
}

func TestRunCommand_JSON(t *testing.T) {
	f := newFixture(t)

	out, _, err := executeCLI(t, append([]string{"--format", "json", "run", f.suite}, f.toolFlags()...)...)
	require.NoError(t, err)

	resp := decodeRunResponse(t, out)
	assert.Equal(t, "ok", resp.Status)
	assert.Nil(t, resp.Error)
	assert.Equal(t, "basic", resp.Data.Suite)
	assert.NotEmpty(t, resp.Data.RunID)
	assert.Equal(t, 3, resp.Data.Passed)
	require.Len(t, resp.Data.Cases, 3)

	io := resp.Data.Cases[2]
	assert.Equal(t, "io", io.Name)
	assert.True(t, io.Pass)
	assert.Equal(t, "asserted", io.Stage)
	assert.Equal(t, "5", io.Actual)
	assert.Len(t, io.CaseID, 64)
	require.NotNil(t, io.CompileExit)
	assert.Equal(t, 0, *io.CompileExit)
}

func TestRunCommand_JSONFailure(t *testing.T) {
	f := newFixture(t)
	suite := f.writeSuite(t, "wrong.yaml", `name: wrong
cases:
  - name: gcd
    source: gcd.c
    expect: "17"
`)

	out, _, err := executeCLI(t, append([]string{"--format", "json", "run", suite}, f.toolFlags()...)...)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	resp := decodeRunResponse(t, out)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeCasesFailed, resp.Error.Code)
	require.Len(t, resp.Data.Cases, 1)
	assert.Equal(t, "output_mismatch", resp.Data.Cases[0].Kind)
	assert.Equal(t, "17", resp.Data.Cases[0].Expected)
	assert.Equal(t, "16", resp.Data.Cases[0].Actual)
}

func TestRunCommand_Filter(t *testing.T) {
	f := newFixture(t)

	out, _, err := executeCLI(t, append([]string{"run", f.suite, "--filter", "g*"}, f.toolFlags()...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ gcd")
	assert.NotContains(t, out, "factorial")
	assert.Contains(t, out, "1 passed, 0 failed, 1 total")
	assert.Equal(t, []string{filepath.Join(f.root, "gcd.c")}, f.tc.Compilations(t))
}

func TestRunCommand_FilterNoMatch(t *testing.T) {
	f := newFixture(t)

	out, _, err := executeCLI(t, append([]string{"run", f.suite, "--filter", "nothing*"}, f.toolFlags()...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "No cases matched.")
	assert.Empty(t, f.tc.Compilations(t))
}

func TestRunCommand_MissingSuite(t *testing.T) {
	f := newFixture(t)

	out, _, err := executeCLI(t, append([]string{"run", "/nonexistent/suite.yaml"}, f.toolFlags()...)...)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E_SUITE_LOAD]")
}

func TestRunCommand_ConfigFile(t *testing.T) {
	f := newFixture(t)
	config := testutil.WriteFile(t, t.TempDir(), "harness.toml",
		"root = \""+f.root+"\"\ncompiler = \""+f.tc.Compiler+"\"\nsimulator = \""+f.tc.Simulator+"\"\n")

	out, _, err := executeCLI(t, "--config", config, "run", f.suite)
	require.NoError(t, err)
	assert.Contains(t, out, "3 passed, 0 failed, 3 total")

	// A flag overrides the file.
	out, _, err = executeCLI(t, "--config", config, "run", f.suite, "--simulator", "/nonexistent/spim")
	require.Error(t, err)
	assert.Contains(t, out, "✗ factorial (tool_error after compiled)")
}

func TestRunCommand_StrictCompile(t *testing.T) {
	f := newFixture(t)
	testutil.WriteFile(t, f.root, "broken.c", testutil.ProgramSyntaxError+"\n")
	suite := f.writeSuite(t, "broken.yaml", `name: broken
cases:
  - name: broken
    source: broken.c
    expect: "1"
`)

	out, _, err := executeCLI(t, append([]string{"run", suite}, f.toolFlags()...)...)
	require.Error(t, err)
	assert.Contains(t, out, "✗ broken (output_mismatch after normalized)")
	assert.Contains(t, out, "Compiler exited with status 2")

	out, _, err = executeCLI(t, append([]string{"run", suite, "--strict-compile"}, f.toolFlags()...)...)
	require.Error(t, err)
	assert.Contains(t, out, "✗ broken (compile_failed after pending)")
}

func TestRunCommand_UpdateGolden(t *testing.T) {
	f := newFixture(t)
	suite := f.writeSuite(t, "golden.yaml", `name: golden
cases:
  - name: factorial
    source: factorial.c
    golden: true
`)

	out, _, err := executeCLI(t, append([]string{"run", suite}, f.toolFlags()...)...)
	require.Error(t, err)
	assert.Contains(t, out, "✗ factorial (missing_golden after pending)")

	out, _, err = executeCLI(t, append([]string{"run", suite, "--update"}, f.toolFlags()...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ factorial (golden updated)")

	data, err := os.ReadFile(filepath.Join(f.root, "golden", "factorial.golden"))
	require.NoError(t, err)
	assert.Equal(t, "120", string(data))

	out, _, err = executeCLI(t, append([]string{"run", suite}, f.toolFlags()...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ factorial\n")
}

func TestRunCommand_VerboseLogsToStderr(t *testing.T) {
	f := newFixture(t)

	out, errOut, err := executeCLI(t, append([]string{"-v", "--format", "json", "run", f.suite}, f.toolFlags()...)...)
	require.NoError(t, err)

	decodeRunResponse(t, out)
	assert.Contains(t, errOut, "Running 3 case(s)")
	assert.Contains(t, errOut, "case compiled")
	assert.Contains(t, errOut, "suite finished")
}
