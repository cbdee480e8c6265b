package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sameersismail/cmmcheck/internal/testutil"
)

const basicSuite = `name: basic
description: three passing cases
cases:
  - name: factorial
    source: factorial.c
    expect: "120"
  - name: gcd
    source: gcd.c
    expect: "16"
  - name: io
    source: io.c
    input: auto
    expect: "5"
`

// fixture is a test-data root wired to the fake toolchain.
type fixture struct {
	tc    *testutil.FakeToolchain
	root  string
	suite string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	tc := testutil.NewFakeToolchain(t)
	root := t.TempDir()
	testutil.WriteFile(t, root, "factorial.c", "120")
	testutil.WriteFile(t, root, "gcd.c", "16")
	testutil.WriteFile(t, root, "io.c", testutil.ProgramEcho+"\n")
	testutil.WriteFile(t, root, "io.c.in", "5\n")

	return &fixture{
		tc:    tc,
		root:  root,
		suite: testutil.WriteFile(t, t.TempDir(), "basic.yaml", basicSuite),
	}
}

// writeSuite writes an extra suite file and returns its path.
func (f *fixture) writeSuite(t *testing.T, name, content string) string {
	t.Helper()
	return testutil.WriteFile(t, t.TempDir(), name, content)
}

// toolFlags points a command at the fixture root and fake tools.
func (f *fixture) toolFlags() []string {
	return []string{"--root", f.root, "--compiler", f.tc.Compiler, "--simulator", f.tc.Simulator}
}

// executeCLI runs the root command with color disabled and returns
// stdout, stderr, and the command error.
func executeCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	cmd := NewRootCommand()
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(append([]string{"--color", "off"}, args...))

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// runResponse is CLIResponse with a typed run payload.
type runResponse struct {
	Status string    `json:"status"`
	Data   RunReport `json:"data"`
	Error  *CLIError `json:"error"`
}

func decodeRunResponse(t *testing.T, out string) runResponse {
	t.Helper()
	var resp runResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), "output: %s", out)
	return resp
}
