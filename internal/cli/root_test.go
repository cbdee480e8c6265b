package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "cmmcheck", cmd.Use)
	assert.Contains(t, cmd.Long, "spim")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()

	for _, path := range [][]string{{"run"}, {"validate"}, {"check"}, {"history"}, {"history", "show"}} {
		sub, _, err := cmd.Find(path)
		require.NoError(t, err, "command %v should exist", path)
		assert.Equal(t, path[len(path)-1], sub.Name())
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verbose := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)
	assert.Equal(t, "false", verbose.DefValue)

	format := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "text", format.DefValue)

	config := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, config)
	assert.Empty(t, config.DefValue)

	colorFlag := cmd.PersistentFlags().Lookup("color")
	require.NotNil(t, colorFlag)
	assert.Equal(t, "auto", colorFlag.DefValue)
}

func TestInvalidFormat(t *testing.T) {
	_, _, err := executeCLI(t, "--format", "xml", "history")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "xml"`)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestInvalidColor(t *testing.T) {
	_, _, err := executeCLI(t, "--color", "sometimes", "history")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid color "sometimes"`)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
