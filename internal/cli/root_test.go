package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "leprechaun", cmd.Use)
	assert.Contains(t, cmd.Long, "rainbow tables")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"generate", "lookup", "convert", "runs", "algorithms"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestGenerateCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	genCmd, _, err := cmd.Find([]string{"generate"})
	require.NoError(t, err)

	shorthands := map[string]string{
		"algorithm":  "a",
		"iterations": "i",
		"output":     "o",
		"database":   "d",
	}
	for name, short := range shorthands {
		flag := genCmd.Flags().Lookup(name)
		require.NotNil(t, flag, "flag %s", name)
		assert.Equal(t, short, flag.Shorthand, "flag %s", name)
	}

	for _, name := range []string{"prefix", "postfix", "salt-first-only", "encoding", "workers", "batch-size", "config"} {
		assert.NotNil(t, genCmd.Flags().Lookup(name), "flag %s", name)
	}

	assert.Equal(t, "md5", genCmd.Flags().Lookup("algorithm").DefValue)
	assert.Equal(t, "1", genCmd.Flags().Lookup("iterations").DefValue)
}

func TestExecute_InvalidFormat(t *testing.T) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

	code := Execute(t.Context(), []string{"--format", "yaml", "algorithms"}, stdout, stderr)

	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr.String(), `invalid format "yaml"`)
}

func TestExecute_UnknownFlag(t *testing.T) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

	code := Execute(t.Context(), []string{"generate", "--no-such-flag"}, stdout, stderr)

	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr.String(), "no-such-flag")
}

func TestExecute_JSONErrorResponse(t *testing.T) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

	code := Execute(t.Context(), []string{"--format", "json", "generate", "-i", "0", "-o", "out", "words.txt"}, stdout, stderr)

	assert.Equal(t, ExitCommandError, code)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "CONFIG_ERROR", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "iterations must be >= 1")
}
