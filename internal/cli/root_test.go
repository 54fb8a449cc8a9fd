package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/taxledger/internal/config"
)

func testConfig() config.Config {
	return config.Config{LedgerPath: config.DefaultLedger}
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand(testConfig())
	require.NotNil(t, cmd)
	assert.Equal(t, "taxledger", cmd.Use)
	assert.Contains(t, cmd.Long, "TAXLEDGER_LEDGER")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand(testConfig())
	commands := []string{"session", "calc", "reliefs", "records", "check", "submit", "export"}

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
	cmd := NewRootCommand(config.Config{LedgerPath: "/data/ledger.csv"})

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	ledgerFlag := cmd.PersistentFlags().Lookup("ledger")
	require.NotNil(t, ledgerFlag)
	assert.Equal(t, "/data/ledger.csv", ledgerFlag.DefValue)
}

func TestCalcCommandFlags(t *testing.T) {
	cmd := NewRootCommand(testConfig())
	calcCmd, _, err := cmd.Find([]string{"calc"})
	require.NoError(t, err)

	for _, name := range []string{"income", "relief", "claim"} {
		assert.NotNil(t, calcCmd.Flags().Lookup(name), "flag %s", name)
	}
}

func TestCheckCommandFlags(t *testing.T) {
	cmd := NewRootCommand(testConfig())
	checkCmd, _, err := cmd.Find([]string{"check"})
	require.NoError(t, err)

	assert.NotNil(t, checkCmd.Flags().Lookup("user"))
	assert.NotNil(t, checkCmd.Flags().Lookup("ic"))
}

func TestInvalidFormat(t *testing.T) {
	cmd := NewRootCommand(testConfig())
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--format", "yaml", "reliefs"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestExecute(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		cmd := NewRootCommand(testConfig())
		out := &bytes.Buffer{}
		cmd.SetOut(out)
		cmd.SetArgs([]string{"reliefs"})

		stderr := &bytes.Buffer{}
		assert.Equal(t, ExitSuccess, Execute(cmd, stderr))
		assert.Empty(t, stderr.String())
	})

	t.Run("command error", func(t *testing.T) {
		cmd := NewRootCommand(testConfig())
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetArgs([]string{"calc", "--income", "-1"})

		stderr := &bytes.Buffer{}
		assert.Equal(t, ExitCommandError, Execute(cmd, stderr))
		assert.Contains(t, stderr.String(), "Error: income must not be negative")
	})
}

func TestIsValidFormat(t *testing.T) {
	tests := []struct {
		format string
		valid  bool
	}{
		{"text", true},
		{"json", true},
		{"yaml", false},
		{"", false},
		{"JSON", false},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			assert.Equal(t, tt.valid, isValidFormat(tt.format))
		})
	}
}
