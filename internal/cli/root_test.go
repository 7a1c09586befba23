package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "dynmodel", cmd.Use)
	assert.Contains(t, cmd.Long, "bound parameter")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := [][]string{
		{"all"}, {"find"}, {"where"}, {"insert"}, {"update"}, {"delete"},
		{"raw"}, {"login"}, {"token", "revoke"}, {"hash-password"},
	}

	for _, path := range commands {
		name := path[len(path)-1]
		t.Run(name, func(t *testing.T) {
			subCmd, _, err := cmd.Find(path)
			require.NoError(t, err, "Command %v should exist", path)
			require.NotNil(t, subCmd)
			assert.Equal(t, name, subCmd.Name())
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

	envFlag := cmd.PersistentFlags().Lookup("env-file")
	require.NotNil(t, envFlag)
	assert.Equal(t, ".env", envFlag.DefValue)

	tableFlag := cmd.PersistentFlags().Lookup("table")
	require.NotNil(t, tableFlag)
	assert.Equal(t, "t", tableFlag.Shorthand)

	for _, name := range []string{"db", "config", "token-table"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}
}

func TestFindCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	findCmd, _, err := cmd.Find([]string{"find"})
	require.NoError(t, err)

	columnFlag := findCmd.Flags().Lookup("column")
	require.NotNil(t, columnFlag)
	assert.Equal(t, "id", columnFlag.DefValue)

	opFlag := findCmd.Flags().Lookup("op")
	require.NotNil(t, opFlag)
	assert.Equal(t, "=", opFlag.DefValue)
}

func TestLoginCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	loginCmd, _, err := cmd.Find([]string{"login"})
	require.NoError(t, err)

	nameFlag := loginCmd.Flags().Lookup("token-name")
	require.NotNil(t, nameFlag)
	assert.Equal(t, "auth_token", nameFlag.DefValue)

	assert.NotNil(t, loginCmd.Flags().Lookup("issue-token"))
	assert.NotNil(t, loginCmd.Flags().Lookup("abilities"))
}

func TestInvalidFormat(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"hash-password", "x", "--format", "xml"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}
