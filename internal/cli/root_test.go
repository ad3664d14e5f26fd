package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/afd/internal/registry"
	"github.com/roach88/afd/internal/result"
)

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New()

	reg.MustRegister(registry.NewFunc("echo", "Echo the input back",
		func(ctx context.Context, input any, cc registry.Context) result.Result {
			return result.OK(input)
		}).WithCategory("util"))

	reg.MustRegister(registry.NewFunc("fail", "Always fails",
		func(ctx context.Context, input any, cc registry.Context) result.Result {
			return result.Fail(result.ExecutionError("it broke"))
		}).WithCategory("util"))

	return reg
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand(testRegistry(t))
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand(testRegistry(t))
	require.NotNil(t, cmd)
	assert.Equal(t, "afd", cmd.Use)
	assert.Contains(t, cmd.Long, "trust metadata")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand(testRegistry(t))
	commands := []string{"tools", "invoke", "batch", "run", "history"}

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
	cmd := NewRootCommand(testRegistry(t))

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestInvalidFormatRejected(t *testing.T) {
	_, _, err := execute(t, "tools", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestInvokeCommandFlags(t *testing.T) {
	cmd := NewRootCommand(testRegistry(t))
	invokeCmd, _, err := cmd.Find([]string{"invoke"})
	require.NoError(t, err)

	inputFlag := invokeCmd.Flags().Lookup("input")
	require.NotNil(t, inputFlag)
	assert.Equal(t, "{}", inputFlag.DefValue)

	dbFlag := invokeCmd.Flags().Lookup("db")
	require.NotNil(t, dbFlag)
	assert.Equal(t, "", dbFlag.DefValue)
}

func TestHistoryCommandFlags(t *testing.T) {
	cmd := NewRootCommand(testRegistry(t))
	historyCmd, _, err := cmd.Find([]string{"history"})
	require.NoError(t, err)

	dbFlag := historyCmd.Flags().Lookup("db")
	require.NotNil(t, dbFlag)
	assert.Equal(t, "", dbFlag.DefValue)

	limitFlag := historyCmd.Flags().Lookup("limit")
	require.NotNil(t, limitFlag)
	assert.Equal(t, "20", limitFlag.DefValue)
}
