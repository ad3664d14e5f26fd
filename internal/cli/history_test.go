package cli

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryEmpty(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "afd.db")

	out, _, err := execute(t, "history", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "No runs journaled.")
}

func TestHistoryListsRuns(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "afd.db")

	_, _, err := execute(t, "invoke", "echo", "--input", `{"x":1}`, "--db", dbPath)
	require.NoError(t, err)
	_, _, err = execute(t, "invoke", "fail", "--db", dbPath)
	require.Error(t, err) // command failed, but the run was journaled

	out, _, err := execute(t, "history", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "command")
	assert.Contains(t, out, "ok")
	assert.Contains(t, out, "failed")
}

func TestHistoryShowsOneRun(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "afd.db")

	_, _, err := execute(t, "invoke", "echo", "--input", `{"x":1}`, "--db", dbPath)
	require.NoError(t, err)

	// Find the run ID from the JSON listing.
	out, _, err := execute(t, "history", "--db", dbPath, "--format", "json")
	require.NoError(t, err)

	var listed []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &listed))
	require.Len(t, listed, 1)
	runID, ok := listed[0]["id"].(string)
	require.True(t, ok)

	out, _, err = execute(t, "history", "--db", dbPath, "--id", runID)
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, runID))
	assert.Contains(t, out, "echo")
}

func TestHistoryUnknownRun(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "afd.db")

	// Create the database first so the open succeeds.
	_, _, err := execute(t, "invoke", "echo", "--db", dbPath)
	require.NoError(t, err)

	_, _, err = execute(t, "history", "--db", dbPath, "--id", "missing")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
