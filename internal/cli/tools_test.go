package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToolsText(t *testing.T) {
	out, _, err := execute(t, "tools")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "echo")
	assert.Contains(t, out, "fail")
}

func TestToolsJSON(t *testing.T) {
	out, _, err := execute(t, "tools", "--format", "json")
	require.NoError(t, err)

	var tools []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &tools))
	require.Len(t, tools, 2)

	names := []string{tools[0]["name"].(string), tools[1]["name"].(string)}
	assert.Contains(t, names, "echo")
	assert.Contains(t, names, "fail")
}

func TestToolsCategoryFilter(t *testing.T) {
	out, _, err := execute(t, "tools", "--category", "nosuch")
	require.NoError(t, err)
	assert.Contains(t, out, "No commands registered.")
}
