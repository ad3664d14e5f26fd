package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDef(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadDefinitions(t *testing.T) {
	dir := t.TempDir()
	writeDef(t, dir, "pipelines.cue", `
pipelines: enrich: {
	description: "Fetch and score"
	steps: [
		{ command: "user.get", as: "user" },
		{ command: "score.compute", input: { user: "$prev.id" } },
	]
}

pipelines: audit: {
	steps: [
		{ command: "audit.log" },
	]
}
`)

	result, errs := LoadDefinitions(dir, LoadModeFailFast)
	require.Empty(t, errs)
	require.NotNil(t, result)

	assert.Equal(t, 1, result.FileCount)
	require.Len(t, result.Pipelines, 2)

	def, ok := result.Pipeline("enrich")
	require.True(t, ok)
	assert.Equal(t, "Fetch and score", def.Description)
	assert.Len(t, def.Request.Steps, 2)

	_, ok = result.Pipeline("nosuch")
	assert.False(t, ok)
}

func TestLoadDefinitionsMissingDir(t *testing.T) {
	_, errs := LoadDefinitions(filepath.Join(t.TempDir(), "nope"), LoadModeFailFast)
	require.Len(t, errs, 1)

	var loadErr *LoadError
	require.ErrorAs(t, errs[0], &loadErr)
	assert.Equal(t, ErrCodeNotFound, loadErr.Code)
}

func TestLoadDefinitionsNoCUEFiles(t *testing.T) {
	dir := t.TempDir()
	writeDef(t, dir, "readme.txt", "not cue")

	_, errs := LoadDefinitions(dir, LoadModeFailFast)
	require.Len(t, errs, 1)

	var loadErr *LoadError
	require.ErrorAs(t, errs[0], &loadErr)
	assert.Equal(t, ErrCodeNoFiles, loadErr.Code)
}

func TestLoadDefinitionsCollectAll(t *testing.T) {
	dir := t.TempDir()
	writeDef(t, dir, "pipelines.cue", `
pipelines: first: {
	steps: [{ as: "missing" }]
}

pipelines: good: {
	steps: [{ command: "ok" }]
}

pipelines: second: {
	description: "no steps"
}
`)

	result, errs := LoadDefinitions(dir, LoadModeCollectAll)
	require.NotNil(t, result)

	// Both bad pipelines reported, the good one still compiled.
	assert.Len(t, errs, 2)
	require.Len(t, result.Pipelines, 1)
	assert.Equal(t, "good", result.Pipelines[0].Name)
}

func TestLoadDefinitionsFailFastStopsEarly(t *testing.T) {
	dir := t.TempDir()
	writeDef(t, dir, "pipelines.cue", `
pipelines: bad: {
	description: "no steps"
}

pipelines: alsobad: {
	steps: [{ as: "missing" }]
}
`)

	_, errs := LoadDefinitions(dir, LoadModeFailFast)
	assert.Len(t, errs, 1)
}
