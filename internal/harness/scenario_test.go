package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenarioFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenario(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/enrich.yaml")
	require.NoError(t, err)

	assert.Equal(t, "enrich", s.Name)
	assert.Equal(t, "golden-run-1", s.RunID)
	assert.Len(t, s.Steps, 2)
	assert.Equal(t, "user.get", s.Steps[0].Command)
	assert.Equal(t, "user", s.Steps[0].Alias)
	assert.Len(t, s.Assertions, 4)
}

func TestLoadScenarioMissingFile(t *testing.T) {
	_, err := LoadScenario("testdata/scenarios/nope.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenarioUnknownField(t *testing.T) {
	// "assertion" is a typo for "assertions" and must be rejected.
	path := writeScenarioFile(t, `
name: typo
description: "Catches field typos"
steps:
  - command: echo
assertion:
  - type: completed_steps
    count: 1
`)
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenarioValidation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name: "missing name",
			yaml: `
description: "no name"
steps:
  - command: echo
assertions:
  - type: completed_steps
    count: 1
`,
			wantErr: "name is required",
		},
		{
			name: "missing description",
			yaml: `
name: nodesc
steps:
  - command: echo
assertions:
  - type: completed_steps
    count: 1
`,
			wantErr: "description is required",
		},
		{
			name: "empty steps",
			yaml: `
name: nosteps
description: "no steps"
assertions:
  - type: completed_steps
    count: 1
`,
			wantErr: "steps list is required",
		},
		{
			name: "no assertions",
			yaml: `
name: noasserts
description: "no assertions"
steps:
  - command: echo
`,
			wantErr: "assertions list is required",
		},
		{
			name: "step without command",
			yaml: `
name: badstep
description: "step missing command"
steps:
  - as: x
assertions:
  - type: completed_steps
    count: 1
`,
			wantErr: "steps[0]: command is required",
		},
		{
			name: "unknown assertion type",
			yaml: `
name: badassert
description: "bad assertion type"
steps:
  - command: echo
assertions:
  - type: step_count
`,
			wantErr: "unknown assertion type",
		},
		{
			name: "step_status without status",
			yaml: `
name: nostatus
description: "status missing"
steps:
  - command: echo
assertions:
  - type: step_status
    step: 0
`,
			wantErr: "status is required",
		},
		{
			name: "min_confidence out of range",
			yaml: `
name: badconf
description: "confidence above 1"
steps:
  - command: echo
assertions:
  - type: min_confidence
    value: 1.5
`,
			wantErr: "value must be in [0,1]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeScenarioFile(t, tt.yaml)
			_, err := LoadScenario(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
