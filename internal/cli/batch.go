package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/afd/internal/batch"
	"github.com/roach88/afd/internal/registry"
)

// BatchOptions holds flags for the batch command.
type BatchOptions struct {
	*RootOptions
	Database string
}

// NewBatchCommand creates the batch command.
func NewBatchCommand(rootOpts *RootOptions, reg *registry.Registry) *cobra.Command {
	opts := &BatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "batch <request-file>",
		Short: "Execute a batch request from a file",
		Long: `Execute a batch of commands described in a YAML or JSON file.

The file holds a commands list plus options, e.g.:

  commands:
    - id: first
      command: user.get
      input: { id: 123 }
    - id: second
      command: score.compute
  options:
    continueOnError: true

Items run sequentially. On a failure without continueOnError, the
remaining items are reported as skipped.

Examples:
  afd batch ./requests/nightly.yaml
  afd batch ./requests/nightly.json --db ./afd.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(opts, reg, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "journal the run to this SQLite database")

	return cmd
}

func runBatch(opts *BatchOptions, reg *registry.Registry, path string, cmd *cobra.Command) error {
	var req batch.Request
	if err := loadRequestFile(path, &req); err != nil {
		return WrapExitError(ExitCommandError, "failed to load batch request", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	exec := batch.NewExecutor(reg)
	res := exec.Execute(ctx, req)

	if opts.Database != "" {
		runID := uuid.Must(uuid.NewV7()).String()
		if err := journalRun(ctx, opts.Database, batchRunRecord(runID, res)); err != nil {
			return err
		}
	}

	out := newFormatter(opts.RootOptions, cmd)
	if err := out.BatchResult(res); err != nil {
		return WrapExitError(ExitCommandError, "encoding result", err)
	}

	if !res.Success {
		return NewExitError(ExitFailure, fmt.Sprintf("batch failed: %d of %d commands failed",
			res.Summary.Failed, res.Summary.Total))
	}
	return nil
}

// loadRequestFile parses a YAML or JSON request file into target.
// YAML documents are normalized through JSON so both formats share the
// json struct tags.
func loadRequestFile(path string, target any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		var doc any
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return fmt.Errorf("parsing YAML: %w", err)
		}
		normalized, err := json.Marshal(normalizeYAML(doc))
		if err != nil {
			return fmt.Errorf("normalizing YAML: %w", err)
		}
		if err := json.Unmarshal(normalized, target); err != nil {
			return fmt.Errorf("decoding request: %w", err)
		}
	default:
		if err := json.Unmarshal(raw, target); err != nil {
			return fmt.Errorf("decoding request: %w", err)
		}
	}
	return nil
}

// normalizeYAML converts yaml.v3 map[any]any trees into the
// map[string]any form encoding/json can marshal.
func normalizeYAML(v any) any {
	switch val := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[fmt.Sprint(k)] = normalizeYAML(elem)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[k] = normalizeYAML(elem)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = normalizeYAML(elem)
		}
		return out
	default:
		return v
	}
}
