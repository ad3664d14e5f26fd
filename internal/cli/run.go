package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/afd/internal/loader"
	"github.com/roach88/afd/internal/pipeline"
	"github.com/roach88/afd/internal/registry"
	"github.com/roach88/afd/internal/stream"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Pipeline string
	Input    string
	File     string
	Database string
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions, reg *registry.Registry) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run [definitions-dir]",
		Short: "Execute a pipeline",
		Long: `Execute a pipeline, either a named definition from a CUE
definitions directory or a YAML/JSON request file.

Steps run strictly in declaration order. Step outputs are addressable
from later steps via $prev, $first, $input, $steps[n], and
$steps.<alias> references; when conditions gate steps against the
accumulated context.

Examples:
  afd run ./pipelines --pipeline enrich --input '{"userId":123}'
  afd run --file ./requests/enrich.yaml --db ./afd.db
  afd run ./pipelines --pipeline enrich --format json --verbose`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) > 0 {
				dir = args[0]
			}
			return runPipeline(opts, reg, dir, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Pipeline, "pipeline", "", "named pipeline from the definitions directory")
	cmd.Flags().StringVar(&opts.Input, "input", "", "pipeline input as JSON (overrides the definition default)")
	cmd.Flags().StringVar(&opts.File, "file", "", "YAML or JSON pipeline request file")
	cmd.Flags().StringVar(&opts.Database, "db", "", "journal the run to this SQLite database")

	return cmd
}

func runPipeline(opts *RunOptions, reg *registry.Registry, dir string, cmd *cobra.Command) error {
	req, err := resolveRequest(opts, dir)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Stream chunks surface on stderr as they arrive so the final
	// result on stdout stays parseable.
	sink := func(stepIndex int, alias string, chunk stream.Chunk) {
		label := alias
		if label == "" {
			label = fmt.Sprintf("step %d", stepIndex)
		}
		payload, err := json.Marshal(chunk)
		if err != nil {
			return
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "[%s] %s\n", label, payload)
	}

	eng := pipeline.NewEngine(reg, pipeline.WithChunkSink(sink))
	started := time.Now()
	res := eng.Execute(ctx, req)
	ended := time.Now()

	if opts.Database != "" {
		record := pipelineRunRecord(res)
		record.StartedAt = started
		record.EndedAt = ended
		if err := journalRun(ctx, opts.Database, record); err != nil {
			return err
		}
	}

	out := newFormatter(opts.RootOptions, cmd)
	if err := out.PipelineResult(res); err != nil {
		return WrapExitError(ExitCommandError, "encoding result", err)
	}

	if res.Metadata.CompletedSteps < res.Metadata.TotalSteps-skippedCount(res) {
		return NewExitError(ExitFailure, fmt.Sprintf("pipeline %s failed: %d of %d steps completed",
			res.ID, res.Metadata.CompletedSteps, res.Metadata.TotalSteps))
	}
	return nil
}

// resolveRequest builds the pipeline request from either a request
// file or a named CUE definition.
func resolveRequest(opts *RunOptions, dir string) (pipeline.Request, error) {
	var req pipeline.Request

	switch {
	case opts.File != "":
		if err := loadRequestFile(opts.File, &req); err != nil {
			return req, WrapExitError(ExitCommandError, "failed to load pipeline request", err)
		}
	case dir != "" && opts.Pipeline != "":
		result, errs := loader.LoadDefinitions(dir, loader.LoadModeFailFast)
		if len(errs) > 0 {
			return req, WrapExitError(ExitCommandError, "failed to load definitions", errs[0])
		}
		def, ok := result.Pipeline(opts.Pipeline)
		if !ok {
			return req, NewExitError(ExitCommandError, fmt.Sprintf("pipeline %q not found in %s", opts.Pipeline, dir))
		}
		req = def.Request
	default:
		return req, NewExitError(ExitCommandError, "either --file or a definitions directory with --pipeline is required")
	}

	if opts.Input != "" {
		var input any
		if err := json.Unmarshal([]byte(opts.Input), &input); err != nil {
			return req, WrapExitError(ExitCommandError, "invalid --input JSON", err)
		}
		req.Input = input
	}

	return req, nil
}

// skippedCount counts condition-skipped steps, which do not count
// against pipeline success.
func skippedCount(res pipeline.Result) int {
	n := 0
	for _, s := range res.Steps {
		if s.Status == pipeline.StatusSkipped {
			n++
		}
	}
	return n
}
