package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/afd/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Limit    int
	RunID    string
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show journaled runs",
		Long: `Show runs recorded in the execution journal, newest first.

With --id, shows one run in full including its steps.

Examples:
  afd history --db ./afd.db
  afd history --db ./afd.db --limit 5
  afd history --db ./afd.db --id 0194fe3a-... --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of runs to show")
	cmd.Flags().StringVar(&opts.RunID, "id", "", "show one run in full")

	return cmd
}

func showHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	if opts.RunID != "" {
		run, err := st.ReadRun(ctx, opts.RunID)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("run %s not found", opts.RunID), err)
		}
		return printRun(opts, run, cmd)
	}

	runs, err := st.RecentRuns(ctx, opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read history", err)
	}
	return printRuns(opts, runs, cmd)
}

func printRun(opts *HistoryOptions, run store.RunRecord, cmd *cobra.Command) error {
	if opts.Format == "json" {
		return newFormatter(opts.RootOptions, cmd).JSON(runView(run))
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s (%s)\n", run.ID, run.Kind)
	fmt.Fprintf(out, "  started: %s\n", run.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(out, "  status:  %s, %dms\n", statusWord(run.Success), run.TotalMs)
	if run.Confidence != nil {
		fmt.Fprintf(out, "  confidence: %.2f\n", *run.Confidence)
	}
	if len(run.Steps) > 0 {
		fmt.Fprintln(out, "  steps:")
		for _, step := range run.Steps {
			line := fmt.Sprintf("    [%d] %s %s (%dms)", step.Index, step.Command, step.Status, step.ExecutionTimeMs)
			if step.ErrorCode != "" {
				line += fmt.Sprintf(" %s: %s", step.ErrorCode, step.ErrorMessage)
			}
			fmt.Fprintln(out, line)
		}
	}
	return nil
}

func printRuns(opts *HistoryOptions, runs []store.RunRecord, cmd *cobra.Command) error {
	if opts.Format == "json" {
		views := make([]historyRunView, 0, len(runs))
		for _, run := range runs {
			views = append(views, runView(run))
		}
		return newFormatter(opts.RootOptions, cmd).JSON(views)
	}

	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs journaled.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tSTARTED\tSTATUS\tMS\tCONFIDENCE")
	for _, run := range runs {
		conf := "-"
		if run.Confidence != nil {
			conf = fmt.Sprintf("%.2f", *run.Confidence)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			run.ID, run.Kind, run.StartedAt.Format(time.RFC3339),
			statusWord(run.Success), run.TotalMs, conf)
	}
	return w.Flush()
}

// historyRunView is the JSON shape of a journaled run.
type historyRunView struct {
	ID         string            `json:"id"`
	Kind       string            `json:"kind"`
	StartedAt  string            `json:"startedAt"`
	EndedAt    string            `json:"endedAt"`
	TotalMs    int64             `json:"totalMs"`
	Success    bool              `json:"success"`
	Confidence *float64          `json:"confidence,omitempty"`
	Data       any               `json:"data,omitempty"`
	Steps      []historyStepView `json:"steps,omitempty"`
}

type historyStepView struct {
	Index           int    `json:"index"`
	Alias           string `json:"alias,omitempty"`
	Command         string `json:"command"`
	Status          string `json:"status"`
	ExecutionTimeMs int64  `json:"executionTimeMs"`
	Data            any    `json:"data,omitempty"`
	ErrorCode       string `json:"errorCode,omitempty"`
	ErrorMessage    string `json:"errorMessage,omitempty"`
}

func runView(run store.RunRecord) historyRunView {
	view := historyRunView{
		ID:         run.ID,
		Kind:       string(run.Kind),
		StartedAt:  run.StartedAt.UTC().Format(time.RFC3339Nano),
		EndedAt:    run.EndedAt.UTC().Format(time.RFC3339Nano),
		TotalMs:    run.TotalMs,
		Success:    run.Success,
		Confidence: run.Confidence,
		Data:       run.Data,
	}
	for _, step := range run.Steps {
		view.Steps = append(view.Steps, historyStepView{
			Index:           step.Index,
			Alias:           step.Alias,
			Command:         step.Command,
			Status:          step.Status,
			ExecutionTimeMs: step.ExecutionTimeMs,
			Data:            step.Data,
			ErrorCode:       step.ErrorCode,
			ErrorMessage:    step.ErrorMessage,
		})
	}
	return view
}

func statusWord(success bool) string {
	if success {
		return "ok"
	}
	return "failed"
}
