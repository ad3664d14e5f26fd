package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/afd/internal/registry"
)

// ToolsOptions holds flags for the tools command.
type ToolsOptions struct {
	*RootOptions
	Category string
}

// NewToolsCommand creates the tools command.
func NewToolsCommand(rootOpts *RootOptions, reg *registry.Registry) *cobra.Command {
	opts := &ToolsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List registered commands as tool definitions",
		Long: `List every registered command as an agent-consumable tool definition.

Text output is a summary table. JSON output is the full tool schema
including parameter types, defaults, and enums.

Examples:
  afd tools
  afd tools --category billing
  afd tools --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listTools(opts, reg, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Category, "category", "", "filter to one category")

	return cmd
}

func listTools(opts *ToolsOptions, reg *registry.Registry, cmd *cobra.Command) error {
	commands := reg.List()
	if opts.Category != "" {
		commands = reg.ListByCategory(opts.Category)
	}

	if opts.Format == "json" {
		tools := make([]registry.Tool, 0, len(commands))
		for _, c := range commands {
			tools = append(tools, registry.ToolFor(c))
		}
		return newFormatter(opts.RootOptions, cmd).JSON(tools)
	}

	if len(commands) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No commands registered.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCATEGORY\tMUTATION\tDESCRIPTION")
	for _, c := range commands {
		mutation := ""
		if c.Mutation {
			mutation = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.Name, c.Category, mutation, c.Description)
	}
	return w.Flush()
}
