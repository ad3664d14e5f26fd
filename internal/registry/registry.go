package registry

import (
	"context"
	"fmt"
	"sort"

	"github.com/roach88/afd/internal/result"
)

// Registry owns a unique-name to Command mapping.
//
// INVARIANTS:
//   - Names are unique; Register of a duplicate name is a checked error,
//     never a silent overwrite.
//   - Populated once at process start, read-only thereafter. Concurrent
//     reads (Get/Has/List/Execute) are safe without locking once the
//     registration phase has ended.
type Registry struct {
	commands map[string]*Command
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{commands: make(map[string]*Command)}
}

// Register adds a command to the registry.
// Returns an error if a command with the same name already exists; the
// existing registration is left intact.
func (r *Registry) Register(cmd *Command) error {
	if _, exists := r.commands[cmd.Name]; exists {
		return fmt.Errorf("command %q is already registered", cmd.Name)
	}
	r.commands[cmd.Name] = cmd
	return nil
}

// MustRegister registers cmd and panics on duplicate names.
// Intended for static registration at process start, where a duplicate
// is a programming error.
func (r *Registry) MustRegister(cmd *Command) {
	if err := r.Register(cmd); err != nil {
		panic(err)
	}
}

// Get returns the command with the given name, or nil.
func (r *Registry) Get(name string) *Command {
	return r.commands[name]
}

// Has reports whether a command with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.commands[name]
	return ok
}

// List returns a snapshot of all registered commands, sorted by name.
// The returned slice is a copy; mutating it does not affect the registry.
func (r *Registry) List() []*Command {
	out := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		out = append(out, cmd)
	}
	sortByName(out)
	return out
}

// ListByCategory returns a snapshot of commands in the given category,
// sorted by name.
func (r *Registry) ListByCategory(category string) []*Command {
	var out []*Command
	for _, cmd := range r.commands {
		if cmd.Category == category {
			out = append(out, cmd)
		}
	}
	sortByName(out)
	return out
}

// ListHandoffCommands returns a snapshot of the handoff commands,
// sorted by name.
func (r *Registry) ListHandoffCommands() []*Command {
	var out []*Command
	for _, cmd := range r.commands {
		if cmd.Handoff {
			out = append(out, cmd)
		}
	}
	sortByName(out)
	return out
}

func sortByName(cmds []*Command) {
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })
}

// Execute dispatches an invocation to the named command.
//
// An unknown name returns a failed Result with code COMMAND_NOT_FOUND
// and a suggestion pointing at introspection; it is never a Go error or
// panic. On a hit, the handler's result is returned exactly as produced:
// this layer performs no validation, logging, or retries. Validation is
// each handler's responsibility against its declared parameters.
//
// cc may be nil, in which case a default Context is used.
func (r *Registry) Execute(ctx context.Context, name string, input any, cc *Context) result.Result {
	cmd, ok := r.commands[name]
	if !ok {
		notRetryable := false
		return result.Fail(&result.Error{
			Code:       result.CodeCommandNotFound,
			Message:    fmt.Sprintf("Command '%s' not found", name),
			Suggestion: "List available commands to see valid options",
			Retryable:  &notRetryable,
		})
	}

	var callCtx Context
	if cc != nil {
		callCtx = *cc
	}
	return cmd.Execute(ctx, input, callCtx)
}
