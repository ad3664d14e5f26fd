package registry

import (
	"context"

	"github.com/roach88/afd/internal/result"
)

// ParameterType is the declared JSON type of a command parameter.
type ParameterType string

const (
	TypeString  ParameterType = "string"
	TypeNumber  ParameterType = "number"
	TypeInteger ParameterType = "integer"
	TypeBoolean ParameterType = "boolean"
	TypeObject  ParameterType = "object"
	TypeArray   ParameterType = "array"
	TypeNull    ParameterType = "null"
)

// Parameter declares one input field of a command.
// Immutable once attached to a command.
type Parameter struct {
	// Name is the parameter's field name in the input object.
	Name string `json:"name"`

	// Type is the declared JSON type.
	Type ParameterType `json:"type"`

	// Description says what the parameter means.
	Description string `json:"description"`

	// Required marks the parameter as mandatory.
	Required bool `json:"required"`

	// Default is the value used when the parameter is absent.
	Default any `json:"default,omitempty"`

	// Enum restricts the parameter to a fixed set of values.
	Enum []any `json:"enum,omitempty"`

	// Schema overrides the generated JSON schema for this parameter.
	Schema map[string]any `json:"schema,omitempty"`
}

// ExecutionTime is an advisory hint about how long a command takes.
type ExecutionTime string

const (
	ExecInstant     ExecutionTime = "instant"
	ExecFast        ExecutionTime = "fast"
	ExecSlow        ExecutionTime = "slow"
	ExecLongRunning ExecutionTime = "long-running"
)

// Context carries per-invocation metadata into a handler.
//
// A Context is created fresh per call and never shared across
// invocations. Handlers read it; they do not write back.
type Context struct {
	// TraceID correlates the invocation with logs and results.
	TraceID string

	// TimeoutMs is an advisory timeout hint. The dispatch layers carry
	// it but do not enforce it.
	TimeoutMs int64

	// Extra is an open key/value map of caller-supplied context, such
	// as an injected store handle for stateful handlers.
	Extra map[string]any
}

// Handler executes a command invocation.
//
// Expected failure modes (not found, validation) are returned as a
// failed Result, never as a Go error or panic. ctx carries cancellation
// from the caller; invocation metadata travels in cc.
type Handler interface {
	Execute(ctx context.Context, input any, cc Context) result.Result
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, input any, cc Context) result.Result

// Execute implements Handler.
func (f HandlerFunc) Execute(ctx context.Context, input any, cc Context) result.Result {
	return f(ctx, input, cc)
}

// Command is a named, described, parameterized unit of work.
//
// Commands are immutable after registration. The builder methods
// (WithCategory, AsMutation, ...) attach metadata before Register and
// return the command for chaining.
type Command struct {
	// Name uniquely identifies the command. Conventionally dotted or
	// hyphenated, e.g. "todo.create" or "todo-create".
	Name string

	// Description says what the command does.
	Description string

	// Category groups related commands for listing.
	Category string

	// Parameters is the ordered input declaration.
	Parameters []Parameter

	// Returns is an optional schema for the result data.
	Returns map[string]any

	// ErrorCodes lists the error codes this command may produce.
	ErrorCodes []string

	// Mutation declares whether the command has side effects. Used for
	// read/write classification by callers, not enforced.
	Mutation bool

	// ExecutionTime is an advisory duration class.
	ExecutionTime ExecutionTime

	// Version is an optional command version string.
	Version string

	// Tags are free-form labels.
	Tags []string

	// Handoff marks a command whose result describes a separate
	// real-time endpoint the caller should connect to.
	Handoff bool

	// HandoffProtocol names the handoff protocol, when Handoff is set.
	HandoffProtocol string

	handler Handler
}

// NewCommand creates a Command with a name, description, and handler.
func NewCommand(name, description string, handler Handler) *Command {
	return &Command{
		Name:        name,
		Description: description,
		handler:     handler,
	}
}

// NewFunc creates a Command whose handler is a plain function.
func NewFunc(name, description string, fn HandlerFunc) *Command {
	return NewCommand(name, description, fn)
}

// WithParameters sets the parameter list.
func (c *Command) WithParameters(params ...Parameter) *Command {
	c.Parameters = params
	return c
}

// WithCategory sets the category.
func (c *Command) WithCategory(category string) *Command {
	c.Category = category
	return c
}

// WithReturns sets the return-data schema.
func (c *Command) WithReturns(schema map[string]any) *Command {
	c.Returns = schema
	return c
}

// WithErrorCodes declares the error codes the command may produce.
func (c *Command) WithErrorCodes(codes ...string) *Command {
	c.ErrorCodes = codes
	return c
}

// AsMutation marks the command as having side effects.
func (c *Command) AsMutation() *Command {
	c.Mutation = true
	return c
}

// WithExecutionTime sets the advisory duration class.
func (c *Command) WithExecutionTime(t ExecutionTime) *Command {
	c.ExecutionTime = t
	return c
}

// WithVersion sets the command version.
func (c *Command) WithVersion(version string) *Command {
	c.Version = version
	return c
}

// WithTags sets the free-form labels.
func (c *Command) WithTags(tags ...string) *Command {
	c.Tags = tags
	return c
}

// AsHandoff marks the command as a handoff command.
func (c *Command) AsHandoff() *Command {
	c.Handoff = true
	return c
}

// AsHandoffWithProtocol marks the command as a handoff command using
// the named protocol.
func (c *Command) AsHandoffWithProtocol(protocol string) *Command {
	c.Handoff = true
	c.HandoffProtocol = protocol
	return c
}

// Execute invokes the command's handler.
func (c *Command) Execute(ctx context.Context, input any, cc Context) result.Result {
	return c.handler.Execute(ctx, input, cc)
}
