package registry

// Tool is the introspection descriptor exported for one command, in the
// shape agent integrations consume: a name, a description, and an
// object schema listing properties and required fields.
type Tool struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	InputSchema ToolSchema `json:"inputSchema"`
}

// ToolSchema is the object schema of a tool's input.
type ToolSchema struct {
	Type       string                    `json:"type"`
	Properties map[string]map[string]any `json:"properties"`
	Required   []string                  `json:"required"`
}

// ToolFor builds the Tool descriptor for a command.
//
// A parameter's explicit Schema override wins; otherwise a schema is
// derived from the declared type, description, default, and enum.
func ToolFor(cmd *Command) Tool {
	properties := make(map[string]map[string]any, len(cmd.Parameters))
	required := make([]string, 0, len(cmd.Parameters))

	for _, p := range cmd.Parameters {
		schema := p.Schema
		if schema == nil {
			schema = map[string]any{
				"type":        string(p.Type),
				"description": p.Description,
			}
			if p.Default != nil {
				schema["default"] = p.Default
			}
			if len(p.Enum) > 0 {
				schema["enum"] = p.Enum
			}
		}
		properties[p.Name] = schema
		if p.Required {
			required = append(required, p.Name)
		}
	}

	return Tool{
		Name:        cmd.Name,
		Description: cmd.Description,
		InputSchema: ToolSchema{
			Type:       "object",
			Properties: properties,
			Required:   required,
		},
	}
}

// Tools exports descriptors for every registered command.
func (r *Registry) Tools() []Tool {
	cmds := r.List()
	out := make([]Tool, 0, len(cmds))
	for _, cmd := range cmds {
		out = append(out, ToolFor(cmd))
	}
	return out
}
