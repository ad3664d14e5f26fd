package loader

import (
	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"

	"github.com/roach88/afd/internal/pipeline"
)

// Definition is one named pipeline from a CUE file.
type Definition struct {
	Name        string
	Description string
	Request     pipeline.Request
}

// CompilePipeline parses a CUE value into a pipeline definition.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the pipeline struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`pipelines: enrich: { ... }`)
//	def, err := CompilePipeline(v.LookupPath(cue.ParsePath("pipelines.enrich")))
func CompilePipeline(v cue.Value) (*Definition, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	def := &Definition{}

	// Parse pipeline name from struct label (the path selector)
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		def.Name = labels[len(labels)-1].String()
	}

	// Parse description (optional)
	descVal := v.LookupPath(cue.ParsePath("description"))
	if descVal.Exists() {
		desc, err := descVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		def.Description = desc
	}

	// Parse default input (optional)
	inputVal := v.LookupPath(cue.ParsePath("input"))
	if inputVal.Exists() {
		var input map[string]any
		if err := inputVal.Decode(&input); err != nil {
			return nil, &CompileError{
				Field:   "input",
				Message: err.Error(),
				Pos:     inputVal.Pos(),
			}
		}
		def.Request.Input = input
	}

	// Parse steps (required, at least one)
	stepsVal := v.LookupPath(cue.ParsePath("steps"))
	if !stepsVal.Exists() {
		return nil, &CompileError{
			Field:   "steps",
			Message: "at least one step is required",
			Pos:     v.Pos(),
		}
	}
	steps, err := parseSteps(stepsVal)
	if err != nil {
		return nil, err
	}
	if len(steps) == 0 {
		return nil, &CompileError{
			Field:   "steps",
			Message: "at least one step is required",
			Pos:     stepsVal.Pos(),
		}
	}
	def.Request.Steps = steps

	// Parse options (optional)
	optsVal := v.LookupPath(cue.ParsePath("options"))
	if optsVal.Exists() {
		var opts pipeline.Options
		if err := optsVal.Decode(&opts); err != nil {
			return nil, &CompileError{
				Field:   "options",
				Message: err.Error(),
				Pos:     optsVal.Pos(),
			}
		}
		def.Request.Options = opts
	}

	return def, nil
}

// parseSteps parses the steps list of a pipeline definition.
func parseSteps(v cue.Value) ([]pipeline.Step, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var steps []pipeline.Step
	for iter.Next() {
		step, err := parseStep(iter.Value())
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, nil
}

// parseStep parses one step of a pipeline definition.
func parseStep(v cue.Value) (pipeline.Step, error) {
	var step pipeline.Step

	// Parse command (required)
	cmdVal := v.LookupPath(cue.ParsePath("command"))
	if !cmdVal.Exists() {
		return step, &CompileError{
			Field:   "command",
			Message: "command is required",
			Pos:     v.Pos(),
		}
	}
	cmd, err := cmdVal.String()
	if err != nil {
		return step, formatCUEError(err)
	}
	step.Command = cmd

	// Parse alias (optional)
	aliasVal := v.LookupPath(cue.ParsePath("as"))
	if aliasVal.Exists() {
		alias, err := aliasVal.String()
		if err != nil {
			return step, formatCUEError(err)
		}
		step.Alias = alias
	}

	// Parse input (optional)
	inputVal := v.LookupPath(cue.ParsePath("input"))
	if inputVal.Exists() {
		var input any
		if err := inputVal.Decode(&input); err != nil {
			return step, &CompileError{
				Field:   "input",
				Message: err.Error(),
				Pos:     inputVal.Pos(),
			}
		}
		step.Input = input
	}

	// Parse when condition (optional)
	whenVal := v.LookupPath(cue.ParsePath("when"))
	if whenVal.Exists() {
		var cond pipeline.Condition
		if err := whenVal.Decode(&cond); err != nil {
			return step, &CompileError{
				Field:   "when",
				Message: err.Error(),
				Pos:     whenVal.Pos(),
			}
		}
		step.When = &cond
	}

	// Parse stream flag (optional)
	streamVal := v.LookupPath(cue.ParsePath("stream"))
	if streamVal.Exists() {
		stream, err := streamVal.Bool()
		if err != nil {
			return step, formatCUEError(err)
		}
		step.Stream = stream
	}

	return step, nil
}

// formatCUEError extracts position info from a CUE error chain.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
