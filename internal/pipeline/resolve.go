package pipeline

import (
	"regexp"
	"strconv"
	"strings"
)

// Variable grammar:
//
//	$prev            previous step's data
//	$first           first step's data
//	$input           the pipeline's top-level input
//	$steps[n]        the step at zero-based index n
//	$steps.alias     the step whose alias matches
//
// Each form takes an optional .path.to.field suffix. A path segment
// may carry an array index, e.g. items[0].
var (
	stepsIndexRe = regexp.MustCompile(`^\$steps\[(\d+)\]`)
	arrayPartRe  = regexp.MustCompile(`^(\w+)\[(\d+)\]$`)
)

// ResolveVariable resolves a single reference against the context.
//
// The second return value reports whether the reference resolved. A
// string without the '$' prefix is returned as a literal. An unknown
// step, alias, or path yields (nil, false), never an error: unresolved
// references are a normal outcome for data-dependent pipelines.
func ResolveVariable(ref string, ctx *Context) (any, bool) {
	if !strings.HasPrefix(ref, "$") {
		return ref, true
	}

	switch ref {
	case "$prev":
		if ctx.Previous == nil {
			return nil, false
		}
		return ctx.Previous.Data, ctx.Previous.Data != nil
	case "$first":
		if len(ctx.Steps) == 0 {
			return nil, false
		}
		data := ctx.Steps[0].Data
		return data, data != nil
	case "$input":
		return ctx.Input, ctx.Input != nil
	}

	if m := stepsIndexRe.FindStringSubmatch(ref); m != nil {
		idx, err := strconv.Atoi(m[1])
		if err != nil || idx >= len(ctx.Steps) {
			return nil, false
		}
		step := ctx.Steps[idx]
		rest := ref[len(m[0]):]
		if strings.HasPrefix(rest, ".") {
			if step.Data == nil {
				return nil, false
			}
			return nestedValue(step.Data, rest[1:])
		}
		return step.Data, step.Data != nil
	}

	if strings.HasPrefix(ref, "$steps.") {
		rest := ref[len("$steps."):]
		alias := rest
		var path string
		if dot := strings.Index(rest, "."); dot >= 0 {
			alias = rest[:dot]
			path = rest[dot+1:]
		}
		for i := range ctx.Steps {
			if ctx.Steps[i].Alias == alias {
				if path != "" {
					if ctx.Steps[i].Data == nil {
						return nil, false
					}
					return nestedValue(ctx.Steps[i].Data, path)
				}
				return ctx.Steps[i].Data, ctx.Steps[i].Data != nil
			}
		}
		return nil, false
	}

	if strings.HasPrefix(ref, "$prev.") {
		if ctx.Previous == nil || ctx.Previous.Data == nil {
			return nil, false
		}
		return nestedValue(ctx.Previous.Data, ref[len("$prev."):])
	}

	if strings.HasPrefix(ref, "$first.") {
		if len(ctx.Steps) == 0 || ctx.Steps[0].Data == nil {
			return nil, false
		}
		return nestedValue(ctx.Steps[0].Data, ref[len("$first."):])
	}

	if strings.HasPrefix(ref, "$input.") {
		if ctx.Input == nil {
			return nil, false
		}
		return nestedValue(ctx.Input, ref[len("$input."):])
	}

	return nil, false
}

// ResolveVariables walks a whole input tree, substituting every string
// leaf that starts with '$'. Unresolved references become nil rather
// than aborting the walk. Non-string leaves and non-'$'-prefixed
// strings pass through unchanged.
func ResolveVariables(input any, ctx *Context) any {
	switch v := input.(type) {
	case string:
		if !strings.HasPrefix(v, "$") {
			return v
		}
		resolved, ok := ResolveVariable(v, ctx)
		if !ok {
			return nil
		}
		return resolved
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = ResolveVariables(elem, ctx)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, elem := range v {
			out[k] = ResolveVariables(elem, ctx)
		}
		return out
	default:
		return input
	}
}

// nestedValue walks a dot-separated path through obj. Pure lookup with
// no defaulting: a missing intermediate key terminates with not-found.
func nestedValue(obj any, path string) (any, bool) {
	current := obj
	for _, part := range strings.Split(path, ".") {
		if m := arrayPartRe.FindStringSubmatch(part); m != nil {
			prop := m[1]
			idx, err := strconv.Atoi(m[2])
			if err != nil {
				return nil, false
			}
			obj, ok := current.(map[string]any)
			if !ok {
				return nil, false
			}
			arr, ok := obj[prop].([]any)
			if !ok || idx >= len(arr) {
				return nil, false
			}
			current = arr[idx]
			continue
		}

		obj, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = obj[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}
