// Package main is the afd command line entrypoint.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/roach88/afd/internal/cli"
	"github.com/roach88/afd/internal/registry"
	"github.com/roach88/afd/internal/result"
)

func main() {
	reg := registry.New()
	registerBuiltins(reg)

	root := cli.NewRootCommand(reg)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}

// registerBuiltins installs the commands that ship with the binary.
// Library consumers build their own registry instead.
func registerBuiltins(reg *registry.Registry) {
	reg.MustRegister(registry.NewFunc("echo", "Echo the input back unchanged",
		func(ctx context.Context, input any, cc registry.Context) result.Result {
			return result.OK(input)
		}))

	reg.MustRegister(registry.NewFunc("string.upper", "Uppercase the \"value\" field",
		func(ctx context.Context, input any, cc registry.Context) result.Result {
			obj, ok := input.(map[string]any)
			if !ok {
				return result.Fail(result.ValidationError("input must be an object", ""))
			}
			s, ok := obj["value"].(string)
			if !ok {
				return result.Fail(result.InvalidInputError("value", "must be a string"))
			}
			return result.OK(map[string]any{"value": strings.ToUpper(s)})
		}))

	reg.MustRegister(registry.NewFunc("string.concat", "Concatenate the \"parts\" list",
		func(ctx context.Context, input any, cc registry.Context) result.Result {
			obj, ok := input.(map[string]any)
			if !ok {
				return result.Fail(result.ValidationError("input must be an object", ""))
			}
			parts, ok := obj["parts"].([]any)
			if !ok {
				return result.Fail(result.InvalidInputError("parts", "must be a list"))
			}
			var b strings.Builder
			for _, p := range parts {
				s, ok := p.(string)
				if !ok {
					return result.Fail(result.InvalidInputError("parts", "every part must be a string"))
				}
				b.WriteString(s)
			}
			return result.OK(map[string]any{"value": b.String()})
		}))
}
