package executor

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"

	"github.com/makex-dev/makex/internal/envctx"
	"github.com/makex-dev/makex/internal/platform"
)

// EvalContextBuilder assembles the HCL evaluation context task arguments
// are decoded against. Task files see:
//
//	python     selected interpreter binary
//	root       repository root directory
//	os.family  detected operating-system family
//	env        the run's environment context as a string map
//	args       extra CLI arguments after the task name
//
// plus the concat/format/join/element functions.
type EvalContextBuilder struct {
	Python string
	Root   string
	Family platform.Family
	Env    *envctx.Context
	Args   []string
}

// Build renders the evaluation context. The result is read-only for the
// whole run.
func (b *EvalContextBuilder) Build() *hcl.EvalContext {
	envVars := b.Env.Map()
	envMap := make(map[string]cty.Value, len(envVars))
	for name, value := range envVars {
		envMap[name] = cty.StringVal(value)
	}
	env := cty.MapValEmpty(cty.String)
	if len(envMap) > 0 {
		env = cty.MapVal(envMap)
	}

	args := cty.ListValEmpty(cty.String)
	if len(b.Args) > 0 {
		vals := make([]cty.Value, len(b.Args))
		for i, arg := range b.Args {
			vals[i] = cty.StringVal(arg)
		}
		args = cty.ListVal(vals)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"python": cty.StringVal(b.Python),
			"root":   cty.StringVal(b.Root),
			"os": cty.ObjectVal(map[string]cty.Value{
				"family": cty.StringVal(b.Family.String()),
			}),
			"env":  env,
			"args": args,
		},
		Functions: map[string]function.Function{
			"concat":  stdlib.ConcatFunc,
			"format":  stdlib.FormatFunc,
			"join":    stdlib.JoinFunc,
			"element": stdlib.ElementFunc,
		},
	}
}
