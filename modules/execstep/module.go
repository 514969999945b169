// Package execstep provides the 'exec' handler: one parameterized external
// command run with the environment context injected. This is the workhorse
// behind almost every task in the shipped catalogue.
package execstep

import (
	"context"

	"github.com/makex-dev/makex/internal/registry"
	"github.com/makex-dev/makex/internal/shell"
)

// Module implements registry.Module.
type Module struct{}

// Input defines the arguments of a run "exec" block.
type Input struct {
	Command   []string `hcl:"command"`
	Dir       string   `hcl:"dir,optional"`
	Highlight bool     `hcl:"highlight,optional"`
}

func onRunExec(ctx context.Context, rt *registry.Runtime, input any) error {
	in := input.(*Input)

	result, err := rt.Invoker.Run(ctx, &shell.Step{
		Command:   in.Command,
		Dir:       in.Dir,
		Highlight: in.Highlight,
	}, rt.Env)
	if err != nil {
		return err
	}
	if result.ExitCode != 0 {
		return &shell.ExitError{Command: result.Command, Code: result.ExitCode}
	}
	return nil
}

// Register registers the handler with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterHandler("exec", &registry.Handler{
		NewInput: func() any { return new(Input) },
		Fn:       onRunExec,
	})
}
