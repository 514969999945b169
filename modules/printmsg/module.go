// Package printmsg provides the 'print' handler: a colored console
// message. Useful for pipeline milestones and as a trivial step in tests.
package printmsg

import (
	"context"
	"fmt"

	"github.com/gookit/color"

	"github.com/makex-dev/makex/internal/registry"
)

// Module implements registry.Module.
type Module struct{}

// Input defines the arguments of a run "print" block.
type Input struct {
	Message string `hcl:"message"`
	Color   string `hcl:"color,optional"`
}

var colors = map[string]color.Color{
	"red":    color.Red,
	"green":  color.Green,
	"yellow": color.Yellow,
	"blue":   color.LightBlue,
}

func onRunPrint(ctx context.Context, rt *registry.Runtime, input any) error {
	in := input.(*Input)

	c, ok := colors[in.Color]
	if !ok {
		if in.Color != "" {
			return fmt.Errorf("unknown color %q", in.Color)
		}
		c = color.LightBlue
	}

	fmt.Fprintln(rt.Out, c.Sprint(in.Message))
	return nil
}

// Register registers the handler with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterHandler("print", &registry.Handler{
		NewInput: func() any { return new(Input) },
		Fn:       onRunPrint,
	})
}
