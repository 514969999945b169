// Package release provides the 'check-release' handler: the precondition
// gate consulted by the publish pipeline before the first irreversible
// upload.
package release

import (
	"context"
	"fmt"
	"strings"

	"github.com/gookit/color"

	"github.com/makex-dev/makex/internal/registry"
	"github.com/makex-dev/makex/internal/shell"
)

// Module implements registry.Module.
type Module struct{}

// defaultPlaceholder marks a changelog section whose release date has not
// been filled in yet.
const defaultPlaceholder = "XXXX-XX-XX"

// Input defines the arguments of a run "check-release" block.
type Input struct {
	// VersionCommand is run with captured output; its trimmed stdout is
	// the version identifier under validation.
	VersionCommand []string `hcl:"version_command"`

	IndexURL  string   `hcl:"index_url"`
	Package   string   `hcl:"package"`
	Docs      []string `hcl:"docs"`
	Changelog string   `hcl:"changelog"`

	Placeholder string `hcl:"placeholder,optional"`
}

func onRunCheckRelease(ctx context.Context, rt *registry.Runtime, input any) error {
	in := input.(*Input)

	result, err := rt.Invoker.Run(ctx, &shell.Step{
		Command: in.VersionCommand,
		Capture: true,
	}, rt.Env)
	if err != nil {
		return err
	}
	if result.ExitCode != 0 {
		return &shell.ExitError{Command: result.Command, Code: result.ExitCode}
	}
	version := strings.TrimSpace(result.Stdout)
	if version == "" {
		return fmt.Errorf("version command produced no output")
	}

	placeholder := in.Placeholder
	if placeholder == "" {
		placeholder = defaultPlaceholder
	}

	gate := NewGate(in.IndexURL, in.Package)
	defer gate.Close()

	if err := gate.Check(ctx, version, in.Docs, in.Changelog, placeholder); err != nil {
		return err
	}

	fmt.Fprintln(rt.Out, color.Green.Sprintf("version %s is clear for release", version))
	return nil
}

// Register registers the handler with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterHandler("check-release", &registry.Handler{
		NewInput: func() any { return new(Input) },
		Fn:       onRunCheckRelease,
	})
}
