// Package fanout provides the 'fanout' handler: independent command
// partitions executed across a bounded worker pool. Each partition is an
// OS process with no shared state, so correctness stays with the external
// runner; this handler only schedules, captures, and replays output.
package fanout

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/makex-dev/makex/internal/ctxlog"
	"github.com/makex-dev/makex/internal/registry"
	"github.com/makex-dev/makex/internal/shell"
)

// Module implements registry.Module.
type Module struct{}

// Input defines the arguments of a run "fanout" block.
type Input struct {
	// Commands is the list of independent argv vectors to fan out.
	Commands [][]string `hcl:"commands"`

	// Workers bounds concurrent partitions; 0 uses the run-wide default.
	Workers int `hcl:"workers,optional"`
}

func onRunFanout(ctx context.Context, rt *registry.Runtime, input any) error {
	in := input.(*Input)
	logger := ctxlog.FromContext(ctx)

	if len(in.Commands) == 0 {
		return fmt.Errorf("fanout requires at least one command")
	}
	workers := in.Workers
	if workers <= 0 {
		workers = rt.Workers
	}

	logger.Debug("Fanning out command partitions.", "partitions", len(in.Commands), "workers", workers)

	// Output is captured per partition and replayed whole on completion,
	// so partitions never interleave on the shared streams.
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, command := range in.Commands {
		command := command
		g.Go(func() error {
			result, err := rt.Invoker.Run(gctx, &shell.Step{
				Command: command,
				Capture: true,
			}, rt.Env)
			if err != nil {
				return err
			}

			mu.Lock()
			if result.Stdout != "" {
				fmt.Fprint(rt.Out, result.Stdout)
			}
			if result.Stderr != "" {
				fmt.Fprint(rt.Out, result.Stderr)
			}
			mu.Unlock()

			if result.ExitCode != 0 {
				return &shell.ExitError{Command: result.Command, Code: result.ExitCode}
			}
			return nil
		})
	}

	return g.Wait()
}

// Register registers the handler with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterHandler("fanout", &registry.Handler{
		NewInput: func() any { return new(Input) },
		Fn:       onRunFanout,
	})
}
