package app

import (
	"context"
	"fmt"

	"github.com/makex-dev/makex/internal/ctxlog"
	"github.com/makex-dev/makex/internal/executor"
	"github.com/makex-dev/makex/internal/platform"
	"github.com/makex-dev/makex/internal/registry"
	"github.com/makex-dev/makex/internal/shell"
)

// Run resolves the requested task and executes its plan. The returned
// error, if any, already names the failing task; the caller maps it to an
// exit code.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.List {
		a.printCatalogue()
		return nil
	}

	selector := platform.NewSelector(a.family)
	plan, err := a.graph.Resolve(a.config.Task, selector)
	if err != nil {
		return err
	}
	a.logger.Debug("Execution plan resolved.", "target", plan.Target, "steps", len(plan.Tasks))

	rt := &registry.Runtime{
		Env:     a.env,
		Invoker: shell.New(a.outW, a.outW),
		Out:     a.outW,
		RootDir: a.config.RootDir,
		Python:  a.python,
		Workers: a.config.Workers,
		Args:    a.config.Args,
	}
	eval := &executor.EvalContextBuilder{
		Python: a.python,
		Root:   a.config.RootDir,
		Family: a.family,
		Env:    a.env,
		Args:   a.config.Args,
	}

	a.logger.Info("Starting execution.", "task", a.config.Task, "python", a.python, "platform", a.family.String())
	exec := executor.New(a.registry, rt, eval)
	summary, err := exec.Run(ctx, plan)
	if err != nil {
		return err
	}

	a.logger.Info("Execution finished.", "task", summary.Target, "steps", len(summary.Results))
	a.logger.Debug("App.Run method finished.")
	return nil
}

// printCatalogue lists every registered task with its description, in
// declaration order.
func (a *App) printCatalogue() {
	for _, name := range a.graph.Names() {
		task, _ := a.graph.Lookup(name)
		fmt.Fprintf(a.outW, "%-24s %s\n", name, task.Description)
	}
}
