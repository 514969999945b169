package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/gookit/color"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"

	"github.com/makex-dev/makex/internal/config"
	"github.com/makex-dev/makex/internal/ctxlog"
	"github.com/makex-dev/makex/internal/dag"
	"github.com/makex-dev/makex/internal/registry"
)

// StepResult is the recorded outcome of one task within a plan.
type StepResult struct {
	Task    string
	Err     error
	Elapsed time.Duration
}

// OK reports whether the step completed successfully.
func (r StepResult) OK() bool {
	return r.Err == nil
}

// Summary aggregates the results of one plan execution.
type Summary struct {
	Target  string
	Results []StepResult
	// Failed points at the step that aborted the plan, if any.
	Failed *StepResult
}

// OK reports whether every executed step succeeded.
func (s *Summary) OK() bool {
	return s.Failed == nil
}

// Executor runs a resolved plan strictly sequentially: one task at a time,
// in plan order, waiting for each step before starting the next. The first
// failing step aborts the remainder of the plan; completed steps are not
// rolled back. Because any failure ends the run immediately, a failed
// shared prerequisite can never be observed as "satisfied" by a sibling.
type Executor struct {
	reg  *registry.Registry
	rt   *registry.Runtime
	eval *EvalContextBuilder
}

// New creates an executor for one run.
func New(reg *registry.Registry, rt *registry.Runtime, eval *EvalContextBuilder) *Executor {
	return &Executor{reg: reg, rt: rt, eval: eval}
}

// Run executes the plan. It returns the summary together with the error
// that aborted the plan, if any; the error already names the failing task.
func (e *Executor) Run(ctx context.Context, plan *dag.Plan) (*Summary, error) {
	logger := ctxlog.FromContext(ctx)
	summary := &Summary{Target: plan.Target}
	evalCtx := e.eval.Build()

	logger.Debug("Plan execution starting.", "target", plan.Target, "tasks", len(plan.Tasks))
	for _, task := range plan.Tasks {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		fmt.Fprintln(e.rt.Out, color.LightBlue.Sprintf("==> %s", task.Name))
		start := time.Now()
		err := e.runTask(ctx, task, evalCtx)
		summary.Results = append(summary.Results, StepResult{
			Task:    task.Name,
			Err:     err,
			Elapsed: time.Since(start),
		})

		if err != nil {
			summary.Failed = &summary.Results[len(summary.Results)-1]
			fmt.Fprintln(e.rt.Out, color.Red.Sprintf("task %q failed", task.Name))
			return summary, fmt.Errorf("task %q: %w", task.Name, err)
		}
	}

	fmt.Fprintln(e.rt.Out, color.Green.Sprintf("%s: %d task(s) completed", plan.Target, len(plan.Tasks)))
	logger.Debug("Plan execution finished.", "target", plan.Target)
	return summary, nil
}

func (e *Executor) runTask(ctx context.Context, task *config.Task, evalCtx *hcl.EvalContext) error {
	logger := ctxlog.FromContext(ctx)

	if task.Run == nil {
		logger.Debug("Aggregation task, nothing to run.", "task", task.Name)
		return nil
	}

	h, ok := e.reg.Lookup(task.Run.Handler)
	if !ok {
		// Startup validation guarantees this; reaching it is a bug.
		return fmt.Errorf("handler %q is not registered", task.Run.Handler)
	}

	var input any
	if h.NewInput != nil {
		input = h.NewInput()
		if diags := gohcl.DecodeBody(task.Run.Body, evalCtx, input); diags.HasErrors() {
			return fmt.Errorf("invalid arguments: %w", diags)
		}
	}

	logger.Debug("Dispatching step handler.", "task", task.Name, "handler", task.Run.Handler)
	return h.Fn(ctx, e.rt, input)
}
