package executor

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/makex-dev/makex/internal/config"
	"github.com/makex-dev/makex/internal/dag"
	"github.com/makex-dev/makex/internal/envctx"
	"github.com/makex-dev/makex/internal/platform"
	"github.com/makex-dev/makex/internal/registry"
)

func parseBody(t *testing.T, src string) hcl.Body {
	t.Helper()
	file, diags := hclsyntax.ParseConfig([]byte(src), "test.hcl", hcl.Pos{Line: 1, Column: 1})
	require.False(t, diags.HasErrors(), diags.Error())
	return file.Body
}

type noteInput struct {
	ID   string `hcl:"id"`
	Fail bool   `hcl:"fail,optional"`
}

// recorder registers a 'note' handler that appends each decoded id, so
// tests can observe execution order.
type recorder struct {
	mu    sync.Mutex
	notes []string
}

func (r *recorder) Register(reg *registry.Registry) {
	reg.RegisterHandler("note", &registry.Handler{
		NewInput: func() any { return new(noteInput) },
		Fn: func(_ context.Context, _ *registry.Runtime, input any) error {
			in := input.(*noteInput)
			r.mu.Lock()
			r.notes = append(r.notes, in.ID)
			r.mu.Unlock()
			if in.Fail {
				return errors.New("note failed")
			}
			return nil
		},
	})
}

func noteTask(t *testing.T, name, id string, fail bool) *config.Task {
	src := `id = "` + id + `"`
	if fail {
		src += "\nfail = true"
	}
	return &config.Task{
		Name: name,
		Run:  &config.Step{Handler: "note", Body: parseBody(t, src)},
	}
}

func newTestExecutor(t *testing.T, rec *recorder) (*Executor, *bytes.Buffer) {
	t.Helper()
	env, err := envctx.New(envctx.Options{Ambient: []string{"PROBE=1"}})
	require.NoError(t, err)

	reg := registry.New()
	rec.Register(reg)

	var out bytes.Buffer
	rt := &registry.Runtime{Env: env, Out: &out, RootDir: ".", Python: "python3", Workers: 1}
	eval := &EvalContextBuilder{Python: "python3", Root: ".", Family: platform.Linux, Env: env}
	return New(reg, rt, eval), &out
}

func TestRunSequentialOrder(t *testing.T) {
	rec := &recorder{}
	exec, out := newTestExecutor(t, rec)

	plan := &dag.Plan{Target: "c", Tasks: []*config.Task{
		noteTask(t, "a", "a", false),
		noteTask(t, "b", "b", false),
		noteTask(t, "c", "c", false),
	}}

	summary, err := exec.Run(context.Background(), plan)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, rec.notes)
	assert.True(t, summary.OK())
	require.Len(t, summary.Results, 3)
	for _, result := range summary.Results {
		assert.True(t, result.OK())
	}
	assert.Contains(t, out.String(), "==> a")
	assert.Contains(t, out.String(), "3 task(s) completed")
}

func TestRunFailFast(t *testing.T) {
	rec := &recorder{}
	exec, out := newTestExecutor(t, rec)

	plan := &dag.Plan{Target: "c", Tasks: []*config.Task{
		noteTask(t, "a", "a", false),
		noteTask(t, "b", "b", true),
		noteTask(t, "c", "c", false),
	}}

	summary, err := exec.Run(context.Background(), plan)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `task "b"`)

	// The failing step aborts the plan; c never starts.
	assert.Equal(t, []string{"a", "b"}, rec.notes)
	require.NotNil(t, summary.Failed)
	assert.Equal(t, "b", summary.Failed.Task)
	assert.False(t, summary.OK())
	assert.Len(t, summary.Results, 2)
	assert.Contains(t, out.String(), `task "b" failed`)
}

func TestRunAggregateTask(t *testing.T) {
	rec := &recorder{}
	exec, _ := newTestExecutor(t, rec)

	plan := &dag.Plan{Target: "all", Tasks: []*config.Task{
		noteTask(t, "a", "a", false),
		{Name: "all", DependsOn: []string{"a"}},
	}}

	summary, err := exec.Run(context.Background(), plan)
	require.NoError(t, err)

	// The aggregation task runs nothing itself but counts as a step.
	assert.Equal(t, []string{"a"}, rec.notes)
	assert.Len(t, summary.Results, 2)
}

func TestRunCancelledContext(t *testing.T) {
	rec := &recorder{}
	exec, _ := newTestExecutor(t, rec)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	plan := &dag.Plan{Target: "a", Tasks: []*config.Task{noteTask(t, "a", "a", false)}}
	_, err := exec.Run(ctx, plan)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, rec.notes)
}

func TestRunDecodesAgainstEvalContext(t *testing.T) {
	env, err := envctx.New(envctx.Options{Ambient: []string{"PROBE=from-env"}})
	require.NoError(t, err)

	type cmdInput struct {
		Command []string `hcl:"command"`
	}
	var got []string
	reg := registry.New()
	reg.RegisterHandler("cmd", &registry.Handler{
		NewInput: func() any { return new(cmdInput) },
		Fn: func(_ context.Context, _ *registry.Runtime, input any) error {
			got = input.(*cmdInput).Command
			return nil
		},
	})

	var out bytes.Buffer
	rt := &registry.Runtime{Env: env, Out: &out}
	eval := &EvalContextBuilder{
		Python: "python3.12",
		Root:   "/repo",
		Family: platform.Darwin,
		Env:    env,
		Args:   []string{"-k", "test_misc.py"},
	}

	plan := &dag.Plan{Target: "t", Tasks: []*config.Task{{
		Name: "t",
		Run: &config.Step{
			Handler: "cmd",
			Body:    parseBody(t, `command = concat([python, root, os.family, env["PROBE"]], args)`),
		},
	}}}

	_, err = New(reg, rt, eval).Run(context.Background(), plan)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"python3.12", "/repo", "darwin", "from-env", "-k", "test_misc.py",
	}, got)
}

func TestRunInvalidArguments(t *testing.T) {
	rec := &recorder{}
	exec, _ := newTestExecutor(t, rec)

	// The note handler requires an id attribute.
	plan := &dag.Plan{Target: "t", Tasks: []*config.Task{{
		Name: "t",
		Run:  &config.Step{Handler: "note", Body: parseBody(t, ``)},
	}}}

	_, err := exec.Run(context.Background(), plan)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid arguments")
}
