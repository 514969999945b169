package registry

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/makex-dev/makex/internal/config"
	"github.com/makex-dev/makex/internal/envctx"
	"github.com/makex-dev/makex/internal/shell"
)

// Module is the interface every built-in handler package implements to be
// registered into an application instance.
type Module interface {
	Register(r *Registry)
}

// ModuleFunc adapts a plain function to the Module interface.
type ModuleFunc func(r *Registry)

// Register implements Module.
func (f ModuleFunc) Register(r *Registry) {
	f(r)
}

// Invoker is the external-step invocation surface handlers run processes
// through. Satisfied by *shell.Invoker; tests substitute fakes.
type Invoker interface {
	Run(ctx context.Context, step *shell.Step, env *envctx.Context) (*shell.Result, error)
}

// Runtime carries the per-run collaborators a handler may use. It is
// constructed once at startup and shared read-only by every step.
type Runtime struct {
	Env     *envctx.Context
	Invoker Invoker
	Out     io.Writer
	RootDir string
	Python  string
	Workers int
	Args    []string
}

// Handler is one registered step implementation. NewInput returns a fresh
// pointer to the handler's gohcl-tagged input struct (nil when the handler
// takes no arguments); the executor decodes the task's run body into it
// before calling Fn.
type Handler struct {
	NewInput func() any
	Fn       func(ctx context.Context, rt *Runtime, input any) error
}

// Registry holds the named handlers for a single application instance.
type Registry struct {
	handlers map[string]*Handler
	order    []string
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{handlers: make(map[string]*Handler)}
}

// RegisterHandler adds a handler under name. Registration happens during
// startup wiring only, so collisions and nil handlers are programmer
// errors and panic.
func (r *Registry) RegisterHandler(name string, h *Handler) {
	if name == "" || h == nil || h.Fn == nil {
		panic(fmt.Sprintf("registry: invalid handler registration for %q", name))
	}
	if _, exists := r.handlers[name]; exists {
		panic(fmt.Sprintf("registry: handler %q registered twice", name))
	}
	r.handlers[name] = h
	r.order = append(r.order, name)
}

// Lookup returns the handler registered under name.
func (r *Registry) Lookup(name string) (*Handler, bool) {
	h, ok := r.handlers[name]
	return h, ok
}

// Names returns the registered handler names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Validate performs the startup parity check between the task catalogue
// and the compiled-in handlers: every task with a run block must name a
// registered handler.
func (r *Registry) Validate(model *config.Model) error {
	var errs []string
	for _, task := range model.Tasks {
		if task.Run == nil {
			continue
		}
		if _, ok := r.handlers[task.Run.Handler]; !ok {
			errs = append(errs, fmt.Sprintf("task %q uses unregistered handler %q (have: %s)",
				task.Name, task.Run.Handler, strings.Join(r.Names(), ", ")))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}
