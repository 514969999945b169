package dag

import (
	"fmt"

	"github.com/makex-dev/makex/internal/config"
)

// Selector picks the concrete task name for a generic task's platform
// variant table. Implemented by platform.Selector.
type Selector interface {
	Select(taskName string, variants map[string]string) (string, error)
}

// Graph is the named, directed task graph. Registration order is preserved
// and used to break ties deterministically.
type Graph struct {
	tasks map[string]*config.Task
	order []string
}

// Plan is the ordered, deduplicated execution sequence resolved for a
// requested task. Tasks are shared with the graph and must not be mutated.
type Plan struct {
	Target string
	Tasks  []*config.Task
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{tasks: make(map[string]*config.Task)}
}

// FromModel registers every task of a loaded model, in declaration order.
func FromModel(model *config.Model) (*Graph, error) {
	g := New()
	for _, task := range model.Tasks {
		if err := g.Register(task); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Register adds a task to the graph. A name collision fails with
// *DuplicateTaskError and leaves the graph unchanged.
func (g *Graph) Register(task *config.Task) error {
	if task.Name == "" {
		return fmt.Errorf("task name must not be empty")
	}
	if _, exists := g.tasks[task.Name]; exists {
		return &DuplicateTaskError{Name: task.Name}
	}
	g.tasks[task.Name] = task
	g.order = append(g.order, task.Name)
	return nil
}

// Lookup returns the task registered under name.
func (g *Graph) Lookup(name string) (*config.Task, bool) {
	task, ok := g.tasks[name]
	return task, ok
}

// Names returns all registered task names in declaration order.
func (g *Graph) Names() []string {
	names := make([]string, len(g.order))
	copy(names, g.order)
	return names
}

// Len reports the number of registered tasks.
func (g *Graph) Len() int {
	return len(g.tasks)
}

// Resolve linearizes the prerequisite closure of name into a Plan.
//
// Each task is emitted exactly once, after all of its prerequisites. A task
// carrying a platform variant table is rewritten during resolution: its own
// prerequisites are resolved first, then the selector's concrete variant is
// resolved in its place; the generic name itself never appears in the plan.
func (g *Graph) Resolve(name string, sel Selector) (*Plan, error) {
	r := &resolver{graph: g, sel: sel, done: make(map[string]bool)}
	if err := r.visit(name); err != nil {
		return nil, err
	}
	return &Plan{Target: name, Tasks: r.plan}, nil
}

type resolver struct {
	graph *Graph
	sel   Selector
	done  map[string]bool
	path  []string
	plan  []*config.Task
}

func (r *resolver) visit(name string) error {
	if r.done[name] {
		return nil
	}
	for i, onPath := range r.path {
		if onPath == name {
			cycle := append(append([]string{}, r.path[i:]...), name)
			return &CyclicDependencyError{Cycle: cycle}
		}
	}

	task, ok := r.graph.tasks[name]
	if !ok {
		return &UnknownTaskError{Name: name, Known: r.graph.Names()}
	}

	r.path = append(r.path, name)
	defer func() { r.path = r.path[:len(r.path)-1] }()

	for _, dep := range task.DependsOn {
		if err := r.visit(dep); err != nil {
			return err
		}
	}

	if task.Platform != nil {
		concrete, err := r.sel.Select(task.Name, task.Platform)
		if err != nil {
			return err
		}
		if err := r.visit(concrete); err != nil {
			return err
		}
		r.done[name] = true
		return nil
	}

	r.plan = append(r.plan, task)
	r.done[name] = true
	return nil
}

// Validate performs the startup structural check over the whole graph:
// every prerequisite and every platform variant target must be registered,
// and the full edge set (prerequisites plus all variants, regardless of the
// current platform) must be acyclic. Structural errors are declaration
// bugs and abort the process, not just a plan.
func (g *Graph) Validate() error {
	for _, name := range g.order {
		task := g.tasks[name]
		for _, dep := range task.DependsOn {
			if _, ok := g.tasks[dep]; !ok {
				return fmt.Errorf("task %q: %w", name, &UnknownTaskError{Name: dep, Known: g.Names()})
			}
		}
		for family, target := range task.Platform {
			if _, ok := g.tasks[target]; !ok {
				return fmt.Errorf("task %q, platform %q: %w", name, family, &UnknownTaskError{Name: target, Known: g.Names()})
			}
		}
	}

	// Classic three-state depth-first walk over every edge.
	const (
		unvisited = iota
		visiting
		finished
	)
	state := make(map[string]int, len(g.tasks))
	var path []string

	var walk func(name string) error
	walk = func(name string) error {
		switch state[name] {
		case finished:
			return nil
		case visiting:
			for i, onPath := range path {
				if onPath == name {
					return &CyclicDependencyError{Cycle: append(append([]string{}, path[i:]...), name)}
				}
			}
			return &CyclicDependencyError{Cycle: []string{name, name}}
		}

		state[name] = visiting
		path = append(path, name)
		defer func() { path = path[:len(path)-1] }()

		task := g.tasks[name]
		for _, dep := range task.DependsOn {
			if err := walk(dep); err != nil {
				return err
			}
		}
		for _, target := range sortedValues(task.Platform) {
			if err := walk(target); err != nil {
				return err
			}
		}

		state[name] = finished
		return nil
	}

	for _, name := range g.order {
		if err := walk(name); err != nil {
			return err
		}
	}
	return nil
}
