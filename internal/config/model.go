package config

import "github.com/hashicorp/hcl/v2"

// Model is the format-agnostic representation of the full task catalogue.
// Tasks preserves declaration order; the graph uses it to break ties among
// independent prerequisites deterministically.
type Model struct {
	Tasks []*Task
}

// Task is the format-agnostic representation of a `task` block. A task
// declares either a run step, a platform variant table, or neither (a pure
// aggregation task whose prerequisite list is the point).
type Task struct {
	Name        string
	Description string
	DependsOn   []string

	// Run is nil for aggregation and platform tasks.
	Run *Step

	// Platform maps an operating-system family name to the concrete task
	// that implements this task on that family. Nil unless the task
	// declared a platform block.
	Platform map[string]string
}

// Step is the format-agnostic representation of a `run` block. The body is
// kept raw and decoded against the handler's input struct at execution
// time, when the evaluation context (interpreter, args, env) is known.
type Step struct {
	Handler string
	Body    hcl.Body
}
