package dag

import (
	"fmt"
	"strings"
)

// DuplicateTaskError reports a second registration under an existing name.
type DuplicateTaskError struct {
	Name string
}

func (e *DuplicateTaskError) Error() string {
	return fmt.Sprintf("task %q is already registered", e.Name)
}

// UnknownTaskError reports a reference to a name that was never registered.
// Known carries the catalogue so the CLI can list what is available.
type UnknownTaskError struct {
	Name  string
	Known []string
}

func (e *UnknownTaskError) Error() string {
	return fmt.Sprintf("unknown task %q (available: %s)", e.Name, strings.Join(e.Known, ", "))
}

// CyclicDependencyError reports a prerequisite chain that revisits a task
// already on the current resolution path. Cycle lists the chain from the
// revisited task back to itself.
type CyclicDependencyError struct {
	Cycle []string
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("cyclic task dependency: %s", strings.Join(e.Cycle, " -> "))
}
