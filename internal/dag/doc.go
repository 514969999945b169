// Package dag holds the named task graph and its resolution algorithm.
//
// Registration happens once at startup, before any resolution; the graph is
// never mutated during a run. Resolve produces an execution plan: the
// depth-first post-order linearization of a task's prerequisite closure,
// deduplicated by name, with declaration order breaking ties among
// independent prerequisites so plans are deterministic.
package dag
