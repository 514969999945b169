// Package executor runs a resolved execution plan sequentially with
// fail-fast semantics, dispatching each task's run block to its registered
// handler.
package executor
