// Package app wires the orchestrator together: configuration, logging,
// the task catalogue, the handler registry, and plan execution.
package app
