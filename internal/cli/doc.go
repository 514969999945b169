// Package cli parses the command line into an app.Config and owns the
// mapping from run errors to process exit codes.
package cli
