// Package registry maps handler names declared in task files to the Go
// functions compiled into the binary, and validates the two against each
// other at startup.
package registry
