// Package schema holds the gohcl-tagged structs that mirror the on-disk
// shape of task files. The hcl package translates these into the
// format-agnostic config model.
package schema

import "github.com/hashicorp/hcl/v2"

// RunBlock is the `run "<handler>" { ... }` block of a task. The body is
// handler-specific and stays undecoded until execution time.
type RunBlock struct {
	Handler string   `hcl:"handler,label"`
	Body    hcl.Body `hcl:",remain"`
}

// PlatformBlock is the `platform { ... }` block of a task. Its attributes
// map operating-system family names to concrete task names.
type PlatformBlock struct {
	Body hcl.Body `hcl:",remain"`
}

// Task is a `task "<name>" { ... }` block from a task file.
type Task struct {
	Name        string         `hcl:"name,label"`
	Description string         `hcl:"description,optional"`
	DependsOn   []string       `hcl:"depends_on,optional"`
	Run         *RunBlock      `hcl:"run,block"`
	Platform    *PlatformBlock `hcl:"platform,block"`
}

// File is the top-level structure of a single task file.
type File struct {
	Tasks []*Task  `hcl:"task,block"`
	Body  hcl.Body `hcl:",remain"`
}
