// Package envctx builds the immutable environment context for a run.
//
// The context layers explicit overrides and an optional .env file on top of
// the ambient process environment. It is constructed once per run and never
// mutated afterwards; a step that needs a different environment derives a
// child context instead of touching the parent.
package envctx

import (
	"fmt"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

// Context is an immutable name -> value environment mapping.
type Context struct {
	vars map[string]string
}

// Options controls how a Context is assembled.
type Options struct {
	// Ambient is the inherited process environment as KEY=VALUE entries,
	// usually os.Environ(). Entries without '=' are ignored.
	Ambient []string

	// EnvFile is an optional dotenv file layered on top of the ambient
	// environment. An empty path skips the layer entirely.
	EnvFile string

	// Overrides are applied last and win over both layers.
	Overrides map[string]string
}

// New assembles a Context from the given layers. Ambient entries that are
// not explicitly overridden are preserved as-is.
func New(opts Options) (*Context, error) {
	vars := make(map[string]string, len(opts.Ambient)+len(opts.Overrides))

	for _, entry := range opts.Ambient {
		name, value, ok := strings.Cut(entry, "=")
		if !ok || name == "" {
			continue
		}
		vars[name] = value
	}

	if opts.EnvFile != "" {
		fileVars, err := godotenv.Read(opts.EnvFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read env file %q: %w", opts.EnvFile, err)
		}
		for name, value := range fileVars {
			vars[name] = value
		}
	}

	for name, value := range opts.Overrides {
		vars[name] = value
	}

	return &Context{vars: vars}, nil
}

// Derive returns a child context with the given overrides layered on top.
// The receiver is left untouched.
func (c *Context) Derive(overrides map[string]string) *Context {
	vars := make(map[string]string, len(c.vars)+len(overrides))
	for name, value := range c.vars {
		vars[name] = value
	}
	for name, value := range overrides {
		vars[name] = value
	}
	return &Context{vars: vars}
}

// Get returns the value for name, or the empty string when absent.
func (c *Context) Get(name string) string {
	return c.vars[name]
}

// Lookup returns the value for name and whether it is present.
func (c *Context) Lookup(name string) (string, bool) {
	value, ok := c.vars[name]
	return value, ok
}

// Len reports the number of variables in the context.
func (c *Context) Len() int {
	return len(c.vars)
}

// Map returns a copy of the variables. The copy keeps the receiver
// immutable.
func (c *Context) Map() map[string]string {
	vars := make(map[string]string, len(c.vars))
	for name, value := range c.vars {
		vars[name] = value
	}
	return vars
}

// Environ renders the context as KEY=VALUE entries, sorted by name so the
// injected environment is deterministic across runs.
func (c *Context) Environ() []string {
	entries := make([]string, 0, len(c.vars))
	for name, value := range c.vars {
		entries = append(entries, name+"="+value)
	}
	sort.Strings(entries)
	return entries
}
