// Package cleanfiles provides the 'clean' handler: recursive removal of
// build droppings by base-name pattern, plus whole directories like build/
// and dist/. Removal is tolerant of files that are already gone.
package cleanfiles

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/makex-dev/makex/internal/ctxlog"
	"github.com/makex-dev/makex/internal/registry"
)

// Module implements registry.Module.
type Module struct{}

// Input defines the arguments of a run "clean" block.
type Input struct {
	// Patterns are base-name patterns (filepath.Match syntax) removed
	// recursively; a matching directory is removed with its contents.
	Patterns []string `hcl:"patterns,optional"`

	// Dirs are directories relative to the repository root removed whole.
	Dirs []string `hcl:"dirs,optional"`
}

func onRunClean(ctx context.Context, rt *registry.Runtime, input any) error {
	in := input.(*Input)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Cleaning tree.", "root", rt.RootDir, "patterns", in.Patterns, "dirs", in.Dirs)

	if len(in.Patterns) > 0 {
		if err := removeMatching(rt, in.Patterns); err != nil {
			return err
		}
	}

	for _, dir := range in.Dirs {
		path := filepath.Join(rt.RootDir, dir)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("failed to remove %q: %w", path, err)
		}
		fmt.Fprintf(rt.Out, "rmdir -f %s\n", path)
	}
	return nil
}

func removeMatching(rt *registry.Runtime, patterns []string) error {
	return filepath.WalkDir(rt.RootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Entries removed underneath the walk are expected.
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() && d.Name() == ".git" {
			return fs.SkipDir
		}
		if path == rt.RootDir {
			return nil
		}

		matched := false
		for _, pattern := range patterns {
			ok, matchErr := filepath.Match(pattern, d.Name())
			if matchErr != nil {
				return fmt.Errorf("invalid clean pattern %q: %w", pattern, matchErr)
			}
			if ok {
				matched = true
				break
			}
		}
		if !matched {
			return nil
		}

		if d.IsDir() {
			if err := os.RemoveAll(path); err != nil {
				return fmt.Errorf("failed to remove %q: %w", path, err)
			}
			fmt.Fprintf(rt.Out, "rmdir -f %s\n", path)
			return fs.SkipDir
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %q: %w", path, err)
		}
		fmt.Fprintf(rt.Out, "rm %s\n", path)
		return nil
	})
}

// Register registers the handler with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterHandler("clean", &registry.Handler{
		NewInput: func() any { return new(Input) },
		Fn:       onRunClean,
	})
}
