// Package githooks provides the 'git-hooks' handler: installing a script
// as a git hook. A tree that is not a git checkout is skipped silently.
package githooks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/makex-dev/makex/internal/ctxlog"
	"github.com/makex-dev/makex/internal/registry"
)

// Module implements registry.Module.
type Module struct{}

// Input defines the arguments of a run "git-hooks" block.
type Input struct {
	// Source is the hook script, relative to the repository root.
	Source string `hcl:"source"`

	// Hook is the hook name; defaults to pre-commit.
	Hook string `hcl:"hook,optional"`
}

func onRunGitHooks(ctx context.Context, rt *registry.Runtime, input any) error {
	in := input.(*Input)
	logger := ctxlog.FromContext(ctx)

	hook := in.Hook
	if hook == "" {
		hook = "pre-commit"
	}

	gitDir := filepath.Join(rt.RootDir, ".git")
	if info, err := os.Stat(gitDir); err != nil || !info.IsDir() {
		logger.Debug("Not a git checkout, skipping hook install.", "root", rt.RootDir)
		return nil
	}

	src := filepath.Join(rt.RootDir, in.Source)
	content, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("failed to read hook source %q: %w", src, err)
	}

	dst := filepath.Join(gitDir, "hooks", hook)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create hooks directory: %w", err)
	}
	if err := os.WriteFile(dst, content, 0o755); err != nil {
		return fmt.Errorf("failed to install hook %q: %w", dst, err)
	}

	fmt.Fprintf(rt.Out, "installed %s hook -> %s\n", hook, dst)
	return nil
}

// Register registers the handler with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterHandler("git-hooks", &registry.Handler{
		NewInput: func() any { return new(Input) },
		Fn:       onRunGitHooks,
	})
}
