// Package testutil provides the shared harness for integration tests:
// a temporary repository tree built from a file map, a thread-safe log
// buffer, and a fully wired app instance.
package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/makex-dev/makex/internal/app"
	"github.com/makex-dev/makex/internal/hcl"
	"github.com/makex-dev/makex/internal/registry"
)

// SafeBuffer is a thread-safe buffer for capturing output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements io.Writer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements fmt.Stringer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	Output string
	Err    error
	App    *app.App
}

// RunTask writes the given files into a temporary repository tree (keys
// are paths relative to the root; task files conventionally live under
// tasks/), wires an app against it, and runs the named task. Modules
// replace the core set when provided, so tests can register stub handlers.
func RunTask(t *testing.T, files map[string]string, task string, args []string, modules ...registry.Module) *HarnessResult {
	t.Helper()

	tmpDir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	appConfig, err := app.NewConfig(app.Config{
		TasksPath: filepath.Join(tmpDir, "tasks"),
		Task:      task,
		Args:      args,
		RootDir:   tmpDir,
		LogFormat: "text",
		LogLevel:  "debug",
		Workers:   2,
		Python:    "python3",
	})
	require.NoError(t, err)

	buffer := &SafeBuffer{}
	testApp, err := app.NewApp(buffer, appConfig, hcl.NewLoader(), modules...)
	if err != nil {
		return &HarnessResult{Output: buffer.String(), Err: err}
	}

	runErr := testApp.Run(context.Background())
	return &HarnessResult{Output: buffer.String(), Err: runErr, App: testApp}
}
