package cli

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/makex-dev/makex/internal/dag"
	"github.com/makex-dev/makex/internal/platform"
	"github.com/makex-dev/makex/internal/shell"
)

func TestParseDefaults(t *testing.T) {
	config, shouldExit, err := Parse([]string{"build"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.False(t, shouldExit)

	assert.Equal(t, "tasks", config.TasksPath)
	assert.Equal(t, "build", config.Task)
	assert.Empty(t, config.Args)
	assert.Equal(t, ".", config.RootDir)
	assert.Equal(t, "text", config.LogFormat)
	assert.Equal(t, "info", config.LogLevel)
	assert.False(t, config.List)
	assert.Positive(t, config.Workers)
}

func TestParseFlagsAndTrailingArgs(t *testing.T) {
	config, _, err := Parse([]string{
		"-tasks", "custom/tasks",
		"-root", "/repo",
		"-python", "python3.12",
		"-log-format", "json",
		"-log-level", "debug",
		"-workers", "4",
		"test", "-k", "test_misc.py",
	}, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, "custom/tasks", config.TasksPath)
	assert.Equal(t, "/repo", config.RootDir)
	assert.Equal(t, "python3.12", config.Python)
	assert.Equal(t, "json", config.LogFormat)
	assert.Equal(t, "debug", config.LogLevel)
	assert.Equal(t, 4, config.Workers)
	assert.Equal(t, "test", config.Task)
	// Everything after the task name passes through untouched.
	assert.Equal(t, []string{"-k", "test_misc.py"}, config.Args)
}

func TestParseNoTask(t *testing.T) {
	var out bytes.Buffer
	_, _, err := Parse(nil, &out)
	require.Error(t, err)

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 2, exitErr.Code)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParseListWithoutTask(t *testing.T) {
	config, shouldExit, err := Parse([]string{"-list"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.False(t, shouldExit)
	assert.True(t, config.List)
	assert.Empty(t, config.Task)
}

func TestParseInvalidLogFormat(t *testing.T) {
	_, _, err := Parse([]string{"-log-format", "xml", "build"}, &bytes.Buffer{})
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 2, exitErr.Code)
}

func TestParseInvalidLogLevel(t *testing.T) {
	_, _, err := Parse([]string{"-log-level", "loud", "build"}, &bytes.Buffer{})
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 2, exitErr.Code)
}

func TestParseHelp(t *testing.T) {
	var out bytes.Buffer
	config, shouldExit, err := Parse([]string{"-h"}, &out)
	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Nil(t, config)
	assert.Contains(t, out.String(), "Usage:")
}

func TestExitCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"usage error", &ExitError{Code: 2, Message: "no task"}, 2},
		{"step exit code", fmt.Errorf("task %q: %w", "test", &shell.ExitError{Code: 3}), 3},
		{"unknown task", &dag.UnknownTaskError{Name: "x"}, 2},
		{"duplicate task", &dag.DuplicateTaskError{Name: "x"}, 2},
		{"cycle", &dag.CyclicDependencyError{Cycle: []string{"a", "a"}}, 2},
		{"unsupported platform", &platform.UnsupportedPlatformError{Task: "x", Family: "aix"}, 2},
		{"signal death", &shell.SignalError{Command: []string{"x"}, State: "signal: killed"}, 1},
		{"generic", errors.New("boom"), 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExitCode(tc.err))
		})
	}
}
