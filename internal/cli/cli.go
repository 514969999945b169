package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/makex-dev/makex/internal/app"
	"github.com/makex-dev/makex/internal/dag"
	"github.com/makex-dev/makex/internal/platform"
	"github.com/makex-dev/makex/internal/shell"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated
// app.Config, a boolean indicating that the program should exit cleanly
// (help requested), or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("makex", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
makex - developer-workflow orchestrator for a native-extension package.

Usage:
  makex [options] TASK [ARGS...]

Arguments:
  TASK
    The task to run. Prerequisites run first, each at most once.
  ARGS
    Extra arguments exposed to task files as the args variable.

Options:
`)
		flagSet.PrintDefaults()
	}

	tasksFlag := flagSet.String("tasks", "tasks", "Path to a task file or a directory of task files.")
	rootFlag := flagSet.String("root", ".", "Repository root the tasks operate on.")
	pythonFlag := flagSet.String("python", "", "Interpreter binary (overrides the PYTHON environment variable).")
	envFileFlag := flagSet.String("env-file", "", "Optional .env file layered into the environment context.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Logging level. Options: 'debug', 'info', 'warn', 'error'.")
	workersFlag := flagSet.Int("workers", runtime.NumCPU(), "Worker bound for fan-out steps.")
	listFlag := flagSet.Bool("list", false, "List available tasks and exit.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}
	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	task := ""
	var taskArgs []string
	if flagSet.NArg() > 0 {
		task = flagSet.Arg(0)
		taskArgs = flagSet.Args()[1:]
	}
	if task == "" && !*listFlag {
		flagSet.Usage()
		return nil, false, &ExitError{Code: 2, Message: "no task specified"}
	}

	config, err := app.NewConfig(app.Config{
		TasksPath: *tasksFlag,
		Task:      task,
		Args:      taskArgs,
		RootDir:   *rootFlag,
		Python:    *pythonFlag,
		EnvFile:   *envFileFlag,
		LogFormat: logFormat,
		LogLevel:  logLevel,
		Workers:   *workersFlag,
		List:      *listFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	return config, false, nil
}

// ExitCode maps an error from a run to the process exit code: structural
// task-catalogue errors exit 2, a failed step exits with the step's own
// code, a signal-killed step exits with the fixed generic failure code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	var stepErr *shell.ExitError
	if errors.As(err, &stepErr) {
		return stepErr.Code
	}

	var unknownErr *dag.UnknownTaskError
	var duplicateErr *dag.DuplicateTaskError
	var cycleErr *dag.CyclicDependencyError
	var platformErr *platform.UnsupportedPlatformError
	if errors.As(err, &unknownErr) || errors.As(err, &duplicateErr) ||
		errors.As(err, &cycleErr) || errors.As(err, &platformErr) {
		return 2
	}

	return 1
}
