package app

import "errors"

// Config holds everything an App instance needs to run one invocation.
type Config struct {
	// TasksPath is a task file or a directory of task files.
	TasksPath string

	// Task is the requested task name; Args are the trailing CLI
	// arguments exposed to task files as the args variable.
	Task string
	Args []string

	// RootDir is the repository the tasks operate on.
	RootDir string

	// Python overrides interpreter selection (otherwise the PYTHON
	// environment variable, then a default, applies).
	Python string

	// EnvFile is an optional dotenv file layered into the environment
	// context.
	EnvFile string

	LogFormat string
	LogLevel  string
	Workers   int

	// List prints the task catalogue instead of running anything.
	List bool
}

// NewConfig validates a Config and applies defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.TasksPath == "" {
		return nil, errors.New("TasksPath is a required configuration field and cannot be empty")
	}
	if cfg.Task == "" && !cfg.List {
		return nil, errors.New("no task requested")
	}
	if cfg.RootDir == "" {
		cfg.RootDir = "."
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &cfg, nil
}
