package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/makex-dev/makex/internal/config"
	"github.com/makex-dev/makex/internal/ctxlog"
	"github.com/makex-dev/makex/internal/dag"
	"github.com/makex-dev/makex/internal/envctx"
	"github.com/makex-dev/makex/internal/platform"
	"github.com/makex-dev/makex/internal/registry"
)

// defaultPython is used when neither the -python flag nor the PYTHON
// environment variable selects an interpreter.
const defaultPython = "python3"

// App encapsulates one fully wired orchestrator instance: logger, task
// graph, handler registry, and the run's immutable environment context.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	env      *envctx.Context
	graph    *dag.Graph
	registry *registry.Registry
	family   platform.Family
	python   string
}

// NewApp wires an application instance: it builds the environment context,
// loads and validates the task catalogue, and registers the handler
// modules (coreModules unless the caller injects its own set). Structural
// errors in the catalogue are fatal to the whole process, not to a plan,
// so they surface here rather than at run time.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader, modules ...registry.Module) (*App, error) {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	family, err := platform.Detect()
	if err != nil {
		return nil, err
	}
	logger.Debug("Platform detected.", "family", family.String())

	python := appConfig.Python
	if python == "" {
		python = os.Getenv("PYTHON")
	}
	if python == "" {
		python = defaultPython
	}

	overrides := map[string]string{
		"PYTHON":           python,
		"PYTHONUNBUFFERED": "1",
		"PYTHONWARNINGS":   "always",
	}
	if appConfig.LogLevel == "debug" {
		overrides["MAKEX_DEBUG"] = "1"
	}
	env, err := envctx.New(envctx.Options{
		Ambient:   os.Environ(),
		EnvFile:   appConfig.EnvFile,
		Overrides: overrides,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build environment context: %w", err)
	}
	logger.Debug("Environment context assembled.", "vars", env.Len())

	model, err := loader.Load(ctx, appConfig.TasksPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load task definitions: %w", err)
	}
	logger.Debug("Task definitions loaded.", "tasks", len(model.Tasks))

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("Handler modules registered.", "count", len(modules))

	if err := reg.Validate(model); err != nil {
		return nil, err
	}

	graph, err := dag.FromModel(model)
	if err != nil {
		return nil, err
	}
	if err := graph.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("Task graph validated.", "tasks", graph.Len())

	return &App{
		outW:     outW,
		logger:   logger,
		config:   appConfig,
		env:      env,
		graph:    graph,
		registry: reg,
		family:   family,
		python:   python,
	}, nil
}

// Graph returns the application's task graph. Primarily for testing.
func (a *App) Graph() *dag.Graph {
	return a.graph
}
