package hcl

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/makex-dev/makex/internal/config"
	"github.com/makex-dev/makex/internal/ctxlog"
	"github.com/makex-dev/makex/internal/fsutil"
	"github.com/makex-dev/makex/internal/schema"
)

// Loader reads HCL task files and translates them into the config model.
// It implements config.Loader.
type Loader struct {
	parser *hclparse.Parser
}

// NewLoader creates a Loader with a fresh parser.
func NewLoader() *Loader {
	return &Loader{parser: hclparse.NewParser()}
}

// Load discovers every .hcl file under the given paths (a path may be a
// single file or a directory searched recursively), parses them, and
// returns the translated model. Tasks keep file-then-declaration order.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to access task path %q: %w", path, err)
		}
		if info.IsDir() {
			found, err := fsutil.FindFilesByExtension(path, ".hcl")
			if err != nil {
				return nil, fmt.Errorf("failed to scan task path %q: %w", path, err)
			}
			files = append(files, found...)
		} else {
			files = append(files, path)
		}
	}
	logger.Debug("Task file discovery complete.", "count", len(files))

	if len(files) == 0 {
		return nil, fmt.Errorf("no task files found under %v", paths)
	}

	model := &config.Model{}
	for _, file := range files {
		parsed, diags := l.parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse %q: %w", file, diags)
		}

		var fileSchema schema.File
		if diags := gohcl.DecodeBody(parsed.Body, nil, &fileSchema); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode %q: %w", file, diags)
		}

		for _, taskBlock := range fileSchema.Tasks {
			task, err := translateTask(taskBlock)
			if err != nil {
				return nil, fmt.Errorf("in %q: %w", file, err)
			}
			model.Tasks = append(model.Tasks, task)
		}
		logger.Debug("Task file loaded.", "file", file, "tasks", len(fileSchema.Tasks))
	}

	return model, nil
}
