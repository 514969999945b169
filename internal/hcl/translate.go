package hcl

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/makex-dev/makex/internal/config"
	"github.com/makex-dev/makex/internal/schema"
)

// translateTask converts an HCL task schema struct into the agnostic model.
func translateTask(s *schema.Task) (*config.Task, error) {
	task := &config.Task{
		Name:        s.Name,
		Description: s.Description,
		DependsOn:   s.DependsOn,
	}

	if s.Run != nil && s.Platform != nil {
		return nil, fmt.Errorf("task %q declares both a run block and a platform block", s.Name)
	}

	if s.Run != nil {
		if s.Run.Handler == "" {
			return nil, fmt.Errorf("task %q has a run block with an empty handler label", s.Name)
		}
		task.Run = &config.Step{
			Handler: s.Run.Handler,
			Body:    s.Run.Body,
		}
	}

	if s.Platform != nil {
		variants, err := translateVariants(s)
		if err != nil {
			return nil, err
		}
		task.Platform = variants
	}

	return task, nil
}

// translateVariants evaluates the platform block's attributes. Every value
// must be a constant string naming a registered task.
func translateVariants(s *schema.Task) (map[string]string, error) {
	attrs, diags := s.Platform.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("task %q has an invalid platform block: %w", s.Name, diags)
	}
	if len(attrs) == 0 {
		return nil, fmt.Errorf("task %q has an empty platform block", s.Name)
	}

	variants := make(map[string]string, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("task %q, platform %q: %w", s.Name, name, diags)
		}
		if val.Type() != cty.String {
			return nil, fmt.Errorf("task %q, platform %q: variant must be a task name string", s.Name, name)
		}
		variants[name] = val.AsString()
	}
	return variants, nil
}
