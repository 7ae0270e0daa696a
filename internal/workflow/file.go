package workflow

import (
	"fmt"
	"os"

	"github.com/futureCreator/nfbuild/internal/types"
	"gopkg.in/yaml.v3"
)

// File is a workflow definition document for one platform.
type File struct {
	Platform  string           `yaml:"platform"`
	Default   types.Workflow   `yaml:"default"`
	Workflows []types.Workflow `yaml:"workflows"`
}

// Parse decodes a workflow file from YAML bytes.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing workflows: %w", err)
	}
	if f.Platform == "" {
		return nil, fmt.Errorf("workflow file must name its platform")
	}
	for i, w := range f.Workflows {
		if w.Name == "" {
			return nil, fmt.Errorf("workflow #%d has no name", i+1)
		}
	}
	return &f, nil
}

// ParseFile reads and parses a workflow YAML file.
func ParseFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workflow file %s: %w", path, err)
	}
	return Parse(data)
}

// Apply registers the file's default and named workflows. Steps must already
// be registered.
func (r *Registry) Apply(f *File) error {
	desc := f.Default.Description
	if desc == "" {
		desc = "Empty workflow"
	}
	if err := r.SetDefaultWorkflow(desc, f.Default.Steps); err != nil {
		return err
	}
	for _, w := range f.Workflows {
		if err := r.RegisterWorkflow(w.Name, w.Description, w.Steps); err != nil {
			return err
		}
	}
	return nil
}
