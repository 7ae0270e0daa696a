// Package assets provides the embedded workflow definitions and config
// template.
package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/futureCreator/nfbuild/internal/config"
)

//go:embed workflows/*.yaml
var workflowsFS embed.FS

//go:embed templates/*
var templatesFS embed.FS

// LoadWorkflows returns the workflow file for a platform.
// Override lookup order: project .nfbuild/workflows/ > user ~/.nfbuild/workflows/ > embedded.
func LoadWorkflows(platform string) ([]byte, error) {
	return loadWithOverride("workflows", platform+".yaml", workflowsFS)
}

// ConfigTemplate returns the commented default config written by init.
func ConfigTemplate() (string, error) {
	data, err := templatesFS.ReadFile("templates/config.yaml")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// EmbeddedWorkflows returns every built-in workflow file keyed by platform.
func EmbeddedWorkflows() (map[string][]byte, error) {
	return readAll(workflowsFS, "workflows", ".yaml")
}

func loadWithOverride(dir, filename string, embedded embed.FS) ([]byte, error) {
	// 1. project-level override
	projectPath := filepath.Join(config.Dir, dir, filename)
	if data, err := os.ReadFile(projectPath); err == nil {
		return data, nil
	}

	// 2. user-level override
	if home, err := os.UserHomeDir(); err == nil {
		userPath := filepath.Join(home, config.Dir, dir, filename)
		if data, err := os.ReadFile(userPath); err == nil {
			return data, nil
		}
	}

	// 3. embedded default
	data, err := embedded.ReadFile(dir + "/" + filename)
	if err != nil {
		return nil, fmt.Errorf("%s %q not found", dir, filename)
	}
	return data, nil
}

func readAll(fsys embed.FS, dir, ext string) (map[string][]byte, error) {
	result := map[string][]byte{}
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if filepath.Ext(name) != ext {
			continue
		}
		data, err := fsys.ReadFile(dir + "/" + name)
		if err != nil {
			return nil, err
		}
		result[name[:len(name)-len(ext)]] = data
	}
	return result, nil
}
