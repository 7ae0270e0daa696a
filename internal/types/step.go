// Package types holds shared data structures used across packages.
package types

// Step is a single named build action.
type Step struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// Workflow is a named, ordered list of step names. It is expanded into its
// steps at resolution time and never executed on its own.
type Workflow struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Steps       []string `yaml:"steps"`
}
