// Package steps binds step names to build options and pipeline operations
// for each platform.
package steps

import (
	"context"
	"fmt"

	"github.com/futureCreator/nfbuild/internal/assets"
	"github.com/futureCreator/nfbuild/internal/build"
	"github.com/futureCreator/nfbuild/internal/config"
	"github.com/futureCreator/nfbuild/internal/workflow"
)

// Env is what an action step runs against.
type Env struct {
	Ops    build.Operations
	Config *config.Config
	Build  *config.BuildConfig
}

// Binding is one registered step. Configure, when set, folds the step into
// the build options before the pipeline exists. Run, when set, is the
// step's action. A step may have both.
type Binding struct {
	Name        string
	Description string
	Configure   func(*build.Options)
	Run         func(ctx context.Context, env *Env) error
}

// Catalog is the ordered step set of one platform.
type Catalog struct {
	Platform string
	Bindings []Binding
}

// For returns the catalog of a platform.
func For(platform string) (*Catalog, error) {
	var bindings []Binding
	switch platform {
	case "linux":
		bindings = []Binding{
			debug,
			installDependencies,
			lintCmake,
			lintCpp,
			lintCppWithInlineChange,
			unitTests,
			makeBuildDirectory,
			generateProject,
			buildTargetLibrary,
			gnuToolchain,
			llvmToolchain,
			packageArtifacts,
		}
	case "osx":
		bindings = []Binding{
			debug,
			installDependencies,
			lintCmake,
			lintCpp,
			lintCppWithInlineChange,
			unitTests,
			makeBuildDirectory,
			generateProject,
			addressSanitizer,
			threadSanitizer,
			undefinedBehaviourSanitizer,
			codeCoverage,
			buildTargetLibrary,
			packageArtifacts,
		}
	case "ios":
		bindings = []Binding{
			installDependencies,
			lintCmake,
			lintCpp,
			lintCppWithInlineChange,
			makeBuildDirectory,
			generateProject,
			buildTargetIphoneSimulator,
			buildTargetIphoneOS,
			packageArtifacts,
		}
	default:
		return nil, fmt.Errorf("unknown platform %q", platform)
	}
	return &Catalog{Platform: platform, Bindings: bindings}, nil
}

// Lookup returns the binding registered under name.
func (c *Catalog) Lookup(name string) (Binding, bool) {
	for _, b := range c.Bindings {
		if b.Name == name {
			return b, true
		}
	}
	return Binding{}, false
}

// Registry registers every binding, then the platform's workflow file.
func (c *Catalog) Registry() (*workflow.Registry, error) {
	r := workflow.New()
	for _, b := range c.Bindings {
		if err := r.RegisterStep(b.Name, b.Description); err != nil {
			return nil, err
		}
	}
	data, err := assets.LoadWorkflows(c.Platform)
	if err != nil {
		return nil, err
	}
	f, err := workflow.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s workflows: %v", workflow.ErrConfiguration, c.Platform, err)
	}
	if f.Platform != c.Platform {
		return nil, fmt.Errorf("%w: workflow file for %s names platform %q", workflow.ErrConfiguration, c.Platform, f.Platform)
	}
	if err := r.Apply(f); err != nil {
		return nil, err
	}
	return r, nil
}

// Options folds the selected configuration steps into build options.
func (c *Catalog) Options(sel *workflow.Selection) build.Options {
	opts := build.DefaultOptions()
	for _, name := range sel.Steps {
		if b, ok := c.Lookup(name); ok && b.Configure != nil {
			b.Configure(&opts)
		}
	}
	return opts
}

// Actions returns the selected steps that do work, in selection order.
// lintCpp is dropped when lintCppWithInlineChange is also selected.
func (c *Catalog) Actions(sel *workflow.Selection) []Binding {
	var out []Binding
	for _, name := range sel.Steps {
		b, ok := c.Lookup(name)
		if !ok || b.Run == nil {
			continue
		}
		if name == lintCpp.Name && sel.Has(lintCppWithInlineChange.Name) {
			continue
		}
		out = append(out, b)
	}
	return out
}
