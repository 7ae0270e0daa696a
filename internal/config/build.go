package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/zclconf/go-cty/cty"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// BuildConfig is the project's build configuration document (ci/ci.yaml or
// ci/ci.hcl). It is read once and never mutated.
type BuildConfig struct {
	// Library is the library name used for the Xcode project, the packaged
	// staging folder and the archive.
	Library string `yaml:"library" hcl:"library"`
	// LibraryTarget is the target built by buildTargetLibrary. Defaults to
	// Library.
	LibraryTarget string `yaml:"library_target" hcl:"library_target,optional"`
	// UnitTests are built and run in order by the unitTests step.
	UnitTests []string `yaml:"unit_tests" hcl:"unit_tests,optional"`
	// Version is an optional semantic version stamped into packages.
	Version string `yaml:"version" hcl:"version,optional"`
}

// LoadBuildConfig reads the build configuration document at path. Files
// ending in .hcl are decoded as HCL with the variable "platform" in scope;
// everything else is YAML.
func LoadBuildConfig(path, platform string) (*BuildConfig, error) {
	var bc BuildConfig
	if strings.EqualFold(filepath.Ext(path), ".hcl") {
		evalCtx := &hcl.EvalContext{
			Variables: map[string]cty.Value{
				"platform": cty.StringVal(platform),
			},
		}
		if err := hclsimple.DecodeFile(path, evalCtx, &bc); err != nil {
			return nil, fmt.Errorf("decoding build config %s: %w", path, err)
		}
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading build config: %w", err)
		}
		if err := yaml.Unmarshal(data, &bc); err != nil {
			return nil, fmt.Errorf("parsing build config %s: %w", path, err)
		}
	}
	if err := bc.normalize(); err != nil {
		return nil, fmt.Errorf("build config %s: %w", path, err)
	}
	return &bc, nil
}

func (bc *BuildConfig) normalize() error {
	if bc.Library == "" {
		return fmt.Errorf("library is required")
	}
	if bc.LibraryTarget == "" {
		bc.LibraryTarget = bc.Library
	}
	seen := make(map[string]bool, len(bc.UnitTests))
	for _, name := range bc.UnitTests {
		if name == "" {
			return fmt.Errorf("unit_tests contains an empty target name")
		}
		if seen[name] {
			return fmt.Errorf("unit test target %q listed twice", name)
		}
		seen[name] = true
	}
	if bc.Version != "" {
		v := bc.Version
		if !strings.HasPrefix(v, "v") {
			v = "v" + v
		}
		if !semver.IsValid(v) {
			return fmt.Errorf("version %q is not a valid semantic version", bc.Version)
		}
		bc.Version = strings.TrimPrefix(bc.Version, "v")
	}
	return nil
}
