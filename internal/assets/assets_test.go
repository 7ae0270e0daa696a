package assets_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/futureCreator/nfbuild/internal/assets"
	"github.com/futureCreator/nfbuild/internal/config"
	"github.com/futureCreator/nfbuild/internal/workflow"
	"gopkg.in/yaml.v3"
)

func TestEmbeddedWorkflowsParse(t *testing.T) {
	files, err := assets.EmbeddedWorkflows()
	if err != nil {
		t.Fatal(err)
	}
	for _, platform := range []string{"linux", "osx", "ios"} {
		data, ok := files[platform]
		if !ok {
			t.Errorf("no embedded workflows for %s", platform)
			continue
		}
		f, err := workflow.Parse(data)
		if err != nil {
			t.Errorf("%s: %v", platform, err)
			continue
		}
		if f.Platform != platform {
			t.Errorf("%s.yaml names platform %q", platform, f.Platform)
		}
		if len(f.Workflows) == 0 {
			t.Errorf("%s: no workflows", platform)
		}
	}
}

func TestCodeCoverageRunsAfterUnitTests(t *testing.T) {
	data, err := assets.LoadWorkflows("osx")
	if err != nil {
		t.Fatal(err)
	}
	f, err := workflow.Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	for _, w := range f.Workflows {
		if w.Name != "code_coverage" {
			continue
		}
		n := len(w.Steps)
		if n < 2 || w.Steps[n-2] != "unitTests" || w.Steps[n-1] != "codeCoverage" {
			t.Errorf("code_coverage steps = %v, want unitTests then codeCoverage last", w.Steps)
		}
		return
	}
	t.Fatal("osx has no code_coverage workflow")
}

func TestLoadWorkflowsProjectOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", t.TempDir())
	wd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })

	override := "platform: linux\nworkflows:\n  - name: quick\n    steps: [lintCpp]\n"
	path := filepath.Join(config.Dir, "workflows", "linux.yaml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(override), 0o644); err != nil {
		t.Fatal(err)
	}

	data, err := assets.LoadWorkflows("linux")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != override {
		t.Errorf("expected project override, got:\n%s", data)
	}

	if _, err := assets.LoadWorkflows("windows"); err == nil {
		t.Error("expected error for unknown platform")
	}
}

func TestConfigTemplateMatchesDefaults(t *testing.T) {
	content, err := assets.ConfigTemplate()
	if err != nil {
		t.Fatal(err)
	}
	var cfg config.Config
	if err := yaml.Unmarshal([]byte(content), &cfg); err != nil {
		t.Fatalf("template must be valid YAML: %v", err)
	}
	def := config.Defaults()
	if cfg.BuildDir != def.BuildDir || cfg.BuildConfig != def.BuildConfig {
		t.Errorf("template build settings %q/%q differ from defaults", cfg.BuildDir, cfg.BuildConfig)
	}
	if cfg.Tools.CMake != def.Tools.CMake || cfg.Platforms.IOS.Device.Arch != def.Platforms.IOS.Device.Arch {
		t.Error("template tools or platforms differ from defaults")
	}
	if !strings.Contains(content, "log_format") {
		t.Error("template missing log_format")
	}
}
