package workflow

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	yml := `
platform: linux
default:
  description: Lint only
  steps: [lintCmake]
workflows:
  - name: lint
    description: Run lint workflow
    steps: [installDependencies, lintCmake, lintCppWithInlineChange]
`
	f, err := Parse([]byte(yml))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Platform != "linux" {
		t.Errorf("expected platform 'linux', got %q", f.Platform)
	}
	if len(f.Workflows) != 1 {
		t.Fatalf("expected 1 workflow, got %d", len(f.Workflows))
	}

	r := newTestRegistry(t)
	// newTestRegistry already registers "lint"; apply to a fresh registry.
	r2 := New()
	for _, s := range r.Steps() {
		if err := r2.RegisterStep(s.Name, s.Description); err != nil {
			t.Fatal(err)
		}
	}
	if err := r2.Apply(f); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	sel, err := r2.Resolve(nil)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"lintCmake"}, sel.Steps); diff != "" {
		t.Errorf("default selection mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRequiresPlatformAndNames(t *testing.T) {
	if _, err := Parse([]byte("workflows: []\n")); err == nil {
		t.Error("expected error for file without platform")
	}
	if _, err := Parse([]byte("platform: osx\nworkflows:\n  - steps: [lintCmake]\n")); err == nil {
		t.Error("expected error for nameless workflow")
	}
}

func TestApplyRejectsUnknownSteps(t *testing.T) {
	r := New()
	if err := r.RegisterStep("lintCmake", "Lint cmake files"); err != nil {
		t.Fatal(err)
	}
	f := &File{Platform: "linux"}
	f.Workflows = append(f.Workflows, f.Default)
	f.Workflows[0].Name = "broken"
	f.Workflows[0].Steps = []string{"lintCmake", "deploy"}
	if err := r.Apply(f); err == nil {
		t.Error("expected error for workflow with unknown step")
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ios.yaml")
	if err := os.WriteFile(path, []byte("platform: ios\n"), 0644); err != nil {
		t.Fatal(err)
	}
	f, err := ParseFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if f.Platform != "ios" || len(f.Workflows) != 0 {
		t.Errorf("unexpected file: %+v", f)
	}
	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
