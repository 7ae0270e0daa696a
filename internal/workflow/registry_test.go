package workflow

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r := New()
	for _, s := range []struct{ name, desc string }{
		{"debug", "Enable Debug Mode"},
		{"installDependencies", "Install dependencies"},
		{"lintCmake", "Lint cmake files"},
		{"lintCpp", "Lint CPP Files"},
		{"lintCppWithInlineChange", "Lint CPP Files and fix them"},
		{"makeBuildDirectory", "Wipe existing build directory"},
		{"generateProject", "Regenerate project"},
		{"buildTargetLibrary", "Build Target: Library"},
		{"unitTests", "Run Unit Tests"},
		{"codeCoverage", "Collect code coverage"},
	} {
		if err := r.RegisterStep(s.name, s.desc); err != nil {
			t.Fatalf("RegisterStep(%q): %v", s.name, err)
		}
	}
	if err := r.RegisterWorkflow("lint", "Run lint workflow", []string{
		"installDependencies", "lintCmake", "lintCppWithInlineChange",
	}); err != nil {
		t.Fatal(err)
	}
	if err := r.RegisterWorkflow("build", "Production Build", []string{
		"debug", "installDependencies", "lintCmake", "lintCpp",
		"makeBuildDirectory", "generateProject", "buildTargetLibrary", "unitTests",
	}); err != nil {
		t.Fatal(err)
	}
	return r
}

func TestResolveWorkflowExpandsInDeclaredOrder(t *testing.T) {
	r := newTestRegistry(t)
	for _, w := range r.Workflows() {
		t.Run(w.Name, func(t *testing.T) {
			sel, err := r.Resolve([]string{w.Name})
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if sel.Workflow != w.Name {
				t.Errorf("expected workflow %q, got %q", w.Name, sel.Workflow)
			}
			if diff := cmp.Diff(w.Steps, sel.Steps); diff != "" {
				t.Errorf("selection mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveExplicitStepsAugmentWorkflow(t *testing.T) {
	r := newTestRegistry(t)
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "new steps appended after workflow",
			args: []string{"lint", "debug", "unitTests"},
			want: []string{"installDependencies", "lintCmake", "lintCppWithInlineChange", "debug", "unitTests"},
		},
		{
			name: "step already in workflow is a no-op",
			args: []string{"lint", "lintCmake", "codeCoverage"},
			want: []string{"installDependencies", "lintCmake", "lintCppWithInlineChange", "codeCoverage"},
		},
		{
			name: "step before workflow token still appends after it",
			args: []string{"codeCoverage", "lint"},
			want: []string{"installDependencies", "lintCmake", "lintCppWithInlineChange", "codeCoverage"},
		},
		{
			name: "repeated explicit step keeps first position",
			args: []string{"unitTests", "debug", "unitTests"},
			want: []string{"unitTests", "debug"},
		},
		{
			name: "no tokens runs the empty default",
			args: nil,
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := r.Resolve(tt.args)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if diff := cmp.Diff(tt.want, sel.Steps); diff != "" {
				t.Errorf("selection mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveDefaultWorkflow(t *testing.T) {
	r := newTestRegistry(t)
	if err := r.SetDefaultWorkflow("Lint only", []string{"lintCmake"}); err != nil {
		t.Fatal(err)
	}
	sel, err := r.Resolve([]string{"debug"})
	if err != nil {
		t.Fatal(err)
	}
	if sel.Workflow != DefaultName {
		t.Errorf("expected default workflow, got %q", sel.Workflow)
	}
	if diff := cmp.Diff([]string{"lintCmake", "debug"}, sel.Steps); diff != "" {
		t.Errorf("selection mismatch (-want +got):\n%s", diff)
	}
	if !sel.Has("debug") || sel.Has("unitTests") {
		t.Errorf("Has() disagrees with %v", sel.Steps)
	}
}

func TestResolveRejectsUnknownTokens(t *testing.T) {
	r := newTestRegistry(t)
	_, err := r.Resolve([]string{"build", "packageArtifacts"})
	var unknown *UnknownArgumentError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownArgumentError, got %v", err)
	}
	if unknown.Arg != "packageArtifacts" {
		t.Errorf("expected offending token in error, got %q", unknown.Arg)
	}
	if !errors.Is(err, ErrConfiguration) {
		t.Error("expected error to match ErrConfiguration")
	}

	if _, err := r.Resolve([]string{"nightly"}); !errors.Is(err, ErrConfiguration) {
		t.Errorf("expected configuration error for unknown workflow, got %v", err)
	}
}

func TestResolveRejectsSecondWorkflow(t *testing.T) {
	r := newTestRegistry(t)
	_, err := r.Resolve([]string{"lint", "build"})
	var multi *MultipleWorkflowsError
	if !errors.As(err, &multi) {
		t.Fatalf("expected MultipleWorkflowsError, got %v", err)
	}
	if multi.First != "lint" || multi.Second != "build" {
		t.Errorf("unexpected workflows in error: %+v", multi)
	}
}

func TestRegisterStepDuplicate(t *testing.T) {
	r := newTestRegistry(t)
	err := r.RegisterStep("debug", "again")
	var dup *DuplicateStepError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateStepError, got %v", err)
	}
	if err := r.RegisterStep("lint", "collides with workflow"); !errors.As(err, &dup) {
		t.Errorf("expected step/workflow name clash to be rejected, got %v", err)
	}
	if err := r.RegisterStep("", "nameless"); !errors.Is(err, ErrConfiguration) {
		t.Errorf("expected empty name to be rejected, got %v", err)
	}
}

func TestRegisterWorkflowValidation(t *testing.T) {
	r := newTestRegistry(t)

	err := r.RegisterWorkflow("nightly", "Nightly", []string{"lintCmake", "fuzz"})
	var unknown *UnknownStepError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownStepError, got %v", err)
	}
	if unknown.Step != "fuzz" || unknown.Workflow != "nightly" {
		t.Errorf("unexpected error fields: %+v", unknown)
	}

	err = r.RegisterWorkflow("twice", "Twice", []string{"lintCmake", "lintCmake"})
	var dup *DuplicateStepError
	if !errors.As(err, &dup) || dup.Workflow != "twice" {
		t.Errorf("expected duplicate step inside workflow to be rejected, got %v", err)
	}

	if err := r.RegisterWorkflow("lint", "again", nil); !errors.As(err, &dup) {
		t.Errorf("expected duplicate workflow to be rejected, got %v", err)
	}

	if _, err := r.Resolve([]string{"nightly"}); err == nil {
		t.Error("rejected workflow must not be registered")
	}

	if err := r.SetDefaultWorkflow("bad", []string{"fuzz"}); !errors.As(err, &unknown) {
		t.Errorf("expected default workflow validation, got %v", err)
	}
}

func TestWorkflowsReturnsCopies(t *testing.T) {
	r := newTestRegistry(t)
	ws := r.Workflows()
	ws[0].Steps[0] = "mutated"
	sel, err := r.Resolve([]string{ws[0].Name})
	if err != nil {
		t.Fatal(err)
	}
	if sel.Steps[0] == "mutated" {
		t.Error("Workflows() must not expose internal slices")
	}
}

func TestDescribe(t *testing.T) {
	r := newTestRegistry(t)
	var buf bytes.Buffer
	r.Describe(&buf)
	out := buf.String()
	for _, want := range []string{
		"Steps:",
		"lintCppWithInlineChange",
		"Lint CPP Files and fix them",
		"Workflows:",
		"Production Build",
		"installDependencies, lintCmake, lintCppWithInlineChange",
		"Without a workflow: Empty workflow: (none)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Describe() missing %q:\n%s", want, out)
		}
	}
}
