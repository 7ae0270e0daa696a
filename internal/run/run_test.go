package run

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestSanitizeSlug(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"osx-code_coverage", "osx-code-coverage"},
		{"ios-build", "ios-build"},
		{"  spaces  ", "spaces"},
		{"", "run"},
		{"linux-", "linux"},
		{strings.Repeat("a", 50), strings.Repeat("a", 40)},
	}
	for _, tt := range tests {
		got := sanitizeSlug(tt.input)
		if got != tt.want {
			t.Errorf("sanitizeSlug(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNew(t *testing.T) {
	base := filepath.Join(t.TempDir(), "runs")

	r, err := New(base, Options{
		Platform:  "osx",
		Workflow:  "build",
		Selected:  []string{"debug", "unitTests"},
		BuildType: "Debug",
		GitBranch: "main",
		GitCommit: "abc1234",
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if r.Meta.Status != StatusRunning {
		t.Errorf("expected status running, got %q", r.Meta.Status)
	}
	if !strings.HasSuffix(r.ID, "-osx-build") {
		t.Errorf("ID %q should end with the platform and workflow", r.ID)
	}

	data, err := os.ReadFile(r.FilePath("meta.json"))
	if err != nil {
		t.Fatalf("meta.json not created: %v", err)
	}
	var meta Meta
	if err := json.Unmarshal(data, &meta); err != nil {
		t.Fatalf("meta.json invalid: %v", err)
	}
	if diff := cmp.Diff([]string{"debug", "unitTests"}, meta.Selected); diff != "" {
		t.Errorf("selected mismatch (-want +got):\n%s", diff)
	}

	target, err := os.Readlink(filepath.Join(base, "latest"))
	if err != nil {
		t.Fatalf("latest symlink not created: %v", err)
	}
	if target != r.ID {
		t.Errorf("latest -> %q, want %q", target, r.ID)
	}
}

func TestUniqueIDs(t *testing.T) {
	base := t.TempDir()
	a, err := New(base, Options{Platform: "linux", Workflow: "lint"})
	if err != nil {
		t.Fatal(err)
	}
	b, err := New(base, Options{Platform: "linux", Workflow: "lint"})
	if err != nil {
		t.Fatal(err)
	}
	if a.ID == b.ID {
		t.Errorf("two runs share ID %q", a.ID)
	}
	target, _ := os.Readlink(filepath.Join(base, "latest"))
	if target != b.ID {
		t.Errorf("latest -> %q, want newest run %q", target, b.ID)
	}
}

func TestStepResultsAndStatus(t *testing.T) {
	r, err := New(t.TempDir(), Options{Platform: "linux", Workflow: "gcc_build"})
	if err != nil {
		t.Fatal(err)
	}
	if err := r.AddStepResult(StepResult{Name: "lintCmake", Status: StatusCompleted, DurationMS: 12}); err != nil {
		t.Fatal(err)
	}
	if err := r.Fail("target T2 exited with code 7", 7); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(r.FilePath("meta.json"))
	var meta Meta
	if err := json.Unmarshal(data, &meta); err != nil {
		t.Fatal(err)
	}
	if meta.Status != StatusFailed || meta.ExitCode != 7 {
		t.Errorf("meta = %+v, want failed with exit code 7", meta)
	}
	if len(meta.Steps) != 1 || meta.Steps[0].Name != "lintCmake" {
		t.Errorf("steps = %+v", meta.Steps)
	}
	if meta.FinishedAt == nil || meta.Duration() < 0 {
		t.Errorf("finished_at not recorded")
	}
}

func TestList(t *testing.T) {
	base := t.TempDir()
	if got, err := List(filepath.Join(base, "missing")); err != nil || got != nil {
		t.Fatalf("List(missing) = %v, %v", got, err)
	}

	older, err := New(base, Options{Platform: "ios", Workflow: "build"})
	if err != nil {
		t.Fatal(err)
	}
	older.Meta.StartedAt = time.Now().Add(-time.Hour)
	if err := older.Complete(); err != nil {
		t.Fatal(err)
	}
	newer, err := New(base, Options{Platform: "osx", Workflow: "lint"})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(base, "garbage"), 0755); err != nil {
		t.Fatal(err)
	}

	entries, err := List(base)
	if err != nil {
		t.Fatal(err)
	}
	var ids []string
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	if diff := cmp.Diff([]string{newer.ID, older.ID}, ids); diff != "" {
		t.Errorf("List order mismatch (-want +got):\n%s", diff)
	}
}
