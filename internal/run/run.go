// Package run records each build invocation under .nfbuild/runs/<id>/.
package run

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Run statuses.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

// Run represents a single build invocation.
type Run struct {
	ID   string
	Dir  string
	Meta Meta
}

// Meta holds metadata about a run, persisted to meta.json.
type Meta struct {
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt *time.Time   `json:"finished_at,omitempty"`
	Platform   string       `json:"platform"`
	Workflow   string       `json:"workflow"`
	Selected   []string     `json:"selected"`
	BuildType  string       `json:"build_type"`
	Status     string       `json:"status"`
	Steps      []StepResult `json:"steps"`
	ExitCode   int          `json:"exit_code"`
	Error      string       `json:"error,omitempty"`
	GitBranch  string       `json:"git_branch"`
	GitCommit  string       `json:"git_commit"`
	GitDirty   bool         `json:"git_dirty"`
}

// StepResult records the outcome of a single step.
type StepResult struct {
	Name       string `json:"name"`
	Status     string `json:"status"` // "completed" | "failed"
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

// Options describes the invocation being recorded.
type Options struct {
	Platform  string
	Workflow  string
	Selected  []string
	BuildType string
	GitBranch string
	GitCommit string
	GitDirty  bool
}

// New creates a run directory under baseDir and points baseDir/latest at it.
func New(baseDir string, opts Options) (*Run, error) {
	now := time.Now()
	id := fmt.Sprintf("%s-%s-%s",
		now.Format("20060102-150405"),
		uuid.NewString()[:8],
		sanitizeSlug(opts.Platform+"-"+opts.Workflow),
	)

	dir := filepath.Join(baseDir, id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating run dir: %w", err)
	}

	r := &Run{
		ID:  id,
		Dir: dir,
		Meta: Meta{
			StartedAt: now,
			Platform:  opts.Platform,
			Workflow:  opts.Workflow,
			Selected:  opts.Selected,
			BuildType: opts.BuildType,
			Status:    StatusRunning,
			GitBranch: opts.GitBranch,
			GitCommit: opts.GitCommit,
			GitDirty:  opts.GitDirty,
		},
	}

	if err := r.SaveMeta(); err != nil {
		return nil, err
	}

	if err := updateLatestLink(baseDir, id); err != nil {
		return nil, err
	}

	return r, nil
}

// SaveMeta writes meta.json to the run directory.
func (r *Run) SaveMeta() error {
	data, err := json.MarshalIndent(r.Meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling meta: %w", err)
	}
	return os.WriteFile(r.FilePath("meta.json"), data, 0644)
}

// AddStepResult appends a step result.
func (r *Run) AddStepResult(sr StepResult) error {
	r.Meta.Steps = append(r.Meta.Steps, sr)
	return r.SaveMeta()
}

// Complete marks the run as completed.
func (r *Run) Complete() error {
	r.finish(StatusCompleted)
	return r.SaveMeta()
}

// Fail marks the run as failed with the exit code the process will use.
func (r *Run) Fail(msg string, code int) error {
	r.finish(StatusFailed)
	r.Meta.Error = msg
	r.Meta.ExitCode = code
	return r.SaveMeta()
}

// Cancel marks the run as interrupted between steps.
func (r *Run) Cancel() error {
	r.finish(StatusCancelled)
	return r.SaveMeta()
}

func (r *Run) finish(status string) {
	now := time.Now()
	r.Meta.Status = status
	r.Meta.FinishedAt = &now
}

// Duration is the wall time of a finished run, or zero while running.
func (m Meta) Duration() time.Duration {
	if m.FinishedAt == nil {
		return 0
	}
	return m.FinishedAt.Sub(m.StartedAt)
}

// FilePath returns the path to a file within this run directory.
func (r *Run) FilePath(name string) string {
	return filepath.Join(r.Dir, name)
}

// Entry is one recorded run as listed by List.
type Entry struct {
	ID   string
	Meta Meta
}

// List reads every run under baseDir, newest first. Unreadable entries are
// skipped; a missing baseDir is an empty history.
func List(baseDir string) ([]Entry, error) {
	entries, err := os.ReadDir(baseDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading runs dir: %w", err)
	}

	var out []Entry
	for _, e := range entries {
		if !e.IsDir() || e.Name() == "latest" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(baseDir, e.Name(), "meta.json"))
		if err != nil {
			continue
		}
		var meta Meta
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		out = append(out, Entry{ID: e.Name(), Meta: meta})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Meta.StartedAt.After(out[j].Meta.StartedAt)
	})
	return out, nil
}

// updateLatestLink atomically updates the "latest" symlink.
func updateLatestLink(baseDir, id string) error {
	latestPath := filepath.Join(baseDir, "latest")
	tmpPath := latestPath + ".tmp"

	// Remove any stale tmp link
	os.Remove(tmpPath)

	if err := os.Symlink(id, tmpPath); err != nil {
		return fmt.Errorf("creating temp symlink: %w", err)
	}
	if err := os.Rename(tmpPath, latestPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("updating latest symlink: %w", err)
	}
	return nil
}

var nonAlphanumRe = regexp.MustCompile(`[^a-z0-9]+`)

// sanitizeSlug converts a string to a path-friendly slug.
func sanitizeSlug(s string) string {
	s = strings.ToLower(s)
	s = nonAlphanumRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > 40 {
		s = s[:40]
		s = strings.TrimRight(s, "-")
	}
	if s == "" {
		s = "run"
	}
	return s
}
