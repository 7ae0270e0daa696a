package project

import (
	"fmt"
	"os/exec"
	"strings"
)

// GitInfo holds the git state a build ran against.
type GitInfo struct {
	Branch  string
	Commit  string
	IsDirty bool
}

// CollectGitInfo gathers branch, commit and dirty state for the repository
// containing dir.
func CollectGitInfo(dir string) (*GitInfo, error) {
	branch, err := gitOutput(dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return nil, fmt.Errorf("getting git branch: %w", err)
	}

	commit, err := gitOutput(dir, "rev-parse", "--short", "HEAD")
	if err != nil {
		return nil, fmt.Errorf("getting git commit: %w", err)
	}

	status, err := gitOutput(dir, "status", "--porcelain")
	if err != nil {
		return nil, fmt.Errorf("checking git status: %w", err)
	}

	return &GitInfo{
		Branch:  branch,
		Commit:  commit,
		IsDirty: status != "",
	}, nil
}

func gitOutput(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
