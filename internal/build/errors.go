package build

import (
	"fmt"
	"strings"

	"github.com/futureCreator/nfbuild/internal/workflow"
)

// LintViolation lists every file that failed a lint pass in check mode.
type LintViolation struct {
	Kind  string
	Files []string
}

func (e *LintViolation) Error() string {
	noun := "files"
	if len(e.Files) == 1 {
		noun = "file"
	}
	return fmt.Sprintf("%d %s failed %s lint: %s", len(e.Files), noun, e.Kind, strings.Join(e.Files, ", "))
}

// ArtifactNotFoundError reports an expected build product that is missing.
type ArtifactNotFoundError struct {
	Name string
	Dir  string
}

func (e *ArtifactNotFoundError) Error() string {
	return fmt.Sprintf("artifact %q not found under %s", e.Name, e.Dir)
}

// TestFailure reports a target binary that exited nonzero. Code is the
// binary's own exit code.
type TestFailure struct {
	Target string
	Code   int
	Err    error
}

func (e *TestFailure) Error() string {
	return fmt.Sprintf("target %s exited with code %d", e.Target, e.Code)
}

func (e *TestFailure) Unwrap() error { return e.Err }

// ExitCode returns the failing binary's exit code.
func (e *TestFailure) ExitCode() int { return e.Code }

// PreconditionError reports an operation invoked out of order, e.g.
// generating into a build directory that was not reset.
type PreconditionError struct {
	Op     string
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// DependencyInstallError wraps a failed dependency install command.
type DependencyInstallError struct {
	Command string
	Err     error
}

func (e *DependencyInstallError) Error() string {
	return fmt.Sprintf("installing dependencies (%s): %v", e.Command, e.Err)
}

func (e *DependencyInstallError) Unwrap() error { return e.Err }

// BuildDirError rejects a build directory the reset step must not own.
type BuildDirError struct {
	Dir    string
	Reason string
}

func (e *BuildDirError) Error() string {
	return fmt.Sprintf("build_dir %q cannot be used: %s", e.Dir, e.Reason)
}

func (e *BuildDirError) Is(target error) bool { return target == workflow.ErrConfiguration }

// AmbiguousArtifactError reports several candidate build products where one
// was expected.
type AmbiguousArtifactError struct {
	Name       string
	Candidates []string
}

func (e *AmbiguousArtifactError) Error() string {
	return fmt.Sprintf("found %d copies of %s, cannot choose: %s", len(e.Candidates), e.Name, strings.Join(e.Candidates, ", "))
}
