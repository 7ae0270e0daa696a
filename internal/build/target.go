package build

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/futureCreator/nfbuild/internal/executor"
	vlog "github.com/futureCreator/nfbuild/internal/log"
)

var errFound = errors.New("found")

// ResolveTargetBinary returns the first regular file under the build tree
// whose base name matches name (a glob). It returns "" when nothing matches.
func (p *Pipeline) ResolveTargetBinary(name string) (string, error) {
	if _, err := filepath.Match(name, ""); err != nil {
		return "", fmt.Errorf("invalid target pattern %q: %w", name, err)
	}
	var found string
	err := filepath.WalkDir(p.BuildDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == p.BuildDir && errors.Is(err, fs.ErrNotExist) {
				return filepath.SkipDir
			}
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if ok, _ := filepath.Match(name, d.Name()); ok {
			found = path
			return errFound
		}
		return nil
	})
	if err != nil && !errors.Is(err, errFound) {
		return "", fmt.Errorf("searching for %s: %w", name, err)
	}
	return found, nil
}

// RunTarget executes the binary built for name. A nonzero exit becomes a
// TestFailure carrying the program's own exit code.
func (p *Pipeline) RunTarget(ctx context.Context, name string) error {
	bin, err := p.ResolveTargetBinary(name)
	if err != nil {
		return err
	}
	if bin == "" {
		return &ArtifactNotFoundError{Name: name, Dir: p.BuildDir}
	}

	vlog.Info("running target", "target", name, "binary", bin)
	_, err = p.run(ctx, bin, nil, nil)
	var toolErr *executor.ToolError
	if errors.As(err, &toolErr) {
		return &TestFailure{Target: name, Code: toolErr.Code, Err: err}
	}
	return err
}

// RunUnitTests builds and runs each configured unit test in order, stopping
// at the first failure.
func (p *Pipeline) RunUnitTests(ctx context.Context) error {
	for _, name := range p.Build.UnitTests {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.BuildTarget(ctx, name, Destination{}); err != nil {
			return err
		}
		if err := p.RunTarget(ctx, name); err != nil {
			return err
		}
	}
	return nil
}
