package build

import (
	"context"
	"fmt"
	"os"

	"github.com/magefile/mage/sh"

	vlog "github.com/futureCreator/nfbuild/internal/log"
)

// ResetBuildDirectory removes the build directory and recreates it with an
// empty output directory. Safe to run repeatedly.
func (p *Pipeline) ResetBuildDirectory(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	vlog.Debug("resetting build directory", "dir", p.BuildDir)
	if err := sh.Rm(p.BuildDir); err != nil {
		return fmt.Errorf("removing build directory: %w", err)
	}
	if err := os.MkdirAll(p.OutputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	return nil
}

func (p *Pipeline) requireBuildDir(op string) error {
	info, err := os.Stat(p.BuildDir)
	if err != nil || !info.IsDir() {
		return &PreconditionError{Op: op, Reason: fmt.Sprintf("build directory %s does not exist; run makeBuildDirectory first", p.BuildDir)}
	}
	return nil
}

// requireFreshBuildDir accepts only a build directory holding nothing but
// an empty output directory.
func (p *Pipeline) requireFreshBuildDir(op string) error {
	if err := p.requireBuildDir(op); err != nil {
		return err
	}
	entries, err := os.ReadDir(p.BuildDir)
	if err != nil {
		return fmt.Errorf("reading build directory: %w", err)
	}
	stale := &PreconditionError{Op: op, Reason: fmt.Sprintf("build directory %s is not freshly reset; run makeBuildDirectory first", p.BuildDir)}
	if len(entries) != 1 || entries[0].Name() != "output" || !entries[0].IsDir() {
		return stale
	}
	out, err := os.ReadDir(p.OutputDir)
	if err != nil {
		return fmt.Errorf("reading output directory: %w", err)
	}
	if len(out) != 0 {
		return stale
	}
	return nil
}
