package build

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	vlog "github.com/futureCreator/nfbuild/internal/log"
)

// CollectCoverage prunes coverage data that does not belong to library
// sources, captures the rest with lcov and renders an HTML report into the
// output directory.
func (p *Pipeline) CollectCoverage(ctx context.Context) error {
	if err := p.requireBuildDir("collect coverage"); err != nil {
		return err
	}
	kept, err := p.pruneCoverageData()
	if err != nil {
		return err
	}
	vlog.Info("coverage data pruned", "kept", len(kept))

	covInfo := filepath.Join(p.BuildDir, "cov.info")
	filtered := filepath.Join(p.BuildDir, "filtered_cov.info")
	report := filepath.Join(p.OutputDir, "code_coverage")

	args := []string{"--directory", ".", "--base-directory", "."}
	if p.Config.Tools.GcovTool != "" {
		args = append(args, "--gcov-tool", p.Config.Tools.GcovTool)
	}
	args = append(args, "--capture", "-o", covInfo)
	if _, err := p.run(ctx, p.Config.Tools.LCov, args, nil); err != nil {
		return err
	}

	args = append([]string{"--remove", covInfo}, p.Config.Coverage.Remove...)
	args = append(args, "-o", filtered)
	if _, err := p.run(ctx, p.Config.Tools.LCov, args, nil); err != nil {
		return err
	}

	if _, err := p.run(ctx, p.Config.Tools.GenHTML, []string{filtered, "-o", report}, nil); err != nil {
		return err
	}
	vlog.Info("coverage report written", "dir", report)
	return nil
}

// pruneCoverageData deletes every *.gcda file outside the library source
// tree or under an excluded path, and returns the build-relative paths of
// the files it kept.
func (p *Pipeline) pruneCoverageData() ([]string, error) {
	var kept []string
	err := filepath.WalkDir(p.BuildDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if ok, _ := filepath.Match("*.gcda", d.Name()); !ok {
			return nil
		}
		rel, err := filepath.Rel(p.BuildDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if p.keepCoverage(rel) {
			kept = append(kept, rel)
			return nil
		}
		vlog.Debug("removing coverage data", "file", rel)
		return os.Remove(path)
	})
	if err != nil {
		return nil, fmt.Errorf("pruning coverage data: %w", err)
	}
	return kept, nil
}

func (p *Pipeline) keepCoverage(rel string) bool {
	if !strings.HasPrefix(rel, p.Config.Coverage.SourcePrefix) {
		return false
	}
	slashed := "/" + rel
	for _, ex := range p.Config.Coverage.Exclude {
		if strings.Contains(slashed, ex) {
			return false
		}
	}
	return true
}
