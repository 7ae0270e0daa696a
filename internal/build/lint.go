package build

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/futureCreator/nfbuild/internal/executor"
	vlog "github.com/futureCreator/nfbuild/internal/log"
	"github.com/futureCreator/nfbuild/internal/project"
)

// LintSources runs the formatter over every source file. In check mode each
// file whose formatted output differs from its contents is collected into a
// LintViolation; in fix mode files are rewritten in place.
func (p *Pipeline) LintSources(ctx context.Context, fix bool) error {
	patterns := make([]string, 0, len(p.Config.Sources.Extensions))
	for _, ext := range p.Config.Sources.Extensions {
		patterns = append(patterns, "*"+ext)
	}
	files, err := project.Scan(p.WorkDir, project.ScanOptions{
		Dirs:            p.Config.Sources.LintDirs,
		IncludePatterns: patterns,
	})
	if err != nil {
		return fmt.Errorf("scanning sources: %w", err)
	}

	tool := p.Config.Tools.ClangFormat
	var bad []string
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		p.AnalyzedFiles = append(p.AnalyzedFiles, file)

		if fix {
			if _, err := p.run(ctx, tool, []string{"-style=file", "-i", file}, nil); err != nil {
				return err
			}
			continue
		}

		res, err := p.run(ctx, tool, []string{"-style=file", file}, nil)
		if err != nil {
			return err
		}
		current, err := os.ReadFile(filepath.Join(p.WorkDir, file))
		if err != nil {
			return fmt.Errorf("reading %s: %w", file, err)
		}
		if res.Output != string(current) {
			vlog.Warn("file is not formatted", "file", file)
			bad = append(bad, file)
		}
	}

	vlog.Info("formatter finished", "files", len(files), "mismatched", len(bad), "fix", fix)
	if len(bad) > 0 {
		return &LintViolation{Kind: "format", Files: bad}
	}
	return nil
}

// LintBuildConfig runs cmakelint over the top-level CMakeLists.txt and every
// CMakeLists.txt below the configured directories.
func (p *Pipeline) LintBuildConfig(ctx context.Context) error {
	files := []string{"CMakeLists.txt"}
	nested, err := project.Scan(p.WorkDir, project.ScanOptions{
		Dirs:            p.Config.Sources.CMakeDirs,
		IncludePatterns: []string{"*CMakeLists.txt"},
	})
	if err != nil {
		return fmt.Errorf("scanning cmake files: %w", err)
	}
	files = append(files, nested...)

	var bad []string
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !project.Exists(filepath.Join(p.WorkDir, file)) {
			return &ArtifactNotFoundError{Name: file, Dir: p.WorkDir}
		}
		p.AnalyzedFiles = append(p.AnalyzedFiles, file)

		_, err := p.run(ctx, p.Config.Tools.CMakeLint, []string{file}, nil)
		var toolErr *executor.ToolError
		switch {
		case err == nil:
		case errors.As(err, &toolErr) && toolErr.Code != executor.CodeNotRun && toolErr.Code != executor.CodeTimeout:
			vlog.Warn("cmakelint reported problems", "file", file)
			bad = append(bad, file)
		default:
			return err
		}
	}
	if len(bad) > 0 {
		return &LintViolation{Kind: "cmake", Files: bad}
	}
	return nil
}
