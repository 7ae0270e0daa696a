package build

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/magefile/mage/sh"

	vlog "github.com/futureCreator/nfbuild/internal/log"
	"github.com/futureCreator/nfbuild/internal/project"
)

// LibraryFile is the static library name produced for the library target.
func (p *Pipeline) LibraryFile() string {
	return "lib" + p.Build.LibraryTarget + ".a"
}

// StageDir is where packaged artifacts are assembled before archiving.
func (p *Pipeline) StageDir() string {
	return filepath.Join(p.OutputDir, p.Build.Library)
}

// ArchivePath is the zip produced by packaging.
func (p *Pipeline) ArchivePath() string {
	return filepath.Join(p.OutputDir, p.Build.Library+".zip")
}

// packageLibrary stages headers and the built library, then zips the stage.
// With merge set, every per-slice library found is combined with lipo;
// otherwise exactly one library must remain after matching the build type.
func (p *Pipeline) packageLibrary(ctx context.Context, merge bool) error {
	libs, err := p.findLibraries()
	if err != nil {
		return err
	}
	if len(libs) == 0 {
		return &ArtifactNotFoundError{Name: p.LibraryFile(), Dir: p.BuildDir}
	}
	libs = p.matchBuildType(libs)
	if !merge && len(libs) > 1 {
		return &AmbiguousArtifactError{Name: p.LibraryFile(), Candidates: libs}
	}

	stage := p.StageDir()
	if err := sh.Rm(stage); err != nil {
		return fmt.Errorf("clearing stage: %w", err)
	}
	if err := os.MkdirAll(stage, 0o755); err != nil {
		return fmt.Errorf("creating stage: %w", err)
	}
	if err := p.stageHeaders(stage); err != nil {
		return err
	}

	dest := filepath.Join(stage, p.LibraryFile())
	if merge && len(libs) > 1 {
		args := append([]string{"-create"}, libs...)
		args = append(args, "-output", dest)
		if _, err := p.run(ctx, p.Config.Tools.Lipo, args, nil); err != nil {
			return err
		}
	} else if err := sh.Copy(dest, libs[0]); err != nil {
		return fmt.Errorf("staging library: %w", err)
	}

	if p.Build.Version != "" {
		if err := os.WriteFile(filepath.Join(stage, "VERSION"), []byte(p.Build.Version+"\n"), 0o644); err != nil {
			return fmt.Errorf("writing version: %w", err)
		}
	}

	if err := zipDir(stage, p.ArchivePath()); err != nil {
		return fmt.Errorf("archiving %s: %w", stage, err)
	}
	vlog.Info("artifacts packaged", "archive", p.ArchivePath(), "libraries", len(libs))
	return nil
}

func (p *Pipeline) stageHeaders(stage string) error {
	if p.Config.Sources.IncludeDir == "" {
		return nil
	}
	src := filepath.Join(p.WorkDir, p.Config.Sources.IncludeDir)
	if !project.Exists(src) {
		vlog.Warn("no public headers to package", "dir", src)
		return nil
	}
	if err := os.CopyFS(filepath.Join(stage, "include"), os.DirFS(src)); err != nil {
		return fmt.Errorf("staging headers: %w", err)
	}
	return nil
}

// matchBuildType keeps the libraries built under a directory named for the
// current build type ("Release" or "Release-iphoneos"). When none match,
// libs is returned unchanged so single-config generators still work.
func (p *Pipeline) matchBuildType(libs []string) []string {
	want := string(p.BuildType)
	var matched []string
	for _, lib := range libs {
		rel, err := filepath.Rel(p.BuildDir, filepath.Dir(lib))
		if err != nil {
			continue
		}
		for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
			if part == want || strings.HasPrefix(part, want+"-") {
				matched = append(matched, lib)
				break
			}
		}
	}
	if len(matched) == 0 {
		return libs
	}
	return matched
}

// findLibraries lists every copy of the library under the build tree,
// ignoring the output directory, sorted by path.
func (p *Pipeline) findLibraries() ([]string, error) {
	name := p.LibraryFile()
	var libs []string
	err := filepath.WalkDir(p.BuildDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == p.OutputDir {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && d.Name() == name {
			libs = append(libs, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("searching for %s: %w", name, err)
	}
	sort.Strings(libs)
	return libs, nil
}

// zipDir archives srcDir into dest. Entry names keep srcDir's base name as
// their top-level directory. The zip writer buffers, so errors from closing
// it and the file are returned too.
func zipDir(srcDir, dest string) (err error) {
	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	w := zip.NewWriter(f)
	parent := filepath.Dir(srcDir)
	err = filepath.Walk(srcDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(parent, path)
		if err != nil {
			return err
		}
		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(rel)
		header.Method = zip.Deflate

		writer, err := w.CreateHeader(header)
		if err != nil {
			return err
		}
		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()
		_, err = io.Copy(writer, file)
		return err
	})
	if err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
