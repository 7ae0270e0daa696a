package project

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ScanOptions selects files under a project root.
type ScanOptions struct {
	// Dirs are walked relative to the root; missing ones are skipped.
	Dirs []string
	// IncludePatterns match against the base name (filepath.Match).
	IncludePatterns []string
	// ExcludePatterns drop any path containing one of them.
	ExcludePatterns []string
}

// Scan returns the matching files under root, relative to it, in walk order.
// Hidden directories are skipped.
func Scan(root string, opts ScanOptions) ([]string, error) {
	var files []string
	seen := map[string]bool{}

	for _, dir := range opts.Dirs {
		start := filepath.Join(root, dir)
		err := filepath.WalkDir(start, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == start && errors.Is(err, fs.ErrNotExist) {
					return filepath.SkipDir
				}
				return err
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != start && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if seen[rel] || excluded(rel, opts.ExcludePatterns) {
				return nil
			}
			if !Match(d.Name(), opts.IncludePatterns) {
				return nil
			}
			seen[rel] = true
			files = append(files, rel)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

// Match reports whether name matches any of the glob patterns.
func Match(name string, patterns []string) bool {
	for _, pat := range patterns {
		if ok, _ := filepath.Match(pat, name); ok {
			return true
		}
	}
	return false
}

func excluded(rel string, patterns []string) bool {
	slashed := "/" + filepath.ToSlash(rel)
	for _, pat := range patterns {
		if strings.Contains(slashed, pat) {
			return true
		}
	}
	return false
}

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
