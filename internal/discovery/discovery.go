// Package discovery finds the PHP sources of a project with include and
// ignore glob patterns.
package discovery

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// compiledPattern holds both the pattern string and compiled glob
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// FileDiscovery matches project-relative paths against glob patterns.
type FileDiscovery struct {
	rootDir         string
	includePatterns []compiledPattern
	ignorePatterns  []compiledPattern
}

// New compiles the patterns. Patterns use "/" as separator whatever the OS.
func New(rootDir string, includePatterns, ignorePatterns []string) (*FileDiscovery, error) {
	fd := &FileDiscovery{rootDir: rootDir}

	var err error
	if fd.includePatterns, err = compile(includePatterns); err != nil {
		return nil, err
	}
	if fd.ignorePatterns, err = compile(ignorePatterns); err != nil {
		return nil, err
	}
	return fd, nil
}

func compile(patterns []string) ([]compiledPattern, error) {
	var out []compiledPattern
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}
		out = append(out, compiledPattern{pattern: pattern, glob: g})
	}
	return out, nil
}

// DiscoverFiles walks the directory tree and returns matching files, sorted.
// Ignored directories are not descended into.
func (fd *FileDiscovery) DiscoverFiles() ([]string, error) {
	files := []string{}

	err := filepath.WalkDir(fd.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(fd.rootDir, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			if relPath != "." && fd.shouldIgnore(relPath) {
				return filepath.SkipDir
			}
			return nil
		}

		if fd.Matches(relPath) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", fd.rootDir, err)
	}

	sort.Strings(files)
	return files, nil
}

// Matches reports whether a project-relative path is included and not
// ignored. Absolute paths under the root are accepted too.
func (fd *FileDiscovery) Matches(path string) bool {
	if filepath.IsAbs(path) {
		rel, err := filepath.Rel(fd.rootDir, path)
		if err != nil || strings.HasPrefix(rel, "..") {
			return false
		}
		path = rel
	}
	path = filepath.ToSlash(path)
	return !fd.shouldIgnore(path) && matchesAnyPattern(path, fd.includePatterns)
}

// IgnoresDir reports whether a directory is excluded by the ignore
// patterns. Relative and absolute paths are accepted like in Matches.
func (fd *FileDiscovery) IgnoresDir(path string) bool {
	if filepath.IsAbs(path) {
		rel, err := filepath.Rel(fd.rootDir, path)
		if err != nil || strings.HasPrefix(rel, "..") {
			return true
		}
		path = rel
	}
	path = filepath.ToSlash(path)
	return path != "." && fd.shouldIgnore(path)
}

// shouldIgnore checks if a path matches any ignore pattern.
func (fd *FileDiscovery) shouldIgnore(relPath string) bool {
	if strings.HasPrefix(relPath, ".phpreflect/") || relPath == ".phpreflect" {
		return true
	}

	if matchesAnyPattern(relPath, fd.ignorePatterns) {
		return true
	}

	// "vendor" is ignored by "vendor/**"
	return matchesAnyPattern(relPath+"/**", fd.ignorePatterns)
}

// matchesAnyPattern checks if a path matches any of the given patterns.
func matchesAnyPattern(path string, patterns []compiledPattern) bool {
	for _, cp := range patterns {
		if cp.glob.Match(path) {
			return true
		}
	}

	// A root-level file also matches "**/" patterns: "**/*.php" matches
	// both "index.php" and "src/App.php".
	if !strings.Contains(path, "/") {
		for _, cp := range patterns {
			if simplified, ok := strings.CutPrefix(cp.pattern, "**/"); ok {
				if g, err := glob.Compile(simplified, '/'); err == nil && g.Match(path) {
					return true
				}
			}
		}
	}

	return false
}
