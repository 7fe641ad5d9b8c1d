package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for FileDiscovery:
// - Root-level and nested files match "**/" patterns
// - Ignored directories are skipped entirely
// - .phpreflect is always ignored
// - Results are sorted
// - Matches accepts relative and absolute paths; paths outside root never match
// - IgnoresDir reports ignored directories, never the root
// - Invalid patterns are rejected at construction

func touch(t *testing.T, root string, rel ...string) {
	t.Helper()
	for _, r := range rel {
		path := filepath.Join(root, filepath.FromSlash(r))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("<?php\n"), 0644))
	}
}

func TestDiscoverFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	touch(t, root,
		"index.php",
		"src/App/Kernel.php",
		"src/App/view.phtml",
		"src/readme.md",
		"vendor/lib/Lib.php",
		".phpreflect/cache.php",
	)

	fd, err := New(root, []string{"**/*.php", "**/*.phtml"}, []string{"vendor/**"})
	require.NoError(t, err)

	files, err := fd.DiscoverFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "index.php"),
		filepath.Join(root, "src", "App", "Kernel.php"),
		filepath.Join(root, "src", "App", "view.phtml"),
	}, files)
}

func TestMatches(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	fd, err := New(root, []string{"**/*.php"}, []string{"tests/**", "*.tmp.php"})
	require.NoError(t, err)

	tests := []struct {
		path string
		want bool
	}{
		{"a.php", true},
		{"src/a.php", true},
		{"src/a.inc", false},
		{"tests/FooTest.php", false},
		{"x.tmp.php", false},
		{filepath.Join(root, "src", "b.php"), true},
		{filepath.Join(filepath.Dir(root), "other.php"), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, fd.Matches(tt.path), tt.path)
	}
}

func TestNew_InvalidPattern(t *testing.T) {
	t.Parallel()

	_, err := New(".", []string{"src/[a-"}, nil)
	assert.Error(t, err)
}

func TestIgnoresDir(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	fd, err := New(root, []string{"**/*.php"}, []string{"vendor/**", "cache/**"})
	require.NoError(t, err)

	assert.True(t, fd.IgnoresDir("vendor"))
	assert.True(t, fd.IgnoresDir(filepath.Join(root, "cache")))
	assert.True(t, fd.IgnoresDir(".phpreflect"))
	assert.False(t, fd.IgnoresDir("src"))
	assert.False(t, fd.IgnoresDir(root))
	assert.True(t, fd.IgnoresDir(filepath.Dir(root)))
}
