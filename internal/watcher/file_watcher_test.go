package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/php-reflect/internal/discovery"
)

// Test Plan for FileWatcher:
// - NewFileWatcher fails for a missing root
// - A single file change fires the callback after debounce
// - Rapid changes to several files are batched and deduplicated
// - Pause accumulates events; Resume fires them immediately
// - Files not matching the include patterns are filtered out
// - Ignored directories are not watched; new directories are
// - Deleting a watched file is reported
// - Stop is idempotent and safe to call concurrently

const testDebounce = 100 * time.Millisecond

func newTestWatcher(t *testing.T, root string) FileWatcher {
	t.Helper()
	fd, err := discovery.New(root, []string{"**/*.php"}, []string{"vendor/**"})
	require.NoError(t, err)
	w, err := NewFileWatcher(root, fd, testDebounce)
	require.NoError(t, err)
	t.Cleanup(func() { w.Stop() })
	return w
}

// collector records callback batches.
type collector struct {
	mu      sync.Mutex
	batches [][]string
	calls   chan struct{}
}

func newCollector() *collector {
	return &collector{calls: make(chan struct{}, 10)}
}

func (c *collector) callback(files []string) {
	c.mu.Lock()
	c.batches = append(c.batches, files)
	c.mu.Unlock()
	c.calls <- struct{}{}
}

func (c *collector) wait(t *testing.T) []string {
	t.Helper()
	select {
	case <-c.calls:
	case <-time.After(2 * time.Second):
		t.Fatal("Callback not called after timeout")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.batches[len(c.batches)-1]
}

func (c *collector) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.batches)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestNewFileWatcher_InvalidDirectory(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "nonexistent")
	fd, err := discovery.New(root, []string{"**/*.php"}, nil)
	require.NoError(t, err)

	w, err := NewFileWatcher(root, fd, 0)
	assert.Error(t, err)
	assert.Nil(t, w)
}

func TestFileWatcher_SingleFileChange(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	w := newTestWatcher(t, root)
	c := newCollector()
	require.NoError(t, w.Start(context.Background(), c.callback))
	time.Sleep(50 * time.Millisecond)

	file := filepath.Join(root, "index.php")
	writeFile(t, file, "<?php\n")

	assert.Equal(t, []string{file}, c.wait(t))
}

func TestFileWatcher_BatchesAndDeduplicates(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	w := newTestWatcher(t, root)
	c := newCollector()
	require.NoError(t, w.Start(context.Background(), c.callback))
	time.Sleep(50 * time.Millisecond)

	a := filepath.Join(root, "a.php")
	b := filepath.Join(root, "b.php")
	writeFile(t, a, "<?php // v1\n")
	time.Sleep(20 * time.Millisecond)
	writeFile(t, b, "<?php\n")
	time.Sleep(20 * time.Millisecond)
	writeFile(t, a, "<?php // v2\n")

	assert.Equal(t, []string{a, b}, c.wait(t))

	time.Sleep(3 * testDebounce)
	assert.Equal(t, 1, c.count())
}

func TestFileWatcher_PauseResume(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	w := newTestWatcher(t, root)
	c := newCollector()
	require.NoError(t, w.Start(context.Background(), c.callback))
	time.Sleep(50 * time.Millisecond)

	w.Pause()
	file := filepath.Join(root, "paused.php")
	writeFile(t, file, "<?php\n")

	time.Sleep(3 * testDebounce)
	assert.Zero(t, c.count())

	w.Resume()
	assert.Equal(t, []string{file}, c.wait(t))
}

func TestFileWatcher_Filtering(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "vendor", "lib"), 0755))
	w := newTestWatcher(t, root)
	c := newCollector()
	require.NoError(t, w.Start(context.Background(), c.callback))
	time.Sleep(50 * time.Millisecond)

	writeFile(t, filepath.Join(root, "notes.md"), "# notes\n")
	writeFile(t, filepath.Join(root, "vendor", "lib", "Lib.php"), "<?php\n")
	file := filepath.Join(root, "src", "App.php")
	require.NoError(t, os.MkdirAll(filepath.Dir(file), 0755))
	time.Sleep(50 * time.Millisecond)
	writeFile(t, file, "<?php\n")

	assert.Equal(t, []string{file}, c.wait(t))
}

func TestFileWatcher_FileDeleted(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	file := filepath.Join(root, "gone.php")
	writeFile(t, file, "<?php\n")

	w := newTestWatcher(t, root)
	c := newCollector()
	require.NoError(t, w.Start(context.Background(), c.callback))
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.Remove(file))
	assert.Equal(t, []string{file}, c.wait(t))
}

func TestFileWatcher_ConcurrentStop(t *testing.T) {
	t.Parallel()

	w := newTestWatcher(t, t.TempDir())
	require.NoError(t, w.Start(context.Background(), func([]string) {}))

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, w.Stop())
		}()
	}
	wg.Wait()
}

func TestFileWatcher_StopWithoutStart(t *testing.T) {
	t.Parallel()

	w := newTestWatcher(t, t.TempDir())
	assert.NoError(t, w.Stop())
}
