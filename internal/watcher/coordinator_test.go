package watcher

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/php-reflect/internal/analyzer"
)

// Test Plan for Coordinator:
// - A batch of changes pauses the watcher, runs one analysis, then resumes
// - Results are handed to the callback
// - Analysis failures are logged and do not reach the callback
// - Empty batches are ignored
// - A file watcher start failure is returned and the watcher is stopped
// - Cancelling the context stops the watcher and returns

// mockFileWatcher implements FileWatcher for testing.
type mockFileWatcher struct {
	mu          sync.Mutex
	startErr    error
	callback    func(files []string)
	pauseCount  int
	resumeCount int
	stopCalled  bool
	started     chan struct{}
}

func newMockFileWatcher() *mockFileWatcher {
	return &mockFileWatcher{started: make(chan struct{})}
}

func (m *mockFileWatcher) Start(ctx context.Context, callback func(files []string)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.startErr != nil {
		return m.startErr
	}
	m.callback = callback
	close(m.started)
	return nil
}

func (m *mockFileWatcher) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopCalled = true
	return nil
}

func (m *mockFileWatcher) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pauseCount++
}

func (m *mockFileWatcher) Resume() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resumeCount++
}

func (m *mockFileWatcher) trigger(files []string) {
	m.mu.Lock()
	callback := m.callback
	m.mu.Unlock()
	callback(files)
}

// mockRunner implements Runner for testing.
type mockRunner struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (m *mockRunner) Run(ctx context.Context) (*analyzer.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &analyzer.Result{Stats: analyzer.Stats{FilesAnalyzed: 3}}, nil
}

// startCoordinator runs Start in the background and waits for the watcher.
func startCoordinator(t *testing.T, c *Coordinator, files *mockFileWatcher) (context.CancelFunc, chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Start(ctx) }()

	select {
	case <-files.started:
	case <-time.After(time.Second):
		t.Fatal("file watcher not started")
	}
	return cancel, done
}

func TestCoordinator_RunsAnalysisOnChange(t *testing.T) {
	t.Parallel()

	files := newMockFileWatcher()
	runner := &mockRunner{}
	var results []*analyzer.Result
	c := NewCoordinator(files, runner, func(r *analyzer.Result) { results = append(results, r) })

	cancel, done := startCoordinator(t, c, files)
	defer cancel()

	files.trigger([]string{"/p/a.php", "/p/b.php"})
	files.trigger(nil)

	assert.Equal(t, 1, runner.calls)
	require.Len(t, results, 1)
	assert.Equal(t, 3, results[0].Stats.FilesAnalyzed)
	assert.Equal(t, 1, files.pauseCount)
	assert.Equal(t, 1, files.resumeCount)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.True(t, files.stopCalled)
}

func TestCoordinator_AnalysisFailure(t *testing.T) {
	t.Parallel()

	files := newMockFileWatcher()
	runner := &mockRunner{err: errors.New("boom")}
	called := false
	c := NewCoordinator(files, runner, func(*analyzer.Result) { called = true })

	cancel, _ := startCoordinator(t, c, files)
	defer cancel()

	files.trigger([]string{"/p/a.php"})

	assert.Equal(t, 1, runner.calls)
	assert.False(t, called)
	assert.Equal(t, 1, files.resumeCount)
}

func TestCoordinator_StartFailure(t *testing.T) {
	t.Parallel()

	files := newMockFileWatcher()
	files.startErr = errors.New("cannot watch")
	c := NewCoordinator(files, &mockRunner{}, nil)

	err := c.Start(context.Background())
	assert.EqualError(t, err, "cannot watch")
	assert.True(t, files.stopCalled)
}
