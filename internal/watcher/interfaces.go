package watcher

import (
	"context"

	"github.com/mvp-joe/php-reflect/internal/analyzer"
)

// FileWatcher monitors source files for changes with debouncing and pause/resume support.
type FileWatcher interface {
	// Start begins watching the project, calling callback with debounced file changes.
	Start(ctx context.Context, callback func(files []string)) error

	// Stop stops the file watcher and cleans up resources.
	Stop() error

	// Pause stops firing callbacks but continues accumulating events.
	Pause()

	// Resume resumes firing callbacks. If events accumulated during pause, fires immediately.
	Resume()
}

// Matcher decides which paths are watched. *discovery.FileDiscovery
// implements it.
type Matcher interface {
	Matches(path string) bool
	IgnoresDir(path string) bool
}

// Runner re-analyzes the project. *analyzer.Analyzer implements it.
type Runner interface {
	Run(ctx context.Context) (*analyzer.Result, error)
}
