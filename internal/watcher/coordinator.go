package watcher

import (
	"context"
	"log"

	"github.com/mvp-joe/php-reflect/internal/analyzer"
)

// Coordinator re-runs the analysis whenever the file watcher reports a
// batch of changes and hands every successful result to a callback.
type Coordinator struct {
	files    FileWatcher
	runner   Runner
	onResult func(*analyzer.Result)
}

// NewCoordinator creates a new coordinator. onResult may be nil.
func NewCoordinator(files FileWatcher, runner Runner, onResult func(*analyzer.Result)) *Coordinator {
	return &Coordinator{
		files:    files,
		runner:   runner,
		onResult: onResult,
	}
}

// Start begins watching and blocks until ctx is cancelled or the file
// watcher fails to start.
func (c *Coordinator) Start(ctx context.Context) error {
	if err := c.files.Start(ctx, func(files []string) { c.handleFileChange(ctx, files) }); err != nil {
		c.cleanup()
		return err
	}

	<-ctx.Done()
	c.cleanup()
	return ctx.Err()
}

func (c *Coordinator) cleanup() {
	if err := c.files.Stop(); err != nil {
		log.Printf("Warning: file watcher stop failed: %v", err)
	}
}

// handleFileChange runs one analysis for a batch of changes. Changes that
// arrive while it runs are accumulated and delivered on resume.
func (c *Coordinator) handleFileChange(ctx context.Context, files []string) {
	if len(files) == 0 {
		return
	}

	c.files.Pause()
	defer c.files.Resume()

	log.Printf("Processing %d file change(s)...", len(files))

	result, err := c.runner.Run(ctx)
	if err != nil {
		log.Printf("Error: analysis failed: %v", err)
		return
	}

	log.Printf("✓ Analyzed %d file(s) (%d classes, %d functions)",
		result.Stats.FilesAnalyzed, result.Stats.Model.Classes, result.Stats.Model.Functions)

	if c.onResult != nil {
		c.onResult(result)
	}
}
