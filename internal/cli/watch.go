package cli

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/php-reflect/internal/analyzer"
	"github.com/mvp-joe/php-reflect/internal/storage"
	"github.com/mvp-joe/php-reflect/internal/watcher"
)

var exportOnChangeFlag bool

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Re-analyze a PHP project whenever its files change",
	Long: `Watch analyzes the project once, then watches it and runs a new analysis
after every batch of changes (debounced by watch.debounce_ms). Unchanged
files are served from the token cache.

Examples:
  phpreflect watch

  # Export a snapshot after every analysis
  phpreflect watch --export
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().BoolVar(&exportOnChangeFlag, "export", false, "export a snapshot after every analysis")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	p, err := loadProject(args)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	a, err := p.newAnalyzer(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	var w *storage.Writer
	if exportOnChangeFlag {
		if w, err = storage.Open(p.databasePath()); err != nil {
			return err
		}
		defer w.Close()
	}
	onResult := func(result *analyzer.Result) {
		if w == nil {
			return
		}
		if err := exportSnapshot(out, w, p, result, 0); err != nil {
			log.Printf("Warning: %v", err)
		}
	}

	log.Println("Performing initial analysis...")
	result, err := a.Run(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("initial analysis failed: %w", err)
	}
	onResult(result)

	fw, err := watcher.NewFileWatcher(a.RootDir(), a.Discovery(), time.Duration(p.cfg.Watch.DebounceMS)*time.Millisecond)
	if err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}

	log.Printf("Watching %s (Ctrl+C to stop)", a.RootDir())
	coordinator := watcher.NewCoordinator(fw, a, onResult)
	if err := coordinator.Start(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("watch mode failed: %w", err)
	}

	log.Println("Watch mode stopped")
	return nil
}
