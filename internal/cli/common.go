package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/viper"

	"github.com/mvp-joe/php-reflect/internal/analyzer"
	"github.com/mvp-joe/php-reflect/internal/config"
	"github.com/mvp-joe/php-reflect/internal/graph"
	"github.com/mvp-joe/php-reflect/internal/storage"
)

// project is an analyzed root with the configuration it was loaded with.
type project struct {
	rootDir string
	cfg     *config.Config
}

// loadProject resolves the root directory from the optional first argument
// and loads its configuration. The --config and --frontend flags win over
// the file and environment.
func loadProject(args []string) (*project, error) {
	rootDir := "."
	if len(args) > 0 {
		rootDir = args[0]
	}
	rootDir, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root directory: %w", err)
	}
	if info, err := os.Stat(rootDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", rootDir)
	}

	var cfg *config.Config
	if file := viper.GetString("config"); file != "" {
		cfg, err = config.NewFileLoader(rootDir, file).Load()
	} else {
		cfg, err = config.LoadConfigFromDir(rootDir)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if frontend := viper.GetString("frontend"); frontend != "" {
		cfg.Analysis.Frontend = strings.ToLower(frontend)
		if err := config.Validate(cfg); err != nil {
			return nil, fmt.Errorf("invalid --frontend: %w", err)
		}
	}
	return &project{rootDir: rootDir, cfg: cfg}, nil
}

// databasePath returns the snapshot database path, relative paths being
// taken from the project root.
func (p *project) databasePath() string {
	if filepath.IsAbs(p.cfg.Storage.Database) {
		return p.cfg.Storage.Database
	}
	return filepath.Join(p.rootDir, p.cfg.Storage.Database)
}

// newAnalyzer creates an analyzer reporting progress to out.
func (p *project) newAnalyzer(out io.Writer) (*analyzer.Analyzer, error) {
	return analyzer.New(p.rootDir, p.cfg, NewCLIProgressReporter(out, viper.GetBool("quiet")))
}

// analyze runs one full analysis of the project.
func (p *project) analyze(ctx context.Context, out io.Writer) (*analyzer.Result, error) {
	a, err := p.newAnalyzer(out)
	if err != nil {
		return nil, err
	}
	defer a.Close()

	result, err := a.Run(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("analysis cancelled")
		}
		return nil, fmt.Errorf("analysis failed: %w", err)
	}
	return result, nil
}

// snapshot converts an analysis result into what storage writes.
func (p *project) snapshot(result *analyzer.Result) *storage.Snapshot {
	files := make([]storage.FileRecord, 0, len(result.Files))
	for _, f := range result.Files {
		rec := storage.FileRecord{Path: f.Path, Hash: f.Hash, Size: f.Size}
		switch {
		case f.Err != nil:
			rec.Error = f.Err.Error()
		case f.Skipped:
			rec.Error = "skipped: file too large"
		}
		files = append(files, rec)
	}
	return &storage.Snapshot{
		RootDir:  p.rootDir,
		Frontend: p.cfg.Analysis.Frontend,
		Files:    files,
		Registry: result.Registry,
		Graph:    graph.FromRegistry(result.Registry),
	}
}

// signalContext returns a context cancelled on Ctrl+C or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
