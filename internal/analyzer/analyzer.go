// Package analyzer runs one of the two front ends over the PHP files of a
// project and collects every declaration in a single model registry.
package analyzer

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mvp-joe/php-reflect/internal/builder"
	"github.com/mvp-joe/php-reflect/internal/config"
	"github.com/mvp-joe/php-reflect/internal/discovery"
	"github.com/mvp-joe/php-reflect/internal/lexer"
	"github.com/mvp-joe/php-reflect/internal/model"
	"github.com/mvp-joe/php-reflect/internal/scanner"
)

// FileResult describes what happened to one file during a run.
type FileResult struct {
	Path    string // relative to the project root, slash separated
	Hash    string // hex SHA-256 of the content
	Size    int64
	Skipped bool // larger than the configured limit
	Err     error
}

// Stats summarizes a run.
type Stats struct {
	FilesDiscovered int
	FilesAnalyzed   int
	FilesSkipped    int
	FilesFailed     int
	CacheHits       int64
	Duration        time.Duration
	Model           model.Stats
}

// Result is the outcome of a run. Registry is the analyzer's own registry
// and must not be used while another run is in progress.
type Result struct {
	Registry *model.Registry
	Files    []FileResult
	Stats    Stats
}

// Analyzer owns a registry and fills it from the files of a project.
// Runs are serialized.
type Analyzer struct {
	mu        sync.Mutex
	rootDir   string
	frontend  string
	maxSize   int64
	discovery *discovery.FileDiscovery
	reg       *model.Registry
	parser    *scanner.Parser
	builder   *builder.Builder
	tokens    *tokenCache
	progress  ProgressReporter
}

// New creates an Analyzer for rootDir. A nil progress reports nothing.
func New(rootDir string, cfg *config.Config, progress ProgressReporter) (*Analyzer, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if progress == nil {
		progress = &NoOpProgressReporter{}
	}

	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root directory: %w", err)
	}
	fd, err := discovery.New(absRoot, cfg.Paths.Include, cfg.Paths.Ignore)
	if err != nil {
		return nil, fmt.Errorf("failed to create file discovery: %w", err)
	}
	tokens, err := newTokenCache(cfg.Analysis.CacheSize)
	if err != nil {
		return nil, err
	}

	reg := model.NewRegistry()
	return &Analyzer{
		rootDir:   absRoot,
		frontend:  cfg.Analysis.Frontend,
		maxSize:   int64(cfg.Analysis.MaxFileSizeKB) * 1024,
		discovery: fd,
		reg:       reg,
		parser:    scanner.NewParser(reg),
		builder:   builder.New(reg),
		tokens:    tokens,
		progress:  progress,
	}, nil
}

// RootDir returns the absolute project root.
func (a *Analyzer) RootDir() string { return a.rootDir }

// Frontend returns the configured front end name.
func (a *Analyzer) Frontend() string { return a.frontend }

// Discovery returns the file matcher used by runs.
func (a *Analyzer) Discovery() *discovery.FileDiscovery { return a.discovery }

// Registry returns the registry runs fill.
func (a *Analyzer) Registry() *model.Registry { return a.reg }

// Close releases the token cache.
func (a *Analyzer) Close() {
	a.tokens.close()
}

// Run resets the registry and analyzes every discovered file.
func (a *Analyzer) Run(ctx context.Context) (*Result, error) {
	files, err := a.discovery.DiscoverFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to discover files: %w", err)
	}
	return a.AnalyzeFiles(ctx, files)
}

// AnalyzeFiles resets the registry and analyzes the given files in order.
// Per-file failures are logged and recorded in the result; only a
// cancelled context aborts the run.
func (a *Analyzer) AnalyzeFiles(ctx context.Context, files []string) (*Result, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	start := time.Now()
	hitsBefore := a.tokens.hits()
	a.reg.Reset()
	a.progress.OnDiscoveryComplete(len(files))

	result := &Result{Registry: a.reg, Files: make([]FileResult, 0, len(files))}
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fr := a.analyzeFile(path)
		switch {
		case fr.Err != nil:
			log.Printf("Warning: failed to analyze %s: %v\n", fr.Path, fr.Err)
			result.Stats.FilesFailed++
		case fr.Skipped:
			log.Printf("Warning: skipping %s (%d KB exceeds the %d KB limit)\n", fr.Path, fr.Size/1024, a.maxSize/1024)
			result.Stats.FilesSkipped++
		default:
			result.Stats.FilesAnalyzed++
		}
		result.Files = append(result.Files, fr)
		a.progress.OnFileAnalyzed(fr.Path)
	}

	result.Stats.FilesDiscovered = len(files)
	result.Stats.CacheHits = a.tokens.hits() - hitsBefore
	result.Stats.Duration = time.Since(start)
	result.Stats.Model = a.reg.Stats()
	a.progress.OnComplete(&result.Stats)
	return result, nil
}

func (a *Analyzer) analyzeFile(path string) FileResult {
	if !filepath.IsAbs(path) {
		path = filepath.Join(a.rootDir, path)
	}
	fr := FileResult{Path: a.relPath(path)}

	info, err := os.Stat(path)
	if err != nil {
		fr.Err = fmt.Errorf("failed to stat file: %w", err)
		return fr
	}
	fr.Size = info.Size()
	if a.maxSize > 0 && fr.Size > a.maxSize {
		fr.Skipped = true
		return fr
	}

	src, err := os.ReadFile(path)
	if err != nil {
		fr.Err = fmt.Errorf("failed to read file: %w", err)
		return fr
	}
	fr.Hash = contentHash(src)
	fr.Err = a.analyzeSource(fr.Path, fr.Hash, src)
	return fr
}

func (a *Analyzer) analyzeSource(file, hash string, src []byte) error {
	if a.frontend == config.FrontendAST {
		return a.builder.Build(file, src)
	}

	toks, ok := a.tokens.get(hash)
	if !ok {
		var err error
		if toks, err = lexer.Tokenize(src); err != nil {
			return fmt.Errorf("failed to tokenize: %w", err)
		}
		a.tokens.set(hash, toks)
	}
	return a.parser.Parse(file, toks)
}

// relPath returns path relative to the root with "/" separators, or path
// unchanged when it lies outside the root.
func (a *Analyzer) relPath(path string) string {
	rel, err := filepath.Rel(a.rootDir, path)
	if err != nil || filepath.IsAbs(rel) || len(rel) >= 2 && rel[:2] == ".." {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
