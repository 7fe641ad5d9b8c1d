package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/php-reflect/internal/analyzer"
	"github.com/mvp-joe/php-reflect/internal/graph"
	"github.com/mvp-joe/php-reflect/internal/storage"
)

// Test Plan for CLI commands:
// - loadProject resolves the root, loads config and applies --frontend
// - loadProject rejects a missing root and an unknown front end
// - printModels prints selected models and fails on unknown names
// - printPackageGraph lists packages dependencies first and reports cycles
// - printHierarchy prints the parent chain and implementors
// - printPackage prints dependencies and dependents of one package
// - exportSnapshot writes a run, prunes, and listRuns shows it
// - listEdges prints stored edges of the latest run, filtered by type
// - version prints through the root command
//
// Tests share viper's global state and do not run in parallel.

var projectFiles = map[string]string{
	"src/Core/Base.php": `<?php
namespace App\Core;

abstract class Base {}

interface Runnable
{
    public function run();
}
`,
	"src/Kernel.php": `<?php
namespace App;

use App\Core\Base;

/**
 * Application kernel.
 */
class Kernel extends Base implements Core\Runnable
{
    public function run()
    {
        return helper();
    }
}

function helper() {}
`,
}

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

func quiet(t *testing.T) {
	t.Helper()
	viper.Set("quiet", true)
	t.Cleanup(func() { viper.Set("quiet", false) })
}

func analyzeProject(t *testing.T, root string) (*project, *analyzer.Result) {
	t.Helper()
	quiet(t)
	p, err := loadProject([]string{root})
	require.NoError(t, err)
	result, err := p.analyze(context.Background(), &bytes.Buffer{})
	require.NoError(t, err)
	return p, result
}

func TestLoadProject(t *testing.T) {
	root := writeProject(t, projectFiles)

	p, err := loadProject([]string{root})
	require.NoError(t, err)
	assert.Equal(t, "tokens", p.cfg.Analysis.Frontend)
	assert.Equal(t, filepath.Join(root, ".phpreflect", "reflect.db"), p.databasePath())

	viper.Set("frontend", "AST")
	t.Cleanup(func() { viper.Set("frontend", "") })
	p, err = loadProject([]string{root})
	require.NoError(t, err)
	assert.Equal(t, "ast", p.cfg.Analysis.Frontend)
}

func TestLoadProject_Errors(t *testing.T) {
	_, err := loadProject([]string{filepath.Join(t.TempDir(), "missing")})
	assert.ErrorContains(t, err, "not a directory")

	viper.Set("frontend", "bytecode")
	t.Cleanup(func() { viper.Set("frontend", "") })
	_, err = loadProject([]string{t.TempDir()})
	assert.ErrorContains(t, err, "invalid --frontend")
}

func TestPrintModels(t *testing.T) {
	_, result := analyzeProject(t, writeProject(t, projectFiles))

	var out bytes.Buffer
	require.NoError(t, printModels(&out, result.Registry, selection{class: `\App\Kernel`}))
	assert.Contains(t, out.String(), "Application kernel.")
	assert.Contains(t, out.String(), `App\Kernel`)

	out.Reset()
	require.NoError(t, printModels(&out, result.Registry, selection{all: true}))
	text := out.String()
	assert.Contains(t, text, `Package [ App\Core ]`)
	assert.Less(t, strings.Index(text, `App\Core\Runnable`), strings.Index(text, `Class [ <user> class App\Kernel`))

	assert.ErrorContains(t, printModels(&out, result.Registry, selection{function: "nope"}), `function "nope" not found`)
	assert.ErrorContains(t, printModels(&out, result.Registry, selection{pkg: "Nope"}), `package "Nope" not found`)
}

func TestPrintPackageGraph(t *testing.T) {
	_, result := analyzeProject(t, writeProject(t, projectFiles))
	g, err := graph.Build(result.Registry)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, printPackageGraph(&out, g))
	text := out.String()
	assert.Contains(t, text, "App -> App\\Core\n")
	assert.Less(t, strings.Index(text, "App\\Core\n"), strings.Index(text, "App -> "))
	assert.NotContains(t, text, "Cycles")
}

func TestPrintPackageGraph_Cycles(t *testing.T) {
	root := writeProject(t, map[string]string{
		"a.php": "<?php\nnamespace A;\nuse B\\Y;\nclass X {}\n",
		"b.php": "<?php\nnamespace B;\nuse A\\X;\nclass Y {}\n",
	})
	_, result := analyzeProject(t, root)
	g, err := graph.Build(result.Registry)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, printPackageGraph(&out, g))
	assert.Contains(t, out.String(), "Cycles [1]:\n  A <-> B\n")
}

func TestPrintHierarchy(t *testing.T) {
	_, result := analyzeProject(t, writeProject(t, projectFiles))
	g, err := graph.Build(result.Registry)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, printHierarchy(&out, g, `App\Kernel`))
	assert.Equal(t, "App\\Kernel extends App\\Core\\Base\n", out.String())

	out.Reset()
	require.NoError(t, printHierarchy(&out, g, `App\Core\Runnable`))
	assert.Contains(t, out.String(), "Implemented by [1]:\n  App\\Kernel\n")

	assert.Error(t, printHierarchy(&out, g, "Missing"))
}

func TestPrintPackage(t *testing.T) {
	_, result := analyzeProject(t, writeProject(t, projectFiles))
	g, err := graph.Build(result.Registry)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, printPackage(&out, g, `App\Core`))
	assert.Equal(t, "App\\Core\nDepends on [0]:\nUsed by [1]:\n  App\n", out.String())

	assert.ErrorContains(t, printPackage(&out, g, `App\Kernel`), "not found")
}

func TestExportSnapshot(t *testing.T) {
	p, result := analyzeProject(t, writeProject(t, projectFiles))

	w, err := storage.Open(p.databasePath())
	require.NoError(t, err)
	defer w.Close()

	var out bytes.Buffer
	require.NoError(t, exportSnapshot(&out, w, p, result, 0))
	require.NoError(t, exportSnapshot(&out, w, p, result, 1))
	assert.Contains(t, out.String(), "✓ Exported run")
	assert.Contains(t, out.String(), "Pruned 1 old run(s)")

	out.Reset()
	require.NoError(t, listRuns(&out, storage.NewReader(w.DB())))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "tokens")
	assert.Contains(t, lines[0], p.rootDir)
	assert.True(t, strings.HasPrefix(lines[2], "Latest run: 3 classes, 1 functions"))
}

func TestListEdges(t *testing.T) {
	p, result := analyzeProject(t, writeProject(t, projectFiles))

	w, err := storage.Open(p.databasePath())
	require.NoError(t, err)
	defer w.Close()
	r := storage.NewReader(w.DB())

	var out bytes.Buffer
	require.NoError(t, listEdges(&out, r, "extends"))
	assert.Equal(t, "No runs stored\n", out.String())

	require.NoError(t, exportSnapshot(&bytes.Buffer{}, w, p, result, 0))

	out.Reset()
	require.NoError(t, listEdges(&out, r, "extends"))
	assert.Contains(t, out.String(), `App\Kernel -[extends]-> App\Core\Base`)
	assert.NotContains(t, out.String(), "-[implements]->")
	assert.Contains(t, out.String(), "1 edge(s) in run ")

	out.Reset()
	require.NoError(t, listEdges(&out, r, "all"))
	assert.Contains(t, out.String(), `App\Kernel -[implements]-> App\Core\Runnable`)

	assert.ErrorContains(t, listEdges(&out, r, "calls"), `unknown edge type "calls"`)
}

func TestListRuns_Empty(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, listRuns(&out, storage.NewReader(storage.NewTestDB(t))))
	assert.Equal(t, "No runs stored\n", out.String())
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "phpreflect dev")
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "999", formatNumber(999))
	assert.Equal(t, "1,234", formatNumber(1234))
	assert.Equal(t, "1,234,567", formatNumber(1234567))
}
