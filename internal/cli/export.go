package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/php-reflect/internal/analyzer"
	"github.com/mvp-joe/php-reflect/internal/graph"
	"github.com/mvp-joe/php-reflect/internal/storage"
)

var (
	keepFlag  int
	listFlag  bool
	edgesFlag string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export [dir]",
	Short: "Analyze a PHP project and export the model to SQLite",
	Long: `Export analyzes the project and writes the model, the analyzed files and
the dependency graph to the SQLite database configured under storage.database
(.phpreflect/reflect.db by default). Every export is a new run.

Examples:
  # Export and keep only the five most recent runs
  phpreflect export --keep 5

  # List the runs stored so far
  phpreflect export --list

  # Print the stored extends edges of the latest run
  phpreflect export --edges extends
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().IntVar(&keepFlag, "keep", 0, "delete all but the N most recent runs after exporting (0 keeps all)")
	exportCmd.Flags().BoolVar(&listFlag, "list", false, "list stored runs instead of exporting")
	exportCmd.Flags().StringVar(&edgesFlag, "edges", "", "print stored edges of the latest run (extends, implements, imports, depends or all)")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	p, err := loadProject(args)
	if err != nil {
		return err
	}

	w, err := storage.Open(p.databasePath())
	if err != nil {
		return err
	}
	defer w.Close()

	out := cmd.OutOrStdout()
	if listFlag {
		return listRuns(out, storage.NewReader(w.DB()))
	}
	if edgesFlag != "" {
		return listEdges(out, storage.NewReader(w.DB()), edgesFlag)
	}

	result, err := p.analyze(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	return exportSnapshot(out, w, p, result, keepFlag)
}

// exportSnapshot writes one run, prunes old runs when keep > 0 and prints
// what was stored.
func exportSnapshot(out io.Writer, w *storage.Writer, p *project, result *analyzer.Result, keep int) error {
	runID, err := w.WriteSnapshot(p.snapshot(result))
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	counts, err := storage.NewReader(w.DB()).Counts(runID)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "✓ Exported run %s to %s\n", runID, p.databasePath())
	fmt.Fprintf(out, "  Files: %s, classes: %s, methods: %s, functions: %s, edges: %s\n",
		formatNumber(counts["files"]), formatNumber(counts["classes"]), formatNumber(counts["methods"]),
		formatNumber(counts["functions"]), formatNumber(counts["edges"]))

	if keep > 0 {
		pruned, err := w.Prune(keep)
		if err != nil {
			return err
		}
		if pruned > 0 {
			fmt.Fprintf(out, "  Pruned %d old run(s)\n", pruned)
		}
	}
	return nil
}

// listRuns prints the stored runs, newest first.
func listRuns(out io.Writer, r *storage.Reader) error {
	runs, err := r.Runs()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs stored")
		return nil
	}
	for _, run := range runs {
		fmt.Fprintf(out, "%s  %s  %-6s  %s files  %s\n",
			run.ID, run.CreatedAt.Local().Format("2006-01-02 15:04:05"), run.Frontend,
			formatNumber(run.FileCount), run.RootDir)
	}

	latest, err := r.LatestRun()
	if err != nil {
		return err
	}
	counts, err := r.Counts(latest.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\nLatest run: %s classes, %s functions, %s dependencies, %s edges\n",
		formatNumber(counts["classes"]), formatNumber(counts["functions"]),
		formatNumber(counts["dependencies"]), formatNumber(counts["edges"]))
	return nil
}

// edgeTypes are the values accepted by --edges.
var edgeTypes = map[string]graph.EdgeType{
	"all":        "",
	"extends":    graph.EdgeExtends,
	"implements": graph.EdgeImplements,
	"imports":    graph.EdgeImports,
	"depends":    graph.EdgeDepends,
}

// listEdges prints the stored edges of the latest run.
func listEdges(out io.Writer, r *storage.Reader, typ string) error {
	edgeType, ok := edgeTypes[typ]
	if !ok {
		return fmt.Errorf("unknown edge type %q", typ)
	}

	latest, err := r.LatestRun()
	if errors.Is(err, storage.ErrNoRuns) {
		fmt.Fprintln(out, "No runs stored")
		return nil
	}
	if err != nil {
		return err
	}

	edges, err := r.Edges(latest.ID, edgeType)
	if err != nil {
		return err
	}
	for _, e := range edges {
		fmt.Fprintf(out, "%s -[%s]-> %s", e.From, e.Type, e.To)
		if e.Location != nil {
			fmt.Fprintf(out, "  (%s:%d)", e.Location.File, e.Location.Line)
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "%d edge(s) in run %s\n", len(edges), latest.ID)
	return nil
}
