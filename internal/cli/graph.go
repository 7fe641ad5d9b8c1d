package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/php-reflect/internal/graph"
)

var (
	hierarchyFlag string
	packageFlag   string
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [dir]",
	Short: "Print the package dependency graph of a PHP project",
	Long: `Graph analyzes the project and prints every package with the packages it
depends on, dependencies first, followed by any dependency cycles.

Examples:
  phpreflect graph

  # Parent chain and implementors of one class or interface
  phpreflect graph --hierarchy 'App\Http\Controller'

  # What one package uses and what uses it
  phpreflect graph --package 'App\Http'
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGraph,
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringVar(&hierarchyFlag, "hierarchy", "", "print the hierarchy of one class or interface")
	graphCmd.Flags().StringVar(&packageFlag, "package", "", "print the dependencies and dependents of one package")
}

func runGraph(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	p, err := loadProject(args)
	if err != nil {
		return err
	}
	result, err := p.analyze(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	g, err := graph.Build(result.Registry)
	if err != nil {
		return err
	}
	if hierarchyFlag != "" {
		return printHierarchy(cmd.OutOrStdout(), g, strings.TrimPrefix(hierarchyFlag, `\`))
	}
	if packageFlag != "" {
		return printPackage(cmd.OutOrStdout(), g, strings.TrimPrefix(packageFlag, `\`))
	}
	return printPackageGraph(cmd.OutOrStdout(), g)
}

// printPackageGraph prints packages in dependency order, or by name when
// cycles prevent ordering, then the cycles.
func printPackageGraph(out io.Writer, g *graph.Graph) error {
	cycles, err := g.Cycles()
	if err != nil {
		return err
	}

	var order []string
	if len(cycles) == 0 {
		if order, err = g.Order(); err != nil {
			return err
		}
	} else {
		for _, n := range g.Data().Nodes {
			if n.Kind == graph.NodePackage {
				order = append(order, n.ID)
			}
		}
	}

	for _, pkg := range order {
		n, ok := g.Node(pkg)
		if !ok || n.Kind != graph.NodePackage {
			continue
		}
		deps := g.Dependencies(pkg)
		if len(deps) == 0 {
			fmt.Fprintf(out, "%s\n", pkg)
			continue
		}
		fmt.Fprintf(out, "%s -> %s\n", pkg, strings.Join(deps, ", "))
	}

	if len(cycles) > 0 {
		fmt.Fprintf(out, "\nCycles [%d]:\n", len(cycles))
		for _, c := range cycles {
			fmt.Fprintf(out, "  %s\n", strings.Join(c, " <-> "))
		}
	}
	return nil
}

// printHierarchy prints the parent chain and implementors of a type.
func printHierarchy(out io.Writer, g *graph.Graph, name string) error {
	if _, ok := g.Node(name); !ok {
		return fmt.Errorf("class %q not found", name)
	}
	ancestors, err := g.Ancestors(name)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, strings.Join(append([]string{name}, ancestors...), " extends "))
	if impl := g.Implementors(name); len(impl) > 0 {
		fmt.Fprintf(out, "Implemented by [%d]:\n", len(impl))
		for _, c := range impl {
			fmt.Fprintf(out, "  %s\n", c)
		}
	}
	return nil
}

// printPackage prints the packages one package depends on and the packages
// depending on it.
func printPackage(out io.Writer, g *graph.Graph, name string) error {
	n, ok := g.Node(name)
	if !ok || n.Kind != graph.NodePackage {
		return fmt.Errorf("package %q not found", name)
	}

	fmt.Fprintln(out, name)
	for _, section := range []struct {
		title string
		ids   []string
	}{
		{"Depends on", g.Dependencies(name)},
		{"Used by", g.Dependents(name)},
	} {
		fmt.Fprintf(out, "%s [%d]:\n", section.title, len(section.ids))
		for _, id := range section.ids {
			fmt.Fprintf(out, "  %s\n", id)
		}
	}
	return nil
}
