package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mvp-joe/php-reflect/internal/model"
)

var (
	classFlag    string
	functionFlag string
	packageFlag  string
	allFlag      bool
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [dir]",
	Short: "Analyze a PHP project and print its model",
	Long: `Analyze discovers the PHP files of a project (the current directory by
default), extracts every declaration and prints the result.

Without selection flags only a summary is printed.

Examples:
  # Summary of the current directory
  phpreflect analyze

  # One class, PHP Reflection style
  phpreflect analyze --class 'App\Kernel'

  # Everything, using the tree-sitter front end
  phpreflect analyze --all --frontend ast ./src
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVar(&classFlag, "class", "", "print one class, interface or trait")
	analyzeCmd.Flags().StringVar(&functionFlag, "function", "", "print one function")
	analyzeCmd.Flags().StringVar(&packageFlag, "package", "", "print one package (namespace)")
	analyzeCmd.Flags().BoolVar(&allFlag, "all", false, "print every package, class and function")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	p, err := loadProject(args)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	result, err := p.analyze(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	sel := selection{class: classFlag, function: functionFlag, pkg: packageFlag, all: allFlag}
	if sel.empty() {
		if viper.GetBool("quiet") {
			printSummary(out, &result.Stats)
		}
		return nil
	}
	return printModels(out, result.Registry, sel)
}

// selection names the models to print.
type selection struct {
	class, function, pkg string
	all                  bool
}

func (s selection) empty() bool {
	return s.class == "" && s.function == "" && s.pkg == "" && !s.all
}

// printModels writes the String() form of the selected models, separated
// by blank lines.
func printModels(out io.Writer, reg *model.Registry, sel selection) error {
	var blocks []string

	if sel.pkg != "" {
		p, ok := reg.Package(sel.pkg)
		if !ok {
			return fmt.Errorf("package %q not found", sel.pkg)
		}
		blocks = append(blocks, p.String())
	}
	if sel.class != "" {
		c, ok := reg.Class(strings.TrimPrefix(sel.class, `\`))
		if !ok {
			return fmt.Errorf("class %q not found", sel.class)
		}
		blocks = append(blocks, c.String())
	}
	if sel.function != "" {
		f, ok := reg.Function(strings.TrimPrefix(sel.function, `\`))
		if !ok {
			return fmt.Errorf("function %q not found", sel.function)
		}
		blocks = append(blocks, f.String())
	}

	if sel.all {
		for _, p := range sortedValues(reg.Packages()) {
			blocks = append(blocks, p.String())
		}
		for _, m := range []map[string]*model.Class{reg.Interfaces(), reg.Traits(), reg.Classes()} {
			for _, c := range sortedValues(m) {
				blocks = append(blocks, c.String())
			}
		}
		for _, f := range sortedValues(reg.Functions()) {
			blocks = append(blocks, f.String())
		}
	}

	_, err := io.WriteString(out, strings.Join(blocks, "\n"))
	return err
}

// sortedValues returns the values of m ordered by key.
func sortedValues[V any](m map[string]V) []V {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]V, 0, len(keys))
	for _, k := range keys {
		out = append(out, m[k])
	}
	return out
}
