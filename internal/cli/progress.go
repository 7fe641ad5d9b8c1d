package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/mvp-joe/php-reflect/internal/analyzer"
)

// CLIProgressReporter implements analyzer.ProgressReporter with a progress bar.
type CLIProgressReporter struct {
	quiet   bool
	out     io.Writer
	fileBar *progressbar.ProgressBar
}

// NewCLIProgressReporter creates a new CLI progress reporter writing to out.
func NewCLIProgressReporter(out io.Writer, quiet bool) *CLIProgressReporter {
	return &CLIProgressReporter{quiet: quiet, out: out}
}

func (c *CLIProgressReporter) OnDiscoveryComplete(totalFiles int) {
	if c.quiet {
		return
	}
	c.fileBar = progressbar.NewOptions(totalFiles,
		progressbar.OptionSetWriter(c.out),
		progressbar.OptionSetDescription("Analyzing files"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(c.out)
		}),
	)
}

func (c *CLIProgressReporter) OnFileAnalyzed(fileName string) {
	if c.quiet || c.fileBar == nil {
		return
	}
	c.fileBar.Add(1)
}

func (c *CLIProgressReporter) OnComplete(stats *analyzer.Stats) {
	if c.quiet {
		return
	}
	if c.fileBar != nil {
		c.fileBar.Finish()
		c.fileBar = nil
	}
	printSummary(c.out, stats)
}

// printSummary writes the one-line run summary followed by model counts.
func printSummary(out io.Writer, stats *analyzer.Stats) {
	fmt.Fprintf(out, "✓ Analysis complete: %s files in %.1fs",
		formatNumber(stats.FilesAnalyzed), stats.Duration.Seconds())
	if stats.FilesSkipped > 0 || stats.FilesFailed > 0 {
		fmt.Fprintf(out, " (%d skipped, %d failed)", stats.FilesSkipped, stats.FilesFailed)
	}
	fmt.Fprintln(out)
	m := stats.Model
	fmt.Fprintf(out, "  Packages:     %s\n", formatNumber(m.Packages))
	fmt.Fprintf(out, "  Classes:      %s (%s interfaces, %s traits)\n",
		formatNumber(m.Classes), formatNumber(m.Interfaces), formatNumber(m.Traits))
	fmt.Fprintf(out, "  Functions:    %s\n", formatNumber(m.Functions))
	fmt.Fprintf(out, "  Constants:    %s\n", formatNumber(m.Constants))
	fmt.Fprintf(out, "  Dependencies: %s\n", formatNumber(m.Dependencies))
}

// formatNumber formats integer with thousand separators.
// Examples: 1234 -> "1,234", 1234567 -> "1,234,567"
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}

	str := fmt.Sprintf("%d", n)
	var result string
	for i, c := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result += ","
		}
		result += string(c)
	}
	return result
}
