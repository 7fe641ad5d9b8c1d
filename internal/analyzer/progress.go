package analyzer

// ProgressReporter provides callbacks for reporting analysis progress.
// Implementations can display progress bars, log messages, or remain silent.
type ProgressReporter interface {
	// OnDiscoveryComplete is called once the file list is known.
	OnDiscoveryComplete(totalFiles int)

	// OnFileAnalyzed is called after each file, analyzed or not.
	OnFileAnalyzed(fileName string)

	// OnComplete is called when a run finishes.
	OnComplete(stats *Stats)
}

// NoOpProgressReporter is a progress reporter that does nothing.
type NoOpProgressReporter struct{}

func (n *NoOpProgressReporter) OnDiscoveryComplete(totalFiles int) {}
func (n *NoOpProgressReporter) OnFileAnalyzed(fileName string)     {}
func (n *NoOpProgressReporter) OnComplete(stats *Stats)            {}
