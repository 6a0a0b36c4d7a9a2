package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// openRunLogger directs the run log to vasfa.log inside the target
// directory, matching where the archive will be written. It falls back
// to stderr when the file cannot be created, and always logs to stderr
// on dry runs. The returned func closes the log file.
func openRunLogger(dir string, level log.Level, dryRun bool) (*log.Logger, func()) {
	if dryRun {
		return newLogger(os.Stderr, level), func() {}
	}

	f, err := os.Create(filepath.Join(dir, "vasfa.log"))
	if err != nil {
		printWarning("Could not create vasfa.log: %v", err)
		return newLogger(os.Stderr, level), func() {}
	}
	return newLogger(f, level), func() { f.Close() }
}
