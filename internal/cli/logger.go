package cli

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
)

// NewLogger returns the CLI logger writing to w. Verbose enables debug
// records and timestamps.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return slog.New(log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: verbose,
		Prefix:          "leappack",
	}))
}
