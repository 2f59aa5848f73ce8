package logger

import (
	"log/slog"
	"os"
)

// New returns a structured stdout logger. Verbose lowers the level to Debug
// so per-action passthrough logging becomes visible.
func New(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
