package logger

import (
	"log/slog"
	"os"
)

// New creates the process-wide slog.Logger: JSON lines on stdout, info
// level and up.
func New() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}
