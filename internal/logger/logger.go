package logger

import (
	"log/slog"
	"os"
)

// New creates the portal's slog.Logger: JSON to stdout with a service
// attribute on every record.
func New() *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	return slog.New(handler).With(slog.String("service", "gridbill"))
}
