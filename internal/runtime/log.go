package runtime

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// NewLogger returns a JSON logger on stdout tagged with the service name.
func NewLogger(service, level string) *slog.Logger {
	return newLogger(os.Stdout, service, level)
}

func newLogger(w io.Writer, service, level string) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})
	return slog.New(h).With("service", service)
}

// ParseLevel maps debug, info, warn and error; anything else is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
