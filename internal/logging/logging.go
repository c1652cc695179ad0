package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/crimson-sun/canlog/internal/model"
)

// Init sets the default slog logger on stderr. jsonOutput selects the JSON
// handler, used when records go to stdout so the two streams stay
// machine-readable; otherwise the text handler is used.
func Init(jsonOutput bool, level slog.Level) {
	slog.SetDefault(New(os.Stderr, jsonOutput, level))
}

// New builds a logger writing to w.
func New(w io.Writer, jsonOutput bool, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if jsonOutput {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// ParseLevel converts a string ("debug", "info", "warn", "error") to slog.Level.
// Unknown strings default to LevelInfo.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// DiagnosticAttrs renders d as structured log attributes.
func DiagnosticAttrs(d model.Diagnostic) []any {
	return []any{
		"line", d.LineNo,
		"stage", string(d.Stage),
		"kind", string(d.Kind),
		"error", d.Message,
	}
}
