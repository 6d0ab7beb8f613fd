// Package observability builds the slog logger and the Prometheus metrics
// shared by the notes servers.
package observability

import (
	"io"
	"log/slog"
	"os"

	"github.com/asmundstavdahl/notes/internal/config"
	"github.com/mattn/go-isatty"
)

// ParseLevel maps a config level name to a slog.Level. Unknown names are Info.
func ParseLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger returns a logger writing to w. Format "auto" picks text for a
// terminal and JSON otherwise.
func NewLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	format := cfg.Format
	if format == "auto" || format == "" {
		format = "json"
		if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
			format = "text"
		}
	}
	if format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
