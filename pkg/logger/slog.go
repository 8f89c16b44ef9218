package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/rs/zerolog"
)

// SlogConfig holds configuration for the structured logger handed to
// orchestration components.
type SlogConfig struct {
	Level     slog.Level
	Format    string // "json" or "text"
	AddSource bool
	Stdout    io.Writer
	Stderr    io.Writer
}

// DefaultSlogConfig returns the configuration used when no flags override it.
func DefaultSlogConfig() SlogConfig {
	return SlogConfig{
		Level:  slog.LevelInfo,
		Format: "text",
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// NewSlogLogger creates a structured logger that routes records at or above
// error level to stderr and everything else to stdout.
func NewSlogLogger(config SlogConfig) *slog.Logger {
	writer := &levelSplitWriter{
		stdout:    config.Stdout,
		stderr:    config.Stderr,
		threshold: slog.LevelError,
	}

	opts := &slog.HandlerOptions{
		Level:     config.Level,
		AddSource: config.AddSource,
	}

	var handler slog.Handler
	switch config.Format {
	case "json":
		handler = slog.NewJSONHandler(writer, opts)
	default:
		handler = slog.NewTextHandler(writer, opts)
	}

	return slog.New(&splitHandler{Handler: handler, writer: writer})
}

// ParseLevel maps a level name shared by the console and structured loggers
// to its zerolog and slog representations. Unknown names fall back to info.
func ParseLevel(name string) (zerolog.Level, slog.Level) {
	switch name {
	case "debug":
		return zerolog.DebugLevel, slog.LevelDebug
	case "warn":
		return zerolog.WarnLevel, slog.LevelWarn
	case "error":
		return zerolog.ErrorLevel, slog.LevelError
	default:
		return zerolog.InfoLevel, slog.LevelInfo
	}
}

// splitHandler records the level of the record being handled so the writer
// underneath can pick a destination. slog handlers serialize Handle calls,
// so a single mutable field is safe for the CLI's sequential use.
type splitHandler struct {
	slog.Handler
	writer *levelSplitWriter
}

func (h *splitHandler) Handle(ctx context.Context, r slog.Record) error {
	h.writer.level = r.Level
	return h.Handler.Handle(ctx, r)
}

func (h *splitHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &splitHandler{Handler: h.Handler.WithAttrs(attrs), writer: h.writer}
}

func (h *splitHandler) WithGroup(name string) slog.Handler {
	return &splitHandler{Handler: h.Handler.WithGroup(name), writer: h.writer}
}

type levelSplitWriter struct {
	stdout    io.Writer
	stderr    io.Writer
	threshold slog.Level
	level     slog.Level
}

func (w *levelSplitWriter) Write(p []byte) (int, error) {
	if w.level >= w.threshold {
		return w.stderr.Write(p)
	}
	return w.stdout.Write(p)
}
