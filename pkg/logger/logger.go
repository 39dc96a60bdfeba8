package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const defaultDir = "logs"

// Options controls where log records are written.
type Options struct {
	// Level is one of debug, info, warn or error.
	Level string
	// Dir holds info.log and error.log. Empty disables file output.
	Dir string
	// Console receives human readable records. Defaults to stdout.
	Console io.Writer
}

// New creates the service logger: text on stdout, JSON in logs/info.log and
// errors duplicated into logs/error.log.
func New(level string) (*slog.Logger, error) {
	return NewWithOptions(Options{Level: level, Dir: defaultDir})
}

// NewWithOptions creates a logger using explicit destinations.
func NewWithOptions(opts Options) (*slog.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	console := opts.Console
	if console == nil {
		console = os.Stdout
	}

	handler := &MultiLevelHandler{
		console: slog.NewTextHandler(console, &slog.HandlerOptions{Level: level}),
		level:   level,
	}

	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}

		infoFile, err := openLogFile(opts.Dir, "info.log")
		if err != nil {
			return nil, err
		}
		errorFile, err := openLogFile(opts.Dir, "error.log")
		if err != nil {
			return nil, err
		}

		handler.info = slog.NewJSONHandler(infoFile, &slog.HandlerOptions{Level: level})
		handler.errors = slog.NewJSONHandler(errorFile, &slog.HandlerOptions{Level: slog.LevelError})
	}

	return slog.New(handler), nil
}

func openLogFile(dir, name string) (*os.File, error) {
	file, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	return file, nil
}

// MultiLevelHandler fans records out to the console and the log files.
// Records at error level or above also go to the error file.
type MultiLevelHandler struct {
	console slog.Handler
	info    slog.Handler
	errors  slog.Handler
	level   slog.Leveler
}

func (h *MultiLevelHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *MultiLevelHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.console.Handle(ctx, r); err != nil {
		return err
	}

	if h.info != nil {
		if err := h.info.Handle(ctx, r); err != nil {
			return err
		}
	}

	if h.errors != nil && r.Level >= slog.LevelError {
		return h.errors.Handle(ctx, r)
	}

	return nil
}

func (h *MultiLevelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.derive(func(inner slog.Handler) slog.Handler { return inner.WithAttrs(attrs) })
}

func (h *MultiLevelHandler) WithGroup(name string) slog.Handler {
	return h.derive(func(inner slog.Handler) slog.Handler { return inner.WithGroup(name) })
}

func (h *MultiLevelHandler) derive(fn func(slog.Handler) slog.Handler) slog.Handler {
	next := &MultiLevelHandler{
		console: fn(h.console),
		level:   h.level,
	}
	if h.info != nil {
		next.info = fn(h.info)
	}
	if h.errors != nil {
		next.errors = fn(h.errors)
	}
	return next
}

// ParseLevel maps a configuration string to a slog level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", level)
	}
}
