package fatfs

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with fatfs-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithImage adds the image path to the logger.
func (l *Logger) WithImage(path string) *Logger {
	return &Logger{
		Logger: l.Logger.With("image", path),
	}
}

// LogOpen logs opening or creating an image.
func (l *Logger) LogOpen(created bool, err error) {
	if err != nil {
		l.Error("open failed",
			"create", created,
			"error", err,
		)
	} else {
		l.Info("image opened",
			"create", created,
		)
	}
}

// LogClose logs closing an image. openHandles counts files the caller
// never closed.
func (l *Logger) LogClose(openHandles int, err error) {
	if openHandles > 0 {
		l.Warn("closing image with open files",
			"open_files", openHandles,
		)
	}
	if err != nil {
		l.Error("close failed",
			"error", err,
		)
	} else {
		l.Info("image closed")
	}
}

// LogCreate logs creating a file or directory.
func (l *Logger) LogCreate(name string, kind Kind, index int, err error) {
	if err != nil {
		l.Error("create failed",
			"name", name,
			"kind", kind.String(),
			"error", err,
		)
	} else {
		l.Debug("create completed",
			"name", name,
			"kind", kind.String(),
			"entry", index,
		)
	}
}

// LogErase logs erasing a file or directory.
func (l *Logger) LogErase(name string, kind Kind, err error) {
	if err != nil {
		l.Error("erase failed",
			"name", name,
			"kind", kind.String(),
			"error", err,
		)
	} else {
		l.Debug("erase completed",
			"name", name,
			"kind", kind.String(),
		)
	}
}

// LogChdir logs a change of the working directory.
func (l *Logger) LogChdir(target, cwd string, err error) {
	if err != nil {
		l.Debug("chdir failed",
			"target", target,
			"cwd", cwd,
			"error", err,
		)
	} else {
		l.Debug("chdir completed",
			"target", target,
			"cwd", cwd,
		)
	}
}
