// Package logger configures the process-wide slog logger.
//
// Initialize once at startup, then use the package-level helpers:
//
//	logFile, err := logger.Initialize(cfg.Logging)
//	if err != nil {
//		...
//	}
//	defer logFile.Close()
//
//	logger.Warn("Fetch aborted", "folder", "INBOX", "page", 3, "error", err)
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"mailsweep/internal/config"
)

var globalLogger *slog.Logger

// Initialize installs a text ("console") or JSON handler writing to stderr,
// stdout or the file named by cfg.Output. The returned file is nil unless a
// file was opened; the caller closes it.
func Initialize(cfg config.LoggingConfig) (*os.File, error) {
	var (
		w       io.Writer
		logFile *os.File
	)
	switch cfg.Output {
	case "", "stderr":
		w = os.Stderr
	case "stdout":
		w = os.Stdout
	default:
		f, err := os.OpenFile(cfg.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file %s: %w", cfg.Output, err)
		}
		w, logFile = f, f
	}

	globalLogger = slog.New(NewHandler(w, cfg))
	slog.SetDefault(globalLogger)
	return logFile, nil
}

// NewHandler builds the handler Initialize would install, writing to w.
func NewHandler(w io.Writer, cfg config.LoggingConfig) slog.Handler {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Level)}
	if cfg.Format == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

func parseLogLevel(level string) slog.Level {
	switch level {
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

// Get returns the global logger, or slog.Default before Initialize.
func Get() *slog.Logger {
	if globalLogger == nil {
		return slog.Default()
	}
	return globalLogger
}

func Debug(msg string, args ...any) { Get().Debug(msg, args...) }
func Info(msg string, args ...any)  { Get().Info(msg, args...) }
func Warn(msg string, args ...any)  { Get().Warn(msg, args...) }
func Error(msg string, args ...any) { Get().Error(msg, args...) }

// With returns a child logger carrying args.
func With(args ...any) *slog.Logger { return Get().With(args...) }
