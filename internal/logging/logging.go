// Package logging provides level-filtered logging to stderr.
//
// Stdout belongs to the MCP protocol, so nothing in this package ever writes
// there.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Log level names accepted by SetLevel and the MAPRDY_LOG_LEVEL variable.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// EnvLevel names the environment variable read by FromEnv.
const EnvLevel = "MAPRDY_LOG_LEVEL"

var (
	mu     sync.Mutex
	level  = new(slog.LevelVar)
	logger = newLogger(os.Stderr)
)

func newLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// SetLevel sets the global logging level. Unknown names fall back to info
// and are reported as an error.
func SetLevel(name string) error {
	l, err := parseLevel(name)
	level.Set(l)
	return err
}

// Level returns the name of the current level.
func Level() string {
	switch l := level.Level(); {
	case l <= slog.LevelDebug:
		return LevelDebug
	case l <= slog.LevelInfo:
		return LevelInfo
	case l <= slog.LevelWarn:
		return LevelWarn
	default:
		return LevelError
	}
}

// NormalizeLevel maps an accepted level spelling, such as "WARNING" or
// " Debug", to its canonical name.
func NormalizeLevel(name string) (string, error) {
	l, err := parseLevel(name)
	if err != nil {
		return "", err
	}
	switch l {
	case slog.LevelDebug:
		return LevelDebug, nil
	case slog.LevelWarn:
		return LevelWarn, nil
	case slog.LevelError:
		return LevelError, nil
	default:
		return LevelInfo, nil
	}
}

// FromEnv applies MAPRDY_LOG_LEVEL when it is set.
func FromEnv() error {
	if v := os.Getenv(EnvLevel); v != "" {
		return SetLevel(v)
	}
	return nil
}

// SetOutput redirects log output. Tests use it to capture lines.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger = newLogger(w)
}

func parseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case LevelDebug:
		return slog.LevelDebug, nil
	case LevelInfo, "":
		return slog.LevelInfo, nil
	case LevelWarn, "warning":
		return slog.LevelWarn, nil
	case LevelError:
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

// Debug logs a debug message
func Debug(format string, args ...interface{}) {
	logf(slog.LevelDebug, format, args...)
}

// Info logs an info message
func Info(format string, args ...interface{}) {
	logf(slog.LevelInfo, format, args...)
}

// Warn logs a warning message
func Warn(format string, args ...interface{}) {
	logf(slog.LevelWarn, format, args...)
}

// Error logs an error message
func Error(format string, args ...interface{}) {
	logf(slog.LevelError, format, args...)
}

// Enabled reports whether messages at the named level are emitted.
func Enabled(name string) bool {
	l, err := parseLevel(name)
	if err != nil {
		return false
	}
	return l >= level.Level()
}

func logf(l slog.Level, format string, args ...interface{}) {
	mu.Lock()
	lg := logger
	mu.Unlock()

	ctx := context.Background()
	if !lg.Enabled(ctx, l) {
		return
	}
	lg.Log(ctx, l, fmt.Sprintf(format, args...))
}
