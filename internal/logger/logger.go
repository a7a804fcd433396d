// ABOUTME: Structured logging configuration using log/slog.
// ABOUTME: Logs to stderr for CLI commands or to a debug file while the TUI owns the terminal.

package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// DebugLogName is the file written under the config directory in file mode
const DebugLogName = "debug.log"

type ctxKey string

const ctxKeyRequestID ctxKey = "request_id"

var (
	mu      sync.Mutex
	logFile *os.File
)

// Options controls where and how logs are written
type Options struct {
	Level  string // debug, info, warn, error (default: info)
	Format string // text, json (default: text)
	// Dir, when set, sends logs to Dir/debug.log instead of stderr.
	Dir string
}

// Init configures the default slog logger.
// Calling Init again replaces the previous handler and closes any open log file.
func Init(opts Options) error {
	mu.Lock()
	defer mu.Unlock()

	var out io.Writer = os.Stderr
	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0700); err != nil {
			return err
		}
		f, err := os.OpenFile(filepath.Join(opts.Dir, DebugLogName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			return err
		}
		closeLocked()
		logFile = f
		out = f
	} else {
		closeLocked()
	}

	slog.SetDefault(slog.New(newHandler(out, opts)))
	return nil
}

// Discard silences the default logger (used by tests and --quiet paths)
func Discard() {
	mu.Lock()
	defer mu.Unlock()
	closeLocked()
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// Close flushes and closes the debug log file, if any
func Close() {
	mu.Lock()
	defer mu.Unlock()
	closeLocked()
}

func closeLocked() {
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

func newHandler(w io.Writer, opts Options) slog.Handler {
	hopts := &slog.HandlerOptions{Level: parseLevel(opts.Level)}
	if strings.ToLower(opts.Format) == "json" {
		return slog.NewJSONHandler(w, hopts)
	}
	return slog.NewTextHandler(w, hopts)
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// WithRequestID stores a request id in the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, requestID)
}

// RequestID returns the request id stored in ctx, or ""
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyRequestID).(string)
	return id
}

// FromContext returns the default logger annotated with the request id, if present.
func FromContext(ctx context.Context) *slog.Logger {
	if id := RequestID(ctx); id != "" {
		return slog.Default().With("request_id", id)
	}
	return slog.Default()
}

// Sanitize removes control characters from user-supplied strings before they
// are included in log lines or error messages.
func Sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, s)
}
