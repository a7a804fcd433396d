// ABOUTME: Tests for logger configuration
// ABOUTME: Verifies level parsing, file mode, and request id helpers

package logger

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			if got := parseLevel(tc.in); got != tc.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestInit_FileMode(t *testing.T) {
	dir := t.TempDir()
	if err := Init(Options{Level: "debug", Dir: dir}); err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	defer Discard()

	slog.Info("hello from test", "key", "value")
	Close()

	data, err := os.ReadFile(filepath.Join(dir, DebugLogName))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "hello from test") {
		t.Errorf("expected log line in file, got %q", string(data))
	}
}

func TestInit_JSONFormat(t *testing.T) {
	dir := t.TempDir()
	if err := Init(Options{Format: "json", Dir: dir}); err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	defer Discard()

	slog.Info("json line")
	Close()

	data, _ := os.ReadFile(filepath.Join(dir, DebugLogName))
	if !strings.Contains(string(data), `"msg":"json line"`) {
		t.Errorf("expected JSON output, got %q", string(data))
	}
}

func TestRequestID(t *testing.T) {
	ctx := context.Background()
	if RequestID(ctx) != "" {
		t.Error("expected empty request id on bare context")
	}
	ctx = WithRequestID(ctx, "abc123")
	if got := RequestID(ctx); got != "abc123" {
		t.Errorf("expected abc123, got %q", got)
	}
	if FromContext(ctx) == nil {
		t.Error("expected logger from context")
	}
}

func TestSanitize(t *testing.T) {
	if got := Sanitize("hello\nworld\x1b[31m"); got != "helloworld[31m" {
		t.Errorf("unexpected sanitize result %q", got)
	}
}
