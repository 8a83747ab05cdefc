package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// TestSanitizingHandler tests masking of sensitive attributes.
func TestSanitizingHandler(t *testing.T) {
	t.Parallel()

	t.Run("masks sensitive keys", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, false)

		logger.Info("fetching", "cookie", "session=secret123", "url", "https://example.com")

		out := buf.String()
		if strings.Contains(out, "secret123") {
			t.Error("expected cookie value to be masked")
		}
		if !strings.Contains(out, MaskValue) {
			t.Error("expected mask value in output")
		}
		if !strings.Contains(out, "https://example.com") {
			t.Error("expected non-sensitive value to survive")
		}
	})

	t.Run("masks bearer tokens by value pattern", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, false)

		logger.Info("request", "header", "Bearer abc.def.ghi")

		if strings.Contains(buf.String(), "abc.def.ghi") {
			t.Error("expected bearer token to be masked")
		}
	})

	t.Run("masks attributes inside groups", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, false)

		logger.Info("request", slog.Group("http", "authorization", "Basic dXNlcjpwYXNz"))

		if strings.Contains(buf.String(), "dXNlcjpwYXNz") {
			t.Error("expected grouped credential to be masked")
		}
	})

	t.Run("masks WithAttrs attributes", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, false).With("token", "tok-12345")

		logger.Info("hello")

		if strings.Contains(buf.String(), "tok-12345") {
			t.Error("expected token attribute to be masked")
		}
	})
}

// TestNewLoggerLevels tests verbose level switching.
func TestNewLoggerLevels(t *testing.T) {
	t.Parallel()

	t.Run("debug suppressed by default", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, false)

		logger.Debug("hidden")
		logger.Info("shown")

		out := buf.String()
		if strings.Contains(out, "hidden") {
			t.Error("expected debug record to be suppressed")
		}
		if !strings.Contains(out, "shown") {
			t.Error("expected info record to be emitted")
		}
	})

	t.Run("verbose enables debug", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, true)

		logger.Debug("visible")

		if !strings.Contains(buf.String(), "visible") {
			t.Error("expected debug record in verbose mode")
		}
	})
}
