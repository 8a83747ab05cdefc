package log

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// MaskValue replaces sensitive attribute values in log output.
const MaskValue = "***REDACTED***"

// sensitiveKeys are attribute keys whose values are always masked.
// These cover the credentials a site config can carry.
var sensitiveKeys = map[string]bool{
	"authorization":       true,
	"proxy-authorization": true,
	"cookie":              true,
	"set-cookie":          true,
	"x-api-key":           true,
	"x-auth-token":        true,
	"password":            true,
	"secret":              true,
	"token":               true,
	"api_key":             true,
	"session":             true,
	"session_id":          true,
}

// sensitivePatterns match values that look like credentials regardless of
// the attribute key.
var sensitivePatterns = []*regexp.Regexp{
	// Bearer and Basic authorization values
	regexp.MustCompile(`(?i)^bearer\s+.+`),
	regexp.MustCompile(`(?i)^basic\s+[A-Za-z0-9+/=]+$`),
	// JWT tokens
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`),
}

// SanitizingHandler wraps an slog.Handler and masks sensitive attribute
// values before they reach the underlying handler.
//
// Design decision: a handler wrapper rather than a custom logger type, so
// it composes with any slog backend and with libraries that accept a
// *slog.Logger.
type SanitizingHandler struct {
	handler slog.Handler
}

// NewSanitizingHandler wraps handler. A nil handler falls back to
// slog.Default().Handler().
func NewSanitizingHandler(handler slog.Handler) *SanitizingHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &SanitizingHandler{handler: handler}
}

// Enabled delegates to the underlying handler.
func (h *SanitizingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle passes a copy of the record with sanitized attributes to the
// underlying handler.
func (h *SanitizingHandler) Handle(ctx context.Context, r slog.Record) error {
	sanitized := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		sanitized.AddAttrs(sanitizeAttr(a))
		return true
	})
	return h.handler.Handle(ctx, sanitized)
}

// WithAttrs returns a new SanitizingHandler with the given (sanitized)
// attributes added to the underlying handler.
func (h *SanitizingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	sanitized := make([]slog.Attr, 0, len(attrs))
	for _, a := range attrs {
		sanitized = append(sanitized, sanitizeAttr(a))
	}
	return &SanitizingHandler{handler: h.handler.WithAttrs(sanitized)}
}

// WithGroup returns a new SanitizingHandler with the given group opened on
// the underlying handler.
func (h *SanitizingHandler) WithGroup(name string) slog.Handler {
	return &SanitizingHandler{handler: h.handler.WithGroup(name)}
}

// sanitizeAttr masks the attribute value when the key or the value itself
// looks sensitive. Group attributes are sanitized recursively.
func sanitizeAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		members := a.Value.Group()
		sanitized := make([]slog.Attr, 0, len(members))
		for _, m := range members {
			sanitized = append(sanitized, sanitizeAttr(m))
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(sanitized...)}
	}

	if sensitiveKeys[strings.ToLower(a.Key)] {
		return slog.String(a.Key, MaskValue)
	}

	if a.Value.Kind() == slog.KindString {
		v := a.Value.String()
		for _, p := range sensitivePatterns {
			if p.MatchString(v) {
				return slog.String(a.Key, MaskValue)
			}
		}
	}

	return a
}

// NewLogger returns a logger writing sanitized text records to w.
// Verbose mode lowers the level to debug, which includes per-field
// extraction strategy traces.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	text := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(NewSanitizingHandler(text))
}
