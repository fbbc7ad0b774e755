package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

type ctxKey string

const (
	ctxKeyRequestID  ctxKey = "request_id"
	ctxKeyResearchID ctxKey = "research_id"
)

var level = new(slog.LevelVar)

// basic global logger, JSON to stdout.
var logger = newLogger(os.Stdout)

func newLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

func Logger() *slog.Logger {
	return logger
}

// Configure sets the minimum level of the global logger. Unknown names
// fall back to info.
func Configure(lvl string) {
	level.Set(ParseLevel(lvl))
}

// SetOutput redirects the global logger, mostly for tests and the CLI.
func SetOutput(w io.Writer) {
	logger = newLogger(w)
}

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// WithFields returns a logger with additional fields.
func WithFields(kv ...any) *slog.Logger {
	return logger.With(kv...)
}

// WithRequestID stores a request_id in the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, requestID)
}

// WithResearchID stores the research_id of the running session in the context.
func WithResearchID(ctx context.Context, researchID string) context.Context {
	return context.WithValue(ctx, ctxKeyResearchID, researchID)
}

// LoggerFromContext adds request_id and research_id if present.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	l := logger
	if reqID, _ := ctx.Value(ctxKeyRequestID).(string); reqID != "" {
		l = l.With("request_id", reqID)
	}
	if id, _ := ctx.Value(ctxKeyResearchID).(string); id != "" {
		l = l.With("research_id", id)
	}
	return l
}
