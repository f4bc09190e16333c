// Package logger configures structured logging for the application.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Field names shared across components.
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldPrincipal  = "principal"
	FieldRate       = "interest_rate"
	FieldTermYears  = "term_years"
	FieldCacheHit   = "cache_hit"
)

// Component names.
const (
	ComponentApp        = "app"
	ComponentHTTP       = "http"
	ComponentLoan       = "loan"
	ComponentPortfolio  = "portfolio"
	ComponentRecommend  = "term_recommendation"
	ComponentStorage    = "storage"
	ComponentCache      = "cache"
	ComponentRateLimit  = "rate_limit"
	ComponentCalculator = "calculator"
)

// Config selects level and output format.
type Config struct {
	Level  string
	Format string // "json" or "text"
	Output io.Writer
}

// ParseLevel maps a configured level name to a slog.Level. Unknown names fall
// back to info and report ok=false.
func ParseLevel(name string) (slog.Level, bool) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// Setup builds the application logger and installs it as the slog default.
func Setup(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	level, ok := ParseLevel(cfg.Level)
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		handler = slog.NewTextHandler(out, opts)
	} else {
		handler = slog.NewJSONHandler(out, opts)
	}

	l := slog.New(handler)
	if !ok {
		l.Warn("invalid log level configured, using default level",
			"configured_level", cfg.Level,
			"default_level", "info")
	}
	slog.SetDefault(l)
	return l
}

type contextKey struct{}

// WithContext returns a copy of ctx carrying l.
func WithContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// FromContext returns the logger stored in ctx, or fallback when there is
// none. A nil fallback means slog.Default().
func FromContext(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if l, ok := ctx.Value(contextKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	if fallback != nil {
		return fallback
	}
	return slog.Default()
}

// ForComponent returns the logger stored in ctx tagged with component. The
// fallback, used when ctx carries no logger, is expected to be tagged already.
func ForComponent(ctx context.Context, fallback *slog.Logger, component string) *slog.Logger {
	if l, ok := ctx.Value(contextKey{}).(*slog.Logger); ok && l != nil {
		return l.With(FieldComponent, component)
	}
	if fallback != nil {
		return fallback
	}
	return slog.Default().With(FieldComponent, component)
}
