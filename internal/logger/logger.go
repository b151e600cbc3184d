package logger

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/lmittmann/tint"
)

type contextKey struct {
	name string
}

var (
	logAttrsKey      = contextKey{"log_attrs"}
	requestLoggerKey = contextKey{"request_logger"}
)

var levels = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// ParseLogLevel maps LOG_LEVEL / --log-level to a slog level. Unknown values give info.
func ParseLogLevel(level string) slog.Level {
	if l, ok := levels[strings.ToLower(strings.TrimSpace(level))]; ok {
		return l
	}
	return slog.LevelInfo
}

// InitLogger returns a logger writing to w: colourized text in dev, JSON everywhere else.
//
// The CLI passes stderr so that command output on stdout stays machine readable.
func InitLogger(w io.Writer, logLevel slog.Level, environment string) *slog.Logger {
	if environment != "dev" {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: logLevel}))
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      logLevel,
		TimeFormat: time.Kitchen,
	}))
}

// ContextWithLogAttrs adds attributes (e.g. the id of the record a handler changed) to the
// "request completed" entry written by RequestLogging.
func ContextWithLogAttrs(ctx context.Context, attrs ...slog.Attr) context.Context {
	pending, ok := ctx.Value(logAttrsKey).(*[]slog.Attr)
	if !ok {
		slog.Warn("log attributes dropped: context was not prepared by RequestLogging")
		return ctx
	}
	*pending = append(*pending, attrs...)
	return ctx
}

func ContextLogAttrs(ctx context.Context) []slog.Attr {
	if pending, ok := ctx.Value(logAttrsKey).(*[]slog.Attr); ok {
		return *pending
	}
	return nil
}

// ContextRequestLogger returns the logger RequestLogging attached to ctx (tagged with the
// request_id), or the default logger outside a request.
func ContextRequestLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(requestLoggerKey).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

// admin API path prefix -> component label
var components = []struct {
	prefix    string
	component string
}{
	{"/admin/leads", "leads"},
	{"/admin/destinations", "destinations"},
	{"/admin/funnels", "routing"},
	{"/admin/routes", "routing"},
	{"/admin/provider-keys", "provider_keys"},
}

func componentFor(path string) string {
	for _, c := range components {
		if strings.HasPrefix(path, c.prefix) {
			return c.component
		}
	}
	return "other"
}

func levelFor(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	}
	return slog.LevelInfo
}

// RequestLogging writes one "request completed" entry per admin API request. Health checks are not logged.
func RequestLogging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/health") {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			requestID := middleware.GetReqID(r.Context())

			pending := &[]slog.Attr{}
			ctx := context.WithValue(r.Context(), logAttrsKey, pending)
			ctx = context.WithValue(ctx, requestLoggerKey, logger.With(slog.String("request_id", requestID)))

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			attrs := append([]slog.Attr{
				slog.String("request_id", requestID),
				slog.String("component", componentFor(r.URL.Path)),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.String("remote_addr", r.RemoteAddr),
			}, *pending...)
			attrs = append(attrs,
				slog.Duration("duration", time.Since(start)),
				slog.Int("bytes", ww.BytesWritten()),
			)

			logger.LogAttrs(r.Context(), levelFor(ww.Status()), "request completed", attrs...)
		})
	}
}
