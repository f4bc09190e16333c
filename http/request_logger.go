package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"unburyme/logger"
)

// RequestLogger stores a request-scoped logger, tagged only with the request
// id, in the context and logs each completed request. 4xx responses log at
// warn, 5xx at error.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			l := base.With(logger.FieldRequestID, middleware.GetReqID(r.Context()))
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r.WithContext(logger.WithContext(r.Context(), l)))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			level := slog.LevelInfo
			switch {
			case status >= http.StatusInternalServerError:
				level = slog.LevelError
			case status >= http.StatusBadRequest:
				level = slog.LevelWarn
			}
			l.Log(r.Context(), level, "HTTP request completed",
				logger.FieldComponent, logger.ComponentHTTP,
				logger.FieldMethod, r.Method,
				logger.FieldPath, r.URL.Path,
				logger.FieldStatusCode, status,
				logger.FieldClientIP, r.RemoteAddr,
				logger.FieldDuration, time.Since(start).Milliseconds())
		})
	}
}
