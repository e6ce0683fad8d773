package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"

	applogger "github.com/satriadw/hrm-portal/pkg/logger"
)

func LoggingMiddleware(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := middleware.GetReqID(r.Context())

			// downstream log lines pick up the request id automatically
			ctx := applogger.With(r.Context(), "request_id", reqID)

			ww := &statusWriter{ResponseWriter: w}
			next.ServeHTTP(ww, r.WithContext(ctx))

			logger.Info("request handled",
				"request_id", reqID,
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.status(),
				"duration_ms", time.Since(start).Milliseconds(),
				"remote_addr", r.RemoteAddr,
			)
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	statusCode int
}

func (sw *statusWriter) WriteHeader(code int) {
	if sw.statusCode == 0 {
		sw.statusCode = code
	}
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) status() int {
	if sw.statusCode == 0 {
		return http.StatusOK
	}
	return sw.statusCode
}
