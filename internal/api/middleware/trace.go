// Package middleware provides HTTP middleware for request tracing and
// bearer-token authentication.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/studyloop/studyloop-api/internal/api/shared"
	"github.com/studyloop/studyloop-api/internal/platform/logger"
)

// TraceMiddleware stamps each request with a trace ID and a trace-scoped
// logger. Apply it before any middleware or handler that logs, so log lines
// across one request share a trace_id.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := shared.SetTraceID(r.Context())
		traceID := shared.GetTraceID(ctx)

		log := slog.With(slog.String("trace_id", traceID))
		ctx = logger.WithLogger(ctx, log)

		log.Debug("request started",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
