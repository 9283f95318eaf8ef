package rest

import (
	"house-map-service/internal/contextkeys"
	"house-map-service/internal/core/port"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const traceHeader = "X-Trace-ID"

// requestTraceID keeps a caller-supplied trace id only when it is a UUID.
func requestTraceID(r *http.Request) string {
	if id, err := uuid.Parse(r.Header.Get(traceHeader)); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

// LoggerMiddleware scopes a logger to the request trace id, echoes the id in
// the response and logs every request once it has been served. Server
// errors are logged as warnings.
func LoggerMiddleware(logger port.LoggerPort) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := requestTraceID(r)
			w.Header().Set(traceHeader, traceID)

			reqLogger := logger.WithFields(port.Fields{"trace_id": traceID})
			ctx := contextkeys.ContextWithTraceID(contextkeys.ContextWithLogger(r.Context(), reqLogger), traceID)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			started := time.Now()
			next.ServeHTTP(ww, r.WithContext(ctx))

			fields := port.Fields{
				"http_method": r.Method,
				"http_path":   r.URL.Path,
				"remote_addr": r.RemoteAddr,
				"status_code": ww.Status(),
				"bytes":       ww.BytesWritten(),
				"duration_ms": time.Since(started).Milliseconds(),
			}
			if ww.Status() >= http.StatusInternalServerError {
				reqLogger.Warn("Request failed", fields)
				return
			}
			reqLogger.Info("Request served", fields)
		})
	}
}
