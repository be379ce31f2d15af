package server

import (
	"net/http"
	"time"

	log "go.uber.org/zap"

	"github.com/yanet-platform/bgtasks/internal/types/requestid"
)

// requestIDMiddleware adds a request ID to the request context and response
// headers, and logs the request with it.
func requestIDMiddleware(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := requestid.Generate()

			r = r.WithContext(requestid.NewContext(r.Context(), reqID))
			w.Header().Set(requestid.HeaderKey, string(reqID))

			fields := []log.Field{
				log.String("method", r.Method),
				log.String("path", r.URL.Path),
				log.String("remote_addr", r.RemoteAddr),
				log.String("request_id", string(reqID)),
			}
			logger.Debug("HTTP request received", fields...)

			start := time.Now()
			next.ServeHTTP(w, r)

			logger.Debug("HTTP request completed", append(fields, log.Duration("duration", time.Since(start)))...)
		})
	}
}
