package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Logger attaches a request-scoped logger (with a generated request id) to
// the context and records each request on completion.
func Logger(logger *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			reqLogger := logger.With().
				Str("request_id", uuid.NewString()).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Str("remote_ip", req.RemoteAddr).
				Logger()

			ctx := reqLogger.WithContext(req.Context())
			req = req.WithContext(ctx)

			start := time.Now()
			next.ServeHTTP(w, req)
			reqLogger.Info().Dur("elapsed", time.Since(start)).Msg("request handled")
		})
	}
}
