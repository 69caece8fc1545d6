package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jannat-miftahul/plantnet/pkg/logger"
)

// CorrelationIDHeader is the header used to propagate request correlation IDs.
const CorrelationIDHeader = "X-Correlation-ID"

// statusRecorder wraps http.ResponseWriter to capture the response status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// RequestLogging assigns a correlation ID to each request (generating one when
// the client did not send the header), stores an enriched request-scoped logger
// in the context, and logs request completion with method, path, status, and
// duration. Downstream handlers retrieve the logger with logger.FromContext.
func RequestLogging(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			correlationID := r.Header.Get(CorrelationIDHeader)
			if correlationID == "" {
				correlationID = uuid.New().String()
			}

			ctx := logger.WithCorrelationID(r.Context(), correlationID)
			enriched := logger.WithContext(ctx, base)
			ctx = logger.NewContext(ctx, enriched)

			w.Header().Set(CorrelationIDHeader, correlationID)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r.WithContext(ctx))

			enriched.InfoContext(ctx, "request completed",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rec.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}
