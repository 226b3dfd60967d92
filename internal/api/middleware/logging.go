package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/google/uuid"
)

// SessionReader reports the account the storefront is serving, or nil.
type SessionReader interface {
	Current() *models.Account
}

type logContextKey string

const loggerKey = logContextKey("logger")

// wrapper around http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{w, http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Logging attaches a request-scoped logger carrying the correlation id. The
// completion line names the account that was signed in once the intent ran,
// so a login or logout is attributed to its outcome.
func Logging(sessions SessionReader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			start := time.Now()

			correlationID := r.Header.Get("X-Request-ID")
			if correlationID == "" {
				correlationID = uuid.NewString()
			}

			w.Header().Set("X-Request-ID", correlationID)

			requestLogger := slog.Default().With(
				slog.String("correlation_id", correlationID),
				slog.String("http_method", r.Method),
				slog.String("http_path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr),
			)

			requestLogger.Info("Incoming request")

			rw := newResponseWriter(w)

			next.ServeHTTP(rw, r.WithContext(WithLogger(r.Context(), requestLogger)))

			requestLogger.Info("Request Completed",
				slog.Int("http_status", rw.statusCode),
				slog.Duration("duration", time.Since(start)),
				slog.String("account_id", currentAccountID(sessions)),
			)
		})
	}
}

// currentAccountID is "" for a visitor or when no session reader is wired.
func currentAccountID(sessions SessionReader) string {
	if sessions == nil {
		return ""
	}

	if account := sessions.Current(); account != nil {
		return account.ID
	}

	return ""
}

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

func LoggerFromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}

	return slog.Default()
}
