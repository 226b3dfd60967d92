package middleware_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestLogging(t *testing.T) {
	t.Run("Propagates the correlation id", func(t *testing.T) {
		// Arrange
		var fromCtx *slog.Logger

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fromCtx = middleware.LoggerFromContext(r.Context())
			w.WriteHeader(http.StatusTeapot)
		})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
		req.Header.Set("X-Request-ID", "req-123")
		rr := httptest.NewRecorder()

		// Act
		middleware.Logging(nil)(next).ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusTeapot, rr.Code)
		assert.Equal(t, "req-123", rr.Header().Get("X-Request-ID"))
		assert.NotNil(t, fromCtx)
	})

	t.Run("Generates a correlation id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rr := httptest.NewRecorder()

		middleware.Logging(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).ServeHTTP(rr, req)

		assert.Len(t, rr.Header().Get("X-Request-ID"), 36)
	})
}

type fakeSession struct {
	account *models.Account
}

func (f *fakeSession) Current() *models.Account { return f.account }

func captureDefaultLogger(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(previous) })

	return &buf
}

func TestLoggingAccount(t *testing.T) {
	t.Run("Logs the account signed in after the request", func(t *testing.T) {
		// Arrange
		buf := captureDefaultLogger(t)
		session := &fakeSession{}

		login := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session.account = &models.Account{ID: "acc-42"}
		})

		// Act
		middleware.Logging(session)(login).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/session/login", nil))

		// Assert
		assert.Contains(t, buf.String(), `"account_id":"acc-42"`)
	})

	t.Run("Visitor has an empty account id", func(t *testing.T) {
		buf := captureDefaultLogger(t)

		middleware.Logging(&fakeSession{})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).
			ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

		assert.Contains(t, buf.String(), `"account_id":""`)
	})
}

func TestLoggerFromContext(t *testing.T) {
	assert.Equal(t, slog.Default(), middleware.LoggerFromContext(context.Background()))

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	ctx := middleware.WithLogger(context.Background(), logger)

	middleware.LoggerFromContext(ctx).Info("hello")

	assert.Contains(t, buf.String(), `"msg":"hello"`)
}
