package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recoverRequest(t *testing.T, method, path string, h echo.HandlerFunc) (*httptest.ResponseRecorder, string) {
	t.Helper()

	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(method, path, http.NoBody), rec)

	require.NoError(t, Recovery(log)(h)(c))
	return rec, buf.String()
}

func TestRecovery(t *testing.T) {
	t.Parallel()

	t.Run("no panic passes through silently", func(t *testing.T) {
		t.Parallel()
		rec, logged := recoverRequest(t, http.MethodGet, "/test", func(c echo.Context) error {
			return c.String(http.StatusOK, "ok")
		})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, logged)
	})

	t.Run("panic becomes a 500 and is logged with request context", func(t *testing.T) {
		t.Parallel()
		rec, logged := recoverRequest(t, http.MethodPost, "/api/v1/revise", func(echo.Context) error {
			panic("boom")
		})
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "internal server error")
		assert.Contains(t, logged, "panic recovered")
		assert.Contains(t, logged, "boom")
		assert.Contains(t, logged, "path=/api/v1/revise")
		assert.Contains(t, logged, "method=POST")
	})

	t.Run("non-string panic value is formatted", func(t *testing.T) {
		t.Parallel()
		rec, logged := recoverRequest(t, http.MethodGet, "/crash", func(echo.Context) error {
			panic(42)
		})
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, logged, "42")
	})
}
