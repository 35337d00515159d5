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

// loggedHandler wires RequestLog around a fixed-status handler and
// captures the log output.
type loggedHandler struct {
	buf     bytes.Buffer
	e       *echo.Echo
	handler echo.HandlerFunc
}

func newLoggedHandler(t *testing.T, next echo.HandlerFunc) *loggedHandler {
	t.Helper()
	lh := &loggedHandler{e: echo.New()}
	log := slog.New(slog.NewTextHandler(&lh.buf, nil))
	lh.handler = RequestLog(log)(next)
	return lh
}

func (lh *loggedHandler) serve(t *testing.T, method, path string, hdr map[string]string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(method, path, http.NoBody)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	c := lh.e.NewContext(req, rec)
	require.NoError(t, lh.handler(c))
	return c, rec
}

func constStatus(status int) echo.HandlerFunc {
	return func(c echo.Context) error { return c.NoContent(status) }
}

func TestRequestLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		method        string
		path          string
		status        int
		providedReqID string
		wantLogFields []string
	}{
		{
			name:   "logs GET request with generated ID",
			method: http.MethodGet,
			path:   "/api/v1/mappings",
			status: http.StatusOK,
			wantLogFields: []string{
				"method=GET", "path=/api/v1/mappings", "status=200",
				"duration_ms=", "request_id=",
			},
		},
		{
			name:          "logs POST request",
			method:        http.MethodPost,
			path:          "/api/v1/revise",
			status:        http.StatusAccepted,
			wantLogFields: []string{"method=POST", "status=202"},
		},
		{
			name:          "uses provided request ID",
			method:        http.MethodGet,
			path:          "/test",
			status:        http.StatusOK,
			providedReqID: "custom-req-id-123",
			wantLogFields: []string{"request_id=custom-req-id-123"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			lh := newLoggedHandler(t, constStatus(tt.status))
			var hdr map[string]string
			if tt.providedReqID != "" {
				hdr = map[string]string{requestIDHeader: tt.providedReqID}
			}
			c, rec := lh.serve(t, tt.method, tt.path, hdr)

			for _, field := range tt.wantLogFields {
				assert.Contains(t, lh.buf.String(), field)
			}

			respID := rec.Header().Get(requestIDHeader)
			assert.NotEmpty(t, respID)
			if tt.providedReqID != "" {
				assert.Equal(t, tt.providedReqID, respID)
			}
			assert.NotEmpty(t, c.Get("request_id"))
		})
	}
}

func TestRequestLog_ProbeSuccessesCollapsed(t *testing.T) {
	t.Parallel()

	lh := newLoggedHandler(t, constStatus(http.StatusOK))
	lh.serve(t, http.MethodGet, "/healthz", nil)

	assert.Contains(t, lh.buf.String(), "path=/healthz")
	assert.Contains(t, lh.buf.String(), "status=200")

	firstLen := lh.buf.Len()
	for range 3 {
		lh.serve(t, http.MethodGet, "/healthz", nil)
	}
	assert.Equal(t, firstLen, lh.buf.Len(),
		"repeated successful probes should not produce log output")
}

func TestRequestLog_ProbeFailuresAlwaysLogged(t *testing.T) {
	t.Parallel()

	lh := newLoggedHandler(t, constStatus(http.StatusServiceUnavailable))
	lh.serve(t, http.MethodGet, "/readyz", nil)

	assert.Contains(t, lh.buf.String(), "path=/readyz")
	assert.Contains(t, lh.buf.String(), "status=503")
	assert.Contains(t, lh.buf.String(), "level=WARN")

	firstLen := lh.buf.Len()
	lh.serve(t, http.MethodGet, "/readyz", nil)
	assert.Greater(t, lh.buf.Len(), firstLen, "failed probes should always be logged")
}

func TestRequestLog_RecoveryAfterFailureLogged(t *testing.T) {
	t.Parallel()

	calls := 0
	lh := newLoggedHandler(t, func(c echo.Context) error {
		calls++
		if calls == 2 {
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})

	for range 3 {
		lh.serve(t, http.MethodGet, "/readyz", nil)
	}

	// ok, failure, ok-again: all three transitions should be visible.
	assert.Equal(t, 3, bytes.Count(lh.buf.Bytes(), []byte("path=/readyz")))
}

func TestRequestLog_NonProbePathAlwaysLogged(t *testing.T) {
	t.Parallel()

	lh := newLoggedHandler(t, constStatus(http.StatusOK))
	lh.serve(t, http.MethodGet, "/api/v1/mappings", nil)

	firstLen := lh.buf.Len()
	assert.Positive(t, firstLen)

	lh.serve(t, http.MethodGet, "/api/v1/mappings", nil)
	assert.Greater(t, lh.buf.Len(), firstLen)
}
