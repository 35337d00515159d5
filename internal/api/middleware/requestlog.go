package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const requestIDHeader = "X-Request-ID"

// RequestLog returns Echo middleware that logs requests with structured
// fields. It generates a request ID if none is provided and propagates it
// through the response header and echo context.
//
// Health probe paths are special-cased: repeated successful probes collapse
// to a single log line so that a 5s kubelet interval does not flood the
// output. Probe failures are always logged.
func RequestLog(log *slog.Logger) echo.MiddlewareFunc {
	var mu sync.Mutex
	probeLogged := make(map[string]bool)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			reqID := c.Request().Header.Get(requestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}

			c.Set("request_id", reqID)
			c.Response().Header().Set(requestIDHeader, reqID)

			err := next(c)

			path := c.Request().URL.Path
			status := c.Response().Status
			failed := status >= http.StatusInternalServerError

			if isProbePath(path) {
				mu.Lock()
				if failed {
					probeLogged[path] = false
				} else if probeLogged[path] {
					mu.Unlock()
					return err
				} else {
					probeLogged[path] = true
				}
				mu.Unlock()
			}

			level := slog.LevelInfo
			if failed {
				level = slog.LevelWarn
			}

			log.Log(c.Request().Context(), level, "request",
				"method", c.Request().Method,
				"path", path,
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", reqID,
			)

			return err
		}
	}
}

func isProbePath(path string) bool {
	return path == "/healthz" || path == "/readyz"
}
