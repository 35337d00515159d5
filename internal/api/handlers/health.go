package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gradyserv/marketsync/internal/store"
)

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	store store.Store
}

func NewHealthHandler(s store.Store) *HealthHandler {
	return &HealthHandler{store: s}
}

// Healthz reports that the process is up. It never fails.
func (*HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, StatusResponse{Status: "ok"})
}

// Readyz reports whether the service can do useful work, which for
// marketsync means the database answers a ping.
func (h *HealthHandler) Readyz(c echo.Context) error {
	if err := h.store.Ping(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, StatusResponse{Status: "unavailable"})
	}
	return c.JSON(http.StatusOK, StatusResponse{Status: "ready"})
}
