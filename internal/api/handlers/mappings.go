package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gradyserv/marketsync/internal/store"
	domain "github.com/gradyserv/marketsync/pkg/types"
)

// MappingHandler handles sync mapping CRUD.
type MappingHandler struct {
	store store.Store
}

func NewMappingHandler(s store.Store) *MappingHandler {
	return &MappingHandler{store: s}
}

// List handles GET /api/v1/mappings. Passing ?enabled=true restricts
// the result to mappings the sync engine will pick up.
func (h *MappingHandler) List(c echo.Context) error {
	enabledOnly := c.QueryParam("enabled") == "true"

	mappings, err := h.store.ListMappings(c.Request().Context(), enabledOnly)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "listing mappings: " + err.Error()})
	}
	if mappings == nil {
		mappings = []domain.SyncMapping{}
	}
	return c.JSON(http.StatusOK, mappings)
}

// Get handles GET /api/v1/mappings/:id.
func (h *MappingHandler) Get(c echo.Context) error {
	m, err := h.store.GetMapping(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: "mapping not found"})
		}
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "getting mapping: " + err.Error()})
	}
	return c.JSON(http.StatusOK, m)
}

// Create handles POST /api/v1/mappings.
func (h *MappingHandler) Create(c echo.Context) error {
	var m domain.SyncMapping
	if err := c.Bind(&m); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
	}
	if err := m.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	if err := h.store.CreateMapping(c.Request().Context(), &m); err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "creating mapping: " + err.Error()})
	}
	return c.JSON(http.StatusCreated, m)
}

// Update handles PUT /api/v1/mappings/:id. The path ID wins over any
// ID carried in the body.
func (h *MappingHandler) Update(c echo.Context) error {
	var m domain.SyncMapping
	if err := c.Bind(&m); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
	}

	m.ID = c.Param("id")
	if err := m.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	if err := h.store.UpdateMapping(c.Request().Context(), &m); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: "mapping not found"})
		}
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "updating mapping: " + err.Error()})
	}
	return c.JSON(http.StatusOK, m)
}

type setEnabledRequest struct {
	Enabled bool `json:"enabled"`
}

// SetEnabled handles PUT /api/v1/mappings/:id/enabled.
func (h *MappingHandler) SetEnabled(c echo.Context) error {
	var req setEnabledRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
	}

	if err := h.store.SetMappingEnabled(c.Request().Context(), c.Param("id"), req.Enabled); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: "mapping not found"})
		}
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "setting mapping enabled: " + err.Error()})
	}
	return c.JSON(http.StatusOK, StatusResponse{Status: "updated"})
}

// Delete handles DELETE /api/v1/mappings/:id.
func (h *MappingHandler) Delete(c echo.Context) error {
	if err := h.store.DeleteMapping(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: "mapping not found"})
		}
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "deleting mapping: " + err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}
