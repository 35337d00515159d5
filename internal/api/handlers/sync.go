package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gradyserv/marketsync/internal/notify"
)

// SyncRunner defines the interface for triggering a full sync pass.
type SyncRunner interface {
	RunSync(ctx context.Context) (notify.SyncSummary, error)
}

// SyncHandler handles manual sync trigger requests.
type SyncHandler struct {
	runner SyncRunner
}

// NewSyncHandler creates a new SyncHandler.
func NewSyncHandler(r SyncRunner) *SyncHandler {
	return &SyncHandler{runner: r}
}

// SyncOutput is the response body for the sync endpoint.
type SyncOutput struct {
	Body struct {
		Total     int    `json:"total"     example:"42"    doc:"Enabled mappings visited"`
		Succeeded int    `json:"succeeded" example:"40"    doc:"Mappings revised successfully"`
		Failed    int    `json:"failed"    example:"2"     doc:"Mappings that failed"`
		Duration  string `json:"duration"  example:"52.3s" doc:"Wall-clock duration of the pass"`
	}
}

// Sync runs one full sync pass over all enabled mappings.
func (h *SyncHandler) Sync(ctx context.Context, _ *struct{}) (*SyncOutput, error) {
	summary, err := h.runner.RunSync(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("sync failed: " + err.Error())
	}

	resp := &SyncOutput{}
	resp.Body.Total = summary.Total
	resp.Body.Succeeded = summary.Succeeded
	resp.Body.Failed = summary.Failed
	resp.Body.Duration = summary.Duration
	return resp, nil
}

// RegisterSyncRoutes registers the sync trigger endpoint with the Huma API.
func RegisterSyncRoutes(api huma.API, h *SyncHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "trigger-sync",
		Method:      http.MethodPost,
		Path:        "/api/v1/sync",
		Summary:     "Trigger a sync pass",
		Description: "Fetches source price and quantity for every enabled mapping and " +
			"pushes the resulting revisions through the serialization queue.",
		Tags:   []string{"sync"},
		Errors: []int{http.StatusInternalServerError},
	}, h.Sync)
}
