package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gradyserv/marketsync/internal/store"
	domain "github.com/gradyserv/marketsync/pkg/types"
)

// RevisionsHandler handles revision history queries.
type RevisionsHandler struct {
	store store.Store
}

// NewRevisionsHandler creates a new RevisionsHandler.
func NewRevisionsHandler(s store.Store) *RevisionsHandler {
	return &RevisionsHandler{store: s}
}

// ListRevisionsInput is the input for listing revisions with optional filters.
type ListRevisionsInput struct {
	ListingID string `query:"listing_id" doc:"Filter by eBay item ID"`
	SourceSKU string `query:"source_sku" doc:"Filter by source SKU"`
	Status    string `query:"status"     doc:"Filter by outcome"               enum:"succeeded,failed,offer_sync_failed,"`
	Limit     int    `query:"limit"      doc:"Number of results (default 50)"                                              minimum:"1" maximum:"500"`
	Offset    int    `query:"offset"     doc:"Pagination offset"                                                           minimum:"0"`
}

// ListRevisionsOutput is the response for listing revisions.
type ListRevisionsOutput struct {
	Body struct {
		Revisions []domain.RevisionRecord `json:"revisions"`
		Total     int                     `json:"total"`
		Limit     int                     `json:"limit"`
		Offset    int                     `json:"offset"`
	}
}

// RevisionStatsOutput is the response for revision outcome counts.
type RevisionStatsOutput struct {
	Body struct {
		Counts map[string]int `json:"counts" doc:"Revision counts keyed by outcome"`
	}
}

// ListRevisions returns revision history with optional filters for listing,
// SKU, outcome, and pagination.
func (h *RevisionsHandler) ListRevisions(
	ctx context.Context,
	input *ListRevisionsInput,
) (*ListRevisionsOutput, error) {
	q := &store.RevisionQuery{
		Offset: input.Offset,
	}

	if input.ListingID != "" {
		q.ListingID = &input.ListingID
	}

	if input.SourceSKU != "" {
		q.SourceSKU = &input.SourceSKU
	}

	if input.Status != "" {
		status := domain.RevisionStatus(input.Status)
		q.Status = &status
	}

	if input.Limit != 0 {
		q.Limit = input.Limit
	}

	revisions, total, err := h.store.ListRevisions(ctx, q)
	if err != nil {
		return nil, huma.Error500InternalServerError("revision query failed: " + err.Error())
	}

	if revisions == nil {
		revisions = []domain.RevisionRecord{}
	}

	resp := &ListRevisionsOutput{}
	resp.Body.Revisions = revisions
	resp.Body.Total = total
	resp.Body.Limit = q.Limit
	resp.Body.Offset = q.Offset

	return resp, nil
}

// RevisionStats returns revision counts grouped by outcome.
func (h *RevisionsHandler) RevisionStats(
	ctx context.Context,
	_ *struct{},
) (*RevisionStatsOutput, error) {
	counts, err := h.store.CountRevisionsByStatus(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("revision stats failed: " + err.Error())
	}

	resp := &RevisionStatsOutput{}
	resp.Body.Counts = counts
	return resp, nil
}

// RegisterRevisionRoutes registers revision history endpoints with the Huma API.
func RegisterRevisionRoutes(api huma.API, h *RevisionsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-revisions",
		Method:      http.MethodGet,
		Path:        "/api/v1/revisions",
		Summary:     "List revisions",
		Description: "Returns revision history with optional filters for listing, SKU, outcome, and pagination.",
		Tags:        []string{"revisions"},
	}, h.ListRevisions)

	huma.Register(api, huma.Operation{
		OperationID: "revision-stats",
		Method:      http.MethodGet,
		Path:        "/api/v1/revisions/stats",
		Summary:     "Get revision outcome counts",
		Description: "Returns revision counts grouped by outcome across the full history.",
		Tags:        []string{"revisions"},
	}, h.RevisionStats)
}
