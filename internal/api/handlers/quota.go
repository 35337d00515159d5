package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gradyserv/marketsync/internal/ebay"
)

// QuotaHandler exposes the Trading API quota and pipeline status.
type QuotaHandler struct {
	gov        *ebay.Governor
	queue      *ebay.Queue
	classifier *ebay.Classifier
}

// NewQuotaHandler creates a new QuotaHandler. Any of the collaborators
// may be nil; the corresponding fields report zero.
func NewQuotaHandler(gov *ebay.Governor, q *ebay.Queue, cl *ebay.Classifier) *QuotaHandler {
	return &QuotaHandler{gov: gov, queue: q, classifier: cl}
}

// QuotaOutput is the response body for the quota endpoint.
type QuotaOutput struct {
	Body struct {
		DailyLimit   int64     `json:"daily_limit"   example:"5000"                 doc:"Configured daily Trading API call limit"`
		DailyUsed    int64     `json:"daily_used"    example:"142"                  doc:"Trading API calls used in the current 24-hour window"`
		Remaining    int64     `json:"remaining"     example:"4858"                 doc:"Trading API calls remaining in the current window"`
		ResetAt      time.Time `json:"reset_at"      example:"2026-08-28T14:30:00Z" doc:"When the current 24-hour window expires"`
		QueueDepth   int       `json:"queue_depth"   example:"3"                    doc:"Revisions waiting in the serialization queue"`
		CachedItems  int       `json:"cached_items"  example:"27"                   doc:"Listings with a memoized classification"`
	}
}

// GetQuota returns the current Trading API quota and queue status.
func (h *QuotaHandler) GetQuota(_ context.Context, _ *struct{}) (*QuotaOutput, error) {
	resp := &QuotaOutput{}

	if h.gov != nil {
		resp.Body.DailyLimit = h.gov.MaxDaily()
		resp.Body.DailyUsed = h.gov.DailyCount()
		resp.Body.Remaining = h.gov.Remaining()
		resp.Body.ResetAt = h.gov.ResetAt()
	}
	if h.queue != nil {
		resp.Body.QueueDepth = h.queue.Depth()
	}
	if h.classifier != nil {
		resp.Body.CachedItems = h.classifier.CacheSize()
	}

	return resp, nil
}

// RegisterQuotaRoutes registers the quota endpoint with the Huma API.
func RegisterQuotaRoutes(api huma.API, h *QuotaHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "get-quota",
		Method:      http.MethodGet,
		Path:        "/api/v1/quota",
		Summary:     "Get Trading API quota status",
		Description: "Returns the current daily call usage, remaining quota, window reset time, and revision queue depth.",
		Tags:        []string{"ebay"},
	}, h.GetQuota)
}
