package client

import (
	"context"
	"time"
)

// QuotaStatus is the Trading API quota and pipeline status.
type QuotaStatus struct {
	DailyLimit  int64     `json:"daily_limit"`
	DailyUsed   int64     `json:"daily_used"`
	Remaining   int64     `json:"remaining"`
	ResetAt     time.Time `json:"reset_at"`
	QueueDepth  int       `json:"queue_depth"`
	CachedItems int       `json:"cached_items"`
}

// Quota returns the current Trading API quota status.
func (c *Client) Quota(ctx context.Context) (*QuotaStatus, error) {
	var q QuotaStatus
	if err := c.get(ctx, "/api/v1/quota", &q); err != nil {
		return nil, err
	}
	return &q, nil
}

// SyncResult summarizes one triggered sync pass.
type SyncResult struct {
	Total     int    `json:"total"`
	Succeeded int    `json:"succeeded"`
	Failed    int    `json:"failed"`
	Duration  string `json:"duration"`
}

// TriggerSync runs a full sync pass on the server.
func (c *Client) TriggerSync(ctx context.Context) (*SyncResult, error) {
	var r SyncResult
	if err := c.post(ctx, "/api/v1/sync", nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// ReviseRequest is the body for an ad-hoc revision.
type ReviseRequest struct {
	ListingID      string   `json:"listing_id"`
	Price          *float64 `json:"price,omitempty"`
	Quantity       int      `json:"quantity"`
	SourceSKU      string   `json:"source_sku,omitempty"`
	OfferID        string   `json:"offer_id,omitempty"`
	VariationName  string   `json:"variation_name,omitempty"`
	VariationValue string   `json:"variation_value,omitempty"`
}

// ReviseResult reports the outcome of an ad-hoc revision.
type ReviseResult struct {
	Strategy string `json:"strategy"`
	Status   string `json:"status"`
}

// Revise pushes a single revision through the server's queue.
func (c *Client) Revise(ctx context.Context, req ReviseRequest) (*ReviseResult, error) {
	var r ReviseResult
	if err := c.post(ctx, "/api/v1/revise", req, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
