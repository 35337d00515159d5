package client

import (
	"context"
	"net/url"
	"strconv"

	domain "github.com/gradyserv/marketsync/pkg/types"
)

// RevisionFilter defines optional filters for revision history queries.
type RevisionFilter struct {
	ListingID string
	SourceSKU string
	Status    string
	Limit     int
	Offset    int
}

// RevisionPage is one page of revision history.
type RevisionPage struct {
	Revisions []domain.RevisionRecord `json:"revisions"`
	Total     int                     `json:"total"`
	Limit     int                     `json:"limit"`
	Offset    int                     `json:"offset"`
}

// ListRevisions returns revision history matching the filter.
func (c *Client) ListRevisions(
	ctx context.Context,
	f RevisionFilter,
) (*RevisionPage, error) {
	q := url.Values{}
	if f.ListingID != "" {
		q.Set("listing_id", f.ListingID)
	}
	if f.SourceSKU != "" {
		q.Set("source_sku", f.SourceSKU)
	}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Offset > 0 {
		q.Set("offset", strconv.Itoa(f.Offset))
	}

	path := "/api/v1/revisions"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var page RevisionPage
	if err := c.get(ctx, path, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// RevisionStats returns revision counts grouped by outcome.
func (c *Client) RevisionStats(ctx context.Context) (map[string]int, error) {
	var out struct {
		Counts map[string]int `json:"counts"`
	}
	if err := c.get(ctx, "/api/v1/revisions/stats", &out); err != nil {
		return nil, err
	}
	return out.Counts, nil
}
