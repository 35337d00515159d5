package client

import (
	"context"
	"fmt"

	domain "github.com/gradyserv/marketsync/pkg/types"
)

// mappingRequest contains only the fields the API accepts for create/update.
type mappingRequest struct {
	SourceSKU      string `json:"source_sku,omitempty"`
	ListingID      string `json:"listing_id,omitempty"`
	OfferID        string `json:"offer_id,omitempty"`
	VariationName  string `json:"variation_name,omitempty"`
	VariationValue string `json:"variation_value,omitempty"`
	SyncPrice      bool   `json:"sync_price,omitempty"`
	Enabled        bool   `json:"enabled,omitempty"`
}

func newMappingRequest(m *domain.SyncMapping) mappingRequest {
	return mappingRequest{
		SourceSKU:      m.SourceSKU,
		ListingID:      m.ListingID,
		OfferID:        m.OfferID,
		VariationName:  m.VariationName,
		VariationValue: m.VariationValue,
		SyncPrice:      m.SyncPrice,
		Enabled:        m.Enabled,
	}
}

// ListMappings returns all sync mappings.
func (c *Client) ListMappings(ctx context.Context) ([]domain.SyncMapping, error) {
	var mappings []domain.SyncMapping
	if err := c.get(ctx, "/api/v1/mappings", &mappings); err != nil {
		return nil, err
	}
	return mappings, nil
}

// GetMapping returns a single mapping by ID.
func (c *Client) GetMapping(ctx context.Context, id string) (*domain.SyncMapping, error) {
	var m domain.SyncMapping
	if err := c.get(ctx, "/api/v1/mappings/"+id, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateMapping creates a new sync mapping.
func (c *Client) CreateMapping(
	ctx context.Context,
	m *domain.SyncMapping,
) (*domain.SyncMapping, error) {
	var created domain.SyncMapping
	if err := c.post(ctx, "/api/v1/mappings", newMappingRequest(m), &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateMapping updates an existing sync mapping.
func (c *Client) UpdateMapping(
	ctx context.Context,
	m *domain.SyncMapping,
) (*domain.SyncMapping, error) {
	var updated domain.SyncMapping
	if err := c.put(ctx, "/api/v1/mappings/"+m.ID, newMappingRequest(m), &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// SetMappingEnabled enables or disables a mapping.
func (c *Client) SetMappingEnabled(ctx context.Context, id string, enabled bool) error {
	body := map[string]bool{"enabled": enabled}
	return c.put(ctx, fmt.Sprintf("/api/v1/mappings/%s/enabled", id), body, nil)
}

// DeleteMapping deletes a mapping by ID.
func (c *Client) DeleteMapping(ctx context.Context, id string) error {
	return c.del(ctx, "/api/v1/mappings/"+id)
}
