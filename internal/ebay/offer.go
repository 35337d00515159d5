package ebay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultInventoryURL = "https://api.ebay.com/sell/inventory/v1"
	defaultMarketplace  = "EBAY_US"
)

// RESTOfferClient implements OfferClient against the eBay Sell Inventory
// API. A failed write is a hard failure; retries, if any, belong to the
// caller.
type RESTOfferClient struct {
	tokens       TokenProvider
	inventoryURL string
	marketplace  string
	client       *http.Client
}

// OfferOption configures the RESTOfferClient.
type OfferOption func(*RESTOfferClient)

// WithInventoryURL overrides the default Sell Inventory API base URL.
func WithInventoryURL(u string) OfferOption {
	return func(c *RESTOfferClient) {
		c.inventoryURL = u
	}
}

// WithOfferMarketplace overrides the default marketplace.
func WithOfferMarketplace(m string) OfferOption {
	return func(c *RESTOfferClient) {
		c.marketplace = m
	}
}

// WithOfferHTTPClient overrides the default HTTP client.
func WithOfferHTTPClient(hc *http.Client) OfferOption {
	return func(c *RESTOfferClient) {
		c.client = hc
	}
}

// NewRESTOfferClient creates a new offer quantity synchronizer.
func NewRESTOfferClient(tokens TokenProvider, opts ...OfferOption) *RESTOfferClient {
	c := &RESTOfferClient{
		tokens:       tokens,
		inventoryURL: defaultInventoryURL,
		marketplace:  defaultMarketplace,
		client:       &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type offerQuantityBody struct {
	AvailableQuantity int `json:"availableQuantity"`
}

// SetOfferQuantity writes the new available quantity to the offer
// resource. Any non-success transport status is returned as an error.
func (c *RESTOfferClient) SetOfferQuantity(ctx context.Context, offerID string, quantity int) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("getting auth token: %w", err)
	}

	payload, err := json.Marshal(offerQuantityBody{AvailableQuantity: quantity})
	if err != nil {
		return fmt.Errorf("marshaling offer quantity: %w", err)
	}

	u := c.inventoryURL + "/offer/" + url.PathEscape(offerID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating offer request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-EBAY-C-MARKETPLACE-ID", c.marketplace)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("executing offer request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(resp.Body) //nolint:errcheck // best-effort diagnostics
		return fmt.Errorf(
			"offer API error (status %d): %s",
			resp.StatusCode, string(body),
		)
	}

	return nil
}
