// Package amazon fetches source product data (price and available
// quantity keyed by SKU) from the Amazon-side product feed.
package amazon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"

	"github.com/gradyserv/marketsync/internal/metrics"
	domain "github.com/gradyserv/marketsync/pkg/types"
)

// ErrProductNotFound is returned when the feed has no record for a SKU.
var ErrProductNotFound = errors.New("product not found in source feed")

const defaultTimeout = 15 * time.Second

// Client reads product records from the source feed over HTTP. Calls
// run through a circuit breaker so a degraded feed fails fast instead
// of stalling every sync pass behind timeouts.
type Client struct {
	http     *resty.Client
	breaker  *gobreaker.CircuitBreaker
	endpoint string
	apiKey   string
	log      *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithAPIKey sets the feed API key sent with every request.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.SetTimeout(d)
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// NewClient creates a feed client for the given base endpoint.
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		http: resty.New().
			SetTimeout(defaultTimeout).
			SetRetryCount(0),
		endpoint: endpoint,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "source-feed",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.log.Warn("source feed circuit state changed",
				"circuit", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})

	return c
}

// productResponse is one feed record. Quantity is left untyped because
// the feed has been observed returning it as a number, a float, or a
// quoted string depending on the upstream export.
type productResponse struct {
	SKU      string  `json:"sku"`
	Price    float64 `json:"price"`
	Quantity any     `json:"quantity"`
}

// fetchResult carries a 404 through the breaker as a success. A stale
// mapping is an expected per-SKU outcome, not feed degradation, so it
// must not count toward tripping the circuit.
type fetchResult struct {
	record   domain.ProductRecord
	notFound bool
}

// FetchProduct returns the current price and quantity for one SKU.
func (c *Client) FetchProduct(ctx context.Context, sku string) (domain.ProductRecord, error) {
	result, err := c.breaker.Execute(func() (any, error) {
		return c.fetch(ctx, sku)
	})
	if err != nil {
		metrics.SourceFetchErrorsTotal.Inc()
		if errors.Is(err, gobreaker.ErrOpenState) {
			return domain.ProductRecord{}, fmt.Errorf("source feed unavailable: %w", err)
		}
		return domain.ProductRecord{}, err
	}

	res := result.(fetchResult)
	if res.notFound {
		return domain.ProductRecord{}, fmt.Errorf("%w: %s", ErrProductNotFound, sku)
	}
	return res.record, nil
}

func (c *Client) fetch(ctx context.Context, sku string) (fetchResult, error) {
	req := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetPathParam("sku", sku)
	if c.apiKey != "" {
		req.SetHeader("X-Api-Key", c.apiKey)
	}

	resp, err := req.Get(c.endpoint + "/products/{sku}")
	if err != nil {
		return fetchResult{}, fmt.Errorf("fetching product %s: %w", sku, err)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return fetchResult{notFound: true}, nil
	case resp.StatusCode() != http.StatusOK:
		return fetchResult{}, fmt.Errorf(
			"source feed error for %s (status %d): %s",
			sku, resp.StatusCode(), resp.String(),
		)
	}

	var product productResponse
	if err := json.Unmarshal(resp.Body(), &product); err != nil {
		return fetchResult{}, fmt.Errorf("parsing product %s: %w", sku, err)
	}

	record := domain.ProductRecord{
		SKU:      sku,
		Price:    product.Price,
		Quantity: domain.NormalizeQuantity(product.Quantity),
	}
	if product.SKU != "" {
		record.SKU = product.SKU
	}
	return fetchResult{record: record}, nil
}
