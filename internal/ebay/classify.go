package ebay

import (
	"context"
	"encoding/xml"
	"fmt"
	"sync"

	"github.com/gradyserv/marketsync/internal/metrics"
	domain "github.com/gradyserv/marketsync/pkg/types"
)

// Classifier determines whether a remote listing is a multi-variation
// listing and whether its inventory is tracked by SKU. Results are
// memoized per listing id for the process lifetime; a revision never
// changes a listing's variation topology, so entries are not
// invalidated after writes. Failed reads are not cached.
type Classifier struct {
	trading *TradingClient

	mu    sync.Mutex
	cache map[string]domain.ListingProfile
}

// NewClassifier creates a Classifier backed by the given Trading client.
func NewClassifier(trading *TradingClient) *Classifier {
	return &Classifier{
		trading: trading,
		cache:   make(map[string]domain.ListingProfile),
	}
}

// getItemResponse is the subset of the GetItem response the classifier
// needs.
type getItemResponse struct {
	Item struct {
		InventoryTrackingMethod string `xml:"InventoryTrackingMethod"`
		Variations              struct {
			Variation []struct {
				SKU string `xml:"SKU"`
			} `xml:"Variation"`
		} `xml:"Variations"`
	} `xml:"Item"`
}

// Classify returns the listing's profile, issuing at most one remote
// GetItem read per listing id.
func (c *Classifier) Classify(ctx context.Context, listingID string) (domain.ListingProfile, error) {
	c.mu.Lock()
	if profile, ok := c.cache[listingID]; ok {
		c.mu.Unlock()
		metrics.ClassifyCacheHits.Inc()
		return profile, nil
	}
	c.mu.Unlock()

	metrics.ClassifyCacheMisses.Inc()

	profile, err := c.read(ctx, listingID)
	if err != nil {
		return domain.ListingProfile{}, &ClassificationError{ListingID: listingID, Err: err}
	}

	c.mu.Lock()
	// First writer wins if a concurrent read raced us here.
	if cached, ok := c.cache[listingID]; ok {
		profile = cached
	} else {
		c.cache[listingID] = profile
	}
	c.mu.Unlock()

	return profile, nil
}

func (c *Classifier) read(ctx context.Context, listingID string) (domain.ListingProfile, error) {
	inner := fmt.Sprintf(
		"<ItemID>%s</ItemID><DetailLevel>ReturnAll</DetailLevel>",
		EscapeXML(listingID),
	)

	body, err := c.trading.Call(ctx, "GetItem", inner)
	if err != nil {
		return domain.ListingProfile{}, err
	}
	if err := CheckAck("GetItem", body); err != nil {
		return domain.ListingProfile{}, err
	}

	var resp getItemResponse
	if err := xml.Unmarshal(body, &resp); err != nil {
		return domain.ListingProfile{}, fmt.Errorf("parsing GetItem response: %w", err)
	}

	return domain.ListingProfile{
		IsVariation:  len(resp.Item.Variations.Variation) > 1,
		IsSKUTracked: resp.Item.InventoryTrackingMethod == "SKU",
	}, nil
}

// CacheSize returns the number of memoized listing profiles.
func (c *Classifier) CacheSize() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.cache)
}
