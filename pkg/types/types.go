// Package domain defines the core business types for marketsync.
package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// RevisionStrategy identifies which update path the planner chose for a
// revision.
type RevisionStrategy string

// Revision strategy constants.
const (
	StrategyVariation     RevisionStrategy = "variation"
	StrategyPriceQuantity RevisionStrategy = "price_quantity"
	StrategyQuantityOnly  RevisionStrategy = "quantity_only"
)

// RevisionStatus is the recorded outcome of a revision attempt.
type RevisionStatus string

// Revision status constants.
const (
	RevisionSucceeded       RevisionStatus = "succeeded"
	RevisionFailed          RevisionStatus = "failed"
	RevisionOfferSyncFailed RevisionStatus = "offer_sync_failed"
)

// ErrMissingListingID is returned when a revision request has no target
// listing.
var ErrMissingListingID = errors.New("parent listing id is required")

// RevisionRequest is the input to the listing revision engine. Quantity
// is expected to already be normalized via NormalizeQuantity; Validate
// re-clamps it so a negative value can never reach the wire.
type RevisionRequest struct {
	ParentListingID string
	Price           *float64
	Quantity        int
	SourceSKU       string
	OfferID         string
	VariationName   string
	VariationValue  string
}

// Validate checks the request at the engine boundary and clamps the
// quantity to a non-negative integer.
func (r *RevisionRequest) Validate() error {
	if strings.TrimSpace(r.ParentListingID) == "" {
		return ErrMissingListingID
	}
	if r.Quantity < 0 {
		r.Quantity = 0
	}
	return nil
}

// HasVariation reports whether the request targets a specific variation:
// both the variation name and value must be non-empty after trimming.
func (r *RevisionRequest) HasVariation() bool {
	return strings.TrimSpace(r.VariationName) != "" &&
		strings.TrimSpace(r.VariationValue) != ""
}

// NormalizeQuantity coerces an arbitrary quantity value to a non-negative
// integer. Negative numbers, non-numeric strings, and nil all become 0;
// fractional values are floored.
func NormalizeQuantity(v any) int {
	switch q := v.(type) {
	case nil:
		return 0
	case int:
		return clampQuantity(q)
	case int32:
		return clampQuantity(int(q))
	case int64:
		return clampQuantity(int(q))
	case float32:
		return floorQuantity(float64(q))
	case float64:
		return floorQuantity(q)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(q), 64)
		if err != nil {
			return 0
		}
		return floorQuantity(f)
	default:
		return 0
	}
}

func clampQuantity(q int) int {
	if q < 0 {
		return 0
	}
	return q
}

func floorQuantity(f float64) int {
	if math.IsNaN(f) || f < 0 {
		return 0
	}
	return int(math.Floor(f))
}

// ListingProfile is the cached classification of a remote listing.
// Computed once per listing id and retained for the process lifetime.
type ListingProfile struct {
	IsVariation  bool
	IsSKUTracked bool
}

// ProductRecord is a price/quantity snapshot fetched from the source
// marketplace feed.
type ProductRecord struct {
	SKU      string  `json:"sku"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// SyncMapping links a source-marketplace SKU to a destination listing.
// OfferID and the variation fields are optional; when the variation pair
// is set the sync targets that variation within the parent listing.
type SyncMapping struct {
	ID             string     `json:"id"              db:"id"`
	SourceSKU      string     `json:"source_sku"      db:"source_sku"`
	ListingID      string     `json:"listing_id"      db:"listing_id"`
	OfferID        string     `json:"offer_id"        db:"offer_id"`
	VariationName  string     `json:"variation_name"  db:"variation_name"`
	VariationValue string     `json:"variation_value" db:"variation_value"`
	SyncPrice      bool       `json:"sync_price"      db:"sync_price"`
	Enabled        bool       `json:"enabled"         db:"enabled"`
	CreatedAt      time.Time  `json:"created_at"      db:"created_at"`
	LastSyncedAt   *time.Time `json:"last_synced_at"  db:"last_synced_at"`
}

// Validate checks a mapping before it is persisted.
func (m *SyncMapping) Validate() error {
	var errs []error
	if strings.TrimSpace(m.SourceSKU) == "" {
		errs = append(errs, fmt.Errorf("source_sku is required"))
	}
	if strings.TrimSpace(m.ListingID) == "" {
		errs = append(errs, fmt.Errorf("listing_id is required"))
	}
	return errors.Join(errs...)
}

// Request builds the revision request this mapping produces for a fetched
// product record.
func (m *SyncMapping) Request(rec ProductRecord) RevisionRequest {
	req := RevisionRequest{
		ParentListingID: m.ListingID,
		Quantity:        NormalizeQuantity(rec.Quantity),
		SourceSKU:       m.SourceSKU,
		OfferID:         m.OfferID,
		VariationName:   m.VariationName,
		VariationValue:  m.VariationValue,
	}
	if m.SyncPrice {
		price := rec.Price
		req.Price = &price
	}
	return req
}

// RevisionRecord is one persisted revision attempt.
type RevisionRecord struct {
	ID        string           `json:"id"         db:"id"`
	ListingID string           `json:"listing_id" db:"listing_id"`
	SourceSKU string           `json:"source_sku" db:"source_sku"`
	Price     *float64         `json:"price"      db:"price"`
	Quantity  int              `json:"quantity"   db:"quantity"`
	Strategy  RevisionStrategy `json:"strategy"   db:"strategy"`
	Status    RevisionStatus   `json:"status"     db:"status"`
	ErrorText string           `json:"error_text" db:"error_text"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
}
