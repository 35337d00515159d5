// Package ebay implements the listing revision engine: a rate-governed
// XML Trading API client, a memoizing listing classifier, the revision
// planner, a global serialization queue, and the REST offer quantity
// synchronizer.
package ebay

import (
	"context"

	domain "github.com/gradyserv/marketsync/pkg/types"
)

// Reviser applies one price/quantity revision to a remote listing.
type Reviser interface {
	Revise(ctx context.Context, req domain.RevisionRequest) (domain.RevisionStrategy, error)
}

// ListingClassifier resolves a listing id to its cached profile.
type ListingClassifier interface {
	Classify(ctx context.Context, listingID string) (domain.ListingProfile, error)
}

// OfferClient propagates a quantity change to a REST-side offer resource.
type OfferClient interface {
	SetOfferQuantity(ctx context.Context, offerID string, quantity int) error
}

// TokenProvider defines the interface for obtaining OAuth2 tokens.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}
