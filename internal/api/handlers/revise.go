package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gradyserv/marketsync/internal/ebay"
	domain "github.com/gradyserv/marketsync/pkg/types"
)

// Submitter defines the interface for pushing a single revision through
// the serialization queue.
type Submitter interface {
	ReviseOne(ctx context.Context, req domain.RevisionRequest) (domain.RevisionStrategy, error)
}

// ReviseHandler handles ad-hoc revision requests.
type ReviseHandler struct {
	submitter Submitter
}

// NewReviseHandler creates a new ReviseHandler.
func NewReviseHandler(s Submitter) *ReviseHandler {
	return &ReviseHandler{submitter: s}
}

// ReviseInput is the request body for an ad-hoc revision.
type ReviseInput struct {
	Body struct {
		ListingID      string   `json:"listing_id"                example:"254123456789" doc:"eBay item ID to revise"`
		Price          *float64 `json:"price,omitempty"           example:"19.99"        doc:"New fixed price; omit to leave the price untouched"`
		Quantity       int      `json:"quantity"                  example:"12"           doc:"New available quantity"                               minimum:"0"`
		SourceSKU      string   `json:"source_sku,omitempty"      example:"AMZ-B07XYZ"   doc:"Seller SKU for SKU-tracked listings"`
		OfferID        string   `json:"offer_id,omitempty"        example:"8654321010"   doc:"Inventory API offer to mirror the quantity into"`
		VariationName  string   `json:"variation_name,omitempty"  example:"Size"         doc:"Variation axis name"`
		VariationValue string   `json:"variation_value,omitempty" example:"Large"        doc:"Variation axis value"`
	}
}

// ReviseOutput is the response body for an ad-hoc revision.
type ReviseOutput struct {
	Body struct {
		Strategy string `json:"strategy" example:"price_quantity" doc:"Revision strategy that was executed"`
		Status   string `json:"status"   example:"succeeded"      doc:"Outcome of the revision"`
	}
}

// Revise pushes one revision through the queue and waits for its outcome.
func (h *ReviseHandler) Revise(ctx context.Context, input *ReviseInput) (*ReviseOutput, error) {
	req := domain.RevisionRequest{
		ParentListingID: input.Body.ListingID,
		Price:           input.Body.Price,
		Quantity:        input.Body.Quantity,
		SourceSKU:       input.Body.SourceSKU,
		OfferID:         input.Body.OfferID,
		VariationName:   input.Body.VariationName,
		VariationValue:  input.Body.VariationValue,
	}

	strategy, err := h.submitter.ReviseOne(ctx, req)

	resp := &ReviseOutput{}
	resp.Body.Strategy = string(strategy)
	resp.Body.Status = string(domain.RevisionSucceeded)

	if err != nil {
		// The listing itself was revised; only the offer mirror failed.
		// Report the partial outcome instead of an opaque 5xx.
		var offerErr *ebay.OfferSyncError
		if errors.As(err, &offerErr) {
			resp.Body.Status = string(domain.RevisionOfferSyncFailed)
			return resp, nil
		}
		return nil, reviseError(err)
	}

	return resp, nil
}

func reviseError(err error) error {
	var remote *ebay.RemoteError

	switch {
	case errors.Is(err, domain.ErrMissingListingID):
		return huma.Error422UnprocessableEntity(err.Error())
	case errors.Is(err, ebay.ErrDailyLimitReached):
		return huma.Error429TooManyRequests(err.Error())
	case errors.As(err, &remote):
		return huma.Error502BadGateway("revision rejected: " + remote.Error())
	default:
		return huma.Error500InternalServerError("revision failed: " + err.Error())
	}
}

// RegisterReviseRoutes registers the revision endpoint with the Huma API.
func RegisterReviseRoutes(api huma.API, h *ReviseHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "revise-listing",
		Method:      http.MethodPost,
		Path:        "/api/v1/revise",
		Summary:     "Revise a listing",
		Description: "Pushes a single price/quantity revision through the serialization queue " +
			"and waits for the Trading API outcome.",
		Tags: []string{"revisions"},
		Errors: []int{
			http.StatusUnprocessableEntity,
			http.StatusTooManyRequests,
			http.StatusBadGateway,
			http.StatusInternalServerError,
		},
	}, h.Revise)
}
