package ebay

import (
	"errors"
	"fmt"
)

// ErrDailyLimitReached is returned when the daily Trading API quota has
// been exhausted.
var ErrDailyLimitReached = errors.New("daily API limit reached")

// RemoteError is a business failure acknowledged by the Trading API:
// the call reached eBay but the response Ack reported failure. Raw
// carries the full response body for diagnostics.
type RemoteError struct {
	Call    string
	Code    string
	Message string
	Raw     []byte
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("ebay %s rejected (code %s): %s", e.Call, e.Code, e.Message)
}

// ClassificationError wraps a failed or unparseable listing read. The
// revision is aborted before any write is attempted.
type ClassificationError struct {
	ListingID string
	Err       error
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("classifying listing %s: %v", e.ListingID, e.Err)
}

func (e *ClassificationError) Unwrap() error { return e.Err }

// OfferSyncError reports that the offer quantity write failed after the
// primary listing write already succeeded. Callers must be able to tell
// this partial success apart from total failure.
type OfferSyncError struct {
	OfferID string
	Err     error
}

func (e *OfferSyncError) Error() string {
	return fmt.Sprintf("listing updated but offer %s quantity sync failed: %v", e.OfferID, e.Err)
}

func (e *OfferSyncError) Unwrap() error { return e.Err }
