// Package notify defines the notification interface and implementations
// for revision failure alerts and sync summaries.
package notify

import (
	"context"

	domain "github.com/gradyserv/marketsync/pkg/types"
)

// FailurePayload contains the data needed to report a failed revision.
type FailurePayload struct {
	ListingID string
	SourceSKU string
	Strategy  domain.RevisionStrategy
	Status    domain.RevisionStatus
	Quantity  int
	Price     *float64
	ErrorText string
}

// SyncSummary describes the outcome of one full sync pass.
type SyncSummary struct {
	Total     int
	Succeeded int
	Failed    int
	Duration  string
}

// Notifier defines the interface for delivering operational notifications.
type Notifier interface {
	SendFailure(ctx context.Context, failure *FailurePayload) error
	SendSyncSummary(ctx context.Context, summary SyncSummary) error
}
