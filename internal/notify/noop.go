package notify

import (
	"context"
	"log/slog"
)

// NoOpNotifier implements Notifier by logging discarded notifications.
// It is used when Discord (or another notification backend) is not
// configured.
type NoOpNotifier struct {
	log *slog.Logger
}

// NewNoOpNotifier creates a notifier that discards notifications with a
// log message.
func NewNoOpNotifier(log *slog.Logger) *NoOpNotifier {
	return &NoOpNotifier{log: log}
}

// SendFailure logs and discards a failure notification.
func (n *NoOpNotifier) SendFailure(_ context.Context, failure *FailurePayload) error {
	n.log.Debug("notification discarded (no backend configured)",
		"listing_id", failure.ListingID,
		"source_sku", failure.SourceSKU,
		"status", string(failure.Status),
	)
	return nil
}

// SendSyncSummary logs and discards a sync summary.
func (n *NoOpNotifier) SendSyncSummary(_ context.Context, summary SyncSummary) error {
	n.log.Debug("sync summary discarded (no backend configured)",
		"total", summary.Total,
		"failed", summary.Failed,
	)
	return nil
}
