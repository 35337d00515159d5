// Package engine orchestrates sync passes: it walks the configured SKU
// mappings, fetches fresh source data, and pushes revisions through the
// serialized revision queue.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gradyserv/marketsync/internal/ebay"
	"github.com/gradyserv/marketsync/internal/metrics"
	"github.com/gradyserv/marketsync/internal/notify"
	"github.com/gradyserv/marketsync/internal/store"
	domain "github.com/gradyserv/marketsync/pkg/types"
)

// ProductFetcher reads price/quantity snapshots from the source feed.
type ProductFetcher interface {
	FetchProduct(ctx context.Context, sku string) (domain.ProductRecord, error)
}

// RevisionSubmitter pushes a revision through the serialized queue and
// waits for its outcome.
type RevisionSubmitter interface {
	Do(ctx context.Context, req domain.RevisionRequest) (domain.RevisionStrategy, error)
}

// Engine orchestrates mapping sync passes and ad-hoc revisions.
type Engine struct {
	store    store.Store
	source   ProductFetcher
	queue    RevisionSubmitter
	notifier notify.Notifier
	log      *slog.Logger
	nowFunc  func() time.Time
}

// NewEngine creates a new Engine with injected dependencies.
func NewEngine(
	s store.Store,
	source ProductFetcher,
	queue RevisionSubmitter,
	n notify.Notifier,
	opts ...EngineOption,
) *Engine {
	eng := &Engine{
		store:    s,
		source:   source,
		queue:    queue,
		notifier: n,
		log:      slog.Default(),
		nowFunc:  time.Now,
	}
	for _, opt := range opts {
		opt(eng)
	}
	return eng
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.log = l
	}
}

// WithNowFunc overrides the time function for testing.
func WithNowFunc(f func() time.Time) EngineOption {
	return func(e *Engine) {
		e.nowFunc = f
	}
}

// RunSync executes one full sync pass over all enabled mappings. The
// pass stops early when the daily call quota is exhausted; any other
// per-mapping failure is recorded and the pass continues.
func (eng *Engine) RunSync(ctx context.Context) (notify.SyncSummary, error) {
	start := eng.nowFunc()
	defer func() {
		metrics.SyncDuration.Observe(time.Since(start).Seconds())
	}()

	mappings, err := eng.store.ListMappings(ctx, true)
	if err != nil {
		return notify.SyncSummary{}, fmt.Errorf("listing mappings: %w", err)
	}

	summary := notify.SyncSummary{Total: len(mappings)}

	for i := range mappings {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}

		m := &mappings[i]
		syncErr := eng.syncMapping(ctx, m)
		if syncErr == nil {
			summary.Succeeded++
			continue
		}

		summary.Failed++
		metrics.SyncErrorsTotal.Inc()

		if errors.Is(syncErr, ebay.ErrDailyLimitReached) {
			eng.log.Warn("daily API limit reached, stopping sync pass",
				"source_sku", m.SourceSKU,
				"processed", i+1,
				"total", len(mappings),
			)
			break
		}
		eng.log.Error("mapping sync failed",
			"source_sku", m.SourceSKU,
			"listing_id", m.ListingID,
			"error", syncErr,
		)
	}

	summary.Duration = time.Since(start).Round(time.Millisecond).String()

	if err := eng.notifier.SendSyncSummary(ctx, summary); err != nil {
		eng.log.Error("sending sync summary failed", "error", err)
	}

	return summary, nil
}

func (eng *Engine) syncMapping(ctx context.Context, m *domain.SyncMapping) error {
	record, err := eng.source.FetchProduct(ctx, m.SourceSKU)
	if err != nil {
		return fmt.Errorf("fetching source product: %w", err)
	}

	req := m.Request(record)

	strategy, reviseErr := eng.queue.Do(ctx, req)
	eng.recordRevision(ctx, req, strategy, reviseErr)

	if reviseErr != nil {
		eng.notifyFailure(ctx, req, strategy, reviseErr)
		return reviseErr
	}

	if err := eng.store.TouchMappingSynced(ctx, m.ID, eng.nowFunc()); err != nil {
		eng.log.Error("touching mapping failed", "mapping_id", m.ID, "error", err)
	}
	return nil
}

// ReviseOne pushes a single ad-hoc revision through the queue and
// records the outcome. It returns the chosen strategy.
func (eng *Engine) ReviseOne(
	ctx context.Context,
	req domain.RevisionRequest,
) (domain.RevisionStrategy, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	strategy, err := eng.queue.Do(ctx, req)
	eng.recordRevision(ctx, req, strategy, err)
	if err != nil {
		eng.notifyFailure(ctx, req, strategy, err)
	}
	return strategy, err
}

func (eng *Engine) recordRevision(
	ctx context.Context,
	req domain.RevisionRequest,
	strategy domain.RevisionStrategy,
	reviseErr error,
) {
	rec := &domain.RevisionRecord{
		ListingID: req.ParentListingID,
		SourceSKU: req.SourceSKU,
		Price:     req.Price,
		Quantity:  req.Quantity,
		Strategy:  strategy,
		Status:    statusFor(reviseErr),
	}
	if reviseErr != nil {
		rec.ErrorText = reviseErr.Error()
	}

	if err := eng.store.InsertRevision(ctx, rec); err != nil {
		eng.log.Error("recording revision failed",
			"listing_id", req.ParentListingID,
			"error", err,
		)
	}
}

func (eng *Engine) notifyFailure(
	ctx context.Context,
	req domain.RevisionRequest,
	strategy domain.RevisionStrategy,
	reviseErr error,
) {
	failure := &notify.FailurePayload{
		ListingID: req.ParentListingID,
		SourceSKU: req.SourceSKU,
		Strategy:  strategy,
		Status:    statusFor(reviseErr),
		Quantity:  req.Quantity,
		Price:     req.Price,
		ErrorText: reviseErr.Error(),
	}
	if err := eng.notifier.SendFailure(ctx, failure); err != nil {
		eng.log.Error("sending failure notification failed", "error", err)
	}
}

func statusFor(err error) domain.RevisionStatus {
	switch {
	case err == nil:
		return domain.RevisionSucceeded
	case isOfferSyncError(err):
		return domain.RevisionOfferSyncFailed
	default:
		return domain.RevisionFailed
	}
}

func isOfferSyncError(err error) bool {
	var offerErr *ebay.OfferSyncError
	return errors.As(err, &offerErr)
}
