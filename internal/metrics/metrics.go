// Package metrics defines Prometheus metrics for marketsync.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "marketsync"

// HTTP metrics.
var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})

	HealthzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "healthz_up",
		Help:      "1 if the last /healthz probe returned OK, 0 otherwise.",
	})

	ReadyzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "readyz_up",
		Help:      "1 if the last /readyz probe returned OK, 0 otherwise.",
	})
)

// Trading API metrics.
var (
	TradingCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "trading_calls_total",
		Help:      "Total eBay Trading API calls issued, by call name.",
	}, []string{"call"})

	ThrottleRetriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "throttle_retries_total",
		Help:      "Total Trading API calls retried after a throttle response.",
	})

	TradingDailyUsage = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "trading_daily_usage",
		Help:      "Trading API calls issued within the rolling 24-hour window.",
	})

	TradingDailyLimitHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "trading_daily_limit_hits_total",
		Help:      "Total times the daily Trading API quota was exhausted.",
	})
)

// Classification cache metrics.
var (
	ClassifyCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "classify_cache_hits_total",
		Help:      "Listing classifications served from the in-process cache.",
	})

	ClassifyCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "classify_cache_misses_total",
		Help:      "Listing classifications that required a remote GetItem read.",
	})
)

// Revision metrics.
var (
	RevisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "revisions_total",
		Help:      "Total revision operations, by strategy and outcome.",
	}, []string{"strategy", "status"})

	OfferSyncFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "offer_sync_failures_total",
		Help:      "Offer quantity writes that failed after the listing write succeeded.",
	})

	QueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "queue_depth",
		Help:      "Revision requests waiting in the serialization queue.",
	})
)

// Sync cycle metrics.
var (
	SyncDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "sync_duration_seconds",
		Help:      "Duration of full sync cycles in seconds.",
		Buckets:   prometheus.DefBuckets,
	})

	SyncErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sync_errors_total",
		Help:      "Total mapping-level failures during sync cycles.",
	})

	SourceFetchErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "source_fetch_errors_total",
		Help:      "Total failures fetching product records from the source feed.",
	})

	NotificationFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_failures_total",
		Help:      "Total notification send failures.",
	})
)
