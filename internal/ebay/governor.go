package ebay

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/gradyserv/marketsync/internal/metrics"
)

const (
	// Minimum spacing between consecutive Trading API calls.
	defaultCallSpacing = 1200 * time.Millisecond
	// Cooldown before the single automatic retry after a throttle response.
	defaultThrottleCooldown = 2500 * time.Millisecond
	// Trading API error code signalling the short-term call volume limit.
	defaultThrottleCode = "18000"

	defaultDailyLimit = 5000
)

// CallFunc performs one transport round-trip and returns the raw
// response body.
type CallFunc func(ctx context.Context) ([]byte, error)

// Governor throttles all outbound Trading API traffic. It enforces a
// minimum inter-call spacing via a token bucket, tracks a rolling
// 24-hour daily quota, and retries a call exactly once when the remote
// reports the transient throttle error code. Every Trading read and
// write in the engine must pass through one Governor instance.
type Governor struct {
	limiter      *rate.Limiter
	cooldown     time.Duration
	throttleCode string
	daily        atomic.Int64
	maxDaily     int64
	windowStart  time.Time
	resetAt      time.Time
	mu           sync.Mutex
	nowFunc      func() time.Time
}

// GovernorOption configures the Governor.
type GovernorOption func(*Governor)

// WithCallSpacing overrides the minimum inter-call spacing.
func WithCallSpacing(d time.Duration) GovernorOption {
	return func(g *Governor) {
		g.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// WithThrottleCooldown overrides the pre-retry cooldown.
func WithThrottleCooldown(d time.Duration) GovernorOption {
	return func(g *Governor) {
		g.cooldown = d
	}
}

// WithThrottleCode overrides the error code treated as a transient
// throttle signal.
func WithThrottleCode(code string) GovernorOption {
	return func(g *Governor) {
		g.throttleCode = code
	}
}

// WithDailyLimit overrides the rolling 24-hour call quota.
func WithDailyLimit(n int64) GovernorOption {
	return func(g *Governor) {
		g.maxDaily = n
	}
}

// WithGovernorNowFunc overrides the time function for testing.
func WithGovernorNowFunc(f func() time.Time) GovernorOption {
	return func(g *Governor) {
		g.nowFunc = f
	}
}

// NewGovernor creates a rate governor with the default 1200 ms call
// spacing and 2500 ms throttle cooldown. The daily quota uses a rolling
// 24-hour window that resets 24 hours after the first call in each
// window.
func NewGovernor(opts ...GovernorOption) *Governor {
	g := &Governor{
		limiter:      rate.NewLimiter(rate.Every(defaultCallSpacing), 1),
		cooldown:     defaultThrottleCooldown,
		throttleCode: defaultThrottleCode,
		maxDaily:     defaultDailyLimit,
		nowFunc:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	now := g.nowFunc()
	g.windowStart = now
	g.resetAt = now.Add(24 * time.Hour)
	return g
}

// Send waits for the inter-call spacing, executes the call, and retries
// it exactly once after a fixed cooldown when the response carries the
// transient throttle error code. The retry skips the spacing wait, and
// its result is returned as-is: a second throttled or failed response
// propagates to the caller.
func (g *Governor) Send(ctx context.Context, call string, exec CallFunc) ([]byte, error) {
	g.checkDailyReset()

	if g.daily.Load() >= g.maxDaily {
		metrics.TradingDailyLimitHits.Inc()
		return nil, fmt.Errorf("%w (%d/%d)", ErrDailyLimitReached, g.daily.Load(), g.maxDaily)
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	g.countCall(call)

	body, err := exec(ctx)
	if err != nil {
		return nil, err
	}

	if !g.isThrottled(body) {
		return body, nil
	}

	metrics.ThrottleRetriesTotal.Inc()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(g.cooldown):
	}

	g.countCall(call)
	return exec(ctx)
}

// MaxDaily returns the configured rolling 24-hour call quota.
func (g *Governor) MaxDaily() int64 {
	return g.maxDaily
}

// DailyCount returns the current daily call count.
func (g *Governor) DailyCount() int64 {
	return g.daily.Load()
}

// Remaining returns the number of Trading API calls remaining in the
// current 24-hour window.
func (g *Governor) Remaining() int64 {
	remaining := g.maxDaily - g.daily.Load()
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ResetAt returns the time when the current 24-hour window expires and
// the daily counter resets.
func (g *Governor) ResetAt() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.resetAt
}

func (g *Governor) countCall(call string) {
	g.daily.Add(1)
	metrics.TradingCallsTotal.WithLabelValues(call).Inc()
	metrics.TradingDailyUsage.Set(float64(g.daily.Load()))
}

func (g *Governor) isThrottled(body []byte) bool {
	env, err := parseAck(body)
	if err != nil {
		return false
	}
	for _, e := range env.Errors {
		if e.ErrorCode == g.throttleCode {
			return true
		}
	}
	return false
}

func (g *Governor) checkDailyReset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.nowFunc()
	if now.After(g.resetAt) {
		g.daily.Store(0)
		g.windowStart = now
		g.resetAt = now.Add(24 * time.Hour)
	}
}
