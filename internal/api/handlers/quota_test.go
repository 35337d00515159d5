package handlers_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradyserv/marketsync/internal/api/handlers"
	"github.com/gradyserv/marketsync/internal/ebay"
)

func TestGetQuota_NilCollaborators(t *testing.T) {
	t.Parallel()

	h := handlers.NewQuotaHandler(nil, nil, nil)

	_, api := humatest.New(t)
	handlers.RegisterQuotaRoutes(api, h)

	resp := api.Get("/api/v1/quota")
	require.Equal(t, http.StatusOK, resp.Code)

	body := resp.Body.String()
	assert.Contains(t, body, `"daily_limit":0`)
	assert.Contains(t, body, `"daily_used":0`)
	assert.Contains(t, body, `"queue_depth":0`)
}

func TestGetQuota_GovernorUsage(t *testing.T) {
	t.Parallel()

	gov := ebay.NewGovernor(
		ebay.WithCallSpacing(time.Millisecond),
		ebay.WithDailyLimit(100),
	)

	for range 3 {
		_, err := gov.Send(t.Context(), "GetItem",
			func(_ context.Context) ([]byte, error) {
				return []byte("<GetItemResponse/>"), nil
			})
		require.NoError(t, err)
	}

	h := handlers.NewQuotaHandler(gov, ebay.NewQueue(nil), nil)

	_, api := humatest.New(t)
	handlers.RegisterQuotaRoutes(api, h)

	resp := api.Get("/api/v1/quota")
	require.Equal(t, http.StatusOK, resp.Code)

	body := resp.Body.String()
	assert.Contains(t, body, `"daily_limit":100`)
	assert.Contains(t, body, `"daily_used":3`)
	assert.Contains(t, body, `"remaining":97`)
	assert.Contains(t, body, `"queue_depth":0`)
}

func TestGetQuota_ResetAtValue(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 27, 14, 30, 0, 0, time.UTC)
	gov := ebay.NewGovernor(
		ebay.WithCallSpacing(time.Millisecond),
		ebay.WithGovernorNowFunc(func() time.Time { return now }),
	)

	h := handlers.NewQuotaHandler(gov, nil, nil)

	_, api := humatest.New(t)
	handlers.RegisterQuotaRoutes(api, h)

	resp := api.Get("/api/v1/quota")
	require.Equal(t, http.StatusOK, resp.Code)

	// ResetAt is 24 hours after the window start.
	assert.Contains(t, resp.Body.String(), "2026-08-28T14:30:00Z")
}
