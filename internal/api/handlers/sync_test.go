package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradyserv/marketsync/internal/api/handlers"
	"github.com/gradyserv/marketsync/internal/notify"
)

// stubRunner implements handlers.SyncRunner for testing.
type stubRunner struct {
	summary notify.SyncSummary
	err     error
	called  bool
}

func (s *stubRunner) RunSync(_ context.Context) (notify.SyncSummary, error) {
	s.called = true
	return s.summary, s.err
}

func TestSyncHandler_Success(t *testing.T) {
	t.Parallel()

	runner := &stubRunner{
		summary: notify.SyncSummary{
			Total:     42,
			Succeeded: 40,
			Failed:    2,
			Duration:  "52.3s",
		},
	}

	_, api := humatest.New(t)
	handlers.RegisterSyncRoutes(api, handlers.NewSyncHandler(runner))

	resp := api.Post("/api/v1/sync")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, runner.called)

	body := resp.Body.String()
	assert.Contains(t, body, `"total":42`)
	assert.Contains(t, body, `"succeeded":40`)
	assert.Contains(t, body, `"failed":2`)
	assert.Contains(t, body, `"duration":"52.3s"`)
}

func TestSyncHandler_Error(t *testing.T) {
	t.Parallel()

	runner := &stubRunner{err: errors.New("listing mappings: connection reset")}

	_, api := humatest.New(t)
	handlers.RegisterSyncRoutes(api, handlers.NewSyncHandler(runner))

	resp := api.Post("/api/v1/sync")
	require.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Contains(t, resp.Body.String(), "sync failed")
}
