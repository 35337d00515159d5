package handlers_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradyserv/marketsync/internal/api/handlers"
	domain "github.com/gradyserv/marketsync/pkg/types"
)

func newRevisionsAPI(t *testing.T, st *stubStore) humatest.TestAPI {
	t.Helper()

	_, api := humatest.New(t)
	handlers.RegisterRevisionRoutes(api, handlers.NewRevisionsHandler(st))
	return api
}

func TestListRevisions(t *testing.T) {
	t.Parallel()

	price := 19.99
	st := newStubStore()
	st.revisions = []domain.RevisionRecord{
		{
			ID:        "r1",
			ListingID: "2541234567",
			SourceSKU: "AMZ-B07XYZ",
			Price:     &price,
			Quantity:  12,
			Strategy:  domain.StrategyPriceQuantity,
			Status:    domain.RevisionSucceeded,
			CreatedAt: time.Now(),
		},
	}
	st.revTotal = 1

	api := newRevisionsAPI(t, st)

	resp := api.Get("/api/v1/revisions")
	require.Equal(t, http.StatusOK, resp.Code)

	body := resp.Body.String()
	assert.Contains(t, body, `"total":1`)
	assert.Contains(t, body, `"listing_id":"2541234567"`)
	assert.Contains(t, body, `"strategy":"price_quantity"`)

	// No filters supplied: the query passes through with defaults only.
	require.NotNil(t, st.lastQuery)
	assert.Nil(t, st.lastQuery.ListingID)
	assert.Nil(t, st.lastQuery.SourceSKU)
	assert.Nil(t, st.lastQuery.Status)
}

func TestListRevisions_Filters(t *testing.T) {
	t.Parallel()

	st := newStubStore()
	api := newRevisionsAPI(t, st)

	resp := api.Get("/api/v1/revisions?listing_id=2541234567&source_sku=AMZ-1&status=failed&limit=10&offset=20")
	require.Equal(t, http.StatusOK, resp.Code)

	q := st.lastQuery
	require.NotNil(t, q)
	require.NotNil(t, q.ListingID)
	assert.Equal(t, "2541234567", *q.ListingID)
	require.NotNil(t, q.SourceSKU)
	assert.Equal(t, "AMZ-1", *q.SourceSKU)
	require.NotNil(t, q.Status)
	assert.Equal(t, domain.RevisionFailed, *q.Status)
	assert.Equal(t, 10, q.Limit)
	assert.Equal(t, 20, q.Offset)
}

func TestListRevisions_InvalidStatusRejected(t *testing.T) {
	t.Parallel()

	st := newStubStore()
	api := newRevisionsAPI(t, st)

	resp := api.Get("/api/v1/revisions?status=bogus")
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Nil(t, st.lastQuery)
}

func TestListRevisions_EmptyIsArray(t *testing.T) {
	t.Parallel()

	st := newStubStore()
	api := newRevisionsAPI(t, st)

	resp := api.Get("/api/v1/revisions")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"revisions":[]`)
}

func TestListRevisions_StoreError(t *testing.T) {
	t.Parallel()

	st := newStubStore()
	st.revErr = errors.New("connection reset")

	api := newRevisionsAPI(t, st)

	resp := api.Get("/api/v1/revisions")
	require.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Contains(t, resp.Body.String(), "revision query failed")
}

func TestRevisionStats(t *testing.T) {
	t.Parallel()

	st := newStubStore()
	st.counts = map[string]int{
		"succeeded":         120,
		"failed":            4,
		"offer_sync_failed": 2,
	}

	api := newRevisionsAPI(t, st)

	resp := api.Get("/api/v1/revisions/stats")
	require.Equal(t, http.StatusOK, resp.Code)

	body := resp.Body.String()
	assert.Contains(t, body, `"succeeded":120`)
	assert.Contains(t, body, `"failed":4`)
	assert.Contains(t, body, `"offer_sync_failed":2`)
}

func TestRevisionStats_StoreError(t *testing.T) {
	t.Parallel()

	st := newStubStore()
	st.revErr = errors.New("connection reset")

	api := newRevisionsAPI(t, st)

	resp := api.Get("/api/v1/revisions/stats")
	require.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Contains(t, resp.Body.String(), "revision stats failed")
}
