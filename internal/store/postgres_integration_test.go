//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/gradyserv/marketsync/internal/store"
	domain "github.com/gradyserv/marketsync/pkg/types"
)

func setupPostgres(t *testing.T) *store.PostgresStore {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("marketsync_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, pgContainer.Terminate(ctx))
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := store.NewPostgresStore(ctx, connStr)
	require.NoError(t, err)

	t.Cleanup(func() {
		s.Close()
	})

	require.NoError(t, s.Migrate(ctx))

	return s
}

func testMapping() *domain.SyncMapping {
	return &domain.SyncMapping{
		SourceSKU: "AMZ-B0TEST01",
		ListingID: "110012345678",
		OfferID:   "offer-1",
		SyncPrice: true,
		Enabled:   true,
	}
}

func TestPostgresStore_Ping(t *testing.T) {
	s := setupPostgres(t)
	require.NoError(t, s.Ping(context.Background()))
}

func TestPostgresStore_MappingLifecycle(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	t.Run("create fills generated fields", func(t *testing.T) {
		m := testMapping()
		require.NoError(t, s.CreateMapping(ctx, m))
		assert.NotEmpty(t, m.ID)
		assert.False(t, m.CreatedAt.IsZero())
	})

	t.Run("get round-trips fields", func(t *testing.T) {
		m := testMapping()
		m.SourceSKU = "AMZ-GET-1"
		m.VariationName = "Size"
		m.VariationValue = "Large"
		require.NoError(t, s.CreateMapping(ctx, m))

		got, err := s.GetMapping(ctx, m.ID)
		require.NoError(t, err)
		assert.Equal(t, "AMZ-GET-1", got.SourceSKU)
		assert.Equal(t, "Size", got.VariationName)
		assert.Equal(t, "Large", got.VariationValue)
		assert.True(t, got.SyncPrice)
		assert.Nil(t, got.LastSyncedAt)
	})

	t.Run("get missing returns ErrNotFound", func(t *testing.T) {
		_, err := s.GetMapping(ctx, "00000000-0000-0000-0000-000000000000")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("update", func(t *testing.T) {
		m := testMapping()
		m.SourceSKU = "AMZ-UPDATE-1"
		require.NoError(t, s.CreateMapping(ctx, m))

		m.OfferID = "offer-changed"
		m.SyncPrice = false
		require.NoError(t, s.UpdateMapping(ctx, m))

		got, err := s.GetMapping(ctx, m.ID)
		require.NoError(t, err)
		assert.Equal(t, "offer-changed", got.OfferID)
		assert.False(t, got.SyncPrice)
	})

	t.Run("enabled filter", func(t *testing.T) {
		m := testMapping()
		m.SourceSKU = "AMZ-DISABLED-1"
		m.Enabled = false
		require.NoError(t, s.CreateMapping(ctx, m))

		enabled, err := s.ListMappings(ctx, true)
		require.NoError(t, err)
		for _, got := range enabled {
			assert.NotEqual(t, "AMZ-DISABLED-1", got.SourceSKU)
		}

		all, err := s.ListMappings(ctx, false)
		require.NoError(t, err)
		assert.Greater(t, len(all), len(enabled))
	})

	t.Run("set enabled", func(t *testing.T) {
		m := testMapping()
		m.SourceSKU = "AMZ-TOGGLE-1"
		require.NoError(t, s.CreateMapping(ctx, m))

		require.NoError(t, s.SetMappingEnabled(ctx, m.ID, false))
		got, err := s.GetMapping(ctx, m.ID)
		require.NoError(t, err)
		assert.False(t, got.Enabled)
	})

	t.Run("touch synced", func(t *testing.T) {
		m := testMapping()
		m.SourceSKU = "AMZ-TOUCH-1"
		require.NoError(t, s.CreateMapping(ctx, m))

		now := time.Now().Truncate(time.Microsecond)
		require.NoError(t, s.TouchMappingSynced(ctx, m.ID, now))

		got, err := s.GetMapping(ctx, m.ID)
		require.NoError(t, err)
		require.NotNil(t, got.LastSyncedAt)
		assert.WithinDuration(t, now, *got.LastSyncedAt, time.Second)
	})

	t.Run("delete", func(t *testing.T) {
		m := testMapping()
		m.SourceSKU = "AMZ-DELETE-1"
		require.NoError(t, s.CreateMapping(ctx, m))

		require.NoError(t, s.DeleteMapping(ctx, m.ID))
		_, err := s.GetMapping(ctx, m.ID)
		assert.ErrorIs(t, err, store.ErrNotFound)

		assert.ErrorIs(t, s.DeleteMapping(ctx, m.ID), store.ErrNotFound)
	})
}

func TestPostgresStore_Revisions(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	price := 19.99
	records := []*domain.RevisionRecord{
		{
			ListingID: "110000000001",
			SourceSKU: "AMZ-1",
			Price:     &price,
			Quantity:  5,
			Strategy:  domain.StrategyPriceQuantity,
			Status:    domain.RevisionSucceeded,
		},
		{
			ListingID: "110000000001",
			SourceSKU: "AMZ-1",
			Quantity:  0,
			Strategy:  domain.StrategyQuantityOnly,
			Status:    domain.RevisionFailed,
			ErrorText: "listing ended",
		},
		{
			ListingID: "110000000002",
			SourceSKU: "AMZ-2",
			Quantity:  3,
			Strategy:  domain.StrategyVariation,
			Status:    domain.RevisionSucceeded,
		},
	}
	for _, r := range records {
		require.NoError(t, s.InsertRevision(ctx, r))
		assert.NotEmpty(t, r.ID)
	}

	t.Run("list all", func(t *testing.T) {
		got, total, err := s.ListRevisions(ctx, &store.RevisionQuery{})
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Len(t, got, 3)
	})

	t.Run("filter by listing", func(t *testing.T) {
		listingID := "110000000001"
		got, total, err := s.ListRevisions(ctx, &store.RevisionQuery{ListingID: &listingID})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		for _, r := range got {
			assert.Equal(t, listingID, r.ListingID)
		}
	})

	t.Run("filter by status", func(t *testing.T) {
		status := domain.RevisionFailed
		got, total, err := s.ListRevisions(ctx, &store.RevisionQuery{Status: &status})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, got, 1)
		assert.Equal(t, "listing ended", got[0].ErrorText)
	})

	t.Run("price round-trips", func(t *testing.T) {
		listingID := "110000000001"
		status := domain.RevisionSucceeded
		got, _, err := s.ListRevisions(ctx, &store.RevisionQuery{
			ListingID: &listingID,
			Status:    &status,
		})
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.NotNil(t, got[0].Price)
		assert.InDelta(t, 19.99, *got[0].Price, 0.001)
	})

	t.Run("counts by status", func(t *testing.T) {
		counts, err := s.CountRevisionsByStatus(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, counts[string(domain.RevisionSucceeded)])
		assert.Equal(t, 1, counts[string(domain.RevisionFailed)])
	})

	t.Run("limit and offset", func(t *testing.T) {
		got, total, err := s.ListRevisions(ctx, &store.RevisionQuery{Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Len(t, got, 2)

		rest, _, err := s.ListRevisions(ctx, &store.RevisionQuery{Limit: 2, Offset: 2})
		require.NoError(t, err)
		assert.Len(t, rest, 1)
	})
}
