// Package store defines the datastore abstraction for marketsync.
// All business logic depends on the Store interface, never on concrete
// implementations. This enables mock-based testing without a running database.
package store

import (
	"context"
	"errors"
	"time"

	domain "github.com/gradyserv/marketsync/pkg/types"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// RevisionQuery defines optional filters for revision history queries.
type RevisionQuery struct {
	ListingID *string
	SourceSKU *string
	Status    *domain.RevisionStatus
	Limit     int // default 50
	Offset    int
}

// Store defines all data access operations for marketsync.
type Store interface {
	// Mappings
	CreateMapping(ctx context.Context, m *domain.SyncMapping) error
	GetMapping(ctx context.Context, id string) (*domain.SyncMapping, error)
	ListMappings(ctx context.Context, enabledOnly bool) ([]domain.SyncMapping, error)
	UpdateMapping(ctx context.Context, m *domain.SyncMapping) error
	DeleteMapping(ctx context.Context, id string) error
	SetMappingEnabled(ctx context.Context, id string, enabled bool) error
	TouchMappingSynced(ctx context.Context, id string, t time.Time) error

	// Revisions
	InsertRevision(ctx context.Context, r *domain.RevisionRecord) error
	ListRevisions(ctx context.Context, opts *RevisionQuery) ([]domain.RevisionRecord, int, error)
	CountRevisionsByStatus(ctx context.Context) (map[string]int, error)

	// Migrations
	Migrate(ctx context.Context) error

	// Health
	Ping(ctx context.Context) error
}
