package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/gradyserv/marketsync/pkg/types"
)

const defaultPoolSize = 10

// PostgresStore implements Store using pgxpool (connection-pooled PostgreSQL).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore with connection pooling.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	cfg.MaxConns = defaultPoolSize

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.pool)
}

// CreateMapping inserts a new sync mapping and fills in its generated
// id and creation time.
func (s *PostgresStore) CreateMapping(ctx context.Context, m *domain.SyncMapping) error {
	if err := m.Validate(); err != nil {
		return err
	}

	args := pgx.NamedArgs{
		"source_sku":      m.SourceSKU,
		"listing_id":      m.ListingID,
		"offer_id":        m.OfferID,
		"variation_name":  m.VariationName,
		"variation_value": m.VariationValue,
		"sync_price":      m.SyncPrice,
		"enabled":         m.Enabled,
	}

	if err := s.pool.QueryRow(ctx, queryCreateMapping, args).Scan(&m.ID, &m.CreatedAt); err != nil {
		return fmt.Errorf("creating mapping: %w", err)
	}
	return nil
}

// GetMapping retrieves a mapping by its internal UUID.
func (s *PostgresStore) GetMapping(ctx context.Context, id string) (*domain.SyncMapping, error) {
	m := &domain.SyncMapping{}
	err := scanMapping(s.pool.QueryRow(ctx, queryGetMapping, id), m)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting mapping: %w", err)
	}
	return m, nil
}

// ListMappings returns all mappings, optionally restricted to enabled
// ones, in creation order.
func (s *PostgresStore) ListMappings(ctx context.Context, enabledOnly bool) ([]domain.SyncMapping, error) {
	query := queryListMappings
	if enabledOnly {
		query = queryListEnabledMappings
	}

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying mappings: %w", err)
	}
	defer rows.Close()

	var mappings []domain.SyncMapping
	for rows.Next() {
		var m domain.SyncMapping
		if err := scanMapping(rows, &m); err != nil {
			return nil, fmt.Errorf("scanning mapping: %w", err)
		}
		mappings = append(mappings, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating mappings: %w", err)
	}

	return mappings, nil
}

// UpdateMapping rewrites a mapping's mutable fields.
func (s *PostgresStore) UpdateMapping(ctx context.Context, m *domain.SyncMapping) error {
	if err := m.Validate(); err != nil {
		return err
	}

	args := pgx.NamedArgs{
		"id":              m.ID,
		"source_sku":      m.SourceSKU,
		"listing_id":      m.ListingID,
		"offer_id":        m.OfferID,
		"variation_name":  m.VariationName,
		"variation_value": m.VariationValue,
		"sync_price":      m.SyncPrice,
		"enabled":         m.Enabled,
	}

	tag, err := s.pool.Exec(ctx, queryUpdateMapping, args)
	if err != nil {
		return fmt.Errorf("updating mapping: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteMapping removes a mapping.
func (s *PostgresStore) DeleteMapping(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, queryDeleteMapping, id)
	if err != nil {
		return fmt.Errorf("deleting mapping: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetMappingEnabled toggles a mapping without rewriting it.
func (s *PostgresStore) SetMappingEnabled(ctx context.Context, id string, enabled bool) error {
	tag, err := s.pool.Exec(ctx, querySetMappingEnabled, id, enabled)
	if err != nil {
		return fmt.Errorf("setting mapping enabled: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// TouchMappingSynced records the time of the mapping's last successful sync.
func (s *PostgresStore) TouchMappingSynced(ctx context.Context, id string, t time.Time) error {
	_, err := s.pool.Exec(ctx, queryTouchMappingSynced, id, t)
	if err != nil {
		return fmt.Errorf("touching mapping: %w", err)
	}
	return nil
}

// InsertRevision persists one revision attempt and fills in its
// generated id and creation time.
func (s *PostgresStore) InsertRevision(ctx context.Context, r *domain.RevisionRecord) error {
	args := pgx.NamedArgs{
		"listing_id": r.ListingID,
		"source_sku": r.SourceSKU,
		"price":      r.Price,
		"quantity":   r.Quantity,
		"strategy":   string(r.Strategy),
		"status":     string(r.Status),
		"error_text": r.ErrorText,
	}

	if err := s.pool.QueryRow(ctx, queryInsertRevision, args).Scan(&r.ID, &r.CreatedAt); err != nil {
		return fmt.Errorf("inserting revision: %w", err)
	}
	return nil
}

// ListRevisions queries revision history with optional filters,
// returning results and total count.
func (s *PostgresStore) ListRevisions(
	ctx context.Context,
	opts *RevisionQuery,
) ([]domain.RevisionRecord, int, error) {
	dataSQL, countSQL, args := opts.ToSQL()

	var total int
	if err := s.pool.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting revisions: %w", err)
	}

	rows, err := s.pool.Query(ctx, dataSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying revisions: %w", err)
	}
	defer rows.Close()

	var revisions []domain.RevisionRecord
	for rows.Next() {
		var r domain.RevisionRecord
		if err := scanRevision(rows, &r); err != nil {
			return nil, 0, fmt.Errorf("scanning revision: %w", err)
		}
		revisions = append(revisions, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating revisions: %w", err)
	}

	return revisions, total, nil
}

// CountRevisionsByStatus returns revision counts keyed by status.
func (s *PostgresStore) CountRevisionsByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := s.pool.Query(ctx, queryCountRevisionsByStatus)
	if err != nil {
		return nil, fmt.Errorf("counting revisions by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scanning revision count: %w", err)
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating revision counts: %w", err)
	}

	return counts, nil
}

// row is the subset of pgx.Row / pgx.Rows both scan helpers need.
type row interface {
	Scan(dest ...any) error
}

func scanMapping(r row, m *domain.SyncMapping) error {
	return r.Scan(
		&m.ID, &m.SourceSKU, &m.ListingID, &m.OfferID,
		&m.VariationName, &m.VariationValue,
		&m.SyncPrice, &m.Enabled, &m.CreatedAt, &m.LastSyncedAt,
	)
}

func scanRevision(r row, rec *domain.RevisionRecord) error {
	var strategy, status string
	if err := r.Scan(
		&rec.ID, &rec.ListingID, &rec.SourceSKU, &rec.Price, &rec.Quantity,
		&strategy, &status, &rec.ErrorText, &rec.CreatedAt,
	); err != nil {
		return err
	}
	rec.Strategy = domain.RevisionStrategy(strategy)
	rec.Status = domain.RevisionStatus(status)
	return nil
}
