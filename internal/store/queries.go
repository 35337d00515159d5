package store

// SQL query constants organized by entity.
// All SQL lives here — PostgresStore methods reference these constants.

// Mapping queries.
const (
	queryCreateMapping = `
		INSERT INTO sync_mappings (
			source_sku, listing_id, offer_id,
			variation_name, variation_value,
			sync_price, enabled, created_at
		) VALUES (
			@source_sku, @listing_id, @offer_id,
			@variation_name, @variation_value,
			@sync_price, @enabled, now()
		)
		RETURNING id, created_at`

	queryGetMapping = `
		SELECT id, source_sku, listing_id, offer_id,
			variation_name, variation_value,
			sync_price, enabled, created_at, last_synced_at
		FROM sync_mappings
		WHERE id = $1`

	queryListMappings = `
		SELECT id, source_sku, listing_id, offer_id,
			variation_name, variation_value,
			sync_price, enabled, created_at, last_synced_at
		FROM sync_mappings
		ORDER BY created_at`

	queryListEnabledMappings = `
		SELECT id, source_sku, listing_id, offer_id,
			variation_name, variation_value,
			sync_price, enabled, created_at, last_synced_at
		FROM sync_mappings
		WHERE enabled
		ORDER BY created_at`

	queryUpdateMapping = `
		UPDATE sync_mappings SET
			source_sku = @source_sku,
			listing_id = @listing_id,
			offer_id = @offer_id,
			variation_name = @variation_name,
			variation_value = @variation_value,
			sync_price = @sync_price,
			enabled = @enabled
		WHERE id = @id`

	queryDeleteMapping = `DELETE FROM sync_mappings WHERE id = $1`

	querySetMappingEnabled = `UPDATE sync_mappings SET enabled = $2 WHERE id = $1`

	queryTouchMappingSynced = `UPDATE sync_mappings SET last_synced_at = $2 WHERE id = $1`
)

// Revision queries.
const (
	queryInsertRevision = `
		INSERT INTO revisions (
			listing_id, source_sku, price, quantity,
			strategy, status, error_text, created_at
		) VALUES (
			@listing_id, @source_sku, @price, @quantity,
			@strategy, @status, @error_text, now()
		)
		RETURNING id, created_at`

	queryCountRevisionsByStatus = `
		SELECT status, COUNT(*)
		FROM revisions
		GROUP BY status`
)
