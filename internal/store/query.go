package store

import (
	"fmt"
	"strings"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

const baseRevisionsSelect = `SELECT id, listing_id, source_sku, price, quantity,
	strategy, status, COALESCE(error_text, ''), created_at
FROM revisions`

const countRevisionsSelect = "SELECT COUNT(*) FROM revisions"

// ToSQL builds the WHERE clause, ORDER BY, LIMIT, and OFFSET for a
// revision history query. It returns two SQL strings (one for the data
// query, one for the count query) and the positional parameters.
func (q *RevisionQuery) ToSQL() (dataSQL, countSQL string, args []any) {
	var conditions []string
	paramIdx := 1

	if q.ListingID != nil {
		conditions = append(conditions, fmt.Sprintf("listing_id = $%d", paramIdx))
		args = append(args, *q.ListingID)
		paramIdx++
	}

	if q.SourceSKU != nil {
		conditions = append(conditions, fmt.Sprintf("source_sku = $%d", paramIdx))
		args = append(args, *q.SourceSKU)
		paramIdx++
	}

	if q.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", paramIdx))
		args = append(args, string(*q.Status))
	}

	var whereClause string
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	offset := max(q.Offset, 0)

	dataSQL = fmt.Sprintf(
		"%s%s ORDER BY created_at DESC LIMIT %d OFFSET %d",
		baseRevisionsSelect, whereClause, limit, offset,
	)

	countSQL = countRevisionsSelect + whereClause

	return dataSQL, countSQL, args
}
