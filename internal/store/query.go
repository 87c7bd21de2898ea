package store

import (
	"fmt"
	"strings"
)

const (
	defaultLimit = 20
	maxLimit     = 200
)

const baseEstimatesSelect = `SELECT item_id, price, price_range_low, price_range_high,
	currency, confidence, source, COALESCE(reasoning, ''), reference_count, created_at
FROM item_estimates`

const countEstimatesSelect = "SELECT COUNT(*) FROM item_estimates"

// ToSQL builds the WHERE clause, LIMIT, and OFFSET for an estimate history
// query. It returns the data query, the count query, and the positional
// parameters shared by both.
func (q *EstimateQuery) ToSQL() (dataSQL, countSQL string, args []any) {
	conditions := []string{"item_id = $1"}
	args = []any{q.ItemID}
	paramIdx := 2

	if q.Source != nil {
		conditions = append(conditions, fmt.Sprintf("source = $%d", paramIdx))
		args = append(args, *q.Source)
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	limit := q.PageLimit()
	offset := max(q.Offset, 0)

	dataSQL = fmt.Sprintf(
		"%s%s ORDER BY created_at DESC, id DESC LIMIT %d OFFSET %d",
		baseEstimatesSelect, whereClause, limit, offset,
	)

	countSQL = countEstimatesSelect + whereClause

	return dataSQL, countSQL, args
}

// PageLimit is the row limit ToSQL applies: Limit clamped to (0, 200],
// with 20 when unset.
func (q *EstimateQuery) PageLimit() int {
	switch {
	case q.Limit <= 0:
		return defaultLimit
	case q.Limit > maxLimit:
		return maxLimit
	default:
		return q.Limit
	}
}
