package store

// SQL query constants. PostgresStore methods reference these constants.
const (
	queryInsertEstimate = `
		INSERT INTO item_estimates (
			item_id, price, price_range_low, price_range_high,
			currency, confidence, source, reasoning, reference_count
		) VALUES (
			@item_id, @price, @price_range_low, @price_range_high,
			@currency, @confidence, @source, NULLIF(@reasoning, ''), @reference_count
		)`

	queryGetLatestEstimate = baseEstimatesSelect + `
		WHERE item_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1`
)
