package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/donaldgifford/bluberry/pkg/types"
)

const defaultPoolSize = 10

// PostgresStore implements Store using pgxpool (connection-pooled PostgreSQL).
//
// TODO(test): PostgresStore methods require live Postgres, tested via integration tests.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// PostgresOption configures the connection pool.
type PostgresOption func(*pgxpool.Config)

// WithPoolSize sets the maximum number of pooled connections.
func WithPoolSize(n int) PostgresOption {
	return func(c *pgxpool.Config) {
		if n > 0 {
			c.MaxConns = int32(n) //nolint:gosec // pool sizes are small
		}
	}
}

// NewPostgresStore creates a new PostgresStore with connection pooling.
func NewPostgresStore(ctx context.Context, connString string, opts ...PostgresOption) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	cfg.MaxConns = defaultPoolSize
	for _, opt := range opts {
		opt(cfg)
	}

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

// Migrate applies pending SQL schema migrations and returns the versions
// it applied.
func (s *PostgresStore) Migrate(ctx context.Context) ([]string, error) {
	return RunMigrations(ctx, s.pool)
}

// AppliedMigrations returns the schema versions already applied.
func (s *PostgresStore) AppliedMigrations(ctx context.Context) ([]string, error) {
	return AppliedMigrations(ctx, s.pool)
}

// SaveEstimate appends an estimate row for itemID.
func (s *PostgresStore) SaveEstimate(ctx context.Context, itemID string, est domain.PriceEstimate) error {
	args := pgx.NamedArgs{
		"item_id":          itemID,
		"price":            est.Price,
		"price_range_low":  est.PriceRangeLow,
		"price_range_high": est.PriceRangeHigh,
		"currency":         est.Currency,
		"confidence":       string(est.Confidence),
		"source":           string(est.Source),
		"reasoning":        est.Reasoning,
		"reference_count":  est.ReferenceCount,
	}

	if _, err := s.pool.Exec(ctx, queryInsertEstimate, args); err != nil {
		return fmt.Errorf("inserting estimate for item %s: %w", itemID, err)
	}
	return nil
}

// GetEstimate returns the latest estimate for itemID.
func (s *PostgresStore) GetEstimate(ctx context.Context, itemID string) (*domain.ItemEstimate, error) {
	ie := &domain.ItemEstimate{}
	err := scanEstimate(s.pool.QueryRow(ctx, queryGetLatestEstimate, itemID), ie)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting estimate for item %s: %w", itemID, err)
	}
	return ie, nil
}

// ListEstimates returns the estimate history matching q and the total count.
func (s *PostgresStore) ListEstimates(
	ctx context.Context,
	q *EstimateQuery,
) ([]domain.ItemEstimate, int, error) {
	dataSQL, countSQL, args := q.ToSQL()

	var total int
	if err := s.pool.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting estimates: %w", err)
	}

	rows, err := s.pool.Query(ctx, dataSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying estimates: %w", err)
	}
	defer rows.Close()

	var estimates []domain.ItemEstimate
	for rows.Next() {
		var ie domain.ItemEstimate
		if err := scanEstimate(rows, &ie); err != nil {
			return nil, 0, fmt.Errorf("scanning estimate: %w", err)
		}
		estimates = append(estimates, ie)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating estimates: %w", err)
	}

	return estimates, total, nil
}

func scanEstimate(row pgx.Row, ie *domain.ItemEstimate) error {
	var confidence, source string
	if err := row.Scan(
		&ie.ItemID,
		&ie.Estimate.Price,
		&ie.Estimate.PriceRangeLow,
		&ie.Estimate.PriceRangeHigh,
		&ie.Estimate.Currency,
		&confidence,
		&source,
		&ie.Estimate.Reasoning,
		&ie.Estimate.ReferenceCount,
		&ie.CreatedAt,
	); err != nil {
		return err
	}
	ie.Estimate.Confidence = domain.Confidence(confidence)
	ie.Estimate.Source = domain.Source(source)
	return nil
}
