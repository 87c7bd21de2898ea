// Package store persists price estimates against item records. Business
// logic depends on the Store interface, never on the concrete
// implementation, so handlers and the estimator test against mocks.
package store

import (
	"context"
	"errors"

	domain "github.com/donaldgifford/bluberry/pkg/types"
)

// ErrNotFound is returned when an item has no stored estimate.
var ErrNotFound = errors.New("estimate not found")

// EstimateQuery filters the estimate history of one item.
type EstimateQuery struct {
	ItemID string
	Source *string
	Limit  int // default 20
	Offset int
}

// Store defines all data access operations for estimate persistence.
type Store interface {
	// SaveEstimate appends est to the item's estimate history.
	SaveEstimate(ctx context.Context, itemID string, est domain.PriceEstimate) error
	// GetEstimate returns the most recent estimate for itemID, or ErrNotFound.
	GetEstimate(ctx context.Context, itemID string) (*domain.ItemEstimate, error)
	// ListEstimates returns an item's estimates, newest first, and the total count.
	ListEstimates(ctx context.Context, q *EstimateQuery) ([]domain.ItemEstimate, int, error)

	// Health
	Ping(ctx context.Context) error
}
