// Package ebay provides the marketplace comparables adapter: an eBay Browse
// API client, its OAuth token cache and rate limiter, abstracted behind
// interfaces for testability.
package ebay

import (
	"context"

	domain "github.com/donaldgifford/bluberry/pkg/types"
)

// SearchRequest defines the parameters for an eBay search.
type SearchRequest struct {
	Query        string
	CategoryID   string
	ConditionIDs []string
	Limit        int
	Sort         string
	Filters      map[string]string
}

// SearchResponse holds the results of an eBay search.
type SearchResponse struct {
	Items []ItemSummary
	Total int
}

// EbayClient defines the interface for interacting with the eBay API.
type EbayClient interface {
	Search(ctx context.Context, req SearchRequest) (*SearchResponse, error)
}

// TokenProvider defines the interface for obtaining OAuth2 tokens.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// ComparableQuery describes the item a caller wants comparables for.
type ComparableQuery struct {
	Query      string
	CategoryID string
	Condition  string
}

// ComparableFetcher returns marketplace listings similar to a query. An
// empty, nil-error result means the marketplace had nothing comparable.
type ComparableFetcher interface {
	FetchComparables(ctx context.Context, q ComparableQuery) ([]domain.ComparableItem, error)
}
