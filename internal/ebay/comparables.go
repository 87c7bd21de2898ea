package ebay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	domain "github.com/donaldgifford/bluberry/pkg/types"
)

const defaultMaxResults = 20

// ComparableSource implements ComparableFetcher on top of an EbayClient.
type ComparableSource struct {
	client     EbayClient
	maxResults int
	log        *slog.Logger
}

// ComparableOption configures the ComparableSource.
type ComparableOption func(*ComparableSource)

// WithMaxResults caps how many listings are requested per search.
func WithMaxResults(n int) ComparableOption {
	return func(s *ComparableSource) {
		if n > 0 {
			s.maxResults = n
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) ComparableOption {
	return func(s *ComparableSource) {
		s.log = l
	}
}

// NewComparableSource creates a ComparableSource backed by client.
func NewComparableSource(client EbayClient, opts ...ComparableOption) *ComparableSource {
	s := &ComparableSource{
		client:     client,
		maxResults: defaultMaxResults,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchComparables searches eBay for listings similar to q. A search that
// succeeds with no priced items returns an empty slice and nil error; a
// 204/empty-body answer from the API is also reported that way.
func (s *ComparableSource) FetchComparables(
	ctx context.Context,
	q ComparableQuery,
) ([]domain.ComparableItem, error) {
	query := strings.TrimSpace(q.Query)
	if query == "" {
		return nil, newProviderError(KindBadResponse, 0, errors.New("empty search query"))
	}

	resp, err := s.client.Search(ctx, SearchRequest{
		Query:        query,
		CategoryID:   q.CategoryID,
		ConditionIDs: ConditionIDs(q.Condition),
		Limit:        s.maxResults,
	})
	if err != nil {
		if KindOf(err) == KindEmptyResult {
			return []domain.ComparableItem{}, nil
		}
		return nil, fmt.Errorf("searching comparables: %w", err)
	}

	items := ToComparables(resp.Items)

	s.log.Debug("fetched comparables",
		"query", query,
		"returned", len(resp.Items),
		"usable", len(items),
		"total", resp.Total,
	)

	return items, nil
}
