package ebay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/donaldgifford/bluberry/internal/metrics"
)

const (
	defaultBrowseURL   = "https://api.ebay.com/buy/browse/v1/item_summary/search"
	defaultMarketplace = "EBAY_US"
	defaultSearchLimit = 20
)

// BrowseClient implements EbayClient using the eBay Browse API.
type BrowseClient struct {
	tokens      TokenProvider
	browseURL   string
	marketplace string
	client      *http.Client
	rateLimiter *RateLimiter
}

// BrowseOption configures the BrowseClient.
type BrowseOption func(*BrowseClient)

// WithBrowseURL overrides the default Browse API endpoint.
func WithBrowseURL(u string) BrowseOption {
	return func(c *BrowseClient) {
		c.browseURL = u
	}
}

// WithMarketplace overrides the default marketplace.
func WithMarketplace(m string) BrowseOption {
	return func(c *BrowseClient) {
		c.marketplace = m
	}
}

// WithBrowseHTTPClient overrides the default HTTP client.
func WithBrowseHTTPClient(hc *http.Client) BrowseOption {
	return func(c *BrowseClient) {
		c.client = hc
	}
}

// WithRateLimiter makes every Search go through r.Wait first.
func WithRateLimiter(r *RateLimiter) BrowseOption {
	return func(c *BrowseClient) {
		c.rateLimiter = r
	}
}

// NewBrowseClient creates a new eBay Browse API client.
func NewBrowseClient(tokens TokenProvider, opts ...BrowseOption) *BrowseClient {
	c := &BrowseClient{
		tokens:      tokens,
		browseURL:   defaultBrowseURL,
		marketplace: defaultMarketplace,
		client:      &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RateLimiter returns the configured limiter, or nil.
func (c *BrowseClient) RateLimiter() *RateLimiter {
	return c.rateLimiter
}

type browseAPIResponse struct {
	ItemSummaries []ItemSummary `json:"itemSummaries"`
	Total         int           `json:"total"`
}

// Search implements EbayClient.Search. Every failure is a *ProviderError.
func (c *BrowseClient) Search(
	ctx context.Context,
	req SearchRequest,
) (*SearchResponse, error) {
	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			if errors.Is(err, ErrDailyLimitReached) {
				metrics.EbayDailyLimitHits.Inc()
				return nil, newProviderError(KindRateLimit, 0, err)
			}
			return nil, newProviderError(KindNetwork, 0, err)
		}
		metrics.EbayDailyUsage.Set(float64(c.rateLimiter.DailyCount()))
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		var pe *ProviderError
		if errors.As(err, &pe) {
			return nil, err
		}
		return nil, newProviderError(KindAuth, 0, fmt.Errorf("getting auth token: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildSearchURL(req), http.NoBody)
	if err != nil {
		return nil, newProviderError(KindBadResponse, 0, fmt.Errorf("creating HTTP request: %w", err))
	}

	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("X-EBAY-C-MARKETPLACE-ID", c.marketplace)
	httpReq.Header.Set("Accept", "application/json")

	metrics.EbayAPICallsTotal.Inc()

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, newProviderError(KindNetwork, 0, fmt.Errorf("executing search request: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newProviderError(KindNetwork, resp.StatusCode, fmt.Errorf("reading response body: %w", err))
	}

	if resp.StatusCode == http.StatusNoContent || (resp.StatusCode == http.StatusOK && len(body) == 0) {
		return nil, newProviderError(KindEmptyResult, resp.StatusCode, errors.New("search returned no content"))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, newProviderError(
			kindForStatus(resp.StatusCode),
			resp.StatusCode,
			fmt.Errorf("search failed: %s", truncate(string(body), 256)),
		)
	}

	var apiResp browseAPIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, newProviderError(KindBadResponse, resp.StatusCode, fmt.Errorf("parsing search response: %w", err))
	}

	return &SearchResponse{
		Items: apiResp.ItemSummaries,
		Total: apiResp.Total,
	}, nil
}

func (c *BrowseClient) buildSearchURL(req SearchRequest) string {
	params := url.Values{}
	params.Set("q", req.Query)

	if req.CategoryID != "" {
		params.Set("category_ids", req.CategoryID)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	params.Set("limit", strconv.Itoa(limit))

	if req.Sort != "" {
		params.Set("sort", req.Sort)
	}

	for k, v := range req.Filters {
		params.Set(k, v)
	}

	if len(req.ConditionIDs) > 0 {
		cond := "conditionIds:{" + strings.Join(req.ConditionIDs, "|") + "}"
		if existing := params.Get("filter"); existing != "" {
			cond = existing + "," + cond
		}
		params.Set("filter", cond)
	}

	return c.browseURL + "?" + params.Encode()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
