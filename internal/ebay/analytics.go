package ebay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/donaldgifford/bluberry/internal/metrics"
)

const (
	defaultAnalyticsURL = "https://api.ebay.com/developer/analytics/v1_beta/rate_limit/"

	// browseResourceName is the Analytics API resource covering
	// item_summary/search calls.
	browseResourceName = "buy.browse"
)

type rateLimitResponse struct {
	RateLimits []struct {
		APIContext string `json:"apiContext"`
		APIName    string `json:"apiName"`
		Resources  []struct {
			Name  string `json:"name"`
			Rates []struct {
				Count      int64  `json:"count"`
				Limit      int64  `json:"limit"`
				Remaining  int64  `json:"remaining"`
				Reset      string `json:"reset"`
				TimeWindow int64  `json:"timeWindow"`
			} `json:"rates"`
		} `json:"resources"`
	} `json:"rateLimits"`
}

// QuotaState is eBay's own view of the Browse API quota.
type QuotaState struct {
	Count      int64
	Limit      int64
	Remaining  int64
	ResetAt    time.Time
	TimeWindow time.Duration
}

// AnalyticsClient reads the Browse API quota from the eBay Developer
// Analytics API so the local limiter can follow the server-side count.
type AnalyticsClient struct {
	tokens       TokenProvider
	analyticsURL string
	client       *http.Client
}

// AnalyticsOption configures the AnalyticsClient.
type AnalyticsOption func(*AnalyticsClient)

// WithAnalyticsURL overrides the default Analytics API endpoint.
func WithAnalyticsURL(u string) AnalyticsOption {
	return func(c *AnalyticsClient) {
		c.analyticsURL = u
	}
}

// WithAnalyticsHTTPClient overrides the default HTTP client.
func WithAnalyticsHTTPClient(hc *http.Client) AnalyticsOption {
	return func(c *AnalyticsClient) {
		c.client = hc
	}
}

// NewAnalyticsClient creates an Analytics API client.
func NewAnalyticsClient(tokens TokenProvider, opts ...AnalyticsOption) *AnalyticsClient {
	c := &AnalyticsClient{
		tokens:       tokens,
		analyticsURL: defaultAnalyticsURL,
		client:       &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BrowseQuota returns the current quota of the buy.browse resource.
// Failures are *ProviderError values.
func (c *AnalyticsClient) BrowseQuota(ctx context.Context) (*QuotaState, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting auth token: %w", err)
	}

	u, err := url.Parse(c.analyticsURL)
	if err != nil {
		return nil, newProviderError(KindBadResponse, 0, fmt.Errorf("parsing analytics URL: %w", err))
	}
	q := u.Query()
	q.Set("api_context", "buy")
	q.Set("api_name", "browse")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, newProviderError(KindNetwork, 0, fmt.Errorf("creating analytics request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, newProviderError(KindNetwork, 0, fmt.Errorf("executing analytics request: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newProviderError(KindNetwork, resp.StatusCode, fmt.Errorf("reading analytics response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, newProviderError(kindForStatus(resp.StatusCode), resp.StatusCode,
			fmt.Errorf("analytics API: %s", truncate(string(body), 200)))
	}

	var parsed rateLimitResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, newProviderError(KindBadResponse, resp.StatusCode, fmt.Errorf("parsing analytics response: %w", err))
	}

	state, err := browseQuota(&parsed)
	if err != nil {
		return nil, newProviderError(KindBadResponse, resp.StatusCode, err)
	}
	return state, nil
}

// SyncQuota fetches the Browse quota and applies it to limiter.
func (c *AnalyticsClient) SyncQuota(ctx context.Context, limiter *RateLimiter) (*QuotaState, error) {
	if limiter == nil {
		return nil, errors.New("no rate limiter to sync")
	}
	state, err := c.BrowseQuota(ctx)
	if err != nil {
		return nil, err
	}
	limiter.Sync(*state)
	metrics.EbayDailyUsage.Set(float64(limiter.DailyCount()))
	return state, nil
}

func browseQuota(resp *rateLimitResponse) (*QuotaState, error) {
	for _, entry := range resp.RateLimits {
		for _, res := range entry.Resources {
			if res.Name != browseResourceName {
				continue
			}
			if len(res.Rates) == 0 {
				return nil, fmt.Errorf("no rates found for resource %q", browseResourceName)
			}

			r := res.Rates[0]
			resetAt, err := time.Parse(time.RFC3339, r.Reset)
			if err != nil {
				return nil, fmt.Errorf("parsing reset time %q: %w", r.Reset, err)
			}

			return &QuotaState{
				Count:      r.Count,
				Limit:      r.Limit,
				Remaining:  r.Remaining,
				ResetAt:    resetAt,
				TimeWindow: time.Duration(r.TimeWindow) * time.Second,
			}, nil
		}
	}
	return nil, fmt.Errorf("resource %q not found in analytics response", browseResourceName)
}
