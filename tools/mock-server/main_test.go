package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/donaldgifford/bluberry/internal/ebay"
	"github.com/donaldgifford/bluberry/internal/estimate"
	"github.com/donaldgifford/bluberry/pkg/llm"
	domain "github.com/donaldgifford/bluberry/pkg/types"
)

func loadTestFixture(t *testing.T) *browseAPIResponse {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "search_response.json"))
	if err != nil {
		t.Fatalf("reading fixture: %v", err)
	}
	resp, err := parseFixture(data)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func search(t *testing.T, handler http.HandlerFunc, query string) browseAPIResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/buy/browse/v1/item_summary/search"+query, http.NoBody)
	req.Header.Set("Authorization", "Bearer mock-token")
	w := httptest.NewRecorder()

	handler(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, want %d", w.Code, http.StatusOK)
	}
	var resp browseAPIResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return resp
}

func TestLoadFixture(t *testing.T) {
	fixture := loadTestFixture(t)
	if len(fixture.ItemSummaries) == 0 {
		t.Fatal("expected items in fixture")
	}
	if fixture.Total != len(fixture.ItemSummaries) {
		t.Errorf("total=%d, want %d", fixture.Total, len(fixture.ItemSummaries))
	}

	embedded, err := parseFixture(defaultFixture)
	if err != nil {
		t.Fatal(err)
	}
	if len(embedded.ItemSummaries) != len(fixture.ItemSummaries) {
		t.Errorf("embedded items=%d, want %d", len(embedded.ItemSummaries), len(fixture.ItemSummaries))
	}
}

func TestParseFailures(t *testing.T) {
	tests := []struct {
		in      string
		want    failures
		wantErr bool
	}{
		{in: "", want: failures{}},
		{in: "browse", want: failures{browse: true}},
		{in: "llm, browse", want: failures{browse: true, llm: true}},
		{in: "redis", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseFailures(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("parseFailures(%q) err=%v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if err == nil && got != tt.want {
			t.Errorf("parseFailures(%q)=%+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestTokenHandler_Success(t *testing.T) {
	handler := tokenHandler(testLogger())
	req := httptest.NewRequest(http.MethodPost, "/identity/v1/oauth2/token", http.NoBody)
	req.SetBasicAuth("app-id", "cert-id")
	w := httptest.NewRecorder()

	handler(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, want %d", w.Code, http.StatusOK)
	}

	var resp map[string]any
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp["access_token"] == nil || resp["access_token"] == "" {
		t.Error("expected non-empty access_token")
	}
	if resp["token_type"] != "Application Access Token" {
		t.Errorf("token_type=%v, want Application Access Token", resp["token_type"])
	}
	if resp["expires_in"] != float64(7200) {
		t.Errorf("expires_in=%v, want 7200", resp["expires_in"])
	}
}

func TestTokenHandler_MissingAuth(t *testing.T) {
	handler := tokenHandler(testLogger())
	req := httptest.NewRequest(http.MethodPost, "/identity/v1/oauth2/token", http.NoBody)
	w := httptest.NewRecorder()

	handler(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d, want %d", w.Code, http.StatusUnauthorized)
	}

	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp["error"] != "invalid_client" {
		t.Errorf("error=%s, want invalid_client", resp["error"])
	}
}

func TestSearchHandler_AllItems(t *testing.T) {
	fixture := loadTestFixture(t)
	var n atomic.Int64
	resp := search(t, searchHandler(testLogger(), fixture, &n), "")

	if resp.Total != len(fixture.ItemSummaries) {
		t.Errorf("total=%d, want %d", resp.Total, len(fixture.ItemSummaries))
	}
	if len(resp.ItemSummaries) != len(fixture.ItemSummaries) {
		t.Errorf("items=%d, want %d", len(resp.ItemSummaries), len(fixture.ItemSummaries))
	}
	if n.Load() != 1 {
		t.Errorf("searches=%d, want 1", n.Load())
	}
}

func TestSearchHandler_MissingToken(t *testing.T) {
	var n atomic.Int64
	handler := searchHandler(testLogger(), loadTestFixture(t), &n)
	w := httptest.NewRecorder()

	handler(w, httptest.NewRequest(http.MethodGet, "/buy/browse/v1/item_summary/search?q=iphone", http.NoBody))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d, want %d", w.Code, http.StatusUnauthorized)
	}
	if n.Load() != 0 {
		t.Errorf("searches=%d, want 0", n.Load())
	}
}

func TestSearchHandler_QueryFilter(t *testing.T) {
	fixture := loadTestFixture(t)
	var n atomic.Int64
	resp := search(t, searchHandler(testLogger(), fixture, &n), "?q=iPhone+11")

	if resp.Total != 5 {
		t.Errorf("total=%d, want 5", resp.Total)
	}
	for _, raw := range resp.ItemSummaries {
		var item itemSummary
		_ = json.Unmarshal(raw, &item)
		title := strings.ToLower(item.Title)
		if !strings.Contains(title, "iphone") || !strings.Contains(title, "11") {
			t.Errorf("title %q does not match query", item.Title)
		}
	}
}

func TestSearchHandler_Pagination(t *testing.T) {
	fixture := loadTestFixture(t)
	var n atomic.Int64
	resp := search(t, searchHandler(testLogger(), fixture, &n), "?limit=3&offset=0")

	if len(resp.ItemSummaries) != 3 {
		t.Errorf("items=%d, want 3", len(resp.ItemSummaries))
	}
	if resp.Total != len(fixture.ItemSummaries) {
		t.Errorf("total=%d, want %d", resp.Total, len(fixture.ItemSummaries))
	}
	if resp.Next == "" {
		t.Error("expected non-empty next for paginated response")
	}
}

func TestSearchHandler_PaginationOffset(t *testing.T) {
	fixture := loadTestFixture(t)
	total := len(fixture.ItemSummaries)
	var n atomic.Int64
	resp := search(t, searchHandler(testLogger(), fixture, &n), "?limit=50&offset=10")

	if len(resp.ItemSummaries) != total-10 {
		t.Errorf("items=%d, want %d", len(resp.ItemSummaries), total-10)
	}
	if resp.Next != "" {
		t.Error("expected empty next when all items returned")
	}
}

func TestSearchHandler_NoResults(t *testing.T) {
	var n atomic.Int64
	resp := search(t, searchHandler(testLogger(), loadTestFixture(t), &n), "?q=nonexistent_xyz_product")

	if resp.Total != 0 {
		t.Errorf("total=%d, want 0", resp.Total)
	}
	if resp.ItemSummaries == nil {
		t.Error("expected empty array, got nil")
	}
}

func TestRateLimitHandler(t *testing.T) {
	var n atomic.Int64
	n.Store(42)
	start := time.Date(2026, 6, 15, 14, 30, 0, 0, time.UTC)

	w := httptest.NewRecorder()
	rateLimitHandler(testLogger(), &n, start)(w,
		httptest.NewRequest(http.MethodGet, "/developer/analytics/v1_beta/rate_limit/", http.NoBody))

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, want %d", w.Code, http.StatusOK)
	}
	body := w.Body.String()
	for _, want := range []string{`"buy.browse"`, `"count":42`, `"remaining":4958`, `"reset":"2026-06-16T14:30:00Z"`} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %s: %s", want, body)
		}
	}
}

func TestPriceFromPrompt(t *testing.T) {
	tests := []struct {
		name           string
		prompt         string
		wantPrice      float64
		wantConfidence string
	}{
		{
			name:           "no comparables",
			prompt:         "Item: Vintage lamp\nCondition: good",
			wantPrice:      100,
			wantConfidence: "low",
		},
		{
			name:           "two comparables",
			prompt:         "1. iPhone 11 | $180 USD | Used\n2. iPhone 11 | $210.50 USD",
			wantPrice:      195,
			wantConfidence: "medium",
		},
		{
			name:           "odd count uses middle value",
			prompt:         "1. a | $120 USD\n2. b | $199 USD\n3. c | $329 USD",
			wantPrice:      199,
			wantConfidence: "high",
		},
		{
			name:           "thousands separator",
			prompt:         "1. a | $1,200 USD\n2. b | $1,000 USD\n3. c | $1,100 USD",
			wantPrice:      1100,
			wantConfidence: "high",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, conf, reasoning := priceFromPrompt(tt.prompt)
			if price != tt.wantPrice {
				t.Errorf("price=%v, want %v", price, tt.wantPrice)
			}
			if conf != tt.wantConfidence {
				t.Errorf("confidence=%s, want %s", conf, tt.wantConfidence)
			}
			if reasoning == "" {
				t.Error("expected reasoning")
			}
		})
	}
}

func TestChatHandler_BadRequest(t *testing.T) {
	w := httptest.NewRecorder()
	chatHandler(testLogger())(w,
		httptest.NewRequest(http.MethodPost, "/v1/chat/completions", strings.NewReader(`{"messages":[]}`)))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestUnavailableIf(t *testing.T) {
	ok := func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

	for _, fail := range []bool{false, true} {
		w := httptest.NewRecorder()
		unavailableIf(fail, ok)(w, httptest.NewRequest(http.MethodGet, "/", http.NoBody))

		want := http.StatusOK
		if fail {
			want = http.StatusServiceUnavailable
		}
		if w.Code != want {
			t.Errorf("fail=%v status=%d, want %d", fail, w.Code, want)
		}
	}
}

// newCascade wires the real eBay and LLM clients against the mock server.
func newCascade(t *testing.T, f failures) (*estimate.Service, *ebay.AnalyticsClient, *ebay.RateLimiter) {
	t.Helper()

	srv := httptest.NewServer(newMux(testLogger(), loadTestFixture(t), f))
	t.Cleanup(srv.Close)

	tokens := ebay.NewOAuthTokenProvider("app-id", "cert-id",
		ebay.WithTokenURL(srv.URL+"/identity/v1/oauth2/token"))
	limiter := ebay.NewRateLimiter(100, 10, 5000)
	browse := ebay.NewBrowseClient(tokens,
		ebay.WithBrowseURL(srv.URL+"/buy/browse/v1/item_summary/search"),
		ebay.WithRateLimiter(limiter))
	analytics := ebay.NewAnalyticsClient(tokens,
		ebay.WithAnalyticsURL(srv.URL+"/developer/analytics/v1_beta/rate_limit/"))

	pricer := llm.NewPricer(llm.NewOpenAICompatBackend(srv.URL, "mock", llm.WithOpenAICompatAPIKey("k")))

	svc := estimate.NewService(
		estimate.WithLogger(testLogger()),
		estimate.WithComparableFetcher(ebay.NewComparableSource(browse, ebay.WithLogger(testLogger()))),
		estimate.WithPricer(pricer, "openai_compat"),
	)
	t.Cleanup(svc.Close)
	return svc, analytics, limiter
}

func TestMockServer_Cascade(t *testing.T) {
	tests := []struct {
		name       string
		fail       failures
		req        estimate.Request
		wantSource domain.Source
	}{
		{
			name:       "comparables and llm",
			req:        estimate.Request{ItemName: "iPhone 11", Description: "64GB black", Condition: "good"},
			wantSource: domain.SourceMarketplaceLLM,
		},
		{
			name:       "no comparables falls to llm only",
			req:        estimate.Request{ItemName: "Vintage brass lamp"},
			wantSource: domain.SourceLLMOnly,
		},
		{
			name:       "browse outage falls to llm only",
			fail:       failures{browse: true},
			req:        estimate.Request{ItemName: "iPhone 11"},
			wantSource: domain.SourceLLMOnly,
		},
		{
			name:       "llm outage falls to local",
			fail:       failures{llm: true},
			req:        estimate.Request{ItemName: "iPhone 11"},
			wantSource: domain.SourceLocal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newCascade(t, tt.fail)

			res, err := svc.Estimate(context.Background(), tt.req)
			if err != nil {
				t.Fatalf("Estimate: %v", err)
			}
			if res.Estimate.Source != tt.wantSource {
				t.Errorf("source=%s, want %s", res.Estimate.Source, tt.wantSource)
			}
			if !res.Estimate.InRange() {
				t.Errorf("price %v outside [%v, %v]",
					res.Estimate.Price, res.Estimate.PriceRangeLow, res.Estimate.PriceRangeHigh)
			}
			if tt.wantSource == domain.SourceMarketplaceLLM {
				if res.Estimate.ReferenceCount < 3 {
					t.Errorf("reference_count=%d, want >= 3", res.Estimate.ReferenceCount)
				}
				if res.Estimate.Confidence != domain.ConfidenceHigh {
					t.Errorf("confidence=%s, want high", res.Estimate.Confidence)
				}
			}
		})
	}
}

func TestMockServer_QuotaSync(t *testing.T) {
	svc, analytics, limiter := newCascade(t, failures{})

	if _, err := svc.Estimate(context.Background(), estimate.Request{ItemName: "PlayStation 5"}); err != nil {
		t.Fatalf("Estimate: %v", err)
	}

	state, err := analytics.SyncQuota(context.Background(), limiter)
	if err != nil {
		t.Fatalf("SyncQuota: %v", err)
	}
	if state.Count != 1 {
		t.Errorf("count=%d, want 1", state.Count)
	}
	if got := limiter.Status().Used; got != 1 {
		t.Errorf("limiter used=%d, want 1", got)
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}
