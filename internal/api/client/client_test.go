package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/bluberry/internal/api/handlers"
	domain "github.com/donaldgifford/bluberry/pkg/types"
)

func TestClient_ConnectionRefused(t *testing.T) {
	t.Parallel()

	c := New("http://127.0.0.1:1") // nothing listening
	_, err := c.EstimatorStatus(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API server not running")
}

func TestClient_HTTPError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		status     int
		body       string
		wantMsg    string
		wantDetail string
		notFound   bool
	}{
		{
			name:       "problem json detail",
			status:     http.StatusUnprocessableEntity,
			body:       `{"title":"Unprocessable Entity","status":422,"detail":"a description or an item name is required"}`,
			wantMsg:    "API error (HTTP 422): a description or an item name is required",
			wantDetail: "a description or an item name is required",
		},
		{
			name:    "plain body",
			status:  http.StatusBadGateway,
			body:    "upstream down",
			wantMsg: "API error (HTTP 502): upstream down",
		},
		{
			name:       "not found",
			status:     http.StatusNotFound,
			body:       `{"title":"Not Found","status":404,"detail":"no estimate for item"}`,
			wantMsg:    "API error (HTTP 404): no estimate for item",
			wantDetail: "no estimate for item",
			notFound:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := New(srv.URL).ItemEstimate(context.Background(), "item-1")
			require.Error(t, err)
			assert.EqualError(t, err, tt.wantMsg)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantDetail, apiErr.Detail)
			assert.Equal(t, tt.notFound, IsNotFound(err))
		})
	}
}

func TestClient_EstimatePrice(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/price", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "iPhone 11", body["itemName"])
		assert.Equal(t, "good", body["condition"])
		assert.NotContains(t, body, "issues")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"price": "$195",
			"priceValue": 195,
			"priceRange": {"low": "$165", "high": "$225"},
			"currency": "USD",
			"confidence": 0.9,
			"confidenceLevel": "high",
			"source": "marketplace_llm",
			"referenceCount": 2,
			"cached": false
		}`))
	}))
	defer srv.Close()

	resp, err := New(srv.URL).EstimatePrice(context.Background(), &handlers.PriceRequest{
		ItemName:  "iPhone 11",
		Condition: "good",
	})
	require.NoError(t, err)
	assert.Equal(t, "$195", resp.Price)
	assert.Equal(t, "$165", resp.PriceRange.Low)
	assert.InDelta(t, 0.9, resp.Confidence, 0.0001)
	assert.Equal(t, domain.SourceMarketplaceLLM, resp.Source)
	assert.Equal(t, 2, resp.ReferenceCount)
}

func TestClient_ItemEstimates(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/items/item 1/estimates", r.URL.Path)
		assert.Equal(t, "llm_only", r.URL.Query().Get("source"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		assert.Empty(t, r.URL.Query().Get("offset"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"estimates": [{"item_id": "item 1", "estimate": {"price": 120, "source": "llm_only", "confidence": "medium"}, "created_at": "2026-03-01T12:00:00Z"}],
			"total": 1, "limit": 5, "offset": 0
		}`))
	}))
	defer srv.Close()

	resp, err := New(srv.URL).ItemEstimates(context.Background(), "item 1", &ItemEstimatesParams{
		Source: "llm_only",
		Limit:  5,
	})
	require.NoError(t, err)
	require.Len(t, resp.Estimates, 1)
	assert.Equal(t, domain.SourceLLMOnly, resp.Estimates[0].Estimate.Source)
	assert.Equal(t, domain.ConfidenceMedium, resp.Estimates[0].Estimate.Confidence)
	assert.Equal(t, 1, resp.Total)
}

func TestClient_EstimatorStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/estimator/status", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"breakers": {"llm": {"failure_count": 3, "last_failure_at": "2026-03-01T12:00:00Z"}},
			"cache_entries": 4,
			"marketplace_enabled": true,
			"llm_backend": "ollama",
			"persistence_enabled": false,
			"ebay_quota": {"daily_limit": 5000, "daily_used": 10, "remaining": 4990, "reset_at": "2026-03-02T12:00:00Z"}
		}`))
	}))
	defer srv.Close()

	st, err := New(srv.URL).EstimatorStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, st.Breakers["llm"].FailureCount)
	assert.Equal(t, 4, st.CacheEntries)
	assert.Equal(t, "ollama", st.LLMBackend)
	require.NotNil(t, st.Quota)
	assert.Equal(t, int64(4990), st.Quota.Remaining)
}
