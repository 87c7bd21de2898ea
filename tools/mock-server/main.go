// Package main implements a mock upstream server for local development.
// It serves the eBay OAuth token, Browse search and Analytics rate-limit
// endpoints from an embedded fixture, plus an OpenAI-compatible chat
// completions endpoint that prices items from the comparables in the
// prompt. Point ebay.*_url and llm.openai_compat.endpoint at it to run the
// whole cascade without credentials.
package main

import (
	_ "embed"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"os"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

//go:embed testdata/search_response.json
var defaultFixture []byte

const dailyLimit = 5000

type browseAPIResponse struct {
	ItemSummaries []json.RawMessage `json:"itemSummaries"`
	Total         int               `json:"total"`
	Offset        int               `json:"offset"`
	Limit         int               `json:"limit"`
	Next          string            `json:"next,omitempty"`
}

type itemSummary struct {
	Title string `json:"title"`
}

// failures selects endpoints that answer 503 to exercise the circuit
// breaker.
type failures struct {
	browse bool
	llm    bool
}

func parseFailures(s string) (failures, error) {
	var f failures
	for part := range strings.SplitSeq(s, ",") {
		switch strings.TrimSpace(part) {
		case "":
		case "browse":
			f.browse = true
		case "llm":
			f.llm = true
		default:
			return f, fmt.Errorf("unknown failure target %q (want browse or llm)", part)
		}
	}
	return f, nil
}

func main() {
	port := flag.Int("port", 8089, "port to listen on")
	fixtureFile := flag.String("fixture", "", "search response fixture (default embedded)")
	fail := flag.String("fail", "", "comma-separated endpoints that return 503: browse, llm")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	data := defaultFixture
	if *fixtureFile != "" {
		var err error
		if data, err = os.ReadFile(*fixtureFile); err != nil { //nolint:gosec // fixture path from trusted CLI flag
			logger.Error("failed to read fixture", "path", *fixtureFile, "error", err)
			os.Exit(1)
		}
	}

	fixture, err := parseFixture(data)
	if err != nil {
		logger.Error("failed to load fixture", "error", err)
		os.Exit(1)
	}
	logger.Info("loaded fixture", "items", len(fixture.ItemSummaries))

	f, err := parseFailures(*fail)
	if err != nil {
		logger.Error("invalid -fail flag", "error", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock upstream server", "addr", addr, "fail_browse", f.browse, "fail_llm", f.llm)

	srv := &http.Server{
		Addr:         addr,
		Handler:      requestLogger(logger, newMux(logger, fixture, f)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newMux(logger *slog.Logger, fixture *browseAPIResponse, f failures) *http.ServeMux {
	var searches atomic.Int64
	windowStart := time.Now()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /identity/v1/oauth2/token", tokenHandler(logger))
	mux.HandleFunc("GET /buy/browse/v1/item_summary/search",
		unavailableIf(f.browse, searchHandler(logger, fixture, &searches)))
	mux.HandleFunc("GET /developer/analytics/v1_beta/rate_limit/",
		rateLimitHandler(logger, &searches, windowStart))
	mux.HandleFunc("POST /v1/chat/completions",
		unavailableIf(f.llm, chatHandler(logger)))
	return mux
}

func parseFixture(data []byte) (*browseAPIResponse, error) {
	var resp browseAPIResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	return &resp, nil
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "query", r.URL.RawQuery)
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
	json.NewEncoder(w).Encode(v)
}

func unavailableIf(fail bool, next http.HandlerFunc) http.HandlerFunc {
	if !fail {
		return next
	}
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "service unavailable"})
	}
}

func tokenHandler(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Basic Auth must be present; credentials are not checked.
		if _, _, ok := r.BasicAuth(); !ok {
			logger.Warn("token request missing Basic Auth header")
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error":             "invalid_client",
				"error_description": "client authentication failed",
			})
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"access_token": "mock-token-v1-" + strconv.FormatInt(int64(os.Getpid()), 16),
			"expires_in":   7200,
			"token_type":   "Application Access Token",
		})
		logger.Info("issued mock token")
	}
}

func searchHandler(logger *slog.Logger, fixture *browseAPIResponse, searches *atomic.Int64) http.HandlerFunc {
	type indexedItem struct {
		raw   json.RawMessage
		title string
	}
	items := make([]indexedItem, 0, len(fixture.ItemSummaries))
	for _, raw := range fixture.ItemSummaries {
		var s itemSummary
		//nolint:errcheck,gosec // fixture data is trusted; title extraction is best-effort
		json.Unmarshal(raw, &s)
		items = append(items, indexedItem{raw: raw, title: strings.ToLower(s.Title)})
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
			return
		}
		searches.Add(1)

		q := strings.ToLower(r.URL.Query().Get("q"))
		words := strings.Fields(q)

		limit := 50
		if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
			limit = v
		}
		offset := 0
		if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v >= 0 {
			offset = v
		}

		// Every query word must appear in the title.
		var matched []json.RawMessage
		for _, item := range items {
			if !slices.ContainsFunc(words, func(word string) bool { return !strings.Contains(item.title, word) }) {
				matched = append(matched, item.raw)
			}
		}

		total := len(matched)

		if offset >= len(matched) {
			matched = nil
		} else {
			end := min(offset+limit, len(matched))
			matched = matched[offset:end]
		}

		resp := browseAPIResponse{
			ItemSummaries: matched,
			Total:         total,
			Offset:        offset,
			Limit:         limit,
		}
		if offset+limit < total {
			resp.Next = fmt.Sprintf("/buy/browse/v1/item_summary/search?q=%s&offset=%d&limit=%d",
				r.URL.Query().Get("q"), offset+limit, limit)
		}
		if resp.ItemSummaries == nil {
			resp.ItemSummaries = []json.RawMessage{}
		}

		writeJSON(w, http.StatusOK, resp)
		logger.Info("search", "query", q, "matched", total, "returned", len(matched), "offset", offset, "limit", limit)
	}
}

func rateLimitHandler(logger *slog.Logger, searches *atomic.Int64, windowStart time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		used := searches.Load()
		writeJSON(w, http.StatusOK, map[string]any{
			"rateLimits": []map[string]any{{
				"apiContext": "buy",
				"apiName":    "browse",
				"resources": []map[string]any{{
					"name": "buy.browse",
					"rates": []map[string]any{{
						"count":      used,
						"limit":      dailyLimit,
						"remaining":  max(dailyLimit-used, 0),
						"reset":      windowStart.Add(24 * time.Hour).UTC().Format(time.RFC3339),
						"timeWindow": 86400,
					}},
				}},
			}},
		})
		logger.Info("rate limit", "used", used)
	}
}

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

// comparablePrice matches the price column of a comparable listing line.
var comparablePrice = regexp.MustCompile(`\| \$([0-9][0-9,]*(?:\.[0-9]+)?)`)

// priceFromPrompt answers with the median comparable price, or a flat
// low-confidence guess when the prompt carries no comparables.
func priceFromPrompt(prompt string) (price float64, confidence, reasoning string) {
	var prices []float64
	for _, m := range comparablePrice.FindAllStringSubmatch(prompt, -1) {
		if v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64); err == nil {
			prices = append(prices, v)
		}
	}

	if len(prices) == 0 {
		return 100, "low", "No comparable listings; using a generic second-hand price."
	}

	slices.Sort(prices)
	mid := len(prices) / 2
	median := prices[mid]
	if len(prices)%2 == 0 {
		median = (prices[mid-1] + prices[mid]) / 2
	}

	confidence = "medium"
	if len(prices) >= 3 {
		confidence = "high"
	}
	return math.Round(median), confidence, fmt.Sprintf("Median of %d comparable listings.", len(prices))
}

func chatHandler(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Messages) == 0 {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error": map[string]string{"message": "invalid chat request", "type": "invalid_request_error"},
			})
			return
		}

		prompt := req.Messages[len(req.Messages)-1].Content
		price, confidence, reasoning := priceFromPrompt(prompt)

		//nolint:errcheck,gosec // marshaling a map of basic types cannot fail
		content, _ := json.Marshal(map[string]any{
			"estimatedPrice": price,
			"confidence":     confidence,
			"reasoning":      reasoning,
		})

		writeJSON(w, http.StatusOK, map[string]any{
			"id":      "chatcmpl-mock",
			"object":  "chat.completion",
			"created": time.Now().Unix(),
			"model":   req.Model,
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": string(content)},
				"finish_reason": "stop",
			}},
			"usage": map[string]int{
				"prompt_tokens":     len(prompt) / 4,
				"completion_tokens": len(content) / 4,
				"total_tokens":      (len(prompt) + len(content)) / 4,
			},
		})
		logger.Info("chat completion", "price", price, "confidence", confidence)
	}
}
