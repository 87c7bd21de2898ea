package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/bluberry/internal/config"
	"github.com/donaldgifford/bluberry/internal/estimate"
	"github.com/donaldgifford/bluberry/internal/notify"
	"github.com/donaldgifford/bluberry/internal/scheduler"
	"github.com/donaldgifford/bluberry/pkg/heuristic"
	domain "github.com/donaldgifford/bluberry/pkg/types"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func iphoneInput() heuristic.Input {
	return heuristic.Input{
		Description: "64GB, black, small scratch on the back",
		Name:        "iPhone 11",
		Condition:   "good",
	}
}

func TestNewLLMBackend(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cfg      config.LLMConfig
		wantName string
		wantNil  bool
		wantErr  string
	}{
		{
			name:    "none disables the llm",
			cfg:     config.LLMConfig{Backend: config.BackendNone},
			wantNil: true,
		},
		{
			name: "ollama",
			cfg: config.LLMConfig{
				Backend: config.BackendOllama,
				Ollama:  config.OllamaConfig{Endpoint: "http://localhost:11434", Model: "mistral"},
			},
			wantName: "ollama",
		},
		{
			name: "anthropic",
			cfg: config.LLMConfig{
				Backend:   config.BackendAnthropic,
				Anthropic: config.AnthropicConfig{Model: "claude-haiku-4-5", APIKey: "test-key"},
			},
			wantName: "anthropic",
		},
		{
			name: "openai compatible",
			cfg: config.LLMConfig{
				Backend:      config.BackendOpenAICompat,
				OpenAICompat: config.OpenAICompatConfig{Endpoint: "http://localhost:8000", Model: "qwen"},
			},
			wantName: "openai_compat",
		},
		{
			name: "gemini",
			cfg: config.LLMConfig{
				Backend: config.BackendGemini,
				Gemini:  config.GeminiConfig{Model: "gemini-2.5-flash-lite", APIKey: "test-key"},
			},
			wantName: "gemini",
		},
		{
			name:    "unknown backend",
			cfg:     config.LLMConfig{Backend: "palm"},
			wantErr: `unknown llm backend "palm"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b, err := newLLMBackend(context.Background(), &tt.cfg)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, b)
				return
			}
			require.NotNil(t, b)
			assert.Equal(t, tt.wantName, b.Name())
		})
	}
}

func TestNewHeuristic(t *testing.T) {
	t.Parallel()

	t.Run("seed makes estimates reproducible", func(t *testing.T) {
		t.Parallel()

		seed := uint64(42)
		cfg := &config.EstimationConfig{Seed: &seed}

		a, err := newHeuristic(cfg)
		require.NoError(t, err)
		b, err := newHeuristic(cfg)
		require.NoError(t, err)

		assert.Equal(t, a.Estimate(iphoneInput()), b.Estimate(iphoneInput()))
	})

	t.Run("custom category file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "categories.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
- name: Bicycles
  patterns: ['\bbike\b']
  base_price: 300
  premium_multiplier: 1.2
- name: General
  base_price: 40
  premium_multiplier: 1
`), 0o600))

		h, err := newHeuristic(&config.EstimationConfig{CategoriesFile: path})
		require.NoError(t, err)

		cats := h.Categories()
		require.Len(t, cats, 2)
		assert.Equal(t, "Bicycles", cats[0].Name)
	})

	t.Run("missing category file", func(t *testing.T) {
		t.Parallel()

		_, err := newHeuristic(&config.EstimationConfig{CategoriesFile: "/nonexistent/categories.yaml"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "loading categories")
	})
}

func TestNewCache_Memory(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	c, err := newCache(context.Background(), &cfg.Estimation, quietLogger())
	require.NoError(t, err)
	assert.IsType(t, &estimate.MemoryCache{}, c)
}

func TestNewNotifier(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	assert.IsType(t, &notify.NoOpNotifier{}, newNotifier(&cfg.Notifications, quietLogger()))

	cfg.Notifications.Discord = config.DiscordConfig{Enabled: true, WebhookURL: "https://discord.example/hook"}
	assert.IsType(t, &notify.DiscordNotifier{}, newNotifier(&cfg.Notifications, quietLogger()))
}

func TestBuildComponents(t *testing.T) {
	t.Parallel()

	t.Run("defaults run local only", func(t *testing.T) {
		t.Parallel()

		comps, err := buildComponents(context.Background(), config.Default(), quietLogger())
		require.NoError(t, err)
		t.Cleanup(comps.close)

		st := comps.service.Status()
		assert.False(t, st.Marketplace)
		assert.False(t, st.Persistence)
		assert.Empty(t, st.LLMBackend)
		assert.Nil(t, comps.store)
		assert.Nil(t, comps.limiter)
		assert.Nil(t, comps.analytics)
		assert.Empty(t, comps.readiness)
	})

	t.Run("ebay and llm configured", func(t *testing.T) {
		t.Parallel()

		cfg := config.Default()
		cfg.Ebay.AppID = "app"
		cfg.Ebay.CertID = "cert"
		cfg.LLM.Backend = config.BackendOllama
		cfg.LLM.Ollama.Endpoint = "http://localhost:11434"

		comps, err := buildComponents(context.Background(), cfg, quietLogger())
		require.NoError(t, err)
		t.Cleanup(comps.close)

		st := comps.service.Status()
		assert.True(t, st.Marketplace)
		assert.Equal(t, "ollama", st.LLMBackend)
		require.NotNil(t, comps.limiter)
		assert.Equal(t, cfg.Ebay.RateLimit.DailyLimit, comps.limiter.Status().Limit)
		assert.NotNil(t, comps.analytics)
	})

	t.Run("extra blocked terms extend the defaults", func(t *testing.T) {
		t.Parallel()

		cfg := config.Default()
		cfg.Estimation.BlockedTerms = []string{"knockoff"}

		comps, err := buildComponents(context.Background(), cfg, quietLogger())
		require.NoError(t, err)
		t.Cleanup(comps.close)

		for _, name := range []string{"Knockoff sneakers", "counterfeit watch"} {
			res, err := comps.service.Estimate(context.Background(), estimate.Request{ItemName: name})
			require.NoError(t, err)
			assert.Equal(t, domain.SourceContentFilter, res.Estimate.Source, name)
		}
	})

	t.Run("bad category file fails", func(t *testing.T) {
		t.Parallel()

		cfg := config.Default()
		cfg.Estimation.CategoriesFile = "/nonexistent/categories.yaml"

		_, err := buildComponents(context.Background(), cfg, quietLogger())
		require.Error(t, err)
	})
}

func TestComponentsClose_ReverseOrder(t *testing.T) {
	t.Parallel()

	var order []int
	c := &components{closers: []func(){
		func() { order = append(order, 1) },
		func() { order = append(order, 2) },
	}}
	c.close()

	assert.Equal(t, []int{2, 1}, order)
}

func TestNewScheduler(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Ebay.AppID = "app"
	cfg.Ebay.CertID = "cert"

	comps, err := buildComponents(context.Background(), cfg, quietLogger())
	require.NoError(t, err)
	t.Cleanup(comps.close)

	s, err := newScheduler(comps, &cfg.Schedule, quietLogger())
	require.NoError(t, err)
	assert.Len(t, s.Entries(), 3)

	require.NoError(t, s.RunNow(context.Background(), scheduler.JobCachePrune))
	require.NoError(t, s.RunNow(context.Background(), scheduler.JobBreakerGauges))
}

func TestNewRouter(t *testing.T) {
	t.Parallel()

	comps, err := buildComponents(context.Background(), config.Default(), quietLogger())
	require.NoError(t, err)
	t.Cleanup(comps.close)

	e := newRouter(comps, quietLogger())

	t.Run("price", func(t *testing.T) {
		body := `{"itemName":"iPhone 11","description":"64GB black","condition":"good"}`
		req := httptest.NewRequest(http.MethodPost, "/price", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

		var resp map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "local", resp["source"])
		assert.Equal(t, "USD", resp["currency"])
	})

	t.Run("price validation", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/price", strings.NewReader(`{"condition":"good"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("item history without database", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/items/42/estimates", http.NoBody))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("status", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/estimator/status", http.NoBody))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "ebay_quota")
	})

	for _, path := range []string{"/healthz", "/readyz", "/metrics", "/openapi.json"} {
		t.Run(path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, http.NoBody))

			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}

func TestEstimateCmd_Local(t *testing.T) {
	t.Parallel()

	run := func() string {
		var out bytes.Buffer
		c := estimateCmd()
		c.SetOut(&out)
		c.SetArgs([]string{"--local", "--seed", "7", "--name", "iPhone 11", "--condition", "good", "64GB black"})
		require.NoError(t, c.Execute())
		return out.String()
	}

	first := run()
	assert.Contains(t, first, "Source:")
	assert.Contains(t, first, "local")
	assert.Equal(t, first, run())
}

func TestEstimateCmd_RequiresInput(t *testing.T) {
	t.Parallel()

	c := estimateCmd()
	c.SetOut(&bytes.Buffer{})
	c.SetErr(&bytes.Buffer{})
	c.SetArgs([]string{"--local", "  "})

	err := c.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a description or --name is required")
}

func TestCategoriesCmd(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	c := categoriesCmd()
	c.SetOut(&out)
	c.SetArgs(nil)
	require.NoError(t, c.Execute())

	assert.Contains(t, out.String(), "NAME")
	assert.Contains(t, out.String(), "Smartphones")
	assert.Contains(t, out.String(), "General")
}

func TestVersionCmd(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	c := versionCmd()
	c.SetOut(&out)
	c.SetArgs(nil)
	require.NoError(t, c.Execute())

	assert.Equal(t, "bluberry dev\n", out.String())
}
