package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/donaldgifford/bluberry/internal/api/handlers"
	"github.com/donaldgifford/bluberry/internal/api/middleware"
	"github.com/donaldgifford/bluberry/internal/config"
	"github.com/donaldgifford/bluberry/internal/ebay"
	"github.com/donaldgifford/bluberry/internal/estimate"
	"github.com/donaldgifford/bluberry/internal/notify"
	"github.com/donaldgifford/bluberry/internal/scheduler"
	"github.com/donaldgifford/bluberry/internal/store"
	"github.com/donaldgifford/bluberry/pkg/heuristic"
	"github.com/donaldgifford/bluberry/pkg/llm"
)

const breakerGaugeInterval = time.Minute

// components holds everything runServe starts and later stops.
type components struct {
	service   *estimate.Service
	store     store.Store
	limiter   *ebay.RateLimiter
	analytics *ebay.AnalyticsClient
	cache     estimate.Cache
	notifier  notify.Notifier
	readiness []handlers.Pinger
	closers   []func()
}

// close releases resources in reverse order of creation.
func (c *components) close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

// buildComponents constructs the estimation service and its providers from
// cfg. A failure closes whatever was already opened.
func buildComponents(ctx context.Context, cfg *config.Config, log *slog.Logger) (_ *components, err error) {
	c := &components{notifier: newNotifier(&cfg.Notifications, log)}
	defer func() {
		if err != nil {
			c.close()
		}
	}()

	opts := []estimate.Option{
		estimate.WithLogger(log),
		estimate.WithStageTimeout(cfg.Estimation.StageTimeout),
		estimate.WithPersistTimeout(cfg.Estimation.PersistTimeout),
		estimate.WithMaxComparables(cfg.Estimation.MaxComparables),
		estimate.WithBreaker(estimate.NewBreaker(
			estimate.WithMaxFailures(cfg.Estimation.Breaker.MaxFailures),
			estimate.WithResetTimeout(cfg.Estimation.Breaker.ResetTimeout),
		)),
	}

	if len(cfg.Estimation.BlockedTerms) > 0 {
		terms := append(append([]string{}, estimate.DefaultBlockedTerms...), cfg.Estimation.BlockedTerms...)
		opts = append(opts, estimate.WithContentFilter(estimate.NewContentFilter(terms)))
	}

	local, err := newHeuristic(&cfg.Estimation)
	if err != nil {
		return nil, err
	}
	opts = append(opts, estimate.WithHeuristic(local))

	cache, err := newCache(ctx, &cfg.Estimation, log)
	if err != nil {
		return nil, err
	}
	c.cache = cache
	opts = append(opts, estimate.WithCache(cache))
	if rc, ok := cache.(*estimate.RedisCache); ok {
		c.readiness = append(c.readiness, rc)
		c.closers = append(c.closers, func() { _ = rc.Close() })
	}

	if cfg.Database.Enabled() {
		pg, err := store.NewPostgresStore(ctx, cfg.Database.DSN(), store.WithPoolSize(cfg.Database.PoolSize))
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}
		c.closers = append(c.closers, pg.Close)

		applied, err := pg.Migrate(ctx)
		if err != nil {
			return nil, fmt.Errorf("running migrations: %w", err)
		}
		if len(applied) > 0 {
			log.Info("applied migrations", "versions", applied)
		}

		c.store = pg
		c.readiness = append(c.readiness, pg)
		opts = append(opts, estimate.WithRecorder(pg))
	}

	if cfg.Ebay.Enabled() {
		tokens := ebay.NewOAuthTokenProvider(cfg.Ebay.AppID, cfg.Ebay.CertID,
			ebay.WithTokenURL(cfg.Ebay.TokenURL),
		)
		c.limiter = ebay.NewRateLimiter(
			cfg.Ebay.RateLimit.PerSecond,
			cfg.Ebay.RateLimit.Burst,
			cfg.Ebay.RateLimit.DailyLimit,
		)
		browse := ebay.NewBrowseClient(tokens,
			ebay.WithBrowseURL(cfg.Ebay.BrowseURL),
			ebay.WithMarketplace(cfg.Ebay.Marketplace),
			ebay.WithRateLimiter(c.limiter),
		)
		c.analytics = ebay.NewAnalyticsClient(tokens, ebay.WithAnalyticsURL(cfg.Ebay.AnalyticsURL))
		opts = append(opts, estimate.WithComparableFetcher(ebay.NewComparableSource(browse,
			ebay.WithMaxResults(cfg.Ebay.MaxResults),
			ebay.WithLogger(log),
		)))
	} else {
		log.Info("ebay credentials not configured, marketplace stage disabled")
	}

	backend, err := newLLMBackend(ctx, &cfg.LLM)
	if err != nil {
		return nil, err
	}
	if backend != nil {
		pricer := llm.NewPricer(backend,
			llm.WithTemperature(cfg.LLM.Temperature),
			llm.WithMaxTokens(cfg.LLM.MaxTokens),
		)
		opts = append(opts, estimate.WithPricer(pricer, backend.Name()))
	} else {
		log.Info("llm backend disabled")
	}

	c.service = estimate.NewService(opts...)
	return c, nil
}

func newHeuristic(cfg *config.EstimationConfig) (*heuristic.Estimator, error) {
	var opts []heuristic.Option
	if cfg.CategoriesFile != "" {
		cats, err := heuristic.LoadCategories(cfg.CategoriesFile)
		if err != nil {
			return nil, fmt.Errorf("loading categories: %w", err)
		}
		opts = append(opts, heuristic.WithCategories(cats))
	}
	if cfg.Seed != nil {
		opts = append(opts, heuristic.WithSeed(*cfg.Seed))
	}
	return heuristic.New(opts...), nil
}

func newCache(ctx context.Context, cfg *config.EstimationConfig, log *slog.Logger) (estimate.Cache, error) {
	if cfg.CacheBackend != config.CacheRedis {
		return estimate.NewMemoryCache(cfg.CacheTTL), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	rc := estimate.NewRedisCache(client, cfg.CacheTTL,
		estimate.WithRedisKeyPrefix(cfg.Redis.KeyPrefix),
		estimate.WithRedisLogger(log),
	)
	if err := rc.Ping(ctx); err != nil {
		// The cascade treats cache errors as misses; start anyway and let
		// readiness report the outage.
		log.Warn("redis cache unreachable", "addr", cfg.Redis.Addr, "error", err)
	}
	return rc, nil
}

// newLLMBackend returns nil when the backend is "none".
func newLLMBackend(ctx context.Context, cfg *config.LLMConfig) (llm.LLMBackend, error) {
	hc := &http.Client{Timeout: cfg.Timeout}

	switch cfg.Backend {
	case config.BackendNone:
		return nil, nil
	case config.BackendOllama:
		return llm.NewOllamaBackend(cfg.Ollama.Endpoint, cfg.Ollama.Model, llm.WithOllamaHTTPClient(hc)), nil
	case config.BackendAnthropic:
		opts := []llm.AnthropicOption{
			llm.WithAnthropicModel(cfg.Anthropic.Model),
			llm.WithAnthropicHTTPClient(hc),
		}
		if cfg.Anthropic.APIKey != "" {
			opts = append(opts, llm.WithAnthropicAPIKey(cfg.Anthropic.APIKey))
		}
		return llm.NewAnthropicBackend(opts...), nil
	case config.BackendOpenAICompat:
		opts := []llm.OpenAICompatOption{llm.WithOpenAICompatHTTPClient(hc)}
		if cfg.OpenAICompat.APIKey != "" {
			opts = append(opts, llm.WithOpenAICompatAPIKey(cfg.OpenAICompat.APIKey))
		}
		return llm.NewOpenAICompatBackend(cfg.OpenAICompat.Endpoint, cfg.OpenAICompat.Model, opts...), nil
	case config.BackendGemini:
		opts := []llm.GeminiOption{
			llm.WithGeminiModel(cfg.Gemini.Model),
			llm.WithGeminiHTTPClient(hc),
		}
		if cfg.Gemini.APIKey != "" {
			opts = append(opts, llm.WithGeminiAPIKey(cfg.Gemini.APIKey))
		}
		if cfg.Gemini.BaseURL != "" {
			opts = append(opts, llm.WithGeminiBaseURL(cfg.Gemini.BaseURL))
		}
		b, err := llm.NewGeminiBackend(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("creating gemini backend: %w", err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown llm backend %q", cfg.Backend)
	}
}

// newRouter builds the echo server with middleware, operational endpoints
// and the huma API.
func newRouter(c *components, log *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(
		middleware.Tracing(nil, nil),
		middleware.RequestLog(log),
		middleware.Metrics(),
		middleware.Recovery(log),
	)

	health := handlers.NewHealthHandler(c.readiness...)
	e.GET("/healthz", health.Healthz)
	e.GET("/readyz", health.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := humaecho.New(e, huma.DefaultConfig("BluBerry", Version))
	handlers.RegisterPriceRoutes(api, handlers.NewPriceHandler(c.service, log))
	handlers.RegisterItemRoutes(api, handlers.NewItemsHandler(c.store))
	handlers.RegisterStatusRoutes(api, handlers.NewStatusHandler(c.service, c.limiter))

	return e
}

// newNotifier returns the Discord notifier when enabled, otherwise a
// notifier that only logs.
func newNotifier(cfg *config.NotificationsConfig, log *slog.Logger) notify.Notifier {
	if cfg.Discord.Enabled {
		log.Info("discord notifications enabled")
		return notify.NewDiscordNotifier(cfg.Discord.WebhookURL,
			notify.WithHTTPClient(&http.Client{Timeout: 10 * time.Second}),
		)
	}
	return notify.NewNoOpNotifier(log)
}

// newScheduler registers the housekeeping jobs that apply to c.
func newScheduler(c *components, cfg *config.ScheduleConfig, log *slog.Logger) (*scheduler.Scheduler, error) {
	jobs := []scheduler.Job{
		scheduler.BreakerGaugesJob(c.service.Breaker(), c.notifier, breakerGaugeInterval),
	}
	if p, ok := c.cache.(scheduler.Pruner); ok {
		jobs = append(jobs, scheduler.CachePruneJob(p, cfg.CachePruneInterval))
	}
	if c.analytics != nil && c.limiter != nil {
		jobs = append(jobs, scheduler.QuotaSyncJob(c.analytics, c.limiter, cfg.QuotaSyncInterval))
	}

	s, err := scheduler.New(log, jobs...)
	if err != nil {
		return nil, fmt.Errorf("creating scheduler: %w", err)
	}
	return s, nil
}
