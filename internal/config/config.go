// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// LLM backend names.
const (
	BackendOllama       = "ollama"
	BackendAnthropic    = "anthropic"
	BackendOpenAICompat = "openai_compat"
	BackendGemini       = "gemini"
	BackendNone         = "none"
)

// Cache backend names.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

var llmBackends = []string{BackendOllama, BackendAnthropic, BackendOpenAICompat, BackendGemini, BackendNone}

// Config is the top-level application configuration.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Ebay          EbayConfig          `yaml:"ebay"`
	LLM           LLMConfig           `yaml:"llm"`
	Estimation    EstimationConfig    `yaml:"estimation"`
	Schedule      ScheduleConfig      `yaml:"schedule"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Tracing       TracingConfig       `yaml:"tracing"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DatabaseConfig defines PostgreSQL connection settings. An empty host
// disables persistence.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	PoolSize int    `yaml:"pool_size"`
}

// Enabled reports whether persistence is configured.
func (d *DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

// DSN returns a PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		d.Host, d.Port, d.Name, d.User, d.Password, d.SSLMode,
	)
}

// EbayConfig defines eBay API settings. Without app_id and cert_id the
// marketplace stage is disabled.
type EbayConfig struct {
	AppID        string          `yaml:"app_id"`
	CertID       string          `yaml:"cert_id"`
	TokenURL     string          `yaml:"token_url"`
	BrowseURL    string          `yaml:"browse_url"`
	AnalyticsURL string          `yaml:"analytics_url"`
	Marketplace  string          `yaml:"marketplace"`
	MaxResults   int             `yaml:"max_results"`
	RateLimit    RateLimitConfig `yaml:"rate_limit"`
}

// Enabled reports whether eBay credentials are configured.
func (e *EbayConfig) Enabled() bool {
	return e.AppID != "" && e.CertID != ""
}

// RateLimitConfig defines eBay API rate limiting settings.
type RateLimitConfig struct {
	PerSecond  float64 `yaml:"per_second"`
	Burst      int     `yaml:"burst"`
	DailyLimit int64   `yaml:"daily_limit"`
}

// LLMConfig defines LLM backend settings.
type LLMConfig struct {
	Backend      string             `yaml:"backend"` // ollama, anthropic, openai_compat, gemini, none
	Ollama       OllamaConfig       `yaml:"ollama"`
	Anthropic    AnthropicConfig    `yaml:"anthropic"`
	OpenAICompat OpenAICompatConfig `yaml:"openai_compat"`
	Gemini       GeminiConfig       `yaml:"gemini"`
	Timeout      time.Duration      `yaml:"timeout"`
	Temperature  float64            `yaml:"temperature"`
	MaxTokens    int                `yaml:"max_tokens"`
}

// Enabled reports whether an LLM backend is configured.
func (l *LLMConfig) Enabled() bool {
	return l.Backend != BackendNone
}

// OllamaConfig defines Ollama-specific settings.
type OllamaConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
}

// AnthropicConfig defines Anthropic API settings. The key comes from
// ANTHROPIC_API_KEY when empty.
type AnthropicConfig struct {
	Model  string `yaml:"model"`
	APIKey string `yaml:"api_key"`
}

// OpenAICompatConfig defines OpenAI-compatible endpoint settings.
type OpenAICompatConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`
}

// GeminiConfig defines Gemini API settings. The key comes from
// GEMINI_API_KEY when empty.
type GeminiConfig struct {
	Model   string `yaml:"model"`
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

// EstimationConfig tunes the estimation cascade.
type EstimationConfig struct {
	CacheTTL       time.Duration `yaml:"cache_ttl"`
	CacheBackend   string        `yaml:"cache_backend"` // memory, redis
	Redis          RedisConfig   `yaml:"redis"`
	Breaker        BreakerConfig `yaml:"breaker"`
	StageTimeout   time.Duration `yaml:"stage_timeout"`
	PersistTimeout time.Duration `yaml:"persist_timeout"`
	MaxComparables int           `yaml:"max_comparables"`
	CategoriesFile string        `yaml:"categories_file"`
	BlockedTerms   []string      `yaml:"blocked_terms"`
	Seed           *uint64       `yaml:"seed"`
}

// RedisConfig defines the shared cache connection.
type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

// BreakerConfig defines circuit breaker thresholds.
type BreakerConfig struct {
	MaxFailures  int           `yaml:"max_failures"`
	ResetTimeout time.Duration `yaml:"reset_timeout"`
}

// ScheduleConfig defines housekeeping intervals.
type ScheduleConfig struct {
	CachePruneInterval time.Duration `yaml:"cache_prune_interval"`
	QuotaSyncInterval  time.Duration `yaml:"quota_sync_interval"`
}

// NotificationsConfig defines notification targets.
type NotificationsConfig struct {
	Discord DiscordConfig `yaml:"discord"`
}

// DiscordConfig defines Discord webhook settings.
type DiscordConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// TracingConfig defines OpenTelemetry export settings.
type TracingConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Endpoint    string  `yaml:"endpoint"`
	Insecure    bool    `yaml:"insecure"`
	ServiceName string  `yaml:"service_name"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML config content, expanding environment variables,
// applying defaults and validating the result.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns a configuration with every default applied: no database,
// no eBay credentials, no LLM and the in-memory cache.
func Default() *Config {
	cfg := &Config{LLM: LLMConfig{Backend: BackendNone}}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyDatabaseDefaults(&cfg.Database)
	applyEbayDefaults(&cfg.Ebay)
	applyLLMDefaults(&cfg.LLM)
	applyEstimationDefaults(&cfg.Estimation)
	applyScheduleDefaults(&cfg.Schedule)
	applyTracingDefaults(&cfg.Tracing)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 60 * time.Second
	}
}

func applyDatabaseDefaults(d *DatabaseConfig) {
	if d.Port == 0 {
		d.Port = 5432
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	if d.PoolSize == 0 {
		d.PoolSize = 10
	}
}

func applyEbayDefaults(e *EbayConfig) {
	if e.TokenURL == "" {
		e.TokenURL = "https://api.ebay.com/identity/v1/oauth2/token"
	}
	if e.BrowseURL == "" {
		e.BrowseURL = "https://api.ebay.com/buy/browse/v1/item_summary/search"
	}
	if e.AnalyticsURL == "" {
		e.AnalyticsURL = "https://api.ebay.com/developer/analytics/v1_beta/rate_limit/"
	}
	if e.Marketplace == "" {
		e.Marketplace = "EBAY_US"
	}
	if e.MaxResults == 0 {
		e.MaxResults = 20
	}
	applyRateLimitDefaults(&e.RateLimit)
}

func applyRateLimitDefaults(r *RateLimitConfig) {
	if r.PerSecond == 0 {
		r.PerSecond = 5.0
	}
	if r.Burst == 0 {
		r.Burst = 10
	}
	if r.DailyLimit == 0 {
		r.DailyLimit = 5000
	}
}

func applyLLMDefaults(l *LLMConfig) {
	if l.Backend == "" {
		l.Backend = BackendOllama
	}
	if l.Ollama.Model == "" {
		l.Ollama.Model = "mistral:7b-instruct"
	}
	if l.Anthropic.Model == "" {
		l.Anthropic.Model = "claude-haiku-4-5"
	}
	if l.Gemini.Model == "" {
		l.Gemini.Model = "gemini-2.5-flash-lite"
	}
	if l.Timeout == 0 {
		l.Timeout = 30 * time.Second
	}
	if l.Temperature == 0 {
		l.Temperature = 0.2
	}
	if l.MaxTokens == 0 {
		l.MaxTokens = 512
	}
}

func applyEstimationDefaults(e *EstimationConfig) {
	if e.CacheTTL == 0 {
		e.CacheTTL = 6 * time.Hour
	}
	if e.CacheBackend == "" {
		e.CacheBackend = CacheMemory
	}
	if e.Redis.KeyPrefix == "" {
		e.Redis.KeyPrefix = "bluberry:estimate:"
	}
	if e.Breaker.MaxFailures == 0 {
		e.Breaker.MaxFailures = 3
	}
	if e.Breaker.ResetTimeout == 0 {
		e.Breaker.ResetTimeout = 5 * time.Minute
	}
	if e.StageTimeout == 0 {
		e.StageTimeout = 8 * time.Second
	}
	if e.PersistTimeout == 0 {
		e.PersistTimeout = 5 * time.Second
	}
	if e.MaxComparables == 0 {
		e.MaxComparables = 10
	}
}

func applyScheduleDefaults(s *ScheduleConfig) {
	if s.CachePruneInterval == 0 {
		s.CachePruneInterval = 10 * time.Minute
	}
	if s.QuotaSyncInterval == 0 {
		s.QuotaSyncInterval = 15 * time.Minute
	}
}

func applyTracingDefaults(t *TracingConfig) {
	if t.Endpoint == "" {
		t.Endpoint = "localhost:4317"
	}
	if t.ServiceName == "" {
		t.ServiceName = "bluberry"
	}
	if t.SampleRatio == 0 {
		t.SampleRatio = 1.0
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Database.Enabled() {
		if cfg.Database.Name == "" {
			errs = append(errs, errors.New("database.name is required when database.host is set"))
		}
		if cfg.Database.User == "" {
			errs = append(errs, errors.New("database.user is required when database.host is set"))
		}
	}

	if (cfg.Ebay.AppID == "") != (cfg.Ebay.CertID == "") {
		errs = append(errs, errors.New("ebay.app_id and ebay.cert_id must be set together"))
	}

	errs = append(errs, validateLLM(&cfg.LLM)...)
	errs = append(errs, validateEstimation(&cfg.Estimation)...)

	if cfg.Notifications.Discord.Enabled && cfg.Notifications.Discord.WebhookURL == "" {
		errs = append(errs, errors.New("notifications.discord.webhook_url is required when discord is enabled"))
	}

	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1 {
		errs = append(errs, fmt.Errorf("tracing.sample_ratio must be in [0, 1] (got %v)", cfg.Tracing.SampleRatio))
	}

	return errors.Join(errs...)
}

func validateLLM(l *LLMConfig) []error {
	var errs []error

	switch l.Backend {
	case BackendOllama:
		if l.Ollama.Endpoint == "" {
			errs = append(errs, errors.New("llm.ollama.endpoint is required when backend is ollama"))
		}
	case BackendOpenAICompat:
		if l.OpenAICompat.Endpoint == "" {
			errs = append(errs, errors.New("llm.openai_compat.endpoint is required when backend is openai_compat"))
		}
		if l.OpenAICompat.Model == "" {
			errs = append(errs, errors.New("llm.openai_compat.model is required when backend is openai_compat"))
		}
	case BackendAnthropic, BackendGemini, BackendNone:
		// API keys come from the environment when not set here.
	default:
		errs = append(errs, fmt.Errorf(
			"llm.backend must be one of: %v (got %q)", llmBackends, l.Backend,
		))
	}

	if l.Temperature < 0 || l.Temperature > 2 {
		errs = append(errs, fmt.Errorf("llm.temperature must be in [0, 2] (got %v)", l.Temperature))
	}

	return errs
}

func validateEstimation(e *EstimationConfig) []error {
	var errs []error

	if !slices.Contains([]string{CacheMemory, CacheRedis}, e.CacheBackend) {
		errs = append(errs, fmt.Errorf(
			"estimation.cache_backend must be memory or redis (got %q)", e.CacheBackend,
		))
	}
	if e.CacheBackend == CacheRedis && e.Redis.Addr == "" {
		errs = append(errs, errors.New("estimation.redis.addr is required when cache_backend is redis"))
	}
	if e.CacheTTL < 0 {
		errs = append(errs, errors.New("estimation.cache_ttl must be positive"))
	}
	if e.Breaker.MaxFailures < 1 {
		errs = append(errs, errors.New("estimation.breaker.max_failures must be at least 1"))
	}
	if e.MaxComparables < 3 {
		errs = append(errs, fmt.Errorf(
			"estimation.max_comparables must be at least 3 (got %d)", e.MaxComparables,
		))
	}

	return errs
}
