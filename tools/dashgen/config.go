package main

import "errors"

// KnownMetrics is the set of metric names exported by bluberry plus
// recording rule names referenced in dashboards and alerts.
var KnownMetrics = map[string]bool{
	// HTTP metrics.
	"bluberry_http_request_duration_seconds": true,
	"bluberry_http_requests_total":           true,
	"bluberry_http_panics_total":             true,

	// Health metrics.
	"bluberry_healthz_up": true,
	"bluberry_readyz_up":  true,

	// Estimation metrics.
	"bluberry_estimates_total":                   true,
	"bluberry_estimation_stage_duration_seconds": true,
	"bluberry_estimation_stage_failures_total":   true,
	"bluberry_content_filter_hits_total":         true,
	"bluberry_estimate_persist_failures_total":   true,

	// Cache and circuit breaker metrics.
	"bluberry_cache_hits_total":               true,
	"bluberry_cache_misses_total":             true,
	"bluberry_cache_entries":                  true,
	"bluberry_cache_pruned_total":             true,
	"bluberry_circuit_breaker_open":           true,
	"bluberry_circuit_breaker_failures_total": true,

	// eBay API metrics.
	"bluberry_ebay_api_calls_total":        true,
	"bluberry_ebay_daily_usage":            true,
	"bluberry_ebay_daily_limit_hits_total": true,
	"bluberry_ebay_token_refreshes_total":  true,

	// LLM metrics.
	"bluberry_llm_request_duration_seconds": true,
	"bluberry_llm_parse_failures_total":     true,

	// Scheduler metrics.
	"bluberry_scheduler_job_runs_total":             true,
	"bluberry_scheduler_job_duration_seconds":       true,
	"bluberry_scheduler_next_run_timestamp_seconds": true,

	// Notification metrics.
	"bluberry_notification_duration_seconds": true,
	"bluberry_notification_failures_total":   true,

	// Recording rules.
	"bluberry:http_requests:rate5m":             true,
	"bluberry:http_errors:rate5m":               true,
	"bluberry:ebay_api_calls:rate5m":            true,
	"bluberry:estimates:rate5m":                 true,
	"bluberry:estimation_stage_failures:rate5m": true,
	"bluberry:estimation_stage_duration:p95_5m": true,
	"bluberry:cache_hit_ratio:5m":               true,

	// Standard Prometheus metrics referenced in dashboards.
	"up":                         true,
	"process_start_time_seconds": true,
}

// Config controls which artifacts the generator produces and where they go.
type Config struct {
	OutputDir        string
	DashboardEnabled bool
	RulesEnabled     bool
}

// DefaultConfig returns a Config that generates all artifacts into ../../deploy
// (relative to tools/dashgen/).
func DefaultConfig() Config {
	return Config{
		OutputDir:        "../../deploy",
		DashboardEnabled: true,
		RulesEnabled:     true,
	}
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output directory must be set")
	}
	if !c.DashboardEnabled && !c.RulesEnabled {
		return errors.New("at least one of dashboard or rules must be enabled")
	}
	return nil
}
