package rules

// RecordingRules returns the pre-computed rates the dashboard and the alert
// rules read.
func RecordingRules() PrometheusRule {
	return newResource("recording-rules", "recording",
		record("http_requests:rate5m",
			`sum(rate(bluberry_http_requests_total[5m]))`),
		record("http_errors:rate5m",
			`sum(rate(bluberry_http_requests_total{status=~"5.."}[5m]))`),
		record("ebay_api_calls:rate5m",
			`rate(bluberry_ebay_api_calls_total[5m])`),
		record("estimates:rate5m",
			`sum by (source) (rate(bluberry_estimates_total[5m]))`),
		record("estimation_stage_failures:rate5m",
			`sum by (stage, reason) (rate(bluberry_estimation_stage_failures_total[5m]))`),
		record("estimation_stage_duration:p95_5m",
			`histogram_quantile(0.95, sum by (le, stage) (rate(bluberry_estimation_stage_duration_seconds_bucket[5m])))`),
		record("cache_hit_ratio:5m",
			`sum(rate(bluberry_cache_hits_total[5m])) / (sum(rate(bluberry_cache_hits_total[5m])) + sum(rate(bluberry_cache_misses_total[5m])))`),
	)
}
