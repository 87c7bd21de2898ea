package rules

// AlertRules returns the operational alerts for bluberry.
func AlertRules() PrometheusRule {
	return newResource("alerts", "alerts",
		alert("Down", SeverityCritical, "2m",
			`absent(up{job="bluberry"})`,
			"BluBerry is down",
			"The bluberry job has been absent for more than 2 minutes."),
		alert("ReadinessDown", SeverityCritical, "2m",
			`bluberry_readyz_up == 0`,
			"BluBerry readiness check is failing",
			"A required dependency (database or cache) has been unreachable for more than 2 minutes."),
		alert("HighErrorRate", SeverityWarning, "5m",
			`bluberry:http_errors:rate5m / bluberry:http_requests:rate5m > 0.05`,
			"High HTTP error rate on BluBerry",
			"More than 5% of HTTP requests are returning 5xx errors over the last 5 minutes."),
		alert("BreakerOpen", SeverityWarning, "10m",
			`max by (service) (bluberry_circuit_breaker_open) == 1`,
			"Circuit breaker open for {{ $labels.service }}",
			"Estimates are skipping {{ $labels.service }} and falling back to later stages."),
		alert("LocalFallbackHigh", SeverityWarning, "15m",
			`sum(bluberry:estimates:rate5m{source="local"}) / sum(bluberry:estimates:rate5m) > 0.5`,
			"Most estimates come from the local heuristic",
			"More than half of estimates over 15 minutes were produced without marketplace or LLM data."),
		alert("EbayQuotaHigh", SeverityWarning, "5m",
			`bluberry_ebay_daily_usage > 4000`,
			"eBay API daily usage is above 80% of the quota",
			"Daily eBay API usage has exceeded 4000 calls (limit is 5000)."),
		alert("EbayLimitReached", SeverityCritical, "0m",
			`increase(bluberry_ebay_daily_limit_hits_total[5m]) > 0`,
			"eBay API daily limit has been reached",
			"The eBay Browse API daily quota has been exhausted. Marketplace lookups are skipped until reset."),
		alert("LLMParseFailures", SeverityWarning, "5m",
			`increase(bluberry_llm_parse_failures_total[15m]) > 10`,
			"LLM responses are failing to parse",
			"More than 10 LLM pricing answers in 15 minutes did not contain a usable price."),
		alert("PersistFailures", SeverityWarning, "5m",
			`increase(bluberry_estimate_persist_failures_total[5m]) > 0`,
			"Estimates are not being stored",
			"Writing estimates to PostgreSQL has been failing for more than 5 minutes."),
		alert("NotificationFailures", SeverityWarning, "1m",
			`increase(bluberry_notification_failures_total[5m]) > 0`,
			"Notification delivery failures detected",
			"One or more breaker notifications (Discord webhooks) have failed to send."),
	)
}
